package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/tool"
	types "github.com/fatflowers/community/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Change describes one mutation of a subscription.
type Change struct {
	EventID  string
	EventAt  time.Time
	Reason   types.SubscriptionChangeReason
	// Terminal changes (cancellation) are applied regardless of event order.
	Terminal bool
	Mutate   func(*models.Subscription)
}

// Apply mutates sub inside tx unless a newer event was already applied to
// it. It returns false for a stale change, which leaves the row untouched.
// Terminal changes skip that check and never move LastEventAt backwards.
// Every applied change is logged with before/after snapshots in the same tx.
func (s *Service) Apply(ctx context.Context, tx *gorm.DB, sub *models.Subscription, c Change) (bool, error) {
	if !c.Terminal && !sub.AcceptsEventAt(c.EventAt) {
		logctx.FromCtx(ctx, s.log).Infow("skip stale subscription change",
			"subscription_id", sub.ID, "event_id", c.EventID, "event_at", c.EventAt, "last_event_at", sub.LastEventAt)
		return false, nil
	}

	before := *sub
	c.Mutate(sub)
	if sub.AcceptsEventAt(c.EventAt) {
		eventAt := c.EventAt
		sub.LastEventAt = &eventAt
	}

	if err := tx.WithContext(ctx).Save(sub).Error; err != nil {
		return false, fmt.Errorf("failed to update subscription %s: %w", sub.ID, err)
	}
	if err := s.record(ctx, tx, &before, sub, c.Reason, c.EventID); err != nil {
		return false, err
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription changed, id=%s, reason=%s, status=%s->%s", sub.ID, c.Reason, before.Status, sub.Status)
	return true, nil
}

// record writes the audit row of one change; before is nil for a new row.
func (s *Service) record(ctx context.Context, tx *gorm.DB, before, after *models.Subscription, reason types.SubscriptionChangeReason, eventID string) error {
	log := &models.SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: after.ID,
		UserID:         after.UserID,
		Reason:         reason,
		GatewayEventID: eventID,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
	}
	if err := tx.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to save subscription log: %w", err)
	}
	return nil
}

// ensureMembership adds the user to the plan's community if not yet a member.
func ensureMembership(ctx context.Context, tx *gorm.DB, communityID, userID string, at time.Time) error {
	m := &models.Membership{
		ID:          tool.GenerateUUIDV7(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        models.MemberRoleMember,
		JoinedAt:    at,
	}
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}
	return nil
}

// JoinFree subscribes the user to a free plan. Joining a plan the user is
// already active on returns the existing subscription.
func (s *Service) JoinFree(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	var sub *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.Where("id = ?", planID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("plan %s not found", planID)
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if !plan.IsFree() {
			return apperr.Validation("plan %s requires payment", planID)
		}

		var existing models.Subscription
		err := tx.Where("user_id = ? AND plan_id = ?", userID, planID).Order("created_at desc").First(&existing).Error
		switch {
		case err == nil && existing.Active():
			sub = &existing
			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to load subscription: %w", err)
		}

		now := time.Now().UTC()
		sub = &models.Subscription{
			ID:        tool.GenerateUUIDV7(),
			UserID:    userID,
			PlanID:    plan.ID,
			Status:    types.SubscriptionStatusActive,
			StartDate: now,
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := s.record(ctx, tx, nil, sub, types.SubscriptionChangeReasonFreeJoin, ""); err != nil {
			return err
		}
		return ensureMembership(ctx, tx, plan.CommunityID, userID, now)
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infof("user joined free plan, user_id=%s, plan_id=%s, subscription_id=%s", userID, planID, sub.ID)
	return sub, nil
}

// Binding is a gateway subscription observed for the first time.
type Binding struct {
	UserID               string
	Plan                 *models.Plan
	StripeSubscriptionID string
	Status               types.SubscriptionStatus
	EndDate              *time.Time
	EventID              string
	EventAt              time.Time
}

// Bind creates the local row for a gateway subscription inside tx. It returns
// false with the existing row when the pair is already bound.
func (s *Service) Bind(ctx context.Context, tx *gorm.DB, b Binding) (*models.Subscription, bool, error) {
	var existing models.Subscription
	err := tx.WithContext(ctx).
		Where("user_id = ? AND stripe_subscription_id = ?", b.UserID, b.StripeSubscriptionID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load subscription: %w", err)
	}

	eventAt := b.EventAt
	sub := &models.Subscription{
		ID:                   tool.GenerateUUIDV7(),
		UserID:               b.UserID,
		PlanID:               b.Plan.ID,
		Status:               b.Status,
		StartDate:            eventAt,
		EndDate:              b.EndDate,
		StripeSubscriptionID: lo.ToPtr(b.StripeSubscriptionID),
		LastEventAt:          &eventAt,
	}
	if err := tx.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create subscription: %w", err)
	}
	if err := s.record(ctx, tx, nil, sub, types.SubscriptionChangeReasonGatewayCreate, b.EventID); err != nil {
		return nil, false, err
	}
	if err := ensureMembership(ctx, tx, b.Plan.CommunityID, b.UserID, eventAt); err != nil {
		return nil, false, err
	}
	logctx.FromCtx(ctx, s.log).Infof("subscription bound, id=%s, stripe_subscription_id=%s", sub.ID, b.StripeSubscriptionID)
	return sub, true, nil
}

// Cancel ends a free subscription on the owner's request. Gateway-bound
// subscriptions end through the gateway, which reports back a deletion.
func (s *Service) Cancel(ctx context.Context, userID, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", subscriptionID).First(&sub).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("subscription %s not found", subscriptionID)
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if sub.UserID != userID {
			return apperr.Forbidden("not your subscription")
		}
		if sub.Status.Churned() {
			return apperr.Validation("subscription is already %s", sub.Status)
		}
		if sub.StripeSubscriptionID != nil {
			return apperr.Validation("paid subscriptions are canceled through the billing portal")
		}
		now := time.Now().UTC()
		_, err = s.Apply(ctx, tx, &sub, Change{
			EventAt:  now,
			Reason:   types.SubscriptionChangeReasonUserCancel,
			Terminal: true,
			Mutate: func(m *models.Subscription) {
				m.Status = types.SubscriptionStatusCanceled
				m.EndDate = &now
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListForUser returns the user's subscriptions, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	items := make([]*models.Subscription, 0)
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return items, nil
}

// Logs returns the change history of one subscription, oldest first.
func (s *Service) Logs(ctx context.Context, subscriptionID string) ([]*models.SubscriptionLog, error) {
	var items []*models.SubscriptionLog
	if err := s.db.WithContext(ctx).Where("subscription_id = ?", subscriptionID).Order("created_at asc").Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscription logs: %w", err)
	}
	return items, nil
}
