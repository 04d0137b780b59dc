package billing

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/types"
)

// gatewayStatus maps the gateway's subscription status onto the local enum.
func gatewayStatus(s string) (types.SubscriptionStatus, bool) {
	switch s {
	case "active":
		return types.SubscriptionStatusActive, true
	case "trialing":
		return types.SubscriptionStatusTrialing, true
	case "past_due", "unpaid", "incomplete", "paused":
		return types.SubscriptionStatusPastDue, true
	case "canceled":
		return types.SubscriptionStatusCanceled, true
	case "incomplete_expired":
		return types.SubscriptionStatusExpired, true
	default:
		return "", false
	}
}

// subscriptionCreated binds a new gateway subscription to the customer's
// user and the plan of its price. Replays return the existing row.
func (r *Reconciler) subscriptionCreated(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	gs, err := stripeevent.DecodeSubscription(evt.Object)
	if err != nil {
		return nil, err
	}
	if gs.ID == "" {
		return ignored("subscription id missing"), nil
	}
	user, err := findUserByCustomer(ctx, tx, string(gs.Customer))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return ignored("user not found for customer %q", gs.Customer), nil
	}
	priceID := gs.PriceID()
	if priceID == "" {
		return ignored("subscription %q has no price", gs.ID), nil
	}
	var plan models.Plan
	if err := tx.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		if isNotFound(err) {
			return ignored("no plan for price %q", priceID), nil
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	status, known := gatewayStatus(gs.Status)
	if !known {
		status = types.SubscriptionStatusPastDue
	}
	sub, created, err := r.subs.Bind(ctx, tx, subscription.Binding{
		UserID:               user.ID,
		Plan:                 &plan,
		StripeSubscriptionID: gs.ID,
		Status:               status,
		EndDate:              gs.PeriodEnd(),
		EventID:              evt.ID,
		EventAt:              evt.Created,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &result{outcome: outcomeHandled, reason: "already bound", subscriptionID: []string{sub.ID}}, nil
	}
	return &result{outcome: outcomeHandled, subscriptionID: []string{sub.ID}}, nil
}

// subscriptionUpdated overwrites status, plan and period end of an existing
// local subscription. Unknown subscriptions are never created here.
func (r *Reconciler) subscriptionUpdated(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	lg := logctx.FromCtx(ctx, r.log).With("event_id", evt.ID)
	gs, err := stripeevent.DecodeSubscription(evt.Object)
	if err != nil {
		return nil, err
	}
	if gs.ID == "" {
		return ignored("subscription id missing"), nil
	}

	var sub models.Subscription
	if err := tx.WithContext(ctx).
		Where("stripe_subscription_id = ?", gs.ID).
		Order("created_at ASC").
		First(&sub).Error; err != nil {
		if isNotFound(err) {
			return ignored("subscription %q not found", gs.ID), nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	planID := sub.PlanID
	if priceID := gs.PriceID(); priceID != "" {
		var plan models.Plan
		err := tx.WithContext(ctx).Where("stripe_price_id = ?", priceID).First(&plan).Error
		switch {
		case err == nil:
			planID = plan.ID
		case isNotFound(err):
			lg.Warnw("no plan for gateway price, keeping current plan", "price_id", priceID, "plan_id", sub.PlanID)
		default:
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
	}

	status, known := gatewayStatus(gs.Status)
	if !known {
		lg.Warnw("unknown gateway subscription status, keeping current status", "status", gs.Status, "subscription_id", sub.ID)
	}

	changed, err := r.change(ctx, tx, &sub, evt, types.SubscriptionChangeReasonGatewayUpdate, func(s *models.Subscription) {
		if known {
			s.Status = status
		}
		s.PlanID = planID
		if end := gs.PeriodEnd(); end != nil {
			s.EndDate = end
		}
	})
	if err != nil {
		return nil, err
	}
	return &result{outcome: outcomeHandled, subscriptionID: []string{sub.ID}, stale: !changed}, nil
}

// subscriptionDeleted cancels every local row bound to the gateway subscription.
func (r *Reconciler) subscriptionDeleted(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	gs, err := stripeevent.DecodeSubscription(evt.Object)
	if err != nil {
		return nil, err
	}
	if gs.ID == "" {
		return ignored("subscription id missing"), nil
	}

	var subs []*models.Subscription
	if err := tx.WithContext(ctx).Where("stripe_subscription_id = ?", gs.ID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return ignored("subscription %q not found", gs.ID), nil
	}

	endedAt := gs.EndedAtOrCanceledAt()
	if endedAt == nil {
		endedAt = lo.ToPtr(evt.Created)
	}

	res := &result{outcome: outcomeHandled}
	for _, sub := range subs {
		if sub.Status == types.SubscriptionStatusCanceled {
			continue
		}
		// deletion is terminal and ignores event order
		_, err := r.subs.Apply(ctx, tx, sub, subscription.Change{
			EventID:  evt.ID,
			EventAt:  evt.Created,
			Reason:   types.SubscriptionChangeReasonGatewayDelete,
			Terminal: true,
			Mutate: func(s *models.Subscription) {
				s.Status = types.SubscriptionStatusCanceled
				s.EndDate = endedAt
			},
		})
		if err != nil {
			return nil, err
		}
		res.subscriptionID = append(res.subscriptionID, sub.ID)
		res.notify = append(res.notify, notificationForCancel(sub))
	}
	return res, nil
}
