package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/tool"
	"github.com/fatflowers/community/pkg/types"
)

// paymentSucceeded records the payment and reactivates the subscription.
// Both the user and the subscription must exist locally.
func (r *Reconciler) paymentSucceeded(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	inv, err := stripeevent.DecodeInvoice(evt.Object)
	if err != nil {
		return nil, err
	}
	user, err := findUserByCustomer(ctx, tx, string(inv.Customer))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return ignored("user not found for customer %q", inv.Customer), nil
	}
	sub, err := findSubscription(ctx, tx, user.ID, inv.SubscriptionID())
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return ignored("subscription %q not found for user %s", inv.SubscriptionID(), user.ID), nil
	}

	paidAt := stripeevent.Timestamp(inv.StatusTransitions.PaidAt)
	if paidAt == nil {
		paidAt = lo.ToPtr(evt.Created)
	}
	payment := &models.Payment{
		ID:             tool.GenerateUUIDV7(),
		UserID:         user.ID,
		SubscriptionID: lo.ToPtr(sub.ID),
		PlanID:         lo.ToPtr(sub.PlanID),
		Amount:         inv.AmountPaid,
		Currency:       inv.Currency,
		GatewayID:      inv.ID,
		GatewayEventID: evt.ID,
		Status:         types.PaymentStatusSucceeded,
		PaidAt:         paidAt,
	}
	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	res := &result{outcome: outcomeHandled, paymentID: payment.ID, subscriptionID: []string{sub.ID}}
	changed, err := r.change(ctx, tx, sub, evt, types.SubscriptionChangeReasonPaymentSucceeded, func(s *models.Subscription) {
		s.Status = types.SubscriptionStatusActive
		if end := inv.PeriodEnd(); end != nil {
			s.EndDate = end
		}
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		logctx.FromCtx(ctx, r.log).Warnw("stale event, subscription left untouched", "event_id", evt.ID, "subscription_id", sub.ID)
		res.stale = true
	}

	res.notify = append(res.notify, paymentNotification(types.NotificationTypePaymentSucceeded, payment))
	return res, nil
}

// paymentFailed records the failed attempt even when no subscription is
// linked, and moves a linked subscription to the reported status or past_due.
func (r *Reconciler) paymentFailed(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	inv, err := stripeevent.DecodeInvoice(evt.Object)
	if err != nil {
		return nil, err
	}
	user, err := findUserByCustomer(ctx, tx, string(inv.Customer))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return ignored("user not found for customer %q", inv.Customer), nil
	}
	sub, err := findSubscription(ctx, tx, user.ID, inv.SubscriptionID())
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:             tool.GenerateUUIDV7(),
		UserID:         user.ID,
		Amount:         inv.AmountDue,
		Currency:       inv.Currency,
		GatewayID:      inv.ID,
		GatewayEventID: evt.ID,
		Status:         types.PaymentStatusFailed,
	}
	if sub != nil {
		payment.SubscriptionID = lo.ToPtr(sub.ID)
		payment.PlanID = lo.ToPtr(sub.PlanID)
	}
	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	res := &result{outcome: outcomeHandled, paymentID: payment.ID}
	if sub != nil {
		res.subscriptionID = []string{sub.ID}
		status, err := types.ParseSubscriptionStatus(inv.Status)
		if err != nil {
			status = types.SubscriptionStatusPastDue
		}
		changed, err := r.change(ctx, tx, sub, evt, types.SubscriptionChangeReasonPaymentFailed, func(s *models.Subscription) {
			s.Status = status
		})
		if err != nil {
			return nil, err
		}
		res.stale = !changed
	}

	res.notify = append(res.notify, paymentNotification(types.NotificationTypePaymentFailed, payment))
	return res, nil
}

func paymentNotification(t types.NotificationType, p *models.Payment) notification.CreateInput {
	return notification.CreateInput{
		UserID:            p.UserID,
		Type:              t,
		RelatedEntityType: lo.ToPtr("payment"),
		RelatedEntityID:   lo.ToPtr(p.ID),
		Data: map[string]any{
			"amount":   p.AmountMajor(),
			"currency": p.Currency,
			"invoice":  p.GatewayID,
		},
	}
}

func findUserByCustomer(ctx context.Context, tx *gorm.DB, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, nil
	}
	var user models.User
	if err := tx.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user by customer: %w", err)
	}
	return &user, nil
}

func findSubscription(ctx context.Context, tx *gorm.DB, userID, gatewaySubscriptionID string) (*models.Subscription, error) {
	if gatewaySubscriptionID == "" {
		return nil, nil
	}
	var sub models.Subscription
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND stripe_subscription_id = ?", userID, gatewaySubscriptionID).
		First(&sub).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

func notificationForCancel(s *models.Subscription) notification.CreateInput {
	in := notification.CreateInput{
		UserID:            s.UserID,
		Type:              types.NotificationTypeSubscriptionCanceled,
		RelatedEntityType: lo.ToPtr("subscription"),
		RelatedEntityID:   lo.ToPtr(s.ID),
		Data:              map[string]any{"planId": s.PlanID},
	}
	if s.EndDate != nil {
		in.Data["endDate"] = s.EndDate.Format(time.RFC3339)
	}
	return in
}
