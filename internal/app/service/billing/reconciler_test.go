package billing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/db/dbtest"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/metrics"
	"github.com/fatflowers/community/pkg/types"
)

const testSecret = "whsec_test"

var (
	t0        = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	periodEnd = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	db  *gorm.DB
	r   *Reconciler
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	log := zap.NewNop().Sugar()
	m := metrics.NewNopBusiness()
	notifier := notification.NewService(db, log, nil, m)
	r := newReconciler(db, log, stripeevent.NewVerifier(testSecret, 0), subscription.NewService(db, log), notifier, m)
	return &fixture{db: db, r: r, ctx: context.Background()}
}

// seed creates user u1 (cus_1) with subscription s1 (sub_1) on plan p1 and a
// second plan p2 priced as price_2.
func (f *fixture) seed(t *testing.T, status types.SubscriptionStatus) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.User{ID: "u1", Username: "alice", Email: "a@example.com", Role: models.UserRoleUser, StripeCustomerID: lo.ToPtr("cus_1")}).Error)
	require.NoError(t, f.db.Create(&models.Plan{ID: "p1", CommunityID: "c1", Name: "Monthly", Price: 2900, Currency: "usd", Interval: types.PlanIntervalMonth, StripePriceID: lo.ToPtr("price_1")}).Error)
	require.NoError(t, f.db.Create(&models.Plan{ID: "p2", CommunityID: "c1", Name: "Yearly", Price: 29000, Currency: "usd", Interval: types.PlanIntervalYear, StripePriceID: lo.ToPtr("price_2")}).Error)
	require.NoError(t, f.db.Create(&models.Subscription{
		ID:                   "s1",
		UserID:               "u1",
		PlanID:               "p1",
		Status:               status,
		StartDate:            t0.Add(-30 * 24 * time.Hour),
		StripeSubscriptionID: lo.ToPtr("sub_1"),
	}).Error)
}

func (f *fixture) subscription(t *testing.T, id string) models.Subscription {
	t.Helper()
	var sub models.Subscription
	require.NoError(t, f.db.First(&sub, "id = ?", id).Error)
	return sub
}

func (f *fixture) payments(t *testing.T) []models.Payment {
	t.Helper()
	var rows []models.Payment
	require.NoError(t, f.db.Order("created_at").Find(&rows).Error)
	return rows
}

func (f *fixture) ledger(t *testing.T, id string) models.WebhookEvent {
	t.Helper()
	var row models.WebhookEvent
	require.NoError(t, f.db.First(&row, "id = ?", id).Error)
	return row
}

func event(t *testing.T, id, typ string, created time.Time, object any) *stripeevent.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return &stripeevent.Event{ID: id, Type: typ, Created: created, Object: raw}
}

func signedBody(t *testing.T, id, typ string, created time.Time, object any) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        typ,
		"created":     created.Unix(),
		"api_version": "2025-03-31.basil",
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: testSecret, Timestamp: time.Now()})
	return body, signed.Header
}

func succeededInvoice() map[string]any {
	return map[string]any{
		"id":                 "in_1",
		"object":             "invoice",
		"customer":           "cus_1",
		"subscription":       "sub_1",
		"amount_paid":        2900,
		"amount_due":         2900,
		"currency":           "usd",
		"status":             "paid",
		"status_transitions": map[string]any{"paid_at": t0.Unix()},
		"lines": map[string]any{"data": []any{
			map[string]any{"period": map[string]any{"start": t0.Unix(), "end": periodEnd.Unix()}},
		}},
	}
}

func TestHandleWebhook_PaymentSucceeded(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusPastDue)

	body, header := signedBody(t, "evt_1", stripeevent.TypeInvoicePaymentSucceeded, t0, succeededInvoice())
	require.NoError(t, f.r.HandleWebhook(f.ctx, body, header))

	payments := f.payments(t)
	require.Len(t, payments, 1)
	p := payments[0]
	require.Equal(t, types.PaymentStatusSucceeded, p.Status)
	require.EqualValues(t, 2900, p.Amount)
	require.InDelta(t, 29.00, p.AmountMajor(), 0.0001)
	require.Equal(t, "u1", p.UserID)
	require.Equal(t, "s1", *p.SubscriptionID)
	require.Equal(t, "p1", *p.PlanID)
	require.Equal(t, "in_1", p.GatewayID)
	require.True(t, p.PaidAt.Equal(t0))

	sub := f.subscription(t, "s1")
	require.Equal(t, types.SubscriptionStatusActive, sub.Status)
	require.True(t, sub.EndDate.Equal(periodEnd))

	require.Equal(t, models.WebhookEventStatusHandled, f.ledger(t, "evt_1").Status)

	var n models.Notification
	require.NoError(t, f.db.First(&n, "user_id = ?", "u1").Error)
	require.Equal(t, types.NotificationTypePaymentSucceeded, n.Type)
	require.Equal(t, p.ID, *n.RelatedEntityID)

	// redelivery is a no-op
	require.NoError(t, f.r.HandleWebhook(f.ctx, body, header))
	require.Len(t, f.payments(t), 1)
	var logs int64
	require.NoError(t, f.db.Model(&models.SubscriptionLog{}).Count(&logs).Error)
	require.EqualValues(t, 1, logs)
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusPastDue)
	body, header := signedBody(t, "evt_1", stripeevent.TypeInvoicePaymentSucceeded, t0, succeededInvoice())

	for name, h := range map[string]string{"missing": "", "tampered": header + "0"} {
		t.Run(name, func(t *testing.T) {
			err := f.r.HandleWebhook(f.ctx, body, h)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidSignature))
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.WebhookEvent{}).Count(&count).Error)
	require.Zero(t, count)
	require.Empty(t, f.payments(t))
	require.Equal(t, types.SubscriptionStatusPastDue, f.subscription(t, "s1").Status)
}

func TestHandleWebhook_SwallowsProcessingErrors(t *testing.T) {
	f := newFixture(t)
	body, header := signedBody(t, "evt_bad", stripeevent.TypeInvoicePaymentSucceeded, t0, map[string]any{"customer": 42})

	require.NoError(t, f.r.HandleWebhook(f.ctx, body, header))
	row := f.ledger(t, "evt_bad")
	require.Equal(t, models.WebhookEventStatusHandleFailed, row.Status)
	require.Contains(t, row.Result["error"], "decode invoice")
}

func TestApply_PaymentSucceededIgnoredWhenLookupsMiss(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown customer":     {"id": "in_1", "customer": "cus_x", "subscription": "sub_1", "amount_paid": 100},
		"unknown subscription": {"id": "in_1", "customer": "cus_1", "subscription": "sub_x", "amount_paid": 100},
		"no subscription":      {"id": "in_1", "customer": "cus_1", "amount_paid": 100},
	}
	for name, inv := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, types.SubscriptionStatusPastDue)

			require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_1", stripeevent.TypeInvoicePaymentSucceeded, t0, inv)))
			require.Empty(t, f.payments(t))
			require.Equal(t, types.SubscriptionStatusPastDue, f.subscription(t, "s1").Status)
			require.Equal(t, models.WebhookEventStatusIgnored, f.ledger(t, "evt_1").Status)
		})
	}
}

func TestApply_PaymentSucceededExpandedSubscription(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusPastDue)

	inv := succeededInvoice()
	delete(inv, "subscription")
	inv["customer"] = map[string]any{"id": "cus_1", "object": "customer"}
	inv["parent"] = map[string]any{"subscription_details": map[string]any{"subscription": "sub_1"}}

	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_1", stripeevent.TypeInvoicePaymentSucceeded, t0, inv)))
	require.Len(t, f.payments(t), 1)
	require.Equal(t, types.SubscriptionStatusActive, f.subscription(t, "s1").Status)
}

func TestApply_PaymentFailed(t *testing.T) {
	t.Run("linked subscription moves to past_due", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, types.SubscriptionStatusActive)

		inv := map[string]any{"id": "in_2", "customer": "cus_1", "subscription": "sub_1", "amount_due": 2900, "currency": "usd", "status": "open"}
		require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_2", stripeevent.TypeInvoicePaymentFailed, t0, inv)))

		payments := f.payments(t)
		require.Len(t, payments, 1)
		require.Equal(t, types.PaymentStatusFailed, payments[0].Status)
		require.Nil(t, payments[0].PaidAt)
		require.Equal(t, "s1", *payments[0].SubscriptionID)
		require.EqualValues(t, 2900, payments[0].Amount)
		require.Equal(t, types.SubscriptionStatusPastDue, f.subscription(t, "s1").Status)

		var n models.Notification
		require.NoError(t, f.db.First(&n, "user_id = ?", "u1").Error)
		require.Equal(t, types.NotificationTypePaymentFailed, n.Type)
	})

	t.Run("payment recorded without subscription", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, types.SubscriptionStatusActive)

		inv := map[string]any{"id": "in_3", "customer": "cus_1", "subscription": "sub_unknown", "amount_due": 500, "currency": "usd"}
		require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_3", stripeevent.TypeInvoicePaymentFailed, t0, inv)))

		payments := f.payments(t)
		require.Len(t, payments, 1)
		require.Equal(t, types.PaymentStatusFailed, payments[0].Status)
		require.Nil(t, payments[0].PaidAt)
		require.Nil(t, payments[0].SubscriptionID)
		require.Equal(t, types.SubscriptionStatusActive, f.subscription(t, "s1").Status)
		require.Equal(t, models.WebhookEventStatusHandled, f.ledger(t, "evt_3").Status)
	})
}

func TestApply_SubscriptionUpdated(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		priceID    string
		wantStatus types.SubscriptionStatus
		wantPlan   string
	}{
		{"active with plan switch", "active", "price_2", types.SubscriptionStatusActive, "p2"},
		{"unpaid maps to past_due", "unpaid", "price_1", types.SubscriptionStatusPastDue, "p1"},
		{"incomplete_expired maps to expired", "incomplete_expired", "price_1", types.SubscriptionStatusExpired, "p1"},
		{"trialing", "trialing", "price_1", types.SubscriptionStatusTrialing, "p1"},
		{"unknown price keeps plan", "canceled", "price_missing", types.SubscriptionStatusCanceled, "p1"},
		{"unknown status keeps status", "mystery", "price_2", types.SubscriptionStatusActive, "p2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, types.SubscriptionStatusActive)

			obj := map[string]any{
				"id":       "sub_1",
				"customer": "cus_1",
				"status":   tt.status,
				"items": map[string]any{"data": []any{
					map[string]any{"price": map[string]any{"id": tt.priceID}, "current_period_end": periodEnd.Unix()},
				}},
			}
			require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_u", stripeevent.TypeSubscriptionUpdated, t0, obj)))

			sub := f.subscription(t, "s1")
			require.Equal(t, tt.wantStatus, sub.Status)
			require.Equal(t, tt.wantPlan, sub.PlanID)
			require.True(t, sub.EndDate.Equal(periodEnd))
		})
	}
}

func TestApply_SubscriptionCreatedBindsPlan(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)

	obj := map[string]any{
		"id":                 "sub_2",
		"customer":           "cus_1",
		"status":             "active",
		"current_period_end": periodEnd.Unix(),
		"items":              map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_2"}}}},
	}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_c", stripeevent.TypeSubscriptionCreated, t0, obj)))

	var sub models.Subscription
	require.NoError(t, f.db.First(&sub, "stripe_subscription_id = ?", "sub_2").Error)
	require.Equal(t, "u1", sub.UserID)
	require.Equal(t, "p2", sub.PlanID)
	require.Equal(t, types.SubscriptionStatusActive, sub.Status)
	require.True(t, sub.EndDate.Equal(periodEnd))
	require.True(t, sub.LastEventAt.Equal(t0))

	var member models.Membership
	require.NoError(t, f.db.First(&member, "community_id = ? AND user_id = ?", "c1", "u1").Error)

	var logs []models.SubscriptionLog
	require.NoError(t, f.db.Where("subscription_id = ?", sub.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, types.SubscriptionChangeReasonGatewayCreate, logs[0].Reason)
	require.Nil(t, logs[0].Before.Data())

	// a redelivery under a new event id binds nothing new
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_c2", stripeevent.TypeSubscriptionCreated, t0, obj)))
	var count int64
	require.NoError(t, f.db.Model(&models.Subscription{}).Where("stripe_subscription_id = ?", "sub_2").Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.Equal(t, "already bound", f.ledger(t, "evt_c2").Result["reason"])

	inv := succeededInvoice()
	inv["id"] = "in_2"
	inv["subscription"] = "sub_2"
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_p", stripeevent.TypeInvoicePaymentSucceeded, t0.Add(time.Minute), inv)))
	require.Equal(t, models.WebhookEventStatusHandled, f.ledger(t, "evt_p").Status)
}

func TestApply_SubscriptionCreatedUnknownPriceIgnored(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)

	obj := map[string]any{
		"id":       "sub_2",
		"customer": "cus_1",
		"status":   "active",
		"items":    map[string]any{"data": []any{map[string]any{"price": map[string]any{"id": "price_x"}}}},
	}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_c", stripeevent.TypeSubscriptionCreated, t0, obj)))
	require.Equal(t, models.WebhookEventStatusIgnored, f.ledger(t, "evt_c").Status)
}

func TestApply_SubscriptionUpdatedDoesNotCreate(t *testing.T) {
	f := newFixture(t)
	obj := map[string]any{"id": "sub_new", "customer": "cus_1", "status": "active"}

	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_u", stripeevent.TypeSubscriptionUpdated, t0, obj)))
	var count int64
	require.NoError(t, f.db.Model(&models.Subscription{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, models.WebhookEventStatusIgnored, f.ledger(t, "evt_u").Status)
}

func TestApply_OutOfOrderUpdateIsFenced(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)

	deleted := map[string]any{"id": "sub_1", "status": "canceled", "ended_at": t0.Unix()}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_del", stripeevent.TypeSubscriptionDeleted, t0, deleted)))

	updated := map[string]any{"id": "sub_1", "status": "active"}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_old", stripeevent.TypeSubscriptionUpdated, t0.Add(-time.Hour), updated)))

	sub := f.subscription(t, "s1")
	require.Equal(t, types.SubscriptionStatusCanceled, sub.Status)
	row := f.ledger(t, "evt_old")
	require.Equal(t, models.WebhookEventStatusHandled, row.Status)
	require.Equal(t, true, row.Result["stale"])
}

func TestApply_SubscriptionDeletedCancelsAllMatches(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)
	require.NoError(t, f.db.Create(&models.Subscription{
		ID:                   "s2",
		UserID:               "u2",
		PlanID:               "p1",
		Status:               types.SubscriptionStatusPastDue,
		StartDate:            t0,
		StripeSubscriptionID: lo.ToPtr("sub_1"),
	}).Error)

	endedAt := t0.Add(time.Hour)
	obj := map[string]any{"id": "sub_1", "status": "canceled", "ended_at": endedAt.Unix()}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_d", stripeevent.TypeSubscriptionDeleted, t0.Add(2*time.Hour), obj)))

	for _, id := range []string{"s1", "s2"} {
		sub := f.subscription(t, id)
		require.Equal(t, types.SubscriptionStatusCanceled, sub.Status, id)
		require.True(t, sub.EndDate.Equal(endedAt), id)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Where("type = ?", types.NotificationTypeSubscriptionCanceled).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestApply_OlderDeletionStillCancels(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)

	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_paid", stripeevent.TypeInvoicePaymentSucceeded, t0.Add(time.Second), succeededInvoice())))
	deleted := map[string]any{"id": "sub_1", "status": "canceled", "ended_at": t0.Unix()}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_del", stripeevent.TypeSubscriptionDeleted, t0, deleted)))

	sub := f.subscription(t, "s1")
	require.Equal(t, types.SubscriptionStatusCanceled, sub.Status)
	require.True(t, sub.EndDate.Equal(t0))
	require.True(t, sub.LastEventAt.Equal(t0.Add(time.Second)))

	row := f.ledger(t, "evt_del")
	require.Equal(t, models.WebhookEventStatusHandled, row.Status)
	require.Nil(t, row.Result["stale"])

	var logs []models.SubscriptionLog
	require.NoError(t, f.db.Where("subscription_id = ? AND reason = ?", "s1", types.SubscriptionChangeReasonGatewayDelete).Find(&logs).Error)
	require.Len(t, logs, 1)
}

func TestApply_RepeatedDeletionIsNoop(t *testing.T) {
	f := newFixture(t)
	f.seed(t, types.SubscriptionStatusActive)

	deleted := map[string]any{"id": "sub_1", "status": "canceled", "ended_at": t0.Unix()}
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_del_1", stripeevent.TypeSubscriptionDeleted, t0, deleted)))
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_del_2", stripeevent.TypeSubscriptionDeleted, t0.Add(time.Minute), deleted)))

	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).Where("type = ?", types.NotificationTypeSubscriptionCanceled).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestApply_UnknownTypeIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.r.Apply(f.ctx, event(t, "evt_x", "charge.refunded", t0, map[string]any{"id": "ch_1"})))
	require.Equal(t, models.WebhookEventStatusIgnored, f.ledger(t, "evt_x").Status)
}

func TestGatewayStatus(t *testing.T) {
	tests := map[string]types.SubscriptionStatus{
		"active":             types.SubscriptionStatusActive,
		"trialing":           types.SubscriptionStatusTrialing,
		"past_due":           types.SubscriptionStatusPastDue,
		"unpaid":             types.SubscriptionStatusPastDue,
		"incomplete":         types.SubscriptionStatusPastDue,
		"paused":             types.SubscriptionStatusPastDue,
		"canceled":           types.SubscriptionStatusCanceled,
		"incomplete_expired": types.SubscriptionStatusExpired,
	}
	for in, want := range tests {
		got, ok := gatewayStatus(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}
	_, ok := gatewayStatus("nope")
	require.False(t, ok)
}
