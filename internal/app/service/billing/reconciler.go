package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/stripeevent"
	"github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/metrics"
	"github.com/fatflowers/community/pkg/types"
)

// ErrInvalidSignature rejects a delivery before anything is written.
var ErrInvalidSignature = stripeevent.ErrInvalidSignature

const provider = "stripe"

type outcome string

const (
	outcomeHandled   outcome = "handled"
	outcomeIgnored   outcome = "ignored"
	outcomeDuplicate outcome = "duplicate"
	outcomeFailed    outcome = "failed"
)

// result is stored on the ledger row and explains what an event did.
type result struct {
	outcome        outcome
	reason         string
	paymentID      string
	subscriptionID []string
	stale          bool
	notify         []notification.CreateInput
}

func ignored(format string, args ...any) *result {
	return &result{outcome: outcomeIgnored, reason: fmt.Sprintf(format, args...)}
}

func (r *result) toMap() map[string]any {
	m := map[string]any{"outcome": string(r.outcome)}
	if r.reason != "" {
		m["reason"] = r.reason
	}
	if r.paymentID != "" {
		m["payment_id"] = r.paymentID
	}
	if len(r.subscriptionID) > 0 {
		m["subscription_ids"] = r.subscriptionID
	}
	if r.stale {
		m["stale"] = true
	}
	return m
}

// Notifier receives the notifications produced by applied events.
type Notifier interface {
	Create(ctx context.Context, in notification.CreateInput) (*models.Notification, error)
}

// Reconciler applies signed gateway events to subscriptions and payments.
type Reconciler struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	verifier *stripeevent.Verifier
	subs     *subscription.Service
	notifier Notifier
	metrics  *metrics.Business
}

func NewReconciler(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, subs *subscription.Service, notifier *notification.Service, m *metrics.Business) *Reconciler {
	return newReconciler(db, log, stripeevent.NewVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.Tolerance), subs, notifier, m)
}

func newReconciler(db *gorm.DB, log *zap.SugaredLogger, verifier *stripeevent.Verifier, subs *subscription.Service, notifier Notifier, m *metrics.Business) *Reconciler {
	if m == nil {
		m = metrics.NewNopBusiness()
	}
	return &Reconciler{db: db, log: log, verifier: verifier, subs: subs, notifier: notifier, metrics: m}
}

// HandleWebhook verifies and applies one delivery. Only verification failures
// are returned; processing errors are logged and recorded on the ledger so
// the sender does not retry on local faults.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	evt, err := r.verifier.Verify(payload, signature)
	if err != nil {
		logctx.FromCtx(ctx, r.log).Warnw("webhook rejected", "error", err)
		r.metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return err
	}

	if err := r.Apply(ctx, evt); err != nil {
		logctx.FromCtx(ctx, r.log).Errorw("webhook event failed", "event_id", evt.ID, "type", evt.Type, "error", err)
	}
	return nil
}

// Apply processes a verified event exactly once. A redelivery of an event
// that was already handled or ignored is a successful no-op.
func (r *Reconciler) Apply(ctx context.Context, evt *stripeevent.Event) (err error) {
	start := time.Now()
	lg := logctx.FromCtx(ctx, r.log).With("event_id", evt.ID, "type", evt.Type)

	res := &result{outcome: outcomeFailed}
	defer func() {
		r.metrics.WebhookEvents.WithLabelValues(evt.Type, string(res.outcome)).Inc()
		r.metrics.WebhookDuration.WithLabelValues(evt.Type).Observe(metrics.MillisecondsSince(start))
	}()

	if err := r.receive(ctx, evt); err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger, err := lockEvent(ctx, tx, evt.ID)
		if err != nil {
			return err
		}
		if ledger.Status.Final() {
			res = &result{outcome: outcomeDuplicate}
			return nil
		}

		applied, err := r.dispatch(ctx, tx, evt)
		if err != nil {
			return err
		}
		res = applied
		status := models.WebhookEventStatusHandled
		if res.outcome == outcomeIgnored {
			status = models.WebhookEventStatusIgnored
		}
		return finishEvent(ctx, tx, evt.ID, status, res.toMap())
	})
	if err != nil {
		res = &result{outcome: outcomeFailed}
		if ferr := finishEvent(ctx, r.db, evt.ID, models.WebhookEventStatusHandleFailed, map[string]any{
			"outcome": string(outcomeFailed),
			"error":   err.Error(),
		}); ferr != nil {
			lg.Errorw("failed to record webhook failure", "error", ferr)
		}
		return fmt.Errorf("apply %s %s: %w", evt.Type, evt.ID, err)
	}

	switch res.outcome {
	case outcomeDuplicate:
		lg.Infow("webhook event already processed")
	case outcomeIgnored:
		lg.Warnw("webhook event ignored", "reason", res.reason)
	default:
		lg.Infow("webhook event handled", "result", res.toMap())
	}

	r.sendNotifications(ctx, res.notify)
	return nil
}

func (r *Reconciler) dispatch(ctx context.Context, tx *gorm.DB, evt *stripeevent.Event) (*result, error) {
	switch evt.Type {
	case stripeevent.TypeInvoicePaymentSucceeded:
		return r.paymentSucceeded(ctx, tx, evt)
	case stripeevent.TypeInvoicePaymentFailed:
		return r.paymentFailed(ctx, tx, evt)
	case stripeevent.TypeSubscriptionCreated:
		return r.subscriptionCreated(ctx, tx, evt)
	case stripeevent.TypeSubscriptionUpdated:
		return r.subscriptionUpdated(ctx, tx, evt)
	case stripeevent.TypeSubscriptionDeleted:
		return r.subscriptionDeleted(ctx, tx, evt)
	default:
		return ignored("unhandled event type"), nil
	}
}

func (r *Reconciler) sendNotifications(ctx context.Context, pending []notification.CreateInput) {
	if r.notifier == nil {
		return
	}
	for _, in := range pending {
		if _, err := r.notifier.Create(ctx, in); err != nil {
			logctx.FromCtx(ctx, r.log).Errorw("failed to create billing notification", "type", in.Type, "user_id", in.UserID, "error", err)
		}
	}
}

func (r *Reconciler) change(ctx context.Context, tx *gorm.DB, sub *models.Subscription, evt *stripeevent.Event, reason types.SubscriptionChangeReason, mutate func(*models.Subscription)) (bool, error) {
	return r.subs.Apply(ctx, tx, sub, subscription.Change{
		EventID: evt.ID,
		EventAt: evt.Created,
		Reason:  reason,
		Mutate:  mutate,
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
