// Package stripeevent verifies Stripe webhook deliveries and decodes the parts
// of the event objects the billing reconciler reads.
package stripeevent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	// SignatureHeader carries the delivery signature.
	SignatureHeader = "stripe-signature"

	TypeInvoicePaymentSucceeded = "invoice.payment_succeeded"
	TypeInvoicePaymentFailed    = "invoice.payment_failed"
	TypeSubscriptionCreated     = "customer.subscription.created"
	TypeSubscriptionUpdated     = "customer.subscription.updated"
	TypeSubscriptionDeleted     = "customer.subscription.deleted"
)

// ErrInvalidSignature is returned for every delivery that must be rejected
// before any processing: missing secret, missing header, bad signature,
// stale timestamp or a body that is not an event.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a verified gateway event.
type Event struct {
	ID      string
	Type    string
	Created time.Time
	// Object is the raw data.object payload.
	Object json.RawMessage
}

type Verifier struct {
	secret    string
	tolerance time.Duration
}

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance}
}

// Verify checks header against payload and returns the decoded event.
func (v *Verifier) Verify(payload []byte, header string) (*Event, error) {
	if v == nil || v.secret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrInvalidSignature)
	}
	if header == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrInvalidSignature, SignatureHeader)
	}
	evt, err := webhook.ConstructEventWithOptions(payload, header, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if evt.ID == "" || evt.Type == "" || evt.Data == nil {
		return nil, fmt.Errorf("%w: malformed event", ErrInvalidSignature)
	}
	return &Event{
		ID:      evt.ID,
		Type:    string(evt.Type),
		Created: time.Unix(evt.Created, 0).UTC(),
		Object:  evt.Data.Raw,
	}, nil
}
