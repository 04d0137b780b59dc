package stripeevent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ExpandableID decodes a field that is either an id string or an expanded
// object carrying an "id".
type ExpandableID string

func (e *ExpandableID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*e = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = ExpandableID(s)
		return nil
	case b[0] == '{':
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*e = ExpandableID(obj.ID)
		return nil
	default:
		return fmt.Errorf("unexpected expandable id: %s", string(b))
	}
}

// Timestamp converts a unix seconds value; zero means unset.
func Timestamp(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

type Price struct {
	ID string `json:"id"`
}

type Period struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type InvoiceLine struct {
	Period Period `json:"period"`
	Price  *Price `json:"price"`
}

type Invoice struct {
	ID                string       `json:"id"`
	Customer          ExpandableID `json:"customer"`
	Subscription      ExpandableID `json:"subscription"`
	AmountPaid        int64        `json:"amount_paid"`
	AmountDue         int64        `json:"amount_due"`
	Currency          string       `json:"currency"`
	Status            string       `json:"status"`
	StatusTransitions struct {
		PaidAt int64 `json:"paid_at"`
	} `json:"status_transitions"`
	Lines struct {
		Data []InvoiceLine `json:"data"`
	} `json:"lines"`
	// Parent holds the subscription reference on API versions that moved it
	// off the invoice root.
	Parent *struct {
		SubscriptionDetails *struct {
			Subscription ExpandableID `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

// SubscriptionID returns the subscription reference wherever the API version put it.
func (i *Invoice) SubscriptionID() string {
	if i.Subscription != "" {
		return string(i.Subscription)
	}
	if i.Parent != nil && i.Parent.SubscriptionDetails != nil {
		return string(i.Parent.SubscriptionDetails.Subscription)
	}
	return ""
}

// PeriodEnd returns the end of the first line item's period, if any.
func (i *Invoice) PeriodEnd() *time.Time {
	if len(i.Lines.Data) == 0 {
		return nil
	}
	return Timestamp(i.Lines.Data[0].Period.End)
}

type SubscriptionItem struct {
	Price            *Price `json:"price"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

type Subscription struct {
	ID               string       `json:"id"`
	Customer         ExpandableID `json:"customer"`
	Status           string       `json:"status"`
	CurrentPeriodEnd int64        `json:"current_period_end"`
	EndedAt          int64        `json:"ended_at"`
	CanceledAt       int64        `json:"canceled_at"`
	Items            struct {
		Data []SubscriptionItem `json:"data"`
	} `json:"items"`
}

// PriceID returns the price of the first item.
func (s *Subscription) PriceID() string {
	if len(s.Items.Data) == 0 || s.Items.Data[0].Price == nil {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

// PeriodEnd prefers the root field and falls back to the first item.
func (s *Subscription) PeriodEnd() *time.Time {
	if s.CurrentPeriodEnd > 0 {
		return Timestamp(s.CurrentPeriodEnd)
	}
	if len(s.Items.Data) > 0 {
		return Timestamp(s.Items.Data[0].CurrentPeriodEnd)
	}
	return nil
}

// EndedAtOrCanceledAt returns when the subscription ended.
func (s *Subscription) EndedAtOrCanceledAt() *time.Time {
	if t := Timestamp(s.EndedAt); t != nil {
		return t
	}
	return Timestamp(s.CanceledAt)
}

// DecodeInvoice decodes an event's data.object as an invoice.
func DecodeInvoice(raw json.RawMessage) (*Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return &inv, nil
}

// DecodeSubscription decodes an event's data.object as a subscription.
func DecodeSubscription(raw json.RawMessage) (*Subscription, error) {
	var sub Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}
