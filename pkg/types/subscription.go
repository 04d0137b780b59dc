package types

import "fmt"

// SubscriptionStatus is the closed set of local subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusCanceled,
	SubscriptionStatusExpired,
	SubscriptionStatusTrialing,
}

func (s SubscriptionStatus) Valid() bool {
	for _, v := range subscriptionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Churned reports whether the status ends the paying relationship.
func (s SubscriptionStatus) Churned() bool {
	return s == SubscriptionStatusCanceled || s == SubscriptionStatusExpired
}

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	st := SubscriptionStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid subscription status: %q", s)
	}
	return st, nil
}

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonPaymentSucceeded SubscriptionChangeReason = "payment_succeeded"
	SubscriptionChangeReasonPaymentFailed    SubscriptionChangeReason = "payment_failed"
	SubscriptionChangeReasonGatewayUpdate    SubscriptionChangeReason = "gateway_update"
	SubscriptionChangeReasonGatewayDelete    SubscriptionChangeReason = "gateway_delete"
	SubscriptionChangeReasonGatewayCreate    SubscriptionChangeReason = "gateway_create"
	SubscriptionChangeReasonFreeJoin         SubscriptionChangeReason = "free_join"
	SubscriptionChangeReasonUserCancel       SubscriptionChangeReason = "user_cancel"
)
