package models

import (
	"time"

	"github.com/fatflowers/community/pkg/types"
)

// Subscription links a user to a plan. Status only moves on gateway events or
// explicit cancellation; rows are never hard-deleted.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_user_stripe_subscription,priority:1" json:"user_id"`
	PlanID string                   `gorm:"column:plan_id;type:uuid;not null;index" json:"plan_id"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	// StartDate is when the relationship began (first payment or free join).
	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	// EndDate is the end of the current paid period, or when it ended.
	EndDate              *time.Time `gorm:"column:end_date" json:"end_date"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;type:varchar(128);uniqueIndex:uniq_user_stripe_subscription,priority:2;index" json:"stripe_subscription_id,omitempty"`
	// LastEventAt is the creation time of the newest gateway event applied to
	// this row; older events are not allowed to overwrite it.
	LastEventAt *time.Time `gorm:"column:last_event_at" json:"last_event_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// AcceptsEventAt reports whether an event created at t may overwrite this row.
func (s *Subscription) AcceptsEventAt(t time.Time) bool {
	return s.LastEventAt == nil || !t.Before(*s.LastEventAt)
}

func (s *Subscription) Active() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}
