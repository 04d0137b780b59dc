package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEventStatus string

const (
	WebhookEventStatusReceived     WebhookEventStatus = "received"
	WebhookEventStatusHandled      WebhookEventStatus = "handled"
	WebhookEventStatusIgnored      WebhookEventStatus = "ignored"
	WebhookEventStatusHandleFailed WebhookEventStatus = "handle_failed"
)

// Final reports whether an event in this status must not be applied again.
func (s WebhookEventStatus) Final() bool {
	return s == WebhookEventStatusHandled || s == WebhookEventStatusIgnored
}

// WebhookEvent is the idempotency ledger of gateway events, keyed by the
// gateway's event id.
type WebhookEvent struct {
	ID        string             `gorm:"column:id;type:varchar(128);primary_key" json:"id"`
	Provider  string             `gorm:"column:provider;type:varchar(32);not null" json:"provider"`
	Type      string             `gorm:"column:type;type:varchar(128);not null;index" json:"type"`
	Status    WebhookEventStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	TraceID   string             `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	EventAt   time.Time          `gorm:"column:event_at" json:"event_at"`
	Data      datatypes.JSON     `gorm:"column:data;type:jsonb" json:"data"`
	Result    datatypes.JSONMap  `gorm:"column:result;type:jsonb" json:"result"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }
