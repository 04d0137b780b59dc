package models

import (
	"time"

	"github.com/fatflowers/community/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionLog records changes to subscriptions for troubleshooting.
type SubscriptionLog struct {
	ID             string                         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SubscriptionID string                         `gorm:"column:subscription_id;type:uuid;index;not null" json:"subscription_id"`
	UserID         string                         `gorm:"column:user_id;type:uuid;index;not null" json:"user_id"`
	Reason         types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	// GatewayEventID is the webhook event that caused the change.
	GatewayEventID string                            `gorm:"column:gateway_event_id;type:varchar(128);index" json:"gateway_event_id"`
	Before         datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb" json:"before"`
	After          datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb" json:"after"`
	CreatedAt      time.Time                         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_logs"
}
