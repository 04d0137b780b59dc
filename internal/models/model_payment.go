package models

import (
	"time"

	"github.com/fatflowers/community/pkg/types"
)

// Payment is an immutable record of one settlement attempt. GatewayEventID is
// unique so a redelivered webhook cannot create a second row.
type Payment struct {
	ID             string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string              `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SubscriptionID *string             `gorm:"column:subscription_id;type:uuid;index" json:"subscription_id"`
	PlanID         *string             `gorm:"column:plan_id;type:uuid" json:"plan_id"`
	Amount         int64               `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Currency       string              `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	GatewayID      string              `gorm:"column:gateway_id;type:varchar(128);not null;index" json:"gateway_id"`
	GatewayEventID string              `gorm:"column:gateway_event_id;type:varchar(128);not null;uniqueIndex" json:"gateway_event_id"`
	Status         types.PaymentStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	PaidAt         *time.Time          `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// AmountMajor returns the amount in major currency units.
func (p *Payment) AmountMajor() float64 { return types.CentsToMajor(p.Amount) }
