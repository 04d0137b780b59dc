package models

import (
	"time"

	"github.com/fatflowers/community/pkg/types"
)

type Community struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(128);not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Community) TableName() string { return "communities" }

type MemberRole string

const (
	MemberRoleOwner     MemberRole = "owner"
	MemberRoleAdmin     MemberRole = "admin"
	MemberRoleModerator MemberRole = "moderator"
	MemberRoleMember    MemberRole = "member"
)

type Membership struct {
	ID          string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CommunityID string     `gorm:"column:community_id;type:uuid;not null;uniqueIndex:uniq_community_user,priority:1" json:"community_id"`
	UserID      string     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_community_user,priority:2;index" json:"user_id"`
	Role        MemberRole `gorm:"column:role;type:varchar(32);not null;default:'member'" json:"role"`
	JoinedAt    time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
}

func (Membership) TableName() string { return "memberships" }

// Plan is a billing plan of a community. Price is in minor units.
type Plan struct {
	ID            string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CommunityID   string             `gorm:"column:community_id;type:uuid;not null;index" json:"community_id"`
	Name          string             `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Price         int64              `gorm:"column:price;type:bigint;not null;default:0" json:"price"`
	Currency      string             `gorm:"column:currency;type:varchar(8);not null;default:'usd'" json:"currency"`
	Interval      types.PlanInterval `gorm:"column:billing_interval;type:varchar(16);not null;default:'month'" json:"interval"`
	StripePriceID *string            `gorm:"column:stripe_price_id;type:varchar(128);uniqueIndex" json:"stripe_price_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

func (p *Plan) IsFree() bool { return p == nil || p.Price <= 0 }
