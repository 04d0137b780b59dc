package models

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User is owned by the account service; this slice reads it and bumps Points.
type User struct {
	ID               string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Username         string    `gorm:"column:username;type:varchar(64);not null;uniqueIndex" json:"username"`
	Email            string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Name             string    `gorm:"column:name;type:varchar(128)" json:"name"`
	AvatarURL        string    `gorm:"column:avatar_url;type:varchar(512)" json:"avatar_url,omitempty"`
	Role             UserRole  `gorm:"column:role;type:varchar(32);not null;default:'user'" json:"role"`
	StripeCustomerID *string   `gorm:"column:stripe_customer_id;type:varchar(128);uniqueIndex" json:"-"`
	Points           int64     `gorm:"column:points;type:bigint;not null;default:0;index" json:"points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Session is written by the authentication layer. ExpiresAt is used as an
// activity proxy by the dashboard.
type Session struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time
}

func (Session) TableName() string { return "sessions" }
