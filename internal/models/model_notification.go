package models

import (
	"time"

	"github.com/fatflowers/community/pkg/types"

	"gorm.io/datatypes"
)

// Notification is a per-recipient fact. IsRead is the only field that changes
// after creation, and only from false to true.
type Notification struct {
	ID                string                 `gorm:"column:id;type:uuid;primary_key;index:idx_notifications_user_created,priority:3" json:"id"`
	UserID            string                 `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_read,priority:1" json:"userId"`
	Type              types.NotificationType `gorm:"column:type;type:varchar(64);not null" json:"type"`
	ActorID           *string                `gorm:"column:actor_id;type:uuid" json:"actorId"`
	CommunityID       *string                `gorm:"column:community_id;type:uuid" json:"communityId"`
	RelatedEntityType *string                `gorm:"column:related_entity_type;type:varchar(64)" json:"relatedEntityType"`
	RelatedEntityID   *string                `gorm:"column:related_entity_id;type:varchar(128)" json:"relatedEntityId"`
	IsRead            bool                   `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_read,priority:2" json:"isRead"`
	Data              datatypes.JSONMap      `gorm:"column:data;type:jsonb" json:"data"`
	CreatedAt         time.Time              `gorm:"index:idx_notifications_user_created,priority:2,sort:desc" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

// GlobalScope is the CommunityID of a setting row that applies everywhere.
// An empty string instead of NULL keeps the unique key enforceable.
const GlobalScope = ""

// UserNotificationSetting overrides the delivery channels of one notification
// type for a user, globally or inside one community.
type UserNotificationSetting struct {
	ID               string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID           string                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_user_community_type,priority:1" json:"userId"`
	CommunityID      string                 `gorm:"column:community_id;type:varchar(64);not null;default:'';uniqueIndex:uniq_user_community_type,priority:2" json:"-"`
	NotificationType types.NotificationType `gorm:"column:notification_type;type:varchar(64);not null;uniqueIndex:uniq_user_community_type,priority:3" json:"notificationType"`
	EmailEnabled     bool                   `gorm:"column:email_enabled;not null" json:"emailEnabled"`
	InAppEnabled     bool                   `gorm:"column:in_app_enabled;not null" json:"inAppEnabled"`
	PushEnabled      bool                   `gorm:"column:push_enabled;not null" json:"pushEnabled"`
	DigestFrequency  *types.DigestFrequency `gorm:"column:digest_frequency;type:varchar(16)" json:"digestFrequency"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func (UserNotificationSetting) TableName() string { return "user_notification_settings" }
