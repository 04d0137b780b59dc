package models

import "time"

type Channel struct {
	ID            string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CommunityID   string     `gorm:"column:community_id;type:uuid;not null;index" json:"communityId"`
	Name          string     `gorm:"column:name;type:varchar(128);not null" json:"name"`
	LastMessageID *string    `gorm:"column:last_message_id;type:uuid" json:"lastMessageId"`
	LastMessageAt *time.Time `gorm:"column:last_message_at" json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Channel) TableName() string { return "channels" }

type Message struct {
	ID          string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ChannelID   string    `gorm:"column:channel_id;type:uuid;not null;index:idx_messages_channel_created,priority:1" json:"channelId"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null" json:"userId"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	ContentHTML string    `gorm:"column:content_html;type:text;not null" json:"contentHtml"`
	CreatedAt   time.Time `gorm:"index:idx_messages_channel_created,priority:2" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }
