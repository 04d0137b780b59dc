package models

// All lists every model managed by auto-migration.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Community{},
		&Membership{},
		&Plan{},
		&Subscription{},
		&SubscriptionLog{},
		&Payment{},
		&WebhookEvent{},
		&Notification{},
		&UserNotificationSetting{},
		&Channel{},
		&Message{},
	}
}
