package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/community/pkg/types"
)

func TestTableNames(t *testing.T) {
	require.Equal(t, "subscriptions", Subscription{}.TableName())
	require.Equal(t, "user_notification_settings", UserNotificationSetting{}.TableName())
	require.Len(t, All(), 13)
}

func TestSubscription_AcceptsEventAt(t *testing.T) {
	now := time.Now()
	s := &Subscription{}
	require.True(t, s.AcceptsEventAt(now))

	s.LastEventAt = &now
	require.True(t, s.AcceptsEventAt(now))
	require.True(t, s.AcceptsEventAt(now.Add(time.Second)))
	require.False(t, s.AcceptsEventAt(now.Add(-time.Second)))
}

func TestWebhookEventStatus_Final(t *testing.T) {
	require.True(t, WebhookEventStatusHandled.Final())
	require.True(t, WebhookEventStatusIgnored.Final())
	require.False(t, WebhookEventStatusHandleFailed.Final())
	require.False(t, WebhookEventStatusReceived.Final())
}

func TestPayment_AmountMajor(t *testing.T) {
	p := &Payment{Amount: 2900, Status: types.PaymentStatusSucceeded}
	require.Equal(t, 29.0, p.AmountMajor())
}
