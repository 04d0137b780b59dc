package notification

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/types"
)

func TestGetSettings_DefaultsAreNotPersisted(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	view, err := svc.GetSettings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Settings, len(types.NotificationTypes))
	require.Empty(t, view.CommunitySettings)
	for i, s := range view.Settings {
		require.Equal(t, types.NotificationTypes[i], s.NotificationType)
		require.True(t, s.EmailEnabled)
		require.True(t, s.InAppEnabled)
		require.False(t, s.PushEnabled)
		require.Nil(t, s.DigestFrequency)
		require.True(t, s.Default)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserNotificationSetting{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpdateSettings_PartialUpsert(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	res, err := svc.UpdateSettings(ctx, "u1", []SettingInput{
		{NotificationType: "mention", PushEnabled: lo.ToPtr(true)},
		{NotificationType: "bogus", EmailEnabled: lo.ToPtr(false)},
		{NotificationType: "new_post", DigestFrequency: lo.ToPtr("hourly")},
		{NotificationType: "new_post", CommunityID: lo.ToPtr("c1"), EmailEnabled: lo.ToPtr(false)},
	})
	require.NoError(t, err)
	require.Len(t, res.Updated, 2)
	require.Len(t, res.Skipped, 2)
	require.Equal(t, "bogus", res.Skipped[0].NotificationType)
	require.Equal(t, "new_post", res.Skipped[1].NotificationType)

	mention := res.Updated[0]
	require.True(t, mention.PushEnabled)
	require.True(t, mention.EmailEnabled)
	require.True(t, mention.InAppEnabled)
	require.Nil(t, mention.CommunityID)

	// second write only touches the provided column
	res, err = svc.UpdateSettings(ctx, "u1", []SettingInput{
		{NotificationType: "mention", EmailEnabled: lo.ToPtr(false), DigestFrequency: lo.ToPtr("daily")},
	})
	require.NoError(t, err)
	require.Len(t, res.Updated, 1)
	require.False(t, res.Updated[0].EmailEnabled)
	require.True(t, res.Updated[0].PushEnabled)
	require.Equal(t, types.DigestFrequencyDaily, *res.Updated[0].DigestFrequency)

	var count int64
	require.NoError(t, db.Model(&models.UserNotificationSetting{}).Where("user_id = ?", "u1").Count(&count).Error)
	require.EqualValues(t, 2, count)

	view, err := svc.GetSettings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Settings, len(types.NotificationTypes))
	byType := lo.KeyBy(view.Settings, func(s SettingView) types.NotificationType { return s.NotificationType })
	require.False(t, byType[types.NotificationTypeMention].Default)
	require.False(t, byType[types.NotificationTypeMention].EmailEnabled)
	require.True(t, byType[types.NotificationTypeNewPost].Default)
	require.True(t, byType[types.NotificationTypeNewPost].EmailEnabled)

	require.Len(t, view.CommunitySettings, 1)
	require.Equal(t, "c1", *view.CommunitySettings[0].CommunityID)
	require.False(t, view.CommunitySettings[0].EmailEnabled)
}
