package notification

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/tool"
	"github.com/fatflowers/community/pkg/types"
)

// SettingView is one delivery preference as returned to the user. Default is
// true when nothing has been saved for the type yet.
type SettingView struct {
	NotificationType types.NotificationType `json:"notificationType"`
	CommunityID      *string                `json:"communityId,omitempty"`
	EmailEnabled     bool                   `json:"emailEnabled"`
	InAppEnabled     bool                   `json:"inAppEnabled"`
	PushEnabled      bool                   `json:"pushEnabled"`
	DigestFrequency  *types.DigestFrequency `json:"digestFrequency"`
	Default          bool                   `json:"isDefault"`
}

// SettingsView holds one global entry per notification type plus the
// per-community overrides. Overrides are not merged into the global list.
type SettingsView struct {
	Settings          []SettingView `json:"settings"`
	CommunitySettings []SettingView `json:"communitySettings"`
}

// DefaultSetting is what a user gets for a type they never configured.
func DefaultSetting(t types.NotificationType) SettingView {
	return SettingView{
		NotificationType: t,
		EmailEnabled:     true,
		InAppEnabled:     true,
		PushEnabled:      false,
		Default:          true,
	}
}

func toView(row *models.UserNotificationSetting) SettingView {
	v := SettingView{
		NotificationType: row.NotificationType,
		EmailEnabled:     row.EmailEnabled,
		InAppEnabled:     row.InAppEnabled,
		PushEnabled:      row.PushEnabled,
		DigestFrequency:  row.DigestFrequency,
	}
	if row.CommunityID != models.GlobalScope {
		v.CommunityID = lo.ToPtr(row.CommunityID)
	}
	return v
}

// GetSettings resolves the user's delivery preferences. Missing global rows
// are synthesized in memory and never written.
func (s *Service) GetSettings(ctx context.Context, userID string) (*SettingsView, error) {
	var rows []*models.UserNotificationSetting
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("community_id ASC").Order("notification_type ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load notification settings: %w", err)
	}

	global := make(map[types.NotificationType]*models.UserNotificationSetting, len(rows))
	view := &SettingsView{
		Settings:          make([]SettingView, 0, len(types.NotificationTypes)),
		CommunitySettings: []SettingView{},
	}
	for _, row := range rows {
		if row.CommunityID == models.GlobalScope {
			global[row.NotificationType] = row
			continue
		}
		view.CommunitySettings = append(view.CommunitySettings, toView(row))
	}
	for _, t := range types.NotificationTypes {
		if row, ok := global[t]; ok {
			view.Settings = append(view.Settings, toView(row))
			continue
		}
		view.Settings = append(view.Settings, DefaultSetting(t))
	}
	return view, nil
}

// SettingInput is a partial setting; nil fields keep their stored (or
// default) value.
type SettingInput struct {
	NotificationType string  `json:"notificationType" validate:"required"`
	CommunityID      *string `json:"communityId" validate:"omitempty,min=1,max=64"`
	EmailEnabled     *bool   `json:"emailEnabled"`
	InAppEnabled     *bool   `json:"inAppEnabled"`
	PushEnabled      *bool   `json:"pushEnabled"`
	DigestFrequency  *string `json:"digestFrequency" validate:"omitempty,oneof=instant daily weekly never"`
}

type SkippedSetting struct {
	NotificationType string `json:"notificationType"`
	Reason           string `json:"reason"`
}

type UpdateSettingsResult struct {
	Updated []SettingView    `json:"updated"`
	Skipped []SkippedSetting `json:"skipped"`
}

// UpdateSettings upserts each input on (user, community or global, type).
// Invalid entries are skipped and reported; the rest of the batch still applies.
func (s *Service) UpdateSettings(ctx context.Context, userID string, inputs []SettingInput) (*UpdateSettingsResult, error) {
	lg := logctx.FromCtx(ctx, s.log)
	res := &UpdateSettingsResult{Updated: []SettingView{}, Skipped: []SkippedSetting{}}

	for _, in := range inputs {
		if err := s.validate.Struct(in); err != nil {
			lg.Warnw("skip invalid notification setting", "type", in.NotificationType, "error", err)
			res.Skipped = append(res.Skipped, SkippedSetting{NotificationType: in.NotificationType, Reason: err.Error()})
			continue
		}
		t, err := types.ParseNotificationType(in.NotificationType)
		if err != nil {
			lg.Warnw("skip unknown notification type", "type", in.NotificationType)
			res.Skipped = append(res.Skipped, SkippedSetting{NotificationType: in.NotificationType, Reason: err.Error()})
			continue
		}

		row, err := s.upsertSetting(ctx, userID, t, in)
		if err != nil {
			return nil, err
		}
		res.Updated = append(res.Updated, toView(row))
	}
	return res, nil
}

func (s *Service) upsertSetting(ctx context.Context, userID string, t types.NotificationType, in SettingInput) (*models.UserNotificationSetting, error) {
	def := DefaultSetting(t)
	row := &models.UserNotificationSetting{
		ID:               tool.GenerateUUIDV7(),
		UserID:           userID,
		CommunityID:      lo.FromPtrOr(in.CommunityID, models.GlobalScope),
		NotificationType: t,
		EmailEnabled:     lo.FromPtrOr(in.EmailEnabled, def.EmailEnabled),
		InAppEnabled:     lo.FromPtrOr(in.InAppEnabled, def.InAppEnabled),
		PushEnabled:      lo.FromPtrOr(in.PushEnabled, def.PushEnabled),
	}
	if in.DigestFrequency != nil {
		row.DigestFrequency = lo.ToPtr(types.DigestFrequency(*in.DigestFrequency))
	}

	columns := []string{"updated_at"}
	if in.EmailEnabled != nil {
		columns = append(columns, "email_enabled")
	}
	if in.InAppEnabled != nil {
		columns = append(columns, "in_app_enabled")
	}
	if in.PushEnabled != nil {
		columns = append(columns, "push_enabled")
	}
	if in.DigestFrequency != nil {
		columns = append(columns, "digest_frequency")
	}

	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "community_id"}, {Name: "notification_type"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert notification setting %s: %w", t, err)
	}

	var saved models.UserNotificationSetting
	if err := db.Where("user_id = ? AND community_id = ? AND notification_type = ?", userID, row.CommunityID, t).
		First(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to reload notification setting %s: %w", t, err)
	}
	return &saved, nil
}
