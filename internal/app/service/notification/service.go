package notification

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/cache"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/metrics"
	"github.com/fatflowers/community/pkg/tool"
	"github.com/fatflowers/community/pkg/types"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 50

	insertBatchSize = 200
)

type Service struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	unread   cache.UnreadCounter
	metrics  *metrics.Business
	validate *validator.Validate
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, unread cache.UnreadCounter, m *metrics.Business) *Service {
	if unread == nil {
		unread = cache.NopUnreadCounter{}
	}
	return &Service{db: db, log: log, unread: unread, metrics: m, validate: validator.New()}
}

// CreateInput describes a notification for a single recipient.
type CreateInput struct {
	UserID            string
	Type              types.NotificationType
	ActorID           *string
	CommunityID       *string
	RelatedEntityType *string
	RelatedEntityID   *string
	Data              map[string]any
}

// FanOutInput describes one triggering action and everyone it concerns.
type FanOutInput struct {
	RecipientIDs      []string
	Type              types.NotificationType
	ActorID           *string
	CommunityID       *string
	RelatedEntityType *string
	RelatedEntityID   *string
	Data              map[string]any
}

func (in CreateInput) build() *models.Notification {
	n := &models.Notification{
		ID:                tool.GenerateUUIDV7(),
		UserID:            in.UserID,
		Type:              in.Type,
		ActorID:           in.ActorID,
		CommunityID:       in.CommunityID,
		RelatedEntityType: in.RelatedEntityType,
		RelatedEntityID:   in.RelatedEntityID,
		IsRead:            false,
	}
	if len(in.Data) > 0 {
		n.Data = datatypes.JSONMap(in.Data)
	}
	return n
}

// Create persists one unread notification. Delivery over email or push is
// not performed here.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Notification, error) {
	if in.UserID == "" {
		return nil, apperr.Validation("recipient is required")
	}
	if !in.Type.Valid() {
		return nil, apperr.Validation("invalid notification type %q", in.Type)
	}
	n := in.build()
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	s.afterCreate(ctx, in.Type, n.UserID)
	return n, nil
}

// FanOut creates one notification per distinct recipient. The actor never
// notifies themselves.
func (s *Service) FanOut(ctx context.Context, in FanOutInput) ([]*models.Notification, error) {
	if !in.Type.Valid() {
		return nil, apperr.Validation("invalid notification type %q", in.Type)
	}
	recipients := lo.Filter(lo.Uniq(in.RecipientIDs), func(id string, _ int) bool {
		return id != "" && (in.ActorID == nil || id != *in.ActorID)
	})
	if len(recipients) == 0 {
		return []*models.Notification{}, nil
	}

	rows := lo.Map(recipients, func(id string, _ int) *models.Notification {
		return CreateInput{
			UserID:            id,
			Type:              in.Type,
			ActorID:           in.ActorID,
			CommunityID:       in.CommunityID,
			RelatedEntityType: in.RelatedEntityType,
			RelatedEntityID:   in.RelatedEntityID,
			Data:              in.Data,
		}.build()
	})
	if err := s.db.WithContext(ctx).CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return nil, fmt.Errorf("failed to fan out %s notifications: %w", in.Type, err)
	}
	logctx.FromCtx(ctx, s.log).Infow("notifications fanned out", "type", in.Type, "recipients", len(rows))
	s.afterCreate(ctx, in.Type, recipients...)
	return rows, nil
}

func (s *Service) afterCreate(ctx context.Context, t types.NotificationType, userIDs ...string) {
	if s.metrics != nil {
		s.metrics.NotificationsCreated.WithLabelValues(string(t)).Add(float64(len(userIDs)))
	}
	s.invalidate(ctx, userIDs...)
}

func (s *Service) invalidate(ctx context.Context, userIDs ...string) {
	if err := s.unread.Invalidate(ctx, userIDs...); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to invalidate unread count", "error", err)
	}
}

// ListRequest selects a page of the caller's notifications.
type ListRequest struct {
	Page   int
	Limit  int
	IsRead *bool
}

type ListResponse struct {
	Notifications      []*models.Notification `json:"notifications"`
	CurrentPage        int                    `json:"currentPage"`
	TotalPages         int                    `json:"totalPages"`
	TotalNotifications int64                  `json:"totalNotifications"`
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, req ListRequest) (*ListResponse, error) {
	page := types.NewPage(req.Page, req.Limit, DefaultListLimit, MaxListLimit)

	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.IsRead != nil {
		q = q.Where("is_read = ?", *req.IsRead)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	items := make([]*models.Notification, 0, page.Limit)
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &ListResponse{
		Notifications:      items,
		CurrentPage:        page.Page,
		TotalPages:         page.TotalPages(total),
		TotalNotifications: total,
	}, nil
}

// MarkAsRead flips the given unread notifications of userID to read and
// returns how many changed. Ids of other users are ignored.
func (s *Service) MarkAsRead(ctx context.Context, userID string, ids []string) (int64, error) {
	ids = lo.Uniq(lo.Compact(ids))
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND id IN ?", userID, false, ids).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.invalidate(ctx, userID)
	}
	return res.RowsAffected, nil
}

// MarkAllAsRead flips every unread notification of userID.
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.invalidate(ctx, userID)
	}
	return res.RowsAffected, nil
}

// UnreadCount serves from the counter cache and refills it on a miss. A refill
// racing with an invalidation is dropped by the cache.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	lg := logctx.FromCtx(ctx, s.log)
	cached, cacheErr := s.unread.Get(ctx, userID)
	if cacheErr != nil {
		lg.Warnw("unread count cache read failed", "error", cacheErr)
	} else if cached.Hit {
		return cached.Count, nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if cacheErr == nil {
		if err := s.unread.Set(ctx, userID, n, cached.Version); err != nil {
			lg.Warnw("unread count cache write failed", "error", err)
		}
	}
	return n, nil
}
