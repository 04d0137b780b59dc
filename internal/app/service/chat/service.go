package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/tool"
	"github.com/fatflowers/community/pkg/types"
)

const (
	MaxContentLength = 4000

	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

var mentionPattern = regexp.MustCompile(`(?:^|[^\w@])@([A-Za-z0-9_]{2,64})`)

// Mentions returns the distinct usernames mentioned with @name, in order.
func Mentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	return lo.Uniq(lo.Map(matches, func(m []string, _ int) string { return m[1] }))
}

type Notifier interface {
	FanOut(ctx context.Context, in notification.FanOutInput) ([]*models.Notification, error)
}

type Service struct {
	db       *gorm.DB
	log      *zap.SugaredLogger
	renderer *Renderer
	notifier Notifier
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, notifier *notification.Service) *Service {
	return newService(db, log, notifier)
}

func newService(db *gorm.DB, log *zap.SugaredLogger, notifier Notifier) *Service {
	return &Service{db: db, log: log, renderer: NewRenderer(), notifier: notifier}
}

func (s *Service) channelForMember(ctx context.Context, tx *gorm.DB, channelID, userID string) (*models.Channel, error) {
	var ch models.Channel
	if err := tx.WithContext(ctx).Where("id = ?", channelID).First(&ch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("channel %s not found", channelID)
		}
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Membership{}).
		Where("community_id = ? AND user_id = ?", ch.CommunityID, userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if count == 0 {
		return nil, apperr.Forbidden("not a member of this community")
	}
	return &ch, nil
}

// PostMessage stores the message and moves the channel's last-message
// pointer in one transaction, then notifies mentioned members.
func (s *Service) PostMessage(ctx context.Context, channelID, authorID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, apperr.Validation("content exceeds %d characters", MaxContentLength)
	}
	rendered, err := s.renderer.Render(content)
	if err != nil {
		return nil, apperr.Internal(err, "render message")
	}

	var (
		msg     *models.Message
		channel *models.Channel
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ch, err := s.channelForMember(ctx, tx, channelID, authorID)
		if err != nil {
			return err
		}
		channel = ch

		msg = &models.Message{
			ID:          tool.GenerateUUIDV7(),
			ChannelID:   ch.ID,
			UserID:      authorID,
			Content:     content,
			ContentHTML: rendered,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.WithContext(ctx).Create(msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if err := tx.WithContext(ctx).Model(&models.Channel{}).Where("id = ?", ch.ID).
			Updates(map[string]any{
				"last_message_id": msg.ID,
				"last_message_at": msg.CreatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update channel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, channel, msg)
	return msg, nil
}

func (s *Service) notifyMentions(ctx context.Context, ch *models.Channel, msg *models.Message) {
	names := Mentions(msg.Content)
	if len(names) == 0 || s.notifier == nil {
		return
	}
	lg := logctx.FromCtx(ctx, s.log)

	var ids []string
	if err := s.db.WithContext(ctx).Table("users AS u").
		Joins("JOIN memberships AS m ON m.user_id = u.id AND m.community_id = ?", ch.CommunityID).
		Where("u.username IN ?", names).
		Pluck("u.id", &ids).Error; err != nil {
		lg.Errorw("failed to resolve mentions", "error", err, "message_id", msg.ID)
		return
	}
	if _, err := s.notifier.FanOut(ctx, notification.FanOutInput{
		RecipientIDs:      ids,
		Type:              types.NotificationTypeChatMention,
		ActorID:           lo.ToPtr(msg.UserID),
		CommunityID:       lo.ToPtr(ch.CommunityID),
		RelatedEntityType: lo.ToPtr("message"),
		RelatedEntityID:   lo.ToPtr(msg.ID),
		Data:              map[string]any{"channelId": ch.ID, "channelName": ch.Name},
	}); err != nil {
		lg.Errorw("failed to notify mentions", "error", err, "message_id", msg.ID)
	}
}

type ListMessagesResponse struct {
	Messages      []*models.Message `json:"messages"`
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalMessages int64             `json:"totalMessages"`
}

// ListMessages returns the channel's messages, newest first.
func (s *Service) ListMessages(ctx context.Context, channelID, userID string, page, limit int) (*ListMessagesResponse, error) {
	if _, err := s.channelForMember(ctx, s.db, channelID, userID); err != nil {
		return nil, err
	}
	p := types.NewPage(page, limit, defaultMessageLimit, maxMessageLimit)
	q := s.db.WithContext(ctx).Model(&models.Message{}).Where("channel_id = ?", channelID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	items := make([]*models.Message, 0, p.Limit)
	if err := q.Order("created_at DESC").Order("id DESC").Offset(p.Offset()).Limit(p.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &ListMessagesResponse{
		Messages:      items,
		CurrentPage:   p.Page,
		TotalPages:    p.TotalPages(total),
		TotalMessages: total,
	}, nil
}
