package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Entry struct {
	Rank  int   `json:"rank"`
	User  User  `json:"user"`
	Score int64 `json:"score"`
}

type Response struct {
	Leaderboard  []Entry `json:"leaderboard"`
	CurrentPage  int     `json:"currentPage"`
	TotalPages   int     `json:"totalPages"`
	TotalEntries int64   `json:"totalEntries"`
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type row struct {
	ID        string
	Username  string
	Name      string
	AvatarURL string
	Points    int64
}

// Get ranks the community's members by points, highest first. Equal scores
// are ordered by user id so pages never overlap.
func (s *Service) Get(ctx context.Context, communityID string, page, limit int) (*Response, error) {
	if err := s.db.WithContext(ctx).Select("id").First(&models.Community{}, "id = ?", communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("community %s not found", communityID)
		}
		return nil, fmt.Errorf("failed to load community: %w", err)
	}

	p := types.NewPage(page, limit, DefaultLimit, MaxLimit)
	q := s.db.WithContext(ctx).Table("memberships AS m").
		Joins("JOIN users AS u ON u.id = m.user_id").
		Where("m.community_id = ?", communityID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	var rows []row
	if err := q.Select("u.id, u.username, u.name, u.avatar_url, u.points").
		Order("u.points DESC").Order("u.id ASC").
		Offset(p.Offset()).Limit(p.Limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank members: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, Entry{
			Rank:  p.Offset() + i + 1,
			User:  User{ID: r.ID, Username: r.Username, Name: r.Name, AvatarURL: r.AvatarURL},
			Score: r.Points,
		})
	}
	return &Response{
		Leaderboard:  entries,
		CurrentPage:  p.Page,
		TotalPages:   p.TotalPages(total),
		TotalEntries: total,
	}, nil
}
