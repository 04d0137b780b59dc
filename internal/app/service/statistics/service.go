package statistics

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/types"
)

// Window is the look-back period of the "last 30 days" metrics.
const Window = 30 * 24 * time.Hour

// Service computes read-only dashboard aggregates. Nothing is cached or
// persisted; every call reads current state.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	now func() time.Time
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

type FinancialSummary struct {
	// MRR is in major currency units; yearly plans count as price/12.
	MRR                 float64   `json:"mrr"`
	ActiveSubscriptions int64     `json:"activeSubscriptions"`
	PayingUsers         int64     `json:"payingUsers"`
	ChurnedLast30Days   int64     `json:"churnedLast30Days"`
	ChurnRate           float64   `json:"churnRate"`
	RevenueLast30Days   float64   `json:"revenueLast30Days"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

type GroupActivity struct {
	TotalMembers     int64     `json:"totalMembers"`
	ActiveMembers    int64     `json:"activeMembers"`
	NewMembers30Days int64     `json:"newMembersLast30Days"`
	ActivityRate     float64   `json:"activityRate"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(whole))
}

// subscriptionsOf scopes a subscriptions query to one community via the plan.
func (s *Service) subscriptionsOf(ctx context.Context, communityID *string) *gorm.DB {
	q := s.db.WithContext(ctx).Table("subscriptions AS s").Joins("JOIN plans AS p ON p.id = s.plan_id")
	if communityID != nil {
		q = q.Where("p.community_id = ?", *communityID)
	}
	return q
}

// FinancialSummary derives MRR, paying users, churn and recent revenue. The
// churn rate is churned / (active + churned) over the window, which is an
// approximation when users churn and reactivate inside it.
func (s *Service) FinancialSummary(ctx context.Context, communityID *string) (*FinancialSummary, error) {
	now := s.now().UTC()
	since := now.Add(-Window)

	var active struct {
		MonthlyCents float64
		ActiveCount  int64
		PayingUsers  int64
	}
	if err := s.subscriptionsOf(ctx, communityID).
		Select(`COALESCE(SUM(CASE WHEN p.billing_interval = ? THEN p.price / 12.0 ELSE p.price * 1.0 END), 0) AS monthly_cents,
COUNT(*) AS active_count, COUNT(DISTINCT s.user_id) AS paying_users`, types.PlanIntervalYear).
		Where("s.status = ? AND p.price > 0", types.SubscriptionStatusActive).
		Scan(&active).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate active subscriptions: %w", err)
	}

	var churned int64
	if err := s.subscriptionsOf(ctx, communityID).
		Where("s.status IN ?", []types.SubscriptionStatus{types.SubscriptionStatusCanceled, types.SubscriptionStatusExpired}).
		Where("s.end_date >= ? AND s.end_date <= ?", since, now).
		Count(&churned).Error; err != nil {
		return nil, fmt.Errorf("failed to count churned subscriptions: %w", err)
	}

	var revenueCents int64
	rq := s.db.WithContext(ctx).Table("payments AS pay").
		Select("COALESCE(SUM(pay.amount), 0)").
		Where("pay.status = ? AND pay.paid_at >= ?", types.PaymentStatusSucceeded, since)
	if communityID != nil {
		rq = rq.Joins("JOIN plans AS p ON p.id = pay.plan_id").Where("p.community_id = ?", *communityID)
	}
	if err := rq.Scan(&revenueCents).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &FinancialSummary{
		MRR:                 round2(active.MonthlyCents / 100),
		ActiveSubscriptions: active.ActiveCount,
		PayingUsers:         active.PayingUsers,
		ChurnedLast30Days:   churned,
		ChurnRate:           percent(churned, active.ActiveCount+churned),
		RevenueLast30Days:   round2(types.CentsToMajor(revenueCents)),
		GeneratedAt:         now,
	}, nil
}

// GroupActivity counts members and treats a session expiring inside the
// window as activity. Without a community every user is a member.
func (s *Service) GroupActivity(ctx context.Context, communityID *string) (*GroupActivity, error) {
	now := s.now().UTC()
	since := now.Add(-Window)
	db := s.db.WithContext(ctx)

	var total, fresh, active int64
	if communityID != nil {
		if err := db.Model(&models.Membership{}).Where("community_id = ?", *communityID).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count members: %w", err)
		}
		if err := db.Model(&models.Membership{}).Where("community_id = ? AND joined_at >= ?", *communityID, since).Count(&fresh).Error; err != nil {
			return nil, fmt.Errorf("failed to count new members: %w", err)
		}
		if err := db.Table("sessions AS ss").
			Joins("JOIN memberships AS m ON m.user_id = ss.user_id").
			Where("m.community_id = ? AND ss.expires_at > ?", *communityID, since).
			Distinct("ss.user_id").
			Count(&active).Error; err != nil {
			return nil, fmt.Errorf("failed to count active members: %w", err)
		}
	} else {
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if err := db.Model(&models.User{}).Where("created_at >= ?", since).Count(&fresh).Error; err != nil {
			return nil, fmt.Errorf("failed to count new users: %w", err)
		}
		if err := db.Model(&models.Session{}).Where("expires_at > ?", since).Distinct("user_id").Count(&active).Error; err != nil {
			return nil, fmt.Errorf("failed to count active users: %w", err)
		}
	}

	return &GroupActivity{
		TotalMembers:     total,
		ActiveMembers:    active,
		NewMembers30Days: fresh,
		ActivityRate:     percent(active, total),
		GeneratedAt:      now,
	}, nil
}
