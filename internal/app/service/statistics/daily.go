package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/types"
)

type StatisticType string

const (
	StatisticTypeDailyPaymentCount         StatisticType = "daily_payment_count"
	StatisticTypeDailyRevenue              StatisticType = "daily_revenue"
	StatisticTypeDailyNewSubscriptionCount StatisticType = "daily_new_subscription_count"
)

const (
	DefaultDays = 30
	MaxDays     = 366
)

var statisticTypes = []StatisticType{
	StatisticTypeDailyPaymentCount,
	StatisticTypeDailyRevenue,
	StatisticTypeDailyNewSubscriptionCount,
}

// paymentFilterFields can be filtered on and only apply to payment based items.
var paymentFilterFields = []string{"currency", "status", "plan_id", "paid_at"}

var validFilters = map[string][]StatisticType{
	"currency": {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue},
	"status":   {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue},
	"plan_id":  {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue, StatisticTypeDailyNewSubscriptionCount},
	"paid_at":  {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue},
}

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
	// Days limits the series to the most recent days; 0 means 30 and values
	// above MaxDays are capped.
	Days int `json:"days"`
}

// filtersFor keeps only the filters that apply to statisticType.
func (r *StatisticRequest) filtersFor(statisticType StatisticType) types.FiltersAnd {
	return lo.Filter(r.Filters, func(f *types.CommonFilter, _ int) bool {
		return lo.Contains(validFilters[f.Field], statisticType)
	})
}

type StatisticResponseDataItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// dateExpr formats a timestamp column as YYYY-MM-DD in the connected dialect.
func dateExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("TO_CHAR(%s, 'YYYY-MM-DD')", column)
}

// getDailyPaymentCount buckets every attempt by when it was recorded, since
// failed payments carry no paid_at.
func (s *Service) getDailyPaymentCount(ctx context.Context, r *StatisticRequest, since time.Time) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := dateExpr(s.db, "created_at")
	q := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select(day+" AS date, count(*) AS value").
		Where("created_at >= ?", since).
		Where(clause.Where{Exprs: []clause.Expression{r.filtersFor(StatisticTypeDailyPaymentCount)}}).
		Group(day).
		Order("date")
	if err := q.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyRevenue(ctx context.Context, r *StatisticRequest, since time.Time) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := dateExpr(s.db, "paid_at")
	q := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select(day+" AS date, currency AS label, sum(amount) AS value").
		Where("paid_at >= ? AND status = ?", since, types.PaymentStatusSucceeded).
		Where(clause.Where{Exprs: []clause.Expression{r.filtersFor(StatisticTypeDailyRevenue)}}).
		Group(day).
		Group("currency").
		Order("date").Order("label")
	if err := q.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyNewSubscriptionCount(ctx context.Context, r *StatisticRequest, since time.Time) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	day := dateExpr(s.db, "created_at")
	q := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Select(day+" AS date, count(DISTINCT user_id) AS value").
		Where("created_at >= ?", since).
		Where(clause.Where{Exprs: []clause.Expression{r.filtersFor(StatisticTypeDailyNewSubscriptionCount)}}).
		Group(day).
		Order("date")
	if err := q.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, r *StatisticRequest, item *StatisticDataItem, since time.Time) ([]StatisticResponseDataItem, error) {
	switch item.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, r, since)
	case StatisticTypeDailyRevenue:
		return s.getDailyRevenue(ctx, r, since)
	case StatisticTypeDailyNewSubscriptionCount:
		return s.getDailyNewSubscriptionCount(ctx, r, since)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", item.ID)
	}
}

// GetDailyStatistic computes every requested series concurrently and fails
// with the first error.
func (s *Service) GetDailyStatistic(ctx context.Context, r *StatisticRequest) (*StatisticResponse, error) {
	if err := types.ValidateFilters(r.Filters, paymentFilterFields...); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	for _, item := range r.DataItems {
		if item == nil || !lo.Contains(statisticTypes, item.ID) {
			return nil, apperr.Validation("invalid data item")
		}
	}
	days := r.Days
	if days <= 0 {
		days = DefaultDays
	}
	days = min(days, MaxDays)
	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	var wg sync.WaitGroup
	errChan := make(chan error, len(r.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(r.DataItems))

	for _, item := range r.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, r, di, since)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", di.ID, err)
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	results := make(map[StatisticType][]StatisticResponseDataItem, len(r.DataItems))
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &StatisticResponse{DataItems: results}, nil
}
