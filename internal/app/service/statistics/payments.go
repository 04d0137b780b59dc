package statistics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/types"
)

const (
	defaultPaymentLimit = 20
	maxPaymentLimit     = 100
)

var paymentListFields = []string{"user_id", "subscription_id", "plan_id", "currency", "status", "paid_at", "created_at", "amount"}

type PaymentListRequest struct {
	Filters []*types.CommonFilter `json:"filters"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

type PaymentView struct {
	models.Payment
	AmountMajor float64 `json:"amount_major"`
}

type PaymentListResponse struct {
	Payments    []*PaymentView `json:"payments"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	Total       int64          `json:"total"`
}

// ListPayments returns payments matching every filter, newest first.
func (s *Service) ListPayments(ctx context.Context, req *PaymentListRequest) (*PaymentListResponse, error) {
	if err := types.ValidateFilters(req.Filters, paymentListFields...); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	page := types.NewPage(req.Page, req.Limit, defaultPaymentLimit, maxPaymentLimit)

	q := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}}).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}
	var rows []*models.Payment
	if err := q.Order("created_at DESC").Order("id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	views := make([]*PaymentView, 0, len(rows))
	for _, p := range rows {
		views = append(views, &PaymentView{Payment: *p, AmountMajor: p.AmountMajor()})
	}
	return &PaymentListResponse{
		Payments:    views,
		CurrentPage: page.Page,
		TotalPages:  page.TotalPages(total),
		Total:       total,
	}, nil
}
