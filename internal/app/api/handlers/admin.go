package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/app/service/statistics"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/response"
)

type DashboardQuery struct {
	CommunityID string `form:"communityId"`
}

func (q DashboardQuery) community() *string {
	if q.CommunityID == "" {
		return nil
	}
	return &q.CommunityID
}

type RespSubscriptionLogs struct {
	Logs []*models.SubscriptionLog `json:"logs"`
}

// @Summary      Financial dashboard (Admin)
// @Description  MRR, active subscriptions, paying users, churn and revenue over the last 30 days.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  query  string  false  "Restrict to one community"
// @Success      200  {object}  statistics.FinancialSummary
// @Failure      403  {object}  handlers.RespError
// @Router       /api/v1/admin/dashboard/financial [get]
func ApiFinancialSummary(svc *statistics.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q DashboardQuery
		if !bind(c, log, &q, c.ShouldBindQuery) {
			return
		}
		res, err := svc.FinancialSummary(c.Request.Context(), q.community())
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      Activity dashboard (Admin)
// @Description  Member totals, active members and new members over the last 30 days.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        communityId  query  string  false  "Restrict to one community"
// @Success      200  {object}  statistics.GroupActivity
// @Failure      403  {object}  handlers.RespError
// @Router       /api/v1/admin/dashboard/activity [get]
func ApiGroupActivity(svc *statistics.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q DashboardQuery
		if !bind(c, log, &q, c.ShouldBindQuery) {
			return
		}
		res, err := svc.GroupActivity(c.Request.Context(), q.community())
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      Daily statistics (Admin)
// @Description  Daily payment count, revenue and new subscription series.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.StatisticRequest true "Statistic request parameters"
// @Success      200  {object}  statistics.StatisticResponse
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/statistics/daily [post]
func ApiDailyStatistic(svc *statistics.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		res, err := svc.GetDailyStatistic(c.Request.Context(), &req)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      List payments (Admin)
// @Description  Retrieves a paginated and filterable list of payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body statistics.PaymentListRequest true "Filters and pagination"
// @Success      200  {object}  statistics.PaymentListResponse
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/admin/payments/list [post]
func ApiListPayments(svc *statistics.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PaymentListRequest
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		res, err := svc.ListPayments(c.Request.Context(), &req)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      Subscription history (Admin)
// @Description  Before/after snapshots of every change applied to a subscription.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  handlers.RespSubscriptionLogs
// @Router       /api/v1/admin/subscriptions/{id}/logs [get]
func ApiSubscriptionLogs(svc *subscription.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := svc.Logs(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, RespSubscriptionLogs{Logs: logs})
	}
}

func RegisterAdminDashboardRoutes(r gin.IRouter, stats *statistics.Service, log *zap.SugaredLogger) {
	r.GET("/dashboard/financial", ApiFinancialSummary(stats, log))
	r.GET("/dashboard/activity", ApiGroupActivity(stats, log))
	r.POST("/statistics/daily", ApiDailyStatistic(stats, log))
}

func RegisterAdminPaymentRoutes(r gin.IRouter, stats *statistics.Service, subs *subscription.Service, log *zap.SugaredLogger) {
	r.POST("/payments/list", ApiListPayments(stats, log))
	r.GET("/subscriptions/:id/logs", ApiSubscriptionLogs(subs, log))
}
