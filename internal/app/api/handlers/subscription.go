package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/community/internal/app/api/middleware"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/pkg/response"
)

type RespSubscriptions struct {
	Subscriptions []*models.Subscription `json:"subscriptions"`
}

// @Summary      List my subscriptions
// @Tags         Billing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptions
// @Router       /api/v1/subscriptions [get]
func ApiListSubscriptions(svc *subscription.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.ListForUser(c.Request.Context(), mw.UserID(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, RespSubscriptions{Subscriptions: subs})
	}
}

type JoinPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// @Summary      Join a free plan
// @Description  Paid plans are subscribed through the billing gateway.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  handlers.JoinPlanRequest  true  "Plan"
// @Success      201  {object}  models.Subscription
// @Failure      400  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/subscriptions [post]
func ApiJoinFreePlan(svc *subscription.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinPlanRequest
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		sub, err := svc.JoinFree(c.Request.Context(), mw.UserID(c), req.PlanID)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, sub)
	}
}

// @Summary      Cancel my subscription
// @Tags         Billing
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  models.Subscription
// @Failure      400  {object}  handlers.RespError
// @Failure      403  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/subscriptions/{id}/cancel [post]
func ApiCancelSubscription(svc *subscription.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Cancel(c.Request.Context(), mw.UserID(c), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, sub)
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subscription.Service, log *zap.SugaredLogger) {
	r.GET("", ApiListSubscriptions(svc, log))
	r.POST("", ApiJoinFreePlan(svc, log))
	r.POST("/:id/cancel", ApiCancelSubscription(svc, log))
}
