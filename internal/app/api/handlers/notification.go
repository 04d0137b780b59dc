package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/community/internal/app/api/middleware"
	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/response"
)

type ListNotificationsQuery struct {
	PageQuery
	IsRead *bool `form:"isRead"`
}

type MarkReadRequest struct {
	MarkAllAsRead   bool     `json:"markAllAsRead"`
	NotificationIDs []string `json:"notificationIds"`
}

type RespUpdatedCount struct {
	UpdatedCount int64 `json:"updatedCount"`
}

type RespUnreadCount struct {
	UnreadCount int64 `json:"unreadCount"`
}

// @Summary      List notifications
// @Description  Returns the caller's notifications, newest first.
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int   false  "Page (1-based)"
// @Param        limit   query  int   false  "Page size (max 50)"
// @Param        isRead  query  bool  false  "Filter by read state"
// @Success      200  {object}  notification.ListResponse
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/notifications [get]
func ApiListNotifications(svc *notification.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ListNotificationsQuery
		if !bind(c, log, &q, c.ShouldBindQuery) {
			return
		}
		res, err := svc.List(c.Request.Context(), mw.UserID(c), notification.ListRequest{Page: q.Page, Limit: q.Limit, IsRead: q.IsRead})
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      Mark notifications as read
// @Description  Marks the listed notifications, or all of them with markAllAsRead, as read. Only the caller's unread notifications are counted.
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.MarkReadRequest true "Notifications to mark"
// @Success      200  {object}  handlers.RespUpdatedCount
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/notifications [patch]
func ApiMarkNotificationsRead(svc *notification.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkReadRequest
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		var (
			n   int64
			err error
		)
		switch {
		case req.MarkAllAsRead:
			n, err = svc.MarkAllAsRead(c.Request.Context(), mw.UserID(c))
		case len(req.NotificationIDs) > 0:
			n, err = svc.MarkAsRead(c.Request.Context(), mw.UserID(c), req.NotificationIDs)
		default:
			err = apperr.Validation("either markAllAsRead or notificationIds is required")
		}
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, RespUpdatedCount{UpdatedCount: n})
	}
}

// @Summary      Unread notification count
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespUnreadCount
// @Router       /api/v1/notifications/unread-count [get]
func ApiUnreadCount(svc *notification.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.UnreadCount(c.Request.Context(), mw.UserID(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, RespUnreadCount{UnreadCount: n})
	}
}

// @Summary      Get notification settings
// @Description  One global entry per notification type, defaults synthesized for unsaved types, plus per-community overrides.
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notification.SettingsView
// @Router       /api/v1/notifications/settings [get]
func ApiGetNotificationSettings(svc *notification.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.GetSettings(c.Request.Context(), mw.UserID(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

// @Summary      Update notification settings
// @Description  Upserts an array of partial settings. Invalid entries are skipped and reported.
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body []notification.SettingInput true "Partial settings"
// @Success      200  {object}  notification.UpdateSettingsResult
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/notifications/settings [put]
func ApiUpdateNotificationSettings(svc *notification.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []notification.SettingInput
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		res, err := svc.UpdateSettings(c.Request.Context(), mw.UserID(c), req)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

func RegisterNotificationRoutes(r gin.IRouter, svc *notification.Service, log *zap.SugaredLogger) {
	r.GET("", ApiListNotifications(svc, log))
	r.PATCH("", ApiMarkNotificationsRead(svc, log))
	r.GET("/unread-count", ApiUnreadCount(svc, log))
	r.GET("/settings", ApiGetNotificationSettings(svc, log))
	r.PUT("/settings", ApiUpdateNotificationSettings(svc, log))
}
