package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/fatflowers/community/internal/app/api/middleware"
	"github.com/fatflowers/community/internal/app/service/chat"
	"github.com/fatflowers/community/pkg/response"
)

type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// @Summary      Post a chat message
// @Description  Markdown content is rendered to sanitized HTML; mentioned members are notified.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Channel ID"
// @Param        request  body  handlers.PostMessageRequest  true  "Message"
// @Success      201  {object}  models.Message
// @Failure      400  {object}  handlers.RespError
// @Failure      403  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/channels/{id}/messages [post]
func ApiPostMessage(svc *chat.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PostMessageRequest
		if !bind(c, log, &req, c.ShouldBindJSON) {
			return
		}
		msg, err := svc.PostMessage(c.Request.Context(), c.Param("id"), mw.UserID(c), req.Content)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// @Summary      List chat messages
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "Channel ID"
// @Param        page   query  int     false  "Page (1-based)"
// @Param        limit  query  int     false  "Page size (max 100)"
// @Success      200  {object}  chat.ListMessagesResponse
// @Failure      403  {object}  handlers.RespError
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/channels/{id}/messages [get]
func ApiListMessages(svc *chat.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q PageQuery
		if !bind(c, log, &q, c.ShouldBindQuery) {
			return
		}
		res, err := svc.ListMessages(c.Request.Context(), c.Param("id"), mw.UserID(c), q.Page, q.Limit)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

func RegisterChannelRoutes(r gin.IRouter, svc *chat.Service, log *zap.SugaredLogger) {
	r.POST("/:id/messages", ApiPostMessage(svc, log))
	r.GET("/:id/messages", ApiListMessages(svc, log))
}
