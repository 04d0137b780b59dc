package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/app/service/leaderboard"
	"github.com/fatflowers/community/pkg/response"
)

// @Summary      Community leaderboard
// @Description  Members ranked by points, ties broken by user id.
// @Tags         Leaderboard
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "Community ID"
// @Param        page   query  int     false  "Page (1-based)"
// @Param        limit  query  int     false  "Page size (max 100)"
// @Success      200  {object}  leaderboard.Response
// @Failure      404  {object}  handlers.RespError
// @Router       /api/v1/communities/{id}/leaderboard [get]
func ApiGetLeaderboard(svc *leaderboard.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q PageQuery
		if !bind(c, log, &q, c.ShouldBindQuery) {
			return
		}
		res, err := svc.Get(c.Request.Context(), c.Param("id"), q.Page, q.Limit)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.OK(c, res)
	}
}

func RegisterCommunityRoutes(r gin.IRouter, svc *leaderboard.Service, log *zap.SugaredLogger) {
	r.GET("/:id/leaderboard", ApiGetLeaderboard(svc, log))
}
