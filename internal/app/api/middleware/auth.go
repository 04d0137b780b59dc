package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/auth"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/response"
)

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// RequireAuth accepts "Authorization: Bearer <token>" and places the caller's
// id and role on the context.
func RequireAuth(tokens *auth.TokenService, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, base, apperr.Unauthorized("missing authorization token"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Error(c, base, apperr.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			logctx.FromGin(c, base).Warnw("failed to verify token", "error", err)
			response.Error(c, base, apperr.Unauthorized("invalid or expired token"))
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, string(claims.Role))
		c.Request = c.Request.WithContext(logctx.WithUserID(c.Request.Context(), claims.UserID))
		setLogger(c, logctx.FromGin(c, base).With("user_id", claims.UserID))
		c.Next()
	}
}

// UserID returns the authenticated caller set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

func UserRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString(ContextKeyUserRole))
}
