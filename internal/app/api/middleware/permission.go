package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/platform/permission"
	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
	"github.com/fatflowers/community/pkg/response"
)

// RequirePermission must run after RequireAuth.
func RequirePermission(enforcer *permission.Enforcer, base *zap.SugaredLogger, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := string(UserRole(c))
		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, base, apperr.Internal(err, "permission check failed"))
			return
		}
		if !allowed {
			logctx.FromGin(c, base).Warnw("permission denied", "role", role, "resource", resource, "action", action)
			response.Error(c, base, apperr.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}
