package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// trace_id to gin.Context and request context.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := base.With("trace_id", c.GetString(ContextKeyTraceID))
		setLogger(c, reqLogger)
		c.Next()
	}
}

func setLogger(c *gin.Context, l *zap.SugaredLogger) {
	c.Set(logctx.GinLoggerKey, l)
	c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), l))
}
