package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/logctx"
)

// ErrorBody is the JSON shape of every error answered by the API.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK writes data with HTTP 200.
func OK[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, data)
}

// Error writes err with the status derived from its apperr type. Internal
// causes are logged and replaced by a generic message.
func Error(c *gin.Context, log *zap.SugaredLogger, err error) {
	status := apperr.StatusCode(err)
	msg := "internal server error"
	if e, ok := apperr.As(err); ok && status < http.StatusInternalServerError {
		msg = e.Message
	}
	if status >= http.StatusInternalServerError && log != nil {
		logctx.FromGin(c, log).Errorw("request_failed", "error", err.Error())
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// BadRequest is a shortcut for binding failures.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: msg})
}
