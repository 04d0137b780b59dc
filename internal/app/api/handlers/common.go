package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/community/pkg/apperr"
	"github.com/fatflowers/community/pkg/response"
)

// PageQuery is the page/limit pair accepted by list endpoints. Limits above
// the endpoint maximum are clamped by the service.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=10000"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// bind reports a 400 and returns false when obj cannot be bound.
func bind(c *gin.Context, log *zap.SugaredLogger, obj any, b func(any) error) bool {
	if err := b(obj); err != nil {
		response.Error(c, log, apperr.Validation("invalid request: %s", err.Error()))
		return false
	}
	return true
}

// RespError documents the error body.
type RespError = response.ErrorBody
