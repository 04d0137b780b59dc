package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/community/pkg/apperr"
)

func TestError_MapsStatusAndHidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "validation", err: apperr.Validation("limit must be positive"), wantCode: http.StatusBadRequest, wantBody: `{"error":"limit must be positive"}`},
		{name: "not found", err: apperr.NotFound("channel not found"), wantCode: http.StatusNotFound, wantBody: `{"error":"channel not found"}`},
		{name: "internal", err: apperr.Internal(errors.New("pq: connection refused"), "list failed"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"internal server error"}`},
		{name: "untyped", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			Error(c, zap.NewNop().Sugar(), tt.err)
			require.Equal(t, tt.wantCode, w.Code)
			require.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
