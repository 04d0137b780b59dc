package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/auth"
	"github.com/fatflowers/community/internal/platform/permission"
	"github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/logctx"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	s, err := auth.NewTokenService(&config.Config{Auth: config.AuthConfig{JWTSecret: "secret", Issuer: "community"}})
	require.NoError(t, err)
	return s
}

func TestTraceAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(base), AccessLogMiddleware(base))
	r.GET("/ping", func(c *gin.Context) {
		require.Equal(t, "req-1", logctx.TraceID(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_access").All()
	require.Len(t, entries, 1)
	require.Equal(t, "req-1", entries[0].ContextMap()["trace_id"])
	require.EqualValues(t, http.StatusNoContent, entries[0].ContextMap()["status"])
}

func TestTraceMiddleware_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, w.Header().Get(HeaderRequestID), 36)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens(t)
	log := zap.NewNop().Sugar()

	r := gin.New()
	r.Use(RequireAuth(tokens, log))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "role": UserRole(c)})
	})

	valid, err := tokens.Issue("u1", models.UserRoleUser, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "missing", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", code: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + valid, code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			require.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				require.JSONEq(t, `{"id":"u1","role":"user"}`, w.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens(t)
	log := zap.NewNop().Sugar()
	enforcer, err := permission.NewMemoryEnforcer(log)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequireAuth(tokens, log), RequirePermission(enforcer, log, permission.ResourceDashboard, permission.ActionRead))
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	for role, code := range map[models.UserRole]int{
		models.UserRoleAdmin: http.StatusOK,
		models.UserRoleUser:  http.StatusForbidden,
	} {
		token, err := tokens.Issue("u1", role, time.Hour)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		require.Equal(t, code, w.Code, role)
	}
}
