package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/fatflowers/community/internal/app/api/middleware"
	"github.com/fatflowers/community/internal/app/service/billing"
	"github.com/fatflowers/community/internal/app/service/chat"
	"github.com/fatflowers/community/internal/app/service/leaderboard"
	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/models"
	"github.com/fatflowers/community/internal/platform/cache"
	"github.com/fatflowers/community/internal/platform/db/dbtest"
	"github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/metrics"
	"github.com/fatflowers/community/pkg/types"
)

const webhookSecret = "whsec_handlers"

type env struct {
	db     *gorm.DB
	router *gin.Engine
	notif  *notification.Service
}

// asUser stands in for RequireAuth: the X-Test-User header becomes the caller.
func asUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(mw.ContextKeyUserID, c.GetHeader("X-Test-User"))
		c.Next()
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	log := zap.NewNop().Sugar()
	m := metrics.NewNopBusiness()
	cfg := &config.Config{Stripe: config.StripeConfig{WebhookSecret: webhookSecret}}

	notif := notification.NewService(db, log, cache.NopUnreadCounter{}, m)
	subs := subscription.NewService(db, log)
	rec := billing.NewReconciler(db, log, cfg, subs, notif, m)

	r := gin.New()
	api := r.Group("/api/v1")
	RegisterWebhookRoutes(api.Group("/webhooks"), rec, log)
	authed := api.Group("", asUser())
	RegisterNotificationRoutes(authed.Group("/notifications"), notif, log)
	RegisterCommunityRoutes(authed.Group("/communities"), leaderboard.NewService(db, log), log)
	RegisterChannelRoutes(authed.Group("/channels"), chat.NewService(db, log, notif), log)
	RegisterSubscriptionRoutes(authed.Group("/subscriptions"), subs, log)
	RegisterHealthRoutes(r)
	return &env{db: db, router: r, notif: notif}
}

func (e *env) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStripeWebhook(t *testing.T) {
	e := newEnv(t)
	body := []byte(`{"id":"evt_h1","object":"event","type":"customer.created","created":1760000000,"api_version":"2025-03-31.basil","data":{"object":{"id":"cus_9"}}}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(body)))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"error"`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(body)))
	req.Header.Set("stripe-signature", "t=1,v1=deadbeef")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.WebhookEvent{}).Count(&count).Error)
	require.Zero(t, count)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: webhookSecret, Timestamp: time.Now()})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(string(body)))
	req.Header.Set("stripe-signature", signed.Header)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"received":true}`, w.Body.String())

	require.NoError(t, e.db.Model(&models.WebhookEvent{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func seedNotifications(t *testing.T, e *env) {
	t.Helper()
	_, err := e.notif.FanOut(t.Context(), notification.FanOutInput{
		RecipientIDs: []string{"u1", "u2"},
		Type:         types.NotificationTypeNewPost,
	})
	require.NoError(t, err)
	_, err = e.notif.FanOut(t.Context(), notification.FanOutInput{
		RecipientIDs: []string{"u1"},
		Type:         types.NotificationTypePostComment,
	})
	require.NoError(t, err)
}

func TestNotificationsEndpoints(t *testing.T) {
	e := newEnv(t)
	seedNotifications(t, e)

	w := e.do(t, http.MethodGet, "/api/v1/notifications?page=1&limit=1&isRead=false", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list notification.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 1)
	require.EqualValues(t, 2, list.TotalNotifications)
	require.Equal(t, 2, list.TotalPages)

	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/v1/notifications?isRead=maybe", "u1", "").Code)
	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/v1/notifications?page=-1", "u1", "").Code)
	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/v1/notifications?page=10001", "u1", "").Code)

	w = e.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "u1", "")
	require.JSONEq(t, `{"unreadCount":2}`, w.Body.String())

	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPatch, "/api/v1/notifications", "u1", `{}`).Code)

	w = e.do(t, http.MethodPatch, "/api/v1/notifications", "u1", `{"notificationIds":["`+list.Notifications[0].ID+`"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"updatedCount":1}`, w.Body.String())

	w = e.do(t, http.MethodPatch, "/api/v1/notifications", "u1", `{"markAllAsRead":true}`)
	require.JSONEq(t, `{"updatedCount":1}`, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "u2", "")
	require.JSONEq(t, `{"unreadCount":1}`, w.Body.String())
}

func TestNotificationSettingsEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/v1/notifications/settings", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view notification.SettingsView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Settings, len(types.NotificationTypes))

	w = e.do(t, http.MethodPut, "/api/v1/notifications/settings", "u1",
		`[{"notificationType":"new_post","pushEnabled":true},{"notificationType":"bogus","emailEnabled":false}]`)
	require.Equal(t, http.StatusOK, w.Code)
	var res notification.UpdateSettingsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Updated, 1)
	require.True(t, res.Updated[0].PushEnabled)
	require.Len(t, res.Skipped, 1)
	require.Equal(t, "bogus", res.Skipped[0].NotificationType)

	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/api/v1/notifications/settings", "u1", `{"not":"an array"}`).Code)
}

func TestLeaderboardEndpoint_UnknownCommunity(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/communities/nope/leaderboard", "u1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), `"error"`)
}

func TestChannelMessagesEndpoints(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Create(&models.Community{ID: "c1", Name: "c1", Slug: "c1"}).Error)
	require.NoError(t, e.db.Create(&models.Channel{ID: "ch1", CommunityID: "c1", Name: "general"}).Error)
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, e.db.Create(&models.User{ID: id, Username: id, Email: id + "@x"}).Error)
		require.NoError(t, e.db.Create(&models.Membership{ID: id + "-m", CommunityID: "c1", UserID: id, Role: models.MemberRoleMember, JoinedAt: time.Now().UTC()}).Error)
	}

	w := e.do(t, http.MethodPost, "/api/v1/channels/ch1/messages", "u1", `{"content":"hello @u2"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var msg models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	require.Contains(t, msg.ContentHTML, "<p>hello @u2</p>")

	require.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/channels/ch1/messages", "u1", `{}`).Code)
	require.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/api/v1/channels/ch1/messages", "outsider", `{"content":"hi"}`).Code)

	w = e.do(t, http.MethodGet, "/api/v1/channels/ch1/messages", "u2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list chat.ListMessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Messages, 1)

	w = e.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "u2", "")
	require.JSONEq(t, `{"unreadCount":1}`, w.Body.String())
}

func TestSubscriptionsEndpoint(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/subscriptions", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"subscriptions":[]}`, w.Body.String())
}

func TestJoinAndCancelFreePlan(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Create(&models.Plan{ID: "free", CommunityID: "c1", Name: "Free", Currency: "usd", Interval: types.PlanIntervalMonth}).Error)

	w := e.do(t, http.MethodPost, "/api/v1/subscriptions", "u1", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/subscriptions", "u1", `{"plan_id":"free"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var sub models.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	require.Equal(t, types.SubscriptionStatusActive, sub.Status)

	w = e.do(t, http.MethodPost, "/api/v1/subscriptions/"+sub.ID+"/cancel", "u2", "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/subscriptions/"+sub.ID+"/cancel", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	require.Equal(t, types.SubscriptionStatusCanceled, sub.Status)
}
