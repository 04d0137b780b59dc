package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/community/docs"
	"github.com/fatflowers/community/internal/app/api/handlers"
	mw "github.com/fatflowers/community/internal/app/api/middleware"
	"github.com/fatflowers/community/internal/app/service/billing"
	"github.com/fatflowers/community/internal/app/service/chat"
	"github.com/fatflowers/community/internal/app/service/leaderboard"
	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/app/service/statistics"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/platform/auth"
	"github.com/fatflowers/community/internal/platform/permission"
	cfgpkg "github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/metrics"
)

// Deps are the services mounted on the router.
type Deps struct {
	fx.In

	Log           *zap.SugaredLogger
	Config        *cfgpkg.Config
	Registerer    prometheus.Registerer
	Tokens        *auth.TokenService
	Enforcer      *permission.Enforcer
	Reconciler    *billing.Reconciler
	Notifications *notification.Service
	Leaderboard   *leaderboard.Service
	Statistics    *statistics.Service
	Subscriptions *subscription.Service
	Chat          *chat.Service
}

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, d Deps) error {
	log := d.Log
	p, err := metrics.NewPrometheus(d.Registerer, nil)
	if err != nil {
		return fmt.Errorf("failed to register http metrics: %w", err)
	}
	r.Use(p.HandlerFunc(), mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))

	handlers.RegisterHealthRoutes(r)
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	handlers.RegisterWebhookRoutes(apiV1.Group("/webhooks"), d.Reconciler, log)

	authed := apiV1.Group("", mw.RequireAuth(d.Tokens, log))
	handlers.RegisterNotificationRoutes(authed.Group("/notifications"), d.Notifications, log)
	handlers.RegisterCommunityRoutes(authed.Group("/communities"), d.Leaderboard, log)
	handlers.RegisterChannelRoutes(authed.Group("/channels"), d.Chat, log)
	handlers.RegisterSubscriptionRoutes(authed.Group("/subscriptions"), d.Subscriptions, log)

	admin := authed.Group("/admin")
	handlers.RegisterAdminDashboardRoutes(
		admin.Group("", mw.RequirePermission(d.Enforcer, log, permission.ResourceDashboard, permission.ActionRead)),
		d.Statistics, log)
	handlers.RegisterAdminPaymentRoutes(
		admin.Group("", mw.RequirePermission(d.Enforcer, log, permission.ResourcePayment, permission.ActionRead)),
		d.Statistics, d.Subscriptions, log)
	return nil
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	serve(lc, log, "http", srv, 120*time.Second)
}

// runMetricsServer serves /metrics on its own listener so it is not exposed
// with the public API.
func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, g prometheus.Gatherer) {
	if cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(metrics.DefaultMetricsPath, metrics.Handler(g))
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	serve(lc, log, "metrics", srv, 5*time.Second)
}

func serve(lc fx.Lifecycle, log *zap.SugaredLogger, name string, srv *http.Server, stopTimeout time.Duration) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "name", name, "addr", srv.Addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("server error", "name", name, "error", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping server", "name", name)
			shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
	fx.Invoke(runMetricsServer),
)
