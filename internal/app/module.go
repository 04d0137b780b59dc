package app

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fatflowers/community/internal/app/api/server"
	"github.com/fatflowers/community/internal/app/service/billing"
	"github.com/fatflowers/community/internal/app/service/chat"
	"github.com/fatflowers/community/internal/app/service/leaderboard"
	"github.com/fatflowers/community/internal/app/service/notification"
	"github.com/fatflowers/community/internal/app/service/statistics"
	"github.com/fatflowers/community/internal/app/service/subscription"
	"github.com/fatflowers/community/internal/platform/auth"
	"github.com/fatflowers/community/internal/platform/cache"
	"github.com/fatflowers/community/internal/platform/db"
	"github.com/fatflowers/community/internal/platform/permission"
	"github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/logger"
	"github.com/fatflowers/community/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// Infra holds process-wide platform dependencies.
var Infra = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	metrics.Module,
	cache.Module,
	permission.Module,
	auth.Module,
	fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Desugar()}
	}),
)

var Services = fx.Options(
	subscription.Module,
	notification.Module,
	billing.Module,
	statistics.Module,
	leaderboard.Module,
	chat.Module,
)

var Module = fx.Options(
	Infra,
	Services,
	server.Module,
)
