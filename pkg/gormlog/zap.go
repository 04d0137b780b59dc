package gormlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/fatflowers/community/pkg/logctx"
)

// ZapLogger implements gorm.io/gorm/logger.Interface on top of the
// request-scoped zap logger found in the context.
type ZapLogger struct {
	base          *zap.SugaredLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

type Option func(*ZapLogger)

func WithLevel(level gormlogger.LogLevel) Option {
	return func(z *ZapLogger) { z.level = level }
}

func WithSlowThreshold(d time.Duration) Option {
	return func(z *ZapLogger) { z.slowThreshold = d }
}

func New(base *zap.SugaredLogger, opts ...Option) *ZapLogger {
	z := &ZapLogger{base: base, level: gormlogger.Warn, slowThreshold: 500 * time.Millisecond}
	for _, o := range opts {
		o(z)
	}
	return z
}

func (z *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *z
	cp.level = level
	return &cp
}

func (z *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Info {
		logctx.FromCtx(ctx, z.base).Infow(msg, "args", data)
	}
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Warn {
		logctx.FromCtx(ctx, z.base).Warnw(msg, "args", data)
	}
}

func (z *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.level >= gormlogger.Error {
		logctx.FromCtx(ctx, z.base).Errorw(msg, "args", data)
	}
}

func (z *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	lg := logctx.FromCtx(ctx, z.base)
	fields := []interface{}{
		"rows", rows,
		"elapsed_ms", elapsed.Milliseconds(),
		"caller", shortCaller(utils.FileWithLineNum()),
		"sql", sql,
	}
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && z.level >= gormlogger.Error:
		lg.Errorw("gorm_trace", append(fields, "err", err)...)
	case z.slowThreshold > 0 && elapsed > z.slowThreshold && z.level >= gormlogger.Warn:
		lg.Warnw("gorm_slow", fields...)
	case z.level >= gormlogger.Info:
		lg.Infow("gorm", fields...)
	}
}

// shortCaller trims absolute build paths to repo-relative where possible,
// e.g. /home/ci/src/internal/platform/db/postgres.go:38 -> internal/platform/db/postgres.go:38.
func shortCaller(s string) string {
	if s == "" {
		return s
	}
	pathPart, linePart := s, ""
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		pathPart, linePart = s[:idx], s[idx:]
	}
	p := filepath.ToSlash(pathPart)
	for _, marker := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if i := strings.Index(p, marker); i >= 0 {
			return p[i+1:] + linePart
		}
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if n := len(parts); n >= 3 {
		return strings.Join(parts[n-3:], "/") + linePart
	}
	return strings.Join(parts, "/") + linePart
}
