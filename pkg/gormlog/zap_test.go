package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShortCaller(t *testing.T) {
	tests := map[string]string{
		"/home/ci/src/internal/platform/db/postgres.go:38": "internal/platform/db/postgres.go:38",
		"/go/pkg/mod/gorm.io/gorm@v1.31.1/callbacks.go:12": "pkg/mod/gorm.io/gorm@v1.31.1/callbacks.go:12",
		"/a/b/c/d.go:1": "b/c/d.go:1",
		"x.go:3":        "x.go:3",
		"":              "",
	}
	for in, want := range tests {
		require.Equal(t, want, shortCaller(in), in)
	}
}

func TestTrace_LevelsAndRecordNotFound(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core).Sugar(), WithSlowThreshold(time.Millisecond))
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	require.Equal(t, 0, logs.Len())

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len())

	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm_slow").Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	require.Equal(t, 2, logs.Len())
}
