package logger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/community/pkg/config"
)

func TestNew_RespectsLevel(t *testing.T) {
	l, err := New(&config.Config{Env: config.EnvProd, LogLevel: "warn"})
	require.NoError(t, err)
	require.False(t, l.Desugar().Core().Enabled(-1))

	_, err = New(&config.Config{LogLevel: "loud"})
	require.Error(t, err)
}
