package command

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/joeycumines/btport/internal/config"
	"github.com/stretchr/testify/require"
)

func TestResolveLogLevel(t *testing.T) {
	t.Setenv("BTPORT_LOG_LEVEL", "error")

	level, err := resolveLogLevel("debug", nil)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	_, err = resolveLogLevel("chatty", nil)
	require.ErrorContains(t, err, "invalid log level")

	level, err = resolveLogLevel("", nil)
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)

	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "debug")
	level, err = resolveLogLevel("", cfg)
	require.NoError(t, err)
	require.Equal(t, slog.LevelError, level, "environment wins over the config file")

	t.Setenv("BTPORT_LOG_LEVEL", "")
	level, err = resolveLogLevel(" warn ", cfg)
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)
}

func TestConfigureLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, ConfigureLogging(&buf, "WARN", nil))
	slog.Info("hidden")
	slog.Warn("shown", slog.String("component", "test"))
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "level=WARN msg=shown component=test")

	require.Error(t, ConfigureLogging(&buf, "loud", nil))
}
