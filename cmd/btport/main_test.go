package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/btport/internal/command"
	"github.com/joeycumines/btport/internal/config"
	"github.com/joeycumines/btport/internal/script"
	"github.com/stretchr/testify/require"
)

// isolate points the config at a fresh file and restores the default logger.
func isolate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	t.Setenv(config.EnvConfigPath, path)
	for _, env := range []string{"BTPORT_LOG_LEVEL", "BTPORT_COLOR"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		script.SetCacheSize(script.DefaultCacheSize)
	})
	return path
}

func runArgs(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	isolate(t, "")

	t.Run("no command shows help", func(t *testing.T) {
		stdout, _, err := runArgs()
		require.NoError(t, err)
		require.Contains(t, stdout, "Available commands:")
		for _, name := range []string{"check", "config", "convert", "eval", "help", "ports", "status", "types", "version"} {
			require.Contains(t, stdout, "  "+name)
		}
	})

	t.Run("help flag", func(t *testing.T) {
		for _, arg := range []string{"--help", "-h"} {
			stdout, stderr, err := runArgs(arg)
			require.NoError(t, err)
			require.Contains(t, stdout, "Usage: btport")
			require.Contains(t, stderr, "-log-level")
		}
	})

	t.Run("version", func(t *testing.T) {
		stdout, _, err := runArgs("version")
		require.NoError(t, err)
		require.Equal(t, "btport version "+version+"\n", stdout)
	})

	t.Run("convert", func(t *testing.T) {
		stdout, _, err := runArgs("convert", "-type", "[]float64", "1;2.50")
		require.NoError(t, err)
		require.Equal(t, "1;2.5\n", stdout)
	})

	t.Run("unknown command", func(t *testing.T) {
		_, stderr, err := runArgs("nonexistent")
		require.ErrorIs(t, err, command.ErrUnknownCommand)
		require.Contains(t, stderr, "Use 'btport help'")
	})

	t.Run("bad command flag", func(t *testing.T) {
		_, stderr, err := runArgs("convert", "-nope")
		require.Error(t, err)
		require.Contains(t, stderr, "Usage: btport convert")
	})
}

func TestRun_ConfigDrivesCommands(t *testing.T) {
	path := isolate(t, "color never\nscript.cache-size 7\n\n[convert]\ntype btcore.NodeType\n")

	stdout, _, err := runArgs("convert", "ACTION")
	require.NoError(t, err)
	require.Equal(t, "ACTION\n", stdout)

	size, _, _ := script.CacheStats()
	require.LessOrEqual(t, size, 7)

	stdout, _, err = runArgs("status")
	require.NoError(t, err)
	require.NotContains(t, stdout, "\x1b[")

	_, _, err = runArgs("config", "strict", "false")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\nstrict false\n[convert]\n")

	other := filepath.Join(t.TempDir(), "other")
	stdout, _, err = runArgs("-config", other, "config", "color")
	require.NoError(t, err)
	require.Equal(t, "color: auto\n", stdout)
}

func TestRun_LogLevel(t *testing.T) {
	isolate(t, "")

	_, _, err := runArgs("-log-level", "verbose", "version")
	require.Error(t, err)

	_, _, err = runArgs("-log-level", "debug", "version")
	require.NoError(t, err)
	require.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestRun_ConfigWarnings(t *testing.T) {
	isolate(t, "strict sometimes\n")

	_, stderr, err := runArgs("types")
	require.NoError(t, err)
	require.Contains(t, stderr, "using strict manifests")
}

func TestRun_CheckFailureIsAnError(t *testing.T) {
	isolate(t, "")

	file := filepath.Join(t.TempDir(), "tree.nodes")
	require.NoError(t, os.WriteFile(file, []byte("Sleep msec=-1\n"), 0644))
	stdout, _, err := runArgs("check", file)
	require.ErrorIs(t, err, command.ErrCheckFailed)
	require.Contains(t, stdout, "1 node(s) checked, 1 error(s)")
}
