package command

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joeycumines/btport/internal/btcore"
	"github.com/joeycumines/btport/internal/config"
)

// resolveLogLevel picks the log level from the -log-level flag, then the
// log.level option (env, config, default).
func resolveLogLevel(flagLevel string, cfg *config.Config) (slog.Level, error) {
	if strings.TrimSpace(flagLevel) != "" {
		level, err := btcore.ConvertFromString[slog.Level](flagLevel)
		if err != nil {
			return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", flagLevel, err)
		}
		return level, nil
	}
	if cfg == nil {
		return slog.LevelInfo, nil
	}
	return config.Typed[slog.Level](config.DefaultSchema(), cfg, "log.level")
}

// ConfigureLogging installs a text handler writing to w as the default slog
// logger, at the level resolved from flagLevel and cfg.
func ConfigureLogging(w io.Writer, flagLevel string, cfg *config.Config) error {
	level, err := resolveLogLevel(flagLevel, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}
