package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xvierd/lifegame-cli/internal/config"
)

// logConfig holds the resolved logging settings.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil when logging to stderr
}

// resolveLogConfig resolves log settings from flags and config.
// Flag values take precedence; config values are used when a flag is empty.
// The caller must close logFile when it is non-nil.
func resolveLogConfig(flagLevel, flagPath string, cfg *config.Config) (logConfig, error) {
	var lc logConfig

	// Level: flag → config → warn.
	levelStr := flagLevel
	if levelStr == "" && cfg != nil {
		levelStr = cfg.Log.Level
	}
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info":
		lc.level = slog.LevelInfo
	case "warn", "warning", "":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	// Destination: flag → config → stderr.
	logPath := flagPath
	if logPath == "" && cfg != nil {
		logPath = cfg.Log.File
	}
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0750); err != nil {
			return lc, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

// newLogger builds the text logger for a resolved config.
func (lc logConfig) newLogger() *slog.Logger {
	var w io.Writer = os.Stderr
	if lc.logFile != nil {
		w = lc.logFile
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lc.level}))
}
