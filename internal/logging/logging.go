// Package logging builds the structured logger shared by the CLI, the tracker
// and the gorm store.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

// ParseLevel maps a config value to a slog level. Unknown values fall back
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a text logger writing to w at the given level
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// gormWriter forwards gorm's printf-style log lines to slog
type gormWriter struct {
	log   *slog.Logger
	level slog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Log(context.Background(), w.level, "gorm", "detail", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewGormLogger bridges gorm's logger to slog. Only warnings and errors are
// reported unless verbose is set; missing rows are never logged.
func NewGormLogger(log *slog.Logger, verbose bool) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	level, slogLevel := logger.Warn, slog.LevelWarn
	if verbose {
		level, slogLevel = logger.Info, slog.LevelDebug
	}
	return logger.New(gormWriter{log: log, level: slogLevel}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
