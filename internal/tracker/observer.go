package tracker

import (
	"context"
	"log/slog"
	"time"
)

// Event captures one tracker use case for logging
type Event struct {
	Name      string
	SessionID string
	Status    string
	Duration  time.Duration
	Err       error
	StartedAt time.Time
}

// Observer receives tracker use-case events.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Event) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver reports events through the given logger. A nil logger
// yields a NoopObserver.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) Observe(ctx context.Context, event Event) {
	attrs := []any{
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Err == nil,
	}
	if event.SessionID != "" {
		attrs = append(attrs, "session_id", event.SessionID)
	}
	if event.Status != "" {
		attrs = append(attrs, "status", event.Status)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "tracker_use_case", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "tracker_use_case", attrs...)
}
