package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Ticker recomputes a session's elapsed time on a fixed interval while the
// session is active. It never talks to the store; it only re-derives the
// value from the snapshot it was started with.
//
// At most one tick task exists per Ticker: Start replaces the previous task
// and Stop waits until it has exited.
type Ticker struct {
	interval time.Duration
	clock    Clock

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a ticker; a zero interval defaults to one second
func NewTicker(interval time.Duration, clock Clock) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &Ticker{interval: interval, clock: clock}
}

// Start emits the session's elapsed time immediately and then on every
// interval while it is active. Paused or completed sessions are emitted
// once and no task is scheduled.
func (t *Ticker) Start(ctx context.Context, s *models.WorkSession, emit func(time.Duration)) {
	t.Stop()

	snapshot := s.Clone()
	emit(Elapsed(snapshot, t.clock()))
	if snapshot.Status != models.StatusActive {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.mu.Lock()
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				emit(Elapsed(snapshot, t.clock()))
			}
		}
	}()
}

// Stop cancels the running task, if any, and waits for it to exit
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a tick task is scheduled
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
