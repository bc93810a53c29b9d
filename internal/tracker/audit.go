package tracker

import (
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Projection compares the two ways of deriving worked time for a session.
//
// Checkpoint is the canonical value (accumulated_seconds plus the running
// interval). BreakSubtraction is derived on demand from the session's wall
// clock span minus every break, and is never persisted.
type Projection struct {
	Checkpoint       time.Duration
	BreakSubtraction time.Duration
	BreakTime        time.Duration
	Drift            time.Duration
}

// Consistent reports whether both projections agree
func (p Projection) Consistent() bool {
	return p.Drift == 0
}

// BreakTime sums the length of every break, counting open breaks up to now
func BreakTime(s *models.WorkSession, now time.Time) time.Duration {
	var total int64
	for _, b := range s.Breaks {
		end := now
		if b.BreakEnd != nil {
			end = *b.BreakEnd
		}
		total += secondsBetween(b.BreakStart, end)
	}
	return time.Duration(total) * time.Second
}

// BreakAccounting returns worked time computed as
// (check_out or now) - started_at - total break time.
func BreakAccounting(s *models.WorkSession, now time.Time) (worked, breaks time.Duration) {
	end := now
	if s.CheckOut != nil {
		end = *s.CheckOut
	}
	span := time.Duration(secondsBetween(s.StartedAt, end)) * time.Second
	breaks = BreakTime(s, end)
	worked = span - breaks
	if worked < 0 {
		worked = 0
	}
	return worked, breaks
}

// Audit computes both projections at now. For completed sessions the
// checkpoint is the exact accumulated_seconds, not the minute snapshot.
func Audit(s *models.WorkSession, now time.Time) Projection {
	now = Stamp(now)

	checkpoint := Elapsed(s, now)
	if s.Status == models.StatusCompleted {
		checkpoint = time.Duration(s.AccumulatedSeconds) * time.Second
	}

	worked, breaks := BreakAccounting(s, now)
	return Projection{
		Checkpoint:       checkpoint,
		BreakSubtraction: worked,
		BreakTime:        breaks,
		Drift:            checkpoint - worked,
	}
}
