package tracker

import (
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Stamp normalizes a timestamp before it is recorded. Everything is kept in
// UTC at whole-second precision so both elapsed projections agree exactly.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// secondsBetween returns whole seconds from start to end, clamped at zero
func secondsBetween(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// minutesBetween returns whole minutes from start to end, clamped at zero
func minutesBetween(start, end time.Time) int64 {
	return secondsBetween(start, end) / 60
}

// ElapsedSeconds returns the worked seconds of a session as seen at now.
//
// Active sessions count the checkpoint plus the running interval, paused
// sessions are frozen at the checkpoint, and completed sessions report the
// persisted total_minutes snapshot.
func ElapsedSeconds(s *models.WorkSession, now time.Time) int64 {
	if s == nil {
		return 0
	}
	switch s.Status {
	case models.StatusActive:
		return s.AccumulatedSeconds + secondsBetween(s.CheckIn, now)
	case models.StatusPaused:
		return s.AccumulatedSeconds
	case models.StatusCompleted:
		return s.TotalMinutes * 60
	}
	return 0
}

// Elapsed is ElapsedSeconds as a time.Duration
func Elapsed(s *models.WorkSession, now time.Time) time.Duration {
	return time.Duration(ElapsedSeconds(s, now)) * time.Second
}

// NewSession builds the record created by the start event
func NewSession(userID, companyID, date string, now time.Time) *models.WorkSession {
	now = Stamp(now)
	return &models.WorkSession{
		UserID:    userID,
		CompanyID: companyID,
		Date:      date,
		StartedAt: now,
		CheckIn:   now,
		Status:    models.StatusActive,
	}
}

// ApplyPause moves an active session to paused. It checkpoints the running
// interval and returns the break that must be opened.
func ApplyPause(s *models.WorkSession, now time.Time) (*models.Break, error) {
	if s.Status != models.StatusActive {
		return nil, &InvalidTransitionError{From: s.Status, Event: "pause"}
	}
	if open := s.OpenBreak(); open != nil {
		return nil, &InvalidTransitionError{From: s.Status, Event: "pause"}
	}

	now = Stamp(now)
	s.AccumulatedSeconds += secondsBetween(s.CheckIn, now)
	s.Status = models.StatusPaused

	return &models.Break{WorkSessionID: s.ID, BreakStart: now}, nil
}

// ApplyResume moves a paused session back to active, closing the open break
// (when one is given) and resetting the active-interval anchor.
func ApplyResume(s *models.WorkSession, open *models.Break, now time.Time) error {
	if s.Status != models.StatusPaused {
		return &InvalidTransitionError{From: s.Status, Event: "resume"}
	}

	now = Stamp(now)
	if open != nil {
		CloseBreak(open, now)
	}
	s.CheckIn = now
	s.Status = models.StatusActive
	return nil
}

// ApplyStop completes a session. A paused session is implicitly resumed
// first, so the dangling break is closed before the final checkpoint.
func ApplyStop(s *models.WorkSession, open *models.Break, now time.Time) error {
	now = Stamp(now)

	switch s.Status {
	case models.StatusCompleted:
		return &InvalidTransitionError{From: s.Status, Event: "stop"}
	case models.StatusPaused:
		if err := ApplyResume(s, open, now); err != nil {
			return err
		}
	}

	s.AccumulatedSeconds += secondsBetween(s.CheckIn, now)
	s.CheckOut = &now
	s.TotalMinutes = s.AccumulatedSeconds / 60
	s.Status = models.StatusCompleted
	return nil
}

// CloseBreak ends an open break at now and records its whole-minute duration
func CloseBreak(b *models.Break, now time.Time) {
	now = Stamp(now)
	b.BreakEnd = &now
	b.DurationMinutes = minutesBetween(b.BreakStart, now)
}
