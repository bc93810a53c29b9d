package testutil

import (
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Clock is a settable time source for tracker tests
type Clock struct {
	now time.Time
}

// NewClock returns a clock frozen at t
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	return c.now
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.now = t
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// At builds a UTC timestamp on 2025-03-10 (a Monday)
func At(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, sec, 0, time.UTC)
}

// SessionOption customizes a completed-session fixture
type SessionOption func(*models.WorkSession)

// WithBreaks attaches n closed breaks of the given length
func WithBreaks(n int, minutes int64) SessionOption {
	return func(s *models.WorkSession) {
		start := s.StartedAt.Add(2 * time.Hour)
		for i := 0; i < n; i++ {
			end := start.Add(time.Duration(minutes) * time.Minute)
			s.Breaks = append(s.Breaks, models.Break{
				WorkSessionID:   s.ID,
				BreakStart:      start,
				BreakEnd:        &end,
				DurationMinutes: minutes,
			})
			start = end.Add(time.Hour)
		}
	}
}

// WithCheckIn sets the first check-in time of day (UTC)
func WithCheckIn(hour, min int) SessionOption {
	return func(s *models.WorkSession) {
		d, _ := time.Parse(models.DateLayout, s.Date)
		start := time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
		shift := start.Sub(s.StartedAt)
		s.StartedAt = start
		s.CheckIn = s.CheckIn.Add(shift)
		out := s.CheckOut.Add(shift)
		s.CheckOut = &out
	}
}

// CompletedSession builds a completed session on date lasting minutes,
// starting at 09:00 UTC
func CompletedSession(id, date string, minutes int64, opts ...SessionOption) models.WorkSession {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(minutes) * time.Minute)

	s := models.WorkSession{
		ID:                 id,
		UserID:             "user-1",
		CompanyID:          "comp-1",
		Date:               date,
		StartedAt:          start,
		CheckIn:            start,
		CheckOut:           &end,
		AccumulatedSeconds: minutes * 60,
		TotalMinutes:       minutes,
		Status:             models.StatusCompleted,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
