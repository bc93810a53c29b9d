// Package report aggregates completed work sessions into the figures shown by
// history, report and export. Every function here is pure: results depend
// only on the sessions given, not on their order.
package report

import (
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Stats is the monthly summary of completed sessions
type Stats struct {
	TotalMinutes  int64
	TotalHours    float64
	AverageHours  float64
	TotalBreaks   int
	BreakMinutes  int64
	BreakHours    float64
	WorkDays      int
	TargetHours   float64
	TargetPercent float64
}

// Donut splits the period into worked and break time against the target
type Donut struct {
	WorkedHours float64
	BreakHours  float64
	TargetHours float64
}

// ReportSessions keeps the sessions a report counts: completed, with at
// least one minute of work
func ReportSessions(sessions []models.WorkSession) []models.WorkSession {
	out := make([]models.WorkSession, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == models.StatusCompleted && s.TotalMinutes >= 1 {
			out = append(out, s)
		}
	}
	return out
}

// Summarize computes the period statistics. targetHours is the daily goal;
// the period target is work days times that goal.
func Summarize(sessions []models.WorkSession, targetHours float64) Stats {
	var st Stats
	days := make(map[string]struct{})

	for _, s := range sessions {
		st.TotalMinutes += s.TotalMinutes
		st.TotalBreaks += len(s.Breaks)
		for _, b := range s.Breaks {
			st.BreakMinutes += b.DurationMinutes
		}
		days[s.Date] = struct{}{}
	}

	st.WorkDays = len(days)
	st.TotalHours = float64(st.TotalMinutes) / 60
	st.BreakHours = float64(st.BreakMinutes) / 60
	if st.WorkDays > 0 {
		st.AverageHours = st.TotalHours / float64(st.WorkDays)
	}
	st.TargetHours = float64(st.WorkDays) * targetHours
	if st.TargetHours > 0 {
		st.TargetPercent = st.TotalHours / st.TargetHours * 100
	}
	return st
}

// DonutData returns the worked/break/target split for the period
func (s Stats) DonutData() Donut {
	return Donut{WorkedHours: s.TotalHours, BreakHours: s.BreakHours, TargetHours: s.TargetHours}
}

// TodayStats is the dashboard summary for the current day
type TodayStats struct {
	Minutes int64
	Breaks  int
}

// Today sums the completed minutes recorded on date and counts breaks,
// including those of the open session when it belongs to the same day.
func Today(sessions []models.WorkSession, open *models.WorkSession, date string) TodayStats {
	var st TodayStats
	for _, s := range sessions {
		if s.Date != date || s.Status != models.StatusCompleted {
			continue
		}
		st.Minutes += s.TotalMinutes
		st.Breaks += len(s.Breaks)
	}
	if open != nil && open.Date == date && open.IsOpen() {
		st.Breaks += len(open.Breaks)
	}
	return st
}

// dateOf parses a session date in loc
func dateOf(s models.WorkSession, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(models.DateLayout, s.Date, loc)
	return d, err == nil
}
