package report

import (
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// Performance grades a day's worked hours against the daily target
type Performance string

const (
	Excellent Performance = "Excelente"
	Good      Performance = "Bueno"
	Fair      Performance = "Regular"
)

// Rate returns Excelente at or above target, Bueno at or above 80% of it,
// Regular otherwise
func Rate(totalMinutes int64, targetHours float64) Performance {
	hours := float64(totalMinutes) / 60
	switch {
	case hours >= targetHours:
		return Excellent
	case hours >= targetHours*0.8:
		return Good
	}
	return Fair
}

// Attendance says whether a session started on time
type Attendance string

const (
	Pending Attendance = "Pendiente"
	Present Attendance = "Asistencia"
	Late    Attendance = "Tardanza"
)

// AttendanceOf classifies a session by the local time of its first
// check-in. lateAfter is minutes after midnight; starting at exactly that
// minute is still on time.
func AttendanceOf(s models.WorkSession, loc *time.Location, lateAfter int) Attendance {
	if s.StartedAt.IsZero() {
		return Pending
	}
	if loc == nil {
		loc = time.Local
	}
	local := s.StartedAt.In(loc)
	if local.Hour()*60+local.Minute() <= lateAfter {
		return Present
	}
	return Late
}
