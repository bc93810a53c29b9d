package report

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/jornada/internal/models"
)

type yamlBreak struct {
	Start           string `yaml:"break_start"`
	End             string `yaml:"break_end,omitempty"`
	DurationMinutes int64  `yaml:"duration_minutes"`
}

type yamlSession struct {
	ID                 string      `yaml:"id"`
	Date               string      `yaml:"date"`
	StartedAt          string      `yaml:"started_at"`
	CheckOut           string      `yaml:"check_out,omitempty"`
	AccumulatedSeconds int64       `yaml:"accumulated_seconds"`
	TotalMinutes       int64       `yaml:"total_minutes"`
	Performance        Performance `yaml:"performance"`
	Attendance         Attendance  `yaml:"attendance"`
	Breaks             []yamlBreak `yaml:"breaks"`
}

type yamlReport struct {
	Month    string        `yaml:"month,omitempty"`
	Year     int           `yaml:"year,omitempty"`
	Summary  yamlSummary   `yaml:"summary"`
	Sessions []yamlSession `yaml:"sessions"`
}

type yamlSummary struct {
	TotalHours   float64 `yaml:"total_hours"`
	AverageHours float64 `yaml:"average_hours"`
	BreakHours   float64 `yaml:"break_hours"`
	TotalBreaks  int     `yaml:"total_breaks"`
	WorkDays     int     `yaml:"work_days"`
	TargetHours  float64 `yaml:"target_hours"`
}

func rfc3339(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteYAML writes the period summary and every session with its breaks.
// Timestamps are RFC 3339 in UTC.
func WriteYAML(w io.Writer, sessions []models.WorkSession, opts ExportOptions) error {
	if len(sessions) == 0 {
		return ErrNothingToExport
	}

	st := Summarize(sessions, opts.TargetHours)
	doc := yamlReport{
		Month: MonthName(opts.Month),
		Year:  opts.Year,
		Summary: yamlSummary{
			TotalHours:   round2(st.TotalHours),
			AverageHours: round2(st.AverageHours),
			BreakHours:   round2(st.BreakHours),
			TotalBreaks:  st.TotalBreaks,
			WorkDays:     st.WorkDays,
			TargetHours:  st.TargetHours,
		},
	}

	for _, s := range sessions {
		started := s.StartedAt
		rec := yamlSession{
			ID:                 s.ID,
			Date:               s.Date,
			StartedAt:          rfc3339(&started),
			CheckOut:           rfc3339(s.CheckOut),
			AccumulatedSeconds: s.AccumulatedSeconds,
			TotalMinutes:       s.TotalMinutes,
			Performance:        Rate(s.TotalMinutes, opts.TargetHours),
			Attendance:         AttendanceOf(s, opts.location(), opts.LateAfter),
			Breaks:             make([]yamlBreak, 0, len(s.Breaks)),
		}
		for _, b := range s.Breaks {
			start := b.BreakStart
			rec.Breaks = append(rec.Breaks, yamlBreak{
				Start:           rfc3339(&start),
				End:             rfc3339(b.BreakEnd),
				DurationMinutes: b.DurationMinutes,
			})
		}
		doc.Sessions = append(doc.Sessions, rec)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
