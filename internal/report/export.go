package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

// ErrNothingToExport is returned when there are no sessions to write; no
// output is produced in that case
var ErrNothingToExport = errors.New("no completed sessions to export")

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts csv, pdf, yaml or yml
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use csv, pdf or yaml)", s)
}

// ExportOptions carries the settings every export format needs
type ExportOptions struct {
	Location    *time.Location
	TargetHours float64
	LateAfter   int // minutes after midnight
	Month       time.Month
	Year        int
}

func (o ExportOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Export writes sessions to w in the given format
func Export(w io.Writer, format Format, sessions []models.WorkSession, opts ExportOptions) error {
	if len(sessions) == 0 {
		return ErrNothingToExport
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, sessions, opts)
	case FormatPDF:
		return WritePDF(w, sessions, opts)
	case FormatYAML:
		return WriteYAML(w, sessions, opts)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// clockOf formats a timestamp as HH:mm in loc, or "" when unset
func clockOf(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04")
}
