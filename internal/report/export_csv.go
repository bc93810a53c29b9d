package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/balkashynov/jornada/internal/models"
)

var csvHeader = []string{"Fecha", "Día", "Hora Entrada", "Hora Salida", "Horas Trabajadas", "Pausas", "Rendimiento"}

// WriteCSV writes one row per session in the order given
func WriteCSV(w io.Writer, sessions []models.WorkSession, opts ExportOptions) error {
	if len(sessions) == 0 {
		return ErrNothingToExport
	}
	loc := opts.location()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range sessions {
		day := ""
		if d, err := time.Parse(models.DateLayout, s.Date); err == nil {
			day = WeekdayName(d.Weekday())
		}
		started := s.StartedAt
		row := []string{
			s.Date,
			day,
			clockOf(&started, loc),
			clockOf(s.CheckOut, loc),
			Hours(s.TotalMinutes),
			strconv.Itoa(len(s.Breaks)),
			string(Rate(s.TotalMinutes, opts.TargetHours)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", s.Date, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
