package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/balkashynov/jornada/internal/models"
)

// WritePDF renders a one-page monthly report: summary, weekly totals and a
// table of sessions
func WritePDF(w io.Writer, sessions []models.WorkSession, opts ExportOptions) error {
	if len(sessions) == 0 {
		return ErrNothingToExport
	}
	loc := opts.location()
	st := Summarize(sessions, opts.TargetHours)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	title := "Reporte de jornada"
	if opts.Month != 0 {
		title = fmt.Sprintf("Reporte de jornada: %s %d", MonthName(opts.Month), opts.Year)
	}
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(12)

	// Summary
	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Horas trabajadas: %.2f h de %.0f h objetivo", st.TotalHours, st.TargetHours),
		fmt.Sprintf("Promedio diario: %.2f h", st.AverageHours),
		fmt.Sprintf("Días trabajados: %d", st.WorkDays),
		fmt.Sprintf("Pausas: %d (%.2f h)", st.TotalBreaks, st.BreakHours),
	}
	for _, l := range lines {
		pdf.Cell(0, 8, tr(l))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, tr("Tendencia mensual"))
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 12)
	for _, p := range WeeklyBuckets(sessions) {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.1f h", p.Label, p.Hours))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	// Sessions table
	widths := []float64{26, 24, 24, 24, 26, 18, 30}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range csvHeader {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, s := range sessions {
		day := ""
		if d, err := time.Parse(models.DateLayout, s.Date); err == nil {
			day = WeekdayName(d.Weekday())
		}
		started := s.StartedAt
		cells := []string{
			s.Date,
			day,
			clockOf(&started, loc),
			clockOf(s.CheckOut, loc),
			Hours(s.TotalMinutes),
			fmt.Sprintf("%d", len(s.Breaks)),
			string(Rate(s.TotalMinutes, opts.TargetHours)),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
