package commands

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/report"
)

const barWidth = 30

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show monthly statistics and charts",
	Long: `Show the statistics of a month: totals against the target, hours per week of
the month and per weekday, the last complete week and the last seven days.

Examples:
  jornada report
  jornada report --period marzo
  jornada report --copy    # Also copy the report to the clipboard`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx := cmd.Context()
		period, err := periodFlag(cmd, a)
		if err != nil {
			return err
		}

		month, err := a.tracker.History(ctx, period.Month, period.Year)
		if err != nil {
			return err
		}

		today := a.tracker.Now().In(a.loc)
		recent, err := a.tracker.Range(ctx, report.LastWeekStart(today), today.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		open, err := a.tracker.Current(ctx)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		writeReport(&buf, reportData{
			title:  fmt.Sprintf("%s %d", report.MonthName(period.Month), period.Year),
			month:  report.ReportSessions(month),
			recent: report.ReportSessions(recent),
			open:   open,
			today:  today,
			target: a.cfg.TargetHours,
		})
		text := buf.String()

		out := cmd.OutOrStdout()
		fmt.Fprint(out, text)

		if copyOut, _ := cmd.Flags().GetBool("copy"); copyOut {
			if err := clipboard.WriteAll(text); err != nil {
				a.logger.Warn("clipboard unavailable", "error", err)
				fmt.Fprintln(out, "⚠️  Could not copy the report to the clipboard")
				return nil
			}
			fmt.Fprintln(out, "📋 Report copied to clipboard")
		}
		return nil
	}),
}

func init() {
	reportCmd.Flags().String("period", "", "Month to report (yyyy-mm, mm/yyyy, month name, 'last month')")
	reportCmd.Flags().Bool("copy", false, "Copy the report text to the clipboard")
}

type reportData struct {
	title  string
	month  []models.WorkSession
	recent []models.WorkSession
	open   *models.WorkSession
	today  time.Time
	target float64
}

func writeReport(w io.Writer, d reportData) {
	st := report.Summarize(d.month, d.target)
	donut := st.DonutData()

	fmt.Fprintf(w, "📊 Reporte %s\n\n", d.title)
	if len(d.month) == 0 {
		fmt.Fprintln(w, "No hay registros para este mes.")
	} else {
		fmt.Fprintf(w, "Horas trabajadas:  %.2fh de %.2fh (%.0f%%)\n", st.TotalHours, st.TargetHours, st.TargetPercent)
		fmt.Fprintf(w, "Promedio diario:   %.2fh\n", st.AverageHours)
		fmt.Fprintf(w, "Días trabajados:   %d\n", st.WorkDays)
		fmt.Fprintf(w, "Pausas:            %d (%.2fh)\n", st.TotalBreaks, st.BreakHours)
		fmt.Fprintf(w, "Rendimiento:       %s\n\n", report.Rate(st.TotalMinutes, st.TargetHours))

		fmt.Fprintln(w, "Distribución")
		writeBars(w, []report.Point{
			{Label: "Trabajo", Hours: donut.WorkedHours},
			{Label: "Pausas", Hours: donut.BreakHours},
			{Label: "Objetivo", Hours: donut.TargetHours},
		})

		fmt.Fprintln(w, "\nPor semana")
		writeBars(w, report.WeeklyBuckets(d.month))

		fmt.Fprintln(w, "\nPor día de la semana")
		writeBars(w, report.DayOfWeekBuckets(d.month))
	}

	fmt.Fprintln(w, "\nSemana pasada")
	writeBars(w, report.LastWeekSeries(d.recent, d.today))

	fmt.Fprintln(w, "\nÚltimos 7 días")
	writeBars(w, report.LastDaysSeries(d.recent, d.today, 7))

	today := report.Today(d.recent, d.open, d.today.Format(models.DateLayout))
	fmt.Fprintf(w, "\nHoy: %sh trabajadas, %d pausas\n", report.Hours(today.Minutes), today.Breaks)
}

// writeBars draws a horizontal bar chart scaled to the largest value
func writeBars(w io.Writer, points []report.Point) {
	var peak float64
	labelWidth := 0
	for _, p := range points {
		peak = math.Max(peak, p.Hours)
		labelWidth = max(labelWidth, len([]rune(p.Label)))
	}

	for _, p := range points {
		n := 0
		if peak > 0 {
			n = int(math.Round(p.Hours / peak * barWidth))
		}
		label := p.Label + strings.Repeat(" ", labelWidth-len([]rune(p.Label)))
		fmt.Fprintf(w, "  %s │%s %.2fh\n", label, strings.Repeat("█", n), p.Hours)
	}
}
