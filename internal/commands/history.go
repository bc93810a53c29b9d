package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/parser"
	"github.com/balkashynov/jornada/internal/report"
	"github.com/balkashynov/jornada/internal/tui"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List completed work sessions for a month",
	Long: `List the completed work sessions of a month with attendance and worked time.

Examples:
  jornada history                     # Current month
  jornada history --period 2025-03
  jornada history --period "mes pasado"
  jornada history --no-ui             # Plain table`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		period, err := periodFlag(cmd, a)
		if err != nil {
			return err
		}

		sessions, err := a.tracker.History(cmd.Context(), period.Month, period.Year)
		if err != nil {
			return err
		}
		lateAfter, err := a.cfg.LateThreshold()
		if err != nil {
			return err
		}

		title := fmt.Sprintf("%s %d", report.MonthName(period.Month), period.Year)
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI || !interactive(cmd) {
			printHistory(cmd.OutOrStdout(), title, sessions, a, lateAfter)
			return nil
		}

		return tui.RunHistoryTUI(sessions, tui.HistoryOptions{
			Title:       title,
			Location:    a.loc,
			LateAfter:   lateAfter,
			TargetHours: a.cfg.TargetHours,
		})
	}),
}

func init() {
	historyCmd.Flags().String("period", "", "Month to show (yyyy-mm, mm/yyyy, month name, 'last month')")
	historyCmd.Flags().Bool("no-ui", false, "Print a plain table")
}

// periodFlag resolves --period relative to now in the configured timezone
func periodFlag(cmd *cobra.Command, a *app) (parser.Period, error) {
	input, _ := cmd.Flags().GetString("period")
	return parser.ParsePeriod(input, a.tracker.Now().In(a.loc))
}

func printHistory(out io.Writer, title string, sessions []models.WorkSession, a *app, lateAfter int) {
	fmt.Fprintf(out, "📅 %s\n\n", title)
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No hay registros para este mes.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FECHA\tDÍA\tIN\tOUT\tESTADO\tPAUSAS\tTOTAL")
	for _, s := range sessions {
		in := s.StartedAt.In(a.loc)
		checkout := "--"
		if s.CheckOut != nil {
			checkout = s.CheckOut.In(a.loc).Format("15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.Date,
			report.WeekdayName(in.Weekday()),
			in.Format("15:04"),
			checkout,
			report.AttendanceOf(s, a.loc, lateAfter),
			len(s.Breaks),
			report.Spelled(s.AccumulatedSeconds),
		)
	}
	w.Flush()

	st := report.Summarize(report.ReportSessions(sessions), a.cfg.TargetHours)
	fmt.Fprintf(out, "\n%d días · %sh trabajadas · %.0f%% del objetivo\n", st.WorkDays, report.Hours(st.TotalMinutes), st.TargetPercent)
}
