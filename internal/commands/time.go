package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/report"
	"github.com/balkashynov/jornada/internal/tracker"
	"github.com/balkashynov/jornada/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Check in and start the work day",
	Long: `Check in and start a work session for today. Opens the interactive timer on a
terminal, use --no-ui for a simple start.

Examples:
  jornada start          # Check in and show the live timer
  jornada start --no-ui  # Check in without the timer`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.Start(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI || !interactive(cmd) {
			fmt.Fprintf(out, "🟢 Checked in at %s\n", session.StartedAt.In(a.loc).Format("15:04:05"))
			fmt.Fprintf(out, "Session: %s\n", session.ID)
			return nil
		}
		return runTimer(cmd, a, session)
	}),
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Start a break",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.Pause(cmd.Context(), sessionFlag(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "☕ Break started at %s\n", a.tracker.Now().In(a.loc).Format("15:04:05"))
		fmt.Fprintf(out, "Worked so far: %s\n", report.Clock(tracker.Elapsed(session, a.tracker.Now())))
		return nil
	}),
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "End the current break and resume work",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.Resume(cmd.Context(), sessionFlag(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "▶️  Resumed at %s\n", session.CheckIn.In(a.loc).Format("15:04:05"))
		if n := len(session.Breaks); n > 0 {
			fmt.Fprintf(out, "Break lasted %d min\n", session.Breaks[n-1].DurationMinutes)
		}
		return nil
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Check out and complete the work day",
	Long: `Check out and complete the current work session. A running break is closed
first.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		session, err := a.tracker.Stop(cmd.Context(), sessionFlag(cmd))
		if err != nil {
			return err
		}
		printStopped(cmd.OutOrStdout(), a, session)
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current work session",
	Long: `Show the current work session. Opens the live timer on a terminal.

Examples:
  jornada status           # Live timer with pause/resume/stop keys
  jornada status --no-ui   # One-shot summary
  jornada status --watch   # Plain output refreshed every second
  jornada status --audit   # Compare checkpoint and break accounting`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		snap, err := a.tracker.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if snap.Session == nil {
			fmt.Fprintln(out, "No open work session")
			return nil
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		watch, _ := cmd.Flags().GetBool("watch")
		audit, _ := cmd.Flags().GetBool("audit")

		switch {
		case audit:
			printAudit(out, tracker.Audit(snap.Session, snap.At))
			return nil
		case watch:
			return watchSession(cmd, a, snap.Session)
		case noUI || !interactive(cmd):
			printStatus(out, a, snap)
			return nil
		}
		return runTimer(cmd, a, snap.Session)
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start without the interactive timer")

	for _, c := range []*cobra.Command{pauseCmd, resumeCmd, stopCmd} {
		c.Flags().String("session", "", "Session id to act on (default: the open session)")
	}

	statusCmd.Flags().Bool("no-ui", false, "Print a summary instead of the timer")
	statusCmd.Flags().Bool("watch", false, "Print the elapsed time every second until interrupted")
	statusCmd.Flags().Bool("audit", false, "Show both elapsed-time projections and their drift")
}

func sessionFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	return id
}

// runTimer opens the live timer and reports how it ended
func runTimer(cmd *cobra.Command, a *app, session *models.WorkSession) error {
	final, err := tui.RunTimerTUI(cmd.Context(), a.tracker, session, a.cfg.TargetHours)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case final.Finished():
		printStopped(out, a, final.Session())
	case final.Session() != nil:
		fmt.Fprintf(out, "\n💡 Your session is still %s.\n", final.Session().Status)
		fmt.Fprintln(out, "   Use 'jornada status' to reopen the timer or 'jornada stop' to check out.")
	}
	if final.Err() != nil {
		a.logger.Warn("timer action failed", "error", final.Err())
	}
	return nil
}

// watchSession prints the elapsed time once per second until interrupted.
// Paused sessions are printed once.
func watchSession(cmd *cobra.Command, a *app, session *models.WorkSession) error {
	out := cmd.OutOrStdout()
	ticker := tracker.NewTicker(time.Second, a.tracker.Now)
	defer ticker.Stop()

	ticker.Start(cmd.Context(), session, func(d time.Duration) {
		fmt.Fprintf(out, "\r%s  %s", session.Status, report.Clock(d))
	})
	if !ticker.Running() {
		fmt.Fprintln(out)
		return nil
	}

	<-cmd.Context().Done()
	fmt.Fprintln(out)
	return nil
}

func printStatus(out io.Writer, a *app, snap tracker.Snapshot) {
	s := snap.Session
	icon := "⏱️ "
	if s.Status == models.StatusPaused {
		icon = "☕"
	}
	fmt.Fprintf(out, "%s Session %s is %s\n", icon, s.ID, s.Status)
	fmt.Fprintf(out, "Checked in: %s (%s)\n", s.StartedAt.In(a.loc).Format("15:04:05"), humanize.RelTime(s.StartedAt, snap.At, "ago", "from now"))
	fmt.Fprintf(out, "Worked: %s\n", report.Clock(snap.Elapsed))
	fmt.Fprintf(out, "Breaks: %d (%s)\n", len(s.Breaks), report.Clock(tracker.BreakTime(s, snap.At)))
	if open := s.OpenBreak(); open != nil {
		fmt.Fprintf(out, "On break since %s\n", open.BreakStart.In(a.loc).Format("15:04:05"))
	}
}

func printStopped(out io.Writer, a *app, s *models.WorkSession) {
	fmt.Fprintf(out, "⏹️  Checked out at %s\n", s.CheckOut.In(a.loc).Format("15:04:05"))
	fmt.Fprintf(out, "Worked: %s (%d min)\n", report.Spelled(s.AccumulatedSeconds), s.TotalMinutes)
	fmt.Fprintf(out, "Breaks: %d\n", len(s.Breaks))
	fmt.Fprintf(out, "Rendimiento: %s\n", report.Rate(s.TotalMinutes, a.cfg.TargetHours))
}

func printAudit(out io.Writer, p tracker.Projection) {
	fmt.Fprintf(out, "Checkpoint:        %s\n", report.Clock(p.Checkpoint))
	fmt.Fprintf(out, "Break subtraction: %s\n", report.Clock(p.BreakSubtraction))
	fmt.Fprintf(out, "Break time:        %s\n", report.Clock(p.BreakTime))
	if p.Consistent() {
		fmt.Fprintln(out, "✅ Projections agree")
		return
	}
	fmt.Fprintf(out, "⚠️  Drift: %s\n", p.Drift)
}
