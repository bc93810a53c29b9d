package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/config"
	"github.com/balkashynov/jornada/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month of sessions to CSV, PDF or YAML",
	Long: `Export the completed sessions of a month. The file name comes from the
export_filename template in the config unless --output names a file.

Examples:
  jornada export                         # CSV for the current month
  jornada export --format pdf --period 2025-03
  jornada export --format yaml -o ~/reports/`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		period, err := periodFlag(cmd, a)
		if err != nil {
			return err
		}
		lateAfter, err := a.cfg.LateThreshold()
		if err != nil {
			return err
		}

		sessions, err := a.tracker.History(cmd.Context(), period.Month, period.Year)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		err = report.Export(&buf, format, report.ReportSessions(sessions), report.ExportOptions{
			Location:    a.loc,
			TargetHours: a.cfg.TargetHours,
			LateAfter:   lateAfter,
			Month:       period.Month,
			Year:        period.Year,
		})
		if errors.Is(err, report.ErrNothingToExport) {
			fmt.Fprintf(cmd.OutOrStdout(), "No hay registros para exportar en %s %d\n", report.MonthName(period.Month), period.Year)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		path, err := exportPath(output, a.cfg.ExportFilename, format, period.Month, period.Year)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		a.logger.Debug("export written", "path", path, "format", format, "bytes", buf.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %d sessions to %s\n", len(report.ReportSessions(sessions)), path)
		return nil
	}),
}

func init() {
	exportCmd.Flags().String("format", "csv", "Export format: csv, pdf or yaml")
	exportCmd.Flags().String("period", "", "Month to export (yyyy-mm, mm/yyyy, month name, 'last month')")
	exportCmd.Flags().StringP("output", "o", "", "Output file or directory (default: current directory)")
}

// exportPath resolves --output: empty means the templated name in the
// working directory, an existing directory or a trailing separator means
// the templated name inside it, anything else is used as the file path
func exportPath(output, tmpl string, format report.Format, month time.Month, year int) (string, error) {
	output, err := config.ExpandHome(output)
	if err != nil {
		return "", err
	}

	dir := output
	if output != "" && !isDirTarget(output) {
		return output, nil
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	name, err := report.Filename(tmpl, format, month, year)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDirTarget(path string) bool {
	if os.IsPathSeparator(path[len(path)-1]) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
