package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/config"
	"github.com/balkashynov/jornada/internal/db"
	"github.com/balkashynov/jornada/internal/logging"
	"github.com/balkashynov/jornada/internal/tracker"
	"github.com/balkashynov/jornada/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jornada",
	Short: "A terminal work-day time tracker",
	Long: `jornada tracks your working day from the terminal.
Check in and out, take breaks, review your history and export monthly reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// app holds everything a command needs for one invocation. Nothing here
// outlives the command.
type app struct {
	cfg     *config.Config
	loc     *time.Location
	logger  *slog.Logger
	store   *db.Store
	tracker *tracker.Tracker
}

// loadConfig reads and validates the config selected by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads config, opens the store and builds a tracker for the
// configured user
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	store, err := db.Open(cfg.Database, logger, verbose)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "driver", cfg.Database.Driver)

	return &app{
		cfg:    cfg,
		loc:    loc,
		logger: logger,
		store:  store,
		tracker: tracker.New(store, tracker.Options{
			UserID:    cfg.UserID,
			CompanyID: cfg.CompanyID,
			Policy:    cfg.Policy(),
			Location:  loc,
			Observer:  tracker.NewLogObserver(logger),
		}),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// withApp wraps a command function so it runs with an opened app
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}

// interactive reports whether the command writes to a terminal
func interactive(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && tui.IsTerminal(f)
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jornada %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/jornada/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output and SQL to stderr")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
