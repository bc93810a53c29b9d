package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/balkashynov/jornada/internal/config"
	"github.com/balkashynov/jornada/internal/tracker"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the jornada config",
	Long: `Create or update the config file. Without flags on a terminal an interactive
form asks for each value; flags set values directly.

Examples:
  jornada init
  jornada init --user ana --company acme --target-hours 7.5
  jornada init --driver postgres --dsn "postgres://localhost/jornada"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if !initFlagsSet(cmd) && interactive(cmd) {
			if err := runInitForm(cmd, cfg); err != nil {
				return err
			}
		} else {
			applyInitFlags(cmd, cfg)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		path := configPath
		if path == "" {
			path, _ = config.DefaultPath()
		}
		fmt.Fprintf(out, "✅ Config saved to %s\n", path)
		fmt.Fprintf(out, "User: %s  Company: %s  Target: %.1fh  Policy: %s\n", cfg.UserID, cfg.CompanyID, cfg.TargetHours, cfg.SessionPolicy)
		return nil
	},
}

func init() {
	f := initCmd.Flags()
	f.String("user", "", "User id sessions are recorded under")
	f.String("company", "", "Company id (required to start sessions)")
	f.Float64("target-hours", 0, "Daily target in hours")
	f.String("policy", "", "Session policy: single-open or one-per-day")
	f.String("timezone", "", "IANA timezone for calendar dates (default: local)")
	f.String("late-after", "", "Check-ins after this HH:MM count as late")
	f.String("driver", "", "Database driver: sqlite or postgres")
	f.String("db-path", "", "SQLite database file")
	f.String("dsn", "", "PostgreSQL connection string")
}

var initFlagNames = []string{"user", "company", "target-hours", "policy", "timezone", "late-after", "driver", "db-path", "dsn"}

// initFlagsSet reports whether any init value was given on the command line
func initFlagsSet(cmd *cobra.Command) bool {
	for _, name := range initFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// applyInitFlags copies every flag the user set onto cfg
func applyInitFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	set := func(name string, dst *string) {
		if f.Changed(name) {
			v, _ := f.GetString(name)
			*dst = strings.TrimSpace(v)
		}
	}

	set("user", &cfg.UserID)
	set("company", &cfg.CompanyID)
	set("policy", &cfg.SessionPolicy)
	set("timezone", &cfg.Timezone)
	set("late-after", &cfg.LateAfter)
	set("driver", &cfg.Database.Driver)
	set("db-path", &cfg.Database.Path)
	set("dsn", &cfg.Database.DSN)
	if f.Changed("target-hours") {
		cfg.TargetHours, _ = f.GetFloat64("target-hours")
	}
}

// runInitForm asks for the config values with a huh form
func runInitForm(cmd *cobra.Command, cfg *config.Config) error {
	target := strconv.FormatFloat(cfg.TargetHours, 'f', -1, 64)
	policy := cfg.SessionPolicy
	driver := cfg.Database.Driver

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("User").
				Value(&cfg.UserID).
				Validate(required("user")),
			huh.NewInput().
				Title("Company").
				Value(&cfg.CompanyID).
				Validate(required("company")),
			huh.NewInput().
				Title("Daily target (hours)").
				Placeholder("8").
				Value(&target).
				Validate(validateTargetHours),
			huh.NewSelect[string]().
				Title("Session policy").
				Options(
					huh.NewOption("One open session at a time", string(tracker.PolicySingleOpen)),
					huh.NewOption("One session per day", string(tracker.PolicyOnePerDay)),
				).
				Value(&policy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Placeholder("Local").
				Value(&cfg.Timezone),
			huh.NewInput().
				Title("Late after (HH:MM)").
				Value(&cfg.LateAfter),
			huh.NewSelect[string]().
				Title("Database").
				Options(
					huh.NewOption("SQLite file", config.DriverSQLite),
					huh.NewOption("PostgreSQL", config.DriverPostgres),
				).
				Value(&driver),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)

	if err := form.RunWithContext(cmd.Context()); err != nil {
		return err
	}

	cfg.TargetHours, _ = strconv.ParseFloat(target, 64)
	cfg.SessionPolicy = policy
	cfg.Database.Driver = driver

	location := &cfg.Database.Path
	title := "Database file"
	if driver == config.DriverPostgres {
		location = &cfg.Database.DSN
		title = "Connection string"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(location).Validate(required(strings.ToLower(title))),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false).RunWithContext(cmd.Context())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateTargetHours(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 24 {
		return fmt.Errorf("enter hours between 0 and 24")
	}
	return nil
}
