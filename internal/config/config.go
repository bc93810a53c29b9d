package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/balkashynov/jornada/internal/tracker"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultTargetHours    = 8.0
	DefaultLateAfter      = "08:10"
	DefaultExportFilename = "reporte_{{month_name}}_{{year}}.{{ext}}"
)

// Database selects and locates the relational backend
type Database struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path,omitempty"`
	DSN    string `toml:"dsn,omitempty"`
}

// Config is the on-disk configuration for jornada
type Config struct {
	UserID         string   `toml:"user_id"`
	CompanyID      string   `toml:"company_id"`
	TargetHours    float64  `toml:"target_hours"`
	SessionPolicy  string   `toml:"session_policy"`
	Timezone       string   `toml:"timezone,omitempty"`
	LateAfter      string   `toml:"late_after"`
	LogLevel       string   `toml:"log_level"`
	ExportFilename string   `toml:"export_filename"`
	Database       Database `toml:"database"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		UserID:         defaultUserID(),
		TargetHours:    DefaultTargetHours,
		SessionPolicy:  string(tracker.PolicySingleOpen),
		LateAfter:      DefaultLateAfter,
		LogLevel:       "info",
		ExportFilename: DefaultExportFilename,
		Database: Database{
			Driver: DriverSQLite,
			Path:   filepath.Join("~", ".jornada", "jornada.db"),
		},
	}
}

func defaultUserID() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// DefaultPath returns ~/.config/jornada/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jornada", "config.toml"), nil
}

// Load reads config from path. A missing file yields the defaults; a file
// that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil // Use defaults
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// applyEnv lets deployments point at a shared database without editing the file
func (c *Config) applyEnv() {
	if v := os.Getenv("JORNADA_DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("JORNADA_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JORNADA_USER_ID"); v != "" {
		c.UserID = v
	}
}

// fillDefaults restores values a partial file left empty
func (c *Config) fillDefaults() {
	d := Default()
	if c.UserID == "" {
		c.UserID = d.UserID
	}
	if c.TargetHours == 0 {
		c.TargetHours = d.TargetHours
	}
	if c.SessionPolicy == "" {
		c.SessionPolicy = d.SessionPolicy
	}
	if c.LateAfter == "" {
		c.LateAfter = d.LateAfter
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.ExportFilename == "" {
		c.ExportFilename = d.ExportFilename
	}
	if c.Database.Driver == "" {
		c.Database.Driver = d.Database.Driver
	}
	if c.Database.Driver == DriverSQLite && c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
}

// Save writes the config as TOML, creating the directory if needed
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the fields the tracker relies on
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return &tracker.ValidationError{Field: "user_id", Reason: "required"}
	}
	if c.TargetHours <= 0 || c.TargetHours > 24 {
		return &tracker.ValidationError{Field: "target_hours", Reason: fmt.Sprintf("%.2f is outside (0, 24]", c.TargetHours)}
	}
	if _, err := tracker.ParsePolicy(c.SessionPolicy); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.LateThreshold(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return &tracker.ValidationError{Field: "database.driver", Reason: fmt.Sprintf("unknown driver %q", c.Database.Driver)}
	}
	return nil
}

// Policy returns the parsed session policy
func (c *Config) Policy() tracker.Policy {
	p, err := tracker.ParsePolicy(c.SessionPolicy)
	if err != nil {
		return tracker.PolicySingleOpen
	}
	return p
}

// Location returns the timezone used to assign calendar dates
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &tracker.ValidationError{Field: "timezone", Reason: err.Error()}
	}
	return loc, nil
}

// LateThreshold returns late_after as minutes after midnight
func (c *Config) LateThreshold() (int, error) {
	t, err := time.Parse("15:04", c.LateAfter)
	if err != nil {
		return 0, &tracker.ValidationError{Field: "late_after", Reason: "expected HH:MM"}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ExpandHome resolves a leading ~ to the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
