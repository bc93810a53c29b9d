package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/jornada/internal/tracker"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetHours, cfg.TargetHours)
	assert.Equal(t, string(tracker.PolicySingleOpen), cfg.SessionPolicy)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultExportFilename, cfg.ExportFilename)
	assert.NotEmpty(t, cfg.UserID)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
user_id = "ana"
company_id = "acme"
session_policy = "one-per-day"

[database]
driver = "sqlite"
path = "/tmp/jornada-test.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ana", cfg.UserID)
	assert.Equal(t, "acme", cfg.CompanyID)
	assert.Equal(t, tracker.PolicyOnePerDay, cfg.Policy())
	assert.Equal(t, "/tmp/jornada-test.db", cfg.Database.Path)
	assert.Equal(t, DefaultTargetHours, cfg.TargetHours)
	assert.Equal(t, DefaultLateAfter, cfg.LateAfter)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("user_id = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesDSN(t *testing.T) {
	t.Setenv("JORNADA_DATABASE_DRIVER", "postgres")
	t.Setenv("JORNADA_DATABASE_DSN", "postgres://u:p@localhost:5432/jornada")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/jornada", cfg.Database.DSN)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UserID = "luis"
	cfg.CompanyID = "comp_123"
	cfg.TargetHours = 7.5
	cfg.Timezone = "Europe/Madrid"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "luis", loaded.UserID)
	assert.Equal(t, "comp_123", loaded.CompanyID)
	assert.Equal(t, 7.5, loaded.TargetHours)

	loc, err := loaded.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"target hours", func(c *Config) { c.TargetHours = 30 }, "target_hours"},
		{"policy", func(c *Config) { c.SessionPolicy = "whenever" }, "session_policy"},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"late after", func(c *Config) { c.LateAfter = "8am" }, "late_after"},
		{"driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tracker.ErrValidation)

			var verr *tracker.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLateThreshold(t *testing.T) {
	cfg := Default()
	minutes, err := cfg.LateThreshold()
	require.NoError(t, err)
	assert.Equal(t, 8*60+10, minutes)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.jornada/jornada.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".jornada", "jornada.db"), got)

	got, err = ExpandHome("/var/lib/jornada.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/jornada.db", got)
}
