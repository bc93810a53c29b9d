package testutil

import (
	"path/filepath"
	"testing"

	"github.com/balkashynov/jornada/internal/config"
	"github.com/balkashynov/jornada/internal/db"
)

// NewTestStore opens a SQLite store in a per-test directory with migrations
// applied. The store is closed when the test completes.
func NewTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "jornada.db"),
	}, nil, false)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
