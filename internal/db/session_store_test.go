package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/jornada/internal/db"
	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/testutil"
	"github.com/balkashynov/jornada/internal/tracker"
)

func activeSession(date string, start time.Time) *models.WorkSession {
	return tracker.NewSession("user-1", "comp-1", date, start)
}

func TestInsertSession_AssignsID(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	created, err := store.InsertSession(ctx, activeSession("2025-03-10", testutil.At(9, 0, 0)))
	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
	assert.Equal(t, 0, created.Version)

	found, err := store.FindOpenSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.StartedAt.Equal(testutil.At(9, 0, 0)))
	assert.Empty(t, found.Breaks)
}

func TestInsertSession_Validation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	tests := []struct {
		name   string
		mutate func(*models.WorkSession)
		field  string
	}{
		{"missing company", func(s *models.WorkSession) { s.CompanyID = "" }, "company_id"},
		{"missing user", func(s *models.WorkSession) { s.UserID = "" }, "user_id"},
		{"bad date", func(s *models.WorkSession) { s.Date = "10/03/2025" }, "date"},
		{"checkout on active", func(s *models.WorkSession) {
			out := s.StartedAt.Add(time.Hour)
			s.CheckOut = &out
		}, "check_out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := activeSession("2025-03-10", testutil.At(9, 0, 0))
			tt.mutate(s)

			_, err := store.InsertSession(ctx, s)
			require.Error(t, err)
			var verr *tracker.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUpdateSession_VersionGuard(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	created, err := store.InsertSession(ctx, activeSession("2025-03-10", testutil.At(9, 0, 0)))
	require.NoError(t, err)

	next := created.Clone()
	next.AccumulatedSeconds = 600
	updated, err := store.UpdateSession(ctx, next, created.Version)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, int64(600), updated.AccumulatedSeconds)

	// A writer still holding version 0 loses
	stale := created.Clone()
	stale.AccumulatedSeconds = 900
	_, err = store.UpdateSession(ctx, stale, created.Version)
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrConflict)

	reloaded, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), reloaded.AccumulatedSeconds)
}

func TestUpdateSession_MissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	ghost := activeSession("2025-03-10", testutil.At(9, 0, 0))
	ghost.ID = "00000000-0000-0000-0000-000000000000"

	_, err := store.UpdateSession(ctx, ghost, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
	assert.ErrorIs(t, err, tracker.ErrStore)
	assert.NotErrorIs(t, err, tracker.ErrConflict)
}

func TestBreaks_OpenAndClose(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	created, err := store.InsertSession(ctx, activeSession("2025-03-10", testutil.At(9, 0, 0)))
	require.NoError(t, err)

	none, err := store.FindOpenBreak(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	br, err := store.InsertBreak(ctx, created.ID, testutil.At(10, 0, 0))
	require.NoError(t, err)
	assert.True(t, br.IsOpen())

	open, err := store.FindOpenBreak(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, br.ID, open.ID)

	tracker.CloseBreak(open, testutil.At(10, 20, 0))
	closed, err := store.UpdateBreak(ctx, open)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, int64(20), closed.DurationMinutes)

	open, err = store.FindOpenBreak(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	_, err = store.InsertBreak(ctx, "", testutil.At(11, 0, 0))
	assert.ErrorIs(t, err, tracker.ErrValidation)
}

func TestUpdateBreak_EndBeforeStart(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	created, err := store.InsertSession(ctx, activeSession("2025-03-10", testutil.At(9, 0, 0)))
	require.NoError(t, err)
	br, err := store.InsertBreak(ctx, created.ID, testutil.At(10, 0, 0))
	require.NoError(t, err)

	end := testutil.At(9, 0, 0)
	br.BreakEnd = &end
	_, err = store.UpdateBreak(ctx, br)
	assert.ErrorIs(t, err, tracker.ErrValidation)
}

func TestListCompleted_FiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	for _, d := range []string{"2025-03-03", "2025-03-05", "2025-03-04", "2025-04-01"} {
		s := testutil.CompletedSession("", d, 480)
		_, err := store.InsertSession(ctx, &s)
		require.NoError(t, err)
	}
	// Another user's day and an open session are excluded
	other := testutil.CompletedSession("", "2025-03-06", 480)
	other.UserID = "user-2"
	_, err := store.InsertSession(ctx, &other)
	require.NoError(t, err)
	_, err = store.InsertSession(ctx, activeSession("2025-03-07", time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	got, err := store.ListCompleted(ctx, "user-1", "2025-03-01", "2025-04-01")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-03-05", got[0].Date)
	assert.Equal(t, "2025-03-04", got[1].Date)
	assert.Equal(t, "2025-03-03", got[2].Date)
}

func TestFindSessionByDate(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	s := testutil.CompletedSession("", "2025-03-10", 240)
	created, err := store.InsertSession(ctx, &s)
	require.NoError(t, err)

	found, err := store.FindSessionByDate(ctx, "user-1", "2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, models.StatusCompleted, found.Status)

	missing, err := store.FindSessionByDate(ctx, "user-1", "2025-03-11")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)

	boom := errors.New("boom")
	err := store.Atomic(ctx, func(tx tracker.Store) error {
		if _, err := tx.InsertSession(ctx, activeSession("2025-03-10", testutil.At(9, 0, 0))); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	open, err := store.FindOpenSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind tracker.StoreErrorKind
	}{
		{"pg permission", &pgconn.PgError{Code: "42501"}, tracker.StorePermission},
		{"pg unique", &pgconn.PgError{Code: "23505"}, tracker.StoreConflict},
		{"pg connection", &pgconn.PgError{Code: "08006"}, tracker.StoreUnavailable},
		{"pg other", &pgconn.PgError{Code: "22P02"}, tracker.StoreOther},
		{"sqlite readonly", errors.New("attempt to write a readonly database (8)"), tracker.StorePermission},
		{"sqlite locked", errors.New("database is locked (5) (SQLITE_BUSY)"), tracker.StoreUnavailable},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), tracker.StoreUnavailable},
		{"unknown", errors.New("disk on fire"), tracker.StoreOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, db.KindOf(tt.err))
		})
	}
}
