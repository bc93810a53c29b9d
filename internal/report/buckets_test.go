package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/testutil"
)

func TestWeekOfMonth(t *testing.T) {
	tests := map[int]int{1: 1, 7: 1, 8: 2, 14: 2, 15: 3, 21: 3, 22: 4, 28: 4, 29: 4, 31: 4}
	for day, want := range tests {
		assert.Equal(t, want, WeekOfMonth(day), "day %d", day)
	}
}

func TestWeeklyBuckets(t *testing.T) {
	sessions := []models.WorkSession{
		testutil.CompletedSession("a", "2025-03-03", 480),
		testutil.CompletedSession("b", "2025-03-10", 450),
		testutil.CompletedSession("c", "2025-03-11", 30),
		testutil.CompletedSession("d", "2025-03-30", 60),
		testutil.CompletedSession("e", "2025-03-31", 60),
	}

	got := WeeklyBuckets(sessions)
	require.Len(t, got, 4)
	assert.Equal(t, "Sem 1", got[0].Label)
	assert.InDelta(t, 8.0, got[0].Hours, 1e-9)
	assert.InDelta(t, 8.0, got[1].Hours, 1e-9)
	assert.Zero(t, got[2].Hours)
	assert.Equal(t, "Sem 4", got[3].Label)
	assert.InDelta(t, 2.0, got[3].Hours, 1e-9)
}

func TestDayOfWeekBuckets(t *testing.T) {
	sessions := []models.WorkSession{
		testutil.CompletedSession("a", "2025-03-03", 480), // Monday
		testutil.CompletedSession("b", "2025-03-10", 120), // Monday
		testutil.CompletedSession("c", "2025-03-09", 60),  // Sunday
	}

	got := DayOfWeekBuckets(sessions)
	require.Len(t, got, 7)
	assert.Equal(t, "Lun", got[0].Label)
	assert.InDelta(t, 10.0, got[0].Hours, 1e-9)
	assert.Equal(t, "Dom", got[6].Label)
	assert.InDelta(t, 1.0, got[6].Hours, 1e-9)
}

func TestLastWeekSeries(t *testing.T) {
	// Wednesday 2025-03-12: last complete week is 03-03..03-09
	today := time.Date(2025, time.March, 12, 16, 0, 0, 0, time.UTC)
	sessions := []models.WorkSession{
		testutil.CompletedSession("a", "2025-03-03", 240),
		testutil.CompletedSession("b", "2025-03-03", 240, testutil.WithCheckIn(14, 0)),
		testutil.CompletedSession("c", "2025-03-07", 300),
		testutil.CompletedSession("d", "2025-03-10", 480), // this week
	}

	got := LastWeekSeries(sessions, today)
	require.Len(t, got, 7)
	assert.Equal(t, "2025-03-03", got[0].Date)
	assert.Equal(t, "Lun", got[0].Label)
	assert.InDelta(t, 8.0, got[0].Hours, 1e-9)
	assert.InDelta(t, 5.0, got[4].Hours, 1e-9)
	assert.Equal(t, "2025-03-09", got[6].Date)
	assert.Equal(t, "Dom", got[6].Label)

	// On a Sunday the previous week is still the one before
	sunday := time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-03", LastWeekSeries(sessions, sunday)[0].Date)
}

func TestLastDaysSeries(t *testing.T) {
	today := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	sessions := []models.WorkSession{
		testutil.CompletedSession("a", "2025-03-10", 90),
		testutil.CompletedSession("b", "2025-03-04", 480),
		testutil.CompletedSession("c", "2025-03-03", 480), // outside the window
	}

	got := LastDaysSeries(sessions, today, 7)
	require.Len(t, got, 7)
	assert.Equal(t, "2025-03-04", got[0].Date)
	assert.Equal(t, "Mar", got[0].Label)
	assert.InDelta(t, 8.0, got[0].Hours, 1e-9)
	assert.Equal(t, "2025-03-10", got[6].Date)
	assert.InDelta(t, 1.5, got[6].Hours, 1e-9)

	assert.Nil(t, LastDaysSeries(sessions, today, 0))
}
