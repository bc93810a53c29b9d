package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/jornada/internal/models"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, sec, 0, time.UTC)
}

// pauseAndRecord applies a pause and stores the opened break on the session,
// as the store would
func pauseAndRecord(t *testing.T, s *models.WorkSession, now time.Time) {
	t.Helper()
	br, err := ApplyPause(s, now)
	require.NoError(t, err)
	s.Breaks = append(s.Breaks, *br)
}

func TestFullDayScenario(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))

	pauseAndRecord(t, s, at(9, 30, 0))
	assert.Equal(t, int64(1800), s.AccumulatedSeconds)
	assert.Equal(t, models.StatusPaused, s.Status)

	require.NoError(t, ApplyResume(s, s.OpenBreak(), at(9, 45, 0)))
	assert.Equal(t, at(9, 45, 0), s.CheckIn)
	require.Len(t, s.Breaks, 1)
	assert.Equal(t, int64(15), s.Breaks[0].DurationMinutes)

	require.NoError(t, ApplyStop(s, nil, at(17, 45, 0)))
	assert.Equal(t, int64(30600), s.AccumulatedSeconds)
	assert.Equal(t, int64(510), s.TotalMinutes)
	assert.Equal(t, models.StatusCompleted, s.Status)
	require.NotNil(t, s.CheckOut)
	assert.Equal(t, at(17, 45, 0), *s.CheckOut)
	assert.Nil(t, s.OpenBreak())
}

func TestElapsed_ActiveIsMonotonic(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	s.AccumulatedSeconds = 600

	prev := int64(-1)
	for i := 0; i < 120; i++ {
		now := at(9, 0, 0).Add(time.Duration(i*37) * time.Second)
		got := ElapsedSeconds(s, now)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, int64(600+119*37), prev)
}

func TestElapsed_ClampsClockSkew(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	s.AccumulatedSeconds = 120

	// A client clock behind the server must not produce negative time
	assert.Equal(t, int64(120), ElapsedSeconds(s, at(8, 59, 0)))
}

func TestElapsed_PausedIsFrozen(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	pauseAndRecord(t, s, at(10, 0, 0))

	assert.Equal(t, int64(3600), ElapsedSeconds(s, at(10, 0, 0)))
	assert.Equal(t, int64(3600), ElapsedSeconds(s, at(15, 0, 0)))
}

func TestElapsed_CompletedUsesSnapshot(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	require.NoError(t, ApplyStop(s, nil, at(9, 10, 59)))

	assert.Equal(t, int64(659), s.AccumulatedSeconds)
	assert.Equal(t, int64(10), s.TotalMinutes)
	assert.Equal(t, int64(600), ElapsedSeconds(s, at(18, 0, 0)))
	assert.Equal(t, int64(0), ElapsedSeconds(nil, at(18, 0, 0)))
}

func TestPauseThenImmediateResume(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	pauseAndRecord(t, s, at(11, 0, 0))
	before := s.AccumulatedSeconds

	require.NoError(t, ApplyResume(s, s.OpenBreak(), at(11, 0, 0)))

	assert.Equal(t, before, s.AccumulatedSeconds)
	require.Len(t, s.Breaks, 1)
	assert.Equal(t, int64(0), s.Breaks[0].DurationMinutes)
	assert.NotNil(t, s.Breaks[0].BreakEnd)
}

func TestStopWhilePausedClosesBreak(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	pauseAndRecord(t, s, at(12, 0, 0))

	require.NoError(t, ApplyStop(s, s.OpenBreak(), at(13, 0, 0)))

	assert.Nil(t, s.OpenBreak())
	assert.Equal(t, int64(60), s.Breaks[0].DurationMinutes)
	assert.Equal(t, int64(3*3600), s.AccumulatedSeconds)
	assert.Equal(t, int64(180), s.TotalMinutes)
	assert.Equal(t, at(13, 0, 0), s.CheckIn)
}

func TestInvalidTransitions(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))

	err := ApplyResume(s, nil, at(9, 5, 0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	pauseAndRecord(t, s, at(9, 10, 0))
	_, err = ApplyPause(s, at(9, 11, 0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, ApplyStop(s, s.OpenBreak(), at(9, 20, 0)))
	_, err = ApplyPause(s, at(9, 21, 0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	err = ApplyStop(s, nil, at(9, 22, 0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.StatusCompleted, terr.From)
	assert.Equal(t, "stop", terr.Event)
}

func TestStampTruncatesToSeconds(t *testing.T) {
	madrid := time.FixedZone("CET", 3600)
	in := time.Date(2025, time.March, 10, 10, 0, 0, 999_000_000, madrid)

	got := Stamp(in)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, at(9, 0, 0), got)
}

func TestAudit_ProjectionsAgreeAtEveryTransition(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	assert.True(t, Audit(s, at(9, 20, 0)).Consistent())

	pauseAndRecord(t, s, at(9, 30, 15))
	p := Audit(s, at(9, 40, 0))
	assert.True(t, p.Consistent(), "drift %s", p.Drift)
	assert.Equal(t, 9*time.Minute+45*time.Second, p.BreakTime)

	require.NoError(t, ApplyResume(s, s.OpenBreak(), at(9, 45, 0)))
	assert.True(t, Audit(s, at(12, 0, 7)).Consistent())

	pauseAndRecord(t, s, at(13, 0, 0))
	require.NoError(t, ApplyStop(s, s.OpenBreak(), at(14, 0, 0)))

	p = Audit(s, at(20, 0, 0))
	assert.True(t, p.Consistent(), "drift %s", p.Drift)
	assert.Equal(t, time.Duration(s.AccumulatedSeconds)*time.Second, p.BreakSubtraction)
	assert.Equal(t, 14*time.Minute+45*time.Second+time.Hour, p.BreakTime)
}

func TestAudit_DetectsDrift(t *testing.T) {
	s := NewSession("u1", "c1", "2025-03-10", at(9, 0, 0))
	pauseAndRecord(t, s, at(10, 0, 0))

	// Simulate an independently edited checkpoint
	s.AccumulatedSeconds += 90

	p := Audit(s, at(10, 30, 0))
	assert.False(t, p.Consistent())
	assert.Equal(t, 90*time.Second, p.Drift)
}
