package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/testutil"
)

func historyFixture(n int) []models.WorkSession {
	sessions := make([]models.WorkSession, 0, n)
	for i := n; i >= 1; i-- {
		sessions = append(sessions, testutil.CompletedSession(fmt.Sprintf("s%d", i), fmt.Sprintf("2025-03-%02d", i), 480))
	}
	return sessions
}

func press(t *testing.T, m HistoryModel, msg tea.Msg) HistoryModel {
	t.Helper()
	next, _ := m.Update(msg)
	hm, ok := next.(HistoryModel)
	require.True(t, ok)
	return hm
}

func TestHistory_Paging(t *testing.T) {
	m := NewHistoryModel(historyFixture(12), HistoryOptions{Location: time.UTC, LateAfter: 490, TargetHours: 8})
	m = press(t, m, tea.WindowSizeMsg{Width: 140, Height: 19}) // five rows per page
	require.Equal(t, 5, m.perPage)
	assert.Equal(t, 3, m.pages())

	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 5, m.selected)
	assert.Equal(t, 1, m.currentPage)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.currentPage)
	assert.Equal(t, 10, m.selected)

	// Already on the last page
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.currentPage)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.currentPage)
	assert.Equal(t, 9, m.selected)

	require.NotNil(t, m.Selected())
	assert.Equal(t, "s3", m.Selected().ID)
}

func TestHistory_ViewShowsAttendance(t *testing.T) {
	sessions := []models.WorkSession{
		testutil.CompletedSession("a", "2025-03-10", 480, testutil.WithCheckIn(8, 5)),
		testutil.CompletedSession("b", "2025-03-11", 480, testutil.WithCheckIn(9, 30)),
	}
	m := NewHistoryModel(sessions, HistoryOptions{Title: "Marzo 2025", Location: time.UTC, LateAfter: 490, TargetHours: 8})
	m = press(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Marzo 2025")
	assert.Contains(t, view, "Asistencia")
	assert.Contains(t, view, "Tardanza")
	assert.Contains(t, view, "Lunes")
	assert.Contains(t, view, "8h 0m 0s")
}

func TestHistory_Empty(t *testing.T) {
	m := NewHistoryModel(nil, HistoryOptions{})
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No hay registros")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.selected)
}
