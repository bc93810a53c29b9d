package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/report"
)

// HistoryOptions controls how sessions are classified and displayed
type HistoryOptions struct {
	Title       string
	Location    *time.Location
	LateAfter   int // minutes after midnight
	TargetHours float64
}

type historyKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Prev key.Binding
	Next key.Binding
	Quit key.Binding
}

func (k historyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Quit}
}

func (k historyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// HistoryModel is a paged table of completed sessions with a detail panel
type HistoryModel struct {
	width  int
	height int

	sessions []models.WorkSession
	stats    report.Stats
	opts     HistoryOptions

	selected int // index in sessions

	// Pagination
	currentPage int
	perPage     int

	keys historyKeyMap
	help help.Model
}

// NewHistoryModel creates the history view
func NewHistoryModel(sessions []models.WorkSession, opts HistoryOptions) HistoryModel {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return HistoryModel{
		sessions: sessions,
		stats:    report.Summarize(report.ReportSessions(sessions), opts.TargetHours),
		opts:     opts,
		perPage:  10,
		keys: historyKeyMap{
			Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
			Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
			Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
		},
		help: help.New(),
	}
}

// Init initializes the model
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Height minus header, column headers, summary, pagination, help and borders
		m.perPage = max(m.height-14, 3)
		m.currentPage = m.selected / m.perPage
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			return m.moveSelectionUp(), nil
		case key.Matches(msg, m.keys.Down):
			return m.moveSelectionDown(), nil
		case key.Matches(msg, m.keys.Prev):
			return m.prevPage(), nil
		case key.Matches(msg, m.keys.Next):
			return m.nextPage(), nil
		}
	}

	return m, nil
}

func (m HistoryModel) pages() int {
	if len(m.sessions) == 0 {
		return 1
	}
	return (len(m.sessions) + m.perPage - 1) / m.perPage
}

// moveSelectionUp moves the selection up, following it to the previous page
func (m HistoryModel) moveSelectionUp() HistoryModel {
	if m.selected > 0 {
		m.selected--
		if m.selected < m.currentPage*m.perPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down, following it to the next page
func (m HistoryModel) moveSelectionDown() HistoryModel {
	if m.selected < len(m.sessions)-1 {
		m.selected++
		pageEnd := min((m.currentPage+1)*m.perPage-1, len(m.sessions)-1)
		if m.selected > pageEnd && m.currentPage < m.pages()-1 {
			m.currentPage++
		}
	}
	return m
}

// prevPage goes to the previous page and clamps the selection into it
func (m HistoryModel) prevPage() HistoryModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.clampSelection()
	}
	return m
}

// nextPage goes to the next page and clamps the selection into it
func (m HistoryModel) nextPage() HistoryModel {
	if m.currentPage < m.pages()-1 {
		m.currentPage++
		m.clampSelection()
	}
	return m
}

func (m *HistoryModel) clampSelection() {
	lo := m.currentPage * m.perPage
	hi := min((m.currentPage+1)*m.perPage-1, len(m.sessions)-1)
	if m.selected < lo {
		m.selected = lo
	}
	if m.selected > hi {
		m.selected = hi
	}
}

// Selected returns the highlighted session, or nil when the list is empty
func (m HistoryModel) Selected() *models.WorkSession {
	if m.selected < 0 || m.selected >= len(m.sessions) {
		return nil
	}
	return &m.sessions[m.selected]
}

// View renders the TUI
func (m HistoryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	leftWidth := m.width * 62 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTable(leftWidth),
		" ",
		m.renderDetails(rightWidth),
	)

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", helpBar)
}

func (m HistoryModel) attendanceColor(a report.Attendance) string {
	switch a {
	case report.Present:
		return ColorSuccess
	case report.Late:
		return ColorWarning
	}
	return ColorSecondaryText
}

// renderTable renders the left panel: one row per session and the summary
func (m HistoryModel) renderTable(width int) string {
	var b strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "History"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("📋 " + title))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render("No hay registros para este mes."))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorBorder)).Width(width).Render(b.String())
	}

	const rowFormat = "%-10s %-10s %-6s %-6s %-10s %s"
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Padding(0, 1).
		Render(fmt.Sprintf(rowFormat, "DÍA", "FECHA", "IN", "OUT", "ESTADO", "TOTAL")))
	b.WriteString("\n\n")

	start := m.currentPage * m.perPage
	end := min(start+m.perPage, len(m.sessions))

	for i := start; i < end; i++ {
		s := m.sessions[i]

		day, date := s.Date, s.Date
		if d, err := time.Parse(models.DateLayout, s.Date); err == nil {
			name := report.WeekdayName(d.Weekday())
			day = strings.ToUpper(name[:1]) + name[1:]
			date = d.Format("02/01/2006")
		}
		in := s.StartedAt.In(m.opts.Location).Format("15:04")
		out := "--"
		if s.CheckOut != nil {
			out = s.CheckOut.In(m.opts.Location).Format("15:04")
		}
		att := report.AttendanceOf(s, m.opts.Location, m.opts.LateAfter)
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(m.attendanceColor(att))).Render(fmt.Sprintf("%-10s", att))

		row := fmt.Sprintf("%-10s %-10s %-6s %-6s %s %s", truncate(day, 10), date, in, out, status, report.Spelled(s.AccumulatedSeconds))

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(row))
		} else {
			b.WriteString(" " + row)
		}
		b.WriteString("\n")
	}

	if m.pages() > 1 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width-2).
			MarginTop(1).
			Render(fmt.Sprintf("Page %d/%d (%d sessions)", m.currentPage+1, m.pages(), len(m.sessions))))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("Total %.2fh · %d days · avg %.2fh · %d breaks",
		m.stats.TotalHours, m.stats.WorkDays, m.stats.AverageHours, m.stats.TotalBreaks)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(summary))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

// renderDetails renders the right panel for the selected session
func (m HistoryModel) renderDetails(width int) string {
	var b strings.Builder

	s := m.Selected()
	if s == nil {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width).
			Render("jornada"))
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(ColorBorder)).Width(width).Render(b.String())
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText)).Width(width).Render("📅 " + s.Date))
	b.WriteString("\n\n")

	label := func(name, value, color string) {
		b.WriteString(name + ": ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(value))
		b.WriteString("\n")
	}

	label("Worked", report.Spelled(s.AccumulatedSeconds), ColorAccentBright)
	perf := report.Rate(s.TotalMinutes, m.opts.TargetHours)
	perfColor := ColorSecondaryText
	switch perf {
	case report.Excellent:
		perfColor = ColorSuccess
	case report.Good:
		perfColor = ColorAccentBright
	}
	label("Rendimiento", string(perf), perfColor)
	att := report.AttendanceOf(*s, m.opts.Location, m.opts.LateAfter)
	label("Estado", string(att), m.attendanceColor(att))

	if len(s.Breaks) > 0 {
		b.WriteString("\nBreaks:\n")
		for _, br := range s.Breaks {
			end := "open"
			if br.BreakEnd != nil {
				end = br.BreakEnd.In(m.opts.Location).Format("15:04")
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(
				fmt.Sprintf("  %s → %s (%dm)", br.BreakStart.In(m.opts.Location).Format("15:04"), end, br.DurationMinutes)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("id " + s.ID))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

// truncate cuts s to n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// RunHistoryTUI shows the history table until the user quits
func RunHistoryTUI(sessions []models.WorkSession, opts HistoryOptions) error {
	p := tea.NewProgram(NewHistoryModel(sessions, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
