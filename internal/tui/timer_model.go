package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/balkashynov/jornada/internal/models"
	"github.com/balkashynov/jornada/internal/report"
	"github.com/balkashynov/jornada/internal/tracker"
)

// SessionController is the part of the tracker the timer drives
type SessionController interface {
	Now() time.Time
	Snapshot(ctx context.Context) (tracker.Snapshot, error)
	Pause(ctx context.Context, sessionID string) (*models.WorkSession, error)
	Resume(ctx context.Context, sessionID string) (*models.WorkSession, error)
	Stop(ctx context.Context, sessionID string) (*models.WorkSession, error)
}

type timerKeyMap struct {
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Resume, k.Stop, k.Help, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Resume, k.Stop}, {k.Help, k.Quit}}
}

func newTimerKeyMap() timerKeyMap {
	return timerKeyMap{
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Stop:   key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "stop & save")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "exit (keep running)")),
	}
}

// TimerModel is the live view of the current work session
type TimerModel struct {
	ctx    context.Context
	ctrl   SessionController
	width  int
	height int

	session     *models.WorkSession
	elapsed     time.Duration
	targetHours float64

	// gen identifies the current tick chain. Ticks from older chains are
	// dropped, so at most one chain is ever re-armed.
	gen int

	// Animation state
	timerAnimation int

	busy     bool  // an action is in flight
	err      error // last failed action, cleared by the next success
	exiting  bool
	finished bool // the session was completed from the view

	keys     timerKeyMap
	help     help.Model
	progress progress.Model
}

// timerTickMsg is sent every second while the session is active
type timerTickMsg struct {
	gen int
}

// sessionMsg carries the session returned by a successful action or refresh
type sessionMsg struct {
	session *models.WorkSession
}

// actionErrMsg carries a failed action; the displayed state is kept
type actionErrMsg struct {
	action string
	err    error
}

// NewTimerModel creates the timer view for an open session
func NewTimerModel(ctx context.Context, ctrl SessionController, session *models.WorkSession, targetHours float64) TimerModel {
	if targetHours <= 0 {
		targetHours = 8
	}
	m := TimerModel{
		ctx:         ctx,
		ctrl:        ctrl,
		session:     session,
		targetHours: targetHours,
		keys:        newTimerKeyMap(),
		help:        help.New(),
		progress:    progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
	}
	m.elapsed = tracker.Elapsed(session, ctrl.Now())
	m.syncKeys()
	return m
}

// Init starts the tick chain when the session is active
func (m TimerModel) Init() tea.Cmd {
	if m.ticking() {
		return m.tick()
	}
	return nil
}

func (m TimerModel) ticking() bool {
	return m.session != nil && m.session.Status == models.StatusActive && !m.exiting
}

func (m TimerModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

// syncKeys enables only the actions valid in the current state
func (m *TimerModel) syncKeys() {
	status := models.SessionStatus("")
	if m.session != nil {
		status = m.session.Status
	}
	m.keys.Pause.SetEnabled(status == models.StatusActive)
	m.keys.Resume.SetEnabled(status == models.StatusPaused)
	m.keys.Stop.SetEnabled(status == models.StatusActive || status == models.StatusPaused)
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if msg.gen != m.gen || !m.ticking() {
			return m, nil
		}
		m.elapsed = tracker.Elapsed(m.session, m.ctrl.Now())
		m.timerAnimation = (m.timerAnimation + 1) % 4
		return m, m.tick()

	case sessionMsg:
		m.busy = false
		m.err = nil
		m.session = msg.session
		m.gen++
		m.syncKeys()
		if m.session == nil {
			m.exiting = true
			return m, tea.Quit
		}
		m.elapsed = tracker.Elapsed(m.session, m.ctrl.Now())
		if m.session.Status == models.StatusCompleted {
			m.finished = true
			return m, tea.Quit
		}
		if m.ticking() {
			return m, m.tick()
		}
		return m, nil

	case actionErrMsg:
		m.busy = false
		m.err = fmt.Errorf("%s failed: %w", msg.action, msg.err)
		// Someone else changed the session: show what is stored now
		if errors.Is(msg.err, tracker.ErrConflict) || errors.Is(msg.err, tracker.ErrSessionMismatch) {
			return m, m.refresh()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-8, 60)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.exiting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Pause):
			m.busy = true
			return m, m.action("pause", m.ctrl.Pause)
		case key.Matches(msg, m.keys.Resume):
			m.busy = true
			return m, m.action("resume", m.ctrl.Resume)
		case key.Matches(msg, m.keys.Stop):
			m.busy = true
			return m, m.action("stop", m.ctrl.Stop)
		}
	}

	return m, nil
}

// action runs a transition off the update loop. The session id pins the
// request to the session on screen.
func (m TimerModel) action(name string, fn func(context.Context, string) (*models.WorkSession, error)) tea.Cmd {
	ctx, id := m.ctx, m.session.ID
	return func() tea.Msg {
		s, err := fn(ctx, id)
		if err != nil {
			return actionErrMsg{action: name, err: err}
		}
		return sessionMsg{session: s}
	}
}

func (m TimerModel) refresh() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		snap, err := ctrl.Snapshot(ctx)
		if err != nil {
			return actionErrMsg{action: "refresh", err: err}
		}
		return sessionMsg{session: snap.Session}
	}
}

// Session returns the session as last shown
func (m TimerModel) Session() *models.WorkSession {
	return m.session
}

// Finished reports whether the session was completed from the view
func (m TimerModel) Finished() bool {
	return m.finished
}

// Err returns the last action error, if any
func (m TimerModel) Err() error {
	return m.err
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))
	helpBarHeight := lipgloss.Height(helpBar)

	contentHeight := m.height - helpBarHeight - 1

	// Narrow view: just the timer panel
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) statusLine() (string, string) {
	if m.session == nil {
		return "NO SESSION", ColorDisabledText
	}
	switch m.session.Status {
	case models.StatusActive:
		animChars := []string{"⏱", "⏲", "⏱", "⏲"}
		c := animChars[m.timerAnimation]
		return fmt.Sprintf("%s  WORKING  %s", c, c), ColorAccentBright
	case models.StatusPaused:
		return "☕  ON BREAK", ColorWarning
	}
	return "✅  COMPLETED", ColorSuccess
}

// renderTimerPanel renders the clock, the target progress and the status
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	header, color := m.statusLine()
	components = append(components, lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width).
		Render(header))

	clockLines := strings.Split(m.renderBigClock(), "\n")
	for i, line := range clockLines {
		clockLines[i] = lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	target := time.Duration(m.targetHours * float64(time.Hour))
	percent := float64(m.elapsed) / float64(target)
	if percent > 1 {
		percent = 1
	}
	bar := lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(m.progress.ViewAs(percent))
	goal := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Align(lipgloss.Center).
		Width(width).
		Render(fmt.Sprintf("%.0f%% of %.1fh target", percent*100, m.targetHours))
	components = append(components, bar+"\n"+goal)

	if m.busy {
		components = append(components, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			Render("saving..."))
	}
	if m.err != nil {
		components = append(components, lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Align(lipgloss.Center).
			Width(width).
			Render(m.err.Error()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderBigClock renders the elapsed time as block digits, always HH:MM:SS
func (m TimerModel) renderBigClock() string {
	digits := map[rune][5]string{
		'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
		'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
		'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
		'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
		'4': {"█   █", "█   █", "█████", "    █", "    █"},
		'5': {"█████", "█    ", "████ ", "    █", "████ "},
		'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
		'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
		'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
		'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
		':': {"     ", "  █  ", "     ", "  █  ", "     "},
	}

	var lines [5]strings.Builder
	for _, char := range report.Clock(m.elapsed) {
		art, ok := digits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ")
		}
	}

	color := ColorAccentBright
	if m.session != nil && m.session.Status == models.StatusPaused {
		color = ColorWarning
	}
	clockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}

// renderDetailsPanel renders the session facts: entry time, breaks, date
func (m TimerModel) renderDetailsPanel(width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(titleStyle.Render("jornada"))
	b.WriteString("\n\n")

	if m.session == nil {
		return b.String()
	}
	s := m.session
	now := m.ctrl.Now()

	line := func(icon, label, value, color string) {
		row := fmt.Sprintf("%s %s: %s", icon, label,
			lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(value))
		b.WriteString(lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8).Render(row))
		b.WriteString("\n")
	}

	started := s.StartedAt.Local()
	line("📅", "Date", s.Date, ColorPrimaryText)
	line("🟢", "Check-in", fmt.Sprintf("%s (%s)", started.Format("15:04:05"), humanize.RelTime(s.StartedAt, now, "ago", "from now")), ColorAccentBright)

	breakColor := ColorSecondaryText
	if s.Status == models.StatusPaused {
		breakColor = ColorWarning
	}
	line("☕", "Breaks", fmt.Sprintf("%d (%s)", len(s.Breaks), report.Clock(tracker.BreakTime(s, now))), breakColor)

	if open := s.OpenBreak(); open != nil {
		line("⏸", "On break since", open.BreakStart.Local().Format("15:04:05"), ColorWarning)
	}

	remaining := time.Duration(m.targetHours*float64(time.Hour)) - m.elapsed
	if remaining > 0 {
		line("🎯", "Remaining", report.Clock(remaining), ColorSecondaryText)
	} else {
		line("🎯", "Target", "reached", ColorSuccess)
	}

	line("🆔", "Session", shortID(s.ID), ColorDisabledText)

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RunTimerTUI shows the live timer until the user quits or stops the session.
// It returns the model's final state so the caller can report it.
func RunTimerTUI(ctx context.Context, ctrl SessionController, session *models.WorkSession, targetHours float64) (TimerModel, error) {
	model := NewTimerModel(ctx, ctrl, session, targetHours)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}
	return finalModel.(TimerModel), nil
}
