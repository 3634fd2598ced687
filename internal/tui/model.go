package tui

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"recruiter-console/internal/board"
	"recruiter-console/internal/domain"
	"recruiter-console/internal/logger"
)

// AuthRedirect records that the board asked for the auth entry point.
// The view quits when it sees the request; the caller prints the way back in.
type AuthRedirect struct {
	requested atomic.Bool
}

func (a *AuthRedirect) RedirectToAuth() {
	a.requested.Store(true)
}

func (a *AuthRedirect) Requested() bool {
	return a.requested.Load()
}

// loadedMsg is sent when the initial fetch or a manual refresh returns.
type loadedMsg struct {
	err error
}

// changedMsg is sent when the board reports a state change.
type changedMsg struct{}

// Model is the Bubble Tea model of the applications page.
type Model struct {
	board     *board.Board
	auth      *AuthRedirect
	keys      keyMap
	help      help.Model
	recruiter string

	view       board.View
	cursor     int
	confirming string
	width      int
}

func New(b *board.Board, auth *AuthRedirect, recruiter string) Model {
	return Model{
		board:     b,
		auth:      auth,
		keys:      defaultKeyMap(),
		help:      help.New(),
		recruiter: recruiter,
		view:      board.View{Loading: true},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(load(m.board), waitForChange(m.board))
}

func load(b *board.Board) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: b.Load(context.Background())}
	}
}

func refresh(b *board.Board) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: b.Refresh(context.Background())}
	}
}

func waitForChange(b *board.Board) tea.Cmd {
	return func() tea.Msg {
		<-b.Changed()
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil && !errors.Is(msg.err, board.ErrClosed) {
			logger.Debug("Load finished with error", "error", msg.err)
		}
		m.sync()
		if m.auth.Requested() {
			return m, tea.Quit
		}
		return m, nil

	case changedMsg:
		m.sync()
		if m.auth.Requested() {
			return m, tea.Quit
		}
		return m, waitForChange(m.board)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming != "" {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			id := m.confirming
			m.confirming = ""
			// the modal already put board.DeletePrompt to the recruiter
			err := m.board.Delete(id, board.ConfirmFunc(func(string) bool { return true }))
			if err != nil {
				logger.Debug("Delete not started", "application_id", id, "error", err)
			}
			m.sync()
		case key.Matches(msg, m.keys.Cancel):
			m.confirming = ""
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Applications)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Accept):
		m.setStatus(domain.ApplicationStatusAccepted)
	case key.Matches(msg, m.keys.Reject):
		m.setStatus(domain.ApplicationStatusRejected)
	case key.Matches(msg, m.keys.Pending):
		m.setStatus(domain.ApplicationStatusPending)
	case key.Matches(msg, m.keys.Delete):
		if app, ok := m.selected(); ok && m.view.CanDelete(app.ID) {
			m.confirming = app.ID
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, refresh(m.board)
	case key.Matches(msg, m.keys.Dismiss):
		m.board.ClearError()
		m.sync()
	}
	return m, nil
}

// setStatus fires only when the button for status is enabled.
func (m *Model) setStatus(status domain.ApplicationStatus) {
	app, ok := m.selected()
	if !ok || !m.view.CanSetStatus(app.ID, status) {
		return
	}
	if err := m.board.SetStatus(app.ID, status); err != nil {
		logger.Debug("Status change not started", "application_id", app.ID, "error", err)
	}
	m.sync()
}

func (m *Model) sync() {
	m.view = m.board.Snapshot()
	if m.cursor >= len(m.view.Applications) {
		m.cursor = len(m.view.Applications) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.confirming != "" && !m.view.CanDelete(m.confirming) {
		m.confirming = ""
	}
}

func (m Model) selected() (domain.Application, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Applications) {
		return domain.Application{}, false
	}
	return m.view.Applications[m.cursor], true
}
