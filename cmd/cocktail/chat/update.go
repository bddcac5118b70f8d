package chat

import (
	"context"
	"errors"

	"cocktailnerd/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update handles window, controller and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.viewport.Width = max(msg.Width-4, 10)
		// header, titled chips and query, divider, footer
		m.viewport.Height = max(msg.Height-14, 3)
		m.renderer = newRenderer(m.viewport.Width - 4)
		m.ready = true
		m.refreshViewport()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(session.Snapshot(msg))
		return m, m.waitForSnapshot()

	case helloMsg:
		if msg.err != nil {
			m.backendStatus = "backend offline"
			m.health = healthDown
			m.log.Warn("backend health check failed", zap.Error(msg.err))
		} else {
			m.backendStatus = "backend " + msg.resp.Status
			m.health = healthUp
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applySnapshot keeps the newest state; stale deliveries are ignored.
func (m *Model) applySnapshot(snap session.Snapshot) {
	if snap.Version() < m.snap.Version() {
		return
	}
	m.snap = snap
	if !snap.Loading() {
		m.notice = ""
	}
	m.refreshViewport()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Close()
		return m, tea.Quit

	case "ctrl+x":
		if m.ctrl.Cancel() {
			m.log.Info("request cancelled by user")
		}
		return m, nil

	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil

	case "enter":
		return m.submit()
	}

	if m.focus == focusChips {
		return m.handleChipKey(msg)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.applySnapshot(m.ctrl.SetQuery(after))
	}
	return m, cmd
}

func (m Model) handleChipKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.snap.Available().All()
	if len(categories) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.cursor = (m.cursor - 1 + len(categories)) % len(categories)
	case "right", "l":
		m.cursor = (m.cursor + 1) % len(categories)
	case " ", "x":
		m.toggleCategory(categories[m.cursor])
	}
	return m, nil
}

func (m *Model) toggleCategory(c session.Category) {
	if m.snap.IsSelected(c) {
		m.applySnapshot(m.ctrl.Deselect(c))
		return
	}
	snap, err := m.ctrl.ToggleSelect(c)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.applySnapshot(snap)
}

func (m *Model) toggleFocus() {
	if m.focus == focusChips {
		m.focus = focusQuery
		m.input.Focus()
		return
	}
	m.focus = focusChips
	m.input.Blur()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	snap, err := m.ctrl.Submit(context.Background())
	if errors.Is(err, session.ErrRequestInProgress) {
		m.notice = "Still mixing the last one. Ctrl+X cancels it."
		return m, nil
	}
	m.notice = ""
	m.applySnapshot(snap)
	return m, m.spinner.Tick
}
