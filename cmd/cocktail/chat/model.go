// Package chat implements the interactive cocktail picker: category chips,
// a query line and the recommendation panel, all driven by a
// session.Controller.
package chat

import (
	"context"
	"time"

	"cocktailnerd/cmd/cocktail/ui"
	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/logging"
	"cocktailnerd/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// HelloFunc checks backend reachability. Nil disables the header indicator.
type HelloFunc func(ctx context.Context) (backend.HelloResponse, error)

// Config wires the model to its collaborators.
type Config struct {
	Controller *session.Controller
	Hello      HelloFunc
	Styles     ui.Styles
}

type focusArea int

type backendHealth int

const (
	healthUnknown backendHealth = iota
	healthUp
	healthDown
)

const (
	focusChips focusArea = iota
	focusQuery
)

// snapshotMsg carries a controller state change into Update.
type snapshotMsg session.Snapshot

// helloMsg is the result of the backend health check.
type helloMsg struct {
	resp backend.HelloResponse
	err  error
}

// Model is the bubbletea model for the picker.
type Model struct {
	ctrl  *session.Controller
	hello HelloFunc
	log   *zap.Logger

	styles   ui.Styles
	renderer *glamour.TermRenderer
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	snap        session.Snapshot
	updates     <-chan session.Snapshot
	unsubscribe func()

	cursor        int
	focus         focusArea
	backendStatus string
	health        backendHealth
	notice        string

	width  int
	height int
	ready  bool
}

// New builds the model and subscribes it to the controller.
// Call Close when the program exits.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "What's the occasion? (Enter to mix, Tab to switch)"
	ti.Prompt = "› "
	ti.CharLimit = 512
	ti.Width = 60
	ti.PromptStyle = cfg.Styles.Prompt

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Styles.Spinner

	updates, unsubscribe := cfg.Controller.Subscribe()

	return Model{
		ctrl:          cfg.Controller,
		hello:         cfg.Hello,
		log:           logging.Get(logging.CategoryUI),
		styles:        cfg.Styles,
		renderer:      newRenderer(76),
		input:         ti,
		spinner:       sp,
		viewport:      viewport.New(80, 12),
		snap:          cfg.Controller.Snapshot(),
		updates:       updates,
		unsubscribe:   unsubscribe,
		focus:         focusChips,
		backendStatus: "checking backend…",
	}
}

func newRenderer(wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init starts the blink, spinner, snapshot listener and health check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForSnapshot(),
		m.checkBackend(),
	)
}

// Close cancels any pending request and stops the snapshot listener.
func (m Model) Close() {
	m.ctrl.Cancel()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// waitForSnapshot listens for the next controller state.
func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) checkBackend() tea.Cmd {
	if m.hello == nil {
		return nil
	}
	hello := m.hello
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		resp, err := hello(ctx)
		return helloMsg{resp: resp, err: err}
	}
}
