// Package tui is the presentation layer: a bubbletea program that renders
// orchestrator state and translates key presses into action dispatches. It
// holds no game state of its own beyond the last view it was given.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/holdemtable/internal/orchestrator"
)

const logHeight = 10

// Model is the bubbletea model for the table.
type Model struct {
	orch   *orchestrator.Orchestrator
	sink   *Sink
	logger *log.Logger

	view    orchestrator.View
	entries []logEntry
	logView viewport.Model
	raise   textinput.Model
	raising bool
	width   int
	height  int
}

type entryMsg logEntry

type viewMsg orchestrator.View

type tickMsg time.Time

// NewModel creates the TUI model. The sink must be the one registered with
// the orchestrator.
func NewModel(orch *orchestrator.Orchestrator, sink *Sink, logger *log.Logger) *Model {
	raise := textinput.New()
	raise.Placeholder = "amount"
	raise.CharLimit = 9
	raise.Width = 12

	return &Model{
		orch:    orch,
		sink:    sink,
		logger:  logger.WithPrefix("tui"),
		logView: viewport.New(80, logHeight),
		raise:   raise,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEntry(), m.tick())
}

func (m *Model) waitForEntry() tea.Cmd {
	return func() tea.Msg {
		return entryMsg(<-m.sink.entries)
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh re-reads the orchestrator view off the update loop.
func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return viewMsg(m.orch.View())
	}
}

// dispatch runs an orchestrator action and refreshes the view when it
// completes. Errors are already surfaced through the sink.
func (m *Model) dispatch(action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = action(context.Background())
		return viewMsg(m.orch.View())
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case viewMsg:
		m.view = orchestrator.View(msg)
		return m, nil

	case entryMsg:
		m.entries = append(m.entries, logEntry(msg))
		m.logView.SetContent(m.renderLog())
		m.logView.GotoBottom()
		return m, tea.Batch(m.waitForEntry(), m.refresh())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.raising {
		switch msg.String() {
		case "enter":
			amount, err := strconv.Atoi(m.raise.Value())
			m.raising = false
			if err != nil {
				m.entries = append(m.entries, logEntry{kind: kindDiagnostic, text: "invalid raise amount"})
				return m, nil
			}
			return m, m.dispatch(func(ctx context.Context) error {
				return m.orch.Bet(ctx, amount)
			})
		case "esc":
			m.raising = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.raise, cmd = m.raise.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "f":
		return m, m.dispatch(m.orch.Fold)

	case "c":
		return m, m.dispatch(m.orch.Check)

	case "r":
		m.raising = true
		m.raise.SetValue(fmt.Sprintf("%d", m.orch.SuggestedRaise()))
		m.raise.Focus()
		return m, textinput.Blink

	case "a":
		return m, m.dispatch(m.orch.AllIn)

	case "n":
		return m, m.dispatch(func(ctx context.Context) error {
			m.orch.NewMatch(ctx)
			return nil
		})

	case "g":
		return m, m.dispatch(func(ctx context.Context) error {
			m.orch.StartNew(ctx)
			return nil
		})

	case "R":
		return m, m.dispatch(func(ctx context.Context) error {
			m.orch.ResetGame(ctx, true)
			return nil
		})
	}

	return m, nil
}
