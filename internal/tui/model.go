// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"errors"

	"github.com/Veraticus/finanhome/internal/advisor"
	"github.com/Veraticus/finanhome/internal/auth"
	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateLocked State = iota
	StateDashboard
)

// View represents the tab shown on the dashboard.
type View int

const (
	ViewOverview View = iota
	ViewTransactions
	ViewDebts
	ViewTaxes
	ViewFixedCosts
	viewCount
)

// Model holds the TUI state.
type Model struct {
	ctx       context.Context
	theme     themes.Theme
	lastError error
	advice    *advisor.Advice
	dashboard engine.Dashboard
	config    Config
	keymap    KeyMap
	pin       textinput.Model
	spinner   spinner.Model
	status    string
	width     int
	height    int
	state     State
	view      View
	advising  bool
	quitting  bool
}

func newModel(ctx context.Context, cfg Config) Model {
	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '•'
	pin.CharLimit = 12
	pin.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = sp.Style.Foreground(cfg.Theme.Primary)

	state := StateDashboard
	if cfg.Gate != nil && !cfg.Gate.Unlocked() {
		state = StateLocked
	}

	m := Model{
		ctx:     contextOrBackground(ctx),
		theme:   cfg.Theme,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		pin:     pin,
		spinner: sp,
		width:   cfg.Width,
		height:  cfg.Height,
		state:   state,
	}
	if cfg.Store != nil {
		m.dashboard = cfg.Store.Dashboard()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.state == StateLocked {
		return textinput.Blink
	}
	return m.loadDashboard()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == StateLocked {
			return m.updateLocked(msg)
		}
		return m.updateDashboard(msg)

	case dashboardMsg:
		m.dashboard = msg.dashboard
		return m, nil

	case unlockMsg:
		if msg.err != nil {
			m.lastError = msg.err
			m.pin.SetValue("")
			return m, nil
		}
		m.lastError = nil
		m.state = StateDashboard
		m.pin.SetValue("")
		return m, m.loadDashboard()

	case lockMsg:
		m.lastError = msg.err
		m.state = StateLocked
		m.advice = nil
		return m, m.pin.Focus()

	case adviceMsg:
		m.advising = false
		if errors.Is(msg.err, advisor.ErrRequestInFlight) {
			return m, nil
		}
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		advice := msg.advice
		m.advice = &advice
		return m, nil

	case spinner.TickMsg:
		if !m.advising {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == StateLocked {
		var cmd tea.Cmd
		m.pin, cmd = m.pin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLocked(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Submit):
		if m.config.Gate == nil {
			m.state = StateDashboard
			return m, m.loadDashboard()
		}
		return m, m.unlock(m.pin.Value())
	case msg.Type == tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.pin, cmd = m.pin.Update(msg)
	return m, cmd
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Refresh):
		m.status = "Atualizado"
		return m, m.loadDashboard()

	case key.Matches(msg, m.keymap.Advise):
		// A second press while a request is pending is ignored.
		if m.advising || m.config.Advisor == nil {
			return m, nil
		}
		m.advising = true
		m.advice = nil
		m.lastError = nil
		return m, tea.Batch(m.spinner.Tick, m.requestAdvice())

	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % viewCount
		return m, nil

	case key.Matches(msg, m.keymap.PrevView):
		m.view = (m.view + viewCount - 1) % viewCount
		return m, nil

	case key.Matches(msg, m.keymap.Lock):
		if m.config.Gate == nil {
			return m, nil
		}
		return m, m.lock()
	}
	return m, nil
}

// wrongPIN reports whether the last error was a rejected PIN.
func (m Model) wrongPIN() bool {
	return errors.Is(m.lastError, auth.ErrWrongPIN)
}
