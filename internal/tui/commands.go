package tui

import (
	"context"

	"github.com/Veraticus/finanhome/internal/advisor"
	tea "github.com/charmbracelet/bubbletea"
)

// loadDashboard reads the current dashboard from the store.
func (m Model) loadDashboard() tea.Cmd {
	st := m.config.Store
	return func() tea.Msg {
		return dashboardMsg{dashboard: st.Dashboard()}
	}
}

// requestAdvice runs the advisor off the UI loop.
func (m Model) requestAdvice() tea.Cmd {
	adv := m.config.Advisor
	ctx := m.ctx
	snap := advisor.SnapshotFrom(m.dashboard)
	return func() tea.Msg {
		a, err := adv.Advise(ctx, snap)
		return adviceMsg{advice: a, err: err}
	}
}

func (m Model) unlock(pin string) tea.Cmd {
	gate := m.config.Gate
	ctx := m.ctx
	return func() tea.Msg {
		return unlockMsg{err: gate.Unlock(ctx, pin)}
	}
}

func (m Model) lock() tea.Cmd {
	gate := m.config.Gate
	ctx := m.ctx
	return func() tea.Msg {
		return lockMsg{err: gate.Lock(ctx)}
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
