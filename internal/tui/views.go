package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

var viewTitles = [...]string{
	ViewOverview:     "Visão Geral",
	ViewTransactions: "Lançamentos",
	ViewDebts:        "Dívidas",
	ViewTaxes:        "Impostos",
	ViewFixedCosts:   "Custos Fixos",
}

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateLocked {
		return m.renderLocked()
	}

	sections := []string{
		m.theme.Title.Render(cli.HanaIcon + " Hana Finance"),
		m.renderTabs(),
		"",
		m.renderBody(),
	}
	if adv := m.renderAdvice(); adv != "" {
		sections = append(sections, "", adv)
	}
	sections = append(sections, "", m.renderStatus(), m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLocked() string {
	lines := []string{
		m.theme.Title.Render(cli.LockIcon + " Hana Finance"),
		m.theme.Subtitle.Render("Digite o PIN para abrir o painel"),
		"",
		m.pin.View(),
	}
	if m.wrongPIN() {
		lines = append(lines, "", m.theme.StatusError.Render("PIN incorreto"))
	} else if m.lastError != nil {
		lines = append(lines, "", m.theme.StatusError.Render(m.lastError.Error()))
	}
	lines = append(lines, "", m.theme.Help.Render("enter confirmar • esc sair"))

	content := m.theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(viewTitles))
	for i, title := range viewTitles {
		if View(i) == m.view {
			tabs = append(tabs, m.theme.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderBody() string {
	if m.config.Store == nil {
		return cli.RenderDashboard(m.dashboard)
	}

	switch m.view {
	case ViewTransactions:
		return cli.RenderTransactions(m.config.Store.Snapshot().Transactions)
	case ViewDebts:
		return cli.RenderDebts(m.config.Store.Snapshot().Debts)
	case ViewTaxes:
		return cli.RenderTaxPayments(m.config.Store.Snapshot().TaxPayments)
	case ViewFixedCosts:
		return cli.RenderFixedCosts(m.config.Store.Snapshot().FixedCosts)
	default:
		return cli.RenderDashboard(m.dashboard)
	}
}

func (m Model) renderAdvice() string {
	switch {
	case m.advising:
		return m.spinner.View() + " " + m.theme.StatusPending.Render("O CFO está analisando seus números...")
	case m.advice != nil:
		title := cli.AdvisorIcon + " Conselho do CFO"
		if m.advice.NeedsCredential {
			title += m.theme.StatusWarning.Render(" (configure a chave da API)")
		}
		width := m.width - 4
		if width < 20 {
			width = 60
		}
		return m.theme.Advice.Width(width).Render(title + "\n" + m.advice.Text)
	}
	return ""
}

func (m Model) renderStatus() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render(m.lastError.Error())
	}
	if m.status != "" {
		return m.theme.StatusSuccess.Render(m.status)
	}
	return ""
}

func (m Model) renderHelp() string {
	bindings := m.keymap.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == m.keymap.Lock.Help().Key && m.config.Gate == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return m.theme.Help.Render(strings.Join(parts, " • "))
}

