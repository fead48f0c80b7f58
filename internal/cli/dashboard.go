package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/Veraticus/finanhome/internal/money"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

const progressWidth = 30

// RenderDashboard renders the full summary shown by `hana stats` and the TUI.
func RenderDashboard(d engine.Dashboard) string {
	sections := []string{
		FormatTitle("Hana Finance"),
		RenderBox("Resultado", renderResult(d.Stats)),
		RenderBox("Meta anual", renderGoal(d.Stats, d.Milestones)),
		RenderBox("Distribuição do lucro", renderBuckets(d.Buckets)),
		RenderBox("Dívidas", renderDebtSummary(d.Debts)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderResult(s engine.Stats) string {
	rows := [][2]string{
		{"Faturamento", SuccessStyle.Render(money.Format(s.TotalRevenue))},
		{"Custos operacionais PJ", money.Format(s.BusinessOperatingCosts)},
		{"Custos fixos (parte PJ)", money.Format(s.MonthlyFixedCostsBusiness)},
		{"Pró-labore", money.Format(s.ProLabore)},
		{"Impostos pagos", money.Format(s.TotalTaxesPaid)},
		{"Custos totais PJ", ErrorStyle.Render(money.Format(s.TotalBusinessCosts))},
		{"Lucro real", BoldStyle.Render(money.Format(s.RealProfit))},
		{"Provisão de impostos", SubtleStyle.Render(money.Format(s.TaxProvision))},
	}

	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-26s %s", r[0], r[1]))
	}

	if s.RealProfitRaw.IsNegative() {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("Prejuízo no período: %s", money.Format(s.RealProfitRaw))))
	}

	leakage := fmt.Sprintf("%-26s %s", "Vazamento pessoal na PJ", money.Percent(s.AccountMixLeakage))
	if s.LeakageWarning() {
		leakage = FormatWarning(leakage)
	}
	lines = append(lines, leakage)

	return strings.Join(lines, "\n")
}

func renderGoal(s engine.Stats, m engine.MilestoneState) string {
	lines := []string{
		fmt.Sprintf("%s %s", ProgressBar(s.GoalProgress, progressWidth), money.Percent(s.GoalProgress)),
		fmt.Sprintf("Faltam %s de %s", money.Format(s.GoalRemaining), money.Format(s.AnnualGoal)),
		fmt.Sprintf("%s Nível: %s (%d/%d marcos)", TrophyIcon, BoldStyle.Render(m.Level), m.Unlocked, len(m.Milestones)),
	}

	for _, v := range m.Milestones {
		mark := SubtleStyle.Render("○")
		if v.Unlocked {
			mark = SuccessStyle.Render(SuccessIcon)
		}
		lines = append(lines, fmt.Sprintf("%s %s %-18s %s  %s", mark, v.Icon, v.Label, money.Format(v.Target), SubtleStyle.Render(v.Reward)))
	}

	return strings.Join(lines, "\n")
}

func renderBuckets(buckets []engine.BucketAllocation) string {
	lines := make([]string, 0, len(buckets))
	for _, b := range buckets {
		pct := b.Percentage.Mul(decimal.NewFromInt(100)).InexactFloat64()
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(fmt.Sprintf("%-18s", b.Name))
		lines = append(lines, fmt.Sprintf("%s %6s  %s", name, money.Percent(pct), money.Format(b.Value)))
	}
	return strings.Join(lines, "\n")
}

func renderDebtSummary(s engine.DebtSummary) string {
	lines := []string{
		fmt.Sprintf("%-26s %s", "Saldo devedor", money.Format(s.TotalRemaining)),
		fmt.Sprintf("%-26s %s", "Parcelas mensais", money.Format(s.MonthlyInstallments)),
		fmt.Sprintf("%s %s", ProgressBar(s.Progress, progressWidth), money.Percent(s.Progress)),
	}
	if s.HighRiskCount > 0 {
		lines = append(lines, FormatWarning(fmt.Sprintf("%d dívida(s) de alto risco", s.HighRiskCount)))
	}
	return strings.Join(lines, "\n")
}

// ProgressBar renders pct (0..100, clamped) as a fixed-width bar.
func ProgressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return SuccessStyle.Render(strings.Repeat("█", filled)) + SubtleStyle.Render(strings.Repeat("░", width-filled))
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

// RenderTransactions renders transactions newest first as stored.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("Nenhuma transação.")
	}

	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		amount := money.Format(t.Amount)
		if t.Type == model.TypeExpense {
			amount = ErrorStyle.Render("-" + amount)
		} else {
			amount = SuccessStyle.Render(amount)
		}
		rows = append(rows, []string{t.ID, t.Date, t.Description, t.Category, t.Nature.Label(), amount})
	}
	return renderTable([]string{"ID", "Data", "Descrição", "Categoria", "Natureza", "Valor"}, rows)
}

// RenderDebts renders debts with payoff progress.
func RenderDebts(debts []model.Debt) string {
	if len(debts) == 0 {
		return SubtleStyle.Render("Nenhuma dívida.")
	}

	rows := make([][]string, 0, len(debts))
	for _, d := range debts {
		description := d.Description
		if d.IsHighRisk {
			description = ErrorStyle.Render(description + " " + WarningIcon)
		}
		installments := "-"
		if n, ok := d.InstallmentsRemaining(); ok {
			installments = fmt.Sprintf("%d", n)
		}
		rows = append(rows, []string{
			d.ID, description, string(d.DebtType),
			money.Format(d.RemainingAmount), money.Format(d.TotalAmount),
			money.Format(d.InstallmentValue), installments, money.Percent(d.Progress()),
		})
	}
	return renderTable([]string{"ID", "Descrição", "Tipo", "Saldo", "Total", "Parcela", "Restantes", "Pago"}, rows)
}

// RenderTaxPayments renders paid tax guides.
func RenderTaxPayments(payments []model.TaxPayment) string {
	if len(payments) == 0 {
		return SubtleStyle.Render("Nenhum imposto pago.")
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{p.ID, p.Date, p.TaxName, p.Period, money.Format(p.Amount)})
	}
	return renderTable([]string{"ID", "Data", "Imposto", "Competência", "Valor"}, rows)
}

// RenderFixedCosts renders recurring costs with their business share.
func RenderFixedCosts(costs []model.FixedCost) string {
	if len(costs) == 0 {
		return SubtleStyle.Render("Nenhum custo fixo.")
	}

	rows := make([][]string, 0, len(costs))
	for _, c := range costs {
		pct := c.BusinessPercentage.Mul(decimal.NewFromInt(100)).InexactFloat64()
		rows = append(rows, []string{
			c.ID, c.Description, c.Category, money.Format(c.TotalAmount),
			money.Percent(pct), money.Format(c.BusinessCost()), c.EndDate,
		})
	}
	return renderTable([]string{"ID", "Descrição", "Categoria", "Total", "PJ", "Parte PJ", "Fim"}, rows)
}

// RenderSettings renders the scalar settings.
func RenderSettings(s model.Settings) string {
	return strings.Join([]string{
		fmt.Sprintf("%-18s %s", "pro-labore", money.Format(s.ProLabore)),
		fmt.Sprintf("%-18s %s", "allocation-rate", s.AllocationRate.String()),
		fmt.Sprintf("%-18s %s", "tax-rate", s.TaxRate.String()),
	}, "\n")
}
