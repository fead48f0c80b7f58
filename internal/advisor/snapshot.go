package advisor

import (
	"fmt"

	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
)

// Snapshot is the slice of the dashboard the advisor sees.
type Snapshot struct {
	NextMilestone       string
	NextReward          string
	Revenue             decimal.Decimal
	BusinessCosts       decimal.Decimal
	AnnualGoal          decimal.Decimal
	GoalRemaining       decimal.Decimal
	RealProfit          decimal.Decimal
	DebtRemaining       decimal.Decimal
	MonthlyInstallments decimal.Decimal
	Leakage             float64
	GoalProgress        float64
	DebtCount           int
	HighRiskDebts       int
	LeakageWarning      bool
}

// SnapshotFrom extracts the advisory inputs from a dashboard.
func SnapshotFrom(d engine.Dashboard) Snapshot {
	s := Snapshot{
		Revenue:             d.Stats.TotalRevenue,
		BusinessCosts:       d.Stats.TotalBusinessCosts,
		AnnualGoal:          d.Stats.AnnualGoal,
		GoalRemaining:       d.Stats.GoalRemaining,
		RealProfit:          d.Stats.RealProfit,
		DebtRemaining:       d.Debts.TotalRemaining,
		MonthlyInstallments: d.Debts.MonthlyInstallments,
		Leakage:             d.Stats.AccountMixLeakage,
		GoalProgress:        d.Stats.GoalProgress,
		DebtCount:           d.Debts.Count,
		HighRiskDebts:       d.Debts.HighRiskCount,
		LeakageWarning:      d.Stats.LeakageWarning(),
	}
	if d.Milestones.Unlocked < len(d.Milestones.Milestones) {
		s.NextMilestone = d.Milestones.Next.Label
		s.NextReward = d.Milestones.Next.Reward
	}
	return s
}

// key identifies snapshots that would produce the same prompt.
func (s Snapshot) key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%.4f|%s|%s|%s|%d|%d",
		s.Revenue.String(), s.BusinessCosts.String(), s.AnnualGoal.String(),
		s.GoalRemaining.String(), s.RealProfit.String(), s.Leakage, s.NextMilestone,
		s.DebtRemaining.String(), s.MonthlyInstallments.String(), s.DebtCount, s.HighRiskDebts)
}

// Fallback is the deterministic advice shown when the provider cannot answer.
func Fallback(s Snapshot) string {
	goal := fmt.Sprintf("Faltam %s para a meta anual.", money.Format(s.GoalRemaining))

	leakage := fmt.Sprintf("Vazamento pessoal na PJ em %s: ", money.Percent(s.Leakage))
	if s.LeakageWarning {
		leakage += "separe as contas antes de acelerar o faturamento."
	} else {
		leakage += "mantenha o rigor na separação das contas."
	}

	return goal + " " + leakage
}
