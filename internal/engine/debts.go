package engine

import (
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
)

// DebtSummary totals the tracked debts.
type DebtSummary struct {
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	TotalRemaining      decimal.Decimal `json:"totalRemaining"`
	MonthlyInstallments decimal.Decimal `json:"monthlyInstallments"`
	Count               int             `json:"count"`
	HighRiskCount       int             `json:"highRiskCount"`
	Progress            float64         `json:"progress"`
}

// SummarizeDebts adds up principal, outstanding balance and installments.
func SummarizeDebts(debts []model.Debt) DebtSummary {
	summary := DebtSummary{
		TotalAmount:         decimal.Zero,
		TotalRemaining:      decimal.Zero,
		MonthlyInstallments: decimal.Zero,
		Count:               len(debts),
	}

	for _, d := range debts {
		summary.TotalAmount = summary.TotalAmount.Add(d.TotalAmount)
		summary.TotalRemaining = summary.TotalRemaining.Add(d.RemainingAmount)
		summary.MonthlyInstallments = summary.MonthlyInstallments.Add(d.InstallmentValue)
		if d.IsHighRisk {
			summary.HighRiskCount++
		}
	}

	if summary.TotalAmount.IsPositive() {
		paid := summary.TotalAmount.Sub(summary.TotalRemaining)
		summary.Progress = paid.Div(summary.TotalAmount).Mul(hundred).InexactFloat64()
	}

	return summary
}
