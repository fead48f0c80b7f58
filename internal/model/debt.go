package model

import (
	"strings"
	"time"

	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Debt is an installment liability tracked to payoff. The remaining balance is
// maintained by hand; nothing decrements it over time.
type Debt struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	DebtType         DebtType        `json:"debtType"`
	StartDate        string          `json:"startDate,omitempty"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	RemainingAmount  decimal.Decimal `json:"remainingAmount"`
	InstallmentValue decimal.Decimal `json:"installmentValue"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	// IsHighRisk is MarkedHighRisk, forced on for credit cards.
	IsHighRisk       bool            `json:"isHighRisk"`
	// MarkedHighRisk is the flag as the user set it.
	MarkedHighRisk   bool            `json:"markedHighRisk,omitempty"`
}

// DebtDraft holds the debt form fields.
type DebtDraft struct {
	Description      string `json:"description"`
	TotalAmount      string `json:"totalAmount"`
	RemainingAmount  string `json:"remainingAmount"`
	InstallmentValue string `json:"installmentValue"`
	DebtType         string `json:"debtType"`
	InterestRate     string `json:"interestRate"`
	StartDate        string `json:"startDate"`
	IsHighRisk       bool   `json:"isHighRisk"`
}

// NewDebt validates a draft and clamps the remaining balance into [0, total].
func NewDebt(id string, d DebtDraft) (Debt, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Debt{}, invalid("description", "is required")
	}

	total := money.Normalize(d.TotalAmount)
	if !total.IsPositive() {
		return Debt{}, invalid("totalAmount", "must be greater than zero")
	}

	remaining := decimal.Min(decimal.Max(money.Normalize(d.RemainingAmount), decimal.Zero), total)

	installment := money.Normalize(d.InstallmentValue)
	if installment.IsNegative() {
		return Debt{}, invalid("installmentValue", "cannot be negative")
	}

	debtType, err := ParseDebtType(d.DebtType)
	if err != nil {
		return Debt{}, invalid("debtType", err.Error())
	}

	startDate := strings.TrimSpace(d.StartDate)
	if startDate != "" {
		if _, err := time.Parse(DateLayout, startDate); err != nil {
			return Debt{}, invalid("startDate", "must be YYYY-MM-DD")
		}
	}

	return Debt{
		ID:               id,
		Description:      description,
		DebtType:         debtType,
		StartDate:        startDate,
		TotalAmount:      total,
		RemainingAmount:  remaining,
		InstallmentValue: installment,
		InterestRate:     money.Normalize(d.InterestRate),
		IsHighRisk:       d.IsHighRisk || debtType == DebtCreditCard,
		MarkedHighRisk:   d.IsHighRisk,
	}, nil
}

// Draft returns the form representation used when editing. The high-risk
// flag is the user's own, so changing the type away from credit card clears
// a forced flag.
func (d Debt) Draft() DebtDraft {
	return DebtDraft{
		Description:      d.Description,
		TotalAmount:      d.TotalAmount.String(),
		RemainingAmount:  d.RemainingAmount.String(),
		InstallmentValue: d.InstallmentValue.String(),
		DebtType:         string(d.DebtType),
		InterestRate:     d.InterestRate.String(),
		StartDate:        d.StartDate,
		IsHighRisk:       d.markedHighRisk(),
	}
}

// markedHighRisk reads the user's flag. Debts saved before MarkedHighRisk
// existed only carry IsHighRisk, which is the user's flag unless the type
// forced it.
func (d Debt) markedHighRisk() bool {
	if d.MarkedHighRisk {
		return true
	}
	return d.IsHighRisk && d.DebtType != DebtCreditCard
}

// Paid is the principal already paid off.
func (d Debt) Paid() decimal.Decimal {
	return d.TotalAmount.Sub(d.RemainingAmount)
}

// Progress is the payoff percentage in [0, 100]; zero when the total is zero.
func (d Debt) Progress() float64 {
	if !d.TotalAmount.IsPositive() {
		return 0
	}
	return d.Paid().Div(d.TotalAmount).Mul(hundred).InexactFloat64()
}

// InstallmentsRemaining estimates how many payments are left. The second
// value is false when no installment value is set.
func (d Debt) InstallmentsRemaining() (int, bool) {
	if !d.InstallmentValue.IsPositive() {
		return 0, false
	}
	return int(d.RemainingAmount.Div(d.InstallmentValue).Ceil().IntPart()), true
}
