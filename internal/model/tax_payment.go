package model

import (
	"strings"
	"time"

	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultTaxName is the preselected tax guide.
const DefaultTaxName = "DAS - Simples Nacional"

// TaxPayment records one paid tax guide.
type TaxPayment struct {
	ID      string          `json:"id"`
	Date    string          `json:"date"`
	TaxName string          `json:"taxName"`
	Period  string          `json:"period"`
	Amount  decimal.Decimal `json:"amount"`
}

// TaxPaymentDraft holds the tax form fields.
type TaxPaymentDraft struct {
	Date    string `json:"date"`
	TaxName string `json:"taxName"`
	Amount  string `json:"amount"`
	Period  string `json:"period"`
}

// NewTaxPayment validates a draft. An empty date defaults to today.
func NewTaxPayment(id string, d TaxPaymentDraft, today time.Time) (TaxPayment, error) {
	amount := money.Normalize(d.Amount)
	if !amount.IsPositive() {
		return TaxPayment{}, invalid("amount", "must be greater than zero")
	}

	date, err := normalizeDate(d.Date, today)
	if err != nil {
		return TaxPayment{}, err
	}

	name := strings.TrimSpace(d.TaxName)
	if name == "" {
		name = DefaultTaxName
	}

	return TaxPayment{
		ID:      id,
		Date:    date,
		TaxName: name,
		Period:  strings.TrimSpace(d.Period),
		Amount:  amount,
	}, nil
}

// Draft returns the form representation used when editing.
func (p TaxPayment) Draft() TaxPaymentDraft {
	return TaxPaymentDraft{
		Date:    p.Date,
		TaxName: p.TaxName,
		Amount:  p.Amount.String(),
		Period:  p.Period,
	}
}
