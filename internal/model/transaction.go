package model

import (
	"strings"
	"time"

	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// DefaultIncomeCategory is preselected on the transaction form.
const DefaultIncomeCategory = "Vendas"

// Transaction is a single cash-flow event.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Nature      Nature          `json:"nature"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransactionDraft holds the form fields as typed by the user.
type TransactionDraft struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Nature      string `json:"nature"`
}

// NewTransaction validates a draft. An empty date defaults to today.
func NewTransaction(id string, d TransactionDraft, today time.Time) (Transaction, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Transaction{}, invalid("description", "is required")
	}

	amount := money.Normalize(d.Amount)
	if !amount.IsPositive() {
		return Transaction{}, invalid("amount", "must be greater than zero")
	}

	date, err := normalizeDate(d.Date, today)
	if err != nil {
		return Transaction{}, err
	}

	txType, err := ParseTransactionType(d.Type)
	if err != nil {
		return Transaction{}, invalid("type", err.Error())
	}

	nature, err := ParseNature(d.Nature)
	if err != nil {
		return Transaction{}, invalid("nature", err.Error())
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = DefaultIncomeCategory
	}

	return Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    category,
		Type:        txType,
		Nature:      nature,
	}, nil
}

// Draft returns the form representation used when editing.
func (t Transaction) Draft() TransactionDraft {
	return TransactionDraft{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.String(),
		Category:    t.Category,
		Type:        string(t.Type),
		Nature:      string(t.Nature),
	}
}

func normalizeDate(s string, today time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return today.Format(DateLayout), nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", invalid("date", "must be YYYY-MM-DD")
	}
	return s, nil
}
