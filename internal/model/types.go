package model

import (
	"fmt"
	"strings"
)

// TransactionType tells income from expense.
type TransactionType string

// Transaction type constants.
const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Nature governs how an expense is attributed between the business and the owner.
type Nature string

// Transaction nature constants.
const (
	NatureBusiness Nature = "BUSINESS"
	NaturePersonal Nature = "PERSONAL"
	NatureMixed    Nature = "MIXED"
)

// DebtType classifies an installment liability.
type DebtType string

// Debt type constants.
const (
	DebtCreditCard    DebtType = "CREDIT_CARD"
	DebtLoan          DebtType = "LOAN"
	DebtRenegotiation DebtType = "RENEGOTIATION"
	DebtFinancing     DebtType = "FINANCING"
	DebtOther         DebtType = "OTHER"
)

// ParseTransactionType accepts any casing; empty means INCOME.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// ParseNature accepts any casing; empty means BUSINESS.
func ParseNature(s string) (Nature, error) {
	switch Nature(strings.ToUpper(strings.TrimSpace(s))) {
	case "", NatureBusiness:
		return NatureBusiness, nil
	case NaturePersonal:
		return NaturePersonal, nil
	case NatureMixed:
		return NatureMixed, nil
	default:
		return "", fmt.Errorf("unknown nature %q", s)
	}
}

// ParseDebtType accepts any casing; empty means OTHER.
func ParseDebtType(s string) (DebtType, error) {
	switch DebtType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", DebtOther:
		return DebtOther, nil
	case DebtCreditCard:
		return DebtCreditCard, nil
	case DebtLoan:
		return DebtLoan, nil
	case DebtRenegotiation:
		return DebtRenegotiation, nil
	case DebtFinancing:
		return DebtFinancing, nil
	default:
		return "", fmt.Errorf("unknown debt type %q", s)
	}
}

// Label is the short badge shown next to a transaction.
func (n Nature) Label() string {
	switch n {
	case NatureBusiness:
		return "Business"
	case NaturePersonal:
		return "MISTURA (PESSOAL)"
	case NatureMixed:
		return "Rateio"
	default:
		return string(n)
	}
}
