package model

import (
	"strings"
	"time"

	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
)

// FixedCost is a recurring monthly expense split between business and personal use.
// EndDate is informational; nothing expires a cost automatically.
type FixedCost struct {
	ID                 string          `json:"id"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	EndDate            string          `json:"endDate,omitempty"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	BusinessPercentage decimal.Decimal `json:"businessPercentage"`
}

// FixedCostDraft holds the fixed cost form fields.
type FixedCostDraft struct {
	Description        string `json:"description"`
	TotalAmount        string `json:"totalAmount"`
	BusinessPercentage string `json:"businessPercentage"`
	Category           string `json:"category"`
	EndDate            string `json:"endDate"`
}

// NewFixedCost validates a draft. The business percentage is a fraction in [0, 1].
func NewFixedCost(id string, d FixedCostDraft) (FixedCost, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return FixedCost{}, invalid("description", "is required")
	}

	total := money.Normalize(d.TotalAmount)
	if !total.IsPositive() {
		return FixedCost{}, invalid("totalAmount", "must be greater than zero")
	}

	pct := money.Normalize(d.BusinessPercentage)
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(1)) {
		return FixedCost{}, invalid("businessPercentage", "must be between 0 and 1")
	}

	endDate := strings.TrimSpace(d.EndDate)
	if endDate != "" {
		if _, err := time.Parse(DateLayout, endDate); err != nil {
			return FixedCost{}, invalid("endDate", "must be YYYY-MM-DD")
		}
	}

	return FixedCost{
		ID:                 id,
		Description:        description,
		Category:           strings.TrimSpace(d.Category),
		EndDate:            endDate,
		TotalAmount:        total,
		BusinessPercentage: pct,
	}, nil
}

// Draft returns the form representation used when editing.
func (c FixedCost) Draft() FixedCostDraft {
	return FixedCostDraft{
		Description:        c.Description,
		TotalAmount:        c.TotalAmount.String(),
		BusinessPercentage: c.BusinessPercentage.String(),
		Category:           c.Category,
		EndDate:            c.EndDate,
	}
}

// BusinessCost is the monthly amount attributed to the business.
func (c FixedCost) BusinessCost() decimal.Decimal {
	return c.TotalAmount.Mul(c.BusinessPercentage)
}
