package model

import "github.com/shopspring/decimal"

// Default settings.
var (
	DefaultProLabore      = decimal.NewFromInt(8000)
	DefaultAllocationRate = decimal.RequireFromString("0.20")
	DefaultTaxRate        = decimal.RequireFromString("0.06")
	DefaultAnnualGoal     = decimal.NewFromInt(550000)
)

// Settings are the scalar inputs of the aggregation. They are taken as entered;
// only numeric coercion is applied.
type Settings struct {
	ProLabore      decimal.Decimal `json:"proLabore"`
	AllocationRate decimal.Decimal `json:"allocationRate"`
	TaxRate        decimal.Decimal `json:"taxRate"`
}

// DefaultSettings returns the values used when nothing was persisted.
func DefaultSettings() Settings {
	return Settings{
		ProLabore:      DefaultProLabore,
		AllocationRate: DefaultAllocationRate,
		TaxRate:        DefaultTaxRate,
	}
}
