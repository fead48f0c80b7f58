// Package engine derives the dashboard statistics from the current records.
// Everything here is pure: the same records always produce the same snapshot.
package engine

import (
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
)

// LeakageWarningThreshold is the leakage percentage above which the dashboard warns.
const LeakageWarningThreshold = 3.0

var hundred = decimal.NewFromInt(100)

// Input is a snapshot of everything the aggregation reads.
type Input struct {
	AnnualGoal   decimal.Decimal
	Settings     model.Settings
	Transactions []model.Transaction
	TaxPayments  []model.TaxPayment
	FixedCosts   []model.FixedCost
}

// Stats is the aggregated view of the ledger.
type Stats struct {
	TotalRevenue              decimal.Decimal `json:"totalRevenue"`
	BusinessOperatingCosts    decimal.Decimal `json:"businessOperatingCosts"`
	MixedPersonalShare        decimal.Decimal `json:"mixedPersonalShare"`
	PersonalLeakedInBusiness  decimal.Decimal `json:"personalLeakedInBusiness"`
	MonthlyFixedCostsBusiness decimal.Decimal `json:"monthlyFixedCostsBusiness"`
	ProLabore                 decimal.Decimal `json:"proLabore"`
	TotalTaxesPaid            decimal.Decimal `json:"totalTaxesPaid"`
	TotalBusinessCosts        decimal.Decimal `json:"totalBusinessCosts"`
	TaxProvision              decimal.Decimal `json:"taxProvision"`
	RealProfit                decimal.Decimal `json:"realProfit"`
	// RealProfitRaw keeps the sign so a loss can still be measured; RealProfit is clamped at zero.
	RealProfitRaw     decimal.Decimal `json:"realProfitRaw"`
	AnnualGoal        decimal.Decimal `json:"annualGoal"`
	GoalRemaining     decimal.Decimal `json:"goalRemaining"`
	AccountMixLeakage float64         `json:"accountMixLeakage"`
	GoalProgress      float64         `json:"goalProgress"`
}

// Aggregate computes Stats in a single pass over the transactions followed by
// one reduction each over fixed costs and tax payments.
func Aggregate(in Input) Stats {
	var (
		revenue        = decimal.Zero
		operatingCosts = decimal.Zero
		mixedPersonal  = decimal.Zero
		leaked         = decimal.Zero
		one            = decimal.NewFromInt(1)
		rate           = in.Settings.AllocationRate
	)

	for _, t := range in.Transactions {
		if t.Type == model.TypeIncome {
			revenue = revenue.Add(t.Amount)
			continue
		}

		switch t.Nature {
		case model.NatureBusiness:
			operatingCosts = operatingCosts.Add(t.Amount)
		case model.NaturePersonal:
			leaked = leaked.Add(t.Amount)
		case model.NatureMixed:
			operatingCosts = operatingCosts.Add(t.Amount.Mul(rate))
			mixedPersonal = mixedPersonal.Add(t.Amount.Mul(one.Sub(rate)))
		}
	}

	fixedBusiness := decimal.Zero
	for _, c := range in.FixedCosts {
		fixedBusiness = fixedBusiness.Add(c.BusinessCost())
	}

	taxesPaid := decimal.Zero
	for _, p := range in.TaxPayments {
		taxesPaid = taxesPaid.Add(p.Amount)
	}

	proLabore := in.Settings.ProLabore
	totalCosts := operatingCosts.Add(fixedBusiness).Add(proLabore).Add(taxesPaid)
	profitRaw := revenue.Sub(totalCosts)

	var leakage float64
	if denom := totalCosts.Add(leaked); denom.IsPositive() {
		leakage = leaked.Div(denom).Mul(hundred).InexactFloat64()
	}

	var goalProgress float64
	if in.AnnualGoal.IsPositive() {
		goalProgress = revenue.Div(in.AnnualGoal).Mul(hundred).InexactFloat64()
	}

	return Stats{
		TotalRevenue:              revenue,
		BusinessOperatingCosts:    operatingCosts,
		MixedPersonalShare:        mixedPersonal,
		PersonalLeakedInBusiness:  leaked,
		MonthlyFixedCostsBusiness: fixedBusiness,
		ProLabore:                 proLabore,
		TotalTaxesPaid:            taxesPaid,
		TotalBusinessCosts:        totalCosts,
		TaxProvision:              revenue.Mul(in.Settings.TaxRate),
		RealProfit:                decimal.Max(profitRaw, decimal.Zero),
		RealProfitRaw:             profitRaw,
		AnnualGoal:                in.AnnualGoal,
		GoalRemaining:             decimal.Max(in.AnnualGoal.Sub(revenue), decimal.Zero),
		AccountMixLeakage:         leakage,
		GoalProgress:              goalProgress,
	}
}

// LeakageWarning reports whether personal spending on the business ledger is high
// enough to flag.
func (s Stats) LeakageWarning() bool {
	return s.AccountMixLeakage > LeakageWarningThreshold
}
