package engine

import (
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
)

// Config holds the fixed targets the dashboard is measured against.
type Config struct {
	AnnualGoal decimal.Decimal
	Milestones []model.Milestone
	Buckets    []model.ProfitBucket
}

// DefaultConfig returns the stock goal, milestones and buckets.
func DefaultConfig() Config {
	return Config{
		AnnualGoal: model.DefaultAnnualGoal,
		Milestones: model.DefaultMilestones(),
		Buckets:    model.DefaultProfitBuckets(),
	}
}

// Records is the record-store side of the dashboard input.
type Records struct {
	Settings     model.Settings
	Transactions []model.Transaction
	Debts        []model.Debt
	TaxPayments  []model.TaxPayment
	FixedCosts   []model.FixedCost
}

// Dashboard is everything the UI renders, derived in one go.
type Dashboard struct {
	Milestones MilestoneState     `json:"milestones"`
	Buckets    []BucketAllocation `json:"buckets"`
	Debts      DebtSummary        `json:"debts"`
	Stats      Stats              `json:"stats"`
}

// Build aggregates the records and derives milestones, buckets and debt totals.
func Build(cfg Config, r Records) Dashboard {
	stats := Aggregate(Input{
		AnnualGoal:   cfg.AnnualGoal,
		Settings:     r.Settings,
		Transactions: r.Transactions,
		TaxPayments:  r.TaxPayments,
		FixedCosts:   r.FixedCosts,
	})

	return Dashboard{
		Stats:      stats,
		Milestones: Milestones(stats.TotalRevenue, cfg.Milestones),
		Buckets:    Buckets(stats.RealProfit, cfg.Buckets),
		Debts:      SummarizeDebts(r.Debts),
	}
}
