package engine

import (
	"math/rand"
	"testing"

	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func income(amount string) model.Transaction {
	return model.Transaction{ID: "in-" + amount, Amount: dec(amount), Type: model.TypeIncome, Nature: model.NatureBusiness}
}

func expense(amount string, nature model.Nature) model.Transaction {
	return model.Transaction{ID: "ex-" + amount, Amount: dec(amount), Type: model.TypeExpense, Nature: nature}
}

func settings(proLabore, allocation, tax string) model.Settings {
	return model.Settings{ProLabore: dec(proLabore), AllocationRate: dec(allocation), TaxRate: dec(tax)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s = %s, want %s", field, got, want)
}

func TestAggregate_ConcreteScenario(t *testing.T) {
	stats := Aggregate(Input{
		AnnualGoal: model.DefaultAnnualGoal,
		Settings:   settings("8000", "0.20", "0.06"),
		Transactions: []model.Transaction{
			income("20000"),
			expense("4000", model.NatureMixed),
		},
	})

	assertDecimal(t, "20000", stats.TotalRevenue, "TotalRevenue")
	assertDecimal(t, "800", stats.BusinessOperatingCosts, "BusinessOperatingCosts")
	assertDecimal(t, "3200", stats.MixedPersonalShare, "MixedPersonalShare")
	assertDecimal(t, "8800", stats.TotalBusinessCosts, "TotalBusinessCosts")
	assertDecimal(t, "11200", stats.RealProfit, "RealProfit")
	assertDecimal(t, "1200", stats.TaxProvision, "TaxProvision")
	assertDecimal(t, "530000", stats.GoalRemaining, "GoalRemaining")
	assert.Equal(t, 0.0, stats.AccountMixLeakage)
	assert.InDelta(t, 20000.0/550000.0*100, stats.GoalProgress, 1e-9)
}

func TestAggregate_RevenueIsOrderIndependent(t *testing.T) {
	txns := []model.Transaction{
		income("100.10"),
		income("2500"),
		expense("300", model.NatureBusiness),
		income("0.05"),
		expense("40", model.NaturePersonal),
		expense("999.99", model.NatureMixed),
		income("12345.67"),
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(txns), func(a, b int) { txns[a], txns[b] = txns[b], txns[a] })
		stats := Aggregate(Input{Settings: settings("0", "0.2", "0"), Transactions: txns})
		assertDecimal(t, "14945.82", stats.TotalRevenue, "TotalRevenue")
	}
}

func TestAggregate_MixedSplitIsLinearInRate(t *testing.T) {
	for _, rate := range []string{"0", "0.25", "0.5", "0.75", "1"} {
		t.Run(rate, func(t *testing.T) {
			stats := Aggregate(Input{
				Settings:     settings("0", rate, "0"),
				Transactions: []model.Transaction{expense("4000", model.NatureMixed)},
			})
			want := dec("4000").Mul(dec(rate))
			assertDecimal(t, want.String(), stats.BusinessOperatingCosts, "BusinessOperatingCosts")
			assertDecimal(t, dec("4000").Sub(want).String(), stats.MixedPersonalShare, "MixedPersonalShare")
		})
	}
}

func TestAggregate_ProfitIsClampedAtZero(t *testing.T) {
	stats := Aggregate(Input{
		Settings: settings("3000", "0.2", "0.06"),
		Transactions: []model.Transaction{
			income("1000"),
			expense("2000", model.NatureBusiness),
		},
	})

	assert.True(t, stats.RealProfit.IsZero(), "RealProfit = %s", stats.RealProfit)
	assertDecimal(t, "-4000", stats.RealProfitRaw, "RealProfitRaw")
}

func TestAggregate_LeakageZeroGuard(t *testing.T) {
	stats := Aggregate(Input{Settings: settings("0", "0.2", "0.06")})

	assert.Equal(t, 0.0, stats.AccountMixLeakage)
	assert.Equal(t, 0.0, stats.GoalProgress)
	assert.False(t, stats.LeakageWarning())
}

func TestAggregate_Leakage(t *testing.T) {
	stats := Aggregate(Input{
		Settings: settings("0", "0.2", "0"),
		Transactions: []model.Transaction{
			expense("900", model.NatureBusiness),
			expense("100", model.NaturePersonal),
		},
	})

	assert.InDelta(t, 10.0, stats.AccountMixLeakage, 1e-9)
	assertDecimal(t, "100", stats.PersonalLeakedInBusiness, "PersonalLeakedInBusiness")
	assert.True(t, stats.LeakageWarning())
}

func TestAggregate_OnlyPersonalSpending(t *testing.T) {
	stats := Aggregate(Input{
		Settings:     settings("0", "0.2", "0"),
		Transactions: []model.Transaction{expense("50", model.NaturePersonal)},
	})
	assert.InDelta(t, 100.0, stats.AccountMixLeakage, 1e-9)
}

func TestAggregate_FixedCostsAndTaxes(t *testing.T) {
	stats := Aggregate(Input{
		AnnualGoal: dec("100000"),
		Settings:   settings("1000", "0.2", "0.06"),
		Transactions: []model.Transaction{
			income("10000"),
		},
		FixedCosts: []model.FixedCost{
			{ID: "c1", TotalAmount: dec("250"), BusinessPercentage: dec("0.6")},
			{ID: "c2", TotalAmount: dec("100"), BusinessPercentage: dec("0")},
		},
		TaxPayments: []model.TaxPayment{
			{ID: "t1", Amount: dec("600")},
			{ID: "t2", Amount: dec("150.50")},
		},
	})

	assertDecimal(t, "150", stats.MonthlyFixedCostsBusiness, "MonthlyFixedCostsBusiness")
	assertDecimal(t, "750.50", stats.TotalTaxesPaid, "TotalTaxesPaid")
	assertDecimal(t, "1900.50", stats.TotalBusinessCosts, "TotalBusinessCosts")
	assertDecimal(t, "8099.50", stats.RealProfit, "RealProfit")
	// The provision is a comparison figure only; it never enters costs.
	assertDecimal(t, "600", stats.TaxProvision, "TaxProvision")
	assert.InDelta(t, 10.0, stats.GoalProgress, 1e-9)
}

func TestAggregate_SeedData(t *testing.T) {
	stats := Aggregate(Input{
		AnnualGoal:   model.DefaultAnnualGoal,
		Settings:     model.DefaultSettings(),
		Transactions: model.SeedTransactions(),
	})

	// 120 + 8000 + 150 business, 20% of 4000 and 600 mixed, plus 8000 pro-labore.
	assertDecimal(t, "17190", stats.TotalBusinessCosts, "TotalBusinessCosts")
	assertDecimal(t, "2810", stats.RealProfit, "RealProfit")
	require.Equal(t, 0.0, stats.AccountMixLeakage)
}
