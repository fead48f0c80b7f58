package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedCost(t *testing.T) {
	cost, err := NewFixedCost("c", FixedCostDraft{
		Description:        "Internet",
		TotalAmount:        "250,00",
		BusinessPercentage: "0,6",
		Category:           "Habitação",
		EndDate:            "2025-12-31",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(cost.BusinessCost()), "got %s", cost.BusinessCost())

	_, err = NewFixedCost("c", FixedCostDraft{Description: "x", TotalAmount: "10", BusinessPercentage: "60"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewFixedCost("c", FixedCostDraft{Description: "x", TotalAmount: "10", BusinessPercentage: "-0.1"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewFixedCost("c", FixedCostDraft{Description: "x", TotalAmount: "10", EndDate: "soon"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewTaxPayment(t *testing.T) {
	p, err := NewTaxPayment("t", TaxPaymentDraft{Amount: "1.200,00", Period: " 03/25 "}, testToday)
	require.NoError(t, err)
	assert.Equal(t, DefaultTaxName, p.TaxName)
	assert.Equal(t, "03/25", p.Period)
	assert.Equal(t, "2025-03-14", p.Date)
	assert.True(t, decimal.NewFromInt(1200).Equal(p.Amount))

	_, err = NewTaxPayment("t", TaxPaymentDraft{Amount: "0"}, testToday)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDefaultProfitBuckets_SumToOne(t *testing.T) {
	sum := decimal.Zero
	for _, b := range DefaultProfitBuckets() {
		sum = sum.Add(b.Percentage)
	}
	assert.True(t, decimal.NewFromInt(1).Equal(sum), "got %s", sum)
}

func TestDefaultMilestones_Ascending(t *testing.T) {
	milestones := DefaultMilestones()
	for i := 1; i < len(milestones); i++ {
		assert.True(t, milestones[i].Target.GreaterThan(milestones[i-1].Target))
	}
	assert.Len(t, LevelTitles, len(milestones)+1)
}
