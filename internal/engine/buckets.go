package engine

import (
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
)

// BucketAllocation is a profit bucket with its share of realized profit.
type BucketAllocation struct {
	model.ProfitBucket
	Value decimal.Decimal `json:"value"`
}

// Buckets splits realProfit across the buckets by percentage.
func Buckets(realProfit decimal.Decimal, buckets []model.ProfitBucket) []BucketAllocation {
	out := make([]BucketAllocation, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, BucketAllocation{
			ProfitBucket: b,
			Value:        realProfit.Mul(b.Percentage),
		})
	}
	return out
}
