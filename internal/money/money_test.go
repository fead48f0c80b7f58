package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"thousands dot and decimal comma", "1.234,56", "1234.56"},
		{"decimal comma", "1234,56", "1234.56"},
		{"plain dot decimal", "1234.56", "1234.56"},
		{"integer", "20000", "20000"},
		{"surrounding whitespace", "  4 000,00 ", "4000"},
		{"multiple thousands groups", "1.234.567,89", "1234567.89"},
		{"garbage", "abc", "0"},
		{"empty", "", "0"},
		{"negative", "-12,5", "-12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "Normalize(%q) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestParse_ReportsUnparseable(t *testing.T) {
	_, err := Parse("12a,00")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseable)

	d, err := Parse("1.234,56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"1234.56", "R$ 1.234,56"},
		{"550000", "R$ 550.000,00"},
		{"999.999", "R$ 1.000,00"},
		{"-8800", "R$ -8.800,00"},
		{"12.3", "R$ 12,30"},
		{"-0.001", "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "3,2%", Percent(3.21))
	assert.Equal(t, "0,0%", Percent(0))
	assert.Equal(t, "100,0%", Percent(100))
}
