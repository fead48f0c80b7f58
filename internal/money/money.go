// Package money normalizes free-text monetary input and formats amounts for display.
// Amounts are carried as decimal.Decimal everywhere; the display locale is fixed to pt-BR.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrUnparseable is returned by Parse when the input is not a number in any accepted format.
var ErrUnparseable = errors.New("unparseable amount")

// CurrencySymbol is the fixed display currency.
const CurrencySymbol = "R$"

// Parse converts user input such as "1234,56" or "1.234,56" into a decimal.
// When both separators are present the dot is taken as the thousands separator.
func Parse(text string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparseable, text)
	}
	return d, nil
}

// Normalize is the lenient form of Parse: anything unparseable becomes zero.
func Normalize(text string) decimal.Decimal {
	d, err := Parse(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders an amount as "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	return CurrencySymbol + " " + FormatNumber(d, 2)
}

// FormatNumber renders d with pt-BR separators and a fixed number of fractional digits.
func FormatNumber(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}

	// StringFixed keeps a minus sign on values that round to zero.
	if sign != "" && strings.Trim(b.String(), "0.,") == "" {
		sign = ""
	}
	return sign + b.String()
}

// Percent renders a percentage with one fractional digit, e.g. "3,2%".
func Percent(p float64) string {
	return FormatNumber(decimal.NewFromFloat(p), 1) + "%"
}
