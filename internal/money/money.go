// Package money formats amounts for display. Arithmetic elsewhere stays in
// unrounded float64; only presentation rounds to cents.
package money

import (
	"math"
	"strconv"
)

const DefaultSymbol = "$"

// Plain renders amount with exactly two decimals, e.g. "61.98".
func Plain(amount float64) string {
	if amount == 0 || math.Abs(amount) < 0.005 {
		return "0.00"
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Format prefixes Plain with symbol; negatives render as "-$5.00".
func Format(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	plain := Plain(amount)
	if plain[0] == '-' {
		return "-" + symbol + plain[1:]
	}
	return symbol + plain
}
