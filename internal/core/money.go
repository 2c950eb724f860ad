package core

import "github.com/shopspring/decimal"

// Round2 rounds a money amount to 2 decimal places, half away from zero
// ("round half up" for the non-negative amounts the engine deals in).
// Every rounding step in the engine goes through this function — statutory
// report totals must match filed figures to the paisa, and banker's
// rounding would drift from them.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var hundred = decimal.NewFromInt(100)

// two is used for the intra-state half split.
var two = decimal.NewFromInt(2)
