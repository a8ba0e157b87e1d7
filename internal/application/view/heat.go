package view

import "github.com/shopspring/decimal"

var heatSteps = []decimal.Decimal{
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("2"),
	decimal.RequireFromString("5"),
}

// HeatLevel buckets a percent change into -3..3 for heatmap tiles.
func HeatLevel(pct decimal.Decimal) int {
	level := 0
	abs := pct.Abs()
	for _, step := range heatSteps {
		if abs.GreaterThanOrEqual(step) {
			level++
		}
	}
	if pct.IsNegative() {
		return -level
	}
	return level
}

func Direction(pct decimal.Decimal) string {
	switch pct.Sign() {
	case 1:
		return "up"
	case -1:
		return "down"
	default:
		return "flat"
	}
}
