package theme

import (
	"html/template"
	"strconv"

	"github.com/shopspring/decimal"

	"coinlisting/internal/application/view"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	trillion = decimal.NewFromInt(1_000_000_000_000)
)

var funcs = template.FuncMap{
	"price": formatPrice,
	"pct":   formatPercent,
	"big":   formatBig,
	"rank":  formatRank,
	"heat":  heatClass,
	"dir":   view.Direction,
	"inc":   func(n int) int { return n + 1 },
	"dec":   func(n int) int { return n - 1 },
}

func formatPrice(d decimal.Decimal) string {
	if d.Abs().LessThan(decimal.NewFromInt(1)) {
		return "$" + d.StringFixed(6)
	}
	return "$" + d.StringFixed(2)
}

func formatPercent(d decimal.Decimal) string {
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// formatBig abbreviates market cap and volume figures.
func formatBig(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	v := d.Decimal
	abs := v.Abs()
	switch {
	case abs.GreaterThanOrEqual(trillion):
		return "$" + v.Div(trillion).StringFixed(2) + "T"
	case abs.GreaterThanOrEqual(billion):
		return "$" + v.Div(billion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(million):
		return "$" + v.Div(million).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return "$" + v.Div(thousand).StringFixed(2) + "K"
	default:
		return "$" + v.StringFixed(2)
	}
}

func formatRank(r *int) string {
	if r == nil {
		return "-"
	}
	return strconv.Itoa(*r)
}

func heatClass(pct decimal.Decimal) string {
	level := view.HeatLevel(pct)
	switch {
	case level > 0:
		return "heat-p" + strconv.Itoa(level)
	case level < 0:
		return "heat-n" + strconv.Itoa(-level)
	default:
		return "heat-0"
	}
}
