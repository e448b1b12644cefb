// Package format turns raw market numbers into display strings.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown wherever a value is missing.
const NotAvailable = "N/A"

type tier struct {
	min    float64
	div    float64
	suffix string
}

// Ordered from largest to smallest; lower bounds are inclusive.
var tiers = []tier{
	{1e12, 1e12, "T"},
	{1e9, 1e9, "B"},
	{1e6, 1e6, "M"},
	{1e3, 1e3, "K"},
}

// FormatCurrencyScaled renders v as a dollar amount with a magnitude suffix,
// e.g. 2.75e12 -> "$2.75T". nil, NaN and infinities render as "N/A".
func FormatCurrencyScaled(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return CurrencyScaled(*v)
}

// CurrencyScaled is FormatCurrencyScaled for a plain float.
func CurrencyScaled(n float64) string {
	if !finite(n) {
		return NotAvailable
	}
	abs := math.Abs(n)
	scaled, suffix := abs, ""
	for _, t := range tiers {
		if abs >= t.min {
			scaled, suffix = abs/t.div, t.suffix
			break
		}
	}
	body := fmt.Sprintf("%.2f", scaled)
	sign := ""
	if n < 0 && strings.Trim(body, "0.") != "" {
		sign = "-"
	}
	return sign + "$" + body + suffix
}

// Dollar renders "$%.2f" with the sign after the dollar sign ("$-1.20").
func Dollar(n float64) string {
	if !finite(n) {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2f", n)
}

// Percent renders a stored fraction as a percentage: 0.0069 -> "0.69%".
func Percent(fraction float64) string {
	if !finite(fraction) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", fraction*100)
}

// Count renders a quantity with thousands separators.
func Count(n float64) string {
	if !finite(n) {
		return NotAvailable
	}
	if n == math.Trunc(n) && math.Abs(n) < 1<<62 {
		return humanize.Comma(int64(n))
	}
	return humanize.Commaf(n)
}

// Plain renders n with two decimals and no unit.
func Plain(n float64) string {
	if !finite(n) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", n)
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
