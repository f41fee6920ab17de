// Package report renders pipeline results to files: the human-readable text
// report, the pipe-delimited enriched dump and an optional XLSX workbook.
package report

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders amount with two decimals and comma thousands
// separators, prefixed by symbol: 1234567.891 → "₹1,234,567.89".
func FormatCurrency(symbol string, amount float64) string {
	return symbol + FormatAmount(amount, 2)
}

// FormatAmount renders amount rounded to places with comma separators.
func FormatAmount(amount float64, places int32) string {
	d := decimal.NewFromFloat(amount).Round(places)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(places)
	whole, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatPercent renders a 0..100 value with two decimals.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).StringFixed(2) + "%"
}

// center pads s on both sides to width runes, extra padding going right.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
