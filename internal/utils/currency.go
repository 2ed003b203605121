package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount the way receipts show it: "Rp 25.000",
// "Rp 1.250,50", "-Rp 7.500".
func FormatRupiah(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0)
	frac := d.Sub(whole)

	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "Rp " + b.String()
	if !frac.IsZero() {
		out += "," + frac.StringFixed(2)[2:]
	}
	if neg {
		out = "-" + out
	}
	return out
}
