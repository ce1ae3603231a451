package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency formats an amount as a dollar string with thousands separators,
// e.g. 1234.5 -> "$1,234.50". Rounding is half away from zero at two
// decimal places and happens only here, never in the arithmetic.
func Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// QuoteNumber renders a sequential quote number as a display reference,
// zero padded to four digits. Larger numbers are never truncated:
// 7 -> "Q-0007", 12345 -> "Q-12345".
func QuoteNumber(n int64) string {
	return fmt.Sprintf("Q-%04d", n)
}

// Date renders a timestamp in the document's human date form.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Percent renders a tax rate with no trailing zeros: 10 -> "10", 7.5 -> "7.5".
func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
