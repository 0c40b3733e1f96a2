// Package format holds the display formatting shared by the PDF renderer and
// the HTML templates: US dollar amounts, tax rates and long dates.
package format

import (
	"strconv"
	"strings"
	"time"
)

// Money formats an amount as $X,XXX.XX with comma thousand grouping.
// Negative amounts render as -$X,XXX.XX.
func Money(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// Rate formats a tax rate percentage without trailing zeros: 8.25 -> "8.25",
// 8.50 -> "8.5", 10 -> "10".
func Rate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// Date formats a date the way the invoice documents show it, e.g.
// "January 02, 2006".
func Date(t time.Time) string {
	return t.Format("January 02, 2006")
}

// ShortDate formats a date for form inputs and tables, e.g. "2006-01-02".
func ShortDate(t time.Time) string {
	return t.Format("2006-01-02")
}
