package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatAccounting renders a currency value in accounting style: two
// decimals, comma grouping, negatives wrapped in parentheses.
//
//	FormatAccounting(1234.5)  -> "$1,234.50"
//	FormatAccounting(-987.65) -> "($987.65)"
func FormatAccounting(v float64) string {
	formatted := "$" + groupThousands(math.Abs(v))
	if v < 0 {
		return "(" + formatted + ")"
	}
	return formatted
}

func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String() + "." + fracPart
}
