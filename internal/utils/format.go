package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with two decimals and thousands separators,
// e.g. 1234567.891 -> "1,234,567.89".
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	out := make([]byte, 0, len(s)+len(intPart)/3)
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	if neg {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}
