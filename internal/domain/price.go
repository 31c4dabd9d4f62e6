package domain

import (
	"math"
	"strconv"
	"strings"
)

// NormalizePrice derives a numeric value from a display price such as
// "₹12,345" or "$19.99". Currency symbols, grouping separators and
// whitespace are stripped; the remaining digits and decimal point are parsed
// as a float. The second return value is false when no usable number
// remains.
func NormalizePrice(display string) (float64, bool) {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// FormatPrice renders an amount in rupees using Indian digit grouping:
// the last three digits form one group, the rest group in pairs
// (1234567 -> "₹12,34,567").
func FormatPrice(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
