// Package format holds the display formatting shared by the API, the
// dispatcher and message rendering. It is the only place offset-to-English
// conversion happens.
package format

import (
	"strconv"
	"strings"
	"time"
)

// Currency renders an amount the way the dashboard shows it, e.g.
// 1250.5 -> "$1,250.50".
func Currency(amount float64) string {
	formatted := strconv.FormatFloat(amount, 'f', 2, 64)

	negative := strings.HasPrefix(formatted, "-")
	if negative {
		formatted = formatted[1:]
	}

	parts := strings.SplitN(formatted, ".", 2)
	whole := parts[0]

	var builder strings.Builder

	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			builder.WriteByte(',')
		}

		builder.WriteByte(whole[i])
	}

	result := "$" + builder.String() + "." + parts[1]
	if negative {
		result = "-" + result
	}

	return result
}

// Date renders a calendar day, e.g. "Jun 10, 2024".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TriggerOffset converts a trigger offset into the English used across the
// dashboard: "3 days before due date", "On due date", "2 days after due date".
func TriggerOffset(days int) string {
	switch {
	case days == 0:
		return "On due date"
	case days < 0:
		return dayCount(-days) + " before due date"
	default:
		return dayCount(days) + " after due date"
	}
}

func dayCount(days int) string {
	if days == 1 {
		return "1 day"
	}

	return strconv.Itoa(days) + " days"
}
