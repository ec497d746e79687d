// internal/format/format.go
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency renders an amount with two decimals and thousands separators.
// This is the only place projection values are rounded. The digits come from
// the decimal itself, so amounts beyond float64 precision stay exact.
func Currency(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

// groupThousands inserts commas into the integer part of a plain decimal
// string such as "-1234567.89".
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.Grow(len(sign) + len(intPart) + len(intPart)/3 + len(frac))
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

// USDT is Currency with the unit suffix.
func USDT(d decimal.Decimal) string {
	return Currency(d) + " USDT"
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Profits renders a dollar total compactly: $950, $42K, $1.2M.
func Profits(v float64) string {
	return "$" + compact(v, "%.0fK")
}

// Volume renders a trading volume compactly: 890K, 1.2M.
func Volume(v float64) string {
	return compact(v, "%.0fK")
}

func compact(v float64, thousands string) string {
	switch abs := math.Abs(v); {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf(thousands, math.Floor(v/1e3))
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// Percent renders v with the given decimals and a % suffix.
func Percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}

// SignedPercent always carries a sign: +4.12%, -1.23%.
func SignedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// DecimalPercent renders a decimal percentage, rounded to two places.
func DecimalPercent(d decimal.Decimal) string {
	return Currency(d) + "%"
}

// Countdown renders the time left until the next update.
func Countdown(d time.Duration) string {
	if d <= 0 {
		return "Soon"
	}
	minutes := int(math.Ceil(d.Minutes()))
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// TimeAgo renders the age of t relative to now in the largest whole unit.
func TimeAgo(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// Price renders a quote price with two decimals.
func Price(v float64) string {
	return printer.Sprintf("%.2f", v)
}
