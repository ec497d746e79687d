// internal/projection/params.go
package projection

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how the daily rate accrues.
type Mode string

const (
	Simple   Mode = "simple"
	Compound Mode = "compound"
)

// ParseMode maps user text to a Mode. Unknown or empty input falls back to
// Compound with ok=false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Simple:
		return Simple, true
	case Compound:
		return Compound, true
	default:
		return Compound, false
	}
}

func (m Mode) String() string { return string(m) }

// Horizon is a labelled projection length in days.
type Horizon struct {
	Label string
	Days  int
}

// DefaultHorizons are the calculator columns shown on the landing page.
var DefaultHorizons = []Horizon{
	{Label: "1 Day", Days: 1},
	{Label: "7 Days", Days: 7},
	{Label: "1 Month", Days: 30},
	{Label: "3 Months", Days: 90},
}

// YearHorizon is appended when Params.IncludeYear is set.
var YearHorizon = Horizon{Label: "1 Year", Days: 365}

// Params configure the projector.
type Params struct {
	DailyRate   decimal.Decimal
	FeeRate     decimal.Decimal
	Minimum     decimal.Decimal
	IncludeYear bool
}

// DefaultParams: 3% a day, 10% fee on profit, 30 USDT minimum.
func DefaultParams() Params {
	return Params{
		DailyRate: decimal.RequireFromString("0.03"),
		FeeRate:   decimal.RequireFromString("0.10"),
		Minimum:   decimal.NewFromInt(30),
	}
}

// Horizons returns the horizon list for these params.
func (p Params) Horizons() []Horizon {
	out := make([]Horizon, 0, len(DefaultHorizons)+1)
	out = append(out, DefaultHorizons...)
	if p.IncludeYear {
		out = append(out, YearHorizon)
	}
	return out
}

// Validate rejects rates that would make the projection meaningless.
func (p Params) Validate() error {
	if p.DailyRate.IsNegative() {
		return fmt.Errorf("daily rate must not be negative: %s", p.DailyRate)
	}
	if p.FeeRate.IsNegative() || p.FeeRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("fee rate must be within [0, 1]: %s", p.FeeRate)
	}
	if !p.Minimum.IsPositive() {
		return fmt.Errorf("minimum principal must be positive: %s", p.Minimum)
	}
	return nil
}
