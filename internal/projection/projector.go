// internal/projection/projector.go
package projection

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyAmount    = errors.New("amount is empty")
	ErrInvalidAmount  = errors.New("amount is not a number")
	ErrAmountTooLarge = errors.New("amount is too large")
)

// Accepted amounts are plain decimals of at most maxAmountLength characters,
// strictly below maxPrincipal.
const maxAmountLength = 32

var maxPrincipal = decimal.New(1, 15)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = 365.0
)

// Projection is the outcome of investing Principal for Days.
type Projection struct {
	Label         string
	Days          int
	Principal     decimal.Decimal
	GrossTotal    decimal.Decimal
	GrossProfit   decimal.Decimal
	Fees          decimal.Decimal
	NetProfit     decimal.Decimal
	NetTotal      decimal.Decimal
	ROI           decimal.Decimal
	AnnualizedROI decimal.Decimal
}

// Point is one day of a projected balance curve.
type Point struct {
	Day     int
	Balance decimal.Decimal
	Profit  decimal.Decimal
}

// Result wraps a projection request made from raw user input.
type Result struct {
	Valid       bool
	Message     string
	Mode        Mode
	Projections []Projection
}

// Projector turns a principal into per-horizon returns. It is stateless and
// safe for concurrent use.
type Projector struct {
	params   Params
	horizons []Horizon
}

func NewProjector(params Params) *Projector {
	return &Projector{params: params, horizons: params.Horizons()}
}

func (p *Projector) Params() Params { return p.params }

func (p *Projector) Horizons() []Horizon {
	out := make([]Horizon, len(p.horizons))
	copy(out, p.horizons)
	return out
}

// Guidance is shown instead of results when the input is unusable.
func (p *Projector) Guidance() string {
	return fmt.Sprintf("Enter a minimum of %s USDT to see profit calculations", p.params.Minimum.String())
}

// MinimumNotice is the short hint shown under the amount field.
func (p *Projector) MinimumNotice() string {
	return fmt.Sprintf("Minimum investment is %s USDT", p.params.Minimum.String())
}

// Valid reports whether principal meets the minimum and stays below the
// accepted ceiling.
func (p *Projector) Valid(principal decimal.Decimal) bool {
	return !principal.LessThan(p.params.Minimum) && principal.LessThan(maxPrincipal)
}

// Project returns one Projection per horizon, or nil when principal is not
// Valid.
func (p *Projector) Project(principal decimal.Decimal, mode Mode) []Projection {
	if !p.Valid(principal) {
		return nil
	}
	out := make([]Projection, 0, len(p.horizons))
	for _, h := range p.horizons {
		out = append(out, p.project(principal, mode, h))
	}
	return out
}

// ProjectInput parses raw user text and projects it.
func (p *Projector) ProjectInput(raw string, mode Mode) Result {
	res := Result{Mode: mode}
	principal, err := ParsePrincipal(raw)
	if err != nil || !p.Valid(principal) {
		res.Message = p.Guidance()
		return res
	}
	res.Valid = true
	res.Projections = p.Project(principal, mode)
	return res
}

// Series returns the net balance for every day in [0, days].
func (p *Projector) Series(principal decimal.Decimal, mode Mode, days int) []Point {
	if days <= 0 || !p.Valid(principal) {
		return nil
	}
	points := make([]Point, 0, days+1)
	for d := 0; d <= days; d++ {
		gross := p.grossTotal(principal, mode, d)
		net := p.netProfit(gross.Sub(principal))
		points = append(points, Point{
			Day:     d,
			Balance: principal.Add(net),
			Profit:  net,
		})
	}
	return points
}

func (p *Projector) project(principal decimal.Decimal, mode Mode, h Horizon) Projection {
	gross := p.grossTotal(principal, mode, h.Days)
	grossProfit := gross.Sub(principal)
	fees := grossProfit.Mul(p.params.FeeRate)
	netProfit := grossProfit.Sub(fees)
	netTotal := principal.Add(netProfit)

	return Projection{
		Label:         h.Label,
		Days:          h.Days,
		Principal:     principal,
		GrossTotal:    gross,
		GrossProfit:   grossProfit,
		Fees:          fees,
		NetProfit:     netProfit,
		NetTotal:      netTotal,
		ROI:           netProfit.Div(principal).Mul(hundred),
		AnnualizedROI: annualize(netTotal.Div(principal), h.Days),
	}
}

func (p *Projector) grossTotal(principal decimal.Decimal, mode Mode, days int) decimal.Decimal {
	if days <= 0 {
		return principal
	}
	n := decimal.NewFromInt(int64(days))
	if mode == Simple {
		return principal.Mul(decimal.NewFromInt(1).Add(p.params.DailyRate.Mul(n)))
	}
	return principal.Mul(decimal.NewFromInt(1).Add(p.params.DailyRate).Pow(n))
}

func (p *Projector) netProfit(grossProfit decimal.Decimal) decimal.Decimal {
	return grossProfit.Sub(grossProfit.Mul(p.params.FeeRate))
}

// annualize extrapolates a growth ratio over days to a yearly percentage.
// Fractional exponents go through float64; a non-finite result yields zero.
func annualize(ratio decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	v := (math.Pow(ratio.InexactFloat64(), daysPerYear/float64(days)) - 1) * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ParsePrincipal reads an amount typed by a user. Thousands separators and
// surrounding blanks are tolerated; exponent notation is not.
func ParsePrincipal(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	if len(s) > maxAmountLength {
		return decimal.Zero, ErrAmountTooLarge
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if d.Abs().GreaterThanOrEqual(maxPrincipal) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}
