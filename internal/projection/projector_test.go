package projection

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProjectBelowMinimum(t *testing.T) {
	p := NewProjector(DefaultParams())

	for _, amount := range []string{"29.99", "0", "-50"} {
		assert.Empty(t, p.Project(dec(amount), Compound), amount)
		assert.Empty(t, p.Project(dec(amount), Simple), amount)
	}
	assert.Len(t, p.Project(dec("30"), Compound), 4)
}

func TestProjectInputGuidance(t *testing.T) {
	p := NewProjector(DefaultParams())

	for _, raw := range []string{"", "   ", "abc", "29.99", "NaN", "12abc"} {
		res := p.ProjectInput(raw, Compound)
		assert.False(t, res.Valid, raw)
		assert.Empty(t, res.Projections, raw)
		assert.Equal(t, "Enter a minimum of 30 USDT to see profit calculations", res.Message, raw)
	}

	res := p.ProjectInput(" 1,000 ", Simple)
	require.True(t, res.Valid)
	assert.Empty(t, res.Message)
	assert.Equal(t, Simple, res.Mode)
	assert.True(t, res.Projections[0].Principal.Equal(dec("1000")))
}

func TestProjectCompoundClosedForm(t *testing.T) {
	p := NewProjector(DefaultParams())
	out := p.Project(dec("100"), Compound)
	require.Len(t, out, 4)

	last := out[3]
	assert.Equal(t, "3 Months", last.Label)
	assert.Equal(t, 90, last.Days)

	gross := 100 * math.Pow(1.03, 90)
	grossProfit := gross - 100
	net := grossProfit * 0.9
	assert.InDelta(t, gross, last.GrossTotal.InexactFloat64(), 0.01)
	assert.InDelta(t, grossProfit*0.1, last.Fees.InexactFloat64(), 0.01)
	assert.InDelta(t, net, last.NetProfit.InexactFloat64(), 0.01)
	assert.InDelta(t, 100+net, last.NetTotal.InexactFloat64(), 0.01)
	assert.InDelta(t, net, last.ROI.InexactFloat64(), 0.01) // principal is 100
}

func TestProjectSimple(t *testing.T) {
	p := NewProjector(DefaultParams())
	out := p.Project(dec("1000"), Simple)
	require.Len(t, out, 4)

	day := out[0]
	assert.True(t, day.GrossTotal.Equal(dec("1030")), day.GrossTotal.String())
	assert.True(t, day.GrossProfit.Equal(dec("30")))
	assert.True(t, day.Fees.Equal(dec("3")))
	assert.True(t, day.NetProfit.Equal(dec("27")))
	assert.True(t, day.NetTotal.Equal(dec("1027")))
	assert.True(t, day.ROI.Equal(dec("2.7")), day.ROI.String())

	month := out[2]
	assert.True(t, month.GrossTotal.Equal(dec("1900")), month.GrossTotal.String())
	assert.True(t, month.NetProfit.Equal(dec("810")))
}

func TestProjectionIdentities(t *testing.T) {
	params := DefaultParams()
	params.IncludeYear = true
	p := NewProjector(params)

	for _, mode := range []Mode{Simple, Compound} {
		for _, pr := range p.Project(dec("250.5"), mode) {
			assert.True(t, pr.NetProfit.Equal(pr.GrossProfit.Sub(pr.Fees)), pr.Label)
			assert.True(t, pr.NetTotal.Equal(pr.Principal.Add(pr.NetProfit)), pr.Label)
			assert.True(t, pr.GrossProfit.Equal(pr.GrossTotal.Sub(pr.Principal)), pr.Label)
			assert.True(t, pr.Fees.Equal(pr.GrossProfit.Mul(params.FeeRate)), pr.Label)
		}
	}
}

func TestCompoundBeatsSimple(t *testing.T) {
	params := DefaultParams()
	params.IncludeYear = true
	p := NewProjector(params)

	simple := p.Project(dec("500"), Simple)
	compound := p.Project(dec("500"), Compound)
	require.Len(t, compound, 5)

	for i := range compound {
		if compound[i].Days > 1 {
			assert.True(t, compound[i].GrossTotal.GreaterThan(simple[i].GrossTotal), compound[i].Label)
		} else {
			assert.True(t, compound[i].GrossTotal.Equal(simple[i].GrossTotal))
		}
	}
}

func TestROIIncreasesWithHorizon(t *testing.T) {
	params := DefaultParams()
	params.IncludeYear = true
	p := NewProjector(params)

	for _, mode := range []Mode{Simple, Compound} {
		out := p.Project(dec("30"), mode)
		for i := 1; i < len(out); i++ {
			assert.True(t, out[i].ROI.GreaterThan(out[i-1].ROI), "%s %s", mode, out[i].Label)
		}
	}
}

func TestAnnualizedROI(t *testing.T) {
	p := NewProjector(DefaultParams())
	out := p.Project(dec("100"), Simple)

	// 7 days simple: net ratio 1 + 0.21*0.9
	ratio := 1 + 0.21*0.9
	expected := (math.Pow(ratio, 365.0/7) - 1) * 100
	assert.InEpsilon(t, expected, out[1].AnnualizedROI.InexactFloat64(), 1e-9)

	assert.True(t, annualize(dec("1.5"), 0).IsZero())
	assert.True(t, annualize(dec("1e400"), 1).IsZero(), "overflow yields zero")
}

func TestSeries(t *testing.T) {
	p := NewProjector(DefaultParams())

	pts := p.Series(dec("100"), Compound, 30)
	require.Len(t, pts, 31)
	assert.Equal(t, 0, pts[0].Day)
	assert.True(t, pts[0].Balance.Equal(dec("100")))
	assert.True(t, pts[0].Profit.IsZero())

	month := p.Project(dec("100"), Compound)[2]
	assert.True(t, pts[30].Balance.Equal(month.NetTotal))

	for i := 1; i < len(pts); i++ {
		assert.True(t, pts[i].Balance.GreaterThan(pts[i-1].Balance))
	}

	assert.Empty(t, p.Series(dec("10"), Compound, 30))
	assert.Empty(t, p.Series(dec("100"), Compound, 0))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("Simple")
	assert.True(t, ok)
	assert.Equal(t, Simple, m)

	m, ok = ParseMode("")
	assert.False(t, ok)
	assert.Equal(t, Compound, m)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := DefaultParams()
	bad.FeeRate = dec("1.5")
	assert.Error(t, bad.Validate())

	bad = DefaultParams()
	bad.Minimum = decimal.Zero
	assert.Error(t, bad.Validate())
}

func TestParsePrincipal(t *testing.T) {
	_, err := ParsePrincipal("  ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParsePrincipal("ten")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	d, err := ParsePrincipal("42.5")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("42.5")))

	d, err = ParsePrincipal(" 1,250.75 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("1250.75")))
}

func TestParsePrincipalBounds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"exponent", "1e1000", ErrInvalidAmount},
		{"huge exponent", "1e2000000", ErrInvalidAmount},
		{"upper case exponent", "5E3", ErrInvalidAmount},
		{"at ceiling", "1000000000000000", ErrAmountTooLarge},
		{"long fraction", "100." + strings.Repeat("1", 40), ErrAmountTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrincipal(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	d, err := ParsePrincipal("999999999999999.99")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec("999999999999999.99")))
}

func TestProjectInputRejectsOversizedAmounts(t *testing.T) {
	p := NewProjector(DefaultParams())
	for _, raw := range []string{"1e1000", "1e2000000", "5000000000000000"} {
		res := p.ProjectInput(raw, Compound)
		assert.False(t, res.Valid, raw)
		assert.Empty(t, res.Projections, raw)
		assert.Equal(t, p.Guidance(), res.Message, raw)
	}
	assert.False(t, p.Valid(maxPrincipal))
	assert.Nil(t, p.Series(maxPrincipal, Compound, 30))
}
