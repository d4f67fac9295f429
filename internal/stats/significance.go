// Package stats holds the significance tests applied to funnel conversion
// counts. Functions are pure; the breakdown loop consumes them.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the significance threshold for all tests.
const Alpha = 0.05

// VariantCounts is one experiment arm's funnel totals: sessions that entered
// the funnel and sessions that reached the terminal step.
type VariantCounts struct {
	Variant   string `json:"variant"`
	Entered   int64  `json:"entered"`
	Converted int64  `json:"converted"`
}

// ConversionRate is Converted/Entered, 0 when nothing entered.
func (v VariantCounts) ConversionRate() float64 {
	if v.Entered == 0 {
		return 0
	}
	return float64(v.Converted) / float64(v.Entered)
}

// ChiSquareResult is the outcome of a contingency chi-square test.
type ChiSquareResult struct {
	Chi2        float64 `json:"chi2"`
	PValue      float64 `json:"p_value"`
	DF          int     `json:"df"`
	Significant bool    `json:"significant"`
}

// ChiSquare runs a chi-square test of independence on a variants × outcome
// (converted / not converted) contingency table. Yates continuity correction
// applies to the 2×2 case.
func ChiSquare(variants []VariantCounts) (ChiSquareResult, error) {
	if len(variants) < 2 {
		return ChiSquareResult{}, errors.New("chi-square test needs at least two variants")
	}

	var grand, convertedTotal float64
	for _, v := range variants {
		if v.Converted > v.Entered {
			return ChiSquareResult{}, errors.New("converted count exceeds entered count")
		}
		if v.Entered == 0 {
			return ChiSquareResult{}, errors.New("variant with zero entries")
		}
		grand += float64(v.Entered)
		convertedTotal += float64(v.Converted)
	}
	notConvertedTotal := grand - convertedTotal
	if convertedTotal == 0 || notConvertedTotal == 0 {
		return ChiSquareResult{}, errors.New("degenerate contingency table")
	}

	df := len(variants) - 1
	yates := df == 1

	var chi2 float64
	for _, v := range variants {
		rowTotal := float64(v.Entered)
		observed := [2]float64{float64(v.Converted), rowTotal - float64(v.Converted)}
		expected := [2]float64{
			rowTotal * convertedTotal / grand,
			rowTotal * notConvertedTotal / grand,
		}
		for i := 0; i < 2; i++ {
			diff := math.Abs(observed[i] - expected[i])
			if yates {
				diff = math.Max(0, diff-0.5)
			}
			chi2 += diff * diff / expected[i]
		}
	}

	dist := distuv.ChiSquared{K: float64(df)}
	p := 1 - dist.CDF(chi2)
	return ChiSquareResult{
		Chi2:        chi2,
		PValue:      p,
		DF:          df,
		Significant: p < Alpha,
	}, nil
}

// Lift is the relative conversion-rate change of treatment over control, in
// percent. Zero when the control rate is zero.
func Lift(control, treatment VariantCounts) float64 {
	cr := control.ConversionRate()
	if cr == 0 {
		return 0
	}
	return (treatment.ConversionRate() - cr) / cr * 100
}
