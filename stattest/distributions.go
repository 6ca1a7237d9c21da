package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// distributions centralizes p-value computation so every test dispatches
// through the same trusted distribution routines.
type distributions struct{}

// normalTwoSidedP computes the two-sided p-value of a z score from the
// standard normal survival function.
func (distributions) normalTwoSidedP(z float64) float64 {
	return 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
}

// tTwoSidedP computes the two-sided p-value of a t statistic under Student's
// t-distribution with df degrees of freedom.
func (distributions) tTwoSidedP(t float64, df float64) float64 {
	if df <= 0 {
		return 1
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

// fUpperTailP computes the upper-tail p-value of an F statistic with df1 and
// df2 degrees of freedom.
func (distributions) fUpperTailP(f float64, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(f)
}

// chiSquareUpperTailP computes the upper-tail p-value of a chi-squared
// statistic with df degrees of freedom.
func (distributions) chiSquareUpperTailP(chi2 float64, df float64) float64 {
	if df <= 0 {
		return 1
	}
	chiDist := distuv.ChiSquared{K: df}
	return 1 - chiDist.CDF(chi2)
}

var dist distributions
