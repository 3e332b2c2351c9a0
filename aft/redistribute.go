package aft

import (
	"sort"

	"github.com/kshedden/aftreg/duration"
)

// argsort pairs values with their original positions so that results
// computed in sorted order can be mapped back.  Sorting with
// sort.Stable keeps tied values in their original relative order.
type argsort struct {
	s    []float64
	inds []int
}

func (a argsort) Len() int {
	return len(a.s)
}

func (a argsort) Swap(i, j int) {
	a.s[i], a.s[j] = a.s[j], a.s[i]
	a.inds[i], a.inds[j] = a.inds[j], a.inds[i]
}

func (a argsort) Less(i, j int) bool {
	return a.s[i] < a.s[j]
}

// rollback replaces x with its reverse cumulative sum.
func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

// redistribute imputes each censored residual by the mean of the
// residual distribution beyond the censoring point (the mean residual
// life).  The probability mass that the survival curve places at each
// observed residual is pushed to the right over the residuals above the
// censoring point.  The denominator is floored to avoid dividing by a
// vanishing tail probability when no mass remains beyond a point.  The
// returned values are in the original order of resid; entries at
// uncensored positions are not meaningful.
func redistribute(resid, status []float64, sf *duration.SurvfuncRight, floor float64) []float64 {

	n := len(resid)

	se := make([]float64, n)
	copy(se, resid)
	inds := make([]int, n)
	for i := range inds {
		inds[i] = i
	}
	sort.Stable(argsort{s: se, inds: inds})

	// The cumulative distribution of the residuals at each sorted
	// residual, and the point mass at each position.  At a tied
	// value, the first position carries the whole jump.
	cdf := make([]float64, n)
	for i, e := range se {
		cdf[i] = 1 - sf.SurvProbAt(e)
	}
	dm := make([]float64, n)
	for i := range dm {
		if i == 0 {
			dm[i] = cdf[i]
		} else {
			dm[i] = cdf[i] - cdf[i-1]
		}
	}

	// The mass-weighted sum of residuals at or beyond each sorted
	// position.
	num := make([]float64, n)
	for i := range num {
		num[i] = se[i] * dm[i]
	}
	rollback(num)

	imputed := make([]float64, n)
	for i := range se {
		d := 1 - cdf[i]
		if d < floor {
			d = floor
		}
		imputed[inds[i]] = num[i] / d
	}

	return imputed
}
