package aft

import (
	"fmt"
	"math"

	"github.com/kshedden/aftreg"
)

// BJResults describes the results of a fitted Buckley-James regression.
type BJResults struct {
	model     *BJReg
	params    []float64
	xnames    []string
	pseudo    []float64
	niter     int
	converged bool
}

// Params returns the point estimates of the slope coefficients, in the
// order that the predictors were supplied.
func (rslt *BJResults) Params() []float64 {
	return rslt.params
}

// Names returns the covariate names for the variables in the model.
func (rslt *BJResults) Names() []string {
	return rslt.xnames
}

// PseudoResponse returns the working response from the last completed
// iteration: the observed log time where the event was observed, and
// the imputed log time where the observation was censored.
// Exponentiating the values recovers imputed event times.
func (rslt *BJResults) PseudoResponse() []float64 {
	return rslt.pseudo
}

// NumIter returns the number of refits that were performed.
func (rslt *BJResults) NumIter() int {
	return rslt.niter
}

// Converged reports whether the largest absolute coefficient change of
// the final refit was within the configured tolerance.  If false, the
// iteration limit was reached and the results hold the estimate from
// the final iteration.
func (rslt *BJResults) Converged() bool {
	return rslt.converged
}

// FittedValues returns the fitted linear predictor, with no intercept
// adjustment.
func (rslt *BJResults) FittedValues() []float64 {

	fv := make([]float64, rslt.model.NumObs())
	for j, k := range rslt.model.xpos {
		z := rslt.model.data[k]
		for i := range z {
			fv[i] += rslt.params[j] * float64(z[i])
		}
	}

	return fv
}

// Summary returns a string describing the fitted model.
func (rslt *BJResults) Summary() string {

	bj := rslt.model

	status := bj.data[bj.statuspos]
	var nevent int
	for i := range status {
		nevent += int(status[i])
	}

	sum := &aftreg.SummaryTable{
		Title: "Buckley-James regression analysis",
	}

	sum.Top = append(sum.Top, fmt.Sprintf("  Sample size: %10d", bj.NumObs()))
	sum.Top = append(sum.Top, fmt.Sprintf("  Events:      %10d", nevent))
	sum.Top = append(sum.Top, fmt.Sprintf("  Iterations:  %10d", rslt.niter))

	fs := func(x interface{}, h string) []string {
		y := x.([]string)
		m := len(h)
		for i := range y {
			if len(y[i]) > m {
				m = len(y[i])
			}
		}
		var z []string
		for i := range y {
			c := fmt.Sprintf("%%-%ds", m)
			z = append(z, fmt.Sprintf(c, y[i]))
		}
		return z
	}

	fn := func(x interface{}, h string) []string {
		y := x.([]float64)
		var s []string
		for i := range y {
			s = append(s, fmt.Sprintf("%12.4f", y[i]))
		}
		return s
	}

	// The exponentiated coefficients are time ratios: the
	// multiplicative effect of a unit covariate change on the event
	// time.
	var tr []float64
	for _, c := range rslt.params {
		tr = append(tr, math.Exp(c))
	}

	sum.ColNames = []string{"Variable   ", "Coefficient", "Time ratio"}
	sum.ColFmt = []aftreg.Fmter{fs, fn, fn}
	sum.Cols = []interface{}{rslt.xnames, rslt.params, tr}

	if !rslt.converged {
		msg := fmt.Sprintf("Iteration limit of %d reached without convergence", bj.maxiter)
		sum.Msg = append(sum.Msg, msg)
	}

	return sum.String()
}
