// Package aft fits accelerated failure time regression models to right
// censored data using the Buckley-James algorithm.
//
// The model is log(T) = x'b + e, where T is an event time that may be
// right censored.  Censored outcomes are imputed by the conditional
// mean of the residual distribution beyond the censoring point,
// estimated with the method of Kaplan and Meier, and the model is refit
// by least squares on the completed data.  The imputation and refit
// steps alternate until the coefficients stabilize.
package aft

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kshedden/aftreg"
	"github.com/kshedden/aftreg/duration"
	"github.com/kshedden/aftreg/lm"
)

// Errors returned when the data cannot support a fit.  These are all
// detected before any iteration is performed.
var (
	ErrNoData    = errors.New("aft: dataset is empty")
	ErrTooFewObs = errors.New("aft: fewer observations than coefficients to estimate")
	ErrNoEvents  = errors.New("aft: no events in the data, the residual distribution is not identified")
)

// BJReg describes an accelerated failure time regression model for
// right censored data, estimated with the Buckley-James algorithm.
type BJReg struct {

	// The names of the variables.  The order agrees with the order of 'data'.
	varnames []string

	// The data to which the model is fit
	data [][]aftreg.Dtype

	// Position of the time variable
	timepos int

	// Position of the status variable
	statuspos int

	// The positions of the covariates in the dataset
	xpos []int

	// Largest absolute coefficient change at which the iterations
	// are taken to have converged.  Also used to floor the
	// denominator in the redistribution step.
	tol float64

	// Maximum number of refits
	maxiter int

	log *log.Logger
}

// BJRegConfig defines configuration parameters for a Buckley-James
// regression.
type BJRegConfig struct {

	// Tolerance is the largest absolute coefficient change between
	// successive refits at which the iterations are taken to have
	// converged.
	Tolerance float64

	// MaxIter bounds the number of refits.  Reaching the bound is
	// not an error, but the results report that the fit did not
	// converge.
	MaxIter int

	// A logger to which progress messages are written
	Log *log.Logger
}

// DefaultBJRegConfig returns a default configuration struct for a
// Buckley-James regression.
func DefaultBJRegConfig() *BJRegConfig {

	return &BJRegConfig{
		Tolerance: 1e-3,
		MaxIter:   100,
	}
}

// NewBJReg returns a BJReg value that can be used to fit an
// accelerated failure time regression model to the given data.
func NewBJReg(data aftreg.Dataset, time, status string, predictors []string, config *BJRegConfig) (*BJReg, error) {

	if config == nil {
		config = DefaultBJRegConfig()
	}

	pos := make(map[string]int)
	for i, v := range data.Names() {
		pos[v] = i
	}

	timepos, ok := pos[time]
	if !ok {
		return nil, fmt.Errorf("aft: time variable '%s' not found in dataset", time)
	}

	statuspos, ok := pos[status]
	if !ok {
		return nil, fmt.Errorf("aft: status variable '%s' not found in dataset", status)
	}

	var xpos []int
	for _, xna := range predictors {
		xp, ok := pos[xna]
		if !ok {
			return nil, fmt.Errorf("aft: predictor '%s' not found in dataset", xna)
		}
		xpos = append(xpos, xp)
	}

	bj := &BJReg{
		data:      data.Data(),
		varnames:  data.Names(),
		timepos:   timepos,
		statuspos: statuspos,
		xpos:      xpos,
		tol:       config.Tolerance,
		maxiter:   config.MaxIter,
		log:       config.Log,
	}

	if err := bj.checkData(); err != nil {
		return nil, err
	}

	return bj, nil
}

// NumObs returns the number of observations in the data set.
func (bj *BJReg) NumObs() int {
	return len(bj.data[bj.timepos])
}

// NumParams returns the number of model parameters (slope coefficients).
func (bj *BJReg) NumParams() int {
	return len(bj.xpos)
}

// Dataset returns the data columns that are used to fit the model.
func (bj *BJReg) Dataset() [][]aftreg.Dtype {
	return bj.data
}

// Xpos returns the positions of the covariates in the model's dataset.
func (bj *BJReg) Xpos() []int {
	return bj.xpos
}

func (bj *BJReg) checkData() error {

	if len(bj.data) == 0 || len(bj.data[bj.timepos]) == 0 {
		return ErrNoData
	}

	n := len(bj.data[bj.timepos])
	for j, col := range bj.data {
		if len(col) != n {
			return fmt.Errorf("aft: column '%s' has length %d, expected %d",
				bj.varnames[j], len(col), n)
		}
	}

	if n < len(bj.xpos)+1 {
		return fmt.Errorf("%w: have %d observations, need at least %d",
			ErrTooFewObs, n, len(bj.xpos)+1)
	}

	time := bj.data[bj.timepos]
	status := bj.data[bj.statuspos]

	var nevent int
	for i := range status {
		switch status[i] {
		case 0:
		case 1:
			nevent++
		default:
			return fmt.Errorf("aft: status variable '%s' has values other than 0 and 1",
				bj.varnames[bj.statuspos])
		}
		if time[i] <= 0 {
			return fmt.Errorf("aft: time variable '%s' must be positive",
				bj.varnames[bj.timepos])
		}
	}

	if nevent == 0 {
		return ErrNoEvents
	}

	return nil
}

func zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// refit regresses the working response on the covariates by least
// squares, including an intercept, and returns only the slope
// coefficients.
func (bj *BJReg) refit(y []float64, xcols [][]float64) ([]float64, error) {

	coeff, err := lm.Fit(y, xcols, true)
	if err != nil {
		return nil, fmt.Errorf("aft: %w", err)
	}

	return coeff[1:], nil
}

// Fit estimates the model parameters.  Reaching the iteration cap is
// not an error: the returned results report Converged() == false and
// hold the estimate from the last completed iteration.
func (bj *BJReg) Fit() (*BJResults, error) {

	n := bj.NumObs()
	time := bj.data[bj.timepos]
	status := bj.data[bj.statuspos]

	logtime := make([]float64, n)
	for i := range time {
		logtime[i] = math.Log(float64(time[i]))
	}

	xcols := make([][]float64, len(bj.xpos))
	for j, k := range bj.xpos {
		xcols[j] = bj.data[k]
	}

	// Starting values, treating every time as an event.
	coeff, err := bj.refit(logtime, xcols)
	if err != nil {
		return nil, err
	}

	xbeta := make([]float64, n)
	resid := make([]float64, n)
	pseudo := make([]float64, n)

	var converged bool
	var niter int

	for iter := 0; iter < bj.maxiter; iter++ {

		// The linear predictor under the current coefficients.
		// The intercept from the previous refit is not carried
		// into the linear predictor, only the slopes.
		zero(xbeta)
		for j := range xcols {
			for i := range xbeta {
				xbeta[i] += coeff[j] * xcols[j][i]
			}
		}
		for i := range resid {
			resid[i] = logtime[i] - xbeta[i]
		}

		// The marginal distribution of the residuals, with the
		// censoring pattern of the underlying times.
		sf := duration.NewSurvfuncRight(resid, status).Done()

		imputed := redistribute(resid, status, sf, bj.tol)

		// The working response: the observed log time where the
		// event was observed, the imputed log time where it was
		// censored.
		for i := range pseudo {
			if status[i] == 1 {
				pseudo[i] = logtime[i]
			} else {
				pseudo[i] = xbeta[i] + imputed[i]
			}
		}

		newcoeff, err := bj.refit(pseudo, xcols)
		if err != nil {
			return nil, err
		}

		de := floats.Distance(newcoeff, coeff, math.Inf(1))
		coeff = newcoeff
		niter = iter + 1

		if bj.log != nil {
			bj.log.Printf("Iteration %d: max coefficient change=%.8f\n", niter, de)
		}

		if de <= bj.tol {
			converged = true
			break
		}
	}

	var xna []string
	for _, k := range bj.xpos {
		xna = append(xna, bj.varnames[k])
	}

	results := &BJResults{
		model:     bj,
		params:    coeff,
		xnames:    xna,
		pseudo:    pseudo,
		niter:     niter,
		converged: converged,
	}

	return results, nil
}
