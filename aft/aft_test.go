package aft

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kshedden/aftreg"
	"github.com/kshedden/aftreg/lm"
)

// simulate generates a cohort with log-normal event times following a
// linear model with the given slopes and an intercept of 1.  If cmax is
// positive, each observation is censored by an independent uniform
// (0, cmax) censoring time, otherwise every event is observed.
func simulate(n int, beta []float64, sigma, cmax float64, seed uint64) aftreg.Dataset {

	src := rand.NewSource(seed)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	p := len(beta)
	xcols := make([][]float64, p)
	for j := range xcols {
		xcols[j] = make([]float64, n)
	}
	tim := make([]float64, n)
	status := make([]float64, n)

	var unif distuv.Uniform
	if cmax > 0 {
		unif = distuv.Uniform{Min: 0, Max: cmax, Src: src}
	}

	for i := 0; i < n; i++ {
		lp := 1.0
		for j := range beta {
			xcols[j][i] = normal.Rand()
			lp += beta[j] * xcols[j][i]
		}
		t := math.Exp(lp + sigma*normal.Rand())

		tim[i] = t
		status[i] = 1

		if cmax > 0 {
			c := unif.Rand()
			if c < t {
				tim[i] = c
				status[i] = 0
			}
		}
	}

	data := [][]float64{tim, status}
	names := []string{"time", "status"}
	for j := range xcols {
		data = append(data, xcols[j])
		names = append(names, fmt.Sprintf("x%d", j+1))
	}

	return aftreg.NewDataset(data, names)
}

// With no censoring the fixed point is reached after a single refit and
// equals the least squares fit of the log times on the covariates.
func TestNoCensoring(t *testing.T) {

	data := simulate(100, []float64{1, -0.5}, 0.5, 0, 534234)

	model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if !result.Converged() {
		t.Error("fit did not converge")
	}
	if result.NumIter() != 1 {
		t.Errorf("NumIter=%d, expected 1", result.NumIter())
	}

	cols := data.Data()
	logtime := make([]float64, len(cols[0]))
	for i, v := range cols[0] {
		logtime[i] = math.Log(v)
	}

	coeff, err := lm.Fit(logtime, [][]float64{cols[2], cols[3]}, true)
	if err != nil {
		t.Fatal(err)
	}

	if !floats.EqualApprox(result.Params(), coeff[1:], 1e-10) {
		t.Errorf("params=%v, ols=%v", result.Params(), coeff[1:])
	}
}

// The working response at every uncensored index is exactly the
// observed log time.
func TestPseudoResponseUncensored(t *testing.T) {

	data := simulate(200, []float64{1, -0.5}, 0.5, 10, 96535)

	model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	cols := data.Data()
	pseudo := result.PseudoResponse()
	for i := range pseudo {
		if cols[1][i] == 1 && pseudo[i] != math.Log(cols[0][i]) {
			t.Errorf("observation %d: pseudo=%v, log time=%v",
				i, pseudo[i], math.Log(cols[0][i]))
		}
	}
}

func TestDeterminism(t *testing.T) {

	data := simulate(200, []float64{1, -0.5}, 0.5, 10, 36217)

	var params, pseudo [2][]float64
	for k := 0; k < 2; k++ {

		model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
		if err != nil {
			t.Fatal(err)
		}

		result, err := model.Fit()
		if err != nil {
			t.Fatal(err)
		}

		params[k] = result.Params()
		pseudo[k] = result.PseudoResponse()
	}

	for j := range params[0] {
		if params[0][j] != params[1][j] {
			t.Errorf("parameter %d differs between identical fits", j)
		}
	}
	for i := range pseudo[0] {
		if pseudo[0][i] != pseudo[1][i] {
			t.Errorf("pseudo response %d differs between identical fits", i)
		}
	}
}

func TestNotConverged(t *testing.T) {

	data := simulate(200, []float64{1, -0.5}, 0.5, 10, 88231)

	config := &BJRegConfig{
		Tolerance: 1e-12,
		MaxIter:   1,
	}

	model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, config)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if result.Converged() {
		t.Error("fit should not converge with a single iteration")
	}
	if result.NumIter() != 1 {
		t.Errorf("NumIter=%d, expected 1", result.NumIter())
	}

	for _, v := range result.Params() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("parameter is not finite: %v", result.Params())
		}
	}
}

// With a moderately censored cohort the estimator converges well within
// the iteration cap and recovers the simulation slopes.
func TestRecovery(t *testing.T) {

	truth := []float64{1, -0.5}
	data := simulate(500, truth, 0.5, 10, 4523745)

	// The simulated censoring pattern should be nondegenerate.
	cols := data.Data()
	var nevent int
	for _, s := range cols[1] {
		nevent += int(s)
	}
	if nevent == len(cols[1]) || nevent < len(cols[1])/3 {
		t.Fatalf("unexpected censoring pattern, %d events out of %d",
			nevent, len(cols[1]))
	}

	model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if !result.Converged() {
		t.Error("fit did not converge")
	}
	if result.NumIter() >= 100 {
		t.Errorf("NumIter=%d", result.NumIter())
	}

	if floats.Distance(result.Params(), truth, math.Inf(1)) > 0.3 {
		t.Errorf("params=%v, truth=%v", result.Params(), truth)
	}
}

func TestInputErrors(t *testing.T) {

	// No events
	data := aftreg.NewDataset(
		[][]float64{{1, 2, 3, 4, 5}, {0, 0, 0, 0, 0}, {1, 0, 2, 1, 3}},
		[]string{"time", "status", "x1"})
	_, err := NewBJReg(data, "time", "status", []string{"x1"}, nil)
	if !errors.Is(err, ErrNoEvents) {
		t.Errorf("expected ErrNoEvents, got %v", err)
	}

	// Too few observations
	data = aftreg.NewDataset(
		[][]float64{{1, 2}, {1, 1}, {1, 0}, {0, 1}},
		[]string{"time", "status", "x1", "x2"})
	_, err = NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
	if !errors.Is(err, ErrTooFewObs) {
		t.Errorf("expected ErrTooFewObs, got %v", err)
	}

	// Empty dataset
	data = aftreg.NewDataset(
		[][]float64{{}, {}, {}},
		[]string{"time", "status", "x1"})
	_, err = NewBJReg(data, "time", "status", []string{"x1"}, nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}

	// Status values outside {0, 1}
	data = aftreg.NewDataset(
		[][]float64{{1, 2, 3}, {1, 2, 0}, {1, 0, 2}},
		[]string{"time", "status", "x1"})
	if _, err = NewBJReg(data, "time", "status", []string{"x1"}, nil); err == nil {
		t.Error("expected an error for a status value outside {0, 1}")
	}

	// Nonpositive times
	data = aftreg.NewDataset(
		[][]float64{{1, 0, 3}, {1, 1, 0}, {1, 0, 2}},
		[]string{"time", "status", "x1"})
	if _, err = NewBJReg(data, "time", "status", []string{"x1"}, nil); err == nil {
		t.Error("expected an error for a nonpositive time")
	}

	// Unknown variable names
	data = aftreg.NewDataset(
		[][]float64{{1, 2, 3}, {1, 1, 0}, {1, 0, 2}},
		[]string{"time", "status", "x1"})
	if _, err = NewBJReg(data, "time", "status", []string{"x9"}, nil); err == nil {
		t.Error("expected an error for an unknown predictor")
	}
}

// A single event is enough to anchor the residual distribution.
func TestOneEvent(t *testing.T) {

	data := aftreg.NewDataset(
		[][]float64{
			{1, 2, 3, 4, 5, 6},
			{0, 0, 0, 1, 0, 0},
			{0.5, -1, 2, 0, 1, -2},
		},
		[]string{"time", "status", "x1"})

	model, err := NewBJReg(data, "time", "status", []string{"x1"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range result.Params() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("parameter is not finite: %v", result.Params())
		}
	}
	for _, v := range result.PseudoResponse() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("pseudo response is not finite: %v", result.PseudoResponse())
		}
	}
}

func TestSummary(t *testing.T) {

	data := simulate(100, []float64{1, -0.5}, 0.5, 10, 7523)

	model, err := NewBJReg(data, "time", "status", []string{"x1", "x2"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := model.Fit()
	if err != nil {
		t.Fatal(err)
	}

	s := result.Summary()
	for _, frag := range []string{"Buckley-James", "x1", "x2", "Coefficient"} {
		if !strings.Contains(s, frag) {
			t.Errorf("summary is missing '%s':\n%s", frag, s)
		}
	}
}
