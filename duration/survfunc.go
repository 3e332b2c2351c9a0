// Package duration supports statistical analysis of duration data
// (survival analysis) subject to right censoring.
package duration

import (
	"math"
	"sort"
)

// SurvfuncRight uses the method of Kaplan and Meier to estimate the
// survival distribution based on (possibly) right censored data.  A
// value is created with NewSurvfuncRight, optionally configured, and
// estimated by calling the Done method.  The time values may be any
// float64 values, not necessarily positive, so the estimator can be
// applied to residuals as well as to event times.
type SurvfuncRight struct {

	// The event or censoring time for each observation.
	time []float64

	// The status indicator for each observation, which is 1 if the
	// event occurred at the corresponding time and 0 if the time is
	// a censoring time.
	status []float64

	// Case weights, optional.
	weight []float64

	// Times at which events occur, sorted.
	times []float64

	// Number of events at each time in times.
	nEvents []float64

	// Number of observations at risk just before each time in times.
	nRisk []float64

	// The estimated survival function evaluated at each time in times.
	survProb []float64

	// The standard errors for the estimates in survProb.
	survProbSE []float64

	events map[float64]float64
	total  map[float64]float64
}

// NewSurvfuncRight creates a new value for fitting a survival function
// from the given times and status indicators, which must have the same
// length.
func NewSurvfuncRight(time, status []float64) *SurvfuncRight {

	if len(time) != len(status) {
		panic("duration: time and status must have the same length")
	}

	return &SurvfuncRight{
		time:   time,
		status: status,
	}
}

// Weight specifies case weights, one per observation.
func (sf *SurvfuncRight) Weight(weight []float64) *SurvfuncRight {

	if len(weight) != len(sf.time) {
		panic("duration: weight must have the same length as time")
	}
	sf.weight = weight
	return sf
}

// Time returns the times at which the survival function changes.
func (sf *SurvfuncRight) Time() []float64 {
	return sf.times
}

// NumRisk returns the number of observations at risk at each time point
// where the survival function changes.
func (sf *SurvfuncRight) NumRisk() []float64 {
	return sf.nRisk
}

// SurvProb returns the estimated survival probabilities at the points
// where the survival function changes.
func (sf *SurvfuncRight) SurvProb() []float64 {
	return sf.survProb
}

// SurvProbSE returns the standard errors of the estimated survival
// probabilities at the points where the survival function changes.
func (sf *SurvfuncRight) SurvProbSE() []float64 {
	return sf.survProbSE
}

// SurvProbAt returns the estimated probability of surviving beyond time
// t.  The estimated survival function is right continuous: it is 1
// before the first jump and holds its last value beyond the largest
// observed time.
func (sf *SurvfuncRight) SurvProbAt(t float64) float64 {

	i := sort.SearchFloat64s(sf.times, t)
	if i < len(sf.times) && sf.times[i] == t {
		return sf.survProb[i]
	}
	if i == 0 {
		return 1
	}
	return sf.survProb[i-1]
}

func (sf *SurvfuncRight) scanData() {

	sf.events = make(map[float64]float64)
	sf.total = make(map[float64]float64)

	for i, t := range sf.time {

		w := float64(1)
		if sf.weight != nil {
			w = sf.weight[i]
		}

		if sf.status[i] == 1 {
			sf.events[t] += w
		}
		sf.total[t] += w
	}
}

func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

func (sf *SurvfuncRight) eventstats() {

	// Get the sorted distinct times (event or censoring)
	sf.times = make([]float64, len(sf.total))
	var i int
	for t := range sf.total {
		sf.times[i] = t
		i++
	}
	sort.Float64s(sf.times)

	// Get the weighted event count and risk set size at each time
	// point (in the same order as times).
	sf.nEvents = make([]float64, len(sf.times))
	sf.nRisk = make([]float64, len(sf.times))
	for i, t := range sf.times {
		sf.nEvents[i] = sf.events[t]
		sf.nRisk[i] = sf.total[t]
	}
	rollback(sf.nRisk)
}

// compress removes times where no events occurred.
func (sf *SurvfuncRight) compress() {

	var ix []int
	for i := 0; i < len(sf.times); i++ {
		// Only retain events, except for the last point,
		// which is retained even if there are no events.
		if sf.nEvents[i] > 0 || i == len(sf.times)-1 {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(sf.times) {
		for i, j := range ix {
			sf.times[i] = sf.times[j]
			sf.nEvents[i] = sf.nEvents[j]
			sf.nRisk[i] = sf.nRisk[j]
		}
		sf.times = sf.times[0:len(ix)]
		sf.nEvents = sf.nEvents[0:len(ix)]
		sf.nRisk = sf.nRisk[0:len(ix)]
	}
}

func (sf *SurvfuncRight) fit() {

	sf.survProb = make([]float64, len(sf.times))
	x := float64(1)
	for i := range sf.times {
		x *= 1 - sf.nEvents[i]/sf.nRisk[i]
		sf.survProb[i] = x
	}

	sf.survProbSE = make([]float64, len(sf.times))
	x = 0
	if sf.weight == nil {
		for i := range sf.times {
			d := sf.nEvents[i]
			n := sf.nRisk[i]
			x += d / (n * (n - d))
			sf.survProbSE[i] = math.Sqrt(x) * sf.survProb[i]
		}
	} else {
		for i := range sf.times {
			d := sf.nEvents[i]
			n := sf.nRisk[i]
			x += d / (n * n)
			sf.survProbSE[i] = math.Sqrt(x)
		}
	}
}

// Done indicates that the survival function has been configured and can
// now be fit.
func (sf *SurvfuncRight) Done() *SurvfuncRight {
	sf.scanData()
	sf.eventstats()
	sf.compress()
	sf.fit()
	return sf
}
