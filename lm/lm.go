// Package lm fits linear models to data using ordinary least squares.
package lm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Fit computes the least squares regression of y on the given
// covariates, which are stored column-wise in x.  If intercept is true,
// an intercept is included in the model and returned as the first
// coefficient, followed by the slopes in the order that the covariates
// were supplied.  The number of observations may be as small as the
// number of coefficients being estimated, in which case the fit
// interpolates the data.  An error is returned if the design matrix is
// rank deficient.
func Fit(y []float64, x [][]float64, intercept bool) ([]float64, error) {

	n := len(y)

	for j := range x {
		if len(x[j]) != n {
			return nil, fmt.Errorf("lm: covariate %d has length %d, expected %d",
				j, len(x[j]), n)
		}
	}

	xcols := x
	if intercept {
		icept := make([]float64, n)
		for i := range icept {
			icept[i] = 1
		}
		xcols = append([][]float64{icept}, x...)
	}

	nvar := len(xcols)
	if n < nvar {
		return nil, fmt.Errorf("lm: %d observations are too few to estimate %d coefficients",
			n, nvar)
	}

	// Form the moment matrices x'x and x'y.
	xtx := make([]float64, nvar*nvar)
	xty := make([]float64, nvar)
	for j1 := 0; j1 < nvar; j1++ {
		var u float64
		for i := range y {
			u += xcols[j1][i] * y[i]
		}
		xty[j1] = u
		for j2 := 0; j2 <= j1; j2++ {
			var v float64
			for i := range y {
				v += xcols[j1][i] * xcols[j2][i]
			}
			xtx[j1*nvar+j2] = v
			xtx[j2*nvar+j1] = v
		}
	}

	var beta mat.VecDense
	err := beta.SolveVec(mat.NewDense(nvar, nvar, xtx), mat.NewVecDense(nvar, xty))
	if err != nil {
		return nil, fmt.Errorf("lm: singular design matrix: %w", err)
	}

	coeff := make([]float64, nvar)
	copy(coeff, beta.RawVector().Data)

	return coeff, nil
}
