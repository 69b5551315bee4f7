// Package fit performs the offset-Gaussian least-squares fit of the width
// histogram. The model is
//
//	f(x) = d + a·exp(−(x−b)² / (2c²))
//
// solved by Levenberg–Marquardt from a fixed seed; there is no fallback
// seed, a fit that cannot converge aborts the run.
package fit

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"
)

const nParams = 4

// Result holds the optimized parameters and their standard errors, in the
// order amplitude, center, width, offset.
type Result struct {
	Amp    float64
	Center float64
	Width  float64
	Offset float64
	Stderr [nParams]float64
}

// Params returns the parameters in seed order.
func (r Result) Params() [nParams]float64 {
	return [nParams]float64{r.Amp, r.Center, r.Width, r.Offset}
}

// Eval evaluates the fitted model at x.
func (r Result) Eval(x float64) float64 {
	return gaussian(r.Params(), x)
}

// Curve samples the fitted model on n evenly spaced points over [x0, x1],
// the shape drawn as the dashed overlay in the figure.
func (r Result) Curve(x0, x1 float64, n int) ([]float64, []float64) {
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	step := (x1 - x0) / float64(n-1)
	for i := range xs {
		xs[i] = x0 + step*float64(i)
		ys[i] = r.Eval(xs[i])
	}
	return xs, ys
}

func gaussian(p [nParams]float64, x float64) float64 {
	return p[3] + p[0]*math.Exp(-(x-p[1])*(x-p[1])/(2*p[2]*p[2]))
}

// Gaussian fits the model to the (x, y) points starting from seed. x and y
// must be the same length and at least 5 points long (one more than the
// parameter count, so the residual variance is defined).
func Gaussian(x, y []float64, seed [nParams]float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("fit: x has %d points, y has %d", len(x), len(y))
	}
	if len(x) <= nParams {
		return Result{}, fmt.Errorf("fit: need more than %d points, got %d", nParams, len(x))
	}

	f := func(dst, guess []float64) {
		p := [nParams]float64{guess[0], guess[1], guess[2], guess[3]}
		for i := range x {
			dst[i] = gaussian(p, x[i]) - y[i]
		}
	}

	jacobian := lm.NumJac{Func: f}

	problem := lm.LMProblem{
		Dim:        nParams,
		Size:       len(x),
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: []float64{seed[0], seed[1], seed[2], seed[3]},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return Result{}, fmt.Errorf("fit: optimizer failed from seed %v: %w", seed, err)
	}
	for _, v := range results.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("fit: non-finite parameters %v from seed %v", results.X, seed)
		}
	}

	p := [nParams]float64{results.X[0], results.X[1], results.X[2], results.X[3]}
	stderr, err := standardErrors(x, y, p)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Amp:    p[0],
		Center: p[1],
		Width:  p[2],
		Offset: p[3],
		Stderr: stderr,
	}, nil
}

// standardErrors computes sqrt(diag(σ²·(JᵀJ)⁻¹)) with a forward-difference
// Jacobian at the solution, σ² being the residual variance.
func standardErrors(x, y []float64, p [nParams]float64) ([nParams]float64, error) {
	var errs [nParams]float64

	n := len(x)
	rss := 0.0
	for i := range x {
		r := gaussian(p, x[i]) - y[i]
		rss += r * r
	}
	sigma2 := rss / float64(n-nParams)

	jac := mat.NewDense(n, nParams, nil)
	for j := 0; j < nParams; j++ {
		h := 1e-6 * math.Max(math.Abs(p[j]), 1)
		bumped := p
		bumped[j] += h
		for i := range x {
			jac.Set(i, j, (gaussian(bumped, x[i])-gaussian(p, x[i]))/h)
		}
	}

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var cov mat.Dense
	if err := cov.Inverse(&jtj); err != nil {
		return errs, fmt.Errorf("fit: covariance is singular: %w", err)
	}

	for j := 0; j < nParams; j++ {
		v := sigma2 * cov.At(j, j)
		if v < 0 {
			v = 0
		}
		errs[j] = math.Sqrt(v)
	}
	return errs, nil
}
