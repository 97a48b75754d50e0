package function

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/notargets/gofredholm/utils"
)

// DefiniteIntegral is Int_a^b f dx by n-point Gauss-Legendre. Reversed limits flip the sign.
func (f Func1D) DefiniteIntegral(a, b float64, n int) (v float64, err error) {
	if n < 1 {
		return 0, utils.InvalidArgf("integral needs a positive point count, have %d", n)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return 0, utils.InvalidArgf("integral limits must be finite, have [%g,%g]", a, b)
	}
	switch {
	case a == b:
		return 0, nil
	case a > b:
		return -quad.Fixed(f, b, a, n, nil, 0), nil
	}
	return quad.Fixed(f, a, b, n, nil, 0), nil
}

// Integral is the antiderivative F(x) = Int_c^x f dt, each evaluation an n-point rule
func (f Func1D) Integral(c float64, n int) (F Func1D, err error) {
	if n < 1 {
		return nil, utils.InvalidArgf("integral needs a positive point count, have %d", n)
	}
	F = func(x float64) float64 {
		v, err := f.DefiniteIntegral(c, x, n)
		if err != nil {
			return math.NaN()
		}
		return v
	}
	return
}

// NormL2 is sqrt(Int_a^b f^2 dx)
func (f Func1D) NormL2(a, b float64, n int) (float64, error) {
	if b <= a {
		return 0, utils.InvalidArgf("norm needs a < b, have [%g,%g]", a, b)
	}
	sq, err := f.Mul(f).DefiniteIntegral(a, b, n)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(sq), nil
}

func (f Func1D) samples(a, b float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, utils.InvalidArgf("sampling needs at least 2 points, have %d", n)
	}
	if !(b > a) {
		return nil, utils.InvalidArgf("sampling needs a < b, have [%g,%g]", a, b)
	}
	return f.Sample(utils.Linspace(a, b, n)), nil
}

// Maximum is the largest of n equally spaced samples on [a,b]
func (f Func1D) Maximum(a, b float64, n int) (m float64, err error) {
	var Y []float64
	if Y, err = f.samples(a, b, n); err != nil {
		return
	}
	m = math.Inf(-1)
	for _, y := range Y {
		m = math.Max(m, y)
	}
	return
}

// Minimum is the smallest of n equally spaced samples on [a,b]
func (f Func1D) Minimum(a, b float64, n int) (m float64, err error) {
	var Y []float64
	if Y, err = f.samples(a, b, n); err != nil {
		return
	}
	m = math.Inf(1)
	for _, y := range Y {
		m = math.Min(m, y)
	}
	return
}

// Root bisects [a,b] for a zero of f until the bracket shrinks to tol or maxIter halvings.
// f(a) and f(b) must differ in sign.
func (f Func1D) Root(a, b, tol float64, maxIter int) (x float64, err error) {
	if !(b > a) || tol <= 0 || maxIter < 1 {
		return 0, utils.InvalidArgf("root needs a < b, tol > 0 and maxIter > 0, have [%g,%g] tol=%g maxIter=%d",
			a, b, tol, maxIter)
	}
	fa, fb := f(a), f(b)
	switch {
	case fa == 0:
		return a, nil
	case fb == 0:
		return b, nil
	case math.Signbit(fa) == math.Signbit(fb):
		return 0, utils.InvalidArgf("f does not change sign on [%g,%g]", a, b)
	}
	lo, hi := a, b
	for i := 0; i < maxIter && !utils.NearlyEqual(lo, hi, tol); i++ {
		x = 0.5 * (lo + hi)
		fx := f(x)
		if fx == 0 {
			return x, nil
		}
		if math.Signbit(fx) == math.Signbit(fa) {
			lo, fa = x, fx
		} else {
			hi = x
		}
	}
	return 0.5 * (lo + hi), nil
}

// HasRoot reports whether any of n equally spaced samples is zero or two neighbors differ in sign
func (f Func1D) HasRoot(a, b float64, n int) bool {
	Y, err := f.samples(a, b, n)
	if err != nil {
		return false
	}
	for i, y := range Y {
		if y == 0 {
			return true
		}
		if i > 0 && math.Signbit(y) != math.Signbit(Y[i-1]) {
			return true
		}
	}
	return false
}

// IsContinuous samples f at n and 2n-1 points; f is taken as continuous when every sample is
// finite and the largest jump between neighbors shrinks with the spacing
func (f Func1D) IsContinuous(a, b float64, n int) bool {
	coarse, err := f.samples(a, b, n)
	if err != nil {
		return false
	}
	fine, _ := f.samples(a, b, 2*n-1)
	if !utils.IsFinite(coarse) || !utils.IsFinite(fine) {
		return false
	}
	jc, jf := maxJump(coarse), maxJump(fine)
	if utils.NearlyEqual(jf, 0, 1e-12) {
		return true
	}
	return jf < 0.75*jc
}

func maxJump(Y []float64) (j float64) {
	for i := 1; i < len(Y); i++ {
		j = math.Max(j, math.Abs(Y[i]-Y[i-1]))
	}
	return
}

// IsMonotonic reports whether n equally spaced samples never both rise and fall
func (f Func1D) IsMonotonic(a, b float64, n int) bool {
	Y, err := f.samples(a, b, n)
	if err != nil {
		return false
	}
	var rises, falls bool
	for i := 1; i < len(Y); i++ {
		switch d := Y[i] - Y[i-1]; {
		case d > 0:
			rises = true
		case d < 0:
			falls = true
		}
		if rises && falls {
			return false
		}
	}
	return true
}
