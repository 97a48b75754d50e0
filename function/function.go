// Package function holds the scalar callables the solver consumes and produces:
// one-argument functions u(x), f(x) and two-argument kernels K(x,t).
package function

import (
	"math"
)

type Func1D func(x float64) float64

type Func2D func(x, t float64) float64

// Slice fixes the first argument of a kernel, returning t -> K(x,t)
func (K Func2D) Slice(x float64) Func1D {
	return func(t float64) float64 { return K(x, t) }
}

func (f Func1D) Add(g Func1D) Func1D { return func(x float64) float64 { return f(x) + g(x) } }
func (f Func1D) Sub(g Func1D) Func1D { return func(x float64) float64 { return f(x) - g(x) } }
func (f Func1D) Mul(g Func1D) Func1D { return func(x float64) float64 { return f(x) * g(x) } }
func (f Func1D) Div(g Func1D) Func1D { return func(x float64) float64 { return f(x) / g(x) } }

func (f Func1D) Scale(a float64) Func1D  { return func(x float64) float64 { return a * f(x) } }
func (f Func1D) Shift(a float64) Func1D  { return func(x float64) float64 { return f(x) + a } }
func (f Func1D) Compose(g Func1D) Func1D { return func(x float64) float64 { return f(g(x)) } }

// Derivative is the central difference (f(x+h)-f(x-h))/2h, h defaults to 1e-6
func (f Func1D) Derivative(hO ...float64) Func1D {
	h := 1e-6
	if len(hO) != 0 {
		h = hO[0]
	}
	return func(x float64) float64 {
		return (f(x+h) - f(x-h)) / (2 * h)
	}
}

// Sample evaluates f at each x
func (f Func1D) Sample(X []float64) (Y []float64) {
	Y = make([]float64, len(X))
	for i, x := range X {
		Y[i] = f(x)
	}
	return
}

// MaxAbsDiff samples both functions on the points in X and returns the largest |f-g|
func MaxAbsDiff(f, g Func1D, X []float64) (d float64) {
	for _, x := range X {
		d = math.Max(d, math.Abs(f(x)-g(x)))
	}
	return
}

func Constant(c float64) Func1D { return func(float64) float64 { return c } }

func Linear(intercept, slope float64) Func1D {
	return func(x float64) float64 { return intercept + slope*x }
}

// Polynomial evaluates sum coeffs[i] x^i by Horner's rule
func Polynomial(coeffs ...float64) Func1D {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return func(x float64) (y float64) {
		for i := len(c) - 1; i >= 0; i-- {
			y = y*x + c[i]
		}
		return
	}
}

// Exponential is base^x, base defaults to e
func Exponential(baseO ...float64) Func1D {
	if len(baseO) == 0 || baseO[0] == math.E {
		return math.Exp
	}
	lb := math.Log(baseO[0])
	return func(x float64) float64 { return math.Exp(x * lb) }
}

// Logarithmic is log_base(x), base defaults to e. It is NaN for x < 0.
func Logarithmic(baseO ...float64) Func1D {
	if len(baseO) == 0 || baseO[0] == math.E {
		return math.Log
	}
	lb := math.Log(baseO[0])
	return func(x float64) float64 { return math.Log(x) / lb }
}

func Sin() Func1D { return math.Sin }
func Cos() Func1D { return math.Cos }
func Tan() Func1D { return math.Tan }

// Separable builds K(x,t) = g(x) h(t)
func Separable(g, h Func1D) Func2D {
	return func(x, t float64) float64 { return g(x) * h(t) }
}
