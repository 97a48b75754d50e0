// Package quadrature evaluates definite integrals of scalar functions over finite
// intervals with fixed-node composite rules. Composite Simpson is the rule used by the
// equation solver; the trapezoid rule is kept for comparison runs.
package quadrature

import (
	"fmt"
	"strings"

	"github.com/notargets/gofredholm/function"
	"github.com/notargets/gofredholm/utils"
)

type Rule interface {
	Integrate(f function.Func1D, a, b float64, n int) (float64, error)
	Integrate2D(f function.Func2D, a1, b1, a2, b2 float64, n1, n2 int) (float64, error)
	Name() string
}

// weighter supplies the unscaled node weights of a composite rule and the
// factor each weight is multiplied by for a segment width h
type weighter interface {
	Weights(n int) (nSeg int, w []float64, err error)
	scale(h float64) float64
}

type Simpson struct{}

type Trapezoid struct{}

var (
	_ Rule = Simpson{}
	_ Rule = Trapezoid{}
)

func NewRule(name string) (r Rule, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simpson":
		r = Simpson{}
	case "trapezoid", "trapezoidal":
		r = Trapezoid{}
	default:
		err = utils.InvalidArgf("unknown quadrature rule %q", name)
	}
	return
}

// Integrate applies composite Simpson with n segments (rounded up to even)
func Integrate(f function.Func1D, a, b float64, n int) (float64, error) {
	return Simpson{}.Integrate(f, a, b, n)
}

func Integrate2D(f function.Func2D, a1, b1, a2, b2 float64, n1, n2 int) (float64, error) {
	return Simpson{}.Integrate2D(f, a1, b1, a2, b2, n1, n2)
}

func (Simpson) Name() string   { return "simpson" }
func (Trapezoid) Name() string { return "trapezoid" }

// Weights returns the segment count actually used and the n+1 weights 1,4,2,...,2,4,1
func (Simpson) Weights(n int) (nSeg int, w []float64, err error) {
	if n <= 0 {
		err = utils.InvalidArgf("segment count must be positive, have %d", n)
		return
	}
	if n%2 == 1 {
		n++
	}
	nSeg = n
	w = make([]float64, n+1)
	w[0], w[n] = 1, 1
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			w[i] = 4
		} else {
			w[i] = 2
		}
	}
	return
}

func (Simpson) scale(h float64) float64 { return h / 3 }

// Weights returns the n+1 weights 1/2,1,...,1,1/2
func (Trapezoid) Weights(n int) (nSeg int, w []float64, err error) {
	if n <= 0 {
		err = utils.InvalidArgf("segment count must be positive, have %d", n)
		return
	}
	nSeg = n
	w = utils.ConstArray(n+1, 1)
	w[0], w[n] = 0.5, 0.5
	return
}

func (Trapezoid) scale(h float64) float64 { return h }

func (r Simpson) Integrate(f function.Func1D, a, b float64, n int) (float64, error) {
	return integrate(r, f, a, b, n)
}

func (r Simpson) Integrate2D(f function.Func2D, a1, b1, a2, b2 float64, n1, n2 int) (float64, error) {
	return integrate2D(r, f, a1, b1, a2, b2, n1, n2)
}

func (r Trapezoid) Integrate(f function.Func1D, a, b float64, n int) (float64, error) {
	return integrate(r, f, a, b, n)
}

func (r Trapezoid) Integrate2D(f function.Func2D, a1, b1, a2, b2 float64, n1, n2 int) (float64, error) {
	return integrate2D(r, f, a1, b1, a2, b2, n1, n2)
}

func integrate(r weighter, f function.Func1D, a, b float64, n int) (sum float64, err error) {
	var (
		w []float64
	)
	if n, w, err = r.Weights(n); err != nil {
		return 0, utils.Errorf("Integrate", err)
	}
	h := (b - a) / float64(n)
	for i, wi := range w {
		sum += wi * f(a+float64(i)*h)
	}
	sum *= r.scale(h)
	return
}

func integrate2D(r weighter, f function.Func2D, a1, b1, a2, b2 float64, n1, n2 int) (sum float64, err error) {
	var (
		w1, w2 []float64
	)
	if n1, w1, err = r.Weights(n1); err != nil {
		return 0, utils.Errorf("Integrate2D", fmt.Errorf("first axis: %w", err))
	}
	if n2, w2, err = r.Weights(n2); err != nil {
		return 0, utils.Errorf("Integrate2D", fmt.Errorf("second axis: %w", err))
	}
	h1 := (b1 - a1) / float64(n1)
	h2 := (b2 - a2) / float64(n2)
	for i, wi := range w1 {
		x := a1 + float64(i)*h1
		for j, wj := range w2 {
			sum += wi * wj * f(x, a2+float64(j)*h2)
		}
	}
	sum *= r.scale(h1) * r.scale(h2)
	return
}
