package inteq

import (
	"github.com/notargets/gofredholm/basis"
	"github.com/notargets/gofredholm/utils"
)

// Solution is u(x) = sum_j c_j phi_j(x) over [a,b]. It owns a copy of the coefficients.
type Solution struct {
	coeffs utils.Vector
	basis  basis.Basis
	method Method
	lambda float64
	a, b   float64
	cond   float64
}

// Point is one sample of a solution
type Point struct {
	X float64 `json:"x"`
	U float64 `json:"u"`
}

func newSolution(c utils.Vector, B basis.Basis, cfg Config) *Solution {
	return &Solution{
		coeffs: c.Copy(),
		basis:  B,
		method: cfg.Method,
		lambda: cfg.Lambda,
		a:      cfg.A,
		b:      cfg.B,
	}
}

func (sol *Solution) Eval(x float64) (u float64, err error) {
	var phi float64
	for j, cj := range sol.coeffs.Data() {
		if phi, err = sol.basis.Eval(j, x); err != nil {
			return 0, err
		}
		u += cj * phi
	}
	return
}

// At is Eval for callers that know x is inside the basis domain; it panics otherwise
func (sol *Solution) At(x float64) float64 {
	u, err := sol.Eval(x)
	if err != nil {
		panic(err)
	}
	return u
}

// Sample evaluates u at n equally spaced points spanning [a,b]
func (sol *Solution) Sample(n int) (P []Point, err error) {
	if n <= 0 {
		return nil, utils.InvalidArgf("sample count must be positive, have %d", n)
	}
	X := utils.Linspace(sol.a, sol.b, n)
	P = make([]Point, n)
	for i, x := range X {
		P[i].X = x
		if P[i].U, err = sol.Eval(x); err != nil {
			return nil, err
		}
	}
	return
}

func (sol *Solution) Coefficients() []float64 {
	return sol.coeffs.Copy().Data()
}

func (sol *Solution) Domain() (a, b float64) { return sol.a, sol.b }

func (sol *Solution) Method() Method { return sol.method }

// Condition is the 2-norm condition number of the matrix inverted to close the system,
// +Inf when it is numerically singular
func (sol *Solution) Condition() float64 { return sol.cond }

func (sol *Solution) Basis() basis.Basis { return sol.basis }
