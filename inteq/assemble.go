package inteq

import (
	"errors"

	"github.com/notargets/gofredholm/linalg"
	"github.com/notargets/gofredholm/nodes"
	"github.com/notargets/gofredholm/utils"
)

// assembler is the projection scheme, chosen once per Solve
type assembler interface {
	system(f *Fredholm, cfg Config, ev *basisEval) (A utils.Matrix, b utils.Vector, err error)
	coefficients(s linalg.Solver, method linalg.Method, A utils.Matrix, b utils.Vector) (c utils.Vector, cond float64, err error)
	failedStage(err error) Stage
}

func newAssembler(method Method) (assembler, error) {
	switch method {
	case Collocation:
		return collocation{}, nil
	case Galerkin:
		return galerkin{}, nil
	}
	return nil, utils.InvalidArgf("unknown projection method %v", method)
}

type collocation struct{}

// system builds the NCollocation x NBasis matrix
//
//	A_ij = phi_j(x_i) - lambda Int K(x_i,t) phi_j(t) dt,  b_i = f(x_i)
func (collocation) system(f *Fredholm, cfg Config, ev *basisEval) (A utils.Matrix, b utils.Vector, err error) {
	var (
		X    []float64
		rule = cfg.rule()
		nb   = cfg.NBasis
	)
	if X, err = nodes.Generate(cfg.Nodes, cfg.NCollocation, cfg.A, cfg.B, f.src); err != nil {
		return A, b, errNodes{err}
	}
	A = utils.NewMatrix(len(X), nb)
	b = utils.NewVector(len(X))
	for i, xi := range X {
		Kx := f.Kernel.Slice(xi)
		for j := 0; j < nb; j++ {
			var integral float64
			if integral, err = rule.Integrate(Kx.Mul(ev.phi(j)), cfg.A, cfg.B, cfg.NIntegration); err != nil {
				return
			}
			A.Set(i, j, ev.eval(j, xi)-cfg.Lambda*integral)
		}
		b.SetAt(i, f.Free(xi))
	}
	err = ev.err
	return
}

// coefficients solves the normal equations A^T A c = A^T b through the inverse of the
// NBasis x NBasis Gram matrix; cond is the 2-norm condition number of that Gram matrix
func (collocation) coefficients(s linalg.Solver, method linalg.Method, A utils.Matrix, b utils.Vector) (c utils.Vector, cond float64, err error) {
	var (
		At   = A.Transpose()
		G    = At.Mul(A)
		Ginv utils.Matrix
	)
	if Ginv, err = s.Inverse(G, method); err != nil {
		return
	}
	c = Ginv.MulVec(At.MulVec(b))
	cond = G.ConditionNumberSVD()
	return
}

func (collocation) failedStage(err error) Stage {
	var en errNodes
	if errors.As(err, &en) {
		return StageNodes
	}
	return StageAssemble
}

type galerkin struct{}

// system builds the square NBasis system
//
//	A_ij = (phi_i, phi_j) - lambda (K phi_j, phi_i),  b_i = (f, phi_i)
func (galerkin) system(f *Fredholm, cfg Config, ev *basisEval) (A utils.Matrix, b utils.Vector, err error) {
	var (
		rule   = cfg.rule()
		nb     = cfg.NBasis
		n      = cfg.NIntegration
		lo, hi = cfg.A, cfg.B
	)
	A = utils.NewMatrix(nb, nb)
	b = utils.NewVector(nb)
	for i := 0; i < nb; i++ {
		phiI := ev.phi(i)
		for j := 0; j < nb; j++ {
			var (
				phiJ           = ev.phi(j)
				overlap, kTerm float64
			)
			if overlap, err = rule.Integrate(phiI.Mul(phiJ), lo, hi, n); err != nil {
				return
			}
			kTerm, err = rule.Integrate2D(func(x, t float64) float64 {
				return f.Kernel(x, t) * phiJ(t) * phiI(x)
			}, lo, hi, lo, hi, n, n)
			if err != nil {
				return
			}
			A.Set(i, j, overlap-cfg.Lambda*kTerm)
		}
		var bi float64
		if bi, err = rule.Integrate(f.Free.Mul(phiI), lo, hi, n); err != nil {
			return
		}
		b.SetAt(i, bi)
	}
	err = ev.err
	return
}

func (galerkin) coefficients(s linalg.Solver, method linalg.Method, A utils.Matrix, b utils.Vector) (c utils.Vector, cond float64, err error) {
	var (
		Ainv utils.Matrix
	)
	if Ainv, err = s.Inverse(A, method); err != nil {
		return
	}
	c = Ainv.MulVec(b)
	cond = A.ConditionNumberSVD()
	return
}

func (galerkin) failedStage(error) Stage { return StageAssemble }

// errNodes tags a node generation failure so Solve can report the stage
type errNodes struct{ err error }

func (e errNodes) Error() string { return e.err.Error() }
func (e errNodes) Unwrap() error { return e.err }
