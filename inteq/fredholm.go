// Package inteq assembles and solves Fredholm integral equations of the second kind,
//
//	u(x) = f(x) + lambda * Int_a^b K(x,t) u(t) dt
//
// by projecting u onto a finite basis, either by collocation at a node set or by
// Galerkin inner products, and closing the resulting dense system with linalg.
package inteq

import (
	"fmt"

	"github.com/notargets/gofredholm/basis"
	"github.com/notargets/gofredholm/function"
	"github.com/notargets/gofredholm/linalg"
	"github.com/notargets/gofredholm/nodes"
	"github.com/notargets/gofredholm/quadrature"
	"github.com/notargets/gofredholm/utils"
)

type State uint8

const (
	Idle State = iota
	Assembling
	Solved
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Assembling:
		return "assembling"
	case Solved:
		return "solved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ResidualSegments is the quadrature resolution used by Residual
const ResidualSegments = 100

// Fredholm holds one equation. It is not safe for concurrent use; build one per goroutine.
type Fredholm struct {
	Kernel function.Func2D
	Free   function.Func1D
	src    *nodes.Source
	solver linalg.Solver
	state  State
}

type Option func(*Fredholm)

// WithSource supplies the generator used by the Random node strategy
func WithSource(src *nodes.Source) Option {
	return func(f *Fredholm) { f.src = src }
}

func WithLinearSolver(s linalg.Solver) Option {
	return func(f *Fredholm) { f.solver = s }
}

func NewFredholm(kernel function.Func2D, free function.Func1D, opts ...Option) (f *Fredholm) {
	f = &Fredholm{
		Kernel: kernel,
		Free:   free,
		solver: linalg.NewSolver(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.src == nil {
		f.src = nodes.NewSource()
	}
	return
}

func (f *Fredholm) State() State { return f.state }

// Solve discretizes the equation per cfg and returns the projected solution
func (f *Fredholm) Solve(cfg Config) (sol *Solution, err error) {
	var (
		B    basis.Basis
		asm  assembler
		A    utils.Matrix
		b    utils.Vector
		c    utils.Vector
		cond float64
	)
	fail := func(stage Stage, err error) (*Solution, error) {
		f.state = Failed
		return nil, &SolveError{Method: cfg.Method, Stage: stage, Err: err}
	}
	if f.Kernel == nil || f.Free == nil {
		return fail(StageValidate, utils.InvalidArgf("kernel and free term are required"))
	}
	if err = cfg.Validate(); err != nil {
		return fail(StageValidate, err)
	}
	if asm, err = newAssembler(cfg.Method); err != nil {
		return fail(StageValidate, err)
	}
	f.state = Assembling
	if B, err = basis.New(cfg.Basis, cfg.A, cfg.B); err != nil {
		return fail(StageBasis, err)
	}
	ev := &basisEval{B: B}
	if A, b, err = asm.system(f, cfg, ev); err != nil {
		return fail(asm.failedStage(err), err)
	}
	if !utils.IsFinite(A) || !utils.IsFinite(b) {
		return fail(StageAssemble, utils.InvalidArgf("kernel or free term is not finite on [%g,%g]", cfg.A, cfg.B))
	}
	if c, cond, err = asm.coefficients(f.solver, cfg.Decomposition, A, b); err != nil {
		return fail(StageSolve, err)
	}
	if !utils.IsFinite(c) {
		return fail(StageSolve, fmt.Errorf("%w: coefficients are not finite", utils.ErrSingular))
	}
	f.state = Solved
	sol = newSolution(c, B, cfg)
	sol.cond = cond
	return
}

// Residual is the largest |u - f - lambda Int K u| over nPoints equally spaced points
func (f *Fredholm) Residual(sol *Solution, nPoints int) (res float64, err error) {
	if sol == nil {
		return 0, &SolveError{Stage: StageResidual, Err: utils.InvalidArgf("residual needs a solution")}
	}
	fail := func(err error) (float64, error) {
		return 0, &SolveError{Method: sol.method, Stage: StageResidual, Err: err}
	}
	if nPoints <= 0 {
		return fail(utils.InvalidArgf("residual needs a positive point count, have %d", nPoints))
	}
	var (
		ev  = &basisEval{B: sol.basis}
		u   = ev.combination(sol.coeffs.Data())
		X   = utils.Linspace(sol.a, sol.b, nPoints)
		rhs float64
	)
	for _, x := range X {
		integrand := f.Kernel.Slice(x).Mul(u)
		if rhs, err = quadrature.Integrate(integrand, sol.a, sol.b, ResidualSegments); err != nil {
			return fail(err)
		}
		r := u(x) - f.Free(x) - sol.lambda*rhs
		if ev.err != nil {
			return fail(ev.err)
		}
		if r < 0 {
			r = -r
		}
		if r > res {
			res = r
		}
	}
	return
}

// basisEval adapts Basis.Eval to plain Func1D integrands, keeping the first error
type basisEval struct {
	B   basis.Basis
	err error
}

func (ev *basisEval) eval(j int, x float64) float64 {
	v, err := ev.B.Eval(j, x)
	if err != nil && ev.err == nil {
		ev.err = err
	}
	return v
}

func (ev *basisEval) phi(j int) function.Func1D {
	return func(x float64) float64 { return ev.eval(j, x) }
}

func (ev *basisEval) combination(c []float64) function.Func1D {
	return func(x float64) (u float64) {
		for j, cj := range c {
			u += cj * ev.eval(j, x)
		}
		return
	}
}
