// Package linalg is the dense linear solver used to close the discretized equation:
// determinant, inverse and solve through Gauss elimination, LU or QR, plus a
// conditioning estimate and an automatic choice between the three.
//
// All routines work on private copies of their inputs. A pivot (or, for QR, a column
// norm) below the solver tolerance is reported as utils.ErrSingular, except by
// Determinant, which reports a singular matrix as a zero determinant.
package linalg

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofredholm/utils"
)

type Method uint8

const (
	Auto  Method = iota // resolved by RecommendedMethod
	Gauss               // partial pivoting, Gauss-Jordan inverse
	LU                  // partial pivoting, unit lower L, upper U
	QR                  // classical Gram-Schmidt
)

const (
	// Matrices up to this order are always handled by Gauss
	SmallOrder = 10
	// Frobenius condition estimate below which a symmetric matrix goes to LU
	WellConditioned = 1.e5
)

var methodNames = map[Method]string{
	Auto:  "auto",
	Gauss: "gauss",
	LU:    "lu",
	QR:    "qr",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func ParseMethod(name string) (Method, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return Auto, nil
	}
	for m, n := range methodNames {
		if n == label {
			return m, nil
		}
	}
	return 0, utils.InvalidArgf("unknown decomposition method %q", name)
}

// Solver carries the singularity tolerance; the zero value uses utils.EPS
type Solver struct {
	Eps float64
}

func NewSolver(epsO ...float64) Solver {
	s := Solver{Eps: utils.EPS}
	if len(epsO) != 0 {
		s.Eps = epsO[0]
	}
	return s
}

func (s Solver) eps() float64 {
	if s.Eps <= 0 {
		return utils.EPS
	}
	return s.Eps
}

func checkSquare(op string, A utils.Matrix) error {
	if !A.IsSquare() {
		nr, nc := A.Dims()
		return utils.Errorf(op, fmt.Errorf("%w: have %d x %d", utils.ErrNotSquare, nr, nc))
	}
	return nil
}

// resolve turns Auto into a concrete method and rejects unknown ones
func (s Solver) resolve(A utils.Matrix, method Method) (Method, error) {
	switch method {
	case Auto:
		return s.RecommendedMethod(A), nil
	case Gauss, LU, QR:
		return method, nil
	}
	return 0, utils.InvalidArgf("unknown decomposition method %v", method)
}

// Determinant returns 0 for a matrix that is singular within the tolerance
func (s Solver) Determinant(A utils.Matrix, method Method) (det float64, err error) {
	if err = checkSquare("Determinant", A); err != nil {
		return
	}
	if method, err = s.resolve(A, method); err != nil {
		return 0, utils.Errorf("Determinant", err)
	}
	switch method {
	case Gauss:
		det = s.determinantGauss(A)
	case LU:
		var lu LUFactors
		if lu, err = s.FactorLU(A); err != nil {
			return 0, singularAsZero(err)
		}
		det = lu.Det()
	case QR:
		var qr QRFactors
		if qr, err = s.FactorQR(A); err != nil {
			return 0, singularAsZero(err)
		}
		det = qr.Det()
	}
	return
}

func (s Solver) Inverse(A utils.Matrix, method Method) (R utils.Matrix, err error) {
	if err = checkSquare("Inverse", A); err != nil {
		return
	}
	if method, err = s.resolve(A, method); err != nil {
		return R, utils.Errorf("Inverse", err)
	}
	switch method {
	case Gauss:
		R, err = s.inverseGaussJordan(A)
	case LU:
		var lu LUFactors
		if lu, err = s.FactorLU(A); err == nil {
			R = lu.Inverse()
		}
	case QR:
		var qr QRFactors
		if qr, err = s.FactorQR(A); err == nil {
			R, err = qr.Inverse(s.eps())
		}
	}
	if err != nil {
		err = utils.Errorf("Inverse("+method.String()+")", err)
	}
	return
}

// Solve returns x with A x = b, A square
func (s Solver) Solve(A utils.Matrix, b utils.Vector, method Method) (x utils.Vector, err error) {
	var (
		nr, _ = A.Dims()
	)
	if err = checkSquare("Solve", A); err != nil {
		return
	}
	if b.Len() != nr {
		return x, utils.Errorf("Solve", fmt.Errorf("%w: matrix order %d, rhs length %d",
			utils.ErrDimensionMismatch, nr, b.Len()))
	}
	if method, err = s.resolve(A, method); err != nil {
		return x, utils.Errorf("Solve", err)
	}
	switch method {
	case Gauss:
		x, err = s.solveGauss(A, b)
	case LU:
		var lu LUFactors
		if lu, err = s.FactorLU(A); err == nil {
			x = lu.Solve(b)
		}
	case QR:
		var qr QRFactors
		if qr, err = s.FactorQR(A); err == nil {
			x, err = qr.Solve(b, s.eps())
		}
	}
	if err != nil {
		err = utils.Errorf("Solve("+method.String()+")", err)
	}
	return
}

// ConditionNumber estimates ||A||_F ||A^-1||_F, +Inf when A is singular
func (s Solver) ConditionNumber(A utils.Matrix) (cond float64, err error) {
	var (
		Ainv utils.Matrix
	)
	if err = checkSquare("ConditionNumber", A); err != nil {
		return
	}
	if Ainv, err = s.inverseGaussJordan(A); err != nil {
		return math.Inf(1), nil
	}
	return A.FrobeniusNorm() * Ainv.FrobeniusNorm(), nil
}

// RecommendedMethod picks Gauss for small orders, LU for symmetric well conditioned
// matrices and QR otherwise
func (s Solver) RecommendedMethod(A utils.Matrix) Method {
	var (
		n, _ = A.Dims()
	)
	if n <= SmallOrder {
		return Gauss
	}
	if A.IsSymmetric(s.eps()) {
		if cond, err := s.ConditionNumber(A); err == nil && cond < WellConditioned {
			return LU
		}
	}
	return QR
}

func singularAsZero(err error) error {
	if errors.Is(err, utils.ErrSingular) {
		return nil
	}
	return err
}

// pivotRow returns the row at or below k holding the largest |a_ik|
func pivotRow(data []float64, n, nc, k int) (p int, maxAbs float64) {
	p, maxAbs = k, math.Abs(data[k*nc+k])
	for i := k + 1; i < n; i++ {
		if v := math.Abs(data[i*nc+k]); v > maxAbs {
			p, maxAbs = i, v
		}
	}
	return
}
