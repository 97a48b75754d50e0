package linalg

import (
	"fmt"
	"math"

	"github.com/notargets/gofredholm/utils"
)

// QRFactors holds A = Q R, Q with orthonormal columns and R upper triangular
type QRFactors struct {
	Q, R utils.Matrix
}

// FactorQR runs classical Gram-Schmidt over the columns of A
func (s Solver) FactorQR(A utils.Matrix) (qr QRFactors, err error) {
	var (
		n, _ = A.Dims()
		eps  = s.eps()
	)
	if err = checkSquare("FactorQR", A); err != nil {
		return
	}
	var (
		Q  = utils.NewMatrix(n, n)
		R  = utils.NewMatrix(n, n)
		dA = A.RawMatrix().Data
		dQ = Q.RawMatrix().Data
		dR = R.RawMatrix().Data
		v  = make([]float64, n)
	)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			v[k] = dA[k*n+j]
		}
		// projections use the input column a_j (classical, not modified, Gram-Schmidt)
		for i := 0; i < j; i++ {
			var rij float64
			for k := 0; k < n; k++ {
				rij += dQ[k*n+i] * dA[k*n+j]
			}
			dR[i*n+j] = rij
			for k := 0; k < n; k++ {
				v[k] -= rij * dQ[k*n+i]
			}
		}
		var norm float64
		for k := 0; k < n; k++ {
			norm += v[k] * v[k]
		}
		norm = math.Sqrt(norm)
		if norm < eps {
			return QRFactors{}, fmt.Errorf("%w: column %d norm is %.3g", utils.ErrSingular, j, norm)
		}
		dR[j*n+j] = norm
		for k := 0; k < n; k++ {
			dQ[k*n+j] = v[k] / norm
		}
	}
	qr.Q, qr.R = Q, R
	return
}

// Det is det(Q) times the diagonal of R; det(Q) is +-1 and its sign comes from
// eliminating Q
func (qr QRFactors) Det() (det float64) {
	var (
		n, _ = qr.R.Dims()
	)
	det = 1
	if NewSolver().determinantGauss(qr.Q) < 0 {
		det = -1
	}
	for i := 0; i < n; i++ {
		det *= qr.R.At(i, i)
	}
	return
}

// Solve back substitutes R x = Q^T b
func (qr QRFactors) Solve(b utils.Vector, eps float64) (x utils.Vector, err error) {
	var (
		n, _ = qr.Q.Dims()
		dQ   = qr.Q.RawMatrix().Data
		y    = make([]float64, n)
		xd   []float64
	)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			y[i] += dQ[k*n+i] * b.AtVec(k)
		}
	}
	if xd, err = qr.backSubstitute(y, eps); err != nil {
		return
	}
	return utils.NewVector(n, xd), nil
}

// Inverse is R^-1 Q^T, built a column of Q^T at a time
func (qr QRFactors) Inverse(eps float64) (Rinv utils.Matrix, err error) {
	var (
		n, _ = qr.Q.Dims()
		y    = make([]float64, n)
		xd   []float64
	)
	Rinv = utils.NewMatrix(n, n)
	for j := 0; j < n; j++ {
		// column j of Q^T is row j of Q
		for i := 0; i < n; i++ {
			y[i] = qr.Q.At(j, i)
		}
		if xd, err = qr.backSubstitute(y, eps); err != nil {
			return utils.Matrix{}, err
		}
		Rinv.SetCol(j, xd)
	}
	return
}

func (qr QRFactors) backSubstitute(y []float64, eps float64) (x []float64, err error) {
	var (
		n  = len(y)
		dR = qr.R.RawMatrix().Data
	)
	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		rii := dR[i*n+i]
		if math.Abs(rii) < eps {
			return nil, fmt.Errorf("%w: R[%d,%d] is %.3g", utils.ErrSingular, i, i, rii)
		}
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= dR[i*n+j] * x[j]
		}
		x[i] = sum / rii
	}
	return
}
