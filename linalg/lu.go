package linalg

import (
	"fmt"

	"github.com/notargets/gofredholm/utils"
)

// LUFactors holds P A = L U with L unit lower triangular. Perm[i] is the row of A
// that ended up in row i, Sign is the parity of the row swaps.
type LUFactors struct {
	L, U utils.Matrix
	Perm []int
	Sign float64
}

// FactorLU runs Doolittle elimination with partial pivoting
func (s Solver) FactorLU(A utils.Matrix) (lu LUFactors, err error) {
	var (
		n, _ = A.Dims()
		U    = A.Copy()
		L    = utils.NewMatrix(n, n)
		dU   = U.RawMatrix().Data
		dL   = L.RawMatrix().Data
		eps  = s.eps()
	)
	if err = checkSquare("FactorLU", A); err != nil {
		return
	}
	lu.Perm = make([]int, n)
	for i := range lu.Perm {
		lu.Perm[i] = i
	}
	lu.Sign = 1
	for k := 0; k < n; k++ {
		p, maxAbs := pivotRow(dU, n, n, k)
		if maxAbs < eps {
			return LUFactors{}, fmt.Errorf("%w: pivot %d is %.3g", utils.ErrSingular, k, maxAbs)
		}
		if p != k {
			U.SwapRows(p, k)
			// multipliers already stored in L travel with their rows
			L.SwapRows(p, k)
			lu.Perm[p], lu.Perm[k] = lu.Perm[k], lu.Perm[p]
			lu.Sign = -lu.Sign
		}
		pivot := dU[k*n+k]
		for i := k + 1; i < n; i++ {
			f := dU[i*n+k] / pivot
			dL[i*n+k] = f
			if f == 0 {
				continue
			}
			for j := k; j < n; j++ {
				dU[i*n+j] -= f * dU[k*n+j]
			}
			dU[i*n+k] = 0
		}
	}
	for i := 0; i < n; i++ {
		dL[i*n+i] = 1
	}
	lu.L, lu.U = L, U
	return
}

func (lu LUFactors) Det() (det float64) {
	var (
		n, _ = lu.U.Dims()
	)
	det = lu.Sign
	for i := 0; i < n; i++ {
		det *= lu.U.At(i, i)
	}
	return
}

// Solve permutes b, then forward and back substitutes
func (lu LUFactors) Solve(b utils.Vector) (x utils.Vector) {
	var (
		n = len(lu.Perm)
		y = make([]float64, n)
	)
	for i, p := range lu.Perm {
		y[i] = b.AtVec(p)
	}
	return utils.NewVector(n, lu.substitute(y))
}

// Inverse solves for each column of the identity
func (lu LUFactors) Inverse() (R utils.Matrix) {
	var (
		n = len(lu.Perm)
		y = make([]float64, n)
	)
	R = utils.NewMatrix(n, n)
	for j := 0; j < n; j++ {
		for i, p := range lu.Perm {
			y[i] = 0
			if p == j {
				y[i] = 1
			}
		}
		R.SetCol(j, lu.substitute(y))
	}
	return
}

// substitute solves L U x = y in place of a fresh slice
func (lu LUFactors) substitute(y []float64) (x []float64) {
	var (
		n  = len(y)
		dL = lu.L.RawMatrix().Data
		dU = lu.U.RawMatrix().Data
		z  = make([]float64, n)
	)
	for i := 0; i < n; i++ {
		sum := y[i]
		for j := 0; j < i; j++ {
			sum -= dL[i*n+j] * z[j]
		}
		z[i] = sum
	}
	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= dU[i*n+j] * x[j]
		}
		x[i] = sum / dU[i*n+i]
	}
	return
}
