package linalg

import (
	"fmt"

	"github.com/notargets/gofredholm/utils"
)

// determinantGauss eliminates below each pivot, flipping the sign on every row swap
func (s Solver) determinantGauss(A utils.Matrix) (det float64) {
	var (
		W    = A.Copy()
		n, _ = W.Dims()
		data = W.RawMatrix().Data
		eps  = s.eps()
	)
	det = 1
	for k := 0; k < n; k++ {
		p, maxAbs := pivotRow(data, n, n, k)
		if maxAbs < eps {
			return 0
		}
		if p != k {
			W.SwapRows(p, k)
			det = -det
		}
		pivot := data[k*n+k]
		det *= pivot
		for i := k + 1; i < n; i++ {
			f := data[i*n+k] / pivot
			if f == 0 {
				continue
			}
			for j := k; j < n; j++ {
				data[i*n+j] -= f * data[k*n+j]
			}
		}
	}
	return
}

// inverseGaussJordan reduces the augmented [A|I] to [I|A^-1]
func (s Solver) inverseGaussJordan(A utils.Matrix) (R utils.Matrix, err error) {
	var (
		n, _ = A.Dims()
		nc   = 2 * n
		Aug  = utils.NewMatrix(n, nc)
		data = Aug.RawMatrix().Data
		eps  = s.eps()
	)
	for i := 0; i < n; i++ {
		copy(data[i*nc:i*nc+n], A.RawMatrix().Data[i*n:(i+1)*n])
		data[i*nc+n+i] = 1
	}
	for k := 0; k < n; k++ {
		p, maxAbs := pivotRow(data, n, nc, k)
		if maxAbs < eps {
			return R, fmt.Errorf("%w: pivot %d is %.3g", utils.ErrSingular, k, maxAbs)
		}
		Aug.SwapRows(p, k)
		// normalize the pivot row
		rowK := data[k*nc : (k+1)*nc]
		pivot := rowK[k]
		for j := k; j < nc; j++ {
			rowK[j] /= pivot
		}
		// eliminate above and below
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			rowI := data[i*nc : (i+1)*nc]
			f := rowI[k]
			if f == 0 {
				continue
			}
			for j := k; j < nc; j++ {
				rowI[j] -= f * rowK[j]
			}
		}
	}
	R = utils.NewMatrix(n, n)
	dataR := R.RawMatrix().Data
	for i := 0; i < n; i++ {
		copy(dataR[i*n:(i+1)*n], data[i*nc+n:(i+1)*nc])
	}
	return
}

// solveGauss eliminates on [A|b] and back substitutes
func (s Solver) solveGauss(A utils.Matrix, b utils.Vector) (x utils.Vector, err error) {
	var (
		n, _ = A.Dims()
		nc   = n + 1
		Aug  = utils.NewMatrix(n, nc)
		data = Aug.RawMatrix().Data
		eps  = s.eps()
	)
	for i := 0; i < n; i++ {
		copy(data[i*nc:i*nc+n], A.RawMatrix().Data[i*n:(i+1)*n])
		data[i*nc+n] = b.AtVec(i)
	}
	for k := 0; k < n; k++ {
		p, maxAbs := pivotRow(data, n, nc, k)
		if maxAbs < eps {
			return x, fmt.Errorf("%w: pivot %d is %.3g", utils.ErrSingular, k, maxAbs)
		}
		Aug.SwapRows(p, k)
		pivot := data[k*nc+k]
		for i := k + 1; i < n; i++ {
			f := data[i*nc+k] / pivot
			if f == 0 {
				continue
			}
			for j := k; j < nc; j++ {
				data[i*nc+j] -= f * data[k*nc+j]
			}
		}
	}
	x = utils.NewVector(n)
	xd := x.Data()
	for i := n - 1; i >= 0; i-- {
		sum := data[i*nc+n]
		for j := i + 1; j < n; j++ {
			sum -= data[i*nc+j] * xd[j]
		}
		xd[i] = sum / data[i*nc+i]
	}
	return
}
