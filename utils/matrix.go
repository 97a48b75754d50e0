package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func (m Matrix) Trace() (tr float64) {
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
	)
	for i := 0; i < nr && i < nc; i++ {
		tr += data[i*nc+i]
	}
	return
}

// FrobeniusNorm is sqrt(sum a_ij^2)
func (m Matrix) FrobeniusNorm() float64 {
	return floats.Norm(m.RawMatrix().Data, 2)
}

// NormMax is the largest absolute entry
func (m Matrix) NormMax() float64 {
	return floats.Norm(m.RawMatrix().Data, math.Inf(1))
}

func (m Matrix) IsSymmetric(tol float64) bool {
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			if math.Abs(data[i*nc+j]-data[j*nc+i]) > tol {
				return false
			}
		}
	}
	return true
}

func (m Matrix) IsDiagonal(tol float64) bool {
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
	)
	if nr != nc {
		return false
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if i != j && math.Abs(data[i*nc+j]) > tol {
				return false
			}
		}
	}
	return true
}

// IsOrthogonal tests Q^T Q == I
func (m Matrix) IsOrthogonal(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	nr, _ := m.Dims()
	QtQ := m.Transpose().Mul(m)
	return mat.EqualApprox(QtQ.M, NewIdentity(nr).M, tol)
}

// ConditionNumberSVD is the 2-norm condition number, sigma_max / sigma_min
func (m Matrix) ConditionNumberSVD() float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDNone) {
		return math.Inf(1)
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return math.Inf(1)
	}
	// Singular values are in descending order; sigma_min within rounding of sigma_max is zero
	minVal, maxVal := values[len(values)-1], values[0]
	nr, nc := m.Dims()
	if minVal <= maxVal*float64(max(nr, nc))*machEps {
		return math.Inf(1)
	}
	return maxVal / minVal
}
