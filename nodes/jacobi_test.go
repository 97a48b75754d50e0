package nodes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacobiGQ_PartitionAndFirstMoment(t *testing.T) {
	const (
		α   = 0.3
		β   = 0.7
		N   = 5
		tol = 1e-12
	)
	x, w, err := JacobiGQ(α, β, N)
	require.NoError(t, err)

	// ∫_{-1}^1 (1-x)^α (1+x)^β dx = 2^{α+β+1} B(α+1, β+1)
	exactZero := math.Pow(2, α+β+1) * betaFn(α+1, β+1)
	// first moment is (β-α)/(α+β+2) times the zeroth
	exactOne := (β - α) / (α + β + 2) * exactZero

	var sum0, sum1 float64
	for i := range x {
		sum0 += w[i]
		sum1 += x[i] * w[i]
	}
	assert.InDeltaf(t, exactZero, sum0, tol, "sum(w) = %v, want %v", sum0, exactZero)
	assert.InDeltaf(t, exactOne, sum1, tol, "sum(x*w) = %v, want %v", sum1, exactOne)
}

func TestJacobiGQ_Legendre(t *testing.T) {
	// Gauss-Legendre with N+1 points integrates degree 2N+1 exactly
	const N = 4
	x, w, err := JacobiGQ(0, 0, N)
	require.NoError(t, err)
	for k := 0; k <= 2*N+1; k++ {
		var s float64
		for i, xi := range x {
			s += w[i] * math.Pow(xi, float64(k))
		}
		want := 0.
		if k%2 == 0 {
			want = 2 / float64(k+1)
		}
		assert.InDeltaf(t, want, s, 1e-12, "moment %d", k)
	}
	// Nodes are roots of P_{N+1}
	p := JacobiP(x, 0, 0, N+1)
	for i := range p {
		assert.InDelta(t, 0., p[i], 1e-10)
	}
	_, _, err = JacobiGQ(0, 0, -1)
	assert.Error(t, err)
}

func betaFn(a, b float64) float64 {
	return math.Gamma(a) * math.Gamma(b) / math.Gamma(a+b)
}

func TestJacobiGQ_Asymmetric(t *testing.T) {
	const (
		alpha, beta = -0.5, 1.5
		N           = 6
	)
	x, w, err := JacobiGQ(alpha, beta, N)
	require.NoError(t, err)
	// nodes are the roots of P_{N+1}^{(alpha,beta)}
	for _, p := range JacobiP(x, alpha, beta, N+1) {
		assert.InDelta(t, 0., p, 1e-9)
	}
	// exact for x^k times the weight, k <= 2N+1; check k = 2 against the recurrence moments
	var m0, m2 float64
	for i, xi := range x {
		m0 += w[i]
		m2 += w[i] * xi * xi
	}
	exactZero := math.Pow(2, alpha+beta+1) * betaFn(alpha+1, beta+1)
	assert.InDelta(t, exactZero, m0, 1e-12)
	// second moment of the Jacobi weight on [-1,1], from the Beta distribution on [0,1]
	a, b := beta+1, alpha+1
	mean := a / (a + b)
	second := a * (a + 1) / ((a + b) * (a + b + 1))
	assert.InDelta(t, exactZero*(4*second-4*mean+1), m2, 1e-12)

	// a single node sits at the weight's mean and carries its mass
	x, w, err = JacobiGQ(alpha, beta, 0)
	require.NoError(t, err)
	assert.InDelta(t, (beta-alpha)/(alpha+beta+2), x[0], 1e-15)
	assert.InDelta(t, exactZero, w[0], 1e-12)
}
