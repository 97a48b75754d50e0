package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector(t *testing.T) {
	N := 3
	v1 := NewVector(N).Set(1)
	require.Equal(t, 1., v1.Data()[N-1])
	v1.Set(2)
	require.Equal(t, 2., v1.Data()[N-1])

	v1.SetAt(0, 1).SetAt(1, 2).SetAt(2, 3)
	v2 := NewVector(N, []float64{2, 0, 1})
	assert.Equal(t, 5., v1.Dot(v2))
	assert.Equal(t, []float64{-1, 2, 2}, v1.Copy().Sub(v2).Data())
	assert.Equal(t, []float64{3, 2, 4}, v1.Copy().AddVec(v2).Data())
	assert.Equal(t, []float64{2, 4, 6}, v1.Copy().Scale(2).Data())
	assert.Equal(t, []float64{2, 3, 4}, v1.Copy().Add(1).Data())
	assert.Equal(t, []float64{1, 4, 9}, v1.Copy().Apply(func(x float64) float64 { return x * x }).Data())
	assert.Equal(t, 1., v1.Min())
	assert.Equal(t, 3., v1.Max())

	A := v1.ToMatrix()
	nr, nc := A.Dims()
	assert.Equal(t, N, nr)
	assert.Equal(t, 1, nc)
	A.Set(0, 0, 100)
	assert.Equal(t, 1., v1.AtVec(0))

	// Linspace
	{
		req := NewVector(2).Linspace(-1, 1)
		assert.Equal(t, -1., req.AtVec(0))
		assert.Equal(t, 1., req.AtVec(1))
		req = NewVector(3).Linspace(-1, 1)
		assert.Equal(t, -1., req.AtVec(0))
		assert.Equal(t, 0., req.AtVec(1))
		assert.Equal(t, 1., req.AtVec(2))
		assert.Equal(t, []float64{0.5}, Linspace(0, 1, 1))
		assert.Empty(t, Linspace(0, 1, 0))
	}
	assert.Panics(t, func() { NewVector(2, []float64{1}) })
}

func TestPOW(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDelta(t, pow(1.3, p), POW(1.3, p), 1e-12, "p = %d", p)
	}
}

func pow(x float64, p int) (y float64) {
	y = 1
	if p < 0 {
		return 1 / pow(x, -p)
	}
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(1, 1+1e-13, 1e-12))
	assert.False(t, NearlyEqual(1, 1+1e-11, 1e-12))
	// relative near large magnitudes
	assert.True(t, NearlyEqual(1e9, 1e9+1e-4, 1e-12))
	assert.False(t, NearlyEqual(1e9, 1e9+1, 1e-12))
	// absolute near zero
	assert.True(t, NearlyEqual(0, 1e-13, 1e-12))
	assert.False(t, NearlyEqual(0, 1e-6, 1e-12))
}
