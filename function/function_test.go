package function

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofredholm/utils"
)

func TestFunctionAlgebra(t *testing.T) {
	var (
		X = []float64{-1.5, -0.25, 0, 0.5, 2}
		f = Polynomial(1, 2, 3) // 1 + 2x + 3x^2
		g = Linear(-1, 1)
	)
	for _, x := range X {
		assert.InDelta(t, 1+2*x+3*x*x, f(x), 1e-14)
		assert.InDelta(t, f(x)+g(x), f.Add(g)(x), 1e-14)
		assert.InDelta(t, f(x)-g(x), f.Sub(g)(x), 1e-14)
		assert.InDelta(t, f(x)*g(x), f.Mul(g)(x), 1e-14)
		assert.InDelta(t, 2.5*f(x), f.Scale(2.5)(x), 1e-14)
		assert.InDelta(t, f(x)+4, f.Shift(4)(x), 1e-14)
		assert.InDelta(t, f(g(x)), f.Compose(g)(x), 1e-14)
		assert.InDelta(t, 2+6*x, f.Derivative()(x), 1e-6)
		assert.InDelta(t, math.Cos(x), Sin().Derivative(1e-5)(x), 1e-8)
	}
	assert.InDelta(t, 0.5, Constant(3).Div(Constant(6))(10), 1e-15)
	assert.Equal(t, []float64{1, 1}, Constant(1).Sample([]float64{0, 7}))
	assert.Equal(t, 0., Polynomial()(3))
}

func TestKernelSlice(t *testing.T) {
	K := Separable(Linear(0, 1), Exponential())
	k := K.Slice(2)
	assert.InDelta(t, 2*math.E, k(1), 1e-14)
	assert.InDelta(t, 0., MaxAbsDiff(k, Exponential().Scale(2), []float64{0, 0.5, 1}), 1e-14)
}

func TestFactories(t *testing.T) {
	assert.InDelta(t, 8., Exponential(2)(3), 1e-12)
	assert.InDelta(t, math.E, Exponential()(1), 1e-15)
	assert.InDelta(t, 3., Logarithmic(2)(8), 1e-12)
	assert.InDelta(t, 2., Logarithmic(10)(100), 1e-12)
	assert.InDelta(t, 1., Logarithmic()(math.E), 1e-15)
	assert.True(t, math.IsNaN(Logarithmic()(-1)))
	assert.InDelta(t, 1., Tan()(math.Pi/4), 1e-15)
}

func TestDefiniteIntegral(t *testing.T) {
	v, err := Polynomial(1, 2, 3).DefiniteIntegral(0, 2, 4)
	require.NoError(t, err)
	assert.InDelta(t, 2+4+8, v, 1e-12)

	v, err = Sin().DefiniteIntegral(math.Pi, 0, 20)
	require.NoError(t, err)
	assert.InDelta(t, -2., v, 1e-12)

	v, err = Exponential().DefiniteIntegral(1, 1, 5)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = Sin().DefiniteIntegral(0, 1, 0)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
	_, err = Sin().DefiniteIntegral(0, math.Inf(1), 10)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	F, err := Cos().Integral(0, 20)
	require.NoError(t, err)
	for _, x := range []float64{-1, 0, 0.3, 2} {
		assert.InDelta(t, math.Sin(x), F(x), 1e-12)
	}
	_, err = Cos().Integral(0, -3)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
}

func TestNormL2(t *testing.T) {
	n, err := Constant(3).NormL2(0, 4, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6., n, 1e-12)
	// Int_0^pi sin^2 = pi/2
	n, err = Sin().NormL2(0, math.Pi, 30)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(math.Pi/2), n, 1e-12)
	_, err = Sin().NormL2(1, 1, 30)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
}

func TestExtrema(t *testing.T) {
	f := Polynomial(0, 0, -1) // -x^2
	mx, err := f.Maximum(-1, 2, 301)
	require.NoError(t, err)
	assert.InDelta(t, 0., mx, 1e-12)
	mn, err := f.Minimum(-1, 2, 301)
	require.NoError(t, err)
	assert.InDelta(t, -4., mn, 1e-12)

	mx, err = Sin().Maximum(0, math.Pi, 1001)
	require.NoError(t, err)
	assert.InDelta(t, 1., mx, 1e-5)

	_, err = f.Maximum(0, 1, 1)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
	_, err = f.Minimum(1, 0, 10)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
}

func TestRoot(t *testing.T) {
	x, err := Cos().Root(0, 3, 1e-12, 200)
	require.NoError(t, err)
	assert.True(t, utils.NearlyEqual(math.Pi/2, x, 1e-10))

	// x^2 - 2 on [0,2]
	x, err = Polynomial(-2, 0, 1).Root(0, 2, 1e-14, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, x, 1e-12)

	// an endpoint zero is returned as is
	x, err = Linear(-1, 1).Root(1, 3, 1e-12, 10)
	require.NoError(t, err)
	assert.Equal(t, 1., x)

	_, err = Exponential().Root(0, 1, 1e-12, 100)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
	_, err = Cos().Root(0, 3, 0, 100)
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))

	assert.True(t, Cos().HasRoot(0, 3, 100))
	assert.True(t, Linear(0, 1).HasRoot(-1, 1, 3))
	assert.False(t, Exponential().HasRoot(0, 1, 100))
	assert.False(t, Sin().HasRoot(0, 1, 1))
}

func TestShapeChecks(t *testing.T) {
	step := func(x float64) float64 {
		if x < 0.5 {
			return 0
		}
		return 1
	}
	assert.True(t, Sin().IsContinuous(0, 2*math.Pi, 200))
	assert.True(t, Constant(2).IsContinuous(0, 1, 50))
	assert.True(t, Polynomial(0, 0, 0, 1).IsContinuous(-2, 2, 100))
	assert.False(t, Func1D(step).IsContinuous(0, 1, 101))
	assert.False(t, Constant(1).Div(Linear(0, 1)).IsContinuous(-1, 1, 100))
	assert.False(t, Sin().IsContinuous(1, 0, 10))

	assert.True(t, Exponential().IsMonotonic(-1, 1, 100))
	assert.True(t, Linear(3, -2).IsMonotonic(0, 5, 100))
	assert.True(t, Func1D(step).IsMonotonic(0, 1, 100))
	assert.False(t, Sin().IsMonotonic(0, math.Pi, 100))
	assert.True(t, Sin().IsMonotonic(0, 1, 100))
}
