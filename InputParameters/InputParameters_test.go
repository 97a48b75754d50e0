package InputParameters

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofredholm/basis"
	"github.com/notargets/gofredholm/inteq"
	"github.com/notargets/gofredholm/linalg"
	"github.com/notargets/gofredholm/nodes"
	"github.com/notargets/gofredholm/quadrature"
	"github.com/notargets/gofredholm/utils"
)

var separableFile = []byte(`
Title: "Separable kernel, u = 1.5 x"
Kernel: separable
FreeTerm: identity
Lambda: 1.0
Domain: [0, 1]
Method: galerkin
Basis: legendre
Nodes: chebyshev
NBasis: 4
NCollocation: 8
NIntegration: 200
Decomposition: lu
Rule: trapezoid
Samples: 21
Seed: 7
`)

func TestParse(t *testing.T) {
	var fp FredholmProblem
	require.NoError(t, fp.Parse(separableFile))
	require.NoError(t, fp.Validate())
	assert.Equal(t, "Separable kernel, u = 1.5 x", fp.Title)
	assert.Equal(t, 21, fp.SampleCount())

	cfg, err := fp.EquationConfig()
	require.NoError(t, err)
	assert.Equal(t, inteq.Galerkin, cfg.Method)
	assert.Equal(t, basis.Legendre, cfg.Basis)
	assert.Equal(t, nodes.Chebyshev, cfg.Nodes)
	assert.Equal(t, linalg.LU, cfg.Decomposition)
	assert.Equal(t, quadrature.Trapezoid{}, cfg.Rule)
	assert.Equal(t, 1., cfg.Lambda)
	assert.Equal(t, 4, cfg.NBasis)
	assert.Equal(t, 8, cfg.NCollocation)
	assert.Equal(t, 200, cfg.NIntegration)
}

func TestDefaults(t *testing.T) {
	var fp FredholmProblem
	require.NoError(t, fp.Parse([]byte("Kernel: constant\nFreeTerm: one\n")))
	require.NoError(t, fp.Validate())
	cfg, err := fp.EquationConfig()
	require.NoError(t, err)
	def := inteq.DefaultConfig(inteq.Collocation)
	assert.Equal(t, def.NBasis, cfg.NBasis)
	assert.Equal(t, def.NCollocation, cfg.NCollocation)
	assert.Equal(t, def.NIntegration, cfg.NIntegration)
	assert.Equal(t, 1., cfg.Lambda)
	assert.Equal(t, [2]float64{0, 1}, [2]float64{cfg.A, cfg.B})
	assert.Equal(t, DefaultSamples, fp.SampleCount())

	lambda := 0.
	fp.Lambda = &lambda
	cfg, err = fp.EquationConfig()
	require.NoError(t, err)
	assert.Equal(t, 0., cfg.Lambda)
}

func TestValidate(t *testing.T) {
	for _, doc := range []string{
		"FreeTerm: one\n",
		"Kernel: gaussian\nFreeTerm: one\n",
		"Kernel: constant\nFreeTerm: sqrt\n",
		"Kernel: constant\nFreeTerm: one\nDomain: [0, 1, 2]\n",
		"Kernel: constant\nFreeTerm: one\nMethod: nystrom\n",
		"Kernel: constant\nFreeTerm: one\nNBasis: -1\n",
	} {
		var fp FredholmProblem
		require.NoError(t, fp.Parse([]byte(doc)))
		err := fp.Validate()
		assert.Truef(t, errors.Is(err, utils.ErrInvalidArgument), "%q: %v", doc, err)
	}
	// names are checked when the config is built
	for _, doc := range []string{
		"Kernel: constant\nFreeTerm: one\nBasis: wavelet\n",
		"Kernel: constant\nFreeTerm: one\nNodes: halton\n",
		"Kernel: constant\nFreeTerm: one\nDecomposition: svd\n",
		"Kernel: constant\nFreeTerm: one\nRule: romberg\n",
		"Kernel: constant\nFreeTerm: one\nNBasis: 12\nNCollocation: 6\n",
		"Kernel: constant\nFreeTerm: one\nDomain: [1, 0]\n",
	} {
		var fp FredholmProblem
		require.NoError(t, fp.Parse([]byte(doc)))
		require.NoError(t, fp.Validate())
		_, err := fp.EquationConfig()
		assert.Truef(t, errors.Is(err, utils.ErrInvalidArgument), "%q: %v", doc, err)
	}
}

func TestPresets(t *testing.T) {
	assert.InDelta(t, 0.5*0.25, Kernels["separable"](0.5, 0.25), 1e-15)
	assert.InDelta(t, math.Exp(0.5-0.25), Kernels["exponential"](0.5, 0.25), 1e-14)
	assert.InDelta(t, math.Sin(0.5)*math.Sin(0.25), Kernels["sine"](0.5, 0.25), 1e-15)
	assert.Equal(t, 1., Kernels["constant"](3, 4))
	assert.Equal(t, 0.5, FreeTerms["identity"](0.5))
	assert.Equal(t, 1., FreeTerms["one"](0.5))
	assert.InDelta(t, math.E, FreeTerms["exp"](1), 1e-15)
	assert.InDelta(t, math.Cos(2), FreeTerms["cos"](2), 1e-15)
	assert.InDelta(t, math.Tan(0.5), FreeTerms["tan"](0.5), 1e-15)
	assert.InDelta(t, math.Log(2), FreeTerms["log1p"](1), 1e-15)
}

func TestEquation(t *testing.T) {
	var fp FredholmProblem
	require.NoError(t, fp.Parse(separableFile))
	cfg, err := fp.EquationConfig()
	require.NoError(t, err)
	fr, err := fp.Equation()
	require.NoError(t, err)
	sol, err := fr.Solve(cfg)
	require.NoError(t, err)
	assert.InDelta(t, 1.125, sol.At(0.75), 1e-3)

	fp.Kernel = "missing"
	_, err = fp.Equation()
	assert.True(t, errors.Is(err, utils.ErrInvalidArgument))
}
