// Package nodes produces ordered sample (collocation) points on an interval [a,b].
package nodes

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"sort"
	"strings"

	"github.com/notargets/gofredholm/utils"
)

type Strategy uint8

const (
	Uniform       Strategy = iota // evenly spaced, endpoints included
	Chebyshev                     // roots of T_n mapped to [a,b]
	Random                        // uniform draws from a Source
	GaussLegendre                 // Gauss-Legendre quadrature nodes mapped to [a,b]
)

var strategyNames = map[Strategy]string{
	Uniform:       "uniform",
	Chebyshev:     "chebyshev",
	Random:        "random",
	GaussLegendre: "gauss-legendre",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

func ParseStrategy(name string) (Strategy, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == label {
			return s, nil
		}
	}
	return 0, utils.InvalidArgf("unknown node strategy %q", name)
}

// Source is a caller-owned random stream for the Random strategy. The zero value
// seeds itself from system entropy on first use; repeated draws continue the stream.
// A Source must not be shared between goroutines.
type Source struct {
	rng *mrand.Rand
}

func NewSource() *Source { return &Source{} }

// NewSeededSource gives a reproducible stream
func NewSeededSource(seed uint64) *Source {
	return &Source{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Source) Float64() float64 {
	if s.rng == nil {
		var b [16]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic(fmt.Errorf("unable to seed node source: %w", err))
		}
		s.rng = mrand.New(mrand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
	}
	return s.rng.Float64()
}

// Generate returns n points of [a,b] in ascending order. src is only read by Random.
func Generate(strategy Strategy, n int, a, b float64, src *Source) (X []float64, err error) {
	if n <= 0 {
		return nil, utils.InvalidArgf("node count must be positive, have %d", n)
	}
	if !(b > a) {
		return nil, utils.InvalidArgf("node interval must satisfy a < b, have [%v,%v]", a, b)
	}
	var (
		center, radius = 0.5 * (a + b), 0.5 * (b - a)
	)
	switch strategy {
	case Uniform:
		X = utils.Linspace(a, b, n)
	case Chebyshev:
		X = make([]float64, n)
		if n == 1 {
			X[0] = center
			return
		}
		for k := 0; k < n; k++ {
			X[k] = center + radius*math.Cos(math.Pi*float64(2*k+1)/float64(2*n))
		}
		// k = 0 lands nearest b
		sort.Float64s(X)
	case Random:
		if src == nil {
			return nil, utils.InvalidArgf("random nodes need a Source")
		}
		X = make([]float64, n)
		for i := range X {
			X[i] = a + (b-a)*src.Float64()
		}
		sort.Float64s(X)
	case GaussLegendre:
		var R []float64
		if R, _, err = JacobiGQ(0, 0, n-1); err != nil {
			return nil, utils.Errorf("GaussLegendre", err)
		}
		X = make([]float64, n)
		for i, r := range R {
			X[i] = center + radius*r
		}
		sort.Float64s(X)
	default:
		return nil, utils.InvalidArgf("unknown node strategy %v", strategy)
	}
	return
}
