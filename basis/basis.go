// Package basis generates indexed families of scalar basis functions phi(j, x).
//
// A family is chosen once, when the basis is built; evaluation then dispatches on
// the concrete type only. Chebyshev and Legendre polynomials are computed with their
// three-term recurrences in O(j), never recursively.
package basis

import (
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gofredholm/function"
	"github.com/notargets/gofredholm/utils"
)

type Family uint8

const (
	Polynomial Family = iota // phi_j(x) = x^j
	Fourier                  // 1, cos(x), sin(x), cos(2x), sin(2x), ...
	Chebyshev                // first kind, on [a,b] mapped to [-1,1]
	Legendre                 // on the raw x
)

var familyNames = map[Family]string{
	Polynomial: "polynomial",
	Fourier:    "fourier",
	Chebyshev:  "chebyshev",
	Legendre:   "legendre",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

func ParseFamily(name string) (Family, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	for f, n := range familyNames {
		if n == label {
			return f, nil
		}
	}
	return 0, utils.InvalidArgf("unknown basis family %q", name)
}

// Basis is an indexed family phi(j, x), usable for any j >= 0
type Basis interface {
	Eval(j int, x float64) (float64, error)
	Family() Family
}

// New builds the family on the domain [a,b]; only Chebyshev uses the domain
func New(family Family, a, b float64) (B Basis, err error) {
	switch family {
	case Polynomial:
		B = polynomialBasis{}
	case Fourier:
		B = fourierBasis{}
	case Chebyshev:
		if !(b > a) {
			return nil, utils.InvalidArgf("chebyshev basis needs a < b, have [%v,%v]", a, b)
		}
		B = chebyshevBasis{a: a, b: b, remap: !(a == -1 && b == 1)}
	case Legendre:
		B = legendreBasis{}
	default:
		return nil, utils.InvalidArgf("unknown basis family %v", family)
	}
	return
}

// Func freezes the index j, giving x -> phi_j(x); domain errors panic
func Func(B Basis, j int) function.Func1D {
	return func(x float64) float64 {
		val, err := B.Eval(j, x)
		if err != nil {
			panic(err)
		}
		return val
	}
}

func checkIndex(j int) error {
	if j < 0 {
		return utils.InvalidArgf("basis index must be non-negative, have %d", j)
	}
	return nil
}

type polynomialBasis struct{}

func (polynomialBasis) Family() Family { return Polynomial }

func (polynomialBasis) Eval(j int, x float64) (float64, error) {
	if err := checkIndex(j); err != nil {
		return 0, err
	}
	return utils.POW(x, j), nil
}

type fourierBasis struct{}

func (fourierBasis) Family() Family { return Fourier }

// Eval maps j = 2k-1 to cos(kx) and j = 2k to sin(kx), with k = ceil(j/2)
func (fourierBasis) Eval(j int, x float64) (float64, error) {
	if err := checkIndex(j); err != nil {
		return 0, err
	}
	if j == 0 {
		return 1, nil
	}
	k := float64((j + 1) / 2)
	if j%2 == 1 {
		return math.Cos(k * x), nil
	}
	return math.Sin(k * x), nil
}

type chebyshevBasis struct {
	a, b  float64
	remap bool
}

func (chebyshevBasis) Family() Family { return Chebyshev }

func (cb chebyshevBasis) Eval(j int, x float64) (float64, error) {
	if err := checkIndex(j); err != nil {
		return 0, err
	}
	if cb.remap {
		x = 2*(x-cb.a)/(cb.b-cb.a) - 1
	}
	if x < -1-utils.NODETOL || x > 1+utils.NODETOL {
		return 0, fmt.Errorf("%w: chebyshev argument %v maps outside [-1,1] on [%v,%v]",
			utils.ErrDomain, x, cb.a, cb.b)
	}
	return ChebyshevT(j, x), nil
}

type legendreBasis struct{}

func (legendreBasis) Family() Family { return Legendre }

func (legendreBasis) Eval(j int, x float64) (float64, error) {
	if err := checkIndex(j); err != nil {
		return 0, err
	}
	return LegendreP(j, x), nil
}

// ChebyshevT evaluates T_n(x) with T_0 = 1, T_1 = x, T_n = 2x T_n-1 - T_n-2
func ChebyshevT(n int, x float64) float64 {
	var (
		tm2, tm1 = 1., x
	)
	switch n {
	case 0:
		return tm2
	case 1:
		return tm1
	}
	for k := 2; k <= n; k++ {
		tm2, tm1 = tm1, 2*x*tm1-tm2
	}
	return tm1
}

// LegendreP evaluates P_n(x) with n P_n = (2n-1) x P_n-1 - (n-1) P_n-2
func LegendreP(n int, x float64) float64 {
	var (
		pm2, pm1 = 1., x
	)
	switch n {
	case 0:
		return pm2
	case 1:
		return pm1
	}
	for k := 2; k <= n; k++ {
		fk := float64(k)
		pm2, pm1 = pm1, ((2*fk-1)*x*pm1-(fk-1)*pm2)/fk
	}
	return pm1
}
