package InputParameters

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"

	"github.com/notargets/gofredholm/basis"
	"github.com/notargets/gofredholm/function"
	"github.com/notargets/gofredholm/inteq"
	"github.com/notargets/gofredholm/linalg"
	"github.com/notargets/gofredholm/nodes"
	"github.com/notargets/gofredholm/quadrature"
	"github.com/notargets/gofredholm/utils"
)

// Parameters obtained from the YAML problem file. ghodss/yaml goes through JSON, so the
// json tags name the YAML keys.
type FredholmProblem struct {
	Title         string    `json:"Title"`
	Kernel        string    `json:"Kernel" validate:"required"`
	FreeTerm      string    `json:"FreeTerm" validate:"required"`
	Lambda        *float64  `json:"Lambda"`
	Domain        []float64 `json:"Domain" validate:"omitempty,len=2"`
	Method        string    `json:"Method" validate:"omitempty,oneof=collocation galerkin"`
	Basis         string    `json:"Basis"`
	Nodes         string    `json:"Nodes"`
	NBasis        int       `json:"NBasis" validate:"gte=0,lte=64"`
	NCollocation  int       `json:"NCollocation" validate:"gte=0"`
	NIntegration  int       `json:"NIntegration" validate:"gte=0"`
	Decomposition string    `json:"Decomposition"`
	Rule          string    `json:"Rule"`
	Samples       int       `json:"Samples" validate:"gte=0"`
	Seed          uint64    `json:"Seed"` // 0 seeds the Random strategy from system entropy
}

// Kernels are the named K(x,t) a problem file can refer to
var Kernels = map[string]function.Func2D{
	"separable": function.Separable(function.Linear(0, 1), function.Linear(0, 1)),
	"exponential": function.Separable(function.Exponential(),
		function.Exponential().Compose(function.Linear(0, -1))),
	"sine":     function.Separable(function.Sin(), function.Sin()),
	"constant": func(x, t float64) float64 { return 1 },
}

// FreeTerms are the named f(x) a problem file can refer to
var FreeTerms = map[string]function.Func1D{
	"identity": function.Linear(0, 1),
	"one":      function.Constant(1),
	"exp":      function.Exponential(),
	"cos":      function.Cos(),
	"tan":      function.Tan(),
	"log1p":    function.Logarithmic().Compose(function.Linear(1, 1)),
}

// DefaultSamples is the sample count used when the problem file leaves it unset
const DefaultSamples = 11

var problemValidate = validator.New()

func (fp *FredholmProblem) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FredholmProblem) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("[%s]\t\t= Kernel\n", fp.Kernel)
	fmt.Printf("[%s]\t\t= FreeTerm\n", fp.FreeTerm)
	fmt.Printf("%8.5f\t\t= Lambda\n", fp.lambda())
	a, b := fp.domain()
	fmt.Printf("[%g, %g]\t\t= Domain\n", a, b)
	fmt.Printf("[%s]\t\t= Method\n", fp.Method)
	fmt.Printf("[%s]\t\t= Basis\n", fp.Basis)
	fmt.Printf("[%s]\t\t= Nodes\n", fp.Nodes)
	fmt.Printf("[%d]\t\t\t= NBasis\n", fp.NBasis)
	fmt.Printf("[%d]\t\t\t= NCollocation\n", fp.NCollocation)
	fmt.Printf("[%d]\t\t\t= NIntegration\n", fp.NIntegration)
}

// Validate checks the file against its tags and the named presets
func (fp *FredholmProblem) Validate() (err error) {
	if err = problemValidate.Struct(fp); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			msgs := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return utils.InvalidArgf("problem file: %s", strings.Join(msgs, "; "))
		}
		return utils.InvalidArgf("problem file: %v", err)
	}
	if _, ok := Kernels[fp.Kernel]; !ok {
		return utils.InvalidArgf("unknown kernel %q, have %s", fp.Kernel, presetNames(Kernels))
	}
	if _, ok := FreeTerms[fp.FreeTerm]; !ok {
		return utils.InvalidArgf("unknown free term %q, have %s", fp.FreeTerm, presetNames(FreeTerms))
	}
	if math.IsNaN(fp.lambda()) || math.IsInf(fp.lambda(), 0) {
		return utils.InvalidArgf("lambda must be finite")
	}
	return
}

// EquationConfig resolves names and fills unset fields from inteq.DefaultConfig
func (fp *FredholmProblem) EquationConfig() (cfg inteq.Config, err error) {
	var method = inteq.Collocation
	if fp.Method != "" {
		if method, err = inteq.ParseMethod(fp.Method); err != nil {
			return
		}
	}
	cfg = inteq.DefaultConfig(method)
	if fp.Basis != "" {
		if cfg.Basis, err = basis.ParseFamily(fp.Basis); err != nil {
			return
		}
	}
	if fp.Nodes != "" {
		if cfg.Nodes, err = nodes.ParseStrategy(fp.Nodes); err != nil {
			return
		}
	}
	if cfg.Decomposition, err = linalg.ParseMethod(fp.Decomposition); err != nil {
		return
	}
	if cfg.Rule, err = quadrature.NewRule(fp.Rule); err != nil {
		return
	}
	cfg.Lambda = fp.lambda()
	cfg.A, cfg.B = fp.domain()
	if fp.NBasis > 0 {
		cfg.NBasis = fp.NBasis
	}
	if fp.NCollocation > 0 {
		cfg.NCollocation = fp.NCollocation
	}
	if fp.NIntegration > 0 {
		cfg.NIntegration = fp.NIntegration
	}
	err = cfg.Validate()
	return
}

// Equation builds a fresh solver for the named kernel and free term
func (fp *FredholmProblem) Equation(opts ...inteq.Option) (*inteq.Fredholm, error) {
	K, ok := Kernels[fp.Kernel]
	if !ok {
		return nil, utils.InvalidArgf("unknown kernel %q", fp.Kernel)
	}
	f, ok := FreeTerms[fp.FreeTerm]
	if !ok {
		return nil, utils.InvalidArgf("unknown free term %q", fp.FreeTerm)
	}
	if fp.Seed != 0 {
		opts = append([]inteq.Option{inteq.WithSource(nodes.NewSeededSource(fp.Seed))}, opts...)
	}
	return inteq.NewFredholm(K, f, opts...), nil
}

func (fp *FredholmProblem) SampleCount() int {
	if fp.Samples > 0 {
		return fp.Samples
	}
	return DefaultSamples
}

func (fp *FredholmProblem) lambda() float64 {
	if fp.Lambda == nil {
		return 1
	}
	return *fp.Lambda
}

func (fp *FredholmProblem) domain() (a, b float64) {
	if len(fp.Domain) != 2 {
		return 0, 1
	}
	return fp.Domain[0], fp.Domain[1]
}

func presetNames[T any](m map[string]T) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
