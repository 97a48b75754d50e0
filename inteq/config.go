package inteq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/notargets/gofredholm/basis"
	"github.com/notargets/gofredholm/linalg"
	"github.com/notargets/gofredholm/nodes"
	"github.com/notargets/gofredholm/quadrature"
	"github.com/notargets/gofredholm/utils"
)

type Method uint8

const (
	Collocation Method = iota
	Galerkin
)

var methodNames = map[Method]string{
	Collocation: "collocation",
	Galerkin:    "galerkin",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func ParseMethod(name string) (Method, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	for m, n := range methodNames {
		if n == label {
			return m, nil
		}
	}
	return 0, utils.InvalidArgf("unknown projection method %q", name)
}

// Config selects how the equation is discretized. Basis and node choices are resolved
// once per Solve.
type Config struct {
	Method        Method         `validate:"lte=1"`
	Basis         basis.Family   `validate:"lte=3"`
	Nodes         nodes.Strategy `validate:"lte=3"`
	Lambda        float64
	A             float64
	B             float64       `validate:"gtfield=A"`
	NBasis        int           `validate:"gte=1"`
	NCollocation  int           `validate:"gte=0"`
	NIntegration  int           `validate:"gte=1"`
	Decomposition linalg.Method `validate:"lte=3"`
	// Rule defaults to composite Simpson when nil
	Rule quadrature.Rule `validate:"-"`
}

var configValidate = validator.New()

func DefaultConfig(method Method) Config {
	return Config{
		Method:        method,
		Basis:         basis.Polynomial,
		Nodes:         nodes.Uniform,
		Lambda:        1,
		A:             0,
		B:             1,
		NBasis:        5,
		NCollocation:  10,
		NIntegration:  100,
		Decomposition: linalg.Auto,
		Rule:          quadrature.Simpson{},
	}
}

// Validate checks field ranges and, for collocation, that there are at least as many
// nodes as basis functions. NCollocation is ignored by Galerkin. It builds nothing.
func (cfg Config) Validate() (err error) {
	if err = configValidate.Struct(cfg); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			msgs := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (have %v)",
					fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return utils.InvalidArgf("config: %s", strings.Join(msgs, "; "))
		}
		return utils.InvalidArgf("config: %v", err)
	}
	if cfg.Method == Collocation && cfg.NBasis > cfg.NCollocation {
		return utils.InvalidArgf("collocation needs NBasis <= NCollocation, have %d > %d",
			cfg.NBasis, cfg.NCollocation)
	}
	return
}

func (cfg Config) rule() quadrature.Rule {
	if cfg.Rule == nil {
		return quadrature.Simpson{}
	}
	return cfg.Rule
}
