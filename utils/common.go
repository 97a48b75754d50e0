package utils

const (
	NODETOL = 1.e-12
	// EPS is the default pivot tolerance of the dense solvers
	EPS = 1.e-10
	// machEps is the float64 unit roundoff spacing at 1
	machEps = 0x1p-52
)
