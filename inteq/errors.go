package inteq

import "fmt"

type Stage string

const (
	StageValidate Stage = "validate"
	StageBasis    Stage = "basis"
	StageNodes    Stage = "nodes"
	StageAssemble Stage = "assemble"
	StageSolve    Stage = "solve"
	StageResidual Stage = "residual"
)

// SolveError records where a solve failed. It unwraps to the utils sentinel.
type SolveError struct {
	Method Method
	Stage  Stage
	Err    error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("fredholm %s [%s]: %v", e.Method, e.Stage, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
