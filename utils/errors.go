package utils

import (
	"errors"
	"fmt"
)

// Error kinds shared by the numerical packages. Callers match them with errors.Is;
// every returned error wraps exactly one of these.
var (
	// ErrInvalidArgument marks an unknown family/strategy/method or a bad size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSingular marks a pivot or column norm below the solver tolerance.
	ErrSingular = errors.New("singular matrix")

	// ErrDomain marks an input outside the domain a basis family is defined on.
	ErrDomain = errors.New("domain error")

	// ErrNotSquare is an InvalidArgument raised when a square matrix is required.
	ErrNotSquare = fmt.Errorf("%w: matrix is not square", ErrInvalidArgument)

	// ErrDimensionMismatch is an InvalidArgument raised on incompatible operand shapes.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", ErrInvalidArgument)
)

// Errorf tags err with the operation that raised it, keeping it matchable with errors.Is.
func Errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// InvalidArgf builds an InvalidArgument error with a formatted reason.
func InvalidArgf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
