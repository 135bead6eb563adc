package pac

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/pacd/internal/pac/directive"
	"github.com/GriffinCanCode/pacd/internal/pac/sandbox"
)

// ParsingError is returned when a script cannot be turned into an evaluator
type ParsingError struct {
	Err error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("invalid PAC script: %v", e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }

// Failure kinds, used as log fields and metric labels
const (
	FailureSandbox     = "sandbox"
	FailureValidation  = "validation"
	FailureInterrupted = "interrupted"
	FailureUndefined   = "undefined"
	FailureScript      = "script"
)

// FailureKind classifies a query-time error
func FailureKind(err error) string {
	var (
		denied  *sandbox.AccessDeniedError
		invalid *directive.ValidationError
	)
	switch {
	case errors.As(err, &denied):
		return FailureSandbox
	case errors.As(err, &invalid):
		return FailureValidation
	case errors.Is(err, sandbox.ErrInterrupted):
		return FailureInterrupted
	case errors.Is(err, sandbox.ErrUndefinedFunction), errors.Is(err, sandbox.ErrClosed):
		return FailureUndefined
	default:
		return FailureScript
	}
}
