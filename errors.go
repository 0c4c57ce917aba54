package relmap

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors of the relation resolver.
var (
	// ErrInvalidRange is returned when a multiplicity maximum is lower than
	// its minimum, or the minimum is negative.
	ErrInvalidRange = errors.New("relmap: invalid multiplicity range")

	// ErrMalformedSchema is returned when a column references an entity,
	// field or junction table that the schema does not define.
	ErrMalformedSchema = errors.New("relmap: malformed schema")

	// ErrUnknownInstruction is returned for an unsupported instruction
	// flag combination.
	ErrUnknownInstruction = errors.New("relmap: unknown instruction")
)

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "relmap: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("relmap: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors, so errors.Is and errors.As
// look into every one of them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}

// IsAggregateError returns true if the error is an AggregateError.
func IsAggregateError(err error) bool {
	if err == nil {
		return false
	}
	var e *AggregateError
	return errors.As(err, &e)
}
