package meta

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/relmap"
)

// RangeError is returned when a multiplicity has a negative bound or a
// bounded maximum lower than its minimum. Bounds are reported as given.
type RangeError struct {
	Entity  string // Owning entity, if known
	Field   string // Owning field, if known
	Minimum int
	Maximum int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	var b strings.Builder
	b.WriteString("relmap: invalid multiplicity ")
	b.WriteString("[" + strconv.Itoa(e.Minimum))
	if e.Maximum != e.Minimum {
		b.WriteString(".." + strconv.Itoa(e.Maximum))
	}
	b.WriteString("]")
	if e.Entity != "" || e.Field != "" {
		b.WriteString(" on ")
		b.WriteString(Endpoint{Entity: e.Entity, Field: e.Field}.String())
	}
	switch {
	case e.Minimum < 0:
		b.WriteString(": minimum must not be negative")
	case e.Maximum < 0:
		b.WriteString(": maximum must not be negative")
	default:
		b.WriteString(": maximum must be greater or equal minimum")
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for RangeError.
func (e *RangeError) Is(target error) bool {
	return target == relmap.ErrInvalidRange
}

// NewRangeError creates a new RangeError.
func NewRangeError(entity, field string, minimum, maximum int) *RangeError {
	return &RangeError{
		Entity:  entity,
		Field:   field,
		Minimum: minimum,
		Maximum: maximum,
	}
}

// SchemaError represents a column that references something the schema
// does not define, or a schema that is structurally broken.
type SchemaError struct {
	Entity  string // Entity (table) name
	Field   string // Field (column) name, if applicable
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("relmap: schema error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == relmap.ErrMalformedSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Entity:  entity,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// InstructionError is returned for instruction values outside of the
// supported flag set, or names that cannot be parsed.
type InstructionError struct {
	Instruction Instruction
	Value       string // Raw input when parsing failed
}

// Error implements the error interface.
func (e *InstructionError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("relmap: unknown instruction %q", e.Value)
	}
	return fmt.Sprintf("relmap: unknown instruction %d", uint8(e.Instruction))
}

// Is reports whether the target matches the sentinel error for InstructionError.
func (e *InstructionError) Is(target error) bool {
	return target == relmap.ErrUnknownInstruction
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("relmap: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("relmap: config error for %q: %s", e.Option, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsRangeError reports whether the error is a RangeError.
func IsRangeError(err error) bool {
	var rangeErr *RangeError
	return errors.As(err, &rangeErr)
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsInstructionError reports whether the error is an InstructionError.
func IsInstructionError(err error) bool {
	var instErr *InstructionError
	return errors.As(err, &instErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
