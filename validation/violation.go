package validation

import (
	"strings"

	"github.com/kbukum/usermodel/envelope"
)

// Violation is a single failed constraint on a field.
type Violation struct {
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Tag    string `json:"tag,omitempty"`
	Reason string `json:"message"`
}

// InvalidValue implements envelope.Violation.
func (v Violation) InvalidValue() any { return v.Value }

// Message implements envelope.Violation.
func (v Violation) Message() string { return v.Field + " " + v.Reason }

// ConstraintViolationError carries every violation found while validating a
// single payload.
type ConstraintViolationError struct {
	Violations []Violation
}

var _ envelope.ConstraintViolator = (*ConstraintViolationError)(nil)

func (e *ConstraintViolationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConstraintViolations implements envelope.ConstraintViolator.
func (e *ConstraintViolationError) ConstraintViolations() []envelope.Violation {
	out := make([]envelope.Violation, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v
	}
	return out
}
