package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator collects violations programmatically.
type Validator struct {
	violations []Violation
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		violations: make([]Violation, 0),
	}
}

// AddViolation records a failed constraint on field with its offending value.
func (v *Validator) AddViolation(field string, value any, reason string) {
	v.violations = append(v.violations, Violation{
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

// HasErrors returns true if there are violations.
func (v *Validator) HasErrors() bool {
	return len(v.violations) > 0
}

// Violations returns all recorded violations.
func (v *Validator) Violations() []Violation {
	return v.violations
}

// Validate returns a *ConstraintViolationError if any violation was recorded.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	return &ConstraintViolationError{Violations: v.violations}
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddViolation(field, value, "is required")
	}
	return v
}

// MaxLength checks if a string is within maxLen characters.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddViolation(field, value, fmt.Sprintf("must be %d characters or less", maxLen))
	}
	return v
}
