package envelope

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Violation is one failed constraint on one value.
type Violation interface {
	// InvalidValue returns the value that failed the constraint.
	InvalidValue() any
	// Message returns the human-readable reason.
	Message() string
}

// ConstraintViolator is implemented by errors that carry field violations.
// The extractor stops at the first error in a cause chain that implements it.
type ConstraintViolator interface {
	error
	ConstraintViolations() []Violation
}

// NilInvalidValueError is the panic value raised when a violation reports a
// nil invalid value. Stringifying it is a programming contract failure and is
// surfaced rather than coerced to an empty string.
type NilInvalidValueError struct {
	Message string
}

func (e *NilInvalidValueError) Error() string {
	return fmt.Sprintf("envelope: violation %q has a nil invalid value", e.Message)
}

// fieldViolation adapts a validator.FieldError to Violation.
type fieldViolation struct {
	fe validator.FieldError
}

func (v fieldViolation) InvalidValue() any { return v.fe.Value() }

func (v fieldViolation) Message() string {
	if v.fe.Param() != "" {
		return fmt.Sprintf("%s failed on the '%s=%s' constraint", v.fe.Field(), v.fe.Tag(), v.fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' constraint", v.fe.Field(), v.fe.Tag())
}

// violationsOf returns the violation set of err and whether err is a
// constraint-violation kind at all.
func violationsOf(err error) ([]Violation, bool) {
	switch e := err.(type) {
	case ConstraintViolator:
		return e.ConstraintViolations(), true
	case validator.ValidationErrors:
		out := make([]Violation, 0, len(e))
		for _, fe := range e {
			out = append(out, fieldViolation{fe: fe})
		}
		return out, true
	}
	return nil, false
}

// toValidationError stringifies the invalid value. Panics on nil.
func toValidationError(v Violation) ValidationError {
	value := v.InvalidValue()
	if isNil(value) {
		panic(&NilInvalidValueError{Message: v.Message()})
	}
	return ValidationError{
		Code:    fmt.Sprint(value),
		Message: v.Message(),
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
