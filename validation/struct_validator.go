package validation

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in violations
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		// maxbytes bounds the encoded length, for values such as bcrypt
		// input where the limit is in bytes rather than characters.
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})
	return validate
}

// Redacted replaces the offending value of fields tagged `redact:"true"`.
const Redacted = "[REDACTED]"

// Validate validates a struct using struct tags such as
// `validate:"required,email,max=255"`. It returns nil or a
// *ConstraintViolationError with one violation per failed field, in
// declaration order.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: s was not a struct.
		return err
	}
	cve := FromValidator(validationErrors)
	redact(cve, reflect.TypeOf(s), validationErrors)
	return cve
}

// redact masks the values of violations on fields of t tagged
// `redact:"true"`, so secrets never reach the error envelope.
func redact(cve *ConstraintViolationError, t reflect.Type, errs validator.ValidationErrors) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i, e := range errs {
		f, ok := t.FieldByName(e.StructField())
		if ok && f.Tag.Get("redact") == "true" {
			cve.Violations[i].Value = Redacted
		}
	}
}

// FromValidator converts validator errors into a *ConstraintViolationError.
func FromValidator(errs validator.ValidationErrors) *ConstraintViolationError {
	violations := make([]Violation, 0, len(errs))
	for _, e := range errs {
		violations = append(violations, Violation{
			Field:  e.Field(),
			Value:  e.Value(),
			Tag:    e.Tag(),
			Reason: formatValidationError(e),
		})
	}
	return &ConstraintViolationError{Violations: violations}
}

// formatValidationError creates a human-readable reason.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "maxbytes":
		return "must be at most " + e.Param() + " bytes"
	case "numeric":
		return "must be numeric"
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
