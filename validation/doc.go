// Package validation produces constraint violations for request payloads.
//
// Both struct tag validation (go-playground/validator) and the programmatic
// Validator return a *ConstraintViolationError, which the envelope package
// recognizes anywhere in a cause chain and flattens into the envelope's
// errors list.
//
//	type CreateUserRequest struct {
//	    Username string `json:"username" validate:"required,min=2"`
//	    Email    string `json:"email" validate:"required,email"`
//	}
//	if err := validation.Validate(req); err != nil {
//	    _ = c.Error(err)
//	}
package validation
