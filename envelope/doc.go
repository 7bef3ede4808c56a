// Package envelope builds the JSON error body returned for every failed
// request.
//
// An ErrorEnvelope carries a short title, the HTTP status, a human detail,
// the creation timestamp, a developer-facing message and the list of field
// violations found in the error's cause chain.
//
// # Usage
//
//	b := envelope.NewBuilder()
//	env := b.Build("Resource Not Found", http.StatusNotFound, err)
//	c.JSON(env.Status, env)
//
// Field violations are discovered by walking the caused-by chain until an
// error implementing ConstraintViolator (or a validator.ValidationErrors) is
// found. See ExtractViolations.
package envelope
