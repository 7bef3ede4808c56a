package envelope

import "time"

// ErrorEnvelope is the JSON body sent for every failed request.
// Field order is significant for documentation only.
type ErrorEnvelope struct {
	// Title is a short category label, e.g. "Resource Not Found".
	Title string `json:"title"`
	// Status mirrors the HTTP status code of the response.
	Status int `json:"status"`
	// Detail is the human-readable explanation.
	Detail string `json:"detail"`
	// Timestamp is set once when the envelope is built.
	Timestamp time.Time `json:"timestamp"`
	// DeveloperMessage is a diagnostic string without sensitive internals.
	DeveloperMessage string `json:"developerMessage"`
	// Errors lists field violations. Never nil.
	Errors []ValidationError `json:"errors"`
}

// ValidationError is a single field-level violation.
type ValidationError struct {
	// Code is the offending value, stringified.
	Code string `json:"code"`
	// Message is the violation's reason.
	Message string `json:"message"`
}

// HasViolations reports whether the envelope carries field violations.
func (e ErrorEnvelope) HasViolations() bool {
	return len(e.Errors) > 0
}
