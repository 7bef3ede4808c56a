package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeResourceFound indicates a resource exists where none was expected.
	ErrCodeResourceFound ErrorCode = "RESOURCE_FOUND"
)

// Request errors
const (
	// ErrCodeMissingParameter indicates a required path or query parameter is absent.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	// ErrCodeUnsupportedMediaType indicates the request content type is not accepted.
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
)

// Server errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates the user store is unreachable.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var defaultTitles = map[ErrorCode]string{
	ErrCodeNotFound:             "Resource Not Found",
	ErrCodeResourceFound:        "Unexpected Resource",
	ErrCodeMissingParameter:     "Parameter Missing",
	ErrCodeUnsupportedMediaType: "Unsupported Media Type",
	ErrCodeInternal:             "Internal Server Error",
	ErrCodeDatabaseError:        "Service Unavailable",
}

// TitleFor returns the default envelope title for code.
func TitleFor(code ErrorCode) string {
	if t, ok := defaultTitles[code]; ok {
		return t
	}
	return string(code)
}
