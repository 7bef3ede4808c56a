package envelope

// DefaultMaxCauseDepth bounds the cause-chain walk.
const DefaultMaxCauseDepth = 64

// Extractor walks error cause chains looking for field violations.
type Extractor struct {
	maxDepth int
}

// NewExtractor creates an Extractor bounded to maxDepth links.
// A non-positive maxDepth selects DefaultMaxCauseDepth.
func NewExtractor(maxDepth int) *Extractor {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCauseDepth
	}
	return &Extractor{maxDepth: maxDepth}
}

var defaultExtractor = NewExtractor(DefaultMaxCauseDepth)

// ExtractViolations is Extractor.Extract with the default depth.
func ExtractViolations(err error) []ValidationError {
	return defaultExtractor.Extract(err)
}

// Extract walks the caused-by chain of err until it finds a
// constraint-violation kind, and flattens its violations in their natural
// order. It returns an empty, non-nil slice when nothing matches.
//
// Extract panics with *NilInvalidValueError if a matched violation has a nil
// invalid value.
func (x *Extractor) Extract(err error) []ValidationError {
	out := make([]ValidationError, 0)

	match := x.Find(err)
	if match == nil {
		return out
	}
	violations, _ := violationsOf(match)
	for _, v := range violations {
		out = append(out, toValidationError(v))
	}
	return out
}

// Find returns the first link of err's caused-by chain that carries field
// violations, or nil when none does within the depth bound.
func (x *Extractor) Find(err error) error {
	cause := err
	for depth := 0; cause != nil && depth < x.maxDepth; depth++ {
		if _, ok := violationsOf(cause); ok {
			return cause
		}
		cause = next(cause)
	}
	return nil
}

// next follows one caused-by link. Unwrap() error is preferred, then the
// pkg/errors-style Cause(), then the first non-nil member of a joined error.
func next(err error) error {
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Cause() error }:
		return e.Cause()
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if inner != nil {
				return inner
			}
		}
	}
	return nil
}
