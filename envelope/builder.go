package envelope

import (
	"fmt"
	"net/http"
	"time"
)

// GenericDeveloperPrefix prefixes the request path in envelopes built when
// no specific handler matched the error.
const GenericDeveloperPrefix = "path: "

// Builder creates fully populated envelopes. It holds no per-request state
// and is safe for concurrent use.
type Builder struct {
	now       func() time.Time
	extractor *Extractor
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for envelope timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithMaxCauseDepth bounds the violation search through cause chains.
func WithMaxCauseDepth(depth int) Option {
	return func(b *Builder) { b.extractor = NewExtractor(depth) }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		now:       time.Now,
		extractor: defaultExtractor,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Extractor returns the extractor the builder fills Errors with.
func (b *Builder) Extractor() *Extractor {
	return b.extractor
}

// Build creates an envelope for an error handled by a specific rule.
// Detail is the error's message and DeveloperMessage its concrete type name.
func (b *Builder) Build(title string, status int, err error) ErrorEnvelope {
	return b.BuildWith(title, status, err, messageOf(err), TypeName(err))
}

// BuildGeneric creates the envelope used when no specific rule matched.
// The title is the status reason phrase and DeveloperMessage names the path.
func (b *Builder) BuildGeneric(status int, err error, path string) ErrorEnvelope {
	return b.BuildWith(http.StatusText(status), status, err, messageOf(err), GenericDeveloperPrefix+path)
}

// BuildWith creates an envelope with an explicit detail and developer message.
func (b *Builder) BuildWith(title string, status int, err error, detail, developerMessage string) ErrorEnvelope {
	return ErrorEnvelope{
		Title:            title,
		Status:           status,
		Detail:           detail,
		Timestamp:        b.now(),
		DeveloperMessage: developerMessage,
		Errors:           b.extractor.Extract(err),
	}
}

// TypeName returns the concrete Go type of err, e.g. "*errors.AppError".
func TypeName(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T", err)
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
