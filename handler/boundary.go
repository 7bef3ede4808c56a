package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/usermodel/envelope"
	"github.com/kbukum/usermodel/logger"
	"github.com/kbukum/usermodel/metrics"
	"github.com/kbukum/usermodel/observability"
)

// Boundary classifies request errors and writes error envelopes.
type Boundary struct {
	builder *envelope.Builder
	rules   []Rule
	metrics *metrics.Collector
	log     *logger.Logger
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithRules replaces the default rule list.
func WithRules(rules []Rule) Option {
	return func(b *Boundary) { b.rules = rules }
}

// WithMetrics counts every rendered envelope on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(b *Boundary) { b.metrics = collector }
}

// New creates a Boundary with the default rules.
func New(builder *envelope.Builder, log *logger.Logger, opts ...Option) *Boundary {
	b := &Boundary{
		builder: builder,
		rules:   DefaultRules(),
		log:     log.WithComponent("error-boundary"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Middleware renders the last error recorded by downstream handlers.
// Nothing is written when the handler already produced a response.
func (b *Boundary) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if c.Writer.Written() {
			b.log.WithContext(c.Request.Context()).Warn("Error after response was written",
				logger.ErrorFields(c.Request.URL.Path, err))
			return
		}
		b.Render(c, err)
	}
}

// NoRoute records a NoRouteError for requests matching no route.
func (b *Boundary) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(&NoRouteError{Path: c.Request.URL.Path})
	}
}

// NoMethod records a MethodNotAllowedError listing the methods served for
// the request path. Requires engine.HandleMethodNotAllowed, which makes Gin
// set the Allow header before NoMethod handlers run.
func (b *Boundary) NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(&MethodNotAllowedError{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Allowed: allowedMethods(c.Writer.Header().Get("Allow")),
		})
	}
}

// Render classifies err and writes its envelope as the response.
func (b *Boundary) Render(c *gin.Context, err error) {
	req := Request{Method: c.Request.Method, Path: c.Request.URL.Path}
	env, kind := b.Envelope(req, err)

	c.AbortWithStatusJSON(env.Status, env)

	if b.metrics != nil {
		b.metrics.RecordEnvelope(env.Status, kind, len(env.Errors))
	}
	b.annotateSpan(c, env, err)
	b.logEnvelope(c, env, kind, err)
}

// Envelope runs the rules in order and returns the first rendered
// envelope, or the generic 500 envelope. A violation carrying a nil invalid
// value also yields the generic 500 envelope.
func (b *Boundary) Envelope(req Request, err error) (env envelope.ErrorEnvelope, kind string) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		nilErr, ok := r.(*envelope.NilInvalidValueError)
		if !ok {
			panic(r)
		}
		b.log.Error("Violation with nil invalid value", logger.Fields(
			logger.FieldPath, req.Path,
			logger.FieldError, nilErr.Error(),
		))
		env, kind = b.builder.BuildGeneric(http.StatusInternalServerError, nilErr, req.Path), KindGeneric
	}()

	for _, rule := range b.rules {
		if env, ok := rule.Render(b.builder, req, err); ok {
			return env, rule.Kind
		}
	}
	return b.builder.BuildGeneric(http.StatusInternalServerError, err, req.Path), KindGeneric
}

func (b *Boundary) annotateSpan(c *gin.Context, env envelope.ErrorEnvelope, err error) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String(observability.AttrEnvelopeTitle, env.Title),
		attribute.Int(observability.AttrViolations, len(env.Errors)),
	)
	if env.Status >= http.StatusInternalServerError {
		observability.SetSpanError(c.Request.Context(), err, env.Title)
	} else if err != nil {
		span.RecordError(err)
	}
}

func (b *Boundary) logEnvelope(c *gin.Context, env envelope.ErrorEnvelope, kind string, err error) {
	fields := logger.Fields(
		logger.FieldStatus, env.Status,
		logger.FieldTitle, env.Title,
		logger.FieldMethod, c.Request.Method,
		logger.FieldPath, c.Request.URL.Path,
		logger.FieldDeveloperMessage, env.DeveloperMessage,
		logger.FieldViolations, len(env.Errors),
		"kind", kind,
	)
	if err != nil {
		fields[logger.FieldError] = err.Error()
	}

	log := b.log.WithContext(c.Request.Context())
	if env.Status >= http.StatusInternalServerError {
		log.Error("Error envelope rendered", fields)
	} else {
		log.Warn("Error envelope rendered", fields)
	}
}

// allowedMethods parses an Allow header into sorted method names.
func allowedMethods(allow string) []string {
	if allow == "" {
		return nil
	}
	methods := strings.Split(allow, ", ")
	sort.Strings(methods)
	return methods
}
