package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kbukum/usermodel/envelope"
	apperrors "github.com/kbukum/usermodel/errors"
)

// Kinds label which rule rendered an envelope. They are used as the metric
// label instead of the title, which may embed the request path.
const (
	KindResourceNotFound     = "resource_not_found"
	KindResourceFound        = "resource_found"
	KindConstraintViolation  = "constraint_violation"
	KindMessageNotReadable   = "message_not_readable"
	KindPayloadTooLarge      = "payload_too_large"
	KindTypeMismatch         = "type_mismatch"
	KindMissingParameter     = "missing_parameter"
	KindUnsupportedMediaType = "unsupported_media_type"
	KindNoRoute              = "no_route"
	KindMethodNotAllowed     = "method_not_allowed"
	KindAppError             = "app_error"
	KindGeneric              = "generic"
)

// Fixed developer messages.
const (
	DevMsgNoRoute          = "Rest Handler Not Found (check for valid URI)"
	DevMsgMethodNotAllowed = "HTTP Method Not Valid for Endpoint (check for valid URI and proper HTTP Method)"
	DevMsgMediaType        = "Content / Media Type Not Valid for Endpoint (check for valid URI and proper content / media type)"
)

// Request is the part of the request a rule may quote.
type Request struct {
	Method string
	Path   string
}

// Rule renders one kind of error. Render reports false when err is not of
// the rule's kind.
type Rule struct {
	Kind   string
	Render func(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool)
}

// DefaultRules returns the rule list in match order.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: KindNoRoute, Render: renderNoRoute},
		{Kind: KindMethodNotAllowed, Render: renderMethodNotAllowed},
		{Kind: KindResourceNotFound, Render: appErrorCode(apperrors.ErrCodeNotFound)},
		{Kind: KindResourceFound, Render: appErrorCode(apperrors.ErrCodeResourceFound)},
		{Kind: KindConstraintViolation, Render: renderConstraintViolation},
		{Kind: KindPayloadTooLarge, Render: renderPayloadTooLarge},
		{Kind: KindMessageNotReadable, Render: renderNotReadable},
		{Kind: KindTypeMismatch, Render: renderTypeMismatch},
		{Kind: KindMissingParameter, Render: renderMissingParameter},
		{Kind: KindUnsupportedMediaType, Render: renderUnsupportedMediaType},
		{Kind: KindAppError, Render: renderAppError},
	}
}

func appErrorCode(code apperrors.ErrorCode) func(*envelope.Builder, Request, error) (envelope.ErrorEnvelope, bool) {
	return func(b *envelope.Builder, _ Request, err error) (envelope.ErrorEnvelope, bool) {
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != code {
			return envelope.ErrorEnvelope{}, false
		}
		return b.Build(appErr.Title, appErr.HTTPStatus, appErr), true
	}
}

func renderAppError(b *envelope.Builder, _ Request, err error) (envelope.ErrorEnvelope, bool) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return envelope.ErrorEnvelope{}, false
	}
	return b.Build(appErr.Title, appErr.HTTPStatus, appErr), true
}

func renderConstraintViolation(b *envelope.Builder, _ Request, err error) (envelope.ErrorEnvelope, bool) {
	match := b.Extractor().Find(err)
	if match == nil {
		return envelope.ErrorEnvelope{}, false
	}
	return b.Build("Method Argument Not Valid", http.StatusBadRequest, match), true
}

func renderNotReadable(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool) {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		match     error
	)
	switch {
	case errors.As(err, &syntaxErr):
		match = syntaxErr
	case errors.As(err, &typeErr):
		match = typeErr
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		match = err
	default:
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith(
		fmt.Sprintf("Path: %s Message Not Readable", req.Path),
		http.StatusBadRequest, err, err.Error(), envelope.TypeName(match)), true
}

func renderPayloadTooLarge(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool) {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith(
		fmt.Sprintf("Path: %s Message Not Readable", req.Path),
		http.StatusRequestEntityTooLarge, err,
		fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		envelope.TypeName(tooLarge)), true
}

func renderTypeMismatch(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool) {
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith(
		fmt.Sprintf("Path: %s Type Mismatch", req.Path),
		http.StatusBadRequest, err, err.Error(),
		envelope.TypeName(numErr)+" "+numErr.Err.Error()), true
}

func renderMissingParameter(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeMissingParameter {
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith(
		fmt.Sprintf("Parameter Missing for Path: %s", req.Path),
		appErr.HTTPStatus, appErr, appErr.Message,
		appErr.Message+" "+envelope.TypeName(appErr)), true
}

func renderUnsupportedMediaType(b *envelope.Builder, req Request, err error) (envelope.ErrorEnvelope, bool) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeUnsupportedMediaType {
		return envelope.ErrorEnvelope{}, false
	}
	ct, _ := appErr.Details["content_type"].(string)
	return b.BuildWith(
		"Incorrect content type: "+ct,
		appErr.HTTPStatus, appErr,
		fmt.Sprintf("Path: %s | %s", req.Path, appErr.Message),
		DevMsgMediaType), true
}

// NoRouteError is recorded when no route matches the request path.
type NoRouteError struct {
	Path string
}

func (e *NoRouteError) Error() string {
	return "no handler found for " + e.Path
}

// MethodNotAllowedError is recorded when the path matches a route but the
// method does not.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not supported for %s", e.Method, e.Path)
}

func renderNoRoute(b *envelope.Builder, _ Request, err error) (envelope.ErrorEnvelope, bool) {
	var nr *NoRouteError
	if !errors.As(err, &nr) {
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith("Rest Endpoint Not Valid", http.StatusNotFound, nil, nr.Path, DevMsgNoRoute), true
}

func renderMethodNotAllowed(b *envelope.Builder, _ Request, err error) (envelope.ErrorEnvelope, bool) {
	var mna *MethodNotAllowedError
	if !errors.As(err, &mna) {
		return envelope.ErrorEnvelope{}, false
	}
	return b.BuildWith(
		"Incorrect method: "+mna.Method,
		http.StatusMethodNotAllowed, nil,
		fmt.Sprintf("Path: %s | Supported Methods are: %v", mna.Path, mna.Allowed),
		DevMsgMethodNotAllowed), true
}
