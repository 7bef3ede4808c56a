package envelope

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

type testViolation struct {
	value any
	msg   string
}

func (v testViolation) InvalidValue() any { return v.value }
func (v testViolation) Message() string   { return v.msg }

type testConstraintError struct {
	violations []Violation
}

func (e *testConstraintError) Error() string { return "constraint violations" }

func (e *testConstraintError) ConstraintViolations() []Violation { return e.violations }

type causeErr struct {
	msg   string
	cause error
}

func (e *causeErr) Error() string { return e.msg }
func (e *causeErr) Cause() error  { return e.cause }

type loopErr struct {
	next *loopErr
}

func (e *loopErr) Error() string { return "loop" }
func (e *loopErr) Unwrap() error { return e.next }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestExtractViolations_NoMatch(t *testing.T) {
	c := stderrors.New("C")
	b := fmt.Errorf("B: %w", c)
	a := fmt.Errorf("A: %w", b)

	got := ExtractViolations(a)
	if got == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("expected no violations, got %v", got)
	}
}

func TestExtractViolations_NilError(t *testing.T) {
	got := ExtractViolations(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractViolations_MatchAtAnyDepth(t *testing.T) {
	violations := &testConstraintError{violations: []Violation{
		testViolation{value: "abc", msg: "must be numeric"},
		testViolation{value: 42, msg: "must be positive"},
	}}

	chains := map[string]error{
		"second": fmt.Errorf("outer: %w", violations),
		"third":  fmt.Errorf("a: %w", fmt.Errorf("b: %w", violations)),
		"cause":  &causeErr{msg: "legacy", cause: violations},
		"joined": stderrors.Join(violations, stderrors.New("other")),
		"self":   violations,
	}

	for name, chain := range chains {
		t.Run(name, func(t *testing.T) {
			got := ExtractViolations(chain)
			if len(got) != 2 {
				t.Fatalf("expected 2 violations, got %d", len(got))
			}
			if got[0].Code != "abc" || got[0].Message != "must be numeric" {
				t.Errorf("unexpected first violation: %+v", got[0])
			}
			if got[1].Code != "42" || got[1].Message != "must be positive" {
				t.Errorf("unexpected second violation: %+v", got[1])
			}
		})
	}
}

func TestExtractViolations_EmptySet(t *testing.T) {
	got := ExtractViolations(&testConstraintError{})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractViolations_FirstMatchWins(t *testing.T) {
	inner := &testConstraintError{violations: []Violation{testViolation{value: "inner", msg: "x"}}}
	outer := &testConstraintError{violations: []Violation{testViolation{value: "outer", msg: "y"}}}
	chain := fmt.Errorf("wrap: %w", &causeErr{msg: "mid", cause: inner})
	chain = stderrors.Join(outer, chain)

	got := ExtractViolations(chain)
	if len(got) != 1 || got[0].Code != "outer" {
		t.Errorf("expected outer violation only, got %+v", got)
	}
}

func TestExtractor_Find(t *testing.T) {
	match := &testConstraintError{}
	chain := fmt.Errorf("outer: %w", &causeErr{msg: "mid", cause: match})

	if got := defaultExtractor.Find(chain); got != error(match) {
		t.Errorf("expected the constraint error, got %v", got)
	}
	if got := defaultExtractor.Find(stderrors.New("plain")); got != nil {
		t.Errorf("expected nil for chain without violations, got %v", got)
	}
}

func TestExtractViolations_CycleTerminates(t *testing.T) {
	a := &loopErr{}
	b := &loopErr{next: a}
	a.next = b

	got := NewExtractor(8).Extract(a)
	if len(got) != 0 {
		t.Errorf("expected no violations from cyclic chain, got %v", got)
	}
}

func TestExtractViolations_DepthBound(t *testing.T) {
	violations := &testConstraintError{violations: []Violation{testViolation{value: 1, msg: "m"}}}
	var chain error = violations
	for i := 0; i < 5; i++ {
		chain = fmt.Errorf("level %d: %w", i, chain)
	}

	if got := NewExtractor(3).Extract(chain); len(got) != 0 {
		t.Errorf("expected match beyond depth to be ignored, got %v", got)
	}
	if got := NewExtractor(6).Extract(chain); len(got) != 1 {
		t.Errorf("expected match within depth, got %v", got)
	}
}

func TestExtractViolations_NilInvalidValuePanics(t *testing.T) {
	var nilPtr *string
	cases := map[string]any{
		"nil interface": nil,
		"nil pointer":   nilPtr,
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				perr, ok := r.(*NilInvalidValueError)
				if !ok {
					t.Fatalf("expected *NilInvalidValueError, got %T", r)
				}
				if !strings.Contains(perr.Error(), "must not be null") {
					t.Errorf("expected message in panic, got %q", perr.Error())
				}
			}()
			ExtractViolations(&testConstraintError{violations: []Violation{
				testViolation{value: value, msg: "must not be null"},
			}})
		})
	}
}

func TestExtractViolations_ValidatorErrors(t *testing.T) {
	type input struct {
		Code  string `validate:"numeric"`
		Count int    `validate:"gt=0"`
	}

	err := validator.New().Struct(input{Code: "abc", Count: -5})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := ExtractViolations(fmt.Errorf("binding: %w", err))
	if len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
	if got[0].Code != "abc" {
		t.Errorf("expected code abc, got %q", got[0].Code)
	}
	if !strings.Contains(got[0].Message, "numeric") {
		t.Errorf("expected tag in message, got %q", got[0].Message)
	}
	if got[1].Code != "-5" {
		t.Errorf("expected code -5, got %q", got[1].Code)
	}
	if !strings.Contains(got[1].Message, "gt=0") {
		t.Errorf("expected tag and param in message, got %q", got[1].Message)
	}
}

func TestBuilder_Build(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	b := NewBuilder(WithClock(fixedClock(now)))

	env := b.Build("Resource Not Found", http.StatusNotFound, stderrors.New("user 15 not found"))

	if env.Title != "Resource Not Found" {
		t.Errorf("expected title 'Resource Not Found', got %q", env.Title)
	}
	if env.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", env.Status)
	}
	if env.Detail != "user 15 not found" {
		t.Errorf("expected detail 'user 15 not found', got %q", env.Detail)
	}
	if !env.Timestamp.Equal(now) {
		t.Errorf("expected timestamp %v, got %v", now, env.Timestamp)
	}
	if env.DeveloperMessage != "*errors.errorString" {
		t.Errorf("expected type name, got %q", env.DeveloperMessage)
	}
	if env.Errors == nil || env.HasViolations() {
		t.Errorf("expected empty non-nil errors, got %#v", env.Errors)
	}
}

func TestBuilder_BuildIsPureExceptClock(t *testing.T) {
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBuilder(WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	err := fmt.Errorf("wrapped: %w", &testConstraintError{violations: []Violation{
		testViolation{value: "x", msg: "bad"},
	}})

	first := b.Build("Bind Exception", http.StatusBadRequest, err)
	second := b.Build("Bind Exception", http.StatusBadRequest, err)

	if first.Timestamp.Equal(second.Timestamp) {
		t.Error("expected timestamps to differ")
	}
	first.Timestamp, second.Timestamp = time.Time{}, time.Time{}
	a, _ := json.Marshal(first)
	c, _ := json.Marshal(second)
	if string(a) != string(c) {
		t.Errorf("expected identical envelopes apart from timestamp:\n%s\n%s", a, c)
	}
}

func TestBuilder_BuildGeneric(t *testing.T) {
	b := NewBuilder()
	env := b.BuildGeneric(http.StatusInternalServerError, stderrors.New("boom"), "/users/99")

	if !strings.Contains(env.DeveloperMessage, "/users/99") {
		t.Errorf("expected path in developer message, got %q", env.DeveloperMessage)
	}
	if env.DeveloperMessage != "path: /users/99" {
		t.Errorf("unexpected developer message %q", env.DeveloperMessage)
	}
	if env.Title != "Internal Server Error" {
		t.Errorf("expected reason phrase title, got %q", env.Title)
	}
	if env.Detail != "boom" {
		t.Errorf("expected detail boom, got %q", env.Detail)
	}
}

func TestBuilder_BuildGenericNilError(t *testing.T) {
	env := NewBuilder().BuildGeneric(http.StatusNotFound, nil, "/missing")
	if env.Detail != "" {
		t.Errorf("expected empty detail, got %q", env.Detail)
	}
	if env.Errors == nil {
		t.Error("expected non-nil errors")
	}
}

func TestBuilder_WithMaxCauseDepth(t *testing.T) {
	err := fmt.Errorf("a: %w", fmt.Errorf("b: %w", &testConstraintError{violations: []Violation{
		testViolation{value: 1, msg: "m"},
	}}))

	if env := NewBuilder(WithMaxCauseDepth(1)).Build("t", 400, err); env.HasViolations() {
		t.Error("expected depth 1 to miss the violation")
	}
	if env := NewBuilder(WithMaxCauseDepth(3)).Build("t", 400, err); !env.HasViolations() {
		t.Error("expected depth 3 to find the violation")
	}
}

func TestErrorEnvelope_JSONFieldOrder(t *testing.T) {
	env := NewBuilder().Build("Title", http.StatusBadRequest, stderrors.New("detail"))
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(raw)

	keys := []string{`"title"`, `"status"`, `"detail"`, `"timestamp"`, `"developerMessage"`, `"errors"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, k)
		if idx < 0 {
			t.Fatalf("missing key %s in %s", k, s)
		}
		if idx <= last {
			t.Errorf("key %s out of order in %s", k, s)
		}
		last = idx
	}
	if !strings.Contains(s, `"errors":[]`) {
		t.Errorf("expected empty errors array, got %s", s)
	}
}
