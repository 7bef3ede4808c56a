package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Title != "Resource Not Found" {
		t.Errorf("expected default title, got %q", err.Title)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
}

func TestAppError_Error_IsMessage(t *testing.T) {
	err := ResourceNotFound("user 15 not found").WithCause(fmt.Errorf("row missing"))
	if err.Error() != "user 15 not found" {
		t.Errorf("expected plain message, got %q", err.Error())
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Internal(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the cause")
	}

	if ResourceFound("x").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
		title  string
	}{
		{"ResourceNotFound", ResourceNotFound("user 1"), ErrCodeNotFound, http.StatusNotFound, "Resource Not Found"},
		{"ResourceFound", ResourceFound("user exists"), ErrCodeResourceFound, http.StatusBadRequest, "Unexpected Resource"},
		{"MissingParameter", MissingParameter("id", "int"), ErrCodeMissingParameter, http.StatusBadRequest, "Parameter Missing"},
		{"UnsupportedMediaType", UnsupportedMediaType("text/plain", []string{"application/json"}), ErrCodeUnsupportedMediaType, http.StatusUnsupportedMediaType, "Unsupported Media Type"},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, "Internal Server Error"},
		{"Unavailable", Unavailable(nil), ErrCodeDatabaseError, http.StatusServiceUnavailable, "Service Unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Title != tc.title {
				t.Errorf("expected title %q, got %q", tc.title, tc.err.Title)
			}
		})
	}
}

func TestMissingParameter_Message(t *testing.T) {
	err := MissingParameter("page", "int")
	if err.Message != "Parameter Missing: page Type: int" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Details["parameter"] != "page" {
		t.Errorf("expected parameter detail, got %v", err.Details)
	}
}

func TestTitleFor_Unknown(t *testing.T) {
	if got := TitleFor("SOMETHING_ELSE"); got != "SOMETHING_ELSE" {
		t.Errorf("expected code as fallback title, got %q", got)
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	appErr := ResourceNotFound("x")
	wrapped := fmt.Errorf("wrapped: %w", appErr)

	if !IsAppError(wrapped) {
		t.Error("expected IsAppError through wrapping")
	}
	got, ok := AsAppError(wrapped)
	if !ok || got != appErr {
		t.Error("expected AsAppError to return the original")
	}
	if !HasCode(wrapped, ErrCodeNotFound) {
		t.Error("expected HasCode NOT_FOUND")
	}
	if HasCode(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("expected HasCode false for plain error")
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("expected AsAppError false for plain error")
	}
}
