package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "bookings not found"},
			expected: "NOT_FOUND: bookings not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should see the wrapped cause")
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Bookings"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("Invalid PIN"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"too many requests", TooManyRequests("slow down", time.Minute), CodeTooManyRequests, http.StatusTooManyRequests},
		{"payload too large", PayloadTooLarge(10), CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported media type", UnsupportedMediaType("json only"), CodeUnsupportedType, http.StatusUnsupportedMediaType},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"unavailable", Unavailable("Booking store"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestTooManyRequests_RoundsRetryAfterUp(t *testing.T) {
	err := TooManyRequests("slow down", 1500*time.Millisecond)

	if got := err.Details[DetailRetryAfter]; got != 2 {
		t.Errorf("expected retry_after 2, got %v", got)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Bookings")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("service layer: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should find an AppError through wrapping")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WriteError(w, errors.New("mongo: write concern error at 10.0.0.3")); err != nil {
		t.Fatalf("WriteError returned %v", err)
	}

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.3") {
		t.Errorf("internal detail leaked into response: %s", w.Body.String())
	}

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Code != CodeInternal || body.Message == "" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestWriteError_SetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()

	_ = WriteError(w, TooManyRequests("Too many attempts, please try again later.", 90*time.Second))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "90" {
		t.Errorf("expected Retry-After 90, got %q", got)
	}
}

func TestAppError_ToJSON(t *testing.T) {
	jsonStr := string(NotFoundWithID("Bookings", "2099-01-01").ToJSON())

	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, "2099-01-01") {
		t.Errorf("ToJSON() should contain details")
	}
}
