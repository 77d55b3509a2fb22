package failure_test

import (
	"errors"
	"fmt"
	"gatepass/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() error
		code    int
		message string
	}{
		{
			name:    "BadRequest",
			build:   func() error { return failure.BadRequest(errors.New("validation failed")) },
			code:    http.StatusBadRequest,
			message: "validation failed",
		},
		{
			name:    "BadRequestFromString",
			build:   func() error { return failure.BadRequestFromString("custom bad request") },
			code:    http.StatusBadRequest,
			message: "custom bad request",
		},
		{
			name:    "Unauthorized",
			build:   func() error { return failure.Unauthorized("token expired") },
			code:    http.StatusUnauthorized,
			message: "token expired",
		},
		{
			name:    "Forbidden",
			build:   func() error { return failure.Forbidden("access denied") },
			code:    http.StatusForbidden,
			message: "access denied",
		},
		{
			name:    "NotFound",
			build:   func() error { return failure.NotFound("booking") },
			code:    http.StatusNotFound,
			message: "booking",
		},
		{
			name:    "Conflict",
			build:   func() error { return failure.Conflict("already resolved") },
			code:    http.StatusConflict,
			message: "already resolved",
		},
		{
			name:    "Unavailable",
			build:   func() error { return failure.Unavailable("broker unreachable") },
			code:    http.StatusServiceUnavailable,
			message: "broker unreachable",
		},
		{
			name:    "InternalError",
			build:   func() error { return failure.InternalError(errors.New("connection reset")) },
			code:    http.StatusInternalServerError,
			message: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.build()

			f, ok := result.(*failure.Failure)
			if !ok {
				t.Fatalf("expected result to be *failure.Failure, got %T", result)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}
			if f.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, f.Message)
			}
		})
	}
}

func TestNilErrors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}
	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("handling request: %w", failure.Conflict("already resolved")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}
