package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDirection, "invalid road direction: %q", "tri")

	if err.Code != ErrCodeInvalidDirection {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDirection)
	}

	if err.Message != `invalid road direction: "tri"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `INVALID_DIRECTION: invalid road direction: "tri"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeIO, cause, "write network.json")

	if err.Code != ErrCodeIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIO)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), "IO_ERROR: write network.json: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNodeNotFound, "n3"), ErrCodeNodeNotFound, true},
		{"non-matching code", New(ErrCodeNodeNotFound, "n3"), ErrCodeIO, false},
		{"outer code wins", Wrap(ErrCodeIO, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeIO, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidConfig, "x")); got != ErrCodeInvalidConfig {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidConfig)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code       Code
		validation bool
		notFound   bool
	}{
		{ErrCodeInvalidDirection, true, false},
		{ErrCodeInvalidConfig, true, false},
		{ErrCodeInvalidStrategy, true, false},
		{ErrCodeNodeNotFound, false, true},
		{ErrCodeFileNotFound, false, true},
		{ErrCodeIO, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "x")
			if got := IsValidation(err); got != tt.validation {
				t.Errorf("IsValidation = %v, want %v", got, tt.validation)
			}
			if got := IsNotFound(err); got != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tt.notFound)
			}
		})
	}
}
