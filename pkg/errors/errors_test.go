package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSize, "surface size %vx%v", 0, 10)

	if err.Code != ErrCodeInvalidSize {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSize)
	}
	if err.Message != "surface size 0x10" {
		t.Errorf("Message = %v, want %v", err.Message, "surface size 0x10")
	}

	expected := "INVALID_SIZE: surface size 0x10"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "save snapshot")

	if err.Code != ErrCodeStore {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStore)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "STORE_ERROR: save snapshot: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNodeNotFound, "x"), ErrCodeNodeNotFound, true},
		{"different code", New(ErrCodeNodeNotFound, "x"), ErrCodeInvalidNode, false},
		{"wrapped with fmt", fmt.Errorf("restore: %w", New(ErrCodeInvalidFormat, "x")), ErrCodeInvalidFormat, true},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
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
	if got := GetCode(New(ErrCodeStore, "x")); got != ErrCodeStore {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeStore)
	}
	if got := GetCode(errors.New("x")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidName, "bad name")); got != "bad name" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad name")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
