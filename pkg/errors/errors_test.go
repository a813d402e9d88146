package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidInput, "invalid gateway kind: %s", "GRPC")
	if got := plain.Error(); got != "INVALID_INPUT: invalid gateway kind: GRPC" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("boom")
	wrapped := Wrap(ErrCodeInternal, cause, "render %s", "svg")
	if got := wrapped.Error(); got != "INTERNAL_ERROR: render svg: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeNotFound, "no such layout")

	if !Is(err, ErrCodeNotFound) {
		t.Error("Is failed to match the code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}

	// Codes survive fmt wrapping.
	deep := fmt.Errorf("outer: %w", err)
	if !Is(deep, ErrCodeNotFound) {
		t.Error("Is failed through a wrapping layer")
	}

	if got := GetCode(deep); got != ErrCodeNotFound {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFormat, "bad format")); got != "bad format" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}
