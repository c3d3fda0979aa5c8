package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewEngineNotFoundError("engine missing", nil)
	if err.Error() != "engine_not_found: engine missing" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}

	cause := fmt.Errorf("exec: not found")
	wrapped := NewEngineInvokeError("invoke failed", cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped cause should be reachable via errors.Is")
	}
	if wrapped.Unwrap() != cause {
		t.Fatal("Unwrap should return the cause")
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{NewValidationError("bad", nil), ErrorTypeValidation},
		{NewOcrRuntimeError("engine said no", nil), ErrorTypeOcrRuntime},
		{NewAcquisitionError("no selection", nil), ErrorTypeAcquisition},
		{NewImageFileError("missing", nil), ErrorTypeImageFile},
		{NewOutputDispatchError("no clipboard", nil), ErrorTypeOutputDispatch},
	}
	for _, tt := range tests {
		if got := GetErrorType(tt.err); got != tt.want {
			t.Fatalf("GetErrorType(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestWrapError(t *testing.T) {
	inner := NewImageFileError("unreadable", nil)
	wrapped := WrapError(inner, "", "while acquiring")
	if wrapped.Type != ErrorTypeImageFile {
		t.Fatalf("wrapping an AppError without a type should keep its type, got %s", wrapped.Type)
	}
	if wrapped.Message != "while acquiring: unreadable" {
		t.Fatalf("unexpected combined message: %s", wrapped.Message)
	}

	plain := fmt.Errorf("plain failure")
	wrapped = WrapError(plain, ErrorTypeIO, "while writing")
	if wrapped.Type != ErrorTypeIO {
		t.Fatalf("wrapping a plain error should apply the given type, got %s", wrapped.Type)
	}

	if WrapError(nil, ErrorTypeIO, "nothing") != nil {
		t.Fatal("wrapping nil should return nil")
	}
}
