package errors

import (
	"errors"
	"testing"
)

func TestWrapPreservesCodeAndCause(t *testing.T) {
	base := InvalidInput("bad alpha")
	wrapped := Wrap(base, "analysis rejected")

	if GetCode(wrapped) != CodeInvalidInput {
		t.Errorf("expected code %s, got %s", CodeInvalidInput, GetCode(wrapped))
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestWrapPlainError(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := Wrap(base, "failed to persist report")

	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("expected code %s, got %s", CodeInternalError, GetCode(wrapped))
	}
	if got := wrapped.Error(); got != "failed to persist report: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestWithCode(t *testing.T) {
	base := errors.New("no rows")
	coded := WithCode(CodeDatabaseError, base)

	if GetCode(coded) != CodeDatabaseError {
		t.Errorf("expected code %s, got %s", CodeDatabaseError, GetCode(coded))
	}
	if !errors.Is(coded, base) {
		t.Error("coded error should unwrap to the original")
	}
	if WithCode(CodeDatabaseError, nil) != nil {
		t.Error("nil error should stay nil")
	}
}

func TestGetCodeUnknown(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("report")
	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Error() != "report not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
