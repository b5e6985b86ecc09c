package errors

import (
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NewValidationError(DuplicateKeyValue, "key %q already registered", "email")

	kind, ok := KindOf(err)
	if !ok {
		t.Fatal("expected a ValidationError kind")
	}
	if kind != DuplicateKeyValue {
		t.Errorf("expected kind %q, got %q", DuplicateKeyValue, kind)
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("create failed: %w", NewValidationError(NoChange, "nothing to amend"))

	if !IsKind(err, NoChange) {
		t.Errorf("expected wrapped error to report kind %q", NoChange)
	}
}

func TestKindOfPlainError(t *testing.T) {
	if _, ok := KindOf(fmt.Errorf("storage unavailable")); ok {
		t.Error("expected no kind for a plain error")
	}
}

func TestIsKindMismatch(t *testing.T) {
	err := NewValidationError(NotFound, "pix key not found")
	if IsKind(err, AlreadyInactive) {
		t.Error("expected kind mismatch")
	}
}
