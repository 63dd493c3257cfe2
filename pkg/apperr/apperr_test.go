package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetch tickets: %w", Network(cause))

	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network kind, got %q", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay on the unwrap chain")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("plain errors carry no kind, got %q", got)
	}
}

func TestErrorMessageRendering(t *testing.T) {
	if got := NotFound("ticket").Error(); got != "ticket not found" {
		t.Fatalf("message = %q", got)
	}

	wrapped := Auth("invalid credentials", errors.New("status 400"))
	if got := wrapped.Error(); got != "invalid credentials: status 400" {
		t.Fatalf("message = %q", got)
	}
}
