package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")

	wrapped := fmt.Errorf("fetch lists: %w", &NetworkError{Err: cause})
	var netErr *NetworkError
	if !errors.As(wrapped, &netErr) {
		t.Error("NetworkError not recoverable through wrap")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause not recoverable through NetworkError")
	}

	storErr := &StorageError{Op: "set general/x", Err: cause}
	if !errors.Is(storErr, cause) {
		t.Error("cause not recoverable through StorageError")
	}
}

func TestAuthErrorMessage(t *testing.T) {
	err := &AuthError{Reason: "not authenticated"}
	if err.Error() != "auth: not authenticated" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
