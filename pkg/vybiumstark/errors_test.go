package vybiumstark

import (
	"errors"
	"testing"
)

func TestStarkErrorIs(t *testing.T) {
	a := newError(ErrInvalidConfig, "bad config", nil)
	b := newError(ErrInvalidConfig, "a different message, same code", nil)
	c := newError(ErrInvalidProof, "unrelated code", nil)

	if !errors.Is(a, b) {
		t.Error("errors with the same code should compare equal via errors.Is")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not compare equal")
	}
}

func TestStarkErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := newError(ErrFieldCreation, "could not build field", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap should expose the wrapped cause to errors.Is")
	}
	if wrapped.Error() == "" {
		t.Error("Error() returned an empty string")
	}
}
