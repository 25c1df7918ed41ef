package vybiumstark

import "fmt"

// ErrorCode classifies a StarkError by the pipeline stage that produced it.
type ErrorCode int

const (
	// ErrUnknown is an unclassified error.
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig marks a Config that failed Validate.
	ErrInvalidConfig

	// ErrFieldCreation marks a failure constructing the finite field.
	ErrFieldCreation

	// ErrInvalidClaim marks a malformed or inconsistent public claim
	// (trace shape, assertions, AIR register counts).
	ErrInvalidClaim

	// ErrProofGeneration marks a failure during Prove.
	ErrProofGeneration

	// ErrProofVerification marks a failure during Verify that is not
	// itself a rejected proof (a malformed proof, a mismatched config).
	ErrProofVerification

	// ErrInvalidProof marks a structurally malformed proof encountered
	// while parsing the wire format.
	ErrInvalidProof
)

// StarkError is the error type every exported function in this package
// returns, wrapping an ErrorCode so callers can branch on failure kind
// without string-matching error messages.
type StarkError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *StarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybiumstark error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybiumstark error [%d]: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *StarkError) Unwrap() error { return e.Cause }

// Is reports whether target is a *StarkError with the same Code.
func (e *StarkError) Is(target error) bool {
	t, ok := target.(*StarkError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code ErrorCode, message string, cause error) *StarkError {
	return &StarkError{Code: code, Message: message, Cause: cause}
}
