package vybiumstark

import (
	"github.com/vybium/vybium-stark-engine/internal/stark"
)

// Prove produces a Proof that trace satisfies airDef's transition
// constraints and every assertion in assertions, under cfg. It wraps
// internal/stark.Prove, translating the public string-valued Assertion
// and Config types into the internal representation the proving pipeline
// operates on.
func Prove(cfg *Config, airDef AIR, trace *Trace, assertions []Assertion) (*Proof, error) {
	params, field, err := cfg.starkParams()
	if err != nil {
		return nil, err
	}
	resolved, err := resolveAssertions(field, assertions)
	if err != nil {
		return nil, err
	}
	proof, err := stark.Prove(params, airDef, trace, resolved)
	if err != nil {
		return nil, newError(ErrProofGeneration, "proof generation failed", err)
	}
	return proof, nil
}

// Verify reports whether proof attests that some trace of the given shape
// satisfies airDef's transition constraints and every assertion in
// assertions, under cfg. A return of (false, nil) means the proof was
// well-formed but rejected; a non-nil error means verification could not
// even be attempted (bad config, a malformed claim, or a structurally
// broken proof).
func Verify(cfg *Config, airDef AIR, assertions []Assertion, traceShape Shape, proof *Proof) (bool, error) {
	params, field, err := cfg.starkParams()
	if err != nil {
		return false, err
	}
	resolved, err := resolveAssertions(field, assertions)
	if err != nil {
		return false, err
	}
	ok, err := stark.Verify(params, airDef, resolved, traceShape, proof)
	if err != nil {
		return false, newError(ErrProofVerification, "verification failed", err)
	}
	return ok, nil
}
