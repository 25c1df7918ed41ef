// Package vybiumstark is the public entry point to a STARK proving and
// verification engine: compile an AIR, build a Trace against it, call Prove
// to get a Proof, and call Verify to check one. Config chooses the field,
// domain blowup factors and hash function a proving/verification run uses;
// Serialize/Parse move a Proof to and from its wire format.
//
// A minimal round trip:
//
//	cfg := vybiumstark.DefaultConfig()
//	airDef, _ := vybiumstark.CompileScript(vybiumstark.Script{...})
//	trace, _ := vybiumstark.BuildTrace(initial, length, step)
//	proof, err := vybiumstark.Prove(cfg, airDef, trace, assertions)
//	ok, err := vybiumstark.Verify(cfg, airDef, assertions, trace.Shape, proof)
//
// Errors returned from this package are always *StarkError, classified by
// ErrorCode so callers can branch with errors.Is/errors.As instead of
// matching on message text.
package vybiumstark
