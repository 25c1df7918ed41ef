// Package air defines the consumed AIR (Algebraic Intermediate
// Representation) contract. A DSL compiler that would produce an AIR from
// source text is out of scope; instead a caller supplies the compiled
// form directly as a small set of closures over field elements, behind
// a reusable interface rather than a hardcoded constraint set.
package air

import "github.com/vybium/vybium-stark-engine/internal/core"

// RegisterCounts describes the trace's column layout: mutable state
// registers plus the two readonly kinds this engine's closure-based AIR
// contract distinguishes (see DESIGN.md's "readonly registers" resolved
// open question for why nested-loop counters have no separate field
// here).
type RegisterCounts struct {
	State  int // number of mutable trace registers
	Public int // number of readonly registers fed from the public input stream
	Secret int // number of readonly registers fed from the secret input stream
}

// Total is the trace matrix's full row count R, the width tracebuilder.Trace
// and every downstream component (LDE, commitment, composition) operate
// over: mutable and readonly registers share one matrix, so nothing
// downstream needs to distinguish them by index range.
func (r RegisterCounts) Total() int { return r.State + r.Public + r.Secret }

// ConstraintDeclaration records the algebraic degree of one transition
// constraint polynomial, needed for the composition polynomial's
// degree-adjustment step.
type ConstraintDeclaration struct {
	Name   string
	Degree int
}

// AIR is the compiled algebraic intermediate representation a caller
// supplies to the engine: given the current (and, for transition
// constraints, next) row of the trace, it evaluates every declared
// constraint to a field element that must be zero on a valid trace.
type AIR interface {
	// RegisterCounts reports the trace's column layout.
	RegisterCounts() RegisterCounts

	// TransitionConstraints returns the declared transition constraints,
	// in the fixed order their evaluations must appear in for the
	// composition polynomial's random linear combination: constraint
	// order determines transcript coefficient order, so it must be
	// deterministic.
	TransitionConstraints() []ConstraintDeclaration

	// EvaluateTransition evaluates every transition constraint given the
	// current and next trace rows, returning one field element per
	// declared constraint in the same order as TransitionConstraints.
	EvaluateTransition(current, next []*core.FieldElement) []*core.FieldElement
}

// Script is the closure-based form a caller assembles an AIR from; Compile
// validates it and wraps it as an AIR. This mirrors what a real DSL
// front-end's compile(script) step would hand back, without the front-end.
type Script struct {
	Registers   RegisterCounts
	Constraints []ConstraintDeclaration
	Evaluator   func(current, next []*core.FieldElement) []*core.FieldElement
}

type compiledAIR struct {
	registers   RegisterCounts
	constraints []ConstraintDeclaration
	evaluator   func(current, next []*core.FieldElement) []*core.FieldElement
}

// Compile validates a Script and returns it as an AIR.
func Compile(script Script) (AIR, error) {
	if script.Registers.State <= 0 {
		return nil, errInvalidScript("state register count must be positive")
	}
	if script.Registers.Public < 0 || script.Registers.Secret < 0 {
		return nil, errInvalidScript("public/secret register counts must be non-negative")
	}
	if len(script.Constraints) == 0 {
		return nil, errInvalidScript("at least one transition constraint must be declared")
	}
	if script.Evaluator == nil {
		return nil, errInvalidScript("evaluator function must be provided")
	}
	return &compiledAIR{
		registers:   script.Registers,
		constraints: append([]ConstraintDeclaration{}, script.Constraints...),
		evaluator:   script.Evaluator,
	}, nil
}

func (c *compiledAIR) RegisterCounts() RegisterCounts { return c.registers }

func (c *compiledAIR) TransitionConstraints() []ConstraintDeclaration {
	return append([]ConstraintDeclaration{}, c.constraints...)
}

func (c *compiledAIR) EvaluateTransition(current, next []*core.FieldElement) []*core.FieldElement {
	return c.evaluator(current, next)
}

type scriptError string

func (e scriptError) Error() string { return "air: " + string(e) }

func errInvalidScript(msg string) error { return scriptError(msg) }
