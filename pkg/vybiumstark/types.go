package vybiumstark

import (
	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/boundary"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/stark"
	"github.com/vybium/vybium-stark-engine/internal/tracebuilder"
)

// Assertion pins one register's trace value at one step to a known value:
// the public claim a proof binds to. The register and step are caller
// chosen; Value is supplied as a base-10 decimal string so callers never
// need to reach into internal/core directly.
type Assertion struct {
	Register int
	Step     int
	Value    string
}

// AIR is the public re-export of the consumed AIR contract: a compiled
// transition-constraint evaluator over a register layout a caller
// assembles with CompileScript.
type AIR = air.AIR

// RegisterCounts describes an AIR's trace column layout.
type RegisterCounts = air.RegisterCounts

// ConstraintDeclaration records one transition constraint's algebraic degree.
type ConstraintDeclaration = air.ConstraintDeclaration

// Script is the closure-based form callers assemble an AIR from.
type Script = air.Script

// CompileScript validates script and returns it as an AIR, the public
// mirror of internal/air.Compile.
func CompileScript(script Script) (AIR, error) {
	return air.Compile(script)
}

// FieldElement re-exports the field element type Trace rows and assertion
// values are built from, so callers driving a custom trace builder never
// need to import internal/core.
type FieldElement = core.FieldElement

// Trace is the execution trace a caller builds before calling Prove: one
// row per step, each row holding every mutable and readonly register's
// value in the order the AIR's RegisterCounts declares.
type Trace = tracebuilder.Trace

// Shape describes a trace's dimensions (register count and step count)
// independent of its contents, the public claim Verify checks a proof
// against.
type Shape = tracebuilder.Shape

// StepFunction advances the trace by one row.
type StepFunction = tracebuilder.StepFunction

// BuildTrace unrolls a trace of the given length from an initial row,
// applying next for every subsequent row — the public mirror of
// internal/tracebuilder.Build.
func BuildTrace(initial []*FieldElement, length int, next StepFunction) (*Trace, error) {
	return tracebuilder.Build(initial, length, next)
}

// resolveAssertions converts the public, string-valued Assertion list into
// the internal/boundary representation bound to field.
func resolveAssertions(field *core.Field, assertions []Assertion) ([]boundary.Assertion, error) {
	if len(assertions) == 0 {
		return nil, newError(ErrInvalidClaim, "at least one assertion is required", nil)
	}
	out := make([]boundary.Assertion, len(assertions))
	for i, a := range assertions {
		value, err := core.ParseDecimal(field, a.Value)
		if err != nil {
			return nil, newError(ErrInvalidClaim, "assertion value is not a valid decimal field element", err)
		}
		out[i] = boundary.Assertion{Register: a.Register, Step: a.Step, Value: value}
	}
	return out, nil
}

// starkParams builds the internal/stark.Params this package's Config
// describes, constructing the field handle along the way.
func (c *Config) starkParams() (stark.Params, *core.Field, error) {
	if err := c.Validate(); err != nil {
		return stark.Params{}, nil, err
	}
	field, err := c.buildField()
	if err != nil {
		return stark.Params{}, nil, err
	}
	return stark.Params{
		Field:            field,
		CompositionScale: uint64(c.CompositionBlowup),
		EvaluationScale:  uint64(c.EvaluationBlowup),
		NumQueries:       maxInt(c.ExeQueryCount, c.FriQueryCount),
		HashFunction:     c.HashFunction,
	}, field, nil
}

// maxInt returns the larger of a and b. internal/stark draws one shared
// batch of query positions that is used both to open the execution trace
// and to open FRI, so it is sized to satisfy whichever of the two
// configured query counts is larger; see DESIGN.md.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
