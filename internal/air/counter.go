package air

import "github.com/vybium/vybium-stark-engine/internal/core"

// Counter returns an AIR with one state register driven by a public
// readonly stream:
// register 0 accumulates a running sum, and register 1 is a readonly
// public register holding the per-step increment. The transition
// constraint enforces next[0] == current[0] + current[1], so the
// accumulator's final value is publicly auditable against the increment
// stream without the prover revealing anything beyond what the stream
// itself already shows. Same direct-polynomial-constraint style as
// Fibonacci, exercising RegisterCounts.Public.
func Counter(field *core.Field) (AIR, error) {
	return Compile(Script{
		Registers: RegisterCounts{State: 1, Public: 1},
		Constraints: []ConstraintDeclaration{
			{Name: "accumulate", Degree: 1},
		},
		Evaluator: func(current, next []*core.FieldElement) []*core.FieldElement {
			// next[0] must equal current[0] + current[1], where
			// current[1] is this step's publicly known increment.
			return []*core.FieldElement{next[0].Sub(current[0].Add(current[1]))}
		},
	})
}
