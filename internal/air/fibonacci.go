package air

import "github.com/vybium/vybium-stark-engine/internal/core"

// Fibonacci returns a two-register Fibonacci AIR: register 0 holds
// F(n-1), register 1 holds F(n), and each step advances the pair by one
// recurrence step. Expressed as two direct polynomial constraints of
// degree 1, rather than as a sequence of fixed VM opcodes.
func Fibonacci(field *core.Field) (AIR, error) {
	return Compile(Script{
		Registers: RegisterCounts{State: 2},
		Constraints: []ConstraintDeclaration{
			{Name: "advance_low", Degree: 1},
			{Name: "advance_high", Degree: 1},
		},
		Evaluator: func(current, next []*core.FieldElement) []*core.FieldElement {
			// next[0] must equal current[1]
			c0 := next[0].Sub(current[1])
			// next[1] must equal current[0] + current[1]
			c1 := next[1].Sub(current[0].Add(current[1]))
			return []*core.FieldElement{c0, c1}
		},
	})
}
