package air

import (
	"testing"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

func TestRegisterCountsTotal(t *testing.T) {
	rc := RegisterCounts{State: 2, Public: 1, Secret: 3}
	if got := rc.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
}

func TestCompile(t *testing.T) {
	field := core.Default64Field
	evaluator := func(current, next []*core.FieldElement) []*core.FieldElement {
		return []*core.FieldElement{next[0].Sub(current[0])}
	}

	t.Run("ValidScript", func(t *testing.T) {
		a, err := Compile(Script{
			Registers:   RegisterCounts{State: 1},
			Constraints: []ConstraintDeclaration{{Name: "identity", Degree: 1}},
			Evaluator:   evaluator,
		})
		if err != nil {
			t.Fatalf("Compile returned error: %v", err)
		}
		if a.RegisterCounts().Total() != 1 {
			t.Errorf("RegisterCounts().Total() = %d, want 1", a.RegisterCounts().Total())
		}
		if len(a.TransitionConstraints()) != 1 {
			t.Errorf("len(TransitionConstraints()) = %d, want 1", len(a.TransitionConstraints()))
		}
		out := a.EvaluateTransition([]*core.FieldElement{field.NewElementFromInt64(5)}, []*core.FieldElement{field.NewElementFromInt64(5)})
		if !out[0].IsZero() {
			t.Errorf("evaluator on a satisfying row did not return zero: %s", out[0])
		}
	})

	t.Run("ZeroStateRegisters", func(t *testing.T) {
		_, err := Compile(Script{
			Registers:   RegisterCounts{State: 0},
			Constraints: []ConstraintDeclaration{{Name: "identity", Degree: 1}},
			Evaluator:   evaluator,
		})
		if err == nil {
			t.Error("expected an error for zero state registers")
		}
	})

	t.Run("NegativeReadonlyRegisters", func(t *testing.T) {
		_, err := Compile(Script{
			Registers:   RegisterCounts{State: 1, Secret: -1},
			Constraints: []ConstraintDeclaration{{Name: "identity", Degree: 1}},
			Evaluator:   evaluator,
		})
		if err == nil {
			t.Error("expected an error for a negative secret register count")
		}
	})

	t.Run("NoConstraints", func(t *testing.T) {
		_, err := Compile(Script{
			Registers: RegisterCounts{State: 1},
			Evaluator: evaluator,
		})
		if err == nil {
			t.Error("expected an error for zero declared constraints")
		}
	})

	t.Run("NoEvaluator", func(t *testing.T) {
		_, err := Compile(Script{
			Registers:   RegisterCounts{State: 1},
			Constraints: []ConstraintDeclaration{{Name: "identity", Degree: 1}},
		})
		if err == nil {
			t.Error("expected an error for a missing evaluator")
		}
	})
}

func TestFibonacci(t *testing.T) {
	field := core.Default64Field
	fib, err := Fibonacci(field)
	if err != nil {
		t.Fatalf("Fibonacci returned error: %v", err)
	}
	if fib.RegisterCounts() != (RegisterCounts{State: 2}) {
		t.Errorf("RegisterCounts() = %+v, want {State: 2}", fib.RegisterCounts())
	}

	current := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(1)}
	next := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(2)}
	for _, v := range fib.EvaluateTransition(current, next) {
		if !v.IsZero() {
			t.Errorf("satisfying Fibonacci step evaluated to %s, want 0", v)
		}
	}

	badNext := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(3)}
	zero := true
	for _, v := range fib.EvaluateTransition(current, badNext) {
		if !v.IsZero() {
			zero = false
		}
	}
	if zero {
		t.Error("a broken Fibonacci step evaluated to all zeros")
	}
}

func TestRescueCompiles(t *testing.T) {
	field := core.Default64Field
	rescue, err := Rescue(field)
	if err != nil {
		t.Fatalf("Rescue returned error: %v", err)
	}
	if rescue.RegisterCounts() != (RegisterCounts{State: 2}) {
		t.Errorf("RegisterCounts() = %+v, want {State: 2}", rescue.RegisterCounts())
	}
	if len(rescue.TransitionConstraints()) != 2 {
		t.Errorf("len(TransitionConstraints()) = %d, want 2", len(rescue.TransitionConstraints()))
	}
}

func TestCounter(t *testing.T) {
	field := core.Default64Field
	counter, err := Counter(field)
	if err != nil {
		t.Fatalf("Counter returned error: %v", err)
	}
	if counter.RegisterCounts() != (RegisterCounts{State: 1, Public: 1}) {
		t.Errorf("RegisterCounts() = %+v, want {State: 1, Public: 1}", counter.RegisterCounts())
	}

	current := []*core.FieldElement{field.NewElementFromInt64(10), field.NewElementFromInt64(3)}
	next := []*core.FieldElement{field.NewElementFromInt64(13), field.NewElementFromInt64(7)}
	for _, v := range counter.EvaluateTransition(current, next) {
		if !v.IsZero() {
			t.Errorf("satisfying Counter step evaluated to %s, want 0", v)
		}
	}
}
