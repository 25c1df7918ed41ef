package air

import (
	"testing"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

func TestRescueTrace(t *testing.T) {
	field := core.Default128Field
	rescue, err := Rescue(field)
	if err != nil {
		t.Fatalf("Rescue returned error: %v", err)
	}

	initial := []*core.FieldElement{field.NewElementFromInt64(2), field.NewElementFromInt64(3)}
	trace, err := RescueTrace(field, initial, 8)
	if err != nil {
		t.Fatalf("RescueTrace returned error: %v", err)
	}
	if trace.Shape.Width != 2 || trace.Shape.Length != 8 {
		t.Fatalf("trace shape = %+v, want {Width: 2, Length: 8}", trace.Shape)
	}

	for step := 0; step < len(trace.Rows)-1; step++ {
		current := trace.Rows[step]
		next := trace.Rows[step+1]
		for _, v := range rescue.EvaluateTransition(current, next) {
			if !v.IsZero() {
				t.Fatalf("RescueTrace step %d does not satisfy the transition constraints: %s", step, v)
			}
		}
	}
}

func TestRescueTraceRejectsShortLength(t *testing.T) {
	field := core.Default128Field
	initial := []*core.FieldElement{field.NewElementFromInt64(2), field.NewElementFromInt64(3)}
	if _, err := RescueTrace(field, initial, 0); err == nil {
		t.Error("expected an error for a non-positive trace length")
	}
}
