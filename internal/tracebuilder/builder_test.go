package tracebuilder

import (
	"testing"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

func TestBuildFibonacci(t *testing.T) {
	field := core.Default64Field
	initial := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(1)}

	trace, err := Build(initial, 8, func(current []*core.FieldElement, _ int) []*core.FieldElement {
		return []*core.FieldElement{current[1], current[0].Add(current[1])}
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if trace.Shape != (Shape{Width: 2, Length: 8}) {
		t.Fatalf("Shape = %+v, want {Width: 2, Length: 8}", trace.Shape)
	}

	want := []int64{1, 2, 3, 5, 8, 13, 21, 34}
	for step, row := range trace.Rows {
		if row[1].String() != field.NewElementFromInt64(want[step]).String() {
			t.Errorf("row %d register 1 = %s, want %d", step, row[1], want[step])
		}
	}

	col := trace.Column(1)
	if len(col) != 8 {
		t.Fatalf("Column(1) length = %d, want 8", len(col))
	}
	if !col[7].Equal(field.NewElementFromInt64(34)) {
		t.Errorf("Column(1)[7] = %s, want 34", col[7])
	}
}

func TestBuildErrors(t *testing.T) {
	field := core.Default64Field
	identity := func(current []*core.FieldElement, _ int) []*core.FieldElement { return current }

	t.Run("NonPositiveLength", func(t *testing.T) {
		if _, err := Build([]*core.FieldElement{field.Zero()}, 0, identity); err == nil {
			t.Error("expected an error for a zero-length trace")
		}
	})

	t.Run("EmptyInitialRow", func(t *testing.T) {
		if _, err := Build(nil, 4, identity); err == nil {
			t.Error("expected an error for an empty initial row")
		}
	})

	t.Run("StepFunctionChangesWidth", func(t *testing.T) {
		badStep := func(current []*core.FieldElement, _ int) []*core.FieldElement {
			return append(current, field.Zero())
		}
		if _, err := Build([]*core.FieldElement{field.Zero()}, 3, badStep); err == nil {
			t.Error("expected an error when the step function changes row width")
		}
	})
}
