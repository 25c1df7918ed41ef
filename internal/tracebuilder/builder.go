// Package tracebuilder implements execution trace construction: an
// initial row plus a per-step transition function unrolled into a full
// trace matrix, with shape metadata recorded for the proof's traceShape
// field. Row-by-row recording, generalized away from a fixed instruction
// set to any caller-supplied step function.
package tracebuilder

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

// Shape records the trace matrix's dimensions, the wire format's
// traceShape field.
type Shape struct {
	Width  int
	Length int
}

// Trace is the fully unrolled execution trace: Length rows of Width field
// elements each, row-major.
type Trace struct {
	Rows  [][]*core.FieldElement
	Shape Shape
}

// Column extracts one register's values across every step, in step order —
// the representation the Evaluation Context interpolates.
func (t *Trace) Column(index int) []*core.FieldElement {
	col := make([]*core.FieldElement, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[index]
	}
	return col
}

// StepFunction advances the trace by one row: given the current row and
// its step index, it returns the next row. It is the "init; for step in
// 0..T" loop expressed as a closure, so the builder stays independent of
// any particular computation.
type StepFunction func(current []*core.FieldElement, step int) []*core.FieldElement

// Build unrolls a trace of the given length from an initial row, applying
// next for the remaining rows.
func Build(initial []*core.FieldElement, length int, next StepFunction) (*Trace, error) {
	if length <= 0 {
		return nil, fmt.Errorf("tracebuilder: trace length must be positive, got %d", length)
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("tracebuilder: initial row must have at least one register")
	}

	rows := make([][]*core.FieldElement, length)
	rows[0] = append([]*core.FieldElement{}, initial...)
	for step := 1; step < length; step++ {
		row := next(rows[step-1], step-1)
		if len(row) != len(initial) {
			return nil, fmt.Errorf("tracebuilder: step %d produced %d registers, expected %d", step, len(row), len(initial))
		}
		rows[step] = row
	}

	return &Trace{
		Rows:  rows,
		Shape: Shape{Width: len(initial), Length: length},
	}, nil
}
