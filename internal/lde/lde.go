// Package lde implements the trace's low-degree extension: each trace
// column is interpolated over the trace domain D_T and then evaluated
// over the full evaluation domain D_E, using the evaluation context's
// NTT-backed domains rather than direct O(n^2) evaluation. No
// zero-knowledge blinding polynomial is added; this engine does not
// claim zero-knowledge, only soundness and succinctness.
package lde

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/evalctx"
	"github.com/vybium/vybium-stark-engine/internal/tracebuilder"
)

// Extension holds, per column, the interpolated trace polynomial and its
// evaluations over the full evaluation domain D_E.
type Extension struct {
	Polynomials [][]*core.FieldElement // coefficient form, one slice per column
	Evaluations [][]*core.FieldElement // D_E evaluations, one slice per column
}

// Extend performs the low-degree extension of every column of trace.
func Extend(ctx *evalctx.Context, trace *tracebuilder.Trace) (*Extension, error) {
	width := trace.Shape.Width
	polys := make([][]*core.FieldElement, width)
	evals := make([][]*core.FieldElement, width)

	for col := 0; col < width; col++ {
		poly, err := ctx.InterpolateTraceColumn(trace.Column(col))
		if err != nil {
			return nil, fmt.Errorf("lde: interpolate column %d: %w", col, err)
		}
		values, err := ctx.EvaluateOverEvaluationDomain(poly)
		if err != nil {
			return nil, fmt.Errorf("lde: evaluate column %d over D_E: %w", col, err)
		}
		polys[col] = poly.Coefficients()
		evals[col] = values
	}

	return &Extension{Polynomials: polys, Evaluations: evals}, nil
}

// RowAt reassembles the row of extended values at evaluation-domain
// position index, the shape the composition polynomial's evaluator and the
// commitment layer's leaves both need.
func (e *Extension) RowAt(index int) []*core.FieldElement {
	row := make([]*core.FieldElement, len(e.Evaluations))
	for col, values := range e.Evaluations {
		row[col] = values[index]
	}
	return row
}
