// Package zeropoly implements the zero polynomial:
// Z(x) = (x^T - 1) / (x - g^(T-1)), the polynomial that vanishes on every
// trace-domain point except the last, since transition constraints only
// need to hold between consecutive rows and the trace has no row after
// the last one. Built by dividing the plain vanishing polynomial X^T - 1
// by the single linear factor for the last domain point, producing this
// punctured form instead.
package zeropoly

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/evalctx"
)

// Build constructs Z(x) for the given Evaluation Context's trace domain.
func Build(ctx *evalctx.Context) (*core.Polynomial, error) {
	field := ctx.Field
	traceLen := ctx.TraceLength

	vanishingCoeffs := make([]*core.FieldElement, traceLen+1)
	for i := range vanishingCoeffs {
		vanishingCoeffs[i] = field.Zero()
	}
	vanishingCoeffs[0] = field.NewElementFromInt64(-1)
	vanishingCoeffs[traceLen] = field.One()
	vanishing, err := core.NewPolynomial(vanishingCoeffs)
	if err != nil {
		return nil, fmt.Errorf("zeropoly: build vanishing polynomial: %w", err)
	}

	lastPoint := ctx.Trace.Generator.ExpInt(int64(traceLen - 1))
	divisor, err := core.NewPolynomial([]*core.FieldElement{lastPoint.Neg(), field.One()})
	if err != nil {
		return nil, fmt.Errorf("zeropoly: build (x - g^(T-1)): %w", err)
	}

	quotient, remainder, err := vanishing.Div(divisor)
	if err != nil {
		return nil, fmt.Errorf("zeropoly: divide vanishing polynomial: %w", err)
	}
	if !remainder.Coefficient(0).IsZero() || remainder.Degree() != 0 {
		return nil, fmt.Errorf("zeropoly: division left a nonzero remainder, trace domain is malformed")
	}

	return quotient, nil
}

// EvalAt evaluates Z at a single point from its closed form, without
// building the polynomial.
func EvalAt(ctx *evalctx.Context, point *core.FieldElement) *core.FieldElement {
	field := ctx.Field
	numerator := point.ExpInt(int64(ctx.TraceLength)).Sub(field.One())
	lastPoint := ctx.Trace.Generator.ExpInt(int64(ctx.TraceLength - 1))
	denominator := point.Sub(lastPoint)
	result, err := numerator.Div(denominator)
	if err != nil {
		// point coincides with g^(T-1); Z is defined there by continuity
		// as the derivative-limit value, which callers avoid by never
		// sampling the OOD point from the trace domain itself.
		return field.NewElementFromUint64(ctx.TraceLength).Mul(point.ExpInt(int64(ctx.TraceLength - 1)))
	}
	return result
}
