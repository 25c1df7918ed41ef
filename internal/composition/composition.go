// Package composition implements the composition polynomial: constraint
// evaluation over the evaluation domain, division by the zero polynomial,
// a degree-adjustment power series so every term reaches a common target
// degree, and a transcript-drawn random linear combination of both the
// transition-constraint quotients and the boundary-constraint quotients.
// Built as a weighted linear combination of constraints followed by
// division by the vanishing polynomial, with an explicit degree-adjustment
// step so constraint-grouping order determines transcript coefficient
// order deterministically.
package composition

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/boundary"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/evalctx"
	"github.com/vybium/vybium-stark-engine/internal/lde"
	"github.com/vybium/vybium-stark-engine/internal/transcript"
)

// Build evaluates the composition polynomial over the full evaluation
// domain D_E and returns it in coefficient form (interpolated from those
// evaluations), ready for the commitment layer to commit over D_C.
//
// The transcript must already have absorbed the trace commitment root
// before this call, so the coefficients it draws here are bound to the
// specific trace being proved.
func Build(
	ctx *evalctx.Context,
	airDef air.AIR,
	ext *lde.Extension,
	zero *core.Polynomial,
	boundaryConstraints []*boundary.Constraint,
	tr *transcript.Transcript,
) (*core.Polynomial, error) {
	field := ctx.Field
	transitionDecls := airDef.TransitionConstraints()

	weights, err := DeriveWeights(tr, ctx, transitionDecls, boundaryConstraints)
	if err != nil {
		return nil, fmt.Errorf("composition: derive transcript weights: %w", err)
	}

	zeroEvals, err := ctx.EvaluateOverEvaluationDomain(zero)
	if err != nil {
		return nil, fmt.Errorf("composition: evaluate zero polynomial over D_E: %w", err)
	}
	zeroInverses := make([]*core.FieldElement, len(zeroEvals))
	for i, v := range zeroEvals {
		inv, err := v.Inv()
		if err != nil {
			return nil, fmt.Errorf("composition: zero polynomial vanishes inside the evaluation coset at index %d: %w", i, err)
		}
		zeroInverses[i] = inv
	}

	evalSize := ctx.Evaluation.Size
	combined := make([]*core.FieldElement, evalSize)
	for i := range combined {
		combined[i] = field.Zero()
	}

	// Transition constraints: one pair of transcript-drawn coefficients
	// per declared constraint (the plain term and its degree-adjusted
	// partner), drawn in declaration order.
	for ci := range transitionDecls {
		alpha := weights.Alpha[ci]
		alphaAdjust := weights.AlphaAdjust[ci]
		adjustShift := weights.AdjustShift[ci]

		for idx := 0; idx < int(evalSize); idx++ {
			current := ext.RowAt(idx)
			next := ext.RowAt((idx + int(ctx.EvaluationScale)) % int(evalSize))
			values := airDef.EvaluateTransition(current, next)
			if ci >= len(values) {
				return nil, fmt.Errorf("composition: AIR returned %d constraint values, expected at least %d", len(values), ci+1)
			}
			quotient := values[ci].Mul(zeroInverses[idx])

			point := ctx.Evaluation.Offset.Mul(ctx.Evaluation.Generator.ExpInt(int64(idx)))
			adjustedTerm := alphaAdjust.Mul(point.ExpInt(int64(adjustShift)))
			weight := alpha.Add(adjustedTerm)

			combined[idx] = combined[idx].Add(quotient.Mul(weight))
		}
	}

	// Boundary constraints: one coefficient per register with assertions,
	// plus a degree-adjusted partner (mirroring the transition constraints'
	// adjustment above) whose shift is 0 when the composition degree does
	// not exceed the boundary quotient's degree.
	for bi, bc := range boundaryConstraints {
		beta := weights.Beta[bi]
		betaAdjust := weights.BetaAdjust[bi]
		adjustShift := weights.BetaAdjustShift[bi]

		poly := ext.Polynomials[bc.Register]
		tracePoly, err := core.NewPolynomial(poly)
		if err != nil {
			return nil, fmt.Errorf("composition: rebuild trace polynomial for register %d: %w", bc.Register, err)
		}
		diff, err := tracePoly.Sub(bc.Interpolant)
		if err != nil {
			return nil, fmt.Errorf("composition: subtract boundary interpolant for register %d: %w", bc.Register, err)
		}
		diffEvals, err := ctx.EvaluateOverEvaluationDomain(diff)
		if err != nil {
			return nil, fmt.Errorf("composition: evaluate boundary difference for register %d: %w", bc.Register, err)
		}
		vanishingEvals, err := ctx.EvaluateOverEvaluationDomain(bc.Vanishing)
		if err != nil {
			return nil, fmt.Errorf("composition: evaluate boundary vanishing polynomial for register %d: %w", bc.Register, err)
		}
		for idx := 0; idx < int(evalSize); idx++ {
			inv, err := vanishingEvals[idx].Inv()
			if err != nil {
				return nil, fmt.Errorf("composition: boundary vanishing polynomial is zero inside the evaluation coset at index %d: %w", idx, err)
			}
			quotient := diffEvals[idx].Mul(inv)

			point := ctx.Evaluation.Offset.Mul(ctx.Evaluation.Generator.ExpInt(int64(idx)))
			adjustedTerm := betaAdjust.Mul(point.ExpInt(int64(adjustShift)))
			weight := beta.Add(adjustedTerm)

			combined[idx] = combined[idx].Add(quotient.Mul(weight))
		}
	}

	coeffs, err := core.InverseNTT(combined, ctx.Evaluation.Generator)
	if err != nil {
		return nil, fmt.Errorf("composition: interpolate combined evaluations: %w", err)
	}
	// coeffs are the coefficients of C(offset * x); undo the coset shift to
	// recover C's true coefficients by multiplying coefficient i by
	// offset^-i, undoing the Mul-by-offset^i step padAndShift applies in
	// the forward direction.
	offsetInv, err := ctx.Evaluation.Offset.Inv()
	if err != nil {
		return nil, fmt.Errorf("composition: invert evaluation coset offset: %w", err)
	}
	power := field.One()
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(power)
		power = power.Mul(offsetInv)
	}

	return core.NewPolynomial(coeffs)
}

// EvaluateAt evaluates the composition polynomial's defining expression at
// a single out-of-domain point, the verifier's single-point path, without
// needing the full D_E evaluation vector.
func EvaluateAt(
	ctx *evalctx.Context,
	airDef air.AIR,
	zero *core.Polynomial,
	boundaryConstraints []*boundary.Constraint,
	currentRow, nextRow []*core.FieldElement,
	point *core.FieldElement,
	weights compositionWeights,
) (*core.FieldElement, error) {
	field := ctx.Field
	zAtPoint := zero.Eval(point)
	zInv, err := zAtPoint.Inv()
	if err != nil {
		return nil, fmt.Errorf("composition: zero polynomial vanishes at OOD point: %w", err)
	}

	result := field.Zero()
	values := airDef.EvaluateTransition(currentRow, nextRow)
	for ci, v := range values {
		if ci >= len(weights.Alpha) {
			break
		}
		quotient := v.Mul(zInv)
		adjustedTerm := weights.AlphaAdjust[ci].Mul(point.ExpInt(int64(weights.AdjustShift[ci])))
		weight := weights.Alpha[ci].Add(adjustedTerm)
		result = result.Add(quotient.Mul(weight))
	}

	for i, bc := range boundaryConstraints {
		diff := currentRow[bc.Register].Sub(bc.Interpolant.Eval(point))
		vanishingAtPoint := bc.Vanishing.Eval(point)
		inv, err := vanishingAtPoint.Inv()
		if err != nil {
			return nil, fmt.Errorf("composition: boundary vanishing polynomial vanishes at OOD point for register %d: %w", bc.Register, err)
		}
		adjustedTerm := weights.BetaAdjust[i].Mul(point.ExpInt(int64(weights.BetaAdjustShift[i])))
		weight := weights.Beta[i].Add(adjustedTerm)
		result = result.Add(diff.Mul(inv).Mul(weight))
	}

	return result, nil
}

// compositionWeights carries the exact transcript-drawn coefficients the
// prover used, so the verifier's single-point evaluation reproduces the
// identical combination without re-deriving them from a fresh transcript
// draw (the verifier reconstructs these by replaying the same transcript
// operations the prover performed, in internal/stark).
type compositionWeights struct {
	Alpha           []*core.FieldElement
	AlphaAdjust     []*core.FieldElement
	AdjustShift     []uint64
	Beta            []*core.FieldElement
	BetaAdjust      []*core.FieldElement
	BetaAdjustShift []uint64
}

// NewWeights constructs a compositionWeights value; exported so
// internal/stark can assemble it from a replayed transcript.
func NewWeights(alpha, alphaAdjust []*core.FieldElement, adjustShift []uint64, beta, betaAdjust []*core.FieldElement, betaAdjustShift []uint64) compositionWeights {
	return compositionWeights{
		Alpha:           alpha,
		AlphaAdjust:     alphaAdjust,
		AdjustShift:     adjustShift,
		Beta:            beta,
		BetaAdjust:      betaAdjust,
		BetaAdjustShift: betaAdjustShift,
	}
}

// DeriveWeights draws the exact sequence of transcript values Build mixes
// into the composition polynomial: one (alpha, alphaAdjust) pair per
// transition constraint, in declaration order, followed by one
// (beta, betaAdjust) pair per boundary constraint. Both the prover (from inside Build) and the
// verifier (replaying the transcript over the public roots it received)
// call this so the two sides draw identical coefficients without the
// verifier ever seeing the trace.
func DeriveWeights(
	tr *transcript.Transcript,
	ctx *evalctx.Context,
	transitionDecls []air.ConstraintDeclaration,
	boundaryConstraints []*boundary.Constraint,
) (compositionWeights, error) {
	field := ctx.Field
	targetDegree := ctx.Composition.Size - 1

	alpha := make([]*core.FieldElement, len(transitionDecls))
	alphaAdjust := make([]*core.FieldElement, len(transitionDecls))
	adjustShift := make([]uint64, len(transitionDecls))
	for ci, decl := range transitionDecls {
		alpha[ci] = tr.SqueezeFieldElement(field)
		alphaAdjust[ci] = tr.SqueezeFieldElement(field)

		quotientDegree := estimateQuotientDegree(decl.Degree, ctx.TraceLength)
		if targetDegree > quotientDegree {
			adjustShift[ci] = targetDegree - quotientDegree
		}
	}

	// Boundary constraints: deg(B_r) <= T-1 (see internal/boundary), so the
	// same degree-adjustment shift applies uniformly to every boundary
	// register rather than varying per declared constraint degree.
	boundaryDegree := ctx.TraceLength - 1
	var boundaryAdjustShift uint64
	if targetDegree > boundaryDegree {
		boundaryAdjustShift = targetDegree - boundaryDegree
	}

	beta := make([]*core.FieldElement, len(boundaryConstraints))
	betaAdjust := make([]*core.FieldElement, len(boundaryConstraints))
	betaAdjustShift := make([]uint64, len(boundaryConstraints))
	for bi := range boundaryConstraints {
		beta[bi] = tr.SqueezeFieldElement(field)
		betaAdjust[bi] = tr.SqueezeFieldElement(field)
		betaAdjustShift[bi] = boundaryAdjustShift
	}

	return compositionWeights{
		Alpha:           alpha,
		AlphaAdjust:     alphaAdjust,
		AdjustShift:     adjustShift,
		Beta:            beta,
		BetaAdjust:      betaAdjust,
		BetaAdjustShift: betaAdjustShift,
	}, nil
}

func estimateQuotientDegree(constraintDegree int, traceLength uint64) uint64 {
	n := traceLength - 1
	raw := uint64(constraintDegree)*n - n
	return raw
}
