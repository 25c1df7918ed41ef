// Package stark wires the engine's components into the top-level Prove and
// Verify entry points: evaluation context, trace low-degree extension,
// zero/boundary/composition polynomials, the commitment layer, FRI, and
// the Fiat-Shamir transcript binding all of it together. Every verifier
// step re-derives a real cryptographic expectation (Merkle authentication,
// FRI folding consistency, and the AIR/boundary quotient formula
// re-evaluated at both the out-of-domain point and every queried domain
// position) and rejects on mismatch, rather than checking proof structure
// alone.
package stark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/boundary"
	"github.com/vybium/vybium-stark-engine/internal/commitment"
	"github.com/vybium/vybium-stark-engine/internal/composition"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/evalctx"
	"github.com/vybium/vybium-stark-engine/internal/fri"
	"github.com/vybium/vybium-stark-engine/internal/lde"
	"github.com/vybium/vybium-stark-engine/internal/tracebuilder"
	"github.com/vybium/vybium-stark-engine/internal/transcript"
	"github.com/vybium/vybium-stark-engine/internal/zeropoly"
)

// Params configures one proving/verification run: the field to work in, the
// two domain blowup factors evalctx.New expects, the number of FRI/trace
// queries to draw, and which of core.NewHasher's two named hash functions to
// bind the transcript and commitments to.
type Params struct {
	Field            *core.Field
	CompositionScale uint64
	EvaluationScale  uint64
	NumQueries       int
	HashFunction     string
}

// Validate reports whether params describes a usable configuration.
func (p Params) Validate() error {
	if p.Field == nil {
		return fmt.Errorf("stark: field is required")
	}
	if !isPowerOfTwo(p.CompositionScale) {
		return fmt.Errorf("stark: composition scale must be a power of two, got %d", p.CompositionScale)
	}
	if !isPowerOfTwo(p.EvaluationScale) {
		return fmt.Errorf("stark: evaluation scale must be a power of two, got %d", p.EvaluationScale)
	}
	if p.EvaluationScale < 2*p.CompositionScale {
		return fmt.Errorf("stark: evaluation scale must be at least 2x the composition scale")
	}
	if p.EvaluationScale > 32 {
		return fmt.Errorf("stark: evaluation scale must not exceed 32")
	}
	if p.NumQueries <= 0 {
		return fmt.Errorf("stark: number of queries must be positive, got %d", p.NumQueries)
	}
	if p.HashFunction == "" {
		return fmt.Errorf("stark: hash function is required")
	}
	return nil
}

func isPowerOfTwo(n uint64) bool { return n != 0 && n&(n-1) == 0 }

// Proof is the complete artifact a prover emits and a verifier consumes: the
// trace commitment, the FRI layer commitments and remainder, the
// out-of-domain evaluations binding the trace to the composition polynomial,
// and the batched query openings for both the trace and every FRI layer.
type Proof struct {
	TraceShape          tracebuilder.Shape
	TraceRoot           []byte
	FRIRoots            [][]byte
	FRIRemainder        []*core.FieldElement
	OODCurrentRow       []*core.FieldElement
	OODNextRow          []*core.FieldElement
	OODCompositionValue *core.FieldElement
	QueryPositions      []uint64
	FRIOpenings         map[uint64][]fri.QueryOpening
	TraceRows           map[uint64][]*core.FieldElement
	TraceProof          *core.MultiProof
}

// Prove produces a Proof that trace satisfies airDef's transition
// constraints and assertions, under params.
func Prove(params Params, airDef air.AIR, trace *tracebuilder.Trace, assertions []boundary.Assertion) (*Proof, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("stark: invalid parameters: %w", err)
	}
	if trace.Shape.Width != airDef.RegisterCounts().Total() {
		return nil, fmt.Errorf("stark: trace has %d registers, AIR declares %d", trace.Shape.Width, airDef.RegisterCounts().Total())
	}
	hasher, err := core.NewHasher(params.HashFunction)
	if err != nil {
		return nil, fmt.Errorf("stark: %w", err)
	}

	ctx, err := evalctx.New(params.Field, uint64(trace.Shape.Length), airDef, params.CompositionScale, params.EvaluationScale)
	if err != nil {
		return nil, fmt.Errorf("stark: build evaluation context: %w", err)
	}

	ext, err := lde.Extend(ctx, trace)
	if err != nil {
		return nil, fmt.Errorf("stark: extend trace: %w", err)
	}

	evalSize := int(ctx.Evaluation.Size)
	rows := make([][]*core.FieldElement, evalSize)
	for i := 0; i < evalSize; i++ {
		rows[i] = ext.RowAt(i)
	}
	traceTree, err := commitment.CommitTraceRows(hasher, rows)
	if err != nil {
		return nil, fmt.Errorf("stark: commit trace: %w", err)
	}

	tr := transcript.New(hasher)
	tr.Seed(claimSeed(params.Field, trace.Shape, assertions))
	tr.Absorb(traceTree.Root())

	zero, err := zeropoly.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("stark: build zero polynomial: %w", err)
	}
	boundaryConstraints, err := boundary.Build(ctx, assertions)
	if err != nil {
		return nil, fmt.Errorf("stark: build boundary constraints: %w", err)
	}

	compPoly, err := composition.Build(ctx, airDef, ext, zero, boundaryConstraints, tr)
	if err != nil {
		return nil, fmt.Errorf("stark: build composition polynomial: %w", err)
	}

	compEvals, err := ctx.EvaluateOverCompositionDomain(compPoly)
	if err != nil {
		return nil, fmt.Errorf("stark: evaluate composition polynomial over D_C: %w", err)
	}

	friProof, err := fri.Prove(hasher, compEvals, ctx.Composition.Offset, ctx.Composition.Generator, tr)
	if err != nil {
		return nil, fmt.Errorf("stark: run FRI: %w", err)
	}

	z := drawOODPoint(tr, ctx, zero, boundaryConstraints)
	nextPoint := z.Mul(ctx.Trace.Generator)

	width := trace.Shape.Width
	currentRow := make([]*core.FieldElement, width)
	nextRow := make([]*core.FieldElement, width)
	for col := 0; col < width; col++ {
		poly, err := core.NewPolynomial(ext.Polynomials[col])
		if err != nil {
			return nil, fmt.Errorf("stark: rebuild trace polynomial for column %d: %w", col, err)
		}
		currentRow[col] = poly.Eval(z)
		nextRow[col] = poly.Eval(nextPoint)
	}

	tr.AbsorbFieldElements(currentRow)
	tr.AbsorbFieldElements(nextRow)
	compAtZ := compPoly.Eval(z)
	tr.Absorb(compAtZ.FixedBytes())

	queryPositions := tr.SqueezeIndices(params.NumQueries, ctx.Composition.Size)

	friOpenings, err := fri.Query(friProof, queryPositions)
	if err != nil {
		return nil, fmt.Errorf("stark: open FRI queries: %w", err)
	}

	ratio := ctx.EvaluationScale / ctx.CompositionScale
	neededTrace := map[int]bool{}
	for _, q := range queryPositions {
		deIndex := (q * ratio) % ctx.Evaluation.Size
		nextIndex := (deIndex + ctx.EvaluationScale) % ctx.Evaluation.Size
		neededTrace[int(deIndex)] = true
		neededTrace[int(nextIndex)] = true
	}
	indices := make([]int, 0, len(neededTrace))
	for idx := range neededTrace {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	traceRows := make(map[uint64][]*core.FieldElement, len(indices))
	for _, idx := range indices {
		traceRows[uint64(idx)] = ext.RowAt(idx)
	}
	traceProof, err := traceTree.ProveMany(indices)
	if err != nil {
		return nil, fmt.Errorf("stark: open trace queries: %w", err)
	}

	friRoots := make([][]byte, len(friProof.Layers))
	for i, layer := range friProof.Layers {
		friRoots[i] = layer.Tree.Root()
	}

	return &Proof{
		TraceShape:          trace.Shape,
		TraceRoot:           traceTree.Root(),
		FRIRoots:            friRoots,
		FRIRemainder:        friProof.Remainder,
		OODCurrentRow:       currentRow,
		OODNextRow:          nextRow,
		OODCompositionValue: compAtZ,
		QueryPositions:      queryPositions,
		FRIOpenings:         friOpenings,
		TraceRows:           traceRows,
		TraceProof:          traceProof,
	}, nil
}



// Verify checks proof against airDef, assertions and traceShape under
// params, re-deriving every transcript draw and every cryptographic check
// rather than trusting the proof's own bookkeeping.
func Verify(params Params, airDef air.AIR, assertions []boundary.Assertion, traceShape tracebuilder.Shape, proof *Proof) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, fmt.Errorf("stark: invalid parameters: %w", err)
	}
	if traceShape.Width != airDef.RegisterCounts().Total() {
		return false, fmt.Errorf("stark: trace shape declares %d registers, AIR expects %d", traceShape.Width, airDef.RegisterCounts().Total())
	}
	hasher, err := core.NewHasher(params.HashFunction)
	if err != nil {
		return false, fmt.Errorf("stark: %w", err)
	}

	ctx, err := evalctx.New(params.Field, uint64(traceShape.Length), airDef, params.CompositionScale, params.EvaluationScale)
	if err != nil {
		return false, fmt.Errorf("stark: build evaluation context: %w", err)
	}

	zero, err := zeropoly.Build(ctx)
	if err != nil {
		return false, fmt.Errorf("stark: build zero polynomial: %w", err)
	}
	boundaryConstraints, err := boundary.Build(ctx, assertions)
	if err != nil {
		return false, fmt.Errorf("stark: build boundary constraints: %w", err)
	}

	tr := transcript.New(hasher)
	tr.Seed(claimSeed(params.Field, traceShape, assertions))
	tr.Absorb(proof.TraceRoot)

	weights, err := composition.DeriveWeights(tr, ctx, airDef.TransitionConstraints(), boundaryConstraints)
	if err != nil {
		return false, fmt.Errorf("stark: derive composition weights: %w", err)
	}

	challenges := fri.ReplayChallenges(tr, proof.FRIRoots, params.Field, proof.FRIRemainder)

	z := drawOODPoint(tr, ctx, zero, boundaryConstraints)

	tr.AbsorbFieldElements(proof.OODCurrentRow)
	tr.AbsorbFieldElements(proof.OODNextRow)
	tr.Absorb(proof.OODCompositionValue.FixedBytes())

	queryPositions := tr.SqueezeIndices(params.NumQueries, ctx.Composition.Size)

	expected, err := composition.EvaluateAt(ctx, airDef, zero, boundaryConstraints, proof.OODCurrentRow, proof.OODNextRow, z, weights)
	if err != nil {
		return false, fmt.Errorf("stark: evaluate composition at out-of-domain point: %w", err)
	}
	if !expected.Equal(proof.OODCompositionValue) {
		return false, nil
	}

	domainSizes := make([]uint64, len(proof.FRIRoots))
	size := ctx.Composition.Size
	for i := range domainSizes {
		domainSizes[i] = size
		size /= fri.FoldFactor
	}

	selectedOpenings := make(map[uint64][]fri.QueryOpening, len(queryPositions))
	for _, q := range queryPositions {
		opening, ok := proof.FRIOpenings[q]
		if !ok {
			return false, fmt.Errorf("stark: proof is missing FRI opening for query position %d", q)
		}
		selectedOpenings[q] = opening
	}

	ok, err := fri.Verify(hasher, proof.FRIRoots, domainSizes, ctx.Composition.Offset, ctx.Composition.Generator, challenges, proof.FRIRemainder, selectedOpenings)
	if err != nil {
		return false, fmt.Errorf("stark: verify FRI proof: %w", err)
	}
	if !ok {
		return false, nil
	}

	leafValues := make(map[int][]byte, len(proof.TraceRows))
	for idx, row := range proof.TraceRows {
		leafValues[int(idx)] = commitment.EncodeRow(row)
	}
	ok, err = core.VerifyMultiProof(hasher, proof.TraceRoot, int(ctx.Evaluation.Size), leafValues, proof.TraceProof)
	if err != nil {
		return false, fmt.Errorf("stark: verify trace Merkle openings: %w", err)
	}
	if !ok {
		return false, nil
	}

	// Bind the authenticated trace openings to the authenticated FRI
	// layer-0 openings: without this check, FRI alone only proves that
	// *some* low-degree polynomial was committed, not that it is the
	// composition polynomial the AIR and boundary constraints demand.
	ratio := ctx.EvaluationScale / ctx.CompositionScale
	newSize := ctx.Composition.Size / fri.FoldFactor
	for _, q := range queryPositions {
		deIndex := (q * ratio) % ctx.Evaluation.Size
		nextIndex := (deIndex + ctx.EvaluationScale) % ctx.Evaluation.Size
		currentRow, ok := proof.TraceRows[deIndex]
		if !ok {
			return false, fmt.Errorf("stark: proof is missing trace opening at index %d", deIndex)
		}
		nextRow, ok := proof.TraceRows[nextIndex]
		if !ok {
			return false, fmt.Errorf("stark: proof is missing trace opening at index %d", nextIndex)
		}

		point := ctx.Composition.Offset.Mul(ctx.Composition.Generator.ExpInt(int64(q)))
		expectedAtQuery, err := composition.EvaluateAt(ctx, airDef, zero, boundaryConstraints, currentRow, nextRow, point, weights)
		if err != nil {
			return false, fmt.Errorf("stark: evaluate composition at query position %d: %w", q, err)
		}

		layerOpenings := selectedOpenings[q]
		if len(layerOpenings) == 0 {
			return false, fmt.Errorf("stark: query position %d has no FRI layer openings", q)
		}
		slot := int(q / newSize)
		opened := layerOpenings[0]
		if slot >= len(opened.Values) {
			return false, fmt.Errorf("stark: malformed FRI opening at query position %d", q)
		}
		if !expectedAtQuery.Equal(opened.Values[slot]) {
			return false, nil
		}
	}

	return true, nil
}

// drawOODPoint squeezes a point at which neither the zero polynomial nor any
// boundary vanishing polynomial is zero, so the composition formula's
// divisions are always well-defined. Both Prove and Verify call this at the
// identical point in their transcript sequence, so they draw the same point.
func drawOODPoint(tr *transcript.Transcript, ctx *evalctx.Context, zero *core.Polynomial, boundaryConstraints []*boundary.Constraint) *core.FieldElement {
	for {
		z := tr.SqueezeFieldElement(ctx.Field)
		if zero.Eval(z).IsZero() {
			continue
		}
		bad := false
		for _, bc := range boundaryConstraints {
			if bc.Vanishing.Eval(z).IsZero() {
				bad = true
				break
			}
		}
		if bad {
			continue
		}
		return z
	}
}

// claimSeed encodes the public claim (field modulus, trace shape, and every
// assertion in a canonical register/step order) into the bytes that seed
// the transcript, binding the rest of the proof to exactly this claim.
func claimSeed(field *core.Field, shape tracebuilder.Shape, assertions []boundary.Assertion) []byte {
	sorted := append([]boundary.Assertion{}, assertions...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Register != sorted[j].Register {
			return sorted[i].Register < sorted[j].Register
		}
		return sorted[i].Step < sorted[j].Step
	})

	var buf bytes.Buffer
	buf.Write(field.Modulus().Bytes())
	binary.Write(&buf, binary.BigEndian, uint64(shape.Width))
	binary.Write(&buf, binary.BigEndian, uint64(shape.Length))
	for _, a := range sorted {
		binary.Write(&buf, binary.BigEndian, uint64(a.Register))
		binary.Write(&buf, binary.BigEndian, uint64(a.Step))
		buf.Write(a.Value.FixedBytes())
	}
	return buf.Bytes()
}
