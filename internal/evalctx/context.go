// Package evalctx implements the Evaluation Context: the trace domain D_T
// and the composition and evaluation domains D_C and D_E, all generated by
// powers of one shared root of unity. D_T is a subgroup; D_C and D_E are
// cosets of subgroups, offset by the field's generator.
package evalctx

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/core"
)

// Domain is a coset {offset * generator^i : 0 <= i < Size} of the field's
// unit group. A nil/one Offset makes it the plain subgroup.
type Domain struct {
	Generator *core.FieldElement
	Offset    *core.FieldElement
	Size      uint64
}

// Elements materializes every point of the domain, in generator-power order.
func (d Domain) Elements() []*core.FieldElement {
	field := d.Generator.Field()
	offset := d.Offset
	if offset == nil {
		offset = field.One()
	}
	out := make([]*core.FieldElement, d.Size)
	out[0] = offset
	for i := uint64(1); i < d.Size; i++ {
		out[i] = out[i-1].Mul(d.Generator)
	}
	return out
}

// Context bundles the three evaluation domains: the trace domain
// D_T (size = trace length), the composition domain
// D_C (used to evaluate and commit the composition polynomial), and the
// full evaluation/LDE domain D_E (used for the trace's low-degree
// extension). All three generators are powers of one primitive root of
// unity of order |D_E|; D_C and D_E are offset cosets (see New).
type Context struct {
	Field            *core.Field
	TraceLength      uint64
	CompositionScale uint64 // |D_C| / |D_T|
	EvaluationScale  uint64 // |D_E| / |D_T|
	offset           *core.FieldElement
	omegaE           *core.FieldElement
	Trace            Domain
	Composition      Domain
	Evaluation       Domain
}

// New builds an Evaluation Context for a trace of the given length, a
// composition-domain blowup (relative to the trace domain) and an overall
// evaluation-domain blowup, both powers of two. D_C and D_E are cosets of
// D_T offset by the field's generator, so they never intersect D_T: D_T's
// containment in D_C and D_E is index-nested (every D_T step corresponds
// to a fixed stride in D_C and D_E) rather than literal set membership,
// which lets the composition polynomial's division by the zero
// polynomial avoid the 0/0 indeterminate the zero polynomial's own roots
// would otherwise cause. See DESIGN.md for this resolved Open Question.
//
// compositionScale must be at least k1, the smallest power of two at
// least airDef's maximum transition-constraint degree (the composition
// domain has to be large enough to hold the composition polynomial that
// degree produces); evaluationScale must fall in [2*k1, 32], the extension
// range that keeps FRI's folding sound while bounding proof size.
func New(field *core.Field, traceLength uint64, airDef air.AIR, compositionScale, evaluationScale uint64) (*Context, error) {
	if !isPowerOfTwo(traceLength) {
		return nil, fmt.Errorf("evalctx: trace length %d must be a power of two", traceLength)
	}
	if !isPowerOfTwo(compositionScale) || !isPowerOfTwo(evaluationScale) {
		return nil, fmt.Errorf("evalctx: domain scale factors must be powers of two")
	}
	if evaluationScale < compositionScale {
		return nil, fmt.Errorf("evalctx: evaluation domain must be at least as large as the composition domain")
	}

	k1 := requiredCompositionScale(airDef)
	if compositionScale < k1 {
		return nil, fmt.Errorf("evalctx: composition domain blowup %d is smaller than %d, the minimum for this AIR's max constraint degree", compositionScale, k1)
	}
	if evaluationScale < 2*k1 {
		return nil, fmt.Errorf("evalctx: evaluation domain blowup %d is below the minimum 2*k1 = %d for this AIR's max constraint degree", evaluationScale, 2*k1)
	}
	if evaluationScale > 32 {
		return nil, fmt.Errorf("evalctx: evaluation domain blowup %d exceeds the maximum of 32", evaluationScale)
	}

	evalSize := traceLength * evaluationScale
	omegaE, err := field.PrimitiveRootOfUnity(evalSize)
	if err != nil {
		return nil, fmt.Errorf("evalctx: derive root of unity of order %d: %w", evalSize, err)
	}

	traceGen := omegaE.ExpInt(int64(evaluationScale))
	compGen := omegaE.ExpInt(int64(evaluationScale / compositionScale))
	offset := field.Generator()

	return &Context{
		Field:            field,
		TraceLength:      traceLength,
		CompositionScale: compositionScale,
		EvaluationScale:  evaluationScale,
		offset:           offset,
		omegaE:           omegaE,
		Trace:            Domain{Generator: traceGen, Size: traceLength},
		Composition:      Domain{Generator: compGen, Offset: offset, Size: traceLength * compositionScale},
		Evaluation:       Domain{Generator: omegaE, Offset: offset, Size: evalSize},
	}, nil
}

// EvaluationGenerator returns the shared root of unity omega, the generator
// of D_E; the generators of D_T and D_C are powers of it.
func (c *Context) EvaluationGenerator() *core.FieldElement { return c.omegaE }

// InterpolateTraceColumn interpolates one trace column (evaluations over
// D_T, in domain order) into its unique polynomial of degree < |D_T|.
func (c *Context) InterpolateTraceColumn(values []*core.FieldElement) (*core.Polynomial, error) {
	if uint64(len(values)) != c.Trace.Size {
		return nil, fmt.Errorf("evalctx: column has %d values, expected %d", len(values), c.Trace.Size)
	}
	coeffs, err := core.InverseNTT(values, c.Trace.Generator)
	if err != nil {
		return nil, fmt.Errorf("evalctx: interpolate trace column: %w", err)
	}
	return core.NewPolynomial(coeffs)
}

// EvaluateOverEvaluationDomain evaluates a polynomial (of degree < |D_E|)
// over every point of the offset coset D_E via NTT: the low-degree
// extension step.
func (c *Context) EvaluateOverEvaluationDomain(p *core.Polynomial) ([]*core.FieldElement, error) {
	padded := c.padAndShift(p, c.Evaluation.Size)
	values, err := core.NTT(padded, c.omegaE)
	if err != nil {
		return nil, fmt.Errorf("evalctx: evaluate over evaluation domain: %w", err)
	}
	return values, nil
}

// EvaluateOverCompositionDomain evaluates a polynomial over every point of
// the offset coset D_C, used when committing the composition polynomial.
func (c *Context) EvaluateOverCompositionDomain(p *core.Polynomial) ([]*core.FieldElement, error) {
	padded := c.padAndShift(p, c.Composition.Size)
	values, err := core.NTT(padded, c.Composition.Generator)
	if err != nil {
		return nil, fmt.Errorf("evalctx: evaluate over composition domain: %w", err)
	}
	return values, nil
}

// padAndShift zero-pads p's coefficients to size and scales coefficient i
// by offset^i, so an ordinary NTT over the subgroup evaluates p at
// offset*generator^i instead of generator^i.
func (c *Context) padAndShift(p *core.Polynomial, size uint64) []*core.FieldElement {
	coeffs := p.Coefficients()
	zero := c.Field.Zero()
	out := make([]*core.FieldElement, size)
	power := c.Field.One()
	for i := range out {
		if uint64(i) < uint64(len(coeffs)) {
			out[i] = coeffs[i].Mul(power)
		} else {
			out[i] = zero
		}
		power = power.Mul(c.offset)
	}
	return out
}

func isPowerOfTwo(n uint64) bool { return n != 0 && n&(n-1) == 0 }

// requiredCompositionScale returns k1, the smallest power of two at least
// airDef's maximum declared transition-constraint degree.
func requiredCompositionScale(airDef air.AIR) uint64 {
	maxDegree := 1
	for _, decl := range airDef.TransitionConstraints() {
		if decl.Degree > maxDegree {
			maxDegree = decl.Degree
		}
	}
	k1 := uint64(1)
	for k1 < uint64(maxDegree) {
		k1 <<= 1
	}
	return k1
}
