// Package fri implements the FRI (Fast Reed-Solomon IOP of Proximity) low
// degree test with fold factor 4: each round folds four domain points (the
// full set of 4th-root-of-unity-related preimages under x -> x^4) into one
// via a transcript-drawn challenge, committing every intermediate layer
// with a Merkle tree (always at least the first one), until the domain
// shrinks to the termination size and the remaining evaluations are sent as
// a raw polynomial.
package fri

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/commitment"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/transcript"
)

// FoldFactor is the number of domain points folded into one per round.
const FoldFactor = 4

// TerminationSize is the domain size at or below which folding stops and
// the remaining evaluations are interpolated and sent in the clear. The
// initial layer is committed and folded once even when its domain is
// already at or below this size.
const TerminationSize = 256

// Layer is one round's committed state: the domain it folded, the Merkle
// tree over its fold-grouped leaves, and the challenge drawn to produce the
// next layer's values.
type Layer struct {
	Values    []*core.FieldElement
	Domain    domainDescriptor
	Tree      *core.MerkleTree
	Challenge *core.FieldElement
}

// domainDescriptor is the minimal domain data FRI needs: it doesn't depend
// on evalctx.Context so this package stays usable standalone.
type domainDescriptor struct {
	Offset    *core.FieldElement
	Generator *core.FieldElement
	Size      uint64
}

// Proof is the full FRI transcript of layers plus the final remainder
// polynomial's coefficients.
type Proof struct {
	Layers    []Layer
	Remainder []*core.FieldElement
}

// Prove runs FRI to completion over an initial set of domain evaluations.
func Prove(hasher core.Hasher, values []*core.FieldElement, offset, generator *core.FieldElement, tr *transcript.Transcript) (*Proof, error) {
	domain := domainDescriptor{Offset: offset, Generator: generator, Size: uint64(len(values))}
	var layers []Layer

	current := values
	for len(layers) == 0 || domain.Size > TerminationSize {
		if domain.Size%FoldFactor != 0 {
			return nil, fmt.Errorf("fri: domain size %d is not divisible by the fold factor %d", domain.Size, FoldFactor)
		}
		// Leaf i holds fold group i: the FoldFactor values at positions
		// i, i+size/FoldFactor, ..., the same values Query opens.
		groupCount := domain.Size / FoldFactor
		grouped := make([]*core.FieldElement, 0, len(current))
		for i := uint64(0); i < groupCount; i++ {
			for j := uint64(0); j < FoldFactor; j++ {
				grouped = append(grouped, current[i+j*groupCount])
			}
		}
		tree, err := commitment.CommitFoldedValues(hasher, grouped, FoldFactor)
		if err != nil {
			return nil, fmt.Errorf("fri: commit layer of size %d: %w", domain.Size, err)
		}
		tr.Absorb(tree.Root())
		challenge := tr.SqueezeFieldElement(generator.Field())

		layers = append(layers, Layer{Values: current, Domain: domain, Tree: tree, Challenge: challenge})

		folded, nextDomain, err := foldLayer(current, domain, challenge)
		if err != nil {
			return nil, fmt.Errorf("fri: fold layer of size %d: %w", domain.Size, err)
		}
		current = folded
		domain = nextDomain
	}

	remainder, err := interpolateRemainder(current, domain)
	if err != nil {
		return nil, fmt.Errorf("fri: interpolate final remainder: %w", err)
	}
	tr.AbsorbFieldElements(remainder)

	return &Proof{Layers: layers, Remainder: remainder}, nil
}

// foldLayer folds one round: every group of FoldFactor domain points that
// share the same image under x -> x^FoldFactor is interpolated and
// evaluated at challenge to produce one output value.
func foldLayer(values []*core.FieldElement, domain domainDescriptor, challenge *core.FieldElement) ([]*core.FieldElement, domainDescriptor, error) {
	newSize := domain.Size / FoldFactor
	field := domain.Generator.Field()

	zeta, err := field.PrimitiveRootOfUnity(FoldFactor)
	if err != nil {
		return nil, domainDescriptor{}, fmt.Errorf("fri: derive order-%d root of unity: %w", FoldFactor, err)
	}

	folded := make([]*core.FieldElement, newSize)
	basePoint := domain.Offset

	for i := uint64(0); i < newSize; i++ {
		points := make([]core.Point, FoldFactor)
		groupPoint := basePoint
		zetaPower := field.One()
		for j := 0; j < FoldFactor; j++ {
			x := groupPoint.Mul(zetaPower)
			points[j] = core.NewPoint(x, values[i+uint64(j)*newSize])
			zetaPower = zetaPower.Mul(zeta)
		}
		poly, err := core.LagrangeInterpolation(points, field)
		if err != nil {
			return nil, domainDescriptor{}, fmt.Errorf("fri: interpolate fold group %d: %w", i, err)
		}
		folded[i] = poly.Eval(challenge)
		basePoint = basePoint.Mul(domain.Generator)
	}

	nextDomain := domainDescriptor{
		Offset:    domain.Offset.ExpInt(FoldFactor),
		Generator: domain.Generator.ExpInt(FoldFactor),
		Size:      newSize,
	}
	return folded, nextDomain, nil
}

// ReplayChallenges reproduces the fold challenges Prove drew, given only the
// public layer roots and remainder a verifier receives: absorbing each root
// and squeezing a challenge in the same order Prove did, then absorbing the
// remainder. It lets the verifier recover the exact challenges without
// access to the folded values themselves.
func ReplayChallenges(tr *transcript.Transcript, roots [][]byte, field *core.Field, remainder []*core.FieldElement) []*core.FieldElement {
	challenges := make([]*core.FieldElement, len(roots))
	for i, root := range roots {
		tr.Absorb(root)
		challenges[i] = tr.SqueezeFieldElement(field)
	}
	tr.AbsorbFieldElements(remainder)
	return challenges
}

func interpolateRemainder(values []*core.FieldElement, domain domainDescriptor) ([]*core.FieldElement, error) {
	coeffs, err := core.InverseNTT(values, domain.Generator)
	if err != nil {
		return nil, err
	}
	// undo the coset offset the same way composition.Build does
	field := domain.Generator.Field()
	offsetInv, err := domain.Offset.Inv()
	if err != nil {
		return nil, err
	}
	power := field.One()
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(power)
		power = power.Mul(offsetInv)
	}
	return coeffs, nil
}
