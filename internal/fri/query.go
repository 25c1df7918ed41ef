package fri

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

// QueryOpening is one layer's opened fold group at a queried position: the
// four values in the group plus the batched Merkle authentication data to
// check them against that layer's committed root.
type QueryOpening struct {
	GroupIndex uint64
	Values     []*core.FieldElement
	Proof      *core.MultiProof
}

// Query opens every layer at the fold group containing position for each
// of the given initial-domain query positions, producing the data the
// verifier needs without re-sending entire layers.
func Query(proof *Proof, positions []uint64) (map[uint64][]QueryOpening, error) {
	result := make(map[uint64][]QueryOpening, len(positions))
	for _, pos := range positions {
		var openings []QueryOpening
		idx := pos
		for _, layer := range proof.Layers {
			newSize := layer.Domain.Size / FoldFactor
			group := idx % newSize
			values := make([]*core.FieldElement, FoldFactor)
			indices := make([]int, FoldFactor)
			for j := 0; j < FoldFactor; j++ {
				values[j] = layer.Values[group+uint64(j)*newSize]
				indices[j] = int(group) + j*int(newSize)
			}
			mp, err := layer.Tree.ProveMany([]int{int(group)})
			if err != nil {
				return nil, fmt.Errorf("fri: prove opening at group %d: %w", group, err)
			}
			openings = append(openings, QueryOpening{GroupIndex: group, Values: values, Proof: mp})
			idx = group
		}
		result[pos] = openings
	}
	return result, nil
}

// Verify checks that, for every queried position, each layer's opened fold
// group authenticates against its committed root and folds consistently
// (via the same challenge the prover drew) into the next layer's opened
// value, terminating in agreement with the remainder polynomial.
func Verify(
	hasher core.Hasher,
	roots [][]byte,
	domainSizes []uint64,
	offset, generator *core.FieldElement,
	challenges []*core.FieldElement,
	remainder []*core.FieldElement,
	openings map[uint64][]QueryOpening,
) (bool, error) {
	field := generator.Field()
	zeta, err := field.PrimitiveRootOfUnity(FoldFactor)
	if err != nil {
		return false, fmt.Errorf("fri: derive order-%d root of unity: %w", FoldFactor, err)
	}

	remainderPoly, err := core.NewPolynomial(remainder)
	if err != nil {
		return false, fmt.Errorf("fri: rebuild remainder polynomial: %w", err)
	}

	for pos, layerOpenings := range openings {
		if len(layerOpenings) != len(roots) {
			return false, fmt.Errorf("fri: position %d has %d openings, expected %d layers", pos, len(layerOpenings), len(roots))
		}

		domain := domainDescriptor{Offset: offset, Generator: generator, Size: domainSizes[0]}
		var foldedValue *core.FieldElement
		idx := pos

		for l, opening := range layerOpenings {
			newSize := domain.Size / FoldFactor
			leafValues := map[int][]byte{int(opening.GroupIndex): encodeGroup(opening.Values)}
			ok, err := core.VerifyMultiProof(hasher, roots[l], int(domain.Size/FoldFactor), leafValues, opening.Proof)
			if err != nil {
				return false, fmt.Errorf("fri: verify layer %d Merkle opening: %w", l, err)
			}
			if !ok {
				return false, nil
			}
			if uint64(opening.GroupIndex) != idx%newSize {
				return false, nil
			}
			if l > 0 {
				slot := idx / newSize
				if int(slot) >= len(opening.Values) || !opening.Values[slot].Equal(foldedValue) {
					return false, nil
				}
			}
			idx = idx % newSize

			groupPoint := domain.Offset.Mul(domain.Generator.ExpInt(int64(opening.GroupIndex)))
			points := make([]core.Point, FoldFactor)
			zetaPower := field.One()
			for j := 0; j < FoldFactor; j++ {
				x := groupPoint.Mul(zetaPower)
				points[j] = core.NewPoint(x, opening.Values[j])
				zetaPower = zetaPower.Mul(zeta)
			}
			poly, err := core.LagrangeInterpolation(points, field)
			if err != nil {
				return false, fmt.Errorf("fri: interpolate layer %d fold group: %w", l, err)
			}
			foldedValue = poly.Eval(challenges[l])

			domain = domainDescriptor{
				Offset:    domain.Offset.ExpInt(FoldFactor),
				Generator: domain.Generator.ExpInt(FoldFactor),
				Size:      newSize,
			}
		}

		finalPoint := domain.Offset.Mul(domain.Generator.ExpInt(int64(pos % domain.Size)))
		if !remainderPoly.Eval(finalPoint).Equal(foldedValue) {
			return false, nil
		}
	}

	return true, nil
}

func encodeGroup(values []*core.FieldElement) []byte {
	if len(values) == 0 {
		return nil
	}
	width := values[0].Field().ByteLen()
	out := make([]byte, 0, width*len(values))
	for _, v := range values {
		out = append(out, v.FixedBytes()...)
	}
	return out
}
