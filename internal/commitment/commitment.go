// Package commitment implements the commitment layer: a Merkle tree over
// the trace's extended evaluations (one leaf per D_E point, each leaf the
// concatenation of every register's big-endian encoded value at that
// point) and a second tree over the composition polynomial's D_C
// evaluations grouped into fold-sized leaves for FRI. Both trees use the
// engine's batched core.MerkleTree so many leaf positions can be opened
// together in a single multi-proof.
package commitment

import (
	"fmt"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

// CommitTraceRows builds a Merkle tree whose leaf at index i is every
// register's fixed-width big-endian value at evaluation-domain point i.
func CommitTraceRows(hasher core.Hasher, rows [][]*core.FieldElement) (*core.MerkleTree, error) {
	leaves := make([][]byte, len(rows))
	for i, row := range rows {
		leaves[i] = encodeRow(row)
	}
	tree, err := core.NewMerkleTree(hasher, leaves)
	if err != nil {
		return nil, fmt.Errorf("commitment: build trace tree: %w", err)
	}
	return tree, nil
}

// CommitFoldedValues builds a Merkle tree over values grouped into
// fold-sized leaves (one leaf holding `fold` consecutive field elements),
// the shape FRI layer commitments use.
func CommitFoldedValues(hasher core.Hasher, values []*core.FieldElement, fold int) (*core.MerkleTree, error) {
	if len(values)%fold != 0 {
		return nil, fmt.Errorf("commitment: %d values do not divide evenly into groups of %d", len(values), fold)
	}
	leafCount := len(values) / fold
	leaves := make([][]byte, leafCount)
	for i := 0; i < leafCount; i++ {
		leaves[i] = encodeRow(values[i*fold : (i+1)*fold])
	}
	tree, err := core.NewMerkleTree(hasher, leaves)
	if err != nil {
		return nil, fmt.Errorf("commitment: build folded-values tree: %w", err)
	}
	return tree, nil
}

func encodeRow(row []*core.FieldElement) []byte {
	if len(row) == 0 {
		return nil
	}
	width := row[0].Field().ByteLen()
	out := make([]byte, 0, width*len(row))
	for _, e := range row {
		out = append(out, e.FixedBytes()...)
	}
	return out
}

// EncodeRow exposes the leaf pre-image encoding so the wire-format layer
// and the verifier's leaf reconstruction use the identical byte layout.
func EncodeRow(row []*core.FieldElement) []byte { return encodeRow(row) }
