// proof.go implements the binary wire format a Proof serializes to: a
// flat, length-prefixed encoding built around two conventions load-bearing
// for proof compatibility across implementations — every field element
// serialized big-endian, fixed-width (core.FieldElement.FixedBytes), and
// the FRI remainder's length byte encoding 256 as 0 rather than wrapping.
//
// This engine's composition commitment is literally its first FRI layer
// (there is no separate tree for the composition polynomial beyond its
// first fold), so the format's lcRoot/lcProof fields are simply FRIRoots[0]
// and that layer's openings rather than a duplicated structure; see
// DESIGN.md's wire-format entry for the full reasoning.
package vybiumstark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/fri"
	"github.com/vybium/vybium-stark-engine/internal/stark"
	"github.com/vybium/vybium-stark-engine/internal/tracebuilder"
)

// Proof is the public re-export of the engine's proof object, produced by
// Prove and consumed by Verify.
type Proof = stark.Proof

// maxRemainderLen is the FRI remainder length cap: a single byte encodes
// 1..256 elements by mapping 256 to the wire byte 0.
const maxRemainderLen = 256

func writeUint32(buf *bytes.Buffer, v uint64) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, newError(ErrInvalidProof, "truncated buffer reading a 4-byte count", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeRemainderLen(buf *bytes.Buffer, n int) error {
	if n <= 0 || n > maxRemainderLen {
		return newError(ErrInvalidProof, fmt.Sprintf("FRI remainder has %d elements, wire format allows 1..%d", n, maxRemainderLen), nil)
	}
	if n == maxRemainderLen {
		buf.WriteByte(0)
		return nil
	}
	buf.WriteByte(byte(n))
	return nil
}

func readRemainderLen(r *bytes.Reader) (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, newError(ErrInvalidProof, "truncated buffer reading the FRI remainder length", err)
	}
	if b == 0 {
		return maxRemainderLen, nil
	}
	return int(b), nil
}

func writeFieldElement(buf *bytes.Buffer, fe *core.FieldElement) {
	buf.Write(fe.FixedBytes())
}

func readFieldElement(r *bytes.Reader, field *core.Field, byteLen int) (*core.FieldElement, error) {
	b := make([]byte, byteLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, newError(ErrInvalidProof, "truncated buffer reading a field element", err)
	}
	return field.NewElementFromBytes(b), nil
}

func writeDigest(buf *bytes.Buffer, digest []byte) {
	buf.Write(digest)
}

func readDigest(r *bytes.Reader, digestLen int) ([]byte, error) {
	b := make([]byte, digestLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, newError(ErrInvalidProof, "truncated buffer reading a digest", err)
	}
	return b, nil
}

func writeMultiProof(buf *bytes.Buffer, proof *core.MultiProof) {
	writeUint32(buf, uint64(len(proof.Siblings)))
	for _, sib := range proof.Siblings {
		buf.Write(sib)
	}
}

func readMultiProof(r *bytes.Reader, indices []int, digestLen int) (*core.MultiProof, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	siblings := make([][]byte, n)
	for i := range siblings {
		b, err := readDigest(r, digestLen)
		if err != nil {
			return nil, err
		}
		siblings[i] = b
	}
	return &core.MultiProof{Indices: append([]int{}, indices...), Siblings: siblings}, nil
}

// Serialize encodes proof into the engine's wire format. cfg must describe
// the same field and hash function the proof was produced under; Serialize
// itself only needs cfg.Validate to reject an unusable configuration before
// writing anything.
func Serialize(cfg *Config, proof *Proof) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(proof.FRIRoots) == 0 {
		return nil, newError(ErrInvalidProof, "proof has no FRI layer roots", nil)
	}
	if proof.TraceProof == nil {
		return nil, newError(ErrInvalidProof, "proof has no trace multi-proof", nil)
	}

	var buf bytes.Buffer

	// evRoot
	writeDigest(&buf, proof.TraceRoot)

	// trace shape: width + length, written up front so Parse can size
	// every row it reads without a side channel.
	writeUint32(&buf, uint64(proof.TraceShape.Width))
	writeUint32(&buf, uint64(proof.TraceShape.Length))

	// evProof: opened trace rows (sorted by index) plus their batched
	// Merkle authentication path.
	indices := make([]int, 0, len(proof.TraceRows))
	for idx := range proof.TraceRows {
		indices = append(indices, int(idx))
	}
	sort.Ints(indices)
	writeUint32(&buf, uint64(len(indices)))
	for _, idx := range indices {
		writeUint32(&buf, uint64(idx))
		for _, fe := range proof.TraceRows[uint64(idx)] {
			writeFieldElement(&buf, fe)
		}
	}
	writeMultiProof(&buf, proof.TraceProof)

	// lcRoot and the remaining FRI layer roots.
	writeUint32(&buf, uint64(len(proof.FRIRoots)))
	for _, root := range proof.FRIRoots {
		writeDigest(&buf, root)
	}

	// the shared query-position list every layer's openings are indexed by.
	positions := make([]uint64, 0, len(proof.FRIOpenings))
	for pos := range proof.FRIOpenings {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	writeUint32(&buf, uint64(len(positions)))
	for _, pos := range positions {
		writeUint32(&buf, pos)
	}

	// lcProof and every other FRI layer's openings: for each query position,
	// one opening per layer, in layer order.
	for _, pos := range positions {
		openings, ok := proof.FRIOpenings[pos]
		if !ok || len(openings) != len(proof.FRIRoots) {
			return nil, newError(ErrInvalidProof, fmt.Sprintf("proof has malformed FRI openings for query position %d", pos), nil)
		}
		for _, opening := range openings {
			writeUint32(&buf, opening.GroupIndex)
			writeUint32(&buf, uint64(len(opening.Values)))
			for _, v := range opening.Values {
				writeFieldElement(&buf, v)
			}
			writeMultiProof(&buf, opening.Proof)
		}
	}

	// FRI remainder, with the 256-encodes-as-0 convention.
	if err := writeRemainderLen(&buf, len(proof.FRIRemainder)); err != nil {
		return nil, err
	}
	for _, fe := range proof.FRIRemainder {
		writeFieldElement(&buf, fe)
	}

	// out-of-domain binding data this engine's verifier needs beyond the
	// minimal set (see DESIGN.md's wire-format entry).
	writeUint32(&buf, uint64(len(proof.OODCurrentRow)))
	for _, fe := range proof.OODCurrentRow {
		writeFieldElement(&buf, fe)
	}
	for _, fe := range proof.OODNextRow {
		writeFieldElement(&buf, fe)
	}
	writeFieldElement(&buf, proof.OODCompositionValue)

	return buf.Bytes(), nil
}

// Parse decodes bytes produced by Serialize back into a Proof.
func Parse(cfg *Config, data []byte) (*Proof, error) {
	field, err := cfg.buildField()
	if err != nil {
		return nil, err
	}
	hasher, err := core.NewHasher(cfg.HashFunction)
	if err != nil {
		return nil, newError(ErrInvalidConfig, "unsupported hash function", err)
	}
	byteLen := field.ByteLen()
	digestLen := hasher.Size()

	r := bytes.NewReader(data)

	traceRoot, err := readDigest(r, digestLen)
	if err != nil {
		return nil, err
	}

	width32, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	length32, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	width := int(width32)
	shape := tracebuilder.Shape{Width: width, Length: int(length32)}

	rowCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	rowIndices := make([]int, rowCount)
	traceRows := make(map[uint64][]*core.FieldElement, rowCount)
	for i := range rowIndices {
		idx, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		row := make([]*core.FieldElement, width)
		for c := 0; c < width; c++ {
			fe, err := readFieldElement(r, field, byteLen)
			if err != nil {
				return nil, err
			}
			row[c] = fe
		}
		rowIndices[i] = int(idx)
		traceRows[uint64(idx)] = row
	}
	traceProof, err := readMultiProof(r, rowIndices, digestLen)
	if err != nil {
		return nil, err
	}

	rootCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if rootCount == 0 {
		return nil, newError(ErrInvalidProof, "proof has no FRI layer roots", nil)
	}
	friRoots := make([][]byte, rootCount)
	for i := range friRoots {
		root, err := readDigest(r, digestLen)
		if err != nil {
			return nil, err
		}
		friRoots[i] = root
	}

	posCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	positions := make([]uint64, posCount)
	for i := range positions {
		p, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		positions[i] = uint64(p)
	}

	friOpenings := make(map[uint64][]fri.QueryOpening, len(positions))
	for _, pos := range positions {
		openings := make([]fri.QueryOpening, rootCount)
		for l := range openings {
			group, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			n, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			values := make([]*core.FieldElement, n)
			for j := range values {
				fe, err := readFieldElement(r, field, byteLen)
				if err != nil {
					return nil, err
				}
				values[j] = fe
			}
			mp, err := readMultiProof(r, []int{int(group)}, digestLen)
			if err != nil {
				return nil, err
			}
			openings[l] = fri.QueryOpening{GroupIndex: uint64(group), Values: values, Proof: mp}
		}
		friOpenings[pos] = openings
	}

	remLen, err := readRemainderLen(r)
	if err != nil {
		return nil, err
	}
	remainder := make([]*core.FieldElement, remLen)
	for i := range remainder {
		fe, err := readFieldElement(r, field, byteLen)
		if err != nil {
			return nil, err
		}
		remainder[i] = fe
	}

	oodCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	oodCurrent := make([]*core.FieldElement, oodCount)
	for i := range oodCurrent {
		fe, err := readFieldElement(r, field, byteLen)
		if err != nil {
			return nil, err
		}
		oodCurrent[i] = fe
	}
	oodNext := make([]*core.FieldElement, oodCount)
	for i := range oodNext {
		fe, err := readFieldElement(r, field, byteLen)
		if err != nil {
			return nil, err
		}
		oodNext[i] = fe
	}
	compAtZ, err := readFieldElement(r, field, byteLen)
	if err != nil {
		return nil, err
	}

	return &Proof{
		TraceShape:          shape,
		TraceRoot:           traceRoot,
		FRIRoots:            friRoots,
		FRIRemainder:        remainder,
		OODCurrentRow:       oodCurrent,
		OODNextRow:          oodNext,
		OODCompositionValue: compAtZ,
		QueryPositions:      positions,
		FRIOpenings:         friOpenings,
		TraceRows:           traceRows,
		TraceProof:          traceProof,
	}, nil
}

// SizeOf reports proof's serialized size in bytes, without retaining the
// encoded buffer.
func SizeOf(cfg *Config, proof *Proof) (int, error) {
	data, err := Serialize(cfg, proof)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}
