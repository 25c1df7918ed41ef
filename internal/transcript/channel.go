// Package transcript implements the Fiat-Shamir transcript as an explicit
// first-class object: a small state machine, rather than an ad-hoc
// send/receive pair, that makes illegal sequences (such as squeezing
// before seeding) a programming error rather than a silently-tolerated
// one. There is no closed state: absorbing stays legal once seeded.
package transcript

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

// State names the transcript's position in its Uninitialized -> Seeded ->
// {Absorbing, Squeezing}* lifecycle.
type State int

const (
	Uninitialized State = iota
	Seeded
	Absorbing
	Squeezing
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Seeded:
		return "seeded"
	case Absorbing:
		return "absorbing"
	case Squeezing:
		return "squeezing"
	default:
		return "unknown"
	}
}

// Transcript is the Fiat-Shamir channel: a running hash state plus a log of
// every value absorbed or squeezed, so a verifier can replay a prover's
// randomness draws bit-for-bit given the same public inputs.
type Transcript struct {
	hasher core.Hasher
	state  []byte
	log    []string
	phase  State
}

// New creates a transcript in the Uninitialized state.
func New(hasher core.Hasher) *Transcript {
	return &Transcript{hasher: hasher, phase: Uninitialized}
}

// Seed initializes the transcript state from public data (the claim: trace
// length, field modulus, assertions, and any public auxiliary input),
// transitioning Uninitialized -> Seeded. Calling Seed twice is a misuse of
// the transcript and panics, since seeding again would silently discard the
// binding to the first seed.
func (t *Transcript) Seed(publicData []byte) {
	if t.phase != Uninitialized {
		panic("transcript: Seed called outside the Uninitialized state")
	}
	t.state = t.hasher.Sum(publicData)
	t.log = append(t.log, fmt.Sprintf("seed:%x", publicData))
	t.phase = Seeded
}

// Absorb folds data into the transcript state, valid from Seeded, Absorbing
// or Squeezing (absorbing after squeezing is allowed: the prover may mix in
// a newly computed Merkle root after having drawn earlier challenges).
func (t *Transcript) Absorb(data []byte) {
	if t.phase == Uninitialized {
		panic("transcript: Absorb called before Seed")
	}
	t.state = t.hasher.Sum(append(append([]byte{}, t.state...), data...))
	t.log = append(t.log, fmt.Sprintf("absorb:%x", data))
	t.phase = Absorbing
}

// AbsorbFieldElements absorbs a sequence of field elements in fixed-width
// big-endian form, in order, so that element boundaries are unambiguous
// regardless of leading zero bytes.
func (t *Transcript) AbsorbFieldElements(elements []*core.FieldElement) {
	for _, e := range elements {
		t.Absorb(e.FixedBytes())
	}
}

// squeezeBytes draws n pseudorandom bytes from the transcript state,
// ratcheting the state forward so each draw is independent of the next.
func (t *Transcript) squeezeBytes(n int) []byte {
	if t.phase == Uninitialized {
		panic("transcript: squeeze called before Seed")
	}
	out := make([]byte, 0, n)
	counter := byte(0)
	for len(out) < n {
		t.state = t.hasher.Sum(append(append([]byte{}, t.state...), counter))
		out = append(out, t.state...)
		counter++
	}
	out = out[:n]
	t.phase = Squeezing
	return out
}

// SqueezeFieldElement draws a uniformly-biased-but-deterministic field
// element by reducing a hash-derived integer modulo the field's order.
func (t *Transcript) SqueezeFieldElement(field *core.Field) *core.FieldElement {
	raw := t.squeezeBytes(field.ByteLen() + 8)
	value := new(big.Int).SetBytes(raw)
	elem := field.NewElement(value)
	t.log = append(t.log, fmt.Sprintf("squeeze_field:%s", elem.String()))
	return elem
}

// SqueezeInt draws a uniformly-biased-but-deterministic integer in
// [0, bound).
func (t *Transcript) SqueezeInt(bound uint64) uint64 {
	if bound == 0 {
		panic("transcript: SqueezeInt requires a positive bound")
	}
	raw := t.squeezeBytes(16)
	value := new(big.Int).SetBytes(raw)
	value.Mod(value, new(big.Int).SetUint64(bound))
	t.log = append(t.log, fmt.Sprintf("squeeze_int:%d", value.Uint64()))
	return value.Uint64()
}

// SqueezeIndices draws count distinct query indices in [0, domainSize),
// grounded on the same ReceiveRandomInt-style draw but repeated with
// rejection of duplicates, since FRI/Merkle queries must be distinct
// positions to carry independent soundness weight.
func (t *Transcript) SqueezeIndices(count int, domainSize uint64) []uint64 {
	seen := make(map[uint64]bool, count)
	indices := make([]uint64, 0, count)
	for len(indices) < count {
		idx := t.SqueezeInt(domainSize)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	return indices
}

// State returns a defensive copy of the running transcript state.
func (t *Transcript) State() []byte { return append([]byte(nil), t.state...) }

// Phase returns the transcript's current lifecycle state.
func (t *Transcript) Phase() State { return t.phase }

// Log returns the ordered list of absorb/seed/squeeze events, useful for
// debugging transcript-determinism mismatches between prover and verifier.
func (t *Transcript) Log() []string { return append([]string(nil), t.log...) }
