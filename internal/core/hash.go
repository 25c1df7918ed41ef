package core

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// Hasher is the digest-hash capability the Merkle commitment layer and
// the Fiat-Shamir transcript depend on. The configurable hash set is
// pinned to exactly two named algorithms, narrower than a general hash
// dispatch that also offers algorithms like Poseidon or Rescue.
type Hasher interface {
	// Sum returns the digest of data.
	Sum(data []byte) []byte
	// Size returns the digest length in bytes.
	Size() int
	// Name identifies the hash for configuration round-tripping.
	Name() string
}

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}
func (sha256Hasher) Size() int    { return sha256.Size }
func (sha256Hasher) Name() string { return "sha256" }

type blake2sHasher struct{}

func (blake2sHasher) Sum(data []byte) []byte {
	h := blake2s.Sum256(data)
	return h[:]
}
func (blake2sHasher) Size() int    { return 32 }
func (blake2sHasher) Name() string { return "blake2s256" }

// NewHasher resolves a hash algorithm name to a Hasher. Names match the
// configuration's HashFunction field.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "sha256":
		return sha256Hasher{}, nil
	case "blake2s256":
		return blake2sHasher{}, nil
	default:
		return nil, fmt.Errorf("core: unsupported hash function %q", name)
	}
}
