package vybiumstark

import (
	"math/big"

	"github.com/vybium/vybium-stark-engine/internal/core"
)

// Config configures a proving/verification run: the finite field, the
// two domain blowup factors (relative to the trace length), the separate
// execution-trace and FRI query counts to draw for the desired soundness
// level, and which of the two named hash functions to bind the
// transcript and commitments to.
type Config struct {
	// FieldModulus is the prime modulus, base-10 encoded.
	FieldModulus string

	// FieldGenerator is a generator of the field's multiplicative group,
	// base-10 encoded.
	FieldGenerator string

	// CompositionBlowup is |D_C| / |D_T|, a power of two. Must be at least
	// k1, the smallest power of two at least the AIR's maximum
	// transition-constraint degree, or Prove/Verify reject it.
	CompositionBlowup int

	// EvaluationBlowup is |D_E| / |D_T|, a power of two, at least twice
	// CompositionBlowup and at most 32.
	EvaluationBlowup int

	// ExeQueryCount is the number of execution-trace query positions drawn
	// per proof, bounding the soundness error contributed by the trace
	// spot-check (default 80, max 128).
	ExeQueryCount int

	// FriQueryCount is the number of FRI query positions drawn per proof,
	// bounding the soundness error contributed by the low-degree test
	// (default 40, max 64).
	FriQueryCount int

	// HashFunction is "sha256" or "blake2s256".
	HashFunction string
}

// DefaultConfig returns core.Default64Field (p = 3*2^30+1) with blowups 4
// and 8, which meet evalctx.New's k1 requirement for any AIR whose
// constraint degree is at most 4 (internal/air.Fibonacci and
// internal/air.Rescue both qualify), and a query count suitable for tests.
func DefaultConfig() *Config {
	return &Config{
		FieldModulus:      core.Default64ModulusValue.String(),
		FieldGenerator:    "5",
		CompositionBlowup: 4,
		EvaluationBlowup:  8,
		ExeQueryCount:     80,
		FriQueryCount:     40,
		HashFunction:      "blake2s256",
	}
}

// Validate reports whether c describes a usable configuration.
func (c *Config) Validate() error {
	modulus, ok := new(big.Int).SetString(c.FieldModulus, 10)
	if !ok {
		return newError(ErrInvalidConfig, "field modulus is not a valid base-10 integer", nil)
	}
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return newError(ErrInvalidConfig, "field modulus must be greater than 2", nil)
	}
	if _, ok := new(big.Int).SetString(c.FieldGenerator, 10); !ok {
		return newError(ErrInvalidConfig, "field generator is not a valid base-10 integer", nil)
	}
	if !isPowerOfTwo(c.CompositionBlowup) {
		return newError(ErrInvalidConfig, "composition blowup must be a power of two", nil)
	}
	if !isPowerOfTwo(c.EvaluationBlowup) {
		return newError(ErrInvalidConfig, "evaluation blowup must be a power of two", nil)
	}
	if c.EvaluationBlowup < 2*c.CompositionBlowup {
		return newError(ErrInvalidConfig, "evaluation blowup must be at least twice the composition blowup", nil)
	}
	if c.EvaluationBlowup > 32 {
		return newError(ErrInvalidConfig, "evaluation blowup must not exceed 32", nil)
	}
	if c.ExeQueryCount <= 0 || c.ExeQueryCount > 128 {
		return newError(ErrInvalidConfig, "execution query count must be in (0, 128]", nil)
	}
	if c.FriQueryCount <= 0 || c.FriQueryCount > 64 {
		return newError(ErrInvalidConfig, "FRI query count must be in (0, 64]", nil)
	}
	if c.HashFunction != "sha256" && c.HashFunction != "blake2s256" {
		return newError(ErrInvalidConfig, "hash function must be 'sha256' or 'blake2s256', got '"+c.HashFunction+"'", nil)
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WithFieldModulus sets the field modulus and returns c for chaining.
func (c *Config) WithFieldModulus(modulus string) *Config {
	c.FieldModulus = modulus
	return c
}

// WithFieldGenerator sets the field generator and returns c for chaining.
func (c *Config) WithFieldGenerator(generator string) *Config {
	c.FieldGenerator = generator
	return c
}

// WithCompositionBlowup sets the composition-domain blowup and returns c
// for chaining.
func (c *Config) WithCompositionBlowup(blowup int) *Config {
	c.CompositionBlowup = blowup
	return c
}

// WithEvaluationBlowup sets the evaluation-domain blowup and returns c for
// chaining.
func (c *Config) WithEvaluationBlowup(blowup int) *Config {
	c.EvaluationBlowup = blowup
	return c
}

// WithExeQueryCount sets the execution-trace query count and returns c
// for chaining.
func (c *Config) WithExeQueryCount(n int) *Config {
	c.ExeQueryCount = n
	return c
}

// WithFriQueryCount sets the FRI query count and returns c for chaining.
func (c *Config) WithFriQueryCount(n int) *Config {
	c.FriQueryCount = n
	return c
}

// WithHashFunction sets the hash function and returns c for chaining.
func (c *Config) WithHashFunction(name string) *Config {
	c.HashFunction = name
	return c
}

// buildField constructs the internal field this config describes.
func (c *Config) buildField() (*core.Field, error) {
	modulus, _ := new(big.Int).SetString(c.FieldModulus, 10)
	generator, _ := new(big.Int).SetString(c.FieldGenerator, 10)
	field, err := core.NewField(modulus, generator)
	if err != nil {
		return nil, newError(ErrFieldCreation, "failed to construct field", err)
	}
	return field, nil
}

func isPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }
