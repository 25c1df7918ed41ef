// Package core implements the finite field, polynomial, NTT and Merkle
// primitives the STARK engine is built on.
package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Field is a prime field Z/pZ together with a chosen generator of its
// multiplicative group, used to derive roots of unity.
type Field struct {
	modulus   *big.Int
	generator *big.Int
	byteLen   int
}

// FieldElement is an element of a Field, always kept in [0, modulus).
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField constructs a field with the given modulus and multiplicative
// generator. The caller is responsible for generator correctness.
func NewField(modulus, generator *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("core: modulus must be greater than 2")
	}
	byteLen := (modulus.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	return &Field{
		modulus:   new(big.Int).Set(modulus),
		generator: new(big.Int).Set(generator),
		byteLen:   byteLen,
	}, nil
}

// Modulus returns the field modulus.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.modulus) }

// ByteLen returns the fixed-width big-endian encoding length for elements
// of this field, used by the wire format's leaf encoding.
func (f *Field) ByteLen() int { return f.byteLen }

// Generator returns a generator of the field's multiplicative group.
func (f *Field) Generator() *FieldElement { return f.NewElement(f.generator) }

// NewElement reduces value into the field.
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 builds an element from a signed int64.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 builds an element from an unsigned uint64.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// NewElementFromBytes decodes a big-endian encoded element.
func (f *Field) NewElementFromBytes(b []byte) *FieldElement {
	return f.NewElement(new(big.Int).SetBytes(b))
}

// ParseDecimal parses a base-10 string into an element of field, the
// boundary between this package's big.Int-backed arithmetic and callers who
// only want to hand the engine plain decimal values (assertions, trace
// seeds) without importing math/big themselves.
func ParseDecimal(field *Field, s string) (*FieldElement, error) {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("core: %q is not a valid base-10 integer", s)
	}
	return field.NewElement(value), nil
}

// RandomElement draws a uniformly random field element.
func (f *Field) RandomElement() (*FieldElement, error) {
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("core: generate random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity.
func (f *Field) Zero() *FieldElement { return f.NewElement(big.NewInt(0)) }

// One returns the multiplicative identity.
func (f *Field) One() *FieldElement { return f.NewElement(big.NewInt(1)) }

// Equals reports whether two fields share a modulus.
func (f *Field) Equals(other *Field) bool { return f.modulus.Cmp(other.modulus) == 0 }

// Big returns the element's value as a big.Int copy.
func (fe *FieldElement) Big() *big.Int { return new(big.Int).Set(fe.value) }

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field { return fe.field }

// Add performs field addition.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot add elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub performs field subtraction.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot subtract elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Neg returns the additive inverse.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Mul performs field multiplication.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("core: cannot multiply elements from different fields")
	}
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Div performs field division.
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	if !fe.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot divide elements from different fields")
	}
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("core: division: %w", err)
	}
	return fe.Mul(inv), nil
}

// Inv computes the multiplicative inverse via the extended Euclidean algorithm.
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.value.Sign() == 0 {
		return nil, fmt.Errorf("core: cannot invert zero")
	}
	x := new(big.Int)
	gcd := new(big.Int).GCD(x, nil, fe.value, fe.field.modulus)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("core: inverse does not exist")
	}
	if x.Sign() < 0 {
		x.Add(x, fe.field.modulus)
	}
	return fe.field.NewElement(x), nil
}

// Exp performs field exponentiation by a non-negative exponent.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	return fe.field.NewElement(new(big.Int).Exp(fe.value, exponent, fe.field.modulus))
}

// ExpInt is a convenience wrapper over Exp for small int exponents.
func (fe *FieldElement) ExpInt(exponent int64) *FieldElement {
	return fe.Exp(big.NewInt(exponent))
}

// Square computes fe * fe.
func (fe *FieldElement) Square() *FieldElement { return fe.Mul(fe) }

// Equal reports value equality within the same field.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if other == nil || !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// IsZero reports whether the element is the additive identity.
func (fe *FieldElement) IsZero() bool { return fe.value.Sign() == 0 }

// IsOne reports whether the element is the multiplicative identity.
func (fe *FieldElement) IsOne() bool { return fe.value.Cmp(big.NewInt(1)) == 0 }

// String renders the element's decimal value.
func (fe *FieldElement) String() string { return fe.value.String() }

// Bytes returns the minimal big-endian encoding (no leading zero padding).
func (fe *FieldElement) Bytes() []byte { return fe.value.Bytes() }

// FixedBytes returns the element encoded big-endian, zero-padded to the
// field's ByteLen: the leaf encoding the commitment and wire-format
// layers both rely on for unambiguous element boundaries.
func (fe *FieldElement) FixedBytes() []byte {
	raw := fe.value.Bytes()
	out := make([]byte, fe.field.byteLen)
	copy(out[len(out)-len(raw):], raw)
	return out
}

// Cbrt computes a cube root of fe, the inverse of ExpInt(3). Cube roots
// exist for every element exactly when gcd(3, modulus-1) = 1, i.e. cubing
// is a bijection on the field's multiplicative group; Rescue's S-box
// inversion relies on this. Default64Field does not have this property
// (its modulus-1 is divisible by 3); Default128Field does.
func (fe *FieldElement) Cbrt() (*FieldElement, error) {
	if fe.IsZero() {
		return fe.field.Zero(), nil
	}
	p := fe.field.modulus
	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))

	if new(big.Int).Mod(p, big.NewInt(3)).Cmp(big.NewInt(2)) == 0 {
		exp := new(big.Int).Mul(p, big.NewInt(2))
		exp.Sub(exp, big.NewInt(1))
		exp.Div(exp, big.NewInt(3))
		return fe.Exp(exp), nil
	}

	if new(big.Int).GCD(nil, nil, big.NewInt(3), pMinusOne).Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("core: cube root does not exist in this field")
	}
	inv := new(big.Int).ModInverse(big.NewInt(3), pMinusOne)
	return fe.Exp(inv), nil
}

// Default fields: Default64Field is the small default field, the 32-bit
// prime p = 3*2^30+1 with generator 5; Default128Field is the 128-bit prime
// p = 407*2^119+1 with generator 3.
var (
	Default64ModulusValue, _   = new(big.Int).SetString("3221225473", 10)
	Default64Field, _          = NewField(Default64ModulusValue, big.NewInt(5))
	Default128ModulusValue, _  = new(big.Int).SetString("270497897142230380135924736767050121217", 10)
	Default128Field, _         = NewField(Default128ModulusValue, big.NewInt(3))
)
