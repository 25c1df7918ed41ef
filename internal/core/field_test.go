package core

import (
	"math/big"
	"testing"
)

func TestFieldArithmetic(t *testing.T) {
	field := Default64Field

	a := field.NewElementFromInt64(5)
	b := field.NewElementFromInt64(3)

	if sum := a.Add(b); sum.String() != "8" {
		t.Errorf("5 + 3 = %s, want 8", sum)
	}
	if diff := a.Sub(b); diff.String() != "2" {
		t.Errorf("5 - 3 = %s, want 2", diff)
	}
	if prod := a.Mul(b); prod.String() != "15" {
		t.Errorf("5 * 3 = %s, want 15", prod)
	}

	quot, err := a.Div(b)
	if err != nil {
		t.Fatalf("Div returned error: %v", err)
	}
	if !quot.Mul(b).Equal(a) {
		t.Errorf("(5/3)*3 = %s, want 5", quot.Mul(b))
	}

	if _, err := field.Zero().Inv(); err == nil {
		t.Error("expected an error inverting zero")
	}
}

func TestFieldElementEquality(t *testing.T) {
	field := Default64Field
	a := field.NewElementFromInt64(42)
	b := field.NewElementFromInt64(42)
	c := field.NewElementFromInt64(7)

	if !a.Equal(b) {
		t.Error("equal values compared unequal")
	}
	if a.Equal(c) {
		t.Error("unequal values compared equal")
	}
	if a.Equal(nil) {
		t.Error("a non-nil element compared equal to nil")
	}
}

func TestFixedBytesRoundTrip(t *testing.T) {
	field := Default64Field
	original := field.NewElementFromInt64(123456789)

	encoded := original.FixedBytes()
	if len(encoded) != field.ByteLen() {
		t.Fatalf("FixedBytes() length = %d, want %d", len(encoded), field.ByteLen())
	}

	decoded := field.NewElementFromBytes(encoded)
	if !decoded.Equal(original) {
		t.Errorf("round trip produced %s, want %s", decoded, original)
	}
}

func TestParseDecimal(t *testing.T) {
	field := Default64Field

	t.Run("Valid", func(t *testing.T) {
		fe, err := ParseDecimal(field, "100")
		if err != nil {
			t.Fatalf("ParseDecimal returned error: %v", err)
		}
		if fe.String() != "100" {
			t.Errorf("ParseDecimal(100) = %s, want 100", fe)
		}
	})

	t.Run("NegativeReducesModulo", func(t *testing.T) {
		fe, err := ParseDecimal(field, "-1")
		if err != nil {
			t.Fatalf("ParseDecimal returned error: %v", err)
		}
		expected := field.NewElement(new(big.Int).Sub(field.Modulus(), big.NewInt(1)))
		if !fe.Equal(expected) {
			t.Errorf("ParseDecimal(-1) = %s, want %s", fe, expected)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if _, err := ParseDecimal(field, "not-a-number"); err == nil {
			t.Error("expected an error parsing a non-numeric string")
		}
	})
}

func TestPrimitiveRootOfUnity(t *testing.T) {
	field := Default64Field

	omega, err := field.PrimitiveRootOfUnity(8)
	if err != nil {
		t.Fatalf("PrimitiveRootOfUnity(8) returned error: %v", err)
	}
	if !omega.ExpInt(8).IsOne() {
		t.Error("omega^8 != 1")
	}
	if omega.ExpInt(4).IsOne() {
		t.Error("omega^4 == 1, omega is not a primitive 8th root")
	}

	if _, err := field.PrimitiveRootOfUnity(3); err == nil {
		t.Error("expected an error for a non-power-of-two order")
	}
}
