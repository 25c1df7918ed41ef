package core

import (
	"fmt"
	"math/big"
)

// PrimitiveRootOfUnity returns a primitive n-th root of unity in f, where n
// must be a power of two dividing f's multiplicative order. Order is
// verified by checking the single maximal proper divisor n/2 rather than
// every k < n, which is sufficient since n is a power of two: omega's order
// divides n, so it is less than n only if it divides n/2.
func (f *Field) PrimitiveRootOfUnity(n uint64) (*FieldElement, error) {
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("core: order %d is not a power of two", n)
	}
	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	nBig := new(big.Int).SetUint64(n)
	if new(big.Int).Mod(pMinus1, nBig).Sign() != 0 {
		return nil, fmt.Errorf("core: field has no root of unity of order %d", n)
	}
	exponent := new(big.Int).Div(pMinus1, nBig)
	omega := f.Generator().Exp(exponent)
	if n > 1 && omega.ExpInt(int64(n/2)).IsOne() {
		return nil, fmt.Errorf("core: configured generator is not primitive of order %d", n)
	}
	return omega, nil
}
