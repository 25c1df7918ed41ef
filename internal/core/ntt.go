package core

import "fmt"

// NTT evaluates the polynomial with coefficients `values` (low-degree first)
// at every power of omega, where omega is a primitive n-th root of unity and
// n == len(values) is a power of two. Bit-reversal permutation plus a
// Cooley-Tukey butterfly, as a standalone primitive the Evaluation Context
// and LDE components call directly.
func NTT(values []*FieldElement, omega *FieldElement) ([]*FieldElement, error) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("core: NTT requires a power-of-two length, got %d", n)
	}

	result := make([]*FieldElement, n)
	copy(result, values)

	logN := bitLen(n)
	for i := 0; i < n; i++ {
		j := reverseBits(i, logN)
		if i < j {
			result[i], result[j] = result[j], result[i]
		}
	}

	field := omega.Field()
	for s := 1; s <= logN; s++ {
		m := 1 << s
		half := m >> 1
		wm := omega.ExpInt(int64(n / m))
		for k := 0; k < n; k += m {
			w := field.One()
			for j := 0; j < half; j++ {
				t := w.Mul(result[k+j+half])
				u := result[k+j]
				result[k+j] = u.Add(t)
				result[k+j+half] = u.Sub(t)
				w = w.Mul(wm)
			}
		}
	}
	return result, nil
}

// InverseNTT recovers coefficients from evaluations at powers of omega.
func InverseNTT(values []*FieldElement, omega *FieldElement) ([]*FieldElement, error) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	omegaInv, err := omega.Inv()
	if err != nil {
		return nil, fmt.Errorf("core: invert omega: %w", err)
	}
	coeffs, err := NTT(values, omegaInv)
	if err != nil {
		return nil, err
	}
	field := omega.Field()
	nInv, err := field.NewElementFromInt64(int64(n)).Inv()
	if err != nil {
		return nil, fmt.Errorf("core: invert domain size: %w", err)
	}
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(nInv)
	}
	return coeffs, nil
}

func bitLen(n int) int {
	l := 0
	for n > 1 {
		l++
		n >>= 1
	}
	return l
}

func reverseBits(n, bitLength int) int {
	result := 0
	for i := 0; i < bitLength; i++ {
		if n&(1<<i) != 0 {
			result |= 1 << (bitLength - 1 - i)
		}
	}
	return result
}
