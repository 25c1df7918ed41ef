package core

import (
	"fmt"
	"strings"
)

// Polynomial is a dense univariate polynomial with coefficients in a field,
// stored low-degree-coefficient first.
type Polynomial struct {
	coefficients []*FieldElement
	field        *Field
}

// Point is an (x, y) pair used for interpolation.
type Point struct {
	X *FieldElement
	Y *FieldElement
}

// NewPoint builds a Point.
func NewPoint(x, y *FieldElement) Point { return Point{X: x, Y: y} }

// NewPolynomial builds a polynomial from coefficients, trimming trailing
// (high-degree) zero coefficients.
func NewPolynomial(coefficients []*FieldElement) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("core: polynomial needs at least one coefficient")
	}
	field := coefficients[0].Field()
	for i, c := range coefficients {
		if !c.Field().Equals(field) {
			return nil, fmt.Errorf("core: coefficient %d is from a different field", i)
		}
	}

	trimmed := coefficients
	for len(trimmed) > 1 && trimmed[len(trimmed)-1].IsZero() {
		trimmed = trimmed[:len(trimmed)-1]
	}
	out := make([]*FieldElement, len(trimmed))
	copy(out, trimmed)
	return &Polynomial{coefficients: out, field: field}, nil
}

// NewPolynomialFromInt64 builds a polynomial from small signed coefficients.
func NewPolynomialFromInt64(field *Field, coefficients []int64) (*Polynomial, error) {
	fc := make([]*FieldElement, len(coefficients))
	for i, c := range coefficients {
		fc[i] = field.NewElementFromInt64(c)
	}
	return NewPolynomial(fc)
}

// Degree returns the polynomial's degree.
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Field returns the coefficient field.
func (p *Polynomial) Field() *Field { return p.field }

// Coefficient returns the coefficient of x^degree, zero above the stored degree.
func (p *Polynomial) Coefficient(degree int) *FieldElement {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// LeadingCoefficient returns the highest-degree coefficient.
func (p *Polynomial) LeadingCoefficient() *FieldElement {
	return p.coefficients[len(p.coefficients)-1]
}

// Coefficients returns a defensive copy of the coefficient slice.
func (p *Polynomial) Coefficients() []*FieldElement {
	out := make([]*FieldElement, len(p.coefficients))
	copy(out, p.coefficients)
	return out
}

// Eval evaluates the polynomial at point via Horner-free accumulation.
func (p *Polynomial) Eval(point *FieldElement) *FieldElement {
	if !point.Field().Equals(p.field) {
		panic("core: cannot evaluate polynomial at point from different field")
	}
	result := p.field.Zero()
	power := p.field.One()
	for i, coeff := range p.coefficients {
		if i > 0 {
			power = power.Mul(point)
		}
		result = result.Add(coeff.Mul(power))
	}
	return result
}

// Add adds two polynomials.
func (p *Polynomial) Add(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot add polynomials from different fields")
	}
	maxDeg := max(p.Degree(), other.Degree())
	coeffs := make([]*FieldElement, maxDeg+1)
	for i := 0; i <= maxDeg; i++ {
		coeffs[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Sub subtracts other from p.
func (p *Polynomial) Sub(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot subtract polynomials from different fields")
	}
	maxDeg := max(p.Degree(), other.Degree())
	coeffs := make([]*FieldElement, maxDeg+1)
	for i := 0; i <= maxDeg; i++ {
		coeffs[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return NewPolynomial(coeffs)
}

// Mul multiplies two polynomials by schoolbook convolution.
func (p *Polynomial) Mul(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("core: cannot multiply polynomials from different fields")
	}
	coeffs := make([]*FieldElement, p.Degree()+other.Degree()+1)
	for i := range coeffs {
		coeffs[i] = p.field.Zero()
	}
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			coeffs[i+j] = coeffs[i+j].Add(a.Mul(b))
		}
	}
	return NewPolynomial(coeffs)
}

// MulScalar scales every coefficient by scalar.
func (p *Polynomial) MulScalar(scalar *FieldElement) (*Polynomial, error) {
	if !scalar.Field().Equals(p.field) {
		return nil, fmt.Errorf("core: scalar is from a different field")
	}
	coeffs := make([]*FieldElement, len(p.coefficients))
	for i, c := range p.coefficients {
		coeffs[i] = c.Mul(scalar)
	}
	return NewPolynomial(coeffs)
}

// Pow raises p to a non-negative integer power via square-and-multiply.
func (p *Polynomial) Pow(exponent uint64) (*Polynomial, error) {
	result, err := NewPolynomial([]*FieldElement{p.field.One()})
	if err != nil {
		return nil, err
	}
	base := p
	for exponent > 0 {
		if exponent&1 == 1 {
			result, err = result.Mul(base)
			if err != nil {
				return nil, err
			}
		}
		base, err = base.Mul(base)
		if err != nil {
			return nil, err
		}
		exponent >>= 1
	}
	return result, nil
}

// Div performs polynomial long division, returning quotient and remainder.
func (p *Polynomial) Div(other *Polynomial) (quotient, remainder *Polynomial, err error) {
	if !p.field.Equals(other.field) {
		return nil, nil, fmt.Errorf("core: cannot divide polynomials from different fields")
	}
	if other.Degree() == 0 && other.LeadingCoefficient().IsZero() {
		return nil, nil, fmt.Errorf("core: division by zero polynomial")
	}
	if other.Degree() > p.Degree() {
		zero, err := NewPolynomial([]*FieldElement{p.field.Zero()})
		if err != nil {
			return nil, nil, err
		}
		return zero, p, nil
	}

	quotientCoeffs := make([]*FieldElement, p.Degree()-other.Degree()+1)
	rem := make([]*FieldElement, len(p.coefficients))
	copy(rem, p.coefficients)
	leadingOther := other.LeadingCoefficient()

	for i := len(quotientCoeffs) - 1; i >= 0; i-- {
		if len(rem) <= other.Degree() {
			break
		}
		leadingRem := rem[len(rem)-1]
		q, divErr := leadingRem.Div(leadingOther)
		if divErr != nil {
			return nil, nil, fmt.Errorf("core: polynomial division: %w", divErr)
		}
		quotientCoeffs[len(rem)-1-other.Degree()] = q
		for j := 0; j <= other.Degree(); j++ {
			idx := len(rem) - other.Degree() + j - 1
			if idx >= 0 && idx < len(rem) {
				rem[idx] = rem[idx].Sub(q.Mul(other.Coefficient(j)))
			}
		}
		for len(rem) > 1 && rem[len(rem)-1].IsZero() {
			rem = rem[:len(rem)-1]
		}
	}
	for i, c := range quotientCoeffs {
		if c == nil {
			quotientCoeffs[i] = p.field.Zero()
		}
	}

	quotientPoly, err := NewPolynomial(quotientCoeffs)
	if err != nil {
		return nil, nil, err
	}
	remainderPoly, err := NewPolynomial(rem)
	if err != nil {
		return nil, nil, err
	}
	return quotientPoly, remainderPoly, nil
}

// String renders the polynomial in x^k notation, highest degree first.
func (p *Polynomial) String() string {
	if p.Degree() == 0 {
		return p.coefficients[0].String()
	}
	var terms []string
	for i := p.Degree(); i >= 0; i-- {
		coeff := p.Coefficient(i)
		if coeff.IsZero() {
			continue
		}
		var term string
		switch {
		case i == 0:
			term = coeff.String()
		case i == 1 && coeff.IsOne():
			term = "x"
		case i == 1:
			term = coeff.String() + "x"
		case coeff.IsOne():
			term = fmt.Sprintf("x^%d", i)
		default:
			term = fmt.Sprintf("%sx^%d", coeff.String(), i)
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

// LagrangeInterpolation returns the unique lowest-degree polynomial passing
// through the given points.
func LagrangeInterpolation(points []Point, field *Field) (*Polynomial, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("core: need at least one point to interpolate")
	}
	for i, pt := range points {
		if !pt.X.Field().Equals(field) || !pt.Y.Field().Equals(field) {
			return nil, fmt.Errorf("core: point %d is from a different field", i)
		}
	}

	result, err := NewPolynomial([]*FieldElement{field.Zero()})
	if err != nil {
		return nil, err
	}

	for i, pt := range points {
		basis, err := NewPolynomial([]*FieldElement{field.One()})
		if err != nil {
			return nil, err
		}
		for j, other := range points {
			if i == j {
				continue
			}
			numerator, err := NewPolynomialFromInt64(field, []int64{0, 1})
			if err != nil {
				return nil, err
			}
			constant, err := NewPolynomial([]*FieldElement{other.X})
			if err != nil {
				return nil, err
			}
			numerator, err = numerator.Sub(constant)
			if err != nil {
				return nil, err
			}
			denominator := pt.X.Sub(other.X)
			if denominator.IsZero() {
				return nil, fmt.Errorf("core: duplicate x-coordinates in interpolation points")
			}
			invDenominator, err := field.One().Div(denominator)
			if err != nil {
				return nil, err
			}
			numerator, err = numerator.MulScalar(invDenominator)
			if err != nil {
				return nil, err
			}
			basis, err = basis.Mul(numerator)
			if err != nil {
				return nil, err
			}
		}
		term, err := basis.MulScalar(pt.Y)
		if err != nil {
			return nil, err
		}
		result, err = result.Add(term)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
