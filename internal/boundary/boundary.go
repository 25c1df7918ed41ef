// Package boundary implements the boundary constraint polynomials: for
// each register with asserted values, an interpolant B_r(x) through the
// asserted (step, value) points and a vanishing polynomial over those
// same steps, so that (trace_r(x) - B_r(x)) / Z_boundary_r(x) is a
// polynomial exactly when every asserted value holds. Built on Lagrange
// interpolation, grouped per register rather than a single free-form
// point-fit, to match the per-register assertion model below.
package boundary

import (
	"fmt"
	"sort"

	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/evalctx"
)

// Assertion pins register r's trace value at step to value: the public
// claim a boundary constraint enforces.
type Assertion struct {
	Register int
	Step     int
	Value    *core.FieldElement
}

// Constraint is one register's boundary constraint: the interpolant through
// its asserted points and the polynomial vanishing at exactly those steps.
type Constraint struct {
	Register   int
	Interpolant *core.Polynomial
	Vanishing   *core.Polynomial
	Steps       []int
}

// Build groups assertions by register and constructs one Constraint per
// register that has at least one assertion.
func Build(ctx *evalctx.Context, assertions []Assertion) ([]*Constraint, error) {
	if len(assertions) == 0 {
		return nil, fmt.Errorf("boundary: at least one assertion is required")
	}

	byRegister := map[int][]Assertion{}
	for _, a := range assertions {
		if a.Step < 0 || uint64(a.Step) >= ctx.TraceLength {
			return nil, fmt.Errorf("boundary: assertion step %d out of range [0, %d)", a.Step, ctx.TraceLength)
		}
		byRegister[a.Register] = append(byRegister[a.Register], a)
	}

	registers := make([]int, 0, len(byRegister))
	for r := range byRegister {
		registers = append(registers, r)
	}
	sort.Ints(registers)

	field := ctx.Field
	constraints := make([]*Constraint, 0, len(registers))
	for _, r := range registers {
		group := byRegister[r]
		sort.Slice(group, func(i, j int) bool { return group[i].Step < group[j].Step })

		points := make([]core.Point, len(group))
		steps := make([]int, len(group))
		for i, a := range group {
			x := ctx.Trace.Generator.ExpInt(int64(a.Step))
			points[i] = core.NewPoint(x, a.Value)
			steps[i] = a.Step
		}

		interpolant, err := core.LagrangeInterpolation(points, field)
		if err != nil {
			return nil, fmt.Errorf("boundary: interpolate register %d: %w", r, err)
		}

		vanishing, err := core.NewPolynomial([]*core.FieldElement{field.One()})
		if err != nil {
			return nil, err
		}
		for _, pt := range points {
			factor, err := core.NewPolynomial([]*core.FieldElement{pt.X.Neg(), field.One()})
			if err != nil {
				return nil, err
			}
			vanishing, err = vanishing.Mul(factor)
			if err != nil {
				return nil, fmt.Errorf("boundary: build vanishing polynomial for register %d: %w", r, err)
			}
		}

		constraints = append(constraints, &Constraint{
			Register:    r,
			Interpolant: interpolant,
			Vanishing:   vanishing,
			Steps:       steps,
		})
	}

	return constraints, nil
}
