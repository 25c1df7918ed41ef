package stark

import (
	"testing"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/boundary"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/internal/tracebuilder"
)

func fibonacciFixture(t *testing.T, length int) (Params, air.AIR, *tracebuilder.Trace, []boundary.Assertion) {
	t.Helper()
	field := core.Default64Field

	fib, err := air.Fibonacci(field)
	if err != nil {
		t.Fatalf("air.Fibonacci returned error: %v", err)
	}

	initial := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(1)}
	trace, err := tracebuilder.Build(initial, length, func(current []*core.FieldElement, _ int) []*core.FieldElement {
		return []*core.FieldElement{current[1], current[0].Add(current[1])}
	})
	if err != nil {
		t.Fatalf("tracebuilder.Build returned error: %v", err)
	}

	last := trace.Rows[length-1]
	assertions := []boundary.Assertion{
		{Register: 0, Step: 0, Value: field.NewElementFromInt64(1)},
		{Register: 1, Step: 0, Value: field.NewElementFromInt64(1)},
		{Register: 1, Step: length - 1, Value: last[1]},
	}

	params := Params{
		Field:            field,
		CompositionScale: 4,
		EvaluationScale:  8,
		NumQueries:       6,
		HashFunction:     "blake2s256",
	}
	return params, fib, trace, assertions
}

func TestProveVerifyRoundTrip(t *testing.T) {
	params, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(params, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}

	ok, err := Verify(params, fib, assertions, trace.Shape, proof)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("Verify rejected a valid proof")
	}
}

func TestVerifyRejectsTamperedRoot(t *testing.T) {
	params, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(params, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}

	tampered := *proof
	root := append([]byte{}, proof.TraceRoot...)
	root[0] ^= 0xFF
	tampered.TraceRoot = root

	ok, err := Verify(params, fib, assertions, trace.Shape, &tampered)
	if err == nil && ok {
		t.Error("Verify accepted a proof with a tampered trace root")
	}
}

func TestVerifyRejectsWrongAssertion(t *testing.T) {
	params, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(params, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}

	wrong := append([]boundary.Assertion{}, assertions...)
	wrong[2].Value = params.Field.NewElementFromInt64(wrong[2].Value.Big().Int64() + 1)

	ok, err := Verify(params, fib, wrong, trace.Shape, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof against a mismatched assertion")
	}
}

func TestProveRejectsWrongRegisterCount(t *testing.T) {
	params, fib, trace, assertions := fibonacciFixture(t, 16)

	badTrace := &tracebuilder.Trace{
		Rows:  trace.Rows,
		Shape: tracebuilder.Shape{Width: 3, Length: trace.Shape.Length},
	}

	if _, err := Prove(params, fib, badTrace, assertions); err == nil {
		t.Error("expected an error when the trace width doesn't match the AIR's register count")
	}
}
