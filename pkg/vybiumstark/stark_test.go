package vybiumstark

import (
	"testing"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/core"
)

func fibonacciFixture(t *testing.T, length int) (*Config, AIR, *Trace, []Assertion) {
	t.Helper()
	cfg := DefaultConfig().WithCompositionBlowup(4).WithEvaluationBlowup(8).WithExeQueryCount(6).WithFriQueryCount(6)

	field := core.Default64Field
	fib, err := air.Fibonacci(field)
	if err != nil {
		t.Fatalf("air.Fibonacci returned error: %v", err)
	}

	initial := []*FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(1)}
	trace, err := BuildTrace(initial, length, func(current []*FieldElement, _ int) []*FieldElement {
		return []*FieldElement{current[1], current[0].Add(current[1])}
	})
	if err != nil {
		t.Fatalf("BuildTrace returned error: %v", err)
	}

	last := trace.Rows[length-1]
	assertions := []Assertion{
		{Register: 0, Step: 0, Value: "1"},
		{Register: 1, Step: 0, Value: "1"},
		{Register: 1, Step: length - 1, Value: last[1].String()},
	}
	return cfg, fib, trace, assertions
}

func TestPackageProveVerify(t *testing.T) {
	cfg, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(cfg, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}

	ok, err := Verify(cfg, fib, assertions, trace.Shape, proof)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("Verify rejected a valid proof")
	}
}

func TestProveRejectsEmptyAssertions(t *testing.T) {
	cfg, fib, trace, _ := fibonacciFixture(t, 16)

	_, err := Prove(cfg, fib, trace, nil)
	if err == nil {
		t.Fatal("expected an error for an empty assertion list")
	}
	serr, ok := err.(*StarkError)
	if !ok {
		t.Fatalf("error is %T, want *StarkError", err)
	}
	if serr.Code != ErrInvalidClaim {
		t.Errorf("error code = %d, want ErrInvalidClaim", serr.Code)
	}
}

func TestProveRejectsInvalidConfig(t *testing.T) {
	cfg, fib, trace, assertions := fibonacciFixture(t, 16)
	cfg.ExeQueryCount = 0

	if _, err := Prove(cfg, fib, trace, assertions); err == nil {
		t.Error("expected an error for an invalid configuration")
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	cfg, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(cfg, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}

	data, err := Serialize(cfg, proof)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Serialize produced an empty buffer")
	}

	parsed, err := Parse(cfg, data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	ok, err := Verify(cfg, fib, assertions, parsed.TraceShape, parsed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Error("Verify rejected a proof round-tripped through the wire format")
	}

	size, err := SizeOf(cfg, proof)
	if err != nil {
		t.Fatalf("SizeOf returned error: %v", err)
	}
	if size != len(data) {
		t.Errorf("SizeOf = %d, want %d", size, len(data))
	}
}

func TestParseRejectsTruncatedBuffer(t *testing.T) {
	cfg, fib, trace, assertions := fibonacciFixture(t, 16)

	proof, err := Prove(cfg, fib, trace, assertions)
	if err != nil {
		t.Fatalf("Prove returned error: %v", err)
	}
	data, err := Serialize(cfg, proof)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}

	if _, err := Parse(cfg, data[:len(data)/2]); err == nil {
		t.Error("expected an error parsing a truncated buffer")
	}
}
