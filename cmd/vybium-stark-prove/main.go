// Command vybium-stark-prove is a small end-to-end driver for the engine:
// it builds the Fibonacci trace (internal/air.Fibonacci) out to a requested
// length, proves it, verifies the proof it just produced, and reports the
// serialized proof size. Drives one of the library's own example AIRs
// directly, since a DSL/program front-end that would parse an arbitrary
// program from input is out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vybium/vybium-stark-engine/internal/air"
	"github.com/vybium/vybium-stark-engine/internal/core"
	"github.com/vybium/vybium-stark-engine/pkg/vybiumstark"
)

func main() {
	length := flag.Int("length", 64, "trace length, a power of two")
	hashFn := flag.String("hash", "blake2s256", "hash function: sha256 or blake2s256")
	exeQueries := flag.Int("exe-queries", 80, "number of execution-trace query positions")
	friQueries := flag.Int("fri-queries", 40, "number of FRI query positions")
	flag.Parse()

	cfg := vybiumstark.DefaultConfig().WithHashFunction(*hashFn).WithExeQueryCount(*exeQueries).WithFriQueryCount(*friQueries)

	field := core.Default64Field

	fib, err := air.Fibonacci(field)
	if err != nil {
		fatal(fmt.Sprintf("compile AIR: %v", err))
	}

	logStderr("building trace...")
	initial := []*core.FieldElement{field.NewElementFromInt64(1), field.NewElementFromInt64(1)}
	trace, err := vybiumstark.BuildTrace(initial, *length, func(current []*core.FieldElement, _ int) []*core.FieldElement {
		return []*core.FieldElement{current[1], current[0].Add(current[1])}
	})
	if err != nil {
		fatal(fmt.Sprintf("build trace: %v", err))
	}

	lastRow := trace.Rows[trace.Shape.Length-1]
	assertions := []vybiumstark.Assertion{
		{Register: 0, Step: 0, Value: "1"},
		{Register: 1, Step: 0, Value: "1"},
		{Register: 1, Step: trace.Shape.Length - 1, Value: lastRow[1].String()},
	}

	logStderr("generating proof...")
	proof, err := vybiumstark.Prove(cfg, fib, trace, assertions)
	if err != nil {
		fatal(fmt.Sprintf("prove: %v", err))
	}

	logStderr("verifying proof...")
	ok, err := vybiumstark.Verify(cfg, fib, assertions, trace.Shape, proof)
	if err != nil {
		fatal(fmt.Sprintf("verify: %v", err))
	}
	if !ok {
		fatal("verification rejected a freshly generated proof")
	}

	size, err := vybiumstark.SizeOf(cfg, proof)
	if err != nil {
		fatal(fmt.Sprintf("size: %v", err))
	}

	logStderr(fmt.Sprintf("proof verified, %d bytes", size))
	fmt.Printf("F(%d) = %s\n", trace.Shape.Length+1, lastRow[1].String())
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "vybium-stark-prove:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
