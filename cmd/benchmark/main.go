// Command benchmark runs the rv32pipe timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv         Output results in CSV format (default: human-readable)
//	-json        Output results as a JSON report
//	-no-forward  Disable operand forwarding
//	-core        Run only the benchmarks that are correct without forwarding
//
// Example:
//
//	# Compare CPI with and without forwarding
//	go run ./cmd/benchmark -csv > fwd.csv
//	go run ./cmd/benchmark -csv -no-forward > nofwd.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv32pipe/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	noForward := flag.Bool("no-forward", false, "Disable operand forwarding")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Forwarding = !*noForward
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("rv32pipe Timing Benchmark Harness")
		fmt.Println("=================================")
		fmt.Printf("Forwarding: %v\n", config.Forwarding)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Benchmarks:   %d\n", summary.TotalBenchmarks)
		fmt.Printf("Average CPI:  %.3f\n", summary.AverageCPI)
		fmt.Printf("Incorrect:    %d\n", summary.Incorrect)
	}

	if benchmarks.Summarize(results).Incorrect > 0 {
		os.Exit(1)
	}
}
