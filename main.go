// Package main provides the entry point for rv32pipe.
// rv32pipe is a five-stage RV32I pipeline simulator with its own assembler.
//
// For the full CLI, use: go run ./cmd/rv32pipe
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32pipe - RV32I five-stage pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32pipe [options] <program.s>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to simulator configuration JSON file")
	fmt.Println("  -mode      pipeline (default) or emu")
	fmt.Println("  -forward   Enable operand forwarding")
	fmt.Println("  -run       Run to completion without the interactive console")
	fmt.Println("  -tui       Full-screen pipeline view")
	fmt.Println("  -trace     Trace every cycle to stderr")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32pipe' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32pipe' instead.")
	}
}
