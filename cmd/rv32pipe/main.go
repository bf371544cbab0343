// Package main provides the entry point for rv32pipe.
// rv32pipe assembles an RV32I source file and runs it on a five-stage
// pipeline model.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/sarchlab/rv32pipe/config"
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/loader"
	"github.com/sarchlab/rv32pipe/timing/core"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to simulator configuration JSON file")
	mode       = flag.String("mode", "pipeline", "Simulation mode: pipeline or emu")
	runAll     = flag.Bool("run", false, "Run to completion without the interactive console")
	tui        = flag.Bool("tui", false, "Show the pipeline in a full-screen terminal view")
	trace      = flag.Bool("trace", false, "Trace every cycle and retired instruction to stderr")
	forward    = flag.Bool("forward", false, "Enable operand forwarding (overrides the config file)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32pipe [options] <program.s>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *forward {
		cfg.Forwarding = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	prog, err := loader.Load(programPath, cfg.Layout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.Entry)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
		pp.Println(prog.Symbols)
		pp.Println(prog.Words)
	}

	switch *mode {
	case "emu":
		os.Exit(runEmulation(prog, cfg, os.Stdout))
	case "pipeline":
		os.Exit(runPipeline(prog, cfg, programPath))
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

// runEmulation runs the program on the functional reference emulator and
// prints the final register file.
func runEmulation(prog *loader.Program, cfg *config.Config, out io.Writer) int {
	memory := emu.NewMemoryWithSize(cfg.MemorySize)
	if err := prog.LoadInto(memory); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		return 1
	}

	emulator := emu.NewEmulator(
		emu.WithMemory(memory),
		emu.WithMaxInstructions(cfg.MaxRunCycles),
	)
	emulator.RegFile().PC = prog.Entry

	if err := emulator.Run(prog.Entry, prog.End); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "Instructions executed: %d\n", emulator.InstructionCount())
	printRegisters(out, emulator.RegFile().X)

	return 0
}

// runPipeline builds a core for the program and hands it to the selected
// front end.
func runPipeline(prog *loader.Program, cfg *config.Config, programPath string) int {
	c, err := core.NewCore(prog, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating core: %v\n", err)
		return 1
	}

	if *trace {
		c.Pipeline.AcceptHook(pipeline.NewTraceHook(os.Stderr))
	}

	switch {
	case *tui:
		if err := runViewer(c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case *runAll:
		finished := c.Run(0)
		printState(os.Stdout, c.Pipeline)
		printRegisters(os.Stdout, c.Pipeline.Registers())
		if !finished {
			fmt.Fprintf(os.Stderr, "Warning: stopped after %d cycles without reaching the end\n",
				c.Stats().Cycles)
		}
	default:
		con := newConsole(c, bufio.NewReader(os.Stdin), os.Stdout)
		con.Run()
	}

	printReport(os.Stdout, programPath, c.Stats())

	return 0
}

// printReport prints the run statistics.
func printReport(w io.Writer, programPath string, stats core.Stats) {
	cpi := 0.0
	if stats.Instructions > 0 {
		cpi = float64(stats.Cycles) / float64(stats.Instructions)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Program: %s\n", programPath)
	fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "CPI: %.2f\n", cpi)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Pipeline Events:\n")
	fmt.Fprintf(w, "  Taken branches: %d\n", stats.TakenBranches)
	fmt.Fprintf(w, "  Data hazards:   %d\n", stats.DataHazards)
	fmt.Fprintf(w, "  Stalls:         %d\n", stats.Stalls)
}
