// Package core provides the cycle-accurate CPU core model.
// It wraps the pipeline implementation to provide a high-level interface.
package core

import (
	"fmt"

	"github.com/sarchlab/rv32pipe/config"
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/loader"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// TakenBranches is the number of taken branches and jumps.
	TakenBranches uint64
	// DataHazards is the number of RAW hazards seen in EX.
	DataHazards uint64
	// Stalls is the number of load-use stall cycles.
	Stalls uint64
}

// Core represents a cycle-accurate CPU core model running one program.
// It wraps a 5-stage pipeline and provides a simple interface for simulation.
type Core struct {
	// Pipeline is the underlying 5-stage pipeline.
	Pipeline *pipeline.Pipeline

	program *loader.Program
	config  *config.Config

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore creates a Core with the program loaded into a fresh memory image
// and the PC at the program entry.
func NewCore(prog *loader.Program, cfg *config.Config) (*Core, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	regFile := &emu.RegFile{}
	memory := emu.NewMemoryWithSize(cfg.MemorySize)
	c := &Core{
		Pipeline: pipeline.NewPipeline(regFile, memory,
			pipeline.WithForwarding(cfg.Forwarding),
			pipeline.WithFetchLimit(prog.End)),
		program:  prog,
		config:   cfg.Clone(),
		regFile:  regFile,
		memory:   memory,
	}

	if err := prog.LoadInto(memory); err != nil {
		return nil, err
	}
	c.Pipeline.SetPC(prog.Entry)

	return c, nil
}

// Program returns the loaded program.
func (c *Core) Program() *loader.Program {
	return c.program
}

// Config returns the configuration the core was built with.
func (c *Core) Config() *config.Config {
	return c.config
}

// RegFile returns the architectural register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Memory returns the memory image.
func (c *Core) Memory() *emu.Memory {
	return c.memory
}

// Tick executes one pipeline cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// Done returns true once the PC has passed the last instruction and every
// instruction in flight has retired.
func (c *Core) Done() bool {
	return c.Pipeline.PC() >= c.program.End && c.Pipeline.Drained()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:        pipeStats.Cycles,
		Instructions:  pipeStats.Instructions,
		TakenBranches: pipeStats.TakenBranches,
		DataHazards:   pipeStats.DataHazards,
		Stalls:        pipeStats.Stalls,
	}
}

// Run steps the core until it is done or maxCycles more cycles have run.
// A zero maxCycles uses the configured limit. It returns true if the
// program finished.
func (c *Core) Run(maxCycles uint64) bool {
	if maxCycles == 0 {
		maxCycles = c.config.MaxRunCycles
	}

	for i := uint64(0); i < maxCycles && !c.Done(); i++ {
		c.Tick()
	}

	return c.Done()
}

// RunCycles executes the core for the specified number of cycles.
// Returns true if still running, false if done.
func (c *Core) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !c.Done(); i++ {
		c.Tick()
	}
	return !c.Done()
}

// Reset restores the initial register, memory and pipeline state.
func (c *Core) Reset() error {
	c.regFile.Reset()
	c.memory.Reset()
	c.Pipeline.Reset()

	if err := c.program.LoadInto(c.memory); err != nil {
		return err
	}
	c.Pipeline.SetPC(c.program.Entry)

	return nil
}
