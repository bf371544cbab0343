package pipeline

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions completed (retired).
	Instructions uint64
	// TakenBranches is the number of branches and jumps that redirected
	// the program counter.
	TakenBranches uint64
	// DataHazards is the number of cycles in which the instruction in EX
	// read a register still being produced by an older instruction.
	DataHazards uint64
	// Stalls is the number of load-use stall cycles.
	Stalls uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithForwarding enables operand forwarding and load-use stalls. Without
// it, decode reads the register file before the same cycle's writeback and
// dependent instructions must be separated by enough independent ones.
func WithForwarding(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.forwarding = enabled
	}
}

// WithFetchLimit makes fetches at or past end return bubbles, so bytes
// placed after the last instruction are never executed.
func WithFetchLimit(end uint32) PipelineOption {
	return func(p *Pipeline) {
		p.fetchStage.limit = end
	}
}

// Pipeline implements a 5-stage pipelined CPU model.
// Stages: Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB)
type Pipeline struct {
	*sim.HookableBase

	// Pipeline registers
	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	// Pipeline stages
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	// Hazard detection
	hazardUnit *HazardUnit
	decoder    *insts.Decoder
	forwarding bool

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory

	// Program counter
	pc uint32

	// Statistics
	stats Statistics
}

// NewPipeline creates a new 5-stage pipeline.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		HookableBase:   sim.NewHookableBase(),
		fetchStage:     NewFetchStage(memory),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		decoder:        insts.NewDecoder(),
		regFile:        regFile,
		memory:         memory,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Forwarding returns true if operand forwarding is enabled.
func (p *Pipeline) Forwarding() bool {
	return p.forwarding
}

// Load writes instruction words into memory.
func (p *Pipeline) Load(words map[uint32]uint32) {
	p.memory.LoadWords(words)
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// SetPC sets the program counter.
func (p *Pipeline) SetPC(pc uint32) {
	p.pc = pc
	p.regFile.PC = pc
}

// Register returns the value of register i.
func (p *Pipeline) Register(i int) (int32, error) {
	return p.regFile.Get(i)
}

// SetRegister sets register i. Setting x0 has no effect.
func (p *Pipeline) SetRegister(i int, value int32) error {
	return p.regFile.Set(i, value)
}

// Registers returns a copy of the register file.
func (p *Pipeline) Registers() [emu.NumRegs]int32 {
	return p.regFile.X
}

// MemoryByte returns the byte at addr.
func (p *Pipeline) MemoryByte(addr uint32) (uint8, error) {
	return p.memory.GetByte(addr)
}

// SetMemoryByte sets the byte at addr.
func (p *Pipeline) SetMemoryByte(addr uint32, value uint8) error {
	return p.memory.SetByte(addr, value)
}

// MemoryWord returns the little-endian word at addr.
func (p *Pipeline) MemoryWord(addr uint32) (uint32, error) {
	if !p.memory.Contains(addr) || !p.memory.Contains(addr+3) {
		return 0, emu.ErrAddressRange{Addr: addr, Size: p.memory.Size()}
	}
	return p.memory.Read32(addr), nil
}

// IFID returns a copy of the IF/ID pipeline register.
func (p *Pipeline) IFID() IFIDRegister {
	return p.ifid
}

// IDEX returns a copy of the ID/EX pipeline register.
func (p *Pipeline) IDEX() IDEXRegister {
	return p.idex
}

// EXMEM returns a copy of the EX/MEM pipeline register.
func (p *Pipeline) EXMEM() EXMEMRegister {
	return p.exmem
}

// MEMWB returns a copy of the MEM/WB pipeline register.
func (p *Pipeline) MEMWB() MEMWBRegister {
	return p.memwb
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Drained returns true if every pipeline register holds a bubble.
func (p *Pipeline) Drained() bool {
	return p.ifid.IsBubble() && p.idex.IsBubble() &&
		p.exmem.IsBubble() && p.memwb.IsBubble()
}

// Snapshot returns the current latch and register state.
func (p *Pipeline) Snapshot() Snapshot {
	return Snapshot{
		Cycle:     p.stats.Cycles,
		PC:        p.pc,
		IFID:      p.ifid,
		IDEX:      p.idex,
		EXMEM:     p.exmem,
		MEMWB:     p.memwb,
		Registers: p.regFile.X,
	}
}

// Reset clears the pipeline registers, the program counter and the
// statistics. Register file and memory are left untouched.
func (p *Pipeline) Reset() {
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.SetPC(0)
	p.stats = Statistics{}
}

// Tick executes one pipeline cycle.
func (p *Pipeline) Tick() {
	p.Step()
}

// Step executes one pipeline cycle.
//
// Stages are evaluated in reverse order (WB→MEM→EX→ID→IF) to compute new
// values before latching them into pipeline registers at cycle end.
//
// Without forwarding, ID reads the register file before this cycle's
// writeback lands. A taken branch or jump resolved in EX redirects the PC
// used for the next fetch; the two instructions fetched behind it are not
// flushed.
func (p *Pipeline) Step() {
	p.stats.Cycles++

	forwarding := p.hazardUnit.DetectForwarding(&p.idex, &p.exmem, &p.memwb)
	if forwarding.Any() {
		p.stats.DataHazards++
	}

	loadUseHazard := false
	if p.forwarding {
		next := p.decoder.Decode(p.ifid.InstructionWord)
		loadUseHazard = p.hazardUnit.DetectLoadUseHazard(&p.idex, next)
	}
	stalls := p.hazardUnit.ComputeStalls(loadUseHazard)

	// Stage 5: Writeback (before decode only when forwarding)
	retired := p.memwb
	wrote := false
	if p.forwarding {
		wrote = p.writebackStage.Writeback(&retired)
	}

	// Stage 4: Memory
	nextMEMWB := p.memoryStage.Access(&p.exmem)

	// Stage 3: Execute
	a, b := p.idex.A, p.idex.B
	if p.forwarding {
		a = p.hazardUnit.GetForwardedValue(forwarding.ForwardA, a, &p.exmem, &p.memwb)
		b = p.hazardUnit.GetForwardedValue(forwarding.ForwardB, b, &p.exmem, &p.memwb)
	}
	nextEXMEM := p.executeStage.Execute(&p.idex, a, b)
	if nextEXMEM.Taken() {
		p.stats.TakenBranches++
	}

	// Stage 2: Decode
	var nextIDEX IDEXRegister
	if stalls.InsertBubbleEX {
		p.stats.Stalls++
	} else {
		nextIDEX = p.decodeStage.Decode(&p.ifid)
	}

	if !p.forwarding {
		wrote = p.writebackStage.Writeback(&retired)
	}
	if wrote {
		p.stats.Instructions++
		p.InvokeHook(sim.HookCtx{
			Domain: p,
			Pos:    HookPosRetire,
			Item:   retired,
		})
	}

	// Stage 1: Fetch
	nextIFID := p.ifid
	if !stalls.StallID {
		nextIFID = p.fetchStage.Fetch(p.pc)
	}
	nextPC := p.pc
	if !stalls.StallIF {
		nextPC = p.pc + 4
		if nextEXMEM.Taken() {
			nextPC = nextEXMEM.BranchTarget
		}
	}

	// Latch
	p.ifid = nextIFID
	p.idex = nextIDEX
	p.exmem = nextEXMEM
	p.memwb = nextMEMWB
	p.SetPC(nextPC)

	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    HookPosCycleEnd,
		Item:   p.Snapshot(),
	})
}

// RunCycles executes the pipeline for the specified number of cycles.
func (p *Pipeline) RunCycles(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		p.Step()
	}
}
