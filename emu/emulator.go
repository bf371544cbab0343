package emu

import (
	"fmt"

	"github.com/sarchlab/rv32pipe/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Err is set if the instruction could not be executed.
	Err error
}

// Emulator executes RV32 instructions functionally, one instruction per
// step with no pipeline overlap. It is the reference model the pipeline is
// checked against.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder
	lsu     *LoadStoreUnit

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemory runs the emulator against an existing memory image.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithRegFile runs the emulator against an existing register file.
func WithRegFile(regFile *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = regFile
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new RV32 emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		decoder: insts.NewDecoder(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.regFile == nil {
		e.regFile = &RegFile{}
	}
	if e.memory == nil {
		e.memory = NewMemory()
	}
	e.lsu = NewLoadStoreUnit(e.memory)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram writes the instruction words into memory and sets the entry point.
func (e *Emulator) LoadProgram(entry uint32, words map[uint32]uint32) {
	e.memory.LoadWords(words)
	e.regFile.PC = entry
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	pc := e.regFile.PC
	word := e.memory.Read32(pc)
	inst := e.decoder.Decode(word)

	if inst.Op == insts.OpUnknown {
		return StepResult{
			Err: fmt.Errorf("%w 0x%08X at PC=0x%X", ErrUnknownInstruction, word, pc),
		}
	}

	e.execute(inst, pc)
	e.instructionCount++

	return StepResult{}
}

// Run executes instructions until the PC leaves [start, end) or an error
// occurs.
func (e *Emulator) Run(start, end uint32) error {
	for e.regFile.PC >= start && e.regFile.PC < end {
		if result := e.Step(); result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// execute applies one decoded instruction to the architectural state.
func (e *Emulator) execute(inst *insts.Instruction, pc uint32) {
	rs1 := e.regFile.ReadReg(inst.Rs1)
	rs2 := e.regFile.ReadReg(inst.Rs2)
	next := pc + 4

	switch inst.Format {
	case insts.FormatR:
		e.regFile.WriteReg(inst.Rd, ALUResult(inst.Op, rs1, rs2))
	case insts.FormatI, insts.FormatShift:
		e.regFile.WriteReg(inst.Rd, ALUResult(inst.Op, rs1, inst.Imm))
	case insts.FormatLoad:
		e.regFile.WriteReg(inst.Rd, e.lsu.Load(inst.Op, uint32(rs1+inst.Imm)))
	case insts.FormatStore:
		e.lsu.Store(inst.Op, uint32(rs1+inst.Imm), rs2)
	case insts.FormatBranch:
		if BranchTaken(inst.Op, rs1, rs2) {
			next = JumpTarget(inst, pc, rs1)
		}
	case insts.FormatJAL, insts.FormatJALR:
		next = JumpTarget(inst, pc, rs1)
		e.regFile.WriteReg(inst.Rd, int32(pc+4))
	case insts.FormatU:
		if inst.Op == insts.OpAUIPC {
			e.regFile.WriteReg(inst.Rd, int32(pc)+inst.Imm)
		} else {
			e.regFile.WriteReg(inst.Rd, inst.Imm)
		}
	}

	e.regFile.PC = next
}
