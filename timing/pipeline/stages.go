package pipeline

import (
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
)

// FetchStage handles instruction fetch from memory.
type FetchStage struct {
	memory *emu.Memory

	// limit is the first address past the program. Zero means no limit.
	limit uint32
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{
		memory: memory,
	}
}

// Fetch reads the instruction at the given PC. Addresses outside memory or
// at or past the fetch limit fetch a zero word, which travels down the
// pipeline as a bubble.
func (s *FetchStage) Fetch(pc uint32) IFIDRegister {
	result := IFIDRegister{
		PC:  pc,
		NPC: pc + 4,
	}
	if s.limit == 0 || pc < s.limit {
		result.InstructionWord = s.memory.Read32(pc)
	}
	return result
}

// DecodeStage handles instruction decode and register read.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// Decode decodes the fetched word and reads its source operands from the
// register file as it stands when Decode is called.
func (s *DecodeStage) Decode(ifid *IFIDRegister) IDEXRegister {
	if ifid.IsBubble() {
		return IDEXRegister{}
	}

	inst := s.decoder.Decode(ifid.InstructionWord)
	if inst.Op == insts.OpUnknown {
		return IDEXRegister{}
	}

	result := IDEXRegister{
		InstructionWord: ifid.InstructionWord,
		PC:              ifid.PC,
		Imm:             inst.Imm,
		NPC:             ifid.NPC,
		Control:         controlFor(inst),
	}

	if inst.ReadsRs1() {
		result.Rs1 = inst.Rs1
		result.A = s.regFile.ReadReg(inst.Rs1)
	}
	if inst.ReadsRs2() {
		result.Rs2 = inst.Rs2
		result.B = s.regFile.ReadReg(inst.Rs2)
	}

	return result
}

// ExecuteStage handles ALU operations, address calculation and branch
// resolution.
type ExecuteStage struct{}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{}
}

// Execute computes the result of the instruction in ID/EX. The operand
// values a and b replace idex.A and idex.B so that forwarded values can be
// supplied.
func (s *ExecuteStage) Execute(idex *IDEXRegister, a, b int32) EXMEMRegister {
	if idex.IsBubble() {
		return EXMEMRegister{}
	}

	op := idex.Control.Op
	result := EXMEMRegister{
		InstructionWord: idex.InstructionWord,
		PC:              idex.PC,
		B:               b,
		Control:         idex.Control,
	}

	switch op.Format() {
	case insts.FormatR:
		result.ALUResult = emu.ALUResult(op, a, b)

	case insts.FormatI, insts.FormatShift:
		result.ALUResult = emu.ALUResult(op, a, idex.Imm)

	case insts.FormatLoad, insts.FormatStore:
		// Address calculation.
		result.ALUResult = a + idex.Imm

	case insts.FormatBranch:
		result.Cond = emu.BranchTaken(op, a, b)
		result.BranchTarget = idex.PC + uint32(idex.Imm)

	case insts.FormatJAL:
		result.Cond = true
		result.BranchTarget = idex.PC + uint32(idex.Imm)
		result.ALUResult = int32(idex.NPC) // Return address

	case insts.FormatJALR:
		result.Cond = true
		result.BranchTarget = uint32(a+idex.Imm) &^ 1
		result.ALUResult = int32(idex.NPC) // Return address

	case insts.FormatU:
		if op == insts.OpAUIPC {
			result.ALUResult = int32(idex.PC) + idex.Imm
		} else {
			result.ALUResult = idex.Imm
		}
	}

	return result
}

// MemoryStage handles memory load/store operations.
type MemoryStage struct {
	lsu *emu.LoadStoreUnit
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(memory *emu.Memory) *MemoryStage {
	return &MemoryStage{
		lsu: emu.NewLoadStoreUnit(memory),
	}
}

// Access performs the memory read or write of the instruction in EX/MEM
// and produces the MEM/WB register.
func (s *MemoryStage) Access(exmem *EXMEMRegister) MEMWBRegister {
	if exmem.IsBubble() {
		return MEMWBRegister{}
	}

	result := MEMWBRegister{
		InstructionWord: exmem.InstructionWord,
		PC:              exmem.PC,
		ALUResult:       exmem.ALUResult,
		Control:         exmem.Control,
	}

	addr := uint32(exmem.ALUResult)
	if exmem.Control.MemRead {
		result.LMD = s.lsu.Load(exmem.Control.Op, addr)
	} else if exmem.Control.MemWrite {
		s.lsu.Store(exmem.Control.Op, addr, exmem.B)
	}

	return result
}

// WritebackStage handles register file writeback.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{
		regFile: regFile,
	}
}

// Writeback writes the result to the register file. It returns true if an
// instruction retired.
func (s *WritebackStage) Writeback(memwb *MEMWBRegister) bool {
	if memwb.IsBubble() {
		return false
	}

	if memwb.Control.RegWrite && memwb.Control.Rd != 0 {
		s.regFile.WriteReg(memwb.Control.Rd, memwb.Result())
	}

	return true
}
