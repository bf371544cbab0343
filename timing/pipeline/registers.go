// Package pipeline provides the 5-stage pipeline implementation for timing simulation.
package pipeline

import "github.com/sarchlab/rv32pipe/insts"

// Control holds the control signals an instruction carries down the pipeline.
// The zero value disables every action, which is what a bubble carries.
type Control struct {
	// Op is the decoded operation.
	Op insts.Op

	// Rd is the destination register number.
	Rd uint8

	RegWrite bool // True if the instruction writes Rd (never set for x0)
	MemRead  bool // True for load instructions
	MemWrite bool // True for store instructions
	MemToReg bool // True if the result comes from memory (load)
	Branch   bool // True for branches and jumps
}

// controlFor derives the control signals of a decoded instruction.
func controlFor(inst *insts.Instruction) Control {
	if inst.Op == insts.OpUnknown {
		return Control{}
	}

	return Control{
		Op:       inst.Op,
		Rd:       inst.Rd,
		RegWrite: inst.Op.WritesRd() && inst.Rd != 0,
		MemRead:  inst.Op.IsLoad(),
		MemWrite: inst.Op.IsStore(),
		MemToReg: inst.Op.IsLoad(),
		Branch:   inst.Op.IsControl(),
	}
}

// IFIDRegister holds state between Fetch and Decode stages.
type IFIDRegister struct {
	// PC is the program counter of the fetched instruction.
	PC uint32

	// InstructionWord is the raw 32-bit instruction word. Zero is a bubble.
	InstructionWord uint32

	// NPC is the address of the sequentially next instruction (PC+4).
	NPC uint32
}

// IsBubble returns true if the register holds no instruction.
func (r IFIDRegister) IsBubble() bool { return r.InstructionWord == 0 }

// Clear resets the IF/ID register to empty state.
func (r *IFIDRegister) Clear() {
	*r = IFIDRegister{}
}

// IDEXRegister holds state between Decode and Execute stages.
type IDEXRegister struct {
	InstructionWord uint32
	PC              uint32

	// Register values read from the register file.
	A int32
	B int32

	// Imm is the sign-extended immediate.
	Imm int32

	NPC uint32

	// Source register numbers for hazard detection. A register the
	// instruction does not read is recorded as 0.
	Rs1 uint8
	Rs2 uint8

	Control Control
}

// IsBubble returns true if the register holds no instruction.
func (r IDEXRegister) IsBubble() bool { return r.InstructionWord == 0 }

// Clear resets the ID/EX register to empty state.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between Execute and Memory stages.
type EXMEMRegister struct {
	InstructionWord uint32

	// PC is the program counter of the instruction.
	PC uint32

	// ALUResult is the address for loads and stores, the link address for
	// jumps, and the result for everything else.
	ALUResult int32

	// B is the value to store for store instructions.
	B int32

	// Cond is true when a branch or jump redirects the program counter.
	Cond bool

	// BranchTarget is the redirect address when Cond is true.
	BranchTarget uint32

	Control Control
}

// IsBubble returns true if the register holds no instruction.
func (r EXMEMRegister) IsBubble() bool { return r.InstructionWord == 0 }

// Taken reports whether the instruction redirected the program counter.
func (r EXMEMRegister) Taken() bool { return r.Control.Branch && r.Cond }

// Clear resets the EX/MEM register to empty state.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between Memory and Writeback stages.
type MEMWBRegister struct {
	InstructionWord uint32

	// PC is the program counter of the instruction.
	PC uint32

	// ALU result (for non-load instructions).
	ALUResult int32

	// LMD is the data loaded from memory.
	LMD int32

	Control Control
}

// IsBubble returns true if the register holds no instruction.
func (r MEMWBRegister) IsBubble() bool { return r.InstructionWord == 0 }

// Result returns the value written back to Rd.
func (r MEMWBRegister) Result() int32 {
	if r.Control.MemToReg {
		return r.LMD
	}
	return r.ALUResult
}

// Clear resets the MEM/WB register to empty state.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
