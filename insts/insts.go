// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements the instruction subset modeled by the simulator:
//   - Register-register ALU: ADD, SUB, AND, OR, XOR, SLL, SRL, SRA, SLT, SLTU
//   - Register-immediate ALU: ADDI, ANDI, ORI, XORI, SLTI, SLTIU, SLLI, SRLI, SRAI
//   - Loads and stores: LB, LH, LW, LBU, LHU, SB, SH, SW
//   - Branches: BEQ, BNE, BLT, BGE, BLTU, BGEU
//   - Jumps: JAL, JALR
//   - Upper immediates: LUI, AUIPC
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500093) // addi x1, x0, 5
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts

// Op represents an RV32 operation.
type Op uint8

// RV32 operations.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpAND
	OpOR
	OpXOR
	OpSLL
	OpSRL
	OpSRA
	OpSLT
	OpSLTU
	OpADDI
	OpANDI
	OpORI
	OpXORI
	OpSLTI
	OpSLTIU
	OpSLLI
	OpSRLI
	OpSRAI
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpJAL
	OpJALR
	OpLUI
	OpAUIPC

	numOps
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // rd, rs1, rs2
	FormatI              // rd, rs1, imm[11:0]
	FormatShift          // rd, rs1, shamt[4:0]
	FormatLoad           // rd, imm[11:0](rs1)
	FormatStore          // rs2, imm[11:0](rs1), immediate split 11:5 / 4:0
	FormatBranch         // rs1, rs2, offset split 12|10:5 / 4:1|11
	FormatJAL            // rd, offset split 20|10:1|11|19:12
	FormatJALR           // rd, rs1, imm[11:0]
	FormatU              // rd, imm[31:12]
)

// Major opcodes (bits 6:0).
const (
	OpcodeOp     uint32 = 0b0110011
	OpcodeOpImm  uint32 = 0b0010011
	OpcodeLoad   uint32 = 0b0000011
	OpcodeStore  uint32 = 0b0100011
	OpcodeBranch uint32 = 0b1100011
	OpcodeJAL    uint32 = 0b1101111
	OpcodeJALR   uint32 = 0b1100111
	OpcodeLUI    uint32 = 0b0110111
	OpcodeAUIPC  uint32 = 0b0010111
)

// Info is the static encoding metadata for one operation.
type Info struct {
	Mnemonic string
	Format   Format
	Opcode   uint32
	Funct3   uint32
	Funct7   uint32
}

var infoTable = [numOps]Info{
	OpUnknown: {Mnemonic: "unknown"},

	OpADD:  {"add", FormatR, OpcodeOp, 0b000, 0b0000000},
	OpSUB:  {"sub", FormatR, OpcodeOp, 0b000, 0b0100000},
	OpSLL:  {"sll", FormatR, OpcodeOp, 0b001, 0b0000000},
	OpSLT:  {"slt", FormatR, OpcodeOp, 0b010, 0b0000000},
	OpSLTU: {"sltu", FormatR, OpcodeOp, 0b011, 0b0000000},
	OpXOR:  {"xor", FormatR, OpcodeOp, 0b100, 0b0000000},
	OpSRL:  {"srl", FormatR, OpcodeOp, 0b101, 0b0000000},
	OpSRA:  {"sra", FormatR, OpcodeOp, 0b101, 0b0100000},
	OpOR:   {"or", FormatR, OpcodeOp, 0b110, 0b0000000},
	OpAND:  {"and", FormatR, OpcodeOp, 0b111, 0b0000000},

	OpADDI:  {"addi", FormatI, OpcodeOpImm, 0b000, 0},
	OpSLTI:  {"slti", FormatI, OpcodeOpImm, 0b010, 0},
	OpSLTIU: {"sltiu", FormatI, OpcodeOpImm, 0b011, 0},
	OpXORI:  {"xori", FormatI, OpcodeOpImm, 0b100, 0},
	OpORI:   {"ori", FormatI, OpcodeOpImm, 0b110, 0},
	OpANDI:  {"andi", FormatI, OpcodeOpImm, 0b111, 0},
	OpSLLI:  {"slli", FormatShift, OpcodeOpImm, 0b001, 0b0000000},
	OpSRLI:  {"srli", FormatShift, OpcodeOpImm, 0b101, 0b0000000},
	OpSRAI:  {"srai", FormatShift, OpcodeOpImm, 0b101, 0b0100000},

	OpLB:  {"lb", FormatLoad, OpcodeLoad, 0b000, 0},
	OpLH:  {"lh", FormatLoad, OpcodeLoad, 0b001, 0},
	OpLW:  {"lw", FormatLoad, OpcodeLoad, 0b010, 0},
	OpLBU: {"lbu", FormatLoad, OpcodeLoad, 0b100, 0},
	OpLHU: {"lhu", FormatLoad, OpcodeLoad, 0b101, 0},

	OpSB: {"sb", FormatStore, OpcodeStore, 0b000, 0},
	OpSH: {"sh", FormatStore, OpcodeStore, 0b001, 0},
	OpSW: {"sw", FormatStore, OpcodeStore, 0b010, 0},

	OpBEQ:  {"beq", FormatBranch, OpcodeBranch, 0b000, 0},
	OpBNE:  {"bne", FormatBranch, OpcodeBranch, 0b001, 0},
	OpBLT:  {"blt", FormatBranch, OpcodeBranch, 0b100, 0},
	OpBGE:  {"bge", FormatBranch, OpcodeBranch, 0b101, 0},
	OpBLTU: {"bltu", FormatBranch, OpcodeBranch, 0b110, 0},
	OpBGEU: {"bgeu", FormatBranch, OpcodeBranch, 0b111, 0},

	OpJAL:   {"jal", FormatJAL, OpcodeJAL, 0, 0},
	OpJALR:  {"jalr", FormatJALR, OpcodeJALR, 0b000, 0},
	OpLUI:   {"lui", FormatU, OpcodeLUI, 0, 0},
	OpAUIPC: {"auipc", FormatU, OpcodeAUIPC, 0, 0},
}

var mnemonics = func() map[string]Op {
	m := make(map[string]Op, numOps)
	for op := OpUnknown + 1; op < numOps; op++ {
		m[infoTable[op].Mnemonic] = op
	}
	return m
}()

// Info returns the encoding metadata of the operation.
func (op Op) Info() Info {
	if op >= numOps {
		return infoTable[OpUnknown]
	}
	return infoTable[op]
}

// Format returns the encoding format of the operation.
func (op Op) Format() Format {
	return op.Info().Format
}

// String returns the assembler mnemonic.
func (op Op) String() string {
	return op.Info().Mnemonic
}

// Lookup resolves a machine mnemonic (not a pseudo-instruction) to its Op.
func Lookup(mnemonic string) (Op, bool) {
	op, ok := mnemonics[mnemonic]
	return op, ok
}

// IsLoad reports whether the operation reads data memory.
func (op Op) IsLoad() bool { return op.Format() == FormatLoad }

// IsStore reports whether the operation writes data memory.
func (op Op) IsStore() bool { return op.Format() == FormatStore }

// IsControl reports whether the operation may redirect the program counter.
func (op Op) IsControl() bool {
	switch op.Format() {
	case FormatBranch, FormatJAL, FormatJALR:
		return true
	}
	return false
}

// WritesRd reports whether the operation produces a register result.
func (op Op) WritesRd() bool {
	switch op.Format() {
	case FormatR, FormatI, FormatShift, FormatLoad, FormatJAL, FormatJALR, FormatU:
		return true
	}
	return false
}

// Instruction represents a decoded RV32 instruction.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	// Imm is the sign-extended immediate. For branches and JAL it is the
	// byte offset from the instruction's own address; for U-type it is the
	// value already shifted into bits 31:12.
	Imm int32
}

// ReadsRs1 reports whether the instruction consumes the Rs1 operand.
func (i *Instruction) ReadsRs1() bool {
	switch i.Format {
	case FormatR, FormatI, FormatShift, FormatLoad, FormatStore, FormatBranch, FormatJALR:
		return true
	}
	return false
}

// ReadsRs2 reports whether the instruction consumes the Rs2 operand.
func (i *Instruction) ReadsRs2() bool {
	switch i.Format {
	case FormatR, FormatStore, FormatBranch:
		return true
	}
	return false
}
