package insts

import "fmt"

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Words that do not belong to the
// modeled subset, including the all-zero word, decode to OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	opcode := word & 0x7F         // bits [6:0]
	rd := (word >> 7) & 0x1F      // bits [11:7]
	funct3 := (word >> 12) & 0x7  // bits [14:12]
	rs1 := (word >> 15) & 0x1F    // bits [19:15]
	rs2 := (word >> 20) & 0x1F    // bits [24:20]
	funct7 := (word >> 25) & 0x7F // bits [31:25]

	var op Op
	switch opcode {
	case OpcodeOp:
		op = d.matchOp(FormatR, opcode, funct3, funct7)
	case OpcodeOpImm:
		if funct3 == 0b001 || funct3 == 0b101 {
			op = d.matchOp(FormatShift, opcode, funct3, funct7)
		} else {
			op = d.matchOp(FormatI, opcode, funct3, 0)
		}
	case OpcodeLoad:
		op = d.matchOp(FormatLoad, opcode, funct3, 0)
	case OpcodeStore:
		op = d.matchOp(FormatStore, opcode, funct3, 0)
	case OpcodeBranch:
		op = d.matchOp(FormatBranch, opcode, funct3, 0)
	case OpcodeJAL:
		op = OpJAL
	case OpcodeJALR:
		if funct3 == 0 {
			op = OpJALR
		}
	case OpcodeLUI:
		op = OpLUI
	case OpcodeAUIPC:
		op = OpAUIPC
	}

	if op == OpUnknown {
		return inst
	}

	inst.Op = op
	inst.Format = op.Format()

	switch inst.Format {
	case FormatR:
		inst.Rd, inst.Rs1, inst.Rs2 = uint8(rd), uint8(rs1), uint8(rs2)
	case FormatI, FormatLoad, FormatJALR:
		inst.Rd, inst.Rs1 = uint8(rd), uint8(rs1)
		inst.Imm = immI(word)
	case FormatShift:
		inst.Rd, inst.Rs1 = uint8(rd), uint8(rs1)
		inst.Imm = int32(rs2) // shamt occupies the rs2 field
	case FormatStore:
		inst.Rs1, inst.Rs2 = uint8(rs1), uint8(rs2)
		inst.Imm = immS(word)
	case FormatBranch:
		inst.Rs1, inst.Rs2 = uint8(rs1), uint8(rs2)
		inst.Imm = immB(word)
	case FormatJAL:
		inst.Rd = uint8(rd)
		inst.Imm = immJ(word)
	case FormatU:
		inst.Rd = uint8(rd)
		inst.Imm = int32(word & 0xFFFFF000)
	}

	return inst
}

// matchOp finds the operation of the given format with matching function fields.
func (d *Decoder) matchOp(format Format, opcode, funct3, funct7 uint32) Op {
	for op := OpUnknown + 1; op < numOps; op++ {
		info := infoTable[op]
		if info.Format != format || info.Opcode != opcode || info.Funct3 != funct3 {
			continue
		}
		if (format == FormatR || format == FormatShift) && info.Funct7 != funct7 {
			continue
		}
		return op
	}
	return OpUnknown
}

// immI extracts the sign-extended imm[11:0] from bits [31:20].
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS reassembles imm[11:5] (bits [31:25]) and imm[4:0] (bits [11:7]).
func immS(word uint32) int32 {
	hi := int32(word) >> 25 << 5
	lo := int32((word >> 7) & 0x1F)
	return hi | lo
}

// immB reassembles imm[12|10:5] (bits [31|30:25]) and imm[4:1|11] (bits [11:8|7]).
func immB(word uint32) int32 {
	raw := (((word >> 31) & 0x1) << 12) |
		(((word >> 7) & 0x1) << 11) |
		(((word >> 25) & 0x3F) << 5) |
		(((word >> 8) & 0xF) << 1)
	return signExtend(raw, 13)
}

// immJ reassembles imm[20|10:1|11|19:12] from bits [31|30:21|20|19:12].
func immJ(word uint32) int32 {
	raw := (((word >> 31) & 0x1) << 20) |
		(((word >> 12) & 0xFF) << 12) |
		(((word >> 20) & 0x1) << 11) |
		(((word >> 21) & 0x3FF) << 1)
	return signExtend(raw, 21)
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// String renders the instruction in assembler syntax.
func (i *Instruction) String() string {
	m := i.Op.String()
	switch i.Format {
	case FormatR:
		return fmt.Sprintf("%s x%d, x%d, x%d", m, i.Rd, i.Rs1, i.Rs2)
	case FormatI, FormatShift, FormatJALR:
		return fmt.Sprintf("%s x%d, x%d, %d", m, i.Rd, i.Rs1, i.Imm)
	case FormatLoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", m, i.Rd, i.Imm, i.Rs1)
	case FormatStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", m, i.Rs2, i.Imm, i.Rs1)
	case FormatBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", m, i.Rs1, i.Rs2, i.Imm)
	case FormatJAL:
		return fmt.Sprintf("%s x%d, %d", m, i.Rd, i.Imm)
	case FormatU:
		return fmt.Sprintf("%s x%d, 0x%x", m, i.Rd, uint32(i.Imm)>>12)
	default:
		return "bubble"
	}
}

// Disassemble decodes and renders a machine word.
func Disassemble(word uint32) string {
	return NewDecoder().Decode(word).String()
}
