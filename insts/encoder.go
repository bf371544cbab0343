package insts

// Encode packs a decoded instruction back into its canonical 32-bit word.
// Fields are masked to their widths; range checking of the immediate is the
// caller's responsibility.
func Encode(inst *Instruction) uint32 {
	info := inst.Op.Info()
	rd := uint32(inst.Rd) & 0x1F
	rs1 := uint32(inst.Rs1) & 0x1F
	rs2 := uint32(inst.Rs2) & 0x1F
	imm := uint32(inst.Imm)

	switch info.Format {
	case FormatR:
		return EncodeR(info.Opcode, rd, info.Funct3, rs1, rs2, info.Funct7)
	case FormatI, FormatLoad, FormatJALR:
		return EncodeI(info.Opcode, rd, info.Funct3, rs1, imm)
	case FormatShift:
		return EncodeI(info.Opcode, rd, info.Funct3, rs1, (info.Funct7<<5)|(imm&0x1F))
	case FormatStore:
		return EncodeS(info.Opcode, info.Funct3, rs1, rs2, imm)
	case FormatBranch:
		return EncodeB(info.Opcode, info.Funct3, rs1, rs2, imm)
	case FormatJAL:
		return EncodeJ(info.Opcode, rd, imm)
	case FormatU:
		return EncodeU(info.Opcode, rd, imm)
	default:
		return 0
	}
}

// EncodeR encodes an R-type instruction.
func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

// EncodeI encodes an I-type instruction.
func EncodeI(opcode, rd, funct3, rs1, imm uint32) uint32 {
	return ((imm & 0xFFF) << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

// EncodeS encodes an S-type instruction.
func EncodeS(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	imm &= 0xFFF
	return ((imm >> 5) << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) |
		((imm & 0x1F) << 7) | opcode
}

// EncodeB encodes a B-type instruction. imm is the byte offset; bit 0 is dropped.
func EncodeB(opcode, funct3, rs1, rs2, imm uint32) uint32 {
	return (((imm >> 12) & 0x1) << 31) | (((imm >> 5) & 0x3F) << 25) |
		(rs2 << 20) | (rs1 << 15) | (funct3 << 12) |
		(((imm >> 1) & 0xF) << 8) | (((imm >> 11) & 0x1) << 7) | opcode
}

// EncodeU encodes a U-type instruction. imm holds the value of bits 31:12.
func EncodeU(opcode, rd, imm uint32) uint32 {
	return (imm & 0xFFFFF000) | (rd << 7) | opcode
}

// EncodeJ encodes a J-type instruction. imm is the byte offset; bit 0 is dropped.
func EncodeJ(opcode, rd, imm uint32) uint32 {
	return (((imm >> 20) & 0x1) << 31) | (((imm >> 1) & 0x3FF) << 21) |
		(((imm >> 11) & 0x1) << 20) | (((imm >> 12) & 0xFF) << 12) |
		(rd << 7) | opcode
}
