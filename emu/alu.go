package emu

import "github.com/sarchlab/rv32pipe/insts"

// ALUResult computes the result of an arithmetic or logic operation. For
// register-register operations b is the rs2 value; for register-immediate
// operations b is the sign-extended immediate. Shift amounts use the low five
// bits of b. Operations that are not ALU operations return a + b, which is
// the effective-address computation of loads, stores and JALR.
func ALUResult(op insts.Op, a, b int32) int32 {
	shamt := uint32(b) & 0x1F

	switch op {
	case insts.OpADD, insts.OpADDI:
		return a + b
	case insts.OpSUB:
		return a - b
	case insts.OpAND, insts.OpANDI:
		return a & b
	case insts.OpOR, insts.OpORI:
		return a | b
	case insts.OpXOR, insts.OpXORI:
		return a ^ b
	case insts.OpSLL, insts.OpSLLI:
		return int32(uint32(a) << shamt)
	case insts.OpSRL, insts.OpSRLI:
		return int32(uint32(a) >> shamt)
	case insts.OpSRA, insts.OpSRAI:
		return a >> shamt
	case insts.OpSLT, insts.OpSLTI:
		return boolToInt32(a < b)
	case insts.OpSLTU, insts.OpSLTIU:
		return boolToInt32(uint32(a) < uint32(b))
	default:
		return a + b
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
