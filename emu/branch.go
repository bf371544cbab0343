package emu

import "github.com/sarchlab/rv32pipe/insts"

// BranchTaken evaluates a conditional branch on its two register operands.
// Non-branch operations never branch.
func BranchTaken(op insts.Op, a, b int32) bool {
	switch op {
	case insts.OpBEQ:
		return a == b
	case insts.OpBNE:
		return a != b
	case insts.OpBLT:
		return a < b
	case insts.OpBGE:
		return a >= b
	case insts.OpBLTU:
		return uint32(a) < uint32(b)
	case insts.OpBGEU:
		return uint32(a) >= uint32(b)
	default:
		return false
	}
}

// JumpTarget computes the destination of a control-transfer instruction at
// pc whose first operand is rs1. JALR clears bit 0 of the sum.
func JumpTarget(inst *insts.Instruction, pc uint32, rs1 int32) uint32 {
	if inst.Op == insts.OpJALR {
		return uint32(rs1+inst.Imm) &^ 1
	}
	return pc + uint32(inst.Imm)
}
