package emu

import "github.com/sarchlab/rv32pipe/insts"

// LoadStoreUnit implements RV32 load and store operations against a memory
// image, selecting access width and extension from the operation.
type LoadStoreUnit struct {
	memory *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given memory.
func NewLoadStoreUnit(memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{memory: memory}
}

// Load reads the value a load operation returns for addr.
func (lsu *LoadStoreUnit) Load(op insts.Op, addr uint32) int32 {
	switch op {
	case insts.OpLB:
		return int32(int8(lsu.memory.Read8(addr)))
	case insts.OpLBU:
		return int32(lsu.memory.Read8(addr))
	case insts.OpLH:
		return int32(int16(lsu.memory.Read16(addr)))
	case insts.OpLHU:
		return int32(lsu.memory.Read16(addr))
	default:
		return int32(lsu.memory.Read32(addr))
	}
}

// Store writes value at addr with the width of the store operation.
func (lsu *LoadStoreUnit) Store(op insts.Op, addr uint32, value int32) {
	switch op {
	case insts.OpSB:
		lsu.memory.Write8(addr, uint8(value))
	case insts.OpSH:
		lsu.memory.Write16(addr, uint16(value))
	default:
		lsu.memory.Write32(addr, uint32(value))
	}
}
