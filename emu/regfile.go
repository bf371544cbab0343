// Package emu provides the RV32 architectural state (register file and
// memory image) and a functional reference emulator.
package emu

// NumRegs is the number of integer general-purpose registers.
const NumRegs = 32

// RegFile represents the RV32 integer register file.
// It contains 32 general-purpose registers (x0-x31) and the program counter.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hard-wired to zero; writes to it are discarded.
	X [NumRegs]int32

	// PC is the program counter.
	PC uint32
}

// ReadReg reads a register value. Register 0 and indices >= 32 return 0.
func (r *RegFile) ReadReg(reg uint8) int32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 (and to
// indices >= 32) are ignored.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = value
}

// Get reads a register on behalf of an external caller, rejecting indices
// outside [0, 31].
func (r *RegFile) Get(index int) (int32, error) {
	if index < 0 || index >= NumRegs {
		return 0, ErrRegisterIndex(index)
	}
	return r.ReadReg(uint8(index)), nil
}

// Set writes a register on behalf of an external caller, rejecting indices
// outside [0, 31]. Setting x0 is accepted and has no effect.
func (r *RegFile) Set(index int, value int32) error {
	if index < 0 || index >= NumRegs {
		return ErrRegisterIndex(index)
	}
	r.WriteReg(uint8(index), value)
	return nil
}

// Reset clears all registers and the program counter.
func (r *RegFile) Reset() {
	*r = RegFile{}
}
