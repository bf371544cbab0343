package emu

import (
	"errors"

	"github.com/sarchlab/rv32pipe/translate"
)

var f = translate.From

var (
	// ErrUnknownInstruction is returned by the functional emulator when the
	// word at PC is not in the modeled instruction subset.
	ErrUnknownInstruction = errors.New(f("unknown instruction"))
	// ErrMaxInstructions is returned once the instruction limit is reached.
	ErrMaxInstructions = errors.New(f("max instructions reached"))
)

// ErrRegisterIndex reports a register index outside [0, 31].
type ErrRegisterIndex int

func (err ErrRegisterIndex) Error() string {
	return f("register index %v out of range [0, 31]", int(err))
}

// ErrAddressRange reports a byte address outside the memory image.
type ErrAddressRange struct {
	Addr uint32
	Size uint32
}

func (err ErrAddressRange) Error() string {
	return f("address %#x outside memory of %#x bytes", err.Addr, err.Size)
}
