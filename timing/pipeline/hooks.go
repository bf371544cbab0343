package pipeline

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
)

var (
	// HookPosCycleEnd is invoked after every cycle with a Snapshot item.
	HookPosCycleEnd = &sim.HookPos{Name: "Pipeline Cycle End"}

	// HookPosRetire is invoked when an instruction leaves writeback. The
	// item is the retired MEMWBRegister.
	HookPosRetire = &sim.HookPos{Name: "Pipeline Retire"}
)

// Snapshot is the architectural and latch state at the end of a cycle.
type Snapshot struct {
	Cycle     uint64
	PC        uint32
	IFID      IFIDRegister
	IDEX      IDEXRegister
	EXMEM     EXMEMRegister
	MEMWB     MEMWBRegister
	Registers [emu.NumRegs]int32
}

// TraceHook writes a one-line text record for every cycle and every retired
// instruction.
type TraceHook struct {
	w io.Writer
}

// NewTraceHook creates a hook that traces to w.
func NewTraceHook(w io.Writer) *TraceHook {
	return &TraceHook{w: w}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosCycleEnd:
		snap, ok := ctx.Item.(Snapshot)
		if !ok {
			return
		}
		fmt.Fprintf(h.w, "cycle %4d pc=0x%08X | IF/ID %-22s | ID/EX %-22s | EX/MEM %-22s | MEM/WB %s\n",
			snap.Cycle, snap.PC,
			insts.Disassemble(snap.IFID.InstructionWord),
			insts.Disassemble(snap.IDEX.InstructionWord),
			insts.Disassemble(snap.EXMEM.InstructionWord),
			insts.Disassemble(snap.MEMWB.InstructionWord))

	case HookPosRetire:
		memwb, ok := ctx.Item.(MEMWBRegister)
		if !ok {
			return
		}
		fmt.Fprintf(h.w, "retire     pc=0x%08X %s\n", memwb.PC, insts.Disassemble(memwb.InstructionWord))
	}
}
