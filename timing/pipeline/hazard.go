package pipeline

import "github.com/sarchlab/rv32pipe/insts"

// ForwardSource indicates where a forwarded value should come from.
type ForwardSource int

const (
	// ForwardNone means no forwarding needed - use register file value.
	ForwardNone ForwardSource = iota
	// ForwardFromEXMEM means forward from EX/MEM pipeline register.
	ForwardFromEXMEM
	// ForwardFromMEMWB means forward from MEM/WB pipeline register.
	ForwardFromMEMWB
)

// String returns the latch name of the source.
func (f ForwardSource) String() string {
	switch f {
	case ForwardFromEXMEM:
		return "EX/MEM"
	case ForwardFromMEMWB:
		return "MEM/WB"
	default:
		return "none"
	}
}

// ForwardingResult contains forwarding decisions for both source operands.
type ForwardingResult struct {
	// ForwardA specifies the forwarding source for the rs1 operand.
	ForwardA ForwardSource
	// ForwardB specifies the forwarding source for the rs2 operand.
	ForwardB ForwardSource
}

// Any reports whether either operand depends on an instruction still in
// flight.
func (r ForwardingResult) Any() bool {
	return r.ForwardA != ForwardNone || r.ForwardB != ForwardNone
}

// StallResult contains stall control signals.
type StallResult struct {
	// StallIF indicates the IF stage should stall (hold PC).
	StallIF bool
	// StallID indicates the ID stage should stall (hold IF/ID).
	StallID bool
	// InsertBubbleEX indicates a bubble should be inserted in EX stage.
	InsertBubbleEX bool
}

// HazardUnit detects data hazards and determines forwarding/stall signals.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectForwarding determines if forwarding is needed for the ID/EX stage.
// It checks if the source registers (rs1, rs2) match the destination register
// of instructions in later pipeline stages.
func (h *HazardUnit) DetectForwarding(
	idex *IDEXRegister,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) ForwardingResult {
	result := ForwardingResult{
		ForwardA: ForwardNone,
		ForwardB: ForwardNone,
	}

	if idex.IsBubble() {
		return result
	}

	result.ForwardA = h.detectForwardForReg(idex.Rs1, exmem, memwb)
	result.ForwardB = h.detectForwardForReg(idex.Rs2, exmem, memwb)

	return result
}

// detectForwardForReg checks if a specific register needs forwarding.
func (h *HazardUnit) detectForwardForReg(
	reg uint8,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) ForwardSource {
	// x0 always reads as 0
	if reg == 0 {
		return ForwardNone
	}

	// EX/MEM has precedence over MEM/WB (more recent value). A load in
	// EX/MEM has no value yet; the load-use stall keeps that case from
	// reaching EX.
	if !exmem.IsBubble() && exmem.Control.RegWrite && !exmem.Control.MemRead &&
		exmem.Control.Rd == reg {
		return ForwardFromEXMEM
	}

	if !memwb.IsBubble() && memwb.Control.RegWrite && memwb.Control.Rd == reg {
		return ForwardFromMEMWB
	}

	return ForwardNone
}

// DetectLoadUseHazard detects load-use hazards where a load instruction
// is immediately followed by an instruction using the loaded value.
// This requires a stall because the value isn't available until MEM stage.
func (h *HazardUnit) DetectLoadUseHazard(idex *IDEXRegister, next *insts.Instruction) bool {
	if idex.IsBubble() || !idex.Control.MemRead || idex.Control.Rd == 0 {
		return false
	}

	if next == nil || next.Op == insts.OpUnknown {
		return false
	}

	rd := idex.Control.Rd
	if next.ReadsRs1() && next.Rs1 == rd {
		return true
	}
	if next.ReadsRs2() && next.Rs2 == rd {
		return true
	}

	return false
}

// ComputeStalls computes stall signals based on hazard conditions.
func (h *HazardUnit) ComputeStalls(loadUseHazard bool) StallResult {
	result := StallResult{}

	// Load-use hazard: stall IF and ID, insert bubble in EX
	if loadUseHazard {
		result.StallIF = true
		result.StallID = true
		result.InsertBubbleEX = true
	}

	return result
}

// GetForwardedValue returns the value to use based on forwarding decision.
func (h *HazardUnit) GetForwardedValue(
	forward ForwardSource,
	originalValue int32,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) int32 {
	switch forward {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		return memwb.Result()
	default:
		return originalValue
	}
}
