package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

// inFlight is any non-zero instruction word; the hazard unit only looks at
// register numbers and control signals.
const inFlight = 0x00000013

var _ = Describe("HazardUnit", func() {
	var hazardUnit *pipeline.HazardUnit

	BeforeEach(func() {
		hazardUnit = pipeline.NewHazardUnit()
	})

	Describe("DetectForwarding", func() {
		var idex *pipeline.IDEXRegister
		var exmem *pipeline.EXMEMRegister
		var memwb *pipeline.MEMWBRegister

		BeforeEach(func() {
			idex = &pipeline.IDEXRegister{InstructionWord: inFlight, Rs1: 1, Rs2: 2}
			exmem = &pipeline.EXMEMRegister{}
			memwb = &pipeline.MEMWBRegister{}
		})

		Context("when no forwarding is needed", func() {
			It("should return ForwardNone for both operands", func() {
				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
				Expect(result.ForwardB).To(Equal(pipeline.ForwardNone))
				Expect(result.Any()).To(BeFalse())
			})
		})

		Context("when forwarding from EX/MEM is needed", func() {
			It("should forward rs1 from EX/MEM", func() {
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardFromEXMEM))
				Expect(result.ForwardB).To(Equal(pipeline.ForwardNone))
				Expect(result.Any()).To(BeTrue())
			})

			It("should forward rs2 from EX/MEM", func() {
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 2}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
				Expect(result.ForwardB).To(Equal(pipeline.ForwardFromEXMEM))
			})

			It("should not forward a load that has not read memory yet", func() {
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, MemRead: true, MemToReg: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			})
		})

		Context("when forwarding from MEM/WB is needed", func() {
			It("should forward rs1 from MEM/WB", func() {
				memwb.InstructionWord = inFlight
				memwb.Control = pipeline.Control{RegWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardFromMEMWB))
			})

			It("should forward a load result from MEM/WB", func() {
				memwb.InstructionWord = inFlight
				memwb.Control = pipeline.Control{RegWrite: true, MemRead: true, MemToReg: true, Rd: 2}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardB).To(Equal(pipeline.ForwardFromMEMWB))
			})
		})

		Context("priority: EX/MEM over MEM/WB", func() {
			It("should prioritize EX/MEM when both match", func() {
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 1}
				memwb.InstructionWord = inFlight
				memwb.Control = pipeline.Control{RegWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardFromEXMEM))
			})
		})

		Context("x0 handling", func() {
			It("should not forward when the source is x0", func() {
				idex.Rs1 = 0
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 0}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			})

			It("should not forward from an instruction that does not write", func() {
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{MemWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			})
		})

		Context("bubbles", func() {
			It("should not forward when ID/EX is a bubble", func() {
				idex.InstructionWord = 0
				exmem.InstructionWord = inFlight
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			})

			It("should not forward from a bubble", func() {
				exmem.Control = pipeline.Control{RegWrite: true, Rd: 1}

				result := hazardUnit.DetectForwarding(idex, exmem, memwb)

				Expect(result.ForwardA).To(Equal(pipeline.ForwardNone))
			})
		})
	})

	Describe("DetectLoadUseHazard", func() {
		var load *pipeline.IDEXRegister
		decoder := insts.NewDecoder()

		BeforeEach(func() {
			// lw x5, -4(x2)
			load = &pipeline.IDEXRegister{
				InstructionWord: 0xFFC12283,
				Control:         pipeline.Control{Op: insts.OpLW, Rd: 5, RegWrite: true, MemRead: true, MemToReg: true},
			}
		})

		It("should detect a use of the loaded register as rs1", func() {
			next := decoder.Decode(0x00028313) // addi x6, x5, 0
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeTrue())
		})

		It("should detect a store of the loaded register", func() {
			next := decoder.Decode(0x00502023) // sw x5, 0(x0)
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeTrue())
		})

		It("should ignore independent instructions", func() {
			next := decoder.Decode(0x00308313) // addi x6, x1, 3
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeFalse())
		})

		It("should ignore immediate bits that look like rs2", func() {
			next := decoder.Decode(0x00500313) // addi x6, x0, 5
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeFalse())
		})

		It("should ignore loads into x0", func() {
			load.Control.Rd = 0
			next := decoder.Decode(0x00000313) // addi x6, x0, 0
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeFalse())
		})

		It("should ignore non-load instructions", func() {
			load.Control.MemRead = false
			next := decoder.Decode(0x00028313)
			Expect(hazardUnit.DetectLoadUseHazard(load, next)).To(BeFalse())
		})

		It("should ignore a bubble behind the load", func() {
			Expect(hazardUnit.DetectLoadUseHazard(load, decoder.Decode(0))).To(BeFalse())
		})
	})

	Describe("ComputeStalls", func() {
		It("should stall fetch and decode on a load-use hazard", func() {
			result := hazardUnit.ComputeStalls(true)

			Expect(result.StallIF).To(BeTrue())
			Expect(result.StallID).To(BeTrue())
			Expect(result.InsertBubbleEX).To(BeTrue())
		})

		It("should not stall otherwise", func() {
			Expect(hazardUnit.ComputeStalls(false)).To(Equal(pipeline.StallResult{}))
		})
	})

	Describe("GetForwardedValue", func() {
		exmem := &pipeline.EXMEMRegister{ALUResult: 11}
		memwb := &pipeline.MEMWBRegister{ALUResult: 22, LMD: 33}

		It("should select the value by source", func() {
			Expect(hazardUnit.GetForwardedValue(pipeline.ForwardNone, 7, exmem, memwb)).To(Equal(int32(7)))
			Expect(hazardUnit.GetForwardedValue(pipeline.ForwardFromEXMEM, 7, exmem, memwb)).To(Equal(int32(11)))
			Expect(hazardUnit.GetForwardedValue(pipeline.ForwardFromMEMWB, 7, exmem, memwb)).To(Equal(int32(22)))
		})

		It("should use loaded data for loads in MEM/WB", func() {
			load := &pipeline.MEMWBRegister{ALUResult: 22, LMD: 33, Control: pipeline.Control{MemToReg: true}}
			Expect(hazardUnit.GetForwardedValue(pipeline.ForwardFromMEMWB, 7, exmem, load)).To(Equal(int32(33)))
		})
	})
})
