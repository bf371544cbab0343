package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
)

var _ = Describe("Pipeline Stages", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory()
	})

	Describe("FetchStage", func() {
		var fetchStage *pipeline.FetchStage

		BeforeEach(func() {
			fetchStage = pipeline.NewFetchStage(memory)
		})

		It("should fetch instruction from memory", func() {
			memory.Write32(0x1000, 0x002081B3) // add x3, x1, x2

			ifid := fetchStage.Fetch(0x1000)

			Expect(ifid.PC).To(Equal(uint32(0x1000)))
			Expect(ifid.InstructionWord).To(Equal(uint32(0x002081B3)))
			Expect(ifid.NPC).To(Equal(uint32(0x1004)))
		})

		It("should fetch a bubble outside memory", func() {
			ifid := fetchStage.Fetch(0xFFFFFFFC)

			Expect(ifid.IsBubble()).To(BeTrue())
			Expect(ifid.NPC).To(Equal(uint32(0)))
		})
	})

	Describe("DecodeStage", func() {
		var decodeStage *pipeline.DecodeStage

		BeforeEach(func() {
			decodeStage = pipeline.NewDecodeStage(regFile)
			regFile.WriteReg(1, 100)
			regFile.WriteReg(2, 23)
		})

		It("should read both operands of an R-type instruction", func() {
			ifid := pipeline.IFIDRegister{PC: 0x1000, InstructionWord: 0x002081B3, NPC: 0x1004}

			idex := decodeStage.Decode(&ifid)

			Expect(idex.A).To(Equal(int32(100)))
			Expect(idex.B).To(Equal(int32(23)))
			Expect(idex.Rs1).To(Equal(uint8(1)))
			Expect(idex.Rs2).To(Equal(uint8(2)))
			Expect(idex.PC).To(Equal(uint32(0x1000)))
			Expect(idex.NPC).To(Equal(uint32(0x1004)))
			Expect(idex.Control).To(Equal(pipeline.Control{Op: insts.OpADD, Rd: 3, RegWrite: true}))
		})

		It("should not read rs2 for an immediate instruction", func() {
			ifid := pipeline.IFIDRegister{InstructionWord: 0x00208093} // addi x1, x1, 2

			idex := decodeStage.Decode(&ifid)

			Expect(idex.Imm).To(Equal(int32(2)))
			Expect(idex.Rs2).To(Equal(uint8(0)))
			Expect(idex.B).To(Equal(int32(0)))
		})

		It("should set load control signals", func() {
			ifid := pipeline.IFIDRegister{InstructionWord: 0xFFC12283} // lw x5, -4(x2)

			idex := decodeStage.Decode(&ifid)

			Expect(idex.Imm).To(Equal(int32(-4)))
			Expect(idex.Control.MemRead).To(BeTrue())
			Expect(idex.Control.MemToReg).To(BeTrue())
			Expect(idex.Control.RegWrite).To(BeTrue())
		})

		It("should set store control signals", func() {
			ifid := pipeline.IFIDRegister{InstructionWord: 0x00302023} // sw x3, 0(x0)

			idex := decodeStage.Decode(&ifid)

			Expect(idex.Control.MemWrite).To(BeTrue())
			Expect(idex.Control.RegWrite).To(BeFalse())
			Expect(idex.Rs2).To(Equal(uint8(3)))
		})

		It("should never enable writes to x0", func() {
			ifid := pipeline.IFIDRegister{InstructionWord: 0x00500013} // addi x0, x0, 5

			idex := decodeStage.Decode(&ifid)

			Expect(idex.Control.RegWrite).To(BeFalse())
		})

		It("should turn a zero word into a bubble", func() {
			ifid := pipeline.IFIDRegister{PC: 0x1000, NPC: 0x1004}

			Expect(decodeStage.Decode(&ifid)).To(Equal(pipeline.IDEXRegister{}))
		})

		It("should turn an unknown word into a bubble", func() {
			ifid := pipeline.IFIDRegister{InstructionWord: 0xFFFFFFFF}

			Expect(decodeStage.Decode(&ifid).IsBubble()).To(BeTrue())
		})
	})

	Describe("ExecuteStage", func() {
		var executeStage *pipeline.ExecuteStage

		BeforeEach(func() {
			executeStage = pipeline.NewExecuteStage()
		})

		execute := func(word uint32, pc uint32, a, b int32) pipeline.EXMEMRegister {
			decodeStage := pipeline.NewDecodeStage(regFile)
			ifid := pipeline.IFIDRegister{PC: pc, InstructionWord: word, NPC: pc + 4}
			idex := decodeStage.Decode(&ifid)
			return executeStage.Execute(&idex, a, b)
		}

		It("should use the supplied operands", func() {
			exmem := execute(0x407302B3, 0x1000, 10, 3) // sub x5, x6, x7
			Expect(exmem.ALUResult).To(Equal(int32(7)))
		})

		It("should compute effective addresses", func() {
			exmem := execute(0xFFC12283, 0x1000, 0x100, 0) // lw x5, -4(x2)
			Expect(exmem.ALUResult).To(Equal(int32(0xFC)))
		})

		It("should carry store data in B", func() {
			exmem := execute(0x00302023, 0x1000, 0, 42) // sw x3, 0(x0)
			Expect(exmem.B).To(Equal(int32(42)))
		})

		It("should resolve a taken branch", func() {
			exmem := execute(0xFE009EE3, 0x1020, 1, 0) // bne x1, x0, -4
			Expect(exmem.Taken()).To(BeTrue())
			Expect(exmem.BranchTarget).To(Equal(uint32(0x101C)))
		})

		It("should resolve a not-taken branch", func() {
			exmem := execute(0xFE009EE3, 0x1020, 0, 0)
			Expect(exmem.Taken()).To(BeFalse())
		})

		It("should link and jump for jal", func() {
			exmem := execute(0x008000EF, 0x1000, 0, 0) // jal x1, 8
			Expect(exmem.Taken()).To(BeTrue())
			Expect(exmem.BranchTarget).To(Equal(uint32(0x1008)))
			Expect(exmem.ALUResult).To(Equal(int32(0x1004)))
		})

		It("should clear bit 0 of a jalr target", func() {
			exmem := execute(0x004100E7, 0x1000, 0x2001, 0) // jalr x1, 4(x2)
			Expect(exmem.BranchTarget).To(Equal(uint32(0x2004)))
			Expect(exmem.ALUResult).To(Equal(int32(0x1004)))
		})

		It("should add the upper immediate to PC for auipc", func() {
			exmem := execute(0x00001297, 0x1000, 0, 0) // auipc x5, 1
			Expect(exmem.ALUResult).To(Equal(int32(0x2000)))
		})

		It("should pass bubbles through", func() {
			idex := pipeline.IDEXRegister{}
			Expect(executeStage.Execute(&idex, 1, 2)).To(Equal(pipeline.EXMEMRegister{}))
		})
	})

	Describe("MemoryStage", func() {
		var memoryStage *pipeline.MemoryStage

		BeforeEach(func() {
			memoryStage = pipeline.NewMemoryStage(memory)
		})

		It("should store a word", func() {
			exmem := pipeline.EXMEMRegister{
				InstructionWord: 0x00302023,
				ALUResult:       0x100,
				B:               0x11223344,
				Control:         pipeline.Control{Op: insts.OpSW, MemWrite: true},
			}

			memoryStage.Access(&exmem)

			Expect(memory.Read32(0x100)).To(Equal(uint32(0x11223344)))
		})

		It("should store only a byte for sb", func() {
			memory.Write32(0x100, 0xFFFFFFFF)
			exmem := pipeline.EXMEMRegister{
				InstructionWord: 0x005501A3,
				ALUResult:       0x100,
				B:               0x12,
				Control:         pipeline.Control{Op: insts.OpSB, MemWrite: true},
			}

			memoryStage.Access(&exmem)

			Expect(memory.Read32(0x100)).To(Equal(uint32(0xFFFFFF12)))
		})

		It("should sign-extend a loaded byte", func() {
			memory.Write8(0x10, 0x80)
			exmem := pipeline.EXMEMRegister{
				InstructionWord: 0x01000283,
				ALUResult:       0x10,
				Control:         pipeline.Control{Op: insts.OpLB, Rd: 5, RegWrite: true, MemRead: true, MemToReg: true},
			}

			memwb := memoryStage.Access(&exmem)

			Expect(memwb.LMD).To(Equal(int32(-128)))
			Expect(memwb.Result()).To(Equal(int32(-128)))
		})

		It("should read zero outside memory", func() {
			exmem := pipeline.EXMEMRegister{
				InstructionWord: 0x01000283,
				ALUResult:       -4,
				Control:         pipeline.Control{Op: insts.OpLW, Rd: 5, RegWrite: true, MemRead: true, MemToReg: true},
			}

			Expect(memoryStage.Access(&exmem).LMD).To(Equal(int32(0)))
		})
	})

	Describe("WritebackStage", func() {
		var writebackStage *pipeline.WritebackStage

		BeforeEach(func() {
			writebackStage = pipeline.NewWritebackStage(regFile)
		})

		It("should write the result and report retirement", func() {
			memwb := pipeline.MEMWBRegister{
				InstructionWord: 0x002081B3,
				ALUResult:       15,
				Control:         pipeline.Control{Op: insts.OpADD, Rd: 3, RegWrite: true},
			}

			Expect(writebackStage.Writeback(&memwb)).To(BeTrue())
			Expect(regFile.ReadReg(3)).To(Equal(int32(15)))
		})

		It("should retire instructions that do not write", func() {
			memwb := pipeline.MEMWBRegister{
				InstructionWord: 0x00302023,
				ALUResult:       15,
				Control:         pipeline.Control{Op: insts.OpSW, Rd: 3, MemWrite: true},
			}

			Expect(writebackStage.Writeback(&memwb)).To(BeTrue())
			Expect(regFile.ReadReg(3)).To(Equal(int32(0)))
		})

		It("should never write x0", func() {
			memwb := pipeline.MEMWBRegister{
				InstructionWord: 0x00500013,
				ALUResult:       5,
				Control:         pipeline.Control{Op: insts.OpADDI, Rd: 0, RegWrite: true},
			}

			writebackStage.Writeback(&memwb)

			Expect(regFile.X[0]).To(Equal(int32(0)))
		})

		It("should not retire bubbles", func() {
			Expect(writebackStage.Writeback(&pipeline.MEMWBRegister{})).To(BeFalse())
		})
	})
})
