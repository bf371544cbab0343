package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should read back written values", func() {
		regFile.WriteReg(5, -42)
		Expect(regFile.ReadReg(5)).To(Equal(int32(-42)))
	})

	It("should keep x0 hard-wired to zero", func() {
		regFile.WriteReg(0, 99)
		Expect(regFile.ReadReg(0)).To(Equal(int32(0)))
		Expect(regFile.X[0]).To(Equal(int32(0)))
	})

	It("should ignore sentinel indices on the internal path", func() {
		regFile.WriteReg(40, 7)
		Expect(regFile.ReadReg(40)).To(Equal(int32(0)))
	})

	Describe("Get / Set", func() {
		It("should accept every architectural index", func() {
			for i := 1; i < emu.NumRegs; i++ {
				Expect(regFile.Set(i, int32(i*10))).To(Succeed())
				Expect(regFile.Get(i)).To(Equal(int32(i * 10)))
			}
		})

		It("should accept x0 and discard the value", func() {
			Expect(regFile.Set(0, 5)).To(Succeed())
			Expect(regFile.Get(0)).To(Equal(int32(0)))
		})

		It("should reject out-of-range indices", func() {
			err := regFile.Set(32, 1)
			Expect(err).To(MatchError(emu.ErrRegisterIndex(32)))

			_, err = regFile.Get(-1)
			Expect(err).To(HaveOccurred())
		})
	})

	It("should reset all state", func() {
		regFile.WriteReg(3, 3)
		regFile.PC = 0x1000
		regFile.Reset()
		Expect(regFile.ReadReg(3)).To(Equal(int32(0)))
		Expect(regFile.PC).To(Equal(uint32(0)))
	})
})
