package asm_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/asm"
)

var _ = Describe("Assemble", func() {
	It("should assemble a program with text and data", func() {
		src := `
    .data
value:  .word 0x11223344, -1
bytes:  .byte 1, 2, 255
        .half 0xBEEF

    .text
main:
    li x1, 5
    lw x2, value(x0)
    sw x1, value+4(x0)
`
		program, err := asm.Assemble(strings.NewReader(src), asm.DefaultLayout)
		Expect(err).NotTo(HaveOccurred())

		Expect(program.Entry()).To(Equal(uint32(0x1000)))
		Expect(program.End()).To(Equal(uint32(0x100C)))
		Expect(program.LastAddress()).To(Equal(uint32(0x1008)))
		Expect(program.Words).To(HaveLen(3))
		Expect(program.Words[0x1000]).To(Equal(uint32(0x00500093)))
		Expect(program.Words[0x1004]).To(Equal(uint32(0x00002103)))
		Expect(program.Words[0x1008]).To(Equal(uint32(0x00102223)))

		Expect(program.Data.Addr).To(Equal(uint32(0)))
		Expect(program.Data.Bytes).To(Equal([]byte{
			0x44, 0x33, 0x22, 0x11,
			0xFF, 0xFF, 0xFF, 0xFF,
			0x01, 0x02, 0xFF,
			0xEF, 0xBE,
		}))
	})

	It("should accept a program with no instructions", func() {
		program, err := asm.Assemble(strings.NewReader("# nothing\n"), asm.DefaultLayout)
		Expect(err).NotTo(HaveOccurred())
		Expect(program.Words).To(BeEmpty())
		Expect(program.End()).To(Equal(program.Entry()))
		Expect(program.LastAddress()).To(Equal(program.Entry()))
	})

	It("should reject data values that do not fit", func() {
		_, err := asm.Assemble(strings.NewReader(".data\n.byte 256\n"), asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrImmediateRange))
	})

	It("should reject a malformed .space", func() {
		_, err := asm.Assemble(strings.NewReader(".data\n.space lots\n"), asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrDirectiveArgument))
	})

	It("should stop at the first bad line", func() {
		src := "li x1, 1\nbeq x1, x0, missing\n"

		program, err := asm.Assemble(strings.NewReader(src), asm.DefaultLayout)
		Expect(program).To(BeNil())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("missing"))
	})
})
