package asm_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/asm"
)

func preprocess(src string) []asm.Line {
	lines, err := asm.Preprocess(strings.NewReader(src))
	Expect(err).NotTo(HaveOccurred())
	return lines
}

var _ = Describe("Preprocess", func() {
	It("should strip comments and blank lines and keep line numbers", func() {
		lines := preprocess("# header\n\n  add x1, x2, x3   # sum\n\t\nret\n")

		Expect(lines).To(Equal([]asm.Line{
			{No: 3, Text: "add x1, x2, x3"},
			{No: 5, Text: "ret"},
		}))
	})

	It("should return nothing for an empty source", func() {
		Expect(preprocess("")).To(BeEmpty())
	})
})

var _ = Describe("BuildSymbolTable", func() {
	It("should bind labels to instruction addresses", func() {
		lines := preprocess(`
start:
    nop
a: b: addi x1, x1, 1
    nop
end:
`)
		symbols, err := asm.BuildSymbolTable(lines, asm.DefaultLayout)
		Expect(err).NotTo(HaveOccurred())

		Expect(symbols).To(Equal(asm.SymbolTable{
			"start": 0x1000,
			"a":     0x1004,
			"b":     0x1004,
			"end":   0x100C,
		}))
		Expect(symbols.Names()).To(Equal([]string{"a", "b", "end", "start"}))
	})

	It("should bind data labels to data addresses", func() {
		lines := preprocess(`
.data
buf:   .word 1, 2
half:  .half 7
pad:   .space 3
tail:  .byte 1
.text
main:  nop
`)
		symbols, err := asm.BuildSymbolTable(lines, asm.Layout{TextBase: 0x1000, DataBase: 0x200})
		Expect(err).NotTo(HaveOccurred())

		Expect(symbols).To(HaveKeyWithValue("buf", uint32(0x200)))
		Expect(symbols).To(HaveKeyWithValue("half", uint32(0x208)))
		Expect(symbols).To(HaveKeyWithValue("pad", uint32(0x20A)))
		Expect(symbols).To(HaveKeyWithValue("tail", uint32(0x20D)))
		Expect(symbols).To(HaveKeyWithValue("main", uint32(0x1000)))
	})

	It("should reject duplicate labels", func() {
		lines := preprocess("x: nop\nnop\nx: nop\n")

		_, err := asm.BuildSymbolTable(lines, asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrLabelDuplicate))

		var syntaxErr asm.ErrSyntax
		Expect(errors.As(err, &syntaxErr)).To(BeTrue())
		Expect(syntaxErr.LineNo).To(Equal(3))
	})

	It("should reject an empty label", func() {
		lines := preprocess(": nop\n")

		_, err := asm.BuildSymbolTable(lines, asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrLabelInvalid))
	})

	It("should reject unknown directives", func() {
		lines := preprocess(".text\n.frobnicate 3\n")

		_, err := asm.BuildSymbolTable(lines, asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrDirectiveInvalid))
	})
})

var _ = Describe("ParseInstructions", func() {
	It("should assign consecutive addresses from the text base", func() {
		lines := preprocess(".globl main\nmain: li x1, 1\nloop:\n  ADD x2, x1, x1\n")

		parsed, err := asm.ParseInstructions(lines, asm.Layout{TextBase: 0x400})
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(HaveLen(2))

		Expect(parsed[0].Address).To(Equal(uint32(0x400)))
		Expect(parsed[0].Mnemonic).To(Equal("li"))
		Expect(parsed[0].Operands).To(Equal([]string{"x1", "1"}))
		Expect(parsed[1].Address).To(Equal(uint32(0x404)))
		Expect(parsed[1].Mnemonic).To(Equal("add"))
		Expect(parsed[1].LineNo).To(Equal(4))
	})

	DescribeTable("memory operands",
		func(src string, want []string) {
			parsed, err := asm.ParseInstructions(preprocess(src), asm.DefaultLayout)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed[0].Operands).To(Equal(want))
		},
		Entry("offset and base", "lw x5, -4(x2)", []string{"x5", "x2", "-4"}),
		Entry("empty offset", "sw x5, (sp)", []string{"x5", "sp", "0"}),
		Entry("expression offset", "lw x5, (buf+4)(x2)", []string{"x5", "x2", "(buf+4)"}),
		Entry("jalr without parens", "jalr x1, x2, 8", []string{"x1", "x2", "8"}),
	)

	It("should reject a malformed address", func() {
		_, err := asm.ParseInstructions(preprocess("lw x5, 4(x2"), asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrAddressSyntax))
	})

	It("should reject instructions in the data section", func() {
		_, err := asm.ParseInstructions(preprocess(".data\nadd x1, x2, x3\n"), asm.DefaultLayout)
		Expect(err).To(MatchError(asm.ErrMnemonicInvalid))
	})
})

var _ = Describe("ParseRegister", func() {
	DescribeTable("accepted names",
		func(name string, want uint8) {
			reg, err := asm.ParseRegister(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg).To(Equal(want))
		},
		Entry(nil, "x0", uint8(0)),
		Entry(nil, "zero", uint8(0)),
		Entry(nil, "X31", uint8(31)),
		Entry(nil, "sp", uint8(2)),
		Entry(nil, "fp", uint8(8)),
		Entry(nil, "s0", uint8(8)),
		Entry(nil, "a0", uint8(10)),
		Entry(nil, "t6", uint8(31)),
	)

	DescribeTable("rejected names",
		func(name string) {
			_, err := asm.ParseRegister(name)
			Expect(err).To(MatchError(asm.ErrRegisterInvalid))
		},
		Entry(nil, "x32"),
		Entry(nil, "x-1"),
		Entry(nil, "r1"),
		Entry(nil, ""),
	)

	It("should name registers by ABI alias", func() {
		Expect(asm.RegisterName(0)).To(Equal("zero"))
		Expect(asm.RegisterName(2)).To(Equal("sp"))
		Expect(asm.RegisterName(40)).To(Equal("x40"))
	})
})
