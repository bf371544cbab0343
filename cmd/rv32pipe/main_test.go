package main

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/config"
	"github.com/sarchlab/rv32pipe/timing/core"
)

var _ = Describe("Emulation mode", func() {
	It("should run the program functionally and print registers", func() {
		var out bytes.Buffer

		code := runEmulation(parse(scenario), config.DefaultConfig(), &out)

		Expect(code).To(Equal(0))
		Expect(out.String()).To(ContainSubstring("Instructions executed: 4"))
		Expect(out.String()).To(ContainSubstring("x03: 0000000f"))
	})

	It("should fail when the program does not fit in memory", func() {
		var out bytes.Buffer
		cfg := config.DefaultConfig()
		cfg.MemorySize = 0x100

		Expect(runEmulation(parse(scenario), cfg, &out)).To(Equal(1))
	})
})

var _ = Describe("Report", func() {
	It("should print cycles, instructions and CPI", func() {
		var out bytes.Buffer

		printReport(&out, "prog.s", core.Stats{Cycles: 9, Instructions: 4, Stalls: 1})

		Expect(out.String()).To(ContainSubstring("Program: prog.s"))
		Expect(out.String()).To(ContainSubstring("Total Instructions: 4"))
		Expect(out.String()).To(ContainSubstring("Total Cycles: 9"))
		Expect(out.String()).To(ContainSubstring("CPI: 2.25"))
		Expect(out.String()).To(ContainSubstring("Stalls:         1"))
	})

	It("should print a zero CPI when nothing retired", func() {
		var out bytes.Buffer

		printReport(&out, "empty.s", core.Stats{})

		Expect(out.String()).To(ContainSubstring("CPI: 0.00"))
	})
})
