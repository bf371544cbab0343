package main

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32pipe/timing/core"
)

func screenText(s tcell.SimulationScreen) string {
	cells, width, height := s.GetContents()

	var sb strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := cells[y*width+x]
			if len(cell.Runes) > 0 {
				sb.WriteRune(cell.Runes[0])
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

var _ = Describe("Viewer", func() {
	var (
		screen tcell.SimulationScreen
		c      *core.Core
		v      *viewer
	)

	BeforeEach(func() {
		screen = tcell.NewSimulationScreen("UTF-8")
		Expect(screen.Init()).To(Succeed())
		screen.SetSize(100, 30)

		c = newForwardingCore(scenario)
		v = newViewer(screen, c)
	})

	AfterEach(func() {
		screen.Fini()
	})

	It("should draw the latches, registers and statistics", func() {
		v.draw()
		text := screenText(screen)

		Expect(text).To(ContainSubstring("cycle 0  pc 0x00001000"))
		Expect(text).To(ContainSubstring("IF/ID"))
		Expect(text).To(ContainSubstring("MEM/WB"))
		Expect(text).To(ContainSubstring("x31"))
		Expect(text).To(ContainSubstring("taken branches 0"))
		Expect(text).To(ContainSubstring("q: quit"))
	})

	It("should step one cycle per key press", func() {
		screen.InjectKey(tcell.KeyRune, 's', tcell.ModNone)
		screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

		Expect(v.Run()).To(Succeed())
		Expect(c.Stats().Cycles).To(Equal(uint64(2)))
		Expect(screenText(screen)).To(ContainSubstring("cycle 2  pc 0x00001008"))
	})

	It("should run to the end and reset", func() {
		screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
		screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

		Expect(v.Run()).To(Succeed())
		Expect(c.Done()).To(BeTrue())
		Expect(c.Pipeline.Registers()[3]).To(Equal(int32(15)))
		Expect(screenText(screen)).To(ContainSubstring("program finished"))

		Expect(v.handleKey(tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModNone))).To(BeTrue())
		Expect(c.Stats().Cycles).To(BeZero())
		Expect(c.Pipeline.PC()).To(Equal(uint32(0x1000)))
	})

	It("should not step past the end", func() {
		c.Run(0)
		cycles := c.Stats().Cycles

		Expect(v.handleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))).To(BeTrue())
		Expect(c.Stats().Cycles).To(Equal(cycles))
		Expect(v.status).To(Equal("program finished"))
	})

	It("should close on Ctrl-C", func() {
		Expect(v.handleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone))).To(BeFalse())
	})
})
