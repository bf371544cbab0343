package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/timing/core"
)

var (
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBubble = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// viewer is the full-screen pipeline view.
//
// Keys: s or space steps one cycle, r runs to the end, R resets the
// program, q or Esc quits.
type viewer struct {
	screen tcell.Screen
	core   *core.Core
	status string
}

// runViewer opens the terminal and runs the viewer until the user quits.
func runViewer(c *core.Core) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	return newViewer(screen, c).Run()
}

func newViewer(screen tcell.Screen, c *core.Core) *viewer {
	return &viewer{screen: screen, core: c}
}

// Run handles input events until the user quits.
func (v *viewer) Run() error {
	v.draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
		}
		v.draw()
	}
}

// handleKey applies one key press. It returns false when the viewer should
// close.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 's', ' ':
		if v.core.Done() {
			v.status = "program finished"
			break
		}
		v.core.Tick()
		v.status = ""
	case 'r':
		if v.core.Run(0) {
			v.status = "program finished"
		} else {
			v.status = fmt.Sprintf("stopped after %d cycles", v.core.Stats().Cycles)
		}
	case 'R':
		if err := v.core.Reset(); err != nil {
			v.status = err.Error()
			break
		}
		v.status = "reset"
	}

	return true
}

// draw repaints the whole screen.
func (v *viewer) draw() {
	v.screen.Clear()

	p := v.core.Pipeline
	stats := v.core.Stats()

	row := 0
	v.print(0, row, styleTitle, fmt.Sprintf("rv32pipe  cycle %d  pc 0x%08X", stats.Cycles, p.PC()))
	row += 2

	ifid, idex, exmem, memwb := p.IFID(), p.IDEX(), p.EXMEM(), p.MEMWB()
	latches := []struct {
		name string
		word uint32
		info string
	}{
		{"IF/ID", ifid.InstructionWord, fmt.Sprintf("pc=0x%X npc=0x%X", ifid.PC, ifid.NPC)},
		{"ID/EX", idex.InstructionWord, fmt.Sprintf("A=%d B=%d imm=%d", idex.A, idex.B, idex.Imm)},
		{"EX/MEM", exmem.InstructionWord, fmt.Sprintf("alu=%d B=%d cond=%t", exmem.ALUResult, exmem.B, exmem.Cond)},
		{"MEM/WB", memwb.InstructionWord, fmt.Sprintf("alu=%d lmd=%d", memwb.ALUResult, memwb.LMD)},
	}
	for _, l := range latches {
		v.print(0, row, styleLabel, fmt.Sprintf("%-7s", l.name))
		style := tcell.StyleDefault
		if l.word == 0 {
			style = styleBubble
		}
		v.print(8, row, style, fmt.Sprintf("0x%08X %-24s %s", l.word, insts.Disassemble(l.word), l.info))
		row++
	}
	row++

	regs := p.Registers()
	for i := 0; i < len(regs); i += 4 {
		for j := 0; j < 4; j++ {
			v.print(j*18, row, tcell.StyleDefault, fmt.Sprintf("x%02d %11d", i+j, regs[i+j]))
		}
		row++
	}
	row++

	v.print(0, row, styleLabel, fmt.Sprintf(
		"instructions %d  taken branches %d  data hazards %d  stalls %d",
		stats.Instructions, stats.TakenBranches, stats.DataHazards, stats.Stalls))

	_, height := v.screen.Size()
	status := "s: step  r: run  R: reset  q: quit"
	if v.status != "" {
		status = v.status + "  |  " + status
	}
	v.print(0, height-1, styleStatus, status)

	v.screen.Show()
}

// print writes s starting at column x of row y.
func (v *viewer) print(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
