package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/rv32pipe/asm"
	"github.com/sarchlab/rv32pipe/emu"
	"github.com/sarchlab/rv32pipe/insts"
	"github.com/sarchlab/rv32pipe/loader"
	"github.com/sarchlab/rv32pipe/timing/core"
	"github.com/sarchlab/rv32pipe/timing/pipeline"
	"github.com/sarchlab/rv32pipe/translate"
)

// console is the interactive line-oriented front end. It reads menu choices
// from in and writes everything to out.
type console struct {
	core *core.Core
	in   *bufio.Reader
	out  io.Writer
}

func newConsole(c *core.Core, in *bufio.Reader, out io.Writer) *console {
	return &console{core: c, in: in, out: out}
}

// Run prints the listing, offers the pre-execution edits and then drives
// the simulation until the user exits or input ends.
func (con *console) Run() {
	printListing(con.out, con.core.Program())
	printSymbols(con.out, con.core.Program().Symbols)
	printDataSegment(con.out, con.core.Program())

	if !con.configure() {
		return
	}
	con.simulate()
}

// readLine returns the next trimmed input line. ok is false at end of input.
func (con *console) readLine() (line string, ok bool) {
	text, err := con.in.ReadString('\n')
	if err != nil && text == "" {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// readInt prompts for and parses one integer. Hex values take a 0x prefix.
func (con *console) readInt(prompt string) (int64, bool) {
	for {
		fmt.Fprint(con.out, prompt)
		line, ok := con.readLine()
		if !ok {
			return 0, false
		}

		v, err := strconv.ParseInt(line, 0, 64)
		if err == nil {
			return v, true
		}
		fmt.Fprintln(con.out, translate.From("invalid number %q", line))
	}
}

// configure runs the pre-execution menu. It returns false if input ended.
func (con *console) configure() bool {
	fmt.Fprintf(con.out, "\n--- PRE-EXECUTION CONFIGURATION ---\n")
	for {
		fmt.Fprintf(con.out, "[1] Set Register Value\n[2] Set Memory Value\n[3] Start Simulation\nChoice: ")
		choice, ok := con.readLine()
		if !ok {
			return false
		}

		switch choice {
		case "1":
			if !con.setRegister() {
				return false
			}
		case "2":
			if !con.setMemory() {
				return false
			}
		case "3":
			return true
		default:
			fmt.Fprintln(con.out, translate.From("unknown choice %q", choice))
		}
	}
}

func (con *console) setRegister() bool {
	idx, ok := con.readInt("Enter Register Index (1-31): ")
	if !ok {
		return false
	}
	val, ok := con.readInt("Enter Value: ")
	if !ok {
		return false
	}

	if idx == 0 {
		fmt.Fprintln(con.out, translate.From("x0 is hard-wired to zero"))
		return true
	}
	// Accept either a signed or an unsigned 32-bit spelling.
	if val < math.MinInt32 || val > math.MaxUint32 {
		fmt.Fprintln(con.out, translate.From("value %d does not fit in 32 bits", val))
		return true
	}
	if err := con.core.Pipeline.SetRegister(int(idx), int32(uint32(val))); err != nil {
		fmt.Fprintf(con.out, "Error: %v\n", err)
		return true
	}
	fmt.Fprintln(con.out, "Register Updated.")

	return true
}

func (con *console) setMemory() bool {
	addr, ok := con.readInt(fmt.Sprintf("Enter Address (0-%d): ", con.core.Memory().Size()-1))
	if !ok {
		return false
	}
	val, ok := con.readInt("Enter Value (0-255): ")
	if !ok {
		return false
	}

	if addr < 0 || val < 0 || val > 0xFF {
		fmt.Fprintln(con.out, translate.From("address or value out of range"))
		return true
	}
	if err := con.core.Pipeline.SetMemoryByte(uint32(addr), uint8(val)); err != nil {
		fmt.Fprintf(con.out, "Error: %v\n", err)
		return true
	}
	fmt.Fprintln(con.out, "Memory Updated.")

	return true
}

// simulate runs the simulation menu.
func (con *console) simulate() {
	p := con.core.Pipeline
	for {
		fmt.Fprintf(con.out, "\nCycle: %d  PC: 0x%X\n", p.Stats().Cycles, p.PC())
		if con.core.Done() {
			fmt.Fprintln(con.out, "Program finished.")
		}

		fmt.Fprintf(con.out, "\n--- SIMULATION CONTROLS ---\n")
		fmt.Fprintf(con.out, "[1] Step (Execute 1 Cycle)\n")
		fmt.Fprintf(con.out, "[2] Run All (Until End)\n")
		fmt.Fprintf(con.out, "[3] View Memory\n")
		fmt.Fprintf(con.out, "[4] Exit\n")
		fmt.Fprintf(con.out, "Choice: ")

		choice, ok := con.readLine()
		if !ok {
			return
		}

		switch choice {
		case "1":
			con.core.Tick()
			printState(con.out, p)
			printRegisters(con.out, p.Registers())
		case "2":
			if !con.core.Run(0) {
				fmt.Fprintln(con.out, translate.From("stopped after %d cycles", p.Stats().Cycles))
			}
			printState(con.out, p)
			printRegisters(con.out, p.Registers())
		case "3":
			if !con.viewMemory() {
				return
			}
		case "4":
			return
		default:
			fmt.Fprintln(con.out, translate.From("unknown choice %q", choice))
		}
	}
}

func (con *console) viewMemory() bool {
	p := con.core.Pipeline
	addr, ok := con.readInt(fmt.Sprintf("Enter Memory Address (0-%d): ", con.core.Memory().Size()-1))
	if !ok {
		return false
	}
	if addr < 0 {
		fmt.Fprintln(con.out, translate.From("address or value out of range"))
		return true
	}

	b, err := p.MemoryByte(uint32(addr))
	if err != nil {
		fmt.Fprintf(con.out, "Error: %v\n", err)
		return true
	}
	fmt.Fprintf(con.out, "Byte at %d: %d (0x%X)\n", addr, b, b)

	if word, err := p.MemoryWord(uint32(addr)); err == nil {
		fmt.Fprintf(con.out, "Word at %d (32-bit): %d\n", addr, int32(word))
	}

	return true
}

// printListing prints address, machine word and source text of every
// instruction.
func printListing(w io.Writer, prog *loader.Program) {
	fmt.Fprintf(w, "\n--- Opcode Translation ---\n")
	fmt.Fprintf(w, "Address\t\tOpcode (Hex)\tInstruction\n")
	fmt.Fprintf(w, "------------------------------------------------\n")
	for _, inst := range prog.Instructions {
		fmt.Fprintf(w, "0x%08X\t0x%08X\t%s\n", inst.Address, prog.Words[inst.Address], inst.Line)
	}
}

// printSymbols prints every label with its address in name order.
func printSymbols(w io.Writer, symbols asm.SymbolTable) {
	if len(symbols) == 0 {
		return
	}

	fmt.Fprintf(w, "\n--- Symbol Table ---\n")
	for _, name := range symbols.Names() {
		fmt.Fprintf(w, "%-16s0x%08X\n", name, symbols[name])
	}
}

// printDataSegment reports the initialized words of the data segment.
func printDataSegment(w io.Writer, prog *loader.Program) {
	if len(prog.Segments) < 2 {
		return
	}

	data := prog.Segments[1]
	fmt.Fprintf(w, "\n--- Data Segment (.data) ---\n")
	for off := 0; off+4 <= len(data.Data); off += 4 {
		v := int32(binary.LittleEndian.Uint32(data.Data[off:]))
		fmt.Fprintf(w, "0x%08X: %d\n", data.Addr+uint32(off), v)
	}
}

// printState prints every pipeline register.
func printState(w io.Writer, p *pipeline.Pipeline) {
	ifid, idex, exmem, memwb := p.IFID(), p.IDEX(), p.EXMEM(), p.MEMWB()

	fmt.Fprintf(w, "\n================ PIPELINE STATE MAP ================\n")
	fmt.Fprintf(w, "[IF/ID]  PC: 0x%X | IR: 0x%08X | NPC: 0x%X | %s\n",
		ifid.PC, ifid.InstructionWord, ifid.NPC, insts.Disassemble(ifid.InstructionWord))
	fmt.Fprintf(w, "[ID/EX]  IR: 0x%08X | A: %d | B: %d | IMM: %d | NPC: 0x%X\n",
		idex.InstructionWord, idex.A, idex.B, idex.Imm, idex.NPC)
	fmt.Fprintf(w, "[EX/MEM] IR: 0x%08X | ALUOutput: %d | B: %d | Cond: %t\n",
		exmem.InstructionWord, exmem.ALUResult, exmem.B, exmem.Cond)
	fmt.Fprintf(w, "[MEM/WB] IR: 0x%08X | ALUOutput: %d | LMD: %d\n",
		memwb.InstructionWord, memwb.ALUResult, memwb.LMD)
	if memwb.Control.RegWrite {
		fmt.Fprintf(w, "[WB] Writing to x%d (%s)\n", memwb.Control.Rd, asm.RegisterName(memwb.Control.Rd))
	}
	fmt.Fprintf(w, "====================================================\n")
}

// printRegisters prints the register file four registers per row.
func printRegisters(w io.Writer, regs [emu.NumRegs]int32) {
	fmt.Fprintf(w, "\n--- REGISTER FILE (x0 - x31) ---\n")
	for i := 0; i < emu.NumRegs; i += 4 {
		for j := i; j < i+4; j++ {
			sep := "\t"
			if j == i+3 {
				sep = "\n"
			}
			fmt.Fprintf(w, "x%02d: %08x%s", j, uint32(regs[j]), sep)
		}
	}
}
