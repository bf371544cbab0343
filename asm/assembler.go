// Package asm assembles RV32I-subset source into machine words.
//
// Assembly runs as a sequence of passes, each usable on its own:
//
//	lines, _ := asm.Preprocess(r)                           // strip comments and blanks
//	symbols, _ := asm.BuildSymbolTable(lines, layout)        // pass 1: labels
//	parsed, _ := asm.ParseInstructions(lines, layout)        // pass 2: operands
//	words, _ := asm.NewEncoder(symbols).EncodeAll(parsed)    // pass 3: machine words
//	data, _ := asm.ParseData(lines, symbols, layout)         // .data image
//
// Assemble runs all of them. Encoding is all-or-nothing: any error aborts
// before a single word is produced.
package asm

import (
	"io"
)

// Program is the complete output of the assembler.
type Program struct {
	Layout       Layout
	Instructions []ParsedInstruction
	Symbols      SymbolTable
	Words        Words
	Data         *DataSegment
}

// Assemble reads assembly source and produces a program.
func Assemble(r io.Reader, layout Layout) (*Program, error) {
	lines, err := Preprocess(r)
	if err != nil {
		return nil, err
	}

	symbols, err := BuildSymbolTable(lines, layout)
	if err != nil {
		return nil, err
	}

	instructions, err := ParseInstructions(lines, layout)
	if err != nil {
		return nil, err
	}

	words, err := NewEncoder(symbols).EncodeAll(instructions)
	if err != nil {
		return nil, err
	}

	data, err := ParseData(lines, symbols, layout)
	if err != nil {
		return nil, err
	}

	return &Program{
		Layout:       layout,
		Instructions: instructions,
		Symbols:      symbols,
		Words:        words,
		Data:         data,
	}, nil
}

// Entry returns the address of the first instruction.
func (p *Program) Entry() uint32 {
	return p.Layout.TextBase
}

// End returns the address just past the last instruction.
func (p *Program) End() uint32 {
	return p.Layout.TextBase + 4*uint32(len(p.Instructions))
}

// LastAddress returns the address of the last instruction, or the text base
// when the program is empty.
func (p *Program) LastAddress() uint32 {
	if len(p.Instructions) == 0 {
		return p.Layout.TextBase
	}
	return p.Instructions[len(p.Instructions)-1].Address
}
