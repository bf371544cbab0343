package asm

import (
	"fmt"
	"strings"
)

// ParsedInstruction is one text-section instruction split into mnemonic
// and operands, with its assigned address.
type ParsedInstruction struct {
	Address  uint32
	Mnemonic string
	// Operands in source order, except that the "imm(base)" operand of loads,
	// stores and jalr is pre-split so the list reads reg, base, imm.
	Operands []string
	Line     string
	LineNo   int
}

// memorySyntax lists the mnemonics whose last operand may be "imm(base)".
var memorySyntax = map[string]bool{
	"lb": true, "lh": true, "lw": true, "lbu": true, "lhu": true,
	"sb": true, "sh": true, "sw": true,
	"jalr": true,
}

// ParseInstructions extracts the text-section instructions in address order.
func ParseInstructions(lines []Line, layout Layout) ([]ParsedInstruction, error) {
	stmts, err := scan(lines, layout)
	if err != nil {
		return nil, err
	}

	var instructions []ParsedInstruction
	for _, stmt := range stmts {
		if stmt.section != sectionText || stmt.op == "" || strings.HasPrefix(stmt.op, ".") {
			continue
		}

		operands := splitOperands(stmt.args)
		if memorySyntax[stmt.op] {
			operands, err = splitAddress(operands)
			if err != nil {
				return nil, ErrSyntax{LineNo: stmt.line.No, Line: stmt.line.Text, Err: err}
			}
		}

		instructions = append(instructions, ParsedInstruction{
			Address:  stmt.addr,
			Mnemonic: stmt.op,
			Operands: operands,
			Line:     stmt.line.Text,
			LineNo:   stmt.line.No,
		})
	}

	return instructions, nil
}

// splitAddress rewrites a trailing "imm(base)" operand into "base", "imm".
// An empty imm means 0.
func splitAddress(operands []string) ([]string, error) {
	if len(operands) == 0 {
		return operands, nil
	}

	last := operands[len(operands)-1]
	open := strings.LastIndexByte(last, '(')
	if open < 0 {
		return operands, nil
	}

	end := strings.LastIndexByte(last, ')')
	if end < open || end != len(last)-1 {
		return nil, fmt.Errorf("%w: '%s'", ErrAddressSyntax, last)
	}

	imm := strings.TrimSpace(last[:open])
	if imm == "" {
		imm = "0"
	}
	base := strings.TrimSpace(last[open+1 : end])

	split := append([]string{}, operands[:len(operands)-1]...)
	return append(split, base, imm), nil
}
