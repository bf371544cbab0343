package asm

import (
	"fmt"

	"github.com/sarchlab/rv32pipe/insts"
)

// Words maps each instruction address to its machine word.
type Words map[uint32]uint32

// Immediate field limits.
const (
	imm12Min  = -(1 << 11)
	imm12Max  = 1<<11 - 1
	branchMin = -(1 << 12)
	branchMax = 1<<12 - 2
	jalMin    = -(1 << 20)
	jalMax    = 1<<20 - 2
	upperMin  = -(1 << 19)
	upperMax  = 1<<20 - 1
	shamtMax  = 31
)

// Encoder turns parsed instructions into machine words, resolving label
// operands against a symbol table.
type Encoder struct {
	symbols SymbolTable
}

// NewEncoder creates an encoder bound to a symbol table.
func NewEncoder(symbols SymbolTable) *Encoder {
	if symbols == nil {
		symbols = SymbolTable{}
	}
	return &Encoder{symbols: symbols}
}

// Encode produces the machine word of one instruction. On error no word is
// returned and the error carries the offending source line.
func (e *Encoder) Encode(pi ParsedInstruction) (uint32, error) {
	word, err := e.encode(pi)
	if err != nil {
		return 0, ErrSyntax{LineNo: pi.LineNo, Line: pi.Line, Err: err}
	}
	return word, nil
}

// EncodeAll encodes every instruction. It is all-or-nothing: the first
// error aborts and no words are returned.
func (e *Encoder) EncodeAll(instructions []ParsedInstruction) (Words, error) {
	words := make(Words, len(instructions))
	for _, pi := range instructions {
		word, err := e.Encode(pi)
		if err != nil {
			return nil, err
		}
		words[pi.Address] = word
	}
	return words, nil
}

func (e *Encoder) encode(pi ParsedInstruction) (uint32, error) {
	op, operands, err := expandPseudo(pi.Mnemonic, pi.Operands)
	if err != nil {
		return 0, err
	}

	inst := &insts.Instruction{Op: op, Format: op.Format()}

	switch inst.Format {
	case insts.FormatR:
		err = e.fillR(inst, operands)
	case insts.FormatI, insts.FormatJALR:
		err = e.fillI(inst, operands, imm12Min, imm12Max)
	case insts.FormatShift:
		err = e.fillI(inst, operands, 0, shamtMax)
	case insts.FormatLoad:
		err = e.fillI(inst, operands, imm12Min, imm12Max)
	case insts.FormatStore:
		err = e.fillStore(inst, operands)
	case insts.FormatBranch:
		err = e.fillBranch(inst, operands, pi.Address)
	case insts.FormatJAL:
		err = e.fillJAL(inst, operands, pi.Address)
	case insts.FormatU:
		err = e.fillU(inst, operands)
	default:
		err = fmt.Errorf("%w: %s", ErrMnemonicInvalid, pi.Mnemonic)
	}
	if err != nil {
		return 0, err
	}

	return insts.Encode(inst), nil
}

// pseudo describes a pseudo-instruction: the machine mnemonic it expands to,
// the operand count it accepts and how its operands are rewritten.
type pseudo struct {
	name   string
	arity  int
	expand func(o []string) []string
}

var pseudos = map[string]pseudo{
	"nop":  {"addi", 0, func([]string) []string { return []string{"x0", "x0", "0"} }},
	"li":   {"addi", 2, func(o []string) []string { return []string{o[0], "x0", o[1]} }},
	"mv":   {"addi", 2, func(o []string) []string { return []string{o[0], o[1], "0"} }},
	"j":    {"jal", 1, func(o []string) []string { return []string{"x0", o[0]} }},
	"jr":   {"jalr", 1, func(o []string) []string { return []string{"x0", o[0], "0"} }},
	"ret":  {"jalr", 0, func([]string) []string { return []string{"x0", "ra", "0"} }},
	"beqz": {"beq", 2, func(o []string) []string { return []string{o[0], "x0", o[1]} }},
	"bnez": {"bne", 2, func(o []string) []string { return []string{o[0], "x0", o[1]} }},

	// Short forms of real instructions; other operand counts are native.
	"jal":  {"jal", 1, func(o []string) []string { return []string{"ra", o[0]} }},
	"jalr": {"jalr", 1, func(o []string) []string { return []string{"ra", o[0], "0"} }},
}

// expandPseudo maps a source mnemonic to a machine operation and its
// canonical operand list.
func expandPseudo(mnemonic string, operands []string) (insts.Op, []string, error) {
	name, ops := mnemonic, operands

	if p, ok := pseudos[mnemonic]; ok {
		switch {
		case len(operands) == p.arity:
			name, ops = p.name, p.expand(operands)
		case p.name != mnemonic:
			return insts.OpUnknown, nil, fmt.Errorf("%w: %s takes %d operands, got %d",
				ErrOperandCount, mnemonic, p.arity, len(operands))
		}
	}

	op, ok := insts.Lookup(name)
	if !ok {
		return insts.OpUnknown, nil, fmt.Errorf("%w: %s", ErrMnemonicInvalid, mnemonic)
	}

	want := operandCount(op.Format())
	if len(ops) != want {
		return insts.OpUnknown, nil, fmt.Errorf("%w: %s takes %d operands, got %d",
			ErrOperandCount, mnemonic, want, len(operands))
	}

	return op, ops, nil
}

// operandCount is the number of canonical operands of each format.
func operandCount(format insts.Format) int {
	switch format {
	case insts.FormatJAL, insts.FormatU:
		return 2
	default:
		return 3
	}
}

func (e *Encoder) fillR(inst *insts.Instruction, ops []string) (err error) {
	if inst.Rd, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	if inst.Rs1, err = ParseRegister(ops[1]); err != nil {
		return err
	}
	inst.Rs2, err = ParseRegister(ops[2])
	return err
}

// fillI handles rd, rs1, imm for ALU-immediate, shift, load and jalr forms.
func (e *Encoder) fillI(inst *insts.Instruction, ops []string, min, max int64) (err error) {
	if inst.Rd, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	if inst.Rs1, err = ParseRegister(ops[1]); err != nil {
		return err
	}
	inst.Imm, err = e.immediate(ops[2], min, max)
	return err
}

// fillStore handles rs2, rs1, imm; the value register comes first in source.
func (e *Encoder) fillStore(inst *insts.Instruction, ops []string) (err error) {
	if inst.Rs2, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	if inst.Rs1, err = ParseRegister(ops[1]); err != nil {
		return err
	}
	inst.Imm, err = e.immediate(ops[2], imm12Min, imm12Max)
	return err
}

func (e *Encoder) fillBranch(inst *insts.Instruction, ops []string, addr uint32) (err error) {
	if inst.Rs1, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	if inst.Rs2, err = ParseRegister(ops[1]); err != nil {
		return err
	}
	inst.Imm, err = e.offset(ops[2], addr, branchMin, branchMax)
	return err
}

func (e *Encoder) fillJAL(inst *insts.Instruction, ops []string, addr uint32) (err error) {
	if inst.Rd, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	inst.Imm, err = e.offset(ops[1], addr, jalMin, jalMax)
	return err
}

func (e *Encoder) fillU(inst *insts.Instruction, ops []string) (err error) {
	if inst.Rd, err = ParseRegister(ops[0]); err != nil {
		return err
	}
	upper, err := e.immediate(ops[1], upperMin, upperMax)
	if err != nil {
		return err
	}
	inst.Imm = int32(uint32(upper) << 12)
	return nil
}

// immediate evaluates an operand and checks it against [min, max].
func (e *Encoder) immediate(text string, min, max int64) (int32, error) {
	value, err := evalImmediate(text, e.symbols)
	if err != nil {
		return 0, err
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrImmediateRange, value, min, max)
	}
	return int32(value), nil
}

// offset resolves a branch or jump operand. A numeric literal is taken as
// the byte offset itself; a label or expression is a target address and the
// offset is target - addr.
func (e *Encoder) offset(text string, addr uint32, min, max int64) (int32, error) {
	value, err := evalImmediate(text, e.symbols)
	if err != nil {
		return 0, err
	}
	if !isNumber(text) {
		value -= int64(addr)
	}
	if value%2 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrImmediateAlign, value)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrImmediateRange, value, min, max)
	}
	return int32(value), nil
}
