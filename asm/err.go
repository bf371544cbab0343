package asm

import (
	"errors"

	"github.com/sarchlab/rv32pipe/translate"
)

var f = translate.From

var (
	// Encoding errors
	ErrMnemonicInvalid   = errors.New(f("mnemonic unsupported"))
	ErrOperandCount      = errors.New(f("wrong operand count"))
	ErrRegisterInvalid   = errors.New(f("register invalid"))
	ErrImmediateRange    = errors.New(f("immediate out of range"))
	ErrImmediateAlign    = errors.New(f("offset not a multiple of 2"))
	ErrValueMissing      = errors.New(f("value missing"))
	ErrAddressSyntax     = errors.New(f("invalid address, expected imm(reg)"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrLabelInvalid      = errors.New(f("label invalid"))
	ErrDirectiveInvalid  = errors.New(f("directive unsupported"))
	ErrDirectiveArgument = errors.New(f("directive argument invalid"))
)

// ErrLabelMissing reports a reference to a symbol that is not defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrParseExpression reports an immediate that is neither a number, a
// symbol, nor a valid integer expression.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid integer expression", string(err))
}

// ErrSyntax attaches the offending source line to an assembly error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
