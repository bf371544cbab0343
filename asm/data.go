package asm

import (
	"fmt"
	"strconv"
)

// DataSegment is the initial content of the data section.
type DataSegment struct {
	Addr  uint32
	Bytes []byte
}

// directiveWidth is the element size of the data-emitting directives.
var directiveWidth = map[string]uint32{
	".word": 4,
	".half": 2,
	".byte": 1,
}

// silentDirectives are accepted anywhere and emit nothing.
var silentDirectives = map[string]bool{
	".globl": true, ".global": true, ".align": true, ".section": true,
	".type": true, ".size": true, ".file": true,
}

// directiveSize returns how many bytes a data-section directive occupies.
func directiveSize(op, args string) (uint32, error) {
	if width, ok := directiveWidth[op]; ok {
		n := len(splitOperands(args))
		if n == 0 {
			return 0, fmt.Errorf("%w: %s", ErrValueMissing, op)
		}
		return width * uint32(n), nil
	}

	if op == ".space" {
		n, err := strconv.ParseUint(args, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: .space %s", ErrDirectiveArgument, args)
		}
		return uint32(n), nil
	}

	if silentDirectives[op] {
		return 0, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrDirectiveInvalid, op)
}

// ParseData builds the data section image. Element values may be numbers,
// symbols or expressions over symbols, and are stored little-endian.
func ParseData(lines []Line, symbols SymbolTable, layout Layout) (*DataSegment, error) {
	stmts, err := scan(lines, layout)
	if err != nil {
		return nil, err
	}

	seg := &DataSegment{Addr: layout.DataBase}
	for _, stmt := range stmts {
		if stmt.section != sectionData || stmt.op == "" {
			continue
		}

		if stmt.op == ".space" {
			size, _ := directiveSize(stmt.op, stmt.args)
			seg.Bytes = append(seg.Bytes, make([]byte, size)...)
			continue
		}

		width, ok := directiveWidth[stmt.op]
		if !ok {
			continue
		}

		for _, operand := range splitOperands(stmt.args) {
			value, err := evalImmediate(operand, symbols)
			if err != nil {
				return nil, ErrSyntax{LineNo: stmt.line.No, Line: stmt.line.Text, Err: err}
			}
			if !fitsUnsignedOrSigned(value, width*8) {
				return nil, ErrSyntax{
					LineNo: stmt.line.No,
					Line:   stmt.line.Text,
					Err:    fmt.Errorf("%w: %d does not fit %s", ErrImmediateRange, value, stmt.op),
				}
			}
			for i := uint32(0); i < width; i++ {
				seg.Bytes = append(seg.Bytes, byte(value>>(8*i)))
			}
		}
	}

	return seg, nil
}

// fitsUnsignedOrSigned reports whether value is representable in bits as
// either a signed or an unsigned integer.
func fitsUnsignedOrSigned(value int64, bits uint32) bool {
	return value >= -(1<<(bits-1)) && value < 1<<bits
}
