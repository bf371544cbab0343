package asm

import (
	"fmt"
	"maps"
	"slices"
)

// SymbolTable maps label names to addresses. Text labels hold instruction
// addresses and data labels hold data addresses.
type SymbolTable map[string]uint32

// BuildSymbolTable binds every label to the address of the statement it
// precedes. A label alone on a line binds to the next instruction (or data
// item) without consuming an address. Duplicate labels are fatal.
func BuildSymbolTable(lines []Line, layout Layout) (SymbolTable, error) {
	stmts, err := scan(lines, layout)
	if err != nil {
		return nil, err
	}

	symbols := SymbolTable{}
	for _, stmt := range stmts {
		for _, label := range stmt.labels {
			if _, ok := symbols[label]; ok {
				return nil, ErrSyntax{
					LineNo: stmt.line.No,
					Line:   stmt.line.Text,
					Err:    fmt.Errorf("%w: %s", ErrLabelDuplicate, label),
				}
			}
			symbols[label] = stmt.addr
		}
	}

	return symbols, nil
}

// Names returns the symbol names in sorted order.
func (st SymbolTable) Names() []string {
	return slices.Sorted(maps.Keys(st))
}

// Lookup returns the address bound to name.
func (st SymbolTable) Lookup(name string) (uint32, bool) {
	addr, ok := st[name]
	return addr, ok
}
