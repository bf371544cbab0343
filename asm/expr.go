package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var symbolRe = regexp.MustCompile(`^[A-Za-z_.$][A-Za-z0-9_.$]*$`)

// isNumber reports whether text is an integer literal.
func isNumber(text string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)
	return err == nil
}

// evalImmediate resolves an immediate operand: an integer literal (decimal,
// 0x, 0b, 0o), a symbol name, or an integer expression over literals and
// symbols.
func evalImmediate(text string, symbols SymbolTable) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrValueMissing
	}

	if value, err := strconv.ParseInt(text, 0, 64); err == nil {
		return value, nil
	}

	if symbolRe.MatchString(text) {
		if addr, ok := symbols.Lookup(text); ok {
			return int64(addr), nil
		}
		if _, isReg := regMap[strings.ToLower(text)]; !isReg {
			return 0, ErrLabelMissing(text)
		}
	}

	return parenEval(text, symbols)
}

// parenEval evaluates an integer expression with the symbol table
// predeclared as integer constants.
func parenEval(expr string, symbols SymbolTable) (int64, error) {
	thread := starlark.Thread{Name: "imm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, addr := range symbols {
		if identRe.MatchString(name) {
			pred[name] = starlark.MakeInt64(int64(addr))
		}
	}

	prog := "rc = " + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "imm", prog, pred)
	if err != nil {
		return 0, fmt.Errorf("%w (%v)", ErrParseExpression(expr), err)
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	value, ok := rc.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}

	return value, nil
}
