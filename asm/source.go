package asm

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Layout fixes where the text and data sections start in memory.
type Layout struct {
	TextBase uint32
	DataBase uint32
}

// DefaultLayout places code at 0x1000 and data at address 0.
var DefaultLayout = Layout{TextBase: 0x1000, DataBase: 0x0}

// Line is one non-blank source line with comments and surrounding
// whitespace removed.
type Line struct {
	No   int    // 1-based line number in the original source.
	Text string // Cleaned text.
}

// Preprocess reads assembly source, strips '#' comments and surrounding
// whitespace, and drops blank lines.
func Preprocess(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	no := 0
	for scanner.Scan() {
		no++
		text := scanner.Text()
		if pos := strings.IndexByte(text, '#'); pos >= 0 {
			text = text[:pos]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{No: no, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

type section int

const (
	sectionText section = iota
	sectionData
)

// statement is one classified source line with its assigned address.
type statement struct {
	line    Line
	section section
	addr    uint32
	labels  []string
	op      string // mnemonic or directive (with leading '.'), empty for label-only lines
	args    string // raw operand text
}

var labelRe = regexp.MustCompile(`^([A-Za-z_.$][A-Za-z0-9_.$]*)\s*:`)

// splitLabels removes any leading "name:" prefixes from text.
func splitLabels(text string) (labels []string, rest string) {
	rest = text
	for {
		m := labelRe.FindStringSubmatch(rest)
		if m == nil {
			return labels, strings.TrimSpace(rest)
		}
		labels = append(labels, m[1])
		rest = strings.TrimSpace(rest[len(m[0]):])
	}
}

// splitMnemonic separates the first word from the operand text.
func splitMnemonic(text string) (op, args string) {
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return strings.ToLower(text[:i]), strings.TrimSpace(text[i+1:])
	}
	return strings.ToLower(text), ""
}

// scan classifies every line and assigns addresses: each instruction
// consumes 4 bytes of the text section, data directives consume their size
// in the data section, and label-only lines consume nothing.
func scan(lines []Line, layout Layout) ([]statement, error) {
	stmts := make([]statement, 0, len(lines))
	sec := sectionText
	textAddr := layout.TextBase
	dataAddr := layout.DataBase

	for _, line := range lines {
		labels, rest := splitLabels(line.Text)
		if strings.HasPrefix(rest, ":") {
			return nil, ErrSyntax{LineNo: line.No, Line: line.Text, Err: ErrLabelInvalid}
		}

		op, args := splitMnemonic(rest)
		switch op {
		case ".text":
			sec, op = sectionText, ""
		case ".data":
			sec, op = sectionData, ""
		}

		stmt := statement{line: line, section: sec, labels: labels, op: op, args: args}
		if sec == sectionText {
			stmt.addr = textAddr
		} else {
			stmt.addr = dataAddr
		}

		switch {
		case op == "":
		case strings.HasPrefix(op, "."):
			if sec == sectionText && !silentDirectives[op] {
				return nil, ErrSyntax{LineNo: line.No, Line: line.Text, Err: ErrDirectiveInvalid}
			}
			if sec == sectionData {
				size, err := directiveSize(op, args)
				if err != nil {
					return nil, ErrSyntax{LineNo: line.No, Line: line.Text, Err: err}
				}
				dataAddr += size
			}
		case sec == sectionData:
			return nil, ErrSyntax{LineNo: line.No, Line: line.Text, Err: ErrMnemonicInvalid}
		default:
			textAddr += 4
		}

		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

// splitOperands splits comma-separated operand text and trims each part.
func splitOperands(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
