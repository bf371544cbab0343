// Package loader turns assembly source files into loadable program images.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32pipe/asm"
	"github.com/sarchlab/rv32pipe/emu"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment is a contiguous byte image placed at Addr.
type Segment struct {
	// Addr is the address where this segment should be loaded.
	Addr uint32
	// Data contains the segment contents.
	Data []byte
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents an assembled program ready for execution.
type Program struct {
	// Entry is the address where execution should begin.
	Entry uint32
	// End is the address just past the last instruction.
	End uint32
	// Segments holds the text segment followed by the data segment, if any.
	Segments []Segment

	Instructions []asm.ParsedInstruction
	Symbols      asm.SymbolTable
	Words        asm.Words
}

// Load assembles the source file at path.
func Load(path string, layout asm.Layout) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, layout)
}

// Parse assembles source read from r.
func Parse(r io.Reader, layout asm.Layout) (*Program, error) {
	assembled, err := asm.Assemble(r, layout)
	if err != nil {
		return nil, err
	}

	prog := &Program{
		Entry:        assembled.Entry(),
		End:          assembled.End(),
		Instructions: assembled.Instructions,
		Symbols:      assembled.Symbols,
		Words:        assembled.Words,
	}

	text := make([]byte, 4*len(assembled.Instructions))
	for i, pi := range assembled.Instructions {
		binary.LittleEndian.PutUint32(text[4*i:], assembled.Words[pi.Address])
	}
	prog.Segments = append(prog.Segments, Segment{
		Addr:  prog.Entry,
		Data:  text,
		Flags: SegmentFlagRead | SegmentFlagExecute,
	})

	if data := assembled.Data; data != nil && len(data.Bytes) > 0 {
		prog.Segments = append(prog.Segments, Segment{
			Addr:  data.Addr,
			Data:  data.Bytes,
			Flags: SegmentFlagRead | SegmentFlagWrite,
		})
	}

	if err := prog.checkOverlap(); err != nil {
		return nil, err
	}

	return prog, nil
}

// checkOverlap rejects programs whose data would overwrite their code.
func (p *Program) checkOverlap() error {
	if len(p.Segments) < 2 {
		return nil
	}

	text, data := p.Segments[0], p.Segments[1]
	textEnd := uint64(text.Addr) + uint64(len(text.Data))
	dataEnd := uint64(data.Addr) + uint64(len(data.Data))
	if uint64(text.Addr) < dataEnd && uint64(data.Addr) < textEnd {
		return fmt.Errorf("data segment 0x%x-0x%x overlaps text segment 0x%x-0x%x",
			data.Addr, dataEnd, text.Addr, textEnd)
	}

	return nil
}

// LoadInto copies every segment into memory. It fails if a segment does not
// fit.
func (p *Program) LoadInto(memory *emu.Memory) error {
	for _, seg := range p.Segments {
		end := uint64(seg.Addr) + uint64(len(seg.Data))
		if end > uint64(memory.Size()) {
			return fmt.Errorf("segment at 0x%x (%d bytes) does not fit in memory of 0x%x bytes",
				seg.Addr, len(seg.Data), memory.Size())
		}
		memory.LoadProgram(seg.Addr, seg.Data)
	}

	return nil
}
