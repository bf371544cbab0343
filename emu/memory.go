package emu

// DefaultMemorySize is the size of the memory image created by NewMemory.
const DefaultMemorySize = 64 * 1024

// Memory is a flat, byte-addressable memory image shared by instructions and
// data. Multi-byte accesses are little-endian. Accesses that fall outside the
// image read as zero and writes are dropped, so the pipeline stages stay
// total over the whole 32-bit address space.
type Memory struct {
	data []byte
}

// NewMemory creates a memory image of DefaultMemorySize bytes.
func NewMemory() *Memory {
	return NewMemoryWithSize(DefaultMemorySize)
}

// NewMemoryWithSize creates a zero-filled memory image of the given size.
func NewMemoryWithSize(size uint32) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// Contains reports whether the byte at addr is backed by the image.
func (m *Memory) Contains(addr uint32) bool {
	return uint64(addr) < uint64(len(m.data))
}

// Read8 reads one byte.
func (m *Memory) Read8(addr uint32) uint8 {
	if !m.Contains(addr) {
		return 0
	}
	return m.data[addr]
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint32, value uint8) {
	if !m.Contains(addr) {
		return
	}
	m.data[addr] = value
}

// byteAt reads the byte at a widened address so multi-byte accesses near
// the top of the address space never wrap back to zero.
func (m *Memory) byteAt(addr uint64) uint8 {
	if addr >= uint64(len(m.data)) {
		return 0
	}
	return m.data[addr]
}

func (m *Memory) setByteAt(addr uint64, value uint8) {
	if addr >= uint64(len(m.data)) {
		return
	}
	m.data[addr] = value
}

func (m *Memory) read(addr uint32, width int) uint32 {
	var value uint32
	for i := 0; i < width; i++ {
		value |= uint32(m.byteAt(uint64(addr)+uint64(i))) << (8 * i)
	}
	return value
}

func (m *Memory) write(addr uint32, width int, value uint32) {
	for i := 0; i < width; i++ {
		m.setByteAt(uint64(addr)+uint64(i), uint8(value>>(8*i)))
	}
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.read(addr, 2))
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) {
	m.write(addr, 2, uint32(value))
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	return m.read(addr, 4)
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.write(addr, 4, value)
}

// LoadProgram copies raw bytes into memory starting at addr.
func (m *Memory) LoadProgram(addr uint32, program []byte) {
	for i, b := range program {
		m.setByteAt(uint64(addr)+uint64(i), b)
	}
}

// LoadWords writes each address -> word entry into memory.
func (m *Memory) LoadWords(words map[uint32]uint32) {
	for addr, word := range words {
		m.Write32(addr, word)
	}
}

// GetByte reads one byte on behalf of an external caller.
func (m *Memory) GetByte(addr uint32) (uint8, error) {
	if !m.Contains(addr) {
		return 0, ErrAddressRange{Addr: addr, Size: m.Size()}
	}
	return m.data[addr], nil
}

// SetByte writes one byte on behalf of an external caller.
func (m *Memory) SetByte(addr uint32, value uint8) error {
	if !m.Contains(addr) {
		return ErrAddressRange{Addr: addr, Size: m.Size()}
	}
	m.data[addr] = value
	return nil
}

// Reset zero-fills the image.
func (m *Memory) Reset() {
	clear(m.data)
}
