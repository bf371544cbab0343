package asm

import (
	"fmt"
	"strings"
)

var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// regMap maps every accepted register spelling to its index.
var regMap = func() map[string]uint8 {
	m := make(map[string]uint8, 2*len(abiNames)+1)
	for i, name := range abiNames {
		m[name] = uint8(i)
		m[fmt.Sprintf("x%d", i)] = uint8(i)
	}
	m["fp"] = 8
	return m
}()

// ParseRegister converts register text (x0..x31 or an ABI alias) to its
// 5-bit index.
func ParseRegister(text string) (uint8, error) {
	name := strings.ToLower(strings.TrimSpace(text))
	reg, ok := regMap[name]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrRegisterInvalid, text)
	}
	return reg, nil
}

// RegisterName returns the ABI name of a register index.
func RegisterName(reg uint8) string {
	if int(reg) >= len(abiNames) {
		return fmt.Sprintf("x%d", reg)
	}
	return abiNames[reg]
}
