// Package config holds the simulator configuration and its JSON file form.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/rv32pipe/asm"
	"github.com/sarchlab/rv32pipe/emu"
)

// Config holds the memory layout and run limits of a simulation.
type Config struct {
	// MemorySize is the size of the memory image in bytes.
	// Default: 65536.
	MemorySize uint32 `json:"memory_size"`

	// TextBase is the address of the first instruction.
	// Default: 0x1000.
	TextBase uint32 `json:"text_base"`

	// DataBase is the address of the first data byte.
	// Default: 0x0.
	DataBase uint32 `json:"data_base"`

	// MaxRunCycles caps a run-to-completion so programs that never leave
	// their code still terminate. Default: 1000.
	MaxRunCycles uint64 `json:"max_run_cycles"`

	// Forwarding enables operand forwarding and load-use stalls.
	// Default: false.
	Forwarding bool `json:"forwarding"`
}

// DefaultConfig returns a Config with the default layout.
func DefaultConfig() *Config {
	return &Config{
		MemorySize:   emu.DefaultMemorySize,
		TextBase:     asm.DefaultLayout.TextBase,
		DataBase:     asm.DefaultLayout.DataBase,
		MaxRunCycles: 1000,
		Forwarding:   false,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the layout fits in memory.
func (c *Config) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MaxRunCycles == 0 {
		return fmt.Errorf("max_run_cycles must be > 0")
	}
	if c.TextBase%4 != 0 {
		return fmt.Errorf("text_base 0x%x must be 4-byte aligned", c.TextBase)
	}
	if c.DataBase%4 != 0 {
		return fmt.Errorf("data_base 0x%x must be 4-byte aligned", c.DataBase)
	}
	if c.TextBase >= c.MemorySize {
		return fmt.Errorf("text_base 0x%x outside memory of 0x%x bytes", c.TextBase, c.MemorySize)
	}
	if c.DataBase >= c.MemorySize {
		return fmt.Errorf("data_base 0x%x outside memory of 0x%x bytes", c.DataBase, c.MemorySize)
	}
	if c.TextBase == c.DataBase {
		return fmt.Errorf("text_base and data_base must differ")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Layout returns the assembler section layout.
func (c *Config) Layout() asm.Layout {
	return asm.Layout{TextBase: c.TextBase, DataBase: c.DataBase}
}
