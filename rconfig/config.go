// Package rconfig loads and saves toolchain defaults from a TOML file.
package rconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the toolchain's tunable defaults.
type Config struct {
	Execution struct {
		MaxCycles     uint64 `toml:"max_cycles"`
		HeapLimit     uint32 `toml:"heap_limit"`
		EnableTrace   bool   `toml:"enable_trace"`
		TraceRegister int    `toml:"trace_register"`
	} `toml:"execution"`

	Inspect struct {
		RefreshMillis int  `toml:"refresh_millis"`
		ShowHeap      bool `toml:"show_heap"`
		ShowRO        bool `toml:"show_ro"`
	} `toml:"inspect"`

	Trace struct {
		OutputFile string `toml:"output_file"`
		MaxEntries int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a Config populated with the toolchain's defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.HeapLimit = 1 << 20
	cfg.Execution.EnableTrace = false
	cfg.Execution.TraceRegister = -1

	cfg.Inspect.RefreshMillis = 100
	cfg.Inspect.ShowHeap = true
	cfg.Inspect.ShowRO = true

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.MaxEntries = 100_000

	return cfg
}

// Path returns the platform-specific config file path.
func Path() string {
	var dir string

	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "regvm")

	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "regvm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at the default path, falling back to
// DefaultConfig if it does not exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, falling back to DefaultConfig
// if it does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes c to path in TOML form.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- caller-provided config path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
