// Package config loads the simulator's machine configuration, following
// the teacher's timing/latency.TimingConfig pattern: a JSON-tagged struct,
// a Default constructor, and a Load(path) that unmarshals over the
// defaults (spec.md §6 Environment, SPEC_FULL.md §2.2).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// drumEnvVar names the environment variable overriding the drum backing
// file path (spec.md §6).
const drumEnvVar = "M20_DRUM"

// MachineConfig holds the simulator's host-facing settings: the drum
// backing file, trace verbosity, and a persisted breakpoint list.
type MachineConfig struct {
	// DrumPath is the drum backing file. Empty means "use the default",
	// resolved by ResolveDrumPath via M20_DRUM or $HOME/.m20/drum.bin.
	DrumPath string `json:"drum_path"`

	// Trace enables per-instruction disassembly on stderr.
	Trace bool `json:"trace"`

	// Breakpoints are octal addresses to halt execution before fetching.
	Breakpoints []uint32 `json:"breakpoints"`
}

// DefaultMachineConfig returns a MachineConfig with no drum override, no
// tracing, and no breakpoints.
func DefaultMachineConfig() *MachineConfig {
	return &MachineConfig{}
}

// Load reads a MachineConfig from a JSON file, starting from the default
// and overlaying whatever fields the file sets.
func Load(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultMachineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveDrumPath returns the drum backing file path: cfg.DrumPath if set,
// else M20_DRUM if set, else $HOME/.m20/drum.bin. The containing directory
// is created if it does not exist.
func (c *MachineConfig) ResolveDrumPath() (string, error) {
	path := c.DrumPath
	if path == "" {
		path = os.Getenv(drumEnvVar)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve drum path: %w", err)
		}
		path = filepath.Join(home, ".m20", "drum.bin")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: create drum directory %s: %w", dir, err)
	}
	return path, nil
}
