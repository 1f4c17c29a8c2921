// Package config loads optional TOML run configuration shared by the
// tinkerasm, tinkersim and tinkerctl command-line tools. None of spec.md's
// behavior depends on a config file being present; every field here tunes
// something outside the spec (listing verbosity, an optional simulator
// cycle ceiling, lint's unreferenced-label warning), and defaults reproduce the spec exactly
// when no file exists.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root of tinker.toml, grounded on
// lookbusy1344/arm-emulator/config.Config's section-of-structs shape.
type Config struct {
	Assembler struct {
		Verbose bool `toml:"verbose"`
	} `toml:"assembler"`

	Simulator struct {
		// CycleLimit caps the number of instructions Run executes before
		// returning an error. Zero (the default) disables the limit,
		// matching spec.md §4.7's "no instruction-count limit".
		CycleLimit uint64 `toml:"cycle_limit"`
		Trace      bool   `toml:"trace"`
	} `toml:"simulator"`

	Lint struct {
		// WarnUnreferencedLabels controls whether tinkerctl lint reports
		// labels that are declared but never referenced as operands.
		WarnUnreferencedLabels bool `toml:"warn_unreferenced_labels"`
	} `toml:"lint"`
}

// Default returns the configuration tinkerasm/tinkersim/tinkerctl use when
// no tinker.toml is found: every assembler and simulator behavior is
// exactly what spec.md mandates, with only the supplemental lint rule on.
func Default() *Config {
	cfg := &Config{}
	cfg.Assembler.Verbose = false
	cfg.Simulator.CycleLimit = 0
	cfg.Simulator.Trace = false
	cfg.Lint.WarnUnreferencedLabels = true
	return cfg
}

// Load reads path and merges it onto Default(). A missing file is not an
// error -- it simply means "use the defaults" -- but a malformed file is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
