// Command tinkersim is the Tinker virtual-machine simulator: it loads an
// object file and runs it to completion (spec.md §6).
//
//	tinkersim [-trace] [-config path] <program.tko>
//
// The input filename must end in .tko. Exit status is 0 on a clean halt
// and 1 on any load or simulation error.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinker-machine/tinker/config"
	"github.com/tinker-machine/tinker/disasm"
	"github.com/tinker-machine/tinker/loader"
	"github.com/tinker-machine/tinker/vm"
)

var (
	trace      = flag.Bool("trace", false, "print an instruction trace to stderr")
	configPath = flag.String("config", "tinker.toml", "path to an optional tinker.toml")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: tinkersim [-trace] [-config path] <program.tko>")
		os.Exit(1)
	}

	path := args[0]
	if filepath.Ext(path) != ".tko" {
		fail(fmt.Errorf("%s: simulator input must end in .tko", path))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}

	if err := run(path, cfg, *trace || cfg.Simulator.Trace); err != nil {
		fail(err)
	}
}

func run(path string, cfg *config.Config, traceEnabled bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := loader.Load(f, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.Simulator.CycleLimit == 0 {
		return runToHalt(m, traceEnabled)
	}
	return runBounded(m, cfg.Simulator.CycleLimit, traceEnabled)
}

// runToHalt mirrors spec.md §4.7's "no instruction-count limit": it steps
// until halt or the first execution error, with no cap either way.
func runToHalt(m *vm.VM, traceEnabled bool) error {
	if !traceEnabled {
		return m.Run()
	}
	for !m.Halted {
		traceStep(m)
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// runBounded enforces the config's optional cycle ceiling, a tooling
// convenience spec.md itself does not require (and disables by default).
func runBounded(m *vm.VM, limit uint64, traceEnabled bool) error {
	for i := uint64(0); !m.Halted; i++ {
		if i >= limit {
			return fmt.Errorf("exceeded configured cycle limit of %d instructions", limit)
		}
		if traceEnabled {
			traceStep(m)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func traceStep(m *vm.VM) {
	word, err := m.Mem.ReadWord(m.PC)
	if err != nil {
		return
	}
	line := disasm.Decode(m.PC, word)
	fmt.Fprintf(os.Stderr, "%#06x: %s\n", line.Addr, line.Text)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "tinkersim: %v\n", err)
	os.Exit(1)
}
