// Command tinkerasm is the Tinker assembler: it translates Tinker
// assembly source into a loadable object file (spec.md §6).
//
//	tinkerasm [-v] [-config path] <input.tk> <output.tko>
//
// Exit status is 0 on success and 1 on any assembly or I/O failure. On
// failure any partially written output file is removed.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tinker-machine/tinker/asm"
	"github.com/tinker-machine/tinker/config"
)

var (
	verbose    = flag.Bool("v", false, "verbose assembly log to stderr")
	configPath = flag.String("config", "tinker.toml", "path to an optional tinker.toml")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tinkerasm [-v] [-config path] <input.tk> <output.tko>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}

	if err := assembleFile(args[0], args[1], *verbose || cfg.Assembler.Verbose); err != nil {
		fail(err)
	}
}

func assembleFile(inPath, outPath string, verbose bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	res, err := asm.Assemble(in, verbose, os.Stderr)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}

	if werr := writeObject(out, res); werr != nil {
		out.Close()
		os.Remove(outPath)
		return werr
	}
	if cerr := out.Close(); cerr != nil {
		os.Remove(outPath)
		return cerr
	}
	return nil
}

func writeObject(w io.Writer, res *asm.Result) error {
	if err := res.Header.Write(w); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := w.Write(res.Code); err != nil {
		return fmt.Errorf("writing code segment: %w", err)
	}
	if _, err := w.Write(res.Data); err != nil {
		return fmt.Errorf("writing data segment: %w", err)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "tinkerasm: %v\n", err)
	os.Exit(1)
}
