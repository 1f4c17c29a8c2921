// Command tinkerctl is the supplemental Tinker tooling CLI: lint,
// cross-reference, reformat, and disassemble, none of which write an
// object file or otherwise change build output (spec.md §6 SUPPLEMENTAL
// FEATURES). Subcommands are dispatched through a single prefix-matched
// command tree, the way the teacher toolchain's interactive debugger
// dispatches its commands -- but tinkerctl looks up exactly one command
// per process invocation instead of running a REPL.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/cmd"

	"github.com/tinker-machine/tinker/asm"
	"github.com/tinker-machine/tinker/config"
	"github.com/tinker-machine/tinker/disasm"
	"github.com/tinker-machine/tinker/object"
	"github.com/tinker-machine/tinker/tools"
)

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.Load("tinker.toml")
	if err != nil {
		fail(err)
	}

	node, cmdArgs, err := buildTree().LookupCommand(strings.Join(os.Args[1:], " "))
	switch {
	case err == cmd.ErrNotFound:
		fmt.Fprintln(os.Stderr, "tinkerctl: unknown command (try lint, fmt, xref, or disasm)")
		os.Exit(1)
	case err == cmd.ErrAmbiguous:
		fmt.Fprintln(os.Stderr, "tinkerctl: ambiguous command")
		os.Exit(1)
	case err != nil:
		fail(err)
	}

	if node == nil || node.Data == nil {
		fmt.Fprintln(os.Stderr, "usage: tinkerctl lint|fmt|xref <file.tk> | tinkerctl disasm <file.tko>")
		os.Exit(1)
	}

	handler := node.Data.(func([]string) error)
	if err := handler(cmdArgs); err != nil {
		fail(err)
	}
}

func buildTree() *cmd.Tree {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "tinkerctl"})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "lint",
		Brief: "Lint a Tinker assembly source file",
		Description: "Run pass one over a source file and report duplicate" +
			" labels and line-discipline violations as errors, plus (unless" +
			" disabled in tinker.toml) labels that are declared but never" +
			" referenced as warnings. Never writes an object file.",
		Usage: "lint <file.tk>",
		Data:  func(args []string) error { return cmdLint(args) },
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "fmt",
		Brief: "Reformat a Tinker assembly source file",
		Description: "Print a canonically reformatted version of a source" +
			" file -- tab-indented statements, one label per line, comma-" +
			"separated operands -- to standard output.",
		Usage: "fmt <file.tk>",
		Data:  func(args []string) error { return cmdFmt(args) },
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "xref",
		Brief: "List resolved labels and their addresses",
		Description: "Run pass one over a source file and print every" +
			" label's resolved address and the segment (code or data) it" +
			" falls within.",
		Usage: "xref <file.tk>",
		Data:  func(args []string) error { return cmdXref(args) },
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disasm",
		Brief: "Disassemble an assembled object file",
		Description: "Decode a .tko file's code segment back into Tinker" +
			" assembly text, one primitive instruction per line.",
		Usage: "disasm <file.tko>",
		Data:  func(args []string) error { return cmdDisasm(args) },
	})

	root.AddShortcut("l", "lint")
	root.AddShortcut("x", "xref")
	root.AddShortcut("d", "disasm")

	return root
}

func cmdLint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tinkerctl lint <file.tk>")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	findings, err := tools.Lint(src, cfg.Lint.WarnUnreferencedLabels)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Println("no issues found")
		return nil
	}
	for _, f := range findings {
		if f.Row > 0 {
			fmt.Printf("%d: %s: %s\n", f.Row, f.Severity, f.Message)
		} else {
			fmt.Printf("%s: %s\n", f.Severity, f.Message)
		}
	}
	return nil
}

func cmdFmt(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tinkerctl fmt <file.tk>")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := asm.FormatSource(src)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func cmdXref(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tinkerctl xref <file.tk>")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	syms, err := tools.Xref(src)
	if err != nil {
		return err
	}
	for _, s := range syms {
		fmt.Printf("%-24s %-4s %#06x\n", s.Name, s.Segment, s.Address)
	}
	return nil
}

func cmdDisasm(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tinkerctl disasm <file.tko>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	hdr, err := object.ReadHeader(f)
	if err != nil {
		return err
	}
	code := make([]byte, hdr.CodeSegSize)
	if _, err := io.ReadFull(f, code); err != nil {
		return fmt.Errorf("reading code segment: %w", err)
	}

	lines, err := disasm.Segment(hdr.CodeSegBegin, code)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Printf("%#06x: %s\n", l.Addr, l.Text)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "tinkerctl: %v\n", err)
	os.Exit(1)
}
