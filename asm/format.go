package asm

import (
	"bufio"
	"fmt"
	"strings"
)

// FormatSource re-renders Tinker assembly source in canonical form: a tab
// before every statement, a label alone on its own line, and a single
// ", " between a statement's operands. It runs the same line-discipline
// classification pass one and pass two share, but only re-renders --
// never resolving labels or touching a symbol table -- so it works even
// on source with forward references.
func FormatSource(src []byte) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(src)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out strings.Builder
	row := 0
	for scanner.Scan() {
		row++
		raw := newFstring(row, scanner.Text())
		cl, err := classifyLine(raw)
		if err != nil {
			return "", err
		}
		switch cl.kind {
		case lineSkip:
			out.WriteString(scanner.Text())
		case lineSection:
			if cl.sectionTo == sectionCode {
				out.WriteString(".code")
			} else {
				out.WriteString(".data")
			}
		case lineLabel:
			fmt.Fprintf(&out, ":%s", cl.label)
		case lineStatement:
			toks := splitOperands(cl.operands)
			parts := make([]string, len(toks))
			for i, t := range toks {
				parts[i] = t.str
			}
			if len(parts) == 0 {
				fmt.Fprintf(&out, "\t%s", cl.mnemonic.str)
			} else {
				fmt.Fprintf(&out, "\t%s %s", cl.mnemonic.str, strings.Join(parts, ", "))
			}
		}
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return out.String(), nil
}
