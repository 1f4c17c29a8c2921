// Package tools implements static checks over Tinker assembly source that
// don't require a full assembly: a lint pass (duplicate labels and
// line-discipline violations, plus an unreferenced-label heuristic) and a
// symbol cross-reference, both backing tinkerctl (spec.md §6
// SUPPLEMENTAL FEATURES). Neither writes an object file.
package tools

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/tinker-machine/tinker/asm"
)

// Severity classifies a Finding as a hard error (something pass one itself
// rejected) or an advisory warning (valid source, likely mistake).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one lint diagnostic.
type Finding struct {
	Row      int
	Severity Severity
	Message  string
}

// Lint runs pass one over src (via asm.Analyze) and, if that succeeds,
// layers on advisory checks pass one doesn't perform itself. A pass-one
// failure (an asm.ErrorList) is reported as error-severity Findings rather
// than returned as an error; any other error from Analyze, such as a
// failure to read src, is returned as-is.
func Lint(src []byte, warnUnreferenced bool) ([]Finding, error) {
	result, err := asm.Analyze(bytes.NewReader(src))
	if err != nil {
		el, ok := err.(asm.ErrorList)
		if !ok {
			return nil, err
		}
		findings := make([]Finding, len(el))
		for i, e := range el {
			findings[i] = Finding{Row: e.Row, Severity: SeverityError, Message: e.Message}
		}
		return findings, nil
	}

	var findings []Finding
	if warnUnreferenced {
		findings = append(findings, unreferencedLabels(src, result)...)
	}
	return findings, nil
}

// unreferencedLabels flags every label that Analyze resolved but that
// never appears as a ":name" operand anywhere else in the source. The
// check is a plain text scan, not a re-parse of operands, so it is
// deliberately conservative: it only ever under-reports (treats a
// coincidental match as a reference), never over-reports a used label as
// unreferenced.
func unreferencedLabels(src []byte, result *asm.AnalyzeResult) []Finding {
	referenced := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		raw := scanner.Text()
		body := raw
		if i := strings.IndexByte(body, ';'); i >= 0 {
			body = body[:i]
		}
		trimmed := strings.TrimSpace(body)
		declaredHere := ""
		if strings.HasPrefix(trimmed, ":") {
			declaredHere = strings.TrimSpace(trimmed[1:])
		}

		for _, tok := range splitRefTokens(body) {
			name := strings.TrimRight(tok, ")")
			if name == declaredHere {
				continue // the declaration itself, not a use
			}
			referenced[name] = true
		}
	}

	var findings []Finding
	for _, name := range result.Symbols.Names() {
		if !referenced[name] {
			findings = append(findings, Finding{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("label %q is never referenced", name),
			})
		}
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Message < findings[j].Message })
	return findings
}

// splitRefTokens returns every ":name" token's bare name found in line,
// splitting on whitespace and commas as the assembler's operand tokenizer
// does, and also on parentheses so that a label used as a memory
// displacement, (rB)(:name), is found too.
func splitRefTokens(line string) []string {
	var names []string
	fields := strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '(', ')':
			return true
		}
		return false
	})
	for _, f := range fields {
		if strings.HasPrefix(f, ":") && len(f) > 1 {
			names = append(names, f[1:])
		}
	}
	return names
}
