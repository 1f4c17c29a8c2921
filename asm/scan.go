package asm

type lineKind int

const (
	lineSkip lineKind = iota // blank after stripping comment, or comment-only
	lineSection
	lineLabel
	lineStatement
)

// classifiedLine is the result of applying the line discipline rules in
// spec.md §4.1 to a single raw source line.
type classifiedLine struct {
	kind      lineKind
	sectionTo section   // lineSection
	label     string    // lineLabel
	mnemonic  fstring   // lineStatement
	operands  fstring   // lineStatement: remaining text after the mnemonic
}

// classifyLine enforces the leading-space rule, strips comments and
// trailing whitespace, and routes the remainder to a section directive, a
// label declaration, or a statement. Per spec.md §9's open question, only
// true statements are required to begin with a tab; section directives
// and labels are exempt.
func classifyLine(raw fstring) (classifiedLine, error) {
	if raw.startsWithChar(' ') {
		return classifiedLine{}, &Error{Row: raw.row, Column: 0, Message: "leading spaces invalid"}
	}

	hadLeadingTab := raw.startsWithChar('\t')

	line := raw.stripTrailingComment()
	ptr := line.trimLeadingWhitespace()
	if ptr.isEmpty() {
		return classifiedLine{kind: lineSkip}, nil
	}

	switch {
	case ptr.startsWithString(".code"):
		return classifiedLine{kind: lineSection, sectionTo: sectionCode}, nil
	case ptr.startsWithString(".data"):
		return classifiedLine{kind: lineSection, sectionTo: sectionData}, nil
	case ptr.startsWithChar(':'):
		return classifyLabel(ptr)
	default:
		if !hadLeadingTab {
			return classifiedLine{}, &Error{Row: raw.row, Column: raw.column, Message: "statement must begin with a tab"}
		}
		mnemonic, rest := ptr.consumeWhile(wordChar)
		return classifiedLine{kind: lineStatement, mnemonic: mnemonic, operands: rest.trimLeadingWhitespace()}, nil
	}
}

func wordChar(c byte) bool {
	return !whitespace(c) && c != ','
}

func classifyLabel(ptr fstring) (classifiedLine, error) {
	rest := ptr.consume(1) // drop ':'
	name, tail := rest.consumeWhile(labelChar)
	if name.isEmpty() || !labelStartChar(name.str[0]) {
		return classifiedLine{}, &Error{Row: ptr.row, Column: ptr.column, Message: "invalid label name"}
	}
	if !tail.trimLeadingWhitespace().isEmpty() {
		return classifiedLine{}, &Error{Row: ptr.row, Column: ptr.column, Message: "label must be alone on its line"}
	}
	return classifiedLine{kind: lineLabel, label: name.str}, nil
}
