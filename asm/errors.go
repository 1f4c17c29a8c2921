package asm

import "fmt"

// Error is a single assembly failure, tied to the line it came from. Every
// error the assembler produces is fatal by the time Assemble returns one;
// there is no recovery or partial-success mode (spec.md §7).
type Error struct {
	Row     int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Row, e.Column, e.Message)
	}
	return e.Message
}

// ErrorList collects every error found while assembling a source file.
type ErrorList []*Error

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		s := el[0].Error()
		return fmt.Sprintf("%s (and %d more errors)", s, len(el)-1)
	}
}

func (a *assembler) addError(l fstring, format string, args ...interface{}) {
	a.errors = append(a.errors, &Error{
		Row:     l.row,
		Column:  l.column,
		Message: fmt.Sprintf(format, args...),
	})
}
