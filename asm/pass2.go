package asm

import "strconv"

// passTwo re-walks the stored lines exactly as passOne did, but this time
// expands macros, encodes primitives, and appends the resulting bytes to
// the code and data segment images (spec.md §4.5).
func (a *assembler) passTwo() error {
	sect := sectionCode
	codeAddr := a.codeBegin
	dataAddr := a.dataBegin

	for _, raw := range a.lines {
		cl, err := classifyLine(raw)
		if err != nil {
			a.errors = append(a.errors, err.(*Error))
			return nil
		}

		switch cl.kind {
		case lineSkip, lineLabel:
			continue
		case lineSection:
			sect = cl.sectionTo
		case lineStatement:
			if sect == sectionData {
				bytes, derr := a.encodeData(cl)
				if derr != nil {
					a.appendErr(derr)
					return nil
				}
				a.data = append(a.data, bytes...)
				dataAddr += 8
				continue
			}

			bytes, eerr := a.encodeStatement(cl, codeAddr)
			if eerr != nil {
				a.appendErr(eerr)
				return nil
			}
			a.logf("  %#06x: %-24s %s", codeAddr, cl.mnemonic.str, byteString(bytes))
			a.code = append(a.code, bytes...)
			codeAddr += uint64(len(bytes))
		}
	}

	a.logSection("pass two")
	return nil
}

func (a *assembler) appendErr(err error) {
	if e, ok := err.(*Error); ok {
		a.errors = append(a.errors, e)
		return
	}
	a.errors = append(a.errors, &Error{Message: err.Error()})
}

// encodeData parses a single .data statement -- a non-negative decimal
// literal or a label reference -- into its 8-byte little-endian word.
// Unlike code immediates, data values never accept hex or octal bases.
func (a *assembler) encodeData(cl classifiedLine) ([]byte, error) {
	toks := splitOperands(fstringJoin(cl.mnemonic, cl.operands))
	if len(toks) != 1 {
		return nil, wrongOperandCount(cl.mnemonic, 1, len(toks))
	}
	tok := toks[0]
	s := tok.str
	if last := s[len(s)-1]; last == 'u' || last == 'U' {
		s = s[:len(s)-1]
	}

	if len(s) > 0 && s[0] == ':' {
		name := s[1:]
		if !validLabelName(name) {
			return nil, &Error{Row: tok.row, Column: tok.column, Message: "invalid label reference " + s}
		}
		addr, ok := a.syms.Lookup(name)
		if !ok {
			return nil, &Error{Row: tok.row, Column: tok.column, Message: "undefined label " + name}
		}
		return word64Bytes(addr), nil
	}

	if len(s) > 0 && s[0] == '-' {
		return nil, &Error{Row: tok.row, Column: tok.column, Message: "data literal must be non-negative"}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, &Error{Row: tok.row, Column: tok.column, Message: "invalid data literal " + tok.str}
	}
	return word64Bytes(v), nil
}

// fstringJoin reassembles a statement's mnemonic token and trailing
// operand text into one fstring so encodeData can tokenize the whole
// thing uniformly (a data statement's "mnemonic" is really its sole
// operand, since data lines have no opcode).
func fstringJoin(mnemonic, rest fstring) fstring {
	if rest.isEmpty() {
		return mnemonic
	}
	return fstring{row: mnemonic.row, column: mnemonic.column, str: mnemonic.str + " " + rest.str, full: mnemonic.full}
}
