package asm

// passOne walks the stored lines, assigning each label its final address
// and each statement its size, without producing any bytes yet. Macro
// sizes come from the presizing table in macros.go so that forward label
// references resolve to the addresses pass two will actually write to
// (spec.md §4.4).
func (a *assembler) passOne() error {
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
		case lineSkip:
			continue
		case lineSection:
			sect = cl.sectionTo
		case lineLabel:
			addr := codeAddr
			if sect == sectionData {
				addr = dataAddr
			}
			if insErr := a.syms.Insert(cl.label, addr); insErr != nil {
				a.addError(raw, "%s", insErr.Error())
				return nil
			}
		case lineStatement:
			if sect == sectionData {
				dataAddr += 8
				continue
			}
			mnemonic := cl.mnemonic.str
			size, ok := macroSizes[mnemonic]
			if !ok {
				size = instructionSize
			}
			codeAddr += uint64(size)
		}
	}

	a.logSection("pass one")
	a.logf("  %d symbols, code size unknown until pass two", a.syms.Len())
	return nil
}
