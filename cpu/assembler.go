// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"io"
	"log"
	"maps"
	"strings"
)

// Section is an assembler section.
type Section int

const (
	SECTION_NONE = Section(iota)
	SECTION_DATA
	SECTION_TEXT
)

// Assembler is a two pass assembler for the MIPS subset.
//
// The first pass lays out the text and data sections and records labels.
// The second pass resolves label operands against the combined symbol
// table, where data follows the instructions in memory.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
	Strict  bool // If set, stops at the first error.

	predefine Equates           // Predefines
	Equate    Equates           // Map of equates.
	Label     map[string]uint32 // Map of text labels to addresses.
	Source    []Source          // Unresolved instructions.
	Data      Data              // Data section.
	Warnings  []error           // Diagnostics that did not stop assembly.

	section  Section
	start    uint32
	dataLine map[string]int // Line of each data label.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = Equates{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse tokenizes and assembles an input stream.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	lines, err := Tokenize(input)
	if err != nil {
		return
	}

	prog, err = asm.Assemble(lines)
	return
}

// reset prepares the assembler for a new source.
func (asm *Assembler) reset() {
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = Equates{}
	}
	asm.Label = map[string]uint32{}
	asm.dataLine = map[string]int{}
	asm.Source = asm.Source[:0]
	asm.Data.Reset()
	asm.Data.Verbose = asm.Verbose
	asm.Data.Equates = asm.Equate
	asm.Warnings = nil
	asm.section = SECTION_NONE
	asm.start = 0
}

// warn records a diagnostic that does not stop assembly.
func (asm *Assembler) warn(line Line, err error) {
	text := line.Command
	if len(text) == 0 && len(line.Label) > 0 {
		text = line.Label + ":"
	}
	err = &ErrSyntax{LineNo: line.LineNo, Line: text, Err: err}
	if asm.Verbose {
		log.Printf("warning: %v", err)
	}
	asm.Warnings = append(asm.Warnings, err)
}

// bind records a text label at the next instruction.
func (asm *Assembler) bind(line Line) {
	label := line.Label
	if len(label) == 0 {
		return
	}

	_, ok := asm.Label[label]
	if ok {
		asm.warn(line, ErrLabelDuplicate)
	}

	addr := uint32(len(asm.Source)) * 4
	asm.Label[label] = addr
	if label == "main" {
		asm.start = addr
	}

	if asm.Verbose {
		log.Printf("%v: label %v = %#x", line.LineNo, label, addr)
	}
}

// equate processes an '.eqv NAME VALUE' directive.
func (asm *Assembler) equate(params string) (err error) {
	split := strings.IndexAny(params, " ,")
	if split < 0 {
		err = ErrEquateSyntax
		return
	}
	name := params[:split]
	value := strings.TrimSpace(params[split+1:])
	value = strings.TrimSpace(strings.TrimPrefix(value, ","))
	if !IsIdentifier(name) || len(value) == 0 {
		err = ErrEquateSyntax
		return
	}

	_, ok := asm.Equate[name]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	asm.Equate[name] = value
	return
}

// implicitText returns true if the lines have no section markers.
func implicitText(lines []Line) bool {
	for _, line := range lines {
		marker, _, _ := strings.Cut(line.Command, " ")
		if marker == ".data" || marker == ".text" {
			return false
		}
	}
	return true
}

// line runs the first pass over one line.
func (asm *Assembler) line(line Line) (err error) {
	cmd := line.Command

	directive := ""
	params := ""
	if strings.HasPrefix(cmd, ".") {
		directive, params, _ = strings.Cut(cmd[1:], " ")
	}

	switch directive {
	case "data":
		asm.section = SECTION_DATA
		cmd = ""
	case "text":
		asm.section = SECTION_TEXT
		cmd = ""
	}

	if asm.section == SECTION_NONE {
		err = ErrSection
		return
	}

	switch directive {
	case "eqv", "globl", "extern":
		// Accepted in either section; labels bind as if the line were empty.
		cmd = ""
	}

	if asm.section == SECTION_DATA {
		if len(line.Label) > 0 {
			asm.dataLine[line.Label] = line.LineNo
		}
		if len(line.Label) > 0 && len(cmd) == 0 {
			werr := asm.Data.Bind(line.Label)
			if werr != nil {
				asm.warn(line, werr)
			}
		}
	} else {
		if len(cmd) == 0 || len(directive) == 0 {
			asm.bind(line)
		}
	}

	switch directive {
	case "eqv":
		err = asm.equate(params)
		return
	case "globl", "extern":
		err = asm.Data.Directive(Line{LineNo: line.LineNo, Command: line.Command})
		return
	}

	if len(cmd) == 0 {
		return
	}

	if asm.section == SECTION_DATA {
		if len(directive) == 0 {
			err = ErrSectionInstruction
			return
		}
		werr := asm.Data.Directive(line)
		if errors.Is(werr, ErrLabelDuplicate) {
			asm.warn(line, werr)
		} else {
			err = werr
		}
		return
	}

	if len(directive) > 0 {
		_, ok := dataKindMap[directive]
		if ok {
			err = ErrSectionDirective
		} else {
			err = ErrDirectiveInvalid
		}
		return
	}

	enc := Encoder{Verbose: asm.Verbose, Equates: asm.Equate}
	srcs, err := enc.Encode(line)
	if err != nil {
		return
	}

	asm.Source = append(asm.Source, srcs...)
	return
}

// Assemble assembles tokenized lines into a program.
//
// Errors are collected and the partial program is returned with them,
// unless Strict is set, in which case the first error stops assembly and
// no program is returned.
func (asm *Assembler) Assemble(lines []Line) (prog *Program, err error) {
	asm.reset()

	if implicitText(lines) {
		asm.section = SECTION_TEXT
	}

	var errs []error
	for _, line := range lines {
		if asm.Verbose {
			log.Printf("%v: %v: %v", line.LineNo, line.Label, line.Command)
		}

		lerr := asm.line(line)
		if lerr == nil {
			continue
		}

		lerr = &ErrSyntax{LineNo: line.LineNo, Line: line.Command, Err: lerr}
		if asm.Strict {
			err = lerr
			return
		}

		if asm.Verbose {
			log.Printf("error: %v", lerr)
		}
		errs = append(errs, lerr)
	}

	// Data follows the instructions.
	base := uint32(len(asm.Source)) * 4
	symbols := maps.Clone(asm.Label)
	for label, addr := range asm.Data.Symbols(base) {
		_, ok := symbols[label]
		if ok {
			asm.warn(Line{LineNo: asm.dataLine[label], Label: label}, ErrLabelDuplicate)
		}
		symbols[label] = addr
	}

	instructions := make([]Instruction, len(asm.Source))
	for n, src := range asm.Source {
		addr := uint32(n) * 4
		var rerr error
		instructions[n], rerr = Relocate(src, addr, symbols)
		if rerr != nil {
			asm.warn(Line{LineNo: src.LineNo, Command: src.Text}, rerr)
		}
		if asm.Verbose {
			log.Printf("%#08x: %v", addr, instructions[n])
		}
	}

	prog = &Program{
		Instructions: instructions,
		Data:         asm.Data.Cells(),
		Symbols:      symbols,
		Start:        asm.start,
		Globals:      append([]string(nil), asm.Data.Globals...),
		Externs:      append([]string(nil), asm.Data.Externs...),
		Warnings:     asm.Warnings,
	}

	err = errors.Join(errs...)
	return
}

// Relocate resolves an instruction at addr against a symbol table.
//
// A label missing from the symbol table is left in Instruction.Symbol,
// and ErrLabelMissing is returned as a warning.
func Relocate(src Source, addr uint32, symbols map[string]uint32) (ins Instruction, err error) {
	ins = Instruction{
		Op:     src.Op,
		Rs:     src.Rs,
		Rt:     src.Rt,
		Rd:     src.Rd,
		Shamt:  src.Shamt,
		Imm:    src.Operand.Value,
		LineNo: src.LineNo,
		Text:   src.Text,
	}

	value := uint32(src.Operand.Value)
	if src.Relocate() {
		label := src.Operand.Label
		target, ok := symbols[label]
		if !ok {
			ins.Symbol = label
			ins.Imm = 0
			err = ErrLabelMissing(label)
			return
		}

		switch src.Op {
		case OP_BEQ, OP_BNE:
			value = uint32((int64(target) - int64(addr) - 4) / 4)
		case OP_J, OP_JAL:
			value = target >> 2
		default:
			value = target
		}
	}

	switch {
	case src.Upper:
		value = (value & 0xffff_0000) >> 16
	case src.Lower:
		value = value & 0xffff
	}

	ins.Imm = int32(value)
	return
}
