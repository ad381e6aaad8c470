// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/internal"
	"github.com/ezrec/mipsim/io"
	"github.com/ezrec/mipsim/memory"
)

const (
	STEP_LIMIT = 10_000_000 // Default step budget for a run.
)

var _emulator_defines = map[string]string{
	"STEP_LIMIT": fmt.Sprintf("%v", STEP_LIMIT),
}

// Emulator state. CPU + memory + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Strict   bool         // If set, assembly stops at the first error.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Terminal io.Console // Console for the syscalls.

	predefine map[string]string
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil),
		Program: &cpu.Program{},
	}

	emu.Cpu.Console = &emu.Terminal

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
	)
}

// Predefine adds an equate for every later Assemble, overriding any
// emulator define of the same name.
func (emu *Emulator) Predefine(name string, value string) {
	if emu.predefine == nil {
		emu.predefine = map[string]string{}
	}
	emu.predefine[name] = value
}

// Assemble a program, with the emulator's defines available as equates.
// The program is kept even if it has errors, unless Strict is set.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Strict:  emu.Strict,
	}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	for name, value := range emu.predefine {
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(input)
	if prog != nil {
		emu.Program = prog
	}

	return
}

// Reset the emulator state, reloading the program.
func (emu *Emulator) Reset() {
	if emu.Program == nil {
		emu.Program = &cpu.Program{}
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Program = emu.Program
	emu.Cpu.Console = &emu.Terminal
	emu.Terminal.Rewind()

	emu.Cpu.Reset()
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Pc
}

// Memory returns the address space.
func (emu *Emulator) Memory() *memory.Memory {
	return emu.Cpu.Memory
}

// Registers iterates over the register names and values.
func (emu *Emulator) Registers() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		for n, value := range emu.Cpu.Register {
			if !yield(cpu.RegisterName(uint8(n)), value) {
				return
			}
		}
	}
}

// Instructions iterates over the program's instructions by address.
func (emu *Emulator) Instructions() iter.Seq2[uint32, cpu.Instruction] {
	return emu.Program.Codes()
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Instruction == nil {
		return 0
	}

	return dbg.LineNo
}

// Source returns the source text for the executing instruction.
func (emu *Emulator) Source() string {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Instruction == nil {
		return ""
	}

	return dbg.Text
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc

	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks until the program halts, faults, or uses up limit steps. A
// limit of zero or less is unbounded.
func (emu *Emulator) Run(limit int) (steps int, done bool, err error) {
	for limit <= 0 || steps < limit {
		if emu.Cpu.Halted {
			done = true
			return
		}
		_, err = emu.Tick()
		if err != nil {
			return
		}
		steps++
	}

	done = emu.Cpu.Halted
	if !done && emu.Verbose {
		log.Printf("emulator: step limit %d reached at %#08x", limit, emu.Cpu.Pc)
	}

	return
}
