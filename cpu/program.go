package cpu

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/mipsim/internal"
)

// Program is an assembled program.
type Program struct {
	Instructions []Instruction     // Resolved instructions, one per word from address 0.
	Data         []uint32          // Data cells, following the instructions.
	Symbols      map[string]uint32 // Label addresses.
	Start        uint32            // Address of 'main', or 0.
	Globals      []string          // '.globl' declarations.
	Externs      []string          // '.extern' declarations.
	Warnings     []error           // Assembly diagnostics, such as unresolved labels.
}

type Debug struct {
	*Instruction
	Index int
}

// DataBase returns the address of the first data cell.
func (prog *Program) DataBase() uint32 {
	return uint32(len(prog.Instructions)) * 4
}

// Debug returns the instruction at pc. The embedded Instruction is nil if
// pc is not the address of an instruction.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	index := int(pc / 4)
	if pc&3 != 0 || index >= len(prog.Instructions) {
		return
	}

	dbg = Debug{
		Instruction: &prog.Instructions[index],
		Index:       index,
	}

	return
}

// Lookup returns the address of a label.
func (prog *Program) Lookup(label string) (addr uint32, ok bool) {
	addr, ok = prog.Symbols[label]
	return
}

// Labels returns the labels in address order.
func (prog *Program) Labels() (labels []string) {
	labels = slices.Collect(maps.Keys(prog.Symbols))
	slices.SortFunc(labels, func(a, b string) int {
		return cmp.Or(cmp.Compare(prog.Symbols[a], prog.Symbols[b]), strings.Compare(a, b))
	})
	return
}

// Codes iterates over the instructions by address.
func (prog *Program) Codes() iter.Seq2[uint32, Instruction] {
	return internal.IterSeq2Indexed(prog.Instructions, 0, 4)
}

// Binary returns the machine words of the instructions.
func (prog *Program) Binary() (bins []uint32) {
	for _, ins := range prog.Codes() {
		bins = append(bins, ins.Encode())
	}

	return
}

// Image returns the initial contents of low memory: the instruction
// words followed by the data cells.
func (prog *Program) Image() (image []uint32) {
	image = make([]uint32, 0, len(prog.Instructions)+len(prog.Data))
	image = append(image, prog.Binary()...)
	image = append(image, prog.Data...)
	return
}
