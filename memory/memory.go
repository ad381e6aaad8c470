// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the segmented address space of the simulator.
//
// Memory is a set of 32-bit cells, one per word address. The low region
// holds the program image (instruction words followed by data cells) and
// starts at address zero. The high region is the stack: its first cell is
// at STACK_TOP and it grows downward, on demand, up to a cell limit.
// Everything else is unmapped.
package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mipsim/internal"
)

const (
	STACK_TOP   = uint32(0x8000_0000) // Address of high region cell 0.
	STACK_LIMIT = 1 << 20             // Default high region limit, in cells.
	HEAP_LIMIT  = 1 << 22             // Default low region limit, in cells.
)

var _memory_defines = map[string]string{
	"STACK_TOP":   fmt.Sprintf("%#x", STACK_TOP),
	"STACK_LIMIT": fmt.Sprintf("%v", STACK_LIMIT),
	"HEAP_LIMIT":  fmt.Sprintf("%v", HEAP_LIMIT),
}

// Region names one of the two physical regions.
type Region int

//go:generate go tool stringer -linecomment -type=Region
const (
	REGION_LOW  = Region(0) // low
	REGION_HIGH = Region(1) // high
)

// Width is the size of a memory access, in bytes.
type Width int

const (
	WIDTH_BYTE = Width(1)
	WIDTH_HALF = Width(2)
	WIDTH_WORD = Width(4)
)

// mask returns the value mask for the access width.
func (w Width) mask() uint32 {
	switch w {
	case WIDTH_BYTE:
		return 0xff
	case WIDTH_HALF:
		return 0xffff
	default:
		return 0xffff_ffff
	}
}

// Memory is the simulated address space.
type Memory struct {
	Verbose    bool // If set, logs region growth.
	StackLimit int  // Maximum cells in the high region. Zero selects STACK_LIMIT.
	HeapLimit  int  // Maximum cells in the low region. Zero selects HEAP_LIMIT.

	low  []uint32
	high []uint32
}

// New creates a memory whose low region is a copy of image.
func New(image []uint32) (mem *Memory) {
	mem = &Memory{}
	mem.Reset(image)
	return
}

// Defines returns the memory layout constants.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset replaces the low region with a copy of image and empties the stack.
func (mem *Memory) Reset(image []uint32) {
	mem.low = append(mem.low[:0], image...)
	mem.high = mem.high[:0]
}

func (mem *Memory) stackLimit() int {
	if mem.StackLimit <= 0 {
		return STACK_LIMIT
	}
	return mem.StackLimit
}

// heapLimit is the low region size limit. The low region never reaches
// the lowest stack cell.
func (mem *Memory) heapLimit() int {
	limit := mem.HeapLimit
	if limit <= 0 {
		limit = HEAP_LIMIT
	}
	return min(limit, int(STACK_TOP>>2)-mem.stackLimit())
}

// Locate maps a linear address to its region and cell index. Stack
// addresses always map to the high region.
func (mem *Memory) Locate(addr uint32) (region Region, index int, err error) {
	word := int64(addr >> 2)

	stack := int64(STACK_TOP>>2) - word
	if stack >= 0 && stack < int64(mem.stackLimit()) {
		region = REGION_HIGH
		index = int(stack)
		return
	}

	if word < int64(len(mem.low)) {
		region = REGION_LOW
		index = int(word)
		return
	}

	err = &ErrFault{Addr: addr, Err: ErrAddressUnmapped}
	return
}

// cell returns the cell holding addr, growing the stack to cover it.
func (mem *Memory) cell(addr uint32) (cell *uint32, err error) {
	region, index, err := mem.Locate(addr)
	if err != nil {
		return
	}

	if region == REGION_LOW {
		cell = &mem.low[index]
		return
	}

	if index >= len(mem.high) {
		if mem.Verbose {
			log.Printf("memory: stack grows to %d cells for %#08x", index+1, addr)
		}
		mem.high = append(mem.high, make([]uint32, index+1-len(mem.high))...)
	}

	cell = &mem.high[index]
	return
}

// lane returns the cell and bit shift of an aligned access.
func (mem *Memory) lane(width Width, addr uint32) (cell *uint32, shift uint, err error) {
	if addr&uint32(width-1) != 0 {
		err = &ErrFault{Addr: addr, Err: ErrAddressAlign}
		return
	}

	cell, err = mem.cell(addr)
	if err != nil {
		return
	}

	shift = uint(addr&3) * 8
	return
}

// load reads width bytes at addr, optionally sign extending.
func (mem *Memory) load(width Width, addr uint32, signed bool) (value uint32, err error) {
	cell, shift, err := mem.lane(width, addr)
	if err != nil {
		return
	}

	mask := width.mask()
	value = (*cell >> shift) & mask

	sign := (mask >> 1) + 1
	if signed && (value&sign) != 0 {
		value |= ^mask
	}

	return
}

// LoadWord reads the cell at a word aligned address.
func (mem *Memory) LoadWord(addr uint32) (value uint32, err error) {
	return mem.load(WIDTH_WORD, addr, false)
}

// LoadHalf reads a half word, sign extending it if signed is set.
func (mem *Memory) LoadHalf(addr uint32, signed bool) (value uint32, err error) {
	return mem.load(WIDTH_HALF, addr, signed)
}

// LoadByte reads a byte, sign extending it if signed is set.
func (mem *Memory) LoadByte(addr uint32, signed bool) (value uint32, err error) {
	return mem.load(WIDTH_BYTE, addr, signed)
}

// Store writes the low width bytes of value at addr.
func (mem *Memory) Store(width Width, addr uint32, value uint32) (err error) {
	cell, shift, err := mem.lane(width, addr)
	if err != nil {
		return
	}

	mask := width.mask()
	*cell = (*cell &^ (mask << shift)) | ((value & mask) << shift)

	return
}

// Grow appends zeroed cells to the low region, returning the address of
// the first new cell. Growth past the heap limit fails with
// ErrHeapExhausted and leaves the region unchanged.
func (mem *Memory) Grow(cells int) (base uint32, err error) {
	base = uint32(len(mem.low)) * 4
	if cells <= 0 {
		return
	}

	if cells > mem.heapLimit()-len(mem.low) {
		err = &ErrFault{Addr: base, Err: ErrHeapExhausted}
		return
	}

	mem.low = append(mem.low, make([]uint32, cells)...)
	if mem.Verbose {
		log.Printf("memory: heap grows to %d cells", len(mem.low))
	}

	return
}

// Low returns the low region cells.
func (mem *Memory) Low() []uint32 {
	return mem.low
}

// High returns the stack cells, cell 0 being at STACK_TOP.
func (mem *Memory) High() []uint32 {
	return mem.high
}

// Words iterates over every populated cell by address: the low region
// upward from zero, then the stack downward from STACK_TOP.
func (mem *Memory) Words() iter.Seq2[uint32, uint32] {
	return internal.IterSeq2Concat(
		internal.IterSeq2Indexed(mem.low, 0, 4),
		internal.IterSeq2Indexed(mem.high, STACK_TOP, -4),
	)
}
