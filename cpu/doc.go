// Package cpu implements the assembler and processor for a MIPS subset.
//
// The assembler reads a textual program with .data and .text sections,
// lowers pseudo instructions to real ones, and resolves labels in a second
// pass. Instructions occupy one word each from address zero, and the data
// section follows them, one 32-bit cell per value.
//
// The processor executes resolved instructions one at a time against its
// registers and the memory package's address space. System calls are
// selected by $v0.
package cpu
