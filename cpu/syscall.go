package cpu

import (
	"errors"
	goio "io"
	"log"
	"math"

	"github.com/ezrec/mipsim/io"
	"github.com/ezrec/mipsim/memory"
)

// SyscallCode is a system call number, passed in $v0.
type SyscallCode uint32

//go:generate go tool stringer -linecomment -type=SyscallCode
const (
	SYSCALL_PRINT_INT    = SyscallCode(1)  // print_int
	SYSCALL_PRINT_FLOAT  = SyscallCode(2)  // print_float
	SYSCALL_PRINT_DOUBLE = SyscallCode(3)  // print_double
	SYSCALL_PRINT_STRING = SyscallCode(4)  // print_string
	SYSCALL_READ_INT     = SyscallCode(5)  // read_int
	SYSCALL_READ_FLOAT   = SyscallCode(6)  // read_float
	SYSCALL_READ_DOUBLE  = SyscallCode(7)  // read_double
	SYSCALL_READ_STRING  = SyscallCode(8)  // read_string
	SYSCALL_SBRK         = SyscallCode(9)  // sbrk
	SYSCALL_EXIT         = SyscallCode(10) // exit
	SYSCALL_PRINT_CHAR   = SyscallCode(11) // print_char
	SYSCALL_READ_CHAR    = SyscallCode(12) // read_char
	SYSCALL_EXIT2        = SyscallCode(17) // exit2
)

// stringLimit bounds the cells walked by print_string.
const stringLimit = 1 << 16

// noInput returns true if a console read failed for lack of usable input.
func noInput(err error) bool {
	var perr io.ErrParseInput
	return errors.Is(err, io.ErrNoInput) || errors.Is(err, goio.EOF) || errors.As(err, &perr)
}

// Syscall performs the system call selected by $v0.
//
// Reads without usable input leave the registers unchanged. An unknown call is
// logged and ignored.
func (cpu *Cpu) Syscall() (err error) {
	code := SyscallCode(cpu.Register[REG_V0])
	a0 := cpu.Register[REG_A0]
	a1 := cpu.Register[REG_A1]

	if cpu.Verbose {
		log.Printf("syscall: %v", code)
	}

	con := cpu.Console
	if con == nil {
		con = &io.Console{}
	}

	switch code {
	case SYSCALL_PRINT_INT:
		err = con.WriteInt(int32(a0))
	case SYSCALL_PRINT_FLOAT:
		err = con.WriteFloat(float64(math.Float32frombits(a0)), 32)
	case SYSCALL_PRINT_DOUBLE:
		err = con.WriteFloat(float64(math.Float32frombits(a0)), 64)
	case SYSCALL_PRINT_STRING:
		var text string
		text, err = cpu.readString(a0)
		if err != nil {
			return
		}
		err = con.WriteString(text)
	case SYSCALL_PRINT_CHAR:
		err = con.WriteString(string([]byte{byte(a0)}))
	case SYSCALL_READ_INT:
		var value int32
		value, err = con.ReadInt()
		if err == nil {
			cpu.setReg(REG_V0, uint32(value))
		}
	case SYSCALL_READ_FLOAT, SYSCALL_READ_DOUBLE:
		var value float64
		value, err = con.ReadFloat()
		if err == nil {
			cpu.setReg(REG_V0, math.Float32bits(float32(value)))
		}
	case SYSCALL_READ_CHAR:
		var char byte
		char, err = con.ReadChar()
		if err == nil {
			cpu.setReg(REG_V0, uint32(char))
		}
	case SYSCALL_READ_STRING:
		var line string
		line, err = con.ReadLine()
		if err == nil {
			err = cpu.writeString(a0, a1, line)
		}
	case SYSCALL_SBRK:
		cells := (int64(int32(a0)) + 3) / 4
		if cells < 0 {
			cells = 0
		}
		base, gerr := cpu.Memory.Grow(int(cells))
		if gerr != nil {
			if cpu.Verbose {
				log.Printf("%08x: sbrk %d: %v", cpu.Pc, int32(a0), gerr)
			}
			base = 0xffff_ffff
		}
		cpu.setReg(REG_V0, base)
	case SYSCALL_EXIT:
		cpu.Halted = true
	case SYSCALL_EXIT2:
		cpu.Halted = true
		cpu.ExitCode = int(int32(a0))
	default:
		log.Printf("%08x: %v %d", cpu.Pc, ErrSyscallUnknown, uint32(code))
	}

	if noInput(err) {
		if cpu.Verbose {
			log.Printf("syscall: %v: %v", code, err)
		}
		err = nil
	}

	return
}

// readString reads a NUL terminated string, one character per cell.
func (cpu *Cpu) readString(addr uint32) (text string, err error) {
	var buf []byte
	for range stringLimit {
		var char uint32
		char, err = cpu.Memory.LoadByte(addr, false)
		if err != nil {
			return
		}
		if char == 0 {
			break
		}
		buf = append(buf, byte(char))
		addr += 4
	}

	text = string(buf)
	return
}

// writeString stores up to size-1 characters of text, one per cell, and a
// terminating NUL.
func (cpu *Cpu) writeString(addr uint32, size uint32, text string) (err error) {
	if size == 0 {
		return
	}

	if uint32(len(text)) > size-1 {
		text = text[:size-1]
	}

	for n := range len(text) {
		err = cpu.Memory.Store(memory.WIDTH_WORD, addr, uint32(text[n]))
		if err != nil {
			return
		}
		addr += 4
	}

	err = cpu.Memory.Store(memory.WIDTH_WORD, addr, 0)
	return
}
