// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mipsim/io"
	"github.com/ezrec/mipsim/memory"
)

// Console is the syscall I/O interface.
type Console io.Terminal

// Initial stack pointer, the first cell below the stack top.
const STACK_POINTER = uint32(0x7fff_fffc)

var _cpu_defines = map[string]string{
	"STACK_POINTER": fmt.Sprintf("%#x", STACK_POINTER),
}

// Cpu is the simulation context of a MIPS subset processor.
type Cpu struct {
	Verbose           bool // Set to enable verbose logging.
	LegacyLogicalMask bool // Set to mask andi and ori results to 16 bits.

	Program *Program       // Program being executed.
	Memory  *memory.Memory // Address space.
	Console Console        // Syscall I/O. May be nil.

	Pc       uint32     // Address of the next instruction.
	Register [32]uint32 // Register bank.
	Hi       uint32     // Multiply high word, divide remainder.
	Lo       uint32     // Multiply low word, divide quotient.

	Halted   bool // Set by the exit syscalls.
	ExitCode int  // Exit code from the exit syscalls.
	Ticks    int  // CPU ticks counter.
}

// NewCpu creates a CPU for a program, reset and ready to run.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
		Memory:  memory.New(nil),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and statistics counters.
// - Reloads memory from the program image.
// - Sets the stack and global pointers.
// - Sets the PC to the program start.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if cpu.Program == nil {
		cpu.Program = &Program{}
	}
	if cpu.Memory == nil {
		cpu.Memory = memory.New(nil)
	}

	clear(cpu.Register[:])
	cpu.Hi = 0
	cpu.Lo = 0
	cpu.Halted = false
	cpu.ExitCode = 0
	cpu.Ticks = 0

	cpu.Memory.Verbose = cpu.Verbose
	cpu.Memory.Reset(cpu.Program.Image())

	cpu.Register[REG_SP] = STACK_POINTER
	cpu.Register[REG_GP] = cpu.Program.DataBase()
	cpu.Pc = cpu.Program.Start
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %08x\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %08x\n", "hi", cpu.Hi)
	text += fmt.Sprintf("% 5s: %08x\n", "lo", cpu.Lo)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %08x\n", RegisterName(uint8(n)), val)
	}

	return
}

// setReg writes a register. Writes to $zero are discarded.
func (cpu *Cpu) setReg(reg uint8, value uint32) {
	if reg == REG_ZERO {
		return
	}
	cpu.Register[reg&0x1f] = value
}

// Fetch returns the instruction at the PC.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	if cpu.Pc&3 != 0 {
		err = ErrPcAlign
		return
	}

	dbg := cpu.Program.Debug(cpu.Pc)
	if dbg.Instruction == nil {
		err = ErrPcRange
		return
	}

	ins = *dbg.Instruction
	return
}

// Step fetches and executes a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	ins, err := cpu.Fetch()
	if err != nil {
		err = &ErrFetch{Pc: cpu.Pc, Err: err}
		return
	}

	pc := cpu.Pc
	err = cpu.Execute(ins)
	if err != nil {
		err = &ErrExecute{Pc: pc, Instruction: ins, Err: err}
		return
	}

	cpu.Ticks++

	return
}

// Execute executes a single resolved instruction at the PC.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Pc, ins)
	}

	if len(ins.Symbol) > 0 {
		err = errors.Join(ErrSymbolUnresolved, ErrLabelMissing(ins.Symbol))
		return
	}

	rs := cpu.Register[ins.Rs&0x1f]
	rt := cpu.Register[ins.Rt&0x1f]
	imm := uint32(ins.Imm)
	zimm := imm & 0xffff
	addr := rs + imm
	next := cpu.Pc + 4

	switch ins.Op {
	case OP_ADD, OP_ADDU:
		cpu.setReg(ins.Rd, rs+rt)
	case OP_SUB, OP_SUBU:
		cpu.setReg(ins.Rd, rs-rt)
	case OP_AND:
		cpu.setReg(ins.Rd, rs&rt)
	case OP_OR:
		cpu.setReg(ins.Rd, rs|rt)
	case OP_XOR:
		cpu.setReg(ins.Rd, rs^rt)
	case OP_NOR:
		cpu.setReg(ins.Rd, ^(rs | rt))
	case OP_SLT:
		cpu.setReg(ins.Rd, flag(int32(rs) < int32(rt)))
	case OP_SLTU:
		cpu.setReg(ins.Rd, flag(rs < rt))
	case OP_SLL:
		cpu.setReg(ins.Rd, rt<<(ins.Shamt&31))
	case OP_SRL:
		cpu.setReg(ins.Rd, rt>>(ins.Shamt&31))
	case OP_SRA:
		cpu.setReg(ins.Rd, uint32(int32(rt)>>(ins.Shamt&31)))
	case OP_SLLV:
		cpu.setReg(ins.Rd, rt<<(rs&31))
	case OP_SRLV:
		cpu.setReg(ins.Rd, rt>>(rs&31))
	case OP_SRAV:
		cpu.setReg(ins.Rd, uint32(int32(rt)>>(rs&31)))
	case OP_JR:
		next = rs
	case OP_MFHI:
		cpu.setReg(ins.Rd, cpu.Hi)
	case OP_MFLO:
		cpu.setReg(ins.Rd, cpu.Lo)
	case OP_MULT:
		product := int64(int32(rs)) * int64(int32(rt))
		cpu.Lo = uint32(product)
		cpu.Hi = uint32(product >> 32)
	case OP_MULTU:
		product := uint64(rs) * uint64(rt)
		cpu.Lo = uint32(product)
		cpu.Hi = uint32(product >> 32)
	case OP_DIV:
		if rt == 0 {
			log.Printf("%08x: %v: %v", cpu.Pc, ins, ErrDivideByZero)
			break
		}
		cpu.Lo = uint32(int32(rs) / int32(rt))
		cpu.Hi = uint32(int32(rs) % int32(rt))
	case OP_DIVU:
		if rt == 0 {
			log.Printf("%08x: %v: %v", cpu.Pc, ins, ErrDivideByZero)
			break
		}
		cpu.Lo = rs / rt
		cpu.Hi = rs % rt
	case OP_ADDI, OP_ADDIU:
		cpu.setReg(ins.Rt, rs+imm)
	case OP_ANDI:
		value := rs & zimm
		if cpu.LegacyLogicalMask {
			value &= 0xffff
		}
		cpu.setReg(ins.Rt, value)
	case OP_ORI:
		value := rs | zimm
		if cpu.LegacyLogicalMask {
			value &= 0xffff
		}
		cpu.setReg(ins.Rt, value)
	case OP_XORI:
		cpu.setReg(ins.Rt, rs^zimm)
	case OP_SLTI:
		cpu.setReg(ins.Rt, flag(int32(rs) < ins.Imm))
	case OP_SLTIU:
		cpu.setReg(ins.Rt, flag(rs < imm))
	case OP_BEQ:
		if rs == rt {
			next += imm * 4
		}
	case OP_BNE:
		if rs != rt {
			next += imm * 4
		}
	case OP_LB, OP_LBU:
		var value uint32
		value, err = cpu.Memory.LoadByte(addr, ins.Op == OP_LB)
		if err == nil {
			cpu.setReg(ins.Rt, value)
		}
	case OP_LH, OP_LHU:
		var value uint32
		value, err = cpu.Memory.LoadHalf(addr, ins.Op == OP_LH)
		if err == nil {
			cpu.setReg(ins.Rt, value)
		}
	case OP_LW:
		var value uint32
		value, err = cpu.Memory.LoadWord(addr)
		if err == nil {
			cpu.setReg(ins.Rt, value)
		}
	case OP_SB:
		err = cpu.Memory.Store(memory.WIDTH_BYTE, addr, rt)
	case OP_SH:
		err = cpu.Memory.Store(memory.WIDTH_HALF, addr, rt)
	case OP_SW:
		err = cpu.Memory.Store(memory.WIDTH_WORD, addr, rt)
	case OP_LUI:
		cpu.setReg(ins.Rt, imm<<16)
	case OP_J:
		next = ((cpu.Pc + 4) & 0xf000_0000) | (imm << 2)
	case OP_JAL:
		cpu.setReg(REG_RA, cpu.Pc+8)
		next = ((cpu.Pc + 4) & 0xf000_0000) | (imm << 2)
	case OP_SYSCALL:
		err = cpu.Syscall()
	default:
		err = ErrOpcodeUnknown
	}

	if err != nil {
		return
	}

	cpu.Pc = next

	return
}

// flag converts a comparison to 0 or 1.
func flag(cond bool) uint32 {
	if cond {
		return 1
	}
	return 0
}
