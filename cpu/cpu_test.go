package cpu

import (
	"errors"
	"fmt"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mipsim/memory"
)

// execute assembles and runs a program until it halts or faults.
func execute(t *testing.T, con Console, program ...string) (cpu *Cpu, err error) {
	prog, err := assemble(t, program...)
	if err != nil {
		return
	}

	cpu = NewCpu(prog)
	cpu.Console = con

	for range 10000 {
		if cpu.Halted {
			return
		}
		err = cpu.Step()
		if err != nil {
			return
		}
	}

	t.Fatalf("program did not halt")
	return
}

func TestCpuExecute(t *testing.T) {
	assert := assert.New(t)

	rd := func(op Op) Instruction {
		return Instruction{Op: op, Rd: REG_T0, Rs: REG_T0 + 1, Rt: REG_T0 + 2}
	}
	sh := func(op Op, shamt uint8) Instruction {
		return Instruction{Op: op, Rd: REG_T0, Rt: REG_T0 + 2, Shamt: shamt}
	}
	rt := func(op Op, imm int32) Instruction {
		return Instruction{Op: op, Rt: REG_T0, Rs: REG_T0 + 1, Imm: imm}
	}

	table := [](struct {
		ins    Instruction
		rs     uint32
		rt     uint32
		result uint32
	}){
		{rd(OP_ADD), 5, 7, 12},
		{rd(OP_ADDU), 0xffff_ffff, 2, 1},
		{rd(OP_SUB), 5, 7, 0xffff_fffe},
		{rd(OP_SUBU), 7, 5, 2},
		{rd(OP_AND), 0xf0f0, 0xff00, 0xf000},
		{rd(OP_OR), 0xf0f0, 0xff00, 0xfff0},
		{rd(OP_XOR), 0xf0f0, 0xff00, 0x0ff0},
		{rd(OP_NOR), 0, 0, 0xffff_ffff},
		{rd(OP_SLT), 0xffff_ffff, 1, 1},
		{rd(OP_SLT), 1, 0xffff_ffff, 0},
		{rd(OP_SLTU), 0xffff_ffff, 1, 0},
		{rd(OP_SLTU), 1, 0xffff_ffff, 1},
		{sh(OP_SLL, 4), 0, 1, 16},
		{sh(OP_SRL, 4), 0, 0x8000_0000, 0x0800_0000},
		{sh(OP_SRA, 4), 0, 0x8000_0000, 0xf800_0000},
		{rd(OP_SLLV), 4, 1, 16},
		{rd(OP_SRLV), 36, 0x8000_0000, 0x0800_0000},
		{rd(OP_SRAV), 4, 0x8000_0000, 0xf800_0000},
		{rt(OP_ADDI, -6), 5, 0, 0xffff_ffff},
		{rt(OP_ADDIU, 1), 0xffff_ffff, 0, 0},
		{rt(OP_ANDI, 0xff), 0xffff_ffff, 0, 0xff},
		{rt(OP_ORI, 0x5678), 0x1234_0000, 0, 0x1234_5678},
		{rt(OP_XORI, 0xf), 0xff, 0, 0xf0},
		{rt(OP_SLTI, -4), 0xffff_fffb, 0, 1},
		{rt(OP_SLTI, -4), 0, 0, 0},
		{rt(OP_SLTIU, -1), 1, 0, 1},
		{rt(OP_LUI, 0x1234), 0, 0, 0x1234_0000},
	}

	for _, entry := range table {
		cpu := NewCpu(nil)
		cpu.Register[REG_T0+1] = entry.rs
		cpu.Register[REG_T0+2] = entry.rt

		err := cpu.Execute(entry.ins)
		assert.NoError(err, entry.ins.String())
		assert.Equal(entry.result, cpu.Register[REG_T0], entry.ins.String())
		assert.Equal(uint32(4), cpu.Pc, entry.ins.String())
	}
}

func TestCpuZeroRegister(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	cpu.Register[REG_T0] = 7

	err := cpu.Execute(Instruction{Op: OP_ADD, Rd: REG_ZERO, Rs: REG_T0, Rt: REG_T0})
	assert.NoError(err)
	err = cpu.Execute(Instruction{Op: OP_LUI, Rt: REG_ZERO, Imm: 1})
	assert.NoError(err)

	assert.Equal(uint32(0), cpu.Register[REG_ZERO])
}

func TestCpuLegacyLogicalMask(t *testing.T) {
	assert := assert.New(t)

	ori := Instruction{Op: OP_ORI, Rt: REG_T0, Rs: REG_T0 + 1, Imm: 0x5678}
	andi := Instruction{Op: OP_ANDI, Rt: REG_T0, Rs: REG_T0 + 1, Imm: 0xffff}

	cpu := NewCpu(nil)
	cpu.Register[REG_T0+1] = 0x1234_0000
	assert.NoError(cpu.Execute(ori))
	assert.Equal(uint32(0x1234_5678), cpu.Register[REG_T0])

	cpu.LegacyLogicalMask = true
	assert.NoError(cpu.Execute(ori))
	assert.Equal(uint32(0x5678), cpu.Register[REG_T0])

	cpu.Register[REG_T0+1] = 0xffff_ffff
	assert.NoError(cpu.Execute(andi))
	assert.Equal(uint32(0xffff), cpu.Register[REG_T0])
}

func TestCpuMultiplyDivide(t *testing.T) {
	assert := assert.New(t)

	st := func(op Op) Instruction {
		return Instruction{Op: op, Rs: REG_T0, Rt: REG_T0 + 1}
	}

	table := [](struct {
		op     Op
		rs     uint32
		rt     uint32
		hi, lo uint32
	}){
		{OP_MULT, 0xffff_fffe, 3, 0xffff_ffff, 0xffff_fffa},
		{OP_MULTU, 0xffff_ffff, 2, 1, 0xffff_fffe},
		{OP_MULT, 0x1_0000, 0x1_0000, 1, 0},
		{OP_DIV, 0xffff_fff9, 2, 0xffff_ffff, 0xffff_fffd},
		{OP_DIVU, 7, 2, 1, 3},
		{OP_DIVU, 0xffff_fff9, 2, 1, 0x7fff_fffc},
	}

	for _, entry := range table {
		cpu := NewCpu(nil)
		cpu.Register[REG_T0] = entry.rs
		cpu.Register[REG_T0+1] = entry.rt

		assert.NoError(cpu.Execute(st(entry.op)), entry.op.String())
		assert.Equal(entry.hi, cpu.Hi, entry.op.String())
		assert.Equal(entry.lo, cpu.Lo, entry.op.String())

		assert.NoError(cpu.Execute(Instruction{Op: OP_MFHI, Rd: REG_S0}))
		assert.NoError(cpu.Execute(Instruction{Op: OP_MFLO, Rd: REG_S0 + 1}))
		assert.Equal(entry.hi, cpu.Register[REG_S0])
		assert.Equal(entry.lo, cpu.Register[REG_S0+1])
	}

	// Division by zero leaves HI and LO alone.
	for _, op := range []Op{OP_DIV, OP_DIVU} {
		cpu := NewCpu(nil)
		cpu.Hi = 0x11
		cpu.Lo = 0x22
		cpu.Register[REG_T0] = 5

		assert.NoError(cpu.Execute(st(op)))
		assert.Equal(uint32(0x11), cpu.Hi)
		assert.Equal(uint32(0x22), cpu.Lo)
		assert.Equal(uint32(4), cpu.Pc)
	}
}

func TestCpuLoop(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".text",
		"main: li $t0, 5",
		"clear $t1",
		"loop: add $t1, $t1, $t0",
		"addi $t0, $t0, -1",
		"bgtz $t0, loop",
		"li $v0, 10",
		"syscall",
	)
	assert.NoError(err)
	assert.True(cpu.Halted)
	assert.Equal(uint32(15), cpu.Register[REG_T0+1])
	assert.Equal(uint32(0), cpu.Register[REG_T0])
	// 3 + 5 passes of 4 + 3
	assert.Equal(26, cpu.Ticks)
}

func TestCpuBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		branch string
		a, b   int32
		taken  bool
	}){
		{"beq", 1, 1, true},
		{"beq", 1, 2, false},
		{"bne", 1, 2, true},
		{"bne", 2, 2, false},
		{"bgt", 2, 1, true},
		{"bgt", 1, 2, false},
		{"bgt", -1, 1, false},
		{"blt", -1, 1, true},
		{"blt", 1, 1, false},
		{"bge", 1, 1, true},
		{"bge", 0, 1, false},
		{"ble", 1, 1, true},
		{"ble", 2, 1, false},
		{"bgtu", -1, 1, true},
		{"bgtu", 1, 2, false},
	}

	for _, entry := range table {
		name := fmt.Sprintf("%v %v, %v", entry.branch, entry.a, entry.b)
		cpu, err := execute(t, nil,
			".text",
			fmt.Sprintf("main: li $t0, %d", entry.a),
			fmt.Sprintf("li $t1, %d", entry.b),
			fmt.Sprintf("%v $t0, $t1, yes", entry.branch),
			"li $s0, 0",
			"j done",
			"yes: li $s0, 1",
			"done: li $v0, 10",
			"syscall",
		)
		assert.NoError(err, name)
		assert.Equal(flag(entry.taken), cpu.Register[REG_S0], name)
	}
}

func TestCpuCall(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".text",
		"main: li $a0, 3",
		"jal double",
		"nop",
		"move $s0, $v0",
		"li $v0, 10",
		"syscall",
		"double: add $v0, $a0, $a0",
		"jr $ra",
	)
	assert.NoError(err)
	assert.Equal(uint32(6), cpu.Register[REG_S0])
	// The return address skips the slot after the call.
	assert.Equal(uint32(16), cpu.Register[REG_RA])
}

func TestCpuMemory(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".data",
		"val: .word 0x12345678",
		"buf: .space 2",
		".text",
		"main: lw $t0, val",
		"la $t1, buf",
		"sw $t0, 0($t1)",
		"lb $t2, 3($t1)",
		"lh $t3, 0($t1)",
		"li $t4, -1",
		"sb $t4, 4($t1)",
		"lb $t5, 4($t1)",
		"lbu $t6, 4($t1)",
		"sh $t4, 2($t1)",
		"lw $t7, ($t1)",
		"lhu $s0, 2($t1)",
		"lh $s1, 2($t1)",
		"li $v0, 10",
		"syscall",
	)
	assert.NoError(err)

	reg := func(n int) uint32 { return cpu.Register[REG_T0+n] }
	assert.Equal(uint32(0x1234_5678), reg(0))
	assert.Equal(uint32(0x12), reg(2))
	assert.Equal(uint32(0x5678), reg(3))
	assert.Equal(uint32(0xffff_ffff), reg(5))
	assert.Equal(uint32(0xff), reg(6))
	assert.Equal(uint32(0xffff_5678), reg(7))
	assert.Equal(uint32(0xffff), cpu.Register[REG_S0])
	assert.Equal(uint32(0xffff_ffff), cpu.Register[REG_S0+1])

	buf, _ := cpu.Program.Lookup("buf")
	word, err := cpu.Memory.LoadWord(buf + 4)
	assert.NoError(err)
	assert.Equal(uint32(0xff), word)
}

func TestCpuMemoryFault(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".text",
		"main: li $t0, 2",
		"lw $t1, 0($t0)",
	)
	assert.ErrorIs(err, memory.ErrAddressAlign)
	var exe *ErrExecute
	assert.ErrorAs(err, &exe)
	assert.Equal(uint32(8), exe.Pc)
	assert.Equal(OP_LW, exe.Instruction.Op)
	assert.Equal(uint32(8), cpu.Pc)

	_, err = execute(t, nil,
		".text",
		"main: lw $t0, 0x1000($zero)",
	)
	assert.ErrorIs(err, memory.ErrAddressUnmapped)
}

func TestCpuFetchFault(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".text",
		"main: nop",
	)
	assert.ErrorIs(err, ErrPcRange)

	var fetch *ErrFetch
	assert.ErrorAs(err, &fetch)
	assert.Equal(uint32(4), fetch.Pc)
	assert.Equal("0x000004 pc out of range", err.Error())

	var exe *ErrExecute
	assert.False(errors.As(err, &exe))
	assert.Equal(1, cpu.Ticks)
}

func TestCpuStack(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".text",
		"main: addi $sp, $sp, -8",
		"li $t0, 42",
		"sw $t0, 4($sp)",
		"lw $t1, 4($sp)",
		"addi $sp, $sp, 8",
	)
	// Running off the end of the text section.
	assert.ErrorIs(err, ErrPcRange)

	assert.Equal(uint32(42), cpu.Register[REG_T0+1])
	assert.Equal(STACK_POINTER, cpu.Register[REG_SP])
	assert.Equal(uint32(24), cpu.Pc)
	assert.Equal([]uint32{0, 0, 42}, cpu.Memory.High())
}

func TestCpuFaults(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	err := cpu.Step()
	assert.ErrorIs(err, ErrPcRange)

	prog, err := assemble(t, ".text", "main: nop")
	assert.NoError(err)
	cpu = NewCpu(prog)
	cpu.Pc = 2
	err = cpu.Step()
	assert.ErrorIs(err, ErrPcAlign)
	assert.Equal(0, cpu.Ticks)

	_, err = execute(t, nil, ".text", "main: jal printf")
	assert.ErrorIs(err, ErrSymbolUnresolved)
	var missing ErrLabelMissing
	assert.ErrorAs(err, &missing)
	assert.Equal(ErrLabelMissing("printf"), missing)

	cpu = NewCpu(prog)
	assert.Error(cpu.Execute(Instruction{Op: Op(-1)}))
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu, err := execute(t, nil,
		".data",
		"val: .word 7",
		".text",
		"start: nop",
		"main: li $t0, 9",
		"sw $t0, val",
		"li $v0, 10",
		"syscall",
	)
	assert.NoError(err)
	assert.True(cpu.Halted)

	err = cpu.Step()
	assert.Equal(ErrHalted, err)

	val, _ := cpu.Program.Lookup("val")
	word, _ := cpu.Memory.LoadWord(val)
	assert.Equal(uint32(9), word)

	cpu.Reset()
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint32(4), cpu.Pc)
	assert.Equal(uint32(0), cpu.Register[REG_T0])
	assert.Equal(STACK_POINTER, cpu.Register[REG_SP])
	assert.Equal(cpu.Program.DataBase(), cpu.Register[REG_GP])

	word, _ = cpu.Memory.LoadWord(val)
	assert.Equal(uint32(7), word)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	text := cpu.String()

	assert.Contains(text, "   pc: 00000000\n")
	assert.Contains(text, "  $sp: 7ffffffc\n")
	assert.Contains(text, "$zero: 00000000\n")
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	defines := maps.Collect(cpu.Defines())
	assert.Equal("0x7ffffffc", defines["STACK_POINTER"])
}
