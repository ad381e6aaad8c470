package cpu

// Op is a real (hardware) opcode of the supported MIPS subset.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD     = Op(0)  // add
	OP_ADDU    = Op(1)  // addu
	OP_SUB     = Op(2)  // sub
	OP_SUBU    = Op(3)  // subu
	OP_AND     = Op(4)  // and
	OP_OR      = Op(5)  // or
	OP_XOR     = Op(6)  // xor
	OP_NOR     = Op(7)  // nor
	OP_SLT     = Op(8)  // slt
	OP_SLTU    = Op(9)  // sltu
	OP_SLL     = Op(10) // sll
	OP_SRL     = Op(11) // srl
	OP_SRA     = Op(12) // sra
	OP_SLLV    = Op(13) // sllv
	OP_SRLV    = Op(14) // srlv
	OP_SRAV    = Op(15) // srav
	OP_JR      = Op(16) // jr
	OP_MFHI    = Op(17) // mfhi
	OP_MFLO    = Op(18) // mflo
	OP_MULT    = Op(19) // mult
	OP_MULTU   = Op(20) // multu
	OP_DIV     = Op(21) // div
	OP_DIVU    = Op(22) // divu
	OP_ADDI    = Op(23) // addi
	OP_ADDIU   = Op(24) // addiu
	OP_ANDI    = Op(25) // andi
	OP_ORI     = Op(26) // ori
	OP_XORI    = Op(27) // xori
	OP_SLTI    = Op(28) // slti
	OP_SLTIU   = Op(29) // sltiu
	OP_BEQ     = Op(30) // beq
	OP_BNE     = Op(31) // bne
	OP_LB      = Op(32) // lb
	OP_LBU     = Op(33) // lbu
	OP_LH      = Op(34) // lh
	OP_LHU     = Op(35) // lhu
	OP_LW      = Op(36) // lw
	OP_SB      = Op(37) // sb
	OP_SH      = Op(38) // sh
	OP_SW      = Op(39) // sw
	OP_LUI     = Op(40) // lui
	OP_J       = Op(41) // j
	OP_JAL     = Op(42) // jal
	OP_SYSCALL = Op(43) // syscall
)

// Class is the instruction class of a mnemonic.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_R       = Class(0) // R
	CLASS_I       = Class(1) // I
	CLASS_J       = Class(2) // J
	CLASS_PSEUDO  = Class(3) // pseudo
	CLASS_SYSCALL = Class(4) // syscall
)

// Format is the positional operand layout of an opcode.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_NONE = Format(0)  // -
	FORMAT_DST  = Format(1)  // rd, rs, rt
	FORMAT_DTH  = Format(2)  // rd, rt, shamt
	FORMAT_DTS  = Format(3)  // rd, rt, rs
	FORMAT_ST   = Format(4)  // rs, rt
	FORMAT_D    = Format(5)  // rd
	FORMAT_S    = Format(6)  // rs
	FORMAT_TSI  = Format(7)  // rt, rs, C
	FORMAT_STI  = Format(8)  // rs, rt, C
	FORMAT_TIS  = Format(9)  // rt, C(rs)
	FORMAT_TI   = Format(10) // rt, C
	FORMAT_J    = Format(11) // C
)

// Arity returns the number of comma separated operands of the format.
func (format Format) Arity() int {
	switch format {
	case FORMAT_DST, FORMAT_DTH, FORMAT_DTS, FORMAT_TSI, FORMAT_STI:
		return 3
	case FORMAT_ST, FORMAT_TIS, FORMAT_TI:
		return 2
	case FORMAT_D, FORMAT_S, FORMAT_J:
		return 1
	}
	return 0
}

// Immediate returns true if the format carries an immediate operand.
func (format Format) Immediate() bool {
	switch format {
	case FORMAT_TSI, FORMAT_STI, FORMAT_TIS, FORMAT_TI, FORMAT_J:
		return true
	}
	return false
}

// opInfo describes the encoding of an opcode.
type opInfo struct {
	class  Class
	format Format
	code   uint32 // Primary opcode field.
	funct  uint32 // Function field of R class opcodes.
}

var opTable = [...]opInfo{
	OP_ADD:     {CLASS_R, FORMAT_DST, 0x00, 0x20},
	OP_ADDU:    {CLASS_R, FORMAT_DST, 0x00, 0x21},
	OP_SUB:     {CLASS_R, FORMAT_DST, 0x00, 0x22},
	OP_SUBU:    {CLASS_R, FORMAT_DST, 0x00, 0x23},
	OP_AND:     {CLASS_R, FORMAT_DST, 0x00, 0x24},
	OP_OR:      {CLASS_R, FORMAT_DST, 0x00, 0x25},
	OP_XOR:     {CLASS_R, FORMAT_DST, 0x00, 0x26},
	OP_NOR:     {CLASS_R, FORMAT_DST, 0x00, 0x27},
	OP_SLT:     {CLASS_R, FORMAT_DST, 0x00, 0x2a},
	OP_SLTU:    {CLASS_R, FORMAT_DST, 0x00, 0x2b},
	OP_SLL:     {CLASS_R, FORMAT_DTH, 0x00, 0x00},
	OP_SRL:     {CLASS_R, FORMAT_DTH, 0x00, 0x02},
	OP_SRA:     {CLASS_R, FORMAT_DTH, 0x00, 0x03},
	OP_SLLV:    {CLASS_R, FORMAT_DTS, 0x00, 0x04},
	OP_SRLV:    {CLASS_R, FORMAT_DTS, 0x00, 0x06},
	OP_SRAV:    {CLASS_R, FORMAT_DTS, 0x00, 0x07},
	OP_JR:      {CLASS_R, FORMAT_S, 0x00, 0x08},
	OP_MFHI:    {CLASS_R, FORMAT_D, 0x00, 0x10},
	OP_MFLO:    {CLASS_R, FORMAT_D, 0x00, 0x12},
	OP_MULT:    {CLASS_R, FORMAT_ST, 0x00, 0x18},
	OP_MULTU:   {CLASS_R, FORMAT_ST, 0x00, 0x19},
	OP_DIV:     {CLASS_R, FORMAT_ST, 0x00, 0x1a},
	OP_DIVU:    {CLASS_R, FORMAT_ST, 0x00, 0x1b},
	OP_ADDI:    {CLASS_I, FORMAT_TSI, 0x08, 0},
	OP_ADDIU:   {CLASS_I, FORMAT_TSI, 0x09, 0},
	OP_ANDI:    {CLASS_I, FORMAT_TSI, 0x0c, 0},
	OP_ORI:     {CLASS_I, FORMAT_TSI, 0x0d, 0},
	OP_XORI:    {CLASS_I, FORMAT_TSI, 0x0e, 0},
	OP_SLTI:    {CLASS_I, FORMAT_TSI, 0x0a, 0},
	OP_SLTIU:   {CLASS_I, FORMAT_TSI, 0x0b, 0},
	OP_BEQ:     {CLASS_I, FORMAT_STI, 0x04, 0},
	OP_BNE:     {CLASS_I, FORMAT_STI, 0x05, 0},
	OP_LB:      {CLASS_I, FORMAT_TIS, 0x20, 0},
	OP_LBU:     {CLASS_I, FORMAT_TIS, 0x24, 0},
	OP_LH:      {CLASS_I, FORMAT_TIS, 0x21, 0},
	OP_LHU:     {CLASS_I, FORMAT_TIS, 0x25, 0},
	OP_LW:      {CLASS_I, FORMAT_TIS, 0x23, 0},
	OP_SB:      {CLASS_I, FORMAT_TIS, 0x28, 0},
	OP_SH:      {CLASS_I, FORMAT_TIS, 0x29, 0},
	OP_SW:      {CLASS_I, FORMAT_TIS, 0x2b, 0},
	OP_LUI:     {CLASS_I, FORMAT_TI, 0x0f, 0},
	OP_J:       {CLASS_J, FORMAT_J, 0x02, 0},
	OP_JAL:     {CLASS_J, FORMAT_J, 0x03, 0},
	OP_SYSCALL: {CLASS_SYSCALL, FORMAT_NONE, 0x00, 0x0c},
}

// opMap maps mnemonics to real opcodes.
var opMap = func() map[string]Op {
	ops := make(map[string]Op, len(opTable))
	for n := range opTable {
		ops[Op(n).String()] = Op(n)
	}
	return ops
}()

// Classify returns the class of a mnemonic. The ambiguous "div" is
// resolved by operand count: three operands is the pseudo form.
func Classify(mnemonic string, operands int) (class Class, ok bool) {
	if mnemonic == "div" && operands == 3 {
		return CLASS_PSEUDO, true
	}

	op, ok := opMap[mnemonic]
	if ok {
		return op.Class(), true
	}

	_, ok = pseudoArity[mnemonic]
	if ok {
		return CLASS_PSEUDO, true
	}

	return
}

// LookupOp returns the real opcode for a mnemonic.
func LookupOp(mnemonic string) (op Op, ok bool) {
	op, ok = opMap[mnemonic]
	return
}

// Valid returns true if op is a known opcode.
func (op Op) Valid() bool {
	return op >= 0 && int(op) < len(opTable)
}

// Class returns the instruction class of the opcode.
func (op Op) Class() Class {
	return opTable[op].class
}

// Format returns the operand layout of the opcode.
func (op Op) Format() Format {
	return opTable[op].format
}

// SignedImmediate returns true if the opcode sign extends its immediate.
// The logical immediates and lui zero extend.
func (op Op) SignedImmediate() bool {
	switch op {
	case OP_ANDI, OP_ORI, OP_XORI, OP_LUI:
		return false
	}
	return op.Format().Immediate() && op.Class() == CLASS_I
}
