package cpu

import (
	"fmt"
)

// Operand is an immediate operand: either a literal value or, until
// relocation, the name of a label.
type Operand struct {
	Value int32  // Literal value.
	Label string // Label name, if the operand is relocatable.
}

func (opnd Operand) String() string {
	if len(opnd.Label) > 0 {
		return opnd.Label
	}
	return fmt.Sprintf("%d", opnd.Value)
}

// Source is an unresolved instruction, as produced by the encoder.
type Source struct {
	Op      Op
	Rs      uint8
	Rt      uint8
	Rd      uint8
	Shamt   uint8
	Operand Operand // Immediate operand.
	Upper   bool    // Operand is replaced by its upper 16 bits when resolved.
	Lower   bool    // Operand is replaced by its lower 16 bits when resolved.
	Label   string  // Label defined on this instruction, if any.
	LineNo  int     // Source line number.
	Text    string  // Source line text.
}

// Relocate returns true if the operand refers to a label.
func (src Source) Relocate() bool {
	return len(src.Operand.Label) > 0
}

// Instruction is a resolved instruction.
type Instruction struct {
	Op     Op
	Rs     uint8
	Rt     uint8
	Rd     uint8
	Shamt  uint8
	Imm    int32  // Resolved immediate.
	Symbol string // Unresolved label, left for an external definition.
	LineNo int    // Source line number.
	Text   string // Source line text.
}

// Source returns the instruction as an already resolved Source.
func (ins Instruction) Source() (src Source) {
	src = Source{
		Op:      ins.Op,
		Rs:      ins.Rs,
		Rt:      ins.Rt,
		Rd:      ins.Rd,
		Shamt:   ins.Shamt,
		Operand: Operand{Value: ins.Imm, Label: ins.Symbol},
		LineNo:  ins.LineNo,
		Text:    ins.Text,
	}
	return
}

// immediate formats the immediate operand.
func (ins Instruction) immediate() string {
	if len(ins.Symbol) > 0 {
		return ins.Symbol
	}
	if ins.Op.SignedImmediate() {
		return fmt.Sprintf("%d", ins.Imm)
	}
	return fmt.Sprintf("%#x", uint32(ins.Imm))
}

// String formats the instruction in assembly syntax.
func (ins Instruction) String() string {
	if !ins.Op.Valid() {
		return fmt.Sprintf("Op(%d)", int(ins.Op))
	}

	op := ins.Op.String()
	rs := RegisterName(ins.Rs)
	rt := RegisterName(ins.Rt)
	rd := RegisterName(ins.Rd)

	switch ins.Op.Format() {
	case FORMAT_DST:
		return fmt.Sprintf("%v %v, %v, %v", op, rd, rs, rt)
	case FORMAT_DTH:
		return fmt.Sprintf("%v %v, %v, %d", op, rd, rt, ins.Shamt)
	case FORMAT_DTS:
		return fmt.Sprintf("%v %v, %v, %v", op, rd, rt, rs)
	case FORMAT_ST:
		return fmt.Sprintf("%v %v, %v", op, rs, rt)
	case FORMAT_D:
		return fmt.Sprintf("%v %v", op, rd)
	case FORMAT_S:
		return fmt.Sprintf("%v %v", op, rs)
	case FORMAT_TSI:
		return fmt.Sprintf("%v %v, %v, %v", op, rt, rs, ins.immediate())
	case FORMAT_STI:
		return fmt.Sprintf("%v %v, %v, %v", op, rs, rt, ins.immediate())
	case FORMAT_TIS:
		return fmt.Sprintf("%v %v, %v(%v)", op, rt, ins.immediate(), rs)
	case FORMAT_TI:
		return fmt.Sprintf("%v %v, %v", op, rt, ins.immediate())
	case FORMAT_J:
		return fmt.Sprintf("%v %v", op, ins.immediate())
	}

	return op
}

// Encode returns the 32-bit machine word of the instruction. Immediates
// are truncated to the width of their field.
func (ins Instruction) Encode() (word uint32) {
	if !ins.Op.Valid() {
		return
	}

	info := opTable[ins.Op]
	word = info.code << 26

	switch info.class {
	case CLASS_R, CLASS_SYSCALL:
		word |= uint32(ins.Rs&0x1f) << 21
		word |= uint32(ins.Rt&0x1f) << 16
		word |= uint32(ins.Rd&0x1f) << 11
		word |= uint32(ins.Shamt&0x1f) << 6
		word |= info.funct
	case CLASS_I:
		word |= uint32(ins.Rs&0x1f) << 21
		word |= uint32(ins.Rt&0x1f) << 16
		word |= uint32(ins.Imm) & 0xffff
	case CLASS_J:
		word |= uint32(ins.Imm) & 0x3ff_ffff
	}

	return
}

// Decode returns the instruction for a 32-bit machine word. Immediates
// are sign or zero extended per opcode.
func Decode(word uint32) (ins Instruction, err error) {
	code := word >> 26
	funct := word & 0x3f

	found := false
	for n, info := range opTable {
		if info.code != code {
			continue
		}
		if code == 0 && info.funct != funct {
			continue
		}
		ins.Op = Op(n)
		found = true
		break
	}

	if !found {
		err = ErrOpcodeUnknown
		return
	}

	switch ins.Op.Class() {
	case CLASS_R, CLASS_SYSCALL:
		ins.Rs = uint8((word >> 21) & 0x1f)
		ins.Rt = uint8((word >> 16) & 0x1f)
		ins.Rd = uint8((word >> 11) & 0x1f)
		ins.Shamt = uint8((word >> 6) & 0x1f)
	case CLASS_I:
		ins.Rs = uint8((word >> 21) & 0x1f)
		ins.Rt = uint8((word >> 16) & 0x1f)
		if ins.Op.SignedImmediate() {
			ins.Imm = int32(int16(word & 0xffff))
		} else {
			ins.Imm = int32(word & 0xffff)
		}
	case CLASS_J:
		ins.Imm = int32(word & 0x3ff_ffff)
	}

	return
}
