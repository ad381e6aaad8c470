// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"log"
	"regexp"
	"strings"
)

// Encoder parses instruction lines into unresolved instructions.
type Encoder struct {
	Verbose bool    // If set, logs pseudo instruction lowering.
	Equates Equates // Equates usable as operands.
}

// lowered is one real instruction of a pseudo instruction's lowering.
type lowered struct {
	mnemonic string
	operands []string
	upper    bool
	lower    bool
}

// pseudoArity is the operand count of each pseudo instruction.
var pseudoArity = map[string]int{
	"nop":   0,
	"move":  2,
	"clear": 1,
	"not":   2,
	"la":    2,
	"li":    2,
	"b":     1,
	"bal":   1,
	"bgt":   3,
	"blt":   3,
	"bge":   3,
	"ble":   3,
	"bgtu":  3,
	"bgtz":  2,
	"beqz":  2,
	"mul":   3,
	"div":   3,
	"rem":   3,
}

// SplitOperands splits an operand list on commas that are outside of
// quotes and parentheses.
func SplitOperands(text string) (operands []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	depth := 0
	quote := rune(0)
	escaped := false
	start := 0
	for n, r := range text {
		switch {
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			operands = append(operands, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	operands = append(operands, strings.TrimSpace(text[start:]))

	return
}

// lower rewrites a pseudo instruction as real instructions.
func (enc *Encoder) lower(mnemonic string, ops []string) (seq []lowered, err error) {
	arity, ok := pseudoArity[mnemonic]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	if len(ops) != arity {
		err = ErrOperandCount
		return
	}

	switch mnemonic {
	case "nop":
		seq = []lowered{{mnemonic: "sll", operands: []string{"$zero", "$zero", "0"}}}
	case "move":
		seq = []lowered{{mnemonic: "add", operands: []string{ops[0], ops[1], "$zero"}}}
	case "clear":
		seq = []lowered{{mnemonic: "add", operands: []string{ops[0], "$zero", "$zero"}}}
	case "not":
		seq = []lowered{{mnemonic: "nor", operands: []string{ops[0], ops[1], "$zero"}}}
	case "la", "li":
		seq = []lowered{
			{mnemonic: "lui", operands: []string{ops[0], ops[1]}, upper: true},
			{mnemonic: "ori", operands: []string{ops[0], ops[0], ops[1]}, lower: true},
		}
	case "b":
		seq = []lowered{{mnemonic: "beq", operands: []string{"$zero", "$zero", ops[0]}}}
	case "bal":
		seq = []lowered{{mnemonic: "jal", operands: []string{ops[0]}}}
	case "bgt":
		seq = []lowered{
			{mnemonic: "slt", operands: []string{"$at", ops[1], ops[0]}},
			{mnemonic: "bne", operands: []string{"$at", "$zero", ops[2]}},
		}
	case "ble":
		seq = []lowered{
			{mnemonic: "slt", operands: []string{"$at", ops[1], ops[0]}},
			{mnemonic: "beq", operands: []string{"$at", "$zero", ops[2]}},
		}
	case "blt":
		seq = []lowered{
			{mnemonic: "slt", operands: []string{"$at", ops[0], ops[1]}},
			{mnemonic: "bne", operands: []string{"$at", "$zero", ops[2]}},
		}
	case "bge":
		seq = []lowered{
			{mnemonic: "slt", operands: []string{"$at", ops[0], ops[1]}},
			{mnemonic: "beq", operands: []string{"$at", "$zero", ops[2]}},
		}
	case "bgtu":
		seq = []lowered{
			{mnemonic: "sltu", operands: []string{"$at", ops[1], ops[0]}},
			{mnemonic: "bne", operands: []string{"$at", "$zero", ops[2]}},
		}
	case "bgtz":
		seq = []lowered{
			{mnemonic: "slt", operands: []string{"$at", "$zero", ops[0]}},
			{mnemonic: "bne", operands: []string{"$at", "$zero", ops[1]}},
		}
	case "beqz":
		seq = []lowered{{mnemonic: "beq", operands: []string{ops[0], "$zero", ops[1]}}}
	case "mul":
		seq = []lowered{
			{mnemonic: "mult", operands: []string{ops[1], ops[2]}},
			{mnemonic: "mflo", operands: []string{ops[0]}},
		}
	case "div":
		seq = []lowered{
			{mnemonic: "div", operands: []string{ops[1], ops[2]}},
			{mnemonic: "mflo", operands: []string{ops[0]}},
		}
	case "rem":
		seq = []lowered{
			{mnemonic: "div", operands: []string{ops[1], ops[2]}},
			{mnemonic: "mfhi", operands: []string{ops[0]}},
		}
	}

	return
}

// Encode parses one instruction line. A pseudo instruction yields all of
// the real instructions it lowers to; the line's label is attached to the
// first of them.
func (enc *Encoder) Encode(line Line) (srcs []Source, err error) {
	mnemonic, rest, _ := strings.Cut(line.Command, " ")
	mnemonic = strings.ToLower(mnemonic)
	operands := SplitOperands(rest)

	class, ok := Classify(mnemonic, len(operands))
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	var seq []lowered
	if class == CLASS_PSEUDO {
		seq, err = enc.lower(mnemonic, operands)
		if err != nil {
			return
		}
		if enc.Verbose {
			log.Printf("%v: %v => %v", line.LineNo, line.Command, seq)
		}
	} else {
		seq = []lowered{{mnemonic: mnemonic, operands: operands}}
	}

	for n, lo := range seq {
		op, _ := LookupOp(lo.mnemonic)
		var src Source
		src, err = enc.parse(op, lo.operands, lo.upper || lo.lower)
		if err != nil {
			srcs = nil
			return
		}
		src.Upper = lo.upper
		src.Lower = lo.lower
		src.LineNo = line.LineNo
		src.Text = line.Command
		if n == 0 {
			src.Label = line.Label
		}
		srcs = append(srcs, src)
	}

	return
}

// register parses a register operand, which may be an equate.
func (enc *Encoder) register(word string) (reg uint8, err error) {
	return ParseRegister(enc.Equates.Expand(word))
}

// operand parses an immediate operand. Identifiers that are not equates
// are label references.
func (enc *Encoder) operand(word string) (opnd Operand, err error) {
	word = enc.Equates.Expand(word)
	if len(word) == 0 {
		err = ErrOperandSyntax
		return
	}

	if IsIdentifier(word) {
		opnd.Label = word
		return
	}

	value, err := enc.Equates.Value(word)
	if err != nil {
		return
	}

	opnd.Value = int32(value)
	return
}

var reMemory = regexp.MustCompile(`^(.*)\(\s*(\$[A-Za-z0-9]+)\s*\)$`)

// memory parses a 'C(rs)', '(rs)', or 'C' memory operand.
func (enc *Encoder) memory(word string) (opnd Operand, rs uint8, err error) {
	match := reMemory.FindStringSubmatch(word)
	if match == nil {
		opnd, err = enc.operand(word)
		return
	}

	rs, err = enc.register(match[2])
	if err != nil {
		return
	}

	offset := strings.TrimSpace(match[1])
	if len(offset) == 0 {
		return
	}

	opnd, err = enc.operand(offset)
	return
}

// checkRange verifies a literal immediate fits in the opcode's field.
func checkRange(op Op, opnd Operand) (err error) {
	if len(opnd.Label) > 0 {
		return
	}

	value := int64(opnd.Value)
	switch {
	case op.Format() == FORMAT_J:
		// J literals are word addresses, treated as unsigned.
		if uint32(opnd.Value) > 0x3ff_ffff {
			err = ErrImmediateRange
		}
	case op.SignedImmediate():
		if value < -0x8000 || value > 0x7fff {
			err = ErrImmediateRange
		}
	default:
		if value < -0x8000 || value > 0xffff {
			err = ErrImmediateRange
		}
	}

	return
}

// parse extracts the operands of a real instruction. Wide operands are
// halves of a 32-bit value, and are not range checked.
func (enc *Encoder) parse(op Op, words []string, wide bool) (src Source, err error) {
	format := op.Format()
	if len(words) != format.Arity() {
		err = ErrOperandCount
		return
	}

	src.Op = op

	var fields []*uint8
	switch format {
	case FORMAT_NONE:
		return
	case FORMAT_DST:
		fields = []*uint8{&src.Rd, &src.Rs, &src.Rt}
	case FORMAT_DTH:
		fields = []*uint8{&src.Rd, &src.Rt}
	case FORMAT_DTS:
		fields = []*uint8{&src.Rd, &src.Rt, &src.Rs}
	case FORMAT_ST:
		fields = []*uint8{&src.Rs, &src.Rt}
	case FORMAT_D:
		fields = []*uint8{&src.Rd}
	case FORMAT_S:
		fields = []*uint8{&src.Rs}
	case FORMAT_TSI:
		fields = []*uint8{&src.Rt, &src.Rs}
	case FORMAT_STI:
		fields = []*uint8{&src.Rs, &src.Rt}
	case FORMAT_TIS, FORMAT_TI:
		fields = []*uint8{&src.Rt}
	}

	for n, field := range fields {
		*field, err = enc.register(words[n])
		if err != nil {
			return
		}
	}

	last := words[len(words)-1]
	switch format {
	case FORMAT_DTH:
		var value int64
		value, err = enc.Equates.Value(last)
		if err != nil {
			return
		}
		if value < 0 || value > 31 {
			err = ErrShiftRange
			return
		}
		src.Shamt = uint8(value)
	case FORMAT_TSI, FORMAT_STI, FORMAT_TI, FORMAT_J:
		src.Operand, err = enc.operand(last)
	case FORMAT_TIS:
		src.Operand, src.Rs, err = enc.memory(last)
	}
	if err != nil {
		return
	}

	if !wide {
		err = checkRange(op, src.Operand)
	}

	return
}
