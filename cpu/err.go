package cpu

import (
	"errors"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcRange          = errors.New(f("pc out of range"))
	ErrPcAlign          = errors.New(f("pc misaligned"))
	ErrHalted           = errors.New(f("cpu halted"))
	ErrSymbolUnresolved = errors.New(f("symbol unresolved"))
	ErrOpcodeUnknown    = errors.New(f("opcode unknown"))
	ErrDivideByZero     = errors.New(f("divide by zero"))
	ErrSyscallUnknown   = errors.New(f("syscall unknown"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".eqv syntax"))
	ErrEquateDuplicate    = errors.New(f(".eqv duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOperandCount       = errors.New(f("operand count"))
	ErrOperandSyntax      = errors.New(f("operand syntax"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrShiftRange         = errors.New(f("shift amount out of range"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrSection            = errors.New(f("outside of .data or .text"))
	ErrSectionDirective   = errors.New(f("directive not allowed in .text"))
	ErrSectionInstruction = errors.New(f("instruction not allowed in .data"))
	ErrStringSyntax       = errors.New(f("string syntax"))
)

// ErrLabelMissing is a reference to a label that is not in the symbol
// table, most likely an external symbol.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing, possible external", string(el))
}

// ErrRegister is an unrecognized register operand.
type ErrRegister string

func (er ErrRegister) Error() string {
	return f("register %v invalid", string(er))
}

func (er ErrRegister) Is(err error) bool {
	return err == ErrRegisterInvalid
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrFetch is a fault fetching the instruction at the PC.
type ErrFetch struct {
	Pc  uint32
	Err error
}

func (err ErrFetch) Error() string {
	return f("%#08x %v", err.Pc, err.Err)
}

func (err ErrFetch) Unwrap() error {
	return err.Err
}

// ErrExecute is a fault while executing an instruction.
type ErrExecute struct {
	Pc          uint32
	Instruction Instruction
	Err         error
}

func (err ErrExecute) Error() string {
	return f("%#08x '%v' %v", err.Pc, err.Instruction, err.Err)
}

func (err ErrExecute) Unwrap() error {
	return err.Err
}
