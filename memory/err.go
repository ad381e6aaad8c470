package memory

import (
	"errors"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	ErrAddressUnmapped = errors.New(f("address unmapped"))
	ErrAddressAlign    = errors.New(f("address misaligned"))
	ErrHeapExhausted   = errors.New(f("heap exhausted"))
)

// ErrFault locates a failed memory access.
type ErrFault struct {
	Addr uint32
	Err  error
}

func (err *ErrFault) Error() string {
	return f("memory %#08x %v", err.Addr, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
