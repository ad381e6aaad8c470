package io

import (
	"errors"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	// Console errors
	ErrNoInput = errors.New(f("no console input"))
)

// ErrParseInput reports console input that is not a number.
type ErrParseInput string

func (err ErrParseInput) Error() string {
	return f("input '%v' is not a number", string(err))
}
