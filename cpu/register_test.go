package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegister(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word string
		reg  uint8
	}){
		{"$0", 0},
		{"$31", 31},
		{"$zero", 0},
		{"$at", 1},
		{"$v1", 3},
		{"$a3", 7},
		{"$t0", 8},
		{"$t7", 15},
		{"$s0", 16},
		{"$s7", 23},
		{"$t8", 24},
		{"$t9", 25},
		{"$k1", 27},
		{"$gp", 28},
		{"$sp", 29},
		{"$fp", 30},
		{"$ra", 31},
	}

	for _, entry := range table {
		reg, err := ParseRegister(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.reg, reg, entry.word)
	}

	for _, word := range []string{"$32", "$v2", "$t10", "$s8", "$k2", "t0", "$", "$+1", "$1a", "zero"} {
		_, err := ParseRegister(word)
		assert.ErrorIs(err, ErrRegisterInvalid, word)
	}
}

func TestRegisterName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("$zero", RegisterName(0))
	assert.Equal("$t0", RegisterName(8))
	assert.Equal("$t9", RegisterName(25))
	assert.Equal("$ra", RegisterName(31))
	assert.Equal("$?", RegisterName(32))

	for n := range uint8(32) {
		reg, err := ParseRegister(RegisterName(n))
		assert.NoError(err)
		assert.Equal(n, reg)
	}
}
