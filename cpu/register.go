package cpu

import (
	"strconv"
	"strings"
)

// General purpose register numbers.
const (
	REG_ZERO = 0
	REG_AT   = 1
	REG_V0   = 2
	REG_V1   = 3
	REG_A0   = 4
	REG_A1   = 5
	REG_A2   = 6
	REG_A3   = 7
	REG_T0   = 8
	REG_S0   = 16
	REG_T8   = 24
	REG_K0   = 26
	REG_GP   = 28
	REG_SP   = 29
	REG_FP   = 30
	REG_RA   = 31
)

// registerMap maps ABI register names to register numbers.
var registerMap = map[string]uint8{
	"zero": 0,
	"at":   1,
	"v0":   2,
	"v1":   3,
	"a0":   4,
	"a1":   5,
	"a2":   6,
	"a3":   7,
	"t0":   8,
	"t1":   9,
	"t2":   10,
	"t3":   11,
	"t4":   12,
	"t5":   13,
	"t6":   14,
	"t7":   15,
	"s0":   16,
	"s1":   17,
	"s2":   18,
	"s3":   19,
	"s4":   20,
	"s5":   21,
	"s6":   22,
	"s7":   23,
	"t8":   24,
	"t9":   25,
	"k0":   26,
	"k1":   27,
	"gp":   28,
	"sp":   29,
	"fp":   30,
	"ra":   31,
}

// registerName is the ABI name of each register.
var registerName = func() (names [32]string) {
	for name, reg := range registerMap {
		names[reg] = name
	}
	return
}()

// RegisterName returns the ABI name of a register, with its '$' prefix.
func RegisterName(reg uint8) string {
	if int(reg) >= len(registerName) {
		return "$?"
	}
	return "$" + registerName[reg]
}

// ParseRegister parses a '$N' or '$name' register operand.
func ParseRegister(word string) (reg uint8, err error) {
	name, ok := strings.CutPrefix(word, "$")
	if !ok || len(name) == 0 {
		err = ErrRegister(word)
		return
	}

	reg, ok = registerMap[name]
	if ok {
		return
	}

	if name[0] < '0' || name[0] > '9' {
		err = ErrRegister(word)
		return
	}

	value, perr := strconv.ParseUint(name, 10, 8)
	if perr != nil || value > 31 {
		err = ErrRegister(word)
		return
	}

	reg = uint8(value)
	return
}
