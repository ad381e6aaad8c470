// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// equateDepth limits equates defined in terms of other equates.
const equateDepth = 16

// evalSteps bounds the work of a constant expression.
const evalSteps = 1 << 16

// Equates maps constant names to their textual values.
type Equates map[string]string

var reIdentifier = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// IsIdentifier returns true if word can name a label or an equate.
func IsIdentifier(word string) bool {
	return reIdentifier.MatchString(word)
}

// Expand replaces a word that names an equate with the equate's value.
func (eq Equates) Expand(word string) string {
	for range equateDepth {
		value, ok := eq[word]
		if !ok {
			break
		}
		word = value
	}
	return word
}

// Value returns the integer value of a word: an equate, a '$(expr)'
// constant expression, a character literal, or an integer literal. The
// result is in the range of an int32 or a uint32.
func (eq Equates) Value(word string) (value int64, err error) {
	word = eq.Expand(word)

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		value, err = eq.Eval(word[2 : len(word)-1])
		if err != nil {
			return
		}
		if value < math.MinInt32 || value > math.MaxUint32 {
			err = ErrParseNumber(word)
		}
		return
	}

	return literal(word)
}

// literal returns the value of a character or integer literal.
func literal(word string) (value int64, err error) {
	if strings.HasPrefix(word, "'") {
		var text string
		text, err = strconv.Unquote(word)
		if err != nil || len(text) == 0 {
			err = ErrParseCharacter(word)
			return
		}
		value = int64([]rune(text)[0])
		return
	}

	value, err = strconv.ParseInt(word, literalBase(word), 64)
	if err != nil || value < math.MinInt32 || value > math.MaxUint32 {
		value = 0
		err = ErrParseNumber(word)
		return
	}

	return
}

// literalBase returns the base of an integer literal. Only a 0x, 0o or 0b
// prefix changes the base, so a leading zero is still decimal.
func literalBase(word string) int {
	digits := strings.TrimLeft(word, "+-")
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return 0
		}
	}
	return 10
}

// Eval evaluates a constant expression, with every integer valued equate
// predeclared.
func (eq Equates) Eval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	thread.SetMaxExecutionSteps(evalSteps)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range eq {
		if !IsIdentifier(key) {
			continue
		}
		// Expression equates, and aliases of them, are not predeclared.
		v64, verr := literal(eq.Expand(str))
		if verr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}
