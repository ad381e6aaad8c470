package cpu

import (
	"iter"
	"log"
	"math"
	"strconv"
	"strings"
)

// spaceLimit is the largest '.space' block, in cells.
const spaceLimit = 1 << 24

// DataKind is the kind of a data directive value.
type DataKind int

//go:generate go tool stringer -linecomment -type=DataKind
const (
	DATA_WORD   = DataKind(0) // word
	DATA_HALF   = DataKind(1) // half
	DATA_BYTE   = DataKind(2) // byte
	DATA_FLOAT  = DataKind(3) // float
	DATA_DOUBLE = DataKind(4) // double
	DATA_ASCII  = DataKind(5) // ascii
	DATA_ASCIIZ = DataKind(6) // asciiz
	DATA_SPACE  = DataKind(7) // space
)

var dataKindMap = func() map[string]DataKind {
	kinds := map[string]DataKind{}
	for kind := DATA_WORD; kind <= DATA_SPACE; kind++ {
		kinds[kind.String()] = kind
	}
	return kinds
}()

// DataValue is one value of the data section.
type DataValue struct {
	Kind   DataKind
	Label  string   // Label bound to the value, if any.
	Offset uint32   // Byte offset of the value in the data section.
	Cells  []uint32 // Memory cells of the value.
	LineNo int      // Source line number.
}

// Data is the data section under construction.
type Data struct {
	Verbose bool
	Equates Equates // Equates usable as values.

	Values  []DataValue
	Label   map[string]uint32 // Byte offsets of data labels.
	Globals []string
	Externs []string

	cells int
}

// Reset empties the data section.
func (data *Data) Reset() {
	data.Values = data.Values[:0]
	data.Label = map[string]uint32{}
	data.Globals = data.Globals[:0]
	data.Externs = data.Externs[:0]
	data.cells = 0
}

// Offset returns the byte offset of the next value.
func (data *Data) Offset() uint32 {
	return uint32(data.cells) * 4
}

// Len returns the number of cells in the data section.
func (data *Data) Len() int {
	return data.cells
}

// Bind binds a label to the next value. A rebound label moves, and
// ErrLabelDuplicate is returned as a warning.
func (data *Data) Bind(label string) (err error) {
	if data.Label == nil {
		data.Label = map[string]uint32{}
	}

	_, ok := data.Label[label]
	if ok {
		err = ErrLabelDuplicate
	}

	data.Label[label] = data.Offset()
	return
}

// Symbols returns the data labels, with their offsets shifted to base.
func (data *Data) Symbols(base uint32) iter.Seq2[string, uint32] {
	return func(yield func(label string, addr uint32) bool) {
		for label, offset := range data.Label {
			if !yield(label, base+offset) {
				return
			}
		}
	}
}

// Cells returns every cell of the data section, in order.
func (data *Data) Cells() (cells []uint32) {
	cells = make([]uint32, 0, data.cells)
	for _, value := range data.Values {
		cells = append(cells, value.Cells...)
	}
	return
}

// Directive processes one data directive line. A duplicated label is
// reported as ErrLabelDuplicate after the directive is processed.
func (data *Data) Directive(line Line) (err error) {
	name, params, _ := strings.Cut(line.Command, " ")
	name, ok := strings.CutPrefix(name, ".")
	if !ok {
		err = ErrDirectiveInvalid
		return
	}
	params = strings.TrimSpace(params)

	switch name {
	case "globl":
		if !IsIdentifier(params) {
			err = ErrDirectiveSyntax
			return
		}
		data.Globals = append(data.Globals, params)
		return
	case "extern":
		// '.extern NAME [SIZE]'
		fields := strings.Fields(params)
		if len(fields) == 0 || !IsIdentifier(fields[0]) {
			err = ErrDirectiveSyntax
			return
		}
		data.Externs = append(data.Externs, fields[0])
		return
	}

	kind, ok := dataKindMap[name]
	if !ok {
		err = ErrDirectiveInvalid
		return
	}

	var cells []uint32
	switch kind {
	case DATA_WORD, DATA_HALF, DATA_BYTE:
		cells, err = data.integers(kind, params)
	case DATA_FLOAT, DATA_DOUBLE:
		cells, err = data.floats(params)
	case DATA_ASCII, DATA_ASCIIZ:
		cells, err = data.ascii(params, kind == DATA_ASCIIZ)
	case DATA_SPACE:
		cells, err = data.space(params)
	}
	if err != nil {
		return
	}

	if len(line.Label) > 0 {
		err = data.Bind(line.Label)
	}

	if data.Verbose {
		log.Printf("data: %#x %v %v", data.Offset(), kind, len(cells))
	}

	switch kind {
	case DATA_WORD, DATA_HALF, DATA_BYTE, DATA_FLOAT, DATA_DOUBLE:
		// Each list element is its own value; only the first is labelled.
		for n, cell := range cells {
			value := DataValue{Kind: kind, Offset: data.Offset(), Cells: []uint32{cell}, LineNo: line.LineNo}
			if n == 0 {
				value.Label = line.Label
			}
			data.Values = append(data.Values, value)
			data.cells++
		}
	default:
		value := DataValue{Kind: kind, Label: line.Label, Offset: data.Offset(), Cells: cells, LineNo: line.LineNo}
		data.Values = append(data.Values, value)
		data.cells += len(cells)
	}

	return
}

// integers parses a list of integers, masked to the width of kind.
func (data *Data) integers(kind DataKind, params string) (cells []uint32, err error) {
	words := SplitOperands(params)
	if len(words) == 0 {
		err = ErrDirectiveSyntax
		return
	}

	mask := uint32(0xffff_ffff)
	switch kind {
	case DATA_HALF:
		mask = 0xffff
	case DATA_BYTE:
		mask = 0xff
	}

	for _, word := range words {
		var value int64
		value, err = data.Equates.Value(word)
		if err != nil {
			return
		}
		cells = append(cells, uint32(value)&mask)
	}

	return
}

// floats parses a list of numbers, stored as IEEE-754 single precision.
func (data *Data) floats(params string) (cells []uint32, err error) {
	words := SplitOperands(params)
	if len(words) == 0 {
		err = ErrDirectiveSyntax
		return
	}

	for _, word := range words {
		word = data.Equates.Expand(word)
		value, perr := strconv.ParseFloat(word, 64)
		if perr != nil {
			err = ErrParseNumber(word)
			return
		}
		cells = append(cells, math.Float32bits(float32(value)))
	}

	return
}

// ascii parses a quoted string, one cell per byte.
func (data *Data) ascii(params string, terminate bool) (cells []uint32, err error) {
	text, err := strconv.Unquote(params)
	if err != nil || !strings.HasPrefix(params, `"`) {
		err = ErrStringSyntax
		return
	}

	for n := range len(text) {
		cells = append(cells, uint32(text[n]))
	}

	if terminate {
		cells = append(cells, 0)
	}

	return
}

// space parses a zero filled block size.
func (data *Data) space(params string) (cells []uint32, err error) {
	size, err := data.Equates.Value(params)
	if err != nil {
		return
	}

	if size < 0 || size > spaceLimit {
		err = ErrDirectiveSyntax
		return
	}

	cells = make([]uint32, size)
	return
}
