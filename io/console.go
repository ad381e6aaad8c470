// Package io provides the console used by the simulator's system calls.
//
// The console reads from a caller supplied input stream and writes to a
// caller supplied output stream. Neither is required: without input every
// read reports ErrNoInput, and without output writes are discarded.
package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Terminal is the interface the CPU uses for system call I/O.
type Terminal interface {
	// ReadLine reads one line of input, without its line terminator.
	ReadLine() (line string, err error)
	// ReadInt reads one line of input as a decimal integer.
	ReadInt() (value int32, err error)
	// ReadFloat reads one line of input as a floating point number.
	ReadFloat() (value float64, err error)
	// ReadChar reads a single byte of input.
	ReadChar() (char byte, err error)
	// WriteString writes text to the output.
	WriteString(text string) (err error)
	// WriteInt writes a signed decimal integer to the output.
	WriteInt(value int32) (err error)
	// WriteFloat writes a floating point number of the given bit size.
	WriteFloat(value float64, bitSize int) (err error)
}

// Console provides line oriented I/O over an io.Reader and io.Writer.
type Console struct {
	Input  io.Reader
	Output io.Writer

	source io.Reader
	reader *bufio.Reader
}

var _ Terminal = (*Console)(nil)

// Rewind drops any buffered input.
func (con *Console) Rewind() {
	con.source = nil
	con.reader = nil
}

// input returns the buffered reader for the current Input.
func (con *Console) input() (reader *bufio.Reader, err error) {
	if con.Input == nil {
		err = ErrNoInput
		return
	}

	if con.reader == nil || con.source != con.Input {
		con.source = con.Input
		con.reader = bufio.NewReader(con.Input)
	}

	reader = con.reader
	return
}

// ReadLine reads up to the next newline. A final unterminated line is
// returned without error; end of input after it is io.EOF.
func (con *Console) ReadLine() (line string, err error) {
	reader, err := con.input()
	if err != nil {
		return
	}

	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil
	}
	line = strings.TrimRight(line, "\r\n")
	return
}

// ReadInt reads a line and parses it as an integer. Prefixes accepted by
// strconv.ParseInt with base 0 are honored.
func (con *Console) ReadInt() (value int32, err error) {
	line, err := con.ReadLine()
	if err != nil {
		return
	}

	text := strings.TrimSpace(line)
	v64, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		err = ErrParseInput(text)
		return
	}

	value = int32(v64)
	return
}

// ReadFloat reads a line and parses it as a floating point number.
func (con *Console) ReadFloat() (value float64, err error) {
	line, err := con.ReadLine()
	if err != nil {
		return
	}

	text := strings.TrimSpace(line)
	value, err = strconv.ParseFloat(text, 64)
	if err != nil {
		err = ErrParseInput(text)
		return
	}

	return
}

// ReadChar reads one byte.
func (con *Console) ReadChar() (char byte, err error) {
	reader, err := con.input()
	if err != nil {
		return
	}

	return reader.ReadByte()
}

// WriteString writes text to Output.
func (con *Console) WriteString(text string) (err error) {
	if con.Output == nil {
		return
	}

	_, err = io.WriteString(con.Output, text)
	return
}

// WriteInt writes value in decimal.
func (con *Console) WriteInt(value int32) (err error) {
	return con.WriteString(strconv.FormatInt(int64(value), 10))
}

// WriteFloat writes value with the shortest representation for its size.
func (con *Console) WriteFloat(value float64, bitSize int) (err error) {
	return con.WriteString(strconv.FormatFloat(value, 'g', -1, bitSize))
}
