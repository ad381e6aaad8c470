package cpu

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Line is one normalized line of assembly source.
type Line struct {
	LineNo  int    // Source line number, starting at 1.
	Label   string // Label defined by the line, if any.
	Command string // Directive or instruction text, if any.
}

var reLabel = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.]*):\s*(.*)$`)

// normalize strips a '#' comment and collapses white space, leaving
// quoted strings intact.
func normalize(text string) string {
	var out strings.Builder

	quote := rune(0)
	escaped := false
	space := false
	for _, r := range text {
		if quote != 0 {
			out.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		}

		if r == '#' {
			break
		}

		if r == ' ' || r == '\t' || r == '\r' || r == '\v' || r == '\f' {
			space = true
			continue
		}

		if space && out.Len() > 0 {
			out.WriteByte(' ')
		}
		space = false

		if r == '"' || r == '\'' {
			quote = r
		}
		out.WriteRune(r)
	}

	return out.String()
}

// SplitLine normalizes one line of source text into a Line. The bool is
// false if nothing remains after normalization.
func SplitLine(lineno int, text string) (line Line, ok bool) {
	text = normalize(text)
	if len(text) == 0 {
		return
	}

	line.LineNo = lineno
	match := reLabel.FindStringSubmatch(text)
	if match != nil {
		line.Label = match[1]
		line.Command = match[2]
	} else {
		line.Command = text
	}

	ok = true
	return
}

// Tokenize reads assembly source, returning its non-empty lines.
func Tokenize(input io.Reader) (lines []Line, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		line, ok := SplitLine(lineno, scanner.Text())
		if ok {
			lines = append(lines, line)
		}
	}

	err = scanner.Err()
	return
}
