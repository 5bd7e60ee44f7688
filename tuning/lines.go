package tuning

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ParseError is returned when a .scl or .kbm file is malformed. Line is the
// 1-based line number of the offending line, or 0 if the problem is not tied
// to a single line (e.g. the file ended too early).
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func parseErrorf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

type line struct {
	num  int
	text string
}

// readLines returns all non-comment lines of a Scala file. Lines that are not
// valid UTF-8 are assumed to be ISO 8859-1, which is what most files in the
// Scala archive use for their descriptions.
func readLines(r io.Reader) ([]line, error) {
	var ret []line
	scanner := bufio.NewScanner(r)
	latin1 := charmap.ISO8859_1.NewDecoder()
	for num := 1; scanner.Scan(); num++ {
		b := scanner.Bytes()
		if !utf8.Valid(b) {
			decoded, err := latin1.Bytes(b)
			if err != nil {
				return nil, parseErrorf(num, "cannot decode line: %v", err)
			}
			b = decoded
		}
		text := strings.TrimRight(string(b), "\r\n")
		if strings.HasPrefix(text, "!") {
			continue
		}
		ret = append(ret, line{num: num, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading failed: %w", err)
	}
	return ret, nil
}

// firstField returns the first whitespace separated field of a line; Scala
// files allow arbitrary text after the value.
func firstField(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
