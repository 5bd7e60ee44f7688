package scalespace

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Raw returns the table as 128 little-endian float64 values.
func (t *FrequencyTable) Raw() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, t[:]); err != nil {
		return nil, fmt.Errorf("could not binary write frequency table: %v", err)
	}
	return buf.Bytes(), nil
}

// CSV returns the table as "note,frequency" lines.
func (t *FrequencyTable) CSV() []byte {
	var b strings.Builder
	b.WriteString("note,frequency\n")
	for n, f := range t {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
