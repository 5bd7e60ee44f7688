package tuning

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// KeyboardMapping assigns scale degrees to MIDI notes, as described by a
// Scala .kbm file. If Count is 0, the mapping is linear: each MIDI note is
// one scale degree above the previous one, with MiddleNote being degree 0.
// Otherwise the Keys pattern repeats every Count notes, each repetition
// shifted by OctaveDegrees scale degrees.
type KeyboardMapping struct {
	Name               string // the path the mapping was read from, empty for built-in mappings
	Count              int
	FirstMidi          int
	LastMidi           int
	MiddleNote         int
	TuningConstantNote int
	TuningFrequency    float64
	OctaveDegrees      int   // 0 means the number of tones in the scale
	Keys               []int // scale degree for each key, Unmapped for keys that are not played
}

const (
	NumNotes = 128
	Unmapped = -1

	// MiddleCFrequency is the frequency of MIDI note 60 when A4 (note 69) is
	// 440 Hz in 12-tone equal temperament.
	MiddleCFrequency = 261.6255653005986
)

// StandardMapping returns the linear mapping with middle C (note 60) tuned to
// MiddleCFrequency.
func StandardMapping() KeyboardMapping {
	return KeyboardMapping{
		FirstMidi:          0,
		LastMidi:           NumNotes - 1,
		MiddleNote:         60,
		TuningConstantNote: 60,
		TuningFrequency:    MiddleCFrequency,
	}
}

// ReadKBMFile reads and parses a Scala .kbm file. The file is closed before
// returning.
func ReadKBMFile(path string) (KeyboardMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return KeyboardMapping{}, fmt.Errorf("cannot open keyboard mapping file: %w", err)
	}
	defer f.Close()
	k, err := ParseKBM(f)
	if err != nil {
		return KeyboardMapping{}, fmt.Errorf("%s: %w", path, err)
	}
	k.Name = path
	return k, nil
}

// ParseKBM parses the contents of a Scala .kbm file.
func ParseKBM(r io.Reader) (KeyboardMapping, error) {
	lines, err := readLines(r)
	if err != nil {
		return KeyboardMapping{}, err
	}
	fields := make([]line, 0, len(lines))
	for _, l := range lines {
		if f := firstField(l.text); f != "" {
			fields = append(fields, line{num: l.num, text: f})
		}
	}
	headerNames := [...]string{
		"map size",
		"first MIDI note",
		"last MIDI note",
		"middle note",
		"reference note",
		"reference frequency",
		"formal octave degree",
	}
	if len(fields) < len(headerNames) {
		lastLine := 0
		if len(fields) > 0 {
			lastLine = fields[len(fields)-1].num
		}
		return KeyboardMapping{}, parseErrorf(lastLine, "%s is missing", headerNames[len(fields)])
	}
	var header [len(headerNames)]int
	for i := range headerNames {
		if i == 5 {
			continue // the frequency is the only non-integer field
		}
		v, err := strconv.Atoi(fields[i].text)
		if err != nil {
			return KeyboardMapping{}, parseErrorf(fields[i].num, "invalid %s %q", headerNames[i], fields[i].text)
		}
		header[i] = v
	}
	freq, err := strconv.ParseFloat(fields[5].text, 64)
	if err != nil || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return KeyboardMapping{}, parseErrorf(fields[5].num, "invalid reference frequency %q", fields[5].text)
	}
	ret := KeyboardMapping{
		Count:              header[0],
		FirstMidi:          header[1],
		LastMidi:           header[2],
		MiddleNote:         header[3],
		TuningConstantNote: header[4],
		TuningFrequency:    freq,
		OctaveDegrees:      header[6],
	}
	if ret.Count < 0 {
		return KeyboardMapping{}, parseErrorf(fields[0].num, "map size cannot be negative, got %d", ret.Count)
	}
	for i, v := range []int{ret.FirstMidi, ret.LastMidi, ret.MiddleNote, ret.TuningConstantNote} {
		if v < 0 || v >= NumNotes {
			return KeyboardMapping{}, parseErrorf(fields[i+1].num, "%s %d is outside MIDI range 0..127", headerNames[i+1], v)
		}
	}
	if ret.FirstMidi > ret.LastMidi {
		return KeyboardMapping{}, parseErrorf(fields[2].num, "last MIDI note %d is below first MIDI note %d", ret.LastMidi, ret.FirstMidi)
	}
	if ret.TuningFrequency <= 0 {
		return KeyboardMapping{}, parseErrorf(fields[5].num, "reference frequency must be positive, got %v", ret.TuningFrequency)
	}
	if ret.OctaveDegrees < 0 {
		return KeyboardMapping{}, parseErrorf(fields[6].num, "formal octave degree cannot be negative, got %d", ret.OctaveDegrees)
	}
	keys := fields[len(headerNames):]
	if len(keys) != ret.Count {
		lastLine := fields[len(fields)-1].num
		return KeyboardMapping{}, parseErrorf(lastLine, "map size is %d, but found %d keys", ret.Count, len(keys))
	}
	ret.Keys = make([]int, len(keys))
	anyMapped := ret.Count == 0
	for i, k := range keys {
		if strings.EqualFold(k.text, "x") {
			ret.Keys[i] = Unmapped
			continue
		}
		v, err := strconv.Atoi(k.text)
		if err != nil || v < 0 {
			return KeyboardMapping{}, parseErrorf(k.num, "invalid key %q", k.text)
		}
		ret.Keys[i] = v
		anyMapped = true
	}
	if !anyMapped {
		return KeyboardMapping{}, parseErrorf(0, "keyboard mapping has no mapped keys")
	}
	return ret, nil
}

// degree returns the scale degree played by a MIDI note, relative to
// MiddleNote. ok is false if the note is not mapped.
func (k KeyboardMapping) degree(note, scaleSize int) (degree int, ok bool) {
	if note < k.FirstMidi || note > k.LastMidi {
		return 0, false
	}
	d := note - k.MiddleNote
	if k.Count == 0 {
		return d, true
	}
	q := floorDiv(d, k.Count)
	key := k.Keys[d-q*k.Count]
	if key == Unmapped {
		return 0, false
	}
	octave := k.OctaveDegrees
	if octave == 0 {
		octave = scaleSize
	}
	return q*octave + key, true
}

func (k KeyboardMapping) copy() KeyboardMapping {
	keys := make([]int, len(k.Keys))
	copy(keys, k.Keys)
	k.Keys = keys
	return k
}
