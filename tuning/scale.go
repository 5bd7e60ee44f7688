package tuning

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type (
	// Scale is a list of tones, each given relative to the first degree of
	// the scale (which is implicit and always 0 cents). The last tone is the
	// period of the scale, i.e. the interval at which the scale repeats.
	Scale struct {
		Name        string // the path the scale was read from, empty for built-in scales
		Description string
		Tones       []Tone
	}

	Tone struct {
		Type        ToneType
		Cents       float64
		Numerator   int64 // only valid for Ratio tones
		Denominator int64 // only valid for Ratio tones
		StringRep   string
	}

	ToneType int
)

const (
	Cents ToneType = iota
	Ratio
)

// StandardScale returns the scale of 12-tone equal temperament.
func StandardScale() Scale {
	tones := make([]Tone, 12)
	for i := range tones {
		c := float64(100 * (i + 1))
		tones[i] = Tone{Type: Cents, Cents: c, StringRep: strconv.FormatFloat(c, 'f', 1, 64)}
	}
	return Scale{Description: "12 Tone Equal Temperament", Tones: tones}
}

// ReadSCLFile reads and parses a Scala .scl file. The file is closed before
// returning.
func ReadSCLFile(path string) (Scale, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scale{}, fmt.Errorf("cannot open scale file: %w", err)
	}
	defer f.Close()
	s, err := ParseSCL(f)
	if err != nil {
		return Scale{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = path
	return s, nil
}

// ParseSCL parses the contents of a Scala .scl file.
func ParseSCL(r io.Reader) (Scale, error) {
	lines, err := readLines(r)
	if err != nil {
		return Scale{}, err
	}
	if len(lines) == 0 {
		return Scale{}, parseErrorf(0, "scale file is empty")
	}
	ret := Scale{Description: strings.TrimSpace(lines[0].text)}
	var count = -1
	lastLine := lines[0].num
	for _, l := range lines[1:] {
		field := firstField(l.text)
		if field == "" {
			continue
		}
		lastLine = l.num
		if count < 0 {
			count, err = strconv.Atoi(field)
			if err != nil {
				return Scale{}, parseErrorf(l.num, "invalid note count %q", field)
			}
			if count < 1 {
				return Scale{}, parseErrorf(l.num, "scale must have at least one note, got %d", count)
			}
			ret.Tones = make([]Tone, 0, count)
			continue
		}
		if len(ret.Tones) == count {
			return Scale{}, parseErrorf(l.num, "more notes than the declared count %d", count)
		}
		tone, err := parseTone(field)
		if err != nil {
			return Scale{}, parseErrorf(l.num, "%v", err)
		}
		ret.Tones = append(ret.Tones, tone)
	}
	if count < 0 {
		return Scale{}, parseErrorf(lastLine, "note count is missing")
	}
	if len(ret.Tones) < count {
		return Scale{}, parseErrorf(lastLine, "declared %d notes, but found only %d", count, len(ret.Tones))
	}
	return ret, nil
}

func parseTone(field string) (Tone, error) {
	if strings.Contains(field, ".") {
		c, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(c) || math.IsInf(c, 0) {
			return Tone{}, fmt.Errorf("invalid cents value %q", field)
		}
		return Tone{Type: Cents, Cents: c, StringRep: field}, nil
	}
	num, den := field, "1"
	if i := strings.IndexByte(field, '/'); i >= 0 {
		num, den = field[:i], field[i+1:]
	}
	n, errN := strconv.ParseInt(num, 10, 64)
	d, errD := strconv.ParseInt(den, 10, 64)
	if errN != nil || errD != nil {
		return Tone{}, fmt.Errorf("invalid ratio %q", field)
	}
	if n <= 0 || d <= 0 {
		return Tone{}, fmt.Errorf("ratio %q must be positive", field)
	}
	return Tone{
		Type:        Ratio,
		Cents:       1200 * math.Log2(float64(n)/float64(d)),
		Numerator:   n,
		Denominator: d,
		StringRep:   field,
	}, nil
}

// Period returns the interval, in cents, at which the scale repeats.
func (s Scale) Period() float64 {
	if len(s.Tones) == 0 {
		return 0
	}
	return s.Tones[len(s.Tones)-1].Cents
}

// DegreeCents returns the pitch of a scale degree in cents, relative to degree
// 0. Degrees outside 0..len(Tones) wrap around the period.
func (s Scale) DegreeCents(degree int) float64 {
	n := len(s.Tones)
	if n == 0 {
		return 0
	}
	q := floorDiv(degree, n)
	r := degree - q*n
	c := float64(q) * s.Period()
	if r > 0 {
		c += s.Tones[r-1].Cents
	}
	return c
}

func (s Scale) copy() Scale {
	tones := make([]Tone, len(s.Tones))
	copy(tones, s.Tones)
	s.Tones = tones
	return s
}
