// Package tuning implements Scala scale (.scl) and keyboard mapping (.kbm)
// files and computes the frequency of every MIDI note for a scale-mapping
// pair.
package tuning

import (
	"errors"
	"fmt"
	"math"
)

// Tuning is an immutable combination of a scale and a keyboard mapping, with
// the frequencies of all MIDI notes precomputed. Use New or Standard to
// create one; the zero value is not usable.
type Tuning struct {
	scale   Scale
	mapping KeyboardMapping
	table   [NumNotes]float64
}

var standard = func() *Tuning {
	t, err := New(StandardScale(), StandardMapping())
	if err != nil {
		panic(fmt.Sprintf("standard tuning is invalid: %v", err))
	}
	return t
}()

// Standard returns 12-tone equal temperament with A4 (note 69) at 440 Hz.
// The returned value is shared and must not be modified.
func Standard() *Tuning {
	return standard
}

// New combines a scale and a mapping. It fails if the scale is empty, if the
// mapping maps no notes at all, or if the reference note of the mapping is not
// mapped to any scale degree.
func New(s Scale, k KeyboardMapping) (*Tuning, error) {
	if len(s.Tones) == 0 {
		return nil, errors.New("scale has no tones")
	}
	if k.Count > 0 && len(k.Keys) != k.Count {
		return nil, fmt.Errorf("keyboard mapping has %d keys but map size %d", len(k.Keys), k.Count)
	}
	if !(k.TuningFrequency > 0) {
		return nil, fmt.Errorf("reference frequency must be positive, got %v", k.TuningFrequency)
	}
	refDegree, ok := k.degree(k.TuningConstantNote, len(s.Tones))
	if !ok {
		return nil, fmt.Errorf("reference note %d is not mapped", k.TuningConstantNote)
	}
	refCents := s.DegreeCents(refDegree)
	ret := &Tuning{scale: s.copy(), mapping: k.copy()}
	var mapped [NumNotes]bool
	for n := range ret.table {
		d, ok := k.degree(n, len(s.Tones))
		if !ok {
			continue
		}
		mapped[n] = true
		ret.table[n] = k.TuningFrequency * math.Exp2((s.DegreeCents(d)-refCents)/1200)
	}
	// unmapped notes repeat the nearest mapped note below, or above if there
	// is nothing mapped below
	last := -1
	for n := range ret.table {
		if mapped[n] {
			last = n
		} else if last >= 0 {
			ret.table[n] = ret.table[last]
		}
	}
	if last < 0 {
		return nil, errors.New("no MIDI note is mapped")
	}
	first := 0
	for !mapped[first] {
		first++
	}
	for n := 0; n < first; n++ {
		ret.table[n] = ret.table[first]
	}
	return ret, nil
}

// FrequencyForMidiNote returns the frequency of a note in Hz. Notes outside
// 0..127 are clamped to that range.
func (t *Tuning) FrequencyForMidiNote(note int) float64 {
	return t.table[min(max(note, 0), NumNotes-1)]
}

// Table returns the frequencies of all MIDI notes. The table is shared with
// the Tuning and must not be modified.
func (t *Tuning) Table() *[NumNotes]float64 {
	return &t.table
}

func (t *Tuning) Scale() Scale {
	return t.scale
}

func (t *Tuning) Mapping() KeyboardMapping {
	return t.mapping
}

// WithScale returns a new Tuning with the scale replaced and the mapping kept.
func (t *Tuning) WithScale(s Scale) (*Tuning, error) {
	return New(s, t.mapping)
}

// WithMapping returns a new Tuning with the mapping replaced and the scale kept.
func (t *Tuning) WithMapping(k KeyboardMapping) (*Tuning, error) {
	return New(t.scale, k)
}
