package scalespace

import (
	"sync/atomic"

	"github.com/eventual-recluse/scalespace/tuning"
)

// Slot holds one tuning that may be replaced by the control thread while the
// audio thread reads it. Readers always see either the old or the new tuning
// as a whole. The zero Slot holds the standard tuning.
type Slot struct {
	p atomic.Pointer[tuning.Tuning]
}

func (s *Slot) Tuning() *tuning.Tuning {
	if t := s.p.Load(); t != nil {
		return t
	}
	return tuning.Standard()
}

// Store replaces the tuning. A nil tuning resets the slot to standard.
func (s *Slot) Store(t *tuning.Tuning) {
	s.p.Store(t)
}

func (s *Slot) FrequencyForNote(note int) float64 {
	return s.Tuning().FrequencyForMidiNote(note)
}

// Table returns the frequencies of the current tuning. The table must not be
// modified.
func (s *Slot) Table() *[NumNotes]float64 {
	return s.Tuning().Table()
}
