package scalespace

import (
	"fmt"
	"strings"

	"github.com/eventual-recluse/scalespace/tuning"
)

type (
	// Half selects which half of a tuning a file replaces.
	Half int

	OutcomeKind int

	// LoadOutcome tells what happened when a scale or mapping path was
	// applied to a slot. Err is set only for ParseFailure.
	LoadOutcome struct {
		Half Half
		Path string
		Kind OutcomeKind
		Err  error
	}
)

const (
	ScaleHalf Half = iota
	MappingHalf
)

const (
	// Loaded means the file was parsed and the slot now uses it.
	Loaded OutcomeKind = iota
	// Reset means the path was empty and the half was reset to standard.
	Reset
	// WrongExtension means the path did not end with the expected extension
	// and the half was reset to standard.
	WrongExtension
	// ParseFailure means the file could not be read or parsed and both halves
	// were reset to standard.
	ParseFailure
)

func (h Half) Extension() string {
	if h == MappingHalf {
		return ".kbm"
	}
	return ".scl"
}

func (h Half) String() string {
	if h == MappingHalf {
		return "mapping"
	}
	return "scale"
}

func (k OutcomeKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Reset:
		return "reset"
	case WrongExtension:
		return "wrong extension"
	case ParseFailure:
		return "parse failure"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Reportable is true if the user should be told about the outcome.
func (o LoadOutcome) Reportable() bool {
	return o.Kind == WrongExtension || o.Kind == ParseFailure
}

// Message returns the text shown to the user for reportable outcomes, and an
// empty string otherwise.
func (o LoadOutcome) Message() string {
	switch o.Kind {
	case WrongExtension:
		if o.Half == MappingHalf {
			return "Not a .kbm file.\nKBM mapping reset to standard."
		}
		return "Not a .scl file.\nSCL tuning reset to standard."
	case ParseFailure:
		return fmt.Sprintf("Tuning error:\n%v\nScale reset to standard tuning and mapping.", o.Err)
	}
	return ""
}

// LoadScale applies a .scl path to the scale half of a slot.
func LoadScale(slot *Slot, path string) LoadOutcome {
	return Load(slot, ScaleHalf, path)
}

// LoadMapping applies a .kbm path to the mapping half of a slot.
func LoadMapping(slot *Slot, path string) LoadOutcome {
	return Load(slot, MappingHalf, path)
}

// Load applies a file path to one half of a slot. A path without the
// expected extension resets that half to standard and keeps the other half.
// A file that fails to parse, or a half that cannot be combined with the
// other, resets both halves.
func Load(slot *Slot, half Half, path string) LoadOutcome {
	ret := LoadOutcome{Half: half, Path: path}
	current := slot.Tuning()
	if !strings.HasSuffix(path, half.Extension()) {
		ret.Kind = WrongExtension
		if path == "" {
			ret.Kind = Reset
		}
		var t *tuning.Tuning
		var err error
		if half == ScaleHalf {
			t, err = current.WithScale(tuning.StandardScale())
		} else {
			t, err = current.WithMapping(tuning.StandardMapping())
		}
		if err != nil {
			slot.Store(tuning.Standard())
			ret.Kind = ParseFailure
			ret.Err = err
			return ret
		}
		slot.Store(t)
		return ret
	}
	t, err := loadHalf(current, half, path)
	if err != nil {
		slot.Store(tuning.Standard())
		ret.Kind = ParseFailure
		ret.Err = err
		return ret
	}
	slot.Store(t)
	ret.Kind = Loaded
	return ret
}

func loadHalf(current *tuning.Tuning, half Half, path string) (*tuning.Tuning, error) {
	if half == ScaleHalf {
		s, err := tuning.ReadSCLFile(path)
		if err != nil {
			return nil, err
		}
		return current.WithScale(s)
	}
	k, err := tuning.ReadKBMFile(path)
	if err != nil {
		return nil, err
	}
	return current.WithMapping(k)
}
