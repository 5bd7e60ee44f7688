// Package scalespace blends four microtonal tunings into one, driven by a 2D
// control point, and ramps the result smoothly to a realtime frequency sink.
package scalespace

import "github.com/eventual-recluse/scalespace/tuning"

const NumNotes = tuning.NumNotes

type (
	// FrequencyTable holds the frequency in Hz of each MIDI note.
	FrequencyTable [NumNotes]float64

	// FrequencySink receives the current frequency table, once per sample
	// frame. The table is only valid during the call; sinks that need it
	// later must copy it.
	FrequencySink interface {
		SetNoteTunings(table *FrequencyTable)
	}

	// BlockFinisher is implemented by sinks that want to know when a block
	// ends, e.g. to publish only the final table of each block.
	BlockFinisher interface {
		FinishBlock(frames int)
	}

	// SinkFunc adapts an ordinary function to a FrequencySink.
	SinkFunc func(table *FrequencyTable)
)

func (f SinkFunc) SetNoteTunings(table *FrequencyTable) { f(table) }

// TableOf copies the frequency table of a tuning.
func TableOf(t *tuning.Tuning) FrequencyTable {
	return FrequencyTable(*t.Table())
}

// MultiSink sends every table to all of its sinks, in order.
type MultiSink []FrequencySink

func (m MultiSink) SetNoteTunings(table *FrequencyTable) {
	for _, s := range m {
		s.SetNoteTunings(table)
	}
}

func (m MultiSink) FinishBlock(frames int) {
	for _, s := range m {
		if fin, ok := s.(BlockFinisher); ok {
			fin.FinishBlock(frames)
		}
	}
}
