//go:build cgo

package cmd

import (
	"fmt"
	"strings"

	"github.com/eventual-recluse/scalespace/gomidi"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// NewMIDISink opens the first MIDI output whose name starts with portPrefix
// and returns a sink retuning it. closer stops the sink and closes the port.
func NewMIDISink(portPrefix string, deviceID, program byte) (sink *gomidi.Sink, closer func(), err error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("could not open the MIDI driver: %w", err)
	}
	outs, err := driver.Outs()
	if err != nil {
		driver.Close()
		return nil, nil, fmt.Errorf("could not list MIDI outputs: %w", err)
	}
	var out drivers.Out
	for _, o := range outs {
		if strings.HasPrefix(o.String(), portPrefix) {
			out = o
			break
		}
	}
	if out == nil {
		driver.Close()
		return nil, nil, fmt.Errorf("could not find a MIDI output starting with %q", portPrefix)
	}
	if err := out.Open(); err != nil {
		driver.Close()
		return nil, nil, fmt.Errorf("opening MIDI output failed: %w", err)
	}
	sink = gomidi.NewSink(out, deviceID, program)
	return sink, func() {
		sink.Close()
		out.Close()
		driver.Close()
	}, nil
}
