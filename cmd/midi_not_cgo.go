//go:build !cgo

package cmd

import (
	"errors"

	"github.com/eventual-recluse/scalespace/gomidi"
)

func NewMIDISink(portPrefix string, deviceID, program byte) (sink *gomidi.Sink, closer func(), err error) {
	// rtmididrv needs cgo
	return nil, nil, errors.New("MIDI output is not available in builds without cgo")
}
