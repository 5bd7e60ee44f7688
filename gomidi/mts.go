// Package gomidi sends frequency tables to MIDI devices as MIDI Tuning
// Standard real-time single note tuning changes.
package gomidi

import (
	"log"
	"math"

	"github.com/eventual-recluse/scalespace"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Out is where the SysEx messages go, typically a drivers.Out.
	Out interface {
		Send(data []byte) error
	}

	// Sink is a frequency sink that retunes a MIDI device at the end of every
	// block. Only notes whose tuning word changed are sent. Messages are sent
	// from a separate goroutine; if it cannot keep up, blocks are dropped.
	Sink struct {
		table   scalespace.FrequencyTable
		channel chan scalespace.FrequencyTable
		done    chan struct{}

		out      Out
		deviceID byte
		program  byte
		sent     [scalespace.NumNotes][3]byte
		valid    [scalespace.NumNotes]bool
	}
)

const (
	// AllDevices is the device ID that all devices respond to.
	AllDevices = 0x7F

	maxChangesPerMessage = 127
)

func NewSink(out Out, deviceID, program byte) *Sink {
	s := &Sink{
		channel:  make(chan scalespace.FrequencyTable, 16),
		done:     make(chan struct{}),
		out:      out,
		deviceID: deviceID & 0x7F,
		program:  program & 0x7F,
	}
	go s.run()
	return s
}

func (s *Sink) SetNoteTunings(table *scalespace.FrequencyTable) {
	s.table = *table
}

func (s *Sink) FinishBlock(frames int) {
	select {
	case s.channel <- s.table:
	default:
	}
}

// Close waits until the queued tables have been sent. The sink must not be
// used after Close.
func (s *Sink) Close() {
	close(s.channel)
	<-s.done
}

func (s *Sink) run() {
	defer close(s.done)
	changes := make([]byte, 0, maxChangesPerMessage*4)
	for table := range s.channel {
		changes = changes[:0]
		for note, freq := range table {
			word := EncodeFrequency(freq)
			if s.valid[note] && s.sent[note] == word {
				continue
			}
			s.sent[note], s.valid[note] = word, true
			changes = append(changes, byte(note), word[0], word[1], word[2])
			if len(changes) == cap(changes) {
				s.send(changes)
				changes = changes[:0]
			}
		}
		if len(changes) > 0 {
			s.send(changes)
		}
	}
}

func (s *Sink) send(changes []byte) {
	msg := midi.Message(SingleNoteTuning(s.deviceID, s.program, changes))
	if err := s.out.Send(msg.Bytes()); err != nil {
		log.Printf("sending MIDI tuning change failed: %v", err)
		// resend everything when the device comes back
		s.valid = [scalespace.NumNotes]bool{}
	}
}

// SingleNoteTuning returns a real-time single note tuning change SysEx
// message. changes is a sequence of [key, tuning word] quadruplets.
func SingleNoteTuning(deviceID, program byte, changes []byte) []byte {
	ret := make([]byte, 0, 8+len(changes))
	ret = append(ret, 0xF0, 0x7F, deviceID, 0x08, 0x02, program, byte(len(changes)/4))
	ret = append(ret, changes...)
	return append(ret, 0xF7)
}

// EncodeFrequency returns the MTS frequency word of a frequency: the
// semitone below it, and the distance to it in 1/16384 semitones, as a 14-bit
// number in two 7-bit bytes. Frequencies outside the range of MIDI notes are
// clamped. 7F 7F 7F means "no change" and is never returned.
func EncodeFrequency(hz float64) [3]byte {
	if !(hz > 0) {
		return [3]byte{}
	}
	semitones := 69 + 12*math.Log2(hz/440)
	if semitones <= 0 {
		return [3]byte{}
	}
	note := math.Floor(semitones)
	fraction := math.Round((semitones - note) * 16384)
	if fraction >= 16384 {
		note++
		fraction = 0
	}
	if note > 127 || note == 127 && fraction > 16382 {
		return [3]byte{0x7F, 0x7F, 0x7E}
	}
	f := int(fraction)
	return [3]byte{byte(note), byte(f>>7) & 0x7F, byte(f) & 0x7F}
}
