package gomidi_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/eventual-recluse/scalespace"
	"github.com/eventual-recluse/scalespace/gomidi"
	"github.com/eventual-recluse/scalespace/tuning"
)

type recordingOut struct {
	mu       sync.Mutex
	messages [][]byte
	failures int
}

func (r *recordingOut) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("device unplugged")
	}
	r.messages = append(r.messages, append([]byte(nil), data...))
	return nil
}

func TestEncodeFrequency(t *testing.T) {
	cases := []struct {
		hz       float64
		expected [3]byte
	}{
		{440, [3]byte{69, 0, 0}},
		{tuning.MiddleCFrequency, [3]byte{60, 0, 0}},
		{440 * math.Exp2(1.0/24), [3]byte{69, 0x40, 0}},
		{440 * math.Exp2(1.0/12/16384), [3]byte{69, 0, 1}},
		{1, [3]byte{0, 0, 0}},
		{0, [3]byte{0, 0, 0}},
		{-5, [3]byte{0, 0, 0}},
		{math.NaN(), [3]byte{0, 0, 0}},
		{20000, [3]byte{0x7F, 0x7F, 0x7E}},
	}
	for _, c := range cases {
		if got := gomidi.EncodeFrequency(c.hz); got != c.expected {
			t.Errorf("EncodeFrequency(%v): got % X, expected % X", c.hz, got, c.expected)
		}
	}
}

func TestSingleNoteTuning(t *testing.T) {
	got := gomidi.SingleNoteTuning(0x7F, 3, []byte{69, 69, 0, 0})
	expected := []byte{0xF0, 0x7F, 0x7F, 0x08, 0x02, 0x03, 0x01, 69, 69, 0, 0, 0xF7}
	if string(got) != string(expected) {
		t.Fatalf("got % X, expected % X", got, expected)
	}
}

func TestSinkSendsOnlyChanges(t *testing.T) {
	out := &recordingOut{}
	sink := gomidi.NewSink(out, gomidi.AllDevices, 0)
	table := scalespace.TableOf(tuning.Standard())
	sink.SetNoteTunings(&table)
	sink.FinishBlock(1)
	table[69] = 432
	sink.SetNoteTunings(&table)
	sink.FinishBlock(1)
	sink.FinishBlock(1)
	sink.Close()
	// 128 changes are split into a message of 127 and a message of 1
	if len(out.messages) != 3 {
		t.Fatalf("got %v messages, expected 3", len(out.messages))
	}
	if got := out.messages[0][6]; got != 127 {
		t.Errorf("first message: got %v changes, expected 127", got)
	}
	if got := out.messages[1][6]; got != 1 {
		t.Errorf("second message: got %v changes, expected 1", got)
	}
	last := out.messages[2]
	word := gomidi.EncodeFrequency(432)
	expected := gomidi.SingleNoteTuning(gomidi.AllDevices, 0, []byte{69, word[0], word[1], word[2]})
	if string(last) != string(expected) {
		t.Errorf("retune message: got % X, expected % X", last, expected)
	}
}

func TestSinkResendsAfterError(t *testing.T) {
	out := &recordingOut{failures: 1}
	sink := gomidi.NewSink(out, 0, 0)
	table := scalespace.TableOf(tuning.Standard())
	sink.SetNoteTunings(&table)
	sink.FinishBlock(1)
	sink.FinishBlock(1)
	sink.Close()
	// the first message of the first block fails, so the second block
	// sends its notes again
	if len(out.messages) != 2 {
		t.Fatalf("got %v messages, expected 2", len(out.messages))
	}
	if got := out.messages[0][6]; got != 1 {
		t.Errorf("first message: got %v changes, expected 1", got)
	}
	if got := out.messages[1][6]; got != 127 {
		t.Errorf("second message: got %v changes, expected 127", got)
	}
}
