package explorer_test

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eventual-recluse/scalespace"
	"github.com/eventual-recluse/scalespace/explorer"
)

const fifthsSCL = "fifths\n2\n3/2\n2/1\n"

const a432KBM = "0\n0\n127\n60\n69\n432.0\n0\n"

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("cannot write %v: %v", path, err)
	}
	return path
}

type lastTable struct {
	table  scalespace.FrequencyTable
	pushes int
}

func (l *lastTable) SetNoteTunings(table *scalespace.FrequencyTable) {
	l.table = *table
	l.pushes++
}

func newModel(t *testing.T) (*explorer.Model, *explorer.Processor, *lastTable, *explorer.Broker) {
	t.Helper()
	broker := explorer.NewBroker()
	sink := &lastTable{}
	m, p := explorer.NewModelProcessor(broker, sink)
	m.Log = log.New(io.Discard, "", 0)
	return m, p, sink, broker
}

func drain(b *explorer.Broker) []any {
	var ret []any
	for {
		select {
		case msg := <-b.ToHost:
			ret = append(ret, msg)
		default:
			return ret
		}
	}
}

func TestAllStandard(t *testing.T) {
	_, p, sink, _ := newModel(t)
	p.Process(64)
	if sink.pushes != 64 {
		t.Fatalf("got %v pushes, expected 64", sink.pushes)
	}
	if got := sink.table[69]; math.Abs(got-440) > 1e-9 {
		t.Fatalf("note 69: got %v, expected 440", got)
	}
}

func TestProcessZeroFrames(t *testing.T) {
	_, p, sink, _ := newModel(t)
	p.Process(0)
	p.Process(-5)
	if sink.pushes != 0 {
		t.Fatalf("got %v pushes, expected 0", sink.pushes)
	}
}

func TestRightEdgeConverges(t *testing.T) {
	m, p, sink, _ := newModel(t)
	dir := t.TempDir()
	kbm := writeFile(t, dir, "a432.kbm", a432KBM)
	if !m.SetState("kbm_file_2", kbm) {
		t.Fatalf("kbm_file_2 should be a known key")
	}
	m.SetParameterValue(explorer.ParameterX, 1)
	p.Process(32)
	p.Process(32)
	// corners 2 and 4 weigh one half each; 2 is tuned to 432 Hz, 4 to 440 Hz
	expected := (432.0 + 440.0) / 2
	if got := sink.table[69]; math.Abs(got-expected) > 1e-9 {
		t.Fatalf("note 69: got %v, expected %v", got, expected)
	}
	if got := p.Table(); got != sink.table {
		t.Fatalf("processor table differs from the last pushed table")
	}
}

func TestSetStateLoads(t *testing.T) {
	m, _, _, b := newModel(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "fifths.scl", fifthsSCL)
	m.SetState("scl_file_3", path)
	if got := m.State("scl_file_3"); got != path {
		t.Errorf("state: got %v, expected %v", got, path)
	}
	if got := m.DisplayName("scl_file_3"); got != "fifths.scl" {
		t.Errorf("display name: got %v, expected fifths.scl", got)
	}
	if got := len(m.Slot(2).Tuning().Scale().Tones); got != 2 {
		t.Errorf("slot 3 scale: got %v tones, expected 2", got)
	}
	if _, show := m.Report(); show {
		t.Errorf("a successful load should not be reported")
	}
	msgs := drain(b)
	if len(msgs) != 1 {
		t.Fatalf("got %v messages, expected 1", len(msgs))
	}
	r, ok := msgs[0].(explorer.LoadResult)
	if !ok || r.Key != "scl_file_3" || r.Slot != 2 || r.Kind != scalespace.Loaded {
		t.Fatalf("unexpected message %+v", msgs[0])
	}
}

func TestUnknownStateKey(t *testing.T) {
	m, _, _, b := newModel(t)
	if m.SetState("scl_file_5", "x.scl") {
		t.Fatalf("unknown key should not be accepted")
	}
	if len(drain(b)) != 0 {
		t.Fatalf("unknown key should not send messages")
	}
}

func TestWrongExtensionClearsKey(t *testing.T) {
	m, _, _, b := newModel(t)
	dir := t.TempDir()
	kbm := writeFile(t, dir, "a432.kbm", a432KBM)
	m.SetState("kbm_file_1", kbm)
	drain(b)
	m.SetState("scl_file_1", filepath.Join(dir, "readme.txt"))
	if got := m.State("scl_file_1"); got != "" {
		t.Errorf("state should be cleared, got %v", got)
	}
	if got := m.State("kbm_file_1"); got != kbm {
		t.Errorf("the other half should be kept, got %v", got)
	}
	if got := m.DisplayName("scl_file_1"); got != "Standard SCL tuning" {
		t.Errorf("display name: got %v, expected Standard SCL tuning", got)
	}
	msg, show := m.ConsumeReport()
	if !show || msg != "Not a .scl file.\nSCL tuning reset to standard." {
		t.Errorf("report: got %q (%v)", msg, show)
	}
	if _, show := m.ConsumeReport(); show {
		t.Errorf("report should be consumed")
	}
	var cleared []string
	for _, msg := range drain(b) {
		if c, ok := msg.(explorer.StateChanged); ok {
			cleared = append(cleared, c.Key)
		}
	}
	if len(cleared) != 1 || cleared[0] != "scl_file_1" {
		t.Errorf("cleared keys: got %v, expected [scl_file_1]", cleared)
	}
}

func TestParseFailureClearsBothKeys(t *testing.T) {
	m, _, _, b := newModel(t)
	dir := t.TempDir()
	scl := writeFile(t, dir, "fifths.scl", fifthsSCL)
	m.SetState("scl_file_4", scl)
	drain(b)
	m.SetState("kbm_file_4", writeFile(t, dir, "broken.kbm", "garbage\n"))
	for _, key := range []string{"scl_file_4", "kbm_file_4"} {
		if got := m.State(key); got != "" {
			t.Errorf("%v should be cleared, got %v", key, got)
		}
	}
	if got := m.DisplayName("kbm_file_4"); got != "Standard KBM mapping" {
		t.Errorf("display name: got %v, expected Standard KBM mapping", got)
	}
	if got := len(m.Slot(3).Tuning().Scale().Tones); got != 12 {
		t.Errorf("slot 4 should be standard, got %v tones", got)
	}
	msg, show := m.Report()
	if !show || !strings.HasPrefix(msg, "Tuning error:\n") || !strings.HasSuffix(msg, "\nScale reset to standard tuning and mapping.") {
		t.Errorf("report: got %q (%v)", msg, show)
	}
	cleared := map[string]bool{}
	for _, msg := range drain(b) {
		if c, ok := msg.(explorer.StateChanged); ok {
			cleared[c.Key] = true
		}
	}
	if !cleared["scl_file_4"] || !cleared["kbm_file_4"] {
		t.Errorf("cleared keys: got %v, expected scl_file_4 and kbm_file_4", cleared)
	}
}

func TestEmptyPathIsSilent(t *testing.T) {
	m, _, _, _ := newModel(t)
	m.SetState("scl_file_2", "")
	if _, show := m.Report(); show {
		t.Fatalf("an empty path should not be reported")
	}
	if got := m.DisplayName("scl_file_2"); got != "Standard SCL tuning" {
		t.Fatalf("display name: got %v, expected Standard SCL tuning", got)
	}
}

func TestStateRoundTrip(t *testing.T) {
	m, _, _, _ := newModel(t)
	dir := t.TempDir()
	scl := writeFile(t, dir, "fifths.scl", fifthsSCL)
	kbm := writeFile(t, dir, "a432.kbm", a432KBM)
	m.SetState("scl_file_1", scl)
	m.SetState("kbm_file_3", kbm)
	m.SetParameterValue(explorer.ParameterX, 0.25)
	m.SetParameterValue(explorer.ParameterY, -0.5)
	data, err := m.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState failed: %v", err)
	}
	m2, _, _, _ := newModel(t)
	if err := m2.UnmarshalState(data); err != nil {
		t.Fatalf("UnmarshalState failed: %v", err)
	}
	for _, key := range explorer.StateKeys {
		if got, expected := m2.State(key), m.State(key); got != expected {
			t.Errorf("%v: got %v, expected %v", key, got, expected)
		}
	}
	if got := m2.ParameterValue(explorer.ParameterX); got != 0.25 {
		t.Errorf("x: got %v, expected 0.25", got)
	}
	if got := m2.ParameterValue(explorer.ParameterY); got != -0.5 {
		t.Errorf("y: got %v, expected -0.5", got)
	}
	if got := m2.Slot(2).Tuning().Mapping().TuningFrequency; got != 432 {
		t.Errorf("slot 3 reference frequency: got %v, expected 432", got)
	}
}

func TestUnmarshalStateInvalid(t *testing.T) {
	m, _, _, _ := newModel(t)
	if err := m.UnmarshalState([]byte("parameters: [")); err == nil {
		t.Fatalf("expected an error for malformed yaml")
	}
}

func TestScalePathString(t *testing.T) {
	m, _, _, b := newModel(t)
	path := writeFile(t, t.TempDir(), "fifths.scl", fifthsSCL)
	if !m.ScalePath(1).SetValue(path) {
		t.Fatalf("SetValue failed")
	}
	if got := m.ScalePath(1).Value(); got != path {
		t.Fatalf("got %v, expected %v", got, path)
	}
	if got := m.MappingPath(1).Value(); got != "" {
		t.Fatalf("mapping path: got %v, expected empty", got)
	}
	var changed bool
	for _, msg := range drain(b) {
		if c, ok := msg.(explorer.StateChanged); ok && c.Key == "scl_file_2" && c.Value == path {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("expected a StateChanged message for scl_file_2")
	}
}
