package explorer

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/eventual-recluse/scalespace"
)

const NumSlots = 4

// Model implements the control side of the scale space explorer: the
// parameters, the file paths of the four tunings, and the error report shown
// to the user. Model methods may block on file I/O and must not be called from
// the audio thread; the Processor is the audio side. The two share only the
// slots and the control point, both of which are safe for concurrent use.
type Model struct {
	// Log receives a line for every file that is loaded or fails to load.
	Log *log.Logger

	slots   *[NumSlots]scalespace.Slot
	control *scalespace.ControlPoint
	broker  *Broker

	mu           sync.Mutex
	states       [StateCount]string
	displayNames [StateCount]string
	report       string
	showReport   bool
}

// NewModelProcessor creates a model and the processor that renders its
// tunings into sink.
func NewModelProcessor(broker *Broker, sink scalespace.FrequencySink) (*Model, *Processor) {
	slots := new([NumSlots]scalespace.Slot)
	control := scalespace.NewControlPoint()
	m := &Model{
		Log:     log.New(os.Stderr, "scalespace: ", log.LstdFlags),
		slots:   slots,
		control: control,
		broker:  broker,
	}
	for i := range m.displayNames {
		m.displayNames[i] = standardName(stateHalf(i))
	}
	return m, newProcessor(slots, control, sink)
}

// Slot returns the tuning slot with the given index 0..3.
func (m *Model) Slot(index int) *scalespace.Slot {
	return &m.slots[index]
}

func (m *Model) ControlPoint() *scalespace.ControlPoint {
	return m.control
}

// Report returns the last error message and whether it should be shown.
func (m *Model) Report() (message string, show bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report, m.showReport
}

// ConsumeReport returns the error message if it should be shown, and marks
// it as shown.
func (m *Model) ConsumeReport() (message string, show bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	show = m.showReport
	m.showReport = false
	return m.report, show
}

func (m *Model) change(param int) func() {
	return func() {
		TrySend(m.broker.ToHost, any(ParameterChanged{Index: param, Value: m.ParameterValue(param)}))
	}
}

// apply loads a state value into its slot half and updates the display names,
// the report and the stored paths accordingly. m.mu must be held.
func (m *Model) apply(index int, value string) {
	slot, half := stateSlot(index), stateHalf(index)
	m.states[index] = value
	o := scalespace.Load(&m.slots[slot], half, value)
	switch o.Kind {
	case scalespace.Loaded:
		m.displayNames[index] = baseName(value)
		m.Log.Printf("slot %d %s set to %s", slot+1, half, value)
	case scalespace.Reset:
		m.displayNames[index] = standardName(half)
	case scalespace.WrongExtension:
		m.displayNames[index] = standardName(half)
		m.clearState(index)
		m.Log.Printf("slot %d %s reset to standard: %q is not a %s file", slot+1, half, value, half.Extension())
	case scalespace.ParseFailure:
		for _, i := range [...]int{slot, slot + NumSlots} {
			m.displayNames[i] = standardName(stateHalf(i))
			m.clearState(i)
		}
		m.Log.Printf("slot %d reset to standard tuning and mapping: %v", slot+1, o.Err)
	default:
		panic(fmt.Sprintf("unhandled load outcome %v", o.Kind))
	}
	if o.Reportable() {
		m.report = o.Message()
		m.showReport = true
	}
	TrySend(m.broker.ToHost, any(LoadResult{Key: StateKeys[index], Slot: slot, LoadOutcome: o}))
}

func (m *Model) clearState(index int) {
	if m.states[index] == "" {
		return
	}
	m.states[index] = ""
	TrySend(m.broker.ToHost, any(StateChanged{Key: StateKeys[index], Value: ""}))
}

func standardName(h scalespace.Half) string {
	if h == scalespace.MappingHalf {
		return "Standard KBM mapping"
	}
	return "Standard SCL tuning"
}

func baseName(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}
