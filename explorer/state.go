package explorer

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eventual-recluse/scalespace"
)

type (
	String struct {
		value StringValue
	}

	StringValue interface {
		Value() string
		SetValue(string) bool
	}

	// StateDocument is the persisted form of the model: the parameters and
	// the eight file paths, keyed by their symbols and state keys.
	StateDocument struct {
		Parameters map[string]float64 `yaml:"parameters,omitempty"`
		States     map[string]string  `yaml:"states,omitempty"`
	}
)

const (
	StateFileSCL1 = iota
	StateFileSCL2
	StateFileSCL3
	StateFileSCL4
	StateFileKBM1
	StateFileKBM2
	StateFileKBM3
	StateFileKBM4
	StateCount
)

var StateKeys = [StateCount]string{
	"scl_file_1",
	"scl_file_2",
	"scl_file_3",
	"scl_file_4",
	"kbm_file_1",
	"kbm_file_2",
	"kbm_file_3",
	"kbm_file_4",
}

func MakeString(value StringValue) String {
	return String{value: value}
}

func (v String) SetValue(value string) bool {
	if v.value == nil {
		return false
	}
	return v.value.SetValue(value)
}

func (v String) Value() string {
	if v.value == nil {
		return ""
	}
	return v.value.Value()
}

// StateIndex returns the index of a state key, or -1 if the key is unknown.
func StateIndex(key string) int {
	for i, k := range StateKeys {
		if k == key {
			return i
		}
	}
	return -1
}

func stateSlot(index int) int { return index % NumSlots }

func stateHalf(index int) scalespace.Half {
	if index >= NumSlots {
		return scalespace.MappingHalf
	}
	return scalespace.ScaleHalf
}

// SetState applies a file path to the slot half named by key. Every call
// reloads the file, even if the path did not change. It returns false if the
// key is unknown.
func (m *Model) SetState(key, value string) bool {
	index := StateIndex(key)
	if index < 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(index, value)
	return true
}

// State returns the path stored for key. Paths that failed to load are
// cleared, so this is empty for slot halves using the standard tuning.
func (m *Model) State(key string) string {
	index := StateIndex(key)
	if index < 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[index]
}

// DisplayName returns the file name for a slot half, or a description of the
// standard tuning if no file is loaded.
func (m *Model) DisplayName(key string) string {
	index := StateIndex(key)
	if index < 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayNames[index]
}

// Document returns the current parameters and paths.
func (m *Model) Document() StateDocument {
	doc := StateDocument{
		Parameters: map[string]float64{},
		States:     map[string]string{},
	}
	for i, p := range Parameters {
		doc.Parameters[p.Symbol] = m.ParameterValue(i)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, key := range StateKeys {
		doc.States[key] = m.states[i]
	}
	return doc
}

// ApplyDocument sets the parameters and reloads every path of a document.
// All state keys are applied in order, so keys missing from the document
// reset their slot half to standard. Parameters missing from the document
// keep their value.
func (m *Model) ApplyDocument(doc StateDocument) {
	for i, p := range Parameters {
		if v, ok := doc.Parameters[p.Symbol]; ok {
			m.SetParameterValue(i, v)
		}
	}
	for _, key := range StateKeys {
		m.SetState(key, doc.States[key])
	}
}

// MarshalState returns the parameters and paths as a YAML document.
func (m *Model) MarshalState() ([]byte, error) {
	out, err := yaml.Marshal(m.Document())
	if err != nil {
		return nil, fmt.Errorf("could not marshal state: %w", err)
	}
	return out, nil
}

// UnmarshalState restores a document written by MarshalState.
func (m *Model) UnmarshalState(data []byte) error {
	var doc StateDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("could not unmarshal state: %w", err)
	}
	m.ApplyDocument(doc)
	return nil
}

type statePath struct {
	m     *Model
	index int
}

// ScalePath returns the .scl path of a slot as a String.
func (m *Model) ScalePath(slot int) String {
	return MakeString(statePath{m, slot})
}

// MappingPath returns the .kbm path of a slot as a String.
func (m *Model) MappingPath(slot int) String {
	return MakeString(statePath{m, slot + NumSlots})
}

func (v statePath) Value() string { return v.m.State(StateKeys[v.index]) }
func (v statePath) SetValue(value string) bool {
	if !v.m.SetState(StateKeys[v.index], value) {
		return false
	}
	TrySend(v.m.broker.ToHost, any(StateChanged{Key: StateKeys[v.index], Value: v.m.State(StateKeys[v.index])}))
	return true
}
