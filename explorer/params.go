package explorer

import (
	"math"

	"github.com/eventual-recluse/scalespace"
)

type (
	// ParameterInfo describes an automatable parameter to a plugin host.
	ParameterInfo struct {
		Name        string
		Symbol      string
		Min, Max    float64
		Default     float64
		Automatable bool
	}

	Float struct {
		FloatData
	}

	FloatData interface {
		Value() float64
		Range() floatRange

		setValue(float64)
		change() func()
	}

	floatRange struct {
		Min, Max float64
	}

	X Model
	Y Model
)

const (
	ParameterX = iota
	ParameterY
	ParameterCount
)

var Parameters = [ParameterCount]ParameterInfo{
	ParameterX: {Name: "X", Symbol: "x", Min: scalespace.ControlMin, Max: scalespace.ControlMax, Default: scalespace.ControlDefault, Automatable: true},
	ParameterY: {Name: "Y", Symbol: "y", Min: scalespace.ControlMin, Max: scalespace.ControlMax, Default: scalespace.ControlDefault, Automatable: true},
}

func (v Float) Add(delta float64) (ok bool) {
	return v.Set(v.Value() + delta)
}

func (v Float) Set(value float64) (ok bool) {
	if math.IsNaN(value) {
		return false
	}
	value = v.Range().Clamp(value)
	if value == v.Value() {
		return false
	}
	defer v.change()()
	v.setValue(value)
	return true
}

func (r floatRange) Clamp(value float64) float64 {
	return max(min(value, r.Max), r.Min)
}

// Model methods

func (m *Model) X() *X { return (*X)(m) }
func (m *Model) Y() *Y { return (*Y)(m) }

// Parameter returns the view of a parameter by its index.
func (m *Model) Parameter(index int) (Float, bool) {
	switch index {
	case ParameterX:
		return m.X().Float(), true
	case ParameterY:
		return m.Y().Float(), true
	}
	return Float{}, false
}

// SetParameterValue is called by the host. The value is clamped, and the
// host is not notified, as it made the change itself.
func (m *Model) SetParameterValue(index int, value float64) {
	switch index {
	case ParameterX:
		m.control.X.Set(value)
	case ParameterY:
		m.control.Y.Set(value)
	}
}

func (m *Model) ParameterValue(index int) float64 {
	switch index {
	case ParameterX:
		return m.control.X.Value()
	case ParameterY:
		return m.control.Y.Value()
	}
	return 0
}

// XFloat

func (v *X) Float() Float           { return Float{v} }
func (v *X) Value() float64         { return v.control.X.Value() }
func (v *X) setValue(value float64) { v.control.X.Set(value) }
func (v *X) Range() floatRange      { return floatRange{v.control.X.Min, v.control.X.Max} }
func (v *X) change() func()         { return (*Model)(v).change(ParameterX) }

// YFloat

func (v *Y) Float() Float           { return Float{v} }
func (v *Y) Value() float64         { return v.control.Y.Value() }
func (v *Y) setValue(value float64) { v.control.Y.Set(value) }
func (v *Y) Range() floatRange      { return floatRange{v.control.Y.Min, v.control.Y.Max} }
func (v *Y) change() func()         { return (*Model)(v).change(ParameterY) }
