package scalespace

import (
	"math"
	"sync/atomic"
)

type (
	// Axis is a bounded control value that can be written from any goroutine
	// and read from the audio thread without locking. Writes are clamped to
	// [Min, Max]; the last write wins.
	Axis struct {
		Min, Max, Default float64
		bits              atomic.Uint64
	}

	// ControlPoint is the position in the 2D space spanned by the four
	// corner tunings.
	ControlPoint struct {
		X, Y Axis
	}
)

// Range and default of both axes of a control point.
const (
	ControlMin     = -1.0
	ControlMax     = 1.0
	ControlDefault = 0.0
)

// NewControlPoint returns a control point at the default position.
func NewControlPoint() *ControlPoint {
	c := &ControlPoint{
		X: Axis{Min: ControlMin, Max: ControlMax, Default: ControlDefault},
		Y: Axis{Min: ControlMin, Max: ControlMax, Default: ControlDefault},
	}
	c.X.Set(ControlDefault)
	c.Y.Set(ControlDefault)
	return c
}

// Set stores the value clamped to the range of the axis and returns the
// stored value. NaN resets the axis to its default.
func (a *Axis) Set(value float64) float64 {
	value = a.Clamp(value)
	a.bits.Store(math.Float64bits(value))
	return value
}

// Value returns the last stored value.
func (a *Axis) Value() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Clamp limits value to [Min, Max] and maps NaN to Default.
func (a *Axis) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		return a.Default
	}
	return max(min(value, a.Max), a.Min)
}

// Size is the width of the range of the axis.
func (a *Axis) Size() float64 {
	return a.Max - a.Min
}

// Weights returns the blend weights of the four corners at the current
// position.
func (c *ControlPoint) Weights() [4]float64 {
	return Weights(c.X.Value()/c.X.Size(), c.Y.Value()/c.Y.Size(), 1)
}
