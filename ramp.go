package scalespace

import "github.com/viterin/vek"

// Ramp glides the active frequency table linearly to a target over one block,
// arriving exactly at the target on the last frame of the block.
type Ramp struct {
	active    FrequencyTable
	increment FrequencyTable
}

func NewRamp(initial FrequencyTable) *Ramp {
	return &Ramp{active: initial}
}

// Active returns the table reached at the end of the last block.
func (r *Ramp) Active() FrequencyTable {
	return r.active
}

// Process advances the active table towards target in frames steps, pushing
// the table to the sink after every step. A block of zero frames does
// nothing.
func (r *Ramp) Process(target *FrequencyTable, frames int, sink FrequencySink) {
	if frames <= 0 {
		return
	}
	vek.Sub_Into(r.increment[:], target[:], r.active[:])
	vek.DivNumber_Inplace(r.increment[:], float64(frames))
	for f := 0; f < frames; f++ {
		if f == frames-1 {
			// exact arrival: assign instead of add
			r.active = *target
		} else {
			vek.Add_Inplace(r.active[:], r.increment[:])
		}
		if sink != nil {
			sink.SetNoteTunings(&r.active)
		}
	}
	if fin, ok := sink.(BlockFinisher); ok {
		fin.FinishBlock(frames)
	}
}
