package explorer

import "github.com/eventual-recluse/scalespace"

// Processor renders the blended tuning into a frequency sink, one block at a
// time. It is meant to be called from the audio thread: Process does no I/O,
// takes no locks and does not allocate.
type Processor struct {
	slots   *[NumSlots]scalespace.Slot
	control *scalespace.ControlPoint
	sink    scalespace.FrequencySink

	ramp   *scalespace.Ramp
	target scalespace.FrequencyTable
	tmp    scalespace.FrequencyTable
}

func newProcessor(slots *[NumSlots]scalespace.Slot, control *scalespace.ControlPoint, sink scalespace.FrequencySink) *Processor {
	return &Processor{
		slots:   slots,
		control: control,
		sink:    sink,
		ramp:    scalespace.NewRamp(scalespace.TableOf(slots[0].Tuning())),
	}
}

// Process blends the current tunings at the current control point and glides
// to the result over frames sample frames.
func (p *Processor) Process(frames int) {
	if frames <= 0 {
		return
	}
	var tables [NumSlots]*[scalespace.NumNotes]float64
	for i := range p.slots {
		tables[i] = p.slots[i].Table()
	}
	scalespace.Blend(&p.target, tables, p.control.Weights(), &p.tmp)
	p.ramp.Process(&p.target, frames, p.sink)
}

// Table returns the table the sink received last.
func (p *Processor) Table() scalespace.FrequencyTable {
	return p.ramp.Active()
}

// SetSink replaces the sink. It must not be called concurrently with
// Process.
func (p *Processor) SetSink(sink scalespace.FrequencySink) {
	p.sink = sink
}
