package metrics

import "github.com/san-kum/gnlse/internal/field"

// PeakPower is the highest peak power seen over the run, in W.
type PeakPower struct {
	name string
	max  float64
}

func NewPeakPower() *PeakPower {
	return &PeakPower{name: "peak_power"}
}

func (p *PeakPower) Name() string { return p.name }

func (p *PeakPower) Observe(z float64, at, aw field.Field) {
	if peak, _ := at.Peak(); peak > p.max {
		p.max = peak
	}
}

func (p *PeakPower) Value() float64 { return p.max }

func (p *PeakPower) Reset() { p.max = 0 }
