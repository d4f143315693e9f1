package metrics

import (
	"math"

	"github.com/san-kum/gnlse/internal/field"
)

// EnergyDrift is the largest relative deviation of the pulse energy from its
// value at the first observation.
type EnergyDrift struct {
	name     string
	dt       float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(dt float64) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", dt: dt}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(z float64, at, aw field.Field) {
	energy := at.Energy(e.dt)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / e.initial
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// PhotonDrift tracks Σ|Ã|²/(ω0+ω), which self-steepening and Raman
// scattering conserve while the energy changes.
type PhotonDrift struct {
	name     string
	omega    []float64
	w0       float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewPhotonDrift(omega []float64, w0 float64) *PhotonDrift {
	return &PhotonDrift{name: "photon_drift", omega: omega, w0: w0}
}

func (p *PhotonDrift) Name() string { return p.name }

func (p *PhotonDrift) Observe(z float64, at, aw field.Field) {
	n := 0.0
	for i, v := range aw {
		w := p.w0 + p.omega[i]
		if w <= 0 {
			continue
		}
		n += (real(v)*real(v) + imag(v)*imag(v)) / w
	}

	if p.samples == 0 {
		p.initial = n
	}
	p.samples++

	if p.initial != 0 {
		p.maxDrift = math.Max(p.maxDrift, math.Abs(n-p.initial)/p.initial)
	}
}

func (p *PhotonDrift) Value() float64 { return p.maxDrift }

func (p *PhotonDrift) Reset() {
	p.initial = 0
	p.maxDrift = 0
	p.samples = 0
}
