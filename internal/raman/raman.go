// Package raman provides delayed nonlinear response kernels h_R(t) of fused
// silica together with their fractional contribution f_R.
//
// Times are in picoseconds. Kernels are causal: Response returns zero for
// negative delays.
package raman

import (
	"math"

	"github.com/san-kum/gnlse/internal/field"
)

// Model is a Raman response kernel.
type Model interface {
	// Response samples h_R at the given delays.
	Response(t []float64) []float64
	// Fraction is f_R, the Raman share of the total nonlinear response.
	Fraction() float64
}

// BlowWood is the single damped oscillator model
// h(t) = (τ1²+τ2²)/(τ1·τ2²)·exp(-t/τ2)·sin(t/τ1).
type BlowWood struct {
	FR   float64
	Tau1 float64
	Tau2 float64
}

// NewBlowWood returns the model with the standard silica parameters.
func NewBlowWood() *BlowWood {
	return &BlowWood{FR: 0.18, Tau1: 0.0122, Tau2: 0.032}
}

func (m *BlowWood) Validate() error {
	if !(m.FR >= 0 && m.FR <= 1) {
		return field.Configf("raman.fr", "must be within [0, 1], got %g", m.FR)
	}
	if !(m.Tau1 > 0) || !(m.Tau2 > 0) {
		return field.Configf("raman.tau", "time constants must be positive, got %g, %g", m.Tau1, m.Tau2)
	}
	return nil
}

func (m *BlowWood) Fraction() float64 { return m.FR }

func (m *BlowWood) Response(t []float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		out[i] = blowWood(ti, m.Tau1, m.Tau2)
	}
	return out
}

func blowWood(t, tau1, tau2 float64) float64 {
	if t < 0 {
		return 0
	}
	return (tau1*tau1 + tau2*tau2) / (tau1 * tau2 * tau2) * math.Exp(-t/tau2) * math.Sin(t/tau1)
}

// LinAgrawal adds the boson peak to the Blow-Wood oscillator:
// h(t) = (1−fb)·h_BW(t) + fb·(2τb−t)/τb²·exp(−t/τb).
type LinAgrawal struct {
	FR   float64
	Tau1 float64
	Tau2 float64
	FB   float64
	TauB float64
}

// NewLinAgrawal returns the model with the standard silica parameters.
func NewLinAgrawal() *LinAgrawal {
	return &LinAgrawal{FR: 0.245, Tau1: 0.0122, Tau2: 0.032, FB: 0.21, TauB: 0.096}
}

func (m *LinAgrawal) Validate() error {
	bw := BlowWood{FR: m.FR, Tau1: m.Tau1, Tau2: m.Tau2}
	if err := bw.Validate(); err != nil {
		return err
	}
	if !(m.FB >= 0 && m.FB <= 1) {
		return field.Configf("raman.fb", "must be within [0, 1], got %g", m.FB)
	}
	if !(m.TauB > 0) {
		return field.Configf("raman.taub", "must be positive, got %g", m.TauB)
	}
	return nil
}

func (m *LinAgrawal) Fraction() float64 { return m.FR }

func (m *LinAgrawal) Response(t []float64) []float64 {
	out := make([]float64, len(t))
	for i, ti := range t {
		if ti < 0 {
			continue
		}
		hb := (2*m.TauB - ti) / (m.TauB * m.TauB) * math.Exp(-ti/m.TauB)
		out[i] = (1-m.FB)*blowWood(ti, m.Tau1, m.Tau2) + m.FB*hb
	}
	return out
}

// ByName returns a model with standard parameters. "" and "none" yield nil.
func ByName(name string) (Model, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "blowwood", "blow-wood":
		return NewBlowWood(), nil
	case "linagrawal", "lin-agrawal":
		return NewLinAgrawal(), nil
	default:
		return nil, field.Configf("raman", "unknown model %q", name)
	}
}
