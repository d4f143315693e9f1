// Package metrics accumulates scalar figures of merit over the snapshots of
// a propagation run.
package metrics

import "github.com/san-kum/gnlse/internal/field"

// Metric observes the envelope at increasing distances z. at is the time
// domain envelope, aw the spectrum in FFT order.
type Metric interface {
	Name() string
	Observe(z float64, at, aw field.Field)
	Value() float64
	Reset()
}

// Set feeds every snapshot to a group of metrics.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

func (s *Set) Add(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Set) Observe(z float64, at, aw field.Field) {
	for _, m := range s.metrics {
		m.Observe(z, at, aw)
	}
}

// Values returns the current value of every metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Standard returns the metrics reported for every stored run.
func Standard(dt float64, omega []float64, w0 float64) *Set {
	return NewSet(
		NewEnergyDrift(dt),
		NewPhotonDrift(omega, w0),
		NewPeakPower(),
		NewSpectralWidth(omega),
	)
}
