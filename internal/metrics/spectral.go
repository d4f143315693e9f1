package metrics

import (
	"github.com/san-kum/gnlse/internal/analysis"
	"github.com/san-kum/gnlse/internal/field"
)

// SpectralWidth is the ratio of the latest RMS spectral width to the first
// one, so values above 1 mean spectral broadening.
type SpectralWidth struct {
	name    string
	omega   []float64
	initial float64
	current float64
	samples int
}

func NewSpectralWidth(omega []float64) *SpectralWidth {
	return &SpectralWidth{name: "spectral_broadening", omega: omega}
}

func (s *SpectralWidth) Name() string { return s.name }

func (s *SpectralWidth) Observe(z float64, at, aw field.Field) {
	width := analysis.SpectralRMSWidth(s.omega, aw.Intensity())
	if s.samples == 0 {
		s.initial = width
	}
	s.current = width
	s.samples++
}

func (s *SpectralWidth) Value() float64 {
	if s.samples == 0 || s.initial == 0 {
		return 1.0
	}
	return s.current / s.initial
}

func (s *SpectralWidth) Reset() {
	s.initial = 0
	s.current = 0
	s.samples = 0
}
