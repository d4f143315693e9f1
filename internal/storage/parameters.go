package storage

import (
	"github.com/san-kum/gnlse/internal/gnlse"
	"github.com/san-kum/gnlse/internal/impulse"
	"github.com/san-kum/gnlse/internal/raman"
)

// Parameters is the JSON record of the setup a run was made with.
type Parameters struct {
	Resolution     int     `json:"resolution"`
	TimeWindow     float64 `json:"time_window"`
	ZSaves         int     `json:"z_saves"`
	RTol           float64 `json:"rtol"`
	ATol           float64 `json:"atol"`
	Wavelength     float64 `json:"wavelength"`
	Nonlinearity   float64 `json:"nonlinearity"`
	FiberLength    float64 `json:"fiber_length"`
	ExtraLoss      float64 `json:"extra_loss"`
	SelfSteepening bool    `json:"self_steepening"`

	Pulse string  `json:"pulse"`
	Power float64 `json:"power"`
	FWHM  float64 `json:"fwhm"`

	Dispersion string    `json:"dispersion"`
	Loss       float64   `json:"loss"`
	Betas      []float64 `json:"betas,omitempty"`

	Raman string `json:"raman"`
}

func ParametersOf(s gnlse.Setup) Parameters {
	p := Parameters{
		Resolution:     s.Resolution,
		TimeWindow:     s.TimeWindow,
		ZSaves:         s.ZSaves,
		RTol:           s.RTol,
		ATol:           s.ATol,
		Wavelength:     s.Wavelength,
		Nonlinearity:   s.Nonlinearity,
		FiberLength:    s.FiberLength,
		ExtraLoss:      s.Loss,
		SelfSteepening: s.SelfSteepening,
		Dispersion:     "direct",
		Raman:          "none",
	}

	if s.Impulse != nil {
		p.Power = s.Impulse.Power()
		p.FWHM = s.Impulse.FWHM()
		switch s.Impulse.(type) {
		case *impulse.Gaussian:
			p.Pulse = "gaussian"
		case *impulse.Sech:
			p.Pulse = "sech"
		case *impulse.Lorentzian:
			p.Pulse = "lorentzian"
		default:
			p.Pulse = "custom"
		}
	}

	if t, ok := s.Dispersion.(interface {
		Loss() float64
		Betas() []float64
	}); ok {
		p.Dispersion = "taylor"
		p.Loss = t.Loss()
		p.Betas = t.Betas()
	}

	switch s.Raman.(type) {
	case *raman.BlowWood:
		p.Raman = "blowwood"
	case *raman.LinAgrawal:
		p.Raman = "linagrawal"
	case nil:
	default:
		p.Raman = "custom"
	}

	return p
}
