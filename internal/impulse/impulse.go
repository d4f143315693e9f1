// Package impulse generates the initial complex envelope A(t, 0).
//
// Every model is parameterised by peak power P and the intensity full width
// at half maximum. Constructors validate their parameters, so a model that
// exists is always usable.
package impulse

import (
	"math"

	"github.com/san-kum/gnlse/internal/field"
)

// Model maps the time axis to the envelope at z = 0.
type Model interface {
	Envelope(t []float64) []complex128
	Power() float64
	FWHM() float64
	// T0 is the characteristic width used for dispersion length estimates.
	T0() float64
}

type shape struct {
	power float64
	fwhm  float64
	t0    float64
}

func newShape(power, fwhm, t0PerFWHM float64) (shape, error) {
	if !(power >= 0) || math.IsInf(power, 0) {
		return shape{}, field.Configf("power", "must be non-negative and finite, got %g", power)
	}
	if !(fwhm > 0) || math.IsInf(fwhm, 0) {
		return shape{}, field.Configf("fwhm", "must be positive and finite, got %g", fwhm)
	}
	return shape{power: power, fwhm: fwhm, t0: fwhm * t0PerFWHM}, nil
}

func (s shape) Power() float64 { return s.power }
func (s shape) FWHM() float64  { return s.fwhm }
func (s shape) T0() float64    { return s.t0 }

func (s shape) envelope(t []float64, profile func(x float64) float64) []complex128 {
	amp := math.Sqrt(s.power)
	out := make([]complex128, len(t))
	for i, ti := range t {
		out[i] = complex(amp*profile(ti/s.t0), 0)
	}
	return out
}

// Gaussian is A(t) = √P·exp(-t²/(2t0²)) with t0 = FWHM/(2√ln2).
type Gaussian struct{ shape }

func NewGaussian(power, fwhm float64) (*Gaussian, error) {
	s, err := newShape(power, fwhm, 1/(2*math.Sqrt(math.Ln2)))
	if err != nil {
		return nil, err
	}
	return &Gaussian{s}, nil
}

func (g *Gaussian) Envelope(t []float64) []complex128 {
	return g.envelope(t, func(x float64) float64 { return math.Exp(-x * x / 2) })
}

// Sech is A(t) = √P·sech(t/t0) with t0 = FWHM/(2·ln(1+√2)).
type Sech struct{ shape }

func NewSech(power, fwhm float64) (*Sech, error) {
	s, err := newShape(power, fwhm, 1/(2*math.Log(1+math.Sqrt2)))
	if err != nil {
		return nil, err
	}
	return &Sech{s}, nil
}

func (s *Sech) Envelope(t []float64) []complex128 {
	return s.envelope(t, func(x float64) float64 { return 1 / math.Cosh(x) })
}

// Lorentzian is A(t) = √P/(1+(t/t0)²) with t0 = FWHM/(2√(√2−1)).
type Lorentzian struct{ shape }

func NewLorentzian(power, fwhm float64) (*Lorentzian, error) {
	s, err := newShape(power, fwhm, 1/(2*math.Sqrt(math.Sqrt2-1)))
	if err != nil {
		return nil, err
	}
	return &Lorentzian{s}, nil
}

func (l *Lorentzian) Envelope(t []float64) []complex128 {
	return l.envelope(t, func(x float64) float64 { return 1 / (1 + x*x) })
}

// Names lists the shapes accepted by ByName.
var Names = []string{"gaussian", "sech", "lorentzian"}

// ByName builds the named shape.
func ByName(name string, power, fwhm float64) (Model, error) {
	var (
		m   Model
		err error
	)
	switch name {
	case "gaussian":
		m, err = NewGaussian(power, fwhm)
	case "sech":
		m, err = NewSech(power, fwhm)
	case "lorentzian":
		m, err = NewLorentzian(power, fwhm)
	default:
		return nil, field.Configf("impulse_model", "unknown pulse type %q", name)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
