package gnlse

import (
	"math"

	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/impulse"
	"github.com/san-kum/gnlse/internal/raman"
)

// SpeedOfLight in nm/ps.
const SpeedOfLight = 299792.458

const (
	DefaultResolution   = 1 << 13
	DefaultTimeWindow   = 12.5
	DefaultZSaves       = 200
	DefaultRTol         = 1e-6
	DefaultATol         = 1e-6
	DefaultWavelength   = 835.0
	DefaultNonlinearity = 0.11
)

// Setup is the complete description of one propagation run.
type Setup struct {
	// Resolution is the number of grid points; a power of two is fastest.
	Resolution int
	// TimeWindow is the total temporal extent in ps.
	TimeWindow float64
	// ZSaves is the number of distance snapshots including both ends.
	ZSaves int
	RTol   float64
	ATol   float64

	// Wavelength is the carrier wavelength in nm.
	Wavelength float64
	// Nonlinearity is γ in 1/W/m.
	Nonlinearity float64
	// FiberLength in m.
	FiberLength float64
	// Loss in dB/m, applied on top of the dispersion operator.
	Loss           float64
	SelfSteepening bool

	Impulse    impulse.Model
	Dispersion dispersion.Model
	// Raman may be nil for an instantaneous Kerr response.
	Raman raman.Model
}

// DefaultSetup returns the numerical defaults of the fundamental soliton
// example. Impulse, Dispersion and FiberLength are left for the caller.
func DefaultSetup() Setup {
	return Setup{
		Resolution:   DefaultResolution,
		TimeWindow:   DefaultTimeWindow,
		ZSaves:       DefaultZSaves,
		RTol:         DefaultRTol,
		ATol:         DefaultATol,
		Wavelength:   DefaultWavelength,
		Nonlinearity: DefaultNonlinearity,
	}
}

// Carrier returns the carrier angular frequency in rad/ps, or 0 when the
// wavelength is not positive.
func (s Setup) Carrier() float64 {
	if !(s.Wavelength > 0) {
		return 0
	}
	return 2 * math.Pi * SpeedOfLight / s.Wavelength
}

// Validate checks the setup invariants without building anything.
func (s Setup) Validate() error {
	if s.Resolution <= 0 {
		return field.Configf("resolution", "must be positive, got %d", s.Resolution)
	}
	if !positive(s.TimeWindow) {
		return field.Configf("time_window", "must be positive and finite, got %g", s.TimeWindow)
	}
	if !positive(s.FiberLength) {
		return field.Configf("fiber_length", "must be positive and finite, got %g", s.FiberLength)
	}
	if s.ZSaves < 2 {
		return field.Configf("z_saves", "must be at least 2, got %d", s.ZSaves)
	}
	if !(s.RTol >= 0) || !(s.ATol >= 0) || s.RTol+s.ATol == 0 || math.IsInf(s.RTol+s.ATol, 0) {
		return field.Configf("tolerance", "rtol and atol must be finite, non-negative and not both zero, got %g, %g", s.RTol, s.ATol)
	}
	if math.IsNaN(s.Loss) || math.IsInf(s.Loss, 0) {
		return field.Configf("loss", "must be finite, got %g", s.Loss)
	}
	if s.SelfSteepening && !positive(s.Wavelength) {
		return field.Configf("wavelength", "must be positive with self-steepening, got %g", s.Wavelength)
	}
	if s.Impulse == nil {
		return field.Configf("impulse_model", "is required")
	}
	if s.Dispersion == nil {
		return field.Configf("dispersion_model", "is required")
	}
	if v, ok := s.Raman.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
