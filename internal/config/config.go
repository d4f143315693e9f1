// Package config maps YAML run descriptions onto solver setups.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gnlse/internal/analysis"
	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/gnlse"
	"github.com/san-kum/gnlse/internal/impulse"
	"github.com/san-kum/gnlse/internal/raman"
)

const (
	DefaultPulse     = "gaussian"
	DefaultFWHM      = 0.050
	DefaultBeta2     = -11.830e-3
	DefaultLengthLD  = 10.0
	DefaultRamanName = "none"
)

// Config is the YAML form of a run. FiberLength in m takes precedence;
// when it is zero the length is FiberLengthLD dispersion lengths of the
// input pulse.
type Config struct {
	Resolution     int     `yaml:"resolution"`
	TimeWindow     float64 `yaml:"time_window"`
	ZSaves         int     `yaml:"z_saves"`
	RTol           float64 `yaml:"rtol"`
	ATol           float64 `yaml:"atol"`
	Wavelength     float64 `yaml:"wavelength"`
	Nonlinearity   float64 `yaml:"nonlinearity"`
	FiberLength    float64 `yaml:"fiber_length"`
	FiberLengthLD  float64 `yaml:"fiber_length_ld"`
	ExtraLoss      float64 `yaml:"extra_loss"`
	SelfSteepening bool    `yaml:"self_steepening"`

	Impulse    ImpulseConfig    `yaml:"impulse"`
	Dispersion DispersionConfig `yaml:"dispersion"`
	Raman      RamanConfig      `yaml:"raman"`
}

// ImpulseConfig describes the input pulse. A positive SolitonOrder overrides
// Power with the peak power of that soliton order.
type ImpulseConfig struct {
	Type         string  `yaml:"type"`
	Power        float64 `yaml:"power"`
	FWHM         float64 `yaml:"fwhm"`
	SolitonOrder float64 `yaml:"soliton_order"`
}

type DispersionConfig struct {
	Loss  float64   `yaml:"loss"`
	Betas []float64 `yaml:"betas"`
}

type RamanConfig struct {
	Model string `yaml:"model"`
}

// DefaultConfig is the fundamental soliton formed from a Gaussian input.
func DefaultConfig() *Config {
	return &Config{
		Resolution:    gnlse.DefaultResolution,
		TimeWindow:    gnlse.DefaultTimeWindow,
		ZSaves:        gnlse.DefaultZSaves,
		RTol:          gnlse.DefaultRTol,
		ATol:          gnlse.DefaultATol,
		Wavelength:    gnlse.DefaultWavelength,
		Nonlinearity:  gnlse.DefaultNonlinearity,
		FiberLengthLD: DefaultLengthLD,
		Impulse: ImpulseConfig{
			Type:         DefaultPulse,
			FWHM:         DefaultFWHM,
			SolitonOrder: 1,
		},
		Dispersion: DispersionConfig{
			Betas: []float64{DefaultBeta2},
		},
		Raman: RamanConfig{Model: DefaultRamanName},
	}
}

// Load reads path on top of DefaultConfig, so a file only needs the keys it
// changes. A file that gives impulse.power without impulse.soliton_order
// keeps that power instead of the default soliton order.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var keys struct {
		Impulse struct {
			Power        *float64 `yaml:"power"`
			SolitonOrder *float64 `yaml:"soliton_order"`
		} `yaml:"impulse"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if keys.Impulse.Power != nil && keys.Impulse.SolitonOrder == nil {
		cfg.Impulse.SolitonOrder = 0
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Dispersion.Betas = append([]float64(nil), c.Dispersion.Betas...)
	return &out
}

// Beta2 returns the group velocity dispersion, or 0 without betas.
func (c *Config) Beta2() float64 {
	if len(c.Dispersion.Betas) == 0 {
		return 0
	}
	return c.Dispersion.Betas[0]
}

// Setup builds and validates the solver setup.
func (c *Config) Setup() (gnlse.Setup, error) {
	pulse, err := c.pulse()
	if err != nil {
		return gnlse.Setup{}, err
	}

	fiber, err := dispersion.NewTaylor(c.Dispersion.Loss, c.Dispersion.Betas)
	if err != nil {
		return gnlse.Setup{}, err
	}

	r, err := raman.ByName(c.Raman.Model)
	if err != nil {
		return gnlse.Setup{}, err
	}

	length := c.FiberLength
	if length == 0 && c.FiberLengthLD > 0 {
		b2 := c.Beta2()
		if b2 == 0 {
			return gnlse.Setup{}, field.Configf("fiber_length_ld", "needs a non-zero beta2")
		}
		length = c.FiberLengthLD * analysis.DispersionLength(pulse.T0(), b2)
	}

	s := gnlse.Setup{
		Resolution:     c.Resolution,
		TimeWindow:     c.TimeWindow,
		ZSaves:         c.ZSaves,
		RTol:           c.RTol,
		ATol:           c.ATol,
		Wavelength:     c.Wavelength,
		Nonlinearity:   c.Nonlinearity,
		FiberLength:    length,
		Loss:           c.ExtraLoss,
		SelfSteepening: c.SelfSteepening,
		Impulse:        pulse,
		Dispersion:     fiber,
		Raman:          r,
	}
	if err := s.Validate(); err != nil {
		return gnlse.Setup{}, err
	}
	return s, nil
}

func (c *Config) pulse() (impulse.Model, error) {
	power := c.Impulse.Power
	if n := c.Impulse.SolitonOrder; n > 0 {
		b2 := c.Beta2()
		if b2 == 0 || c.Nonlinearity == 0 {
			return nil, field.Configf("soliton_order", "needs non-zero beta2 and nonlinearity")
		}
		// power from the t0 of a unit-power pulse of the same shape
		unit, err := impulse.ByName(c.Impulse.Type, 1, c.Impulse.FWHM)
		if err != nil {
			return nil, err
		}
		power = analysis.SolitonPower(b2, c.Nonlinearity, unit.T0(), n)
	}
	return impulse.ByName(c.Impulse.Type, power, c.Impulse.FWHM)
}
