package config

import (
	"math"
	"sort"
)

// dudleyBetas are the Taylor coefficients of the photonic crystal fiber used
// for supercontinuum generation at 835 nm, in ps^n/m from β2.
var dudleyBetas = []float64{
	-11.830e-3, 8.1038e-5, -9.5205e-8, 2.0737e-10, -5.3943e-13,
	1.3486e-15, -2.5495e-18, 3.0524e-21, -1.7140e-24,
}

var Presets = map[string]*Config{
	// Gaussian input reshaping into a fundamental soliton.
	"soliton": DefaultConfig(),

	// Third order soliton over one soliton period.
	"soliton3": {
		Resolution: 1 << 13, TimeWindow: 12.5, ZSaves: 200, RTol: 1e-6, ATol: 1e-6,
		Wavelength: 835, Nonlinearity: 0.11, FiberLengthLD: math.Pi / 2,
		Impulse:    ImpulseConfig{Type: "sech", FWHM: 0.050, SolitonOrder: 3},
		Dispersion: DispersionConfig{Betas: []float64{DefaultBeta2}},
		Raman:      RamanConfig{Model: "none"},
	},

	// Pure self-phase modulation, about 3.5π of peak nonlinear phase.
	"spm": {
		Resolution: 1 << 13, TimeWindow: 12.5, ZSaves: 200, RTol: 1e-6, ATol: 1e-6,
		Wavelength: 835, Nonlinearity: 0.11, FiberLength: 1,
		Impulse:    ImpulseConfig{Type: "gaussian", Power: 100, FWHM: 0.050},
		Dispersion: DispersionConfig{Betas: []float64{0}},
		Raman:      RamanConfig{Model: "none"},
	},

	// Linear dispersive broadening over four dispersion lengths.
	"gvd": {
		Resolution: 1 << 13, TimeWindow: 12.5, ZSaves: 200, RTol: 1e-6, ATol: 1e-6,
		Wavelength: 835, Nonlinearity: 0, FiberLengthLD: 4,
		Impulse:    ImpulseConfig{Type: "gaussian", Power: 1, FWHM: 0.050},
		Dispersion: DispersionConfig{Betas: []float64{DefaultBeta2}},
		Raman:      RamanConfig{Model: "none"},
	},

	// Supercontinuum in a photonic crystal fiber pumped by a 50 fs, 10 kW
	// sech pulse, with Raman scattering and self-steepening.
	"supercontinuum": {
		Resolution: 1 << 13, TimeWindow: 12.5, ZSaves: 200, RTol: 1e-6, ATol: 1e-6,
		Wavelength: 835, Nonlinearity: 0.11, FiberLength: 0.15, SelfSteepening: true,
		Impulse:    ImpulseConfig{Type: "sech", Power: 10000, FWHM: 0.050},
		Dispersion: DispersionConfig{Betas: dudleyBetas},
		Raman:      RamanConfig{Model: "blowwood"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
