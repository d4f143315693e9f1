package analysis

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// SpeedOfLight in nm/ps.
const SpeedOfLight = 299792.458

// Centroid is the power-weighted mean angular frequency offset of a
// spectrum.
func Centroid(omega, spectrum []float64) float64 {
	return Mean(omega, spectrum)
}

// SpectralRMSWidth is the power-weighted standard deviation of omega.
func SpectralRMSWidth(omega, spectrum []float64) float64 {
	return RMSWidth(omega, spectrum)
}

// Wavelengths maps angular frequency offsets from the carrier w0 (rad/ps)
// to vacuum wavelengths in nm. Non-positive absolute frequencies map to +Inf.
func Wavelengths(omega []float64, w0 float64) []float64 {
	out := make([]float64, len(omega))
	for i, w := range omega {
		if w0+w <= 0 {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = 2 * math.Pi * SpeedOfLight / (w0 + w)
	}
	return out
}

// Decibels normalizes a power profile to its peak and converts it to dB,
// clamping at floor.
func Decibels(p []float64, floor float64) []float64 {
	out := make([]float64, len(p))
	peak := floats.Max(p)
	for i, v := range p {
		db := floor
		if peak > 0 && v > 0 {
			db = math.Max(floor, 10*math.Log10(v/peak))
		}
		out[i] = db
	}
	return out
}

// Autocorrelation returns the circular intensity autocorrelation
// G(τ) = Σ I(t)·I(t−τ), normalized to G(0) = 1 and centred on zero delay.
func Autocorrelation(intensity []float64) []float64 {
	n := len(intensity)
	if n == 0 {
		return nil
	}

	iw := fft.FFTReal(intensity)
	for i, v := range iw {
		iw[i] = complex(real(v)*real(v)+imag(v)*imag(v), 0)
	}
	g := fft.IFFT(iw)

	out := make([]float64, n)
	for i := range out {
		out[(i+n/2)%n] = real(g[i])
	}
	if g0 := real(g[0]); g0 > 0 {
		floats.Scale(1/g0, out)
	}
	return out
}
