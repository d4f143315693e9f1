// Package nonlinear evaluates the GNLSE nonlinear term
//
//	N(A) = iγ(1 + i/ω0·∂t)[(1−fR)|A|²A + fR·A·(h_R ⊛ |A|²)]
//
// The steepening derivative is applied in the frequency domain, where it is
// the factor (1 + ω/ω0). The Raman convolution is circular over the time
// window and is evaluated through the FFT.
package nonlinear

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/grid"
	"github.com/san-kum/gnlse/internal/raman"
)

// Operator is bound to one grid. It keeps no field state between calls.
type Operator struct {
	g     *grid.Grid
	gamma float64
	// iγ or iγ(1+ω/ω0) per frequency sample
	factor []complex128
	fr     float64
	// dt·DFT of the causally sampled kernel, nil without Raman
	kernel []complex128
}

// New builds the operator. w0 is the carrier angular frequency and is only
// used when selfSteepening is set. r may be nil.
func New(g *grid.Grid, gamma, w0 float64, selfSteepening bool, r raman.Model) (*Operator, error) {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, field.Configf("nonlinearity", "must be finite, got %g", gamma)
	}
	if selfSteepening && !(w0 > 0) {
		return nil, field.Configf("wavelength", "carrier frequency must be positive for self-steepening, got %g", w0)
	}

	op := &Operator{g: g, gamma: gamma, factor: make([]complex128, g.Len())}

	for i, w := range g.Omega() {
		s := 1.0
		if selfSteepening {
			s += w / w0
		}
		op.factor[i] = complex(0, gamma*s)
	}

	if r != nil && r.Fraction() > 0 {
		op.fr = r.Fraction()
		op.kernel = sampleKernel(g, r)
	}

	return op, nil
}

// sampleKernel places h(m·dt) at index m for the first half of the window
// and zero in the second half, which holds negative delays.
func sampleKernel(g *grid.Grid, r raman.Model) []complex128 {
	n, dt := g.Len(), g.Dt()
	delays := make([]float64, n)
	for m := range delays {
		if m < (n+1)/2 {
			delays[m] = float64(m) * dt
		} else {
			delays[m] = float64(m-n) * dt
		}
	}

	h := r.Response(delays)
	sum := 0.0
	for _, v := range h {
		sum += v
	}
	if sum != 0 {
		// discrete normalization keeps dt·Σh = 1 on coarse grids
		for i := range h {
			h[i] /= sum * dt
		}
	}

	hw := fft.FFTReal(h)
	for i := range hw {
		hw[i] *= complex(dt, 0)
	}
	return hw
}

func (op *Operator) Gamma() float64         { return op.gamma }
func (op *Operator) RamanFraction() float64 { return op.fr }

// Spectrum writes N(A) in the frequency domain into dst for the spectrum aw.
// dst may alias aw.
func (op *Operator) Spectrum(dst, aw []complex128) {
	a := op.g.ToTime(aw)
	p := op.response(a)
	pw := op.g.ToFrequency(p)
	for i := range dst {
		dst[i] = op.factor[i] * pw[i]
	}
}

// Time returns N(A) in the time domain for the envelope a.
func (op *Operator) Time(a []complex128) []complex128 {
	aw := op.g.ToFrequency(a)
	op.Spectrum(aw, aw)
	return op.g.ToTime(aw)
}

// response returns A·[(1−fR)|A|² + fR·(h_R ⊛ |A|²)].
func (op *Operator) response(a []complex128) []complex128 {
	intensity := field.Field(a).Intensity()

	r := intensity
	if op.kernel != nil {
		iw := fft.FFTReal(intensity)
		for i := range iw {
			iw[i] *= op.kernel[i]
		}
		conv := fft.IFFT(iw)
		r = make([]float64, len(intensity))
		for i := range r {
			r[i] = (1-op.fr)*intensity[i] + op.fr*real(conv[i])
		}
	}

	out := make([]complex128, len(a))
	for i := range a {
		out[i] = a[i] * complex(r[i], 0)
	}
	return out
}
