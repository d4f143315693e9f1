package gnlse

import (
	"math"

	"github.com/san-kum/gnlse/internal/nonlinear"
)

// interaction is the nonlinear remainder of the GNLSE in the interaction
// picture centred on mid:
//
//	dψ/dζ = exp(−D·(ζ−mid)) · Ñ(exp(D·(ζ−mid)) · ψ)
type interaction struct {
	linear []complex128
	nl     *nonlinear.Operator
	mid    float64
	buf    []complex128
}

func newInteraction(linear []complex128, nl *nonlinear.Operator) *interaction {
	return &interaction{
		linear: linear,
		nl:     nl,
		buf:    make([]complex128, len(linear)),
	}
}

func (f *interaction) center(mid float64) { f.mid = mid }

func (f *interaction) Derive(dst, psi []complex128, zeta float64) {
	off := zeta - f.mid
	for i, d := range f.linear {
		f.buf[i] = expScaled(d, off) * psi[i]
	}
	f.nl.Spectrum(dst, f.buf)
	for i, d := range f.linear {
		dst[i] *= expScaled(d, -off)
	}
}

// expScaled returns exp(d·x) for real x without forming the complex product.
func expScaled(d complex128, x float64) complex128 {
	sin, cos := math.Sincos(imag(d) * x)
	m := math.Exp(real(d) * x)
	return complex(m*cos, m*sin)
}
