package field

import (
	"math"
	"math/cmplx"
)

// Field is a complex envelope sampled on the grid.
type Field []complex128

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// IsFinite reports whether every sample is free of NaN and Inf.
func (f Field) IsFinite() bool {
	for _, v := range f {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// Intensity returns |f|^2 per sample.
func (f Field) Intensity() []float64 {
	out := make([]float64, len(f))
	for i, v := range f {
		out[i] = real(v)*real(v) + imag(v)*imag(v)
	}
	return out
}

// Energy returns the rectangle-rule integral of |f|^2 with sample spacing d.
func (f Field) Energy(d float64) float64 {
	sum := 0.0
	for _, v := range f {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum * d
}

// Peak returns the largest |f|^2 and its index. An empty field yields (0, -1).
func (f Field) Peak() (float64, int) {
	best, idx := 0.0, -1
	for i, v := range f {
		p := real(v)*real(v) + imag(v)*imag(v)
		if idx < 0 || p > best {
			best, idx = p, i
		}
	}
	return best, idx
}

// Phase returns arg(f) per sample.
func (f Field) Phase() []float64 {
	out := make([]float64, len(f))
	for i, v := range f {
		out[i] = cmplx.Phase(v)
	}
	return out
}

// Mul multiplies f by g element-wise in place and returns f.
func (f Field) Mul(g []complex128) Field {
	for i := range f {
		f[i] *= g[i]
	}
	return f
}

// MaxAbsDiff returns max |f_i - g_i| over the common length.
func (f Field) MaxAbsDiff(g Field) float64 {
	n := len(f)
	if len(g) < n {
		n = len(g)
	}
	m := 0.0
	for i := 0; i < n; i++ {
		m = math.Max(m, cmplx.Abs(f[i]-g[i]))
	}
	return m
}
