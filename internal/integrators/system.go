// Package integrators advances complex-valued ODE systems dy/dz = f(z, y)
// with an embedded adaptive Runge-Kutta pair or classical fixed-step RK4.
package integrators

import (
	"math"
	"math/cmplx"
)

// System is an ODE right-hand side. Derive writes f(z, y) into dst, which
// never aliases y.
type System interface {
	Derive(dst, y []complex128, z float64)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(dst, y []complex128, z float64)

func (f SystemFunc) Derive(dst, y []complex128, z float64) { f(dst, y, z) }

// Tolerance is the per-sample error scale atol + rtol·|y|.
type Tolerance struct {
	RTol float64
	ATol float64
}

func (t Tolerance) rms(v, y []complex128) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for i := range v {
		scale := t.ATol + t.RTol*cmplx.Abs(y[i])
		if scale == 0 && v[i] == 0 {
			continue
		}
		e := cmplx.Abs(v[i]) / scale
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(v)))
}

// InitialStep estimates a first step size for sys at (z, y), bounded by
// hmax. A vanishing right-hand side yields hmax.
func InitialStep(sys System, y []complex128, z, hmax float64, tol Tolerance) float64 {
	n := len(y)
	f0 := make([]complex128, n)
	sys.Derive(f0, y, z)

	d0 := tol.rms(y, y)
	d1 := tol.rms(f0, y)

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6 * hmax
	} else {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, hmax)

	// explicit Euler trial step for the second derivative
	y1 := make([]complex128, n)
	for i := range y {
		y1[i] = y[i] + complex(h0, 0)*f0[i]
	}
	f1 := make([]complex128, n)
	sys.Derive(f1, y1, z+h0)
	for i := range f1 {
		f1[i] -= f0[i]
	}
	d2 := tol.rms(f1, y) / h0

	d12 := math.Max(d1, d2)
	if d12 <= 1e-15 {
		return hmax
	}
	h1 := math.Pow(0.01/d12, 1.0/5.0)
	return math.Min(math.Min(100*h0, h1), hmax)
}
