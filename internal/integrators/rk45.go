package integrators

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/gnlse/internal/field"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince 5(4) pair with local extrapolation: steps
// advance with the fifth-order solution and the embedded fourth-order one
// only feeds the error estimate.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64

	k       [7][]complex128
	scratch []complex128
	evals   int
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// SetControl overrides the step-size controller constants.
func (r *RK45) SetControl(safety, minScale, maxScale float64) {
	r.safety, r.minScale, r.maxScale = safety, minScale, maxScale
}

// Evaluations returns the number of right-hand side evaluations so far.
func (r *RK45) Evaluations() int { return r.evals }

func (r *RK45) ensureScratch(n int) {
	if len(r.scratch) != n {
		for i := range r.k {
			r.k[i] = make([]complex128, n)
		}
		r.scratch = make([]complex128, n)
	}
}

func (r *RK45) derive(sys System, dst, y []complex128, z float64) {
	sys.Derive(dst, y, z)
	r.evals++
}

// Step advances y by a fixed step dt and discards the error estimate.
func (r *RK45) Step(sys System, y []complex128, z, dt float64) []complex128 {
	yNew, _, _, _ := r.StepAdaptive(sys, y, z, dt, Tolerance{RTol: 1e-6, ATol: 1e-6})
	return yNew
}

// StepAdaptive attempts one step of size dt from (z, y). It returns the new
// state, the RMS error norm relative to tol (accept when <= 1) and the
// proposed size of the next attempt. A non-finite error norm is reported as
// field.ErrNonFinite.
func (r *RK45) StepAdaptive(sys System, y []complex128, z, dt float64, tol Tolerance) ([]complex128, float64, float64, error) {
	n := len(y)
	r.ensureScratch(n)
	k1, k2, k3, k4, k5, k6, k7 := r.k[0], r.k[1], r.k[2], r.k[3], r.k[4], r.k[5], r.k[6]
	x := r.scratch
	h := complex(dt, 0)

	r.derive(sys, k1, y, z)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*complex(b21, 0)*k1[i]
	}
	r.derive(sys, k2, x, z+a2*dt)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(complex(b31, 0)*k1[i]+complex(b32, 0)*k2[i])
	}
	r.derive(sys, k3, x, z+a3*dt)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(complex(b41, 0)*k1[i]+complex(b42, 0)*k2[i]+complex(b43, 0)*k3[i])
	}
	r.derive(sys, k4, x, z+a4*dt)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(complex(b51, 0)*k1[i]+complex(b52, 0)*k2[i]+complex(b53, 0)*k3[i]+complex(b54, 0)*k4[i])
	}
	r.derive(sys, k5, x, z+a5*dt)

	for i := 0; i < n; i++ {
		x[i] = y[i] + h*(complex(b61, 0)*k1[i]+complex(b62, 0)*k2[i]+complex(b63, 0)*k3[i]+complex(b64, 0)*k4[i]+complex(b65, 0)*k5[i])
	}
	r.derive(sys, k6, x, z+dt)

	yNew := make([]complex128, n)
	for i := 0; i < n; i++ {
		yNew[i] = y[i] + h*(complex(c1, 0)*k1[i]+complex(c3, 0)*k3[i]+complex(c4, 0)*k4[i]+complex(c5, 0)*k5[i]+complex(c6, 0)*k6[i])
	}

	r.derive(sys, k7, yNew, z+dt)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (complex(dc1, 0)*k1[i] + complex(dc3, 0)*k3[i] + complex(dc4, 0)*k4[i] + complex(dc5, 0)*k5[i] + complex(dc6, 0)*k6[i] + complex(dc7, 0)*k7[i])
		scale := tol.ATol + tol.RTol*math.Max(cmplx.Abs(y[i]), cmplx.Abs(yNew[i]))
		if scale == 0 && errEst == 0 {
			continue
		}
		e := cmplx.Abs(errEst) / scale
		sum += e * e
	}
	errRatio := 0.0
	if n > 0 {
		errRatio = math.Sqrt(sum / float64(n))
	}

	if math.IsNaN(errRatio) || math.IsInf(errRatio, 0) {
		return yNew, errRatio, dt * r.minScale, field.ErrNonFinite
	}

	var dtNew float64
	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		dtNew = dt * scale
	} else {
		if errRatio > 0 {
			scale := math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			dtNew = dt * scale
		} else {
			dtNew = dt * r.maxScale
		}
	}

	return yNew, errRatio, dtNew, nil
}
