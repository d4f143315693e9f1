package integrators

// RK4 is the classical fourth-order Runge-Kutta method at a fixed step.
type RK4 struct {
	k1, k2, k3, k4 []complex128
	scratch        []complex128
	evals          int
}

func NewRK4() *RK4 {
	return &RK4{}
}

// Evaluations counts right-hand side calls since construction.
func (r *RK4) Evaluations() int { return r.evals }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]complex128, n)
		r.k2 = make([]complex128, n)
		r.k3 = make([]complex128, n)
		r.k4 = make([]complex128, n)
		r.scratch = make([]complex128, n)
	}
}

// Step advances y by dt and returns the new state in a fresh slice.
func (r *RK4) Step(sys System, y []complex128, z, dt float64) []complex128 {
	n := len(y)
	r.ensureScratch(n)
	h := complex(dt, 0)

	sys.Derive(r.k1, y, z)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k1[i]
	}
	sys.Derive(r.k2, r.scratch, z+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k2[i]
	}
	sys.Derive(r.k3, r.scratch, z+dt*0.5)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*r.k3[i]
	}
	sys.Derive(r.k4, r.scratch, z+dt)
	r.evals += 4

	result := make([]complex128, n)
	h6 := h / 6
	for i := 0; i < n; i++ {
		result[i] = y[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
