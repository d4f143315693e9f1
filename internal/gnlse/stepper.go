package gnlse

import "github.com/san-kum/gnlse/internal/integrators"

// stepper advances the interaction-picture state by one attempted step and
// reports the error norm (≤ 1 accepts) and the next step size to try.
type stepper interface {
	advance(sys integrators.System, y []complex128, z, h float64) ([]complex128, float64, float64, error)
	Evaluations() int
}

type adaptiveStepper struct {
	*integrators.RK45
	tol integrators.Tolerance
}

func (a adaptiveStepper) advance(sys integrators.System, y []complex128, z, h float64) ([]complex128, float64, float64, error) {
	return a.StepAdaptive(sys, y, z, h, a.tol)
}

// fixedStepper always accepts and keeps proposing the same step.
type fixedStepper struct {
	*integrators.RK4
	h float64
}

func (f fixedStepper) advance(sys integrators.System, y []complex128, z, h float64) ([]complex128, float64, float64, error) {
	return f.Step(sys, y, z, h), 0, f.h, nil
}
