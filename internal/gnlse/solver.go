package gnlse

import (
	"context"
	"iter"
	"math"

	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/grid"
	"github.com/san-kum/gnlse/internal/integrators"
	"github.com/san-kum/gnlse/internal/nonlinear"
)

// Solver propagates one Setup. Its operators are read-only after New.
type Solver struct {
	setup  Setup
	grid   *grid.Grid
	linear []complex128
	nl     *nonlinear.Operator
	a0     []complex128
	opts   options
	floor  float64
}

// New validates setup and builds the grid and operators. Every failure is a
// *field.ConfigError.
func New(setup Setup, opts ...Option) (*Solver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.safety > 0 && o.safety <= 1) || !(o.minScale > 0 && o.minScale < 1) || !(o.maxScale > 1) {
		return nil, field.Configf("step_control", "need 0 < safety <= 1, 0 < min scale < 1 < max scale, got %g, %g, %g", o.safety, o.minScale, o.maxScale)
	}
	if o.minStep < 0 || o.maxSteps < 0 {
		return nil, field.Configf("step_limits", "min step and max steps must be non-negative")
	}
	if !(o.fixedStep >= 0) || math.IsInf(o.fixedStep, 0) {
		return nil, field.Configf("fixed_step", "must be finite and non-negative, got %g", o.fixedStep)
	}

	if err := setup.Validate(); err != nil {
		return nil, err
	}

	g, err := grid.New(setup.Resolution, setup.TimeWindow)
	if err != nil {
		return nil, err
	}

	linear, err := setup.Dispersion.Operator(g.Omega())
	if err != nil {
		return nil, err
	}
	if len(linear) != g.Len() {
		return nil, field.Configf("dispersion_model", "operator has %d samples, grid has %d", len(linear), g.Len())
	}
	if alpha := dispersion.DBToNeper(setup.Loss); alpha != 0 {
		for i := range linear {
			linear[i] -= complex(alpha/2, 0)
		}
	}

	nl, err := nonlinear.New(g, setup.Nonlinearity, setup.Carrier(), setup.SelfSteepening, setup.Raman)
	if err != nil {
		return nil, err
	}

	a0 := setup.Impulse.Envelope(g.Time())
	if len(a0) != g.Len() || !field.Field(a0).IsFinite() {
		return nil, field.Configf("impulse_model", "envelope must have %d finite samples", g.Len())
	}

	return &Solver{
		setup:  setup,
		grid:   g,
		linear: linear,
		nl:     nl,
		a0:     a0,
		opts:   o,
		floor:  math.Max(o.minStep, 16*epsilon*setup.FiberLength),
	}, nil
}

const epsilon = 0x1p-52

func (s *Solver) Grid() *grid.Grid { return s.grid }
func (s *Solver) Setup() Setup     { return s.setup }

// Targets returns the snapshot distances: ZSaves equally spaced points from
// 0 to FiberLength, with the last one exactly FiberLength.
func (s *Solver) Targets() []float64 {
	n := s.setup.ZSaves
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * s.setup.FiberLength / float64(n-1)
	}
	out[n-1] = s.setup.FiberLength
	return out
}

// Run propagates the full fiber and collects every snapshot.
func (s *Solver) Run(ctx context.Context) (*Solution, error) {
	return s.RunObserved(ctx, nil)
}

// RunObserved is Run with observe called on each snapshot as soon as it is
// produced. The Solution keeps the snapshot's slices, so observe must not
// modify them.
func (s *Solver) RunObserved(ctx context.Context, observe func(Snapshot)) (*Solution, error) {
	sol := newSolution(s)
	stats, err := s.propagate(ctx, func(snap Snapshot) bool {
		sol.append(snap)
		if observe != nil {
			observe(snap)
		}
		return true
	})
	sol.Stats = stats
	if err != nil {
		return nil, err
	}
	return sol, nil
}

// RunWithCallback streams snapshots to fn in order of increasing z and stops
// early, without error, when fn returns false. Each call restarts from z = 0.
func (s *Solver) RunWithCallback(ctx context.Context, fn func(Snapshot) bool) error {
	_, err := s.propagate(ctx, fn)
	return err
}

// Snapshots is RunWithCallback as an iterator. A failure is yielded once as
// the final element.
func (s *Solver) Snapshots(ctx context.Context) iter.Seq2[Snapshot, error] {
	return func(yield func(Snapshot, error) bool) {
		stopped := false
		err := s.RunWithCallback(ctx, func(snap Snapshot) bool {
			if !yield(snap, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Snapshot{}, err)
		}
	}
}

func (s *Solver) snapshot(index int, z float64, aw []complex128) Snapshot {
	return Snapshot{
		Index: index,
		Z:     z,
		AW:    field.Field(aw).Clone(),
		At:    s.grid.ToTime(aw),
	}
}

// propagate runs one pass over the fiber. The frame, steppers and field
// buffers are allocated per call and the Solver is only read, which is what
// lets concurrent runs share a Solver; scratch space must not move onto it.
func (s *Solver) propagate(ctx context.Context, fn func(Snapshot) bool) (Stats, error) {
	var stats Stats
	log := s.opts.logger

	tol := integrators.Tolerance{RTol: s.setup.RTol, ATol: s.setup.ATol}

	targets := s.Targets()
	aw := s.grid.ToFrequency(s.a0)
	z := 0.0

	if !fn(s.snapshot(0, 0, aw)) {
		return stats, nil
	}

	frame := newInteraction(s.linear, s.nl)
	var (
		step stepper
		h    float64
	)
	if s.opts.fixedStep > 0 {
		step = fixedStepper{RK4: integrators.NewRK4(), h: s.opts.fixedStep}
		h = s.opts.fixedStep
	} else {
		rk := integrators.NewRK45()
		rk.SetControl(s.opts.safety, s.opts.minScale, s.opts.maxScale)
		step = adaptiveStepper{RK45: rk, tol: tol}

		frame.center(0)
		h = integrators.InitialStep(frame, aw, 0, targets[1], tol)
		if !(h > 0) || math.IsInf(h, 0) {
			h = targets[1]
		}
	}

	for k := 1; k < len(targets); k++ {
		target := targets[k]

		for z < target {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			default:
			}

			if s.opts.maxSteps > 0 && stats.Accepted+stats.Rejected >= s.opts.maxSteps {
				return stats, &field.DivergenceError{Z: z, Step: stats.Accepted, Wrapped: field.ErrTooManySteps}
			}

			hTry, truncated := h, false
			if z+1.01*hTry >= target {
				hTry, truncated = target-z, true
			}

			next, errNorm, hNew, err := s.attempt(step, frame, aw, z, hTry)
			stats.Evaluations = step.Evaluations()
			if err != nil {
				return stats, &field.DivergenceError{Z: z, Step: stats.Accepted, Wrapped: err}
			}

			if errNorm > 1 {
				stats.Rejected++
				log.Debug("step rejected", "z", z, "h", hTry, "err", errNorm)
				if hNew < s.floor {
					return stats, &field.DivergenceError{Z: z, Step: stats.Accepted, Wrapped: field.ErrStepTooSmall}
				}
				h = hNew
				continue
			}

			if !field.Field(next).IsFinite() {
				return stats, &field.DivergenceError{Z: z + hTry, Step: stats.Accepted, Wrapped: field.ErrNonFinite}
			}

			stats.Accepted++
			aw = next
			if truncated {
				z = target
				h = math.Max(h, hNew)
			} else {
				z += hTry
				h = hNew
			}
		}

		log.Debug("snapshot", "index", k, "z", target, "h", h)
		if !fn(s.snapshot(k, target, aw)) {
			return stats, nil
		}
	}

	log.Info("propagation finished",
		"length", s.setup.FiberLength,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"evaluations", stats.Evaluations)

	return stats, nil
}

// attempt performs one interaction-picture step of size h from (z, aw): half
// the linear operator, a Runge-Kutta step of the nonlinear remainder in the
// frame centred on z+h/2, then the other half of the linear operator.
func (s *Solver) attempt(step stepper, frame *interaction, aw []complex128, z, h float64) ([]complex128, float64, float64, error) {
	half := make([]complex128, len(aw))
	psi := make([]complex128, len(aw))
	for i, d := range s.linear {
		half[i] = expScaled(d, h/2)
		psi[i] = half[i] * aw[i]
	}

	frame.center(z + h/2)
	psiNew, errNorm, hNew, err := step.advance(frame, psi, z, h)
	if err != nil {
		return nil, errNorm, hNew, err
	}

	return field.Field(psiNew).Mul(half), errNorm, hNew, nil
}
