// Package gnlse integrates the Generalized Nonlinear Schrödinger Equation
// for a single pulse envelope in the frequency domain.
//
// A run is described by an immutable [Setup]. [New] validates it, builds the
// grid and the linear and nonlinear operators, and reports every problem as
// a [field.ConfigError]. [Solver.Run] then advances the spectrum with an
// adaptive interaction-picture Dormand-Prince scheme and returns a
// [Solution] sampled at Setup.ZSaves equally spaced distances.
// [WithFixedStep] swaps the adaptive pair for classical RK4 at a constant
// step in the same frame.
//
// # Example
//
//	pulse, _ := impulse.NewGaussian(power, 0.050)
//	fiber, _ := dispersion.NewTaylor(0, []float64{-11.830e-3})
//
//	setup := gnlse.DefaultSetup()
//	setup.FiberLength = 10 * ld
//	setup.Impulse = pulse
//	setup.Dispersion = fiber
//
//	solver, err := gnlse.New(setup)
//	if err != nil {
//	    return err
//	}
//	solution, err := solver.Run(ctx)
//
// # Units
//
// Times are in ps, lengths in m, wavelengths in nm, powers in W. Loss is
// given in dB/m and is the only quantity converted internally.
//
// # Thread Safety
//
// A Solver holds only read-only operators, so several runs of the same or of
// different solvers may proceed concurrently. [Sweep] does exactly that.
package gnlse
