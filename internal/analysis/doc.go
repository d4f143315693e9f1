// Package analysis provides scalar diagnostics for pulse envelopes.
//
// The package works on plain slices so it can be fed from a live solver
// snapshot as well as from a stored run:
//
//   - [Energy], [PeakPower], [FWHM], [RMSWidth]: time-domain pulse measures
//   - [Centroid], [SpectralRMSWidth]: first and second spectral moments
//   - [Autocorrelation]: intensity autocorrelation trace
//   - [DispersionLength], [NonlinearLength], [SolitonOrder], [SolitonPower]:
//     characteristic fiber scales
//
// # Soliton Design
//
// A fundamental soliton needs the peak power that balances dispersion and
// self-phase modulation:
//
//	p := analysis.SolitonPower(beta2, gamma, t0, 1)
//	pulse, _ := impulse.NewSech(p, fwhm)
package analysis
