// Package field provides the core primitives shared by every stage of the
// pulse propagation pipeline.
//
// The package defines:
//
//   - [Field]: a complex envelope sampled on the grid, in time or frequency
//   - [ConfigError]: invalid setup detected before integration starts
//   - [DivergenceError]: numerical failure detected during integration
//
// Errors are matched with [errors.Is] against [ErrConfiguration] and
// [ErrNumericalDivergence]:
//
//	_, err := gnlse.New(setup)
//	if errors.Is(err, field.ErrConfiguration) {
//	    // fix the setup, retrying is pointless
//	}
//
// # Thread Safety
//
// Field values are plain slices. A single propagation run owns its fields
// exclusively; use [Field.Clone] before handing data to another goroutine.
package field
