package gnlse

import (
	"math"
	"testing"

	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/impulse"
)

const testBeta2 = -11.830e-3

// solitonSetup is a fundamental sech soliton on a small grid, propagated over
// the given number of dispersion lengths.
func solitonSetup(t testing.TB, lengths float64) Setup {
	t.Helper()

	const fwhm = 0.050
	t0 := fwhm / (2 * math.Log(1+math.Sqrt2))
	ld := t0 * t0 / math.Abs(testBeta2)
	power := math.Abs(testBeta2) / (DefaultNonlinearity * t0 * t0)

	pulse, err := impulse.NewSech(power, fwhm)
	if err != nil {
		t.Fatalf("NewSech: %v", err)
	}
	fiber, err := dispersion.NewTaylor(0, []float64{testBeta2})
	if err != nil {
		t.Fatalf("NewTaylor: %v", err)
	}

	s := DefaultSetup()
	s.Resolution = 512
	s.TimeWindow = 1.0
	s.ZSaves = 11
	s.FiberLength = lengths * ld
	s.Impulse = pulse
	s.Dispersion = fiber
	return s
}

func relativeL2(got, want []float64) float64 {
	num, den := 0.0, 0.0
	for i := range want {
		d := got[i] - want[i]
		num += d * d
		den += want[i] * want[i]
	}
	return math.Sqrt(num / den)
}
