package gnlse

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/gnlse/internal/dispersion"
	"github.com/san-kum/gnlse/internal/field"
	"github.com/san-kum/gnlse/internal/impulse"
)

func TestSolver_Distances(t *testing.T) {
	s := solitonSetup(t, 1)
	s.ZSaves = 7

	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sol, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	z := sol.Distances()
	if len(z) != 7 || sol.Len() != 7 {
		t.Fatalf("expected 7 snapshots, got %d", len(z))
	}
	if z[0] != 0 {
		t.Errorf("first distance = %g, want 0", z[0])
	}
	if z[len(z)-1] != s.FiberLength {
		t.Errorf("last distance = %g, want exactly %g", z[len(z)-1], s.FiberLength)
	}
	for i := 1; i < len(z); i++ {
		if z[i] <= z[i-1] {
			t.Errorf("distances not increasing at %d: %v", i, z)
		}
	}

	if sol.Stats.Accepted == 0 || sol.Stats.Evaluations < 7*sol.Stats.Accepted {
		t.Errorf("implausible stats: %+v", sol.Stats)
	}
	if len(sol.TimeAxis()) != s.Resolution || len(sol.OmegaAxis()) != s.Resolution {
		t.Errorf("axis lengths do not match resolution %d", s.Resolution)
	}
}

func TestSolver_InitialSnapshot(t *testing.T) {
	s := solitonSetup(t, 1)
	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sol, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	a0, err := sol.Field(0)
	if err != nil {
		t.Fatalf("Field(0): %v", err)
	}
	want := field.Field(s.Impulse.Envelope(sol.TimeAxis()))
	if d := a0.MaxAbsDiff(want); d > 1e-9*math.Sqrt(s.Impulse.Power()) {
		t.Errorf("initial field differs from envelope by %g", d)
	}

	if _, err := sol.Field(sol.Len()); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := sol.Spectrum(-1); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestSolver_AccessorsReturnCopies(t *testing.T) {
	solver, err := New(solitonSetup(t, 0.5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sol, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	f, _ := sol.Field(1)
	f[0] = complex(1e9, 0)
	again, _ := sol.Field(1)
	if again[0] == f[0] {
		t.Error("Field exposed internal storage")
	}

	z := sol.Distances()
	z[0] = 42
	if sol.Distances()[0] != 0 {
		t.Error("Distances exposed internal storage")
	}
}

func TestSolver_RunIsRepeatable(t *testing.T) {
	solver, err := New(solitonSetup(t, 0.5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	a, _ := first.Spectrum(first.Len() - 1)
	b, _ := second.Spectrum(second.Len() - 1)
	if d := a.MaxAbsDiff(b); d != 0 {
		t.Errorf("runs differ by %g", d)
	}
}

func TestSolver_CallbackStopsEarly(t *testing.T) {
	solver, err := New(solitonSetup(t, 1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var seen []int
	err = solver.RunWithCallback(context.Background(), func(s Snapshot) bool {
		seen = append(seen, s.Index)
		return len(seen) < 3
	})
	if err != nil {
		t.Fatalf("RunWithCallback failed: %v", err)
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Errorf("unexpected snapshots %v", seen)
	}
}

func TestSolver_Snapshots(t *testing.T) {
	s := solitonSetup(t, 0.5)
	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	count := 0
	last := -1.0
	for snap, err := range solver.Snapshots(context.Background()) {
		if err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		if snap.Z <= last {
			t.Errorf("snapshot %d at z=%g not after %g", snap.Index, snap.Z, last)
		}
		last = snap.Z
		count++
	}
	if count != s.ZSaves {
		t.Errorf("expected %d snapshots, got %d", s.ZSaves, count)
	}
}

func TestSolver_ContextCancelled(t *testing.T) {
	solver, err := New(solitonSetup(t, 1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := solver.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// stiffSetup couples every frequency bin to a fast alternating phase, so the
// error estimate grows linearly with the step and no large step is accepted.
func stiffSetup(t *testing.T) Setup {
	s := solitonSetup(t, 1)
	op := make([]complex128, s.Resolution)
	for i := range op {
		op[i] = complex(0, 1e9*float64(1-2*(i%2)))
	}
	s.Dispersion = dispersion.NewDirect(op)
	return s
}

func TestSolver_StepTooSmall(t *testing.T) {
	s := stiffSetup(t)

	solver, err := New(s, WithMinStep(s.FiberLength), WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = solver.Run(context.Background())
	if !errors.Is(err, field.ErrNumericalDivergence) {
		t.Fatalf("expected ErrNumericalDivergence, got %v", err)
	}
	if !errors.Is(err, field.ErrStepTooSmall) {
		t.Errorf("expected ErrStepTooSmall, got %v", err)
	}

	var div *field.DivergenceError
	if !errors.As(err, &div) {
		t.Fatalf("expected *DivergenceError, got %T", err)
	}
	if div.Z != 0 || div.Step != 0 {
		t.Errorf("expected failure on the first attempt, got z=%g step=%d", div.Z, div.Step)
	}
}

func TestSolver_NonFiniteOperator(t *testing.T) {
	s := solitonSetup(t, 1)
	op := make([]complex128, s.Resolution)
	op[3] = complex(math.NaN(), 0)
	s.Dispersion = dispersion.NewDirect(op)

	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = solver.Run(context.Background())
	if !errors.Is(err, field.ErrNumericalDivergence) || !errors.Is(err, field.ErrNonFinite) {
		t.Errorf("expected non-finite divergence, got %v", err)
	}
}

func TestSolver_MaxSteps(t *testing.T) {
	solver, err := New(solitonSetup(t, 1), WithMaxSteps(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = solver.Run(context.Background())
	if !errors.Is(err, field.ErrTooManySteps) {
		t.Errorf("expected ErrTooManySteps, got %v", err)
	}
}

func TestSolver_Lorentzian(t *testing.T) {
	s := solitonSetup(t, 0.5)
	pulse, err := impulse.NewLorentzian(50, 0.1)
	if err != nil {
		t.Fatalf("NewLorentzian: %v", err)
	}
	s.Impulse = pulse

	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sol, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	e0 := mustField(t, sol, 0).Energy(sol.Dt())
	e1 := mustField(t, sol, sol.Len()-1).Energy(sol.Dt())
	if math.Abs(e1/e0-1) > 1e-4 {
		t.Errorf("energy drift %g", e1/e0-1)
	}
}

func TestSweep(t *testing.T) {
	a := solitonSetup(t, 0.5)
	b := solitonSetup(t, 0.25)

	sols, err := Sweep(context.Background(), []Setup{a, b})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(sols) != 2 {
		t.Fatalf("expected 2 solutions, got %d", len(sols))
	}
	if got := sols[1].Distances()[sols[1].Len()-1]; got != b.FiberLength {
		t.Errorf("solutions out of order: last z = %g, want %g", got, b.FiberLength)
	}

	bad := a
	bad.ZSaves = 0
	if _, err := Sweep(context.Background(), []Setup{a, bad}); !errors.Is(err, field.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func mustField(t *testing.T, sol *Solution, i int) field.Field {
	t.Helper()
	f, err := sol.Field(i)
	if err != nil {
		t.Fatalf("Field(%d): %v", i, err)
	}
	return f
}

func TestSolver_RunObserved(t *testing.T) {
	s := solitonSetup(t, 0.5)
	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var z []float64
	sol, err := solver.RunObserved(context.Background(), func(snap Snapshot) {
		z = append(z, snap.Z)
	})
	if err != nil {
		t.Fatalf("RunObserved failed: %v", err)
	}
	if len(z) != sol.Len() || z[len(z)-1] != s.FiberLength {
		t.Errorf("observed %d snapshots ending at %g, want %d ending at %g", len(z), z[len(z)-1], sol.Len(), s.FiberLength)
	}
}

func TestSolver_FixedStepMatchesAdaptive(t *testing.T) {
	s := solitonSetup(t, 1)
	s.RTol, s.ATol = 1e-9, 1e-9

	adaptive, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want, err := adaptive.Run(context.Background())
	if err != nil {
		t.Fatalf("adaptive Run failed: %v", err)
	}

	fixed, err := New(s, WithFixedStep(s.FiberLength/100))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := fixed.Run(context.Background())
	if err != nil {
		t.Fatalf("fixed-step Run failed: %v", err)
	}

	if got.Stats.Accepted != 100 || got.Stats.Rejected != 0 {
		t.Errorf("stats = %+v, want 100 accepted and none rejected", got.Stats)
	}
	if got.Stats.Evaluations != 4*got.Stats.Accepted {
		t.Errorf("evaluations = %d, want %d", got.Stats.Evaluations, 4*got.Stats.Accepted)
	}

	a, b := mustField(t, got, got.Len()-1).Intensity(), mustField(t, want, want.Len()-1).Intensity()
	if d := relativeL2(a, b); d > 1e-4 {
		t.Errorf("fixed-step result differs from adaptive by %e", d)
	}
}

func TestSolver_ZeroPowerWithRelativeToleranceOnly(t *testing.T) {
	s := solitonSetup(t, 1)
	pulse, err := impulse.NewSech(0, 0.050)
	if err != nil {
		t.Fatalf("NewSech: %v", err)
	}
	s.Impulse = pulse
	s.RTol, s.ATol = 1e-6, 0

	solver, err := New(s)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sol, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if e := sol.Last().At.Energy(1); e != 0 {
		t.Errorf("zero pulse gained energy %g", e)
	}
	if sol.Stats.Rejected != 0 {
		t.Errorf("rejected %d steps on a zero field", sol.Stats.Rejected)
	}
}

func TestSolver_ConcurrentRunsShareSolver(t *testing.T) {
	solver, err := New(solitonSetup(t, 0.5))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want, err := solver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	const runs = 4
	results := make([]*Solution, runs)
	errs := make([]error, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = solver.Run(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("run %d failed: %v", i, errs[i])
		}
		if d := results[i].Last().AW.MaxAbsDiff(want.Last().AW); d != 0 {
			t.Errorf("run %d differs from the sequential run by %e", i, d)
		}
	}
}
