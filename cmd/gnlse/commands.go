package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gnlse/internal/analysis"
	"github.com/san-kum/gnlse/internal/config"
	"github.com/san-kum/gnlse/internal/gnlse"
	"github.com/san-kum/gnlse/internal/impulse"
	"github.com/san-kum/gnlse/internal/metrics"
	"github.com/san-kum/gnlse/internal/storage"
	"github.com/san-kum/gnlse/internal/tui"
)

func openStore() *storage.Store {
	return storage.New(dataDir)
}

// resolveConfig starts from the named preset (soliton by default), replaces
// it with --config when given, then applies every flag set on the command
// line. The returned label names the run.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	label := "soliton"
	if len(args) > 0 {
		label = args[0]
	}
	cfg := config.GetPreset(label)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %s)", label, strings.Join(config.ListPresets(), ", "))
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		label = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if flags.Changed("window") {
		cfg.TimeWindow = timeWindow
	}
	if flags.Changed("zsaves") {
		cfg.ZSaves = zSaves
	}
	if flags.Changed("rtol") {
		cfg.RTol = rtol
	}
	if flags.Changed("atol") {
		cfg.ATol = atol
	}
	if flags.Changed("wavelength") {
		cfg.Wavelength = wavelength
	}
	if flags.Changed("gamma") {
		cfg.Nonlinearity = gamma
	}
	if flags.Changed("length") {
		cfg.FiberLength = fiberLength
	}
	if flags.Changed("loss") {
		cfg.Dispersion.Loss = loss
	}
	if flags.Changed("beta") {
		cfg.Dispersion.Betas = append([]float64(nil), betas...)
	}
	if flags.Changed("pulse") {
		cfg.Impulse.Type = pulseType
	}
	if flags.Changed("power") {
		cfg.Impulse.Power = power
		cfg.Impulse.SolitonOrder = 0
	}
	if flags.Changed("fwhm") {
		cfg.Impulse.FWHM = fwhm
	}
	if flags.Changed("soliton-order") {
		cfg.Impulse.SolitonOrder = solitonOrder
	}
	if flags.Changed("raman") {
		cfg.Raman.Model = ramanModel
	}
	if flags.Changed("self-steepening") {
		cfg.SelfSteepening = selfSteepening
	}

	return cfg, label, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	setup, err := cfg.Setup()
	if err != nil {
		return err
	}

	opts := []gnlse.Option{gnlse.WithLogger(logger)}
	if fixedStep > 0 {
		opts = append(opts, gnlse.WithFixedStep(fixedStep))
	}
	solver, err := gnlse.New(setup, opts...)
	if err != nil {
		return err
	}

	g := solver.Grid()
	tracked := metrics.Standard(g.Dt(), g.Omega(), setup.Carrier())
	observe := func(snap gnlse.Snapshot) {
		tracked.Observe(snap.Z, snap.At, snap.AW)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("starting run", "label", label, "resolution", setup.Resolution, "length", setup.FiberLength)
	start := time.Now()
	var sol *gnlse.Solution
	if showProgress {
		sol, err = tui.Run(ctx, label, solver, observe)
	} else {
		sol, err = solver.RunObserved(ctx, observe)
	}
	if err != nil {
		return fmt.Errorf("propagation failed: %w", err)
	}
	elapsed := time.Since(start)

	values := tracked.Values()
	runID, err := openStore().Save(label, setup, sol, values, elapsed)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return printSummary(cmd.OutOrStdout(), runID, sol, values, elapsed)
}

type pulseStats struct {
	energy, peak, fwhm float64
}

func statsOf(t, intensity []float64, dt float64) pulseStats {
	peak, _ := analysis.PeakPower(intensity)
	return pulseStats{
		energy: analysis.Energy(intensity, dt),
		peak:   peak,
		fwhm:   analysis.FWHM(t, intensity),
	}
}

func printSummary(out io.Writer, runID string, sol *gnlse.Solution, values map[string]float64, elapsed time.Duration) error {
	t := sol.TimeAxis()
	first, err := sol.Field(0)
	if err != nil {
		return err
	}
	last := sol.Last()
	in, outStats := statsOf(t, first.Intensity(), sol.Dt()), statsOf(t, last.At.Intensity(), sol.Dt())

	w0, s0, err := sol.ShiftedSpectrum(0)
	if err != nil {
		return err
	}
	w1, s1, err := sol.ShiftedSpectrum(sol.Len() - 1)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %s saved to %s\n\n", runID, dataDir)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tINPUT\tOUTPUT")
	fmt.Fprintf(w, "z (m)\t0\t%.4g\n", last.Z)
	fmt.Fprintf(w, "energy (pJ)\t%.4g\t%.4g\n", in.energy, outStats.energy)
	fmt.Fprintf(w, "peak (W)\t%.4g\t%.4g\n", in.peak, outStats.peak)
	fmt.Fprintf(w, "fwhm (ps)\t%.4g\t%.4g\n", in.fwhm, outStats.fwhm)
	fmt.Fprintf(w, "centroid (rad/ps)\t%.4g\t%.4g\n", analysis.Centroid(w0, s0)-sol.Carrier(), analysis.Centroid(w1, s1)-sol.Carrier())
	fmt.Fprintf(w, "spectral rms (rad/ps)\t%.4g\t%.4g\n", analysis.SpectralRMSWidth(w0, s0), analysis.SpectralRMSWidth(w1, s1))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nsteps %d accepted, %d rejected, %d evaluations in %s\n",
		sol.Stats.Accepted, sol.Stats.Rejected, sol.Stats.Evaluations, elapsed.Round(time.Millisecond))
	printMetrics(out, values)
	return nil
}

func printMetrics(out io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %.4g\n", name, values[name])
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, label, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(solitonOrders) == 0 {
		return fmt.Errorf("no soliton orders given")
	}

	setups := make([]gnlse.Setup, len(solitonOrders))
	for i, n := range solitonOrders {
		c := cfg.Clone()
		c.Impulse.SolitonOrder = n
		setups[i], err = c.Setup()
		if err != nil {
			return fmt.Errorf("order %g: %w", n, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	sols, err := gnlse.Sweep(ctx, setups, gnlse.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	elapsed := time.Since(start)

	st := openStore()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tPOWER\tPEAK OUT\tFWHM OUT\tCENTROID\tSTEPS\tREJECTED")
	for i, sol := range sols {
		s := setups[i]
		t := sol.TimeAxis()
		last := sol.Last()
		outStats := statsOf(t, last.At.Intensity(), sol.Dt())
		w1, s1, err := sol.ShiftedSpectrum(sol.Len() - 1)
		if err != nil {
			return err
		}

		g := sol.OmegaAxis()
		tracked := metrics.Standard(sol.Dt(), g, sol.Carrier())
		for j := 0; j < sol.Len(); j++ {
			snap, err := sol.Snapshot(j)
			if err != nil {
				return err
			}
			tracked.Observe(snap.Z, snap.At, snap.AW)
		}

		runID, err := st.Save(fmt.Sprintf("%s_n%g", label, solitonOrders[i]), s, sol, tracked.Values(), elapsed)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		fmt.Fprintf(w, "%s\t%g\t%.4g\t%.4g\t%.4g\t%.4g\t%d\t%d\n",
			runID,
			solitonOrders[i],
			s.Impulse.Power(),
			outStats.peak,
			outStats.fwhm,
			analysis.Centroid(w1, s1)-sol.Carrier(),
			sol.Stats.Accepted,
			sol.Stats.Rejected,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d runs in %s\n", len(sols), elapsed.Round(time.Millisecond))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tPULSE\tLENGTH\tN\tSTEPS\tELAPSED")

	for _, run := range runs {
		p := run.Parameters
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4gm\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			p.Pulse,
			p.FiberLength,
			p.Resolution,
			run.Stats.Accepted,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := openStore()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	intensity, err := st.LoadIntensity(args[0])
	if err != nil {
		return err
	}
	spectrum, err := st.LoadSpectrum(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := meta.Parameters
	fmt.Fprintf(out, "run %s (%s) at %s\n\n", meta.ID, meta.Label, meta.Timestamp.Format(time.RFC3339))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "pulse\t%s, %.4g W, %.4g ps fwhm\n", p.Pulse, p.Power, p.FWHM)
	fmt.Fprintf(w, "fiber\t%.4g m, gamma %.4g 1/W/m, loss %.4g+%.4g dB/m\n", p.FiberLength, p.Nonlinearity, p.Loss, p.ExtraLoss)
	fmt.Fprintf(w, "dispersion\t%s %v\n", p.Dispersion, p.Betas)
	fmt.Fprintf(w, "raman\t%s, self-steepening %t\n", p.Raman, p.SelfSteepening)
	fmt.Fprintf(w, "grid\t%d points over %.4g ps, %d saves\n", p.Resolution, p.TimeWindow, p.ZSaves)
	fmt.Fprintf(w, "tolerance\trtol %.2g, atol %.2g\n", p.RTol, p.ATol)
	fmt.Fprintf(w, "steps\t%d accepted, %d rejected, %d evaluations\n", meta.Stats.Accepted, meta.Stats.Rejected, meta.Stats.Evaluations)
	if pulse, err := impulse.ByName(p.Pulse, p.Power, p.FWHM); err == nil && len(p.Betas) > 0 {
		t0, b2 := pulse.T0(), p.Betas[0]
		fmt.Fprintf(w, "scales\tL_D %.4g m, L_NL %.4g m, N %.3g\n",
			analysis.DispersionLength(t0, b2),
			analysis.NonlinearLength(p.Nonlinearity, p.Power),
			analysis.SolitonOrder(b2, p.Nonlinearity, t0, p.Power))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	dt := p.TimeWindow / float64(p.Resolution)
	fmt.Fprintln(w, "Z (m)\tENERGY (pJ)\tPEAK (W)\tFWHM (ps)\tRMS (ps)\tDELAY (ps)\tAC FWHM (ps)")
	for i, row := range intensity.Rows {
		if !sampled(i, len(intensity.Rows)) {
			continue
		}
		s := statsOf(intensity.Axis, row, dt)
		// the autocorrelation is centred on the middle sample, which is t = 0
		ac := analysis.FWHM(intensity.Axis, analysis.Autocorrelation(row))
		fmt.Fprintf(w, "%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			intensity.Z[i], s.energy, s.peak, s.fwhm,
			analysis.RMSWidth(intensity.Axis, row), analysis.Mean(intensity.Axis, row), ac)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Z (m)\tCENTROID (rad/ps)\tCENTROID (nm)\t-20 dB WIDTH (rad/ps)")
	w0 := 0.0
	if p.Wavelength > 0 {
		w0 = 2 * math.Pi * analysis.SpeedOfLight / p.Wavelength
	}
	for i, row := range spectrum.Rows {
		if !sampled(i, len(spectrum.Rows)) {
			continue
		}
		fmt.Fprintf(w, "%.4g\t%.4g\t%s\t%.4g\n",
			spectrum.Z[i],
			analysis.Centroid(spectrum.Axis, row),
			wavelengthCentroid(spectrum.Axis, row, w0),
			bandwidth(spectrum.Axis, analysis.Decibels(row, -100), -20))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(meta.Metrics) > 0 {
		fmt.Fprintln(out, "\nmetrics")
		printMetrics(out, meta.Metrics)
	}
	return nil
}

// sampled picks about ten rows of n, always including the first and last.
func sampled(i, n int) bool {
	return i == 0 || i == n-1 || i%max(1, n/10) == 0
}

// wavelengthCentroid is the power-weighted mean vacuum wavelength, or "-"
// without a carrier.
func wavelengthCentroid(omega, spectrum []float64, w0 float64) string {
	if w0 <= 0 {
		return "-"
	}
	var lambda, weight []float64
	for i, l := range analysis.Wavelengths(omega, w0) {
		if !math.IsInf(l, 0) {
			lambda = append(lambda, l)
			weight = append(weight, spectrum[i])
		}
	}
	return fmt.Sprintf("%.4g", analysis.Mean(lambda, weight))
}

// bandwidth is the distance between the outermost samples at or above level.
func bandwidth(omega, db []float64, level float64) float64 {
	lo, hi := -1, -1
	for i, v := range db {
		if v >= level {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 {
		return 0
	}
	return omega[hi] - omega[lo]
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPULSE\tFWHM\tPOWER\tLENGTH\tRAMAN")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		setup, err := cfg.Setup()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%.4gps\t%.4gW\t%.4gm\t%s\n",
			name,
			cfg.Impulse.Type,
			cfg.Impulse.FWHM,
			setup.Impulse.Power(),
			setup.FiberLength,
			cfg.Raman.Model,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	name := "soliton"
	if len(args) > 1 {
		name = args[1]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s preset to %s\n", name, args[0])
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	name := "soliton"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tSTEPS\tREJECTED\tEVALS\tTIME\tEVALS/SEC")

	for _, n := range benchSizes {
		c := cfg.Clone()
		c.Resolution = n
		c.ZSaves = 2
		setup, err := c.Setup()
		if err != nil {
			return err
		}
		solver, err := gnlse.New(setup, gnlse.WithLogger(logger))
		if err != nil {
			return err
		}

		start := time.Now()
		sol, err := solver.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("N=%d: %w", n, err)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%.0f\n",
			n,
			sol.Stats.Accepted,
			sol.Stats.Rejected,
			sol.Stats.Evaluations,
			elapsed.Round(time.Microsecond),
			float64(sol.Stats.Evaluations)/elapsed.Seconds(),
		)
	}

	return w.Flush()
}
