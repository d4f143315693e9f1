package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	logger  = slog.New(slog.NewTextHandler(os.Stderr, nil))

	configFile     string
	resolution     int
	timeWindow     float64
	zSaves         int
	rtol           float64
	atol           float64
	wavelength     float64
	gamma          float64
	fiberLength    float64
	loss           float64
	betas          []float64
	pulseType      string
	power          float64
	fwhm           float64
	solitonOrder   float64
	ramanModel     string
	selfSteepening bool

	showProgress  bool
	fixedStep     float64
	solitonOrders []float64
	spectrumCSV   bool
	benchSizes    []int
)

// main registers the commands and runs the CLI, exiting with status 1 on
// any command error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gnlse",
		Short:        "nonlinear pulse propagation in optical fibers",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gnlse", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "propagate a pulse and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}
	addSetupFlags(runCmd)
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress view")
	runCmd.Flags().Float64Var(&fixedStep, "fixed-step", 0, "fixed RK4 step (m), 0 for adaptive stepping")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset at several soliton orders in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSetupFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&solitonOrders, "soliton-orders", []float64{1, 2, 3}, "soliton orders to sweep")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run parameters and pulse diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().Delete(args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the intensity (or spectrum) table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportCSV(cmd.OutOrStdout(), args[0], spectrumCSV)
		},
	}
	exportCSVCmd.Flags().BoolVar(&spectrumCSV, "spectrum", false, "export the spectrum instead of the intensity")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [file] [preset]",
		Short: "write a preset as a YAML config file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeConfig,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the solver at several resolutions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSolver,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{512, 1024, 2048, 4096}, "grid resolutions")

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, showCmd, deleteCmd, exportJSONCmd, exportCSVCmd, presetsCmd, initCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSetupFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.IntVar(&resolution, "resolution", 0, "number of grid points")
	f.Float64Var(&timeWindow, "window", 0, "time window (ps)")
	f.IntVar(&zSaves, "zsaves", 0, "number of saved distances")
	f.Float64Var(&rtol, "rtol", 0, "relative tolerance")
	f.Float64Var(&atol, "atol", 0, "absolute tolerance")
	f.Float64Var(&wavelength, "wavelength", 0, "carrier wavelength (nm)")
	f.Float64Var(&gamma, "gamma", 0, "nonlinearity (1/W/m)")
	f.Float64Var(&fiberLength, "length", 0, "fiber length (m)")
	f.Float64Var(&loss, "loss", 0, "fiber loss (dB/m)")
	f.Float64SliceVar(&betas, "beta", nil, "dispersion coefficient beta2, beta3, ... (ps^n/m), repeatable")
	f.StringVar(&pulseType, "pulse", "", "pulse shape: gaussian, sech, lorentzian")
	f.Float64Var(&power, "power", 0, "peak power (W)")
	f.Float64Var(&fwhm, "fwhm", 0, "pulse duration FWHM (ps)")
	f.Float64Var(&solitonOrder, "soliton-order", 0, "set the power from a soliton order")
	f.StringVar(&ramanModel, "raman", "", "raman model: none, blowwood, linagrawal")
	f.BoolVar(&selfSteepening, "self-steepening", false, "enable self-steepening")
}
