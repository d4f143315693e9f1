package gnlse

import "log/slog"

// Option customizes a Solver.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	minStep  float64
	maxSteps int
	safety   float64
	minScale float64
	maxScale float64

	fixedStep float64
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.DiscardHandler),
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// WithLogger routes step diagnostics to l. Rejections are logged at debug
// level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMinStep raises the step-size floor below which a rejected step is
// reported as divergence. The floor never drops below 16 ulp of the fiber
// length.
func WithMinStep(h float64) Option {
	return func(o *options) { o.minStep = h }
}

// WithMaxSteps bounds the number of step attempts; 0 means unlimited.
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// WithStepControl overrides the controller constants: the safety factor and
// the smallest and largest step-size ratio between attempts.
func WithStepControl(safety, minScale, maxScale float64) Option {
	return func(o *options) {
		o.safety, o.minScale, o.maxScale = safety, minScale, maxScale
	}
}

// WithFixedStep replaces the adaptive Dormand-Prince controller with
// classical RK4 at step h, shortened only to land on save points. Tolerances
// are ignored in this mode.
func WithFixedStep(h float64) Option {
	return func(o *options) { o.fixedStep = h }
}
