package batch

import "log/slog"

// ProgressFunc is invoked once per finished item, success or failure.
// completed grows by one on every call and equals total on the last one.
type ProgressFunc func(completed, total int)

// Strategy selects how the runner keeps K workers busy.
type Strategy int

const (
	// Waves starts items in consecutive groups of K and waits for the whole
	// group before starting the next one. A slow item delays the next group.
	Waves Strategy = iota

	// Pipelined starts the next item as soon as any in-flight item finishes,
	// keeping up to K invocations running at all times.
	Pipelined
)

// String returns the strategy name used in logs and configuration.
func (s Strategy) String() string {
	switch s {
	case Pipelined:
		return "pipelined"
	default:
		return "waves"
	}
}

// ParseStrategy maps a configuration value to a Strategy.
// Unknown values fall back to Waves.
func ParseStrategy(name string) Strategy {
	if name == "pipelined" {
		return Pipelined
	}
	return Waves
}

// Option configures a single Run invocation.
type Option func(*runOptions)

type runOptions struct {
	progress ProgressFunc
	strategy Strategy
	logger   *slog.Logger
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *runOptions) {
		o.progress = fn
	}
}

// WithStrategy selects the scheduling strategy. The default is Waves.
func WithStrategy(s Strategy) Option {
	return func(o *runOptions) {
		o.strategy = s
	}
}

// WithLogger sets the logger used to report progress callback failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) runOptions {
	o := runOptions{
		strategy: Waves,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
