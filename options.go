package tickfsm

import "log/slog"

// Logger is the default logger used when none is provided.
var Logger = slog.Default()

type options struct {
	logger   *slog.Logger
	maxChain int
}

// Option configures a Machine.
type Option func(*options)

// WithLogger sets the logger transitions are reported to. Nil loggers are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxChain bounds the number of transitions a single Update may settle. Once exceeded, Update returns
// ErrChainLimitExceeded. Zero or a negative value means unbounded, which is the default.
//
// Intended for tests and diagnostics: a chain of Init callbacks that never settles otherwise hangs Update.
func WithMaxChain(n int) Option {
	return func(o *options) {
		o.maxChain = n
	}
}
