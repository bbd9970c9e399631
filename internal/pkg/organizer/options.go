package organizer

import "log/slog"

// Option configures an [Organizer].
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report skipped data sets.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		logger: slog.Default(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
