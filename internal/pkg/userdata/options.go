package userdata

import "log/slog"

// Option tunes a [UserData].
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		logger: slog.Default().With(slog.String("module", "userdata")),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithLogger sets the logger used to report rejected updates.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			return
		}

		o.logger = l
	}
}
