package store

import (
	"log/slog"
	"time"
)

// Option tunes a [DiskStore].
type Option func(*options)

type options struct {
	cacheSize uint64
	debounce  time.Duration
}

const (
	defaultCacheSize uint64 = 1024 * 1024 // 1MB
	defaultDebounce         = 100 * time.Millisecond
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		cacheSize: defaultCacheSize,
		debounce:  defaultDebounce,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithCacheSize sets the size of the diskv read cache.
//
// Defaults to 1MB.
func WithCacheSize(size uint64) Option {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithDebounce sets the delay used to coalesce bursts of file system notifications.
//
// Defaults to 100ms.
func WithDebounce(delay time.Duration) Option {
	return func(o *options) {
		if delay <= 0 {
			return
		}

		o.debounce = delay
	}
}

// ThrottleOption tunes a [Throttle].
type ThrottleOption func(*throttleOptions)

type throttleOptions struct {
	onError func(error)
	logger  *slog.Logger
}

func throttleOptionsWithDefaults(opts []ThrottleOption) throttleOptions {
	o := throttleOptions{
		onError: func(error) {},
		logger:  slog.Default().With(slog.String("module", "throttle")),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithErrorHandler sets a callback receiving the errors of background (trailing) flushes.
func WithErrorHandler(fn func(error)) ThrottleOption {
	return func(o *throttleOptions) {
		if fn == nil {
			return
		}

		o.onError = fn
	}
}

// WithThrottleLogger sets the logger of a [Throttle].
func WithThrottleLogger(l *slog.Logger) ThrottleOption {
	return func(o *throttleOptions) {
		if l == nil {
			return
		}

		o.logger = l
	}
}
