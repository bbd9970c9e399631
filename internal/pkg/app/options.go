package app

import (
	"context"
	"log/slog"
	"time"
)

// Option tunes an [App].
type Option func(*options)

type options struct {
	logger *slog.Logger
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

// WithLogger sets the logger of the application and of the data it loads.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			return
		}

		o.logger = l
	}
}

// Measurer measures the width available to the graphs.
type Measurer interface {
	Measure(ctx context.Context) (float64, error)
}

// MeasurerFunc adapts a function to a [Measurer].
type MeasurerFunc func(ctx context.Context) (float64, error)

// Measure implements [Measurer].
func (f MeasurerFunc) Measure(ctx context.Context) (float64, error) {
	return f(ctx)
}

// DriverOption tunes a [Driver].
type DriverOption func(*driverOptions)

type driverOptions struct {
	measurer Measurer
	interval time.Duration
	buffer   int
	onError  func(error)
	logger   *slog.Logger
}

const (
	defaultInterval = 500 * time.Millisecond
	defaultBuffer   = 16
)

func driverOptionsWithDefaults(opts []DriverOption) driverOptions {
	o := driverOptions{
		interval: defaultInterval,
		buffer:   defaultBuffer,
		onError:  func(error) {},
		logger:   slog.Default(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithMeasurer sets the measurer resolving [Measure] effects. Without one, measurements are
// never taken and the graphs keep their minimal width.
func WithMeasurer(m Measurer) DriverOption {
	return func(o *driverOptions) {
		o.measurer = m
	}
}

// WithThrottle sets the minimal interval between two snapshot writes.
//
// Defaults to 500ms.
func WithThrottle(interval time.Duration) DriverOption {
	return func(o *driverOptions) {
		if interval < 0 {
			return
		}

		o.interval = interval
	}
}

// WithBuffer sets the capacity of the event queues.
func WithBuffer(size int) DriverOption {
	return func(o *driverOptions) {
		if size <= 0 {
			return
		}

		o.buffer = size
	}
}

// WithErrorHandler sets a callback receiving the errors reported by the application.
func WithErrorHandler(fn func(error)) DriverOption {
	return func(o *driverOptions) {
		if fn == nil {
			return
		}

		o.onError = fn
	}
}

// WithDriverLogger sets the logger of a [Driver].
func WithDriverLogger(l *slog.Logger) DriverOption {
	return func(o *driverOptions) {
		if l == nil {
			return
		}

		o.logger = l
	}
}
