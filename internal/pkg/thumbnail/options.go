package thumbnail

import "github.com/fredbi/symptoms/internal/pkg/graph"

// Option to tune thumbnail rendering.
type Option func(*options)

type options struct {
	Width     int
	Height    int
	ShowTitle bool
	Settings  graph.Settings
}

const (
	defaultWidth  = 320
	defaultHeight = 160
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Width:    defaultWidth,
		Height:   defaultHeight,
		Settings: graph.DefaultSettings(),
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithSize sets the size of the image, in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.Width = width
		}
		if height > 0 {
			o.Height = height
		}
	}
}

// WithTitle draws the chart name above the graph.
func WithTitle(enabled bool) Option {
	return func(o *options) {
		o.ShowTitle = enabled
	}
}

// WithSettings sets the graph settings used for stroke width, point radius and fill opacity.
func WithSettings(s graph.Settings) Option {
	return func(o *options) {
		o.Settings = s
	}
}
