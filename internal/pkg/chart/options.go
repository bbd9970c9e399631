package chart

// ThemeWesteros is the default echarts theme.
const ThemeWesteros = "westeros"

// Option configures a [Chart].
type Option func(*options)

type options struct {
	Title       string
	Subtitle    string
	XAxisLabels []string
	Theme       string
	ShowLegend  bool
	ShowPoints  bool
	FillLines   bool
	FillOpacity float32
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *options) {
		c.Title = title
	}
}

// WithSubtitle sets the chart subtitle (typically the day range).
func WithSubtitle(subtitle string) Option {
	return func(c *options) {
		c.Subtitle = subtitle
	}
}

// WithTheme sets the echarts theme.
func WithTheme(theme string) Option {
	return func(c *options) {
		if theme != "" {
			c.Theme = theme
		}
	}
}

// WithLegend enables or disables the legend.
func WithLegend(show bool) Option {
	return func(c *options) {
		c.ShowLegend = show
	}
}

// WithXAxisLabels sets the day labels of the X-axis.
func WithXAxisLabels(xlabels []string) Option {
	return func(c *options) {
		c.XAxisLabels = xlabels
	}
}

// WithPoints shows a symbol on every answered day.
func WithPoints(enabled bool) Option {
	return func(c *options) {
		c.ShowPoints = enabled
	}
}

// WithFillLines fills the area under each series with the given opacity.
func WithFillLines(enabled bool, opacity float64) Option {
	return func(c *options) {
		c.FillLines = enabled
		c.FillOpacity = float32(opacity)
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		Theme:       ThemeWesteros,
		ShowLegend:  true,
		FillOpacity: defaultFillOpacity,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
