package graph

// Settings are the rendering parameters shared by both views.
type Settings struct {
	// DayWidth is the minimum horizontal distance between two consecutive days, in pixels.
	DayWidth float64

	// ViewportWidth is the measured width available to the graph. When the data spans fewer
	// pixels, days are stretched to fill it. Zero means unknown.
	ViewportWidth float64

	Height       float64
	MarginTop    float64
	MarginBottom float64
	AxisWidth    float64

	Smoothing     float64
	StrokeWidth   float64
	PointRadius   float64
	TopOpacity    float64
	BottomOpacity float64

	// DimmedOpacity applies to the other data sets while one is selected.
	DimmedOpacity float64
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		DayWidth:      20,
		Height:        300,
		MarginTop:     20,
		MarginBottom:  30,
		AxisWidth:     40,
		Smoothing:     0.1,
		StrokeWidth:   2,
		PointRadius:   3,
		TopOpacity:    0.8,
		BottomOpacity: 0.1,
		DimmedOpacity: 0.3,
	}
}

// withDefaults replaces unusable values by their defaults.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()

	if s.DayWidth <= 0 {
		s.DayWidth = d.DayWidth
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.MarginTop < 0 {
		s.MarginTop = d.MarginTop
	}
	if s.MarginBottom < 0 {
		s.MarginBottom = d.MarginBottom
	}
	if s.Height-s.MarginTop-s.MarginBottom <= 0 {
		s.MarginTop, s.MarginBottom = 0, 0
	}
	if s.AxisWidth <= 0 {
		s.AxisWidth = d.AxisWidth
	}
	if s.Smoothing < 0 {
		s.Smoothing = d.Smoothing
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = d.StrokeWidth
	}
	if s.PointRadius <= 0 {
		s.PointRadius = d.PointRadius
	}
	if s.TopOpacity <= 0 && s.BottomOpacity <= 0 {
		s.TopOpacity, s.BottomOpacity = d.TopOpacity, d.BottomOpacity
	}
	if s.DimmedOpacity <= 0 || s.DimmedOpacity > 1 {
		s.DimmedOpacity = d.DimmedOpacity
	}

	return s
}
