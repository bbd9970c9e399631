package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fredbi/symptoms/internal/pkg/colour"
)

const (
	defaultFontSize    = 12
	defaultFillOpacity = 0.3
	xAxisLabelAngle    = 30
)

// Series represents a named, coloured line with one slot per X-axis label.
//
// A nil value marks a day without data.
type Series struct {
	Name   string
	Colour colour.Colour
	Data   []echartsopts.LineData
}

// Chart represents a line chart of tracked data.
type Chart struct {
	options

	Series []Series
}

// NewChart creates a new chart.
func NewChart(opts ...Option) *Chart {
	return &Chart{
		options: optionsWithDefaults(opts),
	}
}

// AddSeries adds a named data series to the chart. Values are aligned with the X-axis labels.
func (c *Chart) AddSeries(name string, col colour.Colour, values []*float64) {
	data := make([]echartsopts.LineData, 0, len(values))
	for i, v := range values {
		point := echartsopts.LineData{Name: labelAt(c.XAxisLabels, i)}
		if v != nil {
			point.Value = *v
		}
		data = append(data, point)
	}

	c.Series = append(c.Series, Series{Name: name, Colour: col, Data: data})
}

// Build creates the ECharts line chart from the accumulated configuration.
func (c *Chart) Build() *charts.Line {
	line := charts.NewLine()

	titleOpts := echartsopts.Title{
		Title: c.Title,
	}
	if c.Subtitle != "" {
		titleOpts.Subtitle = c.Subtitle
		titleOpts.SubtitleStyle = &echartsopts.TextStyle{
			FontStyle: "italic",
			FontSize:  defaultFontSize,
		}
	}

	legendOpts := echartsopts.Legend{
		Show: echartsopts.Bool(c.ShowLegend),
	}
	if c.ShowLegend {
		legendOpts.X = "right"
		legendOpts.Y = "bottom"
	}

	toolboxOpts := echartsopts.Toolbox{
		Left: "right",
		Feature: &echartsopts.ToolBoxFeature{
			SaveAsImage: &echartsopts.ToolBoxFeatureSaveAsImage{
				Title: "Save as image",
			},
		},
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(echartsopts.Initialization{Theme: c.Theme}),
		charts.WithToolboxOpts(toolboxOpts),
		charts.WithTitleOpts(titleOpts),
		charts.WithLegendOpts(legendOpts),
		charts.WithGridOpts(echartsopts.Grid{
			Bottom: "100",
			Top:    "100",
		}),
		charts.WithXAxisOpts(echartsopts.XAxis{
			Type: "category",
			AxisLabel: &echartsopts.AxisLabel{
				Rotate:       xAxisLabelAngle,
				ShowMinLabel: echartsopts.Bool(true),
				ShowMaxLabel: echartsopts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Type: "value",
			Min:  0,
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show:    echartsopts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(echartsopts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	line.SetXAxis(c.XAxisLabels)

	for _, s := range c.Series {
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(echartsopts.LineChart{
				Smooth:       echartsopts.Bool(true),
				ShowSymbol:   echartsopts.Bool(c.ShowPoints),
				ConnectNulls: echartsopts.Bool(true),
			}),
			charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: s.Colour.Hex()}),
		}
		if c.FillLines {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(echartsopts.AreaStyle{
				Color:   s.Colour.Hex(),
				Opacity: echartsopts.Float(c.FillOpacity),
			}))
		}

		line.AddSeries(s.Name, s.Data, seriesOpts...)
	}

	return line
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}

	return ""
}
