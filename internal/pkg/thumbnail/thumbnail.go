// Package thumbnail draws a small static PNG of a line chart.
package thumbnail

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
)

// ErrNothingToDraw is returned when a chart has no visible data.
var ErrNothingToDraw = errors.New("nothing to draw")

const (
	axisFontSize = 8.0
	titleSize    = 10.0
	maxAlpha     = 255
)

// Render draws the visible data sets of a chart as PNG, on the same day and value ranges as
// the interactive graph.
func Render(w io.Writer, view organizer.ChartView, opts ...Option) error {
	o := optionsWithDefaults(opts)

	axis := graph.ComputeAxis(view.Model, o.Settings)
	series := make([]chart.Series, 0, len(view.Model.DataSets))

	// go-chart paints in slice order: the data set listed first goes last
	visible := view.Model.VisibleDataSets()
	slices.Reverse(visible)
	for _, ds := range visible {
		if s, ok := seriesOf(ds, view.Model, o); ok {
			series = append(series, s)
		}
	}

	if len(series) == 0 {
		return fmt.Errorf("line chart %q: %w", view.Name, ErrNothingToDraw)
	}

	minX := float64(axis.Start)
	if axis.Days() == 0 {
		minX--
	}

	ch := chart.Chart{
		Width:  o.Width,
		Height: o.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 10, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: axisFontSize},
			Range: &chart.ContinuousRange{Min: minX, Max: float64(axis.End)},
			Ticks: xTicks(axis),
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: axisFontSize},
			Range: &chart.ContinuousRange{Min: 0, Max: axis.MaxValue},
			Ticks: yTicks(axis),
		},
		Series: series,
	}

	if o.ShowTitle {
		ch.Title = view.Name
		ch.TitleStyle = chart.Style{FontSize: titleSize}
	}

	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering thumbnail of line chart %q: %w", view.Name, err)
	}

	return nil
}

func seriesOf(ds graph.DataSet, m graph.Model, o options) (chart.ContinuousSeries, bool) {
	if len(ds.Points) == 0 {
		return chart.ContinuousSeries{}, false
	}

	days := make([]day.Day, 0, len(ds.Points))
	for d := range ds.Points {
		days = append(days, d)
	}
	slices.Sort(days)

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = float64(d)
		ys[i] = ds.Points[d]
	}

	col := ds.Colour.Drawing()
	style := chart.Style{
		StrokeColor: col,
		StrokeWidth: o.Settings.StrokeWidth,
	}
	if m.FillLines {
		style.FillColor = col.WithAlpha(uint8(o.Settings.BottomOpacity * maxAlpha))
	}
	if m.ShowPoints {
		style.DotColor = col
		style.DotWidth = o.Settings.PointRadius
	}

	return chart.ContinuousSeries{
		Name:    ds.Name,
		XValues: xs,
		YValues: ys,
		Style:   style,
	}, true
}

func xTicks(a graph.Axis) []chart.Tick {
	ticks := graph.XTicks(a)
	out := make([]chart.Tick, 0, len(ticks))
	for _, t := range ticks {
		d := a.Start.Add(int(t.X/a.XStep + 0.5))
		out = append(out, chart.Tick{Value: float64(d), Label: t.Label})
	}

	return out
}

func yTicks(a graph.Axis) []chart.Tick {
	ticks := graph.YTicks(a)
	out := make([]chart.Tick, 0, len(ticks))
	for i, t := range ticks {
		out = append(out, chart.Tick{Value: float64(i) * a.ValueStep, Label: t.Label})
	}

	return out
}
