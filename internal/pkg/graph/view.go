package graph

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
)

const lineGraphTemplate = `<svg xmlns="http://www.w3.org/2000/svg" class="line-graph" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
<defs>
{{- range .Series}}{{if .Fill}}
<linearGradient id="{{.GradientID}}" x1="0" y1="0" x2="0" y2="1"><stop offset="0%" stop-color="{{.TopColour}}"/><stop offset="100%" stop-color="{{.BottomColour}}"/></linearGradient>
{{- end}}{{end}}
</defs>
<g class="grid">
{{- range .YTicks}}
<line class="value" x1="0" y1="{{num .Y}}" x2="{{num $.Width}}" y2="{{num .Y}}" stroke="#e5e7eb"/>
{{- end}}
{{- range .XTicks}}
<line class="day" x1="{{num .X}}" y1="{{num $.Top}}" x2="{{num .X}}" y2="{{num .Y}}" stroke="#e5e7eb"/>
{{- end}}
</g>
<g class="x-axis">
{{- range .XTicks}}
<text x="{{num .X}}" y="{{num $.LabelY}}" text-anchor="{{.Anchor}}" font-size="10">{{.Label}}</text>
{{- end}}
</g>
{{- range .Series}}
<g class="data-set{{if .Selected}} selected{{end}}{{if .Hovered}} hovered{{end}}" data-dataset="{{.ID}}" data-name="{{.Name}}" opacity="{{num .Opacity}}">
{{- if .Fill}}
<path d="{{.Path}}" fill="url(#{{.GradientID}})" stroke="{{.Colour}}" stroke-width="{{num $.StrokeWidth}}" data-dataset="{{.ID}}"/>
{{- else}}
<path d="{{.Path}}" fill="none" stroke="{{.Colour}}" stroke-width="{{num $.StrokeWidth}}" data-dataset="{{.ID}}"/>
{{- end}}
{{- range .Points}}
<circle class="point{{if .Selected}} selected{{end}}" cx="{{num .X}}" cy="{{num .Y}}" r="{{num .Radius}}" fill="{{$.Background}}" stroke="{{.Colour}}" data-dataset="{{.DataSet}}" data-day="{{.Day}}"/>
{{- if .Selected}}
<text class="point-value" x="{{num .X}}" y="{{num .LabelY}}" text-anchor="middle" font-size="11">{{.Value}}</text>
{{- end}}
{{- end}}
</g>
{{- end}}
</svg>
`

const yAxisTemplate = `<svg xmlns="http://www.w3.org/2000/svg" class="y-axis" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
{{- range .YTicks}}
<line class="y-tick" x1="{{num $.TickStart}}" y1="{{num .Y}}" x2="{{num $.Width}}" y2="{{num .Y}}" stroke="#9ca3af"/>
<text x="{{num $.LabelX}}" y="{{num .Y}}" dy="4" text-anchor="{{.Anchor}}" font-size="10">{{.Label}}</text>
{{- end}}
<line class="y-axis-line" x1="{{num .Width}}" y1="{{num .Top}}" x2="{{num .Width}}" y2="{{num .Baseline}}" stroke="#9ca3af"/>
</svg>
`

var templates = template.Must(template.New("graph").Funcs(template.FuncMap{
	"num": formatValue,
}).Parse(`{{define "line"}}` + lineGraphTemplate + `{{end}}{{define "yaxis"}}` + yAxisTemplate + `{{end}}`))

const tickLength = 6

// yAxisData contains all data needed to render the y-axis.
type yAxisData struct {
	Width     float64
	Height    float64
	Top       float64
	Baseline  float64
	TickStart float64
	LabelX    float64
	YTicks    []Tick
}

// lineGraphData contains all data needed to render the line graph.
type lineGraphData struct {
	Width       float64
	Height      float64
	Top         float64
	LabelY      float64
	StrokeWidth float64
	Background  string
	XTicks      []Tick
	YTicks      []Tick
	Series      []seriesData
}

type seriesData struct {
	ID           DataSetID
	Name         string
	Colour       string
	TopColour    string
	BottomColour string
	GradientID   string
	Path         string
	Fill         bool
	Opacity      float64
	Selected     bool
	Hovered      bool
	Points       []pointData
}

type pointData struct {
	X, Y     float64
	Radius   float64
	LabelY   float64
	Colour   string
	DataSet  DataSetID
	Day      int
	Value    string
	Selected bool
}

// ViewJustYAxis renders the y-axis alone, for display frozen beside a scrolling [ViewLineGraph].
// It always has 6 graduations.
func ViewJustYAxis(m Model, s Settings) ([]byte, error) {
	s = s.withDefaults()
	a := ComputeAxis(m, s)

	data := yAxisData{
		Width:     s.AxisWidth,
		Height:    a.Height,
		Top:       a.Y(a.MaxValue),
		Baseline:  a.Baseline(),
		TickStart: s.AxisWidth - tickLength,
		LabelX:    s.AxisWidth - tickLength - 2,
		YTicks:    YTicks(a),
	}

	return render("yaxis", data)
}

// ViewLineGraph renders the data sets of the model in [PaintOrder].
//
// Series are filled with a vertical gradient of their colour when the model fills lines, and
// stroked otherwise. While a series is selected the others are dimmed. Points are drawn when the
// model shows points, and always for the selected series.
func ViewLineGraph(m Model, s Settings) ([]byte, error) {
	s = s.withDefaults()
	a := ComputeAxis(m, s)

	data := lineGraphData{
		Width:       a.Width,
		Height:      a.Height,
		Top:         a.Y(a.MaxValue),
		LabelY:      a.Baseline() + s.MarginBottom/2 + 4,
		StrokeWidth: s.StrokeWidth,
		Background:  "#ffffff",
		XTicks:      XTicks(a),
		YTicks:      YTicks(a),
	}

	for _, ds := range PaintOrder(m) {
		data.Series = append(data.Series, seriesView(m, s, a, ds))
	}

	return render("line", data)
}

func seriesView(m Model, s Settings, a Axis, ds DataSet) seriesData {
	selected := m.Selected != nil && *m.Selected == ds.ID
	hovered := m.Hovered != nil && *m.Hovered == ds.ID

	plotted := PlotPoints(a, ds.Points)
	positions := make([]Point, len(plotted))
	for i, p := range plotted {
		positions[i] = p.Point
	}

	out := seriesData{
		ID:           ds.ID,
		Name:         ds.Name,
		Colour:       ds.Colour.Hex(),
		TopColour:    ds.Colour.RGBA(s.TopOpacity),
		BottomColour: ds.Colour.RGBA(s.BottomOpacity),
		GradientID:   "gradient-" + strconv.Itoa(int(ds.ID)),
		Fill:         m.FillLines,
		Opacity:      1,
		Selected:     selected,
		Hovered:      hovered,
	}

	if m.FillLines {
		out.Path = FillPath(positions, s.Smoothing, a.Baseline())
	} else {
		out.Path = SmoothPath(positions, s.Smoothing)
	}

	if m.Selected != nil && !selected {
		out.Opacity = s.DimmedOpacity
	}

	if !m.ShowPoints && !selected {
		return out
	}

	for _, p := range plotted {
		isSelected := m.SelectedPoint != nil && m.SelectedPoint.DataSet == ds.ID && m.SelectedPoint.Day == p.Day
		radius := s.PointRadius
		if isSelected {
			radius *= 2
		}

		out.Points = append(out.Points, pointData{
			X:        p.X,
			Y:        p.Y,
			Radius:   radius,
			LabelY:   p.Y - radius - 4,
			Colour:   out.Colour,
			DataSet:  ds.ID,
			Day:      int(p.Day),
			Value:    formatValue(p.Value),
			Selected: isSelected,
		})
	}

	return out
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}

	return buf.Bytes(), nil
}
