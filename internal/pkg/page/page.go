// Package page assembles the static HTML page of the interactive graphs: for each line chart,
// a frozen y-axis next to a horizontally scrolling line graph that opens on today.
package page

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1em; background: #ffffff; }
.chart { margin-bottom: 2em; }
.chart-body { display: flex; }
.chart-axis { position: sticky; left: 0; flex: none; background: #ffffff; }
.chart-scroll { overflow-x: auto; flex: auto; }
.data-set { cursor: pointer; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="today">{{.Today}}</p>
{{- range .Sections}}
<section class="chart" id="line-chart-{{.ID}}">
<h2>{{.Name}}</h2>
<div class="chart-body">
<div class="chart-axis">{{.YAxis}}</div>
<div class="chart-scroll">{{.Graph}}</div>
</div>
</section>
{{- else}}
<p class="empty">No line chart yet.</p>
{{- end}}
<script>
document.querySelectorAll(".chart-scroll").forEach(function (el) { el.scrollLeft = el.scrollWidth; });
</script>
</body>
</html>
`

var tmpl = template.Must(template.New("page").Parse(pageTemplate))

// Section is a rendered line chart.
type Section struct {
	ID    int
	Name  string
	YAxis template.HTML
	Graph template.HTML
}

// Page is the HTML page of a scenario.
type Page struct {
	Title    string
	Today    string
	Sections []Section
}

// Build renders the views of every chart of the scenario.
func Build(scenario *organizer.Scenario, s graph.Settings) (*Page, error) {
	l := slog.Default().With(slog.String("module", "page"))
	p := &Page{
		Title:    scenario.Title,
		Today:    scenario.Today.String(),
		Sections: make([]Section, 0, len(scenario.Charts)),
	}

	for _, view := range scenario.Charts {
		section, err := buildSection(view, s)
		if err != nil {
			return nil, err
		}

		p.Sections = append(p.Sections, section)
	}

	l.Info("built page", slog.Int("sections", len(p.Sections)))

	return p, nil
}

func buildSection(view organizer.ChartView, s graph.Settings) (Section, error) {
	yAxis, err := graph.ViewJustYAxis(view.Model, s)
	if err != nil {
		return Section{}, fmt.Errorf("rendering y-axis of line chart %q: %w", view.Name, err)
	}

	lineGraph, err := graph.ViewLineGraph(view.Model, s)
	if err != nil {
		return Section{}, fmt.Errorf("rendering line chart %q: %w", view.Name, err)
	}

	return Section{
		ID:    view.ID.Int(),
		Name:  view.Name,
		YAxis: template.HTML(yAxis),     //nolint:gosec // produced by the graph templates
		Graph: template.HTML(lineGraph), //nolint:gosec // produced by the graph templates
	}, nil
}

// Render writes the page HTML to the given writer.
func (p *Page) Render(w io.Writer) error {
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}

	return nil
}
