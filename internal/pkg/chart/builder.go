package chart

import (
	"log/slog"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
)

// Builder constructs charts from a scenario of line charts.
type Builder struct {
	cfg      *config.Config
	scenario *organizer.Scenario
	l        *slog.Logger
}

// New creates a new chart [Builder], given a [config.Config] and a pre-calculated [organizer.Scenario].
//
// The builder embeds a [slog.Logger] to croak about warnings and issues.
func New(cfg *config.Config, scenario *organizer.Scenario) *Builder {
	return &Builder{
		cfg:      cfg,
		scenario: scenario,
		l:        slog.Default().With(slog.String("module", "chart")),
	}
}

// BuildPage creates a page with one chart per line chart of the scenario.
func (b *Builder) BuildPage() *Page {
	page := NewPage(b.scenario.Title, components.Layout(b.cfg.Render.Layout))

	for _, view := range b.scenario.Charts {
		chart := b.BuildChart(view)
		if chart == nil {
			b.l.Warn("empty chart skipped", slog.Int("line_chart", view.ID.Int()))

			continue
		}

		page.AddChart(chart)
		b.l.Info("added chart", slog.Int("line_chart", view.ID.Int()))
	}

	b.l.Info("added charts", slog.Int("charts", len(page.Charts)))

	return page
}

// BuildChart creates the chart of a single line chart, with its visible data sets in
// stacking order. It returns nil when nothing is visible.
func (b *Builder) BuildChart(view organizer.ChartView) *Chart {
	visible := view.Model.VisibleDataSets()
	if len(visible) == 0 {
		return nil
	}

	axis := graph.ComputeAxis(view.Model, b.cfg.GraphSettings())
	days := make([]day.Day, 0, axis.Days()+1)
	labels := make([]string, 0, axis.Days()+1)
	for d := axis.Start; d <= axis.End; d++ {
		days = append(days, d)
		labels = append(labels, d.Label())
	}

	chart := NewChart(
		WithTitle(view.Name),
		WithSubtitle(axis.Start.String()+" to "+axis.End.String()),
		WithXAxisLabels(labels),
		WithTheme(b.cfg.Render.Theme),
		WithLegend(len(visible) > 1),
		WithPoints(view.Model.ShowPoints),
		WithFillLines(view.Model.FillLines, b.cfg.Render.TopOpacity),
	)

	for _, ds := range visible {
		values := make([]*float64, len(days))
		for i, d := range days {
			if v, ok := ds.Points[d]; ok {
				values[i] = &v
			}
		}

		chart.AddSeries(ds.Name, ds.Colour, values)

		b.l.Debug("added series",
			slog.Int("line_chart", view.ID.Int()),
			slog.String("data_set", ds.Name),
		)
	}

	return chart
}
