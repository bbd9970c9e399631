// Package organizer arranges user data into graph models, one per active line chart.
package organizer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// Organizer rearranges user data into a visualization [Scenario].
type Organizer struct {
	options

	cfg *config.Config
	l   *slog.Logger
}

// Scenario is the set of charts to render, in the order of the active line charts.
type Scenario struct {
	Name   string
	Title  string
	Today  day.Day
	Charts []ChartView
}

// Chart looks up a chart of the scenario.
func (s Scenario) Chart(id model.LineChartID) (ChartView, bool) {
	for _, c := range s.Charts {
		if c.ID == id {
			return c, true
		}
	}

	return ChartView{}, false
}

// ChartView is a line chart ready for rendering.
type ChartView struct {
	ID    model.LineChartID
	Name  string
	Model graph.Model
}

// New builds an [Organizer] ready to arrange user data.
func New(cfg *config.Config, opts ...Option) *Organizer {
	o := optionsWithDefaults(opts)

	return &Organizer{
		options: o,
		cfg:     cfg,
		l:       o.logger.With(slog.String("module", "organizer")),
	}
}

// Scenarize builds one chart view per active line chart.
//
// In strict mode, user data that had to be repaired while loading is refused.
func (v *Organizer) Scenarize(ud *userdata.UserData, today day.Day) (*Scenario, error) {
	if errs := ud.Errors(); len(errs) > 0 && v.cfg.IsStrict {
		err := fmt.Errorf("strict requirement not met: %w. Stopping here", errors.Join(errs...))
		v.l.Error("strict requirement not met", slog.Int("errors", len(errs)), slog.String("error", err.Error()))

		return nil, err
	}

	active := ud.ActiveLineCharts()
	scenario := &Scenario{
		Name:   v.cfg.Name,
		Title:  v.cfg.Title(),
		Today:  today,
		Charts: make([]ChartView, 0, len(active)),
	}

	for _, entry := range active {
		view, err := v.chartView(ud, entry.ID, entry.Value, today)
		if err != nil {
			return nil, err
		}

		scenario.Charts = append(scenario.Charts, view)
	}

	if len(scenario.Charts) == 0 {
		v.l.Warn("no line chart to render")
	}

	v.l.Info("resolved line charts", slog.Int("charts", len(scenario.Charts)))

	return scenario, nil
}

// ChartModel builds the chart view of a single line chart.
func (v *Organizer) ChartModel(ud *userdata.UserData, id model.LineChartID, today day.Day) (ChartView, error) {
	chart, ok := ud.LineCharts().Get(id)
	if !ok {
		return ChartView{}, identified.NotFound(id)
	}

	return v.chartView(ud, id, chart, today)
}

// chartView resolves every entry of a line chart. The data set ID is the entry index, so that
// interaction messages address the same entry the user edits.
func (v *Organizer) chartView(ud *userdata.UserData, id model.LineChartID, chart model.LineChart, today day.Day) (ChartView, error) {
	dataSets := make([]graph.DataSet, 0, len(chart.Data))

	for i, entry := range chart.Data {
		resolved, err := ud.ResolveDataSet(entry.Ref)
		if err != nil {
			return ChartView{}, fmt.Errorf("resolving data set %d of line chart %q: %w", i, chart.Name, err)
		}

		dataSets = append(dataSets, graph.DataSet{
			ID:      graph.DataSetID(i),
			Name:    resolved.Name,
			Colour:  resolved.Colour,
			Visible: entry.Visible,
			Points:  resolved.Points,
		})
	}

	m := graph.NewModel(today, chart.FillLines, dataSets)
	m.ShowPoints = v.cfg.Render.ShowPoints

	return ChartView{ID: id, Name: chart.Name, Model: m}, nil
}
