package app

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
	"github.com/fredbi/symptoms/internal/pkg/sample"
	"github.com/fredbi/symptoms/internal/pkg/snapshot"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// App computes state transitions.
type App struct {
	options

	codec     *snapshot.Codec
	organizer *organizer.Organizer
	l         *slog.Logger
}

// New builds an [App] for a configuration.
func New(cfg *config.Config, opts ...Option) *App {
	o := optionsWithDefaults(opts)

	return &App{
		options:   o,
		codec:     snapshot.New(snapshot.WithUserDataOptions(userdata.WithLogger(o.logger.With(slog.String("module", "userdata"))))),
		organizer: organizer.New(cfg, organizer.WithLogger(o.logger)),
		l:         o.logger.With(slog.String("module", "app")),
	}
}

// Init returns the state before loading.
func (a *App) Init(today day.Day) State {
	return State{Today: today}
}

// Update applies an event to the state. It never alters its input state.
//
// Committed edits of the user data produce a [Persist] effect. Rejected raw inputs are kept
// in [State.Invalid] and nothing is committed. Edits of missing entities are reported and
// leave the data unchanged.
func (a *App) Update(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case Loaded:
		return a.load(s, e.Blob)
	case Measured:
		s.ViewportWidth = e.Width

		return s, nil
	case MeasureFailed:
		return s, report(fmt.Errorf("measuring viewport: %w", e.Err))
	case PersistFailed:
		return s, report(fmt.Errorf("persisting snapshot: %w", e.Err))
	}

	if !s.Ready() {
		return s, report(ErrNotReady)
	}

	switch e := e.(type) {
	case SetToday:
		s.Today = e.Day

		return a.refresh(s)
	case GraphMsg:
		return a.interact(s, e)
	case AddTrackable:
		apply := a.validated(s, NewTrackableField, string(e.Colour))
		t, err := model.NewTrackable(e.Question, e.Colour, e.Kind)
		if err != nil {
			return apply(nil, err)
		}
		_, u, err := s.Data.TryAddTrackable(t)

		return apply(u, err)
	case SetQuestion:
		return a.tryCommit(s)(s.Data.TryUpdateTrackable(e.ID, func(t model.Trackable) (model.Trackable, error) {
			return t.SetQuestion(e.Question), nil
		}))
	case SetTrackableColour:
		return a.validated(s, ColourField(e.ID), string(e.Colour))(s.Data.TryUpdateTrackable(e.ID, func(t model.Trackable) (model.Trackable, error) {
			return t.SetColour(e.Colour)
		}))
	case Answer:
		return a.validated(s, AnswerField(e.ID, e.Day), e.Raw)(s.Data.TryUpdateTrackable(e.ID, func(t model.Trackable) (model.Trackable, error) {
			return t.Answer(e.Day, e.Raw)
		}))
	case ConvertTrackable:
		return a.validated(s, KindField(e.ID), string(e.Kind))(s.Data.TryUpdateTrackable(e.ID, func(t model.Trackable) (model.Trackable, error) {
			return t.ConvertTo(e.Kind)
		}))
	case DeleteTrackable:
		s.Charts = a.forgetReferences(s, func(ref model.DataSetReference) bool {
			r, ok := ref.(model.TrackableRef)

			return ok && r.ID == e.ID
		})

		return a.tryCommit(s)(s.Data.TryDeleteTrackable(e.ID))
	case MoveTrackable:
		if e.Up {
			return a.commit(s, s.Data.MoveTrackableUp(e.ID))
		}

		return a.commit(s, s.Data.MoveTrackableDown(e.ID))
	case ToggleTrackable:
		return a.commit(s, s.Data.ToggleTrackableVisible(e.ID))
	case AddChartable:
		_, u, err := s.Data.TryAddChartable(e.State)

		return a.validated(s, NewChartableField, rawColour(e.State.OwnColour))(u, err)
	case SetChartableName:
		return a.updateChartable(s, e.ID, func(c model.Chartable, ts model.Trackables) model.Chartable {
			return c.SetName(ts, e.Name)
		})
	case SetChartableColour:
		return a.validated(s, ChartableColourField(e.ID), rawColour(e.Colour))(s.Data.TryUpdateChartable(e.ID, func(c model.Chartable, ts model.Trackables) (model.Chartable, error) {
			return c.SetColour(ts, e.Colour)
		}))
	case SetChartableInverted:
		return a.updateChartable(s, e.ID, func(c model.Chartable, ts model.Trackables) model.Chartable {
			return c.SetInverted(ts, e.Inverted)
		})
	case AddChartableTrackable:
		return a.updateChartable(s, e.ID, func(c model.Chartable, ts model.Trackables) model.Chartable {
			return c.AddTrackable(ts, e.Trackable, 1)
		})
	case DeleteChartableTrackable:
		return a.updateChartable(s, e.ID, func(c model.Chartable, ts model.Trackables) model.Chartable {
			return c.DeleteTrackable(ts, e.Trackable)
		})
	case ReplaceChartableTrackable:
		return a.updateChartable(s, e.ID, func(c model.Chartable, ts model.Trackables) model.Chartable {
			return c.ReplaceTrackable(ts, e.Trackable, e.Replacement)
		})
	case SetMultiplier:
		field := MultiplierField(e.ID, e.Trackable)
		multiplier, err := model.ParseMultiplier(e.Raw)
		if err != nil {
			return a.validated(s, field, e.Raw)(nil, err)
		}

		return a.validated(s, field, e.Raw)(s.Data.TryUpdateChartable(e.ID, func(c model.Chartable, ts model.Trackables) (model.Chartable, error) {
			return c.SetMultiplier(ts, e.Trackable, multiplier), nil
		}))
	case DeleteChartable:
		s.Charts = a.forgetReferences(s, func(ref model.DataSetReference) bool {
			r, ok := ref.(model.ChartableRef)

			return ok && r.ID == e.ID
		})

		return a.tryCommit(s)(s.Data.TryDeleteChartable(e.ID))
	case MoveChartable:
		if e.Up {
			return a.commit(s, s.Data.MoveChartableUp(e.ID))
		}

		return a.commit(s, s.Data.MoveChartableDown(e.ID))
	case ToggleChartable:
		return a.commit(s, s.Data.ToggleChartableVisible(e.ID))
	case AddLineChart:
		_, u := s.Data.AddLineChart(model.NewLineChart(e.Name))

		return a.commit(s, u)
	case SetLineChartName:
		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart { return c.SetName(e.Name) })
	case SetFillLines:
		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart { return c.SetFillLines(e.Fill) })
	case AddLineChartData:
		if err := checkRef(e.Ref); err != nil {
			return s, report(err)
		}

		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart {
			switch ref := e.Ref.(type) {
			case model.ChartableRef:
				return c.AddChartable(ref.ID)
			case model.TrackableRef:
				return c.AddTrackable(ref.ID, ref.Multiplier, ref.Inverted)
			default:
				panic("unhandled data set reference")
			}
		})
	case MoveLineChartData:
		return a.moveLineChartData(s, e)
	case ToggleLineChartData:
		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart { return c.ToggleVisible(e.Index) })
	case ReplaceLineChartData:
		if err := checkRef(e.Ref); err != nil {
			return s, report(err)
		}
		s.Charts = a.withChart(s, e.ID, func(m graph.Model) graph.Model { return clearDataSet(m, graph.DataSetID(e.Index)) })

		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart {
			switch ref := e.Ref.(type) {
			case model.ChartableRef:
				return c.ReplaceWithChartable(e.Index, ref.ID)
			case model.TrackableRef:
				return c.ReplaceWithTrackable(e.Index, ref.ID, ref.Multiplier, ref.Inverted)
			default:
				panic("unhandled data set reference")
			}
		})
	case DeleteLineChartData:
		if !s.Data.LineCharts().Has(e.ID) {
			return s, report(identified.NotFound(e.ID))
		}
		if !hasEntry(s, e.ID, e.Index) {
			return s, nil
		}
		s.Charts = a.withChart(s, e.ID, func(m graph.Model) graph.Model { return graph.ForgetDataSet(m, graph.DataSetID(e.Index)) })

		return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart { return c.DeleteData(e.Index) })
	case DeleteLineChart:
		return a.tryCommit(s)(s.Data.TryDeleteLineChart(e.ID))
	case MoveLineChart:
		if e.Up {
			return a.commit(s, s.Data.MoveLineChartUp(e.ID))
		}

		return a.commit(s, s.Data.MoveLineChartDown(e.ID))
	default:
		panic(fmt.Sprintf("unhandled app event %T", e))
	}
}

func (a *App) load(s State, blob []byte) (State, []Effect) {
	var (
		u   *userdata.UserData
		err error
	)

	if blob == nil {
		a.l.Info("no snapshot found: starting with sample data")
		u, err = sample.UserData(s.Today, userdata.WithLogger(a.logger.With(slog.String("module", "userdata"))))
	} else {
		u, err = a.codec.Decode(blob)
	}

	if err != nil {
		s.Fatal = err

		return s, report(err)
	}

	for _, e := range u.Errors() {
		a.l.Warn("snapshot repaired while loading", slog.String("error", e.Error()))
	}

	s.Fatal = nil
	s.Charts = nil
	s.Invalid = nil

	var effects []Effect
	if blob == nil {
		s, effects = a.commit(s, u)
	} else {
		s.Data = u
		s, effects = a.refresh(s)
	}

	return s, append(effects, Measure{})
}

// commit installs new user data and asks for it to be persisted.
func (a *App) commit(s State, u *userdata.UserData) (State, []Effect) {
	s.Data = u
	s, effects := a.refresh(s)

	blob, err := a.codec.Encode(u)
	if err != nil {
		return s, append(effects, ReportError{Err: fmt.Errorf("encoding snapshot: %w", err)})
	}

	return s, append(effects, Persist{Blob: blob})
}

func (a *App) tryCommit(s State) func(*userdata.UserData, error) (State, []Effect) {
	return func(u *userdata.UserData, err error) (State, []Effect) {
		if err != nil {
			return s, report(err)
		}

		return a.commit(s, u)
	}
}

// validated commits u, or retains the raw input of the field when it is invalid.
func (a *App) validated(s State, field, raw string) func(*userdata.UserData, error) (State, []Effect) {
	return func(u *userdata.UserData, err error) (State, []Effect) {
		switch {
		case errors.Is(err, model.ErrInvalid):
			s.Invalid = maps.Clone(s.Invalid)
			if s.Invalid == nil {
				s.Invalid = make(map[string]string)
			}
			s.Invalid[field] = raw

			return s, nil
		case err != nil:
			return s, report(err)
		}

		if _, ok := s.Invalid[field]; ok {
			s.Invalid = maps.Clone(s.Invalid)
			delete(s.Invalid, field)
		}

		return a.commit(s, u)
	}
}

func (a *App) updateChartable(s State, id model.ChartableID, fn func(model.Chartable, model.Trackables) model.Chartable) (State, []Effect) {
	return a.tryCommit(s)(s.Data.TryUpdateChartable(id, func(c model.Chartable, ts model.Trackables) (model.Chartable, error) {
		return fn(c, ts), nil
	}))
}

func (a *App) updateLineChart(s State, id model.LineChartID, fn func(model.LineChart) model.LineChart) (State, []Effect) {
	return a.tryCommit(s)(s.Data.TryUpdateLineChart(id, func(c model.LineChart) (model.LineChart, error) {
		return fn(c), nil
	}))
}

func (a *App) moveLineChartData(s State, e MoveLineChartData) (State, []Effect) {
	chart, ok := s.Data.LineCharts().Get(e.ID)
	if !ok {
		return s, report(identified.NotFound(e.ID))
	}

	other := e.Index + 1
	if e.Up {
		other = e.Index - 1
	}

	if e.Index < 0 || e.Index >= len(chart.Data) || other < 0 || other >= len(chart.Data) {
		// clamped: nothing moves
		return s, nil
	}

	s.Charts = a.withChart(s, e.ID, func(m graph.Model) graph.Model {
		return graph.RemapAfterMove(m, graph.DataSetID(e.Index), graph.DataSetID(other))
	})

	return a.updateLineChart(s, e.ID, func(c model.LineChart) model.LineChart {
		if e.Up {
			return c.MoveUp(e.Index)
		}

		return c.MoveDown(e.Index)
	})
}

// interact applies a pointer interaction. Hiding or showing a series from the graph is an edit
// of its line chart, the rest only changes the graph model.
func (a *App) interact(s State, e GraphMsg) (State, []Effect) {
	m, ok := s.Charts[e.Chart]
	if !ok {
		return s, report(identified.NotFound(e.Chart))
	}

	s.Charts = maps.Clone(s.Charts)
	s.Charts[e.Chart] = graph.Update(m, e.Msg)

	visibility, ok := e.Msg.(graph.SetVisible)
	if !ok {
		return s, nil
	}

	chart, ok := s.Data.LineCharts().Get(e.Chart)
	i := int(visibility.ID)
	if !ok || i < 0 || i >= len(chart.Data) || chart.Data[i].Visible == visibility.Visible {
		return s, nil
	}

	return a.updateLineChart(s, e.Chart, func(c model.LineChart) model.LineChart { return c.ToggleVisible(i) })
}

// refresh rebuilds the graph model of every active line chart, keeping the interaction state
// that still applies.
func (a *App) refresh(s State) (State, []Effect) {
	var effects []Effect
	active := s.Data.ActiveLineCharts()
	charts := make(map[model.LineChartID]graph.Model, len(active))

	for _, entry := range active {
		view, err := a.organizer.ChartModel(s.Data, entry.ID, s.Today)
		if err != nil {
			effects = append(effects, ReportError{Err: err})

			continue
		}

		m := view.Model
		if previous, ok := s.Charts[entry.ID]; ok {
			m = previous.WithDataSets(view.Model.DataSets)
			m.Today = view.Model.Today
			m.FillLines = view.Model.FillLines
			m.ShowPoints = view.Model.ShowPoints
		}

		charts[entry.ID] = m
	}

	s.Charts = charts

	return s, effects
}

// forgetReferences drops the interaction state of the data sets about to be removed from
// their line charts, last index first so that shifts apply to the right entries.
func (a *App) forgetReferences(s State, match func(model.DataSetReference) bool) map[model.LineChartID]graph.Model {
	charts := maps.Clone(s.Charts)

	for id, m := range charts {
		chart, ok := s.Data.LineCharts().Get(id)
		if !ok {
			continue
		}

		for i := len(chart.Data) - 1; i >= 0; i-- {
			if match(chart.Data[i].Ref) {
				m = graph.ForgetDataSet(m, graph.DataSetID(i))
			}
		}

		charts[id] = m
	}

	return charts
}

func (a *App) withChart(s State, id model.LineChartID, fn func(graph.Model) graph.Model) map[model.LineChartID]graph.Model {
	m, ok := s.Charts[id]
	if !ok {
		return s.Charts
	}

	charts := maps.Clone(s.Charts)
	charts[id] = fn(m)

	return charts
}

// clearDataSet drops any interaction state pointing at a data set.
func clearDataSet(m graph.Model, id graph.DataSetID) graph.Model {
	if m.Selected != nil && *m.Selected == id {
		m = graph.Update(m, graph.SelectDataSet{})
	}
	if m.Hovered != nil && *m.Hovered == id {
		m = graph.Update(m, graph.HoverDataSet{})
	}
	if m.SelectedPoint != nil && m.SelectedPoint.DataSet == id {
		m.SelectedPoint = nil
	}

	return m
}

func hasEntry(s State, id model.LineChartID, i int) bool {
	chart, ok := s.Data.LineCharts().Get(id)

	return ok && i >= 0 && i < len(chart.Data)
}

func checkRef(ref model.DataSetReference) error {
	switch ref.(type) {
	case model.ChartableRef, model.TrackableRef:
		return nil
	default:
		return fmt.Errorf("unsupported data set reference %T", ref)
	}
}

func rawColour(c *colour.Colour) string {
	if c == nil {
		return ""
	}

	return string(*c)
}

func report(err error) []Effect {
	return []Effect{ReportError{Err: err}}
}
