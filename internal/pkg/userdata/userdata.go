// Package userdata is the root of everything the user tracks.
//
// It owns the trackable, chartable and line chart collections together with the user's ordered
// "active" lists, and it keeps them consistent: editing a trackable rebuilds the chartables built
// on it, and deleting an entity purges every reference to it.
package userdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/model"
)

// Visibility is an entry of an active list.
type Visibility[K identified.Kind] struct {
	ID      identified.ID[K]
	Visible bool
}

// Active is a resolved entry of an active list.
type Active[K identified.Kind, T any] struct {
	ID      identified.ID[K]
	Value   T
	Visible bool
}

// UserData is an immutable snapshot of the user's data. Mutations return a new snapshot.
type UserData struct {
	trackables model.Trackables
	chartables model.Chartables
	lineCharts model.LineCharts

	activeTrackables []Visibility[model.TrackableKind]
	activeChartables []Visibility[model.ChartableKind]
	activeLineCharts []model.LineChartID

	errs []error
	l    *slog.Logger
}

// New builds an empty root.
func New(opts ...Option) *UserData {
	o := optionsWithDefaults(opts)

	return &UserData{
		trackables: identified.Empty[model.TrackableKind, model.Trackable](),
		chartables: identified.Empty[model.ChartableKind, model.Chartable](),
		lineCharts: identified.Empty[model.LineChartKind, model.LineChart](),
		l:          o.logger,
	}
}

// Parts is the raw content of a [UserData], as decoded from a snapshot.
type Parts struct {
	Trackables       model.Trackables
	Chartables       []identified.Entry[model.ChartableKind, model.ChartableState]
	LineCharts       model.LineCharts
	ActiveTrackables []Visibility[model.TrackableKind]
	ActiveChartables []Visibility[model.ChartableKind]
	ActiveLineCharts []model.LineChartID
}

// FromParts assembles a root from decoded parts, building every chartable against the trackables.
//
// References to missing entities are dropped: chartable sum entries and line chart entries alike.
// Every dropped reference is kept in [UserData.Errors].
func FromParts(p Parts, opts ...Option) (*UserData, error) {
	u := New(opts...)

	built := make([]identified.Entry[model.ChartableKind, model.Chartable], 0, len(p.Chartables))
	for _, e := range p.Chartables {
		ch := model.BuildChartable(p.Trackables, e.Value)
		for _, entry := range e.Value.Sum {
			if !p.Trackables.Has(entry.TrackableID) {
				u.errs = append(u.errs, fmt.Errorf("dropped from %s: %w", e.ID, identified.NotFound(entry.TrackableID)))
			}
		}

		built = append(built, identified.Entry[model.ChartableKind, model.Chartable]{ID: e.ID, Value: ch})
	}

	chartables, err := identified.FromEntries(built)
	if err != nil {
		return nil, err
	}

	u.trackables = p.Trackables
	u.chartables = chartables
	u.lineCharts = p.LineCharts.Map(func(id model.LineChartID, lc model.LineChart) model.LineChart {
		lc.Data = slices.DeleteFunc(slices.Clone(lc.Data), func(entry model.LineChartEntry) bool {
			err := u.checkRef(entry.Ref)
			if err != nil {
				u.errs = append(u.errs, fmt.Errorf("dropped from %s: %w", id, err))
			}

			return err != nil
		})

		return lc
	})
	u.activeTrackables = slices.Clone(p.ActiveTrackables)
	u.activeChartables = slices.Clone(p.ActiveChartables)
	u.activeLineCharts = slices.Clone(p.ActiveLineCharts)

	return u, nil
}

func (u *UserData) checkRef(ref model.DataSetReference) error {
	switch r := ref.(type) {
	case model.ChartableRef:
		if !u.chartables.Has(r.ID) {
			return identified.NotFound(r.ID)
		}
	case model.TrackableRef:
		if !u.trackables.Has(r.ID) {
			return identified.NotFound(r.ID)
		}
	default:
		return fmt.Errorf("unsupported data set reference %T", ref)
	}

	return nil
}

// Parts returns the raw content, with stale active entries dropped.
func (u *UserData) Parts() Parts {
	states := make([]identified.Entry[model.ChartableKind, model.ChartableState], 0, u.chartables.Len())
	for _, e := range u.chartables.Entries() {
		states = append(states, identified.Entry[model.ChartableKind, model.ChartableState]{ID: e.ID, Value: e.Value.State()})
	}

	return Parts{
		Trackables:       u.trackables,
		Chartables:       states,
		LineCharts:       u.lineCharts,
		ActiveTrackables: live(u.activeTrackables, u.trackables.Has),
		ActiveChartables: live(u.activeChartables, u.chartables.Has),
		ActiveLineCharts: slices.DeleteFunc(slices.Clone(u.activeLineCharts), func(id model.LineChartID) bool { return !u.lineCharts.Has(id) }),
	}
}

// Trackables returns the trackable collection.
func (u *UserData) Trackables() model.Trackables { return u.trackables }

// Chartables returns the chartable collection.
func (u *UserData) Chartables() model.Chartables { return u.chartables }

// LineCharts returns the line chart collection.
func (u *UserData) LineCharts() model.LineCharts { return u.lineCharts }

// Errors returns the errors accumulated by the mutations that do not report them.
func (u *UserData) Errors() []error { return slices.Clone(u.errs) }

// ActiveTrackables resolves the active trackable list. Stale identifiers are skipped.
func (u *UserData) ActiveTrackables() []Active[model.TrackableKind, model.Trackable] {
	return resolve(u.activeTrackables, u.trackables)
}

// ActiveChartables resolves the active chartable list. Stale identifiers are skipped.
func (u *UserData) ActiveChartables() []Active[model.ChartableKind, model.Chartable] {
	return resolve(u.activeChartables, u.chartables)
}

// ActiveLineCharts resolves the active line chart list. Stale identifiers are skipped.
func (u *UserData) ActiveLineCharts() []identified.Entry[model.LineChartKind, model.LineChart] {
	out := make([]identified.Entry[model.LineChartKind, model.LineChart], 0, len(u.activeLineCharts))
	for _, id := range u.activeLineCharts {
		if c, ok := u.lineCharts.Get(id); ok {
			out = append(out, identified.Entry[model.LineChartKind, model.LineChart]{ID: id, Value: c})
		}
	}

	return out
}

func (u *UserData) clone() *UserData {
	c := *u
	c.activeTrackables = slices.Clone(u.activeTrackables)
	c.activeChartables = slices.Clone(u.activeChartables)
	c.activeLineCharts = slices.Clone(u.activeLineCharts)
	c.errs = slices.Clone(u.errs)

	return &c
}

// TryAddTrackable stores a trackable and shows it at the end of the active list.
//
// It fails when the trackable has no answer data or a colour outside the palette.
func (u *UserData) TryAddTrackable(t model.Trackable) (model.TrackableID, *UserData, error) {
	if err := t.Validate(); err != nil {
		return 0, u, err
	}

	c := u.clone()
	id, trackables := u.trackables.Add(t)
	c.trackables = trackables
	c.activeTrackables = append(c.activeTrackables, Visibility[model.TrackableKind]{ID: id, Visible: true})

	return id, c, nil
}

// AddTrackable is [UserData.TryAddTrackable] with errors kept in [UserData.Errors].
// A rejected trackable gets the zero identifier.
func (u *UserData) AddTrackable(t model.Trackable) (model.TrackableID, *UserData) {
	id, c, err := u.TryAddTrackable(t)

	return id, u.orLog(c, err)
}

// TryAddChartable builds and stores a chartable and shows it at the end of the active list.
//
// It fails when the colour override is outside the palette.
func (u *UserData) TryAddChartable(state model.ChartableState) (model.ChartableID, *UserData, error) {
	if err := state.Validate(); err != nil {
		return 0, u, err
	}

	c := u.clone()
	id, chartables := u.chartables.Add(model.BuildChartable(u.trackables, state))
	c.chartables = chartables
	c.activeChartables = append(c.activeChartables, Visibility[model.ChartableKind]{ID: id, Visible: true})

	return id, c, nil
}

// AddChartable is [UserData.TryAddChartable] with errors kept in [UserData.Errors].
func (u *UserData) AddChartable(state model.ChartableState) (model.ChartableID, *UserData) {
	id, c, err := u.TryAddChartable(state)

	return id, u.orLog(c, err)
}

// AddLineChart stores a line chart and appends it to the active list.
func (u *UserData) AddLineChart(chart model.LineChart) (model.LineChartID, *UserData) {
	c := u.clone()
	id, lineCharts := u.lineCharts.Add(chart)
	c.lineCharts = lineCharts
	c.activeLineCharts = append(c.activeLineCharts, id)

	return id, c
}

// TryUpdateTrackable replaces a trackable and rebuilds every chartable built on it.
func (u *UserData) TryUpdateTrackable(id model.TrackableID, fn func(model.Trackable) (model.Trackable, error)) (*UserData, error) {
	trackables, err := u.trackables.TryUpdate(id, fn)
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.trackables = trackables
	c.chartables = u.chartables.Map(func(_ model.ChartableID, ch model.Chartable) model.Chartable {
		if !ch.References(id) {
			return ch
		}

		return ch.Rebuild(trackables)
	})

	return c, nil
}

// TryUpdateChartable replaces a chartable. fn receives the trackables it rebuilds against.
func (u *UserData) TryUpdateChartable(id model.ChartableID, fn func(model.Chartable, model.Trackables) (model.Chartable, error)) (*UserData, error) {
	chartables, err := u.chartables.TryUpdate(id, func(ch model.Chartable) (model.Chartable, error) {
		return fn(ch, u.trackables)
	})
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.chartables = chartables

	return c, nil
}

// TryUpdateLineChart replaces a line chart.
func (u *UserData) TryUpdateLineChart(id model.LineChartID, fn func(model.LineChart) (model.LineChart, error)) (*UserData, error) {
	lineCharts, err := u.lineCharts.TryUpdate(id, fn)
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.lineCharts = lineCharts

	return c, nil
}

// TryDeleteTrackable removes a trackable together with every reference to it:
// the active list, chartable sums and line chart entries plotting it directly.
func (u *UserData) TryDeleteTrackable(id model.TrackableID) (*UserData, error) {
	trackables, err := u.trackables.TryDelete(id)
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.trackables = trackables
	c.activeTrackables = slices.DeleteFunc(c.activeTrackables, func(v Visibility[model.TrackableKind]) bool { return v.ID == id })
	c.chartables = u.chartables.Map(func(_ model.ChartableID, ch model.Chartable) model.Chartable {
		if !ch.References(id) {
			return ch
		}

		return ch.DeleteTrackable(trackables, id)
	})
	c.lineCharts = u.lineCharts.Map(func(_ model.LineChartID, lc model.LineChart) model.LineChart {
		return lc.RemoveTrackable(id)
	})

	return c, nil
}

// TryDeleteChartable removes a chartable from the collection, the active list and every line chart.
func (u *UserData) TryDeleteChartable(id model.ChartableID) (*UserData, error) {
	chartables, err := u.chartables.TryDelete(id)
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.chartables = chartables
	c.activeChartables = slices.DeleteFunc(c.activeChartables, func(v Visibility[model.ChartableKind]) bool { return v.ID == id })
	c.lineCharts = u.lineCharts.Map(func(_ model.LineChartID, lc model.LineChart) model.LineChart {
		return lc.RemoveChartable(id)
	})

	return c, nil
}

// TryDeleteLineChart removes a line chart.
func (u *UserData) TryDeleteLineChart(id model.LineChartID) (*UserData, error) {
	lineCharts, err := u.lineCharts.TryDelete(id)
	if err != nil {
		return u, err
	}

	c := u.clone()
	c.lineCharts = lineCharts
	c.activeLineCharts = slices.DeleteFunc(c.activeLineCharts, func(v model.LineChartID) bool { return v == id })

	return c, nil
}

// UpdateTrackable is [UserData.TryUpdateTrackable] for callers that do not handle the error.
// A failure leaves the data unchanged and is kept in [UserData.Errors].
func (u *UserData) UpdateTrackable(id model.TrackableID, fn func(model.Trackable) (model.Trackable, error)) *UserData {
	return u.orLog(u.TryUpdateTrackable(id, fn))
}

// UpdateChartable is [UserData.TryUpdateChartable] with errors kept in [UserData.Errors].
func (u *UserData) UpdateChartable(id model.ChartableID, fn func(model.Chartable, model.Trackables) (model.Chartable, error)) *UserData {
	return u.orLog(u.TryUpdateChartable(id, fn))
}

// UpdateLineChart is [UserData.TryUpdateLineChart] with errors kept in [UserData.Errors].
func (u *UserData) UpdateLineChart(id model.LineChartID, fn func(model.LineChart) (model.LineChart, error)) *UserData {
	return u.orLog(u.TryUpdateLineChart(id, fn))
}

// DeleteTrackable is [UserData.TryDeleteTrackable] with errors kept in [UserData.Errors].
func (u *UserData) DeleteTrackable(id model.TrackableID) *UserData {
	return u.orLog(u.TryDeleteTrackable(id))
}

// DeleteChartable is [UserData.TryDeleteChartable] with errors kept in [UserData.Errors].
func (u *UserData) DeleteChartable(id model.ChartableID) *UserData {
	return u.orLog(u.TryDeleteChartable(id))
}

// DeleteLineChart is [UserData.TryDeleteLineChart] with errors kept in [UserData.Errors].
func (u *UserData) DeleteLineChart(id model.LineChartID) *UserData {
	return u.orLog(u.TryDeleteLineChart(id))
}

func (u *UserData) orLog(updated *UserData, err error) *UserData {
	if err == nil {
		return updated
	}

	level := slog.LevelError
	if errors.Is(err, identified.ErrNotFound) || errors.Is(err, model.ErrInvalid) {
		level = slog.LevelWarn
	}
	u.l.Log(context.Background(), level, "update rejected", slog.String("error", err.Error()))

	c := u.clone()
	c.errs = append(c.errs, err)

	return c
}

// MoveTrackableUp moves a trackable one place up in the active list.
func (u *UserData) MoveTrackableUp(id model.TrackableID) *UserData {
	c := u.clone()
	c.activeTrackables = moveBy(c.activeTrackables, func(v Visibility[model.TrackableKind]) bool { return v.ID == id }, -1)

	return c
}

// MoveTrackableDown moves a trackable one place down in the active list.
func (u *UserData) MoveTrackableDown(id model.TrackableID) *UserData {
	c := u.clone()
	c.activeTrackables = moveBy(c.activeTrackables, func(v Visibility[model.TrackableKind]) bool { return v.ID == id }, 1)

	return c
}

// MoveChartableUp moves a chartable one place up in the active list.
func (u *UserData) MoveChartableUp(id model.ChartableID) *UserData {
	c := u.clone()
	c.activeChartables = moveBy(c.activeChartables, func(v Visibility[model.ChartableKind]) bool { return v.ID == id }, -1)

	return c
}

// MoveChartableDown moves a chartable one place down in the active list.
func (u *UserData) MoveChartableDown(id model.ChartableID) *UserData {
	c := u.clone()
	c.activeChartables = moveBy(c.activeChartables, func(v Visibility[model.ChartableKind]) bool { return v.ID == id }, 1)

	return c
}

// MoveLineChartUp moves a line chart one place up in the active list.
func (u *UserData) MoveLineChartUp(id model.LineChartID) *UserData {
	c := u.clone()
	c.activeLineCharts = moveBy(c.activeLineCharts, func(v model.LineChartID) bool { return v == id }, -1)

	return c
}

// MoveLineChartDown moves a line chart one place down in the active list.
func (u *UserData) MoveLineChartDown(id model.LineChartID) *UserData {
	c := u.clone()
	c.activeLineCharts = moveBy(c.activeLineCharts, func(v model.LineChartID) bool { return v == id }, 1)

	return c
}

// ToggleTrackableVisible flips the visibility of an active trackable.
func (u *UserData) ToggleTrackableVisible(id model.TrackableID) *UserData {
	c := u.clone()
	for i, v := range c.activeTrackables {
		if v.ID == id {
			c.activeTrackables[i].Visible = !v.Visible
		}
	}

	return c
}

// ToggleChartableVisible flips the visibility of an active chartable.
func (u *UserData) ToggleChartableVisible(id model.ChartableID) *UserData {
	c := u.clone()
	for i, v := range c.activeChartables {
		if v.ID == id {
			c.activeChartables[i].Visible = !v.Visible
		}
	}

	return c
}

// DataSet is a data set reference resolved to something plottable.
type DataSet struct {
	Name   string
	Colour colour.Colour
	Points map[day.Day]float64
}

// ResolveDataSet resolves a line chart reference. A trackable reference goes through the
// chartable engine as a single weighted, optionally inverted constituent.
func (u *UserData) ResolveDataSet(ref model.DataSetReference) (DataSet, error) {
	switch r := ref.(type) {
	case model.ChartableRef:
		ch, ok := u.chartables.Get(r.ID)
		if !ok {
			return DataSet{}, identified.NotFound(r.ID)
		}

		return DataSet{Name: ch.Name(), Colour: ch.DisplayColour(), Points: ch.DataPoints()}, nil
	case model.TrackableRef:
		t, ok := u.trackables.Get(r.ID)
		if !ok {
			return DataSet{}, identified.NotFound(r.ID)
		}

		ch := model.BuildChartable(u.trackables, model.ChartableState{
			Name:     t.Question,
			Inverted: r.Inverted,
			Sum:      []model.SumEntry{{TrackableID: r.ID, Multiplier: r.Multiplier}},
		})

		return DataSet{Name: t.Question, Colour: ch.DisplayColour(), Points: ch.DataPoints()}, nil
	default:
		panic("unhandled data set reference")
	}
}

func live[K identified.Kind](list []Visibility[K], has func(identified.ID[K]) bool) []Visibility[K] {
	return slices.DeleteFunc(slices.Clone(list), func(v Visibility[K]) bool { return !has(v.ID) })
}

func resolve[K identified.Kind, T any](list []Visibility[K], c identified.Collection[K, T]) []Active[K, T] {
	out := make([]Active[K, T], 0, len(list))
	for _, v := range list {
		if value, ok := c.Get(v.ID); ok {
			out = append(out, Active[K, T]{ID: v.ID, Value: value, Visible: v.Visible})
		}
	}

	return out
}

// moveBy moves the first matching element by delta places. Moves past either end do nothing.
func moveBy[E any](list []E, match func(E) bool, delta int) []E {
	i := slices.IndexFunc(list, match)
	j := i + delta
	if i < 0 || j < 0 || j >= len(list) {
		return list
	}

	list[i], list[j] = list[j], list[i]

	return list
}
