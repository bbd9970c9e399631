package userdata

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/model"
)

func TestAddAppendsVisible(t *testing.T) {
	u := New()
	a, u := u.AddTrackable(trackable(t, "a", model.KindInt))
	b, u := u.AddTrackable(trackable(t, "b", model.KindInt))

	active := u.ActiveTrackables()
	require.Len(t, active, 2)
	assert.Equal(t, a, active[0].ID)
	assert.Equal(t, b, active[1].ID)
	assert.True(t, active[0].Visible)
	assert.True(t, active[1].Visible)

	chart, u := u.AddLineChart(model.NewLineChart("overview"))
	require.Len(t, u.ActiveLineCharts(), 1)
	assert.Equal(t, chart, u.ActiveLineCharts()[0].ID)
}

func TestAddRejectsWhatCannotBePersisted(t *testing.T) {
	bad := colour.Colour("Purple")

	for _, tc := range []struct {
		name string
		add  func(*UserData) (*UserData, error)
		want error
	}{
		{
			name: "trackable without answer data",
			add: func(u *UserData) (*UserData, error) {
				_, c, err := u.TryAddTrackable(model.Trackable{Question: "x", Colour: colour.Red})

				return c, err
			},
			want: model.ErrNoAnswerKind,
		},
		{
			name: "trackable with an empty colour",
			add: func(u *UserData) (*UserData, error) {
				tr := trackable(t, "x", model.KindInt)
				tr.Colour = ""
				_, c, err := u.TryAddTrackable(tr)

				return c, err
			},
			want: model.ErrInvalid,
		},
		{
			name: "chartable with a colour outside the palette",
			add: func(u *UserData) (*UserData, error) {
				_, c, err := u.TryAddChartable(model.ChartableState{Name: "x", OwnColour: &bad})

				return c, err
			},
			want: colour.ErrUnknownColour,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			u := New()
			same, err := tc.add(u)
			require.ErrorIs(t, err, tc.want)
			assert.Same(t, u, same)
			assert.Zero(t, same.Trackables().Len())
			assert.Zero(t, same.Chartables().Len())
		})
	}

	t.Run("without error handling", func(t *testing.T) {
		id, u := New().AddTrackable(model.Trackable{Question: "x"})
		assert.Zero(t, id)
		assert.Zero(t, u.Trackables().Len())
		require.Len(t, u.Errors(), 1)
		require.ErrorIs(t, u.Errors()[0], model.ErrNoAnswerKind)

		id2, u := u.AddChartable(model.ChartableState{OwnColour: &bad})
		assert.Zero(t, id2)
		require.Len(t, u.Errors(), 2)
		require.ErrorIs(t, u.Errors()[1], model.ErrInvalid)
	})
}

func TestFromPartsDropsDanglingReferences(t *testing.T) {
	trackables := identified.Empty[model.TrackableKind, model.Trackable]()
	for _, q := range []string{"a", "b", "c", "d"} {
		_, trackables = trackables.Add(trackable(t, q, model.KindInt))
	}
	const missing = model.TrackableID(5)

	chartables := []identified.Entry[model.ChartableKind, model.ChartableState]{
		{ID: 1, Value: model.ChartableState{Name: "sum", Sum: []model.SumEntry{
			{TrackableID: 1, Multiplier: 1},
			{TrackableID: missing, Multiplier: 3},
		}}},
	}
	lineCharts, err := identified.FromEntries([]identified.Entry[model.LineChartKind, model.LineChart]{
		{ID: 1, Value: model.NewLineChart("overview").
			AddTrackable(missing, 1, false).
			AddChartable(1).
			AddChartable(9).
			AddTrackable(2, 1, false)},
	})
	require.NoError(t, err)

	u, err := FromParts(Parts{Trackables: trackables, Chartables: chartables, LineCharts: lineCharts})
	require.NoError(t, err)

	errs := u.Errors()
	require.Len(t, errs, 3, spew.Sdump(errs))
	for _, err := range errs {
		require.ErrorIs(t, err, identified.ErrNotFound)
	}
	assert.EqualError(t, errs[0], "dropped from chartable#1: trackable 5 not found")

	ch, ok := u.Chartables().Get(1)
	require.True(t, ok)
	assert.Equal(t, []model.SumEntry{{TrackableID: 1, Multiplier: 1}}, ch.State().Sum)

	lc, ok := u.LineCharts().Get(1)
	require.True(t, ok)
	assert.Equal(t, []model.LineChartEntry{
		{Ref: model.ChartableRef{ID: 1}, Visible: true},
		{Ref: model.TrackableRef{ID: 2, Multiplier: 1}, Visible: true},
	}, lc.Data)

	t.Run("a new trackable never joins a stale reference", func(t *testing.T) {
		id, added := u.AddTrackable(trackable(t, "e", model.KindInt))
		require.Equal(t, missing, id)

		ch, _ := added.Chartables().Get(1)
		assert.False(t, ch.References(id))

		lc, _ := added.LineCharts().Get(1)
		for _, entry := range lc.Data {
			assert.NotEqual(t, model.TrackableRef{ID: id, Multiplier: 1}, entry.Ref)
		}
	})

	t.Run("consistent parts load cleanly", func(t *testing.T) {
		again, err := FromParts(u.Parts())
		require.NoError(t, err)
		assert.Empty(t, again.Errors())
	})
}

func TestUpdateTrackablePropagates(t *testing.T) {
	u, smoke, _, badThings := badThings(t)

	updated, err := u.TryUpdateTrackable(smoke, func(tr model.Trackable) (model.Trackable, error) {
		return tr.Answer(737774, "yes")
	})
	require.NoError(t, err)

	before, _ := u.Chartables().Get(badThings)
	after, _ := updated.Chartables().Get(badThings)
	assert.Equal(t, map[day.Day]float64{737772: 0, 737773: 5}, before.DataPoints())
	assert.Equal(t, map[day.Day]float64{737772: 0, 737773: 5, 737774: 0}, after.DataPoints(), spew.Sdump(after))

	t.Run("validation errors leave the data unchanged", func(t *testing.T) {
		same, err := u.TryUpdateTrackable(smoke, func(tr model.Trackable) (model.Trackable, error) {
			return tr.Answer(737774, "perhaps")
		})
		require.ErrorIs(t, err, model.ErrInvalid)
		assert.Same(t, u, same)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := u.TryUpdateTrackable(99, func(tr model.Trackable) (model.Trackable, error) { return tr, nil })
		require.ErrorIs(t, err, identified.ErrNotFound)
	})
}

func TestDeleteTrackablePurges(t *testing.T) {
	u, smoke, chocolate, badThings := badThings(t)
	chart, u := u.AddLineChart(model.NewLineChart("overview").AddTrackable(smoke, 1, false).AddChartable(badThings))

	deleted, err := u.TryDeleteTrackable(smoke)
	require.NoError(t, err)

	ch, _ := deleted.Chartables().Get(badThings)
	require.Len(t, ch.ResolvedSum(), 1)
	assert.Equal(t, chocolate, ch.ResolvedSum()[0].TrackableID)
	assert.False(t, ch.References(smoke))
	assert.Empty(t, ch.DataPoints())

	lc, _ := deleted.LineCharts().Get(chart)
	assert.Equal(t, []model.LineChartEntry{{Ref: model.ChartableRef{ID: badThings}, Visible: true}}, lc.Data)

	for _, a := range deleted.ActiveTrackables() {
		assert.NotEqual(t, smoke, a.ID)
	}

	assert.True(t, u.Trackables().Has(smoke), "the receiver must never change")
}

func TestDeleteChartableShiftsLineChartData(t *testing.T) {
	u := New()
	a, u := u.AddTrackable(trackable(t, "a", model.KindInt))
	for range 3 {
		_, u = u.AddChartable(model.ChartableState{Name: "c", Sum: []model.SumEntry{{TrackableID: a, Multiplier: 1}}})
	}
	chart, u := u.AddLineChart(model.NewLineChart("only").AddChartable(1).AddChartable(3).AddTrackable(a, 2, true))

	deleted := u.DeleteChartable(3)
	require.Empty(t, deleted.Errors())

	lc, ok := deleted.LineCharts().Get(chart)
	require.True(t, ok)
	assert.Equal(t, []model.LineChartEntry{
		{Ref: model.ChartableRef{ID: 1}, Visible: true},
		{Ref: model.TrackableRef{ID: a, Multiplier: 2, Inverted: true}, Visible: true},
	}, lc.Data)
	assert.Len(t, deleted.ActiveChartables(), 2)
}

func TestErrorsAccumulate(t *testing.T) {
	u := New()
	u = u.DeleteLineChart(4)
	u = u.UpdateChartable(2, func(c model.Chartable, _ model.Trackables) (model.Chartable, error) { return c, nil })

	errs := u.Errors()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], identified.ErrNotFound)
	assert.EqualError(t, errs[1], "chartable 2 not found")
}

func TestActiveListOrdering(t *testing.T) {
	u := New()
	a, u := u.AddTrackable(trackable(t, "a", model.KindInt))
	b, u := u.AddTrackable(trackable(t, "b", model.KindInt))
	c, u := u.AddTrackable(trackable(t, "c", model.KindInt))

	moved := u.MoveTrackableUp(c).MoveTrackableUp(c).MoveTrackableUp(c)
	assert.Equal(t, []model.TrackableID{c, a, b}, activeIDs(moved))
	assert.Equal(t, []model.TrackableID{a, b, c}, activeIDs(u), "the receiver must never change")

	moved = u.MoveTrackableDown(a).MoveTrackableDown(99)
	assert.Equal(t, []model.TrackableID{b, a, c}, activeIDs(moved))

	toggled := u.ToggleTrackableVisible(b)
	assert.False(t, toggled.ActiveTrackables()[1].Visible)
	assert.True(t, u.ActiveTrackables()[1].Visible)
}

func TestStaleActiveEntriesAreDropped(t *testing.T) {
	trackables := identified.Empty[model.TrackableKind, model.Trackable]()
	id, trackables := trackables.Add(trackable(t, "a", model.KindInt))

	u, err := FromParts(Parts{
		Trackables:       trackables,
		LineCharts:       identified.Empty[model.LineChartKind, model.LineChart](),
		ActiveTrackables: []Visibility[model.TrackableKind]{{ID: 7, Visible: true}, {ID: id, Visible: false}},
		ActiveChartables: []Visibility[model.ChartableKind]{{ID: 1, Visible: true}},
		ActiveLineCharts: []model.LineChartID{2},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.TrackableID{id}, activeIDs(u))
	assert.Empty(t, u.ActiveChartables())
	assert.Empty(t, u.ActiveLineCharts())

	parts := u.Parts()
	assert.Equal(t, []Visibility[model.TrackableKind]{{ID: id, Visible: false}}, parts.ActiveTrackables)
	assert.Empty(t, parts.ActiveLineCharts)
}

func TestResolveDataSet(t *testing.T) {
	u, smoke, _, badThings := badThings(t)

	ds, err := u.ResolveDataSet(model.ChartableRef{ID: badThings})
	require.NoError(t, err)
	assert.Equal(t, "Bad things", ds.Name)
	assert.Equal(t, colour.Purple, ds.Colour)

	ds, err = u.ResolveDataSet(model.TrackableRef{ID: smoke, Multiplier: 2, Inverted: true})
	require.NoError(t, err)
	assert.Equal(t, "Did you smoke?", ds.Name)
	assert.Equal(t, colour.Red, ds.Colour)
	assert.Equal(t, map[day.Day]float64{737772: 0, 737773: 2}, ds.Points)

	_, err = u.ResolveDataSet(model.ChartableRef{ID: 42})
	require.ErrorIs(t, err, identified.ErrNotFound)
}

// helpers

func trackable(t *testing.T, question string, kind model.DataKind) model.Trackable {
	t.Helper()

	tr, err := model.NewTrackable(question, colour.Blue, kind)
	require.NoError(t, err)

	return tr
}

func badThings(t *testing.T) (*UserData, model.TrackableID, model.TrackableID, model.ChartableID) {
	t.Helper()

	smokeTrackable, err := model.NewTrackable("Did you smoke?", colour.Red, model.KindYesNo)
	require.NoError(t, err)
	smokeTrackable, err = smokeTrackable.Answer(737772, "yes")
	require.NoError(t, err)
	smokeTrackable, err = smokeTrackable.Answer(737773, "no")
	require.NoError(t, err)

	chocolateTrackable, err := model.NewTrackable("chocolate bars", colour.Brown, model.KindInt)
	require.NoError(t, err)

	u := New()
	smoke, u := u.AddTrackable(smokeTrackable)
	chocolate, u := u.AddTrackable(chocolateTrackable)

	own := colour.Purple
	id, u := u.AddChartable(model.ChartableState{
		Name:      "Bad things",
		OwnColour: &own,
		Inverted:  true,
		Sum: []model.SumEntry{
			{TrackableID: smoke, Multiplier: 5},
			{TrackableID: chocolate, Multiplier: 1},
		},
	})

	return u, smoke, chocolate, id
}

func activeIDs(u *UserData) []model.TrackableID {
	active := u.ActiveTrackables()
	out := make([]model.TrackableID, len(active))
	for i, a := range active {
		out[i] = a.ID
	}

	return out
}
