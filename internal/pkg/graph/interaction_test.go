package graph

import (
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
)

func TestSelection(t *testing.T) {
	m := threeDataSets()

	t.Run("clicking the selected series unselects it", func(t *testing.T) {
		selected := Update(m, Select(0))
		require.NotNil(t, selected.Selected)
		assert.Equal(t, DataSetID(0), *selected.Selected)

		unselected := Update(selected, Select(0))
		assert.Nil(t, unselected.Selected)
		assert.Nil(t, unselected.SelectedPoint)
	})

	t.Run("clicking another series switches the selection and drops the hover", func(t *testing.T) {
		next := apply(m, Hover(0), Select(0), Select(1))
		require.NotNil(t, next.Selected)
		assert.Equal(t, DataSetID(1), *next.Selected)
		assert.Nil(t, next.Hovered)
	})

	t.Run("clicking nothing clears the selected point", func(t *testing.T) {
		next := apply(m, SelectPoint{Point: PointRef{DataSet: 1, Day: base}}, SelectDataSet{})
		assert.Nil(t, next.Selected)
		assert.Nil(t, next.SelectedPoint)
	})

	t.Run("hidden or unknown series cannot be selected", func(t *testing.T) {
		hidden := Update(m, SetVisible{ID: 2, Visible: false})
		assert.Nil(t, Update(hidden, Select(2)).Selected)
		assert.Nil(t, Update(m, Select(9)).Selected)
	})
}

func TestHover(t *testing.T) {
	m := threeDataSets()

	t.Run("hover without selection", func(t *testing.T) {
		next := Update(m, Hover(2))
		require.NotNil(t, next.Hovered)
		assert.Equal(t, DataSetID(2), *next.Hovered)
	})

	t.Run("other series are not hovered while one is selected", func(t *testing.T) {
		next := apply(m, Select(0), Hover(1))
		assert.Nil(t, next.Hovered)

		next = Update(next, Hover(0))
		require.NotNil(t, next.Hovered)
		assert.Equal(t, DataSetID(0), *next.Hovered)
	})

	t.Run("leaving clears the hover only", func(t *testing.T) {
		next := apply(m, Select(0), Hover(0), HoverDataSet{})
		assert.Nil(t, next.Hovered)
		require.NotNil(t, next.Selected)
		assert.Equal(t, DataSetID(0), *next.Selected)
	})
}

func TestSelectPoint(t *testing.T) {
	m := apply(threeDataSets(), Select(0))

	next := Update(m, SelectPoint{Point: PointRef{DataSet: 1, Day: base + 1}})
	require.NotNil(t, next.Selected)
	require.NotNil(t, next.SelectedPoint)
	assert.Equal(t, DataSetID(1), *next.Selected)
	assert.Equal(t, PointRef{DataSet: 1, Day: base + 1}, *next.SelectedPoint)

	t.Run("another point replaces it", func(t *testing.T) {
		other := Update(next, SelectPoint{Point: PointRef{DataSet: 2, Day: base}})
		assert.Equal(t, PointRef{DataSet: 2, Day: base}, *other.SelectedPoint)
		assert.Equal(t, DataSetID(2), *other.Selected)
	})

	t.Run("missing points are ignored", func(t *testing.T) {
		same := Update(next, SelectPoint{Point: PointRef{DataSet: 1, Day: base + 30}})
		assert.Equal(t, next, same)
	})

	t.Run("selecting another series drops the point", func(t *testing.T) {
		other := Update(next, Select(2))
		assert.Nil(t, other.SelectedPoint)
		assert.Equal(t, DataSetID(2), *other.Selected)
	})
}

func TestSetVisible(t *testing.T) {
	m := apply(threeDataSets(), Hover(1), SelectPoint{Point: PointRef{DataSet: 1, Day: base}})
	require.NotNil(t, m.Hovered)

	hidden := Update(m, SetVisible{ID: 1, Visible: false})
	assert.Nil(t, hidden.Hovered)
	assert.Nil(t, hidden.Selected)
	assert.Nil(t, hidden.SelectedPoint)
	assert.Len(t, hidden.VisibleDataSets(), 2)
	assert.Len(t, m.VisibleDataSets(), 3, "the receiver must never change")

	shown := Update(hidden, SetVisible{ID: 1, Visible: true})
	assert.Len(t, shown.VisibleDataSets(), 3)
	assert.Nil(t, shown.Selected)
}

func TestPaintOrder(t *testing.T) {
	m := threeDataSets()

	for _, tc := range []struct {
		name string
		m    Model
		want []DataSetID
	}{
		{name: "first listed paints last", m: m, want: []DataSetID{2, 1, 0}},
		{name: "selected on top", m: Update(m, Select(2)), want: []DataSetID{1, 0, 2}},
		{name: "hovered on top", m: Update(m, Hover(1)), want: []DataSetID{2, 0, 1}},
		{name: "hovered above selected", m: Model{DataSets: m.DataSets, Selected: ref(DataSetID(0)), Hovered: ref(DataSetID(2))}, want: []DataSetID{1, 0, 2}},
		{name: "hidden series are skipped", m: Update(m, SetVisible{ID: 1}), want: []DataSetID{2, 0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(PaintOrder(tc.m)))
		})
	}

	assert.Equal(t, []DataSetID{0, 1, 2}, ids(m.DataSets), "painting never reorders the data sets")
}

func TestRemap(t *testing.T) {
	m := apply(threeDataSets(), SelectPoint{Point: PointRef{DataSet: 0, Day: base}})

	moved := RemapAfterMove(m, 0, 1)
	assert.Equal(t, DataSetID(1), *moved.Selected)
	assert.Equal(t, PointRef{DataSet: 1, Day: base}, *moved.SelectedPoint)
	assert.Equal(t, DataSetID(0), *m.Selected, "the receiver must never change")

	t.Run("forget the selected data set", func(t *testing.T) {
		forgotten := ForgetDataSet(m, 0)
		assert.Nil(t, forgotten.Selected)
		assert.Nil(t, forgotten.SelectedPoint)
	})

	t.Run("later data sets shift down", func(t *testing.T) {
		hovered := Update(threeDataSets(), Hover(2))
		forgotten := ForgetDataSet(hovered, 1)
		assert.Equal(t, DataSetID(1), *forgotten.Hovered)
	})
}

func TestWithDataSets(t *testing.T) {
	m := apply(threeDataSets(), SelectPoint{Point: PointRef{DataSet: 1, Day: base + 1}})

	kept := m.WithDataSets(m.DataSets)
	assert.Equal(t, m.SelectedPoint, kept.SelectedPoint)

	changed := m.WithDataSets([]DataSet{m.DataSets[0], {ID: 1, Visible: true, Points: map[day.Day]float64{base: 1}}})
	assert.Nil(t, changed.SelectedPoint, "the selected point no longer exists")
	assert.NotNil(t, changed.Selected)

	hidden := m.WithDataSets([]DataSet{m.DataSets[0]})
	assert.Nil(t, hidden.Selected)
}

// helpers

func threeDataSets() Model {
	return NewModel(base+1, false, []DataSet{
		{ID: 0, Name: "a", Colour: colour.Blue, Visible: true, Points: map[day.Day]float64{base: 1}},
		{ID: 1, Name: "b", Colour: colour.Red, Visible: true, Points: map[day.Day]float64{base: 2, base + 1: 3}},
		{ID: 2, Name: "c", Colour: colour.Green, Visible: true, Points: map[day.Day]float64{base: 4}},
	})
}

func apply(m Model, msgs ...Msg) Model {
	for _, msg := range msgs {
		m = Update(m, msg)
	}

	return m
}

func ids(dataSets []DataSet) []DataSetID {
	out := make([]DataSetID, len(dataSets))
	for i, ds := range dataSets {
		out[i] = ds.ID
	}

	return out
}
