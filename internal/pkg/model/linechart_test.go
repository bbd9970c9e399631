package model

import (
	"testing"

	"github.com/go-openapi/testify/v2/assert"
)

func TestLineChartOrdering(t *testing.T) {
	c := NewLineChart("overview").
		AddChartable(1).
		AddTrackable(2, 1, false).
		AddChartable(3)

	assert.Equal(t, []DataSetReference{ChartableRef{ID: 1}, TrackableRef{ID: 2, Multiplier: 1}, ChartableRef{ID: 3}}, refs(c))

	t.Run("move up", func(t *testing.T) {
		moved := c.MoveUp(2)
		assert.Equal(t, []DataSetReference{ChartableRef{ID: 1}, ChartableRef{ID: 3}, TrackableRef{ID: 2, Multiplier: 1}}, refs(moved))
		assert.Equal(t, ChartableRef{ID: 3}, c.Data[2].Ref, "the receiver must never change")
	})

	t.Run("moves clamp at the bounds", func(t *testing.T) {
		assert.Equal(t, refs(c), refs(c.MoveUp(0)))
		assert.Equal(t, refs(c), refs(c.MoveDown(2)))
		assert.Equal(t, refs(c), refs(c.MoveDown(7)))
	})

	t.Run("toggle keeps the order", func(t *testing.T) {
		toggled := c.ToggleVisible(1)
		assert.Equal(t, refs(c), refs(toggled))
		assert.Equal(t, []bool{true, false, true}, visibility(toggled))
		assert.Equal(t, []bool{true, true, true}, visibility(toggled.ToggleVisible(1)))
	})

	t.Run("replace resets visibility", func(t *testing.T) {
		replaced := c.ToggleVisible(0).ReplaceWithTrackable(0, 9, 2, true)
		assert.Equal(t, LineChartEntry{Ref: TrackableRef{ID: 9, Multiplier: 2, Inverted: true}, Visible: true}, replaced.Data[0])

		replaced = replaced.ReplaceWithChartable(0, 4)
		assert.Equal(t, ChartableRef{ID: 4}, replaced.Data[0].Ref)
	})

	t.Run("delete shifts later entries down", func(t *testing.T) {
		deleted := c.DeleteData(1)
		assert.Equal(t, []DataSetReference{ChartableRef{ID: 1}, ChartableRef{ID: 3}}, refs(deleted))
		assert.Equal(t, refs(c), refs(c.DeleteData(-1)))
	})

	t.Run("remove references", func(t *testing.T) {
		assert.Equal(t, []DataSetReference{TrackableRef{ID: 2, Multiplier: 1}, ChartableRef{ID: 3}}, refs(c.RemoveChartable(1)))
		assert.Equal(t, []DataSetReference{ChartableRef{ID: 1}, ChartableRef{ID: 3}}, refs(c.RemoveTrackable(2)))
		assert.Equal(t, refs(c), refs(c.RemoveTrackable(1)), "a chartable with the same raw id is not a trackable reference")
	})

	t.Run("settings", func(t *testing.T) {
		s := c.SetName("renamed").SetFillLines(true)
		assert.Equal(t, "renamed", s.Name)
		assert.True(t, s.FillLines)
		assert.False(t, c.FillLines)
	})
}

// helpers

func refs(c LineChart) []DataSetReference {
	out := make([]DataSetReference, len(c.Data))
	for i, e := range c.Data {
		out[i] = e.Ref
	}

	return out
}

func visibility(c LineChart) []bool {
	out := make([]bool, len(c.Data))
	for i, e := range c.Data {
		out[i] = e.Visible
	}

	return out
}
