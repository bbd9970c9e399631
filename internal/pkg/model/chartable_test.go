package model

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/identified"
)

func TestBadThings(t *testing.T) {
	trackables, smoke, chocolate := badThingsTrackables(t)

	c := BuildChartable(trackables, ChartableState{
		Name: "Bad things",
		Sum: []SumEntry{
			{TrackableID: smoke, Multiplier: 5},
			{TrackableID: chocolate, Multiplier: 1},
		},
	})
	assert.Equal(t, map[day.Day]float64{737772: 5, 737773: 0}, c.DataPoints(), spew.Sdump(c))

	inverted := c.SetInverted(trackables, true)
	assert.Equal(t, map[day.Day]float64{737772: 0, 737773: 5}, inverted.DataPoints())

	t.Run("inversion round trip", func(t *testing.T) {
		back := inverted.SetInverted(trackables, false)
		assert.Equal(t, c.DataPoints(), back.DataPoints())
	})

	t.Run("rebuild is idempotent", func(t *testing.T) {
		once := inverted.Rebuild(trackables)
		twice := once.Rebuild(trackables)
		assert.Equal(t, once.DataPoints(), twice.DataPoints())
		assert.Equal(t, inverted.DataPoints(), once.DataPoints())
	})

	t.Run("chocolate joins the sum once answered", func(t *testing.T) {
		updated, err := trackables.TryUpdate(chocolate, func(tr Trackable) (Trackable, error) {
			return tr.Answer(737774, "3")
		})
		require.NoError(t, err)

		rebuilt := c.Rebuild(updated)
		assert.Equal(t, map[day.Day]float64{737772: 5, 737773: 0, 737774: 3}, rebuilt.DataPoints())
	})
}

func TestMultiplierZero(t *testing.T) {
	trackables := identified.Empty[TrackableKind, Trackable]()
	a, trackables := trackables.Add(answered(t, KindInt, colour.Red, map[day.Day]string{1: "2", 2: "4"}))
	b, trackables := trackables.Add(answered(t, KindInt, colour.Green, map[day.Day]string{2: "1"}))

	c := BuildChartable(trackables, ChartableState{Sum: []SumEntry{
		{TrackableID: a, Multiplier: 1},
		{TrackableID: b, Multiplier: 1},
	}})
	assert.Equal(t, map[day.Day]float64{1: 2, 2: 5}, c.DataPoints())

	t.Run("other constituents keep the date", func(t *testing.T) {
		zeroed := c.SetMultiplier(trackables, b, 0)
		assert.Equal(t, map[day.Day]float64{1: 2, 2: 4}, zeroed.DataPoints())
	})

	t.Run("sole contributor removes the date", func(t *testing.T) {
		zeroed := c.SetMultiplier(trackables, a, 0)
		assert.Equal(t, map[day.Day]float64{2: 1}, zeroed.DataPoints())
	})
}

func TestDeletedTrackableIsDropped(t *testing.T) {
	trackables, smoke, chocolate := badThingsTrackables(t)
	c := BuildChartable(trackables, ChartableState{Sum: []SumEntry{
		{TrackableID: chocolate, Multiplier: 1},
		{TrackableID: smoke, Multiplier: 2},
	}})
	require.Len(t, c.ResolvedSum(), 2)

	remaining, err := trackables.TryDelete(smoke)
	require.NoError(t, err)

	rebuilt := c.Rebuild(remaining)
	require.Len(t, rebuilt.ResolvedSum(), 1)
	assert.Equal(t, chocolate, rebuilt.ResolvedSum()[0].TrackableID)
	assert.Empty(t, rebuilt.DataPoints())
	assert.Equal(t, []SumEntry{{TrackableID: chocolate, Multiplier: 1}}, rebuilt.State().Sum)
}

func TestUnresolvedEntryNeverCapturesANewTrackable(t *testing.T) {
	trackables, smoke, _ := badThingsTrackables(t)
	missing := TrackableID(3)
	require.False(t, trackables.Has(missing))

	c := BuildChartable(trackables, ChartableState{Sum: []SumEntry{
		{TrackableID: smoke, Multiplier: 1},
		{TrackableID: missing, Multiplier: 2},
	}})
	assert.False(t, c.References(missing))

	added, trackables := trackables.Add(answered(t, KindInt, colour.Teal, map[day.Day]string{737772: "7"}))
	require.Equal(t, missing, added)

	rebuilt := c.Rebuild(trackables)
	assert.False(t, rebuilt.References(added))
	assert.Equal(t, map[day.Day]float64{737772: 1, 737773: 0}, rebuilt.DataPoints())
}

func TestDisplayColour(t *testing.T) {
	trackables, smoke, chocolate := badThingsTrackables(t)
	own := colour.Purple

	t.Run("no constituent", func(t *testing.T) {
		c := BuildChartable(trackables, ChartableState{OwnColour: &own})
		assert.Equal(t, colour.Gray, c.DisplayColour())
	})

	t.Run("single constituent ignores the override", func(t *testing.T) {
		c := BuildChartable(trackables, ChartableState{OwnColour: &own, Sum: []SumEntry{{TrackableID: smoke, Multiplier: 1}}})
		assert.Equal(t, colour.Red, c.DisplayColour())
	})

	t.Run("several constituents use the override", func(t *testing.T) {
		c := BuildChartable(trackables, ChartableState{OwnColour: &own, Sum: []SumEntry{
			{TrackableID: smoke, Multiplier: 1},
			{TrackableID: chocolate, Multiplier: 1},
		}})
		assert.Equal(t, colour.Purple, c.DisplayColour())

		t.Run("deleting down to one clears the override", func(t *testing.T) {
			single := c.DeleteTrackable(trackables, smoke)
			_, hasOwn := single.OwnColour()
			assert.False(t, hasOwn)
			assert.Equal(t, colour.Brown, single.DisplayColour())
		})

		t.Run("without override, the first constituent wins", func(t *testing.T) {
			plain, err := c.SetColour(trackables, nil)
			require.NoError(t, err)
			assert.Equal(t, colour.Red, plain.DisplayColour())
		})
	})
}

func TestChartableSetColour(t *testing.T) {
	trackables, smoke, chocolate := badThingsTrackables(t)
	c := BuildChartable(trackables, ChartableState{Sum: []SumEntry{
		{TrackableID: smoke, Multiplier: 1},
		{TrackableID: chocolate, Multiplier: 1},
	}})

	for _, tc := range []struct {
		name  string
		own   colour.Colour
		valid bool
	}{
		{name: "palette colour", own: colour.Pink, valid: true},
		{name: "empty", own: ""},
		{name: "mixed case", own: "Red"},
		{name: "unknown", own: "mauve"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			own := tc.own
			updated, err := c.SetColour(trackables, &own)
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.own, updated.DisplayColour())

				return
			}

			require.ErrorIs(t, err, ErrInvalid)
			require.ErrorIs(t, err, colour.ErrUnknownColour)
			_, hasOwn := updated.OwnColour()
			assert.False(t, hasOwn, "a rejected colour leaves the chartable unchanged")
		})
	}

	t.Run("state validation", func(t *testing.T) {
		bad := colour.Colour("")
		require.ErrorIs(t, ChartableState{OwnColour: &bad}.Validate(), ErrInvalid)
		require.NoError(t, ChartableState{}.Validate())
	})
}

func TestChartableMutations(t *testing.T) {
	trackables, smoke, chocolate := badThingsTrackables(t)
	c := BuildChartable(trackables, ChartableState{Name: "x"})

	c = c.SetName(trackables, "Bad things").AddTrackable(trackables, smoke, 5)
	assert.Equal(t, "Bad things", c.Name())
	assert.True(t, c.References(smoke))
	assert.False(t, c.References(chocolate))

	replaced := c.ReplaceTrackable(trackables, smoke, chocolate)
	assert.True(t, replaced.References(chocolate))
	assert.False(t, replaced.References(smoke))
	assert.InDelta(t, 5.0, replaced.State().Sum[0].Multiplier, 1e-12)
	assert.Empty(t, replaced.DataPoints())

	assert.True(t, c.References(smoke), "the receiver must never change")
}

// helpers

func badThingsTrackables(t *testing.T) (Trackables, TrackableID, TrackableID) {
	t.Helper()

	trackables := identified.Empty[TrackableKind, Trackable]()
	smokeTrackable := answered(t, KindYesNo, colour.Red, map[day.Day]string{737772: "yes", 737773: "no"})
	smokeTrackable.Question = "Did you smoke?"
	smoke, trackables := trackables.Add(smokeTrackable)

	chocolateTrackable := answered(t, KindInt, colour.Brown, nil)
	chocolateTrackable.Question = "chocolate bars"
	chocolate, trackables := trackables.Add(chocolateTrackable)

	return trackables, smoke, chocolate
}

func answered(t *testing.T, kind DataKind, c colour.Colour, answers map[day.Day]string) Trackable {
	t.Helper()

	tr, err := NewTrackable("question", c, kind)
	require.NoError(t, err)

	for d, raw := range answers {
		tr, err = tr.Answer(d, raw)
		require.NoError(t, err)
	}

	return tr
}
