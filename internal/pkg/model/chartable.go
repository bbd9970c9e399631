package model

import (
	"maps"
	"slices"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
)

// SumEntry is one weighted constituent of a chartable.
type SumEntry struct {
	TrackableID TrackableID
	Multiplier  float64
}

// ChartableState is what gets persisted for a chartable. Everything else is derived from it.
type ChartableState struct {
	Name      string
	OwnColour *colour.Colour
	Inverted  bool
	Sum       []SumEntry
}

// Validate checks the colour override, when there is one.
func (s ChartableState) Validate() error {
	if s.OwnColour == nil {
		return nil
	}

	return checkColour(*s.OwnColour)
}

// ResolvedEntry is a [SumEntry] whose trackable was found.
type ResolvedEntry struct {
	TrackableID TrackableID
	Trackable   Trackable
	Multiplier  float64
}

// Chartable is a [ChartableState] together with its derived presentation.
//
// The presentation is only ever produced by [BuildChartable], which every mutation goes through.
type Chartable struct {
	state         ChartableState
	resolved      []ResolvedEntry
	displayColour colour.Colour
	dataPoints    map[day.Day]float64
}

// BuildChartable resolves the sum against the trackables and computes colour and data points.
//
// Sum entries referring to trackables that no longer exist are dropped from the state, not
// reported.
func BuildChartable(trackables Trackables, state ChartableState) Chartable {
	if state.OwnColour != nil {
		c := *state.OwnColour
		state.OwnColour = &c
	}

	sum := state.Sum[:0:0]
	resolved := make([]ResolvedEntry, 0, len(state.Sum))
	for _, entry := range state.Sum {
		t, ok := trackables.Get(entry.TrackableID)
		if !ok {
			continue
		}

		sum = append(sum, entry)
		resolved = append(resolved, ResolvedEntry{TrackableID: entry.TrackableID, Trackable: t, Multiplier: entry.Multiplier})
	}
	state.Sum = sum

	return Chartable{
		state:         state,
		resolved:      resolved,
		displayColour: displayColour(state.OwnColour, resolved),
		dataPoints:    dataPoints(resolved, state.Inverted),
	}
}

func displayColour(own *colour.Colour, resolved []ResolvedEntry) colour.Colour {
	switch {
	case own != nil && len(resolved) > 1:
		return *own
	case len(resolved) > 0:
		return resolved[0].Trackable.Colour
	default:
		return colour.Gray
	}
}

// SumSeries adds up weighted numeric series. Only days where at least one weighted
// constituent has a value appear in the result.
func SumSeries(series []map[day.Day]float64, multipliers []float64) map[day.Day]float64 {
	raw := make(map[day.Day]float64)
	for i, values := range series {
		m := multipliers[i]
		if m == 0 {
			continue
		}

		for d, v := range values {
			raw[d] += m * v
		}
	}

	return raw
}

// Invert maps every value v to max(values) - v.
func Invert(values map[day.Day]float64) map[day.Day]float64 {
	if len(values) == 0 {
		return values
	}

	top := slices.Max(slices.Collect(maps.Values(values)))
	out := make(map[day.Day]float64, len(values))
	for d, v := range values {
		out[d] = top - v
	}

	return out
}

func dataPoints(resolved []ResolvedEntry, inverted bool) map[day.Day]float64 {
	series := make([]map[day.Day]float64, 0, len(resolved))
	multipliers := make([]float64, 0, len(resolved))

	for _, entry := range resolved {
		values, ok := entry.Trackable.OnlyFloatData()
		if !ok {
			continue
		}

		series = append(series, values)
		multipliers = append(multipliers, entry.Multiplier)
	}

	raw := SumSeries(series, multipliers)
	if inverted {
		return Invert(raw)
	}

	return raw
}

// State returns a copy of the persisted part.
func (c Chartable) State() ChartableState {
	s := c.state
	s.Sum = slices.Clone(s.Sum)

	return s
}

// Name of the chartable.
func (c Chartable) Name() string { return c.state.Name }

// Inverted reports whether the data points are inverted.
func (c Chartable) Inverted() bool { return c.state.Inverted }

// OwnColour returns the explicit colour override, if any.
func (c Chartable) OwnColour() (colour.Colour, bool) {
	if c.state.OwnColour == nil {
		return "", false
	}

	return *c.state.OwnColour, true
}

// DisplayColour is the colour the chartable is painted with.
func (c Chartable) DisplayColour() colour.Colour { return c.displayColour }

// ResolvedSum lists the constituents that could be resolved.
func (c Chartable) ResolvedSum() []ResolvedEntry { return slices.Clone(c.resolved) }

// DataPoints returns a copy of the derived series.
func (c Chartable) DataPoints() map[day.Day]float64 { return maps.Clone(c.dataPoints) }

// References reports whether the trackable is part of the sum.
func (c Chartable) References(id TrackableID) bool {
	return slices.ContainsFunc(c.state.Sum, func(e SumEntry) bool { return e.TrackableID == id })
}

// Rebuild recomputes the presentation against the current trackables.
func (c Chartable) Rebuild(trackables Trackables) Chartable {
	return BuildChartable(trackables, c.state)
}

// SetName renames the chartable.
func (c Chartable) SetName(trackables Trackables, name string) Chartable {
	s := c.State()
	s.Name = name

	return BuildChartable(trackables, s)
}

// SetColour sets or clears (nil) the colour override. A colour outside the palette fails with
// a [ValidationError].
func (c Chartable) SetColour(trackables Trackables, own *colour.Colour) (Chartable, error) {
	s := c.State()
	s.OwnColour = own
	if err := s.Validate(); err != nil {
		return c, err
	}

	return BuildChartable(trackables, s), nil
}

// SetInverted flips the data points around their maximum.
func (c Chartable) SetInverted(trackables Trackables, inverted bool) Chartable {
	s := c.State()
	s.Inverted = inverted

	return BuildChartable(trackables, s)
}

// AddTrackable appends a constituent.
func (c Chartable) AddTrackable(trackables Trackables, id TrackableID, multiplier float64) Chartable {
	s := c.State()
	s.Sum = append(s.Sum, SumEntry{TrackableID: id, Multiplier: multiplier})

	return BuildChartable(trackables, s)
}

// DeleteTrackable removes a constituent. When a single constituent remains, the colour override
// is cleared and the chartable takes that constituent's colour.
func (c Chartable) DeleteTrackable(trackables Trackables, id TrackableID) Chartable {
	s := c.State()
	s.Sum = slices.DeleteFunc(s.Sum, func(e SumEntry) bool { return e.TrackableID == id })
	if len(s.Sum) == 1 {
		s.OwnColour = nil
	}

	return BuildChartable(trackables, s)
}

// ReplaceTrackable swaps a constituent for another trackable, keeping its multiplier.
func (c Chartable) ReplaceTrackable(trackables Trackables, old, replacement TrackableID) Chartable {
	s := c.State()
	for i, e := range s.Sum {
		if e.TrackableID == old {
			s.Sum[i].TrackableID = replacement
		}
	}

	return BuildChartable(trackables, s)
}

// SetMultiplier changes the weight of a constituent.
func (c Chartable) SetMultiplier(trackables Trackables, id TrackableID, multiplier float64) Chartable {
	s := c.State()
	for i, e := range s.Sum {
		if e.TrackableID == id {
			s.Sum[i].Multiplier = multiplier
		}
	}

	return BuildChartable(trackables, s)
}
