package model

import "slices"

// DataSetReference designates what a line chart entry plots: a [ChartableRef] or a [TrackableRef].
type DataSetReference interface {
	isDataSetReference()
}

// ChartableRef plots a chartable.
type ChartableRef struct {
	ID ChartableID
}

// TrackableRef plots a single trackable, weighted and optionally inverted like a one-entry chartable.
type TrackableRef struct {
	ID         TrackableID
	Multiplier float64
	Inverted   bool
}

func (ChartableRef) isDataSetReference() {}
func (TrackableRef) isDataSetReference() {}

// LineChartEntry is one plotted data set.
type LineChartEntry struct {
	Ref     DataSetReference
	Visible bool
}

// LineChart is an ordered list of data sets drawn together. The order is both the list order
// and the stacking order.
type LineChart struct {
	Name      string
	FillLines bool
	Data      []LineChartEntry
}

// NewLineChart builds an empty line chart.
func NewLineChart(name string) LineChart {
	return LineChart{Name: name}
}

// SetName renames the chart.
func (c LineChart) SetName(name string) LineChart {
	c.Name = name

	return c
}

// SetFillLines switches between filled areas and strokes.
func (c LineChart) SetFillLines(fill bool) LineChart {
	c.FillLines = fill

	return c
}

// AddChartable appends a visible chartable.
func (c LineChart) AddChartable(id ChartableID) LineChart {
	return c.add(ChartableRef{ID: id})
}

// AddTrackable appends a visible trackable.
func (c LineChart) AddTrackable(id TrackableID, multiplier float64, inverted bool) LineChart {
	return c.add(TrackableRef{ID: id, Multiplier: multiplier, Inverted: inverted})
}

func (c LineChart) add(ref DataSetReference) LineChart {
	c.Data = append(slices.Clone(c.Data), LineChartEntry{Ref: ref, Visible: true})

	return c
}

// MoveUp swaps entry i with its predecessor. Nothing happens at the first index.
func (c LineChart) MoveUp(i int) LineChart {
	return c.swap(i, i-1)
}

// MoveDown swaps entry i with its successor. Nothing happens at the last index.
func (c LineChart) MoveDown(i int) LineChart {
	return c.swap(i, i+1)
}

func (c LineChart) swap(i, j int) LineChart {
	if !c.inRange(i) || !c.inRange(j) {
		return c
	}

	c.Data = slices.Clone(c.Data)
	c.Data[i], c.Data[j] = c.Data[j], c.Data[i]

	return c
}

// ToggleVisible flips the visibility of entry i.
func (c LineChart) ToggleVisible(i int) LineChart {
	if !c.inRange(i) {
		return c
	}

	c.Data = slices.Clone(c.Data)
	c.Data[i].Visible = !c.Data[i].Visible

	return c
}

// ReplaceWithChartable puts a chartable at index i, made visible.
func (c LineChart) ReplaceWithChartable(i int, id ChartableID) LineChart {
	return c.replace(i, ChartableRef{ID: id})
}

// ReplaceWithTrackable puts a trackable at index i, made visible.
func (c LineChart) ReplaceWithTrackable(i int, id TrackableID, multiplier float64, inverted bool) LineChart {
	return c.replace(i, TrackableRef{ID: id, Multiplier: multiplier, Inverted: inverted})
}

func (c LineChart) replace(i int, ref DataSetReference) LineChart {
	if !c.inRange(i) {
		return c
	}

	c.Data = slices.Clone(c.Data)
	c.Data[i] = LineChartEntry{Ref: ref, Visible: true}

	return c
}

// DeleteData removes entry i. Later entries shift down by one.
func (c LineChart) DeleteData(i int) LineChart {
	if !c.inRange(i) {
		return c
	}

	c.Data = slices.Delete(slices.Clone(c.Data), i, i+1)

	return c
}

// RemoveChartable drops every entry plotting the chartable.
func (c LineChart) RemoveChartable(id ChartableID) LineChart {
	return c.removeWhere(func(ref DataSetReference) bool {
		r, ok := ref.(ChartableRef)

		return ok && r.ID == id
	})
}

// RemoveTrackable drops every entry plotting the trackable directly.
func (c LineChart) RemoveTrackable(id TrackableID) LineChart {
	return c.removeWhere(func(ref DataSetReference) bool {
		r, ok := ref.(TrackableRef)

		return ok && r.ID == id
	})
}

func (c LineChart) removeWhere(match func(DataSetReference) bool) LineChart {
	c.Data = slices.DeleteFunc(slices.Clone(c.Data), func(e LineChartEntry) bool { return match(e.Ref) })

	return c
}

func (c LineChart) inRange(i int) bool {
	return i >= 0 && i < len(c.Data)
}
