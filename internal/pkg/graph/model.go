// Package graph computes and renders interactive line graphs.
//
// A [Model] holds the plotted data sets together with the interaction state (hovered series,
// selected series, selected point). [Update] applies pointer messages to it, and the views
// ([ViewJustYAxis], [ViewLineGraph]) render the same model as SVG so that a frozen y-axis and a
// horizontally scrolling graph stay in sync.
package graph

import (
	"slices"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
)

// DataSetID identifies a data set by its index in the line chart it comes from.
type DataSetID int

// DataSet is one plotted series.
type DataSet struct {
	ID      DataSetID
	Name    string
	Colour  colour.Colour
	Visible bool
	Points  map[day.Day]float64
}

// PointRef designates a point of a data set.
type PointRef struct {
	DataSet DataSetID
	Day     day.Day
}

// Model is the input of the views: data sets, display flags and interaction state.
type Model struct {
	Today      day.Day
	FillLines  bool
	ShowPoints bool
	DataSets   []DataSet

	Hovered       *DataSetID
	Selected      *DataSetID
	SelectedPoint *PointRef
}

// NewModel builds a model without interaction state.
func NewModel(today day.Day, fillLines bool, dataSets []DataSet) Model {
	return Model{Today: today, FillLines: fillLines, DataSets: slices.Clone(dataSets)}
}

// DataSet looks up a data set.
func (m Model) DataSet(id DataSetID) (DataSet, bool) {
	i := slices.IndexFunc(m.DataSets, func(ds DataSet) bool { return ds.ID == id })
	if i < 0 {
		return DataSet{}, false
	}

	return m.DataSets[i], true
}

// VisibleDataSets returns the visible data sets in stored order.
func (m Model) VisibleDataSets() []DataSet {
	out := make([]DataSet, 0, len(m.DataSets))
	for _, ds := range m.DataSets {
		if ds.Visible {
			out = append(out, ds)
		}
	}

	return out
}

// WithDataSets replaces the data sets, keeping the interaction state that still applies.
func (m Model) WithDataSets(dataSets []DataSet) Model {
	m.DataSets = slices.Clone(dataSets)

	if m.Hovered != nil && !m.isVisible(*m.Hovered) {
		m.Hovered = nil
	}
	if m.Selected != nil && !m.isVisible(*m.Selected) {
		m.Selected = nil
	}
	if m.SelectedPoint != nil {
		ds, ok := m.DataSet(m.SelectedPoint.DataSet)
		if _, has := ds.Points[m.SelectedPoint.Day]; !ok || !ds.Visible || !has {
			m.SelectedPoint = nil
		}
	}

	return m
}

func (m Model) isVisible(id DataSetID) bool {
	ds, ok := m.DataSet(id)

	return ok && ds.Visible
}

func ref[T any](v T) *T {
	return &v
}
