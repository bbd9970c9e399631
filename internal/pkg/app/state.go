// Package app holds the application state and its event-driven update loop.
//
// [App.Update] is a pure reducer from a [State] and an [Event] to the next state and the
// [Effect] values to carry out. The [Driver] owns the loop: it feeds events to the reducer
// one at a time, writes snapshots through a throttle and turns measurements into events.
package app

import (
	"errors"
	"fmt"

	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// ErrNotReady is reported for edits received before the data is loaded, or after loading failed.
var ErrNotReady = errors.New("user data not loaded")

// State is the whole application state.
type State struct {
	Data          *userdata.UserData
	Today         day.Day
	Charts        map[model.LineChartID]graph.Model
	ViewportWidth float64

	// Invalid retains the raw input of fields that failed validation, by field key.
	Invalid map[string]string

	// Fatal is set when the persisted snapshot cannot be loaded.
	Fatal error
}

// Ready reports whether user data is loaded.
func (s State) Ready() bool {
	return s.Data != nil && s.Fatal == nil
}

// Chart returns the graph model of an active line chart.
func (s State) Chart(id model.LineChartID) (graph.Model, bool) {
	m, ok := s.Charts[id]

	return m, ok
}

// Settings returns the graph settings adjusted to the measured viewport.
func (s State) Settings(base graph.Settings) graph.Settings {
	if s.ViewportWidth > 0 {
		base.ViewportWidth = s.ViewportWidth
	}

	return base
}

// Field keys of the inputs that do not belong to an existing entity yet.
const (
	NewTrackableField = "trackable/new"
	NewChartableField = "chartable/new"
)

// AnswerField is the field key of the answer of a trackable for a day.
func AnswerField(id model.TrackableID, d day.Day) string {
	return fmt.Sprintf("trackable/%d/answer/%s", id, d)
}

// KindField is the field key of the answer kind of a trackable.
func KindField(id model.TrackableID) string {
	return fmt.Sprintf("trackable/%d/kind", id)
}

// ColourField is the field key of the colour of a trackable.
func ColourField(id model.TrackableID) string {
	return fmt.Sprintf("trackable/%d/colour", id)
}

// ChartableColourField is the field key of the colour override of a chartable.
func ChartableColourField(id model.ChartableID) string {
	return fmt.Sprintf("chartable/%d/colour", id)
}

// MultiplierField is the field key of the multiplier of a trackable in a chartable.
func MultiplierField(id model.ChartableID, t model.TrackableID) string {
	return fmt.Sprintf("chartable/%d/multiplier/%d", id, t)
}
