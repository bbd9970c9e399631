package app

import (
	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/model"
)

// Event is an input of [App.Update]. Only the types of this package implement it.
type Event interface {
	isEvent()
}

// Loaded delivers the persisted snapshot. A nil blob means a first run.
type Loaded struct {
	Blob []byte
}

// Measured delivers the width available to the graphs.
type Measured struct {
	Width float64
}

// MeasureFailed reports a failed measurement.
type MeasureFailed struct {
	Err error
}

// PersistFailed reports a failed snapshot write.
type PersistFailed struct {
	Err error
}

// SetToday moves the current day.
type SetToday struct {
	Day day.Day
}

// AddTrackable creates a trackable without answers.
type AddTrackable struct {
	Question string
	Colour   colour.Colour
	Kind     model.DataKind
}

// SetQuestion renames a trackable.
type SetQuestion struct {
	ID       model.TrackableID
	Question string
}

// SetTrackableColour repaints a trackable.
type SetTrackableColour struct {
	ID     model.TrackableID
	Colour colour.Colour
}

// Answer records the raw input of a trackable for a day. An empty input clears the answer.
type Answer struct {
	ID  model.TrackableID
	Day day.Day
	Raw string
}

// ConvertTrackable changes the answer kind of a trackable.
type ConvertTrackable struct {
	ID   model.TrackableID
	Kind model.DataKind
}

// DeleteTrackable removes a trackable and every reference to it.
type DeleteTrackable struct {
	ID model.TrackableID
}

// MoveTrackable moves a trackable up or down its active list.
type MoveTrackable struct {
	ID model.TrackableID
	Up bool
}

// ToggleTrackable flips the visibility of a trackable in its active list.
type ToggleTrackable struct {
	ID model.TrackableID
}

// AddChartable creates a chartable.
type AddChartable struct {
	State model.ChartableState
}

// SetChartableName renames a chartable.
type SetChartableName struct {
	ID   model.ChartableID
	Name string
}

// SetChartableColour sets or clears (nil) the colour chosen for a chartable.
type SetChartableColour struct {
	ID     model.ChartableID
	Colour *colour.Colour
}

// SetChartableInverted sets the inversion of a chartable.
type SetChartableInverted struct {
	ID       model.ChartableID
	Inverted bool
}

// AddChartableTrackable adds a trackable to the sum of a chartable.
type AddChartableTrackable struct {
	ID        model.ChartableID
	Trackable model.TrackableID
}

// DeleteChartableTrackable removes a trackable from the sum of a chartable.
type DeleteChartableTrackable struct {
	ID        model.ChartableID
	Trackable model.TrackableID
}

// ReplaceChartableTrackable substitutes a trackable in the sum of a chartable.
type ReplaceChartableTrackable struct {
	ID          model.ChartableID
	Trackable   model.TrackableID
	Replacement model.TrackableID
}

// SetMultiplier records the raw multiplier input of a trackable in a chartable.
type SetMultiplier struct {
	ID        model.ChartableID
	Trackable model.TrackableID
	Raw       string
}

// DeleteChartable removes a chartable and every reference to it.
type DeleteChartable struct {
	ID model.ChartableID
}

// MoveChartable moves a chartable up or down its active list.
type MoveChartable struct {
	ID model.ChartableID
	Up bool
}

// ToggleChartable flips the visibility of a chartable in its active list.
type ToggleChartable struct {
	ID model.ChartableID
}

// AddLineChart creates an empty line chart.
type AddLineChart struct {
	Name string
}

// SetLineChartName renames a line chart.
type SetLineChartName struct {
	ID   model.LineChartID
	Name string
}

// SetFillLines switches a line chart between filled areas and strokes.
type SetFillLines struct {
	ID   model.LineChartID
	Fill bool
}

// AddLineChartData appends a data set to a line chart.
type AddLineChartData struct {
	ID  model.LineChartID
	Ref model.DataSetReference
}

// MoveLineChartData moves the data set at Index up or down its line chart.
type MoveLineChartData struct {
	ID    model.LineChartID
	Index int
	Up    bool
}

// ToggleLineChartData flips the visibility of the data set at Index.
type ToggleLineChartData struct {
	ID    model.LineChartID
	Index int
}

// ReplaceLineChartData substitutes the data set at Index.
type ReplaceLineChartData struct {
	ID    model.LineChartID
	Index int
	Ref   model.DataSetReference
}

// DeleteLineChartData removes the data set at Index.
type DeleteLineChartData struct {
	ID    model.LineChartID
	Index int
}

// DeleteLineChart removes a line chart.
type DeleteLineChart struct {
	ID model.LineChartID
}

// MoveLineChart moves a line chart up or down the active list.
type MoveLineChart struct {
	ID model.LineChartID
	Up bool
}

// GraphMsg routes a pointer interaction to the graph of a line chart.
type GraphMsg struct {
	Chart model.LineChartID
	Msg   graph.Msg
}

func (Loaded) isEvent()                    {}
func (Measured) isEvent()                  {}
func (MeasureFailed) isEvent()             {}
func (PersistFailed) isEvent()             {}
func (SetToday) isEvent()                  {}
func (AddTrackable) isEvent()              {}
func (SetQuestion) isEvent()               {}
func (SetTrackableColour) isEvent()        {}
func (Answer) isEvent()                    {}
func (ConvertTrackable) isEvent()          {}
func (DeleteTrackable) isEvent()           {}
func (MoveTrackable) isEvent()             {}
func (ToggleTrackable) isEvent()           {}
func (AddChartable) isEvent()              {}
func (SetChartableName) isEvent()          {}
func (SetChartableColour) isEvent()        {}
func (SetChartableInverted) isEvent()      {}
func (AddChartableTrackable) isEvent()     {}
func (DeleteChartableTrackable) isEvent()  {}
func (ReplaceChartableTrackable) isEvent() {}
func (SetMultiplier) isEvent()             {}
func (DeleteChartable) isEvent()           {}
func (MoveChartable) isEvent()             {}
func (ToggleChartable) isEvent()           {}
func (AddLineChart) isEvent()              {}
func (SetLineChartName) isEvent()          {}
func (SetFillLines) isEvent()              {}
func (AddLineChartData) isEvent()          {}
func (MoveLineChartData) isEvent()         {}
func (ToggleLineChartData) isEvent()       {}
func (ReplaceLineChartData) isEvent()      {}
func (DeleteLineChartData) isEvent()       {}
func (DeleteLineChart) isEvent()           {}
func (MoveLineChart) isEvent()             {}
func (GraphMsg) isEvent()                  {}
