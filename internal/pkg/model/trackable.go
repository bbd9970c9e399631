// Package model holds the tracking domain: trackables (typed daily answers), chartables (weighted,
// optionally inverted sums of trackables) and line charts (ordered references to what gets plotted).
//
// All types are values: operations return an updated copy and never alter their receiver.
package model

import (
	"fmt"
	"slices"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
)

// Trackable is a daily question and its answer history.
type Trackable struct {
	Question string
	Colour   colour.Colour
	Data     TrackableData
}

// NewTrackable builds a trackable without answers.
//
// A colour outside the palette fails with a [ValidationError].
func NewTrackable(question string, c colour.Colour, kind DataKind) (Trackable, error) {
	if err := checkColour(c); err != nil {
		return Trackable{}, err
	}

	data, err := EmptyData(kind)
	if err != nil {
		return Trackable{}, err
	}

	return Trackable{Question: question, Colour: c, Data: data}, nil
}

// Validate checks what every stored trackable must satisfy: a palette colour and answer data.
func (t Trackable) Validate() error {
	if t.Data == nil {
		return fmt.Errorf("trackable %q: %w", t.Question, ErrNoAnswerKind)
	}

	return checkColour(t.Colour)
}

// Kind returns the answer kind.
func (t Trackable) Kind() DataKind {
	if t.Data == nil {
		return ""
	}

	return t.Data.Kind()
}

// HasData reports whether at least one day was answered.
func (t Trackable) HasData() bool {
	return t.Data != nil && t.Data.Len() > 0
}

// OnlyFloatData returns the numeric projection of the answers, or false for text answers.
func (t Trackable) OnlyFloatData() (map[day.Day]float64, bool) {
	if t.Data == nil {
		return nil, false
	}

	return OnlyFloatData(t.Data)
}

// FirstDay returns the earliest answered day.
func (t Trackable) FirstDay() (day.Day, bool) {
	if !t.HasData() {
		return 0, false
	}

	return slices.Min(t.Data.Days()), true
}

// LastDay returns the latest answered day.
func (t Trackable) LastDay() (day.Day, bool) {
	if !t.HasData() {
		return 0, false
	}

	return slices.Max(t.Data.Days()), true
}

// SetQuestion renames the trackable.
func (t Trackable) SetQuestion(question string) Trackable {
	t.Question = question

	return t
}

// SetColour repaints the trackable. A colour outside the palette fails with a [ValidationError].
func (t Trackable) SetColour(c colour.Colour) (Trackable, error) {
	if err := checkColour(c); err != nil {
		return t, err
	}
	t.Colour = c

	return t, nil
}

// Answer records the raw answer for a day. An empty answer clears the day.
//
// Input that does not fit the answer kind fails with a [ValidationError].
func (t Trackable) Answer(at day.Day, raw string) (Trackable, error) {
	if t.Data == nil {
		return t, fmt.Errorf("trackable %q: %w", t.Question, ErrNoAnswerKind)
	}

	data, err := answer(t.Data, at, raw)
	if err != nil {
		return t, err
	}
	t.Data = data

	return t, nil
}

// ClearAnswer removes the answer for a day.
func (t Trackable) ClearAnswer(at day.Day) Trackable {
	if t.Data == nil {
		return t
	}

	t.Data, _ = answer(t.Data, at, "")

	return t
}

// ConvertTo changes the answer kind, keeping the answers that convert.
func (t Trackable) ConvertTo(kind DataKind) (Trackable, error) {
	if t.Data == nil {
		return NewTrackable(t.Question, t.Colour, kind)
	}

	data, err := convert(t.Data, kind)
	if err != nil {
		return t, err
	}
	t.Data = data

	return t, nil
}

// MaybeFloatData is [Trackable.OnlyFloatData] with nil standing for "not numeric".
func (t Trackable) MaybeFloatData() map[day.Day]float64 {
	values, ok := t.OnlyFloatData()
	if !ok {
		return nil
	}

	return values
}
