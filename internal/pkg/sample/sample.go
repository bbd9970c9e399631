// Package sample provides the data shown on first run, before anything was ever saved.
package sample

import (
	"fmt"
	"strconv"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// Days is the number of answered days, ending today.
const Days = 21

type question struct {
	text   string
	colour colour.Colour
	kind   model.DataKind
	answer func(i int) string // i counts days back from today, "" skips the day
}

var questions = []question{
	{
		text: "Did you smoke?", colour: colour.Red, kind: model.KindYesNo,
		answer: func(i int) string {
			if i%3 == 0 {
				return "yes"
			}

			return "no"
		},
	},
	{
		text: "Headache", colour: colour.Orange, kind: model.KindScale,
		answer: func(i int) string { return strconv.Itoa(1 + (i*7)%10) },
	},
	{
		text: "Hours of sleep", colour: colour.Indigo, kind: model.KindFloat,
		answer: func(i int) string { return strconv.FormatFloat(5+float64((i*5)%7)/2, 'f', 1, 64) },
	},
	{
		text: "Mood", colour: colour.Green, kind: model.KindIcon,
		answer: func(i int) string { return strconv.Itoa((i * 3) % 5) },
	},
	{
		text: "Chocolate bars", colour: colour.Brown, kind: model.KindInt,
		answer: func(i int) string {
			if i%4 == 1 {
				return ""
			}

			return strconv.Itoa(i % 3)
		},
	},
	{
		text: "Notes", colour: colour.Gray, kind: model.KindText,
		answer: func(i int) string {
			if i%7 != 0 {
				return ""
			}

			return "weekly check-in"
		},
	},
}

// UserData builds the sample trackables, chartables and line charts, answered for the
// [Days] days up to today.
func UserData(today day.Day, opts ...userdata.Option) (*userdata.UserData, error) {
	u := userdata.New(opts...)
	ids := make(map[string]model.TrackableID, len(questions))

	for _, q := range questions {
		t, err := model.NewTrackable(q.text, q.colour, q.kind)
		if err != nil {
			return nil, err
		}

		for i := range Days {
			raw := q.answer(i)
			if raw == "" {
				continue
			}

			t, err = t.Answer(today.Add(-i), raw)
			if err != nil {
				return nil, fmt.Errorf("sample answer to %q: %w", q.text, err)
			}
		}

		var id model.TrackableID
		id, u = u.AddTrackable(t)
		ids[q.text] = id
	}

	own := colour.Purple
	badThings, u := u.AddChartable(model.ChartableState{
		Name:      "Bad things",
		OwnColour: &own,
		Sum: []model.SumEntry{
			{TrackableID: ids["Did you smoke?"], Multiplier: 5},
			{TrackableID: ids["Chocolate bars"], Multiplier: 1},
		},
	})
	wellbeing, u := u.AddChartable(model.ChartableState{
		Name:     "Wellbeing",
		Inverted: true,
		Sum: []model.SumEntry{
			{TrackableID: ids["Headache"], Multiplier: 1},
		},
	})

	_, u = u.AddLineChart(model.NewLineChart("Overview").
		AddChartable(badThings).
		AddChartable(wellbeing).
		AddTrackable(ids["Hours of sleep"], 1, false))
	_, u = u.AddLineChart(model.NewLineChart("Mood").
		SetFillLines(true).
		AddTrackable(ids["Mood"], 1, false).
		AddTrackable(ids["Headache"], 0.5, true))

	return u, nil
}
