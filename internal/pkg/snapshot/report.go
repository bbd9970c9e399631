package snapshot

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// DataReport allows to inspect the contents of decoded user data.
type DataReport struct {
	Trackables []TrackableSummary `json:"trackables"`
	Chartables []ChartableSummary `json:"chartables"`
	LineCharts []LineChartSummary `json:"line_charts"`
}

type TrackableSummary struct {
	ID       int            `json:"id"`
	Question string         `json:"question"`
	Kind     model.DataKind `json:"kind"`
	Active   bool           `json:"active"`
	Range    MinMaxRange    `json:"answers"`
}

type ChartableSummary struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Colour       string      `json:"colour"`
	Inverted     bool        `json:"inverted"`
	Constituents int         `json:"constituents"`
	Range        MinMaxRange `json:"data_points"`
}

type LineChartSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	DataSets int    `json:"data_sets"`
	Visible  int    `json:"visible_data_sets"`
	Active   bool   `json:"active"`
}

// MinMaxRange summarizes a series. Min and Max are only meaningful for numeric series.
type MinMaxRange struct {
	Count    int     `json:"count"`
	FirstDay string  `json:"first_day,omitempty"`
	LastDay  string  `json:"last_day,omitempty"`
	Min      float64 `json:"min_value"`
	Max      float64 `json:"max_value"`
}

// Report produces a [DataReport].
func Report(u *userdata.UserData) DataReport {
	const sensibleAllocs = 10
	r := DataReport{
		Trackables: make([]TrackableSummary, 0, sensibleAllocs),
		Chartables: make([]ChartableSummary, 0, sensibleAllocs),
		LineCharts: make([]LineChartSummary, 0, sensibleAllocs),
	}
	parts := u.Parts()

	for _, e := range u.Trackables().Entries() {
		t := e.Value
		s := TrackableSummary{
			ID:       e.ID.Int(),
			Question: t.Question,
			Kind:     t.Kind(),
			Active:   slices.ContainsFunc(parts.ActiveTrackables, func(v userdata.Visibility[model.TrackableKind]) bool { return v.ID == e.ID }),
		}

		if values, ok := t.OnlyFloatData(); ok {
			s.Range = summarize(values)
		} else if t.Data != nil {
			s.Range = MinMaxRange{Count: t.Data.Len()}
			if first, ok := t.FirstDay(); ok {
				last, _ := t.LastDay()
				s.Range.FirstDay, s.Range.LastDay = first.String(), last.String()
			}
		}

		r.Trackables = append(r.Trackables, s)
	}

	for _, e := range u.Chartables().Entries() {
		c := e.Value
		r.Chartables = append(r.Chartables, ChartableSummary{
			ID:           e.ID.Int(),
			Name:         c.Name(),
			Colour:       c.DisplayColour().String(),
			Inverted:     c.Inverted(),
			Constituents: len(c.ResolvedSum()),
			Range:        summarize(c.DataPoints()),
		})
	}

	for _, e := range u.LineCharts().Entries() {
		s := LineChartSummary{
			ID:       e.ID.Int(),
			Name:     e.Value.Name,
			DataSets: len(e.Value.Data),
			Active:   slices.Contains(parts.ActiveLineCharts, e.ID),
		}
		for _, d := range e.Value.Data {
			if d.Visible {
				s.Visible++
			}
		}

		r.LineCharts = append(r.LineCharts, s)
	}

	return r
}

func summarize(values map[day.Day]float64) MinMaxRange {
	if len(values) == 0 {
		return MinMaxRange{}
	}

	days := slices.Sorted(maps.Keys(values))
	numbers := slices.Collect(maps.Values(values))

	return MinMaxRange{
		Count:    len(values),
		FirstDay: days[0].String(),
		LastDay:  days[len(days)-1].String(),
		Min:      slices.Min(numbers),
		Max:      slices.Max(numbers),
	}
}

// Print writes a human-readable summary, with numbers formatted for the given language.
func (r DataReport) Print(w io.Writer, tag language.Tag) error {
	p := message.NewPrinter(tag)

	for _, t := range r.Trackables {
		if _, err := p.Fprintf(w, "trackable %d %q (%s): %d answers", t.ID, t.Question, t.Kind, t.Range.Count); err != nil {
			return err
		}
		if err := printRange(w, p, t.Range, t.Kind != model.KindText); err != nil {
			return err
		}
	}

	for _, c := range r.Chartables {
		if _, err := p.Fprintf(w, "chartable %d %q (%s, %d constituents): %d days", c.ID, c.Name, c.Colour, c.Constituents, c.Range.Count); err != nil {
			return err
		}
		if err := printRange(w, p, c.Range, true); err != nil {
			return err
		}
	}

	for _, c := range r.LineCharts {
		if _, err := p.Fprintf(w, "line chart %d %q: %d of %d data sets visible\n", c.ID, c.Name, c.Visible, c.DataSets); err != nil {
			return err
		}
	}

	return nil
}

func printRange(w io.Writer, p *message.Printer, r MinMaxRange, numeric bool) error {
	var err error
	switch {
	case r.Count == 0:
		_, err = fmt.Fprintln(w)
	case numeric:
		_, err = p.Fprintf(w, " from %s to %s, values in [%.2f, %.2f]\n", r.FirstDay, r.LastDay, r.Min, r.Max)
	default:
		_, err = p.Fprintf(w, " from %s to %s\n", r.FirstDay, r.LastDay)
	}

	return err
}
