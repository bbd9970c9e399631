package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

// document is the envelope shared by every version.
type document struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type entry[T any] struct {
	ID    int `json:"id"`
	Value T   `json:"value"`
}

type trackableJSON struct {
	Question string            `json:"question"`
	Colour   string            `json:"colour"`
	Data     trackableDataJSON `json:"data"`
}

type trackableDataJSON struct {
	Kind   model.DataKind  `json:"kind"`
	Icons  []string        `json:"icons,omitempty"`
	Min    *int            `json:"min,omitempty"`
	Max    *int            `json:"max,omitempty"`
	Values json.RawMessage `json:"values"`
}

type sumEntryJSON struct {
	TrackableID int     `json:"trackableId"`
	Multiplier  float64 `json:"multiplier"`
}

type activeJSON struct {
	ID      int  `json:"id"`
	Visible bool `json:"visible"`
}

// v1 only knew about trackables.
type dataV1 struct {
	Trackables []entry[trackableJSON] `json:"trackables"`
}

type chartableV2 struct {
	Name   string         `json:"name"`
	Colour string         `json:"colour,omitempty"`
	Sum    []sumEntryJSON `json:"sum"`
}

type lineChartV2 struct {
	Name      string `json:"name"`
	FillLines bool   `json:"fillLines"`
	Data      []int  `json:"data"`
}

// v2 added chartables and line charts made of chartables only.
type dataV2 struct {
	Trackables []entry[trackableJSON] `json:"trackables"`
	Chartables []entry[chartableV2]   `json:"chartables"`
	LineCharts []entry[lineChartV2]   `json:"lineCharts"`
}

type chartableV3 struct {
	Name     string         `json:"name"`
	Colour   string         `json:"colour,omitempty"`
	Inverted bool           `json:"inverted"`
	Sum      []sumEntryJSON `json:"sum"`
}

type dataSetJSON struct {
	Chartable *chartableRefJSON `json:"chartable,omitempty"`
	Trackable *trackableRefJSON `json:"trackable,omitempty"`
}

type chartableRefJSON struct {
	ID int `json:"id"`
}

type trackableRefJSON struct {
	ID         int     `json:"id"`
	Multiplier float64 `json:"multiplier"`
	Inverted   bool    `json:"inverted"`
}

type lineChartEntryJSON struct {
	Visible bool        `json:"visible"`
	DataSet dataSetJSON `json:"dataSet"`
}

type lineChartV3 struct {
	Name      string               `json:"name"`
	FillLines bool                 `json:"fillLines"`
	Data      []lineChartEntryJSON `json:"data"`
}

// dataV3 is the current shape.
type dataV3 struct {
	Trackables       []entry[trackableJSON] `json:"trackables"`
	Chartables       []entry[chartableV3]   `json:"chartables"`
	LineCharts       []entry[lineChartV3]   `json:"lineCharts"`
	ActiveTrackables []activeJSON           `json:"activeTrackables"`
	ActiveChartables []activeJSON           `json:"activeChartables"`
	ActiveLineCharts []int                  `json:"activeLineCharts"`
}

// fromTrackable refuses what the decoder would reject.
func fromTrackable(t model.Trackable) (trackableJSON, error) {
	if err := t.Validate(); err != nil {
		return trackableJSON{}, err
	}

	var (
		d   trackableDataJSON
		raw any
	)

	switch data := t.Data.(type) {
	case model.YesNoData:
		raw = data.Values
	case model.IconData:
		d.Icons = data.Icons
		raw = data.Values
	case model.ScaleData:
		lo, hi := data.Min, data.Max
		d.Min, d.Max = &lo, &hi
		raw = data.Values
	case model.IntData:
		raw = data.Values
	case model.FloatData:
		raw = data.Values
	case model.TextData:
		raw = data.Values
	default:
		panic(fmt.Sprintf("unhandled trackable data %T", t.Data))
	}

	values, err := json.Marshal(raw)
	if err != nil {
		return trackableJSON{}, err
	}
	d.Kind = t.Kind()
	d.Values = values

	return trackableJSON{Question: t.Question, Colour: string(t.Colour), Data: d}, nil
}

func (j trackableJSON) toTrackable() (model.Trackable, error) {
	c, err := colour.Parse(j.Colour)
	if err != nil {
		return model.Trackable{}, err
	}

	var data model.TrackableData
	switch j.Data.Kind {
	case model.KindYesNo:
		values, err := decodeValues[bool](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		data = model.YesNoData{Values: values}
	case model.KindIcon:
		values, err := decodeValues[int](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		icons := j.Data.Icons
		if len(icons) == 0 {
			icons = append([]string(nil), model.DefaultIcons...)
		}
		data = model.IconData{Icons: icons, Values: values}
	case model.KindScale:
		if j.Data.Min == nil || j.Data.Max == nil || *j.Data.Min > *j.Data.Max {
			return model.Trackable{}, fmt.Errorf("scale %q needs min <= max", j.Question)
		}
		values, err := decodeValues[int](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		data = model.ScaleData{Min: *j.Data.Min, Max: *j.Data.Max, Values: values}
	case model.KindInt:
		values, err := decodeValues[int](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		data = model.IntData{Values: values}
	case model.KindFloat:
		values, err := decodeValues[float64](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		data = model.FloatData{Values: values}
	case model.KindText:
		values, err := decodeValues[string](j.Data.Values)
		if err != nil {
			return model.Trackable{}, err
		}
		data = model.TextData{Values: values}
	default:
		return model.Trackable{}, fmt.Errorf("trackable %q: unknown answer kind %q", j.Question, j.Data.Kind)
	}

	return model.Trackable{Question: j.Question, Colour: c, Data: data}, nil
}

func decodeValues[V any](raw json.RawMessage) (map[day.Day]V, error) {
	values := make(map[day.Day]V)
	if len(raw) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	if values == nil {
		values = make(map[day.Day]V)
	}

	return values, nil
}

func decodeTrackables(entries []entry[trackableJSON]) (model.Trackables, error) {
	var out []identified.Entry[model.TrackableKind, model.Trackable]
	for _, e := range entries {
		t, err := e.Value.toTrackable()
		if err != nil {
			return model.Trackables{}, fmt.Errorf("trackable %d: %w", e.ID, err)
		}
		out = append(out, identified.Entry[model.TrackableKind, model.Trackable]{ID: model.TrackableID(e.ID), Value: t})
	}

	return identified.FromEntries(out)
}

func decodeSum(sum []sumEntryJSON) []model.SumEntry {
	var out []model.SumEntry
	for _, s := range sum {
		out = append(out, model.SumEntry{TrackableID: model.TrackableID(s.TrackableID), Multiplier: s.Multiplier})
	}

	return out
}

func decodeOwnColour(name string) (*colour.Colour, error) {
	if name == "" {
		return nil, nil //nolint:nilnil // no override
	}

	c, err := colour.Parse(name)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (d dataV3) toParts() (userdata.Parts, error) {
	trackables, err := decodeTrackables(d.Trackables)
	if err != nil {
		return userdata.Parts{}, err
	}

	var p userdata.Parts
	p.Trackables = trackables

	for _, e := range d.Chartables {
		own, err := decodeOwnColour(e.Value.Colour)
		if err != nil {
			return userdata.Parts{}, fmt.Errorf("chartable %d: %w", e.ID, err)
		}
		p.Chartables = append(p.Chartables, identified.Entry[model.ChartableKind, model.ChartableState]{
			ID: model.ChartableID(e.ID),
			Value: model.ChartableState{
				Name:      e.Value.Name,
				OwnColour: own,
				Inverted:  e.Value.Inverted,
				Sum:       decodeSum(e.Value.Sum),
			},
		})
	}

	var charts []identified.Entry[model.LineChartKind, model.LineChart]
	for _, e := range d.LineCharts {
		lc := model.LineChart{Name: e.Value.Name, FillLines: e.Value.FillLines}
		for i, ds := range e.Value.Data {
			var ref model.DataSetReference
			switch {
			case ds.DataSet.Chartable != nil:
				ref = model.ChartableRef{ID: model.ChartableID(ds.DataSet.Chartable.ID)}
			case ds.DataSet.Trackable != nil:
				ref = model.TrackableRef{
					ID:         model.TrackableID(ds.DataSet.Trackable.ID),
					Multiplier: ds.DataSet.Trackable.Multiplier,
					Inverted:   ds.DataSet.Trackable.Inverted,
				}
			default:
				return userdata.Parts{}, fmt.Errorf("line chart %d: data[%d] references nothing", e.ID, i)
			}
			lc.Data = append(lc.Data, model.LineChartEntry{Ref: ref, Visible: ds.Visible})
		}
		charts = append(charts, identified.Entry[model.LineChartKind, model.LineChart]{ID: model.LineChartID(e.ID), Value: lc})
	}

	p.LineCharts, err = identified.FromEntries(charts)
	if err != nil {
		return userdata.Parts{}, err
	}

	for _, a := range d.ActiveTrackables {
		p.ActiveTrackables = append(p.ActiveTrackables, userdata.Visibility[model.TrackableKind]{ID: model.TrackableID(a.ID), Visible: a.Visible})
	}
	for _, a := range d.ActiveChartables {
		p.ActiveChartables = append(p.ActiveChartables, userdata.Visibility[model.ChartableKind]{ID: model.ChartableID(a.ID), Visible: a.Visible})
	}
	for _, id := range d.ActiveLineCharts {
		p.ActiveLineCharts = append(p.ActiveLineCharts, model.LineChartID(id))
	}

	return p, nil
}

func fromParts(p userdata.Parts) (dataV3, error) {
	d := dataV3{
		Trackables:       []entry[trackableJSON]{},
		Chartables:       []entry[chartableV3]{},
		LineCharts:       []entry[lineChartV3]{},
		ActiveTrackables: []activeJSON{},
		ActiveChartables: []activeJSON{},
		ActiveLineCharts: []int{},
	}

	for _, e := range p.Trackables.Entries() {
		t, err := fromTrackable(e.Value)
		if err != nil {
			return dataV3{}, fmt.Errorf("trackable %d: %w", e.ID, err)
		}
		d.Trackables = append(d.Trackables, entry[trackableJSON]{ID: e.ID.Int(), Value: t})
	}

	for _, e := range p.Chartables {
		if err := e.Value.Validate(); err != nil {
			return dataV3{}, fmt.Errorf("chartable %d: %w", e.ID, err)
		}

		c := chartableV3{Name: e.Value.Name, Inverted: e.Value.Inverted, Sum: []sumEntryJSON{}}
		if e.Value.OwnColour != nil {
			c.Colour = string(*e.Value.OwnColour)
		}
		for _, s := range e.Value.Sum {
			c.Sum = append(c.Sum, sumEntryJSON{TrackableID: s.TrackableID.Int(), Multiplier: s.Multiplier})
		}
		d.Chartables = append(d.Chartables, entry[chartableV3]{ID: e.ID.Int(), Value: c})
	}

	for _, e := range p.LineCharts.Entries() {
		lc := lineChartV3{Name: e.Value.Name, FillLines: e.Value.FillLines, Data: []lineChartEntryJSON{}}
		for _, ds := range e.Value.Data {
			var j dataSetJSON
			switch ref := ds.Ref.(type) {
			case model.ChartableRef:
				j.Chartable = &chartableRefJSON{ID: ref.ID.Int()}
			case model.TrackableRef:
				j.Trackable = &trackableRefJSON{ID: ref.ID.Int(), Multiplier: ref.Multiplier, Inverted: ref.Inverted}
			default:
				panic(fmt.Sprintf("unhandled data set reference %T", ds.Ref))
			}
			lc.Data = append(lc.Data, lineChartEntryJSON{Visible: ds.Visible, DataSet: j})
		}
		d.LineCharts = append(d.LineCharts, entry[lineChartV3]{ID: e.ID.Int(), Value: lc})
	}

	for _, a := range p.ActiveTrackables {
		d.ActiveTrackables = append(d.ActiveTrackables, activeJSON{ID: a.ID.Int(), Visible: a.Visible})
	}
	for _, a := range p.ActiveChartables {
		d.ActiveChartables = append(d.ActiveChartables, activeJSON{ID: a.ID.Int(), Visible: a.Visible})
	}
	for _, id := range p.ActiveLineCharts {
		d.ActiveLineCharts = append(d.ActiveLineCharts, id.Int())
	}

	return d, nil
}

func (d dataV1) upgrade() dataV2 {
	return dataV2{Trackables: d.Trackables}
}

// upgrade to v3: nothing is inverted, every chart entry is a visible chartable, and the
// active lists follow storage order.
func (d dataV2) upgrade() dataV3 {
	out := dataV3{Trackables: d.Trackables}

	for _, e := range d.Trackables {
		out.ActiveTrackables = append(out.ActiveTrackables, activeJSON{ID: e.ID, Visible: true})
	}

	for _, e := range d.Chartables {
		out.Chartables = append(out.Chartables, entry[chartableV3]{
			ID:    e.ID,
			Value: chartableV3{Name: e.Value.Name, Colour: e.Value.Colour, Sum: e.Value.Sum},
		})
		out.ActiveChartables = append(out.ActiveChartables, activeJSON{ID: e.ID, Visible: true})
	}

	for _, e := range d.LineCharts {
		lc := lineChartV3{Name: e.Value.Name, FillLines: e.Value.FillLines}
		for _, id := range e.Value.Data {
			lc.Data = append(lc.Data, lineChartEntryJSON{Visible: true, DataSet: dataSetJSON{Chartable: &chartableRefJSON{ID: id}}})
		}
		out.LineCharts = append(out.LineCharts, entry[lineChartV3]{ID: e.ID, Value: lc})
		out.ActiveLineCharts = append(out.ActiveLineCharts, e.ID)
	}

	return out
}
