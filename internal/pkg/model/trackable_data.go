package model

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/fredbi/symptoms/internal/pkg/day"
)

// DataKind names the answer kind of a trackable.
type DataKind string

// Supported answer kinds.
const (
	KindYesNo DataKind = "yesNo"
	KindIcon  DataKind = "icon"
	KindScale DataKind = "scale"
	KindInt   DataKind = "int"
	KindFloat DataKind = "float"
	KindText  DataKind = "text"
)

// AllDataKinds returns every answer kind.
func AllDataKinds() []DataKind {
	return []DataKind{KindYesNo, KindIcon, KindScale, KindInt, KindFloat, KindText}
}

// IsValid reports whether k is a known answer kind.
func (k DataKind) IsValid() bool {
	switch k {
	case KindYesNo, KindIcon, KindScale, KindInt, KindFloat, KindText:
		return true
	default:
		return false
	}
}

// DefaultIcons is the icon set given to icon trackables created without one.
var DefaultIcons = []string{"sob", "frown", "meh", "smile", "laugh"}

// TrackableData is the closed set of answer series. Only the types of this package implement it.
type TrackableData interface {
	Kind() DataKind
	Len() int
	// Days returns the answered days, unordered.
	Days() []day.Day

	isTrackableData()
}

// YesNoData records yes/no answers.
type YesNoData struct {
	Values map[day.Day]bool
}

// IconData records an index into an icon set.
type IconData struct {
	Icons  []string
	Values map[day.Day]int
}

// ScaleData records integers within [Min, Max].
type ScaleData struct {
	Min    int
	Max    int
	Values map[day.Day]int
}

// IntData records integers.
type IntData struct {
	Values map[day.Day]int
}

// FloatData records floating point numbers.
type FloatData struct {
	Values map[day.Day]float64
}

// TextData records free text. It has no numeric projection.
type TextData struct {
	Values map[day.Day]string
}

func (YesNoData) isTrackableData() {}
func (IconData) isTrackableData()  {}
func (ScaleData) isTrackableData() {}
func (IntData) isTrackableData()   {}
func (FloatData) isTrackableData() {}
func (TextData) isTrackableData()  {}

func (YesNoData) Kind() DataKind { return KindYesNo }
func (IconData) Kind() DataKind  { return KindIcon }
func (ScaleData) Kind() DataKind { return KindScale }
func (IntData) Kind() DataKind   { return KindInt }
func (FloatData) Kind() DataKind { return KindFloat }
func (TextData) Kind() DataKind  { return KindText }

func (d YesNoData) Len() int { return len(d.Values) }
func (d IconData) Len() int  { return len(d.Values) }
func (d ScaleData) Len() int { return len(d.Values) }
func (d IntData) Len() int   { return len(d.Values) }
func (d FloatData) Len() int { return len(d.Values) }
func (d TextData) Len() int  { return len(d.Values) }

func (d YesNoData) Days() []day.Day { return keys(d.Values) }
func (d IconData) Days() []day.Day  { return keys(d.Values) }
func (d ScaleData) Days() []day.Day { return keys(d.Values) }
func (d IntData) Days() []day.Day   { return keys(d.Values) }
func (d FloatData) Days() []day.Day { return keys(d.Values) }
func (d TextData) Days() []day.Day  { return keys(d.Values) }

// EmptyData returns an answer series of the given kind without answers.
func EmptyData(kind DataKind) (TrackableData, error) {
	switch kind {
	case KindYesNo:
		return YesNoData{Values: map[day.Day]bool{}}, nil
	case KindIcon:
		return IconData{Icons: append([]string(nil), DefaultIcons...), Values: map[day.Day]int{}}, nil
	case KindScale:
		return ScaleData{Min: 1, Max: 10, Values: map[day.Day]int{}}, nil
	case KindInt:
		return IntData{Values: map[day.Day]int{}}, nil
	case KindFloat:
		return FloatData{Values: map[day.Day]float64{}}, nil
	case KindText:
		return TextData{Values: map[day.Day]string{}}, nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", kind)
	}
}

// OnlyFloatData projects an answer series onto numbers.
//
// Yes counts as 1 and no as 0; icons project to their index. Text has no projection and reports false.
func OnlyFloatData(data TrackableData) (map[day.Day]float64, bool) {
	switch d := data.(type) {
	case YesNoData:
		out := make(map[day.Day]float64, len(d.Values))
		for k, v := range d.Values {
			if v {
				out[k] = 1
			} else {
				out[k] = 0
			}
		}

		return out, true
	case IconData:
		return toFloats(d.Values), true
	case ScaleData:
		return toFloats(d.Values), true
	case IntData:
		return toFloats(d.Values), true
	case FloatData:
		return maps.Clone(d.Values), true
	case TextData:
		return nil, false
	default:
		panic(fmt.Sprintf("unhandled trackable data %T", data))
	}
}

// answer parses raw input against the answer kind. Empty input clears the answer.
func answer(data TrackableData, at day.Day, raw string) (TrackableData, error) {
	raw = strings.TrimSpace(raw)

	switch d := data.(type) {
	case YesNoData:
		if raw == "" {
			return YesNoData{Values: without(d.Values, at)}, nil
		}
		v, err := parseYesNo(raw)
		if err != nil {
			return nil, invalid("answer", raw, err)
		}

		return YesNoData{Values: with(d.Values, at, v)}, nil
	case IconData:
		if raw == "" {
			return IconData{Icons: d.Icons, Values: without(d.Values, at)}, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v >= len(d.Icons) {
			return nil, invalid("answer", raw, fmt.Errorf("expected an icon index in [0, %d)", len(d.Icons)))
		}

		return IconData{Icons: d.Icons, Values: with(d.Values, at, v)}, nil
	case ScaleData:
		if raw == "" {
			return ScaleData{Min: d.Min, Max: d.Max, Values: without(d.Values, at)}, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < d.Min || v > d.Max {
			return nil, invalid("answer", raw, fmt.Errorf("expected an integer in [%d, %d]", d.Min, d.Max))
		}

		return ScaleData{Min: d.Min, Max: d.Max, Values: with(d.Values, at, v)}, nil
	case IntData:
		if raw == "" {
			return IntData{Values: without(d.Values, at)}, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalid("answer", raw, errors.New("expected an integer"))
		}

		return IntData{Values: with(d.Values, at, v)}, nil
	case FloatData:
		if raw == "" {
			return FloatData{Values: without(d.Values, at)}, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid("answer", raw, errors.New("expected a number"))
		}

		return FloatData{Values: with(d.Values, at, v)}, nil
	case TextData:
		if raw == "" {
			return TextData{Values: without(d.Values, at)}, nil
		}

		return TextData{Values: with(d.Values, at, raw)}, nil
	default:
		panic(fmt.Sprintf("unhandled trackable data %T", data))
	}
}

// convert changes the answer kind, keeping every value that has a meaning in the target kind.
func convert(data TrackableData, kind DataKind) (TrackableData, error) {
	if data.Kind() == kind {
		return data, nil
	}

	if kind == KindText {
		return TextData{Values: asText(data)}, nil
	}

	numbers, ok := OnlyFloatData(data)
	if !ok {
		numbers = parseNumbers(data.(TextData).Values)
	}

	switch kind {
	case KindYesNo:
		out := make(map[day.Day]bool, len(numbers))
		for k, v := range numbers {
			out[k] = v != 0
		}

		return YesNoData{Values: out}, nil
	case KindIcon:
		out := make(map[day.Day]int, len(numbers))
		for k, v := range numbers {
			if i := int(math.Round(v)); i >= 0 && i < len(DefaultIcons) {
				out[k] = i
			}
		}

		return IconData{Icons: append([]string(nil), DefaultIcons...), Values: out}, nil
	case KindScale:
		out := make(map[day.Day]int, len(numbers))
		lo, hi := 1, 10
		for k, v := range numbers {
			i := int(math.Round(v))
			out[k] = i
			lo, hi = min(lo, i), max(hi, i)
		}

		return ScaleData{Min: lo, Max: hi, Values: out}, nil
	case KindInt:
		out := make(map[day.Day]int, len(numbers))
		for k, v := range numbers {
			out[k] = int(math.Round(v))
		}

		return IntData{Values: out}, nil
	case KindFloat:
		return FloatData{Values: numbers}, nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", kind)
	}
}

func asText(data TrackableData) map[day.Day]string {
	if d, ok := data.(TextData); ok {
		return maps.Clone(d.Values)
	}

	if d, ok := data.(YesNoData); ok {
		out := make(map[day.Day]string, len(d.Values))
		for k, v := range d.Values {
			out[k] = map[bool]string{true: "yes", false: "no"}[v]
		}

		return out
	}

	numbers, _ := OnlyFloatData(data)
	out := make(map[day.Day]string, len(numbers))
	for k, v := range numbers {
		out[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return out
}

func parseNumbers(values map[day.Day]string) map[day.Day]float64 {
	out := make(map[day.Day]float64, len(values))
	for k, raw := range values {
		if b, err := parseYesNo(raw); err == nil {
			out[k] = map[bool]float64{true: 1, false: 0}[b]

			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}

	return out
}

func parseYesNo(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, errors.New("expected yes or no")
	}
}

func toFloats(values map[day.Day]int) map[day.Day]float64 {
	out := make(map[day.Day]float64, len(values))
	for k, v := range values {
		out[k] = float64(v)
	}

	return out
}

func with[V any](values map[day.Day]V, at day.Day, v V) map[day.Day]V {
	out := make(map[day.Day]V, len(values)+1)
	maps.Copy(out, values)
	out[at] = v

	return out
}

func without[V any](values map[day.Day]V, at day.Day) map[day.Day]V {
	out := maps.Clone(values)
	if out == nil {
		out = make(map[day.Day]V)
	}
	delete(out, at)

	return out
}

func keys[V any](values map[day.Day]V) []day.Day {
	out := make([]day.Day, 0, len(values))
	for k := range values {
		out = append(out, k)
	}

	return out
}
