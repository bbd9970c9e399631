package graph

import (
	"math"
	"strconv"

	"github.com/fredbi/symptoms/internal/pkg/day"
)

const (
	yBands      = 5
	daysPerWeek = 7
)

// Axis maps days and values to SVG coordinates.
type Axis struct {
	Start day.Day
	End   day.Day

	MaxValue  float64
	ValueStep float64

	XStep float64
	YStep float64

	Width        float64
	Height       float64
	MarginBottom float64
}

// ComputeAxis derives the axis from the data.
//
// The value range is [0, MaxValue], with MaxValue the maximum of the visible data sets rounded up
// to a multiple of 5 and split in 5 bands. The day range ends today and starts a whole number
// of weeks earlier, early enough to include the first point of any data set.
func ComputeAxis(m Model, s Settings) Axis {
	s = s.withDefaults()

	start := m.Today
	rawMax := math.Inf(-1)
	for _, ds := range m.DataSets {
		for d, v := range ds.Points {
			start = min(start, d)
			if ds.Visible {
				rawMax = max(rawMax, v)
			}
		}
	}

	if span := m.Today.Sub(start); span > 0 {
		weeks := (span + daysPerWeek - 1) / daysPerWeek
		start = m.Today.Add(-weeks * daysPerWeek)
	}

	maxValue := math.Ceil(rawMax/yBands) * yBands
	if math.IsInf(rawMax, -1) || maxValue <= 0 {
		maxValue = yBands
	}

	span := m.Today.Sub(start)
	xStep := s.DayWidth
	if span > 0 && s.ViewportWidth > 0 {
		xStep = max(xStep, s.ViewportWidth/float64(span))
	}

	return Axis{
		Start:        start,
		End:          m.Today,
		MaxValue:     maxValue,
		ValueStep:    maxValue / yBands,
		XStep:        xStep,
		YStep:        (s.Height - s.MarginTop - s.MarginBottom) / yBands,
		Width:        float64(max(span, 1)) * xStep,
		Height:       s.Height,
		MarginBottom: s.MarginBottom,
	}
}

// Days is the number of days from start to end.
func (a Axis) Days() int {
	return a.End.Sub(a.Start)
}

// X returns the horizontal coordinate of a day.
func (a Axis) X(d day.Day) float64 {
	return float64(d.Sub(a.Start)) * a.XStep
}

// Y returns the vertical SVG coordinate of a value. SVG grows downwards, so values are
// measured up from the bottom margin and flipped.
func (a Axis) Y(v float64) float64 {
	y := a.MarginBottom + v/a.ValueStep*a.YStep

	return a.Height - y
}

// Baseline is the vertical coordinate of the value 0.
func (a Axis) Baseline() float64 {
	return a.Y(0)
}

// Tick is a labelled axis graduation.
type Tick struct {
	X, Y   float64
	Label  string
	Anchor string
}

// Text anchors of tick labels.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// XTicks returns one tick per day for spans up to a week, else one per week plus the last day.
// The first label is anchored at its start and the last at its end so that both stay inside
// the graph.
func XTicks(a Axis) []Tick {
	span := a.Days()
	every := daysPerWeek
	if span <= daysPerWeek {
		every = 1
	}

	offsets := make([]int, 0, span/every+2)
	for i := 0; i <= span; i += every {
		offsets = append(offsets, i)
	}
	if offsets[len(offsets)-1] != span {
		offsets = append(offsets, span)
	}

	ticks := make([]Tick, len(offsets))
	for i, offset := range offsets {
		d := a.Start.Add(offset)

		anchor := AnchorMiddle
		switch {
		case i == 0:
			anchor = AnchorStart
		case i == len(offsets)-1:
			anchor = AnchorEnd
		}

		ticks[i] = Tick{X: a.X(d), Y: a.Baseline(), Label: d.Label(), Anchor: anchor}
	}

	return ticks
}

// YTicks returns the 6 horizontal graduations from 0 to MaxValue.
func YTicks(a Axis) []Tick {
	ticks := make([]Tick, 0, yBands+1)
	for i := range yBands + 1 {
		v := float64(i) * a.ValueStep
		ticks = append(ticks, Tick{Y: a.Y(v), Label: formatValue(v), Anchor: AnchorEnd})
	}

	return ticks
}

func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
