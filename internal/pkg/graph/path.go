package graph

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/fredbi/symptoms/internal/pkg/day"
)

// Point is a position in SVG coordinates.
type Point struct {
	X, Y float64
}

// PlotPoint is a data point with its position.
type PlotPoint struct {
	Point

	Day   day.Day
	Value float64
}

// PlotPoints positions the points of a data set, sorted by day.
func PlotPoints(a Axis, points map[day.Day]float64) []PlotPoint {
	days := slices.Sorted(maps.Keys(points))
	out := make([]PlotPoint, len(days))
	for i, d := range days {
		v := points[d]
		out[i] = PlotPoint{Point: Point{X: a.X(d), Y: a.Y(v)}, Day: d, Value: v}
	}

	return out
}

// SmoothPath returns an SVG path through the points, made of cubic Bézier curves.
//
// The tangent at each point is parallel to the line joining its neighbours. Control points sit
// at smoothing times the shorter of the two adjacent segments, so that sparse or irregular series
// do not overshoot.
func SmoothPath(points []Point, smoothing float64) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, points[0])

	for i := 1; i < len(points); i++ {
		start := controlPoint(points, i-1, smoothing, false)
		end := controlPoint(points, i, smoothing, true)

		b.WriteString(" C ")
		writePoint(&b, start)
		b.WriteByte(' ')
		writePoint(&b, end)
		b.WriteByte(' ')
		writePoint(&b, points[i])
	}

	return b.String()
}

// FillPath closes [SmoothPath] down to the baseline, for filled areas.
func FillPath(points []Point, smoothing, baseline float64) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(SmoothPath(points, smoothing))
	b.WriteString(" L ")
	writePoint(&b, Point{X: points[len(points)-1].X, Y: baseline})
	b.WriteString(" L ")
	writePoint(&b, Point{X: points[0].X, Y: baseline})
	b.WriteString(" Z")

	return b.String()
}

// controlPoint computes the control point next to points[i]. The leaving control point
// goes towards the next point, the arriving one (reverse) towards the previous point.
func controlPoint(points []Point, i int, smoothing float64, reverse bool) Point {
	current := points[i]
	previous, next := current, current

	var lengths []float64
	if i > 0 {
		previous = points[i-1]
		lengths = append(lengths, distance(previous, current))
	}
	if i < len(points)-1 {
		next = points[i+1]
		lengths = append(lengths, distance(current, next))
	}
	if len(lengths) == 0 {
		return current
	}

	angle := math.Atan2(next.Y-previous.Y, next.X-previous.X)
	if reverse {
		angle += math.Pi
	}
	length := slices.Min(lengths) * smoothing

	return Point{
		X: current.X + math.Cos(angle)*length,
		Y: current.Y + math.Sin(angle)*length,
	}
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(formatValue(p.X))
	b.WriteByte(',')
	b.WriteString(formatValue(p.Y))
}
