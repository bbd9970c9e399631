package model

import "github.com/fredbi/symptoms/internal/pkg/identified"

// TrackableKind tags trackable identifiers.
type TrackableKind struct{}

// KindName implements [identified.Kind].
func (TrackableKind) KindName() string { return "trackable" }

// ChartableKind tags chartable identifiers.
type ChartableKind struct{}

// KindName implements [identified.Kind].
func (ChartableKind) KindName() string { return "chartable" }

// LineChartKind tags line chart identifiers.
type LineChartKind struct{}

// KindName implements [identified.Kind].
func (LineChartKind) KindName() string { return "line chart" }

type (
	// TrackableID identifies a [Trackable].
	TrackableID = identified.ID[TrackableKind]
	// ChartableID identifies a [Chartable].
	ChartableID = identified.ID[ChartableKind]
	// LineChartID identifies a [LineChart].
	LineChartID = identified.ID[LineChartKind]

	// Trackables is the collection every chartable resolves against.
	Trackables = identified.Collection[TrackableKind, Trackable]
	// Chartables holds built chartables.
	Chartables = identified.Collection[ChartableKind, Chartable]
	// LineCharts holds line charts.
	LineCharts = identified.Collection[LineChartKind, LineChart]
)
