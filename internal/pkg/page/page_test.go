package page

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
)

func TestBuildAndRender(t *testing.T) {
	p, err := Build(scenario(), graph.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "My Symptoms", p.Title)
	assert.Equal(t, "2020-12-16", p.Today)
	require.Len(t, p.Sections, 2)
	assert.Equal(t, 3, p.Sections[0].ID)
	assert.Equal(t, "Mood & sleep", p.Sections[0].Name)

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<section class="chart" id="line-chart-3">`)
	assert.Contains(t, html, `<section class="chart" id="line-chart-5">`)

	// names are escaped, SVG views are not
	assert.Contains(t, html, "<h2>Mood &amp; sleep</h2>")
	assert.Equal(t, 2, strings.Count(html, `<svg xmlns="http://www.w3.org/2000/svg" class="y-axis"`))
	assert.Equal(t, 2, strings.Count(html, `<svg xmlns="http://www.w3.org/2000/svg" class="line-graph"`))
	assert.Contains(t, html, `data-name="Mood"`)
	assert.NotContains(t, html, "&lt;svg")

	// charts appear in scenario order
	assert.Less(t, strings.Index(html, "line-chart-3"), strings.Index(html, "line-chart-5"))
}

func TestRenderEmpty(t *testing.T) {
	p, err := Build(&organizer.Scenario{Title: "Nothing", Today: 737772}, graph.DefaultSettings())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	assert.Contains(t, buf.String(), `<p class="empty">No line chart yet.</p>`)
}

// helpers

func scenario() *organizer.Scenario {
	const today = day.Day(737775)

	mood := graph.NewModel(today, true, []graph.DataSet{
		{ID: 0, Name: "Mood", Colour: colour.Green, Visible: true, Points: map[day.Day]float64{737772: 3, 737774: 4}},
		{ID: 1, Name: "Sleep", Colour: colour.Indigo, Visible: true, Points: map[day.Day]float64{737773: 7}},
	})
	pain := graph.NewModel(today, false, []graph.DataSet{
		{ID: 0, Name: "Pain", Colour: colour.Red, Visible: true, Points: map[day.Day]float64{737775: 2}},
	})

	return &organizer.Scenario{
		Name:  "my-symptoms",
		Title: "My Symptoms",
		Today: today,
		Charts: []organizer.ChartView{
			{ID: 3, Name: "Mood & sleep", Model: mood},
			{ID: 5, Name: "Pain", Model: pain},
		},
	}
}
