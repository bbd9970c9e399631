package graph

import (
	"strings"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/day"
)

func TestViewJustYAxis(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    Model
	}{
		{name: "no data", m: NewModel(base, false, nil)},
		{name: "small values", m: NewModel(base, false, []DataSet{{ID: 0, Visible: true, Points: map[day.Day]float64{base: 0.2}}})},
		{name: "large values", m: NewModel(base, false, []DataSet{{ID: 0, Visible: true, Points: map[day.Day]float64{base: 123456}}})},
		{name: "the demo data", m: threeDataSets()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svg, err := ViewJustYAxis(tc.m, DefaultSettings())
			require.NoError(t, err)

			out := string(svg)
			assert.Equal(t, 6, strings.Count(out, `class="y-tick"`))
			assert.True(t, strings.HasPrefix(out, "<svg"))
			assert.Contains(t, out, `class="y-axis"`)
		})
	}
}

func TestViewLineGraph(t *testing.T) {
	t.Run("empty graph renders axes only", func(t *testing.T) {
		svg, err := ViewLineGraph(NewModel(base, true, nil), DefaultSettings())
		require.NoError(t, err)

		out := string(svg)
		assert.NotContains(t, out, `class="data-set`)
		assert.Equal(t, 6, strings.Count(out, `class="value"`))
		assert.Contains(t, out, "13 Dec")
	})

	t.Run("stroked lines", func(t *testing.T) {
		svg, err := ViewLineGraph(threeDataSets(), DefaultSettings())
		require.NoError(t, err)

		out := string(svg)
		assert.Equal(t, 3, strings.Count(out, `fill="none"`))
		assert.NotContains(t, out, "linearGradient")
		assert.NotContains(t, out, "<circle")
		assertOrder(t, out, `data-dataset="2"`, `data-dataset="1"`, `data-dataset="0"`)
	})

	t.Run("filled lines use a gradient per series", func(t *testing.T) {
		m := threeDataSets()
		m.FillLines = true

		svg, err := ViewLineGraph(m, DefaultSettings())
		require.NoError(t, err)

		out := string(svg)
		assert.Equal(t, 3, strings.Count(out, "<linearGradient"))
		assert.Contains(t, out, `fill="url(#gradient-1)"`)
		assert.Contains(t, out, `stop-color="rgba(59,130,246,0.80)"`)
		assert.Contains(t, out, `stop-color="rgba(59,130,246,0.10)"`)
		assert.Contains(t, out, " Z")
	})

	t.Run("selection dims the others and shows the points", func(t *testing.T) {
		m := Update(threeDataSets(), SelectPoint{Point: PointRef{DataSet: 1, Day: base + 1}})

		svg, err := ViewLineGraph(m, DefaultSettings())
		require.NoError(t, err)

		out := string(svg)
		assert.Equal(t, 2, strings.Count(out, `opacity="0.3"`))
		assert.Equal(t, 2, strings.Count(out, "<circle"), "only the selected series shows its points")
		assert.Contains(t, out, `data-day="737773"`)
		assert.Contains(t, out, `class="point selected"`)
		assert.Contains(t, out, `class="point-value"`)
		assertOrder(t, out, `data-dataset="2"`, `data-dataset="0"`, `class="data-set selected"`)
	})

	t.Run("points on demand", func(t *testing.T) {
		m := threeDataSets()
		m.ShowPoints = true

		svg, err := ViewLineGraph(m, DefaultSettings())
		require.NoError(t, err)
		assert.Equal(t, 4, strings.Count(string(svg), "<circle"))
	})

	t.Run("names are escaped", func(t *testing.T) {
		m := threeDataSets()
		m.DataSets[0].Name = `<script>alert("x")</script>`

		svg, err := ViewLineGraph(m, DefaultSettings())
		require.NoError(t, err)
		assert.NotContains(t, string(svg), "<script>")
	})
}

// helpers

func assertOrder(t *testing.T, out string, fragments ...string) {
	t.Helper()

	last := -1
	for _, f := range fragments {
		i := strings.Index(out, f)
		require.GreaterOrEqual(t, i, 0, "missing %q", f)
		assert.Greater(t, i, last, "%q is out of order", f)
		last = i
	}
}
