package testintegration

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"

	"github.com/fredbi/symptoms/internal/pkg/app"
	"github.com/fredbi/symptoms/internal/pkg/chart"
	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
	"github.com/fredbi/symptoms/internal/pkg/page"
	"github.com/fredbi/symptoms/internal/pkg/sample"
	"github.com/fredbi/symptoms/internal/pkg/snapshot"
	"github.com/fredbi/symptoms/internal/pkg/store"
	"github.com/fredbi/symptoms/internal/pkg/thumbnail"
)

const today = day.Day(737772)

func TestSymptoms(t *testing.T) {
	results := t.TempDir()

	t.Run("with sample data", func(t *testing.T) {
		cfg, err := config.LoadDefaults()
		require.NoError(t, err)
		writeData(t, results, "test_config.json", cfg)

		u, err := sample.UserData(today)
		require.NoError(t, err)

		t.Run("should persist a snapshot", func(t *testing.T) {
			codec := snapshot.New(snapshot.WithIndent(true))
			blob, err := codec.Encode(u)
			require.NoError(t, err)

			s, err := store.Open(t.TempDir(), cfg.Storage.Key)
			require.NoError(t, err)
			require.NoError(t, s.Save(t.Context(), blob))

			loaded, err := s.Load(t.Context())
			require.NoError(t, err)
			writeResult(t, results, "test_snapshot.json", bytes.NewReader(loaded))

			decoded, err := codec.Decode(loaded)
			require.NoError(t, err)
			assert.Equal(t, snapshot.Report(u), snapshot.Report(decoded))

			t.Run("should scenarize decoded data", func(t *testing.T) {
				scenario, err := organizer.New(cfg).Scenarize(decoded, today)
				require.NoError(t, err)
				require.Len(t, scenario.Charts, 2)
				writeData(t, results, "test_scenario.json", scenario)

				t.Run("should render the SVG page", func(t *testing.T) {
					p, err := page.Build(scenario, cfg.GraphSettings())
					require.NoError(t, err)

					var buf bytes.Buffer
					require.NoError(t, p.Render(&buf))
					assert.Contains(t, buf.String(), `<svg xmlns="http://www.w3.org/2000/svg" class="line-graph"`)
					assert.Contains(t, buf.String(), `class="y-axis"`)

					writeResult(t, results, "test_html.html", &buf)
				})

				t.Run("should export an echarts page", func(t *testing.T) {
					var buf bytes.Buffer
					require.NoError(t, chart.New(cfg, scenario).BuildPage().Render(&buf))

					writeResult(t, results, "test_echarts.html", &buf)
				})

				t.Run("should draw thumbnails", func(t *testing.T) {
					for _, view := range scenario.Charts {
						var buf bytes.Buffer
						require.NoError(t, thumbnail.Render(&buf, view, thumbnail.WithSettings(cfg.GraphSettings())))

						writeResult(t, results, "test_thumbnail_"+view.Name+".png", &buf)
					}
				})
			})
		})

		t.Run("should edit through the app driver", func(t *testing.T) {
			s, err := store.Open(t.TempDir(), cfg.Storage.Key)
			require.NoError(t, err)

			a := app.New(cfg)
			d := app.NewDriver(a, s, a.Init(today), app.WithThrottle(time.Hour))
			errc := make(chan error, 1)
			go func() { errc <- d.Run(t.Context()) }()

			overview := u.ActiveLineCharts()[0].ID
			require.NoError(t, d.Send(t.Context(), app.GraphMsg{Chart: overview, Msg: graph.Select(0)}))
			require.NoError(t, d.Send(t.Context(), app.Answer{ID: 2, Day: today, Raw: "10"}))
			require.NoError(t, d.Send(t.Context(), app.SetFillLines{ID: overview, Fill: true}))
			d.Close()
			require.NoError(t, <-errc)

			state := d.State()
			m, ok := state.Chart(overview)
			require.True(t, ok)
			require.NotNil(t, m.Selected)
			assert.True(t, m.FillLines)

			blob, err := s.Load(t.Context())
			require.NoError(t, err)
			saved, err := snapshot.New().Decode(blob)
			require.NoError(t, err)
			lc, ok := saved.LineCharts().Get(overview)
			require.True(t, ok)
			assert.True(t, lc.FillLines)
		})
	})
}

func writeData(t *testing.T, dir, name string, data any) {
	t.Helper()

	buf, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err)

	rdr := bytes.NewReader(buf)
	writeResult(t, dir, name, rdr)
}

func writeResult(t *testing.T, dir, name string, rdr io.Reader) {
	t.Helper()

	file, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer file.Close()

	_, err = io.Copy(file, rdr)
	require.NoError(t, err)
}
