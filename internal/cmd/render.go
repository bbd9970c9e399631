package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredbi/symptoms/internal/pkg/chart"
	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/identified"
	"github.com/fredbi/symptoms/internal/pkg/image"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/organizer"
	"github.com/fredbi/symptoms/internal/pkg/page"
	"github.com/fredbi/symptoms/internal/pkg/thumbnail"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

func (c *Command) addRender() {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the line charts as an HTML page, optionally screenshot as PNG",
		Example: `
symptoms render -o charts.html
symptoms render --png -o charts.png
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			s, err := c.openStore(cfg)
			if err != nil {
				return err
			}

			u, today, err := c.loadData(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			return c.render(cmd.Context(), cmd.OutOrStdout(), cfg, u, today)
		},
	}
	cmd.Flags().BoolVar(&c.Png, "png", false, "enable PNG screenshot output")

	c.root.AddCommand(cmd)
}

// render writes the HTML page of the line charts, then its screenshot when a PNG is requested.
func (c *Command) render(ctx context.Context, stdout io.Writer, cfg *config.Config, u *userdata.UserData, today day.Day) error {
	htmlFile, pngFile, cleanup, err := c.outputs()
	if err != nil {
		return err
	}
	defer cleanup()

	// 1. arrange the line charts and build a page with their views
	scenario, err := organizer.New(cfg, organizer.WithLogger(c.L)).Scenarize(u, today)
	if err != nil {
		return err
	}

	settings := cfg.GraphSettings()
	if pngFile != "" {
		// the screenshot viewport is the only width we know of
		settings.ViewportWidth = float64(cfg.Screenshot.Width) - settings.AxisWidth
	}

	p, err := page.Build(scenario, settings)
	if err != nil {
		return err
	}

	// 2. render the page as HTML, possibly to stdout, possibly to a temp file
	htmlWriter, htmlCloser, err := getWriter(stdout, htmlFile, "HTML")
	if err != nil {
		return err
	}

	if err := p.Render(htmlWriter); err != nil {
		htmlCloser()

		return err
	}

	htmlCloser()

	if pngFile == "" {
		// html only: we're done
		return nil
	}

	// 3. convert the HTML page to a PNG image
	htmlReader, htmlCloser, err := getReader(htmlFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	pngWriter, pngCloser, err := getWriter(stdout, pngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	r := image.New(
		image.WithWidth(cfg.Screenshot.Width),
		image.WithHeight(cfg.Screenshot.Height),
		image.WithSleep(cfg.Screenshot.SleepDuration()),
	)

	if err = r.Render(ctx, pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

// outputs infers the HTML and PNG files from the flags. A PNG without an HTML file goes
// through a temporary HTML file.
func (c *Command) outputs() (htmlFile, pngFile string, cleanup func(), err error) {
	cleanup = func() {}

	switch {
	case !c.Png:
		if c.OutputFile == "" || c.OutputFile == "-" {
			return "-", "", cleanup, nil
		}

		return inferHTMLFile(c.OutputFile), "", cleanup, nil
	case c.OutputFile == "" || c.OutputFile == "-":
		c.L.Info("PNG image sent to standard output, HTML generated as a temporary file")
		pngFile = "-"
	default:
		pngFile = inferImageFile(c.OutputFile)
		htmlFile = inferHTMLFile(c.OutputFile)

		return htmlFile, pngFile, cleanup, nil
	}

	tmp, err := os.CreateTemp("", "symptoms.*.html")
	if err != nil {
		return "", "", nil, err
	}
	_ = tmp.Close()

	cleanup = func() {
		_ = os.Remove(tmp.Name())
	}

	return tmp.Name(), pngFile, cleanup, nil
}

func (c *Command) addExport() {
	c.root.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Export the line charts as an interactive echarts HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			s, err := c.openStore(cfg)
			if err != nil {
				return err
			}

			u, today, err := c.loadData(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			scenario, err := organizer.New(cfg, organizer.WithLogger(c.L)).Scenarize(u, today)
			if err != nil {
				return err
			}

			w, closer, err := getWriter(cmd.OutOrStdout(), c.OutputFile, "HTML")
			if err != nil {
				return err
			}
			defer closer()

			return chart.New(cfg, scenario).BuildPage().Render(w)
		},
	})
}

func (c *Command) addThumbnail() {
	c.root.AddCommand(&cobra.Command{
		Use:     "thumbnail <line chart id>",
		Short:   "Draw a PNG thumbnail of a line chart",
		Example: "symptoms thumbnail 1 -o overview.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.LineChartKind](args[0])
			if err != nil {
				return err
			}

			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			s, err := c.openStore(cfg)
			if err != nil {
				return err
			}

			u, today, err := c.loadData(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			view, err := organizer.New(cfg, organizer.WithLogger(c.L)).ChartModel(u, id, today)
			if err != nil {
				return err
			}

			w, closer, err := getWriter(cmd.OutOrStdout(), c.OutputFile, "PNG")
			if err != nil {
				return err
			}
			defer closer()

			return thumbnail.Render(w, view,
				thumbnail.WithSize(cfg.Thumbnail.Width, cfg.Thumbnail.Height),
				thumbnail.WithSettings(cfg.GraphSettings()),
			)
		},
	})
}

func (c *Command) addWatch() {
	c.root.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Render the line charts again whenever the snapshot changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.OutputFile == "" || c.OutputFile == "-" {
				return errors.New("watch requires an output file")
			}

			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			s, err := c.openStore(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			events, err := s.Watch(ctx)
			if err != nil {
				return err
			}

			refresh := func() error {
				t0 := time.Now()
				u, today, err := c.loadData(ctx, cfg, s)
				if err != nil {
					return err
				}

				if err := c.render(ctx, cmd.OutOrStdout(), cfg, u, today); err != nil {
					return err
				}
				c.L.Info("rendered", slog.String("output", c.OutputFile), slog.Duration("duration", time.Since(t0)))

				return nil
			}

			if err := refresh(); err != nil {
				return err
			}

			for range events {
				if err := refresh(); err != nil {
					// keep watching: the next write may fix it
					c.L.Warn("render failed", slog.String("error", err.Error()))
				}
			}

			return nil
		},
	})
}

func parseID[K identified.Kind](raw string) (identified.ID[K], error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid identifier: %q", raw)
	}

	return identified.ID[K](n), nil
}
