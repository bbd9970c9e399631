package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/fredbi/symptoms/internal/pkg/app"
	"github.com/fredbi/symptoms/internal/pkg/colour"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/model"
	"github.com/fredbi/symptoms/internal/pkg/sample"
	"github.com/fredbi/symptoms/internal/pkg/snapshot"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

func (c *Command) addInit() {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Save the sample data to an empty store",
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

			ctx := cmd.Context()
			blob, err := s.Load(ctx)
			if err != nil {
				return err
			}

			if blob != nil && !force {
				c.L.Info("store already initialized: use --force to start over")

				return nil
			}

			today, err := cfg.TodayDay(c.now())
			if err != nil {
				return err
			}

			u, err := sample.UserData(today)
			if err != nil {
				return err
			}

			blob, err = snapshot.New().Encode(u)
			if err != nil {
				return err
			}

			if err := s.Save(ctx, blob); err != nil {
				return err
			}
			c.L.Info("store initialized with sample data", slog.Int("bytes", len(blob)))

			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite the saved data")

	c.root.AddCommand(cmd)
}

func (c *Command) addReport() {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report about the saved data, no rendering",
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

			u, _, err := c.loadData(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			report := snapshot.Report(u)
			if !c.IsJSON {
				return report.Print(cmd.OutOrStdout(), cfg.Render.LanguageTag())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", " ")

			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&c.IsJSON, "json", false, "report as JSON")

	c.root.AddCommand(cmd)
}

func (c *Command) addList() {
	c.root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List trackables, chartables and line charts",
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

			u, _, err := c.loadData(cmd.Context(), cfg, s)
			if err != nil {
				return err
			}

			return list(cmd.OutOrStdout(), u)
		},
	})
}

var (
	bold  = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint)
)

// painters maps the palette to terminal colours.
var painters = map[colour.Colour]*color.Color{
	colour.Red:    color.New(color.FgRed),
	colour.Orange: color.New(color.FgHiYellow),
	colour.Yellow: color.New(color.FgYellow),
	colour.Green:  color.New(color.FgGreen),
	colour.Teal:   color.New(color.FgCyan),
	colour.Blue:   color.New(color.FgBlue),
	colour.Indigo: color.New(color.FgHiBlue),
	colour.Purple: color.New(color.FgMagenta),
	colour.Pink:   color.New(color.FgHiMagenta),
	colour.Brown:  color.New(color.FgHiRed),
	colour.Gray:   color.New(color.FgHiBlack),
}

func paint(c colour.Colour, visible bool, s string) string {
	if !visible {
		return faint.Sprint(s)
	}

	p, ok := painters[c]
	if !ok {
		return s
	}

	return p.Sprint(s)
}

func list(w io.Writer, u *userdata.UserData) error {
	trackables := uitable.New()
	trackables.Separator = "  "
	trackables.AddRow(bold.Sprint("ID"), bold.Sprint("Question"), bold.Sprint("Kind"), bold.Sprint("Answers"))
	for _, a := range u.ActiveTrackables() {
		answers := 0
		if a.Value.Data != nil {
			answers = a.Value.Data.Len()
		}
		trackables.AddRow(a.ID.Int(), paint(a.Value.Colour, a.Visible, a.Value.Question), a.Value.Kind(), answers)
	}

	chartables := uitable.New()
	chartables.Separator = "  "
	chartables.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Sum"), bold.Sprint("Inverted"))
	for _, a := range u.ActiveChartables() {
		c := a.Value
		chartables.AddRow(a.ID.Int(), paint(c.DisplayColour(), a.Visible, c.Name()), sumOf(c), c.Inverted())
	}

	lineCharts := uitable.New()
	lineCharts.Separator = "  "
	lineCharts.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Data sets"), bold.Sprint("Filled"))
	for _, e := range u.ActiveLineCharts() {
		lineCharts.AddRow(e.ID.Int(), e.Value.Name, len(e.Value.Data), e.Value.FillLines)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n%s\n\n%s\n%s\n",
		bold.Sprint("Trackables"), trackables,
		bold.Sprint("Chartables"), chartables,
		bold.Sprint("Line charts"), lineCharts,
	)

	return err
}

func sumOf(c model.Chartable) string {
	var sum string
	for i, e := range c.ResolvedSum() {
		if i > 0 {
			sum += " + "
		}
		sum += strconv.FormatFloat(e.Multiplier, 'g', -1, 64) + "×" + e.Trackable.Question
	}

	return sum
}

func (c *Command) addAnswer() {
	var at string

	cmd := &cobra.Command{
		Use:   "answer <trackable id> <answer>",
		Short: "Record the answer of a trackable for a day",
		Example: `
symptoms answer 2 7
symptoms answer 1 yes --day 2024-03-01
symptoms answer 1 "" # clears today's answer
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[model.TrackableKind](args[0])
			if err != nil {
				return err
			}

			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			today, err := cfg.TodayDay(c.now())
			if err != nil {
				return err
			}

			when := today
			if at != "" {
				if when, err = day.Parse(at); err != nil {
					return fmt.Errorf("invalid day: %w", err)
				}
			}

			s, err := c.openStore(cfg)
			if err != nil {
				return err
			}

			a := app.New(cfg, app.WithLogger(c.L))
			var (
				mu       sync.Mutex
				reported []error
			)
			d := app.NewDriver(a, s, a.Init(today),
				app.WithThrottle(cfg.Storage.ThrottleDuration()),
				app.WithDriverLogger(c.L),
				app.WithErrorHandler(func(err error) {
					mu.Lock()
					defer mu.Unlock()
					reported = append(reported, err)
				}),
			)

			return answer(cmd.Context(), d, app.Answer{ID: id, Day: when, Raw: args[1]}, func() error {
				mu.Lock()
				defer mu.Unlock()

				return errors.Join(reported...)
			})
		},
	}
	cmd.Flags().StringVar(&at, "day", "", "day of the answer (ISO date), defaults to today")

	c.root.AddCommand(cmd)
}

// answer runs the driver for a single edit and waits for it to be saved.
func answer(ctx context.Context, d *app.Driver, e app.Answer, reported func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()

	if err := d.Send(ctx, e); err != nil {
		d.Close()
		<-errc

		return err
	}
	d.Close()

	if err := <-errc; err != nil {
		return err
	}

	if err := reported(); err != nil {
		return err
	}

	field := app.AnswerField(e.ID, e.Day)
	if raw, invalid := d.State().Invalid[field]; invalid {
		return fmt.Errorf("%w: %q does not answer %s", model.ErrInvalid, raw, e.ID)
	}

	return nil
}
