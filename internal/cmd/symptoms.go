// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredbi/symptoms/internal/pkg/config"
	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/sample"
	"github.com/fredbi/symptoms/internal/pkg/snapshot"
	"github.com/fredbi/symptoms/internal/pkg/store"
	"github.com/fredbi/symptoms/internal/pkg/userdata"
)

const defaultConfig = "symptoms.yaml"

// Command holds command line flags and executes the symptoms subcommands.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files and the snapshot store.
// Everything else works on streams and in-memory user data.
type Command struct {
	Config     string
	OutputFile string
	Today      string
	StorePath  string
	Strict     bool
	Png        bool
	IsJSON     bool
	L          *slog.Logger

	root *cobra.Command
	now  func() time.Time
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L:   slog.Default().With(slog.String("module", "main")),
		now: time.Now,
	}

	cli.root = &cobra.Command{
		Use:           "symptoms",
		Short:         "Track daily symptoms and chart them over time.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cli.registerFlags()
	cli.addCommands()

	return cli
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// If no argument is passed, command line arguments (i.e. [os.Args]) are used.
func (c *Command) Execute(ctx context.Context, args ...string) error {
	if args != nil { // passing explicit args allows for testing Execute without altering [os.Args]
		c.root.SetArgs(args)
	}

	return c.root.ExecuteContext(ctx)
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     defaultConfig,
		OutputFile: "-",
	}

	flags := c.root.PersistentFlags()
	flags.StringVarP(&c.Config, "config", "c", defaults.Config, "config file (YAML or TOML)")
	flags.StringVarP(&c.OutputFile, "output", "o", defaults.OutputFile, "file output or - for standard output")
	flags.StringVar(&c.Today, "today", defaults.Today, "pin the current day (ISO date)")
	flags.StringVar(&c.StorePath, "store", defaults.StorePath, "directory of the snapshot store")
	flags.BoolVar(&c.Strict, "strict", defaults.Strict, "fail when the snapshot had dangling references instead of dropping them")
}

func (c *Command) addCommands() {
	c.addInit()
	c.addRender()
	c.addExport()
	c.addThumbnail()
	c.addReport()
	c.addList()
	c.addAnswer()
	c.addWatch()
	c.addConfig()
}

func (c *Command) addConfig() {
	c.root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.prepareConfig()
			if err != nil {
				return err
			}

			return cfg.EncodeYAML(cmd.OutOrStdout())
		},
	})
}

// prepareConfig loads the configuration file. The default file is optional.
func (c *Command) prepareConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	switch {
	case errors.Is(err, fs.ErrNotExist) && c.Config == defaultConfig:
		c.L.Debug("no config file found: using defaults", slog.String("config", c.Config))
		cfg, err = config.LoadDefaults()
		if err != nil {
			return nil, fmt.Errorf("loading default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, fmt.Errorf("preparing config: %w", err)
	}

	return cfg, nil
}

// apply CLI flags overrides to the config.
func (c *Command) setConfig(cfg *config.Config) error {
	cfg.IsStrict = c.Strict

	if c.Today != "" {
		if _, err := day.Parse(c.Today); err != nil {
			return fmt.Errorf("invalid today: %w", err)
		}
		cfg.Today = c.Today
	}

	if c.StorePath != "" {
		cfg.Storage.Path = c.StorePath
	}

	return nil
}

func (c *Command) openStore(cfg *config.Config) (*store.DiskStore, error) {
	dir, err := cfg.Storage.Dir()
	if err != nil {
		return nil, err
	}

	return store.Open(dir, cfg.Storage.Key)
}

// loadData reads the persisted user data. Sample data stands in when nothing was saved yet.
func (c *Command) loadData(ctx context.Context, cfg *config.Config, p store.Persistence) (*userdata.UserData, day.Day, error) {
	today, err := cfg.TodayDay(c.now())
	if err != nil {
		return nil, 0, err
	}

	blob, err := p.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("loading snapshot: %w", err)
	}

	opts := userdata.WithLogger(c.L.With(slog.String("module", "userdata")))
	if blob == nil {
		c.L.Info("no snapshot saved yet: showing sample data")
		u, err := sample.UserData(today, opts)

		return u, today, err
	}

	u, err := snapshot.New(snapshot.WithUserDataOptions(opts)).Decode(blob)
	if err != nil {
		return nil, 0, err
	}

	for _, e := range u.Errors() {
		c.L.Warn("inconsistent snapshot", slog.String("error", e.Error()))
	}

	return u, today, nil
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func getWriter(stdout io.Writer, file, kind string) (wrt io.Writer, cleanup func(), err error) {
	if file == "" || file == "-" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	page, _ := strings.CutSuffix(base, ext)

	return page + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	image, _ := strings.CutSuffix(base, ext)

	return image + ".png"
}
