package config

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
)

//go:embed default_config.yaml
var efs embed.FS

// Config holds the configuration for symptoms.
type Config struct {
	Name       string
	Today      string // Today pins the current day (ISO date). Empty means the wall clock.
	IsStrict   bool   `mapstructure:"-"`
	Storage    Storage
	Render     Rendering
	Screenshot Screenshot
	Thumbnail  Thumbnail
}

// EncodeYAML serializes a [Config] to YAML into the provided writer.
//
// Runtime-only fields (IsStrict) are excluded from the output.
func (c *Config) EncodeYAML(w io.Writer) error {
	var raw map[string]any

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Squash: true,
		Deep:   true,
		Result: &raw,
	})
	if err != nil {
		return fmt.Errorf("creating mapstructure decoder: %w", err)
	}

	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decoding config to map: %w", err)
	}

	return yaml.NewEncoder(w).Encode(raw)
}

// TodayDay resolves the current day, either pinned by the configuration or taken from now.
func (c Config) TodayDay(now time.Time) (day.Day, error) {
	if c.Today == "" {
		return day.FromTime(now), nil
	}

	d, err := day.Parse(c.Today)
	if err != nil {
		return 0, fmt.Errorf("invalid today: %w", err)
	}

	return d, nil
}

// Title of the rendered pages. Defaults to the titleized configuration name.
func (c Config) Title() string {
	if c.Render.Title != "" {
		return c.Render.Title
	}

	return titleize(c.Name)
}

// GraphSettings converts the rendering section into [graph.Settings].
func (c Config) GraphSettings() graph.Settings {
	r := c.Render

	return graph.Settings{
		DayWidth:      r.DayWidth,
		Height:        r.Height,
		MarginTop:     r.MarginTop,
		MarginBottom:  r.MarginBottom,
		AxisWidth:     r.AxisWidth,
		Smoothing:     r.Smoothing,
		StrokeWidth:   r.StrokeWidth,
		PointRadius:   r.PointRadius,
		TopOpacity:    r.TopOpacity,
		BottomOpacity: r.BottomOpacity,
		DimmedOpacity: r.DimmedOpacity,
	}
}

// Storage locates the persisted snapshot.
type Storage struct {
	Path     string
	Key      string
	Throttle string
}

// Dir returns the storage path, with a leading "~" expanded to the user's home directory.
func (s Storage) Dir() (string, error) {
	if s.Path != "~" && !strings.HasPrefix(s.Path, "~/") {
		return s.Path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(s.Path, "~")), nil
}

// ThrottleDuration parses the Throttle field as a [time.Duration].
func (s Storage) ThrottleDuration() time.Duration {
	d, err := time.ParseDuration(s.Throttle)
	if err != nil || d < 0 {
		return 0
	}

	return d
}

// Rendering holds the graph rendering settings.
type Rendering struct {
	Title    string
	Theme    string // Theme is the echarts theme used by exports.
	Layout   string // Layout arranges the charts of an exported page: flex, center or none.
	Language string

	DayWidth      float64
	Height        float64
	MarginTop     float64
	MarginBottom  float64
	AxisWidth     float64
	Smoothing     float64
	StrokeWidth   float64
	PointRadius   float64
	ShowPoints    bool
	TopOpacity    float64
	BottomOpacity float64
	DimmedOpacity float64
}

// LanguageTag parses the Language field, falling back to English.
func (r Rendering) LanguageTag() language.Tag {
	tag, err := language.Parse(r.Language)
	if err != nil {
		return language.English
	}

	return tag
}

// Screenshot configures the headless Chrome screenshot used for PNG rendering.
type Screenshot struct {
	Height int64
	Width  int64
	Sleep  string
}

// SleepDuration parses the Sleep field as a [time.Duration].
func (s Screenshot) SleepDuration() time.Duration {
	d, err := time.ParseDuration(s.Sleep)
	if d == 0 || err != nil {
		return 0
	}

	return d
}

// Thumbnail configures the size of PNG thumbnails.
type Thumbnail struct {
	Width  int
	Height int
}

// Load a configuration file from the local file system.
//
// Files with a ".toml" extension are parsed as TOML, anything else as YAML.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults loads the default configuration from the embedded default_config.yaml.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

// loadDefaults loads the default configuration from embedded FS.
func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		var doc map[string]any
		err = toml.Unmarshal(content, &doc)
		raw = doc
	} else {
		err = yaml.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}

	err = mapstructure.Decode(raw, cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.validateStorage(); err != nil {
		return nil, err
	}

	if err = cfg.validateRender(); err != nil {
		return nil, err
	}

	if err = cfg.validateOutputs(); err != nil {
		return nil, err
	}

	if _, err = cfg.TodayDay(time.Time{}); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("invalid storage: empty path")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("invalid storage: empty key")
	}
	if strings.ContainsAny(c.Storage.Key, `/\`) {
		return fmt.Errorf("invalid storage: key %q must not contain a path separator", c.Storage.Key)
	}
	if c.Storage.Throttle != "" {
		if d, err := time.ParseDuration(c.Storage.Throttle); err != nil || d < 0 {
			return fmt.Errorf("invalid storage: throttle %q is not a valid duration", c.Storage.Throttle)
		}
	}

	return nil
}

func (c *Config) validateRender() error {
	r := c.Render

	if r.DayWidth <= 0 {
		return fmt.Errorf("invalid render: dayWidth must be positive, got %v", r.DayWidth)
	}
	if r.Height <= 0 {
		return fmt.Errorf("invalid render: height must be positive, got %v", r.Height)
	}
	if r.MarginTop < 0 || r.MarginBottom < 0 {
		return fmt.Errorf("invalid render: margins must not be negative")
	}
	if r.MarginTop+r.MarginBottom >= r.Height {
		return fmt.Errorf("invalid render: margins (%v + %v) leave no room in height %v", r.MarginTop, r.MarginBottom, r.Height)
	}
	if r.Smoothing < 0 || r.Smoothing > 1 {
		return fmt.Errorf("invalid render: smoothing must be in [0, 1], got %v", r.Smoothing)
	}

	for name, opacity := range map[string]float64{
		"topOpacity":    r.TopOpacity,
		"bottomOpacity": r.BottomOpacity,
		"dimmedOpacity": r.DimmedOpacity,
	} {
		if opacity < 0 || opacity > 1 {
			return fmt.Errorf("invalid render: %s must be in [0, 1], got %v", name, opacity)
		}
	}

	switch r.Layout {
	case "", "flex", "center", "none":
	default:
		return fmt.Errorf("invalid render: layout must be one of flex, center or none, got %q", r.Layout)
	}

	if r.Language != "" {
		if _, err := language.Parse(r.Language); err != nil {
			return fmt.Errorf("invalid render: language %q: %w", r.Language, err)
		}
	}

	return nil
}

func (c *Config) validateOutputs() error {
	if c.Screenshot.Width <= 0 || c.Screenshot.Height <= 0 {
		return fmt.Errorf("invalid screenshot: width and height must be positive")
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		return fmt.Errorf("invalid thumbnail: width and height must be positive")
	}

	return nil
}

type str interface {
	~string
}

func titleize[T str](in T) string {
	caser := cases.Title(language.English, cases.NoLower) // the case is stateful: cannot declare it globally

	return caser.String(strings.Map(func(r rune) rune {
		switch r {
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, string(in),
	))
}
