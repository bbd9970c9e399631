package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
	"golang.org/x/text/language"

	"github.com/fredbi/symptoms/internal/pkg/day"
	"github.com/fredbi/symptoms/internal/pkg/graph"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, "my-symptoms", cfg.Name)
	assert.Empty(t, cfg.Today)
	assert.Equal(t, "userdata", cfg.Storage.Key)
	assert.Equal(t, 500*time.Millisecond, cfg.Storage.ThrottleDuration())
	assert.Equal(t, "westeros", cfg.Render.Theme)
	assert.Equal(t, "flex", cfg.Render.Layout)
	assert.False(t, cfg.Render.ShowPoints)
	assert.Equal(t, int64(1024), cfg.Screenshot.Width)
	assert.Equal(t, 200*time.Millisecond, cfg.Screenshot.SleepDuration())
	assert.Equal(t, 320, cfg.Thumbnail.Width)
}

func TestGraphSettingsMatchDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)

	assert.Equal(t, graph.DefaultSettings(), cfg.GraphSettings())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Run("with yaml", func(t *testing.T) {
		file := writeFile(t, "config.yaml", `
name: migraine_diary
today: "2020-12-13"
render:
  height: 400
  showPoints: true
`)

		cfg, err := Load(file)
		require.NoError(t, err)

		assert.Equal(t, "migraine_diary", cfg.Name)
		assert.Equal(t, "Migraine Diary", cfg.Title())
		assert.InDelta(t, 400.0, cfg.Render.Height, 1e-9)
		assert.True(t, cfg.Render.ShowPoints)

		// untouched keys keep their default
		assert.InDelta(t, 20.0, cfg.Render.DayWidth, 1e-9)
		assert.Equal(t, "userdata", cfg.Storage.Key)

		today, err := cfg.TodayDay(time.Now())
		require.NoError(t, err)
		assert.Equal(t, day.Day(737772), today)
	})

	t.Run("with toml", func(t *testing.T) {
		file := writeFile(t, "config.toml", `
name = "from toml"

[storage]
key = "other"
throttle = "2s"

[render]
dayWidth = 32
title = "My Chart"

[thumbnail]
width = 640
`)

		cfg, err := Load(file)
		require.NoError(t, err)

		assert.Equal(t, "from toml", cfg.Name)
		assert.Equal(t, "My Chart", cfg.Title())
		assert.Equal(t, "other", cfg.Storage.Key)
		assert.Equal(t, 2*time.Second, cfg.Storage.ThrottleDuration())
		assert.InDelta(t, 32.0, cfg.Render.DayWidth, 1e-9)
		assert.Equal(t, 640, cfg.Thumbnail.Width)
		assert.Equal(t, 160, cfg.Thumbnail.Height)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	file := writeFile(t, "bad.yaml", ":\n  :\n    - [invalid")

	_, err := Load(file)
	require.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	file := writeFile(t, "bad.toml", "[render\ndayWidth = ")

	_, err := Load(file)
	require.Error(t, err)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty storage key",
			content: "storage:\n  key: \"\"\n",
			wantErr: "invalid storage: empty key",
		},
		{
			name:    "key with separator",
			content: "storage:\n  key: a/b\n",
			wantErr: "must not contain a path separator",
		},
		{
			name:    "bad throttle",
			content: "storage:\n  throttle: soon\n",
			wantErr: "not a valid duration",
		},
		{
			name:    "zero day width",
			content: "render:\n  dayWidth: 0\n",
			wantErr: "invalid render: dayWidth must be positive",
		},
		{
			name:    "margins too large",
			content: "render:\n  height: 40\n  marginTop: 20\n  marginBottom: 20\n",
			wantErr: "leave no room",
		},
		{
			name:    "smoothing out of range",
			content: "render:\n  smoothing: 1.5\n",
			wantErr: "smoothing must be in [0, 1]",
		},
		{
			name:    "opacity out of range",
			content: "render:\n  dimmedOpacity: -0.1\n",
			wantErr: "dimmedOpacity must be in [0, 1]",
		},
		{
			name:    "unknown layout",
			content: "render:\n  layout: grid\n",
			wantErr: "invalid render: layout must be one of",
		},
		{
			name:    "bad language",
			content: "render:\n  language: \"not a tag!\"\n",
			wantErr: "invalid render: language",
		},
		{
			name:    "bad screenshot",
			content: "screenshot:\n  width: 0\n",
			wantErr: "invalid screenshot",
		},
		{
			name:    "bad thumbnail",
			content: "thumbnail:\n  height: -1\n",
			wantErr: "invalid thumbnail",
		},
		{
			name:    "bad today",
			content: "today: yesterday\n",
			wantErr: "invalid today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTodayDay(t *testing.T) {
	now := time.Date(2021, time.March, 1, 23, 59, 0, 0, time.UTC)

	t.Run("from the clock", func(t *testing.T) {
		d, err := Config{}.TodayDay(now)
		require.NoError(t, err)
		assert.Equal(t, day.FromTime(now), d)
	})

	t.Run("pinned", func(t *testing.T) {
		d, err := Config{Today: "2020-12-13"}.TodayDay(now)
		require.NoError(t, err)
		assert.Equal(t, day.Day(737772), d)
	})
}

func TestStorageDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	dir, err := Storage{Path: "~/.symptoms"}.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".symptoms"), dir)

	dir, err = Storage{Path: "/var/lib/symptoms"}.Dir()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/symptoms", dir)
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, "fr", Rendering{Language: "fr"}.LanguageTag().String())
	assert.Equal(t, language.English.String(), Rendering{}.LanguageTag().String())
}

func TestTitleize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "Hello"},
		{"hello-world", "Hello World"},
		{"hello_world", "Hello World"},
		{"my-symptoms", "My Symptoms"},
		{"didYouSmoke", "DidYouSmoke"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, titleize(tt.input))
		})
	}
}

func TestEncodeYAML(t *testing.T) {
	cfg, err := LoadDefaults()
	require.NoError(t, err)
	cfg.Name = "round-trip"
	cfg.Render.Height = 250
	cfg.IsStrict = true

	var buf bytes.Buffer
	require.NoError(t, cfg.EncodeYAML(&buf))
	assert.NotContains(t, buf.String(), "IsStrict")

	// verify the YAML can be loaded back as a valid config
	loaded, err := Load(writeFile(t, "encoded.yaml", buf.String()))
	require.NoError(t, err)

	assert.Equal(t, "round-trip", loaded.Name)
	assert.InDelta(t, 250.0, loaded.Render.Height, 1e-9)
	assert.False(t, loaded.IsStrict)
	assert.Equal(t, cfg.Storage, loaded.Storage)
	assert.Equal(t, cfg.Thumbnail, loaded.Thumbnail)
}

// helpers

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	return file
}
