// Package colour defines the closed palette used to paint trackables, chartables and chart series.
package colour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrUnknownColour is returned when parsing a colour name outside of the palette.
var ErrUnknownColour = errors.New("unknown colour")

// Colour is a named palette entry.
type Colour string

// Palette entries.
const (
	Red    Colour = "red"
	Orange Colour = "orange"
	Yellow Colour = "yellow"
	Green  Colour = "green"
	Teal   Colour = "teal"
	Blue   Colour = "blue"
	Indigo Colour = "indigo"
	Purple Colour = "purple"
	Pink   Colour = "pink"
	Brown  Colour = "brown"
	Gray   Colour = "gray"
)

var rgb = map[Colour]string{
	Red:    "ef4444",
	Orange: "f97316",
	Yellow: "eab308",
	Green:  "22c55e",
	Teal:   "14b8a6",
	Blue:   "3b82f6",
	Indigo: "6366f1",
	Purple: "a855f7",
	Pink:   "ec4899",
	Brown:  "a16207",
	Gray:   "6b7280",
}

// Palette returns all colours in display order. Gray comes last since it is the fallback.
func Palette() []Colour {
	return []Colour{Red, Orange, Yellow, Green, Teal, Blue, Indigo, Purple, Pink, Brown, Gray}
}

// ForIndex cycles through the palette, skipping the gray fallback.
func ForIndex(i int) Colour {
	p := Palette()
	p = p[:len(p)-1]
	if i < 0 {
		i = -i
	}

	return p[i%len(p)]
}

// Parse a colour name, case-insensitively.
func Parse(name string) (Colour, error) {
	c := Colour(strings.ToLower(strings.TrimSpace(name)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColour, name)
	}

	return c, nil
}

// IsValid reports whether c belongs to the palette.
func (c Colour) IsValid() bool {
	_, ok := rgb[c]

	return ok
}

// String returns the colour name.
func (c Colour) String() string {
	return string(c)
}

// Drawing returns the opaque go-chart color. Unknown colours render as gray.
func (c Colour) Drawing() drawing.Color {
	hex, ok := rgb[c]
	if !ok {
		hex = rgb[Gray]
	}

	return drawing.ColorFromHex(hex)
}

// Hex returns the "#rrggbb" notation.
func (c Colour) Hex() string {
	d := c.Drawing()

	return fmt.Sprintf("#%02x%02x%02x", d.R, d.G, d.B)
}

// RGBA returns a CSS rgba() notation with the given opacity in [0, 1].
func (c Colour) RGBA(opacity float64) string {
	d := c.Drawing()
	opacity = min(max(opacity, 0), 1)

	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", d.R, d.G, d.B, opacity)
}
