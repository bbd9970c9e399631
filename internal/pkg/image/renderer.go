// Package image converts a HTML page into a PNG screenshot.
package image

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/device"
)

// Renderer knows how to take a screenshot from a HTML input and writes it as PNG.
type Renderer struct {
	options

	l *slog.Logger
}

// New builds an image [Renderer] from HTML.
func New(opts ...Option) *Renderer {
	return &Renderer{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "image")),
	}
}

// Render a PNG image as a screenshot from a HTML input [io.Reader].
//
// The whole page is captured, unless a selector is configured: then only the first matching
// element is.
func (r *Renderer) Render(ctx context.Context, dest io.Writer, source io.Reader) error {
	screenshot, err := r.screenshot(ctx, source)
	if err != nil {
		return fmt.Errorf("taking screenshot: %w", err)
	}

	_, err = dest.Write(screenshot)
	if err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	return nil
}

func (r *Renderer) screenshot(parent context.Context, reader io.Reader) ([]byte, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	var screenshot []byte
	const qualityPNG = 100 // 100 to force PNG

	// SVG fragments reference gradients with "url(#...)": the content must be escaped
	// to survive as a data URL.
	actions := []chromedp.Action{
		chromedp.Emulate(device.Info{
			Height:    r.Height,
			Width:     r.Width,
			Landscape: true,
		}),
		chromedp.Navigate("data:text/html;charset=utf-8," + url.PathEscape(string(content))),
		chromedp.Sleep(r.SleepDuration), // we need to wait some time to get the rendering done
	}

	if r.Selector != "" {
		actions = append(actions, chromedp.Screenshot(r.Selector, &screenshot, chromedp.NodeVisible, chromedp.ByQuery))
	} else {
		actions = append(actions, chromedp.FullScreenshot(&screenshot, qualityPNG))
	}

	if err := chromedp.Run(ctx, actions...); err != nil {
		return nil, err
	}

	r.l.Debug("screenshot taken", slog.Int("bytes", len(screenshot)), slog.String("selector", r.Selector))

	return screenshot, nil
}
