package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch streams an [Event] whenever the stored snapshot is written, by this process or another one.
// Bursts of notifications are coalesced. The channel is closed once ctx is done.
func (s *DiskStore) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("store: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 1)
	target := filepath.Join(s.basePath, s.key)

	var (
		mu     sync.Mutex
		closed bool
	)

	go func() {
		defer func() {
			mu.Lock()
			closed = true
			close(events)
			mu.Unlock()
		}()
		defer func() {
			if err := watcher.Close(); err != nil {
				s.l.Warn("watcher close", slog.String("error", err.Error()))
			}
		}()

		send := func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}

			select {
			case events <- ev:
			default:
				// a notification is already pending: the consumer reloads the latest snapshot anyway
			}
		}

		debounce := newDebouncer(s.debounce)
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.l.Warn("watcher error", slog.String("error", err.Error()))
				debounce.Trigger(func() { send(Event{Key: s.key}) })
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}

				debounce.Trigger(func() { send(Event{Key: s.key}) })
			}
		}
	}()

	return events, nil
}

// debouncer runs the last triggered function once no trigger arrived for delay.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
