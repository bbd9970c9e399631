package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is returned when submitting to a closed [Throttle].
var ErrClosed = errors.New("store: throttle closed")

// SaveFunc writes a snapshot.
type SaveFunc func(ctx context.Context, blob []byte) error

// Throttle rate-limits snapshot writes to at most one per interval.
//
// A submission arriving after a quiet period is written at once. Submissions arriving within
// the interval only replace the pending snapshot: the latest one is written when the interval
// elapses. The last submitted snapshot is always written eventually, by the trailing flush,
// [Throttle.Flush] or [Throttle.Close]. A failed trailing flush is retried every interval.
type Throttle struct {
	throttleOptions

	mu       sync.Mutex
	save     SaveFunc
	interval time.Duration
	last     time.Time
	pending  []byte
	timer    *time.Timer
	gen      uint64
	closed   bool
	l        *slog.Logger
}

// NewThrottle wraps save so that it is called at most once per interval.
func NewThrottle(save SaveFunc, interval time.Duration, opts ...ThrottleOption) *Throttle {
	o := throttleOptionsWithDefaults(opts)

	return &Throttle{
		throttleOptions: o,
		save:            save,
		interval:        interval,
		l:               o.logger,
	}
}

// Submit a snapshot for writing.
//
// The error is that of an immediate write. Errors of trailing writes go to the error handler.
func (t *Throttle) Submit(blob []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}

	t.pending = blob
	if t.timer != nil {
		return nil
	}

	wait := t.interval - time.Since(t.last)
	if wait <= 0 {
		return t.flushLocked(context.Background())
	}

	gen := t.gen
	t.timer = time.AfterFunc(wait, func() { t.trailing(gen) })

	return nil
}

// Flush writes the pending snapshot now, if any.
func (t *Throttle) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	return t.flushLocked(ctx)
}

// Close writes the pending snapshot and rejects further submissions.
func (t *Throttle) Close(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.stopLocked()

	return t.flushLocked(ctx)
}

// Pending reports whether a snapshot waits to be written.
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pending != nil
}

func (t *Throttle) trailing(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.closed {
		// superseded by Flush or Close
		return
	}
	t.timer = nil
	t.gen++

	if err := t.flushLocked(context.Background()); err != nil {
		t.l.Warn("trailing flush failed: retrying", slog.String("error", err.Error()), slog.Duration("retry_in", t.interval))
		t.onError(err)

		// the snapshot stays pending
		retry := t.gen
		t.timer = time.AfterFunc(t.interval, func() { t.trailing(retry) })
	}
}

func (t *Throttle) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// flushLocked writes the pending snapshot. On failure the snapshot stays pending.
func (t *Throttle) flushLocked(ctx context.Context) error {
	if t.pending == nil {
		return nil
	}

	if err := t.save(ctx, t.pending); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	t.l.Debug("snapshot flushed", slog.Int("bytes", len(t.pending)))
	t.pending = nil
	t.last = time.Now()

	return nil
}
