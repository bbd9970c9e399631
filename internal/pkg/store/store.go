// Package store keeps encoded snapshots on disk, throttles their write-back and reports
// changes made behind our back.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Persistence is the durable side of the application: it hands back the last snapshot and
// receives every new one.
type Persistence interface {
	// Load returns the last saved snapshot, or nil on first run.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	// Watch streams change notifications until ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event notifies that the snapshot stored under Key changed.
type Event struct {
	Key string
}

// DiskStore is a [Persistence] backed by diskv. Snapshots are kept as flat files under the
// base path, one per key.
type DiskStore struct {
	options

	d        *diskv.Diskv
	basePath string
	key      string
	l        *slog.Logger
}

// Open a [DiskStore] rooted at basePath, storing its snapshot under key.
func Open(basePath, key string, opts ...Option) (*DiskStore, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if key == "" {
		return nil, errors.New("store: key required")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	o := optionsWithDefaults(opts)

	return &DiskStore{
		options: o,
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: o.cacheSize,
			FilePerm:     0o600,
			TempDir:      filepath.Join(basePath, ".tmp"),
		}),
		basePath: basePath,
		key:      key,
		l:        slog.Default().With(slog.String("module", "store")),
	}, nil
}

// Load the snapshot. A missing snapshot is not an error: it returns nil.
func (s *DiskStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !s.d.Has(s.key) {
		s.l.Info("no snapshot stored yet", slog.String("key", s.key))

		return nil, nil
	}

	blob, err := s.d.Read(s.key)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", s.key, err)
	}

	return blob, nil
}

// Save the snapshot, replacing the previous one.
func (s *DiskStore) Save(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.d.Write(s.key, blob); err != nil {
		return fmt.Errorf("store: write %q: %w", s.key, err)
	}
	s.l.Debug("snapshot saved", slog.String("key", s.key), slog.Int("bytes", len(blob)))

	return nil
}

// Erase removes the stored snapshot, if any.
func (s *DiskStore) Erase() error {
	if !s.d.Has(s.key) {
		return nil
	}

	return s.d.Erase(s.key)
}

// Memory is an in-memory [Persistence], for tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	blob     []byte
	saves    int
	watchers []chan Event
}

// NewMemory returns an empty [Memory] store, optionally seeded with a snapshot.
func NewMemory(seed []byte) *Memory {
	return &Memory{blob: seed}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.blob...), nil
}

func (m *Memory) Save(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blob = append([]byte(nil), blob...)
	m.saves++
	for _, w := range m.watchers {
		select {
		case w <- Event{Key: "memory"}:
		default:
		}
	}

	return nil
}

func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make(chan Event, 1)
	m.watchers = append(m.watchers, events)

	go func() {
		<-ctx.Done()

		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == events {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)

				break
			}
		}
		close(events)
	}()

	return events, nil
}

// Saves returns the number of snapshots saved so far.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}
