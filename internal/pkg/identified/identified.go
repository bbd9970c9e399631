// Package identified provides persistent collections of entities keyed by kind-tagged numeric identifiers.
//
// Every mutating operation returns a new [Collection] and leaves the receiver untouched, so callers can
// keep older snapshots around (undo, diffing) without defensive copies.
package identified

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is matched by every [NotFoundError].
var ErrNotFound = errors.New("not found")

// Kind tags an identifier with the entity kind it refers to.
type Kind interface {
	KindName() string
}

// ID is an opaque positive identifier. The kind parameter makes identifiers of different
// entity kinds distinct types.
type ID[K Kind] int

// Int returns the raw identifier value.
func (id ID[K]) Int() int {
	return int(id)
}

// String returns the identifier prefixed with its kind, e.g. "trackable#3".
func (id ID[K]) String() string {
	var k K

	return k.KindName() + "#" + strconv.Itoa(int(id))
}

// NotFoundError reports a reference to an absent entity.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a [NotFoundError] for an identifier.
func NotFound[K Kind](id ID[K]) error {
	var k K

	return &NotFoundError{Kind: k.KindName(), ID: int(id)}
}

// Entry associates an identifier with its entity.
type Entry[K Kind, T any] struct {
	ID    ID[K]
	Value T
}

// Collection maps identifiers to entities, in storage order.
//
// It remembers the highest identifier it ever allocated, so that an identifier freed by a
// deletion is never handed out again.
type Collection[K Kind, T any] struct {
	entries []Entry[K, T]
	last    ID[K]
}

// Empty returns a collection without entities.
func Empty[K Kind, T any]() Collection[K, T] {
	return Collection[K, T]{}
}

// FromEntries builds a collection from decoded entries. Identifiers must be positive and unique.
func FromEntries[K Kind, T any](entries []Entry[K, T]) (Collection[K, T], error) {
	var last ID[K]
	seen := make(map[ID[K]]struct{}, len(entries))
	for i, e := range entries {
		if e.ID <= 0 {
			return Collection[K, T]{}, fmt.Errorf("invalid identifier at entries[%d]: %s", i, e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return Collection[K, T]{}, fmt.Errorf("duplicate identifier at entries[%d]: %s", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		last = max(last, e.ID)
	}

	return Collection[K, T]{entries: append([]Entry[K, T](nil), entries...), last: last}, nil
}

// Len returns the number of entities.
func (c Collection[K, T]) Len() int {
	return len(c.entries)
}

// Get looks up an entity.
func (c Collection[K, T]) Get(id ID[K]) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.entries[i].Value, true
	}

	var zero T

	return zero, false
}

// Has reports whether the identifier is present.
func (c Collection[K, T]) Has(id ID[K]) bool {
	return c.index(id) >= 0
}

// Add stores a new entity under the next identifier: the maximum ever allocated + 1.
func (c Collection[K, T]) Add(value T) (ID[K], Collection[K, T]) {
	next := c.last
	for _, e := range c.entries {
		next = max(next, e.ID)
	}
	next++

	entries := make([]Entry[K, T], len(c.entries), len(c.entries)+1)
	copy(entries, c.entries)
	entries = append(entries, Entry[K, T]{ID: next, Value: value})

	return next, Collection[K, T]{entries: entries, last: next}
}

// TryUpdate replaces the entity with the result of fn.
//
// It fails with a [NotFoundError] when the identifier is absent, or with the error reported by fn.
func (c Collection[K, T]) TryUpdate(id ID[K], fn func(T) (T, error)) (Collection[K, T], error) {
	i := c.index(id)
	if i < 0 {
		return c, NotFound(id)
	}

	updated, err := fn(c.entries[i].Value)
	if err != nil {
		return c, err
	}

	entries := make([]Entry[K, T], len(c.entries))
	copy(entries, c.entries)
	entries[i].Value = updated

	return Collection[K, T]{entries: entries, last: c.last}, nil
}

// Update replaces the entity with the result of fn, failing only when the identifier is absent.
func (c Collection[K, T]) Update(id ID[K], fn func(T) T) (Collection[K, T], error) {
	return c.TryUpdate(id, func(v T) (T, error) {
		return fn(v), nil
	})
}

// TryDelete removes an entity.
func (c Collection[K, T]) TryDelete(id ID[K]) (Collection[K, T], error) {
	i := c.index(id)
	if i < 0 {
		return c, NotFound(id)
	}

	entries := make([]Entry[K, T], 0, len(c.entries)-1)
	entries = append(entries, c.entries[:i]...)
	entries = append(entries, c.entries[i+1:]...)

	return Collection[K, T]{entries: entries, last: c.last}, nil
}

// Map transforms every entity, preserving identifiers and order.
func (c Collection[K, T]) Map(fn func(ID[K], T) T) Collection[K, T] {
	entries := make([]Entry[K, T], len(c.entries))
	for i, e := range c.entries {
		entries[i] = Entry[K, T]{ID: e.ID, Value: fn(e.ID, e.Value)}
	}

	return Collection[K, T]{entries: entries, last: c.last}
}

// Filter keeps the entities for which keep returns true.
func (c Collection[K, T]) Filter(keep func(ID[K], T) bool) Collection[K, T] {
	entries := make([]Entry[K, T], 0, len(c.entries))
	for _, e := range c.entries {
		if keep(e.ID, e.Value) {
			entries = append(entries, e)
		}
	}

	return Collection[K, T]{entries: entries, last: c.last}
}

// Values returns the entities in storage order.
func (c Collection[K, T]) Values() []T {
	values := make([]T, len(c.entries))
	for i, e := range c.entries {
		values[i] = e.Value
	}

	return values
}

// Keys returns the identifiers in storage order.
func (c Collection[K, T]) Keys() []ID[K] {
	keys := make([]ID[K], len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.ID
	}

	return keys
}

// Entries returns a copy of the (identifier, entity) pairs in storage order.
func (c Collection[K, T]) Entries() []Entry[K, T] {
	return append([]Entry[K, T](nil), c.entries...)
}

func (c Collection[K, T]) index(id ID[K]) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}

	return -1
}
