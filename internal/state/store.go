package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mknopf/vitrine/internal/folio"
)

// Snapshot is a point-in-time copy of one collection for consumers to read.
// Items is always a private clone; mutating it never touches the store.
type Snapshot[T any] struct {
	Items               []T
	Loading             bool
	Err                 error
	Loaded              bool // at least one successful refresh
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// Stale reports whether the collection has failed to refresh repeatedly.
func (s Snapshot[T]) Stale() bool {
	return s.ConsecutiveFailures >= 2
}

// Collection holds the canonical client-side copy of one backend resource
// list. Only its own methods write to it; consumers read cloned snapshots.
// A failed refresh keeps the previous items (stale-but-present) and records
// the error; a refresh aborted by context cancellation clears the loading
// flag and nothing else.
type Collection[T any] struct {
	mu          sync.RWMutex
	id          func(T) folio.ID
	items       []T
	loading     bool
	err         error
	loaded      bool
	lastUpdated time.Time
	failures    int
}

// NewCollection builds an empty collection keyed by the given id accessor.
func NewCollection[T any](id func(T) folio.ID) *Collection[T] {
	return &Collection[T]{id: id}
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot[T]{
		Items:               cloneItems(c.items),
		Loading:             c.loading,
		Err:                 c.err,
		Loaded:              c.loaded,
		LastUpdated:         c.lastUpdated,
		ConsecutiveFailures: c.failures,
	}
}

// Find returns the item with the given id.
func (c *Collection[T]) Find(id folio.ID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of items currently held.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// begin marks the collection loading. Called synchronously before the fetch
// suspends so no reader ever sees "not loading" while a request is in flight.
func (c *Collection[T]) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
}

// finishReplace installs the server state wholesale. Refreshes never merge.
func (c *Collection[T]) finishReplace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cloneItems(items)
	c.loading = false
	c.err = nil
	c.loaded = true
	c.lastUpdated = time.Now()
	c.failures = 0
}

// finishErr records a failed refresh. Previous items stay visible. An abort
// only clears the loading flag.
func (c *Collection[T]) finishErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if errors.Is(err, context.Canceled) {
		return
	}
	c.err = err
	c.lastUpdated = time.Now()
	c.failures++
}

// setErr records a failed mutation without touching items or loading.
func (c *Collection[T]) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Append adds a confirmed server entity to the end of the collection.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	c.err = nil
}

// ReplaceByID swaps in the server copy of an existing item. When no item
// matches the id, local state is left alone.
func (c *Collection[T]) ReplaceByID(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			c.err = nil
			return true
		}
	}
	return false
}

// RemoveByID filters out the item with the given id.
func (c *Collection[T]) RemoveByID(id folio.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			c.err = nil
			return true
		}
	}
	return false
}

// Patch applies fn to the item with the given id in place. This is the one
// mutation without a matching network call: the reconciliation protocol uses
// it for immediate like-count feedback after its own calls succeeded.
func (c *Collection[T]) Patch(id folio.ID, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.id(c.items[i]) == id {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

func cloneItems[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
