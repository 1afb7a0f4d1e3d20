// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package optimistic applies a local change before the backend confirms it
// and reverts the change when the backend refuses.
//
// Both the chat send (append, then remove the provisional message by id on
// failure) and the history delete (filter, then restore the exact
// pre-delete list on failure) are expressed as a Mutation over a Collection.
package optimistic

import (
	"context"
	"sync"
)

// =============================================================================
// COLLECTION
// =============================================================================

// Collection is an ordered list guarded by a mutex.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewCollection creates a collection holding a copy of items.
func NewCollection[T any](items ...T) *Collection[T] {
	c := &Collection[T]{}
	c.Replace(items)
	return c
}

// Snapshot returns a copy of the items.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items)
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Replace swaps the whole list.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	c.items = clone(items)
	c.mu.Unlock()
}

// Append adds items at the end.
func (c *Collection[T]) Append(items ...T) {
	c.mu.Lock()
	c.items = append(c.items, items...)
	c.mu.Unlock()
}

// Update applies fn atomically and returns the list as it was before.
func (c *Collection[T]) Update(fn func(items []T) []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := clone(c.items)
	c.items = fn(clone(c.items))
	return before
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// =============================================================================
// MUTATION
// =============================================================================

// Mutation is one optimistic change.
type Mutation[T any] struct {
	// Apply produces the optimistic list from the current one.
	Apply func(items []T) []T

	// Commit performs the backend call.
	Commit func(ctx context.Context) error

	// Revert produces the list after a failed commit from the current list
	// and the pre-apply snapshot. Nil restores the snapshot exactly.
	Revert func(current, snapshot []T) []T
}

// Run applies m, commits it and reverts on failure. The commit error is
// returned unchanged.
func Run[T any](ctx context.Context, c *Collection[T], m Mutation[T]) error {
	return Begin(c, m).Commit(ctx)
}

// Pending is a mutation whose local change is in place but not yet
// committed.
type Pending[T any] struct {
	c        *Collection[T]
	m        Mutation[T]
	snapshot []T
}

// Begin performs only the Apply step of m. Callers that must order the
// local change with their own state apply under their lock and commit
// after releasing it.
func Begin[T any](c *Collection[T], m Mutation[T]) *Pending[T] {
	return &Pending[T]{c: c, m: m, snapshot: c.Update(m.Apply)}
}

// Commit performs the backend call and reverts on failure.
func (p *Pending[T]) Commit(ctx context.Context) error {
	if err := p.m.Commit(ctx); err != nil {
		p.c.Update(func(current []T) []T {
			if p.m.Revert == nil {
				return clone(p.snapshot)
			}
			return p.m.Revert(current, p.snapshot)
		})
		return err
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// Without returns an Apply/Revert step that removes every item whose key
// is id.
func Without[T any](key func(T) string, id string) func(items []T) []T {
	return func(items []T) []T {
		out := items[:0]
		for _, it := range items {
			if key(it) != id {
				out = append(out, it)
			}
		}
		return out
	}
}

// Appending returns an Apply step that adds item at the end.
func Appending[T any](item T) func(items []T) []T {
	return func(items []T) []T {
		return append(items, item)
	}
}

// RemoveByKey is a Revert that removes the item with the given key from
// the current list, keeping anything appended meanwhile.
func RemoveByKey[T any](key func(T) string, id string) func(current, snapshot []T) []T {
	without := Without(key, id)
	return func(current, _ []T) []T {
		return without(current)
	}
}
