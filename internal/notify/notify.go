// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify collects transient, auto-dismissing notifications.
//
// Controllers post to a Center when an optimistic change is reverted or a
// delete succeeds; the TUI renders the active notifications as toasts and
// the CLI prints them.
package notify

import (
	"slices"
	"sync"
	"time"
)

// =============================================================================
// NOTIFICATION TYPES
// =============================================================================

// Kind is the severity of a notification.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Display durations by kind. Errors stay longer so they can be read.
const (
	DefaultDuration = 4 * time.Second
	WarningDuration = 6 * time.Second
	ErrorDuration   = 8 * time.Second
)

// DefaultMaxActive is the number of notifications kept at once.
const DefaultMaxActive = 5

// Notification is one posted message.
type Notification struct {
	ID        int
	Kind      Kind
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// ExpiresAt returns when the notification is dismissed automatically.
func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Duration)
}

// =============================================================================
// CENTER
// =============================================================================

// Poster is what controllers need to report outcomes.
type Poster interface {
	Error(message string) int
	Success(message string) int
}

// Center holds active notifications, newest first. Safe for concurrent use.
type Center struct {
	mu        sync.Mutex
	items     []Notification
	nextID    int
	maxActive int
	now       func() time.Time
	listeners []func(Notification)
}

// NewCenter creates an empty center.
func NewCenter() *Center {
	return &Center{
		nextID:    1,
		maxActive: DefaultMaxActive,
		now:       time.Now,
	}
}

// WithClock overrides time.Now for tests.
func (c *Center) WithClock(now func() time.Time) *Center {
	c.now = now
	return c
}

// Subscribe registers fn to run after every post, outside the lock.
func (c *Center) Subscribe(fn func(Notification)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Post adds a notification and returns its id.
func (c *Center) Post(kind Kind, message string) int {
	c.mu.Lock()
	n := Notification{
		ID:        c.nextID,
		Kind:      kind,
		Message:   message,
		CreatedAt: c.now(),
		Duration:  durationFor(kind),
	}
	c.nextID++

	c.items = append([]Notification{n}, c.items...)
	if len(c.items) > c.maxActive {
		c.items = c.items[:c.maxActive]
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(n)
	}
	return n.ID
}

// Error posts an error notification.
func (c *Center) Error(message string) int {
	return c.Post(KindError, message)
}

// Success posts a success notification.
func (c *Center) Success(message string) int {
	return c.Post(KindSuccess, message)
}

// Info posts an informational notification.
func (c *Center) Info(message string) int {
	return c.Post(KindInfo, message)
}

// Warning posts a warning notification.
func (c *Center) Warning(message string) int {
	return c.Post(KindWarning, message)
}

// Dismiss removes a notification by id.
func (c *Center) Dismiss(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Tick drops expired notifications and returns the active ones.
func (c *Center) Tick() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	active := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.ExpiresAt()) {
			active = append(active, n)
		}
	}
	c.items = active
	return append([]Notification(nil), c.items...)
}

// Active returns a copy of the current notifications without expiring any.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Clear removes every notification.
func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

func durationFor(k Kind) time.Duration {
	switch k {
	case KindError:
		return ErrorDuration
	case KindWarning:
		return WarningDuration
	default:
		return DefaultDuration
	}
}
