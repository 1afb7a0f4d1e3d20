// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import "sync"

// maxHistory bounds the back stack.
const maxHistory = 64

// Navigator holds the current location. It is safe for concurrent use;
// controllers call it from command goroutines.
type Navigator struct {
	mu       sync.Mutex
	current  string
	history  []string
	onChange func(path string)
}

// NewNavigator starts at path.
func NewNavigator(path string) *Navigator {
	return &Navigator{current: Clean(path)}
}

// OnChange registers a callback run after every location change, outside
// the navigator's lock.
func (n *Navigator) OnChange(fn func(path string)) {
	n.mu.Lock()
	n.onChange = fn
	n.mu.Unlock()
}

// Current returns the current location.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate pushes path. Navigating to the current path does nothing.
func (n *Navigator) Navigate(path string) {
	n.move(path, true)
}

// Replace swaps the current location without adding a history entry.
func (n *Navigator) Replace(path string) {
	n.move(path, false)
}

// Back returns to the previous location. It reports false at the start of
// history.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	if len(n.history) == 0 {
		n.mu.Unlock()
		return false
	}
	n.current = n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	path, fn := n.current, n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(path)
	}
	return true
}

func (n *Navigator) move(path string, push bool) {
	path = Clean(path)

	n.mu.Lock()
	if path == n.current {
		n.mu.Unlock()
		return
	}
	if push {
		n.history = append(n.history, n.current)
		if len(n.history) > maxHistory {
			n.history = n.history[len(n.history)-maxHistory:]
		}
	}
	n.current = path
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(path)
	}
}
