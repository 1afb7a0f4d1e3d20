// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Markdown renders assistant replies with glamour and caches the output per
// message, since the chat transcript is re-rendered on every frame.
type Markdown struct {
	mu       sync.Mutex
	width    int
	plain    bool
	renderer *glamour.TermRenderer
	cache    map[string]string
}

// NewMarkdown creates a renderer. With plain set (markdown disabled in the
// config, or no color) text is only word wrapped.
func NewMarkdown(plain bool) *Markdown {
	return &Markdown{plain: plain || termenv.EnvNoColor(), cache: make(map[string]string)}
}

// SetWidth changes the wrap width and drops the cache when it differs.
func (m *Markdown) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width {
		return
	}
	m.width = width
	m.renderer = nil
	m.cache = make(map[string]string)
}

// Render returns content rendered for the current width. key identifies the
// content for caching; an empty key disables the cache.
func (m *Markdown) Render(key, content string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key != "" {
		if out, ok := m.cache[key]; ok {
			return out
		}
	}

	out := m.render(content)
	if key != "" {
		m.cache[key] = out
	}
	return out
}

func (m *Markdown) render(content string) string {
	if m.plain || m.width <= 0 {
		return content
	}
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.width),
		)
		if err != nil {
			m.plain = true
			return content
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
