// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/ui/styles"
	"github.com/jeranaias/polychat/internal/util"
)

// =============================================================================
// HEADER COMPONENT - navigation bar
// =============================================================================

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Route string // route name that marks the item active
	Label string
	Key   string // shortcut shown next to the label
}

// Header is the one-line navigation bar on top of every page.
type Header struct {
	Title string
	// Items are shown only to signed-in users.
	Items         []NavItem
	Active        string // current route name
	Authenticated bool
	UserName      string
	Language      string // display name of the active language
	Dir           model.Direction
	Width         int
	theme         *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "polychat",
		Width: 80,
		Dir:   model.LTR,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the navigation bar.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	brand := h.theme.HeaderBrand.Render(h.Title)

	nav := []string{brand}
	if h.Authenticated {
		for _, item := range h.Items {
			label := item.Label
			if item.Key != "" && width >= 80 {
				label += " " + item.Key
			}
			style := h.theme.NavItem
			if item.Route == h.Active {
				style = h.theme.NavItemActive
			}
			nav = append(nav, style.Render(label))
		}
	}
	leading := Row(h.Dir, " ", nav...)

	var meta []string
	if h.Authenticated && h.UserName != "" {
		meta = append(meta, util.TruncateWidth(h.UserName, 20))
	}
	if h.Language != "" {
		meta = append(meta, h.Language)
	}
	trailing := h.theme.HeaderMeta.Render(Row(h.Dir, " | ", meta...))

	// Header padding takes two columns
	line := Spread(h.Dir, width-2, leading, trailing)
	return h.theme.Header.Width(width).Render(lipgloss.NewStyle().MaxWidth(width - 2).Render(line))
}
