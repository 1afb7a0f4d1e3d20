// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/model"
)

// =============================================================================
// TEXT DIRECTION
// =============================================================================

// UNICODE: the terminal does the bidi shaping of each line. These helpers
// only mirror the layout, the way dir="rtl" mirrors a page.

// Align anchors every line of block to the leading edge of dir within width.
func Align(dir model.Direction, width int, block string) string {
	if width <= 0 {
		return block
	}
	pos := lipgloss.Left
	if dir == model.RTL {
		pos = lipgloss.Right
	}
	return lipgloss.NewStyle().Width(width).Align(pos).Render(block)
}

// Row joins parts left to right, or right to left for RTL.
func Row(dir model.Direction, sep string, parts ...string) string {
	if dir == model.RTL {
		reversed := make([]string, len(parts))
		for i, p := range parts {
			reversed[len(parts)-1-i] = p
		}
		parts = reversed
	}
	return strings.Join(parts, sep)
}

// Spread places leading and trailing at opposite edges of width. In RTL
// layouts leading goes on the right.
func Spread(dir model.Direction, width int, leading, trailing string) string {
	if dir == model.RTL {
		leading, trailing = trailing, leading
	}
	gap := width - lipgloss.Width(leading) - lipgloss.Width(trailing)
	if gap < 1 {
		gap = 1
	}
	return leading + strings.Repeat(" ", gap) + trailing
}
