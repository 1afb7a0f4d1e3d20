// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/ui/styles"
	"github.com/jeranaias/polychat/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom line: the page shortcuts on the leading edge and
// connection details on the trailing edge.
type StatusBar struct {
	// Help is a shortcut line of "key: description" pairs separated by two
	// spaces, as stored in the message catalog.
	Help  string
	Right string
	Dir   model.Direction
	Width int
	theme *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, Dir: model.LTR, theme: theme}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	right := s.theme.ShortcutDesc.Render(util.TruncateWidth(s.Right, inner/3))
	help := s.renderShortcuts(inner - util.StringWidth(s.Right) - 2)

	return s.theme.StatusBar.Width(width).Render(Spread(s.Dir, inner, help, right))
}

// renderShortcuts highlights the key of every pair that fits in maxWidth.
func (s *StatusBar) renderShortcuts(maxWidth int) string {
	if s.Help == "" || maxWidth <= 0 {
		return ""
	}

	var (
		parts []string
		used  int
	)
	for _, pair := range strings.Split(s.Help, "  ") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		w := util.StringWidth(pair)
		if used > 0 {
			w += 2
		}
		if used+w > maxWidth {
			break
		}
		used += w

		key, desc, ok := strings.Cut(pair, ":")
		if !ok {
			parts = append(parts, s.theme.ShortcutDesc.Render(pair))
			continue
		}
		parts = append(parts, s.theme.ShortcutKey.Render(key)+s.theme.ShortcutDesc.Render(":"+desc))
	}
	return Row(s.Dir, "  ", parts...)
}
