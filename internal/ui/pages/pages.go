// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// size is embedded by pages that only record their dimensions.
type size struct {
	width  int
	height int
}

// SetSize records the page dimensions.
func (s *size) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// place centers block horizontally and puts it a third of the way down.
func (s *size) place(block string) string {
	if s.width <= 0 || s.height <= 0 {
		return block
	}
	return lipgloss.Place(s.width, s.height, lipgloss.Center, 0.3, block)
}

// contentWidth is the width of centered page content.
func (s *size) contentWidth() int {
	w := s.width - 4
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// goBack returns to the previous location, or to fallback when there is
// none.
func goBack(env view.Env, fallback string) {
	if !env.App.Nav.Back() {
		env.App.Nav.Replace(fallback)
	}
}

// langLabel is the name of l in its own language.
func langLabel(env view.Env, l model.Lang) string {
	return env.App.Locale.TIn(l, locale.LangName)
}
