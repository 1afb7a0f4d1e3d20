// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/ui/styles"
)

func TestStatusBarShowsShortcuts(t *testing.T) {
	s := NewStatusBar(styles.NewTheme())
	s.Help = "enter: send  tab: model  ctrl+n: new"
	s.Right = "Gemini"
	s.SetWidth(100)

	view := s.View()
	for _, want := range []string{"enter", ": send", "tab", "Gemini"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q in %q", want, view)
		}
	}
	if lipgloss.Width(view) != 100 {
		t.Errorf("status bar width = %d, want 100", lipgloss.Width(view))
	}
}

func TestStatusBarDropsShortcutsThatDoNotFit(t *testing.T) {
	s := NewStatusBar(styles.NewTheme())
	s.Help = "enter: send  tab: model  ctrl+n: new chat  ctrl+h: history"
	s.SetWidth(30)

	view := s.View()
	if !strings.Contains(view, "enter") {
		t.Errorf("status bar should keep the first shortcut: %q", view)
	}
	if strings.Contains(view, "history") {
		t.Errorf("status bar should drop trailing shortcuts: %q", view)
	}
}
