// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/polychat/internal/ui/styles"
)

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(styles.NewTheme(), "Loading")

	if s.message != "Loading" {
		t.Errorf("NewSpinner() message = %q, want %q", s.message, "Loading")
	}
	if s.showTimer {
		t.Error("NewSpinner() should not show a timer")
	}
	if s.IsActive() {
		t.Error("NewSpinner() should not be active initially")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	s := NewThinkingSpinner(styles.NewTheme(), "Thinking")

	if cmd := s.Start(); cmd == nil {
		t.Error("Start() should return a tick command")
	}
	if cmd := s.Start(); cmd != nil {
		t.Error("second Start() should not schedule another tick")
	}
	if !s.IsActive() {
		t.Fatal("spinner should be active after Start()")
	}

	view := s.View()
	if !strings.Contains(view, "Thinking") {
		t.Errorf("View() = %q, want message", view)
	}
	if !strings.Contains(view, "(0s)") {
		t.Errorf("View() = %q, want elapsed timer", view)
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop()")
	}
	if _, cmd := s.Update(nil); cmd != nil {
		t.Error("stopped spinner should not keep ticking")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s := NewSpinner(styles.NewTheme(), "a")
	s.SetMessage("b")
	s.Start()

	if !strings.Contains(s.View(), "b") {
		t.Errorf("View() = %q, want updated message", s.View())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{4 * time.Second, "4s"},
		{59 * time.Second, "59s"},
		{65 * time.Second, "1m05s"},
		{10*time.Minute + 30*time.Second, "10m30s"},
	}

	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
