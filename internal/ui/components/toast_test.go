// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/ui/styles"
)

// =============================================================================
// TOAST TESTS
// =============================================================================

func TestToastsEmpty(t *testing.T) {
	toasts := NewToasts(notify.NewCenter(), styles.NewTheme())
	toasts.Refresh()

	if toasts.View() != "" {
		t.Error("no notifications should render nothing")
	}
	if toasts.Height() != 0 {
		t.Errorf("Height() = %d, want 0", toasts.Height())
	}
}

func TestToastsRenderKinds(t *testing.T) {
	center := notify.NewCenter()
	toasts := NewToasts(center, styles.NewTheme())

	center.Error("could not send")
	center.Success("deleted")
	toasts.Refresh()

	view := toasts.View()
	if !strings.Contains(view, "could not send") || !strings.Contains(view, "deleted") {
		t.Errorf("View() = %q, want both messages", view)
	}
	if !strings.Contains(view, styles.StatusIndicators.Error) {
		t.Error("error toast should carry the error indicator")
	}
	if !strings.Contains(view, styles.StatusIndicators.Success) {
		t.Error("success toast should carry the success indicator")
	}
	if toasts.Height() == 0 {
		t.Error("Height() should count rendered toasts")
	}
}

func TestToastsCap(t *testing.T) {
	center := notify.NewCenter()
	toasts := NewToasts(center, styles.NewTheme())
	for i := 0; i < MaxVisibleToasts+2; i++ {
		center.Info("note")
	}
	toasts.Refresh()

	if toasts.Count() > MaxVisibleToasts {
		t.Errorf("Count() = %d, want at most %d", toasts.Count(), MaxVisibleToasts)
	}
}

func TestToastsSweepExpires(t *testing.T) {
	now := time.Now()
	center := notify.NewCenter().WithClock(func() time.Time { return now })
	toasts := NewToasts(center, styles.NewTheme())

	center.Info("short lived")
	toasts.Sweep()
	if toasts.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", toasts.Count())
	}

	now = now.Add(time.Hour)
	toasts.Sweep()
	if toasts.Count() != 0 {
		t.Errorf("Count() after expiry = %d, want 0", toasts.Count())
	}
}

func TestToastsDismissAll(t *testing.T) {
	center := notify.NewCenter()
	toasts := NewToasts(center, styles.NewTheme())
	center.Warning("careful")
	toasts.Refresh()

	toasts.DismissAll()
	if toasts.Count() != 0 || len(center.Active()) != 0 {
		t.Error("DismissAll() should clear the center")
	}
}

func TestToastsAnchor(t *testing.T) {
	center := notify.NewCenter()
	toasts := NewToasts(center, styles.NewTheme())
	toasts.SetWidth(100)
	center.Info("hi")
	toasts.Refresh()

	ltr := toasts.View()
	if !strings.HasPrefix(ltr, " ") {
		t.Error("LTR toasts should be anchored to the right edge")
	}

	toasts.SetDirection(model.RTL)
	rtl := toasts.View()
	if strings.HasPrefix(rtl, " ") {
		t.Error("RTL toasts should be anchored to the left edge")
	}
}
