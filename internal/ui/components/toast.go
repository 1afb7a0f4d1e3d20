// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file renders notify.Center entries as non-blocking toasts. Toasts
// stack above the status bar and expire on their own, so the user can keep
// typing while they are shown.

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/ui/styles"
	"github.com/jeranaias/polychat/internal/util"
)

// ToastTickInterval is how often expired toasts are swept.
const ToastTickInterval = 500 * time.Millisecond

// MaxVisibleToasts caps how many toasts are drawn at once.
const MaxVisibleToasts = 3

// ToastTickMsg asks the root model to sweep expired toasts.
type ToastTickMsg time.Time

// ToastTick schedules the next sweep.
func ToastTick() tea.Cmd {
	return tea.Tick(ToastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg(t)
	})
}

// Toasts renders the active notifications of a center.
type Toasts struct {
	center *notify.Center
	theme  *styles.Theme
	width  int
	dir    model.Direction
	items  []notify.Notification
}

// NewToasts creates a renderer over center.
func NewToasts(center *notify.Center, theme *styles.Theme) *Toasts {
	return &Toasts{center: center, theme: theme, width: 80, dir: model.LTR}
}

// SetWidth updates the available width.
func (t *Toasts) SetWidth(width int) {
	t.width = width
}

// SetDirection sets which edge toasts are anchored to.
func (t *Toasts) SetDirection(dir model.Direction) {
	t.dir = dir
}

// Sweep drops expired notifications and snapshots the rest.
func (t *Toasts) Sweep() {
	t.items = t.center.Tick()
}

// Refresh snapshots the active notifications without expiring any.
func (t *Toasts) Refresh() {
	t.items = t.center.Active()
}

// Count returns the number of toasts that will be drawn.
func (t *Toasts) Count() int {
	if len(t.items) > MaxVisibleToasts {
		return MaxVisibleToasts
	}
	return len(t.items)
}

// Height returns the number of lines View will take.
func (t *Toasts) Height() int {
	v := t.View()
	if v == "" {
		return 0
	}
	return lipgloss.Height(v)
}

// DismissAll clears every notification.
func (t *Toasts) DismissAll() {
	t.center.Clear()
	t.items = nil
}

// View renders the toasts newest first, anchored to the trailing edge in
// left-to-right layouts and the leading edge in right-to-left ones.
func (t *Toasts) View() string {
	n := t.Count()
	if n == 0 {
		return ""
	}

	maxWidth := t.width / 2
	if maxWidth < 30 {
		maxWidth = t.width - 2
	}

	rendered := make([]string, 0, n)
	for _, item := range t.items[:n] {
		rendered = append(rendered, t.renderOne(item, maxWidth))
	}
	block := strings.Join(rendered, "\n")

	pos := lipgloss.Right
	if t.dir == model.RTL {
		pos = lipgloss.Left
	}
	return lipgloss.PlaceHorizontal(t.width, pos, block)
}

func (t *Toasts) renderOne(n notify.Notification, maxWidth int) string {
	style := t.theme.Toast
	indicator := styles.StatusIndicators.Info
	switch n.Kind {
	case notify.KindError:
		style = t.theme.ToastError
		indicator = styles.StatusIndicators.Error
	case notify.KindWarning:
		style = t.theme.ToastWarning
		indicator = styles.StatusIndicators.Warning
	case notify.KindSuccess:
		style = t.theme.ToastSuccess
		indicator = styles.StatusIndicators.Success
	}

	// Border and padding take four columns
	text := util.TruncateWidth(indicator+" "+n.Message, maxWidth-4)
	return style.Render(text)
}
