// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// NotFound is shown for every location without a route.
type NotFound struct {
	size
	env  view.Env
	path string
}

// NewNotFound creates the page for the unknown location path.
func NewNotFound(env view.Env, path string) *NotFound {
	return &NotFound{env: env, path: path}
}

// Init does nothing.
func (p *NotFound) Init() tea.Cmd { return nil }

// Help returns the way home.
func (p *NotFound) Help() string {
	return p.env.T(locale.NotFoundHome)
}

// Update goes home on enter.
func (p *NotFound) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "enter" {
		p.env.App.Nav.Replace("/")
	}
	return p, nil
}

// View renders the not-found notice.
func (p *NotFound) View() string {
	theme := p.env.Theme
	block := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(p.env.T(locale.NotFoundTitle)),
		"",
		theme.Subtitle.Render(p.env.T(locale.NotFoundMessage)),
		theme.Muted.Render(p.path),
		"",
		theme.Muted.Render(p.env.T(locale.NotFoundHome)),
	)
	return p.place(block)
}
