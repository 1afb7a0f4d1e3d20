// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// =============================================================================
// LANDING PAGE
// =============================================================================

// Landing introduces the product and the three models.
type Landing struct {
	size
	env view.Env
}

// NewLanding creates the landing page.
func NewLanding(env view.Env) *Landing {
	return &Landing{env: env}
}

// Init does nothing.
func (p *Landing) Init() tea.Cmd { return nil }

// Help returns the landing shortcuts.
func (p *Landing) Help() string {
	return p.env.T(locale.LandingHint)
}

// Update handles the landing shortcuts.
func (p *Landing) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch km.String() {
	case "enter":
		if p.env.App.Session.IsAuthenticated() {
			p.env.Navigate(router.ChatPath(""))
		} else {
			p.env.Navigate(router.LoginPath)
		}
	case "l":
		p.env.Navigate(router.LoginPath)
	case "s":
		p.env.Navigate(router.SignupPath)
	}
	return p, nil
}

// View renders the hero text, the model cards and the actions.
func (p *Landing) View() string {
	theme := p.env.Theme
	width := p.contentWidth()
	dir := p.env.Dir()

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.env.T(locale.LandingTitle)))
	sb.WriteString("\n")
	sb.WriteString(theme.Subtitle.Width(width).Align(lipgloss.Center).Render(p.env.T(locale.LandingSubtitle)))
	sb.WriteString("\n\n")

	sb.WriteString(theme.Label.Render(p.env.T(locale.LandingModels)))
	sb.WriteString("\n")
	for _, info := range model.Models {
		line := components.Row(dir, "  ",
			theme.ModelBadge(info.ID),
			theme.Muted.Render(info.Provider),
			info.Description,
		)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	var actions []string
	if p.env.App.Session.IsAuthenticated() {
		actions = append(actions, theme.ButtonActive.Render(p.env.T(locale.LandingStart)))
	} else {
		actions = append(actions,
			theme.ButtonActive.Render(p.env.T(locale.LandingLogin)),
			theme.Button.Render(p.env.T(locale.LandingSignup)),
		)
	}
	sb.WriteString(components.Row(dir, "  ", actions...))
	sb.WriteString("\n\n")
	sb.WriteString(theme.Muted.Render(p.env.T(locale.AppTagline)))

	block := lipgloss.NewStyle().Align(lipgloss.Center).Render(sb.String())
	return p.place(block)
}
