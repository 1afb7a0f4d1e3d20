// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// Loading holds the screen while the session is restored.
type Loading struct {
	size
	env     view.Env
	spinner components.Spinner
}

// NewLoading creates the loading page.
func NewLoading(env view.Env) *Loading {
	return &Loading{env: env, spinner: components.NewSpinner(env.Theme, env.T(locale.Loading))}
}

// Init starts the spinner.
func (p *Loading) Init() tea.Cmd {
	return p.spinner.Start()
}

// Help is empty: there is nothing to do yet.
func (p *Loading) Help() string { return "" }

// Update animates the spinner.
func (p *Loading) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(tick)
		return p, cmd
	}
	return p, nil
}

// View renders the spinner in the middle of the page.
func (p *Loading) View() string {
	return p.place(p.spinner.View())
}
