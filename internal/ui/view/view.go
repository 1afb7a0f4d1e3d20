// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package view defines the contract between the root TUI model and the
// per-route pages.
package view

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/app"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/styles"
)

// Page is one routed screen.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	SetSize(width, height int)
	// Help is the shortcut line shown in the status bar.
	Help() string
}

// Retargeter is implemented by pages that follow a change of route
// parameters in place instead of being rebuilt.
type Retargeter interface {
	Retarget(m router.Match) tea.Cmd
}

// InputCapturer is implemented by pages that type text. While CapturesInput
// is true the root leaves single-letter shortcuts to the page.
type InputCapturer interface {
	CapturesInput() bool
}

// Env is what every page needs from the application.
type Env struct {
	App   *app.App
	Theme *styles.Theme
	// Ctx is passed to controller calls. Views never cancel it.
	Ctx context.Context
}

// T translates key in the active language.
func (e Env) T(key string, args ...any) string {
	return e.App.Locale.T(key, args...)
}

// Dir returns the active text direction.
func (e Env) Dir() model.Direction {
	return e.App.Locale.Direction()
}

// Navigate pushes path onto the navigator.
func (e Env) Navigate(path string) {
	e.App.Nav.Navigate(path)
}

// Logger returns the named app logger.
func (e Env) Logger(name string) *zap.Logger {
	return e.App.Logger.Named(name)
}

// =============================================================================
// GENERATION SCOPING
// =============================================================================

// Scoped carries a message produced by a command of page generation Gen.
// The root drops it when that page is no longer shown.
type Scoped struct {
	Gen int
	Msg tea.Msg
}

// Scope tags every message cmd produces with gen. Batches are scoped
// recursively; quitting is never scoped.
func Scope(gen int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		switch msg := cmd().(type) {
		case nil:
			return nil
		case tea.QuitMsg:
			return msg
		case tea.BatchMsg:
			scoped := make(tea.BatchMsg, 0, len(msg))
			for _, c := range msg {
				if c != nil {
					scoped = append(scoped, Scope(gen, c))
				}
			}
			return scoped
		default:
			return Scoped{Gen: gen, Msg: msg}
		}
	}
}
