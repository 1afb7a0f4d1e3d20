// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/profile"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
	"github.com/jeranaias/polychat/internal/util"
)

// ProfileLoadedMsg reports that the profile fetch finished.
type ProfileLoadedMsg struct {
	Err error
}

// LoggedOutMsg reports that logout finished.
type LoggedOutMsg struct{}

// Profile shows the account card, usage stats and the AI summary.
type Profile struct {
	size
	env     view.Env
	ctl     *profile.Controller
	spinner components.Spinner
}

// NewProfile creates the profile page.
func NewProfile(env view.Env) *Profile {
	return &Profile{
		env:     env,
		ctl:     env.App.NewProfile(),
		spinner: components.NewSpinner(env.Theme, env.T(locale.Loading)),
	}
}

// Controller exposes the page's profile controller.
func (p *Profile) Controller() *profile.Controller {
	return p.ctl
}

// Init fetches the profile.
func (p *Profile) Init() tea.Cmd {
	return p.load()
}

func (p *Profile) load() tea.Cmd {
	ctl, ctx := p.ctl, p.env.Ctx
	return tea.Batch(p.spinner.Start(), func() tea.Msg {
		return ProfileLoadedMsg{Err: ctl.Load(ctx)}
	})
}

// Help returns the profile shortcuts.
func (p *Profile) Help() string {
	return p.env.T(locale.ProfileHelp)
}

// Update handles refresh, logout and back.
func (p *Profile) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case ProfileLoadedMsg:
		p.spinner.Stop()
		return p, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return p, p.load()
		case "o":
			return p, p.logout()
		case "esc":
			goBack(p.env, router.ChatPath(""))
		}
	}
	return p, nil
}

// logout ends the session, then shows the login view.
func (p *Profile) logout() tea.Cmd {
	env := p.env
	return func() tea.Msg {
		env.App.Session.Logout(env.Ctx)
		env.App.Nav.Replace(router.LoginPath)
		env.App.Notify.Info(env.T(locale.LoggedOut))
		return LoggedOutMsg{}
	}
}

// View renders the profile card.
func (p *Profile) View() string {
	theme := p.env.Theme
	dir := p.env.Dir()
	width := p.contentWidth()
	v := p.ctl.View()

	labels := []string{
		p.env.T(locale.ProfileMemberSince),
		p.env.T(locale.ProfileTotalChats),
		p.env.T(locale.ProfileMessages),
		p.env.T(locale.ProfileFavoriteModel),
	}
	labelWidth := 0
	for _, l := range labels {
		if w := util.StringWidth(l); w > labelWidth {
			labelWidth = w
		}
	}
	field := func(label, value string) string {
		return components.Row(dir, "  ", theme.Label.Render(util.PadWidth(label, labelWidth)), value)
	}

	since := "-"
	if !v.MemberSince.IsZero() {
		since = v.MemberSince.Local().Format("2006-01-02")
	}

	rows := []string{
		theme.Title.Render(v.Name),
		theme.Muted.Render(v.Email),
		"",
		field(labels[0], theme.Value.Render(since)),
		field(labels[1], theme.Value.Render(strconv.Itoa(v.Stats.TotalChats))),
		field(labels[2], theme.Value.Render(strconv.Itoa(v.Stats.MessagesExchanged))),
		field(labels[3], p.favorite(v.Stats.FavoriteModel)),
		"",
		theme.Label.Render(p.env.T(locale.ProfileSummary)),
		util.WrapWidth(v.Summary, width-4),
	}
	if p.spinner.IsActive() {
		rows = append(rows, "", p.spinner.View())
	}
	rows = append(rows, "", theme.Button.Render(p.env.T(locale.ProfileLogout)+" (o)"))

	card := theme.Card.Width(width).Render(components.Align(dir, width-4, strings.Join(rows, "\n")))
	header := components.Align(dir, width+2, theme.Title.Render(p.env.T(locale.ProfileTitle)))
	return p.place(header + "\n" + card)
}

// favorite renders a known model as its badge and anything else as text.
func (p *Profile) favorite(name string) string {
	if m, ok := model.ParseModel(name); ok {
		return p.env.Theme.ModelBadge(m)
	}
	return p.env.Theme.Value.Render(name)
}
