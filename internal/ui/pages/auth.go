// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/auth"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// =============================================================================
// LOGIN / SIGNUP FORM
// =============================================================================

// AuthMode selects between the login and the signup form.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeSignup
)

// Form fields in focus order.
const (
	fieldEmail = iota
	fieldPassword
	fieldLanguage // signup only
)

// AuthResultMsg reports the outcome of a login or signup.
type AuthResultMsg struct {
	Err error
}

// Auth is the login and signup form.
type Auth struct {
	size
	env    view.Env
	mode   AuthMode
	logger *zap.Logger

	email    textinput.Model
	password textinput.Model
	lang     model.Lang
	focus    int

	spinner    components.Spinner
	submitting bool
	// problem is the inline validation message
	problem string
}

// NewAuth creates the form for mode.
func NewAuth(env view.Env, mode AuthMode) *Auth {
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	return &Auth{
		env:      env,
		mode:     mode,
		logger:   env.Logger("ui.auth"),
		email:    email,
		password: password,
		lang:     env.App.Locale.Language(),
		spinner:  components.NewSpinner(env.Theme, env.T(locale.Loading)),
	}
}

// Init starts the cursor blinking.
func (p *Auth) Init() tea.Cmd {
	return textinput.Blink
}

// CapturesInput reports true: one of the fields always has focus.
func (p *Auth) CapturesInput() bool {
	return true
}

// Help returns the form shortcuts.
func (p *Auth) Help() string {
	return p.env.T(locale.LoginHelp)
}

func (p *Auth) fieldCount() int {
	if p.mode == ModeSignup {
		return 3
	}
	return 2
}

// Update handles form keys and the submit result.
func (p *Auth) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case AuthResultMsg:
		p.submitting = false
		p.spinner.Stop()
		if msg.Err != nil {
			p.password.Reset()
		}
		return p, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		return p, p.handleKey(msg)
	}

	return p, p.updateFocused(msg)
}

func (p *Auth) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return p.submit()
	case "tab", "down":
		p.setFocus((p.focus + 1) % p.fieldCount())
		return nil
	case "shift+tab", "up":
		p.setFocus((p.focus + p.fieldCount() - 1) % p.fieldCount())
		return nil
	case "esc":
		p.env.Navigate(router.LandingPath)
		return nil
	case "ctrl+s":
		if p.mode == ModeLogin {
			p.env.App.Nav.Replace(router.SignupPath)
		}
		return nil
	case "ctrl+l":
		if p.mode == ModeSignup {
			p.env.App.Nav.Replace(router.LoginPath)
		}
		return nil
	}

	if p.focus == fieldLanguage {
		switch msg.String() {
		case "left", "right", " ":
			if p.lang == model.LangArabic {
				p.lang = model.LangEnglish
			} else {
				p.lang = model.LangArabic
			}
		}
		return nil
	}

	p.problem = ""
	return p.updateFocused(msg)
}

func (p *Auth) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case fieldEmail:
		p.email, cmd = p.email.Update(msg)
	case fieldPassword:
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

func (p *Auth) setFocus(field int) {
	p.focus = field
	p.email.Blur()
	p.password.Blur()
	switch field {
	case fieldEmail:
		p.email.Focus()
	case fieldPassword:
		p.password.Focus()
	}
}

// submit validates the form and starts the request. Missing fields never
// reach the network.
func (p *Auth) submit() tea.Cmd {
	if p.submitting {
		return nil
	}
	email := strings.TrimSpace(p.email.Value())
	password := p.password.Value()
	if email == "" || password == "" {
		p.problem = p.env.T(locale.LoginRequired)
		return nil
	}
	p.problem = ""
	p.submitting = true

	env, mode, lang, logger := p.env, p.mode, p.lang, p.logger
	return tea.Batch(p.spinner.Start(), func() tea.Msg {
		err := authenticate(env, mode, email, password, lang)
		if err != nil {
			logger.Debug("authentication failed", zap.Error(err))
		}
		return AuthResultMsg{Err: err}
	})
}

// authenticate runs the request and, on success, greets the user and opens
// the chat. Navigation happens here rather than on AuthResultMsg: once the
// session exists the guards may already have replaced this page.
func authenticate(env view.Env, mode AuthMode, email, password string, lang model.Lang) error {
	session := env.App.Session

	var err error
	if mode == ModeSignup {
		err = session.Signup(env.Ctx, email, password, lang)
	} else {
		err = session.Login(env.Ctx, email, password)
	}
	if err != nil {
		failed := locale.LoginFailed
		if mode == ModeSignup {
			failed = locale.SignupFailed
		}
		env.App.Notify.Error(env.T(failed, reason(err)))
		return err
	}

	if mode == ModeSignup && lang != env.App.Locale.Language() {
		if err := env.App.Locale.SetLanguage(lang); err != nil {
			env.Logger("ui.auth").Warn("failed to apply signup language", zap.Error(err))
		}
	}

	name := model.DisplayNameFromEmail(email)
	if u, ok := session.User(); ok && u.Name != "" {
		name = u.Name
	}
	welcome := locale.LoginWelcome
	if mode == ModeSignup {
		welcome = locale.SignupWelcome
	}
	env.App.Notify.Success(env.T(welcome, name))
	env.Navigate(router.ChatPath(""))
	return nil
}

// reason is the user-facing part of an authentication error.
func reason(err error) string {
	var ae *auth.AuthError
	if errors.As(err, &ae) && ae.Err != nil {
		return ae.Err.Error()
	}
	return err.Error()
}

// View renders the form.
func (p *Auth) View() string {
	theme := p.env.Theme
	dir := p.env.Dir()
	width := p.contentWidth()
	if width > 50 {
		width = 50
	}

	title, submit, alt := locale.LoginTitle, locale.LoginSubmit, locale.LoginNoAccount
	if p.mode == ModeSignup {
		title, submit, alt = locale.SignupTitle, locale.SignupSubmit, locale.SignupHaveAccount
	}

	rows := []string{
		theme.Title.Render(p.env.T(title)),
		"",
		p.label(fieldEmail, locale.LoginEmail),
		p.email.View(),
		"",
		p.label(fieldPassword, locale.LoginPassword),
		p.password.View(),
	}
	if p.mode == ModeSignup {
		rows = append(rows, "", p.label(fieldLanguage, locale.SignupLanguage), p.renderLanguages())
	}
	rows = append(rows, "")
	if p.problem != "" {
		rows = append(rows, theme.ErrorStyle.Render(p.problem))
	}
	if p.submitting {
		rows = append(rows, p.spinner.View())
	} else {
		rows = append(rows, theme.ButtonActive.Render(p.env.T(submit)))
	}
	rows = append(rows, "", theme.Muted.Render(p.env.T(alt)))

	form := theme.Card.Width(width).Render(strings.Join(rows, "\n"))
	return p.place(components.Align(dir, width+2, form))
}

func (p *Auth) label(field int, key string) string {
	if p.focus == field {
		return p.env.Theme.FieldFocused.Render(p.env.T(key))
	}
	return p.env.Theme.FieldLabel.Render(p.env.T(key))
}

// renderLanguages shows the two choices with the selected one highlighted.
func (p *Auth) renderLanguages() string {
	theme := p.env.Theme
	var opts []string
	for _, l := range []model.Lang{model.LangEnglish, model.LangArabic} {
		style := theme.Button
		if l == p.lang {
			style = theme.ButtonActive
		}
		opts = append(opts, style.Render(langLabel(p.env, l)))
	}
	return components.Row(p.env.Dir(), " ", opts...)
}
