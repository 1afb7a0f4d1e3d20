// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, signup, logout and status.
//
// Examples:
//
//	polychat login --email ada@example.com
//	polychat signup --email ada@example.com --lang ar
//	polychat status --json
//	polychat logout

package cli

import (
	"context"
	"strings"
	"time"

	"github.com/jeranaias/polychat/internal/locale"
)

// credentials collects email and password from flags, the first positional
// argument, or prompts.
func (r *Runner) credentials(usage string) (email, password string, err error) {
	p := NewArgParser(r.Args.Raw)

	email = strings.TrimSpace(p.FlagOrDefault("email", p.Positional(0)))
	if email == "" {
		if email, err = r.prompt(r.t(locale.LoginEmail)); err != nil {
			return "", "", &UsageError{Usage: usage}
		}
	}

	password = p.Flag("password")
	if password == "" {
		if password, err = r.promptSecret(r.t(locale.LoginPassword)); err != nil {
			return "", "", &UsageError{Usage: usage}
		}
	}

	if email == "" || password == "" {
		return "", "", &UsageError{Usage: usage}
	}
	return email, password, nil
}

// Login signs in and persists the session.
func (r *Runner) Login(ctx context.Context) error {
	email, password, err := r.credentials("polychat login [--email <address>] [--password <secret>]")
	if err != nil {
		return err
	}
	if err := r.App.Session.Login(ctx, email, password); err != nil {
		return err
	}
	return r.reportSession(CmdLogin, locale.LoginWelcome)
}

// Signup creates an account in the language for this run and signs in.
func (r *Runner) Signup(ctx context.Context) error {
	email, password, err := r.credentials("polychat signup [--email <address>] [--password <secret>] [--lang en|ar]")
	if err != nil {
		return err
	}
	if err := r.App.Session.Signup(ctx, email, password, r.lang()); err != nil {
		return err
	}
	return r.reportSession(CmdSignup, locale.SignupWelcome)
}

func (r *Runner) reportSession(cmd Command, welcomeKey string) error {
	if r.Args.JSON {
		return r.json(cmd, r.sessionData())
	}
	user, _ := r.App.Session.User()
	r.info("%s", SuccessStyle.Render(r.t(welcomeKey, user.Name)))
	return nil
}

// Logout ends the session. The backend call is best effort; local state is
// cleared regardless.
func (r *Runner) Logout(ctx context.Context) error {
	if err := r.hydrate(ctx); err != nil {
		return err
	}
	r.App.Session.Logout(ctx)

	if r.Args.JSON {
		return r.json(CmdLogout, MessageData{Message: r.t(locale.LoggedOut)})
	}
	r.info("%s", r.t(locale.LoggedOut))
	return nil
}

// Status shows the current session without requiring one.
func (r *Runner) Status(ctx context.Context) error {
	if err := r.hydrate(ctx); err != nil {
		return err
	}
	data := r.sessionData()
	if r.Args.JSON {
		return r.json(CmdStatus, data)
	}

	r.println(TitleStyle.Render("polychat"))
	r.field("API", data.APIURL)
	r.field("Language", r.t(locale.LangName)+" ("+data.Direction+")")
	if !data.LoggedIn {
		r.field("Session", DimStyle.Render("not logged in"))
		return nil
	}
	r.field("Session", SuccessStyle.Render("logged in"))
	if data.User != nil {
		r.field("Name", data.User.Name)
		r.field(r.t(locale.LoginEmail), data.User.Email)
		if !data.User.MemberSince.IsZero() {
			r.field(r.t(locale.ProfileMemberSince), data.User.MemberSince.Format("2006-01-02"))
		}
	}
	if data.TokenExpires != nil {
		left := time.Until(*data.TokenExpires).Round(time.Minute)
		if left <= 0 {
			r.field("Token", WarningStyle.Render("expired"))
		} else {
			r.field("Token", "expires in "+left.String())
		}
	}
	return nil
}

func (r *Runner) sessionData() SessionData {
	l := r.lang()
	data := SessionData{
		LoggedIn:  r.App.Session.IsAuthenticated(),
		APIURL:    r.App.Client.BaseURL(),
		Language:  l,
		Direction: string(l.Direction()),
	}
	if user, ok := r.App.Session.User(); ok && data.LoggedIn {
		u := user.Clone()
		data.User = &u
	}
	if exp, ok := r.App.Session.TokenExpiry(); ok && data.LoggedIn {
		data.TokenExpires = &exp
	}
	return data
}
