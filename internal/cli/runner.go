// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runner.go - the execution environment shared by session-aware commands.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/app"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
)

// Runner executes commands against a wired application. Output goes to Out,
// prompts and diagnostics to Err.
type Runner struct {
	App  *app.App
	Args Args

	Out io.Writer
	Err io.Writer
	In  io.Reader

	// ReadPassword reads a secret without echo. It defaults to the terminal
	// when stdin is one and to a plain line read otherwise.
	ReadPassword func() (string, error)

	// Markdown renders assistant replies through glamour.
	Markdown bool

	inOnce sync.Once
	in     *bufio.Reader
	md     *glamour.TermRenderer
}

// NewRunner builds a Runner on the process's standard streams.
func NewRunner(a *app.App, args Args) *Runner {
	r := &Runner{
		App:      a,
		Args:     args,
		Out:      os.Stdout,
		Err:      os.Stderr,
		In:       os.Stdin,
		Markdown: a.Config.UI.Markdown && !args.JSON && IsStdoutTTY(),
	}
	if IsTTY() {
		r.ReadPassword = readPasswordTTY
	}
	return r
}

// Run executes cmd. Commands that do not need an application are handled
// by the caller before a Runner exists.
func (r *Runner) Run(ctx context.Context, cmd Command) error {
	r.App.Logger.Debug("running command", zap.Stringer("command", cmd), zap.Strings("args", r.Args.Raw))

	switch cmd {
	case CmdLogin:
		return r.Login(ctx)
	case CmdSignup:
		return r.Signup(ctx)
	case CmdLogout:
		return r.Logout(ctx)
	case CmdStatus:
		return r.Status(ctx)
	case CmdChats:
		return r.Chats(ctx)
	case CmdChat:
		return r.Chat(ctx)
	case CmdProfile:
		return r.Profile(ctx)
	case CmdLang:
		return r.Lang()
	default:
		return &UsageError{Usage: "polychat help"}
	}
}

// =============================================================================
// SESSION HELPERS
// =============================================================================

// hydrate restores the persisted session and waits for the profile refresh.
func (r *Runner) hydrate(ctx context.Context) error {
	r.App.Session.Hydrate(ctx)
	select {
	case <-r.App.Session.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enter runs the route guard for path the same way the full-screen
// interface does, so both front ends agree on what needs a session.
func (r *Runner) enter(ctx context.Context, path string) error {
	if err := r.hydrate(ctx); err != nil {
		return err
	}
	_, d := r.App.Decide(path)
	if d.Kind == router.Redirect && d.To == router.LoginPath {
		return ErrNotLoggedIn
	}
	r.App.Nav.Navigate(path)
	return nil
}

// =============================================================================
// LANGUAGE AND MODEL
// =============================================================================

// lang is the language for this run: --lang when given, the stored choice otherwise.
func (r *Runner) lang() model.Lang {
	if l, ok := locale.Parse(r.Args.Lang); ok {
		return l
	}
	return r.App.Locale.Language()
}

// t translates key in the language for this run.
func (r *Runner) t(key string, args ...any) string {
	return r.App.Locale.TIn(r.lang(), key, args...)
}

// selectedModel returns --model when valid, else the configured default.
func (r *Runner) selectedModel() (model.AIModel, error) {
	if r.Args.Model == "" {
		return r.App.DefaultModel(), nil
	}
	m, ok := model.ParseModel(r.Args.Model)
	if !ok {
		return "", NewValidationErrorWithExample("model", r.Args.Model,
			"must be gemini, groq or mistral", "--model groq")
	}
	return m, nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Runner) println(a ...any) {
	fmt.Fprintln(r.Out, a...)
}

// info prints a status line unless --quiet or --json is set.
func (r *Runner) info(format string, args ...any) {
	if r.Args.Quiet || r.Args.JSON {
		return
	}
	fmt.Fprintf(r.Out, format+"\n", args...)
}

// json writes data in the --json envelope for cmd.
func (r *Runner) json(cmd Command, data any) error {
	return NewJSONResponse(cmd.String(), data).Print(r.Out)
}

// field prints one "label  value" row.
func (r *Runner) field(label string, value any) {
	r.printf("  %s %v\n", RenderLabel(label), ValueStyle.Render(fmt.Sprint(value)))
}

// renderReply renders assistant content as markdown when enabled.
func (r *Runner) renderReply(content string) string {
	if !r.Markdown {
		return content
	}
	if r.md == nil {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err != nil {
			r.Markdown = false
			return content
		}
		r.md = md
	}
	out, err := r.md.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

func (r *Runner) reader() *bufio.Reader {
	r.inOnce.Do(func() {
		r.in = bufio.NewReader(r.In)
	})
	return r.in
}

// readLine reads one trimmed line. io.EOF is returned only when nothing was read.
func (r *Runner) readLine() (string, error) {
	line, err := r.reader().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompt asks for a value on Err and reads the answer from In.
func (r *Runner) prompt(label string) (string, error) {
	fmt.Fprintf(r.Err, "%s: ", label)
	return r.readLine()
}

// promptSecret asks for a value without echo when a terminal is attached.
func (r *Runner) promptSecret(label string) (string, error) {
	fmt.Fprintf(r.Err, "%s: ", label)
	if r.ReadPassword == nil {
		return r.readLine()
	}
	secret, err := r.ReadPassword()
	fmt.Fprintln(r.Err)
	return secret, err
}

// confirm asks a yes/no question. Anything but an explicit yes is no.
func (r *Runner) confirm(question string) bool {
	answer, err := r.prompt(question + " [y/N]")
	if err != nil {
		return false
	}
	ok, err := ParseBoolString(answer)
	return err == nil && ok
}
