// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/app"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/chat"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/pages"
	"github.com/jeranaias/polychat/internal/ui/styles"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// routeLoading names the placeholder shown while a guard waits on the
// session. It is not a route of the table.
const routeLoading = "loading"

// maxRedirects bounds guard redirects resolved in one pass.
const maxRedirects = 8

// hydratedMsg reports that the stored session finished loading.
type hydratedMsg struct{}

// wakeMsg reports a change made outside the event loop: navigation from a
// command, a notification, or another process writing the state file.
type wakeMsg struct{}

// watchStoppedMsg reports that the state file watcher exited.
type watchStoppedMsg struct {
	err error
}

// Option configures New.
type Option func(*Model)

// WithContext sets the context passed to controllers and watchers.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithTheme replaces the default theme.
func WithTheme(theme *styles.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// Model is the root bubbletea model. It owns the chrome (header, toasts,
// status bar) and one page, chosen by running the current location through
// the route guards after every update.
type Model struct {
	app    *app.App
	ctx    context.Context
	theme  *styles.Theme
	logger *zap.Logger

	width  int
	height int

	header *components.Header
	toasts *components.Toasts
	status *components.StatusBar

	page  view.Page
	route string // route name the page was built for
	path  string // location the page shows
	// gen increases with every page build. Results carrying an older
	// generation belong to a page that is gone.
	gen int

	wake     chan struct{}
	quitting bool
}

// New creates the root model over a.
func New(a *app.App, opts ...Option) *Model {
	m := &Model{
		app:    a,
		ctx:    context.Background(),
		theme:  styles.NewTheme(),
		logger: a.Logger.Named("ui"),
		width:  80,
		height: 24,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.header = components.NewHeader(m.theme)
	m.toasts = components.NewToasts(a.Notify, m.theme)
	m.status = components.NewStatusBar(m.theme)

	a.Nav.OnChange(func(string) { m.signal() })
	a.Notify.Subscribe(func(notify.Notification) { m.signal() })
	return m
}

// Env returns the environment handed to pages.
func (m *Model) Env() view.Env {
	return view.Env{App: m.app, Theme: m.theme, Ctx: m.ctx}
}

// Page returns the page on screen.
func (m *Model) Page() view.Page {
	return m.page
}

// Route returns the name of the route on screen, or "loading".
func (m *Model) Route() string {
	return m.route
}

// signal wakes the event loop. It never blocks, so it is safe from any
// goroutine.
func (m *Model) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init loads the session, starts the toast sweep and the watchers, and
// builds the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.hydrate(),
		components.ToastTick(),
		m.watchState(),
		m.waitWake(),
		m.reconcile(),
	)
}

func (m *Model) hydrate() tea.Cmd {
	session, ctx := m.app.Session, m.ctx
	return func() tea.Msg {
		session.Hydrate(ctx)
		<-session.Done()
		return hydratedMsg{}
	}
}

func (m *Model) watchState() tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		return watchStoppedMsg{err: a.WatchState(ctx, m.signal)}
	}
}

func (m *Model) waitWake() tea.Cmd {
	wake, ctx := m.wake, m.ctx
	return func() tea.Msg {
		select {
		case <-wake:
			return wakeMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update routes messages to the chrome or the page, then reconciles the
// page with the current location.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.layout()

	case tea.KeyMsg:
		cmd, handled := m.handleKeyPress(msg)
		if !handled {
			cmd = m.forward(msg)
		}
		cmds = append(cmds, cmd)

	case view.Scoped:
		if msg.Gen != m.gen {
			m.logger.Debug("dropping stale result", zap.Int("gen", msg.Gen), zap.Int("current", m.gen))
			break
		}
		cmds = append(cmds, m.forward(msg.Msg))

	case hydratedMsg:
		m.logger.Debug("session loaded", zap.Bool("authenticated", m.app.Session.IsAuthenticated()))

	case wakeMsg:
		cmds = append(cmds, m.waitWake())

	case watchStoppedMsg:
		if msg.err != nil {
			m.logger.Warn("state watcher stopped", zap.Error(msg.err))
		}

	case components.ToastTickMsg:
		m.toasts.Sweep()
		cmds = append(cmds, components.ToastTick())

	default:
		cmds = append(cmds, m.forward(msg))
	}

	if m.quitting {
		return m, tea.Quit
	}

	cmds = append(cmds, m.reconcile())
	m.refreshChrome()
	return m, tea.Batch(cmds...)
}

// forward hands msg to the page and scopes whatever it starts.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.page == nil {
		return nil
	}
	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return view.Scope(m.gen, cmd)
}

// handleKeyPress handles global shortcuts. Letter shortcuts yield to pages
// that are taking text.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return nil, true
	case "ctrl+g":
		m.toggleLanguage()
		return nil, true
	}

	if c, ok := m.page.(view.InputCapturer); ok && c.CapturesInput() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return nil, true
	case "g":
		m.toggleLanguage()
		return nil, true
	}

	if !m.app.Session.IsAuthenticated() {
		return nil, false
	}
	switch msg.String() {
	case "ctrl+n":
		m.app.Nav.Navigate(router.ChatPath(""))
		return nil, true
	case "ctrl+h":
		m.app.Nav.Navigate(router.HistoryPath)
		return nil, true
	case "ctrl+p":
		m.app.Nav.Navigate(router.ProfilePath)
		return nil, true
	}
	return nil, false
}

func (m *Model) toggleLanguage() {
	lang, err := m.app.Locale.Toggle()
	if err != nil {
		m.logger.Warn("failed to persist language", zap.Error(err))
		return
	}
	m.logger.Debug("language changed", zap.String("lang", string(lang)))
	m.layout()
}

// =============================================================================
// ROUTING
// =============================================================================

// reconcile makes the page match the current location. Redirects replace
// the location, so Back never returns to a guarded path.
func (m *Model) reconcile() tea.Cmd {
	for i := 0; i < maxRedirects; i++ {
		path := m.app.Nav.Current()
		match, decision := m.app.Decide(path)

		switch decision.Kind {
		case router.Redirect:
			m.logger.Debug("guard redirect", zap.String("from", path), zap.String("to", decision.To))
			m.app.Nav.Replace(decision.To)
			continue

		case router.Loading:
			if m.route == routeLoading {
				return nil
			}
			return m.show(routeLoading, path, pages.NewLoading(m.Env()))
		}

		if m.page != nil && m.route == match.Route.Name {
			if path == m.path {
				return nil
			}
			if r, ok := m.page.(view.Retargeter); ok {
				m.path = path
				return view.Scope(m.gen, r.Retarget(match))
			}
		}
		return m.show(match.Route.Name, path, m.build(match))
	}

	m.logger.Error("redirect loop", zap.String("path", m.app.Nav.Current()))
	return nil
}

// show swaps in page and starts it under a new generation.
func (m *Model) show(route, path string, page view.Page) tea.Cmd {
	m.gen++
	m.page = page
	m.route = route
	m.path = path
	m.logger.Debug("page", zap.String("route", route), zap.String("path", path), zap.Int("gen", m.gen))
	m.layout()
	return view.Scope(m.gen, page.Init())
}

// build creates the page for a resolved route.
func (m *Model) build(match router.Match) view.Page {
	env := m.Env()
	switch match.Route.Name {
	case router.RouteIndex, router.RouteLanding:
		return pages.NewLanding(env)
	case router.RouteLogin:
		return pages.NewAuth(env, pages.ModeLogin)
	case router.RouteSignup:
		return pages.NewAuth(env, pages.ModeSignup)
	case router.RouteChat:
		return chat.New(env, match)
	case router.RouteHistory:
		return pages.NewHistory(env)
	case router.RouteProfile:
		return pages.NewProfile(env)
	default:
		return pages.NewNotFound(env, match.Path)
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// refreshChrome syncs the header, toasts and status bar with the session,
// language and page.
func (m *Model) refreshChrome() {
	t := m.app.Locale.T
	dir := m.app.Locale.Direction()

	m.header.Dir = dir
	m.header.Active = m.route
	m.header.Language = t(locale.LangName)
	m.header.Authenticated = m.app.Session.IsAuthenticated()
	m.header.UserName = ""
	if u, ok := m.app.Session.User(); ok {
		m.header.UserName = u.Name
		if u.Name == "" {
			m.header.UserName = u.Email
		}
	}
	m.header.Items = []components.NavItem{
		{Route: router.RouteChat, Label: t(locale.NavChat), Key: "^n"},
		{Route: router.RouteHistory, Label: t(locale.NavHistory), Key: "^h"},
		{Route: router.RouteProfile, Label: t(locale.NavProfile), Key: "^p"},
	}

	before := m.toasts.Height()
	m.toasts.SetDirection(dir)
	m.toasts.Refresh()
	if m.toasts.Height() != before {
		m.layoutPage()
	}

	m.status.Dir = dir
	m.status.Help = ""
	if m.page != nil {
		m.status.Help = m.page.Help()
	}
	m.status.Right = m.app.Config.API.URL
}

// layout resizes the chrome and the page.
func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.toasts.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.layoutPage()
}

func (m *Model) layoutPage() {
	if m.page != nil {
		m.page.SetSize(m.width, m.pageHeight())
	}
}

// pageHeight is what is left after the header, toasts and status bar.
func (m *Model) pageHeight() int {
	h := m.height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.status.View()) - m.toasts.Height()
	if h < 1 {
		h = 1
	}
	return h
}

// View stacks the header, the page, the toasts and the status bar.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	body := ""
	if m.page != nil {
		body = m.page.View()
	}
	h := m.pageHeight()
	body = lipgloss.NewStyle().MaxWidth(m.width).Height(h).MaxHeight(h).Render(body)

	parts := []string{m.header.View(), body}
	if toasts := m.toasts.View(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.status.View())
	return strings.Join(parts, "\n")
}
