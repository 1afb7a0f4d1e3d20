// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/api"
	chatctl "github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the chat page. It renders the conversation held by a
// chat.Controller and turns key presses into controller calls.
type Model struct {
	env    view.Env
	ctl    *chatctl.Controller
	logger *zap.Logger

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	markdown *components.Markdown

	keyMap KeyMap

	// Dimensions
	width  int
	height int

	// pending is the chat id to mount on Init
	pending string
	// sending is set from submit until its SentMsg arrives
	sending bool
	// transcript is the last content handed to the viewport
	transcript string
}

// New creates the chat page for a resolved /chat or /chat/:chatId route.
func New(env view.Env, match router.Match) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = env.Theme.InputPrompt
	ti.Placeholder = env.T(locale.ChatPlaceholder)
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 10)
	// Arrow keys belong to the input; scrolling is bound explicitly.
	vp.KeyMap = viewport.KeyMap{}

	plain := false
	if env.App.Config != nil {
		plain = !env.App.Config.UI.Markdown
	}

	m := &Model{
		env:      env,
		ctl:      env.App.NewChat(),
		logger:   env.Logger("ui.chat"),
		viewport: vp,
		input:    ti,
		spinner:  components.NewThinkingSpinner(env.Theme, env.T(locale.ChatThinking)),
		markdown: components.NewMarkdown(plain),
		keyMap:   DefaultKeyMap(),
		width:    80,
		height:   24,
		pending:  match.Param("chatId"),
	}
	return m
}

// Controller exposes the page's chat controller.
func (m *Model) Controller() *chatctl.Controller {
	return m.ctl
}

// Init mounts the conversation named by the route.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.mount(m.pending))
}

// Retarget follows a change of chat id without rebuilding the page.
func (m *Model) Retarget(match router.Match) tea.Cmd {
	id := match.Param("chatId")
	if id == m.ctl.ChatID() {
		return nil
	}
	return m.mount(id)
}

// CapturesInput reports true: the message field always has focus.
func (m *Model) CapturesInput() bool {
	return true
}

// Help returns the shortcut line for the status bar.
func (m *Model) Help() string {
	return m.env.T(locale.ChatHelp)
}

// SetSize lays the page out in width x height cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 4
	if m.input.Width < 10 {
		m.input.Width = 10
	}

	vpHeight := height - titleHeight - statusLineHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.markdown.SetWidth(m.bubbleWidth() - 4)
	m.refresh()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles controller results and key presses.
func (m *Model) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case MountedMsg:
		m.handleMounted(msg)

	case SentMsg:
		m.handleSent(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.CycleModel):
		m.ctl.CycleModel()
		return nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.input.Reset()
		m.spinner.Stop()
		m.ctl.NewChat()
		return nil

	case key.Matches(msg, m.keyMap.Reload):
		return m.reload()

	case key.Matches(msg, m.keyMap.History):
		m.env.Navigate(router.HistoryPath)
		return nil

	case key.Matches(msg, m.keyMap.Profile):
		m.env.Navigate(router.ProfilePath)
		return nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return nil

	case key.Matches(msg, m.keyMap.ClearInput):
		m.input.Reset()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submit hands the input field to the controller and sends its buffer.
// Blank input and a send already in flight are ignored.
func (m *Model) submit() tea.Cmd {
	if m.sending || m.ctl.Busy() {
		return nil
	}
	content := strings.TrimSpace(m.input.Value())
	m.ctl.SetInput(content)
	if !m.ctl.CanSubmit() {
		return nil
	}
	m.sending = true
	m.input.Reset()
	m.viewport.GotoBottom()

	ctl, ctx := m.ctl, m.env.Ctx
	m.spinner.SetMessage(m.env.T(locale.ChatThinking))
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		reply, err := ctl.Submit(ctx)
		return SentMsg{Content: content, Reply: reply, Err: err}
	})
}

// reload fetches the open conversation again.
func (m *Model) reload() tea.Cmd {
	id := m.ctl.ChatID()
	if id == "" || m.ctl.Busy() {
		return nil
	}
	ctl, ctx := m.ctl, m.env.Ctx
	m.spinner.SetMessage(m.env.T(locale.Loading))
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		return MountedMsg{ChatID: id, Err: ctl.Reload(ctx)}
	})
}

// mount loads chatID. The empty conversation is mounted synchronously.
func (m *Model) mount(chatID string) tea.Cmd {
	if chatID == "" {
		_ = m.ctl.Mount(m.env.Ctx, "")
		return nil
	}

	ctl, ctx := m.ctl, m.env.Ctx
	m.spinner.SetMessage(m.env.T(locale.Loading))
	return tea.Batch(m.spinner.Start(), func() tea.Msg {
		return MountedMsg{ChatID: chatID, Err: ctl.Mount(ctx, chatID)}
	})
}

func (m *Model) handleMounted(msg MountedMsg) {
	if !m.ctl.Busy() {
		m.spinner.Stop()
	}
	m.viewport.GotoBottom()
	if msg.Err == nil {
		return
	}

	switch {
	case errors.Is(msg.Err, api.ErrUnauthorized):
		// The session is already gone and the login view is on its way
	case errors.Is(msg.Err, chatctl.ErrInvalidChatID), api.IsNotFound(msg.Err):
		m.env.App.Notify.Error(m.env.T(locale.ChatNotFound))
		m.env.App.Nav.Replace(router.ChatPath(""))
	default:
		m.env.App.Notify.Error(m.env.T(locale.ChatLoadFailed))
	}
}

func (m *Model) handleSent(msg SentMsg) {
	m.sending = false
	if !m.ctl.Loading() {
		m.spinner.Stop()
	}
	if msg.Err == nil {
		m.viewport.GotoBottom()
		return
	}
	if errors.Is(msg.Err, chatctl.ErrSendInFlight) || errors.Is(msg.Err, chatctl.ErrEmptyContent) {
		return
	}
	m.logger.Debug("send failed", zap.Error(msg.Err))
	// Give the unsent text back unless the user already typed something new
	if m.input.Value() == "" {
		m.input.SetValue(msg.Content)
		m.input.CursorEnd()
		m.ctl.SetInput(msg.Content)
	}
}

// refresh re-renders the transcript into the viewport, following the
// bottom when the user had not scrolled away from it.
func (m *Model) refresh() {
	m.input.Placeholder = m.env.T(locale.ChatPlaceholder)

	content := m.renderTranscript()
	if content == m.transcript {
		return
	}
	follow := m.viewport.AtBottom() || m.transcript == ""
	m.transcript = content
	m.viewport.SetContent(content)
	if follow {
		m.viewport.GotoBottom()
	}
}
