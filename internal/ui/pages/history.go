// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/polychat/internal/history"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/ui/view"
	"github.com/jeranaias/polychat/internal/util"
)

// =============================================================================
// HISTORY PAGE
// =============================================================================

// HistoryLoadedMsg reports that the chat list finished loading.
type HistoryLoadedMsg struct {
	Err error
}

// HistoryDeletedMsg reports the outcome of a delete.
type HistoryDeletedMsg struct {
	ID  string
	Err error
}

// Rows above the list: title, search field, blank line.
const historyChromeHeight = 3

// History lists past conversations with search and delete.
type History struct {
	size
	env view.Env
	ctl *history.Controller

	search    textinput.Model
	searching bool
	// confirm is the id of the chat awaiting delete confirmation
	confirm string

	cursor int
	offset int

	spinner components.Spinner
	loaded  bool
}

// NewHistory creates the history page.
func NewHistory(env view.Env) *History {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = env.T(locale.HistorySearch)
	search.CharLimit = 100

	return &History{
		env:     env,
		ctl:     env.App.NewHistory(),
		search:  search,
		spinner: components.NewSpinner(env.Theme, env.T(locale.Loading)),
	}
}

// Controller exposes the page's history controller.
func (p *History) Controller() *history.Controller {
	return p.ctl
}

// Init loads the list.
func (p *History) Init() tea.Cmd {
	return p.load()
}

func (p *History) load() tea.Cmd {
	ctl, ctx := p.ctl, p.env.Ctx
	return tea.Batch(p.spinner.Start(), func() tea.Msg {
		return HistoryLoadedMsg{Err: ctl.Load(ctx)}
	})
}

// CapturesInput reports whether typed letters belong to the page.
func (p *History) CapturesInput() bool {
	return p.searching || p.confirm != ""
}

// Help returns the list shortcuts.
func (p *History) Help() string {
	return p.env.T(locale.HistoryHelp)
}

// Update handles list navigation, search and delete.
func (p *History) Update(msg tea.Msg) (view.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case HistoryLoadedMsg:
		p.loaded = true
		p.spinner.Stop()
		p.clamp()
		return p, nil

	case HistoryDeletedMsg:
		p.clamp()
		return p, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch {
		case p.confirm != "":
			return p, p.handleConfirm(msg)
		case p.searching:
			return p, p.handleSearch(msg)
		default:
			return p, p.handleKey(msg)
		}
	}

	if p.searching {
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *History) handleKey(msg tea.KeyMsg) tea.Cmd {
	visible := p.ctl.Visible()

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(visible)-1 {
			p.cursor++
		}
	case "home":
		p.cursor = 0
	case "end":
		p.cursor = len(visible) - 1
	case "enter":
		if conv, ok := p.selected(visible); ok {
			p.env.Navigate(router.ChatPath(conv.ID))
		}
	case "d", "delete":
		if conv, ok := p.selected(visible); ok {
			p.confirm = conv.ID
		}
	case "/":
		p.searching = true
		return p.search.Focus()
	case "r":
		return p.load()
	case "ctrl+n":
		p.env.Navigate(router.ChatPath(""))
	case "esc":
		if p.ctl.Query() != "" {
			p.search.Reset()
			p.ctl.SetQuery("")
			p.clamp()
			return nil
		}
		goBack(p.env, router.ChatPath(""))
	}
	p.clamp()
	return nil
}

func (p *History) handleSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		p.searching = false
		p.search.Blur()
		return nil
	case "up", "down":
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.ctl.SetQuery(p.search.Value())
	p.cursor = 0
	p.offset = 0
	return cmd
}

func (p *History) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	id := p.confirm
	p.confirm = ""
	if msg.String() != "y" {
		return nil
	}
	ctl, ctx := p.ctl, p.env.Ctx
	return func() tea.Msg {
		return HistoryDeletedMsg{ID: id, Err: ctl.Delete(ctx, id)}
	}
}

func (p *History) selected(visible []model.Conversation) (model.Conversation, bool) {
	if p.cursor < 0 || p.cursor >= len(visible) {
		return model.Conversation{}, false
	}
	return visible[p.cursor], true
}

// clamp keeps the cursor on a row and the row on screen.
func (p *History) clamp() {
	n := len(p.ctl.Visible())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}

	rows := p.listHeight()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

func (p *History) listHeight() int {
	h := p.height - historyChromeHeight - 1 // confirm line
	if h < 1 {
		h = 1
	}
	return h
}

// SetSize records the page dimensions and resizes the search field.
func (p *History) SetSize(width, height int) {
	p.size.SetSize(width, height)
	p.search.Width = width - 6
	p.clamp()
}

// View renders the title, search field and list.
func (p *History) View() string {
	theme := p.env.Theme
	dir := p.env.Dir()

	p.search.Placeholder = p.env.T(locale.HistorySearch)

	lines := []string{
		components.Align(dir, p.width, theme.Title.Render(p.env.T(locale.HistoryTitle))),
		components.Align(dir, p.width, p.search.View()),
		"",
	}

	visible := p.ctl.Visible()
	switch {
	case !p.loaded || p.ctl.Loading():
		lines = append(lines, components.Align(dir, p.width, p.spinner.View()))
	case len(p.ctl.Conversations()) == 0:
		lines = append(lines, components.Align(dir, p.width, theme.Muted.Render(p.env.T(locale.HistoryEmpty))))
	case len(visible) == 0:
		lines = append(lines, components.Align(dir, p.width, theme.Muted.Render(p.env.T(locale.HistoryNoMatch))))
	default:
		end := p.offset + p.listHeight()
		if end > len(visible) {
			end = len(visible)
		}
		for i := p.offset; i < end; i++ {
			lines = append(lines, p.renderRow(visible[i], i == p.cursor))
		}
	}

	if p.confirm != "" {
		title := p.confirm
		for _, conv := range visible {
			if conv.ID == p.confirm {
				title = conv.Title
			}
		}
		lines = append(lines, "", theme.WarningStyle.Render(p.env.T(locale.HistoryConfirm, title)))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one conversation: title, model and last update.
func (p *History) renderRow(conv model.Conversation, selected bool) string {
	theme := p.env.Theme
	dir := p.env.Dir()

	updated := p.env.T(locale.HistoryUpdated, conv.UpdatedAt.Local().Format("2006-01-02 15:04"))
	badge := theme.ModelBadge(conv.Model)
	trailing := components.Row(dir, "  ", badge, theme.Muted.Render(updated))

	titleWidth := p.width - 4 - util.StringWidth(conv.Model.DisplayName()) - util.StringWidth(updated) - 4
	if titleWidth < 8 {
		titleWidth = 8
	}
	title := util.TruncateWidth(conv.Title, titleWidth)

	style := theme.ListItem
	if selected {
		style = theme.ListItemSelected
	}
	// ListItem padding takes two columns
	return style.Width(p.width).Render(components.Spread(dir, p.width-2, title, trailing))
}
