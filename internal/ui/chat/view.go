// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	chatctl "github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/ui/components"
	"github.com/jeranaias/polychat/internal/util"
)

// Fixed rows around the transcript.
const (
	titleHeight      = 1
	statusLineHeight = 1
	inputHeight      = 2 // top border + field
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the title line, transcript, spinner line and input field.
func (m *Model) View() string {
	parts := []string{
		m.renderTitle(),
		m.viewport.View(),
		m.renderStatusLine(),
		m.env.Theme.InputContainer.Width(m.width).Render(m.input.View()),
	}
	return strings.Join(parts, "\n")
}

// renderTitle shows the conversation title and the selected model.
func (m *Model) renderTitle() string {
	title := m.ctl.Title()
	if title == "" {
		title = m.env.T(locale.ChatNew)
	}
	title = m.env.Theme.Title.Render(util.TruncateWidth(title, m.width/2))

	mdl := m.env.Theme.Label.Render(m.env.T(locale.ChatModel)+":") + " " + m.env.Theme.ModelBadge(m.ctl.Model())
	return components.Spread(m.env.Dir(), m.width, title, mdl)
}

// renderStatusLine shows the spinner while loading or sending.
func (m *Model) renderStatusLine() string {
	if !m.spinner.IsActive() {
		return ""
	}
	return components.Align(m.env.Dir(), m.width, m.spinner.View())
}

// bubbleWidth is the widest a message bubble may be.
func (m *Model) bubbleWidth() int {
	w := m.width * 3 / 4
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderTranscript renders every message of the open conversation.
func (m *Model) renderTranscript() string {
	messages := m.ctl.Messages()
	if len(messages) == 0 {
		// A conversation being fetched stays blank until it arrives
		if m.ctl.State() != chatctl.StateEmpty {
			return ""
		}
		return m.renderEmptyState()
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderMessage(msg model.ChatMessage) string {
	if msg.Role == model.RoleUser {
		return m.renderUserMessage(msg)
	}
	return m.renderAssistantMessage(msg)
}

// renderUserMessage draws the user's bubble on the trailing edge.
func (m *Model) renderUserMessage(msg model.ChatMessage) string {
	maxWidth := m.bubbleWidth()
	label := m.env.Theme.RoleLabel.Render(m.env.T(locale.ChatYou))
	bubble := m.env.Theme.UserBubble.Render(util.WrapWidth(msg.Content, maxWidth-4))

	pos := lipgloss.Right
	if m.env.Dir() == model.RTL {
		pos = lipgloss.Left
	}
	block := lipgloss.JoinVertical(pos, label, bubble)
	return lipgloss.PlaceHorizontal(m.width, pos, block)
}

// renderAssistantMessage draws a reply on the leading edge, labelled with
// the model that wrote it.
func (m *Model) renderAssistantMessage(msg model.ChatMessage) string {
	mdl := msg.Model
	if mdl == "" {
		mdl = m.ctl.Model()
	}
	label := m.env.Theme.ModelBadge(mdl)
	bubble := m.env.Theme.AssistantBubble.Render(m.markdown.Render(msg.ID, msg.Content))

	pos := lipgloss.Left
	if m.env.Dir() == model.RTL {
		pos = lipgloss.Right
	}
	block := lipgloss.JoinVertical(pos, label, bubble)
	return lipgloss.PlaceHorizontal(m.width, pos, block)
}

// renderEmptyState invites the first message of a new conversation.
func (m *Model) renderEmptyState() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(m.env.Theme.Subtitle.Render(m.env.T(locale.ChatEmpty)))
	sb.WriteString("\n\n")
	for _, info := range model.Models {
		line := m.env.Theme.ModelBadge(info.ID) + "  " + m.env.Theme.Muted.Render(info.Description)
		if info.ID == m.ctl.Model() {
			line = "* " + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, sb.String())
}
