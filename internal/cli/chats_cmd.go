// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats_cmd.go - conversation history from the command line.
//
// Subcommands:
//
//	list (default)     Conversations, newest first
//	search <query>     Filter by title, case-insensitive
//	show <id>          Print one conversation
//	delete <id>        Delete a conversation (asks unless --yes)

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/util"
)

const titleColumnWidth = 48

// Chats dispatches the chats subcommands.
func (r *Runner) Chats(ctx context.Context) error {
	p := NewArgParser(r.Args.Raw, "yes", "y")

	switch p.Subcommand() {
	case "", "list", "ls":
		return r.chatsList(ctx, "")
	case "search", "find":
		query := JoinPositionalArgs(p, 1)
		if strings.TrimSpace(query) == "" {
			return &UsageError{Usage: "polychat chats search <query>"}
		}
		return r.chatsList(ctx, query)
	case "show", "open":
		id := p.Positional(1)
		if id == "" {
			return &UsageError{Usage: "polychat chats show <id>"}
		}
		return r.chatsShow(ctx, id)
	case "delete", "rm":
		id := p.Positional(1)
		if id == "" {
			return &UsageError{Usage: "polychat chats delete <id> [--yes]"}
		}
		return r.chatsDelete(ctx, id, p.BoolFlag("yes") || p.BoolFlag("y"))
	default:
		return &UsageError{Usage: "polychat chats [list|search <query>|show <id>|delete <id>]"}
	}
}

func (r *Runner) chatsList(ctx context.Context, query string) error {
	if err := r.enter(ctx, router.HistoryPath); err != nil {
		return err
	}
	hist := r.App.NewHistory()
	if err := hist.Load(ctx); err != nil {
		return NewCommandError("chats", "list", err)
	}

	items := hist.Conversations()
	if query != "" {
		items = hist.Search(query)
	}

	if r.Args.JSON {
		return r.json(CmdChats, ChatsData{Query: query, Items: items})
	}

	if len(items) == 0 {
		if query != "" {
			r.println(DimStyle.Render(r.t(locale.HistoryNoMatch)))
		} else {
			r.println(DimStyle.Render(r.t(locale.HistoryEmpty)))
		}
		return nil
	}

	if !r.Args.Quiet {
		r.println(TitleStyle.Render(r.t(locale.HistoryTitle)))
	}
	for _, c := range items {
		r.printf("%6s  %s  %s\n",
			c.ID,
			util.PadWidth(util.TruncateWidth(c.Title, titleColumnWidth), titleColumnWidth),
			DimStyle.Render(c.UpdatedAt.Local().Format("2006-01-02 15:04")),
		)
	}
	return nil
}

func (r *Runner) chatsShow(ctx context.Context, id string) error {
	if err := r.enter(ctx, router.ChatPath(id)); err != nil {
		return err
	}
	ctrl := r.App.NewChat()
	if err := ctrl.Mount(ctx, id); err != nil {
		return err
	}

	if r.Args.JSON {
		return r.json(CmdChats, ConversationData{
			ID:       ctrl.ChatID(),
			Title:    ctrl.Title(),
			Model:    ctrl.Model(),
			Messages: ctrl.Messages(),
		})
	}

	r.println(TitleStyle.Render(ctrl.Title()))
	r.println(RenderSeparator())
	for _, m := range ctrl.Messages() {
		r.printMessage(m)
	}
	return nil
}

func (r *Runner) chatsDelete(ctx context.Context, id string, yes bool) error {
	if err := r.enter(ctx, router.HistoryPath); err != nil {
		return err
	}
	hist := r.App.NewHistory()
	if err := hist.Load(ctx); err != nil {
		return NewCommandError("chats", "delete", err)
	}

	title := id
	for _, c := range hist.Conversations() {
		if c.ID == id {
			title = fmt.Sprintf("%s (%q)", id, c.Title)
			break
		}
	}

	if !yes && !r.Args.JSON {
		if !r.confirm("Delete chat " + title + "?") {
			r.info("%s", DimStyle.Render("Cancelled"))
			return nil
		}
	}

	if err := hist.Delete(ctx, id); err != nil {
		return NewCommandError("chats", "delete", err)
	}

	msg := r.t(locale.HistoryDeleted)
	if r.Args.JSON {
		return r.json(CmdChats, MessageData{Message: msg})
	}
	r.info("%s", SuccessStyle.Render(msg))
	return nil
}

// printMessage prints one transcript entry.
func (r *Runner) printMessage(m model.ChatMessage) {
	switch m.Role {
	case model.RoleUser:
		r.printf("%s\n%s\n\n", UserStyle.Render(r.t(locale.ChatYou)), m.Content)
	default:
		label := m.Role.DisplayName()
		if m.Model != "" {
			label = m.Model.DisplayName()
		}
		r.printf("%s\n%s\n\n", AssistantStyle.Render(label), r.renderReply(m.Content))
	}
}
