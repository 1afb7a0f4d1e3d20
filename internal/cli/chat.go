// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - the chat command.
//
// With a message (or piped stdin) it sends once and prints the reply.
// Without one on a terminal it opens a line-mode chat with input history:
//
//	/model [name]   Show or switch the model (no name cycles)
//	/new            Start a new conversation
//	/open <id>      Continue an existing conversation
//	/history        List conversations
//	/lang [en|ar]   Show or switch the interface language
//	/help           Show commands
//	/quit           Leave

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/config"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/util"
)

// ChatHistoryFile is the line-editor history kept in the config directory.
const ChatHistoryFile = "chat_history"

// Chat runs the chat command.
func (r *Runner) Chat(ctx context.Context) error {
	p := NewArgParser(r.Args.Raw)
	id := p.Flag("id")

	if err := r.enter(ctx, router.ChatPath(id)); err != nil {
		return err
	}

	m, err := r.selectedModel()
	if err != nil {
		return err
	}
	ctrl := r.App.NewChat()
	if err := ctrl.Mount(ctx, id); err != nil {
		return err
	}
	// An explicit --model wins over the model the chat was last used with.
	if id == "" || r.Args.Model != "" {
		if err := ctrl.SelectModel(m); err != nil {
			return err
		}
	}

	message := JoinPositionalArgs(p, 0)
	if message == "" && !IsTTY() && r.In == os.Stdin {
		data, err := io.ReadAll(io.LimitReader(r.In, 1<<20))
		if err != nil {
			return err
		}
		message = strings.TrimSpace(string(data))
	}

	if message != "" {
		return r.chatOnce(ctx, ctrl, message)
	}
	if r.Args.JSON {
		return &UsageError{Usage: "polychat --json chat <message>"}
	}
	if err := RequiresTTY("chat"); err != nil {
		return err
	}
	return r.chatLoop(ctx, ctrl)
}

func (r *Runner) chatOnce(ctx context.Context, ctrl *chat.Controller, message string) error {
	reply, err := ctrl.Send(ctx, message, ctrl.Model(), r.lang())
	if err != nil {
		return err
	}

	if r.Args.JSON {
		return r.json(CmdChat, ReplyData{ChatID: ctrl.ChatID(), Title: ctrl.Title(), Reply: *reply})
	}

	r.println(r.renderReply(reply.Content))
	if !r.Args.Quiet && IsStdoutTTY() {
		hint := "chat " + ctrl.ChatID() + " · polychat chat --id " + ctrl.ChatID() + " to continue"
		r.println(DimStyle.Render(hint))
	}
	return nil
}

// =============================================================================
// INTERACTIVE CHAT
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
	logger      *zap.Logger
}

// NewChatCLI creates a ChatCLI and loads its history.
func NewChatCLI(logger *zap.Logger) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, ChatHistoryFile),
		logger:      logger,
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		if _, err := c.line.ReadHistory(f); err != nil {
			c.logger.Debug("failed to read chat history", zap.Error(err))
		}
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	var b strings.Builder
	if _, err := c.line.WriteHistory(&b); err != nil {
		return
	}
	if err := util.AtomicWriteFile(c.historyFile, []byte(b.String()), 0600); err != nil {
		c.logger.Debug("failed to save chat history", zap.Error(err))
	}
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

func (r *Runner) chatLoop(ctx context.Context, ctrl *chat.Controller) error {
	in := NewChatCLI(r.App.Logger)
	defer in.Close()

	r.printChatWelcome(ctrl)

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := in.ReadInput("[" + ctrl.Model().String() + "] > ")
		if err != nil {
			// Ctrl+C at the prompt or EOF
			r.println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		if strings.HasPrefix(input, "/") {
			quit, err := r.chatCommand(ctx, ctrl, input)
			if err != nil {
				if errors.Is(err, ErrNotLoggedIn) {
					return err
				}
				DisplayError(r.Err, CmdChat.String(), err, false)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := r.chatTurn(ctx, ctrl, input); err != nil {
			if !r.App.Session.IsAuthenticated() {
				return ErrNotLoggedIn
			}
			DisplayError(r.Err, CmdChat.String(), err, false)
		}
	}
}

// chatTurn sends one message. Ctrl+C cancels the request without leaving.
func (r *Runner) chatTurn(ctx context.Context, ctrl *chat.Controller, input string) error {
	sendCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.printf("%s\n", DimStyle.Render(r.t(locale.ChatThinking)))
	reply, err := ctrl.Send(sendCtx, input, ctrl.Model(), r.lang())
	if err != nil {
		if errors.Is(sendCtx.Err(), context.Canceled) && ctx.Err() == nil {
			r.println(WarningStyle.Render("[Cancelled]"))
			return nil
		}
		return err
	}
	r.printMessage(*reply)
	return nil
}

// chatCommand handles a slash command. It reports whether to leave.
func (r *Runner) chatCommand(ctx context.Context, ctrl *chat.Controller, input string) (bool, error) {
	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help", "/?":
		r.printChatHelp()

	case "/model", "/m":
		if len(args) == 0 {
			r.println(DimStyle.Render(r.t(locale.ChatModel) + ": " + ctrl.CycleModel().DisplayName()))
			return false, nil
		}
		m, ok := model.ParseModel(args[0])
		if !ok {
			return false, NewValidationError("model", args[0], "must be gemini, groq or mistral")
		}
		if err := ctrl.SelectModel(m); err != nil {
			return false, err
		}
		r.println(DimStyle.Render(r.t(locale.ChatModel) + ": " + m.DisplayName()))

	case "/new", "/n":
		ctrl.NewChat()
		r.println(DimStyle.Render(r.t(locale.ChatNew)))

	case "/open", "/o":
		if len(args) == 0 {
			return false, &UsageError{Usage: "/open <id>"}
		}
		if err := r.enter(ctx, router.ChatPath(args[0])); err != nil {
			return false, err
		}
		if err := ctrl.Mount(ctx, args[0]); err != nil {
			return false, err
		}
		r.println(TitleStyle.Render(ctrl.Title()))
		for _, m := range ctrl.Messages() {
			r.printMessage(m)
		}

	case "/history", "/h":
		return false, r.chatsList(ctx, strings.Join(args, " "))

	case "/lang", "/l":
		return false, r.switchLang(args)

	default:
		return false, &UsageError{Usage: "/help"}
	}
	return false, nil
}

func (r *Runner) printChatWelcome(ctrl *chat.Controller) {
	r.println(TitleStyle.Render("polychat") + "  " + DimStyle.Render(r.t(locale.AppTagline)))
	if ctrl.ChatID() != "" {
		r.println(TitleStyle.Render(ctrl.Title()))
		for _, m := range ctrl.Messages() {
			r.printMessage(m)
		}
	} else {
		r.println(DimStyle.Render(r.t(locale.ChatEmpty)))
	}
	r.println(DimStyle.Render("/help for commands, /quit to leave"))
	r.println()
}

func (r *Runner) printChatHelp() {
	r.println(RenderLabel("/model [name]") + "Show or switch the model")
	r.println(RenderLabel("/new") + "Start a new conversation")
	r.println(RenderLabel("/open <id>") + "Continue a conversation")
	r.println(RenderLabel("/history [query]") + "List conversations")
	r.println(RenderLabel("/lang [en|ar]") + "Show or switch the language")
	r.println(RenderLabel("/quit") + "Leave")
}
