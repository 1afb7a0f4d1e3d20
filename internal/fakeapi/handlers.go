// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// AUTH
// =============================================================================

type signupIn struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	PreferredLang string `json:"preferred_lang"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup creates an account and returns a token.
// POST /auth/signup
func (s *Server) Signup(c echo.Context) error {
	var in signupIn
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if !strings.Contains(in.Email, "@") || in.Password == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.addAccountLocked(in.Email, in.Password, in.PreferredLang)
	if errors.Is(err, errEmailTaken) {
		if in.PreferredLang == "ar" {
			return echo.NewHTTPError(http.StatusConflict, "البريد الإلكتروني مستخدم بالفعل")
		}
		return echo.NewHTTPError(http.StatusConflict, "Email already registered")
	}
	if err != nil {
		return err
	}

	token, err := s.signLocked(acct.email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenOut{AccessToken: token, TokenType: "bearer"})
}

// Login exchanges credentials for a token.
// POST /auth/login
func (s *Server) Login(c echo.Context) error {
	var in loginIn
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.accounts[normalizeEmail(in.Email)]
	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(in.Password)) != nil {
		if acct != nil && acct.lang == "ar" {
			return echo.NewHTTPError(http.StatusUnauthorized, "بيانات الدخول غير صحيحة")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := s.signLocked(acct.email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenOut{AccessToken: token, TokenType: "bearer"})
}

// Logout acknowledges the end of a session. Tokens stay valid until expiry.
// POST /auth/logout
func (s *Server) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Profile returns the account, its usage stats and a summary.
// GET /auth/profile
func (s *Server) Profile(c echo.Context) error {
	acct := currentAccount(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		totalChats    int
		totalMessages int
		titles        []string
		modelCounts   = map[string]int{}
	)
	for _, ch := range s.ownedLocked(acct.id) {
		totalChats++
		titles = append(titles, ch.title)
		for _, m := range ch.messages {
			totalMessages++
			if m.role == "assistant" && m.model != "" {
				modelCounts[m.model]++
			}
		}
	}

	summary := NoSummary
	if len(titles) > 0 {
		if len(titles) > 3 {
			titles = titles[:3]
		}
		summary = "Recent topics: " + strings.Join(titles, "; ")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]string{
			"name":         strings.SplitN(acct.email, "@", 2)[0],
			"email":        acct.email,
			"member_since": acct.createdAt.Format("2006-01-02"),
		},
		"stats": map[string]any{
			"total_chats":    totalChats,
			"total_messages": totalMessages,
			"favorite_model": favorite(modelCounts),
		},
		"summary": summary,
	})
}

// favorite picks the most used model, ties broken by name.
func favorite(counts map[string]int) string {
	best, bestN := DefaultModel, 0
	for m, n := range counts {
		if n > bestN || (n == bestN && m < best) {
			best, bestN = m, n
		}
	}
	return best
}

// =============================================================================
// CHATS
// =============================================================================

type chatItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type messageItem struct {
	ID        int64   `json:"id"`
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Model     *string `json:"model"`
	Lang      string  `json:"lang"`
	CreatedAt string  `json:"created_at"`
}

// ListChats returns the caller's chats, newest first.
// GET /chats
func (s *Server) ListChats(c echo.Context) error {
	acct := currentAccount(c)

	s.mu.Lock()
	owned := s.ownedLocked(acct.id)
	items := make([]chatItem, 0, len(owned))
	for _, ch := range owned {
		items = append(items, chatItem{ID: ch.id, Title: ch.title, CreatedAt: formatTime(ch.createdAt)})
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// CreateChat creates an empty chat.
// POST /chats
func (s *Server) CreateChat(c echo.Context) error {
	acct := currentAccount(c)
	var in struct {
		Title *string `json:"title"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	title := "New Chat"
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		title = strings.TrimSpace(*in.Title)
	}

	s.mu.Lock()
	ch := s.newChatLocked(acct.id, title)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, map[string]any{"id": ch.id, "title": ch.title})
}

// GetChat returns one chat with its messages in order.
// GET /chats/:chat_id
func (s *Server) GetChat(c echo.Context) error {
	acct := currentAccount(c)
	id, err := chatIDParam(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.chats[id]
	if ch == nil || ch.owner != acct.id {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	}

	msgs := make([]messageItem, 0, len(ch.messages))
	for _, m := range ch.messages {
		item := messageItem{
			ID:        m.id,
			Role:      m.role,
			Content:   m.content,
			Lang:      m.lang,
			CreatedAt: formatTime(m.createdAt),
		}
		if m.model != "" {
			model := m.model
			item.Model = &model
		}
		msgs = append(msgs, item)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":       ch.id,
		"title":    ch.title,
		"messages": msgs,
	})
}

// DeleteChat removes a chat and its messages.
// DELETE /chats/:chat_id
func (s *Server) DeleteChat(c echo.Context) error {
	acct := currentAccount(c)
	id, err := chatIDParam(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.chats[id]
	if ch == nil || ch.owner != acct.id {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	}
	delete(s.chats, id)

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Chat %d deleted successfully", id),
	})
}

// =============================================================================
// MESSAGES
// =============================================================================

type sendIn struct {
	ChatID  json.Number `json:"chat_id"`
	Content string      `json:"content"`
	Model   string      `json:"model"`
	Lang    string      `json:"lang"`
}

type sentOut struct {
	ID      int64   `json:"id"`
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Model   *string `json:"model,omitempty"`
	Lang    string  `json:"lang"`
}

// SendMessage stores a user message and the assistant's reply. A null
// chat_id starts a new chat titled from the message.
// POST /messages/send
func (s *Server) SendMessage(c echo.Context) error {
	acct := currentAccount(c)

	var in sendIn
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	model := in.Model
	if model == "" {
		model = DefaultModel
	}
	if !availableModels[model] {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "AI provider/model not available")
	}
	lang := in.Lang
	if lang != "en" && lang != "ar" {
		lang = acct.lang
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	reply := s.reply(model, content, lang)

	s.mu.Lock()
	defer s.mu.Unlock()

	var ch *chat
	if in.ChatID == "" {
		ch = s.newChatLocked(acct.id, titleFrom(content))
	} else {
		id, err := in.ChatID.Int64()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "chat_id must be an integer")
		}
		ch = s.chats[id]
		if ch == nil || ch.owner != acct.id {
			return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
		}
	}

	userMsg := s.appendLocked(ch, "user", content, "", lang)
	botMsg := s.appendLocked(ch, "assistant", reply, model, lang)

	return c.JSON(http.StatusOK, map[string]any{
		"chat_id":    ch.id,
		"chat_title": ch.title,
		"user_message": sentOut{
			ID: userMsg.id, Role: userMsg.role, Content: userMsg.content, Lang: lang,
		},
		"assistant_message": sentOut{
			ID: botMsg.id, Role: botMsg.role, Content: botMsg.content, Model: &model, Lang: lang,
		},
		"chat_summary": fmt.Sprintf("%s (%d messages)", ch.title, len(ch.messages)),
	})
}

// =============================================================================
// STATE HELPERS
// =============================================================================

// ownedLocked returns acct's chats, newest first.
func (s *Server) ownedLocked(owner int64) []*chat {
	var out []*chat
	for _, ch := range s.chats {
		if ch.owner == owner {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].createdAt.Equal(out[j].createdAt) {
			return out[i].createdAt.After(out[j].createdAt)
		}
		return out[i].id > out[j].id
	})
	return out
}

func (s *Server) newChatLocked(owner int64, title string) *chat {
	s.nextChat++
	ch := &chat{
		id:        s.nextChat,
		owner:     owner,
		title:     title,
		createdAt: s.now().UTC(),
	}
	s.chats[ch.id] = ch
	return ch
}

func (s *Server) appendLocked(ch *chat, role, content, model, lang string) message {
	s.nextMsg++
	m := message{
		id:        s.nextMsg,
		role:      role,
		content:   content,
		model:     model,
		lang:      lang,
		createdAt: s.now().UTC(),
	}
	ch.messages = append(ch.messages, m)
	return m
}

func chatIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "chat_id must be an integer")
	}
	return id, nil
}
