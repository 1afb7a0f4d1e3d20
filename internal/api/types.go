// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TOLERANT WIRE PRIMITIVES
// =============================================================================

// ID is a backend identifier. The backend sends integers; strings are
// accepted too. The decoded form is the decimal string.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the decimal form.
func (id ID) String() string {
	return string(id)
}

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// Timestamp is a wire time. Absent, null or unparseable values decode to
// the zero time and the caller applies its own default.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// null or a non-string value
		t.Time = time.Time{}
		return nil
	}
	t.Time = ParseTimestamp(s)
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ParseTimestamp parses the formats the backend emits. It returns the zero
// time when nothing matches.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// =============================================================================
// AUTH
// =============================================================================

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the signup request body.
type SignupRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	PreferredLang string `json:"preferred_lang"`
}

// TokenResponse is returned by login and signup.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileResponse is the grouped snake_case shape of GET /auth/profile.
type ProfileResponse struct {
	User struct {
		Name        string    `json:"name"`
		Email       string    `json:"email"`
		MemberSince Timestamp `json:"member_since"`
	} `json:"user"`
	Stats struct {
		TotalChats    int    `json:"total_chats"`
		TotalMessages int    `json:"total_messages"`
		FavoriteModel string `json:"favorite_model"`
	} `json:"stats"`
	Summary string `json:"summary"`
}

// =============================================================================
// CHATS
// =============================================================================

// ChatSummary is one item of GET /chats.
type ChatSummary struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Model     string    `json:"model,omitempty"`
}

// ChatList is the body of GET /chats.
type ChatList struct {
	Items []ChatSummary `json:"items"`
}

// CreatedChat is the body of POST /chats.
type CreatedChat struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// MessageDetail is one message of GET /chats/{id}.
type MessageDetail struct {
	ID        ID        `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
	CreatedAt Timestamp `json:"created_at"`
	Model     string    `json:"model,omitempty"`
	Lang      string    `json:"lang,omitempty"`
}

// Time returns the message time, preferring timestamp over created_at.
func (m MessageDetail) Time() time.Time {
	if !m.Timestamp.IsZero() {
		return m.Timestamp.Time
	}
	return m.CreatedAt.Time
}

// ChatDetail is the body of GET /chats/{id}.
type ChatDetail struct {
	ID       ID              `json:"id"`
	Title    string          `json:"title,omitempty"`
	Model    string          `json:"model,omitempty"`
	Messages []MessageDetail `json:"messages"`
}

// DeleteResult is the body of DELETE /chats/{id}. Backends answer either
// {success} or {message}; any 2xx status is treated as success.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// =============================================================================
// MESSAGES
// =============================================================================

// SendMessageRequest is the input of POST /messages/send.
// An empty ChatID asks the backend to create a new conversation.
type SendMessageRequest struct {
	ChatID  string
	Content string
	Model   string
	Lang    string
}

// sendMessageBody is the wire form; chat_id must be a number or null.
type sendMessageBody struct {
	ChatID  *json.Number `json:"chat_id"`
	Content string       `json:"content"`
	Model   string       `json:"model"`
	Lang    string       `json:"lang,omitempty"`
}

// SentMessage is a message echoed by POST /messages/send.
type SentMessage struct {
	ID      ID     `json:"id"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
	Lang    string `json:"lang,omitempty"`
}

// SendMessageResponse is the body of POST /messages/send.
type SendMessageResponse struct {
	ChatID           ID          `json:"chat_id"`
	ChatTitle        string      `json:"chat_title,omitempty"`
	UserMessage      SentMessage `json:"user_message"`
	AssistantMessage SentMessage `json:"assistant_message"`
	ChatSummary      string      `json:"chat_summary,omitempty"`
}
