// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - the --json envelope used by every command.
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/model"
)

// JSONResponse is the response envelope for --json output.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	Command string `json:"command,omitempty"`

	// HTTPStatus is the backend status behind a failure, when there was one
	HTTPStatus int `json:"http_status,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:      &errStr,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Command:    command,
		HTTPStatus: api.StatusCode(err),
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// SessionData is returned by login, signup and status.
type SessionData struct {
	LoggedIn     bool        `json:"logged_in"`
	User         *model.User `json:"user,omitempty"`
	TokenExpires *time.Time  `json:"token_expires,omitempty"`
	APIURL       string      `json:"api_url"`
	Language     model.Lang  `json:"language"`
	Direction    string      `json:"direction"`
}

// ChatsData is returned by chats list and chats search.
type ChatsData struct {
	Query string               `json:"query,omitempty"`
	Items []model.Conversation `json:"items"`
}

// ConversationData is returned by chats show and chat.
type ConversationData struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Model    model.AIModel       `json:"model"`
	Messages []model.ChatMessage `json:"messages"`
}

// ReplyData is returned by a one-shot chat.
type ReplyData struct {
	ChatID string            `json:"chat_id"`
	Title  string            `json:"title"`
	Reply  model.ChatMessage `json:"reply"`
}

// ProfileData is returned by the profile command.
type ProfileData struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	MemberSince string          `json:"member_since"`
	Stats       model.UserStats `json:"stats"`
	Summary     string          `json:"summary"`
	FromServer  bool            `json:"from_server"`
}

// LangData is returned by the lang command.
type LangData struct {
	Language  model.Lang `json:"language"`
	Name      string     `json:"name"`
	Direction string     `json:"direction"`
}

// MessageData is a plain acknowledgement.
type MessageData struct {
	Message string `json:"message"`
}
