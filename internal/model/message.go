// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage is a single message of an open conversation.
// Messages of a conversation are append-only and chronological.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Model is empty for user messages loaded from the server.
	Model AIModel `json:"model,omitempty"`
}

// NewUserMessage creates a provisional user message with a locally generated ID.
//
// The ID is a UUIDv7, so provisional IDs sort in creation order and never
// collide with the decimal IDs assigned by the server.
func NewUserMessage(content string, m AIModel) ChatMessage {
	return ChatMessage{
		ID:        NewLocalID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
		Model:     m,
	}
}

// NewLocalID returns a unique, time-ordered identifier for client-side records.
func NewLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does
		return uuid.NewString()
	}
	return id.String()
}

// MessageID returns the message ID. It is the key function used by
// optimistic rollbacks.
func MessageID(m ChatMessage) string {
	return m.ID
}
