// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// DefaultConversationTitle is used when the server returns an untitled chat.
const DefaultConversationTitle = "Chat"

// Conversation is one entry of the chat history list.
// Messages are not part of the list shape; they are fetched when the
// conversation is opened.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Model     AIModel   `json:"model"`
}

// ConversationID returns the conversation ID. It is the key function used by
// optimistic rollbacks.
func ConversationID(c Conversation) string {
	return c.ID
}
