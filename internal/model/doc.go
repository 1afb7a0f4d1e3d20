// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every polychat layer.
//
// These are the client-side shapes of the backend resources, already
// normalized from the wire format the api package decodes.
//
// # Key Types
//
//   - User, UserStats: The signed-in account and its usage counters
//   - Conversation: One entry of the chat history list (no messages)
//   - ChatMessage: A single message of an open conversation
//   - AIModel: The provider model a message was answered by
//   - Lang: The preferred interface/answer language
//   - Role: Message author (user or assistant)
//
// # Usage
//
//	msg := model.NewUserMessage("Hello!", model.ModelGemini)
//	if !model.ModelGroq.Valid() { ... }
//	name := model.DisplayNameFromEmail("alice@example.com") // "alice"
package model
