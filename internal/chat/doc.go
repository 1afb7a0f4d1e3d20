// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the per-conversation controller behind the chat
// view: loading a conversation, the optimistic send pipeline and starting
// a new conversation.
//
// # States
//
//	Empty ──Mount(id)──▶ Loaded ──Send──▶ Sending ──▶ Loaded
//	  │                                      ▲
//	  └──────────────Send (creates chat)─────┘
//
// Only one send is in flight per controller. A send appends a provisional
// user message right away and removes exactly that message again when the
// backend refuses it.
//
// # Usage
//
//	ctrl := chat.New(client, nav, center, chat.WithLanguage(loc))
//	ctrl.Mount(ctx, "42")
//	ctrl.SetInput("Hello!")
//	reply, err := ctrl.Submit(ctx)
package chat
