// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat page of the polychat TUI.

The page renders the conversation held by a chat.Controller: the title and
selected model on top, the transcript in a scrolling viewport, and the
message field at the bottom. Replies are rendered as markdown.

# Key Components

## Model (model.go)

The page model. It mounts the conversation named by the route, follows
chat id changes in place (Retarget), and turns key presses into
controller calls. Controller calls run as commands and report back with
MountedMsg and SentMsg.

## View Rendering (view.go)

User messages sit on the trailing edge, replies on the leading edge with
the badge of the model that wrote them. Both edges flip for right-to-left
languages.

## Key Bindings (keys.go)

Enter sends, tab cycles the model, ctrl+n starts a new chat, ctrl+h and
ctrl+p open history and profile. Single letters always go to the field.

# Usage

	page := chat.New(env, match)
	cmd := page.Init()
*/
package chat
