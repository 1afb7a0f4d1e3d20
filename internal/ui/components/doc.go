// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the shared chrome of the polychat TUI.

Every page is framed by the same pieces: a navigation bar on top, toasts
stacked above a status bar at the bottom. Pages use the spinner and the
markdown renderer for their own content.

# Key Types

  - Header: navigation bar with brand, route links, user and language
  - StatusBar: page shortcuts and connection details
  - Toasts: renders the active entries of a notify.Center
  - Spinner: loading indicator with an optional elapsed timer
  - Markdown: glamour renderer with a per-message cache

# Text Direction

Row, Spread and Align mirror layouts for right-to-left languages.
The terminal shapes the text itself; these helpers only decide which edge
things are anchored to.

# Usage

	header := components.NewHeader(theme)
	header.Items = []components.NavItem{{Route: "chat", Label: "Chat"}}
	header.Authenticated = true
	header.SetWidth(width)
	view := header.View()
*/
package components
