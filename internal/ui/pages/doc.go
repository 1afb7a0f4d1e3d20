// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package pages provides the routed screens of the polychat TUI other than
the chat itself.

# Key Types

  - Landing: product intro and the model list (/ and /landing)
  - Auth: login and signup form (/login, /signup)
  - History: searchable list of past chats with delete (/history)
  - Profile: account card, usage stats and AI summary (/profile)
  - NotFound: any location without a route
  - Loading: shown while a guarded route waits for the session

Every page implements view.Page. Pages that own a text field implement
view.InputCapturer so that single-letter shortcuts reach them.

Controller calls run as commands and report back with a result message
(AuthResultMsg, HistoryLoadedMsg, HistoryDeletedMsg, ProfileLoadedMsg).
*/
package pages
