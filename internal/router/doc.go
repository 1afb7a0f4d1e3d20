// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps locations to views and decides whether a view may
// render for the current session.
//
// Guards are pure functions of the session: while the session is loading
// they ask for a neutral loading screen, afterwards they either render or
// redirect.
//
// # Key Types
//
//   - Guard: Decision function (RequireAuth, PublicOnly, Open)
//   - Decision: Render, Loading, or Redirect to a path
//   - Table: Route patterns with :param segments and a wildcard
//   - Navigator: Current location with push/replace/back history
//
// # Usage
//
//	table := router.DefaultTable()
//	match := table.Resolve("/chat/42") // match.Route.Name == "chat", match.Params["chatId"] == "42"
//	switch d := match.Route.Guard.Decide(store); d.Kind {
//	case router.Render:
//	case router.Loading:
//	case router.Redirect:
//	    nav.Replace(d.To)
//	}
package router
