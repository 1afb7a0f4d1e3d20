// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the full-screen terminal front end.
//
// Model is the bubbletea root. After every update it resolves the
// navigator's location through the route guards and shows the matching
// page from the pages or chat packages. Guard redirects replace the
// location, a loading placeholder covers session hydration, and results of
// commands started by a page that has since been replaced are dropped.
//
// Global keys:
//
//	ctrl+c        quit
//	ctrl+g        switch between English and Arabic
//	q             quit, unless the page is taking text
//	g             switch language, unless the page is taking text
//	ctrl+n/h/p    chat, history, profile (signed in)
package ui
