// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP gateway to the polychat backend.
//
// Every backend call goes through Client, which attaches the bearer token
// read from storage, decodes JSON responses and turns failures into typed
// errors. A 401 from any endpoint tears the session down: the token and
// user snapshot are removed from storage, the OnUnauthorized hook runs, and
// the call fails with an error matching ErrUnauthorized.
//
// # Key Types
//
//   - Client: The gateway; safe for concurrent use
//   - HTTPError: Non-2xx response (status, status text, backend detail)
//   - ID, Timestamp: Tolerant decoders for wire identifiers and times
//
// # Usage
//
//	client := api.New(cfg.API.URL, kv).
//	    WithLogger(logger).
//	    WithTimeout(30 * time.Second).
//	    OnUnauthorized(func() { store.Invalidate() })
//
//	tok, err := client.Login(ctx, api.Credentials{Email: e, Password: p})
//	chats, err := client.ListChats(ctx)
//
// # Security
//
// Request and response logging records method, path, status and duration
// only. Headers and bodies are never logged.
package api
