// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth owns the session lifecycle: login, signup, logout, startup
// hydration and the global teardown that follows a 401.
//
// Store is the single source of truth for "who is signed in". Every
// mutation writes through to storage in the same call that updates memory,
// so a restart (or another polychat process) sees the same session.
//
// # Key Types
//
//   - Store: Session state with write-through persistence
//   - Gateway: The backend calls the store depends on (api.Client)
//   - AuthError: Login or signup failure with the failing operation
//
// # Usage
//
//	store := auth.NewStore(kv, client, auth.WithLogger(logger))
//	store.Hydrate(ctx)
//	<-store.Done()
//	if store.IsAuthenticated() { ... }
//
//	err := store.Login(ctx, email, password)
//	var authErr *auth.AuthError
//	if errors.As(err, &authErr) { ... }
package auth
