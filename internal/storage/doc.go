// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the small durable key/value state of polychat.
//
// It plays the part a browser's localStorage plays for a web client: the
// bearer token, a snapshot of the signed-in user and the preferred language
// survive restarts here, and nothing else does.
//
// # Key Types
//
//   - KV: Synchronous key/value interface used by the session layers
//   - SQLite: File-backed KV (modernc.org/sqlite, no cgo)
//   - Memory: In-process KV for tests
//
// # Usage
//
//	kv, err := storage.OpenSQLite(path)
//	defer kv.Close()
//	kv.Set(storage.KeyAuthToken, token)
//	tok, ok, err := kv.Get(storage.KeyAuthToken)
//
// Watch another polychat process writing the same state file:
//
//	err := storage.Watch(ctx, path, func() { store.Resync() })
//
// # Storage Location
//
// State lives in ~/.polychat/state.db unless configured otherwise.
package storage
