// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakeapi is an in-memory implementation of the polychat backend.
//
// It speaks the same REST contract as the real service (JWT bearer auth,
// FastAPI-style {"detail": ...} errors, numeric chat ids) and answers chat
// messages with a deterministic Replier instead of an AI provider. It backs
// the `polychat mock-server` command and end-to-end tests.
//
// # Usage
//
//	srv := fakeapi.New(fakeapi.WithLatency(200 * time.Millisecond))
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
//
//	client := api.New(ts.URL, storage.NewMemory())
package fakeapi
