// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/polychat/internal/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *storage.Memory) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	kv := storage.NewMemory()
	client := New(server.URL, kv).
		WithLogger(zaptest.NewLogger(t)).
		WithRetryDelay(time.Millisecond)
	return client, kv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// =============================================================================
// BEARER TOKEN TESTS
// =============================================================================

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, kv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, 200, map[string]any{"items": []any{}})
	})

	_, err := client.ListChats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no token held, no header")

	require.NoError(t, kv.Set(storage.KeyAuthToken, "abc"))
	_, err = client.ListChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_LoginAndSignupArePublic(t *testing.T) {
	var sawAuth atomic.Bool
	var signupBody map[string]string
	client, kv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		if r.URL.Path == "/auth/signup" {
			json.NewDecoder(r.Body).Decode(&signupBody)
		}
		writeJSON(w, 200, map[string]string{"access_token": "t", "token_type": "bearer"})
	})
	require.NoError(t, kv.Set(storage.KeyAuthToken, "stale"))

	tok, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t", tok.AccessToken)

	_, err = client.Signup(context.Background(), SignupRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.False(t, sawAuth.Load())
	assert.Equal(t, "en", signupBody["preferred_lang"])
}

// =============================================================================
// UNAUTHORIZED TESTS
// =============================================================================

func TestClient_UnauthorizedTearsDownSession(t *testing.T) {
	client, kv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]string{"detail": "Could not validate credentials"})
	})
	require.NoError(t, kv.Set(storage.KeyAuthToken, "abc"))
	require.NoError(t, kv.Set(storage.KeyUser, `{"name":"a"}`))
	require.NoError(t, kv.Set(storage.KeyLanguage, "ar"))

	var hookCalls atomic.Int32
	client.OnUnauthorized(func() { hookCalls.Add(1) })

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Unauthorized", err.Error())
	assert.Equal(t, int32(1), hookCalls.Load())

	_, ok, _ := kv.Get(storage.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = kv.Get(storage.KeyUser)
	assert.False(t, ok)
	lang, ok, _ := kv.Get(storage.KeyLanguage)
	assert.True(t, ok, "language survives a 401")
	assert.Equal(t, "ar", lang)
}

func TestClient_UnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(401)
	})

	_, err := client.ListChats(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_UnauthorizedHookRunsWhenStorageFails(t *testing.T) {
	client, kv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	})
	kv.FailWrites = errors.New("read-only")

	called := false
	client.OnUnauthorized(func() { called = true })

	err := client.Logout(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, called)
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestClient_HTTPErrorCarriesStatusAndDetail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]string{"detail": "Chat not found"})
	})

	_, err := client.GetChat(context.Background(), "42")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 404, httpErr.StatusCode)
	assert.Equal(t, "Not Found", httpErr.Status)
	assert.Equal(t, "Chat not found", httpErr.Detail)
	assert.Equal(t, "API Error: Not Found (Chat not found)", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"validation list", `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, "field required; bad email"},
		{"message", `{"message":"nope"}`, "nope"},
		{"not json", `<html>oops</html>`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseDetail([]byte(tc.body)))
		})
	}
}

func TestClient_GetRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(503)
			return
		}
		writeJSON(w, 200, map[string]any{"items": []map[string]any{{"id": 1, "title": "x"}}})
	})

	items, err := client.ListChats(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_PostNeverRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(500)
	})

	_, err := client.SendMessage(context.Background(), SendMessageRequest{Content: "hi", Model: "gemini"})
	require.Error(t, err)
	assert.Equal(t, 500, StatusCode(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesExhausted(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
	})
	client.WithMaxRetries(1)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, 502, StatusCode(err))
}

func TestCalculateBackoff(t *testing.T) {
	c := New("", nil)
	assert.Equal(t, retryBaseDelay, c.calculateBackoff(1))
	assert.Equal(t, 2*retryBaseDelay, c.calculateBackoff(2))
	assert.Equal(t, retryMaxDelay, c.calculateBackoff(20))
}

// =============================================================================
// ENDPOINT SHAPE TESTS
// =============================================================================

func TestClient_SendMessageBody(t *testing.T) {
	var bodies []map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var m map[string]any
		assert.NoError(t, json.Unmarshal(raw, &m))
		bodies = append(bodies, m)
		writeJSON(w, 200, map[string]any{
			"chat_id":           7,
			"chat_title":        "Hello there",
			"user_message":      map[string]any{"id": 10, "content": "Hello there"},
			"assistant_message": map[string]any{"id": 11, "content": "Hi!", "model": "groq"},
		})
	})

	resp, err := client.SendMessage(context.Background(), SendMessageRequest{Content: "Hello there", Model: "groq", Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t, ID("7"), resp.ChatID)
	assert.Equal(t, ID("11"), resp.AssistantMessage.ID)
	assert.Equal(t, "groq", resp.AssistantMessage.Model)

	_, err = client.SendMessage(context.Background(), SendMessageRequest{ChatID: "7", Content: "more", Model: "groq"})
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.Nil(t, bodies[0]["chat_id"], "new chat sends null chat_id")
	assert.Contains(t, bodies[0], "chat_id")
	assert.Equal(t, float64(7), bodies[1]["chat_id"])
	assert.NotContains(t, bodies[1], "lang")

	_, err = client.SendMessage(context.Background(), SendMessageRequest{ChatID: "abc", Content: "x"})
	assert.Error(t, err)
	assert.Len(t, bodies, 2, "invalid id never reaches the network")
}

func TestClient_GetChatTolerantShapes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chats/3", r.URL.Path)
		w.Write([]byte(`{
			"id": 3,
			"title": "Trip",
			"messages": [
				{"id": 1, "role": "user", "content": "q", "lang": "en", "created_at": "2025-01-02T03:04:05.123456"},
				{"id": "2", "role": "assistant", "content": "a", "model": "mistral", "timestamp": "2025-01-02T03:04:06Z"}
			]
		}`))
	})

	detail, err := client.GetChat(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, ID("1"), detail.Messages[0].ID)
	assert.Equal(t, ID("2"), detail.Messages[1].ID)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC), detail.Messages[0].Time())
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 6, 0, time.UTC), detail.Messages[1].Time())
}

func TestClient_DeleteAcceptsMessageBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, 200, map[string]string{"message": "Chat 5 deleted successfully"})
	})

	res, err := client.DeleteChat(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestClient_CreateChatNullTitle(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"id": 9, "title": "New Chat"})
	})

	chat, err := client.CreateChat(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, ID("9"), chat.ID)
	assert.Contains(t, body, "title")
	assert.Nil(t, body["title"])
}

func TestClient_GetChatEmptyID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.GetChat(context.Background(), " ")
	assert.Error(t, err)
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"items": []any{}})
	})
	client.WithRateLimit(0.001, 1).WithMaxRetries(0)

	_, err := client.ListChats(context.Background())
	require.NoError(t, err, "first request uses the burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.ListChats(ctx)
	assert.Error(t, err)
}

// =============================================================================
// WIRE PRIMITIVE TESTS
// =============================================================================

func TestParseTimestamp(t *testing.T) {
	utc := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-06T07:08:09Z", utc},
		{"2024-05-06T07:08:09", utc},
		{"2024-05-06 07:08:09", utc},
		{"2024-05-06", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
		{"", time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.True(t, tc.want.Equal(ParseTimestamp(tc.in)), "got %v", ParseTimestamp(tc.in))
		})
	}
}

func TestTimestamp_NullDecodesZero(t *testing.T) {
	var s ChatSummary
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"t","created_at":null}`), &s))
	assert.True(t, s.CreatedAt.IsZero())
	assert.True(t, s.UpdatedAt.IsZero())
}
