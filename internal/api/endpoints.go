// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for a token. No bearer token is attached.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds, public: true}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login: empty access token in response")
	}
	return &out, nil
}

// Signup creates an account and returns its token. An empty preferred
// language is sent as "en".
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*TokenResponse, error) {
	if req.PreferredLang == "" {
		req.PreferredLang = "en"
	}
	var out TokenResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: req, public: true}, &out)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("signup: empty access token in response")
	}
	return &out, nil
}

// Logout tells the backend the session is over.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

// Profile fetches the signed-in user's profile, stats and summary.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// ListChats returns the conversation summaries of the signed-in user.
func (c *Client) ListChats(ctx context.Context) ([]ChatSummary, error) {
	var out ChatList
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chats"}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateChat creates an empty conversation. An empty title is sent as null.
func (c *Client) CreateChat(ctx context.Context, title string) (*CreatedChat, error) {
	body := struct {
		Title *string `json:"title"`
	}{}
	if title != "" {
		body.Title = &title
	}

	var out CreatedChat
	if err := c.do(ctx, request{method: http.MethodPost, path: "/chats", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChat fetches a conversation with its messages.
func (c *Client) GetChat(ctx context.Context, id string) (*ChatDetail, error) {
	p, err := chatPath(id)
	if err != nil {
		return nil, err
	}
	var out ChatDetail
	if err := c.do(ctx, request{method: http.MethodGet, path: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChat deletes a conversation. Any 2xx response is success.
func (c *Client) DeleteChat(ctx context.Context, id string) (*DeleteResult, error) {
	p, err := chatPath(id)
	if err != nil {
		return nil, err
	}
	var out DeleteResult
	if err := c.do(ctx, request{method: http.MethodDelete, path: p}, &out); err != nil {
		return nil, err
	}
	out.Success = true
	return &out, nil
}

// =============================================================================
// MESSAGE ENDPOINTS
// =============================================================================

// SendMessage posts a user message and returns the assistant reply.
// A numeric ChatID appends to that conversation; an empty one creates a new
// conversation server-side.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	body := sendMessageBody{
		Content: req.Content,
		Model:   req.Model,
		Lang:    req.Lang,
	}
	if id := strings.TrimSpace(req.ChatID); id != "" {
		n := json.Number(id)
		if _, err := n.Int64(); err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", id, err)
		}
		body.ChatID = &n
	}

	var out SendMessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/messages/send", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func chatPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errMissingID
	}
	return "/chats/" + url.PathEscape(id), nil
}
