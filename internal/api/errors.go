// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is matched by every error caused by a 401 response.
	// The session has already been torn down when a caller sees it.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrResponseTooLarge indicates a response body over MaxResponseSize.
	ErrResponseTooLarge = errors.New("response exceeded maximum size")
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	// Status is the reason phrase, e.g. "Not Found".
	Status string
	// Detail is the backend's explanation when the body carried one.
	Detail string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized.Error()
	}
	if e.Detail != "" {
		return fmt.Sprintf("API Error: %s (%s)", e.Status, e.Detail)
	}
	return "API Error: " + e.Status
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// newHTTPError builds an HTTPError from a response status and body.
func newHTTPError(statusCode int, body []byte) *HTTPError {
	status := http.StatusText(statusCode)
	if status == "" {
		status = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &HTTPError{
		StatusCode: statusCode,
		Status:     status,
		Detail:     parseDetail(body),
	}
}

// parseDetail extracts the message of a FastAPI style error body.
// detail is either a string or a list of validation errors.
func parseDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return payload.Message
}
