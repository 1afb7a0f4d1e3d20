// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned before any network call when the email
// or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// AuthError wraps a failed login or signup.
type AuthError struct {
	// Op is "login" or "signup".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}
