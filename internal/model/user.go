// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// CurrentUserID is the ID given to the signed-in user. The backend never
// exposes numeric user IDs to the client.
const CurrentUserID = "me"

// User is the signed-in account. It is replaced wholesale after each
// profile fetch and never patched field by field.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	MemberSince time.Time  `json:"memberSince"`
	AISummary   string     `json:"aiSummary,omitempty"`
	Stats       *UserStats `json:"stats,omitempty"`
}

// UserStats holds the usage counters shown on the profile view.
type UserStats struct {
	TotalChats        int    `json:"totalChats"`
	MessagesExchanged int    `json:"messagesExchanged"`
	FavoriteModel     string `json:"favoriteModel"`
}

// EmptyStats returns the placeholder stats for a user with no activity.
func EmptyStats() UserStats {
	return UserStats{FavoriteModel: NoFavoriteModel}
}

// MinimalUser builds the record used when login succeeds but the profile
// endpoint is unavailable: the email's local part as the name, joined now.
func MinimalUser(email string, now time.Time) User {
	return User{
		ID:          CurrentUserID,
		Name:        DisplayNameFromEmail(email),
		Email:       email,
		MemberSince: now,
	}
}

// DisplayNameFromEmail returns the local part of an email address.
func DisplayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	if u.Stats != nil {
		stats := *u.Stats
		u.Stats = &stats
	}
	return u
}
