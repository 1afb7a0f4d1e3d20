// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

// Session is the part of the auth store guards read.
type Session interface {
	IsAuthenticated() bool
	IsLoading() bool
}

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	// Render shows the guarded view.
	Render DecisionKind = iota
	// Loading shows a neutral spinner instead of the view.
	Loading
	// Redirect replaces the location with Decision.To.
	Redirect
)

// String returns the string representation of the kind.
func (k DecisionKind) String() string {
	switch k {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of a guard.
type Decision struct {
	Kind DecisionKind
	// To is the target path of a redirect.
	To string
}

// Guard decides whether a view renders for a session.
type Guard interface {
	Decide(s Session) Decision
}

// GuardFunc adapts a function to Guard.
type GuardFunc func(s Session) Decision

// Decide implements Guard.
func (f GuardFunc) Decide(s Session) Decision {
	return f(s)
}

// Paths redirected to by the built-in guards.
const (
	LoginPath   = "/login"
	LandingPath = "/landing"
)

// Other fixed locations.
const (
	SignupPath  = "/signup"
	HistoryPath = "/history"
	ProfilePath = "/profile"
)

var (
	// Open renders for everyone.
	Open Guard = GuardFunc(func(Session) Decision {
		return Decision{Kind: Render}
	})

	// RequireAuth renders for signed-in sessions and sends everyone else
	// to the login view.
	RequireAuth Guard = GuardFunc(func(s Session) Decision {
		if s.IsLoading() {
			return Decision{Kind: Loading}
		}
		if s.IsAuthenticated() {
			return Decision{Kind: Render}
		}
		return Decision{Kind: Redirect, To: LoginPath}
	})

	// PublicOnly renders for signed-out sessions and sends signed-in ones
	// to the landing view.
	PublicOnly Guard = GuardFunc(func(s Session) Decision {
		if s.IsLoading() {
			return Decision{Kind: Loading}
		}
		if s.IsAuthenticated() {
			return Decision{Kind: Redirect, To: LandingPath}
		}
		return Decision{Kind: Render}
	})
)
