// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"net/url"
	"strings"
)

// Route names used by the application.
const (
	RouteIndex    = "index"
	RouteLanding  = "landing"
	RouteLogin    = "login"
	RouteSignup   = "signup"
	RouteChat     = "chat"
	RouteHistory  = "history"
	RouteProfile  = "profile"
	RouteNotFound = "notfound"
)

// Route is one entry of the route table.
type Route struct {
	// Pattern is a path with optional :param segments, or "*".
	Pattern string
	Name    string
	Guard   Guard
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns a path parameter or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table resolves paths against routes in declaration order.
type Table struct {
	routes   []Route
	fallback Route
}

// NewTable builds a table. A route with pattern "*" becomes the fallback;
// without one, unmatched paths resolve to a not-found route with Open.
func NewTable(routes ...Route) *Table {
	t := &Table{fallback: Route{Pattern: "*", Name: RouteNotFound, Guard: Open}}
	for _, r := range routes {
		if r.Guard == nil {
			r.Guard = Open
		}
		if r.Pattern == "*" {
			t.fallback = r
			continue
		}
		t.routes = append(t.routes, r)
	}
	return t
}

// DefaultTable returns the polychat route surface.
func DefaultTable() *Table {
	return NewTable(
		Route{Pattern: "/", Name: RouteIndex, Guard: Open},
		Route{Pattern: "/landing", Name: RouteLanding, Guard: Open},
		Route{Pattern: "/login", Name: RouteLogin, Guard: PublicOnly},
		Route{Pattern: "/signup", Name: RouteSignup, Guard: PublicOnly},
		Route{Pattern: "/chat", Name: RouteChat, Guard: RequireAuth},
		Route{Pattern: "/chat/:chatId", Name: RouteChat, Guard: RequireAuth},
		Route{Pattern: "/history", Name: RouteHistory, Guard: RequireAuth},
		Route{Pattern: "/profile", Name: RouteProfile, Guard: RequireAuth},
		Route{Pattern: "*", Name: RouteNotFound, Guard: Open},
	)
}

// Resolve finds the first route matching path. It always returns a match.
func (t *Table) Resolve(path string) Match {
	path = Clean(path)
	segs := splitPath(path)

	for _, r := range t.routes {
		if params, ok := matchPattern(splitPath(r.Pattern), segs); ok {
			return Match{Route: r, Path: path, Params: params}
		}
	}
	return Match{Route: t.fallback, Path: path, Params: map[string]string{}}
}

// Clean normalizes a location: leading slash, no trailing slash, no query.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return path
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := make(map[string]string)
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[p[1:]] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// ChatPath returns the location of a conversation, or /chat for a new one.
func ChatPath(chatID string) string {
	if chatID == "" {
		return "/chat"
	}
	return "/chat/" + url.PathEscape(chatID)
}
