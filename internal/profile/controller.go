// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile implements the controller behind the profile view.
//
// Every activation fetches the profile again; nothing is cached between
// visits. When the fetch fails the view falls back to the user held by the
// session, then to placeholders, so no field is ever blank.
package profile

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/auth"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
)

// Placeholders shown when neither the backend nor the session knows a value.
const (
	FallbackName  = "User"
	FallbackEmail = "N/A"

	fallbackSummary = "No AI summary available yet. Start chatting to generate personalized insights about your interests and preferences."
)

// Gateway is the subset of the backend the controller calls.
type Gateway interface {
	Profile(ctx context.Context) (*api.ProfileResponse, error)
}

// UserSource supplies the session's user for fallbacks.
type UserSource interface {
	User() (model.User, bool)
}

// Translator renders the "no summary yet" text.
type Translator interface {
	T(key string, args ...any) string
}

// View is the display-ready profile. Every string field is non-empty.
type View struct {
	Name        string
	Email       string
	MemberSince time.Time
	Stats       model.UserStats
	Summary     string
	// FromServer is false when the fetch failed and fallbacks were used.
	FromServer bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTranslator localizes the summary placeholder.
func WithTranslator(tr Translator) Option {
	return func(c *Controller) { c.tr = tr }
}

// Controller loads the profile for one view activation.
type Controller struct {
	gw     Gateway
	users  UserSource
	tr     Translator
	logger *zap.Logger

	mu      sync.Mutex
	view    View
	loading bool
	loaded  bool
}

// New creates a controller.
func New(gw Gateway, users UserSource, opts ...Option) *Controller {
	c := &Controller{
		gw:      gw,
		users:   users,
		logger:  zap.NewNop(),
		loading: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the profile and rebuilds the view. A failure is logged and
// returned, and the view is built from fallbacks.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	resp, err := c.gw.Profile(ctx)

	var stored *model.User
	if c.users != nil {
		if u, ok := c.users.User(); ok {
			stored = &u
		}
	}

	var view View
	if err != nil {
		c.logger.Warn("failed to fetch profile, using fallbacks", zap.Error(err))
		view = c.build(nil, stored)
	} else {
		u := auth.UserFromProfile(resp)
		view = c.build(&u, stored)
		view.FromServer = true
	}

	c.mu.Lock()
	c.view = view
	c.loading = false
	c.loaded = true
	c.mu.Unlock()
	return err
}

// build merges the fetched user over the stored one, then placeholders.
func (c *Controller) build(fetched, stored *model.User) View {
	pick := func(get func(u *model.User) string, fallback string) string {
		for _, u := range []*model.User{fetched, stored} {
			if u == nil {
				continue
			}
			if v := strings.TrimSpace(get(u)); v != "" {
				return v
			}
		}
		return fallback
	}

	view := View{
		Name:    pick(func(u *model.User) string { return u.Name }, FallbackName),
		Email:   pick(func(u *model.User) string { return u.Email }, FallbackEmail),
		Summary: pick(func(u *model.User) string { return u.AISummary }, c.noSummary()),
		Stats:   model.EmptyStats(),
	}

	for _, u := range []*model.User{fetched, stored} {
		if u != nil && !u.MemberSince.IsZero() {
			view.MemberSince = u.MemberSince
			break
		}
	}
	for _, u := range []*model.User{fetched, stored} {
		if u != nil && u.Stats != nil {
			view.Stats = *u.Stats
			if view.Stats.FavoriteModel == "" {
				view.Stats.FavoriteModel = model.NoFavoriteModel
			}
			break
		}
	}
	return view
}

func (c *Controller) noSummary() string {
	if c.tr == nil {
		return fallbackSummary
	}
	return c.tr.T(locale.ProfileNoSummary)
}

// View returns the current display-ready profile. Before the first Load it
// is built from the session user alone.
func (c *Controller) View() View {
	c.mu.Lock()
	loaded, view := c.loaded, c.view
	c.mu.Unlock()
	if loaded {
		return view
	}

	var stored *model.User
	if c.users != nil {
		if u, ok := c.users.User(); ok {
			stored = &u
		}
	}
	return c.build(nil, stored)
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
