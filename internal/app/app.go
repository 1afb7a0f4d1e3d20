// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app wires polychat's stores, gateway and controllers together.
//
// Both front ends (the TUI and the line-mode CLI) build one App and share
// the same session semantics through it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/auth"
	"github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/config"
	"github.com/jeranaias/polychat/internal/history"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/profile"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/storage"
)

// App is the composition root.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	KV      storage.KV
	Client  *api.Client
	Session *auth.Store
	Locale  *locale.Store
	Nav     *router.Navigator
	Routes  *router.Table
	Notify  *notify.Center

	closeKV func() error
}

// Option configures New.
type Option func(*options)

type options struct {
	kv     storage.KV
	logger *zap.Logger
	start  string
}

// WithKV supplies the state store instead of opening cfg.Storage.StatePath.
func WithKV(kv storage.KV) Option {
	return func(o *options) { o.kv = kv }
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStartPath sets the navigator's initial location.
func WithStartPath(path string) Option {
	return func(o *options) { o.start = path }
}

// New builds an App from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: zap.NewNop(), start: "/"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	a := &App{
		Config: cfg,
		Logger: o.logger,
		Routes: router.DefaultTable(),
		Nav:    router.NewNavigator(o.start),
		Notify: notify.NewCenter(),
	}

	if o.kv != nil {
		a.KV = o.kv
		a.closeKV = func() error { return nil }
	} else {
		db, err := storage.OpenSQLite(cfg.Storage.StatePath)
		if err != nil {
			return nil, fmt.Errorf("open state: %w", err)
		}
		a.KV = db
		a.closeKV = db.Close
	}

	a.Client = api.New(cfg.API.URL, a.KV).
		WithTimeout(cfg.API.Timeout()).
		WithMaxRetries(cfg.API.MaxRetries).
		WithRateLimit(cfg.API.RateLimit, cfg.API.Burst).
		WithLogger(o.logger.Named("api"))

	a.Session = auth.NewStore(a.KV, a.Client, auth.WithLogger(o.logger.Named("auth")))
	a.Locale = locale.NewStore(a.KV, o.logger.Named("locale"))
	a.seedLanguage()

	// Any 401 ends the session and lands on the login view
	a.Client.OnUnauthorized(func() {
		expired := a.Session.IsAuthenticated()
		a.Session.Invalidate()
		a.Nav.Replace(router.LoginPath)
		if expired {
			a.Notify.Warning(a.Locale.T(locale.SessionExpired))
		}
	})

	return a, nil
}

// seedLanguage applies the configured default language when none has been
// chosen yet.
func (a *App) seedLanguage() {
	if _, ok, err := a.KV.Get(storage.KeyLanguage); err != nil || ok {
		return
	}
	if l, ok := locale.Parse(a.Config.UI.Language); ok && l != model.DefaultLang {
		if err := a.Locale.SetLanguage(l); err != nil {
			a.Logger.Warn("failed to seed language", zap.Error(err))
		}
	}
}

// DefaultModel returns the configured default model.
func (a *App) DefaultModel() model.AIModel {
	return model.ModelOr(a.Config.UI.DefaultModel, model.DefaultModel)
}

// NewChat builds a chat controller bound to the app's navigator and
// notifications.
func (a *App) NewChat() *chat.Controller {
	return chat.New(a.Client, a.Nav, a.Notify,
		chat.WithLogger(a.Logger.Named("chat")),
		chat.WithLanguage(a.Locale),
		chat.WithModel(a.DefaultModel()),
	)
}

// NewHistory builds a history controller.
func (a *App) NewHistory() *history.Controller {
	return history.New(a.Client, a.Notify,
		history.WithLogger(a.Logger.Named("history")),
		history.WithTranslator(a.Locale),
	)
}

// NewProfile builds a profile controller.
func (a *App) NewProfile() *profile.Controller {
	return profile.New(a.Client, a.Session,
		profile.WithLogger(a.Logger.Named("profile")),
		profile.WithTranslator(a.Locale),
	)
}

// Decide runs the guard of the route at path against the session.
func (a *App) Decide(path string) (router.Match, router.Decision) {
	m := a.Routes.Resolve(path)
	return m, m.Route.Guard.Decide(a.Session)
}

// WatchState reloads the session and language whenever another polychat
// process writes the state file. onChange runs after a reload that changed
// the session. It is a no-op for stores that are not file backed.
func (a *App) WatchState(ctx context.Context, onChange func()) error {
	db, ok := a.KV.(*storage.SQLite)
	if !ok {
		return nil
	}
	return storage.Watch(ctx, db.Path(), func() {
		a.Locale.Reload()
		if a.Session.Resync() {
			a.Logger.Info("session changed by another process")
			if !a.Session.IsAuthenticated() {
				a.Nav.Replace(router.LoginPath)
			}
			if onChange != nil {
				onChange()
			}
		}
	})
}

// Close releases the state store.
func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.closeKV != nil {
		return a.closeKV()
	}
	return nil
}
