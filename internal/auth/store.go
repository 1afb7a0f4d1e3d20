// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/storage"
)

// Gateway is the subset of the backend the session store calls.
type Gateway interface {
	Login(ctx context.Context, creds api.Credentials) (*api.TokenResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.TokenResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*api.ProfileResponse, error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now, used for memberSince of synthesized users.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the session. All methods are safe for concurrent use.
type Store struct {
	kv     storage.KV
	gw     Gateway
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	user    *model.User
	loading bool

	hydrateOnce sync.Once
	doneOnce    sync.Once
	done        chan struct{}
}

// NewStore creates a store. It starts in the loading state; call Hydrate.
func NewStore(kv storage.KV, gw Gateway, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		gw:      gw,
		logger:  zap.NewNop(),
		now:     time.Now,
		loading: true,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the persisted session and refreshes the profile in the
// background. It returns immediately; Done is closed when loading ends.
// Only the first call has any effect.
func (s *Store) Hydrate(ctx context.Context) {
	s.hydrateOnce.Do(func() {
		token, ok, err := s.kv.Get(storage.KeyAuthToken)
		if err != nil {
			s.logger.Error("failed to read persisted token", zap.Error(err))
		}
		if !ok || token == "" {
			s.finishLoading()
			return
		}

		var snapshot model.User
		found, err := storage.GetJSON(s.kv, storage.KeyUser, &snapshot)
		if err != nil {
			s.logger.Warn("ignoring unreadable user snapshot", zap.Error(err))
		}

		s.mu.Lock()
		s.token = token
		if found {
			s.user = &snapshot
		}
		s.mu.Unlock()

		go s.refreshProfile(ctx, token)
	})
}

// refreshProfile replaces the restored snapshot with a fresh profile.
// Failures keep the stale snapshot and the token.
func (s *Store) refreshProfile(ctx context.Context, token string) {
	defer s.finishLoading()

	resp, err := s.gw.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile refresh failed, keeping snapshot", zap.Error(err))
		return
	}

	user := UserFromProfile(resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session changed while the request was in flight
	if s.token != token {
		return
	}
	s.persistUserLocked(user)
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed once hydration has finished, whatever its outcome.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// =============================================================================
// LOGIN / SIGNUP / LOGOUT
// =============================================================================

// Login authenticates and establishes the session.
//
// When the profile cannot be fetched after a successful login, a minimal
// user is synthesized from the email.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	tok, err := s.gw.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return &AuthError{Op: "login", Err: err}
	}
	return s.establish(ctx, "login", email, tok.AccessToken)
}

// Signup creates an account and establishes the session. An empty lang is
// sent as English.
func (s *Store) Signup(ctx context.Context, email, password string, lang model.Lang) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if lang == "" {
		lang = model.DefaultLang
	}

	tok, err := s.gw.Signup(ctx, api.SignupRequest{
		Email:         email,
		Password:      password,
		PreferredLang: lang.String(),
	})
	if err != nil {
		return &AuthError{Op: "signup", Err: err}
	}
	return s.establish(ctx, "signup", email, tok.AccessToken)
}

// establish persists the token, then resolves and persists the user.
func (s *Store) establish(ctx context.Context, op, email, token string) error {
	if err := s.kv.Set(storage.KeyAuthToken, token); err != nil {
		return &AuthError{Op: op, Err: err}
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	var user model.User
	resp, err := s.gw.Profile(ctx)
	switch {
	case err == nil:
		user = UserFromProfile(resp)
	case errors.Is(err, api.ErrUnauthorized):
		// The gateway has already torn the session down
		s.Invalidate()
		return &AuthError{Op: op, Err: err}
	default:
		s.logger.Warn("profile unavailable after "+op+", using minimal user", zap.Error(err))
		user = model.MinimalUser(email, s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistUserLocked(user)
	s.logger.Info("session established", zap.String("op", op))
	return nil
}

// Logout ends the session. The backend call is best effort; local state is
// cleared whatever it returns.
func (s *Store) Logout(ctx context.Context) {
	if err := s.gw.Logout(ctx); err != nil {
		s.logger.Debug("logout request failed", zap.Error(err))
	}
	s.clear()
	s.logger.Info("logged out")
}

// Invalidate drops the session without a network call. It is the teardown
// run after any 401.
func (s *Store) Invalidate() {
	s.clear()
	s.logger.Info("session invalidated")
}

func (s *Store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if err := s.kv.Delete(storage.KeyUser, storage.KeyAuthToken); err != nil {
		s.logger.Error("failed to clear persisted session", zap.Error(err))
	}
}

// Resync reloads the session from storage after another process changed
// it. It reports whether the in-memory session changed.
func (s *Store) Resync() bool {
	token, ok, err := s.kv.Get(storage.KeyAuthToken)
	if err != nil {
		s.logger.Warn("resync: failed to read token", zap.Error(err))
		return false
	}
	if !ok {
		token = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == s.token {
		return false
	}

	s.token = token
	if token == "" {
		s.user = nil
		return true
	}

	var snapshot model.User
	found, err := storage.GetJSON(s.kv, storage.KeyUser, &snapshot)
	if err != nil || !found {
		s.user = nil
		return true
	}
	s.user = &snapshot
	return true
}

// persistUserLocked replaces the user in memory and storage. s.mu must be held.
func (s *Store) persistUserLocked(user model.User) {
	s.user = &user
	if err := storage.SetJSON(s.kv, storage.KeyUser, user); err != nil {
		s.logger.Error("failed to persist user snapshot", zap.Error(err))
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// IsAuthenticated reports whether a user is held in memory.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsLoading reports whether hydration is still running.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns a copy of the signed-in user.
func (s *Store) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return s.user.Clone(), true
}

// Token returns the bearer token held in memory.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenExpiry returns the exp claim of the token for display. The signature
// is not verified and expiry never ends a session on its own.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// =============================================================================
// PROFILE MAPPING
// =============================================================================

// UserFromProfile reshapes the grouped profile response into a User.
func UserFromProfile(resp *api.ProfileResponse) model.User {
	favorite := resp.Stats.FavoriteModel
	if favorite == "" {
		favorite = model.NoFavoriteModel
	}
	return model.User{
		ID:          model.CurrentUserID,
		Name:        resp.User.Name,
		Email:       resp.User.Email,
		MemberSince: resp.User.MemberSince.Time,
		AISummary:   resp.Summary,
		Stats: &model.UserStats{
			TotalChats:        resp.Stats.TotalChats,
			MessagesExchanged: resp.Stats.TotalMessages,
			FavoriteModel:     favorite,
		},
	}
}
