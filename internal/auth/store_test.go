// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/storage"
)

// =============================================================================
// FAKE GATEWAY
// =============================================================================

type fakeGateway struct {
	mu sync.Mutex

	loginErr   error
	signupErr  error
	logoutErr  error
	profileErr error
	token      string
	profile    *api.ProfileResponse

	// profileGate, when set, blocks Profile until closed
	profileGate chan struct{}

	profileCalls int
	logoutCalls  int
	lastSignup   api.SignupRequest
}

func (f *fakeGateway) Login(ctx context.Context, creds api.Credentials) (*api.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.TokenResponse{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeGateway) Signup(ctx context.Context, req api.SignupRequest) (*api.TokenResponse, error) {
	f.mu.Lock()
	f.lastSignup = req
	f.mu.Unlock()
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &api.TokenResponse{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeGateway) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()
	return f.logoutErr
}

func (f *fakeGateway) Profile(ctx context.Context) (*api.ProfileResponse, error) {
	if f.profileGate != nil {
		<-f.profileGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func sampleProfile() *api.ProfileResponse {
	p := &api.ProfileResponse{Summary: "Likes Go"}
	p.User.Name = "alice"
	p.User.Email = "alice@example.com"
	p.User.MemberSince = api.Timestamp{Time: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	p.Stats.TotalChats = 3
	p.Stats.TotalMessages = 12
	p.Stats.FavoriteModel = "groq"
	return p
}

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, gw *fakeGateway) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	store := NewStore(kv, gw,
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }))
	return store, kv
}

func waitDone(t *testing.T, s *Store) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hydration did not finish")
	}
}

// =============================================================================
// HYDRATE TESTS
// =============================================================================

func TestHydrate_NoToken(t *testing.T) {
	gw := &fakeGateway{}
	store, _ := newTestStore(t, gw)
	assert.True(t, store.IsLoading())

	store.Hydrate(context.Background())
	waitDone(t, store)

	assert.False(t, store.IsLoading())
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, gw.profileCalls, "no network call without a token")
}

func TestHydrate_RestoresSnapshotThenRefreshes(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{profile: sampleProfile(), profileGate: gate}
	store, kv := newTestStore(t, gw)

	require.NoError(t, kv.Set(storage.KeyAuthToken, "tok"))
	require.NoError(t, storage.SetJSON(kv, storage.KeyUser, model.User{ID: "me", Name: "stale"}))

	store.Hydrate(context.Background())

	// Snapshot is visible while the profile request is pending
	u, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "stale", u.Name)
	assert.True(t, store.IsLoading())

	close(gate)
	waitDone(t, store)

	u, ok = store.User()
	require.True(t, ok)
	assert.Equal(t, "alice", u.Name)
	require.NotNil(t, u.Stats)
	assert.Equal(t, 12, u.Stats.MessagesExchanged)
	assert.Equal(t, "Likes Go", u.AISummary)

	var persisted model.User
	found, err := storage.GetJSON(kv, storage.KeyUser, &persisted)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", persisted.Name)
}

func TestHydrate_ProfileFailureKeepsSnapshotAndToken(t *testing.T) {
	gw := &fakeGateway{profileErr: errors.New("network down")}
	store, kv := newTestStore(t, gw)
	require.NoError(t, kv.Set(storage.KeyAuthToken, "tok"))
	require.NoError(t, storage.SetJSON(kv, storage.KeyUser, model.User{ID: "me", Name: "stale"}))

	store.Hydrate(context.Background())
	waitDone(t, store)

	u, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "stale", u.Name)
	assert.Equal(t, "tok", store.Token())
	assert.False(t, store.IsLoading())
}

func TestHydrate_TokenWithoutSnapshot(t *testing.T) {
	gw := &fakeGateway{profileErr: errors.New("down")}
	store, kv := newTestStore(t, gw)
	require.NoError(t, kv.Set(storage.KeyAuthToken, "tok"))

	store.Hydrate(context.Background())
	waitDone(t, store)

	assert.False(t, store.IsAuthenticated(), "token alone is not a session")
}

func TestHydrate_SecondCallIsNoop(t *testing.T) {
	gw := &fakeGateway{profile: sampleProfile()}
	store, kv := newTestStore(t, gw)
	require.NoError(t, kv.Set(storage.KeyAuthToken, "tok"))

	store.Hydrate(context.Background())
	waitDone(t, store)
	store.Hydrate(context.Background())

	time.Sleep(20 * time.Millisecond)
	gw.mu.Lock()
	defer gw.mu.Unlock()
	assert.Equal(t, 1, gw.profileCalls)
}

func TestHydrate_LogoutDuringRefreshWins(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeGateway{profile: sampleProfile(), profileGate: gate}
	store, kv := newTestStore(t, gw)
	require.NoError(t, kv.Set(storage.KeyAuthToken, "tok"))

	store.Hydrate(context.Background())
	store.Invalidate()
	close(gate)
	waitDone(t, store)

	assert.False(t, store.IsAuthenticated())
	_, ok, _ := kv.Get(storage.KeyUser)
	assert.False(t, ok)
}

// =============================================================================
// LOGIN / SIGNUP TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	gw := &fakeGateway{token: "new-token", profile: sampleProfile()}
	store, kv := newTestStore(t, gw)

	require.NoError(t, store.Login(context.Background(), "alice@example.com", "pw"))

	assert.True(t, store.IsAuthenticated())
	tok, _, _ := kv.Get(storage.KeyAuthToken)
	assert.Equal(t, "new-token", tok)
	u, _ := store.User()
	assert.Equal(t, model.CurrentUserID, u.ID)
	assert.Equal(t, "groq", u.Stats.FavoriteModel)
}

func TestLogin_ProfileFailureSynthesizesMinimalUser(t *testing.T) {
	gw := &fakeGateway{token: "t", profileErr: errors.New("500")}
	store, kv := newTestStore(t, gw)

	require.NoError(t, store.Login(context.Background(), "bob@example.com", "pw"))

	u, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, model.MinimalUser("bob@example.com", fixedNow), u)

	var persisted model.User
	found, _ := storage.GetJSON(kv, storage.KeyUser, &persisted)
	assert.True(t, found)
	assert.Equal(t, "bob", persisted.Name)
}

func TestLogin_FailureLeavesNoSession(t *testing.T) {
	gw := &fakeGateway{loginErr: &api.HTTPError{StatusCode: 400, Status: "Bad Request"}}
	store, kv := newTestStore(t, gw)

	err := store.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login", authErr.Op)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())
}

func TestLogin_MissingCredentials(t *testing.T) {
	store, _ := newTestStore(t, &fakeGateway{})
	assert.ErrorIs(t, store.Login(context.Background(), " ", "pw"), ErrMissingCredentials)
	assert.ErrorIs(t, store.Login(context.Background(), "a@b.c", ""), ErrMissingCredentials)
}

func TestLogin_UnauthorizedProfileFailsLogin(t *testing.T) {
	gw := &fakeGateway{token: "t", profileErr: &api.HTTPError{StatusCode: 401, Status: "Unauthorized"}}
	store, kv := newTestStore(t, gw)

	err := store.Login(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())
}

func TestSignup_DefaultsLanguage(t *testing.T) {
	gw := &fakeGateway{token: "t", profile: sampleProfile()}
	store, _ := newTestStore(t, gw)

	require.NoError(t, store.Signup(context.Background(), "alice@example.com", "pw", ""))
	assert.Equal(t, "en", gw.lastSignup.PreferredLang)

	require.NoError(t, store.Signup(context.Background(), "alice@example.com", "pw", model.LangArabic))
	assert.Equal(t, "ar", gw.lastSignup.PreferredLang)
}

func TestSignup_Failure(t *testing.T) {
	gw := &fakeGateway{signupErr: &api.HTTPError{StatusCode: 409, Status: "Conflict", Detail: "Email already registered"}}
	store, _ := newTestStore(t, gw)

	err := store.Signup(context.Background(), "a@b.c", "pw", model.LangEnglish)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "signup", authErr.Op)
	assert.Contains(t, err.Error(), "Email already registered")
}

// =============================================================================
// LOGOUT / INVALIDATE / RESYNC TESTS
// =============================================================================

func TestLogout_IgnoresBackendFailure(t *testing.T) {
	gw := &fakeGateway{token: "t", profile: sampleProfile(), logoutErr: errors.New("offline")}
	store, kv := newTestStore(t, gw)
	require.NoError(t, kv.Set(storage.KeyLanguage, "ar"))
	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))

	store.Logout(context.Background())

	assert.Equal(t, 1, gw.logoutCalls)
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	_, ok, _ := kv.Get(storage.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = kv.Get(storage.KeyUser)
	assert.False(t, ok)
	_, ok, _ = kv.Get(storage.KeyLanguage)
	assert.True(t, ok, "language is not part of the session")
}

func TestInvalidate_NoNetwork(t *testing.T) {
	gw := &fakeGateway{token: "t", profile: sampleProfile()}
	store, _ := newTestStore(t, gw)
	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))

	store.Invalidate()
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, gw.logoutCalls)
}

func TestResync(t *testing.T) {
	gw := &fakeGateway{token: "t", profile: sampleProfile()}
	store, kv := newTestStore(t, gw)
	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))

	assert.False(t, store.Resync(), "nothing changed")

	// Another process logged out
	require.NoError(t, kv.Delete(storage.KeyAuthToken, storage.KeyUser))
	assert.True(t, store.Resync())
	assert.False(t, store.IsAuthenticated())

	// Another process logged in
	require.NoError(t, kv.Set(storage.KeyAuthToken, "other"))
	require.NoError(t, storage.SetJSON(kv, storage.KeyUser, model.User{ID: "me", Name: "carol"}))
	assert.True(t, store.Resync())
	u, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "carol", u.Name)
}

// =============================================================================
// TOKEN EXPIRY TESTS
// =============================================================================

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	gw := &fakeGateway{token: signed, profile: sampleProfile()}
	store, _ := newTestStore(t, gw)

	_, ok := store.TokenExpiry()
	assert.False(t, ok, "no token yet")

	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))
	got, ok := store.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	gw := &fakeGateway{token: "not-a-jwt", profile: sampleProfile()}
	store, _ := newTestStore(t, gw)
	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))

	_, ok := store.TokenExpiry()
	assert.False(t, ok)
}

// =============================================================================
// PROFILE MAPPING TESTS
// =============================================================================

func TestUserFromProfile_EmptyFavorite(t *testing.T) {
	p := sampleProfile()
	p.Stats.FavoriteModel = ""
	u := UserFromProfile(p)
	assert.Equal(t, model.NoFavoriteModel, u.Stats.FavoriteModel)
	assert.Equal(t, 3, u.Stats.TotalChats)
}
