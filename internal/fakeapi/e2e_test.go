// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/auth"
	"github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/fakeapi"
	"github.com/jeranaias/polychat/internal/history"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/notify"
	"github.com/jeranaias/polychat/internal/profile"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/storage"
)

// stack is the client side wired the way the application wires it.
type stack struct {
	srv     *fakeapi.Server
	kv      *storage.Memory
	client  *api.Client
	session *auth.Store
	nav     *router.Navigator
	center  *notify.Center
	lang    *locale.Store
}

func newStack(t *testing.T, opts ...fakeapi.Option) *stack {
	t.Helper()
	logger := zaptest.NewLogger(t)

	srv := fakeapi.New(append([]fakeapi.Option{fakeapi.WithLogger(logger)}, opts...)...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	kv := storage.NewMemory()
	client := api.New(ts.URL, kv).WithLogger(logger).WithRetryDelay(time.Millisecond)
	session := auth.NewStore(kv, client, auth.WithLogger(logger))
	nav := router.NewNavigator(router.LandingPath)
	client.OnUnauthorized(func() {
		session.Invalidate()
		nav.Replace(router.LoginPath)
	})

	return &stack{
		srv:     srv,
		kv:      kv,
		client:  client,
		session: session,
		nav:     nav,
		center:  notify.NewCenter(),
		lang:    locale.NewStore(kv, logger),
	}
}

func TestEndToEnd_SignupChatHistoryProfile(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()

	require.NoError(t, st.session.Signup(ctx, "ada@example.com", "secret", model.LangEnglish))
	assert.True(t, st.session.IsAuthenticated())
	user, ok := st.session.User()
	require.True(t, ok)
	assert.Equal(t, "ada", user.Name)
	require.NotNil(t, user.Stats)
	assert.Equal(t, "gemini", user.Stats.FavoriteModel)

	exp, ok := st.session.TokenExpiry()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(fakeapi.DefaultTokenTTL), exp, time.Minute)

	st.nav.Navigate(router.ChatPath(""))
	ctrl := chat.New(st.client, st.nav, st.center, chat.WithLanguage(st.lang))
	require.NoError(t, ctrl.Mount(ctx, ""))

	reply, err := ctrl.Send(ctx, "Tell me about the Nile river please today", model.ModelGroq, model.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, "(groq) You said: Tell me about the Nile river please today", reply.Content)
	assert.Equal(t, model.ModelGroq, reply.Model)
	assert.Equal(t, "1", ctrl.ChatID())
	assert.Equal(t, "Tell me about the Nile river...", ctrl.Title())
	assert.Equal(t, "/chat/1", st.nav.Current())
	require.Len(t, ctrl.Messages(), 2)

	_, err = ctrl.Send(ctx, "and its length?", model.ModelMistral, model.LangEnglish)
	require.NoError(t, err)
	assert.Equal(t, 1, st.srv.ChatCount("ada@example.com"), "follow-up appends to the same chat")

	// A fresh mount sees the server's copy, including models on replies
	fresh := chat.New(st.client, st.nav, st.center)
	require.NoError(t, fresh.Mount(ctx, "1"))
	msgs := fresh.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.ModelMistral, msgs[3].Model)
	assert.False(t, msgs[0].Timestamp.IsZero())

	hist := history.New(st.client, st.center, history.WithTranslator(st.lang))
	require.NoError(t, hist.Load(ctx))
	convs := hist.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "1", convs[0].ID)
	assert.Equal(t, model.ModelGemini, convs[0].Model, "list items carry no model")

	prof := profile.New(st.client, st.session, profile.WithTranslator(st.lang))
	require.NoError(t, prof.Load(ctx))
	view := prof.View()
	assert.True(t, view.FromServer)
	assert.Equal(t, 1, view.Stats.TotalChats)
	assert.Equal(t, 4, view.Stats.MessagesExchanged)
	assert.Contains(t, view.Summary, "Recent topics")

	require.NoError(t, hist.Delete(ctx, "1"))
	assert.Empty(t, hist.Conversations())
	assert.Equal(t, 0, st.srv.ChatCount("ada@example.com"))
	active := st.center.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, notify.KindSuccess, active[len(active)-1].Kind)
}

func TestEndToEnd_DeleteFailureRestoresList(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	require.NoError(t, st.session.Signup(ctx, "a@b.c", "pw", ""))

	ctrl := chat.New(st.client, st.nav, st.center)
	for _, text := range []string{"one", "two"} {
		ctrl.NewChat()
		_, err := ctrl.Send(ctx, text, model.ModelGemini, model.LangEnglish)
		require.NoError(t, err)
	}

	hist := history.New(st.client, st.center)
	require.NoError(t, hist.Load(ctx))
	before := hist.Conversations()
	require.Len(t, before, 2)

	st.srv.FailNext(http.MethodDelete, "/chats/1", http.StatusInternalServerError, "db down")
	err := hist.Delete(ctx, "1")
	require.Error(t, err)
	assert.Equal(t, before, hist.Conversations())

	active := st.center.Active()
	require.NotEmpty(t, active)
	last := active[len(active)-1]
	assert.Equal(t, notify.KindError, last.Kind)
	assert.Equal(t, "API Error: Internal Server Error (db down)", last.Message)
}

func TestEndToEnd_RevokedTokenTearsDownSession(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	require.NoError(t, st.session.Signup(ctx, "a@b.c", "pw", model.LangArabic))
	require.NoError(t, st.lang.SetLanguage(model.LangArabic))
	st.nav.Navigate("/history")

	st.srv.RevokeToken(st.session.Token())

	hist := history.New(st.client, st.center)
	err := hist.Load(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.False(t, st.session.IsAuthenticated())
	_, ok, _ := st.kv.Get(storage.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = st.kv.Get(storage.KeyUser)
	assert.False(t, ok)
	assert.Equal(t, router.LoginPath, st.nav.Current())

	lang, ok, _ := st.kv.Get(storage.KeyLanguage)
	assert.True(t, ok)
	assert.Equal(t, "ar", lang, "language survives a forced logout")
}

func TestEndToEnd_HydrateRestoresSession(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	require.NoError(t, st.session.Signup(ctx, "grace@navy.mil", "pw", ""))

	// A second process over the same persisted state
	restarted := auth.NewStore(st.kv, st.client)
	restarted.Hydrate(ctx)
	assert.True(t, restarted.IsAuthenticated(), "token restored before the profile arrives")

	select {
	case <-restarted.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("hydration did not finish")
	}
	assert.False(t, restarted.IsLoading())
	user, ok := restarted.User()
	require.True(t, ok)
	assert.Equal(t, "grace@navy.mil", user.Email)
}

func TestEndToEnd_BadCredentials(t *testing.T) {
	st := newStack(t)
	require.NoError(t, st.srv.AddUser("a@b.c", "right", "en"))

	err := st.session.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	var authErr *auth.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.False(t, st.session.IsAuthenticated())
}

func TestEndToEnd_SendFailureRemovesProvisional(t *testing.T) {
	st := newStack(t)
	ctx := context.Background()
	require.NoError(t, st.session.Signup(ctx, "a@b.c", "pw", ""))

	ctrl := chat.New(st.client, st.nav, st.center)
	require.NoError(t, ctrl.Mount(ctx, ""))

	st.srv.FailNext(http.MethodPost, "/messages/send", http.StatusServiceUnavailable, "AI provider/model not available")
	_, err := ctrl.Send(ctx, "hello", model.ModelGemini, model.LangEnglish)
	require.Error(t, err)
	assert.Empty(t, ctrl.Messages())
	assert.Equal(t, "", ctrl.ChatID())
	assert.True(t, st.session.IsAuthenticated(), "non-401 errors keep the session")
}
