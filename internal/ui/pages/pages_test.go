// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/ui/uitest"
	"github.com/jeranaias/polychat/internal/ui/view"
)

func sized[P view.Page](p P) P {
	p.SetSize(100, 30)
	return p
}

// seedChats creates one chat per title for the signed-in user.
func seedChats(t *testing.T, h *uitest.Harness, titles ...string) {
	t.Helper()
	for _, title := range titles {
		_, err := h.App.Client.SendMessage(context.Background(), api.SendMessageRequest{
			Content: title,
			Model:   "groq",
			Lang:    "en",
		})
		require.NoError(t, err)
	}
}

// =============================================================================
// LANDING
// =============================================================================

func TestLanding_Actions(t *testing.T) {
	h := uitest.New(t)
	page := sized(NewLanding(h.Env))

	out := page.View()
	for _, info := range model.Models {
		assert.Contains(t, out, info.Description)
	}
	assert.Contains(t, out, "Log in")

	page.Update(uitest.Key("enter"))
	assert.Equal(t, router.LoginPath, h.App.Nav.Current(), "signed out users are sent to log in")

	page.Update(uitest.Key("s"))
	assert.Equal(t, router.SignupPath, h.App.Nav.Current())

	h.SignIn(t, "ada@example.com")
	assert.Contains(t, page.View(), "Start chatting")
	page.Update(uitest.Key("enter"))
	assert.Equal(t, "/chat", h.App.Nav.Current())
}

// =============================================================================
// AUTH
// =============================================================================

func typeInto(p view.Page, text string) {
	p.Update(uitest.Key(text))
}

func TestAuth_MissingFieldsStayLocal(t *testing.T) {
	h := uitest.New(t)
	page := sized(NewAuth(h.Env, ModeLogin))

	_, cmd := page.Update(uitest.Key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, page.View(), "Email and password are required")
	assert.False(t, h.App.Session.IsAuthenticated())
}

func TestAuth_Login(t *testing.T) {
	h := uitest.New(t)
	require.NoError(t, h.Server.AddUser("ada@example.com", "secret", "en"))
	h.App.Nav.Replace(router.LoginPath)

	page := sized(NewAuth(h.Env, ModeLogin))
	typeInto(page, "ada@example.com")
	page.Update(uitest.Key("tab"))
	typeInto(page, "secret")
	_, cmd := page.Update(uitest.Key("enter"))

	res := uitest.Await[AuthResultMsg](t, cmd)
	require.NoError(t, res.Err)
	page.Update(res)

	assert.True(t, h.App.Session.IsAuthenticated())
	assert.Equal(t, "/chat", h.App.Nav.Current())
	active := h.App.Notify.Active()
	require.NotEmpty(t, active)
	assert.Contains(t, active[0].Message, "Welcome")
}

func TestAuth_LoginRejected(t *testing.T) {
	h := uitest.New(t)
	require.NoError(t, h.Server.AddUser("ada@example.com", "secret", "en"))
	h.App.Nav.Replace(router.LoginPath)

	page := sized(NewAuth(h.Env, ModeLogin))
	typeInto(page, "ada@example.com")
	page.Update(uitest.Key("tab"))
	typeInto(page, "wrong")
	_, cmd := page.Update(uitest.Key("enter"))

	res := uitest.Await[AuthResultMsg](t, cmd)
	require.Error(t, res.Err)
	page.Update(res)

	assert.False(t, h.App.Session.IsAuthenticated())
	assert.Equal(t, router.LoginPath, h.App.Nav.Current())
	assert.Empty(t, page.password.Value(), "password is cleared after a failure")
	active := h.App.Notify.Active()
	require.NotEmpty(t, active)
	assert.Contains(t, active[0].Message, "Login failed")
}

func TestAuth_SignupWithLanguage(t *testing.T) {
	h := uitest.New(t)
	page := sized(NewAuth(h.Env, ModeSignup))

	typeInto(page, "noor@example.com")
	page.Update(uitest.Key("tab"))
	typeInto(page, "pw")
	page.Update(uitest.Key("tab"))
	page.Update(uitest.Key("right"))
	assert.Equal(t, model.LangArabic, page.lang)

	_, cmd := page.Update(uitest.Key("enter"))
	res := uitest.Await[AuthResultMsg](t, cmd)
	require.NoError(t, res.Err)

	assert.True(t, h.App.Session.IsAuthenticated())
	assert.Equal(t, model.LangArabic, h.App.Locale.Language())
	assert.Equal(t, "/chat", h.App.Nav.Current())
}

func TestAuth_SwitchForms(t *testing.T) {
	h := uitest.New(t)

	login := NewAuth(h.Env, ModeLogin)
	login.Update(uitest.Key("ctrl+s"))
	assert.Equal(t, router.SignupPath, h.App.Nav.Current())

	signup := NewAuth(h.Env, ModeSignup)
	signup.Update(uitest.Key("ctrl+l"))
	assert.Equal(t, router.LoginPath, h.App.Nav.Current())

	signup.Update(uitest.Key("esc"))
	assert.Equal(t, router.LandingPath, h.App.Nav.Current())
}

// =============================================================================
// HISTORY
// =============================================================================

func loadHistory(t *testing.T, h *uitest.Harness) *History {
	t.Helper()
	page := sized(NewHistory(h.Env))
	res := uitest.Await[HistoryLoadedMsg](t, page.Init())
	require.NoError(t, res.Err)
	page.Update(res)
	return page
}

func TestHistory_ListAndOpen(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	seedChats(t, h, "first topic", "second topic")

	page := loadHistory(t, h)
	out := page.View()
	assert.Contains(t, out, "first topic")
	assert.Contains(t, out, "second topic")

	visible := page.ctl.Visible()
	require.Len(t, visible, 2)
	page.Update(uitest.Key("j"))
	page.Update(uitest.Key("enter"))
	assert.Equal(t, router.ChatPath(visible[1].ID), h.App.Nav.Current())
}

func TestHistory_Empty(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")

	page := loadHistory(t, h)
	assert.Contains(t, page.View(), "No chats yet")
}

func TestHistory_Search(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	seedChats(t, h, "Go generics", "Arabic poetry")

	page := loadHistory(t, h)
	page.Update(uitest.Key("/"))
	assert.True(t, page.CapturesInput())

	typeInto(page, "POETRY")
	assert.Equal(t, "POETRY", page.ctl.Query())
	out := page.View()
	assert.Contains(t, out, "Arabic poetry")
	assert.NotContains(t, out, "Go generics")

	page.Update(uitest.Key("enter"))
	assert.False(t, page.CapturesInput())

	page.Update(uitest.Key("esc"))
	assert.Empty(t, page.ctl.Query(), "esc clears an active query first")

	page.Update(uitest.Key("/"))
	typeInto(page, "zzz")
	assert.Contains(t, page.View(), "No chats match your search")
}

func TestHistory_DeleteNeedsConfirmation(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	seedChats(t, h, "keep me", "drop me")

	page := loadHistory(t, h)
	target := page.ctl.Visible()[0]

	page.Update(uitest.Key("d"))
	assert.Contains(t, page.View(), target.Title)
	_, cmd := page.Update(uitest.Key("n"))
	assert.Nil(t, cmd)
	assert.Len(t, page.ctl.Visible(), 2)

	page.Update(uitest.Key("d"))
	_, cmd = page.Update(uitest.Key("y"))
	res := uitest.Await[HistoryDeletedMsg](t, cmd)
	require.NoError(t, res.Err)
	page.Update(res)

	assert.Len(t, page.ctl.Visible(), 1)
	assert.Equal(t, 1, h.Server.ChatCount("ada@example.com"))
	assert.Equal(t, "Deleted successfully", h.App.Notify.Active()[0].Message)
}

func TestHistory_DeleteFailureRestores(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	seedChats(t, h, "stubborn")

	page := loadHistory(t, h)
	id := page.ctl.Visible()[0].ID
	h.Server.FailNext(http.MethodDelete, "/chats/"+id, http.StatusInternalServerError, "nope")

	page.Update(uitest.Key("d"))
	_, cmd := page.Update(uitest.Key("y"))
	res := uitest.Await[HistoryDeletedMsg](t, cmd)
	require.Error(t, res.Err)

	assert.Len(t, page.ctl.Visible(), 1)
}

// =============================================================================
// PROFILE
// =============================================================================

func TestProfile_ShowsStats(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	seedChats(t, h, "hello")

	page := sized(NewProfile(h.Env))
	res := uitest.Await[ProfileLoadedMsg](t, page.Init())
	require.NoError(t, res.Err)
	page.Update(res)

	out := page.View()
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Total chats")
	assert.Contains(t, out, "GROQ")
	assert.False(t, page.spinner.IsActive())
}

func TestProfile_Logout(t *testing.T) {
	h := uitest.New(t)
	h.SignIn(t, "ada@example.com")
	h.App.Nav.Replace(router.ProfilePath)

	page := sized(NewProfile(h.Env))
	_, cmd := page.Update(uitest.Key("o"))
	uitest.Await[LoggedOutMsg](t, cmd)

	assert.False(t, h.App.Session.IsAuthenticated())
	assert.Equal(t, router.LoginPath, h.App.Nav.Current())
	assert.Equal(t, "Logged out", h.App.Notify.Active()[0].Message)
}

// =============================================================================
// NOT FOUND / LOADING
// =============================================================================

func TestNotFound(t *testing.T) {
	h := uitest.New(t)
	h.App.Nav.Navigate("/nowhere")

	page := sized(NewNotFound(h.Env, "/nowhere"))
	out := page.View()
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "/nowhere")

	page.Update(uitest.Key("enter"))
	assert.Equal(t, "/", h.App.Nav.Current())
}

func TestLoading(t *testing.T) {
	h := uitest.New(t)
	page := sized(NewLoading(h.Env))

	assert.NotNil(t, page.Init())
	assert.Contains(t, page.View(), "Loading")
	assert.Empty(t, page.Help())
}
