// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uitest drives TUI pages against an in-process fake backend.
package uitest

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/polychat/internal/app"
	"github.com/jeranaias/polychat/internal/config"
	"github.com/jeranaias/polychat/internal/fakeapi"
	"github.com/jeranaias/polychat/internal/storage"
	"github.com/jeranaias/polychat/internal/ui/styles"
	"github.com/jeranaias/polychat/internal/ui/view"
)

// Password is the password of every account created by SignIn.
const Password = "pw"

// AwaitTimeout bounds how long Await waits for a message.
const AwaitTimeout = 5 * time.Second

// Harness is an app wired to a fake backend.
type Harness struct {
	Server *fakeapi.Server
	App    *app.App
	KV     *storage.Memory
	Env    view.Env
}

// New starts a fake backend and builds an app against it. The session
// starts signed out and hydrated.
func New(t testing.TB, opts ...app.Option) *Harness {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())

	h := &Harness{Server: fakeapi.New(), KV: storage.NewMemory()}
	ts := httptest.NewServer(h.Server.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.API.URL = ts.URL
	cfg.API.RateLimit = 0
	cfg.API.MaxRetries = 0
	cfg.Storage.StatePath = filepath.Join(t.TempDir(), "state.db")

	opts = append([]app.Option{app.WithKV(h.KV), app.WithLogger(zaptest.NewLogger(t))}, opts...)
	a, err := app.New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	a.Session.Hydrate(context.Background())
	<-a.Session.Done()

	h.App = a
	h.Env = view.Env{App: a, Theme: styles.NewTheme(), Ctx: context.Background()}
	return h
}

// SignIn creates an account for email and logs the session into it.
func (h *Harness) SignIn(t testing.TB, email string) {
	t.Helper()
	require.NoError(t, h.Server.AddUser(email, Password, "en"))
	require.NoError(t, h.App.Session.Login(context.Background(), email, Password))
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

// Await runs cmd, expanding batches, and returns the first message of type
// T. Scoped messages are matched by their payload. Commands that block or
// tick are left running.
func Await[T tea.Msg](t testing.TB, cmd tea.Cmd) T {
	t.Helper()
	raw := AwaitMsg(t, cmd, func(msg tea.Msg) bool {
		_, ok := msg.(T)
		return ok
	})
	return Unwrap(raw).(T)
}

// AwaitMsg runs cmd like Await and returns the first message, as produced,
// whose payload satisfies match.
func AwaitMsg(t testing.TB, cmd tea.Cmd, match func(tea.Msg) bool) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")

	ch := make(chan tea.Msg, 256)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			select {
			case ch <- msg:
			default:
			}
		}()
	}
	run(cmd)

	deadline := time.After(AwaitTimeout)
	for {
		select {
		case msg := <-ch:
			if msg != nil && match(Unwrap(msg)) {
				return msg
			}
		case <-deadline:
			t.Fatalf("no matching message within %s", AwaitTimeout)
			return nil
		}
	}
}

// Unwrap strips generation scoping.
func Unwrap(msg tea.Msg) tea.Msg {
	for {
		s, ok := msg.(view.Scoped)
		if !ok {
			return msg
		}
		msg = s.Msg
	}
}

// =============================================================================
// KEYS
// =============================================================================

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+g":    tea.KeyCtrlG,
	"ctrl+h":    tea.KeyCtrlH,
	"ctrl+l":    tea.KeyCtrlL,
	"ctrl+n":    tea.KeyCtrlN,
	"ctrl+p":    tea.KeyCtrlP,
	"ctrl+r":    tea.KeyCtrlR,
	"ctrl+s":    tea.KeyCtrlS,
}

// Key returns the key message for a name such as "enter" or "ctrl+n".
// Anything else is typed as runes.
func Key(name string) tea.KeyMsg {
	if kt, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}
