// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/auth"
	"github.com/jeranaias/polychat/internal/chat"
	"github.com/jeranaias/polychat/internal/config"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand is lowercased",
			args:    []string{"DELETE", "3"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "3" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "3")
				}
			},
		},
		{
			name:    "flag with value",
			args:    []string{"--email", "a@b.c"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("email") != "a@b.c" {
					t.Errorf("Flag(email) = %q", p.Flag("email"))
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"--addr=:9000"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("addr") != ":9000" {
					t.Errorf("Flag(addr) = %q", p.Flag("addr"))
				}
			},
		},
		{
			name:    "declared boolean does not swallow the next word",
			args:    []string{"delete", "--yes", "12"},
			bools:   []string{"yes"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("yes") {
					t.Error("BoolFlag(yes) should be true")
				}
				if p.Positional(1) != "12" {
					t.Errorf("Positional(1) = %q, want 12", p.Positional(1))
				}
			},
		},
		{
			name:    "boolean with explicit value",
			args:    []string{"--yes=false"},
			bools:   []string{"yes"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("yes") {
					t.Error("BoolFlag(yes) should be false")
				}
				if !p.HasFlag("yes") {
					t.Error("HasFlag(yes) should be true")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"--", "--not-a-flag", "text"},
			wantSub: "--not-a-flag",
			validate: func(t *testing.T, p *ArgParser) {
				if got := JoinPositionalArgs(p, 0); got != "--not-a-flag text" {
					t.Errorf("JoinPositionalArgs = %q", got)
				}
			},
		},
		{
			name:    "trailing flag is boolean",
			args:    []string{"show", "--verbose"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("verbose") {
					t.Error("BoolFlag(verbose) should be true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" || p.PositionalCount() != 0 {
		t.Error("empty parser should have no positionals")
	}
	if len(p.PositionalFrom(1)) != 0 {
		t.Error("PositionalFrom out of range should be empty")
	}
	if p.FlagOrDefault("addr", "x") != "x" {
		t.Error("FlagOrDefault should fall back")
	}
}

func TestArgParser_FlagDuration(t *testing.T) {
	p := NewArgParser([]string{"--latency", "250ms", "--bad", "soon"})

	d, err := p.FlagDuration("latency", 0)
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("FlagDuration(latency) = %v, %v", d, err)
	}
	d, err = p.FlagDuration("missing", time.Second)
	if err != nil || d != time.Second {
		t.Errorf("FlagDuration(missing) = %v, %v", d, err)
	}
	if _, err := p.FlagDuration("bad", 0); err == nil {
		t.Error("FlagDuration(bad) should fail")
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		if v, err := ParseBoolString(s); err != nil || !v {
			t.Errorf("ParseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"false", "no", "N", "0", "off"} {
		if v, err := ParseBoolString(s); err != nil || v {
			t.Errorf("ParseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should fail")
	}
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{name: "no args opens the interface", args: nil, wantCommand: CmdTUI},
		{name: "tui", args: []string{"tui"}, wantCommand: CmdTUI},
		{name: "login", args: []string{"login"}, wantCommand: CmdLogin},
		{name: "whoami alias", args: []string{"whoami"}, wantCommand: CmdStatus},
		{name: "history alias", args: []string{"history", "search", "go"}, wantCommand: CmdChats,
			validate: func(t *testing.T, a Args) {
				if strings.Join(a.Raw, " ") != "search go" {
					t.Errorf("Raw = %v", a.Raw)
				}
			}},
		{name: "version flag", args: []string{"--version"}, wantCommand: CmdVersion},
		{name: "bare -v is version", args: []string{"-v"}, wantCommand: CmdVersion},
		{name: "-v after a command is verbose", args: []string{"chats", "-v"}, wantCommand: CmdChats,
			validate: func(t *testing.T, a Args) {
				if !a.Verbose {
					t.Error("Verbose should be true")
				}
			}},
		{name: "unknown word shows help", args: []string{"frobnicate"}, wantCommand: CmdHelp},
		{
			name:        "global flags anywhere",
			args:        []string{"chat", "--model", "groq", "hello", "--json", "--lang=ar", "world"},
			wantCommand: CmdChat,
			validate: func(t *testing.T, a Args) {
				if a.Model != "groq" || !a.JSON || a.Lang != "ar" {
					t.Errorf("globals = %+v", a)
				}
				if strings.Join(a.Raw, " ") != "hello world" {
					t.Errorf("Raw = %v", a.Raw)
				}
			},
		},
		{
			name:        "api override",
			args:        []string{"--api", "http://10.0.0.2:8000", "status"},
			wantCommand: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if a.APIURL != "http://10.0.0.2:8000" {
					t.Errorf("APIURL = %q", a.APIURL)
				}
			},
		},
		{name: "mock server", args: []string{"serve", "--addr", ":1"}, wantCommand: CmdMockServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			if cmd != tt.wantCommand {
				t.Errorf("command = %v, want %v", cmd, tt.wantCommand)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommand_NeedsApp(t *testing.T) {
	for _, c := range []Command{CmdConfig, CmdMockServer, CmdVersion, CmdHelp} {
		if c.NeedsApp() {
			t.Errorf("%v should not need the app", c)
		}
	}
	for _, c := range []Command{CmdTUI, CmdLogin, CmdChats, CmdChat, CmdLang} {
		if !c.NeedsApp() {
			t.Errorf("%v should need the app", c)
		}
	}
}

func TestHandleVersion_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := HandleVersion(&buf, true); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    VersionData `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if !resp.Success || resp.Command != "version" || resp.Data.Version != Version {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Usage: "x"}, ExitUsageError},
		{"validation", NewValidationError("model", "gpt", "unknown"), ExitUsageError},
		{"invalid chat id", fmt.Errorf("wrap: %w", chat.ErrInvalidChatID), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "api.url", Message: "bad"}}, ExitConfigError},
		{"not logged in", ErrNotLoggedIn, ExitAuthError},
		{"401", &api.HTTPError{StatusCode: 401, Status: "Unauthorized"}, ExitAuthError},
		{"bad credentials", &auth.AuthError{Op: "login", Err: &api.HTTPError{StatusCode: 400, Status: "Bad Request"}}, ExitAuthError},
		{"404", NewCommandError("chats", "show", &api.HTTPError{StatusCode: 404, Status: "Not Found"}), ExitNotFoundError},
		{"deadline", context.DeadlineExceeded, ExitTimeoutError},
		{"net timeout", timeoutErr{}, ExitTimeoutError},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ExitNetworkError},
		{"refused during login", &auth.AuthError{Op: "login", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}}, ExitNetworkError},
		{"500", &api.HTTPError{StatusCode: 500, Status: "Internal Server Error"}, ExitGeneralError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDisplayError_JSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "chats", errors.New("API Error: Not Found (Chat not found)"), true)

	var resp JSONResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Success || resp.Error == nil || *resp.Error != "API Error: Not Found (Chat not found)" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDisplayError_JSONCarriesHTTPStatus(t *testing.T) {
	var buf bytes.Buffer
	err := fmt.Errorf("chats: %w", &api.HTTPError{StatusCode: 503, Status: "Service Unavailable"})
	DisplayError(&buf, "chats", err, true)

	var resp JSONResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.HTTPStatus != 503 {
		t.Errorf("HTTPStatus = %d, want 503", resp.HTTPStatus)
	}

	buf.Reset()
	DisplayError(&buf, "chats", errors.New("offline"), true)
	if strings.Contains(buf.String(), "http_status") {
		t.Errorf("status present for a non-HTTP error: %s", buf.String())
	}
}

// =============================================================================
// MOCK SERVER FLAGS
// =============================================================================

func TestParseMockServerArgs(t *testing.T) {
	opts, err := ParseMockServerArgs(Args{Raw: []string{"--latency", "300ms", "--user", "demo@example.com:pw:with:colons"}})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != DefaultMockAddr || opts.Latency != 300*time.Millisecond {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Users) != 1 || opts.Users[0] != [2]string{"demo@example.com", "pw:with:colons"} {
		t.Errorf("users = %v", opts.Users)
	}

	if _, err := ParseMockServerArgs(Args{Raw: []string{"--user", "nopassword"}}); GetExitCode(err) != ExitUsageError {
		t.Errorf("bad --user: %v", err)
	}
	if _, err := ParseMockServerArgs(Args{Raw: []string{"--latency=-1s"}}); err == nil {
		t.Error("negative latency should fail")
	}
}
