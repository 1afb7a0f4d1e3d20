// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// mockserver_cmd.go - run the in-memory backend.
//
// Examples:
//
//	polychat mock-server
//	polychat mock-server --addr :9000 --latency 400ms --user demo@example.com:demo

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/fakeapi"
)

// DefaultMockAddr is where mock-server listens by default.
const DefaultMockAddr = "127.0.0.1:8000"

// MockServerOptions are the parsed mock-server flags.
type MockServerOptions struct {
	Addr    string
	Latency time.Duration
	Users   [][2]string // email, password
}

// ParseMockServerArgs parses the mock-server flags.
func ParseMockServerArgs(args Args) (MockServerOptions, error) {
	p := NewArgParser(args.Raw)
	opts := MockServerOptions{Addr: p.FlagOrDefault("addr", DefaultMockAddr)}

	latency, err := p.FlagDuration("latency", 0)
	if err != nil {
		return opts, err
	}
	if latency < 0 {
		return opts, NewValidationError("latency", latency.String(), "must not be negative")
	}
	opts.Latency = latency

	if u := p.Flag("user"); u != "" {
		email, password, ok := strings.Cut(u, ":")
		if !ok || email == "" || password == "" {
			return opts, NewValidationErrorWithExample("user", u, "expected email:password", "--user demo@example.com:demo")
		}
		opts.Users = append(opts.Users, [2]string{email, password})
	}
	return opts, nil
}

// HandleMockServer serves the in-memory backend until ctx is cancelled.
func HandleMockServer(ctx context.Context, w io.Writer, args Args, logger *zap.Logger) error {
	opts, err := ParseMockServerArgs(args)
	if err != nil {
		return err
	}

	srv := fakeapi.New(
		fakeapi.WithLatency(opts.Latency),
		fakeapi.WithLogger(logger.Named("mock-server")),
	)
	for _, u := range opts.Users {
		if err := srv.AddUser(u[0], u[1], "en"); err != nil {
			return NewCommandError("mock-server", "seed user", err)
		}
	}

	if !args.Quiet {
		fmt.Fprintf(w, "%s mock backend on http://%s\n", SuccessStyle.Render("[OK]"), opts.Addr)
		for _, u := range opts.Users {
			fmt.Fprintf(w, "  %s %s\n", RenderLabel("seeded account"), u[0])
		}
		fmt.Fprintln(w, DimStyle.Render("Ctrl+C to stop"))
	}

	logger.Info("mock backend starting", zap.String("addr", opts.Addr), zap.Duration("latency", opts.Latency))
	return srv.ListenAndServe(ctx, opts.Addr)
}
