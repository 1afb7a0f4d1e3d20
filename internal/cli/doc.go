// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// polychat.
//
// Every command goes through the same session rules as the full-screen
// interface: a Runner hydrates the persisted session and asks the route
// guards before touching protected data, and a 401 from the backend ends the
// session for both front ends.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags plus the raw command arguments
//   - ArgParser: Subcommand, flag and positional parsing for one command
//   - Runner: Executes session-aware commands against an app.App
//   - JSONResponse: The --json output envelope
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if !cmd.NeedsApp() {
//	    // help, version, config, mock-server
//	}
//	err := cli.NewRunner(application, args).Run(ctx, cmd)
//	os.Exit(cli.GetExitCode(err))
//
// All commands support --json for scripting.
package cli
