// polychat - chat with Gemini, Groq and Mistral from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/polychat/internal/app"
	"github.com/jeranaias/polychat/internal/cli"
	"github.com/jeranaias/polychat/internal/config"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/logging"
	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	if args.NoColor {
		cli.ForceColorsEnabled(false)
	}

	if err := run(cmd, args); err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

func run(cmd cli.Command, args cli.Args) error {
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return nil
	case cli.CmdVersion:
		return cli.HandleVersion(os.Stdout, args.JSON)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, args); err != nil {
		return err
	}

	logger := logging.NewOrNop(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdConfig:
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		return cli.HandleConfig(os.Stdout, cfg, path, args)
	case cli.CmdMockServer:
		return cli.HandleMockServer(ctx, os.Stdout, args, logger.Named("mock"))
	}

	a, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd == cli.CmdTUI {
		return runTUI(ctx, a, args)
	}
	return cli.NewRunner(a, args).Run(ctx, cmd)
}

// applyOverrides folds the global flags into cfg for this run.
func applyOverrides(cfg *config.Config, args cli.Args) error {
	if args.APIURL != "" {
		cfg.API.URL = args.APIURL
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if args.Model != "" {
		if _, ok := model.ParseModel(args.Model); !ok {
			return cli.NewValidationErrorWithExample("model", args.Model,
				"unknown model", "--model groq")
		}
		cfg.UI.DefaultModel = args.Model
	}
	return nil
}

// runTUI opens the full-screen interface.
func runTUI(ctx context.Context, a *app.App, args cli.Args) error {
	if !cli.IsTTY() {
		return cli.RequiresTTY("the full-screen interface")
	}
	if l, ok := locale.Parse(args.Lang); ok {
		if err := a.Locale.SetLanguage(l); err != nil {
			a.Logger.Warn("failed to apply --lang", zap.Error(err))
		}
	}

	a.Logger.Info("starting tui", zap.String("api", a.Config.API.URL), zap.String("version", Version))
	p := tea.NewProgram(ui.New(a, ui.WithContext(ctx)), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
