// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - config command implementation.
//
// Subcommands:
//
//	show (default)      Display the effective configuration
//	get <key>           Print one value
//	set <key> <value>   Change a value in the config file
//	keys                List settable keys
//	path                Show the configuration file path
//
// Examples:
//
//	polychat config set api.url http://127.0.0.1:8000
//	polychat config set ui.default_model mistral
//	polychat config get log.level

package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/polychat/internal/config"
)

// ConfigEntry is one key of the --json output of config show.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// HandleConfig runs the config command. cfg is the effective configuration
// (file, then environment); set edits the file at path only.
func HandleConfig(w io.Writer, cfg *config.Config, path string, args Args) error {
	p := NewArgParser(args.Raw)

	switch p.Subcommand() {
	case "", "show", "list":
		return configShow(w, cfg, args.JSON)

	case "get":
		key := p.Positional(1)
		if key == "" {
			return &UsageError{Usage: "polychat config get <key>"}
		}
		v, err := cfg.Get(key)
		if err != nil {
			return NewValidationError("key", key, err.Error())
		}
		if args.JSON {
			return NewJSONResponse(CmdConfig.String(), ConfigEntry{Key: key, Value: v}).Print(w)
		}
		fmt.Fprintln(w, v)
		return nil

	case "set":
		key, value := p.Positional(1), JoinPositionalArgs(p, 2)
		if key == "" || p.PositionalCount() < 3 {
			return &UsageError{Usage: "polychat config set <key> <value>"}
		}
		updated, err := config.Update(path, func(c *config.Config) error {
			if err := c.Set(key, value); err != nil {
				return NewValidationError("key", key, err.Error())
			}
			return nil
		})
		if err != nil {
			return err
		}
		v, _ := updated.Get(key)
		if args.JSON {
			return NewJSONResponse(CmdConfig.String(), ConfigEntry{Key: key, Value: v}).Print(w)
		}
		if !args.Quiet {
			fmt.Fprintf(w, "%s %s = %v\n", SuccessStyle.Render("[OK]"), key, v)
		}
		return nil

	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(w, k)
		}
		return nil

	case "path":
		if args.JSON {
			return NewJSONResponse(CmdConfig.String(), map[string]string{"path": path}).Print(w)
		}
		fmt.Fprintln(w, path)
		return nil

	default:
		return &UsageError{Usage: "polychat config [show|get <key>|set <key> <value>|keys|path]"}
	}
}

func configShow(w io.Writer, cfg *config.Config, jsonMode bool) error {
	keys := config.GetAllKeys()
	if jsonMode {
		entries := make([]ConfigEntry, 0, len(keys))
		for _, k := range keys {
			v, _ := cfg.Get(k)
			entries = append(entries, ConfigEntry{Key: k, Value: v})
		}
		return NewJSONResponse(CmdConfig.String(), entries).Print(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Configuration"))
	for _, k := range keys {
		v, _ := cfg.Get(k)
		fmt.Fprintf(w, "  %s %v\n", RenderLabel(k), ValueStyle.Render(fmt.Sprint(v)))
	}
	return nil
}
