// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for polychat.
//
// # Key Types
//
//   - Config: root configuration with api, ui, log and storage sections
//   - ValidationError: a single invalid field, collected in ValidateErrors
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (POLYCHAT_*)
//   - ~/.polychat/config.toml (or $POLYCHAT_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Read and write dotted keys:
//
//	cfg.Set("ui.language", "ar")
//	v, _ := cfg.Get("api.url")
//	config.Save(cfg)
package config
