// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config home at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	for _, k := range []string{"POLYCHAT_API_URL", "POLYCHAT_LOG_LEVEL", "POLYCHAT_LANG", "POLYCHAT_MODEL", "POLYCHAT_STATE"} {
		t.Setenv(k, "")
	}
	return dir
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := Default()
			c.UI.Language = "ar"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	dir := isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	cfg := Global()
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.Storage.StatePath)
	assert.Same(t, cfg, Global())
}

func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	c := Default()
	c.API.URL = "https://chat.example.com"
	SetGlobal(c)
	assert.Equal(t, "https://chat.example.com", Global().API.URL)
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, "en", cfg.UI.Language)
	assert.Equal(t, "gemini", cfg.UI.DefaultModel)
	assert.True(t, cfg.UI.Markdown)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.API.URL = "localhost:8000" }, "api.url"},
		{"ftp url", func(c *Config) { c.API.URL = "ftp://host" }, "api.url"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs"},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }, "api.rate_limit"},
		{"zero burst", func(c *Config) { c.API.Burst = 0 }, "api.burst"},
		{"too many retries", func(c *Config) { c.API.MaxRetries = 11 }, "api.max_retries"},
		{"unknown language", func(c *Config) { c.UI.Language = "fr" }, "ui.language"},
		{"unknown model", func(c *Config) { c.UI.DefaultModel = "gpt" }, "ui.default_model"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var errs ValidateErrors
			require.True(t, errors.As(err, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestConfig_LoadMissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, filepath.Join(dir, DefaultLogFile), cfg.Log.File)
}

func TestConfig_LoadFromPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	body := `
[api]
url = "https://chat.example.com/"
max_retries = 1

[ui]
language = "ar"
default_model = "mistral"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", cfg.API.URL, "trailing slash trimmed")
	assert.Equal(t, 1, cfg.API.MaxRetries)
	assert.Equal(t, 60, cfg.API.TimeoutSecs, "unset keys keep defaults")
	assert.Equal(t, "ar", cfg.UI.Language)
	assert.Equal(t, "mistral", cfg.UI.DefaultModel)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfig_LoadRejectsInvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\nlanguage = \"de\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.language")
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("POLYCHAT_API_URL", "http://10.0.0.5:9000")
	t.Setenv("POLYCHAT_LOG_LEVEL", "DEBUG")
	t.Setenv("POLYCHAT_LANG", "AR")
	t.Setenv("POLYCHAT_STATE", "/tmp/other.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ar", cfg.UI.Language)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.StatePath)
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := Default()
	cfg.UI.Language = "ar"
	cfg.API.RateLimit = 2.5
	require.NoError(t, Save(cfg))

	path := filepath.Join(dir, "config.toml")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "ar", loaded.UI.Language)
	assert.Equal(t, 2.5, loaded.API.RateLimit)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.language", "ar"))
	require.NoError(t, cfg.Set("api.timeout_secs", "15"))
	require.NoError(t, cfg.Set("api.rate-limit", "0.5"))
	require.NoError(t, cfg.Set("ui.markdown", "no"))

	v, err := cfg.Get("ui.language")
	require.NoError(t, err)
	assert.Equal(t, "ar", v)
	assert.Equal(t, 15, cfg.API.TimeoutSecs)
	assert.Equal(t, 0.5, cfg.API.RateLimit)
	assert.False(t, cfg.UI.Markdown)

	_, err = cfg.Get("ui.theme")
	assert.Error(t, err)
	_, err = cfg.Get("api")
	assert.Error(t, err, "sections are not values")
	assert.Error(t, cfg.Set("api.timeout_secs", "soon"))
	assert.Error(t, cfg.Set("", "x"))
}

func TestConfig_GetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.API.URL = "https://changed.example.com"
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
}

func TestConfig_UpdateKeepsEnvOutOfFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	t.Setenv("POLYCHAT_API_URL", "http://10.0.0.5:9000")

	cfg, err := Update(path, func(c *Config) error {
		return c.Set("ui.default_model", "groq")
	})
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.UI.DefaultModel)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "10.0.0.5")
	assert.Contains(t, string(data), `default_model = "groq"`)

	_, err = Update(path, func(c *Config) error {
		return c.Set("ui.language", "fr")
	})
	require.Error(t, err)
	data2, _ := os.ReadFile(path)
	assert.Equal(t, data, data2, "an invalid edit leaves the file untouched")
}
