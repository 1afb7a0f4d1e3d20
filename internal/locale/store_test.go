// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/storage"
)

func TestNewStore_PersistedValue(t *testing.T) {
	tests := []struct {
		stored string
		want   model.Lang
	}{
		{"", model.LangEnglish},
		{"ar", model.LangArabic},
		{"en", model.LangEnglish},
		{"fr", model.LangEnglish},
		{"AR", model.LangEnglish},
	}
	for _, tc := range tests {
		t.Run(tc.stored, func(t *testing.T) {
			kv := storage.NewMemory()
			if tc.stored != "" {
				require.NoError(t, kv.Set(storage.KeyLanguage, tc.stored))
			}
			assert.Equal(t, tc.want, NewStore(kv, nil).Language())
		})
	}
}

func TestSetLanguage_WritesThrough(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv, nil)

	require.NoError(t, s.SetLanguage(model.LangArabic))
	assert.Equal(t, model.RTL, s.Direction())

	v, ok, _ := kv.Get(storage.KeyLanguage)
	assert.True(t, ok)
	assert.Equal(t, "ar", v)

	// A fresh store sees the persisted choice
	assert.Equal(t, model.LangArabic, NewStore(kv, nil).Language())
}

func TestToggleAndReload(t *testing.T) {
	kv := storage.NewMemory()
	s := NewStore(kv, nil)

	l, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, model.LangArabic, l)
	l, _ = s.Toggle()
	assert.Equal(t, model.LangEnglish, l)

	require.NoError(t, kv.Set(storage.KeyLanguage, "ar"))
	s.Reload()
	assert.Equal(t, model.LangArabic, s.Language())
}

func TestT_Translates(t *testing.T) {
	s := NewStore(storage.NewMemory(), nil)

	assert.Equal(t, "Chat history", s.T(HistoryTitle))
	assert.Equal(t, "Login failed: bad password", s.T(LoginFailed, "bad password"))

	require.NoError(t, s.SetLanguage(model.LangArabic))
	assert.Equal(t, "سجل المحادثات", s.T(HistoryTitle))
	assert.Equal(t, "Chat history", s.TIn(model.LangEnglish, HistoryTitle))
}

func TestCatalog_EveryKeyTranslated(t *testing.T) {
	for key, tr := range translations {
		assert.NotEmpty(t, tr.en, key)
		assert.NotEmpty(t, tr.ar, key)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want model.Lang
		ok   bool
	}{
		{"ar", model.LangArabic, true},
		{"ar-EG", model.LangArabic, true},
		{"en-GB", model.LangEnglish, true},
		{"", model.LangEnglish, false},
		{"!!", model.LangEnglish, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Parse(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}
