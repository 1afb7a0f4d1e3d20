// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jeranaias/polychat/internal/model"
	"github.com/jeranaias/polychat/internal/storage"
)

// supported is ordered: the first tag is the matcher's fallback.
var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

// Parse maps any BCP 47 tag to a supported language ("ar-EG" → ar).
// The boolean is false when the input is not recognized at all, in which
// case English is returned.
func Parse(s string) (model.Lang, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DefaultLang, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return model.DefaultLang, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return model.DefaultLang, false
	}
	if supported[idx] == language.Arabic {
		return model.LangArabic, true
	}
	return model.LangEnglish, true
}

func tagFor(l model.Lang) language.Tag {
	if l == model.LangArabic {
		return language.Arabic
	}
	return language.English
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the preferred language. It is safe for concurrent use.
type Store struct {
	kv     storage.KV
	logger *zap.Logger
	cat    catalog.Catalog

	mu       sync.RWMutex
	lang     model.Lang
	printers map[model.Lang]*message.Printer
}

// NewStore reads the persisted language from kv. Anything other than "ar"
// means English.
func NewStore(kv storage.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:       kv,
		logger:   logger,
		printers: make(map[model.Lang]*message.Printer),
	}

	b, err := newCatalog()
	if err != nil {
		// Only reachable through a malformed translation entry
		logger.Error("failed to build message catalog", zap.Error(err))
		b = catalog.NewBuilder()
	}
	s.cat = b

	s.lang = s.readPersisted()
	return s
}

func (s *Store) readPersisted() model.Lang {
	if s.kv == nil {
		return model.DefaultLang
	}
	v, ok, err := s.kv.Get(storage.KeyLanguage)
	if err != nil {
		s.logger.Warn("failed to read language preference", zap.Error(err))
		return model.DefaultLang
	}
	if ok && v == string(model.LangArabic) {
		return model.LangArabic
	}
	return model.LangEnglish
}

// Language returns the current language.
func (s *Store) Language() model.Lang {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the language and persists it. Unsupported values
// are normalized to English.
func (s *Store) SetLanguage(l model.Lang) error {
	if !l.Valid() {
		l = model.LangEnglish
	}

	s.mu.Lock()
	s.lang = l
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	return s.kv.Set(storage.KeyLanguage, l.String())
}

// Toggle switches between English and Arabic.
func (s *Store) Toggle() (model.Lang, error) {
	next := model.LangArabic
	if s.Language() == model.LangArabic {
		next = model.LangEnglish
	}
	return next, s.SetLanguage(next)
}

// Reload re-reads the persisted language, for changes made by another process.
func (s *Store) Reload() {
	l := s.readPersisted()
	s.mu.Lock()
	s.lang = l
	s.mu.Unlock()
}

// Direction returns rtl for Arabic and ltr otherwise.
func (s *Store) Direction() model.Direction {
	return s.Language().Direction()
}

// T translates key in the current language, formatting args into it.
func (s *Store) T(key string, args ...any) string {
	return s.printer(s.Language()).Sprintf(key, args...)
}

// TIn translates key in an explicit language.
func (s *Store) TIn(l model.Lang, key string, args ...any) string {
	return s.printer(l).Sprintf(key, args...)
}

func (s *Store) printer(l model.Lang) *message.Printer {
	s.mu.RLock()
	p, ok := s.printers[l]
	s.mu.RUnlock()
	if ok {
		return p
	}

	p = message.NewPrinter(tagFor(l), message.Catalog(s.cat))
	s.mu.Lock()
	s.printers[l] = p
	s.mu.Unlock()
	return p
}
