// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the preferred language and translates UI strings.
//
// The language is persisted under storage.KeyLanguage and is independent
// of the session: logging out or a 401 never resets it. Translations live
// in a golang.org/x/text/message catalog with English and Arabic entries.
//
// # Usage
//
//	loc := locale.NewStore(kv)
//	loc.SetLanguage(model.LangArabic)
//	title := loc.T(locale.HistoryTitle)
//	if loc.Direction() == model.RTL { ... }
package locale
