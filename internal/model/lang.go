// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Lang is the preferred language of the interface and of the answers.
type Lang string

const (
	LangEnglish Lang = "en"
	LangArabic  Lang = "ar"

	DefaultLang = LangEnglish
)

// Direction is the text direction implied by a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == LangEnglish || l == LangArabic
}

// Direction returns rtl for Arabic and ltr for everything else.
func (l Lang) Direction() Direction {
	if l == LangArabic {
		return RTL
	}
	return LTR
}

// String returns the wire form of the language.
func (l Lang) String() string {
	return string(l)
}
