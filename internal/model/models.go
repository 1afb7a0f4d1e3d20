// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// AI MODEL TYPE
// =============================================================================

// AIModel identifies the provider model the backend answers with.
type AIModel string

const (
	ModelGemini  AIModel = "gemini"
	ModelGroq    AIModel = "groq"
	ModelMistral AIModel = "mistral"

	// DefaultModel is selected when nothing else is known.
	DefaultModel = ModelGemini

	// NoFavoriteModel is shown in stats when the user has no favorite yet.
	NoFavoriteModel = "-"
)

// ModelInfo contains display information about a model.
type ModelInfo struct {
	ID          AIModel
	Name        string
	Provider    string
	Description string
}

// Models is the registry of models the backend accepts, in menu order.
var Models = []ModelInfo{
	{
		ID:          ModelGemini,
		Name:        "GEMINI",
		Provider:    "Google",
		Description: "Balanced default for everyday questions",
	},
	{
		ID:          ModelGroq,
		Name:        "GROQ",
		Provider:    "Groq",
		Description: "Low latency answers",
	},
	{
		ID:          ModelMistral,
		Name:        "MISTRAL",
		Provider:    "Mistral AI",
		Description: "Strong multilingual output",
	},
}

// String returns the wire form of the model.
func (m AIModel) String() string {
	return string(m)
}

// Valid reports whether m is one of the registered models.
func (m AIModel) Valid() bool {
	for _, info := range Models {
		if info.ID == m {
			return true
		}
	}
	return false
}

// DisplayName returns the upper-case label used in the UI.
func (m AIModel) DisplayName() string {
	for _, info := range Models {
		if info.ID == m {
			return info.Name
		}
	}
	return strings.ToUpper(string(m))
}

// ParseModel converts user or server input to an AIModel.
// The boolean is false when the value is not a registered model.
func ParseModel(s string) (AIModel, bool) {
	m := AIModel(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// ModelOr returns the parsed model, or fallback when s is empty or unknown.
func ModelOr(s string, fallback AIModel) AIModel {
	if m, ok := ParseModel(s); ok {
		return m
	}
	return fallback
}

// NextModel cycles through the registry, used by the chat view's model picker.
func NextModel(m AIModel) AIModel {
	for i, info := range Models {
		if info.ID == m {
			return Models[(i+1)%len(Models)].ID
		}
	}
	return DefaultModel
}
