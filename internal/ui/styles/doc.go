// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the polychat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. Color output honors NO_COLOR through the profile selected by the
cli package.

# Color System (colors.go)

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color and active navigation
  - Emerald, Rose, Amber, Blue - success, error, warning and info
  - GeminiColor, GroqColor, MistralColor - model badges, see ModelColor

# Theme System (theme.go)

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	badge := theme.ModelBadge(model.ModelGroq)

# Accessibility

Status messages always carry a shape indicator ([OK], [X], [!], [i]) so they
read correctly without color:

	styles.RenderError("Failed to send message")
*/
package styles
