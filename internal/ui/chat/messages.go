// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/polychat/internal/model"
)

// =============================================================================
// CONTROLLER RESULTS
// =============================================================================

// MountedMsg reports that a conversation finished loading.
type MountedMsg struct {
	ChatID string
	Err    error
}

// SentMsg reports the outcome of a send. Reply is nil on failure.
type SentMsg struct {
	Content string
	Reply   *model.ChatMessage
	Err     error
}
