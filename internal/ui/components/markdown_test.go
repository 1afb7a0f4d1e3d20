// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestMarkdownPlain(t *testing.T) {
	md := NewMarkdown(true)
	md.SetWidth(40)

	if got := md.Render("1", "**bold**"); got != "**bold**" {
		t.Errorf("plain Render() = %q, want input unchanged", got)
	}
}

func TestMarkdownRenders(t *testing.T) {
	md := NewMarkdown(false)
	if md.plain {
		t.Skip("NO_COLOR is set")
	}
	md.SetWidth(40)

	got := md.Render("1", "# Title\n\nsome **bold** text")
	if !strings.Contains(got, "bold") {
		t.Errorf("Render() = %q, want text kept", got)
	}
	if !strings.Contains(got, "Title") {
		t.Errorf("Render() = %q, want heading kept", got)
	}
}

func TestMarkdownCache(t *testing.T) {
	md := NewMarkdown(true)
	md.SetWidth(40)

	first := md.Render("msg", "one")
	if got := md.Render("msg", "two"); got != first {
		t.Errorf("cached Render() = %q, want %q", got, first)
	}
	if got := md.Render("", "two"); got != "two" {
		t.Errorf("uncached Render() = %q, want %q", got, "two")
	}

	md.SetWidth(60)
	if got := md.Render("msg", "two"); got != "two" {
		t.Errorf("Render() after resize = %q, want fresh render", got)
	}
}
