// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/jeranaias/polychat/internal/locale"
)

// Lang shows the interface language, or switches and persists it.
// The choice survives logout.
func (r *Runner) Lang() error {
	p := NewArgParser(r.Args.Raw)
	var args []string
	if v := p.Positional(0); v != "" {
		args = append(args, v)
	}
	return r.switchLang(args)
}

func (r *Runner) switchLang(args []string) error {
	if len(args) > 0 {
		l, ok := locale.Parse(args[0])
		if !ok {
			return NewValidationErrorWithExample("language", args[0], "must be en or ar", "polychat lang ar")
		}
		if err := r.App.Locale.SetLanguage(l); err != nil {
			return NewCommandError("lang", "set", err)
		}
		// The new choice wins over any --lang given for this run
		r.Args.Lang = ""
	}

	l := r.lang()
	data := LangData{Language: l, Name: r.t(locale.LangName), Direction: string(l.Direction())}
	if r.Args.JSON {
		return r.json(CmdLang, data)
	}
	r.printf("%s %s\n", RenderLabel(data.Language.String()), ValueStyle.Render(data.Name+" ("+data.Direction+")"))
	return nil
}
