// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/jeranaias/polychat/internal/api"
	"github.com/jeranaias/polychat/internal/locale"
	"github.com/jeranaias/polychat/internal/router"
	"github.com/jeranaias/polychat/internal/util"
)

// Profile prints the profile view. When the backend cannot be reached the
// cached session user is shown instead, with a warning.
func (r *Runner) Profile(ctx context.Context) error {
	if err := r.enter(ctx, router.ProfilePath); err != nil {
		return err
	}

	prof := r.App.NewProfile()
	err := prof.Load(ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		return ErrNotLoggedIn
	}
	v := prof.View()

	if r.Args.JSON {
		data := ProfileData{
			Name:       v.Name,
			Email:      v.Email,
			Stats:      v.Stats,
			Summary:    v.Summary,
			FromServer: v.FromServer,
		}
		if !v.MemberSince.IsZero() {
			data.MemberSince = v.MemberSince.Format("2006-01-02")
		}
		return r.json(CmdProfile, data)
	}

	if err != nil && !r.Args.Quiet {
		r.println(WarningStyle.Render("Showing cached profile: " + err.Error()))
	}

	r.println(TitleStyle.Render(r.t(locale.ProfileTitle)))
	r.field("Name", v.Name)
	r.field(r.t(locale.LoginEmail), v.Email)
	if !v.MemberSince.IsZero() {
		r.field(r.t(locale.ProfileMemberSince), v.MemberSince.Format("2006-01-02"))
	}
	r.field(r.t(locale.ProfileTotalChats), strconv.Itoa(v.Stats.TotalChats))
	r.field(r.t(locale.ProfileMessages), strconv.Itoa(v.Stats.MessagesExchanged))
	r.field(r.t(locale.ProfileFavoriteModel), v.Stats.FavoriteModel)
	r.println()
	r.println(RenderLabel(r.t(locale.ProfileSummary)))
	r.println(util.WrapWidth(v.Summary, GetTerminalWidth()-4))
	return nil
}
