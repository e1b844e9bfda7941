// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/audio"
	"github.com/toneswiper/toneswiper/internal/config"
)

// Run shows the annotator until the user quits or ctx is cancelled. The
// session holds the annotations afterwards; saving them is up to the caller.
func Run(ctx context.Context, cfg *config.AppConfig, session *annotation.Session, player audio.Player, cache *analysis.Cache) error {
	return run(ctx, New(cfg, session, player, cache), tea.WithAltScreen())
}

func run(ctx context.Context, m tea.Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)
	_, err := p.Run()
	return exitErr(ctx, err)
}

// exitErr treats a program killed by ctx as a normal end of the session.
func exitErr(ctx context.Context, err error) error {
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
