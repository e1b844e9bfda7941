// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/toneswiper/toneswiper/internal/todi"
	"github.com/toneswiper/toneswiper/internal/tui/components/filestrip"
	"github.com/toneswiper/toneswiper/internal/tui/components/timeline"
	"github.com/toneswiper/toneswiper/internal/tui/layout"
)

func (m Model) View() string {
	pos := m.player.Position()

	sections := []string{m.fileStripView()}
	switch {
	case m.mode == ModeConfirmClear && m.confirm != nil:
		sections = append(sections, m.confirm.View())
	case m.showHelp:
		sections = append(sections, m.help.View(m.keys))
	default:
		sections = append(sections, m.panelView(pos))
	}

	sections = append(sections,
		timeline.Render(timeline.Options{
			Points:   m.session.Tier().Points(),
			Duration: m.duration(),
			Width:    m.width,
			Selected: m.selected,
		}),
		m.pendingView(),
	)

	if m.mode == ModeEditLabel {
		sections = append(sections, m.input.View())
	} else {
		sections = append(sections, m.statusView())
	}

	return layout.RenderLayout(strings.Join(sections, "\n"), m.GetLayoutInfo(), m.width, m.height)
}

// panelView is the spectrogram, or a placeholder while the file is analysed.
func (m Model) panelView(pos time.Duration) string {
	rows := max(layout.GetContentArea(m.GetLayoutInfo(), m.width, m.height).Height-aroundSpectrogram, 1)

	var placeholder string
	switch {
	case m.loading:
		placeholder = m.spinner.View() + " analysing…"
	case m.loadErr != nil:
		placeholder = layout.ErrorStyle.Render("no spectrogram: " + m.loadErr.Error())
	case m.panel.Ready():
		return m.panel.View(pos)
	}
	return placeholder + strings.Repeat("\n", rows-1)
}

// fileStripView lists the session's recordings with their annotation counts.
func (m Model) fileStripView() string {
	items := lo.Map(m.session.Files(), func(f string, _ int) filestrip.Item {
		it := filestrip.Item{Label: filepath.Base(f)}
		if n := m.session.TierFor(f).Len(); n > 0 {
			it.Badge = strconv.Itoa(n)
		}
		return it
	})
	strip := filestrip.New(items)
	strip.SetActive(m.session.Index())
	strip.SetWidth(m.width)
	return strip.View()
}

func (m Model) pendingView() string {
	if len(m.pending) == 0 {
		return ""
	}
	preview := "?"
	if label, err := todi.Transcribe(m.pending); err == nil {
		preview = label
	}
	return layout.PendingStyle.Render(todi.Format(m.pending)) + "  " + layout.StatsStyle.Render("→ "+preview)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return layout.WarningStyle.Render(m.status)
	}
	return layout.StatsStyle.Render(m.status)
}

// duration prefers the decoded length and falls back to the header probe.
func (m Model) duration() time.Duration {
	if d := m.player.Duration(); d > 0 && !m.loading {
		return d
	}
	d, _ := m.session.Duration(m.session.Current())
	return d
}

func (m Model) playbackStatus() string {
	state := "⏸"
	if m.player.IsPlaying() {
		state = "▶"
	}
	return fmt.Sprintf("%s %.2fs/%.2fs  %.2fx  %d marks",
		state,
		m.player.Position().Seconds(),
		m.duration().Seconds(),
		m.player.Rate(),
		m.session.Tier().Len(),
	)
}

func fileCounter(index, total int) string {
	return fmt.Sprintf("%d/%d", index+1, total)
}
