// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"time"

	"github.com/toneswiper/toneswiper/internal/analysis"
)

// fileLoadedMsg carries the decoded and analysed current file. gen ties it
// to the navigation that requested it so stale loads are dropped.
type fileLoadedMsg struct {
	gen    int
	path   string
	result *analysis.Result
	err    error
}

// refreshMsg redraws the playhead.
type refreshMsg time.Time

// commitMsg fires when no ToDI key arrived within the sequence timeout.
type commitMsg struct {
	seq int
}

// autoplayMsg starts playback a moment after a file is shown.
type autoplayMsg struct {
	gen int
}
