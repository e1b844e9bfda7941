// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package spectrogram draws a spectrogram with its pitch contour and a
// playhead in the terminal. Each cell holds two spectrogram rows using the
// upper half block, foreground for the top row and background for the
// bottom one.
package spectrogram

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/toneswiper/toneswiper/internal/analysis"
	"github.com/toneswiper/toneswiper/internal/tui/layout"
)

const (
	halfBlock    = "▀"
	pitchGlyph   = "•"
	playheadMark = "┃"
)

// Model renders one analysed file. The shaded cells are cached per size so
// redrawing for a moving playhead only joins strings.
type Model struct {
	width, height int
	result        *analysis.Result
	opts          analysis.Options

	cells    [][]string // [row][col], rendered
	pitchRow []int      // per column, -1 when unvoiced
}

// New creates an empty panel.
func New(opts analysis.Options) Model {
	return Model{opts: opts}
}

// SetData replaces the analysed file.
func (m *Model) SetData(res *analysis.Result) {
	m.result = res
	m.rebuild()
}

// Clear drops the current file.
func (m *Model) Clear() {
	m.result = nil
	m.cells = nil
	m.pitchRow = nil
}

// SetSize updates the panel dimensions in cells.
func (m *Model) SetSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.rebuild()
}

// Ready reports whether there is something to draw.
func (m Model) Ready() bool {
	return m.result != nil && m.cells != nil
}

func (m *Model) rebuild() {
	m.cells, m.pitchRow = nil, nil
	if m.result == nil || m.width <= 0 || m.height <= 0 {
		return
	}

	grid := m.result.Spectrogram.Intensity(m.width, 2*m.height, m.opts.DynamicRange)
	m.pitchRow = m.pitchRows()

	m.cells = make([][]string, m.height)
	for r := 0; r < m.height; r++ {
		// grid row 0 is the lowest band, terminal row 0 the top
		top := grid[2*(m.height-r)-1]
		bottom := grid[2*(m.height-r)-2]
		row := make([]string, m.width)
		for c := 0; c < m.width; c++ {
			if m.pitchRow[c] == r {
				row[c] = layout.PitchStyle.Background(layout.Shade(bottom[c])).Render(pitchGlyph)
				continue
			}
			row[c] = lipgloss.NewStyle().
				Foreground(layout.Shade(top[c])).
				Background(layout.Shade(bottom[c])).
				Render(halfBlock)
		}
		m.cells[r] = row
	}
}

// pitchRows places the median voiced f0 of every column on a linear axis
// from pitch floor (bottom) to ceiling (top).
func (m *Model) pitchRows() []int {
	rows := make([]int, m.width)
	for i := range rows {
		rows[i] = -1
	}

	track := m.result.Pitch
	dur := m.result.Clip.Duration().Seconds()
	lo, hi := m.opts.PitchFloor, m.opts.PitchCeiling
	if track == nil || dur <= 0 || hi <= lo {
		return rows
	}

	buckets := make([][]float64, m.width)
	for i, t := range track.Times {
		f := track.F0[i]
		if f <= 0 {
			continue
		}
		c := int(t / dur * float64(m.width))
		if c < 0 || c >= m.width {
			continue
		}
		buckets[c] = append(buckets[c], f)
	}

	for c, fs := range buckets {
		if len(fs) == 0 {
			continue
		}
		sort.Float64s(fs)
		f := fs[len(fs)/2]
		frac := math.Min(math.Max((f-lo)/(hi-lo), 0), 1)
		rows[c] = m.height - 1 - int(math.Round(frac*float64(m.height-1)))
	}
	return rows
}

// Column maps a position onto a panel column, or -1 outside the clip.
func (m Model) Column(pos time.Duration) int {
	if m.result == nil || m.width <= 0 {
		return -1
	}
	dur := m.result.Clip.Duration()
	if dur <= 0 || pos < 0 || pos > dur {
		return -1
	}
	c := int(float64(pos) / float64(dur) * float64(m.width))
	if c >= m.width {
		c = m.width - 1
	}
	return c
}

// View draws the panel with the playhead at pos.
func (m Model) View(pos time.Duration) string {
	if !m.Ready() {
		return ""
	}

	head := m.Column(pos)
	marker := layout.PlayheadStyle.Render(playheadMark)

	var b strings.Builder
	for r, row := range m.cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, cell := range row {
			if c == head {
				b.WriteString(marker)
				continue
			}
			b.WriteString(cell)
		}
	}
	return b.String()
}
