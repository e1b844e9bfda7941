// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline draws point annotations under the spectrogram: a marker
// row, a label row and a time ruler.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/toneswiper/toneswiper/internal/annotation"
	"github.com/toneswiper/toneswiper/internal/tui/layout"
)

// Height is the number of lines Render produces.
const Height = 3

const (
	markerGlyph    = "│"
	minTickSpacing = 10 // columns between ruler labels
)

var tickSteps = []float64{0.1, 0.2, 0.25, 0.5, 1, 2, 5, 10, 15, 30, 60, 120, 300}

// Options describes what to draw.
type Options struct {
	Points   []annotation.Point // in time order
	Duration time.Duration
	Width    int
	Selected int // index into Points, -1 for none
}

// Column maps a time in seconds to a column of a timeline width cells wide.
func Column(t float64, duration time.Duration, width int) int {
	d := duration.Seconds()
	if d <= 0 || width <= 0 {
		return 0
	}
	c := int(t / d * float64(width))
	if c < 0 {
		return 0
	}
	if c >= width {
		return width - 1
	}
	return c
}

// Render returns Height lines.
func Render(o Options) string {
	if o.Width <= 0 {
		return strings.Repeat("\n", Height-1)
	}

	markers := blank(o.Width)
	labels := blank(o.Width)

	next := 0 // first free label column
	for i, p := range o.Points {
		col := Column(p.Time, o.Duration, o.Width)
		style := layout.MarkerStyle
		if i == o.Selected {
			style = layout.SelectedStyle
		}
		markers[col] = style.Render(markerGlyph)

		start := col
		if start < next {
			start = next
		}
		for j, r := range []rune(p.Label) {
			if start+j >= o.Width {
				break
			}
			labels[start+j] = style.Render(string(r))
		}
		next = start + len([]rune(p.Label)) + 1
	}

	return strings.Join([]string{
		strings.Join(markers, ""),
		strings.Join(labels, ""),
		Ruler(o.Duration, o.Width),
	}, "\n")
}

// Ruler labels evenly spaced times across width columns.
func Ruler(duration time.Duration, width int) string {
	line := []rune(strings.Repeat(" ", width))
	d := duration.Seconds()
	if d <= 0 || width <= 0 {
		return string(line)
	}

	step := tickSteps[len(tickSteps)-1]
	for _, s := range tickSteps {
		if s/d*float64(width) >= minTickSpacing {
			step = s
			break
		}
	}

	for i := 0; float64(i)*step <= d; i++ {
		t := float64(i) * step
		col := Column(t, duration, width)
		text := []rune(formatTick(t, step))
		if col+len(text) > width {
			break
		}
		copy(line[col:], text)
	}
	return layout.StatsStyle.Render(string(line))
}

func formatTick(t, step float64) string {
	if step < 1 {
		return fmt.Sprintf("%.2fs", t)
	}
	return fmt.Sprintf("%.0fs", t)
}

func blank(n int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = " "
	}
	return cells
}
