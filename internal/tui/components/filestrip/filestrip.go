// Copyright (C) 2025-2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package filestrip renders the recordings of a session as a one-line tab
// strip, scrolled so the current recording is always visible.
package filestrip

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Item represents a single recording in the strip
type Item struct {
	Label string
	Badge string // Optional badge (e.g., annotation count)
}

// Model represents the strip state
type Model struct {
	items  []Item
	active int
	width  int
}

var (
	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	moreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const (
	gap       = " "
	moreLeft  = "‹ "
	moreRight = " ›"
)

// New creates a strip over items
func New(items []Item) Model {
	return Model{
		items: items,
		width: 80,
	}
}

// SetActive marks the item at index as current
func (m *Model) SetActive(index int) {
	if index >= 0 && index < len(m.items) {
		m.active = index
	}
}

// Active returns the index of the current item
func (m Model) Active() int {
	return m.active
}

// SetWidth sets the width of the strip
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetBadge sets a badge on a specific item by index
func (m *Model) SetBadge(index int, badge string) {
	if index >= 0 && index < len(m.items) {
		m.items[index].Badge = badge
	}
}

// Count returns the number of items
func (m Model) Count() int {
	return len(m.items)
}

// View renders the strip. When the items do not fit, a window around the
// active item is shown with arrows on the clipped sides.
func (m Model) View() string {
	if len(m.items) == 0 || m.width <= 0 {
		return ""
	}

	tabs := make([]string, len(m.items))
	for i, it := range m.items {
		label := it.Label
		if it.Badge != "" {
			label += " " + badgeStyle.Render(it.Badge)
		}
		if i == m.active {
			tabs[i] = activeStyle.Render(label)
		} else {
			tabs[i] = inactiveStyle.Render(label)
		}
	}

	lo, hi := m.window(tabs)

	var b strings.Builder
	if lo > 0 {
		b.WriteString(moreStyle.Render(moreLeft))
	}
	b.WriteString(strings.Join(tabs[lo:hi], gap))
	if hi < len(tabs) {
		b.WriteString(moreStyle.Render(moreRight))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

// window grows [lo, hi) around the active tab while it fits, preferring the
// tabs that follow.
func (m Model) window(tabs []string) (int, int) {
	avail := m.width
	if lipgloss.Width(strings.Join(tabs, gap)) > avail {
		avail -= lipgloss.Width(moreLeft) + lipgloss.Width(moreRight)
	}

	lo, hi := m.active, m.active+1
	used := lipgloss.Width(tabs[m.active])
	for {
		grew := false
		if hi < len(tabs) {
			if w := lipgloss.Width(gap) + lipgloss.Width(tabs[hi]); used+w <= avail {
				used += w
				hi++
				grew = true
			}
		}
		if lo > 0 {
			if w := lipgloss.Width(gap) + lipgloss.Width(tabs[lo-1]); used+w <= avail {
				used += w
				lo--
				grew = true
			}
		}
		if !grew {
			return lo, hi
		}
	}
}
