// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package filestrip

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func items(labels ...string) []Item {
	out := make([]Item, len(labels))
	for i, l := range labels {
		out[i] = Item{Label: l}
	}
	return out
}

func TestView_AllFit(t *testing.T) {
	m := New(items("a.wav", "b.wav", "c.wav"))
	m.SetWidth(80)
	m.SetBadge(1, "3")

	view := ansi.Strip(m.View())
	assert.Equal(t, " a.wav   b.wav 3   c.wav ", view)
	assert.Equal(t, 3, m.Count())
}

func TestView_Empty(t *testing.T) {
	assert.Equal(t, "", New(nil).View())

	m := New(items("a.wav"))
	m.SetWidth(0)
	assert.Equal(t, "", m.View())
}

func TestView_ScrollsToActive(t *testing.T) {
	labels := []string{"rec01.wav", "rec02.wav", "rec03.wav", "rec04.wav", "rec05.wav", "rec06.wav"}
	m := New(items(labels...))
	m.SetWidth(40)

	m.SetActive(5)
	assert.Equal(t, 5, m.Active())
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "rec06.wav")
	assert.NotContains(t, view, "rec01.wav")
	assert.Contains(t, view, "‹")
	assert.NotContains(t, view, "›")
	assert.LessOrEqual(t, lipgloss.Width(m.View()), 40)

	m.SetActive(0)
	view = ansi.Strip(m.View())
	assert.Contains(t, view, "rec01.wav")
	assert.Contains(t, view, "›")
	assert.NotContains(t, view, "‹")

	m.SetActive(3)
	view = ansi.Strip(m.View())
	assert.Contains(t, view, "rec04.wav")
	assert.Contains(t, view, "‹")
	assert.Contains(t, view, "›")
}

func TestSetActive_IgnoresOutOfRange(t *testing.T) {
	m := New(items("a.wav", "b.wav"))
	m.SetActive(1)
	m.SetActive(7)
	m.SetActive(-1)
	assert.Equal(t, 1, m.Active())
}

func TestView_NarrowerThanOneItem(t *testing.T) {
	m := New(items("a-very-long-recording-name.wav"))
	m.SetWidth(10)
	assert.LessOrEqual(t, lipgloss.Width(m.View()), 10)
}
