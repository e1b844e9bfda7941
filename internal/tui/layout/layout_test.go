// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestValidateSpace(t *testing.T) {
	assert.True(t, ValidateSpace(80, 24).Valid)

	narrow := ValidateSpace(MinimumWidth-1, 24)
	assert.False(t, narrow.Valid)
	assert.Contains(t, narrow.Error, "narrow")

	short := ValidateSpace(80, MinimumHeight-1)
	assert.False(t, short.Valid)
	assert.Contains(t, short.Error, "short")
}

func TestRenderLayout_FillsTerminal(t *testing.T) {
	info := LayoutInfo{
		Title:       "File 1/2",
		Breadcrumbs: []string{"a.wav"},
		Status:      "paused",
		HelpItems:   []HelpItem{{Key: "q", Description: "quit"}},
	}
	out := RenderLayout("body", info, 80, 24)

	assert.Equal(t, 24, lipgloss.Height(out))
	assert.Contains(t, out, "File 1/2")
	assert.Contains(t, out, "a.wav")
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "quit")
}

func TestRenderLayout_TooSmall(t *testing.T) {
	out := RenderLayout("body", LayoutInfo{Title: "x"}, 20, 5)
	assert.Contains(t, out, "Terminal Too Small")
	assert.NotContains(t, out, "body")
}

func TestGetContentArea(t *testing.T) {
	info := LayoutInfo{Title: "t", Status: "s", HelpItems: []HelpItem{{Key: "q", Description: "quit"}}}
	dims := GetContentArea(info, 80, 24)
	assert.True(t, dims.Valid)

	header := RenderHeader(info.Title, nil, info.Status, 80)
	footer := RenderFooter(info.HelpItems, 80)
	assert.Equal(t, 24-lipgloss.Height(header)-lipgloss.Height(footer), dims.Height)
}

func TestHelpItemsFrom(t *testing.T) {
	play := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play"))
	off := key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"))
	off.SetEnabled(false)

	items := HelpItemsFrom(play, off)
	assert.Equal(t, []HelpItem{{Key: "space", Description: "play"}}, items)
}

func TestShade(t *testing.T) {
	assert.Equal(t, lipgloss.Color("255"), Shade(0))
	assert.Equal(t, lipgloss.Color("232"), Shade(1))
	assert.Equal(t, lipgloss.Color("232"), Shade(7))
	assert.Equal(t, lipgloss.Color("255"), Shade(-1))
}

func TestGetDivider(t *testing.T) {
	assert.Empty(t, GetDivider(0))
	assert.Equal(t, 3, strings.Count(GetDivider(3), "─"))
}
