// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toneswiper/toneswiper/internal/todi"
)

// KeyMap holds every binding of the annotator.
type KeyMap struct {
	PlayPause   key.Binding
	SeekForward key.Binding
	SeekBack    key.Binding
	Slower      key.Binding
	Faster      key.Binding
	NextFile    key.Binding
	PrevFile    key.Binding
	FirstFile   key.Binding
	LastFile    key.Binding

	High         key.Binding
	Low          key.Binding
	Left         key.Binding
	Right        key.Binding
	DownstepHigh key.Binding
	DownstepLow  key.Binding
	Downstep     key.Binding

	Enter  key.Binding
	Undo   key.Binding
	Clear  key.Binding
	Select key.Binding
	Back   key.Binding
	Delete key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		SeekForward: key.NewBinding(key.WithKeys(".", ">"), key.WithHelp(".", "forward")),
		SeekBack:    key.NewBinding(key.WithKeys(",", "<"), key.WithHelp(",", "back")),
		Slower:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		Faster:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		NextFile:    key.NewBinding(key.WithKeys("]", "pgdown", "alt+right"), key.WithHelp("]", "next file")),
		PrevFile:    key.NewBinding(key.WithKeys("[", "pgup", "alt+left"), key.WithHelp("[", "prev file")),
		FirstFile:   key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first file")),
		LastFile:    key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last file")),

		High:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "high")),
		Low:          key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "low")),
		Left:         key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "initial")),
		Right:        key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "final")),
		DownstepHigh: key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "downstep high")),
		DownstepLow:  key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+↓", "downstep low")),
		Downstep:     key.NewBinding(key.WithKeys("!"), key.WithHelp("!", "downstep")),

		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit/edit")),
		Undo:   key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear file")),
		Select: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select next")),
		Back:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "select prev")),
		Delete: key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:   key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// todiKey returns the ToDI keys a key press stands for, or nil.
func (k KeyMap) todiKey(msg tea.KeyMsg) []todi.Key {
	switch {
	case key.Matches(msg, k.High):
		return []todi.Key{todi.High}
	case key.Matches(msg, k.Low):
		return []todi.Key{todi.Low}
	case key.Matches(msg, k.Left):
		return []todi.Key{todi.Left}
	case key.Matches(msg, k.Right):
		return []todi.Key{todi.Right}
	case key.Matches(msg, k.DownstepHigh):
		return []todi.Key{todi.Downstep, todi.High}
	case key.Matches(msg, k.DownstepLow):
		return []todi.Key{todi.Downstep, todi.Low}
	case key.Matches(msg, k.Downstep):
		return []todi.Key{todi.Downstep}
	}
	return nil
}

// ShortHelp is shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.High, k.Low, k.Left, k.Right, k.NextFile, k.Undo, k.Help, k.Quit}
}

// FullHelp is shown by the help toggle.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.SeekForward, k.SeekBack, k.Slower, k.Faster},
		{k.NextFile, k.PrevFile, k.FirstFile, k.LastFile},
		{k.High, k.Low, k.Left, k.Right, k.DownstepHigh, k.DownstepLow, k.Downstep},
		{k.Enter, k.Undo, k.Clear, k.Select, k.Back, k.Delete, k.Cancel, k.Help, k.Quit},
	}
}
