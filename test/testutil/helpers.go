// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// SendMessage simulates sending a message to a Bubble Tea model
// Returns the updated model and any commands generated
func SendMessage(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	return model.Update(msg)
}

// SendKeys feeds a sequence of key messages to a model and returns the
// final model. Commands produced along the way are discarded.
func SendKeys(model tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		model, _ = model.Update(k)
	}
	return model
}

// ExecuteCommand executes a tea.Cmd and returns the resulting message
// Useful for testing command chains
func ExecuteCommand(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// CollectMessages runs cmd and flattens any tea.BatchMsg it yields.
// Commands that block on a timer are run too, so keep them short in tests.
func CollectMessages(cmd tea.Cmd) []tea.Msg {
	msg := ExecuteCommand(cmd)
	if msg == nil {
		return nil
	}
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, CollectMessages(c)...)
	}
	return out
}

// AssertViewContains checks if view output contains expected string
func AssertViewContains(t *testing.T, model tea.Model, expected string) {
	view := model.View()
	assert.Contains(t, view, expected)
}

// KeyPress creates a tea.KeyMsg for testing keyboard input
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{
		Type:  tea.KeyRunes,
		Runes: []rune(key),
	}
}

// SpecialKey creates special key messages (Enter, Esc, etc.)
func SpecialKey(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

// AltKey creates a special key message with the alt modifier held
func AltKey(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType, Alt: true}
}

// WindowSizeMsg creates a window size message for testing
func WindowSizeMsg(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}
