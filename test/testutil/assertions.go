// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// AssertQuitMessage verifies that a quit message was generated
func AssertQuitMessage(t *testing.T, cmd tea.Cmd) {
	assert.NotNil(t, cmd, "Expected a command to be generated")
	msg := ExecuteCommand(cmd)
	assert.IsType(t, tea.QuitMsg{}, msg, "Expected quit message")
}

// AssertNoCommand verifies that no command was generated
func AssertNoCommand(t *testing.T, cmd tea.Cmd) {
	assert.Nil(t, cmd, "Expected no command to be generated")
}

// AssertViewNotEmpty verifies that the view produces non-empty output
func AssertViewNotEmpty(t *testing.T, model tea.Model) {
	view := model.View()
	assert.NotEmpty(t, view, "View should not be empty")
}

// AssertMessageOfType verifies that running cmd produces a message of the
// expected type, looking inside batches
func AssertMessageOfType(t *testing.T, cmd tea.Cmd, expectedType interface{}) tea.Msg {
	want := fmt.Sprintf("%T", expectedType)
	for _, msg := range CollectMessages(cmd) {
		if fmt.Sprintf("%T", msg) == want {
			return msg
		}
	}
	assert.Failf(t, "message not produced", "expected a %s", want)
	return nil
}
