// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/dockhand/dockhand/internal/protocol"
)

// AssertCommandSent verifies that a command of the expected type was sent
func AssertCommandSent(t *testing.T, capture *CommandCapture, expectedType interface{}) {
	assert.True(t, capture.CommandCount() > 0, "Expected at least one command to be sent")
	lastCmd := capture.LastCommand()
	assert.IsType(t, expectedType, lastCmd, "Command type mismatch")
}

// AssertConnectHostCommand verifies that a ConnectHostCommand was sent for the alias
func AssertConnectHostCommand(t *testing.T, capture *CommandCapture, alias string) {
	AssertCommandSent(t, capture, protocol.ConnectHostCommand{})
	cmd := capture.LastCommand().(protocol.ConnectHostCommand)
	assert.Equal(t, alias, cmd.Host.Alias, "ConnectHostCommand alias mismatch")
}

// AssertContainerActionCommand verifies an action command for a container
func AssertContainerActionCommand(t *testing.T, capture *CommandCapture, action protocol.ContainerAction, containerName string) {
	AssertCommandSent(t, capture, protocol.ContainerActionCommand{})
	cmd := capture.LastCommand().(protocol.ContainerActionCommand)
	assert.Equal(t, action, cmd.Action, "ContainerActionCommand action mismatch")
	assert.Equal(t, containerName, cmd.ContainerName, "ContainerActionCommand container mismatch")
}

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

// AssertCommandCount verifies the exact number of commands captured
func AssertCommandCount(t *testing.T, capture *CommandCapture, expected int) {
	actual := capture.CommandCount()
	assert.Equal(t, expected, actual, "Command count mismatch")
}

// AssertNoCommands verifies that no commands were sent
func AssertNoCommands(t *testing.T, capture *CommandCapture) {
	AssertCommandCount(t, capture, 0)
}
