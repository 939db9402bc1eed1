// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

// SendMessage simulates sending a message to a Bubble Tea model
// Returns the updated model and any commands generated
func SendMessage(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	return model.Update(msg)
}

// ExecuteCommand executes a tea.Cmd and returns the resulting message
// Useful for testing command chains
func ExecuteCommand(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// maxFeedbackDepth bounds the command feedback loop so a model that
// keeps emitting commands cannot hang a test.
const maxFeedbackDepth = 32

// ProcessMessages feeds messages through a model the way the Bubble Tea
// runtime does: every command returned by Update is executed and the
// resulting message is fed back in, with batches and sequences unrolled.
// Needed for huh forms, which focus fields and advance groups through
// their own internal messages. Screen-routing messages are handled by
// the root model in the real program, so they end the feedback loop.
func ProcessMessages(model tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		model = deliver(model, msg, 0)
	}
	return model
}

// DriveInit runs a model's Init command and feeds the resulting
// messages back through Update.
func DriveInit(model tea.Model) tea.Model {
	return execute(model, model.Init(), 0)
}

var cmdType = reflect.TypeOf(tea.Cmd(nil))

func deliver(model tea.Model, msg tea.Msg, depth int) tea.Model {
	if msg == nil || depth > maxFeedbackDepth {
		return model
	}
	// tea.BatchMsg and the sequence message are both slices of commands.
	if v := reflect.ValueOf(msg); v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		for i := 0; i < v.Len(); i++ {
			cmd, _ := v.Index(i).Interface().(tea.Cmd)
			model = execute(model, cmd, depth)
		}
		return model
	}
	if _, quit := msg.(tea.QuitMsg); quit {
		return model
	}
	if reflect.TypeOf(msg).PkgPath() == "github.com/dockhand/dockhand/internal/tui/messages" {
		return model
	}
	updated, cmd := model.Update(msg)
	return execute(updated, cmd, depth)
}

func execute(model tea.Model, cmd tea.Cmd, depth int) tea.Model {
	if cmd == nil {
		return model
	}
	return deliver(model, cmd(), depth+1)
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

// WindowSizeMsg creates a window size message for testing
func WindowSizeMsg(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	}
}
