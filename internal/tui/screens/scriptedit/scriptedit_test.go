// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package scriptedit

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/tui/messages"
	"github.com/dockhand/dockhand/test/testutil"
)

func newEditor(capture *testutil.CommandCapture) Model {
	return NewModel(testutil.SampleScript(), true, capture.Channel())
}

func TestEnvItemMasking(t *testing.T) {
	secret := models.NewEnvVar("DB_PASSWORD", "hunter2")
	require.True(t, secret.IsSecret)

	masked := EnvItem{Var: secret, maskSecrets: true}
	assert.NotContains(t, masked.Description(), "hunter2")

	unmasked := EnvItem{Var: secret, maskSecrets: false}
	assert.Equal(t, "hunter2", unmasked.Description())

	plain := EnvItem{Var: models.NewEnvVar("PORT", "8080"), maskSecrets: true}
	assert.Equal(t, "8080", plain.Description())
}

func TestNewModelSnapshotsOriginals(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()

	model := newEditor(capture)

	assert.Len(t, model.list.Items(), 3)
	assert.Len(t, model.original, 3)
	assert.False(t, model.dirty)

	// The snapshot must not alias the working copy.
	model.script.SetEnvVar("NODE_ENV", "test")
	assert.Equal(t, "production", model.original[0].Value)
}

func TestDeleteMarksDirty(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("d"))
	model = newModel.(Model)

	assert.True(t, model.dirty)
	assert.Len(t, model.list.Items(), 2)
	_, exists := model.script.GetEnvVar("NODE_ENV")
	assert.False(t, exists)
	// The save snapshot still holds the deleted variable.
	assert.Len(t, model.original, 3)
}

func TestToggleMask(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	item := model.list.Items()[1].(EnvItem)
	assert.NotContains(t, item.Description(), "hunter2")

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("m"))
	model = newModel.(Model)

	item = model.list.Items()[1].(EnvItem)
	assert.Equal(t, "hunter2", item.Description())
}

func TestEnterOpensEditForm(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	newModel, _ := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEnter))
	model = newModel.(Model)

	assert.Equal(t, StageEdit, model.stage)
	assert.Equal(t, "NODE_ENV", model.editKey)
	assert.Equal(t, "production", model.editValue)

	// esc abandons the form without touching the script.
	newModel, _ = testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEsc))
	model = newModel.(Model)
	assert.Equal(t, StageList, model.stage)
	assert.False(t, model.dirty)
}

func TestAddOpensAddForm(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("a"))
	model = newModel.(Model)

	assert.Equal(t, StageAdd, model.stage)
	assert.Empty(t, model.newKey)
}

func TestEditFormTypedValueReachesScript(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	// Type into the form across value-copy update cycles, the way the
	// runtime delivers keys, and submit.
	updated := testutil.ProcessMessages(model,
		testutil.SpecialKey(tea.KeyEnter),
		testutil.KeyPress("-blue"),
		testutil.SpecialKey(tea.KeyEnter),
	)
	model = updated.(Model)

	assert.Equal(t, StageList, model.stage)
	assert.True(t, model.dirty)
	envVar, ok := model.script.GetEnvVar("NODE_ENV")
	require.True(t, ok)
	assert.Equal(t, "production-blue", envVar.Value)
}

func TestAddFormTypedPairReachesScript(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	updated := testutil.ProcessMessages(model,
		testutil.KeyPress("a"),
		testutil.KeyPress("FEATURE_FLAG"),
		testutil.SpecialKey(tea.KeyEnter),
		testutil.KeyPress("on"),
		testutil.SpecialKey(tea.KeyEnter),
	)
	model = updated.(Model)

	assert.Equal(t, StageList, model.stage)
	assert.True(t, model.dirty)
	envVar, ok := model.script.GetEnvVar("FEATURE_FLAG")
	require.True(t, ok)
	assert.Equal(t, "on", envVar.Value)
	assert.Len(t, model.script.EnvVars, 4)
}

func TestSaveSendsOriginalSnapshot(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	model.script.SetEnvVar("NODE_ENV", "staging")
	model.dirty = true

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("w"))
	model = newModel.(Model)
	assert.Equal(t, "Saving...", model.statusMessage)

	capture.WaitForCommands(1)
	testutil.AssertCommandSent(t, capture, protocol.SaveScriptCommand{})
	saveCmd := capture.LastCommand().(protocol.SaveScriptCommand)

	edited, _ := saveCmd.Script.GetEnvVar("NODE_ENV")
	assert.Equal(t, "staging", edited.Value)

	require.Len(t, saveCmd.OriginalEnvVars, 3)
	assert.Equal(t, "production", saveCmd.OriginalEnvVars[0].Value)
}

func TestScriptSavedEventResetsDirty(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	model.script.SetEnvVar("NODE_ENV", "staging")
	model.dirty = true

	newModel, _ := testutil.SendMessage(model, protocol.ScriptSavedEvent{
		Path:    model.script.Path,
		Changed: true,
	})
	model = newModel.(Model)

	assert.False(t, model.dirty)
	assert.Equal(t, "Saved /srv/acme/start.sh", model.statusMessage)
	// The saved state becomes the new baseline.
	assert.Equal(t, "staging", model.original[0].Value)
}

func TestScriptSavedEventNoChanges(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	newModel, _ := testutil.SendMessage(model, protocol.ScriptSavedEvent{Path: model.script.Path})
	model = newModel.(Model)

	assert.Equal(t, "No changes to save", model.statusMessage)
}

func TestEscapeNavigatesBack(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	_, cmd := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEsc))
	require.NotNil(t, cmd)
	msg := testutil.ExecuteCommand(cmd)
	assert.IsType(t, messages.GoBackMsg{}, msg)
}

func TestLayoutShowsModified(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)

	assert.NotContains(t, model.GetLayoutInfo().Status, "(modified)")

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("d"))
	model = newModel.(Model)
	assert.Contains(t, model.GetLayoutInfo().Status, "(modified)")
}

func TestView(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	model := newEditor(capture)
	model.SetSize(100, 40)

	testutil.AssertViewNotEmpty(t, model)
	testutil.AssertViewContains(t, model, "NODE_ENV")
	testutil.AssertViewContains(t, model, "api")
}
