// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostlist

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/messages"
	"github.com/dockhand/dockhand/test/testutil"
)

func testStore(t *testing.T) (*ssh.HostConfig, *ssh.Metadata, string) {
	t.Helper()
	dir := t.TempDir()

	store := ssh.NewHostConfig(filepath.Join(dir, "config"))
	for _, host := range testutil.SampleHosts() {
		store.AddHost(host)
	}

	meta := ssh.NewMetadata()
	meta.AddGlobalTag("prod")
	meta.AddGlobalTag("staging")

	return store, meta, filepath.Join(dir, "metadata.yaml")
}

func TestHostItem(t *testing.T) {
	item := HostItem{Host: models.Host{
		Alias:    "prod-1",
		Hostname: "prod-1.example.com",
		User:     "deploy",
		Port:     2222,
		Tags:     []string{"prod"},
		Note:     "primary",
	}}

	assert.Contains(t, item.FilterValue(), "prod-1")
	assert.Contains(t, item.FilterValue(), "prod")
	assert.Equal(t, "prod-1  [prod]", item.Title())
	assert.Equal(t, "deploy@prod-1.example.com:2222  — primary", item.Description())
}

func TestHostItem_DefaultPortOmitted(t *testing.T) {
	item := HostItem{Host: models.Host{Alias: "a", Hostname: "h", Port: 22}}
	assert.Equal(t, "h", item.Description())
}

func TestNewModel(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	assert.Len(t, model.list.Items(), 3)
	assert.Nil(t, model.Init())
}

func TestTagFilterCycling(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	// prod -> staging -> off
	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("t"))
	model = newModel.(Model)
	assert.Equal(t, "prod", model.tagFilter)
	assert.Len(t, model.list.Items(), 1)

	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("t"))
	model = newModel.(Model)
	assert.Equal(t, "staging", model.tagFilter)
	assert.Len(t, model.list.Items(), 1)

	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("t"))
	model = newModel.(Model)
	assert.Equal(t, "", model.tagFilter)
	assert.Len(t, model.list.Items(), 3)
}

func TestSortCycling(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	// Default is the SSH config file order.
	assert.Equal(t, "prod-1", model.list.Items()[0].(HostItem).Host.Alias)

	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("S"))
	model = newModel.(Model)
	assert.Equal(t, "backup", model.list.Items()[0].(HostItem).Host.Alias)
	assert.Contains(t, model.GetLayoutInfo().Status, "sort: alias")

	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("S"))
	model = newModel.(Model)
	assert.Equal(t, "backup", model.list.Items()[0].(HostItem).Host.Alias)
	assert.Contains(t, model.GetLayoutInfo().Status, "sort: hostname")

	// last used: stamped hosts float to the top.
	store.Hosts[1].MarkUsed()
	meta.ExtractFromHost(store.Hosts[1])
	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("S"))
	model = newModel.(Model)
	assert.Equal(t, "staging", model.list.Items()[0].(HostItem).Host.Alias)

	// user: hosts without a user sort first on the empty string.
	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("S"))
	model = newModel.(Model)
	assert.Equal(t, "backup", model.list.Items()[0].(HostItem).Host.Alias)

	// And back to config order.
	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("S"))
	model = newModel.(Model)
	assert.Equal(t, "prod-1", model.list.Items()[0].(HostItem).Host.Alias)
}

func TestConnectNavigation(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	_, cmd := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg := testutil.ExecuteCommand(cmd)
	nav, ok := msg.(messages.GoToDockerViewMsg)
	require.True(t, ok, "enter should navigate to the docker view")
	assert.Equal(t, "prod-1", nav.Host.Alias)

	// The connect command goes out on the session channel.
	capture.WaitForCommands(1)
	testutil.AssertConnectHostCommand(t, capture, "prod-1")
}

func TestAddEditNavigation(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	_, cmd := testutil.SendMessage(model, testutil.KeyPress("a"))
	require.NotNil(t, cmd)
	msg := testutil.ExecuteCommand(cmd)
	add, ok := msg.(messages.GoToHostFormMsg)
	require.True(t, ok, "a should open the host form")
	assert.Nil(t, add.Host, "add uses an empty form")

	_, cmd = testutil.SendMessage(model, testutil.KeyPress("e"))
	require.NotNil(t, cmd)
	msg = testutil.ExecuteCommand(cmd)
	edit, ok := msg.(messages.GoToHostFormMsg)
	require.True(t, ok, "e should open the host form")
	require.NotNil(t, edit.Host)
	assert.Equal(t, "prod-1", edit.Host.Alias)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	// d arms the confirmation; any key but y cancels.
	newModel, _ := testutil.SendMessage(model, testutil.KeyPress("d"))
	model = newModel.(Model)
	assert.True(t, model.pendingDelete)

	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("n"))
	model = newModel.(Model)
	assert.False(t, model.pendingDelete)
	assert.Len(t, store.Hosts, 3)

	// d then y removes the selected host and persists the config.
	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("d"))
	model = newModel.(Model)
	newModel, _ = testutil.SendMessage(model, testutil.KeyPress("y"))
	model = newModel.(Model)

	assert.Len(t, store.Hosts, 2)
	assert.Len(t, model.list.Items(), 2)

	content, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "prod-1.example.com")
}

func TestQuitKeys(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	_, cmd := testutil.SendMessage(model, testutil.KeyPress("q"))
	testutil.AssertQuitMessage(t, cmd)
}

func TestStatusEvents(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)

	newModel, _ := testutil.SendMessage(model, protocol.ErrorEvent{Message: "boom", Context: "ctx"})
	model = newModel.(Model)
	assert.Equal(t, "Error: boom - ctx", model.statusMessage)

	newModel, _ = testutil.SendMessage(model, protocol.StatusEvent{Message: "Found 2 containers"})
	model = newModel.(Model)
	assert.Equal(t, "Found 2 containers", model.statusMessage)
}

func TestView(t *testing.T) {
	capture := testutil.NewCommandCapture()
	defer capture.Close()
	store, meta, metaPath := testStore(t)

	model := NewModel(capture.Channel(), store, meta, metaPath)
	model.SetSize(100, 40)

	testutil.AssertViewNotEmpty(t, model)
	testutil.AssertViewContains(t, model, "connect")
	testutil.AssertViewContains(t, model, "Hosts")
}
