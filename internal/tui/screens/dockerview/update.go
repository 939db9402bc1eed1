// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package dockerview

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/messages"
)

// rsyncFinishedMsg reports the outcome of a transfer started from the
// destination picker.
type rsyncFinishedMsg struct {
	ok     bool
	output string
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case protocol.HostConnectedEvent:
		m.connected = true
		m.statusMessage = fmt.Sprintf("Connected to %s", m.host.Alias)
		return m, nil

	case protocol.HostDisconnectedEvent:
		m.connected = false
		return m, nil

	case protocol.InventoryUpdatedEvent:
		m.scripts = msg.Scripts
		m.projects = msg.Projects
		items := make([]list.Item, 0, len(msg.Containers))
		for _, container := range msg.Containers {
			items = append(items, ContainerItem{Container: container})
		}
		m.containers.SetItems(items)
		return m, nil

	case protocol.ContainerLogsEvent:
		if m.mode == modeDetail && m.detailContainer == msg.ContainerName {
			m.detailBody = msg.Text
		}
		return m, nil

	case protocol.ContainerStatsEvent:
		if m.mode == modeDetail && m.detailContainer == msg.ContainerName {
			m.detailBody = renderStats(msg.Stats)
		}
		return m, nil

	case protocol.ContainerProcessesEvent:
		if m.mode == modeDetail && m.detailContainer == msg.ContainerName {
			m.detailBody = renderProcesses(msg.Processes)
		}
		return m, nil

	case protocol.ContainerInspectedEvent:
		if m.mode == modeDetail && m.detailTitle == "Inspect" {
			m.detailBody = renderInspect(msg.Info)
		}
		return m, nil

	case protocol.DirectoryListedEvent:
		// A listing that arrives after leaving the browser is stale.
		if m.mode != modeBrowse || msg.ViaRsync != m.viaRsync {
			return m, nil
		}
		m.browsePath = msg.Path
		items := make([]list.Item, 0, len(msg.Entries))
		for _, entry := range msg.Entries {
			items = append(items, FileItem{Entry: entry})
		}
		m.files.SetItems(items)
		return m, nil

	case protocol.ScriptSavedEvent:
		if msg.Changed {
			m.statusMessage = fmt.Sprintf("Saved %s", msg.Path)
		} else {
			m.statusMessage = "No changes to save"
		}
		return m, nil

	case protocol.StatusEvent:
		m.statusMessage = msg.Message
		return m, nil

	case protocol.ErrorEvent:
		if msg.Context != "" {
			m.statusMessage = fmt.Sprintf("Error: %s - %s", msg.Message, msg.Context)
		} else {
			m.statusMessage = fmt.Sprintf("Error: %s", msg.Message)
		}
		return m, nil

	case rsyncFinishedMsg:
		if msg.ok {
			m.statusMessage = "Rsync transfer complete"
		} else {
			m.statusMessage = fmt.Sprintf("Rsync failed: %s", strings.TrimSpace(msg.output))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	return m.updateActiveList(msg)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeContainers:
		return m.updateContainerKeys(msg)
	case modeDetail:
		switch msg.String() {
		case "esc":
			m.mode = modeContainers
			return m, nil
		case "r":
			m.requestDetail(m.detailTitle, m.detailContainer)
			return m, nil
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case modeScriptPicker:
		return m.updateScriptPickerKeys(msg)
	case modeBrowse:
		return m.updateBrowseKeys(msg)
	}
	return m, nil
}

func (m Model) updateContainerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.containers.FilterState() == list.Filtering {
		return m.updateActiveList(msg)
	}

	if m.pendingRemove {
		if msg.String() == "y" {
			if c, ok := m.selectedContainer(); ok {
				m.sendCommand(protocol.ContainerActionCommand{
					Action:        protocol.ActionRemove,
					ContainerName: c.Name,
				})
			}
		}
		m.pendingRemove = false
		return m, nil
	}

	switch msg.String() {
	case "r":
		m.sendCommand(protocol.RefreshInventoryCommand{})
		m.statusMessage = "Refreshing..."
		return m, nil

	case "s", "x", "R", "p":
		if c, ok := m.selectedContainer(); ok {
			m.sendCommand(protocol.ContainerActionCommand{
				Action:        actionForKey(msg.String()),
				ContainerName: c.Name,
				Image:         c.Image,
			})
			m.statusMessage = fmt.Sprintf("%s %s...", actionForKey(msg.String()), c.Name)
		}
		return m, nil

	case "d":
		if _, ok := m.selectedContainer(); ok {
			m.pendingRemove = true
		}
		return m, nil

	case "l":
		if c, ok := m.selectedContainer(); ok {
			m.openDetail("Logs", c.Name)
		}
		return m, nil

	case "t":
		if c, ok := m.selectedContainer(); ok {
			m.openDetail("Stats", c.Name)
		}
		return m, nil

	case "o":
		if c, ok := m.selectedContainer(); ok {
			m.openDetail("Processes", c.Name)
		}
		return m, nil

	case "i":
		if c, ok := m.selectedContainer(); ok {
			m.openDetail("Inspect", c.Name)
		}
		return m, nil

	case "e":
		if c, ok := m.selectedContainer(); ok && c.HasScript() {
			if script, found := m.scriptByPath(c.ScriptPath); found {
				clone := script.Clone()
				return m, func() tea.Msg {
					return messages.GoToScriptEditMsg{Script: clone}
				}
			}
			m.statusMessage = fmt.Sprintf("Script %s not loaded yet", c.ScriptPath)
		} else {
			m.statusMessage = "No script associated; press A to associate one"
		}
		return m, nil

	case "n":
		if c, ok := m.selectedContainer(); ok && c.HasScript() {
			m.sendCommand(protocol.RunScriptCommand{Path: c.ScriptPath})
			m.statusMessage = fmt.Sprintf("Running %s...", c.ScriptPath)
		}
		return m, nil

	case "A":
		if c, ok := m.selectedContainer(); ok {
			m.openScriptPicker(c.Name)
		}
		return m, nil

	case "b":
		m.openBrowser("~", false)
		return m, nil

	case "u":
		m.openBrowser("~", true)
		return m, nil

	case "esc":
		m.sendCommand(protocol.DisconnectCommand{})
		return m, func() tea.Msg {
			return messages.GoBackMsg{}
		}

	case "q", "ctrl+c":
		return m, tea.Quit
	}

	return m.updateActiveList(msg)
}

func (m Model) updateScriptPickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item := m.scriptList.SelectedItem(); item != nil {
			if scriptItem, ok := item.(ScriptItem); ok {
				m.sendCommand(protocol.AssociateScriptCommand{
					ContainerName: m.associateTarget,
					ScriptPath:    scriptItem.Script.Path,
				})
				m.statusMessage = fmt.Sprintf("Associated %s with %s", m.associateTarget, scriptItem.Script.Path)
			}
		}
		m.mode = modeContainers
		return m, nil

	case "esc":
		m.mode = modeContainers
		return m, nil

	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m.updateActiveList(msg)
}

func (m Model) updateBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item := m.files.SelectedItem(); item != nil {
			if fileItem, ok := item.(FileItem); ok && fileItem.Entry.IsDir {
				m.listDirectory(childPath(m.browsePath, fileItem.Entry.Name), m.viaRsync)
			}
		}
		return m, nil

	case " ":
		if !m.viaRsync {
			return m, nil
		}
		// Sync the working directory up to the highlighted destination.
		dest := m.browsePath
		host := m.host
		compress := hasCompressFlag(m.rsync.Flags)
		m.statusMessage = fmt.Sprintf("Syncing to %s:%s...", host.Alias, dest)
		m.mode = modeContainers
		return m, func() tea.Msg {
			ok, output := ssh.ExecuteRsync(host, ".", dest, ssh.RsyncToHost, compress)
			return rsyncFinishedMsg{ok: ok, output: output}
		}

	case "esc":
		m.mode = modeContainers
		return m, nil

	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m.updateActiveList(msg)
}

// updateActiveList routes non-handled messages to the list for the mode.
func (m Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeContainers:
		m.containers, cmd = m.containers.Update(msg)
	case modeScriptPicker:
		m.scriptList, cmd = m.scriptList.Update(msg)
	case modeBrowse:
		m.files, cmd = m.files.Update(msg)
	}
	return m, cmd
}

func (m *Model) openDetail(title, container string) {
	m.mode = modeDetail
	m.detailTitle = title
	m.detailContainer = container
	m.detailBody = "Loading..."
	m.requestDetail(title, container)
}

func (m Model) requestDetail(title, container string) {
	switch title {
	case "Logs":
		m.sendCommand(protocol.FetchLogsCommand{ContainerName: container, Tail: logTailLines})
	case "Stats":
		m.sendCommand(protocol.FetchStatsCommand{ContainerName: container})
	case "Processes":
		m.sendCommand(protocol.FetchProcessesCommand{ContainerName: container})
	case "Inspect":
		m.sendCommand(protocol.InspectContainerCommand{ContainerName: container})
	}
}

func (m *Model) openScriptPicker(containerName string) {
	m.mode = modeScriptPicker
	m.associateTarget = containerName
	items := make([]list.Item, 0, len(m.scripts))
	for _, script := range m.scripts {
		items = append(items, ScriptItem{Script: script})
	}
	m.scriptList.SetItems(items)
}

func (m *Model) openBrowser(startPath string, viaRsync bool) {
	m.mode = modeBrowse
	m.viaRsync = viaRsync
	m.browsePath = startPath
	m.files.SetItems(nil)
	m.listDirectory(startPath, viaRsync)
}

func (m Model) listDirectory(dirPath string, viaRsync bool) {
	m.sendCommand(protocol.ListDirectoryCommand{Path: dirPath, ViaRsync: viaRsync})
}

func actionForKey(key string) protocol.ContainerAction {
	switch key {
	case "s":
		return protocol.ActionStart
	case "x":
		return protocol.ActionStop
	case "R":
		return protocol.ActionRestart
	case "p":
		return protocol.ActionPull
	}
	return ""
}

// childPath resolves a listing entry against the current directory; ".."
// walks up without ever escaping past the root.
func childPath(current, name string) string {
	if name == ".." {
		parent := path.Dir(current)
		if parent == "" || parent == "." {
			return current
		}
		return parent
	}
	return path.Join(current, name)
}

func hasCompressFlag(flags []string) bool {
	for _, flag := range flags {
		if flag == "--compress" {
			return true
		}
		if strings.HasPrefix(flag, "-") && !strings.HasPrefix(flag, "--") && strings.Contains(flag, "z") {
			return true
		}
	}
	return false
}
