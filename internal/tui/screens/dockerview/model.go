// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dockerview is the per-host screen: the discovered container
// inventory with lifecycle actions, container detail views, the remote
// file browser and the rsync destination picker.
package dockerview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/tui/layout"
)

type viewMode int

const (
	modeContainers viewMode = iota
	modeDetail
	modeScriptPicker
	modeBrowse
)

// logTailLines is how much history a log fetch requests.
const logTailLines = 200

// ContainerItem represents a container in the list
type ContainerItem struct {
	Container models.Container
}

// FilterValue returns the value to filter against
func (c ContainerItem) FilterValue() string {
	return c.Container.Name + " " + c.Container.Image
}

// Title returns the container name and status
func (c ContainerItem) Title() string {
	title := fmt.Sprintf("%s  (%s)", c.Container.Name, c.Container.Status.Display())
	if c.Container.HasScript() {
		title += "  ⚓"
	}
	return title
}

// Description returns image and ports
func (c ContainerItem) Description() string {
	return fmt.Sprintf("%s  ports: %s", c.Container.ShortImage(), c.Container.PortsDisplay())
}

// ScriptItem represents a discovered deployment script in the picker
type ScriptItem struct {
	Script *models.DeploymentScript
}

func (s ScriptItem) FilterValue() string { return s.Script.Path }

func (s ScriptItem) Title() string {
	if s.Script.ContainerName != "" {
		return fmt.Sprintf("%s  (container: %s)", s.Script.ProjectName, s.Script.ContainerName)
	}
	return s.Script.ProjectName
}

func (s ScriptItem) Description() string { return s.Script.Path }

// FileItem represents a row of the remote directory listing
type FileItem struct {
	Entry models.FileEntry
}

func (f FileItem) FilterValue() string { return f.Entry.Name }

func (f FileItem) Title() string {
	if f.Entry.IsDir {
		return f.Entry.Name + "/"
	}
	return f.Entry.Name
}

func (f FileItem) Description() string {
	switch {
	case f.Entry.IsDir:
		return "directory"
	case f.Entry.IsScript:
		return "shell script"
	default:
		return "file"
	}
}

// Model is the model for the docker view screen.
type Model struct {
	host    models.Host
	cmdChan chan<- protocol.Command
	rsync   config.RsyncConfig

	mode      viewMode
	connected bool

	containers list.Model
	scripts    []*models.DeploymentScript
	projects   []*models.Project

	// script picker state; the selection associates with this container
	scriptList      list.Model
	associateTarget string

	// detail view state (logs, stats, processes, inspect)
	detailTitle     string
	detailContainer string
	detailBody      string

	// file browser state
	files      list.Model
	browsePath string
	viaRsync   bool

	pendingRemove bool
	statusMessage string
	width         int
	height        int
}

// NewModel creates a docker view for a host whose connection is being
// established.
func NewModel(host models.Host, rsync config.RsyncConfig, cmdChan chan<- protocol.Command) Model {
	containers := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	containers.SetShowStatusBar(false)
	containers.SetShowHelp(false)
	containers.SetFilteringEnabled(true)
	containers.Title = ""

	scripts := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	scripts.SetShowStatusBar(false)
	scripts.SetShowHelp(false)
	scripts.SetFilteringEnabled(false)
	scripts.Title = ""

	files := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	files.SetShowStatusBar(false)
	files.SetShowHelp(false)
	files.SetFilteringEnabled(false)
	files.Title = ""

	return Model{
		host:          host,
		cmdChan:       cmdChan,
		rsync:         rsync,
		mode:          modeContainers,
		containers:    containers,
		scriptList:    scripts,
		files:         files,
		statusMessage: fmt.Sprintf("Connecting to %s...", host.Alias),
		width:         50,
		height:        10,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// selectedContainer returns the container under the cursor.
func (m Model) selectedContainer() (models.Container, bool) {
	item := m.containers.SelectedItem()
	if item == nil {
		return models.Container{}, false
	}
	containerItem, ok := item.(ContainerItem)
	if !ok {
		return models.Container{}, false
	}
	return containerItem.Container, true
}

// scriptByPath finds a discovered script by its remote path.
func (m Model) scriptByPath(path string) (*models.DeploymentScript, bool) {
	for _, script := range m.scripts {
		if script.Path == path {
			return script, true
		}
	}
	return nil, false
}

// GetLayoutInfo returns layout information for the docker view screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	info := layout.LayoutInfo{
		Title:       m.host.Alias,
		Breadcrumbs: []string{"Hosts", m.host.Alias},
	}

	switch m.mode {
	case modeContainers:
		info.Status = fmt.Sprintf("%d containers, %d scripts", len(m.containers.Items()), len(m.scripts))
		if m.pendingRemove {
			if c, ok := m.selectedContainer(); ok {
				info.Status = fmt.Sprintf("Remove %s? press y to confirm", c.Name)
			}
		} else if !m.connected {
			info.Status = fmt.Sprintf("Connecting to %s...", m.host.Alias)
		} else if m.statusMessage != "" {
			info.Status = m.statusMessage
		}
		info.HelpItems = []layout.HelpItem{
			{Key: "s/x/R", Description: "start/stop/restart"},
			{Key: "l", Description: "logs"},
			{Key: "t", Description: "stats"},
			{Key: "o", Description: "top"},
			{Key: "i", Description: "inspect"},
			{Key: "e", Description: "edit script"},
			{Key: "n", Description: "run script"},
			{Key: "A", Description: "associate"},
			{Key: "b", Description: "browse"},
			{Key: "u", Description: "rsync"},
			{Key: "r", Description: "refresh"},
			{Key: "esc", Description: "disconnect"},
		}

	case modeDetail:
		info.Breadcrumbs = append(info.Breadcrumbs, m.detailTitle)
		info.Status = m.statusMessage
		info.HelpItems = []layout.HelpItem{
			{Key: "r", Description: "reload"},
			{Key: "esc", Description: "back"},
		}

	case modeScriptPicker:
		info.Breadcrumbs = append(info.Breadcrumbs, "Associate")
		info.Status = fmt.Sprintf("Pick a script for %s", m.associateTarget)
		info.HelpItems = []layout.HelpItem{
			{Key: "enter", Description: "associate"},
			{Key: "esc", Description: "cancel"},
		}

	case modeBrowse:
		label := "Browse"
		if m.viaRsync {
			label = "Rsync Destination"
		}
		info.Breadcrumbs = append(info.Breadcrumbs, label)
		info.Status = m.browsePath
		info.HelpItems = []layout.HelpItem{
			{Key: "enter", Description: "open"},
		}
		if m.viaRsync {
			info.HelpItems = append(info.HelpItems, layout.HelpItem{Key: "space", Description: "sync here"})
		}
		info.HelpItems = append(info.HelpItems, layout.HelpItem{Key: "esc", Description: "back"})
	}

	return info
}

// SetSize updates the model's dimensions and list sizes
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	layoutInfo := m.GetLayoutInfo()
	dims := layout.GetContentArea(layoutInfo, width, height)
	m.containers.SetWidth(dims.Width)
	m.containers.SetHeight(dims.Height)
	m.scriptList.SetWidth(dims.Width)
	m.scriptList.SetHeight(dims.Height)
	m.files.SetWidth(dims.Width)
	m.files.SetHeight(dims.Height)
}

// sendCommand pushes a protocol command without blocking the update loop.
func (m Model) sendCommand(cmd protocol.Command) {
	go func() {
		m.cmdChan <- cmd
	}()
}
