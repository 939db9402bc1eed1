// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/messages"
	"github.com/dockhand/dockhand/internal/tui/screens/dockerview"
	"github.com/dockhand/dockhand/internal/tui/screens/hostform"
	"github.com/dockhand/dockhand/internal/tui/screens/hostlist"
	"github.com/dockhand/dockhand/internal/tui/screens/scriptedit"
)

// ScreenType represents the current active screen
type ScreenType int

const (
	HostListScreen ScreenType = iota
	HostFormScreen
	DockerViewScreen
	ScriptEditScreen
)

type MainModel struct {
	// Current screen state
	currentScreen ScreenType
	// Screen history for back navigation
	screenHistory []ScreenType

	// Individual screen models
	hostList   hostlist.Model
	hostForm   hostform.Model
	dockerView dockerview.Model
	scriptEdit scriptedit.Model

	// Global state
	width, height int
	cfg           config.AppConfig
	store         *ssh.HostConfig
	meta          *ssh.Metadata
	cmdChan       chan<- protocol.Command
	eventChan     <-chan protocol.Event
}

// NewMainModel creates a new MainModel with the host list as the initial screen
func NewMainModel(cfg config.AppConfig, store *ssh.HostConfig, meta *ssh.Metadata, cmdChan chan<- protocol.Command, eventChan <-chan protocol.Event) MainModel {
	return MainModel{
		currentScreen: HostListScreen,
		screenHistory: []ScreenType{},
		hostList:      hostlist.NewModel(cmdChan, store, meta, cfg.Paths.MetadataPath),
		cfg:           cfg,
		store:         store,
		meta:          meta,
		cmdChan:       cmdChan,
		eventChan:     eventChan,
	}
}

func (m MainModel) Init() tea.Cmd {
	return m.hostList.Init()
}

// setSize updates the size for the current screen
func (m *MainModel) setSize(width, height int) {
	m.width = width
	m.height = height
	switch m.currentScreen {
	case HostListScreen:
		m.hostList.SetSize(width, height)
	case HostFormScreen:
		m.hostForm.SetSize(width, height)
	case DockerViewScreen:
		m.dockerView.SetSize(width, height)
	case ScriptEditScreen:
		m.scriptEdit.SetSize(width, height)
	}
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window size messages at the top level
	if windowSize, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(windowSize.Width, windowSize.Height)
	}

	// Handle Navigation Messages First (these return early to avoid screen delegation)
	switch msg := msg.(type) {
	case messages.GoToDockerViewMsg:
		m.screenHistory = append(m.screenHistory, m.currentScreen)
		m.dockerView = dockerview.NewModel(msg.Host, m.cfg.Rsync, m.cmdChan)
		m.dockerView.SetSize(m.width, m.height)
		m.currentScreen = DockerViewScreen
		return m, m.dockerView.Init()

	case messages.GoToHostFormMsg:
		m.screenHistory = append(m.screenHistory, m.currentScreen)
		m.hostForm = hostform.NewModel(m.store, m.meta, m.cfg.Paths.MetadataPath, msg.Host)
		m.hostForm.SetSize(m.width, m.height)
		m.currentScreen = HostFormScreen
		return m, m.hostForm.Init()

	case messages.GoToScriptEditMsg:
		m.screenHistory = append(m.screenHistory, m.currentScreen)
		m.scriptEdit = scriptedit.NewModel(msg.Script, m.cfg.UI.MaskSecrets, m.cmdChan)
		m.scriptEdit.SetSize(m.width, m.height)
		m.currentScreen = ScriptEditScreen
		return m, m.scriptEdit.Init()

	case messages.GoBackMsg:
		// Pop from history if available
		if len(m.screenHistory) > 0 {
			m.currentScreen = m.screenHistory[len(m.screenHistory)-1]
			m.screenHistory = m.screenHistory[:len(m.screenHistory)-1]
			m.setSize(m.width, m.height) // Refresh size for the screen we're going back to
		}
		return m, nil

	case messages.GoToHostListMsg:
		// Clear history and go back to the host list
		m.currentScreen = HostListScreen
		m.screenHistory = []ScreenType{}
		m.hostList.Reload()
		m.hostList.SetSize(m.width, m.height)
		return m, m.hostList.Init()
	}

	// Log inventory events for debugging
	if inventoryEvent, ok := msg.(protocol.InventoryUpdatedEvent); ok {
		log := logger.GetTUILogger().With().Str("component", "main_model").Logger()
		log.Debug().
			Str("currentScreen", screenName(m.currentScreen)).
			Str("host", inventoryEvent.GetMetadata().HostAlias).
			Int("containers", len(inventoryEvent.Containers)).
			Int("scripts", len(inventoryEvent.Scripts)).
			Msg("inventory update received")
	}

	// Delegate to the current screen
	var screenCmd tea.Cmd
	switch m.currentScreen {
	case HostListScreen:
		var model tea.Model
		model, screenCmd = m.hostList.Update(msg)
		m.hostList = model.(hostlist.Model)
	case HostFormScreen:
		var model tea.Model
		model, screenCmd = m.hostForm.Update(msg)
		m.hostForm = model.(hostform.Model)
	case DockerViewScreen:
		var model tea.Model
		model, screenCmd = m.dockerView.Update(msg)
		m.dockerView = model.(dockerview.Model)
	case ScriptEditScreen:
		var model tea.Model
		model, screenCmd = m.scriptEdit.Update(msg)
		m.scriptEdit = model.(scriptedit.Model)
	}

	return m, screenCmd
}

func (m MainModel) View() string {
	switch m.currentScreen {
	case HostListScreen:
		return m.hostList.View()
	case HostFormScreen:
		return m.hostForm.View()
	case DockerViewScreen:
		return m.dockerView.View()
	case ScriptEditScreen:
		return m.scriptEdit.View()
	default:
		return "Unknown screen"
	}
}

// screenName returns a string representation of the screen type for logging
func screenName(s ScreenType) string {
	switch s {
	case HostListScreen:
		return "HostList"
	case HostFormScreen:
		return "HostForm"
	case DockerViewScreen:
		return "DockerView"
	case ScriptEditScreen:
		return "ScriptEdit"
	default:
		return "Unknown"
	}
}
