// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostlist

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/messages"
)

// shellFinishedMsg is delivered when an interactive SSH session ends and
// the TUI regains the terminal.
type shellFinishedMsg struct {
	alias string
	err   error
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list's own filter input swallow keys while active.
		if m.list.FilterState() == list.Filtering {
			break
		}

		if m.pendingDelete {
			if msg.String() == "y" {
				m.deleteSelected()
			}
			m.pendingDelete = false
			return m, nil
		}

		switch msg.String() {
		case "enter":
			if host, ok := m.selectedHost(); ok {
				go func() {
					m.cmdChan <- protocol.ConnectHostCommand{Host: host}
				}()
				return m, func() tea.Msg {
					return messages.GoToDockerViewMsg{Host: host}
				}
			}

		case "s":
			if host, ok := m.selectedHost(); ok {
				return m, m.openShell(host)
			}

		case "a":
			return m, func() tea.Msg {
				return messages.GoToHostFormMsg{}
			}

		case "e":
			if host, ok := m.selectedHost(); ok {
				edit := host
				return m, func() tea.Msg {
					return messages.GoToHostFormMsg{Host: &edit}
				}
			}

		case "d":
			if _, ok := m.selectedHost(); ok {
				m.pendingDelete = true
				return m, nil
			}

		case "t":
			m.cycleTagFilter()
			return m, nil

		case "S":
			m.cycleSort()
			return m, nil

		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case shellFinishedMsg:
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Shell session error: %v", msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Shell session to %s ended", msg.alias)
		}
		m.markUsed(msg.alias)

	case protocol.ErrorEvent:
		if msg.Context != "" {
			m.statusMessage = fmt.Sprintf("Error: %s - %s", msg.Message, msg.Context)
		} else {
			m.statusMessage = fmt.Sprintf("Error: %s", msg.Message)
		}

	case protocol.StatusEvent:
		m.statusMessage = msg.Message

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// openShell suspends the TUI and hands the terminal to the system ssh
// binary; host-specific flags from the metadata sidecar ride along.
func (m Model) openShell(host models.Host) tea.Cmd {
	args := make([]string, 0, 8)
	if host.User != "" {
		args = append(args, "-l", host.User)
	}
	if host.Port > 0 && host.Port != 22 {
		args = append(args, "-p", strconv.Itoa(host.Port))
	}
	for _, key := range host.IdentityFiles {
		args = append(args, "-i", key)
	}
	args = append(args, host.SSHFlags...)
	args = append(args, host.Alias)

	c := exec.Command("ssh", args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return shellFinishedMsg{alias: host.Alias, err: err}
	})
}

func (m *Model) deleteSelected() {
	host, ok := m.selectedHost()
	if !ok {
		return
	}
	log := logger.GetTUILogger().With().Str("component", "hostlist").Logger()

	index := -1
	for i := range m.store.Hosts {
		if m.store.Hosts[i].Alias == host.Alias {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}
	if _, err := m.store.RemoveHost(index); err != nil {
		m.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}
	if err := m.store.Save(); err != nil {
		log.Error().Err(err).Str("alias", host.Alias).Msg("failed to save ssh config")
		m.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	m.meta.Remove(host.Alias)
	if err := ssh.SaveMetadata(m.metadataPath, m.meta); err != nil {
		log.Error().Err(err).Msg("failed to save metadata")
	}

	m.statusMessage = fmt.Sprintf("Removed %s", host.Alias)
	m.Reload()
}

func (m *Model) markUsed(alias string) {
	for i := range m.store.Hosts {
		if m.store.Hosts[i].Alias == alias {
			host := m.store.Hosts[i]
			m.meta.ApplyToHost(&host)
			host.MarkUsed()
			m.meta.ExtractFromHost(host)
			if err := ssh.SaveMetadata(m.metadataPath, m.meta); err != nil {
				log := logger.GetTUILogger()
				log.Warn().Err(err).Msg("failed to save metadata")
			}
			return
		}
	}
}
