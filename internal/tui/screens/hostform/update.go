// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	log := logger.GetTUILogger().With().Str("component", "hostform").Logger()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return messages.GoToHostListMsg{}
			}
		case "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		host := m.buildHost()

		if m.editing && m.editIndex >= 0 {
			if err := m.store.UpdateHost(m.editIndex, host); err != nil {
				log.Error().Err(err).Str("alias", host.Alias).Msg("failed to update host")
			}
		} else {
			m.store.AddHost(host)
		}

		if err := m.store.Save(); err != nil {
			log.Error().Err(err).Str("alias", host.Alias).Msg("failed to save ssh config")
		}

		m.meta.ExtractFromHost(host)
		for _, tag := range host.Tags {
			m.meta.AddGlobalTag(tag)
		}
		if err := ssh.SaveMetadata(m.metadataPath, m.meta); err != nil {
			log.Error().Err(err).Msg("failed to save metadata")
		}

		log.Info().Str("alias", host.Alias).Bool("editing", m.editing).Msg("host saved")
		return m, func() tea.Msg {
			return messages.GoToHostListMsg{}
		}
	}

	return m, cmd
}
