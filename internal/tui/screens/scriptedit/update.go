// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package scriptedit

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case protocol.ScriptSavedEvent:
		if msg.Changed {
			m.statusMessage = fmt.Sprintf("Saved %s", msg.Path)
			m.original = append([]models.EnvVar(nil), m.script.EnvVars...)
			m.dirty = false
		} else {
			m.statusMessage = "No changes to save"
		}
		return m, nil

	case protocol.ErrorEvent:
		m.statusMessage = fmt.Sprintf("Error: %s", msg.Message)
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	switch m.stage {
	case StageList:
		return m.updateList(msg)
	case StageEdit, StageAdd:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if envVar, ok := m.selectedVar(); ok {
				m.stage = StageEdit
				m.initEditForm(envVar)
				return m, m.form.Init()
			}

		case "a":
			m.stage = StageAdd
			m.initAddForm()
			return m, m.form.Init()

		case "d":
			if envVar, ok := m.selectedVar(); ok {
				m.script.RemoveEnvVar(envVar.Key)
				m.dirty = true
				m.statusMessage = ""
				m.reloadItems()
			}
			return m, nil

		case "m":
			m.maskSecrets = !m.maskSecrets
			m.reloadItems()
			return m, nil

		case "w":
			m.save()
			return m, nil

		case "esc":
			return m, func() tea.Msg {
				return messages.GoBackMsg{}
			}

		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.stage = StageList
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		// Read completed values through the form; the bound model fields
		// belong to the copy the form was built on, not this one.
		switch m.stage {
		case StageEdit:
			value := m.form.GetString("value")
			if value == "" {
				value = m.editValue
			}
			m.script.SetEnvVar(m.editKey, value)
		case StageAdd:
			key := m.form.GetString("key")
			if key == "" {
				key = m.newKey
			}
			value := m.form.GetString("value")
			if value == "" {
				value = m.newValue
			}
			if key != "" {
				m.script.SetEnvVar(key, value)
			}
		}
		m.dirty = true
		m.statusMessage = ""
		m.stage = StageList
		m.reloadItems()
		return m, nil
	}

	return m, cmd
}

// save sends the edited script with the env var snapshot taken when the
// editor opened; the session patches only the differing lines.
func (m *Model) save() {
	script := m.script
	original := append([]models.EnvVar(nil), m.original...)
	go func() {
		m.cmdChan <- protocol.SaveScriptCommand{
			Script:          script,
			OriginalEnvVars: original,
		}
	}()
	m.statusMessage = "Saving..."
}
