// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scriptedit edits a deployment script's environment variables.
// The screen works on a clone of the discovered script; nothing reaches
// the host until the save command is sent with the original env var set
// so only the differing lines get rewritten.
package scriptedit

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/tui/layout"
)

// Stage represents the current stage of the editor
type Stage int

const (
	StageList Stage = iota
	StageEdit
	StageAdd
)

// EnvItem represents one env var row
type EnvItem struct {
	Var         models.EnvVar
	maskSecrets bool
}

// FilterValue returns the value to filter against
func (e EnvItem) FilterValue() string { return e.Var.Key }

// Title returns the env var key
func (e EnvItem) Title() string { return e.Var.Key }

// Description returns the value, masked for secrets
func (e EnvItem) Description() string {
	if e.maskSecrets && e.Var.IsSecret {
		return layout.SecretStyle.Render(e.Var.DisplayValue())
	}
	return e.Var.Value
}

// Model is the model for the script editor screen.
type Model struct {
	cmdChan chan<- protocol.Command

	script   *models.DeploymentScript
	original []models.EnvVar

	maskSecrets bool
	stage       Stage
	list        list.Model
	form        *huh.Form

	editKey   string
	editValue string
	newKey    string
	newValue  string

	dirty         bool
	statusMessage string
	width         int
	height        int
}

// NewModel creates a script editor over a cloned script.
func NewModel(script *models.DeploymentScript, maskSecrets bool, cmdChan chan<- protocol.Command) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Title = ""

	m := Model{
		cmdChan:     cmdChan,
		script:      script,
		original:    append([]models.EnvVar(nil), script.EnvVars...),
		maskSecrets: maskSecrets,
		stage:       StageList,
		list:        l,
		width:       50,
		height:      10,
	}
	m.reloadItems()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reloadItems rebuilds the list from the working copy.
func (m *Model) reloadItems() {
	items := make([]list.Item, 0, len(m.script.EnvVars))
	for _, envVar := range m.script.EnvVars {
		items = append(items, EnvItem{Var: envVar, maskSecrets: m.maskSecrets})
	}
	m.list.SetItems(items)
}

// selectedVar returns the env var under the cursor.
func (m Model) selectedVar() (models.EnvVar, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return models.EnvVar{}, false
	}
	envItem, ok := item.(EnvItem)
	if !ok {
		return models.EnvVar{}, false
	}
	return envItem.Var, true
}

// initEditForm builds the single-value form for an existing variable.
func (m *Model) initEditForm(envVar models.EnvVar) {
	m.editKey = envVar.Key
	m.editValue = envVar.Value

	input := huh.NewInput().
		Key("value").
		Title(envVar.Key).
		Value(&m.editValue)
	if m.maskSecrets && envVar.IsSecret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	m.form = huh.NewForm(huh.NewGroup(input)).WithTheme(huh.ThemeCharm())
}

// initAddForm builds the key/value form for a new variable.
func (m *Model) initAddForm() {
	m.newKey = ""
	m.newValue = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("key").
				Title("Key").
				Placeholder("NEW_VAR").
				Value(&m.newKey).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("key is required")
					}
					if _, exists := m.script.GetEnvVar(s); exists {
						return fmt.Errorf("key already exists")
					}
					return nil
				}),

			huh.NewInput().
				Key("value").
				Title("Value").
				Value(&m.newValue),
		),
	).WithTheme(huh.ThemeCharm())
}

// GetLayoutInfo returns layout information for the script editor screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	info := layout.LayoutInfo{
		Title:       "Edit Script",
		Breadcrumbs: []string{"Hosts", m.script.ProjectName, "Edit Script"},
	}

	switch m.stage {
	case StageList:
		status := m.script.Path
		if m.dirty {
			status += "  (modified)"
		}
		if m.statusMessage != "" {
			status = m.statusMessage
		}
		info.Status = status
		info.HelpItems = []layout.HelpItem{
			{Key: "enter", Description: "edit"},
			{Key: "a", Description: "add"},
			{Key: "d", Description: "delete"},
			{Key: "m", Description: "toggle mask"},
			{Key: "w", Description: "save"},
			{Key: "esc", Description: "back"},
		}
	case StageEdit:
		info.Status = fmt.Sprintf("Editing %s", m.editKey)
		info.HelpItems = []layout.HelpItem{
			{Key: "enter", Description: "apply"},
			{Key: "esc", Description: "cancel"},
		}
	case StageAdd:
		info.Status = "New environment variable"
		info.HelpItems = []layout.HelpItem{
			{Key: "tab", Description: "next field"},
			{Key: "enter", Description: "apply"},
			{Key: "esc", Description: "cancel"},
		}
	}

	return info
}

// SetSize updates the model's dimensions and list size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	layoutInfo := m.GetLayoutInfo()
	dims := layout.GetContentArea(layoutInfo, width, height)
	m.list.SetWidth(dims.Width)
	m.list.SetHeight(dims.Height)
}
