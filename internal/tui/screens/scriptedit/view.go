// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package scriptedit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dockhand/dockhand/internal/tui/layout"
)

// View renders the script editor screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	var content string
	switch m.stage {
	case StageList:
		content = lipgloss.JoinVertical(lipgloss.Left, m.renderSummary(), m.list.View())
	case StageEdit, StageAdd:
		content = lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}

// renderSummary shows the script's non-editable structure above the env
// var list.
func (m Model) renderSummary() string {
	var parts []string

	if m.script.ContainerName != "" {
		parts = append(parts, fmt.Sprintf("container: %s", m.script.ContainerName))
	}
	if m.script.Repo != "" {
		parts = append(parts, fmt.Sprintf("image: %s", m.script.Repo))
	}
	if m.script.Network != "" {
		parts = append(parts, fmt.Sprintf("network: %s", m.script.Network))
	}
	if len(m.script.Ports) > 0 {
		ports := make([]string, 0, len(m.script.Ports))
		for _, p := range m.script.Ports {
			ports = append(ports, p.Display())
		}
		parts = append(parts, fmt.Sprintf("ports: %s", strings.Join(ports, ", ")))
	}
	if len(m.script.Volumes) > 0 {
		parts = append(parts, fmt.Sprintf("volumes: %d", len(m.script.Volumes)))
	}

	if len(parts) == 0 {
		return ""
	}
	return layout.StatsStyle.Render(strings.Join(parts, "  •  ")) + "\n"
}
