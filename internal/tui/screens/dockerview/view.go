// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package dockerview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/tui/layout"
)

// View renders the docker view screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	var content string
	switch m.mode {
	case modeContainers:
		content = m.containers.View()
	case modeDetail:
		content = m.renderDetail()
	case modeScriptPicker:
		content = m.scriptList.View()
	case modeBrowse:
		content = m.files.View()
	}

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}

// renderDetail renders the logs/stats/processes/inspect body, clipped to
// the content area.
func (m Model) renderDetail() string {
	dims := layout.GetContentArea(m.GetLayoutInfo(), m.width, m.height)
	if !dims.Valid {
		return m.detailBody
	}

	lines := strings.Split(m.detailBody, "\n")
	if len(lines) > dims.Height {
		// Show the tail; for logs that is the interesting end.
		lines = lines[len(lines)-dims.Height:]
	}

	return lipgloss.NewStyle().
		Width(dims.Width).
		MaxHeight(dims.Height).
		Render(strings.Join(lines, "\n"))
}

func renderStats(stats models.ContainerStats) string {
	rows := []struct {
		label string
		value string
	}{
		{"CPU", stats.CPUPercent},
		{"Memory", fmt.Sprintf("%s / %s (%s)", stats.MemoryUsage, stats.MemoryLimit, stats.MemoryPercent)},
		{"Network I/O", stats.NetIO},
		{"Block I/O", stats.BlockIO},
		{"PIDs", stats.PIDs},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(layout.StatsStyle.Render(fmt.Sprintf("%-12s", row.label)))
		b.WriteString(row.value)
		b.WriteString("\n")
	}
	return b.String()
}

func renderProcesses(processes []models.ProcessInfo) string {
	if len(processes) == 0 {
		return "No processes reported"
	}

	var b strings.Builder
	b.WriteString(layout.StatsStyle.Render(fmt.Sprintf("%-8s %-10s %-6s %-6s %s", "PID", "USER", "%CPU", "%MEM", "COMMAND")))
	b.WriteString("\n")
	for _, p := range processes {
		fmt.Fprintf(&b, "%-8s %-10s %-6s %-6s %s\n", p.PID, p.User, p.CPU, p.Mem, p.Command)
	}
	return b.String()
}

func renderInspect(info models.ContainerInfo) string {
	rows := []struct {
		label string
		value string
	}{
		{"ID", info.ID},
		{"Name", info.Name},
		{"Image", info.Image},
		{"Status", info.Status},
		{"Created", info.Created},
		{"Started", info.Started},
		{"IP Address", info.IPAddress},
	}

	var b strings.Builder
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(layout.StatsStyle.Render(fmt.Sprintf("%-12s", row.label)))
		b.WriteString(row.value)
		b.WriteString("\n")
	}
	return b.String()
}
