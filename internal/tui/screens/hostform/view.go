// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostform

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dockhand/dockhand/internal/tui/layout"
)

// View renders the host form screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	content := lipgloss.NewStyle().
		Padding(1, 2).
		Render(m.form.View())

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}
