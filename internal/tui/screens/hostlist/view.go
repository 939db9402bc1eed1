// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostlist

import (
	"github.com/dockhand/dockhand/internal/tui/layout"
)

// View renders the host list screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()
	return layout.RenderLayout(m.list.View(), layoutInfo, m.width, m.height)
}
