// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"
)

// HelpItem is one key binding shown in the footer.
type HelpItem struct {
	Key         string
	Description string
}

// renderHeader draws the title line with the breadcrumb trail, an
// optional status row, and a closing divider.
func renderHeader(info LayoutInfo, width int) string {
	line := TitleStyle.Render(info.Title)
	if len(info.Breadcrumbs) > 1 {
		trail := strings.Join(info.Breadcrumbs, BreadcrumbSeparator.String())
		line += "  " + BreadcrumbStyle.Render(trail)
	}

	var b strings.Builder
	b.WriteString(line)
	if info.Status != "" {
		b.WriteString("\n")
		b.WriteString(StatsStyle.Render(info.Status))
	}
	b.WriteString("\n")
	b.WriteString(GetDivider(width))
	return b.String()
}

// renderFooter draws the key-binding hints below a divider.
func renderFooter(items []HelpItem, width int) string {
	hints := make([]string, 0, len(items))
	for _, item := range items {
		hints = append(hints, fmt.Sprintf("[%s] %s",
			HelpKeyStyle.Render(item.Key),
			HelpTextStyle.Render(item.Description)))
	}

	var b strings.Builder
	b.WriteString(GetDivider(width))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Width(width).Render(strings.Join(hints, " • ")))
	return b.String()
}
