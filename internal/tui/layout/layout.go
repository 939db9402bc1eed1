// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layout renders the chrome every screen shares: a title and
// breadcrumb header, a key-binding footer, and the content box between
// them.
package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Screens are unusable below this size; RenderLayout shows a resize
// notice instead of truncated chrome.
const (
	MinimumWidth  = 40
	MinimumHeight = 10
)

// LayoutInfo is what a screen contributes to the chrome around its
// content.
type LayoutInfo struct {
	Title       string
	Breadcrumbs []string
	Status      string
	HelpItems   []HelpItem
}

// Dimensions is the space left for a screen's content after the chrome.
// Valid is false when the terminal is below the minimum size.
type Dimensions struct {
	Width  int
	Height int
	Valid  bool
	Error  string
}

// RenderLayout wraps content in the header and footer chrome.
func RenderLayout(content string, info LayoutInfo, width, height int) string {
	dims := checkSize(width, height)
	if !dims.Valid {
		return renderSizeNotice(dims.Error, width, height)
	}

	header := renderHeader(info, width)
	var footer string
	if len(info.HelpItems) > 0 {
		footer = renderFooter(info.HelpItems, width)
	}

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	// Height sets the box size; MaxHeight clips content that overflows it.
	body := lipgloss.NewStyle().
		Width(width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Align(lipgloss.Left, lipgloss.Top).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// GetContentArea reports how much room content has once the chrome for
// info is carved out. Screens size their lists and viewports from this.
func GetContentArea(info LayoutInfo, width, height int) Dimensions {
	dims := checkSize(width, height)
	if !dims.Valid {
		return dims
	}

	chrome := lipgloss.Height(renderHeader(info, width))
	if len(info.HelpItems) > 0 {
		chrome += lipgloss.Height(renderFooter(info.HelpItems, width))
	}

	contentHeight := height - chrome
	if contentHeight < 1 {
		contentHeight = 1
	}
	return Dimensions{Width: width, Height: contentHeight, Valid: true}
}

func checkSize(width, height int) Dimensions {
	dims := Dimensions{Width: width, Height: height, Valid: true}
	switch {
	case width < MinimumWidth:
		dims.Valid = false
		dims.Error = fmt.Sprintf("Terminal too narrow (%d cols, need %d)", width, MinimumWidth)
	case height < MinimumHeight:
		dims.Valid = false
		dims.Error = fmt.Sprintf("Terminal too short (%d lines, need %d)", height, MinimumHeight)
	}
	return dims
}

func renderSizeNotice(problem string, width, height int) string {
	notice := strings.Join([]string{
		"Terminal too small",
		"",
		problem,
		"",
		fmt.Sprintf("Current %dx%d, minimum %dx%d", width, height, MinimumWidth, MinimumHeight),
	}, "\n")

	return ErrorStyle.
		Align(lipgloss.Center, lipgloss.Center).
		Width(width).
		Height(height).
		Render(notice)
}
