// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/layout"
)

// HostItem represents a host in the list
type HostItem struct {
	Host models.Host
}

// FilterValue returns the value to filter against
func (h HostItem) FilterValue() string {
	parts := []string{h.Host.Alias, h.Host.Hostname, h.Host.User, h.Host.Note}
	parts = append(parts, h.Host.Tags...)
	return strings.Join(parts, " ")
}

// Title returns the host alias with its tags
func (h HostItem) Title() string {
	title := h.Host.Alias
	if len(h.Host.Tags) > 0 {
		title += "  [" + strings.Join(h.Host.Tags, ", ") + "]"
	}
	return title
}

// Description returns the connection target and note
func (h HostItem) Description() string {
	target := h.Host.Hostname
	if h.Host.User != "" {
		target = h.Host.User + "@" + target
	}
	if h.Host.Port > 0 && h.Host.Port != 22 {
		target = fmt.Sprintf("%s:%d", target, h.Host.Port)
	}
	if h.Host.Note != "" {
		target += "  — " + h.Host.Note
	}
	return target
}

// sortKey selects the host list ordering.
type sortKey int

const (
	// sortByConfig keeps the order of the SSH config file.
	sortByConfig sortKey = iota
	sortByAlias
	sortByHostname
	sortByLastUsed
	sortByUser
	sortKeyCount
)

func (s sortKey) label() string {
	switch s {
	case sortByAlias:
		return "alias"
	case sortByHostname:
		return "hostname"
	case sortByLastUsed:
		return "last used"
	case sortByUser:
		return "user"
	default:
		return "config order"
	}
}

// Model is the model for the host list screen.
type Model struct {
	list          list.Model
	cmdChan       chan<- protocol.Command
	store         *ssh.HostConfig
	meta          *ssh.Metadata
	metadataPath  string
	tagFilter     string
	sortBy        sortKey
	statusMessage string
	pendingDelete bool
	width         int
	height        int
}

// NewModel creates a new host list model backed by the SSH config store.
func NewModel(cmdChan chan<- protocol.Command, store *ssh.HostConfig, meta *ssh.Metadata, metadataPath string) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Title = ""

	m := Model{
		list:         l,
		cmdChan:      cmdChan,
		store:        store,
		meta:         meta,
		metadataPath: metadataPath,
		width:        50,
		height:       10,
	}
	m.Reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Reload rebuilds the list items from the store, applying the tag filter
// and the current sort order.
func (m *Model) Reload() {
	hosts := make([]models.Host, 0, len(m.store.Hosts))
	for _, host := range m.store.Hosts {
		m.meta.ApplyToHost(&host)
		if !host.HasAnyTag(m.tagFilterSlice()) {
			continue
		}
		hosts = append(hosts, host)
	}
	m.sortHosts(hosts)

	items := make([]list.Item, 0, len(hosts))
	for _, host := range hosts {
		items = append(items, HostItem{Host: host})
	}
	m.list.SetItems(items)
}

func (m Model) sortHosts(hosts []models.Host) {
	switch m.sortBy {
	case sortByAlias:
		sort.SliceStable(hosts, func(i, j int) bool {
			return strings.ToLower(hosts[i].Alias) < strings.ToLower(hosts[j].Alias)
		})
	case sortByHostname:
		sort.SliceStable(hosts, func(i, j int) bool {
			return strings.ToLower(hosts[i].Hostname) < strings.ToLower(hosts[j].Hostname)
		})
	case sortByLastUsed:
		// Most recently used first; never-used hosts sink to the bottom.
		sort.SliceStable(hosts, func(i, j int) bool {
			a, b := hosts[i].LastUsed, hosts[j].LastUsed
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.After(*b)
			}
		})
	case sortByUser:
		sort.SliceStable(hosts, func(i, j int) bool {
			return strings.ToLower(hosts[i].User) < strings.ToLower(hosts[j].User)
		})
	}
}

// cycleSort steps through the sort orders.
func (m *Model) cycleSort() {
	m.sortBy = (m.sortBy + 1) % sortKeyCount
	m.Reload()
}

func (m Model) tagFilterSlice() []string {
	if m.tagFilter == "" {
		return nil
	}
	return []string{m.tagFilter}
}

// cycleTagFilter steps through no filter and each known tag in turn.
func (m *Model) cycleTagFilter() {
	tags := m.meta.GlobalTags
	if len(tags) == 0 {
		m.tagFilter = ""
		return
	}
	if m.tagFilter == "" {
		m.tagFilter = tags[0]
	} else {
		next := ""
		for i, tag := range tags {
			if tag == m.tagFilter && i+1 < len(tags) {
				next = tags[i+1]
				break
			}
		}
		m.tagFilter = next
	}
	m.Reload()
}

// selectedHost returns the host under the cursor.
func (m Model) selectedHost() (models.Host, bool) {
	item := m.list.SelectedItem()
	if item == nil {
		return models.Host{}, false
	}
	hostItem, ok := item.(HostItem)
	if !ok {
		return models.Host{}, false
	}
	return hostItem.Host, true
}

// GetLayoutInfo returns layout information for the host list screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	status := fmt.Sprintf("Total: %d hosts", len(m.list.Items()))
	if m.tagFilter != "" {
		status += fmt.Sprintf("  (tag: %s)", m.tagFilter)
	}
	if m.sortBy != sortByConfig {
		status += fmt.Sprintf("  (sort: %s)", m.sortBy.label())
	}
	if m.pendingDelete {
		if host, ok := m.selectedHost(); ok {
			status = fmt.Sprintf("Delete %s? press y to confirm", host.Alias)
		}
	} else if m.statusMessage != "" {
		status = m.statusMessage
	}

	helpItems := []layout.HelpItem{
		{Key: "enter", Description: "connect"},
		{Key: "s", Description: "shell"},
		{Key: "a", Description: "add"},
		{Key: "e", Description: "edit"},
		{Key: "d", Description: "delete"},
		{Key: "t", Description: "tag filter"},
		{Key: "S", Description: "sort"},
		{Key: "/", Description: "search"},
		{Key: "q", Description: "quit"},
	}

	return layout.LayoutInfo{
		Title:       "Hosts",
		Breadcrumbs: []string{"Hosts"},
		Status:      status,
		HelpItems:   helpItems,
	}
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
