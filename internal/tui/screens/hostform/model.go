// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package hostform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui/layout"
)

// Model is the model for the host create/edit form screen.
type Model struct {
	store        *ssh.HostConfig
	meta         *ssh.Metadata
	metadataPath string

	form      *huh.Form
	editing   bool
	editIndex int

	alias        string
	hostname     string
	user         string
	port         string
	identityFile string
	proxyJump    string
	note         string
	tags         string
	sshFlags     string
	shell        string

	width  int
	height int
}

// NewModel creates a host form. A nil host creates a new entry; otherwise
// the form is pre-filled for editing.
func NewModel(store *ssh.HostConfig, meta *ssh.Metadata, metadataPath string, host *models.Host) Model {
	m := Model{
		store:        store,
		meta:         meta,
		metadataPath: metadataPath,
		editIndex:    -1,
		width:        50,
		height:       10,
	}

	if host != nil {
		m.editing = true
		for i := range store.Hosts {
			if store.Hosts[i].Alias == host.Alias {
				m.editIndex = i
				break
			}
		}
		m.alias = host.Alias
		m.hostname = host.Hostname
		m.user = host.User
		if host.Port > 0 {
			m.port = strconv.Itoa(host.Port)
		}
		if len(host.IdentityFiles) > 0 {
			m.identityFile = host.IdentityFiles[0]
		}
		m.proxyJump = host.ProxyJump
		m.note = host.Note
		m.tags = strings.Join(host.Tags, ", ")
		m.sshFlags = strings.Join(host.SSHFlags, " ")
		m.shell = host.Shell
	}

	m.initForm()
	return m
}

// initForm initializes the huh form for host details
func (m *Model) initForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("alias").
				Title("Alias").
				Placeholder("prod-1").
				Value(&m.alias).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("alias is required")
					}
					if strings.ContainsAny(s, " \t*?!") {
						return fmt.Errorf("alias must not contain spaces or pattern characters")
					}
					if !m.editing && m.store.HostExists(s) {
						return fmt.Errorf("alias already exists")
					}
					return nil
				}),

			huh.NewInput().
				Key("hostname").
				Title("Hostname").
				Placeholder("prod-1.example.com").
				Value(&m.hostname).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("hostname is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("user").
				Title("User").
				Placeholder("root").
				Value(&m.user),

			huh.NewInput().
				Key("port").
				Title("Port").
				Placeholder("22").
				Value(&m.port).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					port, err := strconv.Atoi(s)
					if err != nil || port < 1 || port > 65535 {
						return fmt.Errorf("port must be a number between 1 and 65535")
					}
					return nil
				}),

			huh.NewInput().
				Key("identity_file").
				Title("Identity File").
				Placeholder("~/.ssh/id_ed25519").
				Value(&m.identityFile),

			huh.NewInput().
				Key("proxy_jump").
				Title("Proxy Jump").
				Placeholder("bastion").
				Value(&m.proxyJump),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("note").
				Title("Note").
				Placeholder("production web server").
				Value(&m.note),

			huh.NewInput().
				Key("tags").
				Title("Tags (comma separated)").
				Placeholder("prod, docker").
				Value(&m.tags),

			huh.NewInput().
				Key("ssh_flags").
				Title("Extra SSH Flags").
				Placeholder("-o ServerAliveInterval=30").
				Value(&m.sshFlags),

			huh.NewInput().
				Key("shell").
				Title("Remote Shell").
				Placeholder("bash").
				Value(&m.shell),
		),
	).WithTheme(huh.ThemeCharm())
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// formValue reads a completed field through the form. The inputs are
// bound to the model copy the form was built on, so the current copy's
// fields only hold the prefill; the form carries what the user typed.
func (m Model) formValue(key, fallback string) string {
	if value := m.form.GetString(key); value != "" {
		return value
	}
	return fallback
}

// buildHost assembles a models.Host from the completed form.
func (m Model) buildHost() models.Host {
	host := models.Host{
		Alias:     strings.TrimSpace(m.formValue("alias", m.alias)),
		Hostname:  strings.TrimSpace(m.formValue("hostname", m.hostname)),
		User:      strings.TrimSpace(m.formValue("user", m.user)),
		ProxyJump: strings.TrimSpace(m.formValue("proxy_jump", m.proxyJump)),
		Note:      strings.TrimSpace(m.formValue("note", m.note)),
		Shell:     strings.TrimSpace(m.formValue("shell", m.shell)),
	}
	if port, err := strconv.Atoi(strings.TrimSpace(m.formValue("port", m.port))); err == nil {
		host.Port = port
	}
	if key := strings.TrimSpace(m.formValue("identity_file", m.identityFile)); key != "" {
		host.IdentityFiles = []string{key}
	}
	for _, tag := range strings.Split(m.formValue("tags", m.tags), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			host.Tags = append(host.Tags, tag)
		}
	}
	if flags := strings.TrimSpace(m.formValue("ssh_flags", m.sshFlags)); flags != "" {
		host.SSHFlags = strings.Fields(flags)
	}
	return host
}

// GetLayoutInfo returns layout information for the host form screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	title := "Add Host"
	if m.editing {
		title = "Edit Host"
	}

	return layout.LayoutInfo{
		Title:       title,
		Breadcrumbs: []string{"Hosts", title},
		Status:      "",
		HelpItems: []layout.HelpItem{
			{Key: "tab", Description: "next field"},
			{Key: "enter", Description: "submit"},
			{Key: "esc", Description: "cancel"},
		},
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
