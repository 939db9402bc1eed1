// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package ssh

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dockhand/dockhand/internal/models"
)

// HostMetadata carries the per-host fields that have no place in the SSH
// config file itself.
type HostMetadata struct {
	Note     string     `yaml:"note,omitempty"`
	Tags     []string   `yaml:"tags,omitempty"`
	SSHFlags []string   `yaml:"ssh_flags,omitempty"`
	Shell    string     `yaml:"shell,omitempty"`
	LastUsed *time.Time `yaml:"last_used,omitempty"`
}

// Metadata is the local sidecar next to the SSH config: notes, tags and
// flags per host, the global tag pool, and the container-to-script
// association index recorded per host.
type Metadata struct {
	Version    string                       `yaml:"version"`
	GlobalTags []string                     `yaml:"global_tags,omitempty"`
	Hosts      map[string]HostMetadata      `yaml:"hosts,omitempty"`
	Links      map[string]map[string]string `yaml:"container_scripts,omitempty"`
}

const metadataVersion = "1.0"

// NewMetadata creates an empty metadata container.
func NewMetadata() *Metadata {
	return &Metadata{
		Version: metadataVersion,
		Hosts:   make(map[string]HostMetadata),
		Links:   make(map[string]map[string]string),
	}
}

// AddGlobalTag adds a tag to the global pool, keeping it sorted.
func (m *Metadata) AddGlobalTag(tag string) {
	for _, existing := range m.GlobalTags {
		if existing == tag {
			return
		}
	}
	m.GlobalTags = append(m.GlobalTags, tag)
	sort.Strings(m.GlobalTags)
}

// Get returns the metadata recorded for a host alias.
func (m *Metadata) Get(alias string) (HostMetadata, bool) {
	meta, ok := m.Hosts[alias]
	return meta, ok
}

// Set records metadata for a host alias.
func (m *Metadata) Set(alias string, meta HostMetadata) {
	m.Hosts[alias] = meta
}

// Remove drops the metadata and association index for a host alias.
func (m *Metadata) Remove(alias string) {
	delete(m.Hosts, alias)
	delete(m.Links, alias)
}

// ApplyToHost copies stored metadata onto a host.
func (m *Metadata) ApplyToHost(host *models.Host) {
	meta, ok := m.Hosts[host.Alias]
	if !ok {
		return
	}
	host.Note = meta.Note
	host.Tags = meta.Tags
	host.SSHFlags = meta.SSHFlags
	host.Shell = meta.Shell
	if meta.LastUsed != nil {
		t := *meta.LastUsed
		host.LastUsed = &t
	}
}

// ExtractFromHost records a host's metadata fields.
func (m *Metadata) ExtractFromHost(host models.Host) {
	meta := HostMetadata{
		Note:     host.Note,
		Tags:     host.Tags,
		SSHFlags: host.SSHFlags,
		Shell:    host.Shell,
	}
	if host.LastUsed != nil {
		t := *host.LastUsed
		meta.LastUsed = &t
	}
	m.Hosts[host.Alias] = meta
}

// MergeIntoHosts applies stored metadata to every host in the slice.
func (m *Metadata) MergeIntoHosts(hosts []models.Host) {
	for i := range hosts {
		m.ApplyToHost(&hosts[i])
	}
}

// ExtractFromHosts records metadata for every host in the slice.
func (m *Metadata) ExtractFromHosts(hosts []models.Host) {
	for _, host := range hosts {
		m.ExtractFromHost(host)
	}
}

// AssociationsFor returns the persisted container-to-script index for a
// host alias.
func (m *Metadata) AssociationsFor(alias string) map[string]string {
	return m.Links[alias]
}

// SetAssociations stores the container-to-script index for a host alias.
// An empty index removes the entry.
func (m *Metadata) SetAssociations(alias string, index map[string]string) {
	if len(index) == 0 {
		delete(m.Links, alias)
		return
	}
	if m.Links == nil {
		m.Links = make(map[string]map[string]string)
	}
	m.Links[alias] = index
}

// LoadMetadata reads the YAML sidecar. A missing file yields an empty
// container.
func LoadMetadata(path string) (*Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMetadata(), nil
		}
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	meta := NewMetadata()
	if err := yaml.Unmarshal(content, meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file: %w", err)
	}
	if meta.Hosts == nil {
		meta.Hosts = make(map[string]HostMetadata)
	}
	if meta.Links == nil {
		meta.Links = make(map[string]map[string]string)
	}
	if meta.Version == "" {
		meta.Version = metadataVersion
	}

	return meta, nil
}

// SaveMetadata writes the YAML sidecar, creating its directory if needed.
func SaveMetadata(path string, meta *Metadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	content, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}
