// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"strings"
	"time"
)

// Host is one SSH host: the fields stored in ~/.ssh/config plus the
// extended metadata kept in the sidecar file.
type Host struct {
	// SSH config fields
	Alias         string
	Hostname      string
	User          string
	Port          int
	IdentityFiles []string
	ProxyJump     string

	// Extended metadata (sidecar file)
	Note     string
	Tags     []string
	SSHFlags []string
	Shell    string
	LastUsed *time.Time
}

// NewHost creates a host with the required fields.
func NewHost(alias, hostname string) *Host {
	return &Host{Alias: alias, Hostname: hostname}
}

// EffectivePort returns the configured port or the SSH default.
func (h *Host) EffectivePort() int {
	if h.Port > 0 {
		return h.Port
	}
	return 22
}

// HasKeys reports whether any identity files are configured.
func (h *Host) HasKeys() bool {
	return len(h.IdentityFiles) > 0
}

// MarkUsed stamps the host with the current time.
func (h *Host) MarkUsed() {
	now := time.Now().UTC()
	h.LastUsed = &now
}

// MatchesSearch reports whether the host matches a free-text query across
// alias, hostname, user, note and tags.
func (h *Host) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(h.Alias), q) ||
		strings.Contains(strings.ToLower(h.Hostname), q) ||
		strings.Contains(strings.ToLower(h.User), q) ||
		strings.Contains(strings.ToLower(h.Note), q) {
		return true
	}
	for _, tag := range h.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the host carries at least one of the given
// tags. An empty filter matches every host.
func (h *Host) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range h.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
