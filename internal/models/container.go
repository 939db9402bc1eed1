// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package models holds the data types shared by the discovery pipeline,
// the persistence layer and the TUI.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContainerStatusKind classifies the docker status text into a closed set.
type ContainerStatusKind int

const (
	StatusRunning ContainerStatusKind = iota
	StatusStopped
	StatusPaused
	StatusRestarting
	StatusExited
	StatusDead
	StatusUnknown
)

// ContainerStatus is the parsed status of a container. For StatusExited the
// ExitCode field carries the parenthesized code from the status text; for
// StatusUnknown the Raw field retains the original text for display.
type ContainerStatus struct {
	Kind     ContainerStatusKind `yaml:"kind"`
	ExitCode int                 `yaml:"exit_code,omitempty"`
	Raw      string              `yaml:"raw,omitempty"`
}

// ContainerStatusFromDocker classifies a docker ps status column value.
func ContainerStatusFromDocker(status string) ContainerStatus {
	lower := strings.ToLower(status)
	switch {
	case strings.HasPrefix(lower, "up"):
		return ContainerStatus{Kind: StatusRunning}
	case strings.HasPrefix(lower, "exited"):
		// "Exited (137) 2 hours ago" carries the exit code in parentheses.
		if open := strings.Index(lower, "("); open >= 0 {
			rest := lower[open+1:]
			if close := strings.Index(rest, ")"); close >= 0 {
				if code, err := strconv.Atoi(strings.TrimSpace(rest[:close])); err == nil {
					return ContainerStatus{Kind: StatusExited, ExitCode: code}
				}
			}
		}
		return ContainerStatus{Kind: StatusStopped}
	case strings.Contains(lower, "paused"):
		return ContainerStatus{Kind: StatusPaused}
	case strings.Contains(lower, "restarting"):
		return ContainerStatus{Kind: StatusRestarting}
	case strings.Contains(lower, "dead"):
		return ContainerStatus{Kind: StatusDead}
	default:
		return ContainerStatus{Kind: StatusUnknown, Raw: status}
	}
}

// Display returns a short label for list views.
func (s ContainerStatus) Display() string {
	switch s.Kind {
	case StatusRunning:
		return "Up"
	case StatusStopped:
		return "Stopped"
	case StatusPaused:
		return "Paused"
	case StatusRestarting:
		return "Restarting"
	case StatusExited:
		return fmt.Sprintf("Exited (%d)", s.ExitCode)
	case StatusDead:
		return "Dead"
	default:
		if s.Raw != "" {
			return s.Raw
		}
		return "Unknown"
	}
}

// IsRunning reports whether the container is currently up.
func (s ContainerStatus) IsRunning() bool {
	return s.Kind == StatusRunning
}

// PortMapping is a single published or exposed port.
type PortMapping struct {
	HostPort      int    `yaml:"host_port"`
	ContainerPort int    `yaml:"container_port"`
	Protocol      string `yaml:"protocol"`
}

// Display renders the mapping as "host:container".
func (p PortMapping) Display() string {
	return fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
}

// Container is one entry from the remote docker ps listing. The set is
// rebuilt wholesale on every refresh; nothing is diffed incrementally.
type Container struct {
	ID         string
	Name       string
	Image      string
	Status     ContainerStatus
	Ports      []PortMapping
	Created    *time.Time
	HostName   string
	ScriptPath string // path of the associated deployment script, if any
	Networks   []string
}

// HasScript reports whether the container is associated with a deployment script.
func (c Container) HasScript() bool {
	return c.ScriptPath != ""
}

// PortsDisplay renders all port mappings for the container list column.
func (c Container) PortsDisplay() string {
	if len(c.Ports) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(c.Ports))
	for _, p := range c.Ports {
		parts = append(parts, p.Display())
	}
	return strings.Join(parts, ", ")
}

// ShortImage strips the registry path and tag from the image reference.
func (c Container) ShortImage() string {
	image := c.Image
	if idx := strings.LastIndex(image, "/"); idx >= 0 {
		image = image[idx+1:]
	}
	if idx := strings.Index(image, ":"); idx >= 0 {
		image = image[:idx]
	}
	return image
}

// MatchesSearch reports whether the container matches a free-text query.
func (c Container) MatchesSearch(query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Image), query) ||
		strings.HasPrefix(strings.ToLower(c.ID), query)
}

// ContainerStats holds one docker stats sample. All fields keep the raw
// display strings; missing columns default to "--".
type ContainerStats struct {
	CPUPercent    string
	MemoryUsage   string
	MemoryLimit   string
	MemoryPercent string
	NetIO         string
	BlockIO       string
	PIDs          string
}

// ProcessInfo is one row from docker top.
type ProcessInfo struct {
	PID     string
	User    string
	CPU     string
	Mem     string
	Command string
}

// ContainerInfo is the line-scanned summary of docker inspect output.
type ContainerInfo struct {
	ID        string
	Name      string
	Image     string
	Status    string
	Created   string
	Started   string
	IPAddress string
}

// FileEntry is one row of a remote directory listing.
type FileEntry struct {
	Name     string
	IsDir    bool
	IsScript bool
}

// NewFileEntry classifies a listing row; shell scripts get flagged so the
// file browser can offer to open them in the script editor.
func NewFileEntry(name string, isDir bool) FileEntry {
	isScript := !isDir && (strings.HasSuffix(name, ".sh") || strings.HasPrefix(name, "start"))
	return FileEntry{Name: name, IsDir: isDir, IsScript: isScript}
}

// ParentEntry is the synthesized ".." row shown at the top of every listing.
func ParentEntry() FileEntry {
	return FileEntry{Name: "..", IsDir: true}
}
