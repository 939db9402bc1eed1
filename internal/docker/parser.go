// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/dockhand/dockhand/internal/models"
)

// ParseContainers parses `docker ps --format` output (pipe-delimited, one
// line per container). Malformed lines are skipped, never fatal.
func ParseContainers(output, hostName string) []models.Container {
	var containers []models.Container
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		c, ok := parseContainerLine(line, hostName)
		if !ok {
			continue
		}
		containers = append(containers, c)
	}
	return containers
}

func parseContainerLine(line, hostName string) (models.Container, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 4 {
		return models.Container{}, false
	}

	c := models.Container{
		ID:       parts[0],
		Name:     parts[1],
		Image:    parts[2],
		Status:   models.ContainerStatusFromDocker(parts[3]),
		HostName: hostName,
	}
	if len(parts) > 4 {
		c.Ports = parsePorts(parts[4])
	}
	return c, true
}

// parsePorts parses the docker ps ports column, e.g.
// "0.0.0.0:8096->8080/tcp, :::8096->8080/tcp". IPv4 and IPv6 rows for the
// same mapping are collapsed into one entry.
func parsePorts(portsStr string) []models.PortMapping {
	var result []models.PortMapping
	for _, entry := range strings.Split(portsStr, ", ") {
		mapping, ok := parseSinglePort(entry)
		if !ok {
			continue
		}
		result = append(result, mapping)
	}
	return lo.UniqBy(result, func(p models.PortMapping) string {
		return fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
	})
}

func parseSinglePort(portStr string) (models.PortMapping, bool) {
	if arrow := strings.Index(portStr, "->"); arrow >= 0 {
		left := portStr[:arrow]
		right := portStr[arrow+2:]

		// The host port is the last colon-delimited token of the address
		// side, which tolerates both "0.0.0.0:8096" and ":::8096".
		hostTok := left
		if idx := strings.LastIndex(left, ":"); idx >= 0 {
			hostTok = left[idx+1:]
		}
		hostPort, err := strconv.Atoi(hostTok)
		if err != nil {
			return models.PortMapping{}, false
		}

		containerPort, protocol, ok := parsePortProtocol(right)
		if !ok {
			return models.PortMapping{}, false
		}
		return models.PortMapping{HostPort: hostPort, ContainerPort: containerPort, Protocol: protocol}, true
	}

	// Exposed port without a published mapping.
	containerPort, protocol, ok := parsePortProtocol(portStr)
	if !ok {
		return models.PortMapping{}, false
	}
	return models.PortMapping{HostPort: containerPort, ContainerPort: containerPort, Protocol: protocol}, true
}

func parsePortProtocol(s string) (int, string, bool) {
	parts := strings.SplitN(s, "/", 2)
	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, "", false
	}
	protocol := "tcp"
	if len(parts) == 2 && parts[1] != "" {
		protocol = parts[1]
	}
	return port, protocol, true
}

// ParseStats parses a single pipe-delimited docker stats line. Missing
// fields fall back to a placeholder dash, never an error.
func ParseStats(output string) models.ContainerStats {
	line, _, _ := strings.Cut(output, "\n")
	parts := strings.Split(line, "|")

	field := func(i int) string {
		if i < len(parts) && parts[i] != "" {
			return parts[i]
		}
		return "--"
	}

	stats := models.ContainerStats{
		CPUPercent:    field(0),
		MemoryUsage:   "--",
		MemoryLimit:   "--",
		MemoryPercent: field(2),
		NetIO:         field(3),
		BlockIO:       field(4),
		PIDs:          field(5),
	}

	// The memory column arrives as "usage / limit".
	if len(parts) > 1 {
		usage, limit, found := strings.Cut(parts[1], "/")
		stats.MemoryUsage = strings.TrimSpace(usage)
		if found {
			stats.MemoryLimit = strings.TrimSpace(limit)
		}
		if stats.MemoryUsage == "" {
			stats.MemoryUsage = "--"
		}
	}
	return stats
}

// ParseProcesses parses docker top output. The header line is discarded;
// the command field is rejoined because commands may contain spaces.
func ParseProcesses(output string) []models.ProcessInfo {
	var processes []models.ProcessInfo
	lines := strings.Split(output, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		processes = append(processes, models.ProcessInfo{
			PID:     fields[0],
			User:    fields[1],
			CPU:     fields[2],
			Mem:     fields[3],
			Command: strings.Join(fields[4:], " "),
		})
	}
	return processes
}

// ParseInspect scans docker inspect JSON line by line for a fixed set of
// fields. First match wins for fields that repeat in nested objects.
func ParseInspect(output string) models.ContainerInfo {
	var info models.ContainerInfo
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.Contains(line, `"Id":`) && info.ID == "":
			info.ID = extractJSONValue(line)
		case strings.Contains(line, `"Name":`) && info.Name == "":
			info.Name = strings.TrimPrefix(extractJSONValue(line), "/")
		case strings.Contains(line, `"Image":`) && info.Image == "":
			info.Image = extractJSONValue(line)
		case strings.Contains(line, `"Status":`) && info.Status == "":
			info.Status = extractJSONValue(line)
		case strings.Contains(line, `"Created":`) && info.Created == "":
			info.Created = extractJSONValue(line)
		case strings.Contains(line, `"StartedAt":`) && info.Started == "":
			info.Started = extractJSONValue(line)
		case strings.Contains(line, `"IPAddress":`) && info.IPAddress == "":
			info.IPAddress = extractJSONValue(line)
		}
	}
	return info
}

func extractJSONValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.Trim(strings.TrimSpace(value), `", `)
}

// ParseDirectoryListing parses `ls -la` rows (header already stripped
// remotely) into file entries for the browser. A synthesized ".." entry is
// always first; the rest are sorted directories-first then by name.
func ParseDirectoryListing(output string) []models.FileEntry {
	entries := []models.FileEntry{models.ParentEntry()}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}

		isDir := strings.HasPrefix(fields[0], "d")
		// The name is everything from the 9th field on, so filenames with
		// spaces survive.
		name := strings.Join(fields[8:], " ")
		if name == "." || name == ".." {
			continue
		}
		entries = append(entries, models.NewFileEntry(name, isDir))
	}

	rest := entries[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].IsDir != rest[j].IsDir {
			return rest[i].IsDir
		}
		return strings.ToLower(rest[i].Name) < strings.ToLower(rest[j].Name)
	})

	return entries
}

// ParseProjectListing turns `find -maxdepth 1 -type d` output into projects.
func ParseProjectListing(output, clientsPath string) []*models.Project {
	var projects []*models.Project
	base := expandRemotePath(clientsPath)
	for _, line := range strings.Split(output, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		projects = append(projects, models.NewProject(name, base+"/"+name))
	}
	return projects
}

// ParseScriptPaths turns `find -type f` output into a list of script paths.
func ParseScriptPaths(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
