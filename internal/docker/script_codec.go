// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dockhand/dockhand/internal/models"
)

// The env var regex alternation puts quoted forms before the bare token so
// that -e KEY="a b" captures the full quoted value instead of stopping at
// the first space.
var (
	envVarRe  = regexp.MustCompile(`-e\s*([A-Za-z_][A-Za-z0-9_]*)=(?:"([^"]*)"|'([^']*)'|(\S+))`)
	volumeRe  = regexp.MustCompile(`-v\s+([^:\s]+):([^:\s]+)(:ro)?`)
	portRe    = regexp.MustCompile(`-p\s+(\d+):(\d+)(/\w+)?`)
	nameRe    = regexp.MustCompile(`--name[=\s]+['"]?([^'"\s]+)`)
	restartRe = regexp.MustCompile(`--restart[=\s]+(\S+)`)
)

var networkRes = []*regexp.Regexp{
	regexp.MustCompile(`--net=(\S+)`),
	regexp.MustCompile(`--network=(\S+)`),
	regexp.MustCompile(`--net\s+(\S+)`),
	regexp.MustCompile(`--network\s+(\S+)`),
}

// ParseScript parses a deployment script into its structured model. It
// returns nil when the content does not look like a deployment script: no
// docker usage, or no container name resolvable from NAME= or --name.
func ParseScript(content, path, projectName string) *models.DeploymentScript {
	if !strings.Contains(content, "docker") {
		return nil
	}

	script := models.NewDeploymentScript(path, projectName)
	script.RawContent = content

	script.ContainerName = extractVariable(content, "NAME")
	if script.ContainerName == "" {
		script.ContainerName = extractNameFlag(content)
	}
	if script.ContainerName == "" {
		return nil
	}

	script.Repo = extractVariable(content, "REPO")
	if script.Repo == "" {
		script.Repo = extractTrailingImage(content)
	}

	script.EnvVars = extractEnvVars(content)
	script.Volumes = extractVolumes(content)
	script.Ports = extractPorts(content)
	script.Network = extractNetwork(content)
	if m := restartRe.FindStringSubmatch(content); m != nil {
		script.RestartPolicy = m[1]
	}

	return script
}

// extractVariable finds a shell variable assignment. Single-quoted,
// double-quoted and bare forms are tried in that priority order.
func extractVariable(content, varName string) string {
	patterns := []string{
		varName + `='([^']*)'`,
		varName + `="([^"]*)"`,
		varName + `=(\S+)`,
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractNameFlag falls back to --name when no NAME variable exists.
// Variable references are rejected; a script using --name $NAME without the
// assignment gives us nothing to work with.
func extractNameFlag(content string) string {
	if m := nameRe.FindStringSubmatch(content); m != nil {
		if !strings.HasPrefix(m[1], "$") {
			return m[1]
		}
	}
	return ""
}

// extractTrailingImage scans docker run/create invocation lines for a bare
// image-like token at the end of the line.
func extractTrailingImage(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "docker run") && !strings.Contains(line, "docker create") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if last == "run" || last == "create" || last == `\` {
			continue
		}
		if strings.HasPrefix(last, "-") || strings.HasPrefix(last, "$") {
			continue
		}
		return last
	}
	return ""
}

// extractEnvVars collects -e flags in document order. The first occurrence
// of a key wins; later duplicates are ignored.
func extractEnvVars(content string) []models.EnvVar {
	matches := envVarRe.FindAllStringSubmatchIndex(content, -1)
	if matches == nil {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i][0] < matches[j][0] })

	var envVars []models.EnvVar
	seen := map[string]bool{}
	for _, m := range matches {
		key := content[m[2]:m[3]]
		if seen[key] {
			continue
		}
		seen[key] = true

		value := ""
		for _, group := range []int{4, 6, 8} {
			if m[group] >= 0 {
				value = content[m[group]:m[group+1]]
				break
			}
		}
		envVars = append(envVars, models.NewEnvVar(key, value))
	}
	return envVars
}

func extractVolumes(content string) []models.VolumeMount {
	var volumes []models.VolumeMount
	for _, m := range volumeRe.FindAllStringSubmatch(content, -1) {
		volumes = append(volumes, models.VolumeMount{
			HostPath:      m[1],
			ContainerPath: m[2],
			ReadOnly:      m[3] != "",
		})
	}
	return volumes
}

func extractPorts(content string) []models.PortMapping {
	var ports []models.PortMapping
	for _, m := range portRe.FindAllStringSubmatch(content, -1) {
		hostPort, err1 := strconv.Atoi(m[1])
		containerPort, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		protocol := "tcp"
		if m[3] != "" {
			protocol = strings.TrimPrefix(m[3], "/")
		}
		ports = append(ports, models.PortMapping{
			HostPort:      hostPort,
			ContainerPort: containerPort,
			Protocol:      protocol,
		})
	}
	return ports
}

func extractNetwork(content string) string {
	for _, re := range networkRes {
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return ""
}

// GenerateScript renders the canonical template for a script that does not
// yet exist on the remote host. Existing scripts are never regenerated;
// they go through the patch engine so hand-authored structure survives.
func GenerateScript(script *models.DeploymentScript) string {
	var lines []string

	lines = append(lines,
		"#! /usr/bin/env bash",
		"",
		"#Configuration",
		fmt.Sprintf("NAME='%s'", script.ContainerName),
		fmt.Sprintf("REPO=\"%s\"", script.Repo),
		"",
		"docker pull $REPO",
		"docker stop $NAME",
		"docker rm $NAME",
		"",
	)

	createParts := []string{"docker create"}
	if script.Network != "" {
		createParts = append(createParts, fmt.Sprintf("--net=%s", script.Network))
	}
	createParts = append(createParts, "--name $NAME --restart=unless-stopped")
	for _, port := range script.Ports {
		createParts = append(createParts, fmt.Sprintf("-p %d:%d", port.HostPort, port.ContainerPort))
	}
	for _, vol := range script.Volumes {
		ro := ""
		if vol.ReadOnly {
			ro = ":ro"
		}
		createParts = append(createParts, fmt.Sprintf("-v %s:%s%s", vol.HostPath, vol.ContainerPath, ro))
	}
	for _, env := range script.EnvVars {
		createParts = append(createParts, fmt.Sprintf("-e %s=%s", env.Key, quoteEnvValue(env.Value)))
	}
	createParts = append(createParts, " $REPO")

	lines = append(lines, strings.Join(createParts, " \\\n"), "", "docker start $NAME")

	return strings.Join(lines, "\n")
}
