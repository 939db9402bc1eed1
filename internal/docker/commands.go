// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docker implements the remote inventory pipeline: the command
// builders and output parsers for the docker CLI running on a remote host,
// the deployment-script codec, and the orchestrator that sequences the
// discovery commands.
package docker

import (
	"fmt"
	"strings"
)

// psFormat matches the pipe-delimited layout ParseContainers expects.
const psFormat = "{{.ID}}|{{.Names}}|{{.Image}}|{{.Status}}|{{.Ports}}"

// statsFormat matches the single-line layout ParseStats expects.
const statsFormat = "{{.CPUPerc}}|{{.MemUsage}}|{{.MemPerc}}|{{.NetIO}}|{{.BlockIO}}|{{.PIDs}}"

// PsCommand lists containers; all includes stopped ones.
func PsCommand(all bool) string {
	allFlag := ""
	if all {
		allFlag = "-a "
	}
	return fmt.Sprintf("docker ps %s--format '%s'", allFlag, psFormat)
}

// PullCommand pulls an image.
func PullCommand(image string) string {
	return fmt.Sprintf("docker pull %s", image)
}

// StartCommand starts a container.
func StartCommand(container string) string {
	return fmt.Sprintf("docker start %s", container)
}

// StopCommand stops a container.
func StopCommand(container string) string {
	return fmt.Sprintf("docker stop %s", container)
}

// RestartCommand restarts a container.
func RestartCommand(container string) string {
	return fmt.Sprintf("docker restart %s", container)
}

// RemoveCommand removes a container; withVolumes also removes its
// anonymous volumes.
func RemoveCommand(container string, withVolumes bool) string {
	if withVolumes {
		return fmt.Sprintf("docker rm -v %s", container)
	}
	return fmt.Sprintf("docker rm %s", container)
}

// RemoveImageCommand removes an image.
func RemoveImageCommand(image string) string {
	return fmt.Sprintf("docker rmi %s", image)
}

// LogsCommand tails container logs. Docker writes logs to stderr, so the
// command redirects to stdout for capture.
func LogsCommand(container string, tail int, follow bool) string {
	var b strings.Builder
	b.WriteString("docker logs")
	if tail > 0 {
		fmt.Fprintf(&b, " --tail %d", tail)
	}
	if follow {
		b.WriteString(" -f")
	}
	fmt.Fprintf(&b, " %s 2>&1", container)
	return b.String()
}

// ExecEnvCommand dumps the live environment of a running container.
func ExecEnvCommand(container string) string {
	return fmt.Sprintf("docker exec %s env", container)
}

// StatsCommand samples resource usage once.
func StatsCommand(container string) string {
	return fmt.Sprintf("docker stats --no-stream --format '%s' %s", statsFormat, container)
}

// TopCommand lists container processes with a fixed column set.
func TopCommand(container string) string {
	return fmt.Sprintf("docker top %s -o pid,user,%%cpu,%%mem,comm", container)
}

// InspectCommand dumps full container metadata.
func InspectCommand(container string) string {
	return fmt.Sprintf("docker inspect %s", container)
}

// ListDirectoryCommand lists a remote directory for the file browser. The
// "total" header is stripped remotely so the parser only sees entry rows.
func ListDirectoryCommand(path string) string {
	return fmt.Sprintf("ls -la %s 2>/dev/null | tail -n +2", path)
}

// ListProjectsCommand lists the immediate subdirectories of the clients
// path, one name per line.
func ListProjectsCommand(clientsPath string) string {
	return fmt.Sprintf(
		"find %s -maxdepth 1 -mindepth 1 -type d -exec basename {} \\; 2>/dev/null | sort",
		expandRemotePath(clientsPath),
	)
}

// FindScriptsCommand finds deployment-script candidates under a project
// directory, skipping dependency and VCS trees.
func FindScriptsCommand(projectPath string) string {
	return fmt.Sprintf(`find %s -type f \( -name "start*.sh" -o -name "deploy*.sh" -o -name "run*.sh" -o -name "docker*.sh" \) \
        ! -path "*/node_modules/*" \
        ! -path "*/.git/*" \
        ! -path "*/vendor/*" \
        2>/dev/null`, projectPath)
}

// ReadScriptCommand reads a script file.
func ReadScriptCommand(scriptPath string) string {
	return fmt.Sprintf("cat %s", scriptPath)
}

// WriteScriptCommand writes script content through a quoted heredoc and
// marks the file executable. Single quotes in the content are escaped so
// the surrounding quoting survives.
func WriteScriptCommand(scriptPath, content string) string {
	escaped := strings.ReplaceAll(content, "'", `'\''`)
	return fmt.Sprintf(
		"cat > '%s' << 'DOCKHAND_SCRIPT_EOF'\n%s\nDOCKHAND_SCRIPT_EOF && chmod +x '%s'",
		scriptPath, escaped, scriptPath,
	)
}

// RunScriptCommand executes a deployment script from its own directory.
func RunScriptCommand(scriptPath string) string {
	return fmt.Sprintf("cd $(dirname '%s') && bash '%s'", scriptPath, scriptPath)
}

// expandRemotePath rewrites a leading ~/ so the remote shell expands it.
func expandRemotePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return "$HOME" + path[1:]
	}
	return path
}
