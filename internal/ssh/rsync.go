// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package ssh

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/dockhand/dockhand/internal/models"
)

// RsyncDirection says which way a transfer goes.
type RsyncDirection int

const (
	// RsyncToHost copies a local source to a remote destination.
	RsyncToHost RsyncDirection = iota
	// RsyncFromHost copies a remote source to a local destination.
	RsyncFromHost
)

// BuildRsyncArgs assembles the rsync argument list for a transfer with a
// host. The -e option carries the host's ssh settings so rsync reuses the
// same keys and port as the interactive connection.
func BuildRsyncArgs(host models.Host, source, dest string, direction RsyncDirection, compress bool) []string {
	var args []string

	if sshArg := buildRemoteShell(host); sshArg != "" {
		args = append(args, "-e", sshArg)
	}

	args = append(args, "-a")
	if compress {
		args = append(args, "-z")
	}

	switch direction {
	case RsyncToHost:
		args = append(args, source, fmt.Sprintf("%s:%s", host.Hostname, dest))
	case RsyncFromHost:
		args = append(args, fmt.Sprintf("%s:%s", host.Hostname, source), dest)
	}

	return args
}

// buildRemoteShell builds the `ssh ...` value for rsync's -e option.
func buildRemoteShell(host models.Host) string {
	parts := []string{"ssh"}

	if host.User != "" {
		parts = append(parts, "-l", host.User)
	}
	if host.Port != 0 {
		parts = append(parts, "-p", fmt.Sprintf("%d", host.Port))
	}
	for _, file := range host.IdentityFiles {
		parts = append(parts, "-i", file)
	}
	parts = append(parts, "-o", "StrictHostKeyChecking=no")

	return strings.Join(parts, " ")
}

// ExecuteRsync runs a transfer and returns whether it succeeded plus the
// relevant output stream.
func ExecuteRsync(host models.Host, source, dest string, direction RsyncDirection, compress bool) (bool, string) {
	args := BuildRsyncArgs(host, source, dest, direction, compress)
	cmd := exec.Command("rsync", args...)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return false, string(exitErr.Stderr)
		}
		return false, err.Error()
	}
	return true, string(output)
}
