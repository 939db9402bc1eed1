// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels.
// These ensure consistent logger names across the codebase.

// GetSSHLogger returns a logger for SSH connection and command execution.
func GetSSHLogger() zerolog.Logger {
	return GetLogger("ssh")
}

// GetDockerLogger returns a logger for discovery and script handling.
func GetDockerLogger() zerolog.Logger {
	return GetLogger("docker")
}

// GetTUILogger returns a logger for TUI components.
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetConfigLogger returns a logger for configuration loading.
func GetConfigLogger() zerolog.Logger {
	return GetLogger("config")
}
