// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package messages

import "github.com/dockhand/dockhand/internal/models"

// Navigation messages for screen transitions within the TUI
type GoBackMsg struct{}

type GoToHostListMsg struct{}

// GoToHostFormMsg opens the host form. Host is nil when creating a new
// entry and points at the existing host when editing.
type GoToHostFormMsg struct {
	Host *models.Host
}

type GoToDockerViewMsg struct {
	Host models.Host
}

type GoToScriptEditMsg struct {
	Script *models.DeploymentScript
}
