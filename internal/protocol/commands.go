// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Here lies the definition of the data the host session can receive from
// the UI. All data received by a session from the UI is named: Command.
//
// Commands are simple high level objects that tell the session which end
// goal is required; the session decides which remote shell commands that
// takes.
package protocol

import (
	"github.com/dockhand/dockhand/internal/models"
)

// Command represents commands that can be sent to a host session.
type Command interface {
	GetBaseMessage() Metadata
}

// ContainerAction is a docker lifecycle operation on one container.
type ContainerAction string

const (
	ActionStart       ContainerAction = "start"
	ActionStop        ContainerAction = "stop"
	ActionRestart     ContainerAction = "restart"
	ActionPull        ContainerAction = "pull"
	ActionRemove      ContainerAction = "remove"
	ActionRemoveImage ContainerAction = "remove-image"
)

// ConnectHostCommand opens an SSH session to a host and starts container
// and project discovery.
type ConnectHostCommand struct {
	Metadata
	Host models.Host
}

func (c ConnectHostCommand) GetBaseMessage() Metadata { return c.Metadata }

// DisconnectCommand ends the current host session. Discovered state is
// dropped; the association index is persisted first.
type DisconnectCommand struct {
	Metadata
}

func (c DisconnectCommand) GetBaseMessage() Metadata { return c.Metadata }

// RefreshInventoryCommand re-runs discovery on the connected host.
type RefreshInventoryCommand struct {
	Metadata
}

func (c RefreshInventoryCommand) GetBaseMessage() Metadata { return c.Metadata }

// ContainerActionCommand runs a docker lifecycle operation on one
// container, then refreshes the container listing.
type ContainerActionCommand struct {
	Metadata
	Action        ContainerAction
	ContainerName string
	Image         string // for pull and remove-image
	WithVolumes   bool   // for remove
}

func (c ContainerActionCommand) GetBaseMessage() Metadata { return c.Metadata }

// FetchLogsCommand requests the tail of a container's logs.
type FetchLogsCommand struct {
	Metadata
	ContainerName string
	Tail          int
}

func (c FetchLogsCommand) GetBaseMessage() Metadata { return c.Metadata }

// FetchStatsCommand requests a one-shot resource usage snapshot.
type FetchStatsCommand struct {
	Metadata
	ContainerName string
}

func (c FetchStatsCommand) GetBaseMessage() Metadata { return c.Metadata }

// FetchProcessesCommand requests the container's process table.
type FetchProcessesCommand struct {
	Metadata
	ContainerName string
}

func (c FetchProcessesCommand) GetBaseMessage() Metadata { return c.Metadata }

// InspectContainerCommand requests container details.
type InspectContainerCommand struct {
	Metadata
	ContainerName string
}

func (c InspectContainerCommand) GetBaseMessage() Metadata { return c.Metadata }

// ListDirectoryCommand lists a remote directory, either for the file
// browser or for the rsync target picker.
type ListDirectoryCommand struct {
	Metadata
	Path     string
	ViaRsync bool
}

func (c ListDirectoryCommand) GetBaseMessage() Metadata { return c.Metadata }

// SaveScriptCommand writes an edited deployment script back to the host.
// OriginalEnvVars is the env var set as it was when editing started; the
// session patches only the differing lines.
type SaveScriptCommand struct {
	Metadata
	Script          *models.DeploymentScript
	OriginalEnvVars []models.EnvVar
}

func (c SaveScriptCommand) GetBaseMessage() Metadata { return c.Metadata }

// RunScriptCommand executes a deployment script on the host.
type RunScriptCommand struct {
	Metadata
	Path string
}

func (c RunScriptCommand) GetBaseMessage() Metadata { return c.Metadata }

// AssociateScriptCommand records a user-confirmed container-to-script
// pairing.
type AssociateScriptCommand struct {
	Metadata
	ContainerName string
	ScriptPath    string
}

func (c AssociateScriptCommand) GetBaseMessage() Metadata { return c.Metadata }
