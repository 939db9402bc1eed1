// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Here lies the definition of the data the host session can send to the
// UI. All data the UI receives from a session is named: Event. Events
// originate either directly from Commands or from discovery follow-ups
// the session runs on its own.
package protocol

import (
	"github.com/dockhand/dockhand/internal/models"
)

// GetIdempotencyKey extracts the idempotency key from any event.
func GetIdempotencyKey(event Event) string {
	return event.GetMetadata().IdempotencyKey
}

// HostConnectedEvent is sent when the SSH session is established and
// discovery has been queued.
type HostConnectedEvent struct {
	Metadata
}

func (e HostConnectedEvent) GetMetadata() Metadata { return e.Metadata }

// HostDisconnectedEvent is sent when a host session ends.
type HostDisconnectedEvent struct {
	Metadata
}

func (e HostDisconnectedEvent) GetMetadata() Metadata { return e.Metadata }

// InventoryUpdatedEvent carries a snapshot of the discovered state. It is
// sent every time discovery learns something new, so the UI fills in
// incrementally.
type InventoryUpdatedEvent struct {
	Metadata
	Containers []models.Container
	Projects   []*models.Project
	Scripts    []*models.DeploymentScript
}

func (e InventoryUpdatedEvent) GetMetadata() Metadata { return e.Metadata }

// DirectoryListedEvent carries the entries of a listed remote directory.
// ViaRsync distinguishes the rsync target picker from the file browser;
// a listing that arrives after the UI left the corresponding view is
// discarded by the receiver.
type DirectoryListedEvent struct {
	Metadata
	Path     string
	ViaRsync bool
	Entries  []models.FileEntry
}

func (e DirectoryListedEvent) GetMetadata() Metadata { return e.Metadata }

// ContainerLogsEvent carries a log tail.
type ContainerLogsEvent struct {
	Metadata
	ContainerName string
	Text          string
}

func (e ContainerLogsEvent) GetMetadata() Metadata { return e.Metadata }

// ContainerStatsEvent carries a one-shot usage snapshot.
type ContainerStatsEvent struct {
	Metadata
	ContainerName string
	Stats         models.ContainerStats
}

func (e ContainerStatsEvent) GetMetadata() Metadata { return e.Metadata }

// ContainerProcessesEvent carries a container's process table.
type ContainerProcessesEvent struct {
	Metadata
	ContainerName string
	Processes     []models.ProcessInfo
}

func (e ContainerProcessesEvent) GetMetadata() Metadata { return e.Metadata }

// ContainerInspectedEvent carries parsed inspect details.
type ContainerInspectedEvent struct {
	Metadata
	Info models.ContainerInfo
}

func (e ContainerInspectedEvent) GetMetadata() Metadata { return e.Metadata }

// ScriptSavedEvent reports the outcome of a script save. Changed is
// false when the edit produced no textual difference, or when no
// insertion anchor could be found for a new env var.
type ScriptSavedEvent struct {
	Metadata
	Path    string
	Changed bool
}

func (e ScriptSavedEvent) GetMetadata() Metadata { return e.Metadata }

// StatusEvent is a transient, human-readable progress message.
type StatusEvent struct {
	Metadata
	Message string
}

func (e StatusEvent) GetMetadata() Metadata { return e.Metadata }

// ErrorEvent reports a recoverable failure. The session keeps running.
type ErrorEvent struct {
	Metadata
	Message string
	Context string
}

func (e ErrorEvent) GetMetadata() Metadata { return e.Metadata }

// CriticalErrorEvent reports an unrecoverable failure; the UI shuts
// down.
type CriticalErrorEvent struct {
	Metadata
	Message string
	Context string
}

func (e CriticalErrorEvent) GetMetadata() Metadata { return e.Metadata }
