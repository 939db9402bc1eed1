// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dockhand/dockhand/internal/models"
)

// CommandKind tags a pending command with the context its result handler
// needs. The set is closed; OnResult dispatches by type switch.
type CommandKind interface {
	kindName() string
}

// DockerPsKind refreshes the container set.
type DockerPsKind struct{}

// ListProjectsKind discovers project directories under the clients path.
type ListProjectsKind struct{}

// FindScriptsKind discovers deployment scripts under one project.
type FindScriptsKind struct {
	Project *models.Project
}

// ReadScriptKind reads one discovered script file.
type ReadScriptKind struct {
	Project *models.Project
	Path    string
}

// WriteScriptKind persists edited script content; inventory state was
// already updated optimistically by the caller.
type WriteScriptKind struct {
	Path string
}

// ListDirectoryKind lists a remote directory for the file browser.
type ListDirectoryKind struct {
	Path string
}

// RsyncListDirectoryKind lists a remote directory for the rsync target
// picker.
type RsyncListDirectoryKind struct {
	Path string
}

func (DockerPsKind) kindName() string           { return "docker_ps" }
func (ListProjectsKind) kindName() string       { return "list_projects" }
func (FindScriptsKind) kindName() string        { return "find_scripts" }
func (ReadScriptKind) kindName() string         { return "read_script" }
func (WriteScriptKind) kindName() string        { return "write_script" }
func (ListDirectoryKind) kindName() string      { return "list_directory" }
func (RsyncListDirectoryKind) kindName() string { return "rsync_list_directory" }

// PendingCommand is one remote shell command waiting in, or taken from, the
// discovery queue.
type PendingCommand struct {
	ID   uuid.UUID
	Host string
	Text string
	Kind CommandKind
}

// NewPendingCommand builds a queued command with a fresh correlation ID.
func NewPendingCommand(host, text string, kind CommandKind) PendingCommand {
	return PendingCommand{ID: uuid.New(), Host: host, Text: text, Kind: kind}
}

// Listener receives the orchestrator's outward-facing effects. The session
// layer implements it; a directory listing delivered after the UI moved
// away from the browser view is simply discarded by the implementation.
type Listener interface {
	InventoryUpdated()
	DirectoryListed(path string, viaRsync bool, entries []models.FileEntry)
	Status(message string)
	Failure(message string)
}

// Orchestrator drives discovery for one host session. It holds at most one
// in-flight command and a FIFO of follow-ups; each result may update the
// inventory and enqueue further commands. Everything runs on the single
// result-handling path, so no locking is needed.
type Orchestrator struct {
	inv         *Inventory
	clientsPath string
	listener    Listener
	log         zerolog.Logger

	queue    []PendingCommand
	inFlight *PendingCommand
}

// NewOrchestrator wires an orchestrator to a host inventory.
func NewOrchestrator(inv *Inventory, clientsPath string, listener Listener, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		inv:         inv,
		clientsPath: clientsPath,
		listener:    listener,
		log:         log,
	}
}

// StartDiscovery queues a full refresh: container listing followed by
// project discovery. Safe to call repeatedly; the inventory is replaced,
// not merged, and the association index persists across refreshes.
func (o *Orchestrator) StartDiscovery() {
	o.Enqueue(NewPendingCommand(o.inv.HostName, PsCommand(true), DockerPsKind{}))
	o.Enqueue(NewPendingCommand(o.inv.HostName, ListProjectsCommand(o.clientsPath), ListProjectsKind{}))
}

// Enqueue appends a command to the back of the FIFO.
func (o *Orchestrator) Enqueue(cmd PendingCommand) {
	o.queue = append(o.queue, cmd)
	o.log.Debug().Str("kind", cmd.Kind.kindName()).Str("cmd", cmd.Text).Msg("command enqueued")
}

// TakeNextIfIdle promotes the front of the queue into the in-flight slot.
// It returns false while a command is outstanding or the queue is empty.
func (o *Orchestrator) TakeNextIfIdle() (PendingCommand, bool) {
	if o.inFlight != nil || len(o.queue) == 0 {
		return PendingCommand{}, false
	}
	cmd := o.queue[0]
	o.queue = o.queue[1:]
	o.inFlight = &cmd
	return cmd, true
}

// InFlight reports whether a command is currently awaiting its result.
func (o *Orchestrator) InFlight() bool {
	return o.inFlight != nil
}

// QueueLen returns the number of queued (not in-flight) commands.
func (o *Orchestrator) QueueLen() int {
	return len(o.queue)
}

// OnResult handles the raw text output of the completed command and clears
// the in-flight slot so the next queued command can be promoted. It is
// called exactly once per completed command.
func (o *Orchestrator) OnResult(cmd PendingCommand, raw string) {
	o.inFlight = nil

	switch kind := cmd.Kind.(type) {
	case DockerPsKind:
		o.handleDockerPs(raw)
	case ListProjectsKind:
		o.handleListProjects(raw)
	case FindScriptsKind:
		o.handleFindScripts(kind.Project, raw)
	case ReadScriptKind:
		o.handleReadScript(kind.Project, kind.Path, raw)
	case WriteScriptKind:
		o.listener.Status(fmt.Sprintf("Saved %s", kind.Path))
	case ListDirectoryKind:
		o.listener.DirectoryListed(kind.Path, false, ParseDirectoryListing(raw))
	case RsyncListDirectoryKind:
		o.listener.DirectoryListed(kind.Path, true, ParseDirectoryListing(raw))
	}
}

// OnFailure reports a failed command upward. The command is not retried and
// its follow-ups are never enqueued, but commands already queued by
// earlier-completed commands continue to run.
func (o *Orchestrator) OnFailure(cmd PendingCommand, err error) {
	o.inFlight = nil
	o.log.Warn().Err(err).Str("kind", cmd.Kind.kindName()).Msg("remote command failed")
	o.listener.Failure(fmt.Sprintf("%s failed: %v", cmd.Kind.kindName(), err))
}

func (o *Orchestrator) handleDockerPs(raw string) {
	containers := ParseContainers(raw, o.inv.HostName)
	o.inv.ReplaceContainers(containers)
	o.inv.Associate()
	o.listener.InventoryUpdated()
	o.listener.Status(fmt.Sprintf("Found %d containers", len(containers)))
}

func (o *Orchestrator) handleListProjects(raw string) {
	projects := ParseProjectListing(raw, o.clientsPath)
	o.inv.ReplaceProjects(projects)
	for _, project := range projects {
		o.Enqueue(NewPendingCommand(
			o.inv.HostName,
			FindScriptsCommand(project.Path),
			FindScriptsKind{Project: project},
		))
	}
	o.listener.InventoryUpdated()
}

func (o *Orchestrator) handleFindScripts(project *models.Project, raw string) {
	for _, path := range ParseScriptPaths(raw) {
		o.Enqueue(NewPendingCommand(
			o.inv.HostName,
			ReadScriptCommand(path),
			ReadScriptKind{Project: project, Path: path},
		))
	}
}

func (o *Orchestrator) handleReadScript(project *models.Project, path, raw string) {
	script := ParseScript(raw, path, project.Name)
	if script == nil {
		// Not a deployment script; unrelated shell scripts are expected
		// among the find results and are skipped silently.
		return
	}
	o.inv.AddScript(project, script)
	o.inv.Associate()
	o.listener.InventoryUpdated()
}
