// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
)

// CommandRunner executes shell commands on a remote host. ssh.Executor is
// the production implementation; tests substitute a fake.
type CommandRunner interface {
	Connect() error
	Run(ctx context.Context, command string) (string, error)
	Close() error
}

// RunnerFactory builds a runner for a host when a session connects.
type RunnerFactory func(host models.Host) CommandRunner

// Session owns one host connection end to end: it consumes protocol
// commands from the UI, drives the discovery orchestrator over the SSH
// runner, and emits protocol events back. Everything runs on the
// session's own goroutine, which is what keeps the single in-flight
// command guarantee.
type Session struct {
	cfg       config.AppConfig
	newRunner RunnerFactory
	events    chan<- protocol.Event
	meta      *ssh.Metadata
	log       zerolog.Logger

	host   models.Host
	runner CommandRunner
	inv    *Inventory
	orch   *Orchestrator

	// current is the correlation ID of the command being handled; every
	// event emitted while it executes carries it as the idempotency key.
	current uuid.UUID
}

// NewSession wires a session to the UI event channel.
func NewSession(cfg config.AppConfig, meta *ssh.Metadata, newRunner RunnerFactory, events chan<- protocol.Event, log zerolog.Logger) *Session {
	return &Session{
		cfg:       cfg,
		newRunner: newRunner,
		events:    events,
		meta:      meta,
		log:       log,
	}
}

// Run consumes commands until the channel closes or the context ends.
// A panic on the session goroutine would leave the UI running but deaf,
// so it is converted into a critical error that shuts the program down.
func (s *Session) Run(ctx context.Context, commands <-chan protocol.Command) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("session goroutine panicked")
			s.emit(protocol.CriticalErrorEvent{
				Metadata: s.keyed("critical"),
				Message:  "Host session failed",
				Context:  fmt.Sprint(r),
			})
		}
	}()
	for {
		select {
		case <-ctx.Done():
			s.teardown()
			return
		case cmd, ok := <-commands:
			if !ok {
				s.teardown()
				return
			}
			s.handle(ctx, cmd)
			s.drain(ctx)
		}
	}
}

// drain promotes and executes queued discovery commands one at a time
// until the queue is empty. A failed command is reported and dropped;
// commands already queued keep running.
func (s *Session) drain(ctx context.Context) {
	if s.orch == nil {
		return
	}
	for {
		pending, ok := s.orch.TakeNextIfIdle()
		if !ok {
			return
		}
		s.current = pending.ID
		s.log.Debug().
			Stringer("id", pending.ID).
			Str("cmd", pending.Text).
			Msg("running remote command")
		output, err := s.runner.Run(ctx, pending.Text)
		if err != nil {
			s.orch.OnFailure(pending, err)
			continue
		}
		s.orch.OnResult(pending, output)
	}
}

func (s *Session) handle(ctx context.Context, cmd protocol.Command) {
	s.current = uuid.New()
	switch c := cmd.(type) {
	case protocol.ConnectHostCommand:
		s.handleConnect(c)
	case protocol.DisconnectCommand:
		s.teardown()
	case protocol.RefreshInventoryCommand:
		if s.requireConnection() {
			s.orch.StartDiscovery()
		}
	case protocol.ContainerActionCommand:
		s.handleContainerAction(ctx, c)
	case protocol.FetchLogsCommand:
		s.handleFetchLogs(ctx, c)
	case protocol.FetchStatsCommand:
		s.handleFetchStats(ctx, c)
	case protocol.FetchProcessesCommand:
		s.handleFetchProcesses(ctx, c)
	case protocol.InspectContainerCommand:
		s.handleInspect(ctx, c)
	case protocol.ListDirectoryCommand:
		s.handleListDirectory(c)
	case protocol.SaveScriptCommand:
		s.handleSaveScript(c)
	case protocol.RunScriptCommand:
		s.handleRunScript(ctx, c)
	case protocol.AssociateScriptCommand:
		s.handleAssociate(c)
	default:
		s.log.Warn().Type("command", cmd).Msg("unhandled command")
	}
}

func (s *Session) handleConnect(c protocol.ConnectHostCommand) {
	if s.runner != nil {
		s.teardown()
	}

	s.host = c.Host
	s.runner = s.newRunner(c.Host)
	if err := s.runner.Connect(); err != nil {
		s.runner = nil
		s.emitError("Connection failed", err.Error())
		return
	}

	s.inv = NewInventory(c.Host.Alias)
	if saved := s.meta.AssociationsFor(c.Host.Alias); saved != nil {
		s.inv.LoadAssociations(saved)
	}
	s.orch = NewOrchestrator(s.inv, s.cfg.Paths.ClientsPath, s, s.log)

	s.markHostUsed()
	s.emit(protocol.HostConnectedEvent{Metadata: s.keyed("connected")})
	s.orch.StartDiscovery()
}

func (s *Session) handleContainerAction(ctx context.Context, c protocol.ContainerActionCommand) {
	if !s.requireConnection() {
		return
	}

	var text string
	switch c.Action {
	case protocol.ActionStart:
		text = StartCommand(c.ContainerName)
	case protocol.ActionStop:
		text = StopCommand(c.ContainerName)
	case protocol.ActionRestart:
		text = RestartCommand(c.ContainerName)
	case protocol.ActionPull:
		text = PullCommand(c.Image)
	case protocol.ActionRemove:
		text = RemoveCommand(c.ContainerName, c.WithVolumes)
	case protocol.ActionRemoveImage:
		text = RemoveImageCommand(c.Image)
	default:
		s.emitError("Unknown container action", string(c.Action))
		return
	}

	if _, err := s.runner.Run(ctx, text); err != nil {
		s.emitError(fmt.Sprintf("%s %s failed", c.Action, c.ContainerName), err.Error())
		return
	}
	s.emitStatus(fmt.Sprintf("%s %s done", c.Action, c.ContainerName))

	// Container state changed; refresh the listing.
	s.orch.Enqueue(NewPendingCommand(s.host.Alias, PsCommand(true), DockerPsKind{}))
}

func (s *Session) handleFetchLogs(ctx context.Context, c protocol.FetchLogsCommand) {
	if !s.requireConnection() {
		return
	}
	output, err := s.runner.Run(ctx, LogsCommand(c.ContainerName, c.Tail, false))
	if err != nil {
		s.emitError("Failed to fetch logs", err.Error())
		return
	}
	s.emit(protocol.ContainerLogsEvent{Metadata: s.keyed("logs"), ContainerName: c.ContainerName, Text: output})
}

func (s *Session) handleFetchStats(ctx context.Context, c protocol.FetchStatsCommand) {
	if !s.requireConnection() {
		return
	}
	output, err := s.runner.Run(ctx, StatsCommand(c.ContainerName))
	if err != nil {
		s.emitError("Failed to fetch stats", err.Error())
		return
	}
	s.emit(protocol.ContainerStatsEvent{
		Metadata:      s.keyed("stats"),
		ContainerName: c.ContainerName,
		Stats:         ParseStats(output),
	})
}

func (s *Session) handleFetchProcesses(ctx context.Context, c protocol.FetchProcessesCommand) {
	if !s.requireConnection() {
		return
	}
	output, err := s.runner.Run(ctx, TopCommand(c.ContainerName))
	if err != nil {
		s.emitError("Failed to fetch processes", err.Error())
		return
	}
	s.emit(protocol.ContainerProcessesEvent{
		Metadata:      s.keyed("processes"),
		ContainerName: c.ContainerName,
		Processes:     ParseProcesses(output),
	})
}

func (s *Session) handleInspect(ctx context.Context, c protocol.InspectContainerCommand) {
	if !s.requireConnection() {
		return
	}
	output, err := s.runner.Run(ctx, InspectCommand(c.ContainerName))
	if err != nil {
		s.emitError("Failed to inspect container", err.Error())
		return
	}
	s.emit(protocol.ContainerInspectedEvent{Metadata: s.keyed("inspect"), Info: ParseInspect(output)})
}

func (s *Session) handleListDirectory(c protocol.ListDirectoryCommand) {
	if !s.requireConnection() {
		return
	}
	kind := CommandKind(ListDirectoryKind{Path: c.Path})
	if c.ViaRsync {
		kind = RsyncListDirectoryKind{Path: c.Path}
	}
	s.orch.Enqueue(NewPendingCommand(s.host.Alias, ListDirectoryCommand(c.Path), kind))
}

func (s *Session) handleSaveScript(c protocol.SaveScriptCommand) {
	if !s.requireConnection() {
		return
	}

	var text string
	changed := true
	if c.Script.RawContent == "" {
		text = GenerateScript(c.Script)
	} else {
		text, changed = PatchScript(c.Script, c.OriginalEnvVars)
	}
	if !changed {
		s.emit(protocol.ScriptSavedEvent{Metadata: s.keyed("script_saved"), Path: c.Script.Path, Changed: false})
		s.emitStatus("No changes to save")
		return
	}

	c.Script.RawContent = text
	if existing, ok := s.inv.ScriptByPath(c.Script.Path); ok {
		*existing = *c.Script
	}

	s.orch.Enqueue(NewPendingCommand(
		s.host.Alias,
		WriteScriptCommand(c.Script.Path, text),
		WriteScriptKind{Path: c.Script.Path},
	))
	s.emit(protocol.ScriptSavedEvent{Metadata: s.keyed("script_saved"), Path: c.Script.Path, Changed: true})
}

func (s *Session) handleRunScript(ctx context.Context, c protocol.RunScriptCommand) {
	if !s.requireConnection() {
		return
	}
	if _, err := s.runner.Run(ctx, RunScriptCommand(c.Path)); err != nil {
		s.emitError("Script execution failed", err.Error())
		return
	}
	s.emitStatus(fmt.Sprintf("Executed %s", c.Path))
	s.orch.Enqueue(NewPendingCommand(s.host.Alias, PsCommand(true), DockerPsKind{}))
}

func (s *Session) handleAssociate(c protocol.AssociateScriptCommand) {
	if !s.requireConnection() {
		return
	}
	s.inv.SetAssociation(c.ContainerName, c.ScriptPath)
	s.persistAssociations()
	s.InventoryUpdated()
}

// teardown persists the association index and drops the connection.
func (s *Session) teardown() {
	if s.runner == nil {
		return
	}
	s.persistAssociations()
	s.inv.ClearAssociations()
	if err := s.runner.Close(); err != nil {
		s.log.Warn().Err(err).Msg("error closing ssh connection")
	}
	s.runner = nil
	s.inv = nil
	s.orch = nil
	s.emit(protocol.HostDisconnectedEvent{Metadata: s.keyed("disconnected")})
}

func (s *Session) persistAssociations() {
	s.meta.SetAssociations(s.host.Alias, s.inv.Associations())
	if err := ssh.SaveMetadata(s.cfg.Paths.MetadataPath, s.meta); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist metadata")
	}
}

func (s *Session) markHostUsed() {
	s.host.MarkUsed()
	s.meta.ExtractFromHost(s.host)
	if err := ssh.SaveMetadata(s.cfg.Paths.MetadataPath, s.meta); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist metadata")
	}
}

func (s *Session) requireConnection() bool {
	if s.runner == nil {
		s.emitError("Not connected", "connect to a host first")
		return false
	}
	return true
}

// InventoryUpdated implements Listener; it snapshots the inventory for
// the UI.
func (s *Session) InventoryUpdated() {
	containers := make([]models.Container, len(s.inv.Containers))
	copy(containers, s.inv.Containers)

	s.emit(protocol.InventoryUpdatedEvent{
		Metadata:   s.keyed("inventory"),
		Containers: containers,
		Projects:   s.inv.Projects,
		Scripts:    s.inv.Scripts,
	})
}

// DirectoryListed implements Listener.
func (s *Session) DirectoryListed(path string, viaRsync bool, entries []models.FileEntry) {
	s.emit(protocol.DirectoryListedEvent{
		Metadata: s.keyed("directory"),
		Path:     path,
		ViaRsync: viaRsync,
		Entries:  entries,
	})
}

// Status implements Listener.
func (s *Session) Status(message string) {
	s.emitStatus(message)
}

// Failure implements Listener.
func (s *Session) Failure(message string) {
	s.emitError(message, "")
}

func (s *Session) base() protocol.Metadata {
	return protocol.Metadata{
		HostAlias: s.host.Alias,
		Version:   protocol.CurrentProtocolVersion,
	}
}

// keyed stamps event metadata with an idempotency key derived from the
// executing command's correlation ID. The kind discriminator keeps the
// keys of distinct events emitted for one command from colliding, while
// a re-emit of the same event for the same command deduplicates.
func (s *Session) keyed(kind string) protocol.Metadata {
	meta := s.base()
	meta.IdempotencyKey = fmt.Sprintf("%s:%s", kind, s.current)
	return meta
}

func (s *Session) emit(event protocol.Event) {
	s.events <- event
}

func (s *Session) emitStatus(message string) {
	s.emit(protocol.StatusEvent{Metadata: s.keyed("status"), Message: message})
}

func (s *Session) emitError(message, context string) {
	s.emit(protocol.ErrorEvent{Metadata: s.keyed("error"), Message: message, Context: context})
}
