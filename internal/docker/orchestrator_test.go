// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/models"
)

type recordingListener struct {
	inventoryUpdates int
	statuses         []string
	failures         []string
	listedPaths      []string
	listedViaRsync   []bool
	listedEntries    [][]models.FileEntry
}

func (l *recordingListener) InventoryUpdated() { l.inventoryUpdates++ }

func (l *recordingListener) DirectoryListed(path string, viaRsync bool, entries []models.FileEntry) {
	l.listedPaths = append(l.listedPaths, path)
	l.listedViaRsync = append(l.listedViaRsync, viaRsync)
	l.listedEntries = append(l.listedEntries, entries)
}

func (l *recordingListener) Status(message string)  { l.statuses = append(l.statuses, message) }
func (l *recordingListener) Failure(message string) { l.failures = append(l.failures, message) }

func newTestOrchestrator(t *testing.T) (*Orchestrator, *Inventory, *recordingListener) {
	t.Helper()
	inv := NewInventory("prod-1")
	listener := &recordingListener{}
	orch := NewOrchestrator(inv, "~/clients", listener, zerolog.Nop())
	return orch, inv, listener
}

// step promotes the next queued command and requires that one was available.
func step(t *testing.T, orch *Orchestrator) PendingCommand {
	t.Helper()
	cmd, ok := orch.TakeNextIfIdle()
	require.True(t, ok, "expected a promotable command")
	return cmd
}

func TestOrchestratorDiscovery(t *testing.T) {
	t.Run("fans out breadth-first across projects", func(t *testing.T) {
		orch, inv, listener := newTestOrchestrator(t)

		orch.StartDiscovery()
		assert.Equal(t, 2, orch.QueueLen())

		ps := step(t, orch)
		require.IsType(t, DockerPsKind{}, ps.Kind)
		orch.OnResult(ps, "a1b2|web|nginx:latest|Up 3 hours|0.0.0.0:8080->80/tcp")
		require.Len(t, inv.Containers, 1)

		// Project alpha has one script, beta has none.
		projects := step(t, orch)
		require.IsType(t, ListProjectsKind{}, projects.Kind)
		orch.OnResult(projects, "alpha\nbeta\n")

		assert.Equal(t, 2, orch.QueueLen(), "one find-scripts command per project")
		require.Len(t, inv.Projects, 2)

		findAlpha := step(t, orch)
		require.IsType(t, FindScriptsKind{}, findAlpha.Kind)
		assert.Equal(t, "alpha", findAlpha.Kind.(FindScriptsKind).Project.Name)
		orch.OnResult(findAlpha, "$HOME/clients/alpha/start.sh\n")
		assert.Equal(t, 2, orch.QueueLen(), "beta's find plus alpha's read")

		findBeta := step(t, orch)
		orch.OnResult(findBeta, "")
		assert.Equal(t, 1, orch.QueueLen(), "nothing to read for beta")

		read := step(t, orch)
		require.IsType(t, ReadScriptKind{}, read.Kind)
		orch.OnResult(read, sampleScript)

		assert.Equal(t, 0, orch.QueueLen())
		require.Len(t, inv.Scripts, 1)
		assert.Equal(t, "api", inv.Scripts[0].ContainerName)
		require.Len(t, inv.Projects[0].Scripts, 1)
		assert.Empty(t, inv.Projects[1].Scripts)
		assert.Positive(t, listener.inventoryUpdates)
	})

	t.Run("holds at most one command in flight", func(t *testing.T) {
		orch, _, _ := newTestOrchestrator(t)

		orch.StartDiscovery()
		first := step(t, orch)
		assert.True(t, orch.InFlight())

		_, ok := orch.TakeNextIfIdle()
		assert.False(t, ok, "nothing promotes while a command is outstanding")

		orch.OnResult(first, "")
		assert.False(t, orch.InFlight())
		_, ok = orch.TakeNextIfIdle()
		assert.True(t, ok)
	})

	t.Run("unrelated shell scripts are skipped silently", func(t *testing.T) {
		orch, inv, _ := newTestOrchestrator(t)
		project := &models.Project{Name: "alpha", Path: "$HOME/clients/alpha"}
		inv.ReplaceProjects([]*models.Project{project})

		cmd := NewPendingCommand("prod-1", ReadScriptCommand("/x/backup.sh"), ReadScriptKind{Project: project, Path: "/x/backup.sh"})
		orch.Enqueue(cmd)
		taken := step(t, orch)
		orch.OnResult(taken, "#!/bin/bash\ntar czf /backup.tgz /srv\n")

		assert.Empty(t, inv.Scripts)
	})

	t.Run("a failure drops the command but keeps the queue running", func(t *testing.T) {
		orch, _, listener := newTestOrchestrator(t)

		orch.StartDiscovery()
		ps := step(t, orch)
		orch.OnFailure(ps, errors.New("connection reset"))

		require.Len(t, listener.failures, 1)
		assert.Contains(t, listener.failures[0], "docker_ps")
		assert.False(t, orch.InFlight())

		next := step(t, orch)
		assert.IsType(t, ListProjectsKind{}, next.Kind)
	})

	t.Run("directory listings are routed with their origin", func(t *testing.T) {
		orch, _, listener := newTestOrchestrator(t)

		orch.Enqueue(NewPendingCommand("prod-1", ListDirectoryCommand("/srv"), ListDirectoryKind{Path: "/srv"}))
		orch.Enqueue(NewPendingCommand("prod-1", ListDirectoryCommand("/opt"), RsyncListDirectoryKind{Path: "/opt"}))

		browse := step(t, orch)
		orch.OnResult(browse, "drwxr-xr-x 2 u g 4096 Jan 1 12:00 data\n")
		rsync := step(t, orch)
		orch.OnResult(rsync, "")

		require.Equal(t, []string{"/srv", "/opt"}, listener.listedPaths)
		assert.Equal(t, []bool{false, true}, listener.listedViaRsync)
	})

	t.Run("rediscovery replaces state without touching associations", func(t *testing.T) {
		orch, inv, _ := newTestOrchestrator(t)
		inv.SetAssociation("web", "/srv/acme/start.sh")

		orch.StartDiscovery()
		ps := step(t, orch)
		orch.OnResult(ps, "a1b2|web|nginx:latest|Up 3 hours|")

		path, ok := inv.AssociationFor("web")
		require.True(t, ok)
		assert.Equal(t, "/srv/acme/start.sh", path)
		assert.Equal(t, "/srv/acme/start.sh", inv.Containers[0].ScriptPath)
	})
}
