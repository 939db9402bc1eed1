// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
)

// Sample data creators for consistent testing

// SampleHosts returns sample hosts for testing
func SampleHosts() []models.Host {
	return []models.Host{
		{
			Alias:    "prod-1",
			Hostname: "prod-1.example.com",
			User:     "deploy",
			Port:     22,
			Tags:     []string{"prod", "docker"},
			Note:     "primary production box",
		},
		{
			Alias:    "staging",
			Hostname: "staging.example.com",
			User:     "deploy",
			Port:     2222,
			Tags:     []string{"staging"},
		},
		{
			Alias:    "backup",
			Hostname: "backup.example.com",
		},
	}
}

// SampleContainers returns sample containers for a given host
func SampleContainers(hostName string) []models.Container {
	return []models.Container{
		{
			ID:       "abc123",
			Name:     "api",
			Image:    "registry.example.com/acme/api:latest",
			Status:   models.ContainerStatus{Kind: models.StatusRunning},
			Ports:    []models.PortMapping{{HostPort: 8080, ContainerPort: 8080, Protocol: "tcp"}},
			HostName: hostName,
		},
		{
			ID:       "def456",
			Name:     "worker",
			Image:    "registry.example.com/acme/worker:latest",
			Status:   models.ContainerStatus{Kind: models.StatusExited, ExitCode: 1},
			HostName: hostName,
		},
	}
}

// SampleScript returns a parsed deployment script for testing
func SampleScript() *models.DeploymentScript {
	return &models.DeploymentScript{
		Path:          "/srv/acme/start.sh",
		ProjectName:   "acme",
		ContainerName: "api",
		Repo:          "registry.example.com/acme/api:latest",
		Network:       "acme-net",
		EnvVars: []models.EnvVar{
			models.NewEnvVar("NODE_ENV", "production"),
			models.NewEnvVar("DB_PASSWORD", "hunter2"),
			models.NewEnvVar("PORT", "8080"),
		},
		Ports:      []models.PortMapping{{HostPort: 8080, ContainerPort: 8080, Protocol: "tcp"}},
		RawContent: "#!/bin/bash\ndocker run -d --name api registry.example.com/acme/api:latest\n",
	}
}

// InventoryUpdatedEvent creates a sample inventory snapshot for a host
func InventoryUpdatedEvent(hostAlias string) protocol.InventoryUpdatedEvent {
	script := SampleScript()
	containers := SampleContainers(hostAlias)
	containers[0].ScriptPath = script.Path

	return protocol.InventoryUpdatedEvent{
		Metadata: protocol.Metadata{
			HostAlias: hostAlias,
			Version:   protocol.CurrentProtocolVersion,
		},
		Containers: containers,
		Projects:   []*models.Project{{Name: "acme", Path: "/home/deploy/clients/acme", Scripts: []*models.DeploymentScript{script}}},
		Scripts:    []*models.DeploymentScript{script},
	}
}

// DirectoryListedEvent creates a sample directory listing event
func DirectoryListedEvent(hostAlias, path string, viaRsync bool) protocol.DirectoryListedEvent {
	return protocol.DirectoryListedEvent{
		Metadata: protocol.Metadata{
			HostAlias: hostAlias,
			Version:   protocol.CurrentProtocolVersion,
		},
		Path:     path,
		ViaRsync: viaRsync,
		Entries: []models.FileEntry{
			models.ParentEntry(),
			models.NewFileEntry("acme", true),
			models.NewFileEntry("start.sh", false),
		},
	}
}
