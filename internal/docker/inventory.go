// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"github.com/samber/lo"

	"github.com/dockhand/dockhand/internal/models"
)

// Inventory is the discovered state for one connected host: containers,
// projects and deployment scripts, plus the container-to-script
// association index. Containers, projects and scripts are replaced
// wholesale on every refresh; the association index survives refreshes and
// is cleared only when the host session ends.
type Inventory struct {
	HostName   string
	Containers []models.Container
	Projects   []*models.Project
	Scripts    []*models.DeploymentScript

	// associations maps container name to script path. Entries are either
	// user-confirmed or inferred during Associate.
	associations map[string]string
}

// NewInventory creates an empty inventory for a host session.
func NewInventory(hostName string) *Inventory {
	return &Inventory{
		HostName:     hostName,
		associations: make(map[string]string),
	}
}

// ReplaceContainers swaps in a freshly parsed container set.
func (inv *Inventory) ReplaceContainers(containers []models.Container) {
	inv.Containers = containers
}

// ReplaceProjects swaps in a freshly discovered project set. Scripts belong
// to projects, so the flat script list resets with them.
func (inv *Inventory) ReplaceProjects(projects []*models.Project) {
	inv.Projects = projects
	inv.Scripts = nil
}

// AddScript appends a parsed script to its owning project and to the flat
// script list.
func (inv *Inventory) AddScript(project *models.Project, script *models.DeploymentScript) {
	project.Scripts = append(project.Scripts, script)
	inv.Scripts = append(inv.Scripts, script)
}

// SetAssociation records a user-confirmed container-to-script pairing.
func (inv *Inventory) SetAssociation(containerName, scriptPath string) {
	inv.associations[containerName] = scriptPath
	inv.Associate()
}

// AssociationFor looks up the script path associated with a container.
func (inv *Inventory) AssociationFor(containerName string) (string, bool) {
	path, ok := inv.associations[containerName]
	return path, ok
}

// Associations returns a copy of the association index for persistence.
func (inv *Inventory) Associations() map[string]string {
	out := make(map[string]string, len(inv.associations))
	for k, v := range inv.associations {
		out[k] = v
	}
	return out
}

// LoadAssociations seeds the index from persisted metadata.
func (inv *Inventory) LoadAssociations(saved map[string]string) {
	for k, v := range saved {
		inv.associations[k] = v
	}
}

// ClearAssociations drops the index; called on disconnect only.
func (inv *Inventory) ClearAssociations() {
	inv.associations = make(map[string]string)
}

// ScriptByPath finds a script in the flat list.
func (inv *Inventory) ScriptByPath(path string) (*models.DeploymentScript, bool) {
	return lo.Find(inv.Scripts, func(s *models.DeploymentScript) bool {
		return s.Path == path
	})
}

// Associate pairs containers with deployment scripts. Explicit associations
// from the index win; otherwise an exact container-name match against the
// parsed scripts is used and recorded for the next refresh.
func (inv *Inventory) Associate() {
	for i := range inv.Containers {
		name := inv.Containers[i].Name

		if path, ok := inv.associations[name]; ok {
			inv.Containers[i].ScriptPath = path
			continue
		}

		script, found := lo.Find(inv.Scripts, func(s *models.DeploymentScript) bool {
			return s.ContainerName == name
		})
		if found {
			inv.Containers[i].ScriptPath = script.Path
			inv.associations[name] = script.Path
		}
	}
}
