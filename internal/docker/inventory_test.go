// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/models"
)

func TestInventoryAssociate(t *testing.T) {
	t.Run("matches containers to scripts by exact name", func(t *testing.T) {
		inv := NewInventory("h")
		inv.ReplaceContainers([]models.Container{{Name: "api"}, {Name: "worker"}})
		project := &models.Project{Name: "acme"}
		inv.ReplaceProjects([]*models.Project{project})
		inv.AddScript(project, &models.DeploymentScript{Path: "/srv/acme/start.sh", ContainerName: "api"})

		inv.Associate()

		assert.Equal(t, "/srv/acme/start.sh", inv.Containers[0].ScriptPath)
		assert.Empty(t, inv.Containers[1].ScriptPath)

		path, ok := inv.AssociationFor("api")
		require.True(t, ok)
		assert.Equal(t, "/srv/acme/start.sh", path, "inferred match is recorded")
	})

	t.Run("an explicit association beats the name match", func(t *testing.T) {
		inv := NewInventory("h")
		inv.ReplaceContainers([]models.Container{{Name: "api"}})
		project := &models.Project{Name: "acme"}
		inv.ReplaceProjects([]*models.Project{project})
		inv.AddScript(project, &models.DeploymentScript{Path: "/srv/acme/start.sh", ContainerName: "api"})
		inv.SetAssociation("api", "/srv/other/run.sh")

		inv.Associate()

		assert.Equal(t, "/srv/other/run.sh", inv.Containers[0].ScriptPath)
	})

	t.Run("loaded associations survive a refresh, clearing does not", func(t *testing.T) {
		inv := NewInventory("h")
		inv.LoadAssociations(map[string]string{"api": "/srv/acme/start.sh"})
		inv.ReplaceContainers([]models.Container{{Name: "api"}})
		inv.Associate()
		assert.Equal(t, "/srv/acme/start.sh", inv.Containers[0].ScriptPath)

		inv.ReplaceContainers([]models.Container{{Name: "api"}})
		inv.Associate()
		assert.Equal(t, "/srv/acme/start.sh", inv.Containers[0].ScriptPath)

		inv.ClearAssociations()
		inv.ReplaceContainers([]models.Container{{Name: "api"}})
		inv.ReplaceProjects(nil)
		inv.Associate()
		assert.Empty(t, inv.Containers[0].ScriptPath)
	})
}

func TestInventoryScriptByPath(t *testing.T) {
	inv := NewInventory("h")
	project := &models.Project{Name: "acme"}
	inv.ReplaceProjects([]*models.Project{project})
	script := &models.DeploymentScript{Path: "/srv/acme/start.sh"}
	inv.AddScript(project, script)

	found, ok := inv.ScriptByPath("/srv/acme/start.sh")
	require.True(t, ok)
	assert.Same(t, script, found)

	_, ok = inv.ScriptByPath("/nope.sh")
	assert.False(t, ok)
}

func TestInventoryAssociationsCopy(t *testing.T) {
	inv := NewInventory("h")
	inv.SetAssociation("api", "/a.sh")

	snapshot := inv.Associations()
	snapshot["api"] = "/tampered.sh"

	path, _ := inv.AssociationFor("api")
	assert.Equal(t, "/a.sh", path, "returned map is a copy")
}
