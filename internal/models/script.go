// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"fmt"
	"strings"
)

// secretMarkers are matched case-insensitively against env var keys; a hit
// only affects display masking, never access control.
var secretMarkers = []string{"PASSWORD", "SECRET", "TOKEN", "KEY", "CREDENTIAL", "PRIVATE"}

// EnvVar is a single -e KEY=VALUE flag from a deployment script.
type EnvVar struct {
	Key      string
	Value    string
	IsSecret bool
}

// NewEnvVar builds an EnvVar, deriving IsSecret from the key.
func NewEnvVar(key, value string) EnvVar {
	return EnvVar{Key: key, Value: value, IsSecret: detectSecret(key)}
}

func detectSecret(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// DisplayValue masks secret values for rendering.
func (e EnvVar) DisplayValue() string {
	if e.IsSecret {
		return "••••••••••••"
	}
	return e.Value
}

// VolumeMount is a single -v HOST:CONTAINER[:ro] flag.
type VolumeMount struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// Display renders the mount for list views.
func (v VolumeMount) Display() string {
	ro := ""
	if v.ReadOnly {
		ro = ":ro"
	}
	return fmt.Sprintf("%s -> %s%s", v.HostPath, v.ContainerPath, ro)
}

// DeploymentScript is the structured view of a remote deployment script.
// RawContent is the source of truth for persistence; the structured fields
// are a derived view and are written back only through the patch engine,
// never by regenerating an existing script.
type DeploymentScript struct {
	Path          string
	ProjectName   string
	ContainerName string
	Repo          string
	EnvVars       []EnvVar
	Volumes       []VolumeMount
	Ports         []PortMapping
	Network       string
	RestartPolicy string
	RawContent    string
}

// NewDeploymentScript creates an empty script model for a path and project.
func NewDeploymentScript(path, projectName string) *DeploymentScript {
	return &DeploymentScript{Path: path, ProjectName: projectName}
}

// SetEnvVar updates an existing key in place or appends a new one.
func (s *DeploymentScript) SetEnvVar(key, value string) {
	for i := range s.EnvVars {
		if s.EnvVars[i].Key == key {
			s.EnvVars[i].Value = value
			return
		}
	}
	s.EnvVars = append(s.EnvVars, NewEnvVar(key, value))
}

// RemoveEnvVar drops a key from the structured view.
func (s *DeploymentScript) RemoveEnvVar(key string) {
	kept := s.EnvVars[:0]
	for _, e := range s.EnvVars {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	s.EnvVars = kept
}

// GetEnvVar looks up a key in the structured view.
func (s *DeploymentScript) GetEnvVar(key string) (EnvVar, bool) {
	for _, e := range s.EnvVars {
		if e.Key == key {
			return e, true
		}
	}
	return EnvVar{}, false
}

// Clone returns a deep copy for optimistic editing in the UI.
func (s *DeploymentScript) Clone() *DeploymentScript {
	cp := *s
	cp.EnvVars = append([]EnvVar(nil), s.EnvVars...)
	cp.Volumes = append([]VolumeMount(nil), s.Volumes...)
	cp.Ports = append([]PortMapping(nil), s.Ports...)
	return &cp
}

// Project is a remote project directory and the deployment scripts found
// under it. Projects are transient per discovery cycle.
type Project struct {
	Name    string
	Path    string
	Scripts []*DeploymentScript
}

// NewProject creates an empty project.
func NewProject(name, path string) *Project {
	return &Project{Name: name, Path: path}
}

// FindScriptForContainer returns the script whose container name matches.
func (p *Project) FindScriptForContainer(containerName string) (*DeploymentScript, bool) {
	for _, s := range p.Scripts {
		if s.ContainerName == containerName {
			return s, true
		}
	}
	return nil, false
}
