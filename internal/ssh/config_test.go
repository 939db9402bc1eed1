// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package ssh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadHostConfig(t *testing.T) {
	t.Run("parses hosts with their directives", func(t *testing.T) {
		path := writeConfig(t, `
Host test-server
  HostName 192.168.1.1
  User ubuntu
  Port 2222

Host prod-db
  HostName 10.0.0.5
  User admin
`)

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Hosts, 2)

		assert.Equal(t, "test-server", cfg.Hosts[0].Alias)
		assert.Equal(t, "192.168.1.1", cfg.Hosts[0].Hostname)
		assert.Equal(t, "ubuntu", cfg.Hosts[0].User)
		assert.Equal(t, 2222, cfg.Hosts[0].Port)

		assert.Equal(t, "prod-db", cfg.Hosts[1].Alias)
		assert.Equal(t, 0, cfg.Hosts[1].Port)
		assert.Equal(t, 22, cfg.Hosts[1].EffectivePort())
	})

	t.Run("collects multiple identity files", func(t *testing.T) {
		path := writeConfig(t, `
Host github
  HostName github.com
  User git
  IdentityFile /keys/id_rsa
  IdentityFile /keys/id_ed25519
`)

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Hosts, 1)
		assert.Equal(t, []string{"/keys/id_rsa", "/keys/id_ed25519"}, cfg.Hosts[0].IdentityFiles)
	})

	t.Run("expands tilde in identity files", func(t *testing.T) {
		path := writeConfig(t, "Host h\n  HostName 1.2.3.4\n  IdentityFile ~/.ssh/id_rsa\n")

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		require.Len(t, cfg.Hosts, 1)
		assert.Equal(t, []string{filepath.Join(home, ".ssh", "id_rsa")}, cfg.Hosts[0].IdentityFiles)
	})

	t.Run("parses proxy jump", func(t *testing.T) {
		path := writeConfig(t, "Host internal\n  HostName 10.0.0.1\n  ProxyJump bastion\n")

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Hosts, 1)
		assert.Equal(t, "bastion", cfg.Hosts[0].ProxyJump)
	})

	t.Run("skips wildcard blocks and incomplete entries", func(t *testing.T) {
		path := writeConfig(t, `
Host *
  ServerAliveInterval 60

Host nameless

Host test
  HostName 192.168.1.1
`)

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Hosts, 1)
		assert.Equal(t, "test", cfg.Hosts[0].Alias)
	})

	t.Run("creates a missing config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".ssh", "config")

		cfg, err := LoadHostConfig(path)
		require.NoError(t, err)
		assert.Empty(t, cfg.Hosts)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestHostConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	cfg := NewHostConfig(path)
	cfg.AddHost(models.Host{
		Alias:         "test",
		Hostname:      "192.168.1.1",
		User:          "ubuntu",
		Port:          2222,
		IdentityFiles: []string{"/keys/id_rsa"},
		ProxyJump:     "bastion",
	})
	cfg.AddHost(models.Host{Alias: "minimal", Hostname: "10.0.0.1"})

	require.NoError(t, cfg.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Host test\n")
	assert.Contains(t, text, "  HostName 192.168.1.1\n")
	assert.Contains(t, text, "  User ubuntu\n")
	assert.Contains(t, text, "  Port 2222\n")
	assert.Contains(t, text, "  IdentityFile /keys/id_rsa\n")
	assert.Contains(t, text, "  ProxyJump bastion\n")
	assert.Contains(t, text, "Host minimal\n")
	assert.NotContains(t, text, "Port 0")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Run("saved config loads back", func(t *testing.T) {
		reloaded, err := LoadHostConfig(path)
		require.NoError(t, err)
		require.Len(t, reloaded.Hosts, 2)
		assert.Equal(t, cfg.Hosts[0], reloaded.Hosts[0])
		assert.Equal(t, cfg.Hosts[1], reloaded.Hosts[1])
	})
}

func TestHostConfigEditing(t *testing.T) {
	cfg := NewHostConfig("/dev/null")
	cfg.AddHost(models.Host{Alias: "a", Hostname: "1.1.1.1"})
	cfg.AddHost(models.Host{Alias: "b", Hostname: "2.2.2.2"})

	t.Run("find and exists", func(t *testing.T) {
		host, ok := cfg.FindHost("b")
		require.True(t, ok)
		assert.Equal(t, "2.2.2.2", host.Hostname)
		assert.True(t, cfg.HostExists("a"))
		assert.False(t, cfg.HostExists("c"))
	})

	t.Run("update in place", func(t *testing.T) {
		require.NoError(t, cfg.UpdateHost(0, models.Host{Alias: "a", Hostname: "9.9.9.9"}))
		host, _ := cfg.FindHost("a")
		assert.Equal(t, "9.9.9.9", host.Hostname)

		assert.Error(t, cfg.UpdateHost(5, models.Host{}))
	})

	t.Run("remove shifts the list", func(t *testing.T) {
		removed, err := cfg.RemoveHost(0)
		require.NoError(t, err)
		assert.Equal(t, "a", removed.Alias)
		require.Len(t, cfg.Hosts, 1)
		assert.Equal(t, "b", cfg.Hosts[0].Alias)

		_, err = cfg.RemoveHost(7)
		assert.Error(t, err)
	})
}
