// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package ssh

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/samber/lo"

	"github.com/dockhand/dockhand/internal/models"
)

// HostConfig is the host inventory backed by an OpenSSH client config
// file. Hosts are parsed into models.Host values, edited in memory and
// written back wholesale.
type HostConfig struct {
	Path  string
	Hosts []models.Host
}

// NewHostConfig creates an empty inventory for the given config path.
func NewHostConfig(path string) *HostConfig {
	return &HostConfig{Path: path}
}

// AddHost appends a new host to the inventory.
func (c *HostConfig) AddHost(host models.Host) {
	c.Hosts = append(c.Hosts, host)
}

// UpdateHost replaces the host at index.
func (c *HostConfig) UpdateHost(index int, host models.Host) error {
	if index < 0 || index >= len(c.Hosts) {
		return fmt.Errorf("host index %d out of bounds", index)
	}
	c.Hosts[index] = host
	return nil
}

// RemoveHost deletes and returns the host at index.
func (c *HostConfig) RemoveHost(index int) (models.Host, error) {
	if index < 0 || index >= len(c.Hosts) {
		return models.Host{}, fmt.Errorf("host index %d out of bounds", index)
	}
	host := c.Hosts[index]
	c.Hosts = append(c.Hosts[:index], c.Hosts[index+1:]...)
	return host, nil
}

// FindHost looks up a host by its alias.
func (c *HostConfig) FindHost(alias string) (models.Host, bool) {
	return lo.Find(c.Hosts, func(h models.Host) bool {
		return h.Alias == alias
	})
}

// HostExists reports whether a host alias is already taken.
func (c *HostConfig) HostExists(alias string) bool {
	_, ok := c.FindHost(alias)
	return ok
}

// LoadHostConfig parses an OpenSSH client config file into a HostConfig.
// A missing file is created empty so the first run works on a fresh
// machine.
func LoadHostConfig(path string) (*HostConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create ssh directory: %w", err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			return nil, fmt.Errorf("failed to create ssh config file: %w", err)
		}
		return NewHostConfig(path), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ssh config: %w", err)
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh config: %w", err)
	}

	return &HostConfig{Path: path, Hosts: hostsFromConfig(cfg)}, nil
}

// hostsFromConfig converts parsed config blocks into Host values.
// Wildcard patterns and blocks without a HostName are skipped: they are
// client defaults, not connectable hosts.
func hostsFromConfig(cfg *ssh_config.Config) []models.Host {
	var hosts []models.Host

	for _, block := range cfg.Hosts {
		alias := blockAlias(block)
		if alias == "" {
			continue
		}

		host := models.Host{Alias: alias}
		for _, node := range block.Nodes {
			kv, ok := node.(*ssh_config.KV)
			if !ok {
				continue
			}
			value := strings.Trim(kv.Value, `"`)
			switch strings.ToLower(kv.Key) {
			case "hostname":
				host.Hostname = value
			case "user":
				host.User = value
			case "port":
				if port, err := strconv.Atoi(value); err == nil {
					host.Port = port
				}
			case "identityfile":
				host.IdentityFiles = append(host.IdentityFiles, expandTilde(value))
			case "proxyjump":
				host.ProxyJump = value
			}
		}

		if host.Hostname == "" {
			continue
		}
		hosts = append(hosts, host)
	}

	return hosts
}

// blockAlias returns the single concrete alias of a Host block, or ""
// when the block only holds patterns.
func blockAlias(block *ssh_config.Host) string {
	for _, pattern := range block.Patterns {
		p := pattern.String()
		if strings.ContainsAny(p, "*?!") {
			continue
		}
		return p
	}
	return ""
}

// Save writes the inventory back to the config file with 0600
// permissions.
func (c *HostConfig) Save() error {
	var b strings.Builder
	b.WriteString("# SSH config managed by dockhand\n")
	b.WriteString("# Edit with caution or use dockhand to manage hosts\n\n")

	for _, host := range c.Hosts {
		writeHostBlock(&b, host)
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create ssh directory: %w", err)
	}
	if err := os.WriteFile(c.Path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write ssh config: %w", err)
	}
	return nil
}

func writeHostBlock(b *strings.Builder, host models.Host) {
	fmt.Fprintf(b, "Host %s\n", host.Alias)
	fmt.Fprintf(b, "  HostName %s\n", host.Hostname)

	if host.User != "" {
		fmt.Fprintf(b, "  User %s\n", host.User)
	}
	if host.Port != 0 {
		fmt.Fprintf(b, "  Port %d\n", host.Port)
	}
	for _, file := range host.IdentityFiles {
		fmt.Fprintf(b, "  IdentityFile %s\n", file)
	}
	if host.ProxyJump != "" {
		fmt.Fprintf(b, "  ProxyJump %s\n", host.ProxyJump)
	}

	b.WriteString("\n")
}

// expandTilde expands a leading ~/ to the home directory.
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// DefaultConfigPath returns ~/.ssh/config.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}
