// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration. It is instantiated by
// NewConfig() and passed to the components that need it.
type AppConfig struct {
	SSH   SSHConfig   `mapstructure:"ssh"`
	Paths PathsConfig `mapstructure:"paths"`
	Rsync RsyncConfig `mapstructure:"rsync"`
	Log   LogConfig   `mapstructure:"log"`
	UI    UIConfig    `mapstructure:"ui"`
}

// SSHConfig controls how hosts are read from and written to the OpenSSH
// client configuration, and how remote commands are executed.
type SSHConfig struct {
	ConfigPath     string        `mapstructure:"config_path"`
	KnownHostsPath string        `mapstructure:"known_hosts_path"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	// UseSudo wraps remote docker commands in `sudo -i` for hosts where
	// the login user is not in the docker group.
	UseSudo bool `mapstructure:"use_sudo"`
}

// PathsConfig holds the filesystem locations the tool reads and writes.
type PathsConfig struct {
	// ClientsPath is the remote directory whose immediate subdirectories
	// are treated as projects during discovery.
	ClientsPath string `mapstructure:"clients_path"`
	// MetadataPath is the local YAML sidecar holding per-host notes,
	// tags and container-to-script associations.
	MetadataPath string `mapstructure:"metadata_path"`
}

// RsyncConfig holds defaults for file transfer invocations.
type RsyncConfig struct {
	Flags       []string `mapstructure:"flags"`
	DefaultDest string   `mapstructure:"default_dest"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	MouseEnabled bool `mapstructure:"mouse_enabled"`
	// MaskSecrets hides env var values whose keys look credential-like
	// until explicitly revealed.
	MaskSecrets bool `mapstructure:"mask_secrets"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level   string            `mapstructure:"level"`
	Format  string            `mapstructure:"format"`
	Output  []LogOutputConfig `mapstructure:"output"`
	Levels  map[string]string `mapstructure:"levels"`
	Context LogContextConfig  `mapstructure:"context"`
}

// LogOutputConfig defines where logs are written.
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file" or "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`
	Rotate  LogRotateConfig `mapstructure:"rotate"`
}

// LogRotateConfig defines log rotation settings.
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// LogContextConfig defines what context to include in log entries.
type LogContextConfig struct {
	IncludeCaller    bool `mapstructure:"include_caller"`
	IncludeTimestamp bool `mapstructure:"include_timestamp"`
}

// NewConfig creates a new AppConfig by reading from a file, environment
// variables, and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dockhand")
		v.AddConfigPath("$HOME/.dockhand")
		v.AddConfigPath("/etc/dockhand/")
	}

	v.SetEnvPrefix("DOCKHAND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; all settings have usable defaults.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns an AppConfig with default values. This is more
// type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		SSH: SSHConfig{
			ConfigPath:     "~/.ssh/config",
			KnownHostsPath: "~/.ssh/known_hosts",
			ConnectTimeout: 10 * time.Second,
			CommandTimeout: 30 * time.Second,
			UseSudo:        true,
		},
		Paths: PathsConfig{
			ClientsPath:  "~/clients",
			MetadataPath: "~/.config/dockhand/metadata.yaml",
		},
		Rsync: RsyncConfig{
			Flags: []string{"-avz", "--progress"},
		},
		UI: UIConfig{
			MouseEnabled: true,
			MaskSecrets:  true,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "~/.config/dockhand/dockhand.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  20,
						MaxBackups: 3,
						MaxAgeDays: 30,
						Compress:   true,
					},
				},
				{
					// Console output corrupts the TUI; off by default.
					Type:    "console",
					Enabled: false,
				},
			},
			Levels: map[string]string{
				"ssh":    "INFO",
				"docker": "INFO",
				"tui":    "WARN",
				"config": "INFO",
			},
			Context: LogContextConfig{
				IncludeCaller:    false,
				IncludeTimestamp: true,
			},
		},
	}
}

// expandPaths expands ~ and environment variables in path settings.
func (c *AppConfig) expandPaths() {
	c.SSH.ConfigPath = expandPath(c.SSH.ConfigPath)
	c.SSH.KnownHostsPath = expandPath(c.SSH.KnownHostsPath)
	c.Paths.MetadataPath = expandPath(c.Paths.MetadataPath)
	for i := range c.Log.Output {
		c.Log.Output[i].Path = expandPath(c.Log.Output[i].Path)
	}
	// ClientsPath is remote; ~ expansion happens on the target host.
}

// expandPath expands a leading ~ to the home directory and then any
// environment variables.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	if c.SSH.ConfigPath == "" {
		return errors.New("ssh.config_path is required")
	}
	if c.Paths.ClientsPath == "" {
		return errors.New("paths.clients_path is required")
	}
	if c.Paths.MetadataPath == "" {
		return errors.New("paths.metadata_path is required")
	}

	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.SSH.ConnectTimeout <= 0 {
		return fmt.Errorf("ssh.connect_timeout must be positive, got %s", c.SSH.ConnectTimeout)
	}
	if c.SSH.CommandTimeout <= 0 {
		return fmt.Errorf("ssh.command_timeout must be positive, got %s", c.SSH.CommandTimeout)
	}

	return nil
}
