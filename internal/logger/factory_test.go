// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dockhand/dockhand/internal/config"
)

func TestStaticLoggerGetters(t *testing.T) {
	cfg := &config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{
			{Type: "console", Enabled: true},
		},
		Levels: map[string]string{
			"ssh":    "debug",
			"docker": "info",
			"tui":    "warn",
			"config": "info",
		},
		Context: config.LogContextConfig{IncludeTimestamp: true},
	}

	if err := Initialize(cfg); err != nil {
		t.Fatalf("failed to initialize global logger: %v", err)
	}
	defer CloseGlobal()

	tests := []struct {
		name       string
		getterFunc func() zerolog.Logger
	}{
		{"ssh_logger", GetSSHLogger},
		{"docker_logger", GetDockerLogger},
		{"tui_logger", GetTUILogger},
		{"config_logger", GetConfigLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := tt.getterFunc()
			logger.Info().Str("test", "value").Msg("info test")
			logger.Error().Msg("error test")

			// Repeated calls hit the cache and stay functional.
			logger2 := tt.getterFunc()
			logger2.Info().Msg("second logger test")
		})
	}
}

func TestStaticLoggerGetters_Uninitialized(t *testing.T) {
	originalManager := globalManager
	globalManager = nil
	defer func() {
		globalManager = originalManager
	}()

	for _, getter := range []func() zerolog.Logger{
		GetSSHLogger, GetDockerLogger, GetTUILogger, GetConfigLogger,
	} {
		logger := getter()
		// Discard logger: must not panic or write to the terminal.
		logger.Info().Msg("test message")
		logger.Error().Msg("error message")
	}
}
