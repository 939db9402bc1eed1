// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/docker"
	"github.com/dockhand/dockhand/internal/logger"
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
	"github.com/dockhand/dockhand/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to the standard search paths)")
	flag.Parse()

	// Load configuration
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		// Only log to stderr on critical startup errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize the logging system
	if err := logger.Initialize(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseGlobal()

	mainLog := logger.GetLogger("main")
	mainLog.Info().Msg("Starting dockhand")

	// Load the host inventory and its metadata sidecar
	store, err := ssh.LoadHostConfig(cfg.SSH.ConfigPath)
	if err != nil {
		mainLog.Error().Err(err).Msg("Error loading ssh config")
		fmt.Fprintf(os.Stderr, "Error loading ssh config: %v\n", err)
		os.Exit(1)
	}

	meta, err := ssh.LoadMetadata(cfg.Paths.MetadataPath)
	if err != nil {
		mainLog.Error().Err(err).Msg("Error loading host metadata")
		fmt.Fprintf(os.Stderr, "Error loading host metadata: %v\n", err)
		os.Exit(1)
	}
	meta.MergeIntoHosts(store.Hosts)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create channels for communication between the TUI and the host session
	cmdChan := make(chan protocol.Command, 100)
	eventChan := make(chan protocol.Event, 100)

	// Start the host session worker in the background
	session := docker.NewSession(*cfg, meta, func(host models.Host) docker.CommandRunner {
		return ssh.NewExecutor(host, cfg.SSH, logger.GetSSHLogger())
	}, eventChan, logger.GetDockerLogger())

	go func() {
		mainLog.Info().Msg("Starting host session worker")
		session.Run(ctx, cmdChan)
		mainLog.Info().Msg("Host session worker stopped")
	}()

	// Handle OS signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start TUI in background
	tuiErrChan := make(chan error, 1)
	go func() {
		mainLog.Info().Msg("Starting TUI")
		tuiErrChan <- tui.StartTUI(*cfg, store, meta, cmdChan, eventChan)
	}()

	// Wait for either signal or TUI to exit
	select {
	case sig := <-sigChan:
		mainLog.Info().Msgf("Received signal %v, shutting down...", sig)
		cancel()
	case err := <-tuiErrChan:
		if err != nil {
			mainLog.Error().Err(err).Msg("Error running TUI")
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		}
		cancel()
	}

	mainLog.Info().Msg("Application shutting down")
}
