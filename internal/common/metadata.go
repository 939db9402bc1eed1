// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package common provides shared types used across multiple packages.
package common

// Metadata contains common fields for all messages that cross the
// UI/session boundary. This includes Commands (UI → session) and Events
// (session → UI).
type Metadata struct {
	// HostAlias correlates a message with the host session it concerns.
	// Optional - only present for host-scoped commands/events.
	HostAlias string `json:"host_alias,omitempty"`

	// IdempotencyKey is used for event deduplication when a session
	// re-emits state after reconnects. Events without this key are
	// always processed.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// Version indicates the protocol version for backward compatibility.
	// Format: "v{major}.{minor}.{patch}" (e.g., "v1.0.0")
	Version string `json:"version"`
}

// CurrentProtocolVersion defines the current version of the protocol.
// This should be updated when making breaking changes to the protocol.
const CurrentProtocolVersion = "v1.0.0"

// Event represents events that can be sent from a host session to the
// TUI. Any type implementing this interface can be sent through the
// event channel.
type Event interface {
	GetMetadata() Metadata
}
