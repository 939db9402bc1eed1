// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package docker

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/models"
	"github.com/dockhand/dockhand/internal/protocol"
	"github.com/dockhand/dockhand/internal/ssh"
)

type fakeRunner struct {
	mu         sync.Mutex
	connectErr error
	responses  map[string]string
	errors     map[string]error
	panicOn    string
	ran        []string
	closed     bool
}

func (f *fakeRunner) Connect() error { return f.connectErr }

func (f *fakeRunner) Run(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicOn != "" && command == f.panicOn {
		panic("runner wedged on " + command)
	}
	f.ran = append(f.ran, command)
	if err, ok := f.errors[command]; ok {
		return "", err
	}
	return f.responses[command], nil
}

func (f *fakeRunner) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ran...)
}

func (f *fakeRunner) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type sessionHarness struct {
	runner       *fakeRunner
	commands     chan protocol.Command
	events       chan protocol.Event
	metadataPath string
	done         chan struct{}
}

func startSession(t *testing.T, runner *fakeRunner) *sessionHarness {
	t.Helper()

	metadataPath := filepath.Join(t.TempDir(), "metadata.yaml")
	cfg := config.AppConfig{
		Paths: config.PathsConfig{
			ClientsPath:  "~/clients",
			MetadataPath: metadataPath,
		},
	}

	h := &sessionHarness{
		runner:       runner,
		commands:     make(chan protocol.Command),
		events:       make(chan protocol.Event, 128),
		metadataPath: metadataPath,
		done:         make(chan struct{}),
	}

	session := NewSession(cfg, ssh.NewMetadata(), func(models.Host) CommandRunner {
		return runner
	}, h.events, zerolog.Nop())

	go func() {
		session.Run(context.Background(), h.commands)
		close(h.done)
	}()
	t.Cleanup(h.stop)

	return h
}

func (h *sessionHarness) stop() {
	select {
	case <-h.done:
	default:
		close(h.commands)
		<-h.done
	}
}

func (h *sessionHarness) send(t *testing.T, cmd protocol.Command) {
	t.Helper()
	select {
	case h.commands <- cmd:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out sending command")
	}
}

func (h *sessionHarness) waitFor(t *testing.T, match func(protocol.Event) bool) protocol.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-h.events:
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

// discoveryResponses wires a one-project, one-script host. The project path
// mirrors what the project listing parser derives from the clients path.
func discoveryResponses() map[string]string {
	projectPath := "$HOME/clients/acme"
	scriptPath := projectPath + "/start.sh"
	return map[string]string{
		PsCommand(true):                  "abc123|api|registry.example.com/acme/api:latest|Up 2 hours|0.0.0.0:8080->8080/tcp",
		ListProjectsCommand("~/clients"): "acme\n",
		FindScriptsCommand(projectPath):  scriptPath + "\n",
		ReadScriptCommand(scriptPath):    sampleScript,
	}
}

func connectHost(t *testing.T, h *sessionHarness) {
	t.Helper()
	h.send(t, protocol.ConnectHostCommand{Host: models.Host{Alias: "prod-1", Hostname: "prod-1.example.com"}})
	h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.HostConnectedEvent)
		return ok
	})
}

func TestSessionConnectRunsDiscovery(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)

	connectHost(t, h)

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		inv, ok := ev.(protocol.InventoryUpdatedEvent)
		return ok && len(inv.Containers) == 1 && len(inv.Scripts) == 1
	}).(protocol.InventoryUpdatedEvent)

	require.Equal(t, "api", ev.Containers[0].Name)
	assert.Equal(t, "$HOME/clients/acme/start.sh", ev.Containers[0].ScriptPath,
		"container should auto-associate with the script declaring its name")
	require.Len(t, ev.Projects, 1)
	assert.Equal(t, "acme", ev.Projects[0].Name)
	assert.Equal(t, "api", ev.Scripts[0].ContainerName)
	assert.Equal(t, "prod-1", ev.GetMetadata().HostAlias)
}

func TestSessionConnectFailure(t *testing.T) {
	runner := &fakeRunner{connectErr: assert.AnError}
	h := startSession(t, runner)

	h.send(t, protocol.ConnectHostCommand{Host: models.Host{Alias: "prod-1"}})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ErrorEvent)
		return ok
	}).(protocol.ErrorEvent)
	assert.Equal(t, "Connection failed", ev.Message)
}

func TestSessionRejectsCommandsWhenDisconnected(t *testing.T) {
	h := startSession(t, &fakeRunner{})

	h.send(t, protocol.RefreshInventoryCommand{})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ErrorEvent)
		return ok
	}).(protocol.ErrorEvent)
	assert.Equal(t, "Not connected", ev.Message)
}

func TestSessionContainerAction(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)

	h.send(t, protocol.ContainerActionCommand{Action: protocol.ActionRestart, ContainerName: "api"})

	h.waitFor(t, func(ev protocol.Event) bool {
		st, ok := ev.(protocol.StatusEvent)
		return ok && st.Message == "restart api done"
	})
	// The action triggers a container refresh behind it.
	h.waitFor(t, func(ev protocol.Event) bool {
		st, ok := ev.(protocol.StatusEvent)
		return ok && strings.HasPrefix(st.Message, "Found ")
	})
	assert.Contains(t, runner.commands(), RestartCommand("api"))
}

func TestSessionContainerActionFailure(t *testing.T) {
	runner := &fakeRunner{
		responses: discoveryResponses(),
		errors:    map[string]error{StopCommand("api"): assert.AnError},
	}
	h := startSession(t, runner)
	connectHost(t, h)

	h.send(t, protocol.ContainerActionCommand{Action: protocol.ActionStop, ContainerName: "api"})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ErrorEvent)
		return ok
	}).(protocol.ErrorEvent)
	assert.Equal(t, "stop api failed", ev.Message)
}

func TestSessionFetchLogs(t *testing.T) {
	responses := discoveryResponses()
	responses[LogsCommand("api", 200, false)] = "line one\nline two\n"
	runner := &fakeRunner{responses: responses}
	h := startSession(t, runner)
	connectHost(t, h)

	h.send(t, protocol.FetchLogsCommand{ContainerName: "api", Tail: 200})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ContainerLogsEvent)
		return ok
	}).(protocol.ContainerLogsEvent)
	assert.Equal(t, "api", ev.ContainerName)
	assert.Equal(t, "line one\nline two\n", ev.Text)
}

func TestSessionSaveScriptNoChanges(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)

	script := ParseScript(sampleScript, "/srv/acme/start.sh", "acme")
	require.NotNil(t, script)
	original := append([]models.EnvVar(nil), script.EnvVars...)

	h.send(t, protocol.SaveScriptCommand{Script: script, OriginalEnvVars: original})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ScriptSavedEvent)
		return ok
	}).(protocol.ScriptSavedEvent)
	assert.False(t, ev.Changed)

	for _, cmd := range runner.commands() {
		assert.NotContains(t, cmd, "DOCKHAND_SCRIPT_EOF", "no write should reach the host")
	}
}

func TestSessionSaveScriptPatchesAndWrites(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)

	script := ParseScript(sampleScript, "/srv/acme/start.sh", "acme")
	require.NotNil(t, script)
	original := append([]models.EnvVar(nil), script.EnvVars...)
	script.SetEnvVar("NODE_ENV", "staging")

	h.send(t, protocol.SaveScriptCommand{Script: script, OriginalEnvVars: original})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.ScriptSavedEvent)
		return ok
	}).(protocol.ScriptSavedEvent)
	assert.True(t, ev.Changed)
	assert.Equal(t, "/srv/acme/start.sh", ev.Path)

	// The queued write lands on the host with the patched content.
	h.waitFor(t, func(ev protocol.Event) bool {
		st, ok := ev.(protocol.StatusEvent)
		return ok && st.Message == "Saved /srv/acme/start.sh"
	})
	var wrote bool
	for _, cmd := range runner.commands() {
		if strings.HasPrefix(cmd, "cat > '/srv/acme/start.sh'") {
			wrote = true
			assert.Contains(t, cmd, "NODE_ENV=staging")
		}
	}
	assert.True(t, wrote)
}

func TestSessionAssociatePersistsMetadata(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)
	h.waitFor(t, func(ev protocol.Event) bool {
		inv, ok := ev.(protocol.InventoryUpdatedEvent)
		return ok && len(inv.Containers) == 1
	})

	h.send(t, protocol.AssociateScriptCommand{ContainerName: "api", ScriptPath: "/srv/other/deploy.sh"})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		inv, ok := ev.(protocol.InventoryUpdatedEvent)
		return ok && len(inv.Containers) == 1 && inv.Containers[0].ScriptPath == "/srv/other/deploy.sh"
	}).(protocol.InventoryUpdatedEvent)
	assert.Equal(t, "api", ev.Containers[0].Name)

	saved, err := ssh.LoadMetadata(h.metadataPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/other/deploy.sh", saved.AssociationsFor("prod-1")["api"])
}

func TestSessionDisconnect(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)

	h.send(t, protocol.DisconnectCommand{})

	h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.HostDisconnectedEvent)
		return ok
	})
	assert.True(t, runner.isClosed())

	// The session stamps last-used on connect and persists it.
	saved, err := ssh.LoadMetadata(h.metadataPath)
	require.NoError(t, err)
	meta, ok := saved.Get("prod-1")
	require.True(t, ok)
	assert.NotNil(t, meta.LastUsed)
}

func TestSessionEventsCarryIdempotencyKeys(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses()}
	h := startSession(t, runner)
	connectHost(t, h)

	inv := h.waitFor(t, func(ev protocol.Event) bool {
		e, ok := ev.(protocol.InventoryUpdatedEvent)
		return ok && len(e.Containers) == 1
	})
	status := h.waitFor(t, func(ev protocol.Event) bool {
		st, ok := ev.(protocol.StatusEvent)
		return ok && strings.HasPrefix(st.Message, "Found ")
	})

	invKey := inv.GetMetadata().IdempotencyKey
	statusKey := status.GetMetadata().IdempotencyKey
	require.NotEmpty(t, invKey)
	require.NotEmpty(t, statusKey)

	// Both events came out of the same container listing, so they share
	// its correlation ID but must not collide with each other.
	assert.NotEqual(t, invKey, statusKey)
	invID := strings.SplitN(invKey, ":", 2)[1]
	statusID := strings.SplitN(statusKey, ":", 2)[1]
	assert.Equal(t, invID, statusID)

	// A refresh is new work under a new ID, never deduplicated away.
	h.send(t, protocol.RefreshInventoryCommand{})
	refreshed := h.waitFor(t, func(ev protocol.Event) bool {
		e, ok := ev.(protocol.InventoryUpdatedEvent)
		return ok && len(e.Containers) == 1
	})
	assert.NotEqual(t, invKey, refreshed.GetMetadata().IdempotencyKey)
}

func TestSessionPanicEmitsCriticalError(t *testing.T) {
	runner := &fakeRunner{responses: discoveryResponses(), panicOn: PsCommand(true)}
	h := startSession(t, runner)

	h.send(t, protocol.ConnectHostCommand{Host: models.Host{Alias: "prod-1"}})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.CriticalErrorEvent)
		return ok
	}).(protocol.CriticalErrorEvent)
	assert.Equal(t, "Host session failed", ev.Message)
	assert.Contains(t, ev.Context, "runner wedged")

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("session goroutine should exit after a panic")
	}
}

func TestSessionListDirectory(t *testing.T) {
	responses := discoveryResponses()
	responses[ListDirectoryCommand("/srv")] = "drwxr-xr-x 2 root root 4096 Jan  1 10:00 acme\n-rw-r--r-- 1 root root  120 Jan  1 10:00 notes.txt\n"
	runner := &fakeRunner{responses: responses}
	h := startSession(t, runner)
	connectHost(t, h)

	h.send(t, protocol.ListDirectoryCommand{Path: "/srv", ViaRsync: true})

	ev := h.waitFor(t, func(ev protocol.Event) bool {
		_, ok := ev.(protocol.DirectoryListedEvent)
		return ok
	}).(protocol.DirectoryListedEvent)
	assert.Equal(t, "/srv", ev.Path)
	assert.True(t, ev.ViaRsync)
	require.Len(t, ev.Entries, 3) // parent entry plus two rows
}
