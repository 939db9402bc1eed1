// Copyright (C) 2026 Dockhand
// SPDX-License-Identifier: AGPL-3.0-or-later

package ssh

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"github.com/dockhand/dockhand/internal/config"
	"github.com/dockhand/dockhand/internal/models"
)

// Executor runs shell commands on one remote host over a persistent SSH
// connection. One executor serves one host session; each command gets its
// own session on the shared connection.
type Executor struct {
	host   models.Host
	cfg    config.SSHConfig
	log    zerolog.Logger
	client *ssh.Client
}

// NewExecutor prepares an executor for a host. No connection is made
// until Connect.
func NewExecutor(host models.Host, cfg config.SSHConfig, log zerolog.Logger) *Executor {
	return &Executor{host: host, cfg: cfg, log: log}
}

// Connect dials the host. Auth tries the host's identity files first,
// then the SSH agent.
func (e *Executor) Connect() error {
	clientConfig, err := e.buildClientConfig()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(e.host.Hostname, fmt.Sprintf("%d", e.host.EffectivePort()))
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", e.host.Alias, err)
	}
	e.client = client
	e.log.Info().Str("host", e.host.Alias).Str("addr", addr).Msg("ssh connection established")
	return nil
}

// Close tears down the connection.
func (e *Executor) Close() error {
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// Connected reports whether the executor holds a live connection.
func (e *Executor) Connected() bool {
	return e.client != nil
}

// Run executes a command and returns its combined output. Commands are
// optionally wrapped in a login-shell sudo for hosts where the login user
// is not in the docker group. The context bounds execution; on
// cancellation the session is torn down.
func (e *Executor) Run(ctx context.Context, command string) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("not connected to %s", e.host.Alias)
	}

	session, err := e.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	wrapped := wrapCommand(command, e.cfg.UseSudo)
	e.log.Debug().Str("host", e.host.Alias).Str("cmd", wrapped).Msg("running remote command")

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(wrapped)
		done <- result{out, err}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.CommandTimeout)
	defer cancel()

	select {
	case res := <-done:
		if res.err != nil {
			return string(res.output), fmt.Errorf("remote command failed: %w", res.err)
		}
		return string(res.output), nil
	case <-ctx.Done():
		// Closing the session unblocks the CombinedOutput goroutine.
		session.Close()
		return "", fmt.Errorf("remote command timed out: %w", ctx.Err())
	}
}

// wrapCommand wraps a command in `sudo -i` when requested. The login
// shell matters: deployment scripts rely on root's environment and the
// docker group membership.
func wrapCommand(command string, useSudo bool) string {
	if !useSudo {
		return command
	}
	return fmt.Sprintf("sudo -i sh -c %s", shellQuote(command))
}

// shellQuote single-quotes a string for safe interpolation into a remote
// shell command line.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// InteractiveShell hands the local terminal to a remote shell on the
// connected host. It returns when the remote shell exits.
func (e *Executor) InteractiveShell() error {
	if e.client == nil {
		return fmt.Errorf("not connected to %s", e.host.Alias)
	}

	session, err := e.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, oldState)

	w, h, err := term.GetSize(fd)
	if err != nil {
		w, h = 80, 24
	}
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm-256color", h, w, modes); err != nil {
		return fmt.Errorf("failed to request pty: %w", err)
	}

	session.Stdin = os.Stdin
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr

	if e.host.Shell != "" {
		return session.Run(e.host.Shell)
	}
	if err := session.Shell(); err != nil {
		return err
	}
	return session.Wait()
}

// buildClientConfig assembles auth methods from the host's identity
// files and the local SSH agent.
func (e *Executor) buildClientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	for _, path := range e.host.IdentityFiles {
		method, err := readPrivateKey(path)
		if err != nil {
			e.log.Warn().Err(err).Str("path", path).Msg("skipping identity file")
			continue
		}
		auth = append(auth, method)
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			auth = append(auth, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if len(auth) == 0 {
		return nil, fmt.Errorf("no usable auth for %s: no identity files and no ssh agent", e.host.Alias)
	}

	user := e.host.User
	if user == "" {
		user = os.Getenv("USER")
	}

	hostKeys, err := hostKeyCallback(e.cfg.KnownHostsPath)
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         e.cfg.ConnectTimeout,
	}, nil
}

// hostKeyCallback verifies host keys against the configured known_hosts
// file. Without one there is nothing to verify against: the TUI has no
// accept-new-key prompt flow, so verification is skipped and keys are
// trusted on first use by the plain `ssh` shell instead.
func hostKeyCallback(path string) (ssh.HostKeyCallback, error) {
	if path == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ssh.InsecureIgnoreHostKey(), nil
		}
		return nil, fmt.Errorf("known_hosts not readable: %w", err)
	}
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse known_hosts %s: %w", path, err)
	}
	return callback, nil
}

func readPrivateKey(path string) (ssh.AuthMethod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}
