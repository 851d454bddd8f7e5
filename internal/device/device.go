// Package device owns the command-line session to the managed switch.
// One Manager per device; Connect/Close pairs are serialized so two
// orchestration calls can never interleave command sequences.
package device

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"vlanman/internal/logs"

	"golang.org/x/crypto/ssh"
)

// Connect failure kinds. Callers distinguish them with errors.Is so
// upstream code can decide whether a retry makes sense.
var (
	ErrConnectTimeout = errors.New("connection timeout")
	ErrAuthFailed     = errors.New("authentication failed - check credentials")
)

// ConnectError wraps a failed transport/authentication handshake.
type ConnectError struct {
	Host string
	Err  error // ErrConnectTimeout, ErrAuthFailed, or the raw dial error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Host, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Config describes the managed device. Immutable after construction.
type Config struct {
	Platform string // e.g. "cisco_nxos"
	Host     string
	Username string
	Password string
	Port     int
	Timeout  time.Duration
}

// Conn is one open session. Close is idempotent.
type Conn interface {
	RunConfigCommands(commands []string) (string, error)
	RunShowCommand(command string) (string, error)
	SaveConfig() error
	Close() error
}

// Dialer opens sessions. Satisfied by *Manager; the orchestrator takes
// this interface so tests substitute a fake.
type Dialer interface {
	Connect(ctx context.Context) (Conn, error)
}

// Manager holds the device config and the per-device lock. It keeps no
// state beyond connected / not connected; every orchestration call does
// its own Connect/Close pair.
type Manager struct {
	cfg Config
	mu  sync.Mutex // held from Connect until Session.Close
}

func NewManager(cfg Config) *Manager {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Manager{cfg: cfg}
}

func (m *Manager) Host() string     { return m.cfg.Host }
func (m *Manager) Platform() string { return m.cfg.Platform }

// Connect dials and authenticates. The device lock is taken here and
// released by Session.Close, so callers must Close on every exit path.
func (m *Manager) Connect(ctx context.Context) (Conn, error) {
	m.mu.Lock()

	sshCfg := &ssh.ClientConfig{
		User: m.cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(m.cfg.Password),
		},
		// Lab device management network; host keys are not pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         m.cfg.Timeout,
	}

	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprintf("%d", m.cfg.Port))
	logs.Logger.Infof("connecting to %s...", addr)

	type dialResult struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialResult, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialResult{c, err}
	}()

	var client *ssh.Client
	select {
	case <-ctx.Done():
		go func() { // reap the dial when it finishes
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		m.mu.Unlock()
		return nil, &ConnectError{Host: m.cfg.Host, Err: ErrConnectTimeout}
	case r := <-ch:
		if r.err != nil {
			m.mu.Unlock()
			return nil, &ConnectError{Host: m.cfg.Host, Err: classifyDialError(r.err)}
		}
		client = r.client
	}

	logs.Logger.Infof("connected to %s", m.cfg.Host)
	return &Session{client: client, release: m.mu.Unlock}, nil
}

func classifyDialError(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ErrConnectTimeout
	}
	if strings.Contains(err.Error(), "unable to authenticate") {
		return ErrAuthFailed
	}
	return err
}

// Session is one authenticated channel to the device.
type Session struct {
	client  *ssh.Client
	release func()

	closeOnce sync.Once
}

// RunConfigCommands enters configuration mode, sends the ordered
// commands, and exits. No rollback on mid-sequence failure: the caller
// must treat the whole operation as failed and not assume device state.
func (s *Session) RunConfigCommands(commands []string) (string, error) {
	return s.exec(configScript(commands))
}

// configScript wraps the ordered commands in configuration mode.
func configScript(commands []string) string {
	script := make([]string, 0, len(commands)+2)
	script = append(script, "configure terminal")
	script = append(script, commands...)
	script = append(script, "end")
	return strings.Join(script, "\n")
}

// RunShowCommand runs one read-only command.
func (s *Session) RunShowCommand(command string) (string, error) {
	return s.exec(command)
}

// SaveConfig persists the running configuration. A failure here leaves
// the already-applied change in place; callers log it and move on.
func (s *Session) SaveConfig() error {
	logs.Logger.Info("saving configuration...")
	_, err := s.exec("copy running-config startup-config")
	return err
}

// Close releases the transport and the device lock. Calling it on an
// already-closed session is a no-op.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.client != nil {
			_ = s.client.Close()
		}
		s.release()
		logs.Logger.Info("disconnected")
	})
	return nil
}

// exec runs one command string in a fresh exec session (stateless per
// call, like the rest of the SSH usage here).
func (s *Session) exec(cmd string) (string, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("ssh session: %w", err)
	}
	defer sess.Close()

	out, err := sess.CombinedOutput(cmd)
	if err != nil {
		return string(out), fmt.Errorf("ssh exec %q: %w", firstLine(cmd), err)
	}
	return string(out), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
