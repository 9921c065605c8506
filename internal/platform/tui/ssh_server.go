package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/cognify-quest/internal/core"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.cognify/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer hosts one puzzle session per SSH connection. Each SSH user
// name maps to its own stored profile.
type SSHServer struct {
	config SSHServerConfig
	deps   Deps
	server *ssh.Server
	logger *log.Logger

	mu     sync.Mutex
	active map[string]bool // users with a live session
}

// NewSSHServer creates a new SSH server. deps are shared by every
// session; the caller keeps ownership of the store and syncer.
func NewSSHServer(cfg SSHServerConfig, deps Deps) (*SSHServer, error) {
	logger := deps.logger().WithPrefix("cognify-ssh")
	deps.Logger = logger

	srv := &SSHServer{
		config: cfg,
		deps:   deps,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".cognify", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.singleSessionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates an app for each SSH session. The user's claim is
// released once the app has saved and closed.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	user := sshSession.User()
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", user)
		s.release(user)
		return nil, nil
	}

	prof, err := LoadProfile(s.deps, user)
	if err != nil {
		s.logger.Error("cannot load profile", "user", user, "err", err)
		s.release(user)
		return nil, nil
	}

	deps := s.deps
	deps.Logger = s.logger.With("user", sshSession.User())
	app := NewApp(deps, prof)

	go func() {
		<-sshSession.Context().Done()
		app.Close()
		s.release(user)
	}()

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Seed:    deps.Seed,
	}
	return app.Model(cfg), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// claim marks user as playing. It returns false when the user already
// has a live session.
func (s *SSHServer) claim(user string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		s.active = make(map[string]bool)
	}
	if s.active[user] {
		return false
	}
	s.active[user] = true
	return true
}

func (s *SSHServer) release(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, user)
}

// singleSessionMiddleware turns away a second concurrent login for the
// same user. Both sessions would otherwise write the same profile.
// teaHandler releases the claim.
func (s *SSHServer) singleSessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		user := sshSession.User()
		if !s.claim(user) {
			s.logger.Warn("rejected duplicate session", "user", user)
			wish.Fatalln(sshSession, "You are already playing as "+user+" in another session.")
			return
		}
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
