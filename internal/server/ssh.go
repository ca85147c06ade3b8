// Package server serves the desktop over SSH. Every connection gets its own
// desk, registry and bus; only the loaded config is shared.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/input"
	applog "github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/panels"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Config is shared by every session. Nil loads the user's config.
	Config *config.Config
}

// HostKeyPath returns the configured key path or ~/.ssh/tuidesk_host_key.
func (c *SSHServerConfig) HostKeyPath() (string, error) {
	if c.KeyPath != "" {
		return c.KeyPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "tuidesk_host_key"), nil
}

// StartSSHServer runs the SSH server until ctx is done.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	logger := applog.For("ssh")

	hostKeyPath, err := cfg.HostKeyPath()
	if err != nil {
		return err
	}
	if cfg.Config == nil {
		userConfig, err := config.LoadUserConfig()
		if err != nil {
			logger.Warn("failed to load config, using defaults", "err", err)
			userConfig = config.DefaultConfig()
		}
		cfg.Config = userConfig
	}

	h := &handler{cfg: cfg.Config}
	app.SetInputHandler(input.HandleInput)

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.MiddlewareWithProgramHandler(h.program),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("SSH server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("stopping SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("failed to stop SSH server: %w", err)
	}
	return nil
}

type handler struct {
	cfg *config.Config
}

// program builds a desk for one session. Sessions without a pty are
// refused since there is nothing to draw on.
func (h *handler) program(sess ssh.Session) *tea.Program {
	logger := applog.For("ssh")

	pty, _, active := sess.Pty()
	if !active {
		wish.Fatalln(sess, "tuidesk requires an interactive terminal (try ssh -t)")
		return nil
	}

	profile := SessionProfile(sess.Environ(), pty.Term)
	reg := registry.New(registry.WithLogger(logger))
	if err := panels.Register(reg, panels.Options{
		Profile:  profile,
		Disabled: h.cfg.Panels.IsDisabled,
	}); err != nil {
		logger.Error("failed to register panels", "err", err)
	}

	d := app.New(app.Options{
		Config:   h.cfg,
		Registry: reg,
		State:    state.NewMemory(),
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
		Logger:   logger.With("user", sess.User()),
	})

	opts := append(bubbletea.MakeOptions(sess),
		tea.WithFilter(input.FilterMouseMotion),
		tea.WithoutSignalHandler(),
	)
	p := tea.NewProgram(d, opts...)
	d.Attach(p.Send)

	go func() {
		<-sess.Context().Done()
		d.Close()
	}()

	logger.Info("session started", "user", sess.User(), "term", pty.Term, "profile", profile.String(),
		"width", pty.Window.Width, "height", pty.Window.Height)
	return p
}

// SessionProfile detects the color profile of a remote terminal from its
// environment and pty TERM.
func SessionProfile(environ []string, term string) colorprofile.Profile {
	env := append([]string{}, environ...)
	if term != "" {
		env = append(env, "TERM="+term)
	}
	return colorprofile.Env(env)
}
