package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/bus"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/control"
	"github.com/Gaurav-Gosain/tuidesk/internal/input"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/panels"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/server"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// loadConfig loads the user's config and points logging at its log file.
func loadConfig() *config.Config {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		userConfig = config.DefaultConfig()
	}
	level := userConfig.Log.ParsedLevel()
	if debugMode {
		level = log.DebugLevel
	}
	if err := logging.Setup(userConfig.Log.File, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if themeName != "" {
		userConfig.Desk.Theme = themeName
	}
	if err := theme.Initialize(userConfig.Desk.Theme); err != nil {
		logging.For("main").Warn("theme", "err", err)
	}
	return userConfig
}

func openState(ctx context.Context, logger *log.Logger) (state.KV, func()) {
	path, err := state.DefaultPath()
	if err == nil {
		var st *state.Store
		if st, err = state.Open(ctx, path); err == nil {
			return st, func() { _ = st.Close() }
		}
	}
	logger.Warn("state database unavailable, preferences will not persist", "err", err)
	return state.NewMemory(), func() {}
}

func runLocal(ctx context.Context) error {
	userConfig := loadConfig()
	defer logging.Close()
	logger := logging.For("main")

	configPath, _ := config.GetConfigPath()
	logger.Info("starting tuidesk", "version", version, "config", configPath)

	kv, closeState := openState(ctx, logger)
	defer closeState()

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	reg := registry.New(registry.WithLogger(logging.For("registry")))
	if err := panels.Register(reg, panels.Options{
		Profile:  profile,
		Disabled: userConfig.Panels.IsDisabled,
	}); err != nil {
		return err
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 0, 0
	}

	b := bus.New(bus.WithLogger(logging.For("bus")))
	app.SetInputHandler(input.HandleInput)
	d := app.New(app.Options{
		Config:   userConfig,
		Registry: reg,
		Bus:      b,
		State:    kv,
		Width:    width,
		Height:   height,
	})
	defer d.Close()

	p := tea.NewProgram(
		d,
		tea.WithoutSignalHandler(),
		tea.WithFilter(input.FilterMouseMotion),
	)
	d.Attach(p.Send)

	if !noSocket {
		if sock, err := control.SocketPath(); err != nil {
			logger.Warn("no control socket", "err", err)
		} else {
			srv := control.NewServer(sock, b, d.Status)
			if err := srv.Start(); err != nil {
				logger.Warn("control socket disabled", "err", err)
			} else {
				defer func() { _ = srv.Stop() }()
			}
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if configPath != "" {
		go func() {
			err := config.Watch(runCtx, configPath, func(cfg *config.Config) {
				p.Send(app.ConfigMsg{Config: cfg})
			})
			if err != nil {
				logger.Warn("config reload disabled", "err", err)
			}
		}()
	}
	go func() {
		<-runCtx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSSHServer(ctx context.Context, host, port, keyPath string) error {
	userConfig := loadConfig()
	defer logging.Close()

	logging.For("main").Info("starting tuidesk SSH server", "host", host, "port", port)
	return server.StartSSHServer(ctx, &server.SSHServerConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Config:  userConfig,
	})
}
