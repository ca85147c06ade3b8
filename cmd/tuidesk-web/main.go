// Package main implements tuidesk-web, which serves the desktop to a
// browser through sip.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/input"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/panels"
	"github.com/Gaurav-Gosain/tuidesk/internal/registry"
	"github.com/Gaurav-Gosain/tuidesk/internal/state"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	webPort           string
	webHost           string
	webReadOnly       bool
	webMaxConnections int
	debugMode         bool
	themeName         string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuidesk-web",
		Short: "Serve tuidesk in the browser",
		Long: `tuidesk-web - Web server for tuidesk

Serves the desktop through the browser. Every tab gets its own desk with
the panels from your configuration. Powered by sip
(github.com/Gaurav-Gosain/sip).`,
		Example: `  # Start web server on default port (7681)
  tuidesk-web

  # Bind to all interfaces for remote access
  tuidesk-web --host 0.0.0.0

  # Start in read-only mode (view only)
  tuidesk-web --read-only`,
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWebServer(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&webPort, "port", "7681", "Web server port")
	rootCmd.Flags().StringVar(&webHost, "host", "localhost", "Web server host")
	rootCmd.Flags().BoolVar(&webReadOnly, "read-only", false, "Disable input from clients (view only)")
	rootCmd.Flags().IntVar(&webMaxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight)")

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func runWebServer(ctx context.Context) error {
	// Stdout is not the browser's terminal, so detection would strip colors.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	_ = os.Setenv("TERM", "xterm-256color")
	_ = os.Setenv("COLORTERM", "truecolor")

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		userConfig = config.DefaultConfig()
	}
	level := userConfig.Log.ParsedLevel()
	if debugMode {
		level = log.DebugLevel
	}
	if err := logging.Setup(userConfig.Log.File, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logging.Close()

	if themeName != "" {
		userConfig.Desk.Theme = themeName
	}
	if err := theme.Initialize(userConfig.Desk.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	app.SetInputHandler(input.HandleInput)
	h := &webHandler{cfg: userConfig}

	sipConfig := sip.DefaultConfig()
	sipConfig.Host = webHost
	sipConfig.Port = webPort
	sipConfig.ReadOnly = webReadOnly
	sipConfig.MaxConnections = webMaxConnections
	sipConfig.Debug = debugMode

	server := sip.NewServer(sipConfig)
	return server.Serve(ctx, h.session)
}

type webHandler struct {
	cfg *config.Config
}

// session creates a desk for one browser tab.
func (h *webHandler) session(sess sip.Session) (tea.Model, []tea.ProgramOption) {
	pty := sess.Pty()
	logger := logging.For("web")

	reg := registry.New(registry.WithLogger(logger))
	if err := panels.Register(reg, panels.Options{
		Profile:  colorprofile.TrueColor,
		Disabled: h.cfg.Panels.IsDisabled,
	}); err != nil {
		logger.Error("failed to register panels", "err", err)
	}

	d := app.New(app.Options{
		Config:   h.cfg,
		Registry: reg,
		State:    state.NewMemory(),
		Width:    pty.Width,
		Height:   pty.Height,
		Logger:   logger,
	})

	go func() {
		<-sess.Context().Done()
		d.Close()
		logger.Info("web session ended")
	}()

	logger.Info("web session started", "width", pty.Width, "height", pty.Height)

	return d, []tea.ProgramOption{
		tea.WithFilter(input.FilterMouseMotion),
	}
}
