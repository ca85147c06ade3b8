// Package main implements tuidesk, a terminal desktop of draggable panel
// windows with a dock, a movable toolbar and a control socket for scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode bool
	noSocket  bool
	themeName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuidesk",
		Short: "Terminal desktop of panel windows",
		Long: `tuidesk - Terminal desktop

Opens panels (dashboard, contacts, scheduler, notes, ...) as windows you
can drag, resize, maximize and minimize to a dock. A running desktop can
be driven from other shells with the open, close, pin and widget
commands.`,
		Example: `  # Run the desktop
  tuidesk

  # Open a second notes window from another shell
  tuidesk open notes --dup --title Scratch --prop text="hello"

  # Run as SSH server
  tuidesk ssh --port 2222

  # List all keybindings
  tuidesk keybinds list`,
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight)")
	rootCmd.Flags().BoolVar(&noSocket, "no-socket", false, "Do not listen on the control socket")

	var sshPort, sshHost, sshKeyPath string
	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run tuidesk as SSH server",
		Long: `Run tuidesk as an SSH server

Every connection gets its own desktop. The server generates a host key
automatically if not specified.`,
		Example: `  # Start on custom port
  tuidesk ssh --port 2222

  # Specify custom host key
  tuidesk ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSSHServer(cmd.Context(), sshHost, sshPort, sshKeyPath)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tuidesk configuration",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print configuration file path",
			RunE: func(*cobra.Command, []string) error {
				return printConfigPath()
			},
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit configuration in $EDITOR",
			Long: `Open the configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
			RunE: func(*cobra.Command, []string) error {
				return editConfigFile()
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Reset configuration to defaults",
			RunE: func(*cobra.Command, []string) error {
				return resetConfigToDefaults()
			},
		},
	)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}
	keybindsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all keybindings",
			RunE: func(*cobra.Command, []string) error {
				return listKeybindings()
			},
		},
		&cobra.Command{
			Use:   "list-custom",
			Short: "List customized keybindings",
			RunE: func(*cobra.Command, []string) error {
				return listCustomKeybindings()
			},
		},
	)

	panelsCmd := &cobra.Command{
		Use:   "panels",
		Short: "List the panels tuidesk can open",
		RunE: func(*cobra.Command, []string) error {
			return listPanels()
		},
	}

	rootCmd.AddCommand(sshCmd, configCmd, keybindsCmd, panelsCmd)
	rootCmd.AddCommand(remoteCommands()...)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
