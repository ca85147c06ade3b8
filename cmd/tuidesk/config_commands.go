package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/panels"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// newTable builds the rounded table used by every listing command.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printConfigPath() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func editConfigFile() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Config file doesn't exist, creating default at: %s\n", configPath)
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor := findEditor()
	if editor == "" {
		return errors.New("no editor found, please set $EDITOR")
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	if _, err := config.Load(configPath); err != nil {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Warning: "+err.Error()))
	}
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("could not determine config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Warning: This will overwrite your existing configuration at:\n")
		fmt.Printf("  %s\n\n", configPath)
		fmt.Printf("Are you sure you want to reset to defaults? (yes/no): ")

		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := config.WriteDefault(configPath); err != nil {
		return err
	}
	fmt.Printf("Configuration reset to defaults\n")
	fmt.Printf("  Location: %s\n", configPath)
	fmt.Println("\nYou can customize it with: tuidesk config edit")
	return nil
}

func listKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default keybindings...")
		userConfig = config.DefaultConfig()
	}
	keys := config.NewKeybindRegistry(userConfig)

	fmt.Println()
	fmt.Println(titleStyle.Render("tuidesk Keybindings"))
	fmt.Println()

	for _, group := range config.ActionGroups() {
		var rows [][]string
		for _, action := range group.Actions {
			display := keys.GetKeysForDisplay(action)
			if display == "" {
				continue
			}
			rows = append(rows, []string{display, describe(action)})
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Println(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render(group.Title))
		fmt.Println(newTable("Keys", "Action").Rows(rows...).Render())
		fmt.Println()
	}
	return nil
}

// Customization is a keybinding that differs from the defaults.
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// findCustomizations lists actions whose keys differ from the defaults,
// sorted by action.
func findCustomizations(userCfg, defaultCfg *config.Config) []Customization {
	var out []Customization
	compare := func(user, def map[string][]string) {
		for action, defKeys := range def {
			userKeys, ok := user[action]
			if !ok || slices.Equal(userKeys, defKeys) {
				continue
			}
			out = append(out, Customization{
				Action:      action,
				DefaultKeys: strings.Join(defKeys, ", "),
				CustomKeys:  strings.Join(userKeys, ", "),
			})
		}
	}
	u, d := userCfg.Keybindings, defaultCfg.Keybindings
	compare(u.Windows, d.Windows)
	compare(u.Desk, d.Desk)
	compare(u.Panels, d.Panels)
	compare(u.System, d.System)

	slices.SortFunc(out, func(a, b Customization) int { return strings.Compare(a.Action, b.Action) })
	return out
}

func listCustomKeybindings() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	custom := findCustomizations(userConfig, config.DefaultConfig())
	if len(custom) == 0 {
		fmt.Println(mutedStyle.Render("No custom keybindings configured. All keybindings are using defaults."))
		fmt.Println()
		fmt.Println("Run 'tuidesk keybinds list' to see all keybindings.")
		return nil
	}

	rows := make([][]string, 0, len(custom))
	for _, c := range custom {
		unbound := c.CustomKeys
		if unbound == "" {
			unbound = mutedStyle.Render("(unbound)")
		}
		rows = append(rows, []string{describe(c.Action), c.DefaultKeys, unbound})
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Custom Keybindings"))
	fmt.Println()
	fmt.Println(newTable("Action", "Default", "Custom").Rows(rows...).Render())
	fmt.Println()
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("11")).
		Render(fmt.Sprintf("Found %d customized keybinding(s)", len(custom))))
	return nil
}

func describe(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}

func listPanels() error {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		userConfig = config.DefaultConfig()
	}
	profile := colorprofile.Detect(os.Stdout, os.Environ())

	keys := config.NewKeybindRegistry(userConfig)

	var rows [][]string
	launch := 0
	for _, e := range panels.Builtins(panels.Options{Profile: profile}) {
		if userConfig.Panels.IsDisabled(e.ID) {
			rows = append(rows, []string{e.Icon, e.ID, e.Title, mutedStyle.Render("disabled"), ""})
			continue
		}
		launch++
		key := ""
		if launch <= 9 {
			key = keys.GetKeysForDisplay(config.LaunchAction(launch))
		}
		rows = append(rows, []string{e.Icon, e.ID, e.Title, "enabled", key})
	}
	fmt.Println(newTable("", "ID", "Title", "Status", "Launch").Rows(rows...).Render())
	return nil
}
