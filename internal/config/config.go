// Package config loads the user's TOML configuration: desk geometry,
// keybindings, disabled panels and logging.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/geom"
	"github.com/Gaurav-Gosain/tuidesk/internal/placement"
	"github.com/Gaurav-Gosain/tuidesk/internal/toolbar"
)

// Config is the complete user configuration.
type Config struct {
	Desk        DeskConfig        `toml:"desk"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Panels      PanelsConfig      `toml:"panels"`
	Log         LogConfig         `toml:"log"`
}

// DeskConfig holds window geometry and startup behaviour.
type DeskConfig struct {
	DefaultPanel   string            `toml:"default_panel"`
	StudioPanel    string            `toml:"studio_panel"`
	Theme          string            `toml:"theme"`
	AllowOffscreen bool              `toml:"allow_offscreen"`
	MinWidth       float64           `toml:"min_width"`
	MinHeight      float64           `toml:"min_height"`
	Placement      placement.Metrics `toml:"placement"`
	Toolbar        toolbar.Metrics   `toml:"toolbar"`
}

// MinSize is the smallest size a window can be resized to.
func (d DeskConfig) MinSize() geom.Size {
	return geom.Size{Width: d.MinWidth, Height: d.MinHeight}
}

// KeybindingsConfig maps actions to keys, grouped by section.
type KeybindingsConfig struct {
	Windows map[string][]string `toml:"windows"`
	Desk    map[string][]string `toml:"desk"`
	Panels  map[string][]string `toml:"panels"`
	System  map[string][]string `toml:"system"`
}

func (k *KeybindingsConfig) sections() []*map[string][]string {
	return []*map[string][]string{&k.Windows, &k.Desk, &k.Panels, &k.System}
}

// PanelsConfig controls which registered panels are offered.
type PanelsConfig struct {
	Disabled []string `toml:"disabled"`
}

// IsDisabled reports whether id is switched off.
func (p PanelsConfig) IsDisabled(id string) bool {
	for _, d := range p.Disabled {
		if d == id {
			return true
		}
	}
	return false
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ParsedLevel returns the configured level, defaulting to info.
func (l LogConfig) ParsedLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// DefaultConfig returns the built-in configuration. Geometry is in
// terminal cells.
func DefaultConfig() *Config {
	return &Config{
		Desk: DeskConfig{
			DefaultPanel: "dashboard",
			StudioPanel:  "studio",
			MinWidth:     20,
			MinHeight:    6,
			Placement:    placement.CellMetrics(),
			Toolbar:      toolbar.CellMetrics(),
		},
		Keybindings: KeybindingsConfig{
			Windows: map[string][]string{
				"focus_next":      {"tab"},
				"focus_prev":      {"shift+tab"},
				"minimize_window": {"m"},
				"maximize_window": {"f"},
				"close_window":    {"x"},
				"move_left":       {"h", "left"},
				"move_right":      {"l", "right"},
				"move_up":         {"k", "up"},
				"move_down":       {"j", "down"},
			},
			Desk: map[string][]string{
				"dock_all":         {"D"},
				"restore_all":      {"M"},
				"reset_layout":     {"R"},
				"pin_window":       {"p"},
				"toggle_offscreen": {"o"},
			},
			Panels: map[string][]string{
				"launch_1":         {"1"},
				"launch_2":         {"2"},
				"launch_3":         {"3"},
				"launch_4":         {"4"},
				"launch_5":         {"5"},
				"launch_6":         {"6"},
				"launch_7":         {"7"},
				"launch_8":         {"8"},
				"launch_9":         {"9"},
				"duplicate_window": {"d"},
				"add_widget":       {"w"},
			},
			System: map[string][]string{
				"toggle_logs": {"ctrl+l"},
				"toggle_help": {"?"},
				"quit":        {"q", "ctrl+c"},
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// GetConfigPath returns $XDG_CONFIG_HOME/tuidesk/config.toml, creating the
// directory if needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("tuidesk", "config.toml"))
}

// LoadUserConfig loads the user's config file, writing the defaults there
// on first run.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := WriteDefault(path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load reads path over the defaults. Keybinding actions missing from the
// file keep their default keys; an explicit empty list unbinds them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Keybindings = KeybindingsConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := DefaultConfig().Keybindings
	got := cfg.Keybindings.sections()
	for i, section := range defaults.sections() {
		if *got[i] == nil {
			*got[i] = make(map[string][]string)
		}
		for action, keys := range *section {
			if _, ok := (*got[i])[action]; !ok {
				(*got[i])[action] = keys
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks geometry values and key syntax.
func (c *Config) Validate() error {
	var problems []string
	p := c.Desk.Placement
	if p.SpanX <= 0 || p.SpanY <= 0 {
		problems = append(problems, "desk.placement spans must be positive")
	}
	if p.DefaultWidth <= 0 || p.DefaultHeight <= 0 {
		problems = append(problems, "desk.placement default size must be positive")
	}
	if c.Desk.MinWidth <= 0 || c.Desk.MinHeight <= 0 {
		problems = append(problems, "desk min size must be positive")
	}

	n := NewKeyNormalizer()
	for _, section := range c.Keybindings.sections() {
		for action, keys := range *section {
			for _, key := range keys {
				if ok, reason := n.ValidateKey(key); !ok {
					problems = append(problems, fmt.Sprintf("keybindings.%s: %q %s", action, key, reason))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Marshal renders cfg as a commented TOML document.
func Marshal(cfg *Config, path string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# tuidesk configuration\n")
	buf.WriteString("# Geometry is measured in terminal cells.\n")
	buf.WriteString("# Keybindings map an action to a list of keys; an empty list unbinds it.\n")
	if path != "" {
		buf.WriteString("#\n# Location: " + path + "\n")
	}
	buf.WriteString("\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	buf.Write(data)
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := Marshal(DefaultConfig(), path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
