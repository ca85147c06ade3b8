package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// HelpSections lists the help overlay content. Action sections come from
// the registry so user rebinding shows up; mouse help is static.
func HelpSections(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	var sections []KeybindingSection
	for _, group := range ActionGroups() {
		section := KeybindingSection{Title: group.Title}
		for _, action := range group.Actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return append(sections, mouseHelp())
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// ActionGroup is a titled list of actions, in display order.
type ActionGroup struct {
	Title   string
	Actions []string
}

// ActionGroups returns every action grouped for help and CLI listings.
func ActionGroups() []ActionGroup {
	launch := make([]string, 0, 9)
	for i := 1; i <= 9; i++ {
		launch = append(launch, LaunchAction(i))
	}
	return []ActionGroup{
		{
			Title: "Windows",
			Actions: []string{
				"focus_next", "focus_prev", "minimize_window", "maximize_window",
				"close_window", "move_left", "move_right", "move_up", "move_down",
			},
		},
		{
			Title:   "Desk",
			Actions: []string{"dock_all", "restore_all", "reset_layout", "pin_window", "toggle_offscreen"},
		},
		{
			Title:   "Panels",
			Actions: append(launch, "duplicate_window", "add_widget"),
		},
		{
			Title:   "System",
			Actions: []string{"toggle_logs", "toggle_help", "quit"},
		},
	}
}

func mouseHelp() KeybindingSection {
	return KeybindingSection{
		Title: "Mouse",
		Bindings: []Keybinding{
			{"Click", "Focus window"},
			{"Drag title bar", "Move window"},
			{"Right-drag", "Resize from nearest corner"},
			{"Title buttons", "Minimize, maximize, close"},
			{"Click dock item", "Restore window"},
			{"Drag toolbar grip", "Move toolbar"},
		},
	}
}
