package config

import (
	"sort"
	"strings"
)

// KeybindRegistry resolves key presses to actions and back.
type KeybindRegistry struct {
	actionKeys map[string][]string
	keyAction  map[string]string
	normalizer *KeyNormalizer
}

// NewKeybindRegistry indexes every keybinding section of cfg. When two
// actions claim the same key the first in sorted action order wins.
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	r := &KeybindRegistry{
		actionKeys: make(map[string][]string),
		keyAction:  make(map[string]string),
		normalizer: NewKeyNormalizer(),
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	for _, section := range cfg.Keybindings.sections() {
		for action, keys := range *section {
			r.actionKeys[action] = append([]string(nil), keys...)
		}
	}

	for _, action := range r.Actions() {
		for _, key := range r.actionKeys[action] {
			for _, k := range r.normalizer.NormalizeKey(key) {
				if _, taken := r.keyAction[k]; !taken {
					r.keyAction[k] = action
				}
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action as written in the config.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if action, ok := r.keyAction[key]; ok {
		return action
	}
	for _, k := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyAction[k]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay formats action's keys for help screens, e.g. "Ctrl+L".
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionKeys[action]
	if len(keys) == 0 {
		return ""
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = displayKey(k)
	}
	return strings.Join(out, ", ")
}

// Actions lists every configured action, sorted.
func (r *KeybindRegistry) Actions() []string {
	actions := make([]string, 0, len(r.actionKeys))
	for a := range r.actionKeys {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

func displayKey(key string) string {
	mods, base := splitKey(key)
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, capitalize(strings.ToLower(m)))
	}
	switch {
	case len(base) > 1:
		base = capitalize(strings.ToLower(base))
	case len(mods) > 0:
		base = strings.ToUpper(base)
	}
	return strings.Join(append(parts, base), "+")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
