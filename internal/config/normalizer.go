package config

import "strings"

var modifierOrder = []string{"ctrl", "alt", "shift", "super", "hyper", "meta"}

var keyAliases = map[string]string{
	"return": "enter",
	"enter":  "return",
	"escape": "esc",
	"esc":    "escape",
	" ":      "space",
	"space":  " ",
}

// KeyNormalizer maps user-written key strings onto the strings key press
// events report, e.g. "Ctrl+L" to "ctrl+l".
type KeyNormalizer struct {
	modifiers map[string]string
}

// NewKeyNormalizer creates a normalizer.
func NewKeyNormalizer() *KeyNormalizer {
	mods := make(map[string]string, len(modifierOrder)+2)
	for _, m := range modifierOrder {
		mods[m] = m
	}
	mods["control"] = "ctrl"
	mods["option"] = "alt"
	return &KeyNormalizer{modifiers: mods}
}

// splitKey separates modifiers from the key, allowing "+" itself as a key.
func splitKey(key string) ([]string, string) {
	if key == "+" {
		return nil, "+"
	}
	if strings.HasSuffix(key, "++") {
		return strings.Split(strings.TrimSuffix(key, "++"), "+"), "+"
	}
	parts := strings.Split(key, "+")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// NormalizeKey returns the canonical form of key followed by any alias.
// Modifiers are lower-cased and ordered; a bare single character keeps its
// case, so "M" stays distinct from "m".
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	if key == "" {
		return nil
	}
	mods, base := splitKey(key)

	present := map[string]bool{}
	for _, m := range mods {
		if canon, ok := n.modifiers[strings.ToLower(m)]; ok {
			present[canon] = true
		}
	}
	if len(present) > 0 || len(base) > 1 {
		base = strings.ToLower(base)
	}

	var ordered []string
	for _, m := range modifierOrder {
		if present[m] {
			ordered = append(ordered, m)
		}
	}
	join := func(b string) string {
		return strings.Join(append(append([]string{}, ordered...), b), "+")
	}

	out := []string{join(base)}
	if alias, ok := keyAliases[base]; ok {
		out = append(out, join(alias))
	}
	return out
}

// ValidateKey reports whether key is well formed, with a reason if not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if key == "" {
		return false, "is empty"
	}
	mods, base := splitKey(key)
	if base == "" || (base != " " && strings.TrimSpace(base) == "") {
		return false, "has no key"
	}
	for _, m := range mods {
		if _, ok := n.modifiers[strings.ToLower(m)]; !ok {
			return false, "has unknown modifier " + m
		}
	}
	return true, ""
}
